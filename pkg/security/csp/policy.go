// Package csp builds Content-Security-Policy header values.
//
// A Policy is assembled with chained directive setters and rendered once with
// Build. Directives are always emitted in the same order so header values are
// stable across requests and easy to assert in tests.
//
//	p := csp.New().
//	    DefaultSrc(csp.Self).
//	    WorkerSrc(csp.Self, csp.Blob)
//	p.Build() // "default-src 'self'; worker-src 'self' blob:"
package csp

import "strings"

// Common source expressions.
const (
	Self         = "'self'"
	None         = "'none'"
	UnsafeInline = "'unsafe-inline'"
	Data         = "data:"
	Blob         = "blob:"
)

const (
	headerEnforce    = "Content-Security-Policy"
	headerReportOnly = "Content-Security-Policy-Report-Only"
)

var directiveOrder = []string{
	"default-src",
	"script-src",
	"style-src",
	"img-src",
	"font-src",
	"connect-src",
	"worker-src",
	"frame-src",
	"object-src",
	"frame-ancestors",
	"base-uri",
	"form-action",
}

// Policy is a set of CSP directives. It is not safe for concurrent mutation;
// build it at startup and share only the rendered string.
type Policy struct {
	directives map[string][]string
	reportOnly bool
}

// New returns an empty policy.
func New() *Policy {
	return &Policy{directives: make(map[string][]string)}
}

func (p *Policy) set(name string, sources []string) *Policy {
	p.directives[name] = append([]string(nil), sources...)
	return p
}

// DefaultSrc sets default-src, the fallback for every fetch directive left unset.
func (p *Policy) DefaultSrc(sources ...string) *Policy { return p.set("default-src", sources) }

func (p *Policy) ScriptSrc(sources ...string) *Policy  { return p.set("script-src", sources) }
func (p *Policy) StyleSrc(sources ...string) *Policy   { return p.set("style-src", sources) }
func (p *Policy) ImgSrc(sources ...string) *Policy     { return p.set("img-src", sources) }
func (p *Policy) FontSrc(sources ...string) *Policy    { return p.set("font-src", sources) }
func (p *Policy) ConnectSrc(sources ...string) *Policy { return p.set("connect-src", sources) }

// WorkerSrc sets worker-src. The PDF viewer runs its parser in a worker that
// may be loaded from a blob: URL.
func (p *Policy) WorkerSrc(sources ...string) *Policy { return p.set("worker-src", sources) }

func (p *Policy) FrameSrc(sources ...string) *Policy  { return p.set("frame-src", sources) }
func (p *Policy) ObjectSrc(sources ...string) *Policy { return p.set("object-src", sources) }

// FrameAncestors sets frame-ancestors, which controls who may embed the response.
func (p *Policy) FrameAncestors(sources ...string) *Policy {
	return p.set("frame-ancestors", sources)
}

func (p *Policy) BaseURI(sources ...string) *Policy    { return p.set("base-uri", sources) }
func (p *Policy) FormAction(sources ...string) *Policy { return p.set("form-action", sources) }

// ReportOnly switches the header to Content-Security-Policy-Report-Only.
func (p *Policy) ReportOnly(enabled bool) *Policy {
	p.reportOnly = enabled
	return p
}

// Clone returns an independent copy of p.
func (p *Policy) Clone() *Policy {
	c := &Policy{directives: make(map[string][]string, len(p.directives)), reportOnly: p.reportOnly}
	for k, v := range p.directives {
		c.directives[k] = append([]string(nil), v...)
	}
	return c
}

// Build renders the header value. Directives without sources are omitted, and
// an empty policy renders as "".
func (p *Policy) Build() string {
	parts := make([]string, 0, len(p.directives))
	for _, name := range directiveOrder {
		sources := p.directives[name]
		if len(sources) == 0 {
			continue
		}
		parts = append(parts, name+" "+strings.Join(sources, " "))
	}
	return strings.Join(parts, "; ")
}

// HeaderName returns the header the policy must be sent in.
func (p *Policy) HeaderName() string {
	if p.reportOnly {
		return headerReportOnly
	}
	return headerEnforce
}

// APIPolicy is for JSON responses: nothing may be loaded or framed.
func APIPolicy() *Policy {
	return New().
		DefaultSrc(None).
		FrameAncestors(None).
		BaseURI(None).
		FormAction(None)
}

// AppPolicy is for the single-page front end. It loads uploaded PDFs from the
// same origin and renders them with a worker-based viewer.
func AppPolicy() *Policy {
	return New().
		DefaultSrc(Self).
		ScriptSrc(Self).
		StyleSrc(Self, UnsafeInline).
		ImgSrc(Self, Data, Blob).
		FontSrc(Self, Data).
		ConnectSrc(Self).
		WorkerSrc(Self, Blob).
		FrameSrc(Self).
		ObjectSrc(Self).
		FrameAncestors(None).
		BaseURI(Self).
		FormAction(Self)
}

// DocumentPolicy is for uploaded PDFs. Only the front end may embed them.
func DocumentPolicy() *Policy {
	return New().
		DefaultSrc(None).
		FrameAncestors(Self)
}

// SwaggerUIPolicy is for /swagger/. The UI assets are served locally but its
// index page bootstraps with inline script and style.
func SwaggerUIPolicy() *Policy {
	return New().
		DefaultSrc(Self).
		ScriptSrc(Self, UnsafeInline).
		StyleSrc(Self, UnsafeInline).
		ImgSrc(Self, Data).
		FontSrc(Self, Data).
		ConnectSrc(Self).
		FrameAncestors(None).
		BaseURI(Self).
		FormAction(Self).
		ObjectSrc(None)
}
