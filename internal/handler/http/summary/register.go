package summary

import (
	"net/http"

	sumUC "smartvision/internal/usecase/summarize"
)

// Options configures the summary routes.
type Options struct {
	// MaxBodyBytes caps the JSON body of POST /api/pdf/summarize.
	MaxBodyBytes int64
	// RateLimit wraps both routes; nil disables limiting.
	RateLimit func(http.Handler) http.Handler
	// DocumentTimeout wraps the document route, which may summarize many pages.
	DocumentTimeout func(http.Handler) http.Handler
}

// Register registers the summary handlers with the given mux.
func Register(mux *http.ServeMux, svc *sumUC.Service, opts Options) {
	wrap := func(h http.Handler) http.Handler {
		if opts.RateLimit != nil {
			return opts.RateLimit(h)
		}
		return h
	}

	var doc http.Handler = DocumentHandler{svc}
	if opts.DocumentTimeout != nil {
		doc = opts.DocumentTimeout(doc)
	}

	mux.Handle("POST   /api/pdf/summarize", wrap(SummarizeHandler{Svc: svc, MaxBodyBytes: opts.MaxBodyBytes}))
	mux.Handle("GET    /api/pdf/summary/{id}", wrap(doc))
}
