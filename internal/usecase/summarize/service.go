package summarize

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"smartvision/internal/domain/entity"
	"smartvision/internal/infra/summarizer"
	"smartvision/internal/utils/text"
)

// DefaultConcurrency bounds parallel page summarization.
const DefaultConcurrency = 4

const tracerName = "smartvision/usecase/summarize"

// Summarizer is satisfied by *summarizer.Extractive.
type Summarizer interface {
	Summarize(input string) summarizer.Result
	Config() summarizer.Config
}

// DocumentPages gives access to the text of stored documents.
type DocumentPages interface {
	Get(ctx context.Context, id int64) (*entity.Document, error)
	PageText(ctx context.Context, id int64, page int) (string, error)
	PageTexts(ctx context.Context, id int64) ([]string, error)
}

// PageSummary is the summary of one page.
type PageSummary struct {
	Page int
	summarizer.Result
	// TooShort is set when the page text was below the minimum length and is
	// echoed as the summary.
	TooShort bool
}

// DocumentSummary holds page summaries in page order.
type DocumentSummary struct {
	DocumentID int64
	Pages      []PageSummary
}

// Service summarizes free text and stored documents.
type Service struct {
	Summarizer Summarizer
	Documents  DocumentPages
	Metrics    summarizer.MetricsRecorder
	Tracer     trace.Tracer
	Logger     *slog.Logger

	// Concurrency bounds parallel page work; zero means DefaultConcurrency.
	Concurrency int
}

func (s *Service) metrics() summarizer.MetricsRecorder {
	if s.Metrics != nil {
		return s.Metrics
	}
	return summarizer.NoOpMetrics{}
}

func (s *Service) tracer() trace.Tracer {
	if s.Tracer != nil {
		return s.Tracer
	}
	return otel.Tracer(tracerName)
}

func (s *Service) logger() *slog.Logger {
	if s.Logger != nil {
		return s.Logger
	}
	return slog.Default()
}

// Validate applies the input rules: empty text is ErrTextRequired, text shorter than
// the configured minimum is a *TooShortError.
func (s *Service) Validate(input string) error {
	if input == "" {
		return ErrTextRequired
	}
	minLen := s.Summarizer.Config().MinTextLength
	if n := text.CountRunes(input); n < minLen {
		return &TooShortError{Text: input, Length: n, Min: minLen}
	}
	return nil
}

// Summarize validates input and summarizes it. Degraded results (fallback or
// identity) are returned as results, not errors.
func (s *Service) Summarize(ctx context.Context, input string) (*summarizer.Result, error) {
	_, span := s.tracer().Start(ctx, "summarize.Summarize")
	defer span.End()
	span.SetAttributes(attribute.Int("text.length", text.CountRunes(input)))

	if err := s.Validate(input); err != nil {
		s.reject(err)
		span.SetAttributes(attribute.String("summarize.rejected", err.Error()))
		return nil, err
	}

	res := s.run(input)

	span.SetAttributes(
		attribute.String("summarize.outcome", string(res.Outcome)),
		attribute.Int("summarize.sentences", res.SentenceCount),
	)
	if res.HasMetrics() {
		span.SetAttributes(attribute.Int("summarize.compression_rate", res.CompressionRate))
	}
	if res.Cause != nil {
		span.RecordError(res.Cause)
		s.logger().Warn("summarizer degraded",
			slog.String("outcome", string(res.Outcome)),
			slog.Any("error", res.Cause))
	}
	if res.Outcome == summarizer.OutcomeFailed {
		span.SetStatus(codes.Error, summarizer.IdentityErrorMessage)
	}
	return &res, nil
}

// run calls the summarizer and records metrics for the result.
func (s *Service) run(input string) summarizer.Result {
	m := s.metrics()
	start := time.Now()
	res := s.Summarizer.Summarize(input)
	m.RecordDuration(time.Since(start))
	m.RecordOutcome(res.Outcome)
	if res.Outcome == summarizer.OutcomeSummarized || res.Outcome == summarizer.OutcomeUnchanged {
		m.RecordSentences(res.SentenceCount)
	}
	if res.HasMetrics() {
		m.RecordCompression(res.CompressionRate)
	}
	return res
}

func (s *Service) reject(err error) {
	var tooShort *TooShortError
	switch {
	case errors.Is(err, ErrTextRequired):
		s.metrics().RecordRejected("missing")
	case errors.As(err, &tooShort):
		s.metrics().RecordRejected("too_short")
	}
}

// SummarizeDocument summarizes one page (page >= 1) or every page (page == 0) of a
// stored document. Pages are summarized independently and concurrently; results
// come back in page order.
func (s *Service) SummarizeDocument(ctx context.Context, id int64, page int) (*DocumentSummary, error) {
	ctx, span := s.tracer().Start(ctx, "summarize.SummarizeDocument",
		trace.WithAttributes(attribute.Int64("document.id", id), attribute.Int("document.page", page)))
	defer span.End()

	if page < 0 {
		return nil, fmt.Errorf("%w: page %d", entity.ErrPageOutOfRange, page)
	}

	var (
		texts []string
		first = 1
	)
	if page > 0 {
		t, err := s.Documents.PageText(ctx, id, page)
		if err != nil {
			span.RecordError(err)
			return nil, err
		}
		texts, first = []string{t}, page
	} else {
		all, err := s.Documents.PageTexts(ctx, id)
		if err != nil {
			span.RecordError(err)
			return nil, err
		}
		texts = all
	}

	out := &DocumentSummary{DocumentID: id, Pages: make([]PageSummary, len(texts))}

	limit := s.Concurrency
	if limit <= 0 {
		limit = DefaultConcurrency
	}
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)
	for i, t := range texts {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			out.Pages[i] = s.summarizePage(first+i, t)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		span.RecordError(err)
		return nil, err
	}

	span.SetAttributes(attribute.Int("document.pages_summarized", len(texts)))
	return out, nil
}

// summarizePage never fails: short pages echo their text, like short free text.
func (s *Service) summarizePage(page int, input string) PageSummary {
	if err := s.Validate(input); err != nil {
		s.reject(err)
		return PageSummary{Page: page, TooShort: true, Result: summarizer.Result{
			Summary: input,
			Outcome: summarizer.OutcomeUnchanged,
		}}
	}
	return PageSummary{Page: page, Result: s.run(input)}
}
