package summarize_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"smartvision/internal/domain/entity"
	"smartvision/internal/infra/summarizer"
	"smartvision/internal/usecase/summarize"
)

/* ───────── スタブ実装 ───────── */

type recordingMetrics struct {
	mu          sync.Mutex
	outcomes    map[summarizer.Outcome]int
	rejected    map[string]int
	compression []int
	durations   int
}

func newRecordingMetrics() *recordingMetrics {
	return &recordingMetrics{outcomes: map[summarizer.Outcome]int{}, rejected: map[string]int{}}
}

func (m *recordingMetrics) RecordOutcome(o summarizer.Outcome) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.outcomes[o]++
}
func (m *recordingMetrics) RecordRejected(reason string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rejected[reason]++
}
func (m *recordingMetrics) RecordCompression(rate int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.compression = append(m.compression, rate)
}
func (m *recordingMetrics) RecordSentences(int) {}
func (m *recordingMetrics) RecordDuration(time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.durations++
}

// panicky always faults in the scoring pipeline and the fallback.
type panicky struct{}

func (panicky) Summarize(input string) summarizer.Result {
	return summarizer.Result{Summary: input, Outcome: summarizer.OutcomeFailed, Cause: errors.New("boom")}
}
func (panicky) Config() summarizer.Config { return summarizer.DefaultConfig() }

type stubPages struct {
	pages []string
	err   error
}

func (s *stubPages) Get(_ context.Context, id int64) (*entity.Document, error) {
	return &entity.Document{ID: id, PageCount: len(s.pages)}, s.err
}
func (s *stubPages) PageText(_ context.Context, _ int64, page int) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	if page < 1 || page > len(s.pages) {
		return "", entity.ErrPageOutOfRange
	}
	return s.pages[page-1], nil
}
func (s *stubPages) PageTexts(context.Context, int64) ([]string, error) {
	return s.pages, s.err
}

func newTracer() (*tracetest.InMemoryExporter, *sdktrace.TracerProvider) {
	exporter := tracetest.NewInMemoryExporter()
	return exporter, sdktrace.NewTracerProvider(sdktrace.WithSyncer(exporter))
}

func newService(pages ...string) (*summarize.Service, *recordingMetrics, *tracetest.InMemoryExporter) {
	exporter, tp := newTracer()
	m := newRecordingMetrics()
	return &summarize.Service{
		Summarizer: summarizer.NewDefault(),
		Documents:  &stubPages{pages: pages},
		Metrics:    m,
		Tracer:     tp.Tracer("test"),
	}, m, exporter
}

/* ───────── Summarize ───────── */

func TestSummarize_MissingText(t *testing.T) {
	svc, m, _ := newService()

	res, err := svc.Summarize(context.Background(), "")

	assert.Nil(t, res)
	assert.ErrorIs(t, err, summarize.ErrTextRequired)
	assert.Equal(t, 1, m.rejected["missing"])
}

func TestSummarize_TooShortEchoesText(t *testing.T) {
	svc, m, _ := newService()

	res, err := svc.Summarize(context.Background(), "Hi there")

	assert.Nil(t, res)
	var tooShort *summarize.TooShortError
	require.ErrorAs(t, err, &tooShort)
	assert.Equal(t, "Hi there", tooShort.Text)
	assert.Equal(t, 8, tooShort.Length)
	assert.Equal(t, 10, tooShort.Min)
	assert.Equal(t, 1, m.rejected["too_short"])
	assert.Zero(t, m.durations, "summarizer must not run")
}

func TestSummarize_LengthCountsCharactersNotBytes(t *testing.T) {
	svc, _, _ := newService()

	// 9 runes, 27 bytes
	_, err := svc.Summarize(context.Background(), "これは短い文です。")

	var tooShort *summarize.TooShortError
	require.ErrorAs(t, err, &tooShort)
	assert.Equal(t, 9, tooShort.Length)
}

func TestSummarize_ExactlyMinimumLength(t *testing.T) {
	svc, m, _ := newService()

	res, err := svc.Summarize(context.Background(), "0123456789")

	require.NoError(t, err)
	assert.Equal(t, "0123456789", res.Summary)
	assert.Equal(t, summarizer.OutcomeUnchanged, res.Outcome)
	assert.Equal(t, 1, m.outcomes[summarizer.OutcomeUnchanged])
}

func TestSummarize_RecordsMetricsAndSpan(t *testing.T) {
	svc, m, exporter := newService()

	res, err := svc.Summarize(context.Background(), "A. B. C. D.")

	require.NoError(t, err)
	assert.Equal(t, "A. D.", res.Summary)
	assert.Equal(t, 55, res.CompressionRate)
	assert.Equal(t, 1, m.outcomes[summarizer.OutcomeSummarized])
	assert.Equal(t, []int{55}, m.compression)
	assert.Equal(t, 1, m.durations)

	spans := exporter.GetSpans()
	require.Len(t, spans, 1)
	assert.Equal(t, "summarize.Summarize", spans[0].Name)
	attrs := map[string]any{}
	for _, kv := range spans[0].Attributes {
		attrs[string(kv.Key)] = kv.Value.AsInterface()
	}
	assert.Equal(t, "summarized", attrs["summarize.outcome"])
	assert.Equal(t, int64(55), attrs["summarize.compression_rate"])
	assert.Equal(t, int64(4), attrs["summarize.sentences"])
}

func TestSummarize_IdentityFailureIsNotAnError(t *testing.T) {
	exporter, tp := newTracer()
	m := newRecordingMetrics()
	svc := &summarize.Service{Summarizer: panicky{}, Metrics: m, Tracer: tp.Tracer("test")}

	res, err := svc.Summarize(context.Background(), "Some long enough text.")

	require.NoError(t, err)
	assert.Equal(t, "Some long enough text.", res.Summary)
	assert.Equal(t, summarizer.IdentityErrorMessage, res.ErrorMessage())
	assert.Equal(t, 1, m.outcomes[summarizer.OutcomeFailed])

	spans := exporter.GetSpans()
	require.Len(t, spans, 1)
	assert.Equal(t, codes.Error, spans[0].Status.Code)
	assert.NotEmpty(t, spans[0].Events, "fault is recorded on the span")
}

func TestSummarize_NilMetricsUsesNoOp(t *testing.T) {
	svc := &summarize.Service{Summarizer: summarizer.NewDefault()}

	res, err := svc.Summarize(context.Background(), "A. B. C. D.")

	require.NoError(t, err)
	assert.Equal(t, "A. D.", res.Summary)
}

/* ───────── SummarizeDocument ───────── */

func TestSummarizeDocument_AllPagesInOrder(t *testing.T) {
	pages := []string{
		"A. B. C. D.",
		"short",
		"One idea. Two ideas. Three ideas. Four ideas. Five ideas.",
	}
	svc, m, exporter := newService(pages...)
	svc.Concurrency = 2

	out, err := svc.SummarizeDocument(context.Background(), 7, 0)

	require.NoError(t, err)
	assert.Equal(t, int64(7), out.DocumentID)
	require.Len(t, out.Pages, 3)
	for i, p := range out.Pages {
		assert.Equal(t, i+1, p.Page)
	}
	assert.Equal(t, "A. D.", out.Pages[0].Summary)
	assert.True(t, out.Pages[1].TooShort)
	assert.Equal(t, "short", out.Pages[1].Summary)
	assert.Equal(t, summarizer.OutcomeSummarized, out.Pages[2].Outcome)
	assert.Equal(t, 1, m.rejected["too_short"])

	names := []string{}
	for _, s := range exporter.GetSpans() {
		names = append(names, s.Name)
	}
	assert.Contains(t, names, "summarize.SummarizeDocument")
}

func TestSummarizeDocument_SinglePage(t *testing.T) {
	svc, _, _ := newService("First page here.", "A. B. C. D.")

	out, err := svc.SummarizeDocument(context.Background(), 1, 2)

	require.NoError(t, err)
	require.Len(t, out.Pages, 1)
	assert.Equal(t, 2, out.Pages[0].Page)
	assert.Equal(t, "A. D.", out.Pages[0].Summary)
}

func TestSummarizeDocument_Errors(t *testing.T) {
	svc, _, _ := newService("only page.")

	_, err := svc.SummarizeDocument(context.Background(), 1, 5)
	assert.ErrorIs(t, err, entity.ErrPageOutOfRange)

	_, err = svc.SummarizeDocument(context.Background(), 1, -1)
	assert.ErrorIs(t, err, entity.ErrPageOutOfRange)

	svc.Documents = &stubPages{err: fmt.Errorf("get document: %w", entity.ErrDatabaseUnavailable)}
	_, err = svc.SummarizeDocument(context.Background(), 1, 0)
	assert.ErrorIs(t, err, entity.ErrDatabaseUnavailable)
}

func TestSummarizeDocument_CancelledContext(t *testing.T) {
	svc, _, _ := newService("A. B. C. D.", "E. F. G. H.")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := svc.SummarizeDocument(ctx, 1, 0)

	assert.ErrorIs(t, err, context.Canceled)
}

func TestSummarizeDocument_EmptyDocument(t *testing.T) {
	svc, _, _ := newService()

	out, err := svc.SummarizeDocument(context.Background(), 3, 0)

	require.NoError(t, err)
	assert.Empty(t, out.Pages)
}
