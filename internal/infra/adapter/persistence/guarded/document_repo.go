// Package guarded decorates repositories with a circuit breaker so a failing
// database is reported as unavailable instead of being hammered. Every call
// is timed into db_query_duration_seconds.
package guarded

import (
	"context"
	"errors"
	"fmt"
	"time"

	"smartvision/internal/domain/entity"
	"smartvision/internal/observability/metrics"
	"smartvision/internal/repository"
	"smartvision/internal/resilience/circuitbreaker"
	"smartvision/internal/resilience/retry"
)

// DocumentRepo wraps a DocumentRepository with a circuit breaker.
type DocumentRepo struct {
	inner repository.DocumentRepository
	cb    *circuitbreaker.CircuitBreaker
}

// NewDocumentRepo wraps inner with a breaker built from circuitbreaker.DBConfig.
// Missing rows and cancelled requests do not count as failures.
func NewDocumentRepo(inner repository.DocumentRepository) *DocumentRepo {
	cfg := circuitbreaker.DBConfig()
	cfg.IsSuccessful = isSuccessful
	return NewDocumentRepoWithBreaker(inner, circuitbreaker.New(cfg))
}

// NewDocumentRepoWithBreaker wraps inner with the given breaker.
func NewDocumentRepoWithBreaker(inner repository.DocumentRepository, cb *circuitbreaker.CircuitBreaker) *DocumentRepo {
	return &DocumentRepo{inner: inner, cb: cb}
}

var _ repository.DocumentRepository = (*DocumentRepo)(nil)

func isSuccessful(err error) bool {
	return err == nil ||
		errors.Is(err, entity.ErrNotFound) ||
		errors.Is(err, context.Canceled)
}

// classify marks breaker rejections and transient connection failures as
// entity.ErrDatabaseUnavailable.
func classify(err error) error {
	if err == nil {
		return nil
	}
	if circuitbreaker.IsRejected(err) || retry.IsRetryable(err) {
		return fmt.Errorf("%w: %w", entity.ErrDatabaseUnavailable, err)
	}
	return err
}

// call runs fn through the breaker and records its duration under op.
func call[T any](r *DocumentRepo, op string, fn func() (T, error)) (T, error) {
	start := time.Now()
	v, err := circuitbreaker.Do(r.cb, fn)
	err = classify(err)
	metrics.RecordDBQuery(op, time.Since(start), err)
	return v, err
}

func (r *DocumentRepo) Get(ctx context.Context, id int64) (*entity.Document, error) {
	return call(r, "get_document", func() (*entity.Document, error) {
		return r.inner.Get(ctx, id)
	})
}

func (r *DocumentRepo) List(ctx context.Context) ([]*entity.Document, error) {
	return call(r, "list_documents", func() ([]*entity.Document, error) {
		return r.inner.List(ctx)
	})
}

func (r *DocumentRepo) FindByName(ctx context.Context, name string) (*entity.Document, error) {
	return call(r, "find_document", func() (*entity.Document, error) {
		return r.inner.FindByName(ctx, name)
	})
}

func (r *DocumentRepo) Create(ctx context.Context, doc *entity.Document) error {
	_, err := call(r, "create_document", func() (struct{}, error) {
		return struct{}{}, r.inner.Create(ctx, doc)
	})
	return err
}

func (r *DocumentRepo) Delete(ctx context.Context, id int64) error {
	_, err := call(r, "delete_document", func() (struct{}, error) {
		return struct{}{}, r.inner.Delete(ctx, id)
	})
	return err
}

func (r *DocumentRepo) ExistingFilenames(ctx context.Context, filenames []string) (map[string]bool, error) {
	return call(r, "existing_filenames", func() (map[string]bool, error) {
		return r.inner.ExistingFilenames(ctx, filenames)
	})
}
