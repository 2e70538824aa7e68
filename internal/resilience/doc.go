// Package resilience groups the fault tolerance helpers used around the document
// store: circuit breakers (circuitbreaker) and retry with exponential backoff (retry).
//
//	cb := circuitbreaker.New(circuitbreaker.DBConfig())
//	docs, err := circuitbreaker.Do(cb, func() ([]*entity.Document, error) {
//	    return repo.List(ctx)
//	})
//
//	err := retry.WithBackoff(ctx, retry.DBConnectConfig(), func() error {
//	    return db.PingContext(ctx)
//	})
package resilience
