package storeinfra

import (
	"errors"
	"time"

	"github.com/goliatone/go-newsnet/store"
	"go.uber.org/zap"
)

// Operation labels reported to the QueryObserver.
const (
	opQuery     = "query"
	opCount     = "count"
	opIncrement = "increment"
)

// QueryObserver receives the outcome of every statement sent to the store.
type QueryObserver interface {
	ObserveQuery(operation string, elapsed time.Duration, err error)
}

type queryHook struct {
	logger   *zap.Logger
	slow     time.Duration
	observer QueryObserver
}

// after reports a finished statement. A zero-row increment is an answer,
// not a failure.
func (h *queryHook) after(op, query string, start time.Time, err error) {
	elapsed := time.Since(start)
	if errors.Is(err, store.ErrNotFound) {
		err = nil
	}

	if h.observer != nil {
		h.observer.ObserveQuery(op, elapsed, err)
	}

	switch {
	case err != nil:
		h.logger.Error("store statement failed",
			zap.String("operation", op),
			zap.Duration("elapsed", elapsed),
			zap.Error(err))
	case h.slow > 0 && elapsed >= h.slow:
		h.logger.Warn("slow store statement",
			zap.String("operation", op),
			zap.Duration("elapsed", elapsed),
			zap.String("query", query))
	}
}
