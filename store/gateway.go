// Package store defines the boundary between the resolution engine and the
// relational content store. Implementations execute parameterized queries and
// carry no business rules.
package store

import "context"

// Gateway executes parameterized statements against the content store.
// Arguments are always positional and bound by the implementation, never
// concatenated into the statement text.
type Gateway interface {
	// Query returns the ordered row set produced by query.
	Query(ctx context.Context, query string, args ...any) ([]Row, error)

	// Count runs a query that yields a single scalar column and returns it.
	Count(ctx context.Context, query string, args ...any) (int64, error)

	// Increment adds By to Column on the rows whose KeyColumn equals Key.
	// It returns ErrNotFound when no row matched.
	Increment(ctx context.Context, inc Increment) error
}

// Increment describes a counter mutation addressed by a natural key.
// Table and column names are identifiers chosen by code, not user input.
type Increment struct {
	Table     string
	Column    string
	KeyColumn string
	Key       any
	By        int64
}
