// Package tx defines the transaction boundary the domain layer depends on.
// The PostgreSQL implementation lives in infrastructure/storage/postgres.
package tx

import "context"

// Manager runs a function inside a store transaction. Nested calls reuse the
// transaction already carried by the context.
type Manager interface {
	RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}
