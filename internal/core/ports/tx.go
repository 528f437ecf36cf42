package ports

import "context"

// TxManager runs fn inside one transactional boundary: every store call made
// through the fn's context either commits as a unit or leaves no effect.
// The concrete concurrency control belongs to the persistence layer.
type TxManager interface {
	WithTx(ctx context.Context, fn func(ctx context.Context) error) error
}
