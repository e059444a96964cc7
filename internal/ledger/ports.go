package ledger

import "context"

// Repository defines the read side of the inventory ledger. Quantity writes
// are transactional and belong to the lending core's unit of work.
type Repository interface {
	ListAvailable(ctx context.Context) ([]BookTitle, error)
	GetByID(ctx context.Context, id int64) (BookTitle, error)
}
