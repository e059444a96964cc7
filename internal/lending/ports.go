package lending

import (
	"context"

	"booklend/internal/ledger"
)

// Store is the storage collaborator the transaction core depends on. Reads
// run against committed state; writes that touch both the record set and the
// ledger go through WithinTx so they commit or roll back as one unit.
type Store interface {
	ledger.Repository

	GetRecord(ctx context.Context, id int64) (Record, error)
	SearchRecords(ctx context.Context, filter string) ([]RecordView, error)

	// WithinTx runs fn inside a single transaction. When fn returns an
	// error the transaction is rolled back and no write becomes visible.
	WithinTx(ctx context.Context, fn func(tx Tx) error) error
}

// Tx is the write surface available inside a unit of work.
type Tx interface {
	// InsertRecord stores a new record and fills in its assigned ID.
	InsertRecord(ctx context.Context, rec *Record) error

	// DeleteRecord removes a record; ErrNotFound when it does not exist.
	DeleteRecord(ctx context.Context, id int64) error

	// DecrementQuantity takes one copy off the shelf. It fails with
	// ledger.ErrNotFound for an unknown book and ledger.ErrNoStock when
	// the quantity is already zero.
	DecrementQuantity(ctx context.Context, bookID int64) error

	// IncrementQuantity puts one copy back. A missing book is a no-op
	// success: records may outlive their title.
	IncrementQuantity(ctx context.Context, bookID int64) error
}
