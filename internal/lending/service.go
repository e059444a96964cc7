package lending

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"booklend/internal/ledger"
	"booklend/internal/platform/dateenc"
)

// BorrowInput carries the caller-supplied fields of a borrow operation.
type BorrowInput struct {
	StudentName string
	BookID      int64
	BorrowDate  time.Time
	ReturnDate  time.Time
}

// Service provides the lending business logic. The current date is injected
// through now so date-dependent rules stay deterministic under test.
type Service struct {
	store Store
	now   func() time.Time
}

// NewService creates a lending service. now may be nil, defaulting to the
// wall clock.
func NewService(store Store, now func() time.Time) *Service {
	if now == nil {
		now = time.Now
	}
	return &Service{store: store, now: now}
}

// Borrow validates the input, creates a record with its fine frozen as of
// today, and decrements the book's quantity. Validation failures and storage
// failures leave no trace: record insert and quantity decrement share one
// transaction.
func (s *Service) Borrow(ctx context.Context, in BorrowInput) (Record, error) {
	name := strings.TrimSpace(in.StudentName)
	if name == "" {
		return Record{}, invalidInput("student name required")
	}

	title, err := s.store.GetByID(ctx, in.BookID)
	if err != nil {
		if errors.Is(err, ledger.ErrNotFound) {
			return Record{}, invalidInput("book not available")
		}
		return Record{}, fmt.Errorf("look up book %d: %w", in.BookID, err)
	}
	if !title.Available() {
		return Record{}, invalidInput("book not available")
	}

	today := dateenc.Midnight(s.now())
	borrowDate := dateenc.Midnight(in.BorrowDate)
	returnDate := dateenc.Midnight(in.ReturnDate)

	if borrowDate.Before(today) {
		return Record{}, invalidInput("borrow date cannot be in the past")
	}
	if returnDate.Before(borrowDate) {
		return Record{}, invalidInput("return date cannot be before borrow date")
	}

	rec := Record{
		StudentName: name,
		BookID:      in.BookID,
		BorrowDate:  borrowDate,
		ReturnDate:  returnDate,
		Fine:        Fine(returnDate, today),
	}

	err = s.store.WithinTx(ctx, func(tx Tx) error {
		if err := tx.InsertRecord(ctx, &rec); err != nil {
			return fmt.Errorf("insert borrow record: %w", err)
		}
		if err := tx.DecrementQuantity(ctx, in.BookID); err != nil {
			return fmt.Errorf("decrement quantity of book %d: %w", in.BookID, err)
		}
		return nil
	})
	if err != nil {
		return Record{}, err
	}
	return rec, nil
}

// Cancel deletes a record and puts the copy back on the shelf. When the
// record's book no longer exists the increment is skipped and the delete
// still succeeds.
func (s *Service) Cancel(ctx context.Context, recordID int64) error {
	rec, err := s.store.GetRecord(ctx, recordID)
	if err != nil {
		return err
	}

	return s.store.WithinTx(ctx, func(tx Tx) error {
		if err := tx.DeleteRecord(ctx, rec.ID); err != nil {
			return fmt.Errorf("delete borrow record %d: %w", rec.ID, err)
		}
		if err := tx.IncrementQuantity(ctx, rec.BookID); err != nil {
			return fmt.Errorf("increment quantity of book %d: %w", rec.BookID, err)
		}
		return nil
	})
}

// Search returns all records joined with their book titles, filtered by an
// optional case-insensitive substring over student name or title, ordered by
// record id. An empty filter returns everything.
func (s *Service) Search(ctx context.Context, filter string) ([]RecordView, error) {
	return s.store.SearchRecords(ctx, strings.TrimSpace(filter))
}

// ListAvailableTitles returns the catalog entries a new borrow may select.
func (s *Service) ListAvailableTitles(ctx context.Context) ([]ledger.BookTitle, error) {
	return s.store.ListAvailable(ctx)
}

// PreviewFine exposes the fine a given due date would carry as of today,
// for display before a borrow is committed.
func (s *Service) PreviewFine(returnDate time.Time) float64 {
	return Fine(returnDate, dateenc.Midnight(s.now()))
}
