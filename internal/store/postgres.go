// Package store provides the storage collaborators behind the lending core:
// a Postgres engine for the API server and a SQLite engine for the local CLI.
// Both implement ledger.Repository and lending.Store.
package store

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"booklend/internal/ledger"
	"booklend/internal/lending"
)

// Postgres backs the lending core with a pgx connection pool.
type Postgres struct {
	db *pgxpool.Pool
}

func NewPostgres(db *pgxpool.Pool) *Postgres {
	return &Postgres{db: db}
}

func (s *Postgres) ListAvailable(ctx context.Context) ([]ledger.BookTitle, error) {
	const query = `
		SELECT id, title, quantity
		FROM books
		WHERE quantity > 0
		ORDER BY id ASC`

	rows, err := s.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list available titles: %w", err)
	}
	defer rows.Close()

	var out []ledger.BookTitle
	for rows.Next() {
		var b ledger.BookTitle
		if err := rows.Scan(&b.ID, &b.Title, &b.Quantity); err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

func (s *Postgres) GetByID(ctx context.Context, id int64) (ledger.BookTitle, error) {
	const query = `SELECT id, title, quantity FROM books WHERE id = $1`

	var b ledger.BookTitle
	err := s.db.QueryRow(ctx, query, id).Scan(&b.ID, &b.Title, &b.Quantity)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ledger.BookTitle{}, ledger.ErrNotFound
		}
		return ledger.BookTitle{}, err
	}
	return b, nil
}

func (s *Postgres) GetRecord(ctx context.Context, id int64) (lending.Record, error) {
	const query = `
		SELECT id, student_name, book_id, borrow_date, return_date, fine
		FROM borrow_records
		WHERE id = $1`

	var r lending.Record
	err := s.db.QueryRow(ctx, query, id).Scan(
		&r.ID, &r.StudentName, &r.BookID, &r.BorrowDate, &r.ReturnDate, &r.Fine,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return lending.Record{}, lending.ErrNotFound
		}
		return lending.Record{}, err
	}
	return r, nil
}

func (s *Postgres) SearchRecords(ctx context.Context, filter string) ([]lending.RecordView, error) {
	query := `
		SELECT bb.id, bb.student_name, COALESCE(b.title, '` + lending.UnknownTitle + `'),
		       bb.borrow_date, bb.return_date, bb.fine
		FROM borrow_records bb
		LEFT JOIN books b ON b.id = bb.book_id`

	args := []any{}
	if filter != "" {
		query += ` WHERE LOWER(bb.student_name) LIKE $1 OR LOWER(COALESCE(b.title, '')) LIKE $1`
		args = append(args, "%"+strings.ToLower(filter)+"%")
	}
	query += ` ORDER BY bb.id ASC`

	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("search borrow records: %w", err)
	}
	defer rows.Close()

	var out []lending.RecordView
	for rows.Next() {
		var v lending.RecordView
		if err := rows.Scan(&v.ID, &v.StudentName, &v.Title, &v.BorrowDate, &v.ReturnDate, &v.Fine); err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

// WithinTx is the atomic-commit primitive of the core: every write fn issues
// becomes visible together, or not at all.
func (s *Postgres) WithinTx(ctx context.Context, fn func(tx lending.Tx) error) error {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := fn(&pgTx{tx: tx}); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

type pgTx struct {
	tx pgx.Tx
}

func (t *pgTx) InsertRecord(ctx context.Context, rec *lending.Record) error {
	const query = `
		INSERT INTO borrow_records (student_name, book_id, borrow_date, return_date, fine)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id`

	return t.tx.QueryRow(ctx, query,
		rec.StudentName, rec.BookID, rec.BorrowDate, rec.ReturnDate, rec.Fine,
	).Scan(&rec.ID)
}

func (t *pgTx) DeleteRecord(ctx context.Context, id int64) error {
	tag, err := t.tx.Exec(ctx, `DELETE FROM borrow_records WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return lending.ErrNotFound
	}
	return nil
}

func (t *pgTx) DecrementQuantity(ctx context.Context, bookID int64) error {
	// The quantity > 0 guard keeps the ledger invariant even if the
	// availability pre-check raced with another write.
	tag, err := t.tx.Exec(ctx,
		`UPDATE books SET quantity = quantity - 1 WHERE id = $1 AND quantity > 0`, bookID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 1 {
		return nil
	}

	var exists bool
	if err := t.tx.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM books WHERE id = $1)`, bookID).Scan(&exists); err != nil {
		return err
	}
	if !exists {
		return ledger.ErrNotFound
	}
	return ledger.ErrNoStock
}

func (t *pgTx) IncrementQuantity(ctx context.Context, bookID int64) error {
	// Deliberately ignores rows affected: a record may reference a title
	// that has since been removed from the catalog.
	_, err := t.tx.Exec(ctx,
		`UPDATE books SET quantity = quantity + 1 WHERE id = $1`, bookID)
	return err
}
