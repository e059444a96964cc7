package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	_ "github.com/mattn/go-sqlite3"

	"booklend/internal/ledger"
	"booklend/internal/lending"
	"booklend/internal/platform/dateenc"
)

// SQLite backs the lending core with a local database file, the storage the
// single-librarian CLI uses. Dates are stored in the MM/DD/YY text form so
// the file stays readable next to the seed data.
type SQLite struct {
	db *sql.DB
}

// OpenSQLite opens (or creates) the database at path and ensures the schema
// exists.
func OpenSQLite(path string) (*SQLite, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create db dir: %w", err)
		}
	}

	dsn := fmt.Sprintf("file:%s?_busy_timeout=5000", path)
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	if err := initSchema(db); err != nil {
		db.Close()
		return nil, err
	}
	return &SQLite{db: db}, nil
}

func (s *SQLite) Close() error {
	return s.db.Close()
}

func initSchema(db *sql.DB) error {
	// book_id carries no foreign key on purpose: borrow records may
	// outlive their title and are then shown with a placeholder.
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS books (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			title TEXT NOT NULL,
			quantity INTEGER NOT NULL CHECK (quantity >= 0)
		);`,
		`CREATE TABLE IF NOT EXISTS borrow_records (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			student_name TEXT NOT NULL,
			book_id INTEGER NOT NULL,
			borrow_date TEXT NOT NULL,
			return_date TEXT NOT NULL,
			fine REAL NOT NULL DEFAULT 0
		);`,
	}
	for _, stmt := range stmts {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("init schema: %w", err)
		}
	}
	return nil
}

func (s *SQLite) ListAvailable(ctx context.Context) ([]ledger.BookTitle, error) {
	const query = `SELECT id, title, quantity FROM books WHERE quantity > 0 ORDER BY id ASC`

	rows, err := s.db.QueryContext(ctx, query)
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

func (s *SQLite) GetByID(ctx context.Context, id int64) (ledger.BookTitle, error) {
	var b ledger.BookTitle
	err := s.db.QueryRowContext(ctx,
		`SELECT id, title, quantity FROM books WHERE id = ?`, id,
	).Scan(&b.ID, &b.Title, &b.Quantity)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ledger.BookTitle{}, ledger.ErrNotFound
		}
		return ledger.BookTitle{}, err
	}
	return b, nil
}

// AddTitle inserts a catalog entry and returns its id. Seeding and the CLI
// use it; the lending core itself never creates titles.
func (s *SQLite) AddTitle(ctx context.Context, title string, quantity int) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO books (title, quantity) VALUES (?, ?)`, title, quantity)
	if err != nil {
		return 0, fmt.Errorf("add title: %w", err)
	}
	return res.LastInsertId()
}

// RemoveTitle deletes a catalog entry outright, leaving any records that
// reference it dangling. Exists for catalog maintenance, not for lending.
func (s *SQLite) RemoveTitle(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM books WHERE id = ?`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ledger.ErrNotFound
	}
	return nil
}

// SeedSampleData loads the sample catalog and two historic borrows, but only
// into empty tables. The seeded quantity decrements keep the inventory
// invariant intact from the first read.
func (s *SQLite) SeedSampleData(ctx context.Context) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	var books int
	if err := tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM books`).Scan(&books); err != nil {
		return err
	}
	if books == 0 {
		samples := []struct {
			title    string
			quantity int
		}{
			{"Learn Python", 3},
			{"Database Systems", 2},
			{"Intro to Algorithms", 1},
			{"Effective Java", 2},
			{"Clean Code", 1},
		}
		for _, b := range samples {
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO books (title, quantity) VALUES (?, ?)`, b.title, b.quantity); err != nil {
				return fmt.Errorf("seed books: %w", err)
			}
		}
	}

	var records int
	if err := tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM borrow_records`).Scan(&records); err != nil {
		return err
	}
	if records == 0 {
		borrows := []struct {
			student       string
			bookID        int64
			borrowed, due string
		}{
			{"Alice Johnson", 1, "06/01/25", "06/10/25"},
			{"Bob Smith", 2, "06/05/25", "06/12/25"},
		}
		for _, b := range borrows {
			if _, err := tx.ExecContext(ctx, `
				INSERT INTO borrow_records (student_name, book_id, borrow_date, return_date, fine)
				VALUES (?, ?, ?, ?, 0)`,
				b.student, b.bookID, b.borrowed, b.due); err != nil {
				return fmt.Errorf("seed borrow records: %w", err)
			}
			if _, err := tx.ExecContext(ctx,
				`UPDATE books SET quantity = quantity - 1 WHERE id = ? AND quantity > 0`, b.bookID); err != nil {
				return fmt.Errorf("seed quantity decrement: %w", err)
			}
		}
	}

	return tx.Commit()
}

func (s *SQLite) GetRecord(ctx context.Context, id int64) (lending.Record, error) {
	const query = `
		SELECT id, student_name, book_id, borrow_date, return_date, fine
		FROM borrow_records
		WHERE id = ?`

	var (
		r             lending.Record
		borrowD, retD string
	)
	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&r.ID, &r.StudentName, &r.BookID, &borrowD, &retD, &r.Fine,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return lending.Record{}, lending.ErrNotFound
		}
		return lending.Record{}, err
	}
	if r.BorrowDate, err = dateenc.Parse(borrowD); err != nil {
		return lending.Record{}, err
	}
	if r.ReturnDate, err = dateenc.Parse(retD); err != nil {
		return lending.Record{}, err
	}
	return r, nil
}

func (s *SQLite) SearchRecords(ctx context.Context, filter string) ([]lending.RecordView, error) {
	query := `
		SELECT bb.id, bb.student_name, COALESCE(b.title, '` + lending.UnknownTitle + `'),
		       bb.borrow_date, bb.return_date, bb.fine
		FROM borrow_records bb
		LEFT JOIN books b ON b.id = bb.book_id`

	args := []any{}
	if filter != "" {
		query += ` WHERE LOWER(bb.student_name) LIKE ? OR LOWER(COALESCE(b.title, '')) LIKE ?`
		like := "%" + strings.ToLower(filter) + "%"
		args = append(args, like, like)
	}
	query += ` ORDER BY bb.id ASC`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("search borrow records: %w", err)
	}
	defer rows.Close()

	var out []lending.RecordView
	for rows.Next() {
		var (
			v             lending.RecordView
			borrowD, retD string
		)
		if err := rows.Scan(&v.ID, &v.StudentName, &v.Title, &borrowD, &retD, &v.Fine); err != nil {
			return nil, err
		}
		if v.BorrowDate, err = dateenc.Parse(borrowD); err != nil {
			return nil, err
		}
		if v.ReturnDate, err = dateenc.Parse(retD); err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

func (s *SQLite) WithinTx(ctx context.Context, fn func(tx lending.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := fn(&sqliteTx{tx: tx}); err != nil {
		return err
	}
	return tx.Commit()
}

type sqliteTx struct {
	tx *sql.Tx
}

func (t *sqliteTx) InsertRecord(ctx context.Context, rec *lending.Record) error {
	res, err := t.tx.ExecContext(ctx, `
		INSERT INTO borrow_records (student_name, book_id, borrow_date, return_date, fine)
		VALUES (?, ?, ?, ?, ?)`,
		rec.StudentName, rec.BookID,
		dateenc.Format(rec.BorrowDate), dateenc.Format(rec.ReturnDate), rec.Fine,
	)
	if err != nil {
		return err
	}
	rec.ID, err = res.LastInsertId()
	return err
}

func (t *sqliteTx) DeleteRecord(ctx context.Context, id int64) error {
	res, err := t.tx.ExecContext(ctx, `DELETE FROM borrow_records WHERE id = ?`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return lending.ErrNotFound
	}
	return nil
}

func (t *sqliteTx) DecrementQuantity(ctx context.Context, bookID int64) error {
	res, err := t.tx.ExecContext(ctx,
		`UPDATE books SET quantity = quantity - 1 WHERE id = ? AND quantity > 0`, bookID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 1 {
		return nil
	}

	var exists bool
	if err := t.tx.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM books WHERE id = ?)`, bookID).Scan(&exists); err != nil {
		return err
	}
	if !exists {
		return ledger.ErrNotFound
	}
	return ledger.ErrNoStock
}

func (t *sqliteTx) IncrementQuantity(ctx context.Context, bookID int64) error {
	_, err := t.tx.ExecContext(ctx,
		`UPDATE books SET quantity = quantity + 1 WHERE id = ?`, bookID)
	return err
}
