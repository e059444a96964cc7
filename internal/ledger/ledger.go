// Package ledger owns the book catalog and its available-copy counts. It is
// a leaf component: the lending core mutates quantities through the storage
// collaborator, never the other way around.
package ledger

import "errors"

// ErrNotFound is returned when a book title does not exist.
var ErrNotFound = errors.New("book title not found")

// ErrNoStock is returned when a decrement would drive a quantity below zero.
// Callers are expected to check availability first; this guards the invariant.
var ErrNoStock = errors.New("no copies available")

// BookTitle is one catalog entry. Quantity counts copies currently on the
// shelf; copies out on loan are not included.
type BookTitle struct {
	ID       int64  `json:"id"`
	Title    string `json:"title"`
	Quantity int    `json:"quantity"`
}

// Available reports whether at least one copy can be borrowed.
func (b BookTitle) Available() bool {
	return b.Quantity > 0
}
