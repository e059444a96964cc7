package lending

import "time"

// UnknownTitle is displayed for records whose book no longer exists in the
// catalog. Such records stay valid for listing and cancellation.
const UnknownTitle = "Unknown"

// Record is one loan of a single copy to a student. ReturnDate is the due
// date, not the physical return date. Fine is computed once at creation and
// never refreshed afterwards; a record logged retroactively with a lapsed due
// date is therefore overdue from the moment it is stored. That matches the
// behavior of the system this one replaces and is kept on purpose.
type Record struct {
	ID          int64     `json:"id"`
	StudentName string    `json:"student_name"`
	BookID      int64     `json:"book_id"`
	BorrowDate  time.Time `json:"borrow_date"`
	ReturnDate  time.Time `json:"return_date"`
	Fine        float64   `json:"fine"`
}

// RecordView is a record joined with its book title for display. Title is
// UnknownTitle when the referenced book has been removed from the catalog.
type RecordView struct {
	ID          int64     `json:"id"`
	StudentName string    `json:"student_name"`
	Title       string    `json:"title"`
	BorrowDate  time.Time `json:"borrow_date"`
	ReturnDate  time.Time `json:"return_date"`
	Fine        float64   `json:"fine"`
}

// Overdue reports whether the view carries a late fine.
func (v RecordView) Overdue() bool {
	return v.Fine > 0
}
