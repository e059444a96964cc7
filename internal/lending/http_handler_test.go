package lending

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"booklend/internal/ledger"
	"booklend/internal/testutil"
)

func newTestHandler(titles ...ledger.BookTitle) (*HTTPHandler, *fakeStore) {
	f := newFakeStore(titles...)
	return NewHTTPHandler(NewService(f, fixedNow)), f
}

func serve(h http.HandlerFunc, r *http.Request) testutil.RecordResponse {
	w := httptest.NewRecorder()
	h(w, r)
	return testutil.RecordHTTPResponse(w)
}

func TestHTTPBorrow_Created(t *testing.T) {
	h, f := newTestHandler(ledger.BookTitle{ID: 1, Title: "Learn Python", Quantity: 3})

	resp := serve(h.Borrow, testutil.NewRequest(http.MethodPost, "/borrows", map[string]any{
		"student_name": "Alice",
		"book_id":      1,
		"borrow_date":  "06/10/25",
		"return_date":  "06/15/25",
	}))

	require.Equal(t, http.StatusCreated, resp.Code)
	data := resp.Body["data"].(map[string]interface{})
	assert.Equal(t, float64(1), data["id"])
	assert.Equal(t, "06/15/25", data["return_date"])
	assert.Equal(t, 0.0, data["fine"])
	assert.Equal(t, 2, f.titles[1].Quantity)
}

func TestHTTPBorrow_ShapeValidation(t *testing.T) {
	h, f := newTestHandler(ledger.BookTitle{ID: 1, Title: "Learn Python", Quantity: 3})

	resp := serve(h.Borrow, testutil.NewRequest(http.MethodPost, "/borrows", map[string]any{
		"student_name": "Alice",
		"book_id":      1,
		"borrow_date":  "2025-06-10", // wrong encoding
		"return_date":  "06/15/25",
	}))

	require.Equal(t, http.StatusBadRequest, resp.Code)
	errBody := resp.Body["error"].(map[string]interface{})
	assert.Equal(t, "INVALID_INPUT", errBody["code"])
	assert.Empty(t, f.records)
}

func TestHTTPBorrow_BusinessRuleDetail(t *testing.T) {
	h, _ := newTestHandler(ledger.BookTitle{ID: 1, Title: "Learn Python", Quantity: 3})

	resp := serve(h.Borrow, testutil.NewRequest(http.MethodPost, "/borrows", map[string]any{
		"student_name": "Alice",
		"book_id":      1,
		"borrow_date":  "06/09/25", // yesterday relative to the fixed clock
		"return_date":  "06/15/25",
	}))

	require.Equal(t, http.StatusBadRequest, resp.Code)
	errBody := resp.Body["error"].(map[string]interface{})
	assert.Equal(t, "borrow date cannot be in the past", errBody["message"])
}

func TestHTTPCancel(t *testing.T) {
	h, f := newTestHandler(ledger.BookTitle{ID: 1, Title: "Learn Python", Quantity: 2})
	f.records[5] = Record{ID: 5, StudentName: "Alice", BookID: 1, BorrowDate: today, ReturnDate: today}

	r := testutil.NewRequest(http.MethodDelete, "/borrows/5", nil)
	r.SetPathValue("id", "5")
	resp := serve(h.Cancel, r)

	require.Equal(t, http.StatusNoContent, resp.Code)
	assert.Equal(t, 3, f.titles[1].Quantity)

	// Cancelling again is a NotFound, with no further state change.
	r = testutil.NewRequest(http.MethodDelete, "/borrows/5", nil)
	r.SetPathValue("id", "5")
	resp = serve(h.Cancel, r)

	require.Equal(t, http.StatusNotFound, resp.Code)
	assert.Equal(t, 3, f.titles[1].Quantity)
}

func TestHTTPCancel_BadID(t *testing.T) {
	h, _ := newTestHandler()

	r := testutil.NewRequest(http.MethodDelete, "/borrows/abc", nil)
	r.SetPathValue("id", "abc")
	resp := serve(h.Cancel, r)

	assert.Equal(t, http.StatusBadRequest, resp.Code)
}

func TestHTTPList_FilterAndTotal(t *testing.T) {
	h, f := newTestHandler(ledger.BookTitle{ID: 1, Title: "Learn Python", Quantity: 3})
	f.records[1] = Record{ID: 1, StudentName: "Alice Johnson", BookID: 1, BorrowDate: today, ReturnDate: today}
	f.records[2] = Record{ID: 2, StudentName: "Bob Smith", BookID: 99, BorrowDate: today, ReturnDate: today}

	resp := serve(h.List, testutil.NewRequest(http.MethodGet, "/borrows", nil))
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Len(t, resp.Body["data"], 2)
	meta := resp.Body["meta"].(map[string]interface{})
	assert.Equal(t, float64(2), meta["total"])

	resp = serve(h.List, testutil.NewRequest(http.MethodGet, "/borrows?q=alice", nil))
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Len(t, resp.Body["data"], 1)
}

func TestHTTPListAvailableTitles(t *testing.T) {
	h, _ := newTestHandler(
		ledger.BookTitle{ID: 1, Title: "Learn Python", Quantity: 3},
		ledger.BookTitle{ID: 2, Title: "Clean Code", Quantity: 0},
	)

	resp := serve(h.ListAvailableTitles, testutil.NewRequest(http.MethodGet, "/titles/available", nil))
	require.Equal(t, http.StatusOK, resp.Code)
	data := resp.Body["data"].([]interface{})
	require.Len(t, data, 1)
	first := data[0].(map[string]interface{})
	assert.Equal(t, "Learn Python", first["title"])
}

func TestHTTPPreviewFine(t *testing.T) {
	h, _ := newTestHandler()

	resp := serve(h.PreviewFine, testutil.NewRequest(http.MethodGet, "/fines/preview?return_date=06/07/25", nil))
	require.Equal(t, http.StatusOK, resp.Code)
	data := resp.Body["data"].(map[string]interface{})
	assert.Equal(t, 15.0, data["fine"])

	resp = serve(h.PreviewFine, testutil.NewRequest(http.MethodGet, "/fines/preview?return_date=nonsense", nil))
	assert.Equal(t, http.StatusBadRequest, resp.Code)
}
