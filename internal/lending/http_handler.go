package lending

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"booklend/internal/httpx"
	"booklend/internal/ledger"
	"booklend/internal/platform/dateenc"
)

// HTTPHandler adapts the lending service to the JSON API. It owns no
// business rules: validation of shape happens here, business rules stay in
// the service.
type HTTPHandler struct {
	service *Service
}

func NewHTTPHandler(service *Service) *HTTPHandler {
	return &HTTPHandler{service: service}
}

type borrowRequest struct {
	StudentName string `json:"student_name" validate:"required"`
	BookID      int64  `json:"book_id" validate:"required,gt=0"`
	BorrowDate  string `json:"borrow_date" validate:"required,shortdate"`
	ReturnDate  string `json:"return_date" validate:"required,shortdate"`
}

type recordResponse struct {
	ID          int64   `json:"id"`
	StudentName string  `json:"student_name"`
	Title       string  `json:"title,omitempty"`
	BorrowDate  string  `json:"borrow_date"`
	ReturnDate  string  `json:"return_date"`
	Fine        float64 `json:"fine"`
}

// Borrow handles POST /borrows.
func (h *HTTPHandler) Borrow(w http.ResponseWriter, r *http.Request) {
	var req borrowRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "INVALID_BODY", "Request body must be valid JSON", nil)
		return
	}
	if details := httpx.ValidateStruct(req); details != nil {
		httpx.JSONError(w, http.StatusBadRequest, "INVALID_INPUT", "Validation failed", details)
		return
	}

	// Dates passed shape validation above, so these cannot fail.
	borrowDate, _ := dateenc.Parse(req.BorrowDate)
	returnDate, _ := dateenc.Parse(req.ReturnDate)

	rec, err := h.service.Borrow(r.Context(), BorrowInput{
		StudentName: req.StudentName,
		BookID:      req.BookID,
		BorrowDate:  borrowDate,
		ReturnDate:  returnDate,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}

	httpx.JSONSuccessCreated(w, recordResponse{
		ID:          rec.ID,
		StudentName: rec.StudentName,
		BorrowDate:  dateenc.Format(rec.BorrowDate),
		ReturnDate:  dateenc.Format(rec.ReturnDate),
		Fine:        rec.Fine,
	})
}

// Cancel handles DELETE /borrows/{id}.
func (h *HTTPHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id < 1 {
		httpx.JSONError(w, http.StatusBadRequest, "INVALID_INPUT", "Record id must be a positive integer", nil)
		return
	}

	if err := h.service.Cancel(r.Context(), id); err != nil {
		writeServiceError(w, err)
		return
	}
	httpx.JSONSuccessNoContent(w)
}

// List handles GET /borrows with an optional ?q= filter.
func (h *HTTPHandler) List(w http.ResponseWriter, r *http.Request) {
	views, err := h.service.Search(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		writeServiceError(w, err)
		return
	}

	out := make([]recordResponse, 0, len(views))
	for _, v := range views {
		out = append(out, recordResponse{
			ID:          v.ID,
			StudentName: v.StudentName,
			Title:       v.Title,
			BorrowDate:  dateenc.Format(v.BorrowDate),
			ReturnDate:  dateenc.Format(v.ReturnDate),
			Fine:        v.Fine,
		})
	}
	httpx.JSONSuccess(w, out, map[string]any{"total": len(out)})
}

// ListAvailableTitles handles GET /titles/available.
func (h *HTTPHandler) ListAvailableTitles(w http.ResponseWriter, r *http.Request) {
	titles, err := h.service.ListAvailableTitles(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if titles == nil {
		titles = []ledger.BookTitle{}
	}
	httpx.JSONSuccess(w, titles, nil)
}

// PreviewFine handles GET /fines/preview?return_date=MM/DD/YY.
func (h *HTTPHandler) PreviewFine(w http.ResponseWriter, r *http.Request) {
	returnDate, err := dateenc.Parse(r.URL.Query().Get("return_date"))
	if err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "INVALID_INPUT", "return_date must be a date in MM/DD/YY form", nil)
		return
	}
	httpx.JSONSuccess(w, map[string]float64{"fine": h.service.PreviewFine(returnDate)}, nil)
}

func writeServiceError(w http.ResponseWriter, err error) {
	var invalid *InvalidInputError
	switch {
	case errors.As(err, &invalid):
		httpx.JSONError(w, http.StatusBadRequest, "INVALID_INPUT", invalid.Detail, nil)
	case errors.Is(err, ErrNotFound):
		httpx.JSONError(w, http.StatusNotFound, "NOT_FOUND", "Borrow record not found", nil)
	case errors.Is(err, ledger.ErrNoStock):
		httpx.JSONError(w, http.StatusConflict, "NO_STOCK", "No copies available", nil)
	case errors.Is(err, ledger.ErrNotFound):
		httpx.JSONError(w, http.StatusNotFound, "NOT_FOUND", "Book title not found", nil)
	default:
		httpx.JSONError(w, http.StatusInternalServerError, "STORAGE_FAILURE", "Internal server error", nil)
	}
}
