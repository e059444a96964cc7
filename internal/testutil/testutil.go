// Package testutil holds shared helpers and fixtures for handler and
// service tests.
package testutil

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"time"

	"booklend/internal/ledger"
)

// SampleTitles mirrors the seed catalog.
var SampleTitles = []ledger.BookTitle{
	{ID: 1, Title: "Learn Python", Quantity: 3},
	{ID: 2, Title: "Database Systems", Quantity: 2},
	{ID: 3, Title: "Intro to Algorithms", Quantity: 1},
	{ID: 4, Title: "Effective Java", Quantity: 2},
	{ID: 5, Title: "Clean Code", Quantity: 1},
}

// Date builds a UTC-midnight date, the normal form for all date fields.
func Date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// FixedNow returns a clock function frozen at the given date, for injecting
// into the lending service.
func FixedNow(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

// NewRequest creates an HTTP request with an optional JSON body.
func NewRequest(method, path string, body interface{}) *http.Request {
	if body == nil {
		return httptest.NewRequest(method, path, nil)
	}
	bodyBytes, _ := json.Marshal(body)
	r := httptest.NewRequest(method, path, bytes.NewReader(bodyBytes))
	r.Header.Set("Content-Type", "application/json")
	return r
}

// RecordResponse is a decoded HTTP response.
type RecordResponse struct {
	Code   int
	Header http.Header
	Body   map[string]interface{}
}

// RecordHTTPResponse decodes the recorder's result for assertions.
func RecordHTTPResponse(w *httptest.ResponseRecorder) RecordResponse {
	result := w.Result()
	defer result.Body.Close()

	bodyBytes, _ := io.ReadAll(result.Body)

	var bodyMap map[string]interface{}
	if len(bodyBytes) > 0 {
		_ = json.NewDecoder(bytes.NewReader(bodyBytes)).Decode(&bodyMap)
	}

	return RecordResponse{
		Code:   result.StatusCode,
		Header: result.Header,
		Body:   bodyMap,
	}
}
