package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"expenselog/internal/core"
)

const maxBodyBytes = 1 << 14

var errBadID = errors.New("invalid expense id")

// parseFilter reads ?filter=, defaulting to all.
func parseFilter(r *http.Request) (core.FilterMode, error) {
	return core.ParseFilterMode(r.URL.Query().Get("filter"))
}

func parseID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, errBadID
	}
	return id, nil
}

// decodeInput reads an ExpenseInput from a JSON body.
func decodeInput(w http.ResponseWriter, r *http.Request) (core.ExpenseInput, error) {
	var in core.ExpenseInput
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&in); err != nil {
		return core.ExpenseInput{}, fmt.Errorf("decode expense: %w", err)
	}
	in.Amount = sanitizeInput(in.Amount)
	in.Category = sanitizeInput(in.Category)
	in.Note = sanitizeInput(in.Note)
	in.Date = sanitizeInput(in.Date)
	return in, nil
}

// sanitizeInput drops control characters other than tab and newlines and trims whitespace.
func sanitizeInput(s string) string {
	return strings.Map(func(r rune) rune {
		if r < 32 && r != '\t' && r != '\n' && r != '\r' {
			return -1
		}
		return r
	}, strings.TrimSpace(s))
}
