package http

import (
	"net/http"

	"expenselog/internal/core"
	applog "expenselog/internal/log"
)

type expenseList struct {
	Filter  core.FilterMode   `json:"filter"`
	Label   string            `json:"label"`
	Counts  core.FilterCounts `json:"counts"`
	Records []core.Expense    `json:"records"`
}

type datePreview struct {
	Input   string `json:"input"`
	Preview string `json:"preview"`
	Valid   bool   `json:"valid"`
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	if s.ready != nil {
		if err := s.ready(r.Context()); err != nil {
			s.logger.WarnContext(r.Context(), "Readiness check failed", applog.FieldError, err)
			http.Error(w, "not ready", http.StatusServiceUnavailable)
			return
		}
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}

func (s *Server) handleListExpenses(w http.ResponseWriter, r *http.Request) {
	mode, err := parseFilter(r)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	summary, err := s.service.Snapshot(r.Context(), mode)
	if err != nil {
		writeServiceError(w, r, applog.OpList, err)
		return
	}
	records := summary.Records
	if records == nil {
		records = []core.Expense{}
	}
	writeJSON(w, r, http.StatusOK, expenseList{
		Filter:  summary.Filter,
		Label:   summary.Label,
		Counts:  summary.Counts,
		Records: records,
	})
}

func (s *Server) handleCreateExpense(w http.ResponseWriter, r *http.Request) {
	in, err := decodeInput(w, r)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	res, err := s.service.Submit(r.Context(), &core.ViewState{}, in)
	if err != nil {
		writeServiceError(w, r, applog.OpCreate, err)
		return
	}
	if res.Declined {
		writeJSON(w, r, http.StatusUnprocessableEntity, res)
		return
	}
	writeJSON(w, r, http.StatusCreated, res)
}

// handleUpdateExpense runs the edit flow: start editing id, then submit the form.
func (s *Server) handleUpdateExpense(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	in, err := decodeInput(w, r)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	state := &core.ViewState{}
	if _, err := s.service.StartEdit(r.Context(), state, id); err != nil {
		writeServiceError(w, r, applog.OpUpdate, err)
		return
	}
	res, err := s.service.Submit(r.Context(), state, in)
	if err != nil {
		writeServiceError(w, r, applog.OpUpdate, err)
		return
	}
	if res.Declined {
		writeJSON(w, r, http.StatusUnprocessableEntity, res)
		return
	}
	writeJSON(w, r, http.StatusOK, res)
}

func (s *Server) handleEditExpense(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	form, err := s.service.StartEdit(r.Context(), &core.ViewState{}, id)
	if err != nil {
		writeServiceError(w, r, applog.OpRead, err)
		return
	}
	writeJSON(w, r, http.StatusOK, form)
}

func (s *Server) handleDeleteExpense(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	if err := s.service.Delete(r.Context(), nil, id); err != nil {
		writeServiceError(w, r, applog.OpDelete, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	mode, err := parseFilter(r)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	summary, err := s.service.Snapshot(r.Context(), mode)
	if err != nil {
		writeServiceError(w, r, applog.OpSummarize, err)
		return
	}
	writeJSON(w, r, http.StatusOK, summary)
}

func (s *Server) handleChart(w http.ResponseWriter, r *http.Request) {
	mode, err := parseFilter(r)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	layout, err := s.service.Chart(r.Context(), mode)
	if err != nil {
		writeServiceError(w, r, applog.OpSummarize, err)
		return
	}
	writeJSON(w, r, http.StatusOK, layout)
}

func handleDatePreview(w http.ResponseWriter, r *http.Request) {
	input := r.URL.Query().Get("input")
	_, ok := core.NormalizeDate(input)
	writeJSON(w, r, http.StatusOK, datePreview{
		Input:   input,
		Preview: core.DatePreview(input),
		Valid:   ok,
	})
}
