package api

import (
	"net/http"
	"strings"
)

const defaultRichest = 10

// handleRichest handles GET /api/richest?year=Y&limit=N requests.
func (s *Server) handleRichest(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_richest"
	year, err := parseYear(r)
	if err != nil {
		s.fail(w, r, WrapKind(op, ErrBadRequest, err))
		return
	}
	n, err := parseLimit(r, defaultRichest)
	if err != nil || n < 1 {
		s.fail(w, r, NewKind(op, ErrBadRequest))
		return
	}
	if n > s.maxLimit {
		writeError(w, http.StatusBadRequest, "limit_exceeded", NewKind(op, ErrBadRequest))
		return
	}
	entries, err := s.deps.Richest(r.Context(), year, n)
	if err != nil {
		s.fail(w, r, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, entries)
}

// handleRank handles GET /api/rank/{name}?year=Y requests.
func (s *Server) handleRank(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_rank"
	name := strings.TrimSpace(r.PathValue("name"))
	if name == "" {
		s.fail(w, r, NewKind(op, ErrBadRequest))
		return
	}
	year, err := parseYear(r)
	if err != nil {
		s.fail(w, r, WrapKind(op, ErrBadRequest, err))
		return
	}
	entry, err := s.deps.Rank(r.Context(), name, year)
	if err != nil {
		s.fail(w, r, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, entry)
}
