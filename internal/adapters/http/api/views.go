package api

import (
	"net/http"
)

func (s *Server) handleViews(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.deps.Views())
}

func (s *Server) handleBillionaires(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_billionaires"
	f, err := parseFilter(r)
	if err != nil {
		s.fail(w, r, WrapKind(op, ErrBadRequest, err))
		return
	}
	records, err := s.deps.Billionaires(r.Context(), f)
	if err != nil {
		s.fail(w, r, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, records)
}

func (s *Server) handleLayout(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_layout"
	req, err := parseLayout(r)
	if err != nil {
		s.fail(w, r, WrapKind(op, ErrBadRequest, err))
		return
	}
	res, err := s.deps.Layout(r.Context(), req)
	if err != nil {
		s.fail(w, r, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, res)
}
