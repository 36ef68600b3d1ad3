package api

import (
	"net/http"

	service "github.com/okian/fortuna/internal/app"
)

func (s *Server) handleAggregates(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_aggregates"
	f, err := parseFilter(r)
	if err != nil {
		s.fail(w, r, WrapKind(op, ErrBadRequest, err))
		return
	}
	limit, err := parseLimit(r, 0)
	if err != nil {
		s.fail(w, r, WrapKind(op, ErrBadRequest, err))
		return
	}
	aggs, err := s.deps.Aggregates(r.Context(), service.AggregateRequest{
		Filter: f,
		By:     r.URL.Query().Get("by"),
		Sort:   r.URL.Query().Get("sort"),
		Limit:  limit,
	})
	if err != nil {
		s.fail(w, r, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, aggs)
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_summary"
	f, err := parseFilter(r)
	if err != nil {
		s.fail(w, r, WrapKind(op, ErrBadRequest, err))
		return
	}
	sum, err := s.deps.Summary(r.Context(), f)
	if err != nil {
		s.fail(w, r, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, sum)
}

func (s *Server) handleMap(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_map"
	f, err := parseFilter(r)
	if err != nil {
		s.fail(w, r, WrapKind(op, ErrBadRequest, err))
		return
	}
	shares, err := s.deps.WorldShares(r.Context(), f)
	if err != nil {
		s.fail(w, r, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, shares)
}

// handleCountry handles GET /api/map/{country}, where country is a world
// atlas feature name.
func (s *Server) handleCountry(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_country"
	f, err := parseFilter(r)
	if err != nil {
		s.fail(w, r, WrapKind(op, ErrBadRequest, err))
		return
	}
	share, err := s.deps.CountryShare(r.Context(), f, r.PathValue("country"))
	if err != nil {
		s.fail(w, r, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, share)
}

func (s *Server) handleAges(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_ages"
	f, err := parseFilter(r)
	if err != nil {
		s.fail(w, r, WrapKind(op, ErrBadRequest, err))
		return
	}
	dist, err := s.deps.AgeDistribution(r.Context(), f)
	if err != nil {
		s.fail(w, r, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, dist)
}
