package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	service "github.com/okian/fortuna/internal/app"
)

const maxTooltipBody = 1 << 16

// handleTooltip handles POST /api/tooltip requests.
func (s *Server) handleTooltip(w http.ResponseWriter, r *http.Request) {
	const op = "api.post_tooltip"
	var req service.TooltipRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxTooltipBody))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		s.fail(w, r, WrapKind(op, ErrBadRequest, err))
		return
	}
	if strings.TrimSpace(req.Name) == "" {
		s.fail(w, r, WrapKind(op, ErrBadRequest, errors.New("missing name")))
		return
	}
	res, err := s.deps.Tooltip(r.Context(), req)
	if err != nil {
		s.fail(w, r, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, res)
}
