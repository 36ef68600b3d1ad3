package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	service "github.com/okian/fortuna/internal/app"
	"github.com/okian/fortuna/internal/domain/force"
	"github.com/okian/fortuna/internal/domain/views"
	"github.com/okian/fortuna/pkg/logger"
	"github.com/okian/fortuna/pkg/metrics"
)

// Stream message types, in the order a client sees them.
const (
	msgSetup     = "setup"
	msgFrame     = "frame"
	msgDone      = "done"
	msgCancelled = "cancelled"
	msgError     = "error"
)

// streamMessage is one websocket message of an animated layout.
type streamMessage struct {
	Type   string                `json:"type"`
	Layout *service.LayoutResult `json:"layout,omitempty"`
	Frame  *force.Frame          `json:"frame,omitempty"`
	Error  *errorResponse        `json:"error,omitempty"`
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1 << 16,
}

// handleStream handles GET /api/stream/{view}: it upgrades to a websocket
// and streams the animated layout until it converges, the client closes
// the socket, or another animation supersedes it.
func (s *Server) handleStream(w http.ResponseWriter, r *http.Request) {
	const op = "api.stream"
	req, err := parseLayout(r)
	if err != nil {
		s.fail(w, r, WrapKind(op, ErrBadRequest, err))
		return
	}
	kind, err := views.ParseKind(req.View)
	if err != nil {
		s.fail(w, r, Wrap(op, err))
		return
	}
	if !kind.HasLayout() {
		s.fail(w, r, WrapKind(op, views.ErrNoLayout, fmt.Errorf("view %s", kind)))
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already replied.
		return
	}
	defer func() { _ = conn.Close() }()
	metrics.IncStreamClients()
	defer metrics.DecStreamClients()

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()
	// The client sends nothing; a read error means it went away.
	go func() {
		defer cancel()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	obs := &socketObserver{conn: conn, timeout: s.writeTimeout}
	err = s.deps.Animate(ctx, req, obs)
	switch {
	case err == nil:
		_ = obs.send(streamMessage{Type: msgDone})
	case errors.Is(err, force.ErrCancelled):
		_ = obs.send(streamMessage{Type: msgCancelled})
	case errors.Is(err, ErrStream):
		s.log.Debug(ctx, "stream client gone", logger.Error(err))
		return
	default:
		_, code := classify(err)
		_ = obs.send(streamMessage{Type: msgError, Error: &errorResponse{Code: code, Message: Wrap(op, err).Error()}})
	}
	_ = conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
		time.Now().Add(s.writeTimeout))
}

// socketObserver forwards animation output to a websocket.
type socketObserver struct {
	conn    *websocket.Conn
	timeout time.Duration
}

func (o *socketObserver) Setup(res service.LayoutResult) error {
	return o.send(streamMessage{Type: msgSetup, Layout: &res})
}

func (o *socketObserver) Frame(f force.Frame) error {
	if err := o.send(streamMessage{Type: msgFrame, Frame: &f}); err != nil {
		return err
	}
	metrics.RecordStreamFrame()
	return nil
}

func (o *socketObserver) send(m streamMessage) error {
	_ = o.conn.SetWriteDeadline(time.Now().Add(o.timeout))
	if err := o.conn.WriteJSON(m); err != nil {
		return fmt.Errorf("%w: %w", ErrStream, err)
	}
	return nil
}
