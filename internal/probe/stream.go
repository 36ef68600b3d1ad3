package probe

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/gorilla/websocket"
)

type streamMessage struct {
	Type  string `json:"type"`
	Error *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// consumeStream reads one animated layout to completion and returns the
// number of frames received.
func consumeStream(ctx context.Context, client *HTTPClient, view string, timeout time.Duration) (int, error) {
	dialer := websocket.Dialer{HandshakeTimeout: timeout}
	conn, resp, err := dialer.DialContext(ctx, client.wsURL("/api/stream/"+url.PathEscape(view)), nil)
	if err != nil {
		if resp != nil {
			return 0, &StatusError{Path: "/api/stream/" + view, Status: resp.StatusCode}
		}
		return 0, err
	}
	defer func() { _ = conn.Close() }()

	frames := 0
	for {
		if timeout > 0 {
			_ = conn.SetReadDeadline(time.Now().Add(timeout))
		}
		var m streamMessage
		if err := conn.ReadJSON(&m); err != nil {
			return frames, fmt.Errorf("read after %d frames: %w", frames, err)
		}
		switch m.Type {
		case "frame":
			frames++
		case "done":
			return frames, nil
		case "cancelled":
			return frames, fmt.Errorf("%w: superseded after %d frames", ErrInconsistent, frames)
		case "error":
			if m.Error != nil {
				return frames, fmt.Errorf("%w: %s", ErrInconsistent, m.Error.Message)
			}
			return frames, ErrInconsistent
		}
	}
}
