package probe

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// maxBody bounds how much of a response the probe reads.
const maxBody = 32 << 20

// HTTPClient issues JSON requests against one base URL.
type HTTPClient struct {
	client *http.Client
	base   string
}

func newHTTPClient(base string, timeout time.Duration) *HTTPClient {
	return &HTTPClient{
		client: &http.Client{Timeout: timeout},
		base:   strings.TrimRight(base, "/"),
	}
}

// get performs a GET and returns the status and body.
func (c *HTTPClient) get(ctx context.Context, path string) (int, []byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.base+path, http.NoBody)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to create request: %w", err)
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer func() { _ = resp.Body.Close() }()
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		return resp.StatusCode, nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return resp.StatusCode, body, nil
}

// getJSON decodes a 200 response into v.
func (c *HTTPClient) getJSON(ctx context.Context, path string, v any) error {
	status, body, err := c.get(ctx, path)
	if err != nil {
		return err
	}
	if status != http.StatusOK {
		se := &StatusError{Path: path, Status: status}
		var reply struct {
			Code string `json:"code"`
		}
		if json.Unmarshal(body, &reply) == nil {
			se.Code = reply.Code
		}
		return se
	}
	if err := json.Unmarshal(body, v); err != nil {
		return fmt.Errorf("failed to decode %s: %w", path, err)
	}
	return nil
}

// StatusError is a non-200 reply from the API.
type StatusError struct {
	Path   string
	Status int
	Code   string
}

func (e *StatusError) Error() string {
	if e.Code == "" {
		return fmt.Sprintf("%s: GET %s: %d", ErrStatus, e.Path, e.Status)
	}
	return fmt.Sprintf("%s: GET %s: %d %s", ErrStatus, e.Path, e.Status, e.Code)
}

// Is matches ErrStatus.
func (e *StatusError) Is(target error) bool { return target == ErrStatus }

func isEmptyView(err error) bool {
	var se *StatusError
	return errors.As(err, &se) && se.Code == "empty_view"
}

// wsURL maps the base URL onto the websocket scheme.
func (c *HTTPClient) wsURL(path string) string {
	switch {
	case strings.HasPrefix(c.base, "https://"):
		return "wss://" + strings.TrimPrefix(c.base, "https://") + path
	case strings.HasPrefix(c.base, "http://"):
		return "ws://" + strings.TrimPrefix(c.base, "http://") + path
	}
	return c.base + path
}
