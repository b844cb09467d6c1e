package actuator

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/sweeney/led-scheduler/internal/schedule"
)

// Path of the device command endpoint.
const ledPath = "/led"

// HTTPClient commands a real LED server endpoint.
type HTTPClient struct {
	url    string
	client *http.Client
}

// NewHTTPClient creates a client for POST <baseURL>/led with the given
// per-command timeout.
func NewHTTPClient(baseURL string, timeout time.Duration) *HTTPClient {
	return &HTTPClient{
		url:    strings.TrimRight(baseURL, "/") + ledPath,
		client: &http.Client{Timeout: timeout},
	}
}

// Send posts {"state": "ON"|"OFF"} to the device. Any 2xx status is success;
// the response body is drained but otherwise ignored.
func (c *HTTPClient) Send(ctx context.Context, action schedule.Action) error {
	body, err := json.Marshal(command{State: string(action)})
	if err != nil {
		return fmt.Errorf("encode command: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("send command: %w", err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("send command: status %d", resp.StatusCode)
	}
	return nil
}
