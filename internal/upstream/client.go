package upstream

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// ErrTimeout reports that the external API did not answer within the
// configured deadline.
var ErrTimeout = errors.New("external API timed out")

// StatusError reports a non-2xx HTTP response from the external API. Message
// carries the upstream-supplied message when the body contained one.
type StatusError struct {
	StatusCode int
	Message    string
}

func (e *StatusError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("external API returned %d: %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("external API returned %d", e.StatusCode)
}

// Client calls the external likes API. The API is a black box reached over
// plain HTTP GET with query parameters; its response is interpreted
// defensively and never trusted to be well-formed.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// New creates a client with a hard per-call timeout.
func New(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// SendLikesParams are the query parameters of a send-likes call.
type SendLikesParams struct {
	UID         string
	APIKey      string
	Region      string
	AccessToken string
}

// Result is the interpreted upstream response. Body holds the full decoded
// payload; Success and Message are probed from it.
type Result struct {
	Success bool
	Message string
	Body    map[string]interface{}
}

// SendLikes issues the outbound call. Errors are classified: ErrTimeout for
// deadline expiry, *StatusError for non-2xx responses, and a plain error for
// transport failures or an undecodable body.
func (c *Client) SendLikes(ctx context.Context, params SendLikesParams) (*Result, error) {
	q := url.Values{}
	q.Set("uid", params.UID)
	q.Set("apikey", params.APIKey)
	q.Set("region", params.Region)
	q.Set("access_token", params.AccessToken)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", "likes-relay-service/1.0")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if isTimeout(err) {
			return nil, ErrTimeout
		}
		return nil, fmt.Errorf("call external API: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		if isTimeout(err) {
			return nil, ErrTimeout
		}
		return nil, fmt.Errorf("read external API response: %w", err)
	}

	var payload map[string]interface{}
	decodeErr := json.Unmarshal(body, &payload)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &StatusError{StatusCode: resp.StatusCode, Message: probeMessage(payload)}
	}

	if decodeErr != nil {
		return nil, fmt.Errorf("malformed external API response: %w", decodeErr)
	}

	success, _ := payload["success"].(bool)
	return &Result{
		Success: success,
		Message: probeMessage(payload),
		Body:    payload,
	}, nil
}

func probeMessage(payload map[string]interface{}) string {
	msg, _ := payload["message"].(string)
	return msg
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr interface{ Timeout() bool }
	return errors.As(err, &netErr) && netErr.Timeout()
}
