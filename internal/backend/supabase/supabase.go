package supabase

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/Roger0222/dandelion/internal/backend"
	"github.com/Roger0222/dandelion/internal/errors"
)

var _ backend.Client = (*Client)(nil)

// Client talks to a Supabase project: GoTrue under /auth/v1 and PostgREST under /rest/v1.
type Client struct {
	BaseURL    string
	APIKey     string
	HttpClient *http.Client
}

func New(baseURL, apiKey string, timeout time.Duration) *Client {
	return &Client{
		BaseURL:    strings.TrimRight(baseURL, "/"),
		APIKey:     apiKey,
		HttpClient: &http.Client{Timeout: timeout},
	}
}

// do is the single helper for backend requests. bearer defaults to the API key
// when the call is not made on behalf of a signed-in user.
func (c *Client) do(ctx context.Context, method, path string, body any, bearer string, headers map[string]string) (*http.Response, error) {
	var reader io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request body: %w", err)
		}
		reader = bytes.NewReader(jsonBody)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to create backend request: %w", err)
	}
	if bearer == "" {
		bearer = c.APIKey
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("apikey", c.APIKey)
	req.Header.Set("Authorization", "Bearer "+bearer)
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := c.HttpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", errors.ErrBackendUnavailable, err)
	}
	return resp, nil
}

// errorBody covers both GoTrue ({code, error_code, msg} or {error, error_description})
// and PostgREST ({code, message, details, hint}) error shapes.
type errorBody struct {
	Code             json.RawMessage `json:"code"`
	ErrorCode        string          `json:"error_code"`
	Msg              string          `json:"msg"`
	Message          string          `json:"message"`
	Error            string          `json:"error"`
	ErrorDescription string          `json:"error_description"`
}

func decodeError(resp *http.Response) error {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))

	var body errorBody
	_ = json.Unmarshal(raw, &body)

	be := &errors.BackendError{StatusCode: resp.StatusCode, Code: body.ErrorCode}
	if be.Code == "" {
		be.Code = strings.Trim(string(body.Code), `"`)
	}
	if be.Code == "" {
		be.Code = body.Error
	}

	switch {
	case body.Msg != "":
		be.Message = body.Msg
	case body.ErrorDescription != "":
		be.Message = body.ErrorDescription
	case body.Message != "":
		be.Message = body.Message
	case body.Error != "":
		be.Message = body.Error
	case len(bytes.TrimSpace(raw)) > 0:
		be.Message = strings.TrimSpace(string(raw))
	default:
		be.Message = http.StatusText(resp.StatusCode)
	}
	return be
}
