package outbound

import (
	"context"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

// Client is the process-wide outbound HTTP client used for tool calls. Non-2xx
// statuses are returned to the caller, not coerced into errors.
type Client struct {
	rest *resty.Client
}

// NewClient builds the shared client. A zero timeout leaves outbound requests
// unbounded.
func NewClient(timeout time.Duration) *Client {
	rest := resty.New()
	if timeout > 0 {
		rest.SetTimeout(timeout)
	}
	return &Client{rest: rest}
}

// Request performs one outbound HTTP call and returns the status code and the
// response body as a string. A non-nil body is sent as JSON.
func (c *Client) Request(ctx context.Context, method, url string, headers map[string]string, body any) (int, string, error) {
	req := c.rest.R().SetContext(ctx)
	for k, v := range headers {
		req.SetHeader(k, v)
	}
	if body != nil {
		req.SetHeader("Content-Type", "application/json")
		req.SetBody(body)
	}
	resp, err := req.Execute(strings.ToUpper(method), url)
	if err != nil {
		return 0, "", err
	}
	return resp.StatusCode(), string(resp.Body()), nil
}
