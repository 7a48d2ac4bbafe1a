package httpx

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sethvargo/go-retry"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
)

// ErrUnavailable reports that a collaborator stayed unreachable after the
// bounded retry budget was spent.
var ErrUnavailable = errors.New("upstream unavailable")

// Client is an outbound JSON client with a fixed per-request timeout and a
// bounded exponential-backoff retry policy. Retries apply uniformly to GET
// and POST on transport failures and transient gateway statuses (502/503/504).
type Client struct {
	http        *http.Client
	maxRetries  uint64
	baseBackoff time.Duration
}

// NewClient creates a client with the given per-attempt timeout.
func NewClient(timeout time.Duration) *Client {
	return &Client{
		http:        &http.Client{Timeout: timeout},
		maxRetries:  3,
		baseBackoff: 200 * time.Millisecond,
	}
}

func retryableStatus(code int) bool {
	return code == http.StatusBadGateway ||
		code == http.StatusServiceUnavailable ||
		code == http.StatusGatewayTimeout
}

func retryableVerb(method string) bool {
	return method == http.MethodGet || method == http.MethodPost
}

// DoJSON performs a request with a JSON body and decodes a 2xx response into
// out. It returns the final status code; a non-2xx status is not an error.
func (c *Client) DoJSON(
	ctx context.Context,
	method string,
	url string,
	header http.Header,
	body any,
	out any,
) (int, error) {
	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		if err != nil {
			return 0, fmt.Errorf("failed to marshal request body: %w", err)
		}
	}

	var status int

	backoff := retry.WithMaxRetries(c.maxRetries, retry.NewExponential(c.baseBackoff))
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		var reader io.Reader
		if payload != nil {
			reader = bytes.NewReader(payload)
		}

		req, err := http.NewRequestWithContext(ctx, method, url, reader)
		if err != nil {
			return err
		}
		for key, values := range header {
			for _, value := range values {
				req.Header.Add(key, value)
			}
		}
		if payload != nil {
			req.Header.Set("Content-Type", "application/json")
		}
		otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(req.Header))

		resp, err := c.http.Do(req)
		if err != nil {
			if retryableVerb(method) {
				return retry.RetryableError(err)
			}

			return err
		}
		defer resp.Body.Close()

		if retryableStatus(resp.StatusCode) && retryableVerb(method) {
			return retry.RetryableError(fmt.Errorf("transient upstream status %d", resp.StatusCode))
		}

		status = resp.StatusCode
		if out != nil && resp.StatusCode < 300 {
			if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
				return fmt.Errorf("failed to decode response body: %w", err)
			}
		}

		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("%w: %s %s: %s", ErrUnavailable, method, url, err.Error())
	}

	return status, nil
}
