package users

import (
	"context"
	"fmt"
	"net/http"

	"github.com/quickmart/backend/pkg/httpx"
)

// Identity is the user-service introspection result for a valid credential.
type Identity struct {
	Active bool   `json:"active"`
	UserID int64  `json:"user_id"`
	Email  string `json:"email"`
	Exp    int64  `json:"exp"`
}

// ErrUnauthorized covers every non-success introspection outcome: the
// verifier is a pure capability check and its rejections are never retried.
var ErrUnauthorized = fmt.Errorf("credential rejected")

// Client calls the user service.
type Client struct {
	baseURL string
	http    *httpx.Client
}

func NewClient(baseURL string, http *httpx.Client) *Client {
	return &Client{baseURL: baseURL, http: http}
}

// Introspect validates a bearer credential and returns the caller identity.
func (c *Client) Introspect(ctx context.Context, authorization string) (*Identity, error) {
	header := http.Header{}
	header.Set("Authorization", authorization)

	var identity Identity
	status, err := c.http.DoJSON(ctx, http.MethodGet, c.baseURL+"/auth/introspect", header, nil, &identity)
	if err != nil {
		return nil, fmt.Errorf("failed to introspect credential: %w", err)
	}
	if status != http.StatusOK {
		return nil, ErrUnauthorized
	}

	return &identity, nil
}
