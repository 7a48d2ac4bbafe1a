package payments

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/quickmart/backend/pkg/httpx"
)

// Receipt is the payment-service capture result.
type Receipt struct {
	Status   string          `json:"status"`
	Amount   decimal.Decimal `json:"amount"`
	Currency string          `json:"currency"`
}

var ErrDeclined = errors.New("payment declined")

type payRequest struct {
	Amount   decimal.Decimal `json:"amount"`
	Currency string          `json:"currency"`
	Source   string          `json:"source"`
}

// Client calls the payment service.
type Client struct {
	baseURL string
	http    *httpx.Client
}

func NewClient(baseURL string, http *httpx.Client) *Client {
	return &Client{baseURL: baseURL, http: http}
}

// Pay captures a charge under the given idempotency key.
func (c *Client) Pay(
	ctx context.Context,
	idempotencyKey string,
	amount decimal.Decimal,
	currency string,
	source string,
) (*Receipt, error) {
	header := http.Header{}
	header.Set("X-Idempotency-Key", idempotencyKey)

	body := payRequest{Amount: amount, Currency: currency, Source: source}

	var receipt Receipt
	status, err := c.http.DoJSON(ctx, http.MethodPost, c.baseURL+"/pay", header, body, &receipt)
	if err != nil {
		return nil, fmt.Errorf("failed to capture payment: %w", err)
	}
	if status != http.StatusOK {
		return nil, ErrDeclined
	}

	return &receipt, nil
}
