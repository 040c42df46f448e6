package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// Client talks to an external authorizer over HTTP. The gateway contract is
// a single POST /authorize returning 200 on success and 402 on decline.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

func NewClient(gatewayURL string) *Client {
	return &Client{
		baseURL: gatewayURL,
		httpClient: &http.Client{
			Timeout: 5 * time.Second,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
	}
}

func (c *Client) Charge(ctx context.Context, chargeReq ChargeRequest) error {
	body, err := json.Marshal(chargeReq)
	if err != nil {
		return fmt.Errorf("encode charge: %w", err)
	}

	req, err := http.NewRequestWithContext(
		ctx,
		http.MethodPost,
		c.baseURL+"/authorize",
		bytes.NewReader(body),
	)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		return nil
	case http.StatusPaymentRequired:
		return ErrDeclined
	default:
		return fmt.Errorf("gateway returned status %d", resp.StatusCode)
	}
}
