package payment

import (
	"context"
	"fmt"

	"github.com/go-resty/resty/v2"

	"symptom-checker-server/internal/config"
)

// Client talks to the hosted checkout provider (Paystack-compatible API).
type Client struct {
	http *resty.Client
}

// NewClient creates a provider client from config.
func NewClient(cfg config.PaymentConfig) *Client {
	http := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetAuthToken(cfg.SecretKey).
		SetHeader("Content-Type", "application/json")
	return &Client{http: http}
}

// InitResult is the provider's answer to a transaction initialization.
type InitResult struct {
	AuthorizationURL string `json:"authorization_url"`
	AccessCode       string `json:"access_code"`
	Reference        string `json:"reference"`
}

type initResponse struct {
	Status  bool       `json:"status"`
	Message string     `json:"message"`
	Data    InitResult `json:"data"`
}

// VerifyResult is the outcome of a transaction verification.
type VerifyResult struct {
	Status   string            `json:"status"` // success, failed, abandoned
	Amount   int               `json:"amount"`
	Metadata map[string]string `json:"metadata"`
}

type verifyResponse struct {
	Status  bool         `json:"status"`
	Message string       `json:"message"`
	Data    VerifyResult `json:"data"`
}

// InitializeTransaction creates a checkout session and returns the hosted
// payment page URL the client should redirect to.
func (c *Client) InitializeTransaction(ctx context.Context, email string, amount int, callbackURL string, metadata map[string]string) (*InitResult, error) {
	var out initResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(map[string]interface{}{
			"email":        email,
			"amount":       amount,
			"callback_url": callbackURL,
			"metadata":     metadata,
		}).
		SetResult(&out).
		Post("/transaction/initialize")
	if err != nil {
		return nil, fmt.Errorf("checkout initialization failed: %w", err)
	}
	if resp.IsError() || !out.Status {
		return nil, fmt.Errorf("checkout initialization rejected: %s", out.Message)
	}
	return &out.Data, nil
}

// VerifyTransaction checks the final state of a transaction by reference.
func (c *Client) VerifyTransaction(ctx context.Context, reference string) (*VerifyResult, error) {
	var out verifyResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetResult(&out).
		Get("/transaction/verify/" + reference)
	if err != nil {
		return nil, fmt.Errorf("transaction verification failed: %w", err)
	}
	if resp.IsError() || !out.Status {
		return nil, fmt.Errorf("transaction verification rejected: %s", out.Message)
	}
	return &out.Data, nil
}
