package paymentControllers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"
)

// CheckoutRequest is what the core hands the payment provider to open a
// hosted checkout session.
type CheckoutRequest struct {
	Amount      float64
	Currency    string
	FirstName   string
	Email       string
	APIRef      string
	CallbackURL string
	RedirectURL string
}

// CheckoutSession is the provider's answer: where to send the customer, and
// the provider's own invoice reference when it is already known.
type CheckoutSession struct {
	URL       string
	InvoiceID string
}

// Provider creates hosted checkout sessions. It is injected so tests can
// substitute a fake instead of reaching the real gateway.
type Provider interface {
	CreateCheckoutSession(ctx context.Context, req CheckoutRequest) (*CheckoutSession, error)
}

// IntaSendClient talks to the IntaSend checkout API.
type IntaSendClient struct {
	BaseURL   string
	SecretKey string
	PublicKey string
	Client    *http.Client
}

// NewIntaSendClientFromEnv builds the client from INTASEND_* environment
// variables, defaulting to the sandbox endpoint. The HTTP client carries a
// bounded timeout; a timeout is treated as an initiation failure upstream.
func NewIntaSendClientFromEnv() *IntaSendClient {
	baseURL := os.Getenv("INTASEND_BASE_URL")
	if baseURL == "" {
		baseURL = "https://sandbox.intasend.com/api/v1"
	}
	return &IntaSendClient{
		BaseURL:   strings.TrimRight(baseURL, "/"),
		SecretKey: os.Getenv("INTASEND_SECRET_KEY"),
		PublicKey: os.Getenv("INTASEND_PUBLIC_KEY"),
		Client:    &http.Client{Timeout: 15 * time.Second},
	}
}

type intaSendCheckoutResponse struct {
	URL       string `json:"url"`
	InvoiceID string `json:"invoice_id"`
}

func (c *IntaSendClient) CreateCheckoutSession(ctx context.Context, req CheckoutRequest) (*CheckoutSession, error) {
	payload := map[string]interface{}{
		"public_key":   c.PublicKey,
		"currency":     req.Currency,
		"amount":       req.Amount,
		"first_name":   req.FirstName,
		"last_name":    "",
		"email":        req.Email,
		"api_ref":      req.APIRef,
		"callback_url": req.CallbackURL,
		"redirect_url": req.RedirectURL,
	}

	jsonData, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/checkout/", bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("X-IntaSend-Secret-Key", c.SecretKey)
	httpReq.Header.Set("X-IntaSend-Public-API-Key", c.PublicKey)
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.Client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("failed to reach IntaSend: %v", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return nil, fmt.Errorf("intasend checkout failed (%d): %s", resp.StatusCode, string(body))
	}

	var checkout intaSendCheckoutResponse
	if err := json.Unmarshal(body, &checkout); err != nil {
		return nil, fmt.Errorf("failed to parse IntaSend response: %v", err)
	}
	if checkout.URL == "" {
		return nil, fmt.Errorf("intasend returned empty checkout URL")
	}

	return &CheckoutSession{URL: checkout.URL, InvoiceID: checkout.InvoiceID}, nil
}
