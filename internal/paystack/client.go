package paystack

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

const apiBaseURL = "https://api.paystack.co"

// Customer identifies the payer as reported by Paystack.
type Customer struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
}

// TransactionData is the payload of a verification response. Amount is in
// subunits (pesewas), so GHS 300.00 arrives as 30000.
type TransactionData struct {
	Status    string   `json:"status"`
	Reference string   `json:"reference"`
	Amount    int64    `json:"amount"`
	Customer  Customer `json:"customer"`
}

// VerifyResponse is Paystack's transaction-verify envelope.
type VerifyResponse struct {
	Status  bool            `json:"status"`
	Message string          `json:"message"`
	Data    TransactionData `json:"data"`
}

// Succeeded reports whether the authority confirmed the payment.
func (r *VerifyResponse) Succeeded() bool {
	return r.Status && r.Data.Status == "success"
}

// Verifier checks a payment reference with the payment authority.
type Verifier interface {
	VerifyTransaction(ctx context.Context, reference string) (*VerifyResponse, error)
}

// Client calls the Paystack REST API.
type Client struct {
	secretKey  string
	baseURL    string
	httpClient *http.Client
}

var _ Verifier = (*Client)(nil)

// NewClient creates a Paystack API client.
func NewClient(secretKey string) *Client {
	return &Client{
		secretKey:  secretKey,
		baseURL:    apiBaseURL,
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}
}

// VerifyTransaction fetches the status of a transaction by its reference.
// A transport failure or malformed body returns an error; a rejected payment
// does not — the caller inspects the response.
func (c *Client) VerifyTransaction(ctx context.Context, reference string) (*VerifyResponse, error) {
	endpoint := fmt.Sprintf("%s/transaction/verify/%s", c.baseURL, reference)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("build verify request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.secretKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("call paystack: %w", err)
	}
	defer resp.Body.Close()

	var body VerifyResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("decode paystack response: %w", err)
	}
	return &body, nil
}
