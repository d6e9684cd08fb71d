package payments

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha512"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"time"

	"salonhub/internal/shared/config"
)

// ErrGateway marks upstream gateway failures. Callers treat these as
// retryable; the local payment row is never mutated on this error.
var ErrGateway = errors.New("payment gateway error")

// Gateway abstracts the payment provider for the reconciler
type Gateway interface {
	Initialize(ctx context.Context, req InitializeRequest) (*InitializeData, error)
	Verify(ctx context.Context, reference string) (*TransactionData, json.RawMessage, error)
	Refund(ctx context.Context, reference string, amountSubunits int64) (json.RawMessage, error)
	ValidateSignature(body []byte, signature string) bool
}

// InitializeRequest starts a hosted checkout session. Amount is in the
// currency's subunits (pesewas for GHS).
type InitializeRequest struct {
	Email       string            `json:"email"`
	Amount      int64             `json:"amount"`
	Reference   string            `json:"reference"`
	Currency    string            `json:"currency"`
	CallbackURL string            `json:"callback_url,omitempty"`
	Metadata    map[string]string `json:"metadata,omitempty"`
}

// InitializeData is returned by a successful initialize call
type InitializeData struct {
	AuthorizationURL string `json:"authorization_url"`
	AccessCode       string `json:"access_code"`
	Reference        string `json:"reference"`
}

// TransactionData is the subset of the gateway's transaction object the
// reconciler uses
type TransactionData struct {
	ID              int64  `json:"id"`
	Status          string `json:"status"`
	Reference       string `json:"reference"`
	Amount          int64  `json:"amount"`
	Currency        string `json:"currency"`
	GatewayResponse string `json:"gateway_response"`
	PaidAt          string `json:"paid_at"`
}

type apiEnvelope struct {
	Status  bool            `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

// PaystackClient talks to the Paystack REST API
type PaystackClient struct {
	secretKey     string
	webhookSecret string
	baseURL       string
	httpClient    *http.Client
}

// NewPaystackClient creates a gateway client from configuration
func NewPaystackClient(cfg config.PaystackConfig) *PaystackClient {
	timeout := cfg.ClientTimeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}

	webhookSecret := cfg.WebhookSecret
	if webhookSecret == "" {
		// Paystack signs webhooks with the account secret key unless a
		// dedicated webhook secret is configured
		webhookSecret = cfg.SecretKey
	}

	return &PaystackClient{
		secretKey:     cfg.SecretKey,
		webhookSecret: webhookSecret,
		baseURL:       cfg.BaseURL,
		httpClient:    &http.Client{Timeout: timeout},
	}
}

func (c *PaystackClient) Initialize(ctx context.Context, req InitializeRequest) (*InitializeData, error) {
	raw, err := c.do(ctx, http.MethodPost, "/transaction/initialize", req)
	if err != nil {
		return nil, err
	}

	var data InitializeData
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("%w: malformed initialize response", ErrGateway)
	}
	return &data, nil
}

// Verify fetches the authoritative transaction state by reference. The
// raw data payload is returned alongside for audit storage.
func (c *PaystackClient) Verify(ctx context.Context, reference string) (*TransactionData, json.RawMessage, error) {
	raw, err := c.do(ctx, http.MethodGet, "/transaction/verify/"+reference, nil)
	if err != nil {
		return nil, nil, err
	}

	var data TransactionData
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, nil, fmt.Errorf("%w: malformed verify response", ErrGateway)
	}
	return &data, raw, nil
}

func (c *PaystackClient) Refund(ctx context.Context, reference string, amountSubunits int64) (json.RawMessage, error) {
	payload := map[string]interface{}{
		"transaction": reference,
		"amount":      amountSubunits,
	}
	return c.do(ctx, http.MethodPost, "/refund", payload)
}

// ValidateSignature checks the x-paystack-signature header against the
// hex encoded HMAC-SHA512 of the raw body. Comparison is constant time.
func (c *PaystackClient) ValidateSignature(body []byte, signature string) bool {
	if signature == "" {
		return false
	}

	mac := hmac.New(sha512.New, []byte(c.webhookSecret))
	mac.Write(body)
	expected := hex.EncodeToString(mac.Sum(nil))

	return hmac.Equal([]byte(expected), []byte(signature))
}

func (c *PaystackClient) do(ctx context.Context, method, path string, body interface{}) (json.RawMessage, error) {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to encode gateway request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to build gateway request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.secretKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrGateway, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: reading response: %v", ErrGateway, err)
	}

	var envelope apiEnvelope
	if err := json.Unmarshal(respBody, &envelope); err != nil {
		return nil, fmt.Errorf("%w: malformed response (HTTP %d)", ErrGateway, resp.StatusCode)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 || !envelope.Status {
		return nil, fmt.Errorf("%w: %s (HTTP %d)", ErrGateway, envelope.Message, resp.StatusCode)
	}

	return envelope.Data, nil
}

// toSubunits converts a major-unit amount to the gateway's integer
// subunits, rounding to avoid float truncation artifacts.
func toSubunits(amount float64) int64 {
	return int64(math.Round(amount * 100))
}
