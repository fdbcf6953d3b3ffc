package paygate

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/eventa-app/eventa-backend/pkg/config"
	"github.com/eventa-app/eventa-backend/pkg/logger"
)

var (
	errBaseURLRequired = errors.New("gateway base url is required")
	errAPIKeyRequired  = errors.New("gateway api key is required")

	// ErrReferenceNotFound signals the gateway has no record for the reference.
	ErrReferenceNotFound = errors.New("payment reference not found")
)

// Verification is the gateway's answer for one payment reference. The gateway
// reports amounts as decimal strings; AmountCents is the converted value.
type Verification struct {
	Reference   string
	Success     bool
	AmountCents int
	Currency    string
	GroupID     uuid.UUID
	RawPayload  []byte
}

type httpDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client calls the external payment gateway's verification endpoint.
type Client struct {
	baseURL string
	apiKey  string
	http    httpDoer
}

// NewClient initializes the gateway client with the configured credentials.
func NewClient(ctx context.Context, cfg config.GatewayConfig, logg *logger.Logger) (*Client, error) {
	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		return nil, errBaseURLRequired
	}
	apiKey := strings.TrimSpace(cfg.APIKey)
	if apiKey == "" {
		return nil, errAPIKeyRequired
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	if logg != nil {
		logg.Info(ctx, "payment gateway client initialized")
	}

	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		http:    &http.Client{Timeout: timeout},
	}, nil
}

// NewClientWithDoer builds a client around a custom HTTP transport. Test seam.
func NewClientWithDoer(baseURL, apiKey string, doer httpDoer) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		http:    doer,
	}
}

type verifyResponse struct {
	Reference string `json:"reference"`
	Status    string `json:"status"`
	Amount    string `json:"amount"`
	Currency  string `json:"currency"`
	GroupID   string `json:"group_id"`
}

// Verify asks the gateway whether the reference was paid, and for how much.
// The gateway offers no exactly-once guarantee; callers own idempotency.
func (c *Client) Verify(ctx context.Context, reference string) (*Verification, error) {
	if c == nil || c.http == nil {
		return nil, errors.New("gateway client not initialized")
	}
	reference = strings.TrimSpace(reference)
	if reference == "" {
		return nil, errors.New("payment reference is required")
	}

	url := fmt.Sprintf("%s/v1/payments/%s/verify", c.baseURL, reference)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build verify request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("call gateway: %w", err)
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("read gateway response: %w", err)
	}

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, ErrReferenceNotFound
	case resp.StatusCode != http.StatusOK:
		return nil, fmt.Errorf("gateway returned status %d", resp.StatusCode)
	}

	var body verifyResponse
	if err := json.Unmarshal(payload, &body); err != nil {
		return nil, fmt.Errorf("decode gateway response: %w", err)
	}

	groupID, err := uuid.Parse(body.GroupID)
	if err != nil {
		return nil, fmt.Errorf("gateway group id %q: %w", body.GroupID, err)
	}

	amountCents, err := parseAmountCents(body.Amount)
	if err != nil {
		return nil, err
	}

	return &Verification{
		Reference:   body.Reference,
		Success:     strings.EqualFold(body.Status, "approved"),
		AmountCents: amountCents,
		Currency:    body.Currency,
		GroupID:     groupID,
		RawPayload:  payload,
	}, nil
}

func parseAmountCents(raw string) (int, error) {
	amount, err := decimal.NewFromString(strings.TrimSpace(raw))
	if err != nil {
		return 0, fmt.Errorf("gateway amount %q: %w", raw, err)
	}
	cents := amount.Mul(decimal.NewFromInt(100))
	if !cents.IsInteger() {
		return 0, fmt.Errorf("gateway amount %q has sub-cent precision", raw)
	}
	return int(cents.IntPart()), nil
}
