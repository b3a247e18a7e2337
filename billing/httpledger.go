package billing

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/Laisky/errors/v2"
	"github.com/Laisky/zap"

	"github.com/kortix-ai/gateway/common/logger"
)

// HTTPLedger talks to the legacy billing application over HTTP. It is the
// fallback ledger: used only when the direct store is not configured.
type HTTPLedger struct {
	BaseURL string
	APIKey  string
	Client  *http.Client
}

// NewHTTPLedger builds the fallback ledger client. Returns nil when baseURL
// is empty so callers can treat absence uniformly.
func NewHTTPLedger(baseURL, apiKey string, client *http.Client) *HTTPLedger {
	if baseURL == "" {
		return nil
	}
	if client == nil {
		client = http.DefaultClient
	}
	return &HTTPLedger{BaseURL: baseURL, APIKey: apiKey, Client: client}
}

type httpBalanceResponse struct {
	Balance float64 `json:"balance"`
}

type httpDebitRequest struct {
	Account     string         `json:"account"`
	Amount      float64        `json:"amount"`
	Description string         `json:"description"`
	Session     string         `json:"session,omitempty"`
	Metadata    map[string]any `json:"metadata,omitempty"`
}

type httpDebitResponse struct {
	Success       bool    `json:"success"`
	Cost          float64 `json:"cost"`
	NewBalance    float64 `json:"new_balance"`
	TransactionID string  `json:"transaction_id"`
}

// GetBalance fetches the account balance. Network failure fails OPEN: the
// gateway must not refuse user traffic because the billing service is down,
// so the caller receives hasCredits=true with a nil balance.
func (l *HTTPLedger) GetBalance(ctx context.Context, accountID string) (balance *float64, failedOpen bool) {
	endpoint := fmt.Sprintf("%s/balance?account=%s", l.BaseURL, url.QueryEscape(accountID))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		logger.Logger.Warn("build balance request failed", zap.Error(err))
		return nil, true
	}
	l.authorize(req)

	resp, err := l.Client.Do(req)
	if err != nil {
		logger.Logger.Warn("balance check failed open",
			zap.String("account", accountID),
			zap.Error(err))
		return nil, true
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 200))
		logger.Logger.Warn("balance check failed open",
			zap.String("account", accountID),
			zap.Int("status", resp.StatusCode),
			zap.ByteString("body", snippet))
		return nil, true
	}

	var parsed httpBalanceResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		logger.Logger.Warn("balance decode failed open", zap.Error(err))
		return nil, true
	}

	return &parsed.Balance, false
}

// Debit posts a debit against the remote ledger. A failed debit is reported
// to the caller but never escalated: billing loss is accepted over request
// loss.
func (l *HTTPLedger) Debit(ctx context.Context, accountID string, amount float64, description, sessionID string) (*DebitOutcome, error) {
	payload, err := json.Marshal(httpDebitRequest{
		Account:     accountID,
		Amount:      amount,
		Description: description,
		Session:     sessionID,
	})
	if err != nil {
		return nil, errors.Wrap(err, "marshal debit request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, l.BaseURL+"/debit", bytes.NewReader(payload))
	if err != nil {
		return nil, errors.Wrap(err, "build debit request")
	}
	req.Header.Set("Content-Type", "application/json")
	l.authorize(req)

	resp, err := l.Client.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "post debit")
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 200))
		return nil, errors.Errorf("debit rejected: status %d: %s", resp.StatusCode, snippet)
	}

	var parsed httpDebitResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, errors.Wrap(err, "decode debit response")
	}
	if !parsed.Success {
		return nil, errors.New("debit reported failure")
	}

	newBalance := parsed.NewBalance
	return &DebitOutcome{
		Success:       true,
		Amount:        parsed.Cost,
		NewBalance:    &newBalance,
		TransactionID: parsed.TransactionID,
	}, nil
}

func (l *HTTPLedger) authorize(req *http.Request) {
	if l.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+l.APIKey)
	}
}
