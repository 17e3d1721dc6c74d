// Package mercury is the client for the external banking API. All money
// movement and transaction history lives there; this side only reads it and
// issues transfers.
package mercury

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/bathingculture/books/internal/money"
)

var ErrAccountNotFound = errors.New("mercury: account not found")

// UpstreamError is a non-OK response from the banking API. Handlers map it
// to a generic 500; the status is kept for the server-side log line.
type UpstreamError struct {
	StatusCode int
	Path       string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("mercury: %s returned status %d", e.Path, e.StatusCode)
}

type Transaction struct {
	ID               string       `json:"id"`
	AccountID        string       `json:"accountId"`
	CounterpartyID   string       `json:"counterpartyId"`
	CounterpartyName string       `json:"counterpartyName"`
	Amount           money.Amount `json:"amount"`
	Kind             string       `json:"kind"`
	Status           string       `json:"status"`
	PostedAt         time.Time    `json:"postedAt"`
}

type Account struct {
	ID            string `json:"id"`
	AccountNumber string `json:"accountNumber"`
	Name          string `json:"name"`
	Type          string `json:"type"`
}

type Recipient struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type TransferParams struct {
	RecipientID    string
	Amount         float64
	IdempotencyKey string
	Note           string
}

type Client struct {
	baseURL string
	token   string
	client  *http.Client

	// Account numbers almost never change, so ids resolved from the
	// accounts listing are cached for the life of the process and never
	// invalidated.
	mu         sync.Mutex
	accountIDs map[string]string
}

func NewClient(baseURL, token string) *Client {
	return &Client{
		baseURL:    baseURL,
		token:      token,
		client:     &http.Client{Timeout: 30 * time.Second},
		accountIDs: make(map[string]string),
	}
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reqBody *bytes.Reader

	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encoding request body: %w", err)
		}

		reqBody = bytes.NewReader(raw)
	} else {
		reqBody = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("executing request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return &UpstreamError{StatusCode: resp.StatusCode, Path: path}
	}

	if out == nil {
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}

	return nil
}

func (c *Client) Accounts(ctx context.Context) ([]Account, error) {
	var resp struct {
		Accounts []Account `json:"accounts"`
	}

	if err := c.do(ctx, http.MethodGet, "/accounts", nil, &resp); err != nil {
		return nil, err
	}

	return resp.Accounts, nil
}

// AccountID resolves an account number to the API's account id, filling the
// cache from a single accounts listing on first miss.
func (c *Client) AccountID(ctx context.Context, accountNumber string) (string, error) {
	c.mu.Lock()
	id, ok := c.accountIDs[accountNumber]
	c.mu.Unlock()

	if ok {
		return id, nil
	}

	accounts, err := c.Accounts(ctx)
	if err != nil {
		return "", fmt.Errorf("resolving account id: %w", err)
	}

	c.mu.Lock()
	for _, a := range accounts {
		c.accountIDs[a.AccountNumber] = a.ID
	}
	id, ok = c.accountIDs[accountNumber]
	c.mu.Unlock()

	if !ok {
		return "", fmt.Errorf("%w: %s", ErrAccountNotFound, accountNumber)
	}

	return id, nil
}

// AccountTransactions lists transactions for the account, starting at the
// given date (formatted YYYY-MM-DD).
func (c *Client) AccountTransactions(ctx context.Context, accountNumber, start string) ([]Transaction, error) {
	id, err := c.AccountID(ctx, accountNumber)
	if err != nil {
		return nil, err
	}

	var resp struct {
		Transactions []Transaction `json:"transactions"`
	}

	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/account/%s/transactions?start=%s", id, start), nil, &resp); err != nil {
		return nil, err
	}

	return resp.Transactions, nil
}

func (c *Client) Balance(ctx context.Context, accountNumber string) (float64, error) {
	id, err := c.AccountID(ctx, accountNumber)
	if err != nil {
		return 0, err
	}

	var resp struct {
		AvailableBalance money.Amount `json:"availableBalance"`
	}

	if err := c.do(ctx, http.MethodGet, "/account/"+id, nil, &resp); err != nil {
		return 0, err
	}

	return resp.AvailableBalance.Float(), nil
}

func (c *Client) Recipients(ctx context.Context) ([]Recipient, error) {
	var resp struct {
		Recipients []Recipient `json:"recipients"`
	}

	if err := c.do(ctx, http.MethodGet, "/recipients", nil, &resp); err != nil {
		return nil, err
	}

	return resp.Recipients, nil
}

// TransferResult is the banking API's record of an executed transfer.
type TransferResult struct {
	ID               string       `json:"id"`
	Amount           money.Amount `json:"amount"`
	CounterpartyID   string       `json:"counterpartyId"`
	CounterpartyName string       `json:"counterpartyName"`
}

// Transfer moves funds out of the given account over ACH. The idempotency
// key is passed through unchanged; deduplication on retry is the API's job.
func (c *Client) Transfer(ctx context.Context, fromAccountNumber string, params TransferParams) (*TransferResult, error) {
	id, err := c.AccountID(ctx, fromAccountNumber)
	if err != nil {
		return nil, err
	}

	body := map[string]any{
		"recipientId":    params.RecipientID,
		"amount":         params.Amount,
		"idempotencyKey": params.IdempotencyKey,
		"paymentMethod":  "ach",
	}
	if params.Note != "" {
		body["note"] = params.Note
	}

	var result TransferResult
	if err := c.do(ctx, http.MethodPost, fmt.Sprintf("/account/%s/transactions", id), body, &result); err != nil {
		return nil, err
	}

	return &result, nil
}
