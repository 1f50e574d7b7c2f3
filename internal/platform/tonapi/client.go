package tonapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"
)

// Client is a TonAPI HTTP client. It covers the two read-only views the
// storefront needs: recent transactions of the receiving wallet and account
// balances. No write-back, no subscriptions.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client

	// Rate limiting: the public tonapi.io tier is heavily throttled.
	mu       sync.Mutex
	lastCall time.Time
	minDelay time.Duration
}

// NewClient creates a new TonAPI client. apiKey may be empty for the public
// rate-limited endpoint.
func NewClient(baseURL, apiKey string) *Client {
	if baseURL == "" {
		baseURL = "https://tonapi.io"
	}
	return &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		minDelay: 250 * time.Millisecond, // ~4 RPS
	}
}

// throttle reserves the next call slot and waits for it without holding the
// lock, so a cancelled caller never blocks the others.
func (c *Client) throttle(ctx context.Context) error {
	c.mu.Lock()
	wait := c.minDelay - time.Since(c.lastCall)
	if wait < 0 {
		wait = 0
	}
	c.lastCall = time.Now().Add(wait)
	c.mu.Unlock()

	if wait == 0 {
		return nil
	}

	timer := time.NewTimer(wait)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func (c *Client) doRequest(ctx context.Context, path string, out interface{}) error {
	if err := c.throttle(ctx); err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("tonapi http %d: %s", resp.StatusCode, truncate(string(data), 200))
	}

	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("unmarshal: %w", err)
	}
	return nil
}

// GetTransactions returns the most recent transactions for an account,
// newest first.
func (c *Client) GetTransactions(ctx context.Context, address string, limit int) ([]Transaction, error) {
	if limit <= 0 {
		limit = 20
	}
	var resp TransactionsResponse
	path := fmt.Sprintf("/v2/blockchain/accounts/%s/transactions?limit=%d", address, limit)
	if err := c.doRequest(ctx, path, &resp); err != nil {
		return nil, err
	}
	return resp.Transactions, nil
}

// GetBalanceNano returns the native TON balance of an account in nanoTON.
func (c *Client) GetBalanceNano(ctx context.Context, address string) (int64, error) {
	var resp AccountInfo
	if err := c.doRequest(ctx, "/v2/accounts/"+address, &resp); err != nil {
		return 0, err
	}
	return resp.Balance, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
