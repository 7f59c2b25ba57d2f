// Package plaid is a small client for the Plaid endpoints the ledger sync
// needs. It implements reconcile.Provider.
package plaid

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/MrJamesThe3rd/ledgersync/internal/item"
	"github.com/MrJamesThe3rd/ledgersync/internal/reconcile"
)

const (
	SandboxURL    = "https://sandbox.plaid.com"
	ProductionURL = "https://production.plaid.com"

	apiVersion     = "2020-09-14"
	defaultTimeout = 30 * time.Second

	itemGetPath          = "/item/get"
	balanceGetPath       = "/accounts/balance/get"
	transactionsGetPath  = "/transactions/get"
	transactionsSyncPath = "/transactions/sync"
)

var _ reconcile.Provider = (*Client)(nil)

// BaseURL maps an environment name to its API host. Unknown names fall back to production.
func BaseURL(env string) string {
	if strings.EqualFold(env, "sandbox") {
		return SandboxURL
	}

	return ProductionURL
}

type Config struct {
	ClientID string
	Secret   string
	Env      string
	// BaseURL overrides the host derived from Env.
	BaseURL string
	Timeout time.Duration
	// Rate is requests per second; zero or less disables throttling.
	Rate float64
}

type Client struct {
	httpClient *http.Client
	baseURL    string
	creds      credentials
	limiter    *rate.Limiter
}

func NewClient(cfg Config) *Client {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = BaseURL(cfg.Env)
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	limit := rate.Inf
	if cfg.Rate > 0 {
		limit = rate.Limit(cfg.Rate)
	}

	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    strings.TrimRight(baseURL, "/"),
		creds:      credentials{ClientID: cfg.ClientID, Secret: cfg.Secret},
		limiter:    rate.NewLimiter(limit, 1),
	}
}

func (c *Client) GetItemInfo(ctx context.Context, accessToken string) (*item.Info, error) {
	var resp itemGetResponse
	if err := c.post(ctx, itemGetPath, accessTokenRequest{credentials: c.creds, AccessToken: accessToken}, &resp); err != nil {
		return nil, err
	}

	return resp.toInfo(), nil
}

func (c *Client) GetBalances(ctx context.Context, accessToken string) ([]*item.Balance, error) {
	var resp balanceGetResponse
	if err := c.post(ctx, balanceGetPath, accessTokenRequest{credentials: c.creds, AccessToken: accessToken}, &resp); err != nil {
		return nil, err
	}

	balances := make([]*item.Balance, len(resp.Accounts))
	for i := range resp.Accounts {
		balances[i] = resp.Accounts[i].toBalance()
	}

	return balances, nil
}

func (c *Client) GetTransactionsPage(ctx context.Context, accessToken string, req reconcile.TransactionsPageRequest) (*reconcile.TransactionsPage, error) {
	body := transactionsGetRequest{
		credentials: c.creds,
		AccessToken: accessToken,
		StartDate:   Date{req.Window.Start},
		EndDate:     Date{req.Window.End},
		Options: transactionsGetOptions{
			Count:      req.Limit,
			Offset:     req.Offset,
			AccountIDs: req.AccountIDs,
		},
	}

	var resp transactionsGetResponse
	if err := c.post(ctx, transactionsGetPath, body, &resp); err != nil {
		return nil, err
	}

	return &reconcile.TransactionsPage{
		Transactions: toTransactions(resp.Transactions),
		Total:        resp.TotalTransactions,
	}, nil
}

func (c *Client) SyncChangesPage(ctx context.Context, accessToken, cursor string) (*reconcile.ChangesPage, error) {
	body := transactionsSyncRequest{credentials: c.creds, AccessToken: accessToken, Cursor: cursor}

	var resp transactionsSyncResponse
	if err := c.post(ctx, transactionsSyncPath, body, &resp); err != nil {
		return nil, err
	}

	removed := make([]string, len(resp.Removed))
	for i, r := range resp.Removed {
		removed[i] = r.TransactionID
	}

	return &reconcile.ChangesPage{
		Added:      toTransactions(resp.Added),
		Modified:   toTransactions(resp.Modified),
		Removed:    removed,
		NextCursor: resp.NextCursor,
		HasMore:    resp.HasMore,
	}, nil
}

// post sends one JSON request. Every failure comes back as a *reconcile.ProviderError.
func (c *Client) post(ctx context.Context, path string, in, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return transportError(path, err)
	}

	payload, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("encoding %s request: %w", path, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("creating %s request: %w", path, err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Plaid-Version", apiVersion)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return transportError(path, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return transportError(path, fmt.Errorf("reading response: %w", err))
	}

	if resp.StatusCode != http.StatusOK {
		return classify(resp.StatusCode, body)
	}

	if err := json.Unmarshal(body, out); err != nil {
		return &reconcile.ProviderError{
			Kind:    reconcile.UnknownProviderError,
			Message: fmt.Sprintf("decoding %s response", path),
			Status:  resp.StatusCode,
			Err:     err,
		}
	}

	return nil
}

func transportError(path string, err error) error {
	return &reconcile.ProviderError{
		Kind:    reconcile.UnknownProviderError,
		Message: fmt.Sprintf("calling %s", path),
		Err:     err,
	}
}
