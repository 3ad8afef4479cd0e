package medad

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"sync"
	"time"

	"golang.org/x/oauth2"

	"github.com/qistas/opsflow_backend/internal/apperrors"
	portssvc "github.com/qistas/opsflow_backend/internal/core/ports/services"
	"github.com/qistas/opsflow_backend/internal/dto"
	"github.com/qistas/opsflow_backend/internal/utils/retry"
)

// earlyRefresh renews the cached token this long before its stated expiry.
const earlyRefresh = 60 * time.Second

// Config carries the Medad bridge endpoint, credentials and the fixed
// subscription identifiers stamped onto every payload.
type Config struct {
	BaseURL        string
	Username       string
	Password       string
	SubscriptionID string
	BranchID       string
	FiscalYear     string
	PaymentType    string
	Version        string
	RequestTimeout time.Duration
	Retry          retry.Policy
}

// Client talks to the Medad HTTP bridge. Tokens are fetched once and reused
// until close to expiry; a 401 invalidates the cache and the request is
// retried with a fresh token.
type Client struct {
	cfg        Config
	httpClient *http.Client

	mu     sync.Mutex
	source *tokenSource
	tokens oauth2.TokenSource
}

// Ensure Client implements the gateway port
var _ portssvc.MedadGateway = (*Client)(nil)

func NewClient(cfg Config) *Client {
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = 10 * time.Second
	}
	if cfg.Retry.MaxAttempts == 0 {
		cfg.Retry = retry.DefaultPolicy()
	}
	c := &Client{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: cfg.RequestTimeout},
	}
	c.source = &tokenSource{cfg: cfg, client: c.httpClient}
	c.tokens = oauth2.ReuseTokenSourceWithExpiry(nil, c.source, earlyRefresh)
	return c
}

// tokenSource fetches a bearer token from the bridge's getToken endpoint.
// oauth2.ReuseTokenSourceWithExpiry wraps it, so Token is only hit when the
// cached token is absent or near expiry.
type tokenSource struct {
	cfg    Config
	client *http.Client
}

var _ oauth2.TokenSource = (*tokenSource)(nil)

func (ts *tokenSource) Token() (*oauth2.Token, error) {
	body, err := json.Marshal(map[string]string{
		"username": ts.cfg.Username,
		"password": ts.cfg.Password,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal token request: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), ts.client.Timeout)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, ts.cfg.BaseURL+"/getToken", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build token request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := ts.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("token request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read token response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, &apperrors.ExternalSyncError{StatusCode: resp.StatusCode, Body: string(respBody)}
	}

	var parsed struct {
		Token     string `json:"token"`
		ExpiresIn int64  `json:"expiresIn"` // seconds
	}
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return nil, fmt.Errorf("failed to decode token response: %w", err)
	}
	if parsed.Token == "" {
		return nil, fmt.Errorf("token response contained no token")
	}

	tok := &oauth2.Token{AccessToken: parsed.Token, TokenType: "Bearer"}
	if parsed.ExpiresIn > 0 {
		tok.Expiry = time.Now().Add(time.Duration(parsed.ExpiresIn) * time.Second)
	}
	return tok, nil
}

func (c *Client) token() (*oauth2.Token, error) {
	c.mu.Lock()
	src := c.tokens
	c.mu.Unlock()
	return src.Token()
}

// invalidate drops the cached token so the next call fetches a fresh one.
func (c *Client) invalidate() {
	c.mu.Lock()
	c.tokens = oauth2.ReuseTokenSourceWithExpiry(nil, c.source, earlyRefresh)
	c.mu.Unlock()
}

// do performs one authenticated round-trip. Non-2xx responses come back as
// *apperrors.ExternalSyncError so callers can persist the raw body.
func (c *Client) do(ctx context.Context, method, path string, payload any, query url.Values) ([]byte, error) {
	var reqBody []byte
	if payload != nil {
		var err error
		reqBody, err = json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request body: %w", err)
		}
	}

	var respBody []byte
	attempt := func(ctx context.Context) error {
		tok, err := c.token()
		if err != nil {
			return err
		}

		endpoint := c.cfg.BaseURL + path
		if len(query) > 0 {
			endpoint += "?" + query.Encode()
		}
		var bodyReader io.Reader
		if reqBody != nil {
			bodyReader = bytes.NewReader(reqBody)
		}
		req, err := http.NewRequestWithContext(ctx, method, endpoint, bodyReader)
		if err != nil {
			return retry.Permanent(fmt.Errorf("failed to build request: %w", err))
		}
		req.Header.Set("Authorization", "Bearer "+tok.AccessToken)
		if reqBody != nil {
			req.Header.Set("Content-Type", "application/json")
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return fmt.Errorf("request to %s failed: %w", path, err)
		}
		defer resp.Body.Close()

		respBody, err = io.ReadAll(resp.Body)
		if err != nil {
			return fmt.Errorf("failed to read response from %s: %w", path, err)
		}

		if resp.StatusCode >= 200 && resp.StatusCode < 300 {
			return nil
		}
		syncErr := &apperrors.ExternalSyncError{StatusCode: resp.StatusCode, Body: string(respBody)}
		switch {
		case resp.StatusCode == http.StatusUnauthorized:
			// Stale token; fetch a fresh one on the next attempt.
			c.invalidate()
			return syncErr
		case resp.StatusCode >= 500:
			return syncErr
		default:
			return retry.Permanent(syncErr)
		}
	}

	if err := retry.Do(ctx, c.cfg.Retry, attempt); err != nil {
		return nil, err
	}
	return respBody, nil
}

type postResponse struct {
	TransactionID string `json:"transactionId"`
}

func (c *Client) PostPayment(ctx context.Context, payload dto.MedadPaymentPayload) (dto.MedadSyncResult, error) {
	body, err := c.do(ctx, http.MethodPost, "/payment", payload, nil)
	if err != nil {
		return dto.MedadSyncResult{}, err
	}
	var parsed postResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return dto.MedadSyncResult{}, fmt.Errorf("failed to decode payment response: %w", err)
	}
	return dto.MedadSyncResult{Ref: parsed.TransactionID, RawResponse: string(body)}, nil
}

func (c *Client) PostInvoice(ctx context.Context, payload dto.MedadInvoicePayload) (dto.MedadSyncResult, error) {
	body, err := c.do(ctx, http.MethodPost, "/invoice", payload, nil)
	if err != nil {
		return dto.MedadSyncResult{}, err
	}
	var parsed postResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return dto.MedadSyncResult{}, fmt.Errorf("failed to decode invoice response: %w", err)
	}
	return dto.MedadSyncResult{Ref: parsed.TransactionID, RawResponse: string(body)}, nil
}

func (c *Client) ListCustomers(ctx context.Context, accountType string, page, limit int) ([]dto.MedadCustomer, error) {
	query := url.Values{}
	if accountType != "" {
		query.Set("accountType", accountType)
	}
	if page > 0 {
		query.Set("page", strconv.Itoa(page))
	}
	if limit > 0 {
		query.Set("limit", strconv.Itoa(limit))
	}

	body, err := c.do(ctx, http.MethodGet, "/customers", nil, query)
	if err != nil {
		return nil, err
	}
	var customers []dto.MedadCustomer
	if err := json.Unmarshal(body, &customers); err != nil {
		return nil, fmt.Errorf("failed to decode customers response: %w", err)
	}
	return customers, nil
}
