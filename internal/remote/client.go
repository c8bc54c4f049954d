package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/egabank/ega/internal/model"
	"go.uber.org/zap"
)

// ErrNotFound is returned when the remote answers 404.
var ErrNotFound = errors.New("remote resource not found")

// APIError is a 4xx answer other than 404: the remote rejected the request
// and retrying it unchanged will not help.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("remote rejected request: %d %s", e.StatusCode, http.StatusText(e.StatusCode))
	}
	return fmt.Sprintf("remote rejected request: %d %s", e.StatusCode, e.Message)
}

// Client talks to the remote persistence API.
type Client struct {
	baseURL *url.URL
	http    *http.Client
	logger  *zap.Logger
}

func New(baseURL string, timeout time.Duration, logger *zap.Logger) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid remote base url %q", baseURL)
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		baseURL: u,
		http:    &http.Client{Timeout: timeout},
		logger:  logger,
	}, nil
}

func (c *Client) BaseURL() string { return c.baseURL.String() }

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		reader = bytes.NewReader(b)
	}

	endpoint := c.baseURL.JoinPath(path).String()
	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("%w: %s %s: %v", model.ErrRemoteUnavailable, method, path, err)
	}
	defer resp.Body.Close()

	c.logger.Debug("remote call",
		zap.String("method", method),
		zap.String("path", path),
		zap.Int("status", resp.StatusCode),
		zap.Duration("took", time.Since(start)),
	)

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return fmt.Errorf("%s %s: %w", method, path, ErrNotFound)
	case resp.StatusCode >= 500:
		return fmt.Errorf("%w: %s %s: status %d", model.ErrRemoteUnavailable, method, path, resp.StatusCode)
	case resp.StatusCode >= 400:
		return decodeAPIError(resp)
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return fmt.Errorf("failed to decode %s %s response: %w", method, path, err)
	}
	return nil
}

func decodeAPIError(resp *http.Response) error {
	apiErr := &APIError{StatusCode: resp.StatusCode}
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))

	var body errorBody
	if json.Unmarshal(raw, &body) == nil {
		apiErr.Message = body.Message
		if apiErr.Message == "" {
			apiErr.Message = body.Error
		}
	}
	if apiErr.Message == "" {
		apiErr.Message = strings.TrimSpace(string(raw))
	}
	return apiErr
}

func idPath(collection string, id int64, rest ...string) string {
	return strings.Join(append([]string{collection, strconv.FormatInt(id, 10)}, rest...), "/")
}

// Clients

func (c *Client) Clients(ctx context.Context) ([]model.Client, error) {
	var dtos []clientDTO
	if err := c.do(ctx, http.MethodGet, "clients", nil, &dtos); err != nil {
		return nil, err
	}
	out := make([]model.Client, 0, len(dtos))
	for _, d := range dtos {
		out = append(out, clientFromDTO(d))
	}
	return out, nil
}

func (c *Client) CreateClient(ctx context.Context, cl model.Client) (model.Client, error) {
	dto := clientToDTO(cl)
	dto.ID = 0
	var created clientDTO
	if err := c.do(ctx, http.MethodPost, "clients", dto, &created); err != nil {
		return model.Client{}, err
	}
	return clientFromDTO(created), nil
}

func (c *Client) UpdateClient(ctx context.Context, cl model.Client) (model.Client, error) {
	var updated clientDTO
	if err := c.do(ctx, http.MethodPut, idPath("clients", cl.RemoteID), clientToDTO(cl), &updated); err != nil {
		return model.Client{}, err
	}
	if updated.ID == 0 {
		updated.ID = cl.RemoteID
	}
	return clientFromDTO(updated), nil
}

func (c *Client) DeleteClient(ctx context.Context, remoteID int64) error {
	return c.do(ctx, http.MethodDelete, idPath("clients", remoteID), nil, nil)
}

// Accounts

func (c *Client) Accounts(ctx context.Context) ([]model.Account, error) {
	var dtos []accountDTO
	if err := c.do(ctx, http.MethodGet, "comptes", nil, &dtos); err != nil {
		return nil, err
	}
	out := make([]model.Account, 0, len(dtos))
	for _, d := range dtos {
		out = append(out, accountFromDTO(d))
	}
	return out, nil
}

func (c *Client) CreateAccount(ctx context.Context, a model.Account, clientRemoteID int64) (model.Account, error) {
	dto := accountToDTO(a, clientRemoteID)
	dto.ID = 0
	var created accountDTO
	if err := c.do(ctx, http.MethodPost, "comptes", dto, &created); err != nil {
		return model.Account{}, err
	}
	return accountFromDTO(created), nil
}

func (c *Client) UpdateAccount(ctx context.Context, a model.Account, clientRemoteID int64) (model.Account, error) {
	var updated accountDTO
	if err := c.do(ctx, http.MethodPut, idPath("comptes", a.RemoteID), accountToDTO(a, clientRemoteID), &updated); err != nil {
		return model.Account{}, err
	}
	if updated.ID == 0 {
		updated.ID = a.RemoteID
	}
	return accountFromDTO(updated), nil
}

func (c *Client) DeleteAccount(ctx context.Context, remoteID int64) error {
	return c.do(ctx, http.MethodDelete, idPath("comptes", remoteID), nil, nil)
}

// Transactions

func (c *Client) Transactions(ctx context.Context) ([]model.Transaction, error) {
	var dtos []transactionDTO
	if err := c.do(ctx, http.MethodGet, "transactions", nil, &dtos); err != nil {
		return nil, err
	}

	var numbers map[int64]string
	for _, d := range dtos {
		if d.NumeroCompte == "" && (d.Compte == nil || d.Compte.NumeroCompte == "") {
			numbers, _ = c.accountNumbers(ctx)
			break
		}
	}

	out := make([]model.Transaction, 0, len(dtos))
	for _, d := range dtos {
		out = append(out, transactionFromDTO(d, numbers))
	}
	return out, nil
}

func (c *Client) accountNumbers(ctx context.Context) (map[int64]string, error) {
	accounts, err := c.Accounts(ctx)
	if err != nil {
		return nil, err
	}
	m := make(map[int64]string, len(accounts))
	for _, a := range accounts {
		m[a.RemoteID] = a.Number
	}
	return m, nil
}

func (c *Client) CreateTransaction(ctx context.Context, t model.Transaction, accountRemoteID int64) (model.Transaction, error) {
	dto := transactionToDTO(t, accountRemoteID)
	dto.ID = 0
	var created transactionDTO
	if err := c.do(ctx, http.MethodPost, "transactions", dto, &created); err != nil {
		return model.Transaction{}, err
	}
	if created.NumeroCompte == "" {
		created.NumeroCompte = t.AccountNumber
	}
	return transactionFromDTO(created, nil), nil
}

// DeleteAccountTransactions removes every transaction of one remote account.
func (c *Client) DeleteAccountTransactions(ctx context.Context, accountRemoteID int64) error {
	return c.do(ctx, http.MethodDelete, idPath("comptes", accountRemoteID, "transactions"), nil, nil)
}

// Ping checks that the remote answers at all.
func (c *Client) Ping(ctx context.Context) error {
	return c.do(ctx, http.MethodGet, "clients", nil, nil)
}
