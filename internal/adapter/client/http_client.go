package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rl1809/fishstock/internal/core/domain"
)

const defaultTimeout = 10 * time.Second

// HTTPClient talks to the REST collection endpoints.
type HTTPClient struct {
	baseURL string
	token   string
	http    *http.Client
}

// NewHTTPClient builds a client rooted at baseURL, e.g. http://localhost:8080
// or https://site/.netlify/functions. A nil httpClient gets a default with a
// 10 second timeout; an empty token sends no Authorization header.
func NewHTTPClient(baseURL, token string, httpClient *http.Client) *HTTPClient {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultTimeout}
	}
	return &HTTPClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		http:    httpClient,
	}
}

type mutation struct {
	Action string      `json:"action"`
	Item   interface{} `json:"item,omitempty"`
	Tx     interface{} `json:"tx,omitempty"`
	ID     int64       `json:"id,omitempty"`
}

type okResponse struct {
	OK bool `json:"ok"`
}

func (c *HTTPClient) ListInventory(ctx context.Context) ([]domain.InventoryItem, error) {
	items := []domain.InventoryItem{}
	if err := c.do(ctx, http.MethodGet, "/inventory", nil, &items); err != nil {
		return nil, err
	}
	return items, nil
}

func (c *HTTPClient) AddInventory(ctx context.Context, item domain.InventoryItem) (domain.InventoryItem, error) {
	var created domain.InventoryItem
	if err := c.do(ctx, http.MethodPost, "/inventory", mutation{Action: "add", Item: item}, &created); err != nil {
		return domain.InventoryItem{}, err
	}
	return created, nil
}

func (c *HTTPClient) UpdateInventory(ctx context.Context, item domain.InventoryItem) error {
	return c.do(ctx, http.MethodPost, "/inventory", mutation{Action: "update", Item: item}, &okResponse{})
}

func (c *HTTPClient) DeleteInventory(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodPost, "/inventory", mutation{Action: "delete", ID: id}, &okResponse{})
}

func (c *HTTPClient) ListTransactions(ctx context.Context) ([]domain.Transaction, error) {
	txs := []domain.Transaction{}
	if err := c.do(ctx, http.MethodGet, "/transactions", nil, &txs); err != nil {
		return nil, err
	}
	return txs, nil
}

func (c *HTTPClient) AddTransaction(ctx context.Context, tx domain.Transaction) (domain.Transaction, error) {
	var created domain.Transaction
	if err := c.do(ctx, http.MethodPost, "/transactions", mutation{Action: "add", Tx: tx}, &created); err != nil {
		return domain.Transaction{}, err
	}
	return created, nil
}

func (c *HTTPClient) UpdateTransaction(ctx context.Context, tx domain.Transaction) error {
	return c.do(ctx, http.MethodPost, "/transactions", mutation{Action: "update", Tx: tx}, &okResponse{})
}

func (c *HTTPClient) DeleteTransaction(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodPost, "/transactions", mutation{Action: "delete", ID: id}, &okResponse{})
}

func (c *HTTPClient) do(ctx context.Context, method, path string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeAPIError(resp.StatusCode, raw)
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func decodeAPIError(status int, raw []byte) error {
	var body struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(raw, &body); err != nil || body.Error == "" {
		return &APIError{Status: status, Message: http.StatusText(status)}
	}
	return &APIError{Status: status, Message: body.Error}
}
