package pds

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/desertthunder/sati/internal/shared"
	"golang.org/x/time/rate"
)

const (
	defaultHost = "https://bsky.social"

	createRecordPath  = "/xrpc/com.atproto.repo.createRecord"
	listRecordsPath   = "/xrpc/com.atproto.repo.listRecords"
	resolveHandlePath = "/xrpc/com.atproto.identity.resolveHandle"
)

// Client is an XRPC client for a personal data server.
//
// Requests pass through a rate limiter so paginated full-repository syncs
// stay inside the server's request budget.
type Client struct {
	host       string
	httpClient *http.Client
	limiter    *rate.Limiter
}

// NewClient creates a client for the PDS at host.
//
// The http.Client defaults to [http.DefaultClient]; an OAuth-aware client is
// swapped in via [Client.SetHTTPClient] once a session exists.
func NewClient(host string, client *http.Client) *Client {
	if host == "" {
		host = defaultHost
	}
	if client == nil {
		client = http.DefaultClient
	}

	return &Client{
		host:       strings.TrimRight(host, "/"),
		httpClient: client,
		limiter:    rate.NewLimiter(rate.Limit(10), 10),
	}
}

// Host returns the PDS base URL.
func (c *Client) Host() string {
	return c.host
}

// SetHTTPClient replaces the underlying http.Client, typically with one that
// attaches and refreshes the session's access token.
func (c *Client) SetHTTPClient(client *http.Client) {
	if client != nil {
		c.httpClient = client
	}
}

// CreateRecordResponse is the repository's reply to a createRecord call.
type CreateRecordResponse struct {
	URI              string `json:"uri"`
	CID              string `json:"cid"`
	ValidationStatus string `json:"validationStatus,omitempty"`
}

// Record is one entry from a listRecords page. Value is the kind-specific
// field set, left undecoded at this layer.
type Record struct {
	URI   string          `json:"uri"`
	CID   string          `json:"cid"`
	Value json.RawMessage `json:"value"`
}

// ListRecordsResponse is one page of a paginated listing. Cursor is the
// server's opaque continuation token, empty when the listing is exhausted.
type ListRecordsResponse struct {
	Records []Record `json:"records"`
	Cursor  string   `json:"cursor,omitempty"`
}

// xrpcError is the error body XRPC endpoints return on non-2xx responses.
type xrpcError struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// CreateRecord writes a record to the given repository and collection and
// returns the assigned URI and content identifier.
func (c *Client) CreateRecord(ctx context.Context, repo, collection string, record any) (*CreateRecordResponse, error) {
	body := map[string]any{
		"repo":       repo,
		"collection": collection,
		"record":     record,
	}

	var result CreateRecordResponse
	if err := c.doRequest(ctx, http.MethodPost, createRecordPath, body, &result); err != nil {
		return nil, err
	}

	return &result, nil
}

// ListRecords fetches one page of records from the given repository and
// collection. The cursor is passed through opaquely when non-empty.
func (c *Client) ListRecords(ctx context.Context, repo, collection string, limit int, reverse bool, cursor string) (*ListRecordsResponse, error) {
	params := url.Values{}
	params.Set("repo", repo)
	params.Set("collection", collection)
	params.Set("limit", strconv.Itoa(limit))
	if reverse {
		params.Set("reverse", "true")
	}
	if cursor != "" {
		params.Set("cursor", cursor)
	}

	var result ListRecordsResponse
	endpoint := listRecordsPath + "?" + params.Encode()
	if err := c.doRequest(ctx, http.MethodGet, endpoint, nil, &result); err != nil {
		return nil, err
	}

	return &result, nil
}

// ResolveHandle resolves a user handle to its decentralized identifier.
func (c *Client) ResolveHandle(ctx context.Context, handle string) (string, error) {
	params := url.Values{}
	params.Set("handle", handle)

	var result struct {
		DID string `json:"did"`
	}

	endpoint := resolveHandlePath + "?" + params.Encode()
	if err := c.doRequest(ctx, http.MethodGet, endpoint, nil, &result); err != nil {
		return "", err
	}

	if result.DID == "" {
		return "", fmt.Errorf("%w: empty DID for handle %s", shared.ErrAPIRequest, handle)
	}

	return result.DID, nil
}

// doRequest performs an XRPC request against the PDS and decodes the JSON response.
//
// Non-2xx responses are mapped to [shared.APIError] carrying the server's
// error name and message when the body provides them.
func (c *Client) doRequest(ctx context.Context, method, endpoint string, body, result any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limit wait: %w", err)
	}

	apiURL := c.host + endpoint

	var reqBody *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		reqBody = bytes.NewReader(data)
	} else {
		reqBody = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, apiURL, reqBody)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var xerr xrpcError
		if err := json.NewDecoder(resp.Body).Decode(&xerr); err != nil {
			return &shared.APIError{StatusCode: resp.StatusCode, Message: "unrecognized error response"}
		}
		return &shared.APIError{StatusCode: resp.StatusCode, Code: xerr.Error, Message: xerr.Message}
	}

	if result != nil {
		if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}

	return nil
}
