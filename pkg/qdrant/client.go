package qdrant

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const defaultTimeout = 30 * time.Second

// Client is the Qdrant HTTP API client. Safe for concurrent use.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a new Qdrant client.
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: defaultTimeout},
	}
}

// CollectionExists reports whether the named collection exists.
func (c *Client) CollectionExists(ctx context.Context, name string) (bool, error) {
	status, err := c.do(ctx, http.MethodGet, "/collections/"+name, nil, nil, http.StatusOK, http.StatusNotFound)
	if err != nil {
		return false, err
	}
	return status == http.StatusOK, nil
}

// CreateCollection creates a new collection with the given configuration.
func (c *Client) CreateCollection(ctx context.Context, req CreateCollectionRequest) error {
	_, err := c.do(ctx, http.MethodPut, "/collections/"+req.Name, req, nil, http.StatusOK, http.StatusCreated)
	return err
}

// EnsureCollection creates the collection when it does not exist yet.
func (c *Client) EnsureCollection(ctx context.Context, req CreateCollectionRequest) error {
	ok, err := c.CollectionExists(ctx, req.Name)
	if err != nil || ok {
		return err
	}
	return c.CreateCollection(ctx, req)
}

// UpsertPoints inserts or updates points in a collection.
func (c *Client) UpsertPoints(ctx context.Context, collectionName string, req UpsertPointsRequest) error {
	_, err := c.do(ctx, http.MethodPut, "/collections/"+collectionName+"/points?wait=true", req, nil, http.StatusOK)
	return err
}

// SearchPoints performs similarity search in a collection.
func (c *Client) SearchPoints(ctx context.Context, collectionName string, req SearchRequest) (*SearchResponse, error) {
	var result SearchResponse
	if _, err := c.do(ctx, http.MethodPost, "/collections/"+collectionName+"/points/search", req, &result, http.StatusOK); err != nil {
		return nil, err
	}
	return &result, nil
}

// do sends one request and decodes the body into out when out is non-nil.
// Any status outside accept is an error.
func (c *Client) do(ctx context.Context, method, path string, in, out interface{}, accept ...int) (int, error) {
	var body io.Reader
	if in != nil {
		raw, err := json.Marshal(in)
		if err != nil {
			return 0, fmt.Errorf("failed to marshal request: %w", err)
		}
		body = bytes.NewReader(raw)
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return 0, fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return 0, fmt.Errorf("failed to call qdrant API: %w", err)
	}
	defer resp.Body.Close()

	accepted := false
	for _, code := range accept {
		if resp.StatusCode == code {
			accepted = true
			break
		}
	}
	if !accepted {
		return resp.StatusCode, fmt.Errorf("qdrant API error: %d", resp.StatusCode)
	}

	if out != nil && resp.StatusCode == http.StatusOK {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return resp.StatusCode, fmt.Errorf("failed to decode response: %w", err)
		}
	}
	return resp.StatusCode, nil
}
