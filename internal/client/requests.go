package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/amaumene/kioskarr/internal/models"
)

// CreateRequest submits a new media request
func (c *Client) CreateRequest(ctx context.Context, descriptor models.CreateRequest) (*models.MediaRequest, error) {
	var created models.MediaRequest
	err := c.doRequest(ctx, call{
		method: http.MethodPost,
		route:  "/requests",
		path:   "/requests",
		body:   descriptor,
	}, &created)
	if err != nil {
		return nil, err
	}
	return &created, nil
}

// MyRequests lists the current user's requests, newest first
func (c *Client) MyRequests(ctx context.Context) ([]models.MediaRequest, error) {
	var raw json.RawMessage
	err := c.doRequest(ctx, call{
		method: http.MethodGet,
		route:  "/requests/my",
		path:   "/requests/my",
	}, &raw)
	if err != nil {
		return nil, err
	}
	return decodeRequestList(raw)
}

// AllRequests lists every user's requests (admin)
func (c *Client) AllRequests(ctx context.Context) ([]models.MediaRequest, error) {
	var raw json.RawMessage
	err := c.doRequest(ctx, call{
		method: http.MethodGet,
		route:  "/requests",
		path:   "/requests",
	}, &raw)
	if err != nil {
		return nil, err
	}
	return decodeRequestList(raw)
}

// GetRequest fetches one request
func (c *Client) GetRequest(ctx context.Context, id int64) (*models.MediaRequest, error) {
	var req models.MediaRequest
	err := c.doRequest(ctx, call{
		method: http.MethodGet,
		route:  "/requests/{id}",
		path:   idPath("/requests", id),
	}, &req)
	if err != nil {
		return nil, err
	}
	return &req, nil
}

// CancelRequest cancels a request. The API may answer with the cancelled
// request or with a bare {"message": ...}; the latter yields a nil request.
func (c *Client) CancelRequest(ctx context.Context, id int64) (*models.MediaRequest, error) {
	var raw map[string]json.RawMessage
	err := c.doRequest(ctx, call{
		method: http.MethodDelete,
		route:  "/requests/{id}",
		path:   idPath("/requests", id),
	}, &raw)
	if err != nil {
		return nil, err
	}
	if _, ok := raw["id"]; !ok {
		return nil, nil
	}

	data, err := json.Marshal(raw)
	if err != nil {
		return nil, fmt.Errorf("failed to re-encode cancelled request: %w", err)
	}
	var cancelled models.MediaRequest
	if err := json.Unmarshal(data, &cancelled); err != nil {
		return nil, fmt.Errorf("failed to decode cancelled request: %w", err)
	}
	return &cancelled, nil
}

// RequestStats fetches the current user's request summary
func (c *Client) RequestStats(ctx context.Context) (*models.RequestStats, error) {
	var stats models.RequestStats
	err := c.doRequest(ctx, call{
		method: http.MethodGet,
		route:  "/requests/stats",
		path:   "/requests/stats",
	}, &stats)
	if err != nil {
		return nil, err
	}
	return &stats, nil
}

// ApproveRequest moves a request awaiting approval back to pending (admin)
func (c *Client) ApproveRequest(ctx context.Context, id int64) error {
	return c.doRequest(ctx, call{
		method: http.MethodPost,
		route:  "/requests/{id}/approve",
		path:   idPath("/requests", id) + "/approve",
	}, nil)
}

// UpdateRequest patches a request (admin)
func (c *Client) UpdateRequest(ctx context.Context, id int64, patch models.RequestUpdate) (*models.MediaRequest, error) {
	var updated models.MediaRequest
	err := c.doRequest(ctx, call{
		method: http.MethodPatch,
		route:  "/requests/{id}",
		path:   idPath("/requests", id),
		body:   patch,
	}, &updated)
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

// decodeRequestList accepts a bare array or the paginated {"items": [...]} envelope
func decodeRequestList(raw json.RawMessage) ([]models.MediaRequest, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return []models.MediaRequest{}, nil
	}

	if trimmed[0] == '[' {
		var list []models.MediaRequest
		if err := json.Unmarshal(trimmed, &list); err != nil {
			return nil, fmt.Errorf("failed to decode request list: %w", err)
		}
		return list, nil
	}

	var envelope struct {
		Items []models.MediaRequest `json:"items"`
	}
	if err := json.Unmarshal(trimmed, &envelope); err != nil {
		return nil, fmt.Errorf("failed to decode request list: %w", err)
	}
	if envelope.Items == nil {
		envelope.Items = []models.MediaRequest{}
	}
	return envelope.Items, nil
}
