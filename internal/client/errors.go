package client

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// ErrUnauthorized matches any APIError carrying a 401
var ErrUnauthorized = errors.New("unauthorized")

// APIError is a non-2xx answer of the kiosk API
type APIError struct {
	StatusCode int
	Detail     string // Server "detail", empty when the body had none
}

func (e *APIError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("API request failed with status %d", e.StatusCode)
	}
	return fmt.Sprintf("API request failed with status %d: %s", e.StatusCode, e.Detail)
}

// Is lets errors.Is(err, ErrUnauthorized) match a 401
func (e *APIError) Is(target error) bool {
	return target == ErrUnauthorized && e.StatusCode == 401
}

// MessageOf returns the server detail carried by err, or fallback
func MessageOf(err error, fallback string) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Detail != "" {
		return apiErr.Detail
	}
	return fallback
}

// parseDetail extracts the FastAPI "detail" field: either a string or
// a list of validation errors whose messages get joined.
func parseDetail(body []byte) string {
	var envelope struct {
		Detail json.RawMessage `json:"detail"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil || len(envelope.Detail) == 0 {
		return ""
	}

	var text string
	if err := json.Unmarshal(envelope.Detail, &text); err == nil {
		return text
	}

	var items []struct {
		Msg string `json:"msg"`
	}
	if err := json.Unmarshal(envelope.Detail, &items); err == nil {
		msgs := make([]string, 0, len(items))
		for _, item := range items {
			if item.Msg != "" {
				msgs = append(msgs, item.Msg)
			}
		}
		return strings.Join(msgs, "; ")
	}

	return ""
}
