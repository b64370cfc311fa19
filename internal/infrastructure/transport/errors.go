// Package transport provides the authenticated request gateway between the
// NaijaReels client and the backend REST API, including the single
// refresh-and-retry pass on authorization failure and the mapping of backend
// rejections onto the client error taxonomy.
package transport

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Sentinel classifications for backend rejections. Callers test with
// errors.Is; the concrete detail travels in APIError.
var (
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
	ErrNotFound     = errors.New("not found")
	ErrValidation   = errors.New("validation rejected")
	ErrConflict     = errors.New("conflict")
)

// NetworkError is a transport-level failure: the request never produced a
// backend response. It is surfaced once per operation and never retried
// automatically.
type NetworkError struct {
	Op  string
	URL string
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("network error during %s %s: %v", e.Op, e.URL, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// APIError is a structured backend rejection: a non-2xx response with a
// decoded body. Fields carries field-level validation detail when the backend
// provides it.
type APIError struct {
	StatusCode int
	Detail     string
	Fields     map[string][]string
}

func (e *APIError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("backend rejected request (%d): %s", e.StatusCode, e.Detail)
	}
	if len(e.Fields) > 0 {
		keys := make([]string, 0, len(e.Fields))
		for k := range e.Fields {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		return fmt.Sprintf("backend rejected request (%d): invalid fields %s", e.StatusCode, strings.Join(keys, ", "))
	}
	return fmt.Sprintf("backend rejected request (%d)", e.StatusCode)
}

// Unwrap classifies the rejection so errors.Is works against the sentinels.
func (e *APIError) Unwrap() error {
	switch {
	case e.StatusCode == 401:
		return ErrUnauthorized
	case e.StatusCode == 403:
		return ErrForbidden
	case e.StatusCode == 404:
		return ErrNotFound
	case e.StatusCode == 409:
		return ErrConflict
	case e.StatusCode == 400 && len(e.Fields) > 0:
		return ErrValidation
	case e.StatusCode == 400:
		// Bare business rejection, e.g. "No copies available" on rent
		return ErrConflict
	}
	return nil
}

// decodeAPIError builds an APIError from a backend error body. The backend
// emits three shapes: {"detail": "..."}, {"error": "..."}, and per-field
// {"field": ["msg", ...]}.
func decodeAPIError(statusCode int, body []byte) *APIError {
	apiErr := &APIError{StatusCode: statusCode}

	var payload map[string]any
	if err := json.Unmarshal(body, &payload); err != nil {
		apiErr.Detail = strings.TrimSpace(string(body))
		return apiErr
	}

	for key, value := range payload {
		switch v := value.(type) {
		case string:
			if key == "detail" || key == "error" {
				apiErr.Detail = v
				continue
			}
			addField(apiErr, key, v)
		case []any:
			for _, item := range v {
				if msg, ok := item.(string); ok {
					addField(apiErr, key, msg)
				}
			}
		}
	}

	return apiErr
}

func addField(apiErr *APIError, field, message string) {
	if apiErr.Fields == nil {
		apiErr.Fields = make(map[string][]string)
	}
	apiErr.Fields[field] = append(apiErr.Fields[field], message)
}
