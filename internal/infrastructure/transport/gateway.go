package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/NaijaReels/naijareels-go/internal/infrastructure/observability/logging"
	"github.com/NaijaReels/naijareels-go/internal/infrastructure/session"
)

// Spec describes one logical backend request.
type Spec struct {
	Method       string
	Path         string
	Query        url.Values
	Body         any
	RequiresAuth bool
}

// Response is a decoded-enough backend response: status plus raw body bytes.
type Response struct {
	StatusCode int
	Body       []byte
}

// Gateway executes backend requests with the current access token attached.
// On a 401 it refreshes through the coordinator and retries the original
// request exactly once; a second 401 fails the call.
type Gateway struct {
	baseURL     string
	client      *http.Client
	store       *session.Store
	coordinator *session.Coordinator
	logger      *logging.ChanneledLogger
	entropy     io.Reader
}

// NewGateway creates an authenticated request gateway. baseURL is the API
// root, e.g. "http://localhost:8000/api/".
func NewGateway(baseURL string, client *http.Client, store *session.Store, coordinator *session.Coordinator, logger *logging.ChanneledLogger) *Gateway {
	if client == nil {
		client = &http.Client{Timeout: 15 * time.Second}
	}
	return &Gateway{
		baseURL:     strings.TrimSuffix(baseURL, "/") + "/",
		client:      client,
		store:       store,
		coordinator: coordinator,
		logger:      logger,
		entropy:     ulid.Monotonic(rand.New(rand.NewSource(time.Now().UnixNano())), 0),
	}
}

// Do executes the request described by spec.
func (g *Gateway) Do(ctx context.Context, spec Spec) (*Response, error) {
	requestID := ulid.MustNew(ulid.Timestamp(time.Now()), g.entropy).String()

	resp, err := g.send(ctx, spec, g.store.AccessToken(), requestID)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode == http.StatusUnauthorized && spec.RequiresAuth {
		if g.logger != nil {
			g.logger.Transport().Info("Request unauthorized, refreshing token", "requestId", requestID, "path", spec.Path)
		}

		access, refreshErr := g.coordinator.Refresh(ctx)
		if refreshErr != nil {
			return nil, fmt.Errorf("request %s %s failed: %w", spec.Method, spec.Path, refreshErr)
		}

		resp, err = g.send(ctx, spec, access, requestID)
		if err != nil {
			return nil, err
		}
	}

	if resp.StatusCode >= 400 {
		apiErr := decodeAPIError(resp.StatusCode, resp.Body)
		if g.logger != nil {
			g.logger.Transport().Warn("Backend rejected request",
				"requestId", requestID, "method", spec.Method, "path", spec.Path, "status", resp.StatusCode)
		}
		return nil, apiErr
	}

	return resp, nil
}

// DoJSON executes the request and decodes a JSON response body into out.
// A nil out discards the body (204 responses, deletes).
func (g *Gateway) DoJSON(ctx context.Context, spec Spec, out any) error {
	resp, err := g.Do(ctx, spec)
	if err != nil {
		return err
	}
	if out == nil || len(resp.Body) == 0 {
		return nil
	}
	if err := json.Unmarshal(resp.Body, out); err != nil {
		return fmt.Errorf("failed to decode %s %s response: %w", spec.Method, spec.Path, err)
	}
	return nil
}

func (g *Gateway) send(ctx context.Context, spec Spec, accessToken, requestID string) (*Response, error) {
	endpoint := g.baseURL + strings.TrimPrefix(spec.Path, "/")
	if len(spec.Query) > 0 {
		endpoint += "?" + spec.Query.Encode()
	}

	var bodyReader io.Reader
	if spec.Body != nil {
		payload, err := json.Marshal(spec.Body)
		if err != nil {
			return nil, fmt.Errorf("failed to encode %s %s request body: %w", spec.Method, spec.Path, err)
		}
		bodyReader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, spec.Method, endpoint, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("failed to build %s %s request: %w", spec.Method, spec.Path, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Request-ID", requestID)
	if accessToken != "" {
		req.Header.Set("Authorization", "Bearer "+accessToken)
	}

	start := time.Now()
	httpResp, err := g.client.Do(req)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil, err
		}
		return nil, &NetworkError{Op: spec.Method, URL: endpoint, Err: err}
	}
	defer httpResp.Body.Close()

	body, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, &NetworkError{Op: spec.Method, URL: endpoint, Err: err}
	}

	if g.logger != nil {
		g.logger.Transport().Debug("Request completed",
			"requestId", requestID, "method", spec.Method, "path", spec.Path,
			"status", httpResp.StatusCode, "duration", time.Since(start))
	}

	return &Response{StatusCode: httpResp.StatusCode, Body: body}, nil
}

// NewRefreshFunc returns the raw token/refresh call for the coordinator. It
// bypasses the gateway: no bearer header, no 401 retry.
func NewRefreshFunc(baseURL string, client *http.Client) session.RefreshFunc {
	if client == nil {
		client = &http.Client{Timeout: 15 * time.Second}
	}
	endpoint := strings.TrimSuffix(baseURL, "/") + "/token/refresh/"

	return func(ctx context.Context, refreshToken string) (string, error) {
		payload, err := json.Marshal(map[string]string{"refresh": refreshToken})
		if err != nil {
			return "", fmt.Errorf("failed to encode refresh payload: %w", err)
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
		if err != nil {
			return "", fmt.Errorf("failed to build refresh request: %w", err)
		}
		req.Header.Set("Content-Type", "application/json")

		resp, err := client.Do(req)
		if err != nil {
			return "", &NetworkError{Op: http.MethodPost, URL: endpoint, Err: err}
		}
		defer resp.Body.Close()

		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return "", &NetworkError{Op: http.MethodPost, URL: endpoint, Err: err}
		}
		if resp.StatusCode >= 400 {
			return "", decodeAPIError(resp.StatusCode, body)
		}

		var result struct {
			Access string `json:"access"`
		}
		if err := json.Unmarshal(body, &result); err != nil {
			return "", fmt.Errorf("failed to decode refresh response: %w", err)
		}
		if result.Access == "" {
			return "", fmt.Errorf("refresh response contained no access token")
		}
		return result.Access, nil
	}
}
