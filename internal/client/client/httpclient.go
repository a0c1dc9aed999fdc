package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/dmitrijs2005/blogkeeper/internal/client/models"
	"github.com/dmitrijs2005/blogkeeper/internal/common"
)

type HTTPClient struct {
	baseURL    string
	httpClient *http.Client
}

func NewHTTPClient(baseURL string, timeout time.Duration) *HTTPClient {
	return &HTTPClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

type sessionResponse struct {
	ID       string `json:"id"`
	Email    string `json:"email"`
	Username string `json:"username"`
	Token    string `json:"token"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (c *HTTPClient) Register(ctx context.Context, username, email, password string) (*models.User, error) {
	body := map[string]string{"username": username, "email": email, "password": password}
	return c.authenticate(ctx, "/api/auth/register", body)
}

func (c *HTTPClient) Login(ctx context.Context, identifier, password string) (*models.User, error) {
	body := map[string]string{"identifier": identifier, "password": password}
	return c.authenticate(ctx, "/api/auth/login", body)
}

// Me asks the server who token belongs to. An expired or otherwise rejected
// token yields ErrUnauthorized.
func (c *HTTPClient) Me(ctx context.Context, token string) (*models.User, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/auth/me", nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set(common.AuthorizationHeaderName, common.BearerPrefix+token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		return nil, ErrUnauthorized
	case resp.StatusCode != http.StatusOK:
		return nil, fmt.Errorf("unexpected status: %s", resp.Status)
	}

	var r sessionResponse
	if err := json.NewDecoder(resp.Body).Decode(&r); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return &models.User{ID: r.ID, Email: r.Email, Username: r.Username, Token: token}, nil
}

func (c *HTTPClient) authenticate(ctx context.Context, path string, body any) (*models.User, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return nil, rejection(resp)
	}

	var r sessionResponse
	if err := json.NewDecoder(resp.Body).Decode(&r); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	if r.ID == "" || r.Token == "" {
		return nil, errors.New("incomplete session in response")
	}

	return &models.User{ID: r.ID, Email: r.Email, Username: r.Username, Token: r.Token}, nil
}

// rejection turns a non-2xx response into an AuthenticationError carrying the
// server's message. A 5xx without a message is reported as ErrUnavailable.
func rejection(resp *http.Response) error {
	b, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))

	var e errorResponse
	_ = json.Unmarshal(b, &e)

	if resp.StatusCode >= http.StatusInternalServerError {
		if e.Error == "" {
			return fmt.Errorf("%w: %s", ErrUnavailable, resp.Status)
		}
		return &AuthenticationError{Status: resp.StatusCode, Message: e.Error, Err: ErrUnavailable}
	}

	msg := resp.Status
	if e.Error != "" {
		msg = e.Error
	}
	return &AuthenticationError{Status: resp.StatusCode, Message: msg}
}
