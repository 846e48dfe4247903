package session

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// RegisterInput is the payload for account creation.
type RegisterInput struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Phone    string `json:"phone,omitempty"`
}

// authResponse is the wire shape shared by the auth endpoints.
type authResponse struct {
	Success bool   `json:"success"`
	Token   string `json:"token"`
	User    *User  `json:"user"`
	Message string `json:"message"`
}

// Client talks to the authentication endpoints. It is the only component
// that issues auth network calls; the store owns one.
type Client struct {
	baseURL string
	httpc   *http.Client
}

// NewClient creates an auth API client for the given base URL. The provided
// http.Client is optional; per-request deadlines come from the caller's
// context, so the default client carries no timeout of its own.
func NewClient(baseURL string, httpc *http.Client) *Client {
	if httpc == nil {
		httpc = &http.Client{}
	}
	return &Client{baseURL: strings.TrimRight(baseURL, "/"), httpc: httpc}
}

// Login exchanges credentials for a token and user record.
func (c *Client) Login(ctx context.Context, email, password string) (string, *User, error) {
	body := map[string]string{"email": email, "password": password}
	res, err := c.post(ctx, "/auth/login", "", body)
	if err != nil {
		return "", nil, err
	}
	return c.sessionFromResponse(res, ErrInvalidCredentials)
}

// Register creates an account and, like Login, returns a live session.
func (c *Client) Register(ctx context.Context, in RegisterInput) (string, *User, error) {
	res, err := c.post(ctx, "/auth/register", "", in)
	if err != nil {
		return "", nil, err
	}
	return c.sessionFromResponse(res, ErrInvalidCredentials)
}

// Me validates a token and returns the server's authoritative user record.
func (c *Client) Me(ctx context.Context, token string) (*User, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/auth/me", nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+token)
	res, err := c.do(req)
	if err != nil {
		return nil, err
	}
	if !res.Success {
		return nil, serverError(ErrSessionExpired, res.Message)
	}
	if res.User == nil {
		return nil, ErrMalformedResponse
	}
	return res.User, nil
}

// Logout revokes the server-side session for the token. Best effort; the
// caller clears local state regardless.
func (c *Client) Logout(ctx context.Context, token string) error {
	_, err := c.post(ctx, "/auth/logout", token, nil)
	return err
}

// sessionFromResponse enforces the response contract: success must come
// with both a token and a user, even on HTTP 200.
func (c *Client) sessionFromResponse(res *authResponse, failure error) (string, *User, error) {
	if !res.Success {
		return "", nil, serverError(failure, res.Message)
	}
	if res.Token == "" || res.User == nil {
		return "", nil, ErrMalformedResponse
	}
	return res.Token, res.User, nil
}

func (c *Client) post(ctx context.Context, path, token string, body any) (*authResponse, error) {
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return nil, err
		}
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, &buf)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return c.do(req)
}

// do executes the request and decodes the standard response shape. Non-2xx
// statuses still carry a decodable body with success=false and a message;
// an undecodable body is a malformed response.
func (c *Client) do(req *http.Request) (*authResponse, error) {
	httpRes, err := c.httpc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("auth request: %w", err)
	}
	defer httpRes.Body.Close()

	payload, err := io.ReadAll(io.LimitReader(httpRes.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("read auth response: %w", err)
	}
	var res authResponse
	if err := json.Unmarshal(payload, &res); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrMalformedResponse, http.StatusText(httpRes.StatusCode))
	}
	return &res, nil
}
