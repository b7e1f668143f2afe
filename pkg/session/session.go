// Package session is the client-side half of the token contract: it keeps
// the access/refresh pair for one session, attaches the access token to
// outgoing requests, and transparently recovers from a 401 by refreshing
// once and retrying once.
package session

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sync"

	"golang.org/x/sync/singleflight"
)

var (
	// ErrSessionExpired means the refresh attempt failed; the session is
	// cleared and the caller has to authenticate again.
	ErrSessionExpired = errors.New("session expired")
	ErrUnauthorized   = errors.New("unauthorized")
	ErrConflict       = errors.New("email already registered")
)

type tokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

type Client struct {
	baseURL string
	http    *http.Client

	mu      sync.Mutex
	access  string
	refresh string

	// Concurrent 401s share one in-flight refresh call instead of each
	// posting their own.
	refreshGroup singleflight.Group
}

type Option func(*Client)

func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		c.http = httpClient
	}
}

func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: baseURL,
		http:    http.DefaultClient,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Authenticated reports whether the client currently holds a token pair.
func (c *Client) Authenticated() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.access != "" && c.refresh != ""
}

// Logout drops both tokens locally. No network call: the server keeps no
// session state to tear down.
func (c *Client) Logout() {
	c.clear()
}

func (c *Client) Register(ctx context.Context, email, password string) error {
	return c.authenticate(ctx, "/auth/register", email, password)
}

func (c *Client) Login(ctx context.Context, email, password string) error {
	return c.authenticate(ctx, "/auth/login", email, password)
}

func (c *Client) FederatedLogin(ctx context.Context, code string) error {
	endpoint := c.baseURL + "/auth/google/callback?code=" + url.QueryEscape(code)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return err
	}
	return c.obtainTokens(req)
}

// Do sends the request with the current access token attached. On a 401 with
// a refresh token on hand it refreshes the pair (coalesced across concurrent
// callers) and retries the original request exactly once with the new access
// token. A failed refresh clears the session and returns ErrSessionExpired;
// there is no second retry and no refresh loop.
func (c *Client) Do(req *http.Request) (*http.Response, error) {
	access, refresh := c.pair()

	resp, err := c.send(req, access)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusUnauthorized || refresh == "" {
		return resp, nil
	}

	// A request whose body cannot be rewound cannot be retried safely.
	if req.Body != nil && req.GetBody == nil {
		return resp, nil
	}
	drain(resp)

	newAccess, err := c.refreshTokens(req.Context(), access)
	if err != nil {
		c.clear()
		return nil, ErrSessionExpired
	}

	retry := req.Clone(req.Context())
	if req.GetBody != nil {
		body, err := req.GetBody()
		if err != nil {
			return nil, err
		}
		retry.Body = body
	}

	return c.send(retry, newAccess)
}

func (c *Client) send(req *http.Request, access string) (*http.Response, error) {
	if access != "" {
		req.Header.Set("Authorization", "Bearer "+access)
	}
	return c.http.Do(req)
}

// refreshTokens exchanges the stored refresh token for a new pair. All
// concurrent callers subscribe to a single in-flight exchange; the winner
// swaps the stored pair atomically and everyone gets the new access token.
// failedAccess is the token the caller saw rejected: if the stored token has
// already moved past it, another caller refreshed in the meantime and no new
// exchange is needed.
func (c *Client) refreshTokens(ctx context.Context, failedAccess string) (string, error) {
	result, err, _ := c.refreshGroup.Do("refresh", func() (interface{}, error) {
		access, refresh := c.pair()
		if access != "" && access != failedAccess {
			return access, nil
		}
		if refresh == "" {
			return "", ErrSessionExpired
		}

		payload, err := json.Marshal(map[string]string{"refresh_token": refresh})
		if err != nil {
			return "", err
		}
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/auth/refresh", bytes.NewReader(payload))
		if err != nil {
			return "", err
		}
		req.Header.Set("Content-Type", "application/json")

		resp, err := c.http.Do(req)
		if err != nil {
			return "", err
		}
		defer drain(resp)

		if resp.StatusCode != http.StatusOK {
			return "", fmt.Errorf("refresh rejected: %s", resp.Status)
		}

		var tokens tokenResponse
		if err := json.NewDecoder(resp.Body).Decode(&tokens); err != nil {
			return "", err
		}
		if tokens.AccessToken == "" || tokens.RefreshToken == "" {
			return "", fmt.Errorf("refresh response missing tokens")
		}

		c.store(tokens.AccessToken, tokens.RefreshToken)

		return tokens.AccessToken, nil
	})
	if err != nil {
		return "", err
	}
	return result.(string), nil
}

func (c *Client) authenticate(ctx context.Context, path, email, password string) error {
	payload, err := json.Marshal(map[string]string{"email": email, "password": password})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	return c.obtainTokens(req)
}

func (c *Client) obtainTokens(req *http.Request) error {
	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer drain(resp)

	switch resp.StatusCode {
	case http.StatusOK, http.StatusCreated:
	case http.StatusUnauthorized:
		return ErrUnauthorized
	case http.StatusConflict:
		return ErrConflict
	default:
		return fmt.Errorf("authentication failed: %s", resp.Status)
	}

	var tokens tokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&tokens); err != nil {
		return err
	}
	if tokens.AccessToken == "" || tokens.RefreshToken == "" {
		return fmt.Errorf("token response missing tokens")
	}

	c.store(tokens.AccessToken, tokens.RefreshToken)

	return nil
}

func (c *Client) pair() (access, refresh string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.access, c.refresh
}

// store replaces both tokens together, so readers never observe a pair that
// mixes an old refresh token with a new access token.
func (c *Client) store(access, refresh string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.access = access
	c.refresh = refresh
}

func (c *Client) clear() {
	c.store("", "")
}

func drain(resp *http.Response) {
	_, _ = io.Copy(io.Discard, resp.Body)
	_ = resp.Body.Close()
}
