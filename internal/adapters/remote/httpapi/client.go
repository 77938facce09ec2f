// Package httpapi talks to the trading API over HTTP. Authenticated calls
// carry the session token as a bearer credential.
package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/bnema/tradedesk/internal/domain"
	"github.com/bnema/tradedesk/internal/ports"
)

const (
	maxResponseBytes      = 4 << 20
	defaultRequestTimeout = 30 * time.Second

	tokenPath        = "/token"
	tokenRefreshPath = "/token/refresh"
	currentUserPath  = "/users/me/"
	portfolioPath    = "/portfolio"
	symbolsPath      = "/symbols"
)

// TokenSource returns the bearer token for authenticated calls, or "" when
// there is no session.
type TokenSource func() string

type Client struct {
	BaseURL        string
	HTTPClient     *http.Client
	RequestTimeout time.Duration
	Token          TokenSource
}

var _ ports.RemoteService = Client{}

// APIError is a non-2xx response. Detail carries the server's "detail"
// message when the body has one.
type APIError struct {
	StatusCode int
	Detail     string
}

func (e *APIError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("api error: status %d", e.StatusCode)
	}
	return fmt.Sprintf("api error: status %d: %s", e.StatusCode, e.Detail)
}

func (e *APIError) Is(target error) bool {
	return target == domain.ErrNotAuthenticated && e.StatusCode == http.StatusUnauthorized
}

type tokenResponse struct {
	AccessToken        string  `json:"access_token"`
	AccessTokenExpires float64 `json:"access_token_expires"`
	TokenType          string  `json:"token_type"`
}

type errorResponse struct {
	Detail json.RawMessage `json:"detail"`
}

func (c Client) Authenticate(ctx context.Context, credentials domain.Credentials) (domain.TokenGrant, error) {
	if credentials.Username == "" {
		return domain.TokenGrant{}, errors.New("username is required")
	}

	values := url.Values{}
	values.Set("username", credentials.Username)
	values.Set("password", credentials.Password)

	var payload tokenResponse
	err := c.do(ctx, request{
		method:      http.MethodPost,
		path:        tokenPath,
		body:        strings.NewReader(values.Encode()),
		contentType: "application/x-www-form-urlencoded",
	}, &payload)
	if err != nil {
		return domain.TokenGrant{}, fmt.Errorf("request token: %w", err)
	}

	return payload.grant()
}

func (c Client) RefreshToken(ctx context.Context) (domain.TokenGrant, error) {
	var payload tokenResponse
	if err := c.do(ctx, request{method: http.MethodPost, path: tokenRefreshPath, auth: true}, &payload); err != nil {
		return domain.TokenGrant{}, fmt.Errorf("refresh token: %w", err)
	}

	return payload.grant()
}

func (c Client) FetchUser(ctx context.Context) (domain.User, error) {
	var user domain.User
	if err := c.do(ctx, request{method: http.MethodGet, path: currentUserPath, auth: true}, &user); err != nil {
		return domain.User{}, fmt.Errorf("fetch current user: %w", err)
	}

	return user, nil
}

func (c Client) FetchPortfolio(ctx context.Context, id domain.PortfolioID) (domain.Portfolio, error) {
	if id == "" {
		return domain.Portfolio{}, errors.New("portfolio id is required")
	}

	query := url.Values{}
	query.Set("id", string(id))

	var portfolio domain.Portfolio
	err := c.do(ctx, request{method: http.MethodGet, path: portfolioPath, query: query, auth: true}, &portfolio)
	if err != nil {
		var apiErr *APIError
		if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound {
			return domain.Portfolio{}, fmt.Errorf("fetch portfolio %s: %w: %w", id, domain.ErrPortfolioNotFound, err)
		}
		return domain.Portfolio{}, fmt.Errorf("fetch portfolio %s: %w", id, err)
	}

	return portfolio, nil
}

func (c Client) FetchSymbols(ctx context.Context) ([]domain.Symbol, error) {
	var symbols []domain.Symbol
	if err := c.do(ctx, request{method: http.MethodGet, path: symbolsPath}, &symbols); err != nil {
		return nil, fmt.Errorf("fetch symbols: %w", err)
	}
	if symbols == nil {
		symbols = []domain.Symbol{}
	}

	return symbols, nil
}

type request struct {
	method      string
	path        string
	query       url.Values
	body        io.Reader
	contentType string
	auth        bool
}

func (c Client) do(ctx context.Context, r request, out any) error {
	endpoint, err := buildAPIURL(c.BaseURL, r.path)
	if err != nil {
		return err
	}
	if len(r.query) > 0 {
		endpoint += "?" + r.query.Encode()
	}

	var token string
	if r.auth {
		if c.Token != nil {
			token = c.Token()
		}
		if token == "" {
			return domain.ErrNotAuthenticated
		}
	}

	requestCtx, cancel := c.requestContext(ctx)
	defer cancel()

	req, err := http.NewRequestWithContext(requestCtx, r.method, endpoint, r.body)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if r.contentType != "" {
		req.Header.Set("Content-Type", r.contentType)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient().Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", r.method, r.path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return decodeAPIError(resp)
	}

	if err := json.NewDecoder(io.LimitReader(resp.Body, maxResponseBytes)).Decode(out); err != nil {
		return fmt.Errorf("decode %s response: %w", r.path, err)
	}

	return nil
}

func (c Client) httpClient() *http.Client {
	if c.HTTPClient != nil {
		return c.HTTPClient
	}
	return http.DefaultClient
}

func (c Client) requestContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if _, hasDeadline := ctx.Deadline(); hasDeadline {
		return ctx, func() {}
	}

	requestTimeout := c.RequestTimeout
	if requestTimeout <= 0 {
		requestTimeout = defaultRequestTimeout
	}

	return context.WithTimeout(ctx, requestTimeout)
}

func (p tokenResponse) grant() (domain.TokenGrant, error) {
	if p.AccessToken == "" {
		return domain.TokenGrant{}, errors.New("token response missing access token")
	}

	grant := domain.TokenGrant{AccessToken: p.AccessToken, TokenType: p.TokenType}
	if p.AccessTokenExpires > 0 {
		seconds, fraction := math.Modf(p.AccessTokenExpires)
		grant.ExpiresAt = time.Unix(int64(seconds), int64(fraction*1e9)).UTC().Truncate(time.Millisecond)
	}

	return grant, nil
}

func decodeAPIError(resp *http.Response) error {
	apiErr := &APIError{StatusCode: resp.StatusCode}

	var payload errorResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxResponseBytes)).Decode(&payload); err != nil || len(payload.Detail) == 0 {
		return apiErr
	}

	var detail string
	if err := json.Unmarshal(payload.Detail, &detail); err == nil {
		apiErr.Detail = detail
	} else {
		apiErr.Detail = string(payload.Detail)
	}

	return apiErr
}

func buildAPIURL(baseURL string, path string) (string, error) {
	if baseURL == "" {
		return "", errors.New("api base url is required")
	}

	parsed, err := url.Parse(baseURL)
	if err != nil {
		return "", fmt.Errorf("parse api base url: %w", err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return "", errors.New("api base url must use http or https")
	}
	if parsed.Host == "" {
		return "", errors.New("api base url host is required")
	}

	endpoint, err := parsed.Parse(path)
	if err != nil {
		return "", fmt.Errorf("parse api path: %w", err)
	}
	return endpoint.String(), nil
}
