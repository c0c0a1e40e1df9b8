package authsdk

import (
	"context"
	"net/http"
	"strings"
	"time"
)

// SDKClient is a client for the hubsite auth service.
// It provides access to unauthenticated operations and can create authenticated Sessions.
type SDKClient struct {
	BaseURL    string
	HTTPClient *http.Client
}

// NewSDKClient creates a new auth service client.
func NewSDKClient(baseURL string) *SDKClient {
	return &SDKClient{
		BaseURL: strings.TrimSuffix(baseURL, "/"),
		HTTPClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// Authenticate signs in and returns a Session that refreshes itself.
func (c *SDKClient) Authenticate(ctx context.Context, req SignInRequest) (*Session, error) {
	resp, err := c.SignIn(ctx, req)
	if err != nil {
		return nil, err
	}
	return newSession(c, resp.Tokens), nil
}

// AuthenticateWithRefreshToken creates a session from a stored refresh token.
func (c *SDKClient) AuthenticateWithRefreshToken(ctx context.Context, refreshToken string) (*Session, error) {
	tokens, err := c.Refresh(ctx, refreshToken)
	if err != nil {
		return nil, err
	}
	return newSession(c, *tokens), nil
}

// NewSessionFromTokens wraps tokens obtained elsewhere in a Session. The
// session still refreshes when the access token expires.
func (c *SDKClient) NewSessionFromTokens(tokens TokenPair) *Session {
	return newSession(c, tokens)
}
