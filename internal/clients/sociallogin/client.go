package sociallogin

import (
	"context"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/megayours/megadata-studio/internal/adapter"
)

// Identity is one authenticated custodial identity: the derived acting
// blockchain address plus the provider-issued token.
type Identity struct {
	Address   string    `json:"address"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// Client defines the social-login provider operations: custodial identity
// for users without an external wallet, plus provider-scoped signing.
//
//go:generate mockgen -source=client.go -destination=../../mocks/sociallogin_client.go -package=mocks -mock_names=Client=MockSocialLoginClient
type Client interface {
	// Login performs the interactive login flow and issues an identity token
	Login(ctx context.Context) (*Identity, error)

	// SilentLogin resumes an existing provider session without interaction.
	// Returns nil Identity when the provider has no live session.
	SilentLogin(ctx context.Context) (*Identity, error)

	// Sign signs a message with the custodial key behind the identity token
	Sign(ctx context.Context, token, message string) (string, error)
}

type loginResponse struct {
	Address string `json:"address"`
	Token   string `json:"token"`
}

type signResponse struct {
	Signature string `json:"signature"`
}

type client struct {
	httpClient adapter.HTTPClient
	baseURL    string
	json       adapter.JSON
}

// NewClient creates a new social-login provider client
func NewClient(httpClient adapter.HTTPClient, baseURL string, json adapter.JSON) Client {
	return &client{httpClient: httpClient, baseURL: baseURL, json: json}
}

// TokenExpiry extracts the expiry claim from an identity token. The token is
// not verified here: verification is the provider's job, the studio only
// needs the expiry to know when to drop a persisted session.
func TokenExpiry(token string) (time.Time, error) {
	parser := jwt.NewParser()
	claims := jwt.RegisteredClaims{}
	if _, _, err := parser.ParseUnverified(token, &claims); err != nil {
		return time.Time{}, fmt.Errorf("malformed identity token: %w", err)
	}
	if claims.ExpiresAt == nil {
		return time.Time{}, fmt.Errorf("identity token carries no expiry")
	}
	return claims.ExpiresAt.Time, nil
}

func (c *client) login(ctx context.Context, path string) (*Identity, error) {
	body, err := c.httpClient.PostJSON(ctx, c.baseURL+path, nil, nil)
	if err != nil {
		return nil, err
	}

	var resp loginResponse
	if err := c.json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("malformed login response: %w", err)
	}
	if resp.Address == "" || resp.Token == "" {
		return nil, fmt.Errorf("login response missing address or token")
	}

	expiry, err := TokenExpiry(resp.Token)
	if err != nil {
		return nil, err
	}

	return &Identity{Address: resp.Address, Token: resp.Token, ExpiresAt: expiry}, nil
}

func (c *client) Login(ctx context.Context) (*Identity, error) {
	identity, err := c.login(ctx, "/auth/login")
	if err != nil {
		return nil, fmt.Errorf("social login failed: %w", err)
	}
	return identity, nil
}

func (c *client) SilentLogin(ctx context.Context) (*Identity, error) {
	identity, err := c.login(ctx, "/auth/session")
	if err != nil {
		// No live provider session is not an error condition
		return nil, nil
	}
	return identity, nil
}

func (c *client) Sign(ctx context.Context, token, message string) (string, error) {
	headers := map[string]string{"Authorization": "Bearer " + token}
	body, err := c.httpClient.PostJSON(ctx, c.baseURL+"/auth/sign", headers, map[string]string{
		"message": message,
	})
	if err != nil {
		return "", fmt.Errorf("custodial signing failed: %w", err)
	}

	var resp signResponse
	if err := c.json.Unmarshal(body, &resp); err != nil {
		return "", fmt.Errorf("malformed signing response: %w", err)
	}
	if resp.Signature == "" {
		return "", fmt.Errorf("custodial signer returned empty signature")
	}
	return resp.Signature, nil
}
