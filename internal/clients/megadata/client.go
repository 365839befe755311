package megadata

import (
	"context"
	"fmt"
	"net/url"

	"github.com/megayours/megadata-studio/internal/adapter"
	"github.com/megayours/megadata-studio/internal/domain"
)

// PublishItem is one token of a publish batch
type PublishItem struct {
	TokenID    string         `json:"tokenId"`
	Properties map[string]any `json:"properties"`
}

// PublishRequest is the single all-or-nothing publish submission
type PublishRequest struct {
	Auth       domain.SignatureData `json:"auth"`
	Collection string               `json:"collection"`
	Items      []PublishItem        `json:"items"`
}

// PublishResponse carries the remote collection identifier assigned at publish time
type PublishResponse struct {
	CollectionID string `json:"collectionId"`
}

// Module is a named, reusable JSON-schema fragment describing optional
// metadata fields a token may carry.
type Module struct {
	Name   string         `json:"name"`
	Schema map[string]any `json:"schema"`
}

// RemoteCollection is a published collection record from the authoritative store
type RemoteCollection struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	NumTokens int    `json:"numTokens"`
	Owner     string `json:"owner"`
}

// Client defines the operations of the metadata REST API, the authoritative
// store for published collections.
//
//go:generate mockgen -source=client.go -destination=../../mocks/megadata_client.go -package=mocks -mock_names=Client=MockMegadataClient
type Client interface {
	// Publish submits one pre-validated collection batch. The remote store
	// only accepts fully-formed batches, so validation must run before this
	// call; a failure leaves nothing partially accepted.
	Publish(ctx context.Context, req PublishRequest) (*PublishResponse, error)

	// ListCollections returns published collections owned by an account
	ListCollections(ctx context.Context, owner string) ([]RemoteCollection, error)

	// ListModules returns the metadata modules the platform knows
	ListModules(ctx context.Context) ([]Module, error)

	// ValidateModule checks a payload against one module's schema without
	// publishing anything. A schema violation surfaces as a RemoteError
	// carrying the remote validation message.
	ValidateModule(ctx context.Context, module string, payload map[string]any) error
}

type client struct {
	httpClient adapter.HTTPClient
	baseURL    string
	json       adapter.JSON
}

// NewClient creates a new metadata API client
func NewClient(httpClient adapter.HTTPClient, baseURL string, json adapter.JSON) Client {
	return &client{httpClient: httpClient, baseURL: baseURL, json: json}
}

func (c *client) Publish(ctx context.Context, req PublishRequest) (*PublishResponse, error) {
	body, err := c.httpClient.PostJSON(ctx, c.baseURL+"/collections/publish", nil, req)
	if err != nil {
		return nil, fmt.Errorf("publish failed: %w", err)
	}

	var resp PublishResponse
	if err := c.json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("malformed publish response: %w", err)
	}
	if resp.CollectionID == "" {
		return nil, fmt.Errorf("publish response missing collection id")
	}
	return &resp, nil
}

func (c *client) ListCollections(ctx context.Context, owner string) ([]RemoteCollection, error) {
	var collections []RemoteCollection
	url := fmt.Sprintf("%s/collections?owner=%s", c.baseURL, owner)
	if err := c.httpClient.Get(ctx, url, nil, &collections); err != nil {
		return nil, fmt.Errorf("failed to list remote collections: %w", err)
	}
	return collections, nil
}

func (c *client) ValidateModule(ctx context.Context, module string, payload map[string]any) error {
	u := fmt.Sprintf("%s/modules/%s/validate", c.baseURL, url.PathEscape(module))
	if _, err := c.httpClient.PostJSON(ctx, u, nil, payload); err != nil {
		return fmt.Errorf("module validation failed: %w", err)
	}
	return nil
}

func (c *client) ListModules(ctx context.Context) ([]Module, error) {
	var modules []Module
	if err := c.httpClient.Get(ctx, c.baseURL+"/modules", nil, &modules); err != nil {
		return nil, fmt.Errorf("failed to list modules: %w", err)
	}
	return modules, nil
}
