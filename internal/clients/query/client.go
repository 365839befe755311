package query

import (
	"context"
	"fmt"
	"net/url"

	"github.com/megayours/megadata-studio/internal/adapter"
	"github.com/megayours/megadata-studio/internal/domain"
)

// IndexedContract is a contract the chain-indexing service tracks
type IndexedContract struct {
	Source   string `json:"source"`
	Contract string `json:"contract"`
	Name     string `json:"name"`
	Type     string `json:"type"`
}

// Client defines the chain-indexing/query service operations: account-link
// reads and unlink, asset-group management and eligible-account filtering.
//
//go:generate mockgen -source=client.go -destination=../../mocks/query_client.go -package=mocks -mock_names=Client=MockQueryClient
type Client interface {
	// ListLinks returns the accounts linked to a primary account
	ListLinks(ctx context.Context, account string) ([]domain.AccountLink, error)

	// Unlink removes one link. Authorization is the verifier's concern.
	Unlink(ctx context.Context, account, linked string) error

	// ListAssetGroups returns the asset groups owned by an account
	ListAssetGroups(ctx context.Context, owner string) ([]domain.AssetGroup, error)

	// EligibleAccounts returns the accounts matching every filter of a group
	EligibleAccounts(ctx context.Context, groupID string) ([]string, error)

	// ListContracts returns the contracts indexed for a source chain
	ListContracts(ctx context.Context, source string) ([]IndexedContract, error)
}

type client struct {
	httpClient adapter.HTTPClient
	baseURL    string
}

// NewClient creates a new query service client
func NewClient(httpClient adapter.HTTPClient, baseURL string) Client {
	return &client{httpClient: httpClient, baseURL: baseURL}
}

func (c *client) ListLinks(ctx context.Context, account string) ([]domain.AccountLink, error) {
	var links []domain.AccountLink
	u := fmt.Sprintf("%s/links?account=%s", c.baseURL, url.QueryEscape(account))
	if err := c.httpClient.Get(ctx, u, nil, &links); err != nil {
		return nil, fmt.Errorf("failed to list account links: %w", err)
	}
	return links, nil
}

func (c *client) Unlink(ctx context.Context, account, linked string) error {
	u := fmt.Sprintf("%s/links?account=%s&linked=%s", c.baseURL, url.QueryEscape(account), url.QueryEscape(linked))
	if err := c.httpClient.Delete(ctx, u, nil); err != nil {
		return fmt.Errorf("failed to unlink account: %w", err)
	}
	return nil
}

func (c *client) ListAssetGroups(ctx context.Context, owner string) ([]domain.AssetGroup, error) {
	var groups []domain.AssetGroup
	u := fmt.Sprintf("%s/asset-groups?owner=%s", c.baseURL, url.QueryEscape(owner))
	if err := c.httpClient.Get(ctx, u, nil, &groups); err != nil {
		return nil, fmt.Errorf("failed to list asset groups: %w", err)
	}
	return groups, nil
}

func (c *client) EligibleAccounts(ctx context.Context, groupID string) ([]string, error) {
	var accounts []string
	u := fmt.Sprintf("%s/asset-groups/%s/accounts", c.baseURL, url.PathEscape(groupID))
	if err := c.httpClient.Get(ctx, u, nil, &accounts); err != nil {
		return nil, fmt.Errorf("failed to fetch eligible accounts: %w", err)
	}
	return accounts, nil
}

func (c *client) ListContracts(ctx context.Context, source string) ([]IndexedContract, error) {
	var contracts []IndexedContract
	u := fmt.Sprintf("%s/contracts?source=%s", c.baseURL, url.QueryEscape(source))
	if err := c.httpClient.Get(ctx, u, nil, &contracts); err != nil {
		return nil, fmt.Errorf("failed to list contracts: %w", err)
	}
	return contracts, nil
}
