package forwarder

import (
	"context"
	"fmt"

	"github.com/megayours/megadata-studio/internal/adapter"
	"github.com/megayours/megadata-studio/internal/domain"
)

// LinkAccountsRequest carries the two cross-signed records of one linking
// operation. Both signatures embed the same timestamp; the forwarder verifies
// them server-side.
type LinkAccountsRequest struct {
	Signatures []domain.SignatureData `json:"signatures"`
}

// RegisterContractRequest registers an on-chain contract for indexing
type RegisterContractRequest struct {
	Auth     domain.SignatureData `json:"auth"`
	Source   string               `json:"source"`
	Contract string               `json:"contract"`
	Type     string               `json:"type"`
}

// SaveQueryRequest creates or replaces an asset group definition
type SaveQueryRequest struct {
	Auth  domain.SignatureData `json:"auth"`
	Group domain.AssetGroup    `json:"group"`
}

// taskResponse is the forwarder's acknowledgement envelope
type taskResponse struct {
	TaskID string `json:"taskId"`
}

// Client defines the task-submission (megaforwarder) service operations.
// The forwarder accepts signed, action-tagged payloads and performs all
// signature verification server-side.
//
//go:generate mockgen -source=client.go -destination=../../mocks/forwarder_client.go -package=mocks -mock_names=Client=MockForwarderClient
type Client interface {
	// LinkAccounts submits both signatures of one linking operation
	LinkAccounts(ctx context.Context, first, second domain.SignatureData) error

	// RegisterContract submits a signed contract-registration task
	RegisterContract(ctx context.Context, req RegisterContractRequest) error

	// SaveQuery submits a signed asset-group save task
	SaveQuery(ctx context.Context, req SaveQueryRequest) error
}

type client struct {
	httpClient adapter.HTTPClient
	baseURL    string
	json       adapter.JSON
}

// NewClient creates a new forwarder client
func NewClient(httpClient adapter.HTTPClient, baseURL string, json adapter.JSON) Client {
	return &client{httpClient: httpClient, baseURL: baseURL, json: json}
}

func (c *client) LinkAccounts(ctx context.Context, first, second domain.SignatureData) error {
	if first.Timestamp != second.Timestamp {
		return fmt.Errorf("signature timestamps differ: %d vs %d", first.Timestamp, second.Timestamp)
	}

	req := LinkAccountsRequest{Signatures: []domain.SignatureData{first, second}}
	body, err := c.httpClient.PostJSON(ctx, c.baseURL+"/task/link-accounts", nil, req)
	if err != nil {
		return fmt.Errorf("link accounts submission failed: %w", err)
	}

	var resp taskResponse
	if err := c.json.Unmarshal(body, &resp); err != nil {
		return fmt.Errorf("malformed forwarder response: %w", err)
	}
	return nil
}

func (c *client) RegisterContract(ctx context.Context, req RegisterContractRequest) error {
	if _, err := c.httpClient.PostJSON(ctx, c.baseURL+"/task/register-contract", nil, req); err != nil {
		return fmt.Errorf("contract registration failed: %w", err)
	}
	return nil
}

func (c *client) SaveQuery(ctx context.Context, req SaveQueryRequest) error {
	if _, err := c.httpClient.PostJSON(ctx, c.baseURL+"/task/save-query", nil, req); err != nil {
		return fmt.Errorf("query save failed: %w", err)
	}
	return nil
}
