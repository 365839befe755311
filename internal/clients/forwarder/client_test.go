package forwarder_test

import (
	"context"
	"os"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/megayours/megadata-studio/internal/adapter"
	"github.com/megayours/megadata-studio/internal/clients/forwarder"
	"github.com/megayours/megadata-studio/internal/domain"
	"github.com/megayours/megadata-studio/internal/logger"
	"github.com/megayours/megadata-studio/internal/mocks"
)

func TestMain(m *testing.M) {
	// Initialize logger for tests
	err := logger.Initialize(logger.Config{
		Debug: false,
	})
	if err != nil {
		panic(err)
	}

	code := m.Run()
	os.Exit(code)
}

func TestLinkAccounts(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	ctx := context.Background()

	httpClient := mocks.NewMockHTTPClient(ctrl)
	client := forwarder.NewClient(httpClient, "http://forwarder.local", adapter.NewJSON())

	first := domain.SignatureData{
		Type:      domain.ChainFamilyEVM,
		Timestamp: 1700000000000,
		Account:   "0xPrimary",
		Signature: "0xsig1",
	}
	second := domain.SignatureData{
		Type:      domain.ChainFamilySolana,
		Timestamp: 1700000000000,
		Account:   "9xSecond",
		Signature: "sig2",
	}

	httpClient.EXPECT().
		PostJSON(ctx, "http://forwarder.local/task/link-accounts", nil, forwarder.LinkAccountsRequest{
			Signatures: []domain.SignatureData{first, second},
		}).
		Return([]byte(`{"taskId":"task-1"}`), nil)

	err := client.LinkAccounts(ctx, first, second)
	assert.NoError(t, err)
}

func TestLinkAccounts_TimestampMismatchNeverReachesNetwork(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	httpClient := mocks.NewMockHTTPClient(ctrl)
	client := forwarder.NewClient(httpClient, "http://forwarder.local", adapter.NewJSON())

	first := domain.SignatureData{Timestamp: 1700000000000, Account: "0xPrimary"}
	second := domain.SignatureData{Timestamp: 1700000000001, Account: "9xSecond"}

	err := client.LinkAccounts(context.Background(), first, second)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "signature timestamps differ")
}

func TestLinkAccounts_MalformedResponse(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	ctx := context.Background()

	httpClient := mocks.NewMockHTTPClient(ctrl)
	client := forwarder.NewClient(httpClient, "http://forwarder.local", adapter.NewJSON())

	sig := domain.SignatureData{Timestamp: 1700000000000}
	httpClient.EXPECT().
		PostJSON(ctx, gomock.Any(), nil, gomock.Any()).
		Return([]byte("not json"), nil)

	err := client.LinkAccounts(ctx, sig, sig)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "malformed forwarder response")
}

func TestRegisterContract(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	ctx := context.Background()

	httpClient := mocks.NewMockHTTPClient(ctrl)
	client := forwarder.NewClient(httpClient, "http://forwarder.local", adapter.NewJSON())

	req := forwarder.RegisterContractRequest{
		Auth:     domain.SignatureData{Account: "0xPrimary", Timestamp: 1700000000000},
		Source:   "ethereum",
		Contract: "0xContract",
		Type:     "erc721",
	}
	httpClient.EXPECT().
		PostJSON(ctx, "http://forwarder.local/task/register-contract", nil, req).
		Return([]byte(`{"taskId":"task-2"}`), nil)

	assert.NoError(t, client.RegisterContract(ctx, req))
}

func TestSaveQuery(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	ctx := context.Background()

	httpClient := mocks.NewMockHTTPClient(ctrl)
	client := forwarder.NewClient(httpClient, "http://forwarder.local", adapter.NewJSON())

	req := forwarder.SaveQueryRequest{
		Auth:  domain.SignatureData{Account: "0xPrimary", Timestamp: 1700000000000},
		Group: domain.AssetGroup{ID: "group-1", Name: "Apes", Owner: "0xPrimary"},
	}
	httpClient.EXPECT().
		PostJSON(ctx, "http://forwarder.local/task/save-query", nil, req).
		Return([]byte(`{"taskId":"task-3"}`), nil)

	assert.NoError(t, client.SaveQuery(ctx, req))
}
