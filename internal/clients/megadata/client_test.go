package megadata_test

import (
	"context"
	"os"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/megayours/megadata-studio/internal/adapter"
	"github.com/megayours/megadata-studio/internal/clients/megadata"
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

func TestPublish(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	ctx := context.Background()

	httpClient := mocks.NewMockHTTPClient(ctrl)
	client := megadata.NewClient(httpClient, "http://megadata.local", adapter.NewJSON())

	req := megadata.PublishRequest{
		Auth:       domain.SignatureData{Account: "0xOwner", Timestamp: 1700000000000},
		Collection: "Demo",
		Items: []megadata.PublishItem{
			{TokenID: "0", Properties: map[string]any{"erc721": map[string]any{"name": "Demo #0"}}},
		},
	}
	httpClient.EXPECT().
		PostJSON(ctx, "http://megadata.local/collections/publish", nil, req).
		Return([]byte(`{"collectionId":"remote-9"}`), nil)

	resp, err := client.Publish(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, "remote-9", resp.CollectionID)
}

func TestPublish_MissingCollectionID(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	ctx := context.Background()

	httpClient := mocks.NewMockHTTPClient(ctrl)
	client := megadata.NewClient(httpClient, "http://megadata.local", adapter.NewJSON())

	httpClient.EXPECT().
		PostJSON(ctx, gomock.Any(), nil, gomock.Any()).
		Return([]byte(`{}`), nil)

	resp, err := client.Publish(ctx, megadata.PublishRequest{Collection: "Demo"})
	require.Error(t, err)
	assert.Nil(t, resp)
	assert.Contains(t, err.Error(), "missing collection id")
}

func TestPublish_RemoteError(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	ctx := context.Background()

	httpClient := mocks.NewMockHTTPClient(ctrl)
	client := megadata.NewClient(httpClient, "http://megadata.local", adapter.NewJSON())

	httpClient.EXPECT().
		PostJSON(ctx, gomock.Any(), nil, gomock.Any()).
		Return(nil, &adapter.RemoteError{StatusCode: 503, Message: "unavailable"})

	resp, err := client.Publish(ctx, megadata.PublishRequest{Collection: "Demo"})
	require.Error(t, err)
	assert.Nil(t, resp)

	var remoteErr *adapter.RemoteError
	require.ErrorAs(t, err, &remoteErr)
	assert.Equal(t, 503, remoteErr.StatusCode)
}

func TestListCollections(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	ctx := context.Background()

	httpClient := mocks.NewMockHTTPClient(ctrl)
	client := megadata.NewClient(httpClient, "http://megadata.local", adapter.NewJSON())

	httpClient.EXPECT().
		Get(ctx, "http://megadata.local/collections?owner=0xOwner", nil, gomock.Any()).
		DoAndReturn(func(_ context.Context, _ string, _ map[string]string, result interface{}) error {
			out := result.(*[]megadata.RemoteCollection)
			*out = []megadata.RemoteCollection{{ID: "remote-1", Name: "Published", NumTokens: 5, Owner: "0xOwner"}}
			return nil
		})

	collections, err := client.ListCollections(ctx, "0xOwner")
	require.NoError(t, err)
	require.Len(t, collections, 1)
	assert.Equal(t, "remote-1", collections[0].ID)
}

func TestListModules(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	ctx := context.Background()

	httpClient := mocks.NewMockHTTPClient(ctrl)
	client := megadata.NewClient(httpClient, "http://megadata.local", adapter.NewJSON())

	httpClient.EXPECT().
		Get(ctx, "http://megadata.local/modules", nil, gomock.Any()).
		DoAndReturn(func(_ context.Context, _ string, _ map[string]string, result interface{}) error {
			out := result.(*[]megadata.Module)
			*out = []megadata.Module{{Name: "erc721"}}
			return nil
		})

	modules, err := client.ListModules(ctx)
	require.NoError(t, err)
	require.Len(t, modules, 1)
	assert.Equal(t, "erc721", modules[0].Name)
}

func TestValidateModule(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	ctx := context.Background()

	httpClient := mocks.NewMockHTTPClient(ctrl)
	client := megadata.NewClient(httpClient, "http://megadata.local", adapter.NewJSON())

	payload := map[string]any{"name": "Demo #0", "description": "d", "image": "ipfs://x"}
	httpClient.EXPECT().
		PostJSON(ctx, "http://megadata.local/modules/erc721/validate", nil, payload).
		Return([]byte(`{}`), nil)

	assert.NoError(t, client.ValidateModule(ctx, "erc721", payload))
}

func TestValidateModule_SchemaViolation(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	ctx := context.Background()

	httpClient := mocks.NewMockHTTPClient(ctrl)
	client := megadata.NewClient(httpClient, "http://megadata.local", adapter.NewJSON())

	httpClient.EXPECT().
		PostJSON(ctx, gomock.Any(), nil, gomock.Any()).
		Return(nil, &adapter.RemoteError{StatusCode: 422, Message: "name is required"})

	err := client.ValidateModule(ctx, "erc721", map[string]any{})
	require.Error(t, err)

	var remoteErr *adapter.RemoteError
	require.ErrorAs(t, err, &remoteErr)
	assert.Equal(t, "name is required", remoteErr.Message)
}
