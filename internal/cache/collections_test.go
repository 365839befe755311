package cache_test

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/megayours/megadata-studio/internal/adapter"
	"github.com/megayours/megadata-studio/internal/cache"
	"github.com/megayours/megadata-studio/internal/clients/megadata"
	"github.com/megayours/megadata-studio/internal/domain"
	"github.com/megayours/megadata-studio/internal/draftstore"
	"github.com/megayours/megadata-studio/internal/logger"
	"github.com/megayours/megadata-studio/internal/mocks"
	"github.com/megayours/megadata-studio/internal/store"
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

func newDrafts(t *testing.T, ctrl *gomock.Controller) draftstore.Store {
	clock := mocks.NewMockClock(ctrl)
	clock.EXPECT().NowMillis().Return(int64(1700000000000)).AnyTimes()
	return draftstore.New(store.NewMemoryKVStore(), clock, adapter.NewJSON())
}

func TestList_MergesDraftsAndRemote(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	ctx := context.Background()

	drafts := newDrafts(t, ctrl)
	remote := mocks.NewMockMegadataClient(ctrl)

	local, err := drafts.CreateCollection(ctx, "Draft", 1, 0, nil)
	require.NoError(t, err)

	remote.EXPECT().ListCollections(ctx, "0xOwner").Return([]megadata.RemoteCollection{
		{ID: "remote-1", Name: "Published", NumTokens: 10},
	}, nil)

	collections := cache.NewCollections(nil, drafts, remote, adapter.NewJSON(), time.Minute)
	views, err := collections.List(ctx, "0xOwner")
	require.NoError(t, err)
	require.Len(t, views, 2)

	byID := map[string]cache.CollectionView{}
	for _, v := range views {
		byID[v.ID] = v
	}

	assert.Equal(t, domain.ProvenanceLocalDraft, byID[local.ID].Provenance)
	assert.False(t, byID[local.ID].Published)

	assert.Equal(t, domain.ProvenanceRemotePublished, byID["remote-1"].Provenance)
	assert.True(t, byID["remote-1"].Published)
	assert.Equal(t, 10, byID["remote-1"].NumTokens)
}

func TestList_RemoteRecordWinsOnSharedID(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	ctx := context.Background()

	drafts := newDrafts(t, ctrl)
	remote := mocks.NewMockMegadataClient(ctrl)

	// A published draft keeps its migrated remote id locally; the remote
	// listing carries the same id. One entry must come out, remote-flavored.
	local, err := drafts.CreateCollection(ctx, "Was Draft", 1, 0, nil)
	require.NoError(t, err)
	migrated, err := drafts.PublishCollection(ctx, local.ID, "remote-1")
	require.NoError(t, err)
	require.True(t, migrated)

	remote.EXPECT().ListCollections(ctx, "0xOwner").Return([]megadata.RemoteCollection{
		{ID: "remote-1", Name: "Was Draft", NumTokens: 1},
	}, nil)

	collections := cache.NewCollections(nil, drafts, remote, adapter.NewJSON(), time.Minute)
	views, err := collections.List(ctx, "0xOwner")
	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.Equal(t, "remote-1", views[0].ID)
	assert.Equal(t, domain.ProvenanceRemotePublished, views[0].Provenance)
}

func TestList_ServesFromRedisWhenFresh(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	ctx := context.Background()

	drafts := newDrafts(t, ctrl)
	remote := mocks.NewMockMegadataClient(ctrl)
	redisClient := mocks.NewMockRedisClient(ctrl)

	cached := `[{"id":"remote-1","name":"Cached","published":true,"numTokens":3,"startingIndex":0,"provenance":"remote-published"}]`
	redisClient.EXPECT().Get(ctx, "megadata_cache_collections_0xOwner").Return(cached, nil)

	// No drafts read, no remote call
	collections := cache.NewCollections(redisClient, drafts, remote, adapter.NewJSON(), time.Minute)
	views, err := collections.List(ctx, "0xOwner")
	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.Equal(t, "Cached", views[0].Name)
}

func TestList_CacheMissFillsRedis(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	ctx := context.Background()

	drafts := newDrafts(t, ctrl)
	remote := mocks.NewMockMegadataClient(ctrl)
	redisClient := mocks.NewMockRedisClient(ctrl)

	redisClient.EXPECT().Get(ctx, "megadata_cache_collections_0xOwner").Return("", redis.Nil)
	remote.EXPECT().ListCollections(ctx, "0xOwner").Return(nil, nil)
	redisClient.EXPECT().Set(ctx, "megadata_cache_collections_0xOwner", gomock.Any(), time.Minute).Return(nil)

	collections := cache.NewCollections(redisClient, drafts, remote, adapter.NewJSON(), time.Minute)
	views, err := collections.List(ctx, "0xOwner")
	require.NoError(t, err)
	assert.Empty(t, views)
}

func TestInvalidate(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	ctx := context.Background()

	redisClient := mocks.NewMockRedisClient(ctrl)
	redisClient.EXPECT().Delete(ctx, "megadata_cache_collections_0xOwner").Return(nil)

	collections := cache.NewCollections(redisClient, nil, nil, adapter.NewJSON(), time.Minute)
	collections.Invalidate(ctx, "0xOwner")

	// Nil redis is a no-op
	passthrough := cache.NewCollections(nil, nil, nil, adapter.NewJSON(), time.Minute)
	passthrough.Invalidate(ctx, "0xOwner")
}
