package draftstore_test

import (
	"context"
	"os"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/megayours/megadata-studio/internal/adapter"
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

type testStore struct {
	ctrl   *gomock.Controller
	clock  *mocks.MockClock
	kv     store.KVStore
	drafts draftstore.Store
}

func setupTestStore(t *testing.T) *testStore {
	ctrl := gomock.NewController(t)
	clock := mocks.NewMockClock(ctrl)
	clock.EXPECT().NowMillis().Return(int64(1700000000000)).AnyTimes()

	kv := store.NewMemoryKVStore()
	return &testStore{
		ctrl:   ctrl,
		clock:  clock,
		kv:     kv,
		drafts: draftstore.New(kv, clock, adapter.NewJSON()),
	}
}

func TestCreateCollection_SeedsItems(t *testing.T) {
	ts := setupTestStore(t)
	defer ts.ctrl.Finish()
	ctx := context.Background()

	col, err := ts.drafts.CreateCollection(ctx, "Demo", 2, 0, map[string]any{
		"erc721": map[string]any{
			"description": "A demo collection",
		},
	})
	require.NoError(t, err)
	require.NotNil(t, col)

	assert.True(t, domain.IsLocalID(col.ID))
	assert.Equal(t, "Demo", col.Name)
	assert.False(t, col.Published)

	items, err := ts.drafts.GetItems(ctx, col.ID)
	require.NoError(t, err)
	require.Len(t, items, 2)

	assert.Equal(t, "0", items[0].TokenID)
	assert.Equal(t, "1", items[1].TokenID)

	for i, item := range items {
		erc721, ok := item.Properties["erc721"].(map[string]any)
		require.True(t, ok, "item %d missing erc721 block", i)
		assert.Equal(t, "Demo #"+item.TokenID, erc721["name"])
		assert.Equal(t, "A demo collection", erc721["description"])
		assert.Equal(t, int64(1700000000000), item.LastModified)
	}
}

func TestCreateCollection_StartingIndex(t *testing.T) {
	ts := setupTestStore(t)
	defer ts.ctrl.Finish()
	ctx := context.Background()

	col, err := ts.drafts.CreateCollection(ctx, "Offset", 3, 100, nil)
	require.NoError(t, err)

	items, err := ts.drafts.GetItems(ctx, col.ID)
	require.NoError(t, err)
	require.Len(t, items, 3)
	assert.Equal(t, "100", items[0].TokenID)
	assert.Equal(t, "101", items[1].TokenID)
	assert.Equal(t, "102", items[2].TokenID)
}

func TestSaveItem_Upsert(t *testing.T) {
	ts := setupTestStore(t)
	defer ts.ctrl.Finish()
	ctx := context.Background()

	col, err := ts.drafts.CreateCollection(ctx, "Demo", 1, 0, nil)
	require.NoError(t, err)

	// Replace the seeded item
	saved, err := ts.drafts.SaveItem(ctx, domain.Item{
		Collection: col.ID,
		TokenID:    "0",
		Properties: map[string]any{"erc721": map[string]any{"name": "Renamed"}},
	})
	require.NoError(t, err)
	assert.True(t, saved)

	// Append a new item
	saved, err = ts.drafts.SaveItem(ctx, domain.Item{
		Collection: col.ID,
		TokenID:    "1",
		Properties: map[string]any{"erc721": map[string]any{"name": "Demo #1"}},
	})
	require.NoError(t, err)
	assert.True(t, saved)

	items, err := ts.drafts.GetItems(ctx, col.ID)
	require.NoError(t, err)
	require.Len(t, items, 2)

	item, err := ts.drafts.GetItem(ctx, col.ID, "0")
	require.NoError(t, err)
	require.NotNil(t, item)
	erc721 := item.Properties["erc721"].(map[string]any)
	assert.Equal(t, "Renamed", erc721["name"])
	assert.Equal(t, int64(1700000000000), item.LastModified)
}

func TestSaveItem_FailsClosedOnPublished(t *testing.T) {
	ts := setupTestStore(t)
	defer ts.ctrl.Finish()
	ctx := context.Background()

	col, err := ts.drafts.CreateCollection(ctx, "Demo", 1, 0, nil)
	require.NoError(t, err)

	migrated, err := ts.drafts.PublishCollection(ctx, col.ID, "remote-77")
	require.NoError(t, err)
	require.True(t, migrated)

	saved, err := ts.drafts.SaveItem(ctx, domain.Item{
		Collection: "remote-77",
		TokenID:    "0",
		Properties: map[string]any{},
	})
	assert.NoError(t, err)
	assert.False(t, saved)
}

func TestSaveItem_UnknownCollection(t *testing.T) {
	ts := setupTestStore(t)
	defer ts.ctrl.Finish()

	saved, err := ts.drafts.SaveItem(context.Background(), domain.Item{
		Collection: "local_1_missing",
		TokenID:    "0",
	})
	assert.NoError(t, err)
	assert.False(t, saved)
}

func TestDeleteItem(t *testing.T) {
	ts := setupTestStore(t)
	defer ts.ctrl.Finish()
	ctx := context.Background()

	col, err := ts.drafts.CreateCollection(ctx, "Demo", 2, 0, nil)
	require.NoError(t, err)

	deleted, err := ts.drafts.DeleteItem(ctx, col.ID, "0")
	require.NoError(t, err)
	assert.True(t, deleted)

	// Deleting a missing item is not an error, it reports false
	deleted, err = ts.drafts.DeleteItem(ctx, col.ID, "0")
	require.NoError(t, err)
	assert.False(t, deleted)

	items, err := ts.drafts.GetItems(ctx, col.ID)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "1", items[0].TokenID)
}

func TestDeleteCollection(t *testing.T) {
	ts := setupTestStore(t)
	defer ts.ctrl.Finish()
	ctx := context.Background()

	col, err := ts.drafts.CreateCollection(ctx, "Demo", 2, 0, nil)
	require.NoError(t, err)

	deleted, err := ts.drafts.DeleteCollection(ctx, col.ID)
	require.NoError(t, err)
	assert.True(t, deleted)

	got, err := ts.drafts.GetCollection(ctx, col.ID)
	require.NoError(t, err)
	assert.Nil(t, got)

	items, err := ts.drafts.GetItems(ctx, col.ID)
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestDeleteCollection_PublishedFailsClosed(t *testing.T) {
	ts := setupTestStore(t)
	defer ts.ctrl.Finish()
	ctx := context.Background()

	col, err := ts.drafts.CreateCollection(ctx, "Demo", 1, 0, nil)
	require.NoError(t, err)

	migrated, err := ts.drafts.PublishCollection(ctx, col.ID, "remote-1")
	require.NoError(t, err)
	require.True(t, migrated)

	deleted, err := ts.drafts.DeleteCollection(ctx, "remote-1")
	assert.NoError(t, err)
	assert.False(t, deleted)
}

func TestPublishCollection_MigratesItemBucket(t *testing.T) {
	ts := setupTestStore(t)
	defer ts.ctrl.Finish()
	ctx := context.Background()

	col, err := ts.drafts.CreateCollection(ctx, "Demo", 2, 0, nil)
	require.NoError(t, err)
	localID := col.ID

	migrated, err := ts.drafts.PublishCollection(ctx, localID, "remote-42")
	require.NoError(t, err)
	assert.True(t, migrated)

	// Old id resolves nothing anymore
	old, err := ts.drafts.GetCollection(ctx, localID)
	require.NoError(t, err)
	assert.Nil(t, old)
	oldItems, err := ts.drafts.GetItems(ctx, localID)
	require.NoError(t, err)
	assert.Empty(t, oldItems)

	// The record and the item bucket live under the remote id
	published, err := ts.drafts.GetCollection(ctx, "remote-42")
	require.NoError(t, err)
	require.NotNil(t, published)
	assert.True(t, published.Published)
	assert.Equal(t, "Demo", published.Name)

	items, err := ts.drafts.GetItems(ctx, "remote-42")
	require.NoError(t, err)
	require.Len(t, items, 2)
	for _, item := range items {
		assert.Equal(t, "remote-42", item.Collection)
	}
}

func TestPublishCollection_AlreadyPublished(t *testing.T) {
	ts := setupTestStore(t)
	defer ts.ctrl.Finish()
	ctx := context.Background()

	col, err := ts.drafts.CreateCollection(ctx, "Demo", 1, 0, nil)
	require.NoError(t, err)

	migrated, err := ts.drafts.PublishCollection(ctx, col.ID, "remote-1")
	require.NoError(t, err)
	require.True(t, migrated)

	migrated, err = ts.drafts.PublishCollection(ctx, "remote-1", "remote-2")
	require.NoError(t, err)
	assert.False(t, migrated)
}

func TestExportImport_Replaces(t *testing.T) {
	ts := setupTestStore(t)
	defer ts.ctrl.Finish()
	ctx := context.Background()

	first, err := ts.drafts.CreateCollection(ctx, "Keep", 1, 0, nil)
	require.NoError(t, err)

	doc, err := ts.drafts.Export(ctx)
	require.NoError(t, err)
	require.Len(t, doc.Collections, 1)
	require.Len(t, doc.Items[first.ID], 1)

	// A collection created after the export must not survive the import
	stray, err := ts.drafts.CreateCollection(ctx, "Stray", 1, 0, nil)
	require.NoError(t, err)

	require.NoError(t, ts.drafts.Import(ctx, doc))

	collections, err := ts.drafts.ListCollections(ctx)
	require.NoError(t, err)
	require.Len(t, collections, 1)
	assert.Equal(t, first.ID, collections[0].ID)

	strayItems, err := ts.drafts.GetItems(ctx, stray.ID)
	require.NoError(t, err)
	assert.Empty(t, strayItems)

	keptItems, err := ts.drafts.GetItems(ctx, first.ID)
	require.NoError(t, err)
	assert.Len(t, keptItems, 1)
}
