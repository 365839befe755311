package publish_test

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/megayours/megadata-studio/internal/adapter"
	"github.com/megayours/megadata-studio/internal/clients/megadata"
	"github.com/megayours/megadata-studio/internal/domain"
	"github.com/megayours/megadata-studio/internal/draftstore"
	"github.com/megayours/megadata-studio/internal/events"
	"github.com/megayours/megadata-studio/internal/logger"
	"github.com/megayours/megadata-studio/internal/mocks"
	"github.com/megayours/megadata-studio/internal/publish"
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

type testWorkflow struct {
	ctrl     *gomock.Controller
	drafts   draftstore.Store
	signer   *mocks.MockSessionSigner
	api      *mocks.MockMegadataClient
	emitter  *mocks.MockEventPublisher
	clock    *mocks.MockClock
	workflow *publish.Workflow
}

func setupTestWorkflow(t *testing.T) *testWorkflow {
	ctrl := gomock.NewController(t)

	clock := mocks.NewMockClock(ctrl)
	clock.EXPECT().NowMillis().Return(int64(1700000000000)).AnyTimes()
	clock.EXPECT().Now().Return(time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)).AnyTimes()

	jsonAdapter := adapter.NewJSON()
	drafts := draftstore.New(store.NewMemoryKVStore(), clock, jsonAdapter)

	tw := &testWorkflow{
		ctrl:    ctrl,
		drafts:  drafts,
		signer:  mocks.NewMockSessionSigner(ctrl),
		api:     mocks.NewMockMegadataClient(ctrl),
		emitter: mocks.NewMockEventPublisher(ctrl),
		clock:   clock,
	}
	tw.workflow = publish.NewWorkflow(drafts, tw.signer, tw.api, nil, tw.emitter, clock, jsonAdapter, adapter.NewJCS())
	return tw
}

// createPublishable seeds a draft whose items pass validation
func createPublishable(t *testing.T, drafts draftstore.Store, numTokens int) *domain.Collection {
	col, err := drafts.CreateCollection(context.Background(), "Demo", numTokens, 0, map[string]any{
		"erc721": map[string]any{
			"description": "A demo collection",
			"image":       "ipfs://QmDemo",
		},
	})
	require.NoError(t, err)
	return col
}

func TestRun_PublishesAndMigrates(t *testing.T) {
	tw := setupTestWorkflow(t)
	defer tw.ctrl.Finish()
	ctx := context.Background()

	col := createPublishable(t, tw.drafts, 2)

	tw.signer.EXPECT().Account().Return("0xPrimary", domain.ChainFamilyEVM, nil)
	tw.signer.EXPECT().
		SignMessage(ctx, domain.ActionMessage(domain.ActionPublishCollection, "0xPrimary", 1700000000000)).
		Return("0xsig", nil)

	tw.api.EXPECT().
		Publish(ctx, gomock.Any()).
		DoAndReturn(func(_ context.Context, req megadata.PublishRequest) (*megadata.PublishResponse, error) {
			assert.Equal(t, "Demo", req.Collection)
			assert.Len(t, req.Items, 2)
			assert.Equal(t, "0xPrimary", req.Auth.Account)
			assert.Equal(t, int64(1700000000000), req.Auth.Timestamp)
			assert.Equal(t, "0xsig", req.Auth.Signature)
			return &megadata.PublishResponse{CollectionID: "remote-9"}, nil
		})

	tw.emitter.EXPECT().
		Publish(ctx, events.SubjectCollectionPublished, gomock.Any()).
		Return(nil)

	result, err := tw.workflow.Run(ctx, col.ID, true)
	require.NoError(t, err)
	assert.Equal(t, "remote-9", result.RemoteID)
	assert.Equal(t, 2, result.NumItems)

	// The draft now lives frozen under the remote id
	published, err := tw.drafts.GetCollection(ctx, "remote-9")
	require.NoError(t, err)
	require.NotNil(t, published)
	assert.True(t, published.Published)
}

func TestRun_UnknownCollection(t *testing.T) {
	tw := setupTestWorkflow(t)
	defer tw.ctrl.Finish()

	_, err := tw.workflow.Run(context.Background(), "local_1_missing", true)
	assert.ErrorIs(t, err, domain.ErrCollectionNotFound)
}

func TestRun_AlreadyPublished(t *testing.T) {
	tw := setupTestWorkflow(t)
	defer tw.ctrl.Finish()
	ctx := context.Background()

	col := createPublishable(t, tw.drafts, 1)
	migrated, err := tw.drafts.PublishCollection(ctx, col.ID, "remote-1")
	require.NoError(t, err)
	require.True(t, migrated)

	_, err = tw.workflow.Run(ctx, "remote-1", true)
	assert.ErrorIs(t, err, domain.ErrCollectionPublished)
}

func TestRun_ValidationAbortsBeforeNetwork(t *testing.T) {
	tw := setupTestWorkflow(t)
	defer tw.ctrl.Finish()
	ctx := context.Background()

	// Seeded without an image, so every item fails validation
	col, err := tw.drafts.CreateCollection(ctx, "Broken", 2, 0, nil)
	require.NoError(t, err)

	// No Account, SignMessage, Publish or event expectations: the workflow
	// must not touch the session or the network.
	_, err = tw.workflow.Run(ctx, col.ID, true)

	var validationErr *publish.ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.Len(t, validationErr.Problems, 4)

	// The draft is untouched and still editable
	draft, err := tw.drafts.GetCollection(ctx, col.ID)
	require.NoError(t, err)
	require.NotNil(t, draft)
	assert.False(t, draft.Published)
}

func TestRun_RequiresConfirmation(t *testing.T) {
	tw := setupTestWorkflow(t)
	defer tw.ctrl.Finish()
	ctx := context.Background()

	col := createPublishable(t, tw.drafts, 1)

	_, err := tw.workflow.Run(ctx, col.ID, false)
	assert.ErrorIs(t, err, publish.ErrNotConfirmed)

	draft, err := tw.drafts.GetCollection(ctx, col.ID)
	require.NoError(t, err)
	require.NotNil(t, draft)
	assert.False(t, draft.Published)
}

func TestRun_RemoteFailureLeavesDraftUntouched(t *testing.T) {
	tw := setupTestWorkflow(t)
	defer tw.ctrl.Finish()
	ctx := context.Background()

	col := createPublishable(t, tw.drafts, 1)

	tw.signer.EXPECT().Account().Return("0xPrimary", domain.ChainFamilyEVM, nil)
	tw.signer.EXPECT().SignMessage(ctx, gomock.Any()).Return("0xsig", nil)
	tw.api.EXPECT().Publish(ctx, gomock.Any()).Return(nil, &adapter.RemoteError{StatusCode: 503, Message: "unavailable"})

	_, err := tw.workflow.Run(ctx, col.ID, true)
	var remoteErr *adapter.RemoteError
	require.ErrorAs(t, err, &remoteErr)

	// Still a mutable draft under its local id
	draft, err := tw.drafts.GetCollection(ctx, col.ID)
	require.NoError(t, err)
	require.NotNil(t, draft)
	assert.False(t, draft.Published)

	saved, err := tw.drafts.SaveItem(ctx, domain.Item{
		Collection: col.ID,
		TokenID:    "0",
		Properties: map[string]any{"erc721": map[string]any{"name": "Still editable"}},
	})
	require.NoError(t, err)
	assert.True(t, saved)
}

func TestRun_SigningFailureAbortsBeforeNetwork(t *testing.T) {
	tw := setupTestWorkflow(t)
	defer tw.ctrl.Finish()
	ctx := context.Background()

	col := createPublishable(t, tw.drafts, 1)

	tw.signer.EXPECT().Account().Return("0xPrimary", domain.ChainFamilyEVM, nil)
	tw.signer.EXPECT().SignMessage(ctx, gomock.Any()).Return("", domain.ErrUserRejected)

	_, err := tw.workflow.Run(ctx, col.ID, true)
	assert.ErrorIs(t, err, domain.ErrUserRejected)
}
