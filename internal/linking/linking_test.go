package linking_test

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/megayours/megadata-studio/internal/domain"
	"github.com/megayours/megadata-studio/internal/events"
	"github.com/megayours/megadata-studio/internal/linking"
	"github.com/megayours/megadata-studio/internal/logger"
	"github.com/megayours/megadata-studio/internal/mocks"
	"github.com/megayours/megadata-studio/internal/wallet"
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

type refreshCounter struct {
	calls int
}

func (r *refreshCounter) RefreshLinks(context.Context) {
	r.calls++
}

type testLinking struct {
	ctrl      *gomock.Controller
	signer    *mocks.MockSessionSigner
	second    *mocks.MockWalletProvider
	forwarder *mocks.MockForwarderClient
	query     *mocks.MockQueryClient
	clock     *mocks.MockClock
	refresher *refreshCounter
	links     *linking.Orchestrator
}

func setupTestLinking(t *testing.T) *testLinking {
	ctrl := gomock.NewController(t)

	tl := &testLinking{
		ctrl:      ctrl,
		signer:    mocks.NewMockSessionSigner(ctrl),
		second:    mocks.NewMockWalletProvider(ctrl),
		forwarder: mocks.NewMockForwarderClient(ctrl),
		query:     mocks.NewMockQueryClient(ctrl),
		clock:     mocks.NewMockClock(ctrl),
		refresher: &refreshCounter{},
	}
	tl.second.EXPECT().Kind().Return(domain.WalletKindPhantom).AnyTimes()
	tl.second.EXPECT().ChainFamily().Return(domain.ChainFamilySolana).AnyTimes()

	registry := wallet.NewRegistry(tl.second)
	tl.links = linking.NewOrchestrator(tl.signer, tl.refresher, registry, tl.forwarder, tl.query, tl.clock, nil)
	return tl
}

func TestLink_SharedTimestampAcrossBothSignatures(t *testing.T) {
	tl := setupTestLinking(t)
	defer tl.ctrl.Finish()
	ctx := context.Background()

	const ts = int64(1700000000000)
	tl.signer.EXPECT().Account().Return("0xPrimary", domain.ChainFamilyEVM, nil)
	tl.clock.EXPECT().NowMillis().Return(ts)
	tl.second.EXPECT().Connect(ctx).Return("9xSecond", nil)

	// Each message embeds that wallet's own address and the shared timestamp
	tl.second.EXPECT().
		SignMessage(ctx, "9xSecond", domain.ActionMessage(domain.ActionLinkAccount, "9xSecond", ts)).
		Return("second-sig", nil)
	tl.signer.EXPECT().
		SignMessage(ctx, domain.ActionMessage(domain.ActionLinkAccount, "0xPrimary", ts)).
		Return("primary-sig", nil)

	tl.forwarder.EXPECT().
		LinkAccounts(ctx,
			domain.SignatureData{Type: domain.ChainFamilySolana, Timestamp: ts, Account: "9xSecond", Signature: "second-sig"},
			domain.SignatureData{Type: domain.ChainFamilyEVM, Timestamp: ts, Account: "0xPrimary", Signature: "primary-sig"},
		).
		Return(nil)

	linked, err := tl.links.Link(ctx, domain.ChainFamilySolana, domain.WalletKindPhantom)
	require.NoError(t, err)
	assert.Equal(t, "9xSecond", linked)
	assert.Equal(t, 1, tl.refresher.calls)
}

func TestLink_RequiresPrimarySession(t *testing.T) {
	tl := setupTestLinking(t)
	defer tl.ctrl.Finish()

	tl.signer.EXPECT().Account().Return("", domain.ChainFamily(""), domain.ErrNoPrimaryAccount)

	_, err := tl.links.Link(context.Background(), domain.ChainFamilySolana, domain.WalletKindPhantom)
	assert.ErrorIs(t, err, domain.ErrNoPrimaryAccount)
	assert.Equal(t, 0, tl.refresher.calls)
}

func TestLink_SecondWalletRejection(t *testing.T) {
	tl := setupTestLinking(t)
	defer tl.ctrl.Finish()
	ctx := context.Background()

	tl.signer.EXPECT().Account().Return("0xPrimary", domain.ChainFamilyEVM, nil)
	tl.clock.EXPECT().NowMillis().Return(int64(1700000000000))
	tl.second.EXPECT().Connect(ctx).Return("9xSecond", nil)
	tl.second.EXPECT().SignMessage(ctx, "9xSecond", gomock.Any()).Return("", domain.ErrUserRejected)

	// No forwarder call, no refresh: the failure leaves no partial link state
	_, err := tl.links.Link(ctx, domain.ChainFamilySolana, domain.WalletKindPhantom)
	assert.ErrorIs(t, err, domain.ErrUserRejected)
	assert.Equal(t, 0, tl.refresher.calls)
}

func TestLink_PrimarySigningFailure(t *testing.T) {
	tl := setupTestLinking(t)
	defer tl.ctrl.Finish()
	ctx := context.Background()

	tl.signer.EXPECT().Account().Return("0xPrimary", domain.ChainFamilyEVM, nil)
	tl.clock.EXPECT().NowMillis().Return(int64(1700000000000))
	tl.second.EXPECT().Connect(ctx).Return("9xSecond", nil)
	tl.second.EXPECT().SignMessage(ctx, "9xSecond", gomock.Any()).Return("second-sig", nil)
	tl.signer.EXPECT().SignMessage(ctx, gomock.Any()).Return("", domain.ErrSessionExpired)

	_, err := tl.links.Link(ctx, domain.ChainFamilySolana, domain.WalletKindPhantom)
	assert.ErrorIs(t, err, domain.ErrSessionExpired)
	assert.Equal(t, 0, tl.refresher.calls)
}

func TestLink_VerifierFailure(t *testing.T) {
	tl := setupTestLinking(t)
	defer tl.ctrl.Finish()
	ctx := context.Background()

	tl.signer.EXPECT().Account().Return("0xPrimary", domain.ChainFamilyEVM, nil)
	tl.clock.EXPECT().NowMillis().Return(int64(1700000000000))
	tl.second.EXPECT().Connect(ctx).Return("9xSecond", nil)
	tl.second.EXPECT().SignMessage(ctx, "9xSecond", gomock.Any()).Return("second-sig", nil)
	tl.signer.EXPECT().SignMessage(ctx, gomock.Any()).Return("primary-sig", nil)
	tl.forwarder.EXPECT().LinkAccounts(ctx, gomock.Any(), gomock.Any()).Return(errors.New("verification failed"))

	_, err := tl.links.Link(ctx, domain.ChainFamilySolana, domain.WalletKindPhantom)
	assert.Error(t, err)
	assert.Equal(t, 0, tl.refresher.calls)
}

func TestUnlink(t *testing.T) {
	tl := setupTestLinking(t)
	defer tl.ctrl.Finish()
	ctx := context.Background()

	tl.signer.EXPECT().Account().Return("0xPrimary", domain.ChainFamilyEVM, nil)
	tl.query.EXPECT().Unlink(ctx, "0xPrimary", "9xSecond").Return(nil)

	require.NoError(t, tl.links.Unlink(ctx, "9xSecond"))
	assert.Equal(t, 1, tl.refresher.calls)
}

func TestUnlink_EmitsLinkEvent(t *testing.T) {
	tl := setupTestLinking(t)
	defer tl.ctrl.Finish()
	ctx := context.Background()

	emitter := mocks.NewMockEventPublisher(tl.ctrl)
	registry := wallet.NewRegistry(tl.second)
	links := linking.NewOrchestrator(tl.signer, tl.refresher, registry, tl.forwarder, tl.query, tl.clock, emitter)

	now := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	tl.signer.EXPECT().Account().Return("0xPrimary", domain.ChainFamilyEVM, nil)
	tl.query.EXPECT().Unlink(ctx, "0xPrimary", "9xSecond").Return(nil)
	tl.clock.EXPECT().Now().Return(now)
	emitter.EXPECT().
		Publish(ctx, events.SubjectAccountUnlinked, gomock.Any()).
		DoAndReturn(func(_ context.Context, _ string, raw any) error {
			event := raw.(events.AccountLinkChanged)
			assert.Equal(t, "9xSecond", event.Account)
			assert.Equal(t, "0xPrimary", event.Primary)
			assert.NotEmpty(t, event.EventID)
			return nil
		})

	require.NoError(t, links.Unlink(ctx, "9xSecond"))
}

func TestUnlink_EventFailureDoesNotFailOperation(t *testing.T) {
	tl := setupTestLinking(t)
	defer tl.ctrl.Finish()
	ctx := context.Background()

	emitter := mocks.NewMockEventPublisher(tl.ctrl)
	registry := wallet.NewRegistry(tl.second)
	links := linking.NewOrchestrator(tl.signer, tl.refresher, registry, tl.forwarder, tl.query, tl.clock, emitter)

	tl.signer.EXPECT().Account().Return("0xPrimary", domain.ChainFamilyEVM, nil)
	tl.query.EXPECT().Unlink(ctx, "0xPrimary", "9xSecond").Return(nil)
	tl.clock.EXPECT().Now().Return(time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC))
	emitter.EXPECT().Publish(ctx, events.SubjectAccountUnlinked, gomock.Any()).Return(errors.New("nats down"))

	require.NoError(t, links.Unlink(ctx, "9xSecond"))
	assert.Equal(t, 1, tl.refresher.calls)
}
