package linking

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/megayours/megadata-studio/internal/adapter"
	"github.com/megayours/megadata-studio/internal/clients/forwarder"
	"github.com/megayours/megadata-studio/internal/clients/query"
	"github.com/megayours/megadata-studio/internal/domain"
	"github.com/megayours/megadata-studio/internal/events"
	"github.com/megayours/megadata-studio/internal/logger"
	"github.com/megayours/megadata-studio/internal/session"
	"github.com/megayours/megadata-studio/internal/wallet"
)

// Orchestrator runs the account-linking protocol: prove joint control of the
// primary account and a second ad-hoc wallet by collecting one signature from
// each private key over matching timestamped messages, then relay both to the
// external verifier in a single submission. Linking cannot be spoofed by one
// party alone; the client's only job is faithful collection and relay.
type Orchestrator struct {
	session   session.Signer
	refresher LinkRefresher
	wallets   *wallet.Registry
	forwarder forwarder.Client
	query     query.Client
	clock     adapter.Clock
	emitter   events.Publisher
}

// LinkRefresher re-reads the link list from the verifier. A new link is only
// trusted once the refreshed list contains it.
type LinkRefresher interface {
	RefreshLinks(ctx context.Context)
}

// NewOrchestrator creates a linking orchestrator. emitter may be nil.
func NewOrchestrator(sess session.Signer, refresher LinkRefresher, wallets *wallet.Registry, fwd forwarder.Client, qry query.Client, clock adapter.Clock, emitter events.Publisher) *Orchestrator {
	return &Orchestrator{
		session:   sess,
		refresher: refresher,
		wallets:   wallets,
		forwarder: fwd,
		query:     qry,
		clock:     clock,
		emitter:   emitter,
	}
}

// emit publishes a link-change event. Event delivery never fails the operation.
func (o *Orchestrator) emit(ctx context.Context, subject, account, primary string) {
	if o.emitter == nil {
		return
	}
	now := o.clock.Now()
	event := events.AccountLinkChanged{
		EventID:   events.NewEventID(now),
		Account:   account,
		Primary:   primary,
		Timestamp: now,
	}
	if err := o.emitter.Publish(ctx, subject, event); err != nil {
		logger.Warn("failed to publish link event", zap.Error(err), zap.String("subject", subject))
	}
}

// Link connects a second wallet, cross-signs the linking messages and submits
// both signatures. The second connection is independent of the primary
// session and does not replace it. On any step failure the operation surfaces
// one error and leaves no partial link state.
func (o *Orchestrator) Link(ctx context.Context, family domain.ChainFamily, kind domain.WalletKind) (string, error) {
	primaryAccount, primaryFamily, err := o.session.Account()
	if err != nil {
		return "", err
	}

	provider, secondAccount, err := o.wallets.Connect(ctx, family, kind)
	if err != nil {
		return "", fmt.Errorf("second wallet connection failed: %w", err)
	}

	// One timestamp binds the two signing events into one coordinated action
	timestamp := o.clock.NowMillis()

	// The two signatures are obtained sequentially: the second wallet first,
	// then the primary session. Running them concurrently would fight over
	// whichever wallet is the active provider.
	secondMessage := domain.ActionMessage(domain.ActionLinkAccount, secondAccount, timestamp)
	secondSignature, err := provider.SignMessage(ctx, secondAccount, secondMessage)
	if err != nil {
		return "", fmt.Errorf("second wallet signing failed: %w", err)
	}

	primaryMessage := domain.ActionMessage(domain.ActionLinkAccount, primaryAccount, timestamp)
	primarySignature, err := o.session.SignMessage(ctx, primaryMessage)
	if err != nil {
		return "", fmt.Errorf("primary signing failed: %w", err)
	}

	second := domain.SignatureData{
		Type:      family,
		Timestamp: timestamp,
		Account:   secondAccount,
		Signature: secondSignature,
	}
	primary := domain.SignatureData{
		Type:      primaryFamily,
		Timestamp: timestamp,
		Account:   primaryAccount,
		Signature: primarySignature,
	}

	if err := o.forwarder.LinkAccounts(ctx, second, primary); err != nil {
		return "", err
	}

	// The link is not synthesized client-side; refresh from the verifier
	o.refresher.RefreshLinks(ctx)
	o.emit(ctx, events.SubjectAccountLinked, secondAccount, primaryAccount)

	logger.Info("linked account",
		zap.String("account", secondAccount),
		zap.String("primary", primaryAccount))

	return secondAccount, nil
}

// Unlink removes one link with a single remote call. Must already be
// authenticated as the primary session; enforcement is the verifier's job.
func (o *Orchestrator) Unlink(ctx context.Context, linkedAccount string) error {
	primaryAccount, _, err := o.session.Account()
	if err != nil {
		return err
	}

	if err := o.query.Unlink(ctx, primaryAccount, linkedAccount); err != nil {
		return err
	}

	o.refresher.RefreshLinks(ctx)
	o.emit(ctx, events.SubjectAccountUnlinked, linkedAccount, primaryAccount)
	return nil
}

// DisconnectSecond offers the explicit disconnect action for the transient
// second-wallet connection. Best-effort.
func (o *Orchestrator) DisconnectSecond(ctx context.Context, family domain.ChainFamily, kind domain.WalletKind) {
	o.wallets.Disconnect(ctx, family, kind)
}
