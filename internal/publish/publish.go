package publish

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/megayours/megadata-studio/internal/adapter"
	"github.com/megayours/megadata-studio/internal/clients/megadata"
	"github.com/megayours/megadata-studio/internal/domain"
	"github.com/megayours/megadata-studio/internal/draftstore"
	"github.com/megayours/megadata-studio/internal/events"
	"github.com/megayours/megadata-studio/internal/logger"
	"github.com/megayours/megadata-studio/internal/metadata"
	"github.com/megayours/megadata-studio/internal/session"
	"github.com/megayours/megadata-studio/internal/store"
)

// ErrNotConfirmed is returned when the caller has not acknowledged that
// publishing is irreversible.
var ErrNotConfirmed = errors.New("publish requires explicit confirmation")

// ValidationError aggregates every schema violation found in a batch. When
// returned, nothing was sent remotely.
type ValidationError struct {
	Problems []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%d validation problems", len(e.Problems))
}

// Workflow moves a draft collection from mutable scratch to on-chain
// authoritative through one all-or-nothing remote call. All checks run
// locally before the network is touched; any failure leaves the draft
// untouched and unpublished.
type Workflow struct {
	drafts   draftstore.Store
	session  session.Signer
	api      megadata.Client
	receipts store.ReceiptStore
	emitter  events.Publisher
	clock    adapter.Clock
	json     adapter.JSON
	jcs      adapter.JCS
}

// NewWorkflow creates a publish workflow. receipts and emitter may be nil.
func NewWorkflow(drafts draftstore.Store, sess session.Signer, api megadata.Client, receipts store.ReceiptStore, emitter events.Publisher, clock adapter.Clock, json adapter.JSON, jcs adapter.JCS) *Workflow {
	return &Workflow{
		drafts:   drafts,
		session:  sess,
		api:      api,
		receipts: receipts,
		emitter:  emitter,
		clock:    clock,
		json:     json,
		jcs:      jcs,
	}
}

// Result reports a completed publish
type Result struct {
	RemoteID string `json:"remoteId"`
	NumItems int    `json:"numItems"`
}

// batchHash is the SHA-256 of the JCS-canonicalized item batch, recorded in
// the publish receipt for audit.
func (w *Workflow) batchHash(items []megadata.PublishItem) (string, error) {
	raw, err := w.json.Marshal(items)
	if err != nil {
		return "", fmt.Errorf("failed to encode batch: %w", err)
	}
	canonical, err := w.jcs.Transform(raw)
	if err != nil {
		return "", fmt.Errorf("failed to canonicalize batch: %w", err)
	}
	sum := sha256.Sum256(canonical)
	return hex.EncodeToString(sum[:]), nil
}

// Run publishes one draft collection. confirmed must be true: publishing
// removes further local editability.
func (w *Workflow) Run(ctx context.Context, collectionID string, confirmed bool) (*Result, error) {
	col, err := w.drafts.GetCollection(ctx, collectionID)
	if err != nil {
		return nil, err
	}
	if col == nil {
		return nil, domain.ErrCollectionNotFound
	}
	if col.Published {
		return nil, domain.ErrCollectionPublished
	}

	items, err := w.drafts.GetItems(ctx, collectionID)
	if err != nil {
		return nil, err
	}

	// All local checks run before any network call: the remote store only
	// accepts a fully-formed batch, and an early abort costs no write quota.
	if problems := metadata.ValidateBatch(items); len(problems) > 0 {
		return nil, &ValidationError{Problems: problems}
	}

	if !confirmed {
		return nil, ErrNotConfirmed
	}

	account, family, err := w.session.Account()
	if err != nil {
		return nil, err
	}

	timestamp := w.clock.NowMillis()
	message := domain.ActionMessage(domain.ActionPublishCollection, account, timestamp)
	signature, err := w.session.SignMessage(ctx, message)
	if err != nil {
		return nil, fmt.Errorf("publish signing failed: %w", err)
	}

	batch := make([]megadata.PublishItem, 0, len(items))
	for _, item := range items {
		batch = append(batch, megadata.PublishItem{
			TokenID:    item.TokenID,
			Properties: item.Properties,
		})
	}

	req := megadata.PublishRequest{
		Auth: domain.SignatureData{
			Type:      family,
			Timestamp: timestamp,
			Account:   account,
			Signature: signature,
		},
		Collection: col.Name,
		Items:      batch,
	}

	resp, err := w.api.Publish(ctx, req)
	if err != nil {
		// The draft stays untouched and unpublished
		return nil, err
	}

	migrated, err := w.drafts.PublishCollection(ctx, collectionID, resp.CollectionID)
	if err != nil {
		return nil, err
	}
	if !migrated {
		return nil, fmt.Errorf("draft %s vanished during publish", collectionID)
	}

	w.record(ctx, collectionID, resp.CollectionID, account, req)
	w.emit(ctx, collectionID, resp.CollectionID, account, len(batch))

	return &Result{RemoteID: resp.CollectionID, NumItems: len(batch)}, nil
}

// record stores the publish receipt; failures are logged, the publish stands
func (w *Workflow) record(ctx context.Context, localID, remoteID, account string, req megadata.PublishRequest) {
	if w.receipts == nil {
		return
	}

	hash, err := w.batchHash(req.Items)
	if err != nil {
		logger.Warn("failed to hash publish batch", zap.Error(err))
		return
	}
	payload, err := w.json.Marshal(req)
	if err != nil {
		logger.Warn("failed to encode publish payload", zap.Error(err))
		return
	}
	if err := w.receipts.RecordPublish(ctx, localID, remoteID, account, hash, payload, w.clock.Now()); err != nil {
		logger.Warn("failed to record publish receipt", zap.Error(err))
	}
}

func (w *Workflow) emit(ctx context.Context, localID, remoteID, account string, numItems int) {
	if w.emitter == nil {
		return
	}

	now := w.clock.Now()
	event := events.CollectionPublished{
		EventID:   events.NewEventID(now),
		LocalID:   localID,
		RemoteID:  remoteID,
		Account:   account,
		NumItems:  numItems,
		Timestamp: now,
	}
	if err := w.emitter.Publish(ctx, events.SubjectCollectionPublished, event); err != nil {
		logger.Warn("failed to emit publish event", zap.Error(err))
	}
}
