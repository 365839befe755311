package store

import (
	"context"
	"fmt"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/megayours/megadata-studio/internal/store/schema"
)

// ReceiptStore records accepted publish submissions for audit
//
//go:generate mockgen -source=receipts.go -destination=../mocks/receipts.go -package=mocks -mock_names=ReceiptStore=MockReceiptStore
type ReceiptStore interface {
	// RecordPublish stores a receipt for one accepted publish submission
	RecordPublish(ctx context.Context, localID, remoteID, account, batchHash string, payload []byte, submittedAt time.Time) error

	// ListPublishes returns receipts for a remote collection id, newest first
	ListPublishes(ctx context.Context, remoteID string) ([]schema.PublishReceipt, error)
}

type pgReceiptStore struct {
	db *gorm.DB
}

// NewPGReceiptStore creates a PostgreSQL-backed receipt store
func NewPGReceiptStore(db *gorm.DB) ReceiptStore {
	return &pgReceiptStore{db: db}
}

func (s *pgReceiptStore) RecordPublish(ctx context.Context, localID, remoteID, account, batchHash string, payload []byte, submittedAt time.Time) error {
	receipt := schema.PublishReceipt{
		LocalID:     localID,
		RemoteID:    remoteID,
		Account:     account,
		BatchHash:   batchHash,
		Payload:     datatypes.JSON(payload),
		SubmittedAt: submittedAt,
	}
	if err := s.db.WithContext(ctx).Create(&receipt).Error; err != nil {
		return fmt.Errorf("failed to record publish receipt: %w", err)
	}
	return nil
}

func (s *pgReceiptStore) ListPublishes(ctx context.Context, remoteID string) ([]schema.PublishReceipt, error) {
	var receipts []schema.PublishReceipt
	err := s.db.WithContext(ctx).
		Where("remote_id = ?", remoteID).
		Order("submitted_at DESC").
		Find(&receipts).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list publish receipts: %w", err)
	}
	return receipts, nil
}
