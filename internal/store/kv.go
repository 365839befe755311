package store

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/megayours/megadata-studio/internal/store/schema"
)

// KVStore is the durable key-value surface the draft store and session
// persistence are built on. Values are JSON-serialized text under fixed key
// prefixes. Get returns ("", false, nil) for a missing key.
//
//go:generate mockgen -source=kv.go -destination=../mocks/kv.go -package=mocks -mock_names=KVStore=MockKVStore
type KVStore interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key string, value string) error
	Delete(ctx context.Context, key string) error
	// Keys returns all keys with the given prefix, sorted.
	Keys(ctx context.Context, prefix string) ([]string, error)
}

type pgKVStore struct {
	db *gorm.DB
}

// NewPGKVStore creates a PostgreSQL-backed key-value store
func NewPGKVStore(db *gorm.DB) KVStore {
	return &pgKVStore{db: db}
}

func (s *pgKVStore) Get(ctx context.Context, key string) (string, bool, error) {
	var kv schema.KeyValueStore
	err := s.db.WithContext(ctx).Where("key = ?", key).First(&kv).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("failed to get key %q: %w", key, err)
	}
	return kv.Value, true, nil
}

func (s *pgKVStore) Set(ctx context.Context, key string, value string) error {
	kv := schema.KeyValueStore{Key: key, Value: value}
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&kv).Error
	if err != nil {
		return fmt.Errorf("failed to set key %q: %w", key, err)
	}
	return nil
}

func (s *pgKVStore) Delete(ctx context.Context, key string) error {
	err := s.db.WithContext(ctx).Where("key = ?", key).Delete(&schema.KeyValueStore{}).Error
	if err != nil {
		return fmt.Errorf("failed to delete key %q: %w", key, err)
	}
	return nil
}

func (s *pgKVStore) Keys(ctx context.Context, prefix string) ([]string, error) {
	var keys []string
	err := s.db.WithContext(ctx).
		Model(&schema.KeyValueStore{}).
		Where("key LIKE ?", prefix+"%").
		Order("key").
		Pluck("key", &keys).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list keys with prefix %q: %w", prefix, err)
	}
	return keys, nil
}

// memoryKVStore is an in-process KVStore used by tests and ephemeral runs
type memoryKVStore struct {
	mu   sync.RWMutex
	data map[string]string
}

// NewMemoryKVStore creates an in-memory key-value store
func NewMemoryKVStore() KVStore {
	return &memoryKVStore{data: make(map[string]string)}
}

func (s *memoryKVStore) Get(_ context.Context, key string) (string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.data[key]
	return v, ok, nil
}

func (s *memoryKVStore) Set(_ context.Context, key string, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[key] = value
	return nil
}

func (s *memoryKVStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, key)
	return nil
}

func (s *memoryKVStore) Keys(_ context.Context, prefix string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var keys []string
	for k := range s.data {
		if strings.HasPrefix(k, prefix) {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	return keys, nil
}
