package draftstore

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/megayours/megadata-studio/internal/adapter"
	"github.com/megayours/megadata-studio/internal/domain"
	"github.com/megayours/megadata-studio/internal/logger"
	"github.com/megayours/megadata-studio/internal/store"
)

const (
	// collectionsKey holds the JSON array of all draft collection records
	collectionsKey = "megadata_collections"
	// itemsKeyPrefix prefixes the per-collection item buckets
	itemsKeyPrefix = "megadata_items_"
)

func itemsKey(collectionID string) string {
	return itemsKeyPrefix + collectionID
}

// Store is the durable scratch space for collections and items not yet
// committed on-chain. Published collections are immutable: every mutating
// operation checks the published flag first and fails closed with a false
// return rather than an error.
//
//go:generate mockgen -source=draftstore.go -destination=../mocks/draftstore.go -package=mocks -mock_names=Store=MockDraftStore
type Store interface {
	// CreateCollection creates a draft collection under a locally generated id
	// and eagerly materializes numTokens items starting at startingIndex.
	CreateCollection(ctx context.Context, name string, numTokens, startingIndex int, moduleSettings map[string]any) (*domain.Collection, error)

	// GetCollection returns a collection by id, or nil when absent
	GetCollection(ctx context.Context, id string) (*domain.Collection, error)

	// ListCollections returns all stored collection records
	ListCollections(ctx context.Context) ([]domain.Collection, error)

	// GetItems returns the items of a collection ordered by creation
	GetItems(ctx context.Context, collectionID string) ([]domain.Item, error)

	// GetItem returns one item by token id, or nil when absent
	GetItem(ctx context.Context, collectionID, tokenID string) (*domain.Item, error)

	// SaveItem upserts an item by token id, stamping lastModified.
	// Returns false when the owning collection is absent or published.
	SaveItem(ctx context.Context, item domain.Item) (bool, error)

	// DeleteItem removes an item by token id.
	// Returns false when the owning collection is absent or published.
	DeleteItem(ctx context.Context, collectionID, tokenID string) (bool, error)

	// DeleteCollection removes an unpublished collection and its item bucket.
	// Returns false when the collection is absent or published.
	DeleteCollection(ctx context.Context, collectionID string) (bool, error)

	// PublishCollection marks a collection published and, when remoteID is
	// non-empty, migrates its items under the remote id and renames the
	// collection record. Returns false when the collection is absent or
	// already published.
	PublishCollection(ctx context.Context, localID, remoteID string) (bool, error)

	// Export serializes the whole store into one backup document
	Export(ctx context.Context) (*domain.StoreExport, error)

	// Import replaces the whole store with the given document. It never merges.
	Import(ctx context.Context, doc *domain.StoreExport) error
}

type draftStore struct {
	kv    store.KVStore
	clock adapter.Clock
	json  adapter.JSON
}

// New creates a draft store on top of a key-value store
func New(kv store.KVStore, clock adapter.Clock, json adapter.JSON) Store {
	return &draftStore{kv: kv, clock: clock, json: json}
}

// newLocalID generates a draft collection id of the form
// local_<millis>_<random>. The id is superseded by the remote id at publish.
func (s *draftStore) newLocalID() string {
	random := strings.Split(uuid.NewString(), "-")[0]
	return fmt.Sprintf("local_%d_%s", s.clock.NowMillis(), random)
}

func (s *draftStore) loadCollections(ctx context.Context) ([]domain.Collection, error) {
	raw, ok, err := s.kv.Get(ctx, collectionsKey)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}
	var collections []domain.Collection
	if err := s.json.Unmarshal([]byte(raw), &collections); err != nil {
		return nil, fmt.Errorf("corrupt collections record: %w", err)
	}
	return collections, nil
}

func (s *draftStore) saveCollections(ctx context.Context, collections []domain.Collection) error {
	data, err := s.json.Marshal(collections)
	if err != nil {
		return fmt.Errorf("failed to encode collections: %w", err)
	}
	return s.kv.Set(ctx, collectionsKey, string(data))
}

func (s *draftStore) loadItems(ctx context.Context, collectionID string) ([]domain.Item, error) {
	raw, ok, err := s.kv.Get(ctx, itemsKey(collectionID))
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}
	var items []domain.Item
	if err := s.json.Unmarshal([]byte(raw), &items); err != nil {
		return nil, fmt.Errorf("corrupt item bucket for %s: %w", collectionID, err)
	}
	return items, nil
}

func (s *draftStore) saveItems(ctx context.Context, collectionID string, items []domain.Item) error {
	data, err := s.json.Marshal(items)
	if err != nil {
		return fmt.Errorf("failed to encode items: %w", err)
	}
	return s.kv.Set(ctx, itemsKey(collectionID), string(data))
}

// seedProperties builds the initial metadata document for a freshly created
// token: the module defaults merged into a minimal erc721 skeleton carrying
// the "<collection> #<tokenId>" name.
func seedProperties(collectionName, tokenID string, moduleSettings map[string]any) map[string]any {
	props := map[string]any{}
	for module, defaults := range moduleSettings {
		fields, ok := defaults.(map[string]any)
		if !ok {
			continue
		}
		moduleProps := map[string]any{}
		for k, v := range fields {
			moduleProps[k] = v
		}
		props[module] = moduleProps
	}

	erc721, ok := props["erc721"].(map[string]any)
	if !ok {
		erc721 = map[string]any{}
		props["erc721"] = erc721
	}
	erc721["name"] = fmt.Sprintf("%s #%s", collectionName, tokenID)

	return props
}

func (s *draftStore) CreateCollection(ctx context.Context, name string, numTokens, startingIndex int, moduleSettings map[string]any) (*domain.Collection, error) {
	collections, err := s.loadCollections(ctx)
	if err != nil {
		return nil, err
	}

	col := domain.Collection{
		ID:             s.newLocalID(),
		Name:           name,
		Published:      false,
		NumTokens:      numTokens,
		StartingIndex:  startingIndex,
		ModuleSettings: moduleSettings,
	}

	now := s.clock.NowMillis()
	items := make([]domain.Item, 0, numTokens)
	for i := 0; i < numTokens; i++ {
		tokenID := strconv.Itoa(startingIndex + i)
		items = append(items, domain.Item{
			Collection:   col.ID,
			TokenID:      tokenID,
			Properties:   seedProperties(name, tokenID, moduleSettings),
			LastModified: now,
		})
	}

	if err := s.saveItems(ctx, col.ID, items); err != nil {
		return nil, err
	}
	if err := s.saveCollections(ctx, append(collections, col)); err != nil {
		return nil, err
	}

	logger.Info("created draft collection",
		zap.String("collection", col.ID),
		zap.String("name", name),
		zap.Int("num_tokens", numTokens))

	return &col, nil
}

func (s *draftStore) GetCollection(ctx context.Context, id string) (*domain.Collection, error) {
	collections, err := s.loadCollections(ctx)
	if err != nil {
		return nil, err
	}
	for i := range collections {
		if collections[i].ID == id {
			return &collections[i], nil
		}
	}
	return nil, nil
}

func (s *draftStore) ListCollections(ctx context.Context) ([]domain.Collection, error) {
	return s.loadCollections(ctx)
}

func (s *draftStore) GetItems(ctx context.Context, collectionID string) ([]domain.Item, error) {
	return s.loadItems(ctx, collectionID)
}

func (s *draftStore) GetItem(ctx context.Context, collectionID, tokenID string) (*domain.Item, error) {
	items, err := s.loadItems(ctx, collectionID)
	if err != nil {
		return nil, err
	}
	for i := range items {
		if items[i].TokenID == tokenID {
			return &items[i], nil
		}
	}
	return nil, nil
}

// mutableCollection resolves a collection and applies the published guard.
// A nil collection with a nil error means the mutation must fail closed.
func (s *draftStore) mutableCollection(ctx context.Context, id string) (*domain.Collection, error) {
	col, err := s.GetCollection(ctx, id)
	if err != nil {
		return nil, err
	}
	if col == nil || col.Published {
		return nil, nil
	}
	return col, nil
}

func (s *draftStore) SaveItem(ctx context.Context, item domain.Item) (bool, error) {
	col, err := s.mutableCollection(ctx, item.Collection)
	if err != nil || col == nil {
		return false, err
	}

	items, err := s.loadItems(ctx, item.Collection)
	if err != nil {
		return false, err
	}

	item.LastModified = s.clock.NowMillis()
	replaced := false
	for i := range items {
		if items[i].TokenID == item.TokenID {
			items[i] = item
			replaced = true
			break
		}
	}
	if !replaced {
		items = append(items, item)
	}

	if err := s.saveItems(ctx, item.Collection, items); err != nil {
		return false, err
	}
	return true, nil
}

func (s *draftStore) DeleteItem(ctx context.Context, collectionID, tokenID string) (bool, error) {
	col, err := s.mutableCollection(ctx, collectionID)
	if err != nil || col == nil {
		return false, err
	}

	items, err := s.loadItems(ctx, collectionID)
	if err != nil {
		return false, err
	}

	kept := items[:0]
	removed := false
	for _, it := range items {
		if it.TokenID == tokenID {
			removed = true
			continue
		}
		kept = append(kept, it)
	}
	if !removed {
		return false, nil
	}

	if err := s.saveItems(ctx, collectionID, kept); err != nil {
		return false, err
	}
	return true, nil
}

func (s *draftStore) DeleteCollection(ctx context.Context, collectionID string) (bool, error) {
	col, err := s.mutableCollection(ctx, collectionID)
	if err != nil || col == nil {
		return false, err
	}

	collections, err := s.loadCollections(ctx)
	if err != nil {
		return false, err
	}
	kept := collections[:0]
	for _, c := range collections {
		if c.ID != collectionID {
			kept = append(kept, c)
		}
	}

	if err := s.saveCollections(ctx, kept); err != nil {
		return false, err
	}
	if err := s.kv.Delete(ctx, itemsKey(collectionID)); err != nil {
		return false, err
	}
	return true, nil
}

func (s *draftStore) PublishCollection(ctx context.Context, localID, remoteID string) (bool, error) {
	collections, err := s.loadCollections(ctx)
	if err != nil {
		return false, err
	}

	idx := -1
	for i := range collections {
		if collections[i].ID == localID {
			idx = i
			break
		}
	}
	if idx == -1 || collections[idx].Published {
		return false, nil
	}

	collections[idx].Published = true

	// The remote system assigns the authoritative id only at publish time;
	// migrate the item bucket so local lookups keep working under one id.
	if remoteID != "" && remoteID != localID {
		items, err := s.loadItems(ctx, localID)
		if err != nil {
			return false, err
		}
		for i := range items {
			items[i].Collection = remoteID
		}
		if err := s.saveItems(ctx, remoteID, items); err != nil {
			return false, err
		}
		if err := s.kv.Delete(ctx, itemsKey(localID)); err != nil {
			return false, err
		}
		collections[idx].ID = remoteID
	}

	if err := s.saveCollections(ctx, collections); err != nil {
		return false, err
	}

	logger.Info("published draft collection",
		zap.String("local_id", localID),
		zap.String("remote_id", remoteID))

	return true, nil
}

func (s *draftStore) Export(ctx context.Context) (*domain.StoreExport, error) {
	collections, err := s.loadCollections(ctx)
	if err != nil {
		return nil, err
	}

	doc := &domain.StoreExport{
		Collections: collections,
		Items:       make(map[string][]domain.Item, len(collections)),
	}
	for _, col := range collections {
		items, err := s.loadItems(ctx, col.ID)
		if err != nil {
			return nil, err
		}
		doc.Items[col.ID] = items
	}
	return doc, nil
}

func (s *draftStore) Import(ctx context.Context, doc *domain.StoreExport) error {
	// Drop every existing bucket first: import replaces, never merges.
	keys, err := s.kv.Keys(ctx, itemsKeyPrefix)
	if err != nil {
		return err
	}
	for _, key := range keys {
		if err := s.kv.Delete(ctx, key); err != nil {
			return err
		}
	}

	if err := s.saveCollections(ctx, doc.Collections); err != nil {
		return err
	}
	for collectionID, items := range doc.Items {
		if err := s.saveItems(ctx, collectionID, items); err != nil {
			return err
		}
	}
	return nil
}
