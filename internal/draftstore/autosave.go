package draftstore

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/megayours/megadata-studio/internal/domain"
	"github.com/megayours/megadata-studio/internal/logger"
)

// DefaultAutosaveDelay is the debounce window for item edits
const DefaultAutosaveDelay = 800 * time.Millisecond

// Autosaver coalesces rapid edits to the same item into one persisted write.
// Queueing an edit cancels and reschedules any pending write for that item,
// so N edits inside the debounce window produce exactly one write carrying
// the final content.
type Autosaver struct {
	store Store
	delay time.Duration

	mu      sync.Mutex
	pending map[string]*pendingSave
	closed  bool
}

type pendingSave struct {
	timer *time.Timer
	item  domain.Item
}

// NewAutosaver creates an autosaver with the given debounce delay
func NewAutosaver(store Store, delay time.Duration) *Autosaver {
	if delay <= 0 {
		delay = DefaultAutosaveDelay
	}
	return &Autosaver{
		store:   store,
		delay:   delay,
		pending: make(map[string]*pendingSave),
	}
}

func saveKey(item domain.Item) string {
	return item.Collection + "/" + item.TokenID
}

// Queue schedules an item write after the debounce delay, replacing any
// pending write for the same item.
func (a *Autosaver) Queue(item domain.Item) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.closed {
		return
	}

	key := saveKey(item)
	if p, ok := a.pending[key]; ok {
		p.timer.Stop()
		p.item = item
		p.timer.Reset(a.delay)
		return
	}

	p := &pendingSave{item: item}
	p.timer = time.AfterFunc(a.delay, func() {
		a.fire(key)
	})
	a.pending[key] = p
}

func (a *Autosaver) fire(key string) {
	a.mu.Lock()
	p, ok := a.pending[key]
	if ok {
		delete(a.pending, key)
	}
	a.mu.Unlock()

	if !ok {
		return
	}
	a.save(p.item)
}

func (a *Autosaver) save(item domain.Item) {
	saved, err := a.store.SaveItem(context.Background(), item)
	if err != nil {
		logger.Error(err,
			zap.String("collection", item.Collection),
			zap.String("token_id", item.TokenID))
		return
	}
	if !saved {
		logger.Warn("autosave skipped: collection missing or published",
			zap.String("collection", item.Collection),
			zap.String("token_id", item.TokenID))
	}
}

// Flush writes every pending edit immediately
func (a *Autosaver) Flush() {
	a.mu.Lock()
	drained := make([]domain.Item, 0, len(a.pending))
	for key, p := range a.pending {
		p.timer.Stop()
		drained = append(drained, p.item)
		delete(a.pending, key)
	}
	a.mu.Unlock()

	for _, item := range drained {
		a.save(item)
	}
}

// Close flushes pending edits and rejects further queueing
func (a *Autosaver) Close() {
	a.mu.Lock()
	a.closed = true
	a.mu.Unlock()
	a.Flush()
}
