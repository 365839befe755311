package events

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/oklog/ulid/v2"
	"go.uber.org/zap"

	"github.com/megayours/megadata-studio/internal/adapter"
	"github.com/megayours/megadata-studio/internal/logger"
)

// Event subjects
const (
	SubjectCollectionPublished = "megadata.collection.published"
	SubjectAccountLinked       = "megadata.account.linked"
	SubjectAccountUnlinked     = "megadata.account.unlinked"
)

// CollectionPublished is emitted after a draft becomes authoritative
type CollectionPublished struct {
	EventID   string    `json:"event_id"`
	LocalID   string    `json:"local_id"`
	RemoteID  string    `json:"remote_id"`
	Account   string    `json:"account"`
	NumItems  int       `json:"num_items"`
	Timestamp time.Time `json:"timestamp"`
}

// AccountLinkChanged is emitted when a link is created or removed
type AccountLinkChanged struct {
	EventID   string    `json:"event_id"`
	Account   string    `json:"account"`
	Primary   string    `json:"primary"`
	Timestamp time.Time `json:"timestamp"`
}

// Publisher emits studio domain events. Optional: a nil Publisher (no NATS
// URL configured) silently drops events.
//
//go:generate mockgen -source=publisher.go -destination=../mocks/events_publisher.go -package=mocks -mock_names=Publisher=MockEventPublisher
type Publisher interface {
	// Publish emits one event on a subject
	Publish(ctx context.Context, subject string, event any) error

	// Close closes the connection
	Close()
}

// Config holds the NATS JetStream connection configuration
type Config struct {
	URL            string
	MaxReconnects  int
	ReconnectWait  time.Duration
	ConnectionName string
}

type publisher struct {
	nc   adapter.NatsConn
	js   adapter.JetStream
	json adapter.JSON
}

// NewPublisher connects to NATS JetStream and returns an event publisher
func NewPublisher(cfg Config, natsJS adapter.NatsJetStream, jsonAdapter adapter.JSON) (Publisher, error) {
	opts := []nats.Option{
		nats.Name(cfg.ConnectionName),
		nats.MaxReconnects(cfg.MaxReconnects),
		nats.ReconnectWait(cfg.ReconnectWait),
		nats.DisconnectErrHandler(func(nc *nats.Conn, err error) {
			if err != nil {
				logger.Error(err, zap.String("message", "disconnected from NATS"))
			}
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			logger.Info("reconnected to NATS", zap.String("url", nc.ConnectedUrl()))
		}),
	}

	nc, js, err := natsJS.Connect(cfg.URL, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}

	return &publisher{nc: nc, js: js, json: jsonAdapter}, nil
}

// NewEventID generates a lexicographically sortable event id
func NewEventID(t time.Time) string {
	entropy := ulid.Monotonic(rand.New(rand.NewSource(t.UnixNano())), 0)
	return ulid.MustNew(ulid.Timestamp(t), entropy).String()
}

func (p *publisher) Publish(ctx context.Context, subject string, event any) error {
	data, err := p.json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	if _, err := p.js.Publish(ctx, subject, data); err != nil {
		return fmt.Errorf("failed to publish event to %s: %w", subject, err)
	}

	logger.Debug("published event", zap.String("subject", subject))
	return nil
}

func (p *publisher) Close() {
	if p.nc != nil {
		p.nc.Close()
	}
}
