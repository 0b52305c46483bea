// Package notify publishes correction notification events. Delivery to end
// users happens downstream; this package only hands events off.
package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/heartmarshall/langcorrect-backend/internal/config"
	"github.com/heartmarshall/langcorrect-backend/internal/domain"
)

// Message is the wire form of a domain.Notification.
type Message struct {
	Type       string      `json:"type"`
	Sender     uuid.UUID   `json:"sender"`
	Recipients []uuid.UUID `json:"recipients"`
	EntryID    uuid.UUID   `json:"entry_id"`
	OccurredAt time.Time   `json:"occurred_at"`
}

// Encode converts n to its JSON wire form.
func Encode(n domain.Notification) ([]byte, error) {
	recipients := n.Recipients
	if recipients == nil {
		recipients = []uuid.UUID{}
	}
	data, err := json.Marshal(Message{
		Type:       n.Type.String(),
		Sender:     n.SenderID,
		Recipients: recipients,
		EntryID:    n.EntryID,
		OccurredAt: n.OccurredAt.UTC(),
	})
	if err != nil {
		return nil, fmt.Errorf("encode notification: %w", err)
	}
	return data, nil
}

// Publisher hands notification events to a downstream consumer.
type Publisher interface {
	Notify(ctx context.Context, n domain.Notification) error
	Ping(ctx context.Context) error
	Close() error
}

// New builds the publisher selected by cfg.Driver.
func New(ctx context.Context, cfg config.NotifyConfig, logger *slog.Logger) (Publisher, error) {
	switch cfg.Driver {
	case config.NotifyDriverRedis:
		return NewRedis(ctx, cfg.RedisURL, cfg.Channel, logger)
	case config.NotifyDriverLog, "":
		return NewLog(logger), nil
	default:
		return nil, fmt.Errorf("notify: unknown driver %q", cfg.Driver)
	}
}

// ---------------------------------------------------------------------------
// Log publisher
// ---------------------------------------------------------------------------

// LogPublisher writes events to the application log. It is the default when
// no broker is configured.
type LogPublisher struct {
	log *slog.Logger
}

// NewLog creates a LogPublisher.
func NewLog(logger *slog.Logger) *LogPublisher {
	return &LogPublisher{log: logger.With("component", "notify")}
}

// Notify logs the event.
func (p *LogPublisher) Notify(ctx context.Context, n domain.Notification) error {
	p.log.InfoContext(ctx, "notification",
		slog.String("type", n.Type.String()),
		slog.String("sender", n.SenderID.String()),
		slog.String("entry_id", n.EntryID.String()),
		slog.Int("recipients", len(n.Recipients)),
	)
	return nil
}

// Close is a no-op.
func (p *LogPublisher) Ping(context.Context) error { return nil }

func (p *LogPublisher) Close() error { return nil }
