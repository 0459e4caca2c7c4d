package notify

import (
	"context"
	"log/slog"

	"git.home.luguber.info/inful/postindex/internal/config"
)

// Publisher delivers snapshot events.
type Publisher interface {
	Publish(ctx context.Context, ev Event) error
	Close() error
}

// Noop drops every event.
type Noop struct{}

func (Noop) Publish(context.Context, Event) error { return nil }
func (Noop) Close() error                         { return nil }

// FromConfig returns a NATS publisher when cfg names a server and Noop otherwise.
func FromConfig(cfg config.NotifyConfig) (Publisher, error) {
	if cfg.NATSURL == "" {
		slog.Debug("Snapshot notifications disabled")
		return Noop{}, nil
	}
	p, err := NewNATSPublisher(cfg.NATSURL, cfg.Subject)
	if err != nil {
		return nil, err
	}
	return p, nil
}
