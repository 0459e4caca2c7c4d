package notify

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/nats-io/nats.go"

	pierrors "git.home.luguber.info/inful/postindex/internal/errors"
	"git.home.luguber.info/inful/postindex/internal/logfields"
)

const connectTimeout = 5 * time.Second

// NATSPublisher publishes events on a core NATS subject.
type NATSPublisher struct {
	conn    *nats.Conn
	subject string
}

// NewNATSPublisher connects to url. Events go to subject.
func NewNATSPublisher(url, subject string) (*NATSPublisher, error) {
	if subject == "" {
		return nil, pierrors.InvalidArgument("notify.subject", "empty subject")
	}

	conn, err := nats.Connect(url,
		nats.Name("postindex"),
		nats.Timeout(connectTimeout),
		nats.MaxReconnects(-1),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil {
				slog.Warn("NATS disconnected", logfields.Error(err))
			}
		}),
		nats.ReconnectHandler(func(c *nats.Conn) {
			slog.Info("NATS reconnected", logfields.URL(c.ConnectedUrl()))
		}),
	)
	if err != nil {
		return nil, pierrors.WrapRetryable(err, pierrors.CategoryNetwork, pierrors.SeverityError, "failed to connect to NATS").
			WithContext("url", url)
	}

	slog.Info("NATS publisher initialized", logfields.URL(url), slog.String("subject", subject))
	return &NATSPublisher{conn: conn, subject: subject}, nil
}

// Publish sends ev as JSON and waits for the server to acknowledge the flush.
func (p *NATSPublisher) Publish(ctx context.Context, ev Event) error {
	data, err := json.Marshal(ev)
	if err != nil {
		return pierrors.InternalError("marshal snapshot event", err)
	}
	if err := p.conn.Publish(p.subject, data); err != nil {
		return pierrors.WrapRetryable(err, pierrors.CategoryNetwork, pierrors.SeverityWarning, "failed to publish snapshot event").
			WithContext("subject", p.subject)
	}
	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, connectTimeout)
		defer cancel()
	}
	if err := p.conn.FlushWithContext(ctx); err != nil {
		return pierrors.WrapRetryable(err, pierrors.CategoryNetwork, pierrors.SeverityWarning, "failed to flush snapshot event").
			WithContext("subject", p.subject)
	}

	slog.Debug("Published snapshot event", logfields.SnapshotID(ev.SnapshotID), logfields.Count(ev.Posts))
	return nil
}

// Close drains pending messages and closes the connection.
func (p *NATSPublisher) Close() error {
	if p.conn == nil {
		return nil
	}
	return p.conn.Drain()
}
