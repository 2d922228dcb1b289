package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/heartmarshall/swapmatch-backend/internal/domain"
)

// Publisher emits engine events with pg_notify. Inside a transaction the
// notification is delivered only if the transaction commits.
type Publisher struct {
	db      Querier
	channel string
}

// NewPublisher creates a Publisher for the given NOTIFY channel.
func NewPublisher(db Querier, channel string) *Publisher {
	return &Publisher{db: db, channel: channel}
}

// Publish sends ev on the channel.
func (p *Publisher) Publish(ctx context.Context, ev domain.Event) error {
	payload, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal %s event: %w", ev.Type, err)
	}

	_, err = QuerierFromCtx(ctx, p.db).Exec(ctx, `SELECT pg_notify($1, $2)`, p.channel, string(payload))
	if err != nil {
		return MapError(err, "event", ev.Type)
	}
	return nil
}
