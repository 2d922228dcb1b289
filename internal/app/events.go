package app

import (
	"context"
	"log/slog"

	"github.com/heartmarshall/swapmatch-backend/internal/domain"
)

// LogPublisher records events in the log instead of sending them. It is used
// when event publication is disabled.
type LogPublisher struct {
	log *slog.Logger
}

func NewLogPublisher(log *slog.Logger) *LogPublisher {
	return &LogPublisher{log: log.With("component", "events")}
}

func (p *LogPublisher) Publish(ctx context.Context, ev domain.Event) error {
	attrs := []slog.Attr{
		slog.String("type", ev.Type.String()),
		slog.Int("users", len(ev.UserIDs)),
	}
	if ev.MatchID != nil {
		attrs = append(attrs, slog.String("match_id", ev.MatchID.String()))
	}
	if ev.OpportunityID != nil {
		attrs = append(attrs, slog.String("opportunity_id", ev.OpportunityID.String()))
	}
	if ev.Reason != "" {
		attrs = append(attrs, slog.String("reason", string(ev.Reason)))
	}
	p.log.LogAttrs(ctx, slog.LevelDebug, "event", attrs...)
	return nil
}
