package opportunity

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/heartmarshall/swapmatch-backend/internal/domain"
)

// MaintenanceReport counts opportunities closed by one maintenance pass.
type MaintenanceReport struct {
	Expired    int `json:"expired" yaml:"expired"`
	Converted  int `json:"converted" yaml:"converted"`
	Degenerate int `json:"degenerate" yaml:"degenerate"`
}

// Maintain closes active opportunities that can no longer be offered as of
// now: TTL elapsed, two participants matched directly, or a participant item
// withdrawn or matched elsewhere. Each step commits on its own together with
// its events, so a failure leaves earlier steps applied.
func (s *Service) Maintain(ctx context.Context, now time.Time) (*MaintenanceReport, error) {
	var report MaintenanceReport
	steps := []struct {
		name  string
		event domain.EventType
		run   func(ctx context.Context, now time.Time) ([]domain.SwapOpportunity, error)
		count *int
	}{
		{"expire due", domain.EventOpportunityExpired, s.repo.ExpireDue, &report.Expired},
		{"convert matched", domain.EventOpportunityConverted, s.repo.ConvertMatched, &report.Converted},
		{"expire degenerate", domain.EventOpportunityExpired, s.repo.ExpireDegenerate, &report.Degenerate},
	}

	for _, step := range steps {
		err := s.retry(ctx, func() error {
			return s.tx.RunInTx(ctx, func(ctx context.Context) error {
				closed, err := step.run(ctx, now)
				if err != nil {
					return err
				}
				for i := range closed {
					if err := s.events.Publish(ctx, domain.NewOpportunityEvent(step.event, &closed[i], now)); err != nil {
						return fmt.Errorf("publish %s: %w", step.event, err)
					}
				}
				*step.count = len(closed)
				return nil
			})
		})
		if err != nil {
			return &report, fmt.Errorf("%s: %w", step.name, err)
		}
	}

	if report != (MaintenanceReport{}) {
		s.log.InfoContext(ctx, "maintenance closed opportunities",
			slog.Int("expired", report.Expired),
			slog.Int("converted", report.Converted),
			slog.Int("degenerate", report.Degenerate),
		)
	}

	return &report, nil
}
