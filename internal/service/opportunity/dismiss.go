package opportunity

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/heartmarshall/swapmatch-backend/internal/domain"
	"github.com/heartmarshall/swapmatch-backend/pkg/ctxutil"
)

// Dismiss hides an opportunity from the caller. With the participant scope
// the opportunity only becomes dismissed once every participant dismissed
// it; with the all scope the first dismissal closes it for everyone.
//
// Returns domain.ErrNotFound when the opportunity does not exist or the caller
// is not a participant, and domain.ErrAlreadyTerminal when it is no longer
// active or the caller already dismissed it.
func (s *Service) Dismiss(ctx context.Context, input DismissInput) (*domain.SwapOpportunity, error) {
	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}

	if err := input.Validate(); err != nil {
		return nil, err
	}

	now := time.Now().UTC()

	var out *domain.SwapOpportunity
	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		o, err := s.repo.GetForUpdate(ctx, input.OpportunityID)
		if err != nil {
			return fmt.Errorf("get opportunity: %w", err)
		}
		if !o.HasUser(userID) {
			return fmt.Errorf("opportunity %s: %w", o.ID, domain.ErrNotFound)
		}
		if o.Status.IsTerminal() || o.IsExpiredAt(now) {
			return fmt.Errorf("opportunity %s is %s: %w", o.ID, o.Status, domain.ErrAlreadyTerminal)
		}

		recorded, err := s.repo.RecordDismissal(ctx, o, userID, now)
		if err != nil {
			return fmt.Errorf("record dismissal: %w", err)
		}
		if !recorded {
			return fmt.Errorf("opportunity %s already dismissed by user: %w", o.ID, domain.ErrAlreadyTerminal)
		}

		closeAll := s.cfg.Lifecycle.DismissScope == domain.DismissScopeAll
		if !closeAll {
			n, err := s.repo.CountDismissals(ctx, o.ID)
			if err != nil {
				return fmt.Errorf("count dismissals: %w", err)
			}
			closeAll = n >= len(o.Participants)
		}
		out = o
		if !closeAll {
			return nil
		}

		if err := s.repo.Close(ctx, o.ID, domain.OpportunityStatusDismissed, domain.ClosedReasonDismissed, now); err != nil {
			return fmt.Errorf("close opportunity: %w", err)
		}
		reason := domain.ClosedReasonDismissed
		o.Status = domain.OpportunityStatusDismissed
		o.ClosedReason = &reason
		o.ClosedAt = &now

		if err := s.events.Publish(ctx, domain.NewOpportunityEvent(domain.EventOpportunityDismissed, o, now)); err != nil {
			return fmt.Errorf("publish dismissal: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.InfoContext(ctx, "opportunity dismissed",
		slog.String("user_id", userID.String()),
		slog.String("opportunity_id", out.ID.String()),
		slog.String("status", out.Status.String()),
	)

	return out, nil
}
