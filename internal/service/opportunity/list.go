package opportunity

import (
	"context"
	"fmt"
	"time"

	"github.com/heartmarshall/swapmatch-backend/internal/domain"
	"github.com/heartmarshall/swapmatch-backend/pkg/ctxutil"
)

// List returns the caller's active opportunities, highest confidence first.
// Expired, dismissed and degenerate opportunities are never returned, even
// before maintenance has closed them.
func (s *Service) List(ctx context.Context, input ListInput) ([]domain.SwapOpportunity, error) {
	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}

	if err := input.Validate(); err != nil {
		return nil, err
	}

	limit := s.cfg.Lifecycle.ListLimit
	if input.Limit > 0 && input.Limit < limit {
		limit = input.Limit
	}

	list, err := s.repo.ListActiveForUser(ctx, userID, time.Now().UTC(), limit)
	if err != nil {
		return nil, fmt.Errorf("list opportunities: %w", err)
	}
	return list, nil
}
