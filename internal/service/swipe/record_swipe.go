package swipe

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/heartmarshall/swapmatch-backend/internal/domain"
	"github.com/heartmarshall/swapmatch-backend/pkg/ctxutil"
)

// RecordSwipe stores a swipe from one of the caller's items and creates a
// match when the other side has already liked back.
//
// Work on one unordered item pair is serialized by a transaction-scoped lock,
// so reciprocal swipes arriving together still produce a single match. Sending
// the same swipe again is a no-op that reports the existing match, if any;
// changing a recorded decision is rejected as a duplicate.
func (s *Service) RecordSwipe(ctx context.Context, input RecordSwipeInput) (*Result, error) {
	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}

	if err := input.Validate(); err != nil {
		return nil, err
	}

	pair := domain.NewItemPair(input.SwipingItemID, input.SwipedItemID)
	now := time.Now().UTC()

	var res Result
	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		res = Result{}

		if err := s.locker.LockPair(ctx, pair); err != nil {
			return fmt.Errorf("lock pair: %w", err)
		}

		items, err := s.items.GetForShare(ctx, []uuid.UUID{input.SwipingItemID, input.SwipedItemID})
		if err != nil {
			return fmt.Errorf("load items: %w", err)
		}
		swiping, swiped, err := checkItems(userID, input, items)
		if err != nil {
			return err
		}

		created, err := s.swipes.Insert(ctx, domain.Swipe{
			ID:            uuid.New(),
			SwipingItemID: input.SwipingItemID,
			SwipedItemID:  input.SwipedItemID,
			Liked:         input.Liked,
			CreatedAt:     now,
		})
		if err != nil {
			return fmt.Errorf("insert swipe: %w", err)
		}
		if !created {
			return s.replay(ctx, input, pair, &res)
		}
		if !input.Liked {
			return nil
		}

		reciprocal, err := s.swipes.HasLike(ctx, input.SwipedItemID, input.SwipingItemID)
		if err != nil {
			return fmt.Errorf("check reciprocal like: %w", err)
		}
		if !reciprocal {
			return nil
		}

		m, created, err := s.matches.CreateIfAbsent(ctx, domain.Match{
			ID:        uuid.New(),
			ItemAID:   pair.Low,
			ItemBID:   pair.High,
			CreatedAt: now,
		})
		if err != nil {
			return fmt.Errorf("create match: %w", err)
		}
		res.Match = m
		res.MatchCreated = created
		if !created {
			return nil
		}

		ev := domain.NewMatchEvent(m, []uuid.UUID{swiping.OwnerID, swiped.OwnerID}, now)
		if err := s.events.Publish(ctx, ev); err != nil {
			return fmt.Errorf("publish match event: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if res.MatchCreated {
		s.log.InfoContext(ctx, "match created",
			slog.String("user_id", userID.String()),
			slog.String("match_id", res.Match.ID.String()),
			slog.String("pair", pair.Key()),
		)
	}

	return &res, nil
}

// replay handles a swipe on a pair the item has already swiped on.
func (s *Service) replay(ctx context.Context, input RecordSwipeInput, pair domain.ItemPair, res *Result) error {
	prev, err := s.swipes.Get(ctx, input.SwipingItemID, input.SwipedItemID)
	if err != nil {
		return fmt.Errorf("get previous swipe: %w", err)
	}
	if prev.Liked != input.Liked {
		return domain.NewSwipeRejection(domain.SwipeRejectDuplicate, "item already swiped on this target")
	}
	if !input.Liked {
		return nil
	}

	m, err := s.matches.GetByPair(ctx, pair)
	if errors.Is(err, domain.ErrNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("get match: %w", err)
	}
	res.Match = m
	return nil
}

func checkItems(userID uuid.UUID, input RecordSwipeInput, items map[uuid.UUID]domain.Item) (swiping, swiped domain.Item, err error) {
	swiping, ok := items[input.SwipingItemID]
	if !ok {
		return swiping, swiped, domain.NewSwipeRejection(domain.SwipeRejectUnknownItem, "swiping item does not exist")
	}
	if swiping.OwnerID != userID {
		return swiping, swiped, domain.NewSwipeRejection(domain.SwipeRejectNotOwner, "swiping item belongs to another user")
	}
	if !swiping.Active {
		return swiping, swiped, domain.NewSwipeRejection(domain.SwipeRejectInactiveItem, "swiping item is not active")
	}

	swiped, ok = items[input.SwipedItemID]
	if !ok || !swiped.Active {
		return swiping, swiped, domain.NewSwipeRejection(domain.SwipeRejectInvalidTarget, "target item does not exist or is not active")
	}
	if swiped.OwnerID == swiping.OwnerID {
		return swiping, swiped, domain.NewSwipeRejection(domain.SwipeRejectSelf, "both items belong to the same user")
	}
	return swiping, swiped, nil
}
