package app

import (
	"context"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/heartmarshall/swapmatch-backend/internal/adapter/postgres"
	"github.com/heartmarshall/swapmatch-backend/internal/adapter/postgres/item"
	"github.com/heartmarshall/swapmatch-backend/internal/adapter/postgres/match"
	"github.com/heartmarshall/swapmatch-backend/internal/adapter/postgres/opportunity"
	"github.com/heartmarshall/swapmatch-backend/internal/adapter/postgres/snapshot"
	"github.com/heartmarshall/swapmatch-backend/internal/adapter/postgres/swipe"
	"github.com/heartmarshall/swapmatch-backend/internal/adapter/postgres/user"
	"github.com/heartmarshall/swapmatch-backend/internal/config"
	"github.com/heartmarshall/swapmatch-backend/internal/domain"
	opportunitysvc "github.com/heartmarshall/swapmatch-backend/internal/service/opportunity"
	swipesvc "github.com/heartmarshall/swapmatch-backend/internal/service/swipe"
	usersvc "github.com/heartmarshall/swapmatch-backend/internal/service/user"
)

type eventPublisher interface {
	Publish(ctx context.Context, ev domain.Event) error
}

// Services is the wired service layer shared by the server and swapctl.
type Services struct {
	Swipe       *swipesvc.Service
	Profile     *usersvc.Service
	Opportunity *opportunitysvc.Service
	Users       *user.Repo
	Items       *item.Repo
}

// NewServices builds repositories and services over pool.
func NewServices(cfg *config.Config, pool *pgxpool.Pool, logger *slog.Logger) *Services {
	var events eventPublisher = NewLogPublisher(logger)
	if cfg.Events.Enabled {
		events = postgres.NewPublisher(pool, cfg.Events.Channel)
	}

	tx := postgres.NewTxManager(pool)
	items := item.New(pool)
	users := user.New(pool)

	return &Services{
		Swipe: swipesvc.NewService(
			logger,
			items,
			swipe.New(pool),
			match.New(pool),
			postgres.NewPairLocker(pool),
			events,
			tx,
		),
		Opportunity: opportunitysvc.NewService(
			logger,
			opportunitysvc.Config{
				Matching:  cfg.Matching.Domain(),
				Lifecycle: cfg.Opportunity.Domain(),
			},
			opportunity.New(pool),
			snapshot.New(pool),
			postgres.NewRunLocker(pool, cfg.Scheduler.LockKey, logger),
			events,
			tx,
		),
		Profile: usersvc.NewService(logger, users),
		Users:   users,
		Items:   items,
	}
}
