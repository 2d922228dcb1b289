// Package dataloader batches the profile and item lookups made while
// rendering opportunities. One set of loaders lives per request; loaders call
// repositories directly.
package dataloader

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/graph-gophers/dataloader/v7"

	"github.com/heartmarshall/swapmatch-backend/internal/domain"
)

const (
	maxBatch = 100
	wait     = 2 * time.Millisecond
)

type profileRepo interface {
	GetByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]domain.UserProfile, error)
}

type itemRepo interface {
	GetByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]domain.Item, error)
}

// Repos holds the repositories backing the loaders.
type Repos struct {
	Profile profileRepo
	Item    itemRepo
}

// Loaders is created per request via NewLoaders; results are cached for the
// lifetime of the request.
type Loaders struct {
	ProfileByUserID *dataloader.Loader[uuid.UUID, *domain.UserProfile]
	ItemByID        *dataloader.Loader[uuid.UUID, *domain.Item]
}

func NewLoaders(repos *Repos) *Loaders {
	return &Loaders{
		ProfileByUserID: newLoader(byID(repos.Profile.GetByIDs)),
		ItemByID:        newLoader(byID(repos.Item.GetByIDs)),
	}
}

func newLoader[V any](batchFn dataloader.BatchFunc[uuid.UUID, V]) *dataloader.Loader[uuid.UUID, V] {
	return dataloader.NewBatchedLoader(
		batchFn,
		dataloader.WithWait[uuid.UUID, V](wait),
		dataloader.WithBatchCapacity[uuid.UUID, V](maxBatch),
	)
}

type contextKey string

const loadersKey contextKey = "dataloaders"

func WithLoaders(ctx context.Context, l *Loaders) context.Context {
	return context.WithValue(ctx, loadersKey, l)
}

// FromContext panics when the middleware was not installed.
func FromContext(ctx context.Context) *Loaders {
	l, ok := ctx.Value(loadersKey).(*Loaders)
	if !ok || l == nil {
		panic("dataloader: loaders not found in context, is the middleware configured?")
	}
	return l
}
