package swipe

import (
	"context"
	"github.com/google/uuid"
	"github.com/heartmarshall/swapmatch-backend/internal/domain"
	"sync"
)

var _ swipeRepo = &swipeRepoMock{}

type swipeRepoMock struct {
	GetFunc     func(ctx context.Context, from uuid.UUID, to uuid.UUID) (*domain.Swipe, error)
	HasLikeFunc func(ctx context.Context, from uuid.UUID, to uuid.UUID) (bool, error)
	InsertFunc  func(ctx context.Context, s domain.Swipe) (bool, error)

	calls struct {
		Get []struct {
			Ctx  context.Context
			From uuid.UUID
			To   uuid.UUID
		}
		HasLike []struct {
			Ctx  context.Context
			From uuid.UUID
			To   uuid.UUID
		}
		Insert []struct {
			Ctx context.Context
			S   domain.Swipe
		}
	}
	lockGet     sync.RWMutex
	lockHasLike sync.RWMutex
	lockInsert  sync.RWMutex
}

func (mock *swipeRepoMock) Get(ctx context.Context, from uuid.UUID, to uuid.UUID) (*domain.Swipe, error) {
	if mock.GetFunc == nil {
		panic("swipeRepoMock.GetFunc: method is nil but swipeRepo.Get was just called")
	}
	callInfo := struct {
		Ctx  context.Context
		From uuid.UUID
		To   uuid.UUID
	}{Ctx: ctx, From: from, To: to}
	mock.lockGet.Lock()
	mock.calls.Get = append(mock.calls.Get, callInfo)
	mock.lockGet.Unlock()
	return mock.GetFunc(ctx, from, to)
}

func (mock *swipeRepoMock) GetCalls() []struct {
	Ctx  context.Context
	From uuid.UUID
	To   uuid.UUID
} {
	mock.lockGet.RLock()
	calls := mock.calls.Get
	mock.lockGet.RUnlock()
	return calls
}

func (mock *swipeRepoMock) HasLike(ctx context.Context, from uuid.UUID, to uuid.UUID) (bool, error) {
	if mock.HasLikeFunc == nil {
		panic("swipeRepoMock.HasLikeFunc: method is nil but swipeRepo.HasLike was just called")
	}
	callInfo := struct {
		Ctx  context.Context
		From uuid.UUID
		To   uuid.UUID
	}{Ctx: ctx, From: from, To: to}
	mock.lockHasLike.Lock()
	mock.calls.HasLike = append(mock.calls.HasLike, callInfo)
	mock.lockHasLike.Unlock()
	return mock.HasLikeFunc(ctx, from, to)
}

func (mock *swipeRepoMock) HasLikeCalls() []struct {
	Ctx  context.Context
	From uuid.UUID
	To   uuid.UUID
} {
	mock.lockHasLike.RLock()
	calls := mock.calls.HasLike
	mock.lockHasLike.RUnlock()
	return calls
}

func (mock *swipeRepoMock) Insert(ctx context.Context, s domain.Swipe) (bool, error) {
	if mock.InsertFunc == nil {
		panic("swipeRepoMock.InsertFunc: method is nil but swipeRepo.Insert was just called")
	}
	callInfo := struct {
		Ctx context.Context
		S   domain.Swipe
	}{Ctx: ctx, S: s}
	mock.lockInsert.Lock()
	mock.calls.Insert = append(mock.calls.Insert, callInfo)
	mock.lockInsert.Unlock()
	return mock.InsertFunc(ctx, s)
}

func (mock *swipeRepoMock) InsertCalls() []struct {
	Ctx context.Context
	S   domain.Swipe
} {
	mock.lockInsert.RLock()
	calls := mock.calls.Insert
	mock.lockInsert.RUnlock()
	return calls
}
