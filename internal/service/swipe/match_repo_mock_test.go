package swipe

import (
	"context"
	"github.com/heartmarshall/swapmatch-backend/internal/domain"
	"sync"
)

var _ matchRepo = &matchRepoMock{}

type matchRepoMock struct {
	CreateIfAbsentFunc func(ctx context.Context, m domain.Match) (*domain.Match, bool, error)
	GetByPairFunc      func(ctx context.Context, pair domain.ItemPair) (*domain.Match, error)

	calls struct {
		CreateIfAbsent []struct {
			Ctx context.Context
			M   domain.Match
		}
		GetByPair []struct {
			Ctx  context.Context
			Pair domain.ItemPair
		}
	}
	lockCreateIfAbsent sync.RWMutex
	lockGetByPair      sync.RWMutex
}

func (mock *matchRepoMock) CreateIfAbsent(ctx context.Context, m domain.Match) (*domain.Match, bool, error) {
	if mock.CreateIfAbsentFunc == nil {
		panic("matchRepoMock.CreateIfAbsentFunc: method is nil but matchRepo.CreateIfAbsent was just called")
	}
	callInfo := struct {
		Ctx context.Context
		M   domain.Match
	}{Ctx: ctx, M: m}
	mock.lockCreateIfAbsent.Lock()
	mock.calls.CreateIfAbsent = append(mock.calls.CreateIfAbsent, callInfo)
	mock.lockCreateIfAbsent.Unlock()
	return mock.CreateIfAbsentFunc(ctx, m)
}

func (mock *matchRepoMock) CreateIfAbsentCalls() []struct {
	Ctx context.Context
	M   domain.Match
} {
	mock.lockCreateIfAbsent.RLock()
	calls := mock.calls.CreateIfAbsent
	mock.lockCreateIfAbsent.RUnlock()
	return calls
}

func (mock *matchRepoMock) GetByPair(ctx context.Context, pair domain.ItemPair) (*domain.Match, error) {
	if mock.GetByPairFunc == nil {
		panic("matchRepoMock.GetByPairFunc: method is nil but matchRepo.GetByPair was just called")
	}
	callInfo := struct {
		Ctx  context.Context
		Pair domain.ItemPair
	}{Ctx: ctx, Pair: pair}
	mock.lockGetByPair.Lock()
	mock.calls.GetByPair = append(mock.calls.GetByPair, callInfo)
	mock.lockGetByPair.Unlock()
	return mock.GetByPairFunc(ctx, pair)
}

func (mock *matchRepoMock) GetByPairCalls() []struct {
	Ctx  context.Context
	Pair domain.ItemPair
} {
	mock.lockGetByPair.RLock()
	calls := mock.calls.GetByPair
	mock.lockGetByPair.RUnlock()
	return calls
}
