package swipe

import (
	"context"
	"github.com/heartmarshall/swapmatch-backend/internal/domain"
	"sync"
)

var _ pairLocker = &pairLockerMock{}

type pairLockerMock struct {
	LockPairFunc func(ctx context.Context, pair domain.ItemPair) error

	calls struct {
		LockPair []struct {
			Ctx  context.Context
			Pair domain.ItemPair
		}
	}
	lockLockPair sync.RWMutex
}

func (mock *pairLockerMock) LockPair(ctx context.Context, pair domain.ItemPair) error {
	if mock.LockPairFunc == nil {
		panic("pairLockerMock.LockPairFunc: method is nil but pairLocker.LockPair was just called")
	}
	callInfo := struct {
		Ctx  context.Context
		Pair domain.ItemPair
	}{Ctx: ctx, Pair: pair}
	mock.lockLockPair.Lock()
	mock.calls.LockPair = append(mock.calls.LockPair, callInfo)
	mock.lockLockPair.Unlock()
	return mock.LockPairFunc(ctx, pair)
}

func (mock *pairLockerMock) LockPairCalls() []struct {
	Ctx  context.Context
	Pair domain.ItemPair
} {
	mock.lockLockPair.RLock()
	calls := mock.calls.LockPair
	mock.lockLockPair.RUnlock()
	return calls
}
