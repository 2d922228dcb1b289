package opportunity

import (
	"context"
	"sync"
)

var _ runLocker = &runLockerMock{}

type runLockerMock struct {
	TryLockFunc func(ctx context.Context) (func(), bool, error)

	calls struct {
		TryLock []struct {
			Ctx context.Context
		}
	}
	lockTryLock sync.RWMutex
}

func (mock *runLockerMock) TryLock(ctx context.Context) (func(), bool, error) {
	if mock.TryLockFunc == nil {
		panic("runLockerMock.TryLockFunc: method is nil but runLocker.TryLock was just called")
	}
	callInfo := struct {
		Ctx context.Context
	}{Ctx: ctx}
	mock.lockTryLock.Lock()
	mock.calls.TryLock = append(mock.calls.TryLock, callInfo)
	mock.lockTryLock.Unlock()
	return mock.TryLockFunc(ctx)
}

func (mock *runLockerMock) TryLockCalls() []struct {
	Ctx context.Context
} {
	mock.lockTryLock.RLock()
	calls := mock.calls.TryLock
	mock.lockTryLock.RUnlock()
	return calls
}
