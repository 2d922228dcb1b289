package opportunity

import (
	"context"
	"github.com/heartmarshall/swapmatch-backend/internal/domain"
	"sync"
	"time"
)

var _ snapshotLoader = &snapshotLoaderMock{}

type snapshotLoaderMock struct {
	LoadFunc func(ctx context.Context, takenAt time.Time, cooldown time.Duration) (*domain.Snapshot, error)

	calls struct {
		Load []struct {
			Ctx      context.Context
			TakenAt  time.Time
			Cooldown time.Duration
		}
	}
	lockLoad sync.RWMutex
}

func (mock *snapshotLoaderMock) Load(ctx context.Context, takenAt time.Time, cooldown time.Duration) (*domain.Snapshot, error) {
	if mock.LoadFunc == nil {
		panic("snapshotLoaderMock.LoadFunc: method is nil but snapshotLoader.Load was just called")
	}
	callInfo := struct {
		Ctx      context.Context
		TakenAt  time.Time
		Cooldown time.Duration
	}{Ctx: ctx, TakenAt: takenAt, Cooldown: cooldown}
	mock.lockLoad.Lock()
	mock.calls.Load = append(mock.calls.Load, callInfo)
	mock.lockLoad.Unlock()
	return mock.LoadFunc(ctx, takenAt, cooldown)
}

func (mock *snapshotLoaderMock) LoadCalls() []struct {
	Ctx      context.Context
	TakenAt  time.Time
	Cooldown time.Duration
} {
	mock.lockLoad.RLock()
	calls := mock.calls.Load
	mock.lockLoad.RUnlock()
	return calls
}
