package swipe

import (
	"context"
	"github.com/google/uuid"
	"github.com/heartmarshall/swapmatch-backend/internal/domain"
	"sync"
)

var _ itemRepo = &itemRepoMock{}

type itemRepoMock struct {
	GetForShareFunc func(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]domain.Item, error)

	calls struct {
		GetForShare []struct {
			Ctx context.Context
			Ids []uuid.UUID
		}
	}
	lockGetForShare sync.RWMutex
}

func (mock *itemRepoMock) GetForShare(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]domain.Item, error) {
	if mock.GetForShareFunc == nil {
		panic("itemRepoMock.GetForShareFunc: method is nil but itemRepo.GetForShare was just called")
	}
	callInfo := struct {
		Ctx context.Context
		Ids []uuid.UUID
	}{Ctx: ctx, Ids: ids}
	mock.lockGetForShare.Lock()
	mock.calls.GetForShare = append(mock.calls.GetForShare, callInfo)
	mock.lockGetForShare.Unlock()
	return mock.GetForShareFunc(ctx, ids)
}

func (mock *itemRepoMock) GetForShareCalls() []struct {
	Ctx context.Context
	Ids []uuid.UUID
} {
	mock.lockGetForShare.RLock()
	calls := mock.calls.GetForShare
	mock.lockGetForShare.RUnlock()
	return calls
}
