package user

import (
	"context"
	"github.com/google/uuid"
	"github.com/heartmarshall/swapmatch-backend/internal/domain"
	"sync"
)

var _ userRepo = &userRepoMock{}

type userRepoMock struct {
	GetByIDFunc func(ctx context.Context, id uuid.UUID) (*domain.UserProfile, error)
	UpsertFunc  func(ctx context.Context, id uuid.UUID, displayName string, avatarURL *string, home *domain.GeoPoint) (*domain.UserProfile, error)

	calls struct {
		GetByID []struct {
			Ctx context.Context
			Id  uuid.UUID
		}
		Upsert []struct {
			Ctx         context.Context
			Id          uuid.UUID
			DisplayName string
			AvatarURL   *string
			Home        *domain.GeoPoint
		}
	}
	lockGetByID sync.RWMutex
	lockUpsert  sync.RWMutex
}

func (mock *userRepoMock) GetByID(ctx context.Context, id uuid.UUID) (*domain.UserProfile, error) {
	if mock.GetByIDFunc == nil {
		panic("userRepoMock.GetByIDFunc: method is nil but userRepo.GetByID was just called")
	}
	callInfo := struct {
		Ctx context.Context
		Id  uuid.UUID
	}{Ctx: ctx, Id: id}
	mock.lockGetByID.Lock()
	mock.calls.GetByID = append(mock.calls.GetByID, callInfo)
	mock.lockGetByID.Unlock()
	return mock.GetByIDFunc(ctx, id)
}

func (mock *userRepoMock) GetByIDCalls() []struct {
	Ctx context.Context
	Id  uuid.UUID
} {
	mock.lockGetByID.RLock()
	calls := mock.calls.GetByID
	mock.lockGetByID.RUnlock()
	return calls
}

func (mock *userRepoMock) Upsert(ctx context.Context, id uuid.UUID, displayName string, avatarURL *string, home *domain.GeoPoint) (*domain.UserProfile, error) {
	if mock.UpsertFunc == nil {
		panic("userRepoMock.UpsertFunc: method is nil but userRepo.Upsert was just called")
	}
	callInfo := struct {
		Ctx         context.Context
		Id          uuid.UUID
		DisplayName string
		AvatarURL   *string
		Home        *domain.GeoPoint
	}{Ctx: ctx, Id: id, DisplayName: displayName, AvatarURL: avatarURL, Home: home}
	mock.lockUpsert.Lock()
	mock.calls.Upsert = append(mock.calls.Upsert, callInfo)
	mock.lockUpsert.Unlock()
	return mock.UpsertFunc(ctx, id, displayName, avatarURL, home)
}

func (mock *userRepoMock) UpsertCalls() []struct {
	Ctx         context.Context
	Id          uuid.UUID
	DisplayName string
	AvatarURL   *string
	Home        *domain.GeoPoint
} {
	mock.lockUpsert.RLock()
	calls := mock.calls.Upsert
	mock.lockUpsert.RUnlock()
	return calls
}
