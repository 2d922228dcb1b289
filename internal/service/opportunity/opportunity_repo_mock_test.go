package opportunity

import (
	"context"
	"github.com/google/uuid"
	"github.com/heartmarshall/swapmatch-backend/internal/domain"
	"sync"
	"time"
)

var _ opportunityRepo = &opportunityRepoMock{}

type opportunityRepoMock struct {
	CheckParticipantsFunc func(ctx context.Context, parts []domain.Participant) error
	CloseFunc             func(ctx context.Context, id uuid.UUID, status domain.OpportunityStatus, reason domain.ClosedReason, at time.Time) error
	ConvertMatchedFunc    func(ctx context.Context, now time.Time) ([]domain.SwapOpportunity, error)
	CountDismissalsFunc   func(ctx context.Context, id uuid.UUID) (int, error)
	ExpireDegenerateFunc  func(ctx context.Context, now time.Time) ([]domain.SwapOpportunity, error)
	ExpireDueFunc         func(ctx context.Context, now time.Time) ([]domain.SwapOpportunity, error)
	GetForUpdateFunc      func(ctx context.Context, id uuid.UUID) (*domain.SwapOpportunity, error)
	InCooldownFunc        func(ctx context.Context, key string, since time.Time) (bool, error)
	InsertActiveFunc      func(ctx context.Context, o *domain.SwapOpportunity) (bool, error)
	ListActiveForUserFunc func(ctx context.Context, userID uuid.UUID, now time.Time, limit int) ([]domain.SwapOpportunity, error)
	RecordDismissalFunc   func(ctx context.Context, o *domain.SwapOpportunity, userID uuid.UUID, at time.Time) (bool, error)

	calls struct {
		CheckParticipants []struct {
			Ctx   context.Context
			Parts []domain.Participant
		}
		Close []struct {
			Ctx    context.Context
			Id     uuid.UUID
			Status domain.OpportunityStatus
			Reason domain.ClosedReason
			At     time.Time
		}
		ConvertMatched []struct {
			Ctx context.Context
			Now time.Time
		}
		CountDismissals []struct {
			Ctx context.Context
			Id  uuid.UUID
		}
		ExpireDegenerate []struct {
			Ctx context.Context
			Now time.Time
		}
		ExpireDue []struct {
			Ctx context.Context
			Now time.Time
		}
		GetForUpdate []struct {
			Ctx context.Context
			Id  uuid.UUID
		}
		InCooldown []struct {
			Ctx   context.Context
			Key   string
			Since time.Time
		}
		InsertActive []struct {
			Ctx context.Context
			O   *domain.SwapOpportunity
		}
		ListActiveForUser []struct {
			Ctx    context.Context
			UserID uuid.UUID
			Now    time.Time
			Limit  int
		}
		RecordDismissal []struct {
			Ctx    context.Context
			O      *domain.SwapOpportunity
			UserID uuid.UUID
			At     time.Time
		}
	}
	lockCheckParticipants sync.RWMutex
	lockClose             sync.RWMutex
	lockConvertMatched    sync.RWMutex
	lockCountDismissals   sync.RWMutex
	lockExpireDegenerate  sync.RWMutex
	lockExpireDue         sync.RWMutex
	lockGetForUpdate      sync.RWMutex
	lockInCooldown        sync.RWMutex
	lockInsertActive      sync.RWMutex
	lockListActiveForUser sync.RWMutex
	lockRecordDismissal   sync.RWMutex
}

func (mock *opportunityRepoMock) CheckParticipants(ctx context.Context, parts []domain.Participant) error {
	if mock.CheckParticipantsFunc == nil {
		panic("opportunityRepoMock.CheckParticipantsFunc: method is nil but opportunityRepo.CheckParticipants was just called")
	}
	callInfo := struct {
		Ctx   context.Context
		Parts []domain.Participant
	}{Ctx: ctx, Parts: parts}
	mock.lockCheckParticipants.Lock()
	mock.calls.CheckParticipants = append(mock.calls.CheckParticipants, callInfo)
	mock.lockCheckParticipants.Unlock()
	return mock.CheckParticipantsFunc(ctx, parts)
}

func (mock *opportunityRepoMock) CheckParticipantsCalls() []struct {
	Ctx   context.Context
	Parts []domain.Participant
} {
	mock.lockCheckParticipants.RLock()
	calls := mock.calls.CheckParticipants
	mock.lockCheckParticipants.RUnlock()
	return calls
}

func (mock *opportunityRepoMock) Close(ctx context.Context, id uuid.UUID, status domain.OpportunityStatus, reason domain.ClosedReason, at time.Time) error {
	if mock.CloseFunc == nil {
		panic("opportunityRepoMock.CloseFunc: method is nil but opportunityRepo.Close was just called")
	}
	callInfo := struct {
		Ctx    context.Context
		Id     uuid.UUID
		Status domain.OpportunityStatus
		Reason domain.ClosedReason
		At     time.Time
	}{Ctx: ctx, Id: id, Status: status, Reason: reason, At: at}
	mock.lockClose.Lock()
	mock.calls.Close = append(mock.calls.Close, callInfo)
	mock.lockClose.Unlock()
	return mock.CloseFunc(ctx, id, status, reason, at)
}

func (mock *opportunityRepoMock) CloseCalls() []struct {
	Ctx    context.Context
	Id     uuid.UUID
	Status domain.OpportunityStatus
	Reason domain.ClosedReason
	At     time.Time
} {
	mock.lockClose.RLock()
	calls := mock.calls.Close
	mock.lockClose.RUnlock()
	return calls
}

func (mock *opportunityRepoMock) ConvertMatched(ctx context.Context, now time.Time) ([]domain.SwapOpportunity, error) {
	if mock.ConvertMatchedFunc == nil {
		panic("opportunityRepoMock.ConvertMatchedFunc: method is nil but opportunityRepo.ConvertMatched was just called")
	}
	callInfo := struct {
		Ctx context.Context
		Now time.Time
	}{Ctx: ctx, Now: now}
	mock.lockConvertMatched.Lock()
	mock.calls.ConvertMatched = append(mock.calls.ConvertMatched, callInfo)
	mock.lockConvertMatched.Unlock()
	return mock.ConvertMatchedFunc(ctx, now)
}

func (mock *opportunityRepoMock) ConvertMatchedCalls() []struct {
	Ctx context.Context
	Now time.Time
} {
	mock.lockConvertMatched.RLock()
	calls := mock.calls.ConvertMatched
	mock.lockConvertMatched.RUnlock()
	return calls
}

func (mock *opportunityRepoMock) CountDismissals(ctx context.Context, id uuid.UUID) (int, error) {
	if mock.CountDismissalsFunc == nil {
		panic("opportunityRepoMock.CountDismissalsFunc: method is nil but opportunityRepo.CountDismissals was just called")
	}
	callInfo := struct {
		Ctx context.Context
		Id  uuid.UUID
	}{Ctx: ctx, Id: id}
	mock.lockCountDismissals.Lock()
	mock.calls.CountDismissals = append(mock.calls.CountDismissals, callInfo)
	mock.lockCountDismissals.Unlock()
	return mock.CountDismissalsFunc(ctx, id)
}

func (mock *opportunityRepoMock) CountDismissalsCalls() []struct {
	Ctx context.Context
	Id  uuid.UUID
} {
	mock.lockCountDismissals.RLock()
	calls := mock.calls.CountDismissals
	mock.lockCountDismissals.RUnlock()
	return calls
}

func (mock *opportunityRepoMock) ExpireDegenerate(ctx context.Context, now time.Time) ([]domain.SwapOpportunity, error) {
	if mock.ExpireDegenerateFunc == nil {
		panic("opportunityRepoMock.ExpireDegenerateFunc: method is nil but opportunityRepo.ExpireDegenerate was just called")
	}
	callInfo := struct {
		Ctx context.Context
		Now time.Time
	}{Ctx: ctx, Now: now}
	mock.lockExpireDegenerate.Lock()
	mock.calls.ExpireDegenerate = append(mock.calls.ExpireDegenerate, callInfo)
	mock.lockExpireDegenerate.Unlock()
	return mock.ExpireDegenerateFunc(ctx, now)
}

func (mock *opportunityRepoMock) ExpireDegenerateCalls() []struct {
	Ctx context.Context
	Now time.Time
} {
	mock.lockExpireDegenerate.RLock()
	calls := mock.calls.ExpireDegenerate
	mock.lockExpireDegenerate.RUnlock()
	return calls
}

func (mock *opportunityRepoMock) ExpireDue(ctx context.Context, now time.Time) ([]domain.SwapOpportunity, error) {
	if mock.ExpireDueFunc == nil {
		panic("opportunityRepoMock.ExpireDueFunc: method is nil but opportunityRepo.ExpireDue was just called")
	}
	callInfo := struct {
		Ctx context.Context
		Now time.Time
	}{Ctx: ctx, Now: now}
	mock.lockExpireDue.Lock()
	mock.calls.ExpireDue = append(mock.calls.ExpireDue, callInfo)
	mock.lockExpireDue.Unlock()
	return mock.ExpireDueFunc(ctx, now)
}

func (mock *opportunityRepoMock) ExpireDueCalls() []struct {
	Ctx context.Context
	Now time.Time
} {
	mock.lockExpireDue.RLock()
	calls := mock.calls.ExpireDue
	mock.lockExpireDue.RUnlock()
	return calls
}

func (mock *opportunityRepoMock) GetForUpdate(ctx context.Context, id uuid.UUID) (*domain.SwapOpportunity, error) {
	if mock.GetForUpdateFunc == nil {
		panic("opportunityRepoMock.GetForUpdateFunc: method is nil but opportunityRepo.GetForUpdate was just called")
	}
	callInfo := struct {
		Ctx context.Context
		Id  uuid.UUID
	}{Ctx: ctx, Id: id}
	mock.lockGetForUpdate.Lock()
	mock.calls.GetForUpdate = append(mock.calls.GetForUpdate, callInfo)
	mock.lockGetForUpdate.Unlock()
	return mock.GetForUpdateFunc(ctx, id)
}

func (mock *opportunityRepoMock) GetForUpdateCalls() []struct {
	Ctx context.Context
	Id  uuid.UUID
} {
	mock.lockGetForUpdate.RLock()
	calls := mock.calls.GetForUpdate
	mock.lockGetForUpdate.RUnlock()
	return calls
}

func (mock *opportunityRepoMock) InCooldown(ctx context.Context, key string, since time.Time) (bool, error) {
	if mock.InCooldownFunc == nil {
		panic("opportunityRepoMock.InCooldownFunc: method is nil but opportunityRepo.InCooldown was just called")
	}
	callInfo := struct {
		Ctx   context.Context
		Key   string
		Since time.Time
	}{Ctx: ctx, Key: key, Since: since}
	mock.lockInCooldown.Lock()
	mock.calls.InCooldown = append(mock.calls.InCooldown, callInfo)
	mock.lockInCooldown.Unlock()
	return mock.InCooldownFunc(ctx, key, since)
}

func (mock *opportunityRepoMock) InCooldownCalls() []struct {
	Ctx   context.Context
	Key   string
	Since time.Time
} {
	mock.lockInCooldown.RLock()
	calls := mock.calls.InCooldown
	mock.lockInCooldown.RUnlock()
	return calls
}

func (mock *opportunityRepoMock) InsertActive(ctx context.Context, o *domain.SwapOpportunity) (bool, error) {
	if mock.InsertActiveFunc == nil {
		panic("opportunityRepoMock.InsertActiveFunc: method is nil but opportunityRepo.InsertActive was just called")
	}
	callInfo := struct {
		Ctx context.Context
		O   *domain.SwapOpportunity
	}{Ctx: ctx, O: o}
	mock.lockInsertActive.Lock()
	mock.calls.InsertActive = append(mock.calls.InsertActive, callInfo)
	mock.lockInsertActive.Unlock()
	return mock.InsertActiveFunc(ctx, o)
}

func (mock *opportunityRepoMock) InsertActiveCalls() []struct {
	Ctx context.Context
	O   *domain.SwapOpportunity
} {
	mock.lockInsertActive.RLock()
	calls := mock.calls.InsertActive
	mock.lockInsertActive.RUnlock()
	return calls
}

func (mock *opportunityRepoMock) ListActiveForUser(ctx context.Context, userID uuid.UUID, now time.Time, limit int) ([]domain.SwapOpportunity, error) {
	if mock.ListActiveForUserFunc == nil {
		panic("opportunityRepoMock.ListActiveForUserFunc: method is nil but opportunityRepo.ListActiveForUser was just called")
	}
	callInfo := struct {
		Ctx    context.Context
		UserID uuid.UUID
		Now    time.Time
		Limit  int
	}{Ctx: ctx, UserID: userID, Now: now, Limit: limit}
	mock.lockListActiveForUser.Lock()
	mock.calls.ListActiveForUser = append(mock.calls.ListActiveForUser, callInfo)
	mock.lockListActiveForUser.Unlock()
	return mock.ListActiveForUserFunc(ctx, userID, now, limit)
}

func (mock *opportunityRepoMock) ListActiveForUserCalls() []struct {
	Ctx    context.Context
	UserID uuid.UUID
	Now    time.Time
	Limit  int
} {
	mock.lockListActiveForUser.RLock()
	calls := mock.calls.ListActiveForUser
	mock.lockListActiveForUser.RUnlock()
	return calls
}

func (mock *opportunityRepoMock) RecordDismissal(ctx context.Context, o *domain.SwapOpportunity, userID uuid.UUID, at time.Time) (bool, error) {
	if mock.RecordDismissalFunc == nil {
		panic("opportunityRepoMock.RecordDismissalFunc: method is nil but opportunityRepo.RecordDismissal was just called")
	}
	callInfo := struct {
		Ctx    context.Context
		O      *domain.SwapOpportunity
		UserID uuid.UUID
		At     time.Time
	}{Ctx: ctx, O: o, UserID: userID, At: at}
	mock.lockRecordDismissal.Lock()
	mock.calls.RecordDismissal = append(mock.calls.RecordDismissal, callInfo)
	mock.lockRecordDismissal.Unlock()
	return mock.RecordDismissalFunc(ctx, o, userID, at)
}

func (mock *opportunityRepoMock) RecordDismissalCalls() []struct {
	Ctx    context.Context
	O      *domain.SwapOpportunity
	UserID uuid.UUID
	At     time.Time
} {
	mock.lockRecordDismissal.RLock()
	calls := mock.calls.RecordDismissal
	mock.lockRecordDismissal.RUnlock()
	return calls
}
