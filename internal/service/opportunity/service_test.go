package opportunity

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/heartmarshall/swapmatch-backend/internal/domain"
	"github.com/heartmarshall/swapmatch-backend/internal/engine/discovery"
	"github.com/heartmarshall/swapmatch-backend/pkg/ctxutil"
)

//go:generate moq -out opportunity_repo_mock_test.go -pkg opportunity . opportunityRepo
//go:generate moq -out snapshot_loader_mock_test.go -pkg opportunity . snapshotLoader
//go:generate moq -out run_locker_mock_test.go -pkg opportunity . runLocker
//go:generate moq -out publisher_mock_test.go -pkg opportunity . publisher
//go:generate moq -out tx_manager_mock_test.go -pkg opportunity . txManager

var runAt = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

type fixture struct {
	svc    *Service
	repo   *opportunityRepoMock
	loader *snapshotLoaderMock
	locker *runLockerMock
	events *publisherMock
	tx     *txManagerMock
	cfg    Config
}

func testConfig() Config {
	lc := domain.DefaultLifecycleConfig()
	lc.RetryBaseDelay = time.Millisecond
	lc.WriteRetries = 2
	return Config{Matching: domain.DefaultMatchingConfig(), Lifecycle: lc}
}

func newFixture(t *testing.T, mutate ...func(*Config)) *fixture {
	t.Helper()

	f := &fixture{cfg: testConfig()}
	for _, m := range mutate {
		m(&f.cfg)
	}

	f.repo = &opportunityRepoMock{
		ExpireDueFunc: func(ctx context.Context, now time.Time) ([]domain.SwapOpportunity, error) {
			return nil, nil
		},
		ConvertMatchedFunc: func(ctx context.Context, now time.Time) ([]domain.SwapOpportunity, error) {
			return nil, nil
		},
		ExpireDegenerateFunc: func(ctx context.Context, now time.Time) ([]domain.SwapOpportunity, error) {
			return nil, nil
		},
		InCooldownFunc: func(ctx context.Context, key string, since time.Time) (bool, error) {
			return false, nil
		},
		CheckParticipantsFunc: func(ctx context.Context, parts []domain.Participant) error {
			return nil
		},
		InsertActiveFunc: func(ctx context.Context, o *domain.SwapOpportunity) (bool, error) {
			return true, nil
		},
	}
	f.loader = &snapshotLoaderMock{
		LoadFunc: func(ctx context.Context, takenAt time.Time, cooldown time.Duration) (*domain.Snapshot, error) {
			return ringSnapshot(takenAt), nil
		},
	}
	f.locker = &runLockerMock{
		TryLockFunc: func(ctx context.Context) (func(), bool, error) {
			return func() {}, true, nil
		},
	}
	f.events = &publisherMock{
		PublishFunc: func(ctx context.Context, ev domain.Event) error { return nil },
	}
	f.tx = &txManagerMock{
		RunInTxFunc: func(ctx context.Context, fn func(context.Context) error) error {
			return fn(ctx)
		},
		RunInSnapshotFunc: func(ctx context.Context, fn func(context.Context) error) error {
			return fn(ctx)
		},
	}

	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	f.svc = NewService(log, f.cfg, f.repo, f.loader, f.locker, f.events, f.tx)
	return f
}

// ringSnapshot holds one books -> games -> electronics cycle over three users.
func ringSnapshot(at time.Time) *domain.Snapshot {
	snap := domain.NewSnapshot(at)
	cats := []domain.Category{domain.CategoryBooks, domain.CategoryGames, domain.CategoryElectronics}
	hi := int64(2000)
	for i, c := range cats {
		snap.AddItem(domain.Item{
			ID:                uuid.New(),
			OwnerID:           uuid.New(),
			Category:          c,
			Condition:         domain.ConditionGood,
			Value:             domain.ValueRange{Min: 1000, Max: &hi},
			DesiredCategories: []domain.Category{cats[(i+1)%len(cats)]},
			Active:            true,
			CreatedAt:         at.Add(-24 * time.Hour),
		})
	}
	return snap
}

func activeOpportunity(users ...uuid.UUID) *domain.SwapOpportunity {
	o := &domain.SwapOpportunity{
		ID:         uuid.New(),
		CycleType:  domain.CycleTypeThreeWay,
		Confidence: 0.8,
		Status:     domain.OpportunityStatusActive,
		CreatedAt:  time.Now().Add(-time.Hour),
		ExpiresAt:  time.Now().Add(time.Hour),
	}
	for _, u := range users {
		o.Participants = append(o.Participants, domain.Participant{UserID: u, ItemID: uuid.New()})
	}
	return o
}

// ---------------------------------------------------------------------------
// List
// ---------------------------------------------------------------------------

func TestList_Unauthorized(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	_, err := f.svc.List(context.Background(), ListInput{})
	require.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestList_NegativeLimit(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	_, err := f.svc.List(ctxutil.WithUserID(context.Background(), uuid.New()), ListInput{Limit: -1})
	require.ErrorIs(t, err, domain.ErrValidation)
	assert.Empty(t, f.repo.ListActiveForUserCalls())
}

func TestList_LimitIsCapped(t *testing.T) {
	t.Parallel()

	tests := []struct {
		requested int
		want      int
	}{
		{0, 20},
		{5, 5},
		{20, 20},
		{50, 20},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("limit %d", tt.requested), func(t *testing.T) {
			t.Parallel()
			f := newFixture(t)
			userID := uuid.New()
			f.repo.ListActiveForUserFunc = func(ctx context.Context, uid uuid.UUID, now time.Time, limit int) ([]domain.SwapOpportunity, error) {
				return []domain.SwapOpportunity{}, nil
			}

			_, err := f.svc.List(ctxutil.WithUserID(context.Background(), userID), ListInput{Limit: tt.requested})
			require.NoError(t, err)

			calls := f.repo.ListActiveForUserCalls()
			require.Len(t, calls, 1)
			assert.Equal(t, tt.want, calls[0].Limit)
			assert.Equal(t, userID, calls[0].UserID)
		})
	}
}

func TestList_RepoError(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	f.repo.ListActiveForUserFunc = func(ctx context.Context, uid uuid.UUID, now time.Time, limit int) ([]domain.SwapOpportunity, error) {
		return nil, domain.ErrTransient
	}

	_, err := f.svc.List(ctxutil.WithUserID(context.Background(), uuid.New()), ListInput{})
	require.ErrorIs(t, err, domain.ErrTransient)
}

// ---------------------------------------------------------------------------
// Dismiss
// ---------------------------------------------------------------------------

func TestDismiss_Validation(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	_, err := f.svc.Dismiss(context.Background(), DismissInput{OpportunityID: uuid.New()})
	require.ErrorIs(t, err, domain.ErrUnauthorized)

	_, err = f.svc.Dismiss(ctxutil.WithUserID(context.Background(), uuid.New()), DismissInput{})
	require.ErrorIs(t, err, domain.ErrValidation)
	assert.Empty(t, f.tx.RunInTxCalls())
}

func TestDismiss_Rejections(t *testing.T) {
	t.Parallel()

	caller := uuid.New()
	tests := []struct {
		name    string
		get     func() (*domain.SwapOpportunity, error)
		record  bool
		wantErr error
	}{
		{
			name:    "unknown opportunity",
			get:     func() (*domain.SwapOpportunity, error) { return nil, fmt.Errorf("opportunity: %w", domain.ErrNotFound) },
			wantErr: domain.ErrNotFound,
		},
		{
			name: "caller not a participant",
			get: func() (*domain.SwapOpportunity, error) {
				return activeOpportunity(uuid.New(), uuid.New(), uuid.New()), nil
			},
			wantErr: domain.ErrNotFound,
		},
		{
			name: "already expired",
			get: func() (*domain.SwapOpportunity, error) {
				o := activeOpportunity(caller, uuid.New(), uuid.New())
				o.Status = domain.OpportunityStatusExpired
				return o, nil
			},
			wantErr: domain.ErrAlreadyTerminal,
		},
		{
			name: "ttl elapsed before maintenance",
			get: func() (*domain.SwapOpportunity, error) {
				o := activeOpportunity(caller, uuid.New(), uuid.New())
				o.ExpiresAt = time.Now().Add(-time.Minute)
				return o, nil
			},
			wantErr: domain.ErrAlreadyTerminal,
		},
		{
			name:    "dismissed twice by the same user",
			get:     func() (*domain.SwapOpportunity, error) { return activeOpportunity(caller, uuid.New(), uuid.New()), nil },
			record:  false,
			wantErr: domain.ErrAlreadyTerminal,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			f := newFixture(t)
			f.repo.GetForUpdateFunc = func(ctx context.Context, id uuid.UUID) (*domain.SwapOpportunity, error) {
				return tt.get()
			}
			f.repo.RecordDismissalFunc = func(ctx context.Context, o *domain.SwapOpportunity, userID uuid.UUID, at time.Time) (bool, error) {
				return tt.record, nil
			}

			_, err := f.svc.Dismiss(ctxutil.WithUserID(context.Background(), caller), DismissInput{OpportunityID: uuid.New()})
			require.ErrorIs(t, err, tt.wantErr)
			assert.Empty(t, f.repo.CloseCalls())
			assert.Empty(t, f.events.PublishCalls())
		})
	}
}

func TestDismiss_ParticipantScope(t *testing.T) {
	t.Parallel()

	caller := uuid.New()
	tests := []struct {
		name       string
		dismissals int
		wantClosed bool
	}{
		{"first of three keeps it active", 1, false},
		{"second of three keeps it active", 2, false},
		{"last participant closes it", 3, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			f := newFixture(t)
			o := activeOpportunity(caller, uuid.New(), uuid.New())
			f.repo.GetForUpdateFunc = func(ctx context.Context, id uuid.UUID) (*domain.SwapOpportunity, error) {
				return o, nil
			}
			f.repo.RecordDismissalFunc = func(ctx context.Context, o *domain.SwapOpportunity, userID uuid.UUID, at time.Time) (bool, error) {
				return true, nil
			}
			f.repo.CountDismissalsFunc = func(ctx context.Context, id uuid.UUID) (int, error) {
				return tt.dismissals, nil
			}
			f.repo.CloseFunc = func(ctx context.Context, id uuid.UUID, status domain.OpportunityStatus, reason domain.ClosedReason, at time.Time) error {
				return nil
			}

			got, err := f.svc.Dismiss(ctxutil.WithUserID(context.Background(), caller), DismissInput{OpportunityID: o.ID})
			require.NoError(t, err)

			rec := f.repo.RecordDismissalCalls()
			require.Len(t, rec, 1)
			assert.Equal(t, caller, rec[0].UserID)

			if !tt.wantClosed {
				assert.Equal(t, domain.OpportunityStatusActive, got.Status)
				assert.Empty(t, f.repo.CloseCalls())
				assert.Empty(t, f.events.PublishCalls())
				return
			}
			assert.Equal(t, domain.OpportunityStatusDismissed, got.Status)
			require.NotNil(t, got.ClosedReason)
			assert.Equal(t, domain.ClosedReasonDismissed, *got.ClosedReason)
			require.Len(t, f.repo.CloseCalls(), 1)
			assert.Equal(t, domain.OpportunityStatusDismissed, f.repo.CloseCalls()[0].Status)
			require.Len(t, f.events.PublishCalls(), 1)
			assert.Equal(t, domain.EventOpportunityDismissed, f.events.PublishCalls()[0].Ev.Type)
		})
	}
}

func TestDismiss_AllScopeClosesImmediately(t *testing.T) {
	t.Parallel()
	f := newFixture(t, func(c *Config) { c.Lifecycle.DismissScope = domain.DismissScopeAll })

	caller := uuid.New()
	o := activeOpportunity(caller, uuid.New(), uuid.New())
	f.repo.GetForUpdateFunc = func(ctx context.Context, id uuid.UUID) (*domain.SwapOpportunity, error) {
		return o, nil
	}
	f.repo.RecordDismissalFunc = func(ctx context.Context, o *domain.SwapOpportunity, userID uuid.UUID, at time.Time) (bool, error) {
		return true, nil
	}
	f.repo.CloseFunc = func(ctx context.Context, id uuid.UUID, status domain.OpportunityStatus, reason domain.ClosedReason, at time.Time) error {
		return nil
	}

	got, err := f.svc.Dismiss(ctxutil.WithUserID(context.Background(), caller), DismissInput{OpportunityID: o.ID})
	require.NoError(t, err)
	assert.Equal(t, domain.OpportunityStatusDismissed, got.Status)
	assert.Empty(t, f.repo.CountDismissalsCalls())
	assert.Len(t, f.repo.CloseCalls(), 1)
}

// ---------------------------------------------------------------------------
// Maintain
// ---------------------------------------------------------------------------

func TestMaintain_CountsAndEvents(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	var order []string
	f.repo.ExpireDueFunc = func(ctx context.Context, now time.Time) ([]domain.SwapOpportunity, error) {
		order = append(order, "expire")
		return []domain.SwapOpportunity{*activeOpportunity(uuid.New(), uuid.New(), uuid.New()), *activeOpportunity(uuid.New(), uuid.New(), uuid.New())}, nil
	}
	f.repo.ConvertMatchedFunc = func(ctx context.Context, now time.Time) ([]domain.SwapOpportunity, error) {
		order = append(order, "convert")
		return []domain.SwapOpportunity{*activeOpportunity(uuid.New(), uuid.New(), uuid.New())}, nil
	}
	f.repo.ExpireDegenerateFunc = func(ctx context.Context, now time.Time) ([]domain.SwapOpportunity, error) {
		order = append(order, "degenerate")
		return nil, nil
	}

	report, err := f.svc.Maintain(context.Background(), runAt)
	require.NoError(t, err)
	assert.Equal(t, MaintenanceReport{Expired: 2, Converted: 1}, *report)
	assert.Equal(t, []string{"expire", "convert", "degenerate"}, order)

	calls := f.events.PublishCalls()
	require.Len(t, calls, 3)
	assert.Equal(t, domain.EventOpportunityExpired, calls[0].Ev.Type)
	assert.Equal(t, domain.EventOpportunityConverted, calls[2].Ev.Type)
	assert.Len(t, f.tx.RunInTxCalls(), 3, "each step commits on its own")
}

func TestMaintain_RetriesTransient(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	attempts := 0
	f.repo.ExpireDueFunc = func(ctx context.Context, now time.Time) ([]domain.SwapOpportunity, error) {
		attempts++
		if attempts == 1 {
			return nil, fmt.Errorf("expire: %w", domain.ErrTransient)
		}
		return []domain.SwapOpportunity{*activeOpportunity(uuid.New(), uuid.New())}, nil
	}

	report, err := f.svc.Maintain(context.Background(), runAt)
	require.NoError(t, err)
	assert.Equal(t, 2, attempts)
	assert.Equal(t, 1, report.Expired)
}

func TestMaintain_StopsOnFailure(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	boom := errors.New("boom")
	f.repo.ConvertMatchedFunc = func(ctx context.Context, now time.Time) ([]domain.SwapOpportunity, error) {
		return nil, boom
	}

	_, err := f.svc.Maintain(context.Background(), runAt)
	require.ErrorIs(t, err, boom)
	assert.Len(t, f.repo.ConvertMatchedCalls(), 1, "non-transient errors are not retried")
	assert.Empty(t, f.repo.ExpireDegenerateCalls())
}

// ---------------------------------------------------------------------------
// RunDiscoveryCycle
// ---------------------------------------------------------------------------

func TestRunDiscoveryCycle_CreatesRingOpportunity(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	report, err := f.svc.RunDiscoveryCycle(context.Background(), runAt)
	require.NoError(t, err)
	assert.False(t, report.Skipped)
	assert.False(t, report.Aborted)
	assert.Equal(t, 1, report.Candidates)
	assert.Equal(t, 1, report.Created)
	assert.Zero(t, report.Dropped)

	load := f.loader.LoadCalls()
	require.Len(t, load, 1)
	assert.Equal(t, runAt, load[0].TakenAt)
	assert.Equal(t, f.cfg.Lifecycle.Cooldown, load[0].Cooldown)
	assert.Len(t, f.tx.RunInSnapshotCalls(), 1)

	ins := f.repo.InsertActiveCalls()
	require.Len(t, ins, 1)
	o := ins[0].O
	assert.Equal(t, domain.CycleTypeThreeWay, o.CycleType)
	assert.Len(t, o.Participants, 3)
	assert.True(t, o.WellFormed())
	assert.Equal(t, runAt, o.CreatedAt)
	assert.Equal(t, runAt.Add(f.cfg.Lifecycle.TTL), o.ExpiresAt)
	assert.GreaterOrEqual(t, o.Confidence, 0.0)
	assert.LessOrEqual(t, o.Confidence, 1.0)

	pub := f.events.PublishCalls()
	require.Len(t, pub, 1)
	assert.Equal(t, domain.EventOpportunityCreated, pub[0].Ev.Type)

	cool := f.repo.InCooldownCalls()
	require.Len(t, cool, 1)
	assert.Equal(t, runAt.Add(-f.cfg.Lifecycle.Cooldown), cool[0].Since)
}

func TestRunDiscoveryCycle_ReportsMaintenance(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	f.repo.ExpireDueFunc = func(ctx context.Context, now time.Time) ([]domain.SwapOpportunity, error) {
		return []domain.SwapOpportunity{*activeOpportunity(uuid.New(), uuid.New())}, nil
	}
	f.repo.ExpireDegenerateFunc = func(ctx context.Context, now time.Time) ([]domain.SwapOpportunity, error) {
		return []domain.SwapOpportunity{*activeOpportunity(uuid.New(), uuid.New())}, nil
	}
	f.repo.ConvertMatchedFunc = func(ctx context.Context, now time.Time) ([]domain.SwapOpportunity, error) {
		return []domain.SwapOpportunity{*activeOpportunity(uuid.New(), uuid.New())}, nil
	}

	report, err := f.svc.RunDiscoveryCycle(context.Background(), runAt)
	require.NoError(t, err)
	assert.Equal(t, 2, report.Expired)
	assert.Equal(t, 1, report.Converted)
}

func TestRunDiscoveryCycle_Skipped(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		setup func(f *fixture)
	}{
		{
			name: "another run holds the lock",
			setup: func(f *fixture) {
				f.locker.TryLockFunc = func(ctx context.Context) (func(), bool, error) { return nil, false, nil }
			},
		},
		{
			name: "lock unavailable",
			setup: func(f *fixture) {
				f.locker.TryLockFunc = func(ctx context.Context) (func(), bool, error) {
					return nil, false, fmt.Errorf("run lock: %w", domain.ErrTransient)
				}
			},
		},
		{
			name: "snapshot cannot be loaded",
			setup: func(f *fixture) {
				f.loader.LoadFunc = func(ctx context.Context, takenAt time.Time, cooldown time.Duration) (*domain.Snapshot, error) {
					return nil, errors.New("connection refused")
				}
			},
		},
		{
			name: "maintenance fails",
			setup: func(f *fixture) {
				f.repo.ExpireDueFunc = func(ctx context.Context, now time.Time) ([]domain.SwapOpportunity, error) {
					return nil, errors.New("disk full")
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			f := newFixture(t)
			tt.setup(f)

			report, err := f.svc.RunDiscoveryCycle(context.Background(), runAt)
			require.NoError(t, err, "a skipped run is not an error")
			assert.True(t, report.Skipped)
			assert.Zero(t, report.Created)
			assert.Empty(t, f.repo.InsertActiveCalls())
		})
	}
}

func TestRunDiscoveryCycle_SnapshotRetried(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	f.loader.LoadFunc = func(ctx context.Context, takenAt time.Time, cooldown time.Duration) (*domain.Snapshot, error) {
		return nil, fmt.Errorf("snapshot: %w", domain.ErrTransient)
	}

	report, err := f.svc.RunDiscoveryCycle(context.Background(), runAt)
	require.NoError(t, err)
	assert.True(t, report.Skipped)
	assert.Len(t, f.loader.LoadCalls(), f.cfg.Lifecycle.WriteRetries+1)
}

func TestRunDiscoveryCycle_ReleasesLock(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	released := 0
	f.locker.TryLockFunc = func(ctx context.Context) (func(), bool, error) {
		return func() { released++ }, true, nil
	}

	_, err := f.svc.RunDiscoveryCycle(context.Background(), runAt)
	require.NoError(t, err)
	assert.Equal(t, 1, released)
}

func TestRunDiscoveryCycle_CommitOutcomes(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		setup       func(f *fixture)
		wantCreated int
		wantDropped int
		wantInserts int
	}{
		{
			name: "set already active",
			setup: func(f *fixture) {
				f.repo.InsertActiveFunc = func(ctx context.Context, o *domain.SwapOpportunity) (bool, error) { return false, nil }
			},
			wantInserts: 1,
		},
		{
			name: "set cooling down",
			setup: func(f *fixture) {
				f.repo.InCooldownFunc = func(ctx context.Context, key string, since time.Time) (bool, error) { return true, nil }
			},
		},
		{
			name: "participants degenerated",
			setup: func(f *fixture) {
				f.repo.CheckParticipantsFunc = func(ctx context.Context, parts []domain.Participant) error {
					return fmt.Errorf("item gone: %w", domain.ErrDegenerateCandidate)
				}
			},
			wantDropped: 1,
		},
		{
			name: "transient failure exhausts retries",
			setup: func(f *fixture) {
				f.repo.InsertActiveFunc = func(ctx context.Context, o *domain.SwapOpportunity) (bool, error) {
					return false, fmt.Errorf("insert: %w", domain.ErrTransient)
				}
			},
			wantDropped: 1,
			wantInserts: 3,
		},
		{
			name: "transient failure then success",
			setup: func(f *fixture) {
				n := 0
				f.repo.InsertActiveFunc = func(ctx context.Context, o *domain.SwapOpportunity) (bool, error) {
					n++
					if n == 1 {
						return false, fmt.Errorf("insert: %w", domain.ErrTransient)
					}
					return true, nil
				}
			},
			wantCreated: 1,
			wantInserts: 2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			f := newFixture(t)
			tt.setup(f)

			report, err := f.svc.RunDiscoveryCycle(context.Background(), runAt)
			require.NoError(t, err)
			assert.Equal(t, tt.wantCreated, report.Created)
			assert.Equal(t, tt.wantDropped, report.Dropped)
			assert.Len(t, f.repo.InsertActiveCalls(), tt.wantInserts)
			assert.Len(t, f.events.PublishCalls(), tt.wantCreated)
		})
	}
}

func TestRunDiscoveryCycle_AbortedBeforeCommit(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	f.loader.LoadFunc = func(_ context.Context, takenAt time.Time, cooldown time.Duration) (*domain.Snapshot, error) {
		cancel()
		return ringSnapshot(takenAt), nil
	}

	report, err := f.svc.RunDiscoveryCycle(ctx, runAt)
	require.NoError(t, err)
	assert.True(t, report.Aborted)
	assert.Empty(t, f.repo.InsertActiveCalls())
}

// ringsSnapshot holds n disjoint three-item rings with fixed ids, so ring r
// is anchored at node index 3r.
func ringsSnapshot(at time.Time, n int) *domain.Snapshot {
	cats := []domain.Category{
		domain.CategoryBooks, domain.CategoryGames, domain.CategoryElectronics,
		domain.CategoryMusic, domain.CategoryMovies, domain.CategoryClothing,
		domain.CategoryShoes, domain.CategoryAccessories, domain.CategoryFurniture,
		domain.CategoryHomeDecor, domain.CategoryKitchen, domain.CategorySports,
	}
	snap := domain.NewSnapshot(at)
	hi := int64(2000)
	for r := range n {
		for j := range 3 {
			k := 3*r + j
			snap.AddItem(domain.Item{
				ID:                uuid.UUID{15: byte(k + 1)},
				OwnerID:           uuid.UUID{0: 1, 15: byte(k + 1)},
				Category:          cats[k],
				Condition:         domain.ConditionGood,
				Value:             domain.ValueRange{Min: 1000, Max: &hi},
				DesiredCategories: []domain.Category{cats[3*r+(j+1)%3]},
				Active:            true,
				CreatedAt:         at.Add(-24 * time.Hour),
			})
		}
	}
	return snap
}

func TestRunDiscoveryCycle_AbortMidCommit(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		// cancelAt is the InsertActive call that cancels the run.
		cancelAt    int
		failOnAbort bool
		wantCreated int
		wantInserts int
	}{
		{name: "after first partition", cancelAt: 2, wantCreated: 2, wantInserts: 2},
		{name: "inside a partition", cancelAt: 1, wantCreated: 1, wantInserts: 1},
		{name: "interrupted insert", cancelAt: 1, failOnAbort: true, wantCreated: 0, wantInserts: 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			f := newFixture(t, func(c *Config) { c.Matching.Partitions = 2 })

			snap := ringsSnapshot(runAt, 4)
			res, err := discovery.New(slog.New(slog.NewTextHandler(io.Discard, nil)), f.cfg.Matching).
				Discover(context.Background(), snap)
			require.NoError(t, err)
			groups := res.ByPartition()
			require.Len(t, groups[0], 2)
			require.Len(t, groups[1], 2)

			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()
			f.loader.LoadFunc = func(context.Context, time.Time, time.Duration) (*domain.Snapshot, error) {
				return snap, nil
			}
			inserts := 0
			f.repo.InsertActiveFunc = func(ctx context.Context, o *domain.SwapOpportunity) (bool, error) {
				inserts++
				if inserts == tt.cancelAt {
					cancel()
					if tt.failOnAbort {
						return false, ctx.Err()
					}
				}
				return true, nil
			}

			report, err := f.svc.RunDiscoveryCycle(ctx, runAt)
			require.NoError(t, err)
			assert.True(t, report.Aborted)
			assert.Equal(t, 4, report.Candidates)
			assert.Equal(t, tt.wantCreated, report.Created)
			assert.Zero(t, report.Dropped)
			assert.Len(t, f.repo.InsertActiveCalls(), tt.wantInserts)
			assert.Len(t, f.events.PublishCalls(), tt.wantCreated)
		})
	}
}

func TestRunDiscoveryCycle_EmptySnapshot(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	f.loader.LoadFunc = func(ctx context.Context, takenAt time.Time, cooldown time.Duration) (*domain.Snapshot, error) {
		return domain.NewSnapshot(takenAt), nil
	}

	report, err := f.svc.RunDiscoveryCycle(context.Background(), runAt)
	require.NoError(t, err)
	assert.Zero(t, report.Candidates)
	assert.Zero(t, report.Created)
}
