package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/heartmarshall/swapmatch-backend/internal/domain"
)

// LockPair takes a transaction-scoped advisory lock keyed on the unordered
// item pair. Concurrent swipes on the same pair serialize here while other
// pairs proceed in parallel. Must be called inside RunInTx.
func LockPair(ctx context.Context, q Querier, pair domain.ItemPair) error {
	if !InTx(ctx) {
		return errors.New("lock pair: no transaction in context")
	}
	_, err := QuerierFromCtx(ctx, q).Exec(ctx,
		`SELECT pg_advisory_xact_lock(hashtextextended($1, 0))`, pair.Key())
	if err != nil {
		return MapError(err, "pair lock", pair.Key())
	}
	return nil
}

// PairLocker binds LockPair to a querier for services that take the lock
// through an interface.
type PairLocker struct {
	db Querier
}

// NewPairLocker creates a PairLocker.
func NewPairLocker(db Querier) *PairLocker {
	return &PairLocker{db: db}
}

// LockPair calls LockPair with the locker's querier.
func (l *PairLocker) LockPair(ctx context.Context, pair domain.ItemPair) error {
	return LockPair(ctx, l.db, pair)
}

// RunLocker guards a job with a session-level advisory lock so only one
// instance runs it at a time.
type RunLocker struct {
	pool *pgxpool.Pool
	key  int64
	log  *slog.Logger
}

// NewRunLocker creates a RunLocker for the given lock key.
func NewRunLocker(pool *pgxpool.Pool, key int64, log *slog.Logger) *RunLocker {
	return &RunLocker{pool: pool, key: key, log: log}
}

// TryLock attempts to take the lock without waiting. When ok is true the
// caller must call unlock once the job finishes.
func (l *RunLocker) TryLock(ctx context.Context) (unlock func(), ok bool, err error) {
	conn, err := l.pool.Acquire(ctx)
	if err != nil {
		return nil, false, MapError(err, "run lock", l.key)
	}

	if err := conn.QueryRow(ctx, `SELECT pg_try_advisory_lock($1)`, l.key).Scan(&ok); err != nil {
		conn.Release()
		return nil, false, MapError(err, "run lock", l.key)
	}
	if !ok {
		conn.Release()
		return nil, false, nil
	}

	unlock = func() {
		// The job context may already be done; unlocking must still happen.
		if _, err := conn.Exec(context.WithoutCancel(ctx), `SELECT pg_advisory_unlock($1)`, l.key); err != nil {
			l.log.Error("release run lock", slog.Int64("key", l.key), slog.String("error", err.Error()))
			// Drop the connection so the server releases the session lock.
			_ = conn.Conn().Close(context.WithoutCancel(ctx))
		}
		conn.Release()
	}
	return unlock, true, nil
}

// String describes the lock for logs.
func (l *RunLocker) String() string {
	return fmt.Sprintf("advisory lock %d", l.key)
}
