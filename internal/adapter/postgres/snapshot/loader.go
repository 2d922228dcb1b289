// Package snapshot loads a consistent, read-only view of the preference graph
// for one discovery run. All queries go out in a single pgx batch inside the
// caller's REPEATABLE READ transaction, so they observe the same instant.
package snapshot

import (
	"context"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	postgres "github.com/heartmarshall/swapmatch-backend/internal/adapter/postgres"
	"github.com/heartmarshall/swapmatch-backend/internal/adapter/postgres/item"
	"github.com/heartmarshall/swapmatch-backend/internal/domain"
)

const (
	swipesSQL = `
SELECT s.swiping_item_id, s.swiped_item_id, s.liked
FROM swipes s
JOIN items a ON a.id = s.swiping_item_id AND a.active
JOIN items b ON b.id = s.swiped_item_id AND b.active`

	matchesSQL = `SELECT item_a_id, item_b_id FROM matches`

	activeSQL = `
SELECT p.opportunity_id, p.item_id
FROM opportunity_participants p
JOIN opportunities o ON o.id = p.opportunity_id
WHERE o.status = 'active' AND o.expires_at > $1
ORDER BY p.opportunity_id, p.position`

	cooldownSQL = `
SELECT DISTINCT participant_key
FROM opportunity_dismissals
WHERE dismissed_at > $1`
)

// Loader reads snapshots.
type Loader struct {
	db postgres.Querier
}

// New creates a Loader.
func New(db postgres.Querier) *Loader {
	return &Loader{db: db}
}

// Load reads the graph as of the transaction snapshot. takenAt stamps the
// result and bounds active opportunities; dismissals after takenAt-cooldown
// are reported as cool-down keys. Must run inside TxManager.RunInSnapshot.
func (l *Loader) Load(ctx context.Context, takenAt time.Time, cooldown time.Duration) (*domain.Snapshot, error) {
	if !postgres.InTx(ctx) {
		return nil, errors.New("load snapshot: no transaction in context")
	}

	itemsSQL, itemsArgs, err := item.SelectBuilder().
		Where(sq.Eq{"i.active": true}).
		OrderBy("i.id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build snapshot items: %w", err)
	}

	batch := &pgx.Batch{}
	batch.Queue(itemsSQL, itemsArgs...)
	batch.Queue(swipesSQL)
	batch.Queue(matchesSQL)
	batch.Queue(activeSQL, takenAt)
	batch.Queue(cooldownSQL, takenAt.Add(-cooldown))

	br := postgres.QuerierFromCtx(ctx, l.db).SendBatch(ctx, batch)
	defer br.Close()

	snap := domain.NewSnapshot(takenAt)

	rows, err := br.Query()
	if err != nil {
		return nil, postgres.MapError(err, "snapshot items", "")
	}
	items, err := item.ScanAll(rows)
	if err != nil {
		return nil, err
	}
	for _, it := range items {
		snap.AddItem(it)
	}

	var from, to uuid.UUID
	var liked bool
	if err := forEach(br, "snapshot swipes", []any{&from, &to, &liked}, func() {
		snap.AddSwipe(from, to, liked)
	}); err != nil {
		return nil, err
	}

	var a, b uuid.UUID
	if err := forEach(br, "snapshot matches", []any{&a, &b}, func() {
		snap.AddMatch(a, b)
	}); err != nil {
		return nil, err
	}

	var (
		oppID, itemID uuid.UUID
		current       uuid.UUID
		group         []uuid.UUID
	)
	if err := forEach(br, "snapshot active", []any{&oppID, &itemID}, func() {
		if oppID != current && len(group) > 0 {
			snap.AddActive(group)
			group = nil
		}
		current = oppID
		group = append(group, itemID)
	}); err != nil {
		return nil, err
	}
	if len(group) > 0 {
		snap.AddActive(group)
	}

	var key string
	if err := forEach(br, "snapshot cooldown", []any{&key}, func() {
		snap.AddCooldown(key)
	}); err != nil {
		return nil, err
	}

	if err := br.Close(); err != nil {
		return nil, postgres.MapError(err, "snapshot", "")
	}
	return snap, nil
}

// forEach reads the next batch result, scanning each row into scans.
func forEach(br pgx.BatchResults, what string, scans []any, fn func()) error {
	rows, err := br.Query()
	if err != nil {
		return postgres.MapError(err, what, "")
	}
	if _, err := pgx.ForEachRow(rows, scans, func() error {
		fn()
		return nil
	}); err != nil {
		return postgres.MapError(err, what, "")
	}
	return nil
}
