// Package opportunity persists swap opportunities, their ordered participants
// and per-user dismissals. At most one active opportunity exists per
// participant set, enforced by a partial unique index on participant_key.
package opportunity

import (
	"context"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/google/uuid"

	postgres "github.com/heartmarshall/swapmatch-backend/internal/adapter/postgres"
	"github.com/heartmarshall/swapmatch-backend/internal/domain"
)

var columns = []string{
	"o.id", "o.cycle_type", "o.participant_key", "o.confidence", "o.status",
	"o.closed_reason", "o.closed_at", "o.created_at", "o.expires_at",
}

// Repo provides opportunity persistence backed by PostgreSQL.
type Repo struct {
	db postgres.Querier
}

// New creates a new opportunity repository.
func New(db postgres.Querier) *Repo {
	return &Repo{db: db}
}

// ---------------------------------------------------------------------------
// Raw SQL
// ---------------------------------------------------------------------------

const insertSQL = `
INSERT INTO opportunities (id, cycle_type, participant_key, confidence, status, created_at, expires_at)
VALUES ($1, $2, $3, $4, 'active', $5, $6)
ON CONFLICT (participant_key) WHERE status = 'active' DO NOTHING`

// participantsSQL loads ordered participants for a set of opportunities.
const participantsSQL = `
SELECT opportunity_id, position, user_id, item_id
FROM opportunity_participants
WHERE opportunity_id = ANY($1::uuid[])
ORDER BY opportunity_id, position`

// checkParticipantsSQL locks the participant items and reports, per item,
// whether it is active, who owns it and whether it is already in a match.
const checkParticipantsSQL = `
SELECT i.id, i.owner_id, i.active,
       EXISTS (SELECT 1 FROM matches m WHERE m.item_a_id = i.id OR m.item_b_id = i.id) AS matched
FROM items i
WHERE i.id = ANY($1::uuid[])
ORDER BY i.id
FOR SHARE OF i`

const cooldownSQL = `
SELECT EXISTS (
    SELECT 1 FROM opportunity_dismissals
    WHERE participant_key = $1 AND dismissed_at > $2
)`

// The maintenance statements close opportunities in one UPDATE each and
// return the ids they touched. The terminal-status trigger makes a second
// transition on the same row impossible.
const expireDueSQL = `
UPDATE opportunities o
SET status = 'expired', closed_reason = 'ttl', closed_at = $1
WHERE o.status = 'active' AND o.expires_at <= $1
RETURNING o.id`

const convertMatchedSQL = `
UPDATE opportunities o
SET status = 'converted', closed_reason = 'match', closed_at = $1
WHERE o.status = 'active'
  AND EXISTS (
    SELECT 1
    FROM opportunity_participants pa
    JOIN opportunity_participants pb
      ON pb.opportunity_id = pa.opportunity_id AND pb.item_id > pa.item_id
    JOIN matches m
      ON m.item_a_id = pa.item_id AND m.item_b_id = pb.item_id
    WHERE pa.opportunity_id = o.id
  )
RETURNING o.id`

const expireDegenerateSQL = `
UPDATE opportunities o
SET status = 'expired', closed_reason = 'degenerate', closed_at = $1
WHERE o.status = 'active'
  AND EXISTS (
    SELECT 1
    FROM opportunity_participants p
    JOIN items i ON i.id = p.item_id
    WHERE p.opportunity_id = o.id
      AND (NOT i.active
           OR i.owner_id <> p.user_id
           OR EXISTS (SELECT 1 FROM matches m WHERE m.item_a_id = i.id OR m.item_b_id = i.id))
  )
RETURNING o.id`

// ---------------------------------------------------------------------------
// Write operations
// ---------------------------------------------------------------------------

// InsertActive stores o as active together with its participants. It returns
// false, without error, when another active opportunity already holds the
// same participant set. Must run inside a transaction.
func (r *Repo) InsertActive(ctx context.Context, o *domain.SwapOpportunity) (bool, error) {
	if !postgres.InTx(ctx) {
		return false, errors.New("insert opportunity: no transaction in context")
	}
	q := postgres.QuerierFromCtx(ctx, r.db)

	tag, err := q.Exec(ctx, insertSQL,
		o.ID, string(o.CycleType), o.Key(), o.Confidence, o.CreatedAt, o.ExpiresAt)
	if err != nil {
		return false, postgres.MapError(err, "opportunity", o.Key())
	}
	if tag.RowsAffected() == 0 {
		return false, nil
	}

	ins := postgres.Builder().
		Insert("opportunity_participants").
		Columns("opportunity_id", "position", "user_id", "item_id")
	for i, p := range o.Participants {
		ins = ins.Values(o.ID, i, p.UserID, p.ItemID)
	}
	query, args, err := ins.ToSql()
	if err != nil {
		return false, fmt.Errorf("build insert participants: %w", err)
	}
	if _, err := q.Exec(ctx, query, args...); err != nil {
		return false, postgres.MapError(err, "opportunity participants", o.ID)
	}

	return true, nil
}

// CheckParticipants re-validates a candidate against the live store inside
// the committing transaction and locks its items for share. It returns an
// error wrapping domain.ErrDegenerateCandidate when any item is missing,
// inactive, owned by someone else or already matched.
func (r *Repo) CheckParticipants(ctx context.Context, parts []domain.Participant) error {
	ids := make([]uuid.UUID, len(parts))
	for i, p := range parts {
		ids[i] = p.ItemID
	}

	rows, err := postgres.QuerierFromCtx(ctx, r.db).Query(ctx, checkParticipantsSQL, ids)
	if err != nil {
		return postgres.MapError(err, "participants", domain.ParticipantKey(ids))
	}

	var states []struct {
		ID      uuid.UUID `db:"id"`
		OwnerID uuid.UUID `db:"owner_id"`
		Active  bool      `db:"active"`
		Matched bool      `db:"matched"`
	}
	if err := pgxscan.ScanAll(&states, rows); err != nil {
		return postgres.MapError(err, "participants", domain.ParticipantKey(ids))
	}

	byID := make(map[uuid.UUID]int, len(states))
	for i, s := range states {
		byID[s.ID] = i
	}
	for _, p := range parts {
		i, ok := byID[p.ItemID]
		switch {
		case !ok:
			return fmt.Errorf("item %s gone: %w", p.ItemID, domain.ErrDegenerateCandidate)
		case !states[i].Active:
			return fmt.Errorf("item %s inactive: %w", p.ItemID, domain.ErrDegenerateCandidate)
		case states[i].OwnerID != p.UserID:
			return fmt.Errorf("item %s changed owner: %w", p.ItemID, domain.ErrDegenerateCandidate)
		case states[i].Matched:
			return fmt.Errorf("item %s already matched: %w", p.ItemID, domain.ErrDegenerateCandidate)
		}
	}
	return nil
}

// RecordDismissal stores userID's dismissal of o. It returns false when the
// user had already dismissed it.
func (r *Repo) RecordDismissal(ctx context.Context, o *domain.SwapOpportunity, userID uuid.UUID, at time.Time) (bool, error) {
	query, args, err := postgres.Builder().
		Insert("opportunity_dismissals").
		Columns("opportunity_id", "user_id", "participant_key", "dismissed_at").
		Values(o.ID, userID, o.Key(), at).
		Suffix("ON CONFLICT (opportunity_id, user_id) DO NOTHING").
		ToSql()
	if err != nil {
		return false, fmt.Errorf("build insert dismissal: %w", err)
	}

	tag, err := postgres.QuerierFromCtx(ctx, r.db).Exec(ctx, query, args...)
	if err != nil {
		return false, postgres.MapError(err, "opportunity dismissal", o.ID)
	}
	return tag.RowsAffected() == 1, nil
}

// CountDismissals returns how many distinct participants dismissed id.
func (r *Repo) CountDismissals(ctx context.Context, id uuid.UUID) (int, error) {
	query, args, err := postgres.Builder().
		Select("count(*)").
		From("opportunity_dismissals").
		Where(sq.Eq{"opportunity_id": id}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("build count dismissals: %w", err)
	}

	var n int
	if err := postgres.QuerierFromCtx(ctx, r.db).QueryRow(ctx, query, args...).Scan(&n); err != nil {
		return 0, postgres.MapError(err, "opportunity dismissals", id)
	}
	return n, nil
}

// Close moves an active opportunity to a terminal status. It returns
// domain.ErrAlreadyTerminal when the opportunity is no longer active.
func (r *Repo) Close(ctx context.Context, id uuid.UUID, status domain.OpportunityStatus, reason domain.ClosedReason, at time.Time) error {
	if !domain.OpportunityStatusActive.CanTransitionTo(status) {
		return domain.NewValidationError("status", fmt.Sprintf("cannot close into %q", status))
	}

	query, args, err := postgres.Builder().
		Update("opportunities").
		Set("status", string(status)).
		Set("closed_reason", string(reason)).
		Set("closed_at", at).
		Where(sq.Eq{"id": id, "status": string(domain.OpportunityStatusActive)}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build close opportunity: %w", err)
	}

	tag, err := postgres.QuerierFromCtx(ctx, r.db).Exec(ctx, query, args...)
	if err != nil {
		return postgres.MapError(err, "opportunity", id)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("opportunity %s: %w", id, domain.ErrAlreadyTerminal)
	}
	return nil
}

// ---------------------------------------------------------------------------
// Maintenance
// ---------------------------------------------------------------------------

// ExpireDue closes every active opportunity whose TTL elapsed at now.
func (r *Repo) ExpireDue(ctx context.Context, now time.Time) ([]domain.SwapOpportunity, error) {
	return r.closeReturning(ctx, "expire due", expireDueSQL, now)
}

// ConvertMatched closes every active opportunity in which two participants
// have since formed a direct match.
func (r *Repo) ConvertMatched(ctx context.Context, now time.Time) ([]domain.SwapOpportunity, error) {
	return r.closeReturning(ctx, "convert matched", convertMatchedSQL, now)
}

// ExpireDegenerate closes every active opportunity holding an item that was
// withdrawn, reassigned or matched outside the cycle. Run it after
// ConvertMatched so in-cycle matches count as conversions.
func (r *Repo) ExpireDegenerate(ctx context.Context, now time.Time) ([]domain.SwapOpportunity, error) {
	return r.closeReturning(ctx, "expire degenerate", expireDegenerateSQL, now)
}

func (r *Repo) closeReturning(ctx context.Context, op, query string, now time.Time) ([]domain.SwapOpportunity, error) {
	var ids []uuid.UUID
	if err := pgxscan.Select(ctx, postgres.QuerierFromCtx(ctx, r.db), &ids, query, now); err != nil {
		return nil, postgres.MapError(err, op, "")
	}
	if len(ids) == 0 {
		return []domain.SwapOpportunity{}, nil
	}
	return r.listByIDs(ctx, ids)
}

// ---------------------------------------------------------------------------
// Read operations
// ---------------------------------------------------------------------------

// GetByID returns an opportunity with its participants.
func (r *Repo) GetByID(ctx context.Context, id uuid.UUID) (*domain.SwapOpportunity, error) {
	return r.get(ctx, id, false)
}

// GetForUpdate returns an opportunity with its row locked until the
// surrounding transaction ends.
func (r *Repo) GetForUpdate(ctx context.Context, id uuid.UUID) (*domain.SwapOpportunity, error) {
	if !postgres.InTx(ctx) {
		return nil, errors.New("get opportunity for update: no transaction in context")
	}
	return r.get(ctx, id, true)
}

func (r *Repo) get(ctx context.Context, id uuid.UUID, forUpdate bool) (*domain.SwapOpportunity, error) {
	b := selectBuilder().Where(sq.Eq{"o.id": id})
	if forUpdate {
		b = b.Suffix("FOR UPDATE OF o")
	}
	query, args, err := b.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get opportunity: %w", err)
	}

	var row opportunityRow
	if err := pgxscan.Get(ctx, postgres.QuerierFromCtx(ctx, r.db), &row, query, args...); err != nil {
		return nil, postgres.MapError(err, "opportunity", id)
	}

	parts, err := r.participants(ctx, []uuid.UUID{id})
	if err != nil {
		return nil, err
	}

	o := row.toDomain(parts[id])
	return &o, nil
}

// ListActiveForUser returns active, unexpired opportunities in which userID
// participates and which the user has not dismissed, best first. Opportunities
// holding an item that became inactive or matched are left out even before
// maintenance closes them.
func (r *Repo) ListActiveForUser(ctx context.Context, userID uuid.UUID, now time.Time, limit int) ([]domain.SwapOpportunity, error) {
	query, args, err := selectBuilder().
		Where(sq.Eq{"o.status": string(domain.OpportunityStatusActive)}).
		Where(sq.Gt{"o.expires_at": now}).
		Where(sq.Expr("EXISTS (SELECT 1 FROM opportunity_participants p WHERE p.opportunity_id = o.id AND p.user_id = ?)", userID)).
		Where(sq.Expr("NOT EXISTS (SELECT 1 FROM opportunity_dismissals d WHERE d.opportunity_id = o.id AND d.user_id = ?)", userID)).
		Where(sq.Expr(`NOT EXISTS (
    SELECT 1 FROM opportunity_participants p
    JOIN items i ON i.id = p.item_id
    WHERE p.opportunity_id = o.id
      AND (NOT i.active
           OR EXISTS (SELECT 1 FROM matches m WHERE m.item_a_id = i.id OR m.item_b_id = i.id)))`)).
		OrderBy("o.confidence DESC", "o.created_at ASC", "o.id ASC").
		Limit(uint64(limit)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list opportunities: %w", err)
	}

	var rows []opportunityRow
	if err := pgxscan.Select(ctx, postgres.QuerierFromCtx(ctx, r.db), &rows, query, args...); err != nil {
		return nil, postgres.MapError(err, "user opportunities", userID)
	}

	return r.attach(ctx, rows)
}

func (r *Repo) listByIDs(ctx context.Context, ids []uuid.UUID) ([]domain.SwapOpportunity, error) {
	query, args, err := selectBuilder().
		Where("o.id = ANY(?::uuid[])", ids).
		OrderBy("o.id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list opportunities: %w", err)
	}

	var rows []opportunityRow
	if err := pgxscan.Select(ctx, postgres.QuerierFromCtx(ctx, r.db), &rows, query, args...); err != nil {
		return nil, postgres.MapError(err, "opportunities", "")
	}
	return r.attach(ctx, rows)
}

func (r *Repo) attach(ctx context.Context, rows []opportunityRow) ([]domain.SwapOpportunity, error) {
	out := make([]domain.SwapOpportunity, 0, len(rows))
	if len(rows) == 0 {
		return out, nil
	}

	ids := make([]uuid.UUID, len(rows))
	for i, row := range rows {
		ids[i] = row.ID
	}
	parts, err := r.participants(ctx, ids)
	if err != nil {
		return nil, err
	}

	for _, row := range rows {
		out = append(out, row.toDomain(parts[row.ID]))
	}
	return out, nil
}

func (r *Repo) participants(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID][]domain.Participant, error) {
	var rows []struct {
		OpportunityID uuid.UUID `db:"opportunity_id"`
		Position      int16     `db:"position"`
		UserID        uuid.UUID `db:"user_id"`
		ItemID        uuid.UUID `db:"item_id"`
	}
	if err := pgxscan.Select(ctx, postgres.QuerierFromCtx(ctx, r.db), &rows, participantsSQL, ids); err != nil {
		return nil, postgres.MapError(err, "opportunity participants", "")
	}

	out := make(map[uuid.UUID][]domain.Participant, len(ids))
	for _, row := range rows {
		out[row.OpportunityID] = append(out[row.OpportunityID], domain.Participant{UserID: row.UserID, ItemID: row.ItemID})
	}
	return out, nil
}

// InCooldown reports whether any participant dismissed an opportunity over
// the same item set after since.
func (r *Repo) InCooldown(ctx context.Context, key string, since time.Time) (bool, error) {
	var ok bool
	if err := postgres.QuerierFromCtx(ctx, r.db).QueryRow(ctx, cooldownSQL, key, since).Scan(&ok); err != nil {
		return false, postgres.MapError(err, "opportunity cooldown", key)
	}
	return ok, nil
}

// ---------------------------------------------------------------------------
// Mapping
// ---------------------------------------------------------------------------

func selectBuilder() sq.SelectBuilder {
	return postgres.Builder().Select(columns...).From("opportunities o")
}

type opportunityRow struct {
	ID             uuid.UUID  `db:"id"`
	CycleType      string     `db:"cycle_type"`
	ParticipantKey string     `db:"participant_key"`
	Confidence     float64    `db:"confidence"`
	Status         string     `db:"status"`
	ClosedReason   *string    `db:"closed_reason"`
	ClosedAt       *time.Time `db:"closed_at"`
	CreatedAt      time.Time  `db:"created_at"`
	ExpiresAt      time.Time  `db:"expires_at"`
}

func (r opportunityRow) toDomain(parts []domain.Participant) domain.SwapOpportunity {
	o := domain.SwapOpportunity{
		ID:           r.ID,
		CycleType:    domain.CycleType(r.CycleType),
		Participants: parts,
		Confidence:   r.Confidence,
		Status:       domain.OpportunityStatus(r.Status),
		ClosedAt:     r.ClosedAt,
		CreatedAt:    r.CreatedAt,
		ExpiresAt:    r.ExpiresAt,
	}
	if r.ClosedReason != nil {
		reason := domain.ClosedReason(*r.ClosedReason)
		o.ClosedReason = &reason
	}
	return o
}
