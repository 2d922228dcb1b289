package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/heartmarshall/swapmatch-backend/internal/domain"
)

// MapError converts pgx/pgconn errors to domain errors.
// context.DeadlineExceeded and context.Canceled are NOT mapped; they pass through.
// id may be anything printable (uuid, pair key) or empty.
func MapError(err error, entity string, id any) error {
	if err == nil {
		return nil
	}

	subject := entity
	if s := fmt.Sprint(id); id != nil && s != "" {
		subject = entity + " " + s
	}

	// context errors pass through as-is
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return fmt.Errorf("%s: %w", subject, err)
	}

	// pgx.ErrNoRows (or scany's not-found) → domain.ErrNotFound
	if errors.Is(err, pgx.ErrNoRows) || pgxscan.NotFound(err) {
		return fmt.Errorf("%s: %w", subject, domain.ErrNotFound)
	}

	// PgError codes
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch {
		case pgErr.Code == "23505": // unique_violation
			return fmt.Errorf("%s: %w", subject, domain.ErrAlreadyExists)
		case pgErr.Code == "23503": // foreign_key_violation
			return fmt.Errorf("%s: %w", subject, domain.ErrNotFound)
		case pgErr.Code == "23514": // check_violation
			return fmt.Errorf("%s: %w", subject, domain.ErrValidation)
		case isTransientCode(pgErr.Code):
			return fmt.Errorf("%s: %w: %w", subject, domain.ErrTransient, err)
		}
		return fmt.Errorf("%s: %w", subject, err)
	}

	// Connection-level failures never reached the server or lost the reply.
	if pgconn.SafeToRetry(err) || pgconn.Timeout(err) {
		return fmt.Errorf("%s: %w: %w", subject, domain.ErrTransient, err)
	}
	var connErr *pgconn.ConnectError
	if errors.As(err, &connErr) {
		return fmt.Errorf("%s: %w: %w", subject, domain.ErrTransient, err)
	}

	// Everything else: wrap with context
	return fmt.Errorf("%s: %w", subject, err)
}

// isTransientCode reports SQLSTATEs worth retrying: connection exceptions
// (class 08), serialization failure, deadlock, operator intervention such as
// admin shutdown (class 57 except query_canceled) and lock timeouts.
func isTransientCode(code string) bool {
	switch code {
	case "40001", "40P01", "55P03":
		return true
	case "57014": // query_canceled: statement_timeout or user cancel
		return false
	}
	return strings.HasPrefix(code, "08") || strings.HasPrefix(code, "57")
}
