package redemption

import (
	"context"
	"fmt"
	"regexp"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/redeemkit/redeemkit/pkg/pg"
)

// Querier is the subset of pgx operations the store needs. Both *pgxpool.Pool
// and pgx.Tx satisfy it, so callers choose the transaction boundary.
type Querier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

var tableNameRe = regexp.MustCompile(`^[a-z_][a-z0-9_]*$`)

// PostgresStore implements Store on a PostgreSQL table. Each token domain has
// its own table with a unique index on the token column; that index is the
// authoritative uniqueness guard.
type PostgresStore struct {
	db    Querier
	table string
}

// NewPostgresStore creates a store over the named table. The table name is
// interpolated into SQL, so it must be a plain lowercase identifier; anything
// else panics to fail fast on misconfiguration.
func NewPostgresStore(db Querier, table string) *PostgresStore {
	if !tableNameRe.MatchString(table) {
		panic(fmt.Sprintf("redemption: invalid table name %q", table))
	}
	return &PostgresStore{db: db, table: table}
}

// WithQuerier returns a copy of the store bound to a different querier,
// typically a transaction began by the caller.
func (s *PostgresStore) WithQuerier(db Querier) *PostgresStore {
	return &PostgresStore{db: db, table: s.table}
}

const recordColumns = "owner_id, token, issued_at, expires_at, used_at, version"

func (s *PostgresStore) scanRecord(row pgx.Row) (*Record, error) {
	var rec Record
	if err := row.Scan(&rec.OwnerID, &rec.Token, &rec.IssuedAt, &rec.ExpiresAt, &rec.UsedAt, &rec.Version); err != nil {
		return nil, err
	}
	return &rec, nil
}

func (s *PostgresStore) FindByToken(ctx context.Context, token string) (*Record, error) {
	q := fmt.Sprintf("SELECT %s FROM %s WHERE token = $1", recordColumns, s.table)
	rec, err := s.scanRecord(s.db.QueryRow(ctx, q, token))
	if err != nil {
		if pg.IsNotFoundError(err) {
			return nil, ErrTokenNotFound
		}
		return nil, err
	}
	return rec, nil
}

func (s *PostgresStore) FindByOwner(ctx context.Context, ownerID uuid.UUID) (*Record, error) {
	q := fmt.Sprintf("SELECT %s FROM %s WHERE owner_id = $1 ORDER BY issued_at DESC LIMIT 1", recordColumns, s.table)
	rec, err := s.scanRecord(s.db.QueryRow(ctx, q, ownerID))
	if err != nil {
		if pg.IsNotFoundError(err) {
			return nil, ErrNoActiveToken
		}
		return nil, err
	}
	return rec, nil
}

func (s *PostgresStore) Create(ctx context.Context, rec Record) (*Record, error) {
	if rec.Token == "" || rec.OwnerID == uuid.Nil || rec.IssuedAt.IsZero() {
		return nil, ErrInvalidRecord
	}

	q := fmt.Sprintf(`INSERT INTO %s (%s) VALUES ($1, $2, $3, $4, $5, $6) RETURNING %s`,
		s.table, recordColumns, recordColumns)
	created, err := s.scanRecord(s.db.QueryRow(ctx, q,
		rec.OwnerID, rec.Token, rec.IssuedAt, rec.ExpiresAt, rec.UsedAt, rec.Version))
	if err != nil {
		if pg.IsDuplicateKeyError(err) {
			return nil, ErrDuplicateToken
		}
		return nil, err
	}
	return created, nil
}

// MarkUsed performs the consume as a single conditional UPDATE so that two
// concurrent redemptions of the same token cannot both succeed: the row is
// only touched while used_at is still null.
func (s *PostgresStore) MarkUsed(ctx context.Context, token string, usedAt time.Time) (*Record, error) {
	q := fmt.Sprintf(`UPDATE %s SET used_at = GREATEST($2, issued_at) WHERE token = $1 AND used_at IS NULL RETURNING %s`,
		s.table, recordColumns)
	rec, err := s.scanRecord(s.db.QueryRow(ctx, q, token, usedAt))
	if err == nil {
		return rec, nil
	}
	if !pg.IsNotFoundError(err) {
		return nil, err
	}

	// No row updated: distinguish a spent token from an unknown one.
	var spent *time.Time
	check := fmt.Sprintf("SELECT used_at FROM %s WHERE token = $1", s.table)
	if err := s.db.QueryRow(ctx, check, token).Scan(&spent); err != nil {
		if pg.IsNotFoundError(err) {
			return nil, ErrTokenNotFound
		}
		return nil, err
	}
	return nil, ErrAlreadyUsed
}
