package main

import (
	"context"
	"errors"
	"fmt"
	"regexp"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// directoryConfig names the commerce-side tables (or views) redeemd reads
// owner records from. The tables are owned by the commerce system; redeemd
// expects them to expose id, customer_id, customer_email, reference and
// state columns, and pickings additionally a store_pickup flag.
type directoryConfig struct {
	OrdersTable   string `env:"ORDERS_TABLE" envDefault:"orders"`
	PickingsTable string `env:"PICKINGS_TABLE" envDefault:"pickings"`
}

var identPattern = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`)

func mustIdent(name string) string {
	if !identPattern.MatchString(name) {
		panic(fmt.Sprintf("invalid table name %q", name))
	}
	return name
}

// pgDirectory reads owner records straight from commerce tables and applies
// the redemption transition with a guarded UPDATE. redeemStates lists the
// states the transition may start from; empty means any state but the target.
type pgDirectory struct {
	db           *pgxpool.Pool
	table        string
	doneState    string
	redeemStates []string
}

func newOrderDirectory(db *pgxpool.Pool, table string) *pgDirectory {
	return &pgDirectory{db: db, table: mustIdent(table), doneState: "done"}
}

func newPickingDirectory(db *pgxpool.Pool, table string) *pgDirectory {
	return &pgDirectory{db: db, table: mustIdent(table), doneState: "done", redeemStates: []string{"assigned"}}
}

func (d *pgDirectory) Principal(ctx context.Context, ownerID uuid.UUID) (uuid.UUID, bool, error) {
	var principal *uuid.UUID
	query := fmt.Sprintf("SELECT customer_id FROM %s WHERE id = $1", d.table)
	if err := d.db.QueryRow(ctx, query, ownerID).Scan(&principal); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return uuid.Nil, false, fmt.Errorf("owner %s not found in %s", ownerID, d.table)
		}
		return uuid.Nil, false, fmt.Errorf("failed to read principal: %w", err)
	}
	if principal == nil {
		return uuid.Nil, false, nil
	}
	return *principal, true, nil
}

func (d *pgDirectory) State(ctx context.Context, ownerID uuid.UUID) (string, error) {
	var state string
	query := fmt.Sprintf("SELECT state FROM %s WHERE id = $1", d.table)
	if err := d.db.QueryRow(ctx, query, ownerID).Scan(&state); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", fmt.Errorf("owner %s not found in %s", ownerID, d.table)
		}
		return "", fmt.Errorf("failed to read state: %w", err)
	}
	return state, nil
}

func (d *pgDirectory) Redeem(ctx context.Context, ownerID uuid.UUID) error {
	query := fmt.Sprintf("UPDATE %s SET state = $2 WHERE id = $1 AND state <> $2", d.table)
	args := []any{ownerID, d.doneState}
	if len(d.redeemStates) > 0 {
		query = fmt.Sprintf("UPDATE %s SET state = $2 WHERE id = $1 AND state = ANY($3)", d.table)
		args = append(args, d.redeemStates)
	}

	tag, err := d.db.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to redeem %s in %s: %w", ownerID, d.table, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("owner %s in %s is not in a redeemable state", ownerID, d.table)
	}
	return nil
}

func (d *pgDirectory) CustomerEmail(ctx context.Context, ownerID uuid.UUID) (string, bool, error) {
	var addr *string
	query := fmt.Sprintf("SELECT customer_email FROM %s WHERE id = $1", d.table)
	if err := d.db.QueryRow(ctx, query, ownerID).Scan(&addr); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", false, fmt.Errorf("owner %s not found in %s", ownerID, d.table)
		}
		return "", false, fmt.Errorf("failed to read customer email: %w", err)
	}
	if addr == nil || *addr == "" {
		return "", false, nil
	}
	return *addr, true, nil
}

func (d *pgDirectory) Reference(ctx context.Context, ownerID uuid.UUID) (string, error) {
	var ref string
	query := fmt.Sprintf("SELECT reference FROM %s WHERE id = $1", d.table)
	if err := d.db.QueryRow(ctx, query, ownerID).Scan(&ref); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", fmt.Errorf("owner %s not found in %s", ownerID, d.table)
		}
		return "", fmt.Errorf("failed to read reference: %w", err)
	}
	return ref, nil
}

// IsStorePickup reports whether the picking participates in QR pickup.
func (d *pgDirectory) IsStorePickup(ctx context.Context, ownerID uuid.UUID) (bool, error) {
	var storePickup bool
	query := fmt.Sprintf("SELECT store_pickup FROM %s WHERE id = $1", d.table)
	if err := d.db.QueryRow(ctx, query, ownerID).Scan(&storePickup); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, fmt.Errorf("owner %s not found in %s", ownerID, d.table)
		}
		return false, fmt.Errorf("failed to read store pickup flag: %w", err)
	}
	return storePickup, nil
}
