// Package discountstore keeps sqlite snapshots of exported discount runs so
// successive exports can be compared.
package discountstore

import (
	"context"
	"database/sql"
	"time"

	"ezsd/lib/scrapers/shopify/discounts"
	"ezsd/lib/sqliteutil"

	_ "embed"
	_ "modernc.org/sqlite"
)

//go:embed schema.sql
var Schema string

type Store struct {
	db *sql.DB
}

func Open(path string) (Store, error) {
	db, err := sqliteutil.OpenDB(Schema, path)
	if err != nil {
		return Store{}, err
	}
	return NewStore(db), nil
}

// NewStore wraps an already-open handle whose schema has been applied,
// which lets callers share one connection across stores.
func NewStore(db *sql.DB) Store {
	return Store{db: db}
}

func (s Store) Close() error {
	return s.db.Close()
}

type Snapshot struct {
	Time      time.Time
	Discounts []discounts.Discount
}

// Push records one export run as a unit.
func (s Store) Push(ctx context.Context, snap Snapshot) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(
		ctx,
		`INSERT INTO export_runs (time) VALUES (?)`,
		snap.Time.Unix(),
	)
	if err != nil {
		return err
	}
	runId, err := res.LastInsertId()
	if err != nil {
		return err
	}

	for _, d := range snap.Discounts {
		_, err = tx.ExecContext(
			ctx,
			`INSERT INTO export_discounts (
				run_id, external_id, code, type, value,
				applies_to_type, minimum_order_amount, applies_to_id,
				starts_at, ends_at, usage_count, usage_limit, enabled
			) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			runId, d.Id, d.Code, d.Type, d.Value,
			d.AppliesToType, d.MinimumOrderAmount, d.AppliesToId,
			d.StartsAt, d.EndsAt, d.UsageCount, d.UsageLimit, d.Enabled,
		)
		if err != nil {
			return err
		}
	}
	return tx.Commit()
}

// Latest returns the most recent export run, or sql.ErrNoRows when the
// store is empty.
func (s Store) Latest(ctx context.Context) (Snapshot, error) {
	var runId int64
	var unix int64
	err := s.db.QueryRowContext(
		ctx,
		`SELECT id, time FROM export_runs ORDER BY time DESC, id DESC LIMIT 1`,
	).Scan(&runId, &unix)
	if err != nil {
		return Snapshot{}, err
	}

	rows, err := s.db.QueryContext(
		ctx,
		`SELECT external_id, code, type, value,
			applies_to_type, minimum_order_amount, applies_to_id,
			starts_at, ends_at, usage_count, usage_limit, enabled
		FROM export_discounts WHERE run_id = ? ORDER BY rowid`,
		runId,
	)
	if err != nil {
		return Snapshot{}, err
	}
	defer rows.Close()

	snap := Snapshot{Time: time.Unix(unix, 0)}
	for rows.Next() {
		var d discounts.Discount
		err = rows.Scan(
			&d.Id, &d.Code, &d.Type, &d.Value,
			&d.AppliesToType, &d.MinimumOrderAmount, &d.AppliesToId,
			&d.StartsAt, &d.EndsAt, &d.UsageCount, &d.UsageLimit, &d.Enabled,
		)
		if err != nil {
			return Snapshot{}, err
		}
		snap.Discounts = append(snap.Discounts, d)
	}
	return snap, rows.Err()
}
