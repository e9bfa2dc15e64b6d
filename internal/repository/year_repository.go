package repository

import (
	"context"
	"database/sql"
)

// YearRepo maintains the year registry of the settings module.  The
// registry keeps exactly one row flagged as current.
type YearRepo struct{ DB *sql.DB }

func NewYearRepo(db *sql.DB) *YearRepo { return &YearRepo{DB: db} }

// EnsureCurrent makes sure a row exists for the given calendar year
// and carries the is_current flag, rotating the flag off a stale year
// if needed.  The whole rotation runs in one transaction so two
// dashboards racing at new year cannot leave zero or two current rows.
func (r *YearRepo) EnsureCurrent(ctx context.Context, year int) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	var current int
	err = tx.QueryRowContext(ctx,
		"SELECT year FROM years WHERE is_current=1 LIMIT 1").Scan(&current)
	switch {
	case err == sql.ErrNoRows:
		// first boot: no current year yet
	case err != nil:
		return err
	case current == year:
		return tx.Commit()
	default:
		if _, err := tx.ExecContext(ctx,
			"UPDATE years SET is_current=0 WHERE is_current=1"); err != nil {
			return err
		}
	}

	if _, err := tx.ExecContext(ctx,
		"INSERT INTO years (year, is_current) VALUES (?,1) ON DUPLICATE KEY UPDATE is_current=1",
		year); err != nil {
		return err
	}
	return tx.Commit()
}
