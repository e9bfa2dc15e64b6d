package repository

import (
	"context"
	"database/sql"

	"github.com/mwakyusa/parish-management/internal/model"
)

// LoginHistoryRepo is the append-on-login ledger.  "Most recent" is
// defined as login_time descending with the row id as tie-breaker, so
// concurrent logins from the same user each get their own row and the
// ordering stays deterministic.
type LoginHistoryRepo struct{ DB *sql.DB }

func NewLoginHistoryRepo(db *sql.DB) *LoginHistoryRepo { return &LoginHistoryRepo{DB: db} }

// Append records a successful login.  last_visited_path starts out
// null and is filled in later by the tracker.
func (r *LoginHistoryRepo) Append(ctx context.Context, userID uint64, ip, userAgent string) (uint64, error) {
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO login_history (user_id, login_time, ip_address, user_agent) VALUES (?,NOW(),?,?)",
		userID, ip, userAgent)
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// LatestForUser returns the newest login row for a user.
func (r *LoginHistoryRepo) LatestForUser(ctx context.Context, userID uint64) (model.LoginHistory, error) {
	var lh model.LoginHistory
	err := r.DB.QueryRowContext(ctx,
		"SELECT id,user_id,login_time,ip_address,user_agent,last_visited_path FROM login_history WHERE user_id=? ORDER BY login_time DESC, id DESC LIMIT 1",
		userID).Scan(&lh.ID, &lh.UserID, &lh.LoginTime, &lh.IPAddress, &lh.UserAgent, &lh.LastVisitedPath)
	return lh, err
}

// UpdateLastPath writes the last visited path of a single login row.
// Single-field update so concurrent trackers cannot clobber anything
// else.
func (r *LoginHistoryRepo) UpdateLastPath(ctx context.Context, historyID uint64, path string) error {
	_, err := r.DB.ExecContext(ctx,
		"UPDATE login_history SET last_visited_path=? WHERE id=?", path, historyID)
	return err
}

// DeleteForUser purges every login row of a user.  Called on logout;
// this intentionally mirrors the legacy behavior even though it erases
// the audit trail (see DESIGN.md).
func (r *LoginHistoryRepo) DeleteForUser(ctx context.Context, userID uint64) error {
	_, err := r.DB.ExecContext(ctx,
		"DELETE FROM login_history WHERE user_id=?", userID)
	return err
}
