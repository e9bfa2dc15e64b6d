package repository

import (
	"context"
	"database/sql"

	"github.com/mwakyusa/parish-management/internal/model"
)

// NewsRepo backs the public news feed.  The feed is a collaborator of
// the account core (its list page is part of the tracker's ignored
// set), so only the operations the public surface needs live here.
type NewsRepo struct{ DB *sql.DB }

func NewNewsRepo(db *sql.DB) *NewsRepo { return &NewsRepo{DB: db} }

// ListPublic returns published news newest-first with their like and
// comment counts.
func (r *NewsRepo) ListPublic(ctx context.Context) ([]model.NewsItem, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT n.id, n.title, n.content, n.created_at,
		       (SELECT COUNT(*) FROM news_likes l WHERE l.news_id = n.id),
		       (SELECT COUNT(*) FROM news_comments c WHERE c.news_id = n.id)
		FROM news n
		ORDER BY n.created_at DESC, n.id DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []model.NewsItem
	for rows.Next() {
		var it model.NewsItem
		if err := rows.Scan(&it.ID, &it.Title, &it.Content, &it.CreatedAt,
			&it.LikeCount, &it.CommentCount); err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

// ToggleLike flips a user's like on a news post and reports the new
// state.  Delete-then-insert inside a transaction keeps the pair
// (news, user) unique without relying on upsert semantics.
func (r *NewsRepo) ToggleLike(ctx context.Context, newsID, userID uint64) (liked bool, err error) {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return false, err
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.ExecContext(ctx,
		"DELETE FROM news_likes WHERE news_id=? AND user_id=?", newsID, userID)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	if n == 0 {
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO news_likes (news_id, user_id) VALUES (?,?)", newsID, userID); err != nil {
			return false, err
		}
		liked = true
	}
	return liked, tx.Commit()
}

// AddComment appends a member comment to a news post.
func (r *NewsRepo) AddComment(ctx context.Context, newsID, userID uint64, content string) error {
	_, err := r.DB.ExecContext(ctx,
		"INSERT INTO news_comments (news_id, user_id, content) VALUES (?,?,?)",
		newsID, userID, content)
	return err
}
