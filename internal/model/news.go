package model

import "time"

// News is a published announcement on the public feed.
type News struct {
	ID        uint64
	Title     string
	Content   string
	CreatedAt time.Time
}

// NewsItem is a news row together with the aggregate counts shown on
// the public list.
type NewsItem struct {
	News
	LikeCount    int
	CommentCount int
}

// NewsComment is a member comment on a news post.
type NewsComment struct {
	ID        uint64
	NewsID    uint64
	UserID    uint64
	Content   string
	CreatedAt time.Time
}
