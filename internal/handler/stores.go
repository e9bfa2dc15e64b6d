// Package handler contains the HTTP handlers of the application.
// Handlers depend on small store interfaces rather than concrete
// repositories so tests can substitute in-memory fakes.
package handler

import (
	"context"

	"github.com/mwakyusa/parish-management/internal/model"
	"github.com/mwakyusa/parish-management/internal/queue"
	"github.com/mwakyusa/parish-management/internal/repository"
)

// UserStore is the identity store surface the handlers need.
type UserStore interface {
	Create(ctx context.Context, u *model.User, plainPassword string, cost int) (uint64, error)
	GetByID(ctx context.Context, id uint64) (model.User, error)
	GetByUsername(ctx context.Context, username string) (model.User, error)
	GetByEmail(ctx context.Context, email string) (model.User, error)
	GetByMemberLink(ctx context.Context, churchMemberID uint64) (model.User, error)
	UpdateCredentials(ctx context.Context, userID uint64, username, passwordHash string) error
	UpdateAdminProfile(ctx context.Context, u *model.User, newHash string) error
	SetProfilePicture(ctx context.Context, userID uint64, path *string) error
}

// MemberStore resolves church members and their leadership records.
type MemberStore interface {
	GetByMemberID(ctx context.Context, memberID string) (model.ChurchMember, error)
	GetByID(ctx context.Context, id uint64) (model.ChurchMember, error)
	LeaderFor(ctx context.Context, churchMemberID uint64) (model.Leader, error)
}

// HistoryStore records and purges login-history rows.
type HistoryStore interface {
	Append(ctx context.Context, userID uint64, ip, userAgent string) (uint64, error)
	DeleteForUser(ctx context.Context, userID uint64) error
}

// YearStore maintains the financial-year registry.
type YearStore interface {
	EnsureCurrent(ctx context.Context, year int) error
}

// NewsStore serves the public news feed and its interactions.
type NewsStore interface {
	ListPublic(ctx context.Context) ([]model.NewsItem, error)
	ToggleLike(ctx context.Context, newsID, userID uint64) (bool, error)
	AddComment(ctx context.Context, newsID, userID uint64, content string) error
}

// EventPublisher pushes an account event onto the broker.  Handlers
// treat publishing as best effort and never fail a request over it.
type EventPublisher func(ctx context.Context, ev queue.AccountEvent) error

var (
	_ UserStore    = (*repository.UserRepo)(nil)
	_ MemberStore  = (*repository.MemberRepo)(nil)
	_ HistoryStore = (*repository.LoginHistoryRepo)(nil)
	_ YearStore    = (*repository.YearRepo)(nil)
	_ NewsStore    = (*repository.NewsRepo)(nil)
)
