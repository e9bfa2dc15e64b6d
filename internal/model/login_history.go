package model

import "time"

// LoginHistory models a row in the `login_history` table.  One row is
// appended per successful login; the newest row for a user (login_time
// descending, id as tie-breaker) additionally records the last path the
// user visited.  All rows for a user are deleted on logout.
//
// Fields:
//  ID              - login_history.id
//  UserID          - login_history.user_id (cascade-deleted with the user)
//  LoginTime       - login_history.login_time (defaults to now)
//  IPAddress       - login_history.ip_address
//  UserAgent       - login_history.user_agent
//  LastVisitedPath - login_history.last_visited_path (nullable)
type LoginHistory struct {
	ID              uint64
	UserID          uint64
	LoginTime       time.Time
	IPAddress       string
	UserAgent       string
	LastVisitedPath *string
}
