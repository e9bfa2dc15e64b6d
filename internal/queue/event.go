// Package queue defines message payloads exchanged over the message broker.
package queue

// Account event kinds published on the accounts.events queue.  The
// notifications module consumes them to fan out SMS/alerts; delivery
// itself lives outside this service.
const (
	KindAccountCreated = "account.created"
	KindPasswordReset  = "password.reset"
	KindLoginRecorded  = "login.recorded"
)

// AccountEvent is published when something notable happens to a user
// account.  It carries enough for downstream consumers to log or
// notify without querying the primary database.
type AccountEvent struct {
	Kind       string `json:"kind"`
	UserID     uint64 `json:"user_id"`
	Username   string `json:"username"`
	MemberID   string `json:"member_id,omitempty"`
	FullName   string `json:"full_name,omitempty"`
	IPAddress  string `json:"ip_address,omitempty"`
	OccurredAt string `json:"occurred_at"`
}
