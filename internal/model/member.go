package model

import "time"

// Church member statuses.  Only Active members may log in; Pending is
// the state between registration and secretary approval.
const (
	MemberActive   = "Active"
	MemberInactive = "Inactive"
	MemberPending  = "Pending"
)

// Leader occupations that map to a dedicated dashboard.  Any other
// occupation falls back to the plain member dashboard.
const (
	OccupationSeniorPastor     = "Senior Pastor"
	OccupationEvangelist       = "Evangelist"
	OccupationCouncilSecretary = "Parish Council Secretary"
	OccupationParishTreasurer  = "Parish Treasurer"
)

// ChurchMember is the read-side projection of the member directory.
// The directory is owned by the members module; the account core only
// looks rows up by their business key and reads status, phone and name.
//
// Fields:
//  ID            - church_members.id (row key)
//  MemberID      - church_members.member_id (human-assigned business key)
//  FullName      - church_members.full_name
//  PhoneNumber   - church_members.phone_number (+255XXXXXXXXX)
//  Email         - church_members.email (nullable)
//  Status        - church_members.status (Active | Inactive | Pending)
//  DateConfirmed - church_members.date_confirmed (nullable)
type ChurchMember struct {
	ID            uint64
	MemberID      string
	FullName      string
	PhoneNumber   string
	Email         *string
	Status        string
	DateConfirmed *time.Time
}

// IsConfirmed reports whether the member received confirmation.  The
// date is the single source of truth; the directory's legacy boolean
// flag is ignored.
func (m *ChurchMember) IsConfirmed() bool { return m.DateConfirmed != nil }

// Leader is the optional leadership record attached to a church member.
//
// Fields:
//  ID             - leaders.id
//  ChurchMemberID - leaders.church_member_id
//  Occupation     - leaders.occupation (title within the parish)
type Leader struct {
	ID             uint64
	ChurchMemberID uint64
	Occupation     string
}
