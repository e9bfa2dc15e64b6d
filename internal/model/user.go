package model

import (
	"errors"
	"regexp"
	"time"
)

// Roles a user account can hold.  ADMIN covers superusers and staff;
// CHURCH_MEMBER is the self-service role created through the
// account-request flow and is always linked to a ChurchMember row.
const (
	RoleAdmin        = "ADMIN"
	RoleChurchMember = "CHURCH_MEMBER"
)

// phoneRE enforces the Tanzanian phone wire format used across the
// system: the literal +255 prefix followed by exactly nine digits.
var phoneRE = regexp.MustCompile(`^\+255\d{9}$`)

// ValidPhone reports whether s matches +255XXXXXXXXX.
func ValidPhone(s string) bool { return phoneRE.MatchString(s) }

var (
	// ErrMemberLinkRequired is raised when a CHURCH_MEMBER user is about
	// to be persisted without a church member link.  This is a programmer
	// error, not user input, and surfaces as a 500.
	ErrMemberLinkRequired = errors.New("CHURCH_MEMBER users must be linked to a valid member")

	// ErrInvalidPhone is raised when a phone number does not match the
	// +255XXXXXXXXX format.
	ErrInvalidPhone = errors.New("phone number must be in the format +255XXXXXXXXX (9 digits after +255)")
)

// User mirrors the `users` table.  Pointer fields map to nullable
// columns.
//
// Fields:
//  ID             - users.id
//  Username       - users.username (unique)
//  Email          - users.email (nullable, unique by convention)
//  PhoneNumber    - users.phone_number (unique, +255XXXXXXXXX)
//  PasswordHash   - users.password_hash (bcrypt)
//  Role           - users.role (ADMIN | CHURCH_MEMBER)
//  ChurchMemberID - users.church_member_id (nullable FK, one-to-one)
//  ProfilePicture - users.profile_picture (nullable relative media path)
//  IsStaff        - users.is_staff
//  IsSuperuser    - users.is_superuser
//  AgreedToTerms  - users.agreed_to_terms
//  CreatedAt      - users.created_at (allocated on first save only)
//  UpdatedAt      - users.updated_at
type User struct {
	ID             uint64
	Username       string
	Email          *string
	PhoneNumber    string
	PasswordHash   string
	Role           string
	ChurchMemberID *uint64
	ProfilePicture *string
	IsStaff        bool
	IsSuperuser    bool
	AgreedToTerms  bool
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// IsAdmin reports whether the user holds administrative privileges.
func (u *User) IsAdmin() bool { return u.IsSuperuser || u.Role == RoleAdmin }

// ApplyRoleRules normalizes the role fields and validates the record
// before it is persisted.  Rules:
//   - superusers, staff and ADMIN-typed users are always ADMIN and must
//     not link to a church member (the link is cleared, not rejected);
//   - CHURCH_MEMBER users must carry a church member link;
//   - the phone number must match the +255 format.
//
// Repositories call this on every insert and update so the invariants
// hold for every saved row.
func (u *User) ApplyRoleRules() error {
	if u.IsSuperuser || u.IsStaff || u.Role == RoleAdmin {
		u.Role = RoleAdmin
		u.ChurchMemberID = nil
	} else if u.Role == RoleChurchMember && u.ChurchMemberID == nil {
		return ErrMemberLinkRequired
	}
	if !ValidPhone(u.PhoneNumber) {
		return ErrInvalidPhone
	}
	return nil
}
