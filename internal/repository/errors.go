// Package repository implements raw-SQL data access over MySQL.  This
// file defines sentinel errors shared across repositories so handlers
// can map failure scenarios to user-facing responses with errors.Is
// instead of string matching.
package repository

import "errors"

// ErrUsernameExists is returned when an insert or update collides with
// the unique username index.  Handlers surface it as a form-field
// error.
var ErrUsernameExists = errors.New("username already exists")

// ErrPhoneExists is returned when an insert collides with the unique
// phone index, which in practice means the member already has an
// account.
var ErrPhoneExists = errors.New("phone number already exists")

// ErrMemberLinked is returned when an insert collides with the unique
// church_member_id index.
var ErrMemberLinked = errors.New("member already linked to an account")
