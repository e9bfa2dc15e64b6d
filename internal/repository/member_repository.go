package repository

import (
	"context"
	"database/sql"

	"github.com/mwakyusa/parish-management/internal/model"
)

// MemberRepo is the read-side view of the member directory.  The
// directory itself (registration, approval, editing) belongs to the
// members module; the account core only resolves business keys and
// reads status, phone, name and the optional leadership record.
type MemberRepo struct{ DB *sql.DB }

func NewMemberRepo(db *sql.DB) *MemberRepo { return &MemberRepo{DB: db} }

const memberColumns = "id,member_id,full_name,phone_number,email,status,date_confirmed"

// GetByMemberID resolves the human-assigned business key (the
// credential of the account-request and password-reset flows).
func (r *MemberRepo) GetByMemberID(ctx context.Context, memberID string) (model.ChurchMember, error) {
	return r.getWhere(ctx, "member_id=?", memberID)
}

// GetByID fetches a member by row key, used to check the Active status
// during login.
func (r *MemberRepo) GetByID(ctx context.Context, id uint64) (model.ChurchMember, error) {
	return r.getWhere(ctx, "id=?", id)
}

// LeaderFor returns the leadership record of a member, or
// sql.ErrNoRows when the member holds no occupation.
func (r *MemberRepo) LeaderFor(ctx context.Context, churchMemberID uint64) (model.Leader, error) {
	var l model.Leader
	err := r.DB.QueryRowContext(ctx,
		"SELECT id,church_member_id,occupation FROM leaders WHERE church_member_id=? LIMIT 1",
		churchMemberID).Scan(&l.ID, &l.ChurchMemberID, &l.Occupation)
	return l, err
}

func (r *MemberRepo) getWhere(ctx context.Context, cond string, arg interface{}) (model.ChurchMember, error) {
	var m model.ChurchMember
	err := r.DB.QueryRowContext(ctx,
		"SELECT "+memberColumns+" FROM church_members WHERE "+cond+" LIMIT 1", arg).
		Scan(&m.ID, &m.MemberID, &m.FullName, &m.PhoneNumber, &m.Email, &m.Status, &m.DateConfirmed)
	return m, err
}
