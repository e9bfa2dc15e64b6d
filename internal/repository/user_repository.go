package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/mwakyusa/parish-management/internal/model"
	"github.com/mwakyusa/parish-management/internal/utils"
)

const userColumns = "id,username,email,phone_number,password_hash,role,church_member_id,profile_picture,is_staff,is_superuser,agreed_to_terms,created_at,updated_at"

// UserRepo is the identity store.  Every write path goes through
// model.User.ApplyRoleRules first, so the role/member-link/phone
// invariants hold for every persisted row.  Plain passwords never
// reach the database; they are bcrypt-hashed here.
type UserRepo struct{ DB *sql.DB }

func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{DB: db} }

// Create hashes the plain password and inserts the user, returning the
// new row ID.  created_at is allocated by the database on this first
// save and never touched again.
func (r *UserRepo) Create(ctx context.Context, u *model.User, plainPassword string, cost int) (uint64, error) {
	if err := u.ApplyRoleRules(); err != nil {
		return 0, err
	}
	hash, err := utils.HashPassword(plainPassword, cost)
	if err != nil {
		return 0, err
	}
	u.PasswordHash = hash
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO users (username, email, phone_number, password_hash, role, church_member_id, is_staff, is_superuser, agreed_to_terms) VALUES (?,?,?,?,?,?,?,?,?)",
		u.Username, u.Email, u.PhoneNumber, u.PasswordHash, u.Role, u.ChurchMemberID, u.IsStaff, u.IsSuperuser, u.AgreedToTerms)
	if err != nil {
		return 0, translateDuplicate(err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	u.ID = uint64(id)
	return u.ID, nil
}

// CreateSuperuser provisions an operator account.  Role and member
// link are forced regardless of what the caller passes elsewhere;
// phone is mandatory because the invariant check rejects empty phones.
func (r *UserRepo) CreateSuperuser(ctx context.Context, username, email, password, phone string, cost int) (uint64, error) {
	var emailPtr *string
	if email != "" {
		emailPtr = &email
	}
	u := &model.User{
		Username:    username,
		Email:       emailPtr,
		PhoneNumber: phone,
		Role:        model.RoleAdmin,
		IsStaff:     true,
		IsSuperuser: true,
	}
	return r.Create(ctx, u, password, cost)
}

// GetByID fetches a user by primary key.
func (r *UserRepo) GetByID(ctx context.Context, id uint64) (model.User, error) {
	return r.getWhere(ctx, "id=?", id)
}

// GetByUsername fetches a user by exact username.
func (r *UserRepo) GetByUsername(ctx context.Context, username string) (model.User, error) {
	return r.getWhere(ctx, "username=?", username)
}

// GetByEmail fetches a user by email.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (model.User, error) {
	return r.getWhere(ctx, "email=?", email)
}

// GetByMemberLink fetches the user bound to a church member row.
func (r *UserRepo) GetByMemberLink(ctx context.Context, churchMemberID uint64) (model.User, error) {
	return r.getWhere(ctx, "church_member_id=?", churchMemberID)
}

// UpdateCredentials overwrites the username and password hash of a
// user in one statement, used by the password-reset flow.  The hash
// must already be computed; this method never sees a plain password.
func (r *UserRepo) UpdateCredentials(ctx context.Context, userID uint64, username, passwordHash string) error {
	_, err := r.DB.ExecContext(ctx,
		"UPDATE users SET username=?, password_hash=? WHERE id=?",
		username, passwordHash, userID)
	return translateDuplicate(err)
}

// UpdateAdminProfile saves the admin self-edit surface: username,
// email, phone and role, plus the password hash when newHash is
// non-empty.  ApplyRoleRules runs first so an admin cannot demote
// themselves into an unlinked CHURCH_MEMBER.
func (r *UserRepo) UpdateAdminProfile(ctx context.Context, u *model.User, newHash string) error {
	if err := u.ApplyRoleRules(); err != nil {
		return err
	}
	if newHash != "" {
		u.PasswordHash = newHash
	}
	_, err := r.DB.ExecContext(ctx,
		"UPDATE users SET username=?, email=?, phone_number=?, role=?, church_member_id=?, password_hash=? WHERE id=?",
		u.Username, u.Email, u.PhoneNumber, u.Role, u.ChurchMemberID, u.PasswordHash, u.ID)
	return translateDuplicate(err)
}

// SetProfilePicture stores (or clears, with nil) the relative media
// path of the user's profile picture.
func (r *UserRepo) SetProfilePicture(ctx context.Context, userID uint64, path *string) error {
	_, err := r.DB.ExecContext(ctx,
		"UPDATE users SET profile_picture=? WHERE id=?", path, userID)
	return err
}

func (r *UserRepo) getWhere(ctx context.Context, cond string, arg interface{}) (model.User, error) {
	var u model.User
	err := r.DB.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE "+cond+" LIMIT 1", arg).
		Scan(&u.ID, &u.Username, &u.Email, &u.PhoneNumber, &u.PasswordHash, &u.Role,
			&u.ChurchMemberID, &u.ProfilePicture, &u.IsStaff, &u.IsSuperuser,
			&u.AgreedToTerms, &u.CreatedAt, &u.UpdatedAt)
	return u, err
}

// translateDuplicate maps MySQL duplicate-key failures (error 1062) to
// the sentinel matching the violated index.
func translateDuplicate(err error) error {
	if err == nil {
		return nil
	}
	msg := strings.ToLower(err.Error())
	if !strings.Contains(msg, "1062") {
		return err
	}
	switch {
	case strings.Contains(msg, "phone"):
		return ErrPhoneExists
	case strings.Contains(msg, "member"):
		return ErrMemberLinked
	default:
		return ErrUsernameExists
	}
}
