package repository

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/feelmitra/mood-journal/internal/model"
)

// UserRepo reads and writes the 'users' table.  The table carries a
// unique index on email; CreateOrGet leans on it so that at-most-once
// record creation is enforced by the store rather than by a client-side
// lookup-then-insert sequence.
type UserRepo struct{ DB *sql.DB }

func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{DB: db} }

const userColumns = "id,user_id,auth_user_id,email,username,created_at,last_login"

// FindByEmail fetches a user record by normalized email.  Returns
// ErrUserNotFound when no record exists.
func (r *UserRepo) FindByEmail(ctx context.Context, email string) (model.UserRecord, error) {
	email = model.NormalizeEmail(email)
	var u model.UserRecord
	err := r.DB.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE email=? LIMIT 1",
		email).Scan(&u.ID, &u.UserID, &u.AuthUserID, &u.Email, &u.Username, &u.CreatedAt, &u.LastLogin)
	if err == sql.ErrNoRows {
		return model.UserRecord{}, ErrUserNotFound
	}
	return u, err
}

// FindByUserID fetches a user record by its application-level id.
func (r *UserRepo) FindByUserID(ctx context.Context, userID string) (model.UserRecord, error) {
	var u model.UserRecord
	err := r.DB.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE user_id=? LIMIT 1",
		userID).Scan(&u.ID, &u.UserID, &u.AuthUserID, &u.Email, &u.Username, &u.CreatedAt, &u.LastLogin)
	if err == sql.ErrNoRows {
		return model.UserRecord{}, ErrUserNotFound
	}
	return u, err
}

// CreateOrGet inserts a user record and returns it.  When the insert
// collides with the unique email index (MySQL error 1062), the existing
// row wins and is returned instead: two racing first sign-ins for the
// same email converge on one record.
func (r *UserRepo) CreateOrGet(ctx context.Context, rec model.UserRecord) (model.UserRecord, error) {
	rec.Email = model.NormalizeEmail(rec.Email)
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}
	if rec.LastLogin.IsZero() {
		rec.LastLogin = rec.CreatedAt
	}
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO users (user_id, auth_user_id, email, username, created_at, last_login) VALUES (?,?,?,?,?,?)",
		rec.UserID, rec.AuthUserID, rec.Email, rec.Username, rec.CreatedAt, rec.LastLogin)
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "1062") {
			return r.FindByEmail(ctx, rec.Email)
		}
		return model.UserRecord{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return model.UserRecord{}, err
	}
	rec.ID = uint64(id)
	return rec, nil
}
