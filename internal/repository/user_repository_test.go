package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/feelmitra/mood-journal/internal/model"
)

func newMock(t *testing.T) (*UserRepo, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock new: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return NewUserRepo(db), mock
}

func userRows(rec model.UserRecord) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "user_id", "auth_user_id", "email", "username", "created_at", "last_login"}).
		AddRow(rec.ID, rec.UserID, rec.AuthUserID, rec.Email, rec.Username, rec.CreatedAt, rec.LastLogin)
}

func TestFindByEmail(t *testing.T) {
	repo, mock := newMock(t)
	stored := model.UserRecord{
		ID: 3, UserID: "uid-1", AuthUserID: "auth-1", Email: "a@x.com", Username: "a",
		CreatedAt: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		LastLogin: time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
	}

	mock.ExpectQuery("SELECT .* FROM users WHERE email=.*").
		WithArgs("a@x.com").
		WillReturnRows(userRows(stored))

	// The lookup normalizes before hitting the store.
	got, err := repo.FindByEmail(context.Background(), " A@X.com ")
	if err != nil {
		t.Fatalf("find failed: %v", err)
	}
	if got != stored {
		t.Fatalf("unexpected record: %+v", got)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestFindByEmailNotFound(t *testing.T) {
	repo, mock := newMock(t)
	mock.ExpectQuery("SELECT .* FROM users WHERE email=.*").
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "auth_user_id", "email", "username", "created_at", "last_login"}))

	_, err := repo.FindByEmail(context.Background(), "nobody@x.com")
	if !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestFindByUserID(t *testing.T) {
	repo, mock := newMock(t)
	stored := model.UserRecord{ID: 9, UserID: "uid-9", Email: "b@x.com", Username: "b"}

	mock.ExpectQuery("SELECT .* FROM users WHERE user_id=.*").
		WithArgs("uid-9").
		WillReturnRows(userRows(stored))

	got, err := repo.FindByUserID(context.Background(), "uid-9")
	if err != nil || got.UserID != "uid-9" {
		t.Fatalf("unexpected result: %+v err=%v", got, err)
	}
}

func TestCreateOrGetInserts(t *testing.T) {
	repo, mock := newMock(t)

	mock.ExpectExec("INSERT INTO users").
		WillReturnResult(sqlmock.NewResult(11, 1))

	got, err := repo.CreateOrGet(context.Background(), model.UserRecord{
		UserID: "uid-new", AuthUserID: "auth-new", Email: "New@X.com", Username: "new",
	})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if got.ID != 11 {
		t.Fatalf("row id not taken from the insert, got %d", got.ID)
	}
	if got.Email != "new@x.com" {
		t.Fatalf("email not normalized before insert: %q", got.Email)
	}
	if got.CreatedAt.IsZero() || got.LastLogin.IsZero() {
		t.Fatalf("timestamps must be filled in: %+v", got)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestCreateOrGetDuplicateEmailReturnsExistingRow(t *testing.T) {
	repo, mock := newMock(t)
	winner := model.UserRecord{
		ID: 4, UserID: "uid-winner", AuthUserID: "auth-w", Email: "a@x.com", Username: "a",
		CreatedAt: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		LastLogin: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
	}

	mock.ExpectExec("INSERT INTO users").
		WillReturnError(errors.New("Error 1062 (23000): Duplicate entry 'a@x.com' for key 'users.email'"))
	mock.ExpectQuery("SELECT .* FROM users WHERE email=.*").
		WithArgs("a@x.com").
		WillReturnRows(userRows(winner))

	got, err := repo.CreateOrGet(context.Background(), model.UserRecord{
		UserID: "uid-loser", Email: "a@x.com", Username: "a",
	})
	if err != nil {
		t.Fatalf("duplicate insert must converge, got %v", err)
	}
	if got.UserID != "uid-winner" {
		t.Fatalf("existing row must win: %+v", got)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestCreateOrGetOtherErrorPropagates(t *testing.T) {
	repo, mock := newMock(t)
	mock.ExpectExec("INSERT INTO users").
		WillReturnError(errors.New("Error 1205: Lock wait timeout exceeded"))

	_, err := repo.CreateOrGet(context.Background(), model.UserRecord{UserID: "u", Email: "a@x.com"})
	if err == nil || errors.Is(err, ErrUserNotFound) {
		t.Fatalf("non-duplicate errors must propagate, got %v", err)
	}
}
