package services

import (
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"golang.org/x/crypto/bcrypt"

	intconfig "github.com/quirkbeesdevtech/amberisle-be/internal/config"
	"github.com/quirkbeesdevtech/amberisle-be/internal/domain"
	"github.com/quirkbeesdevtech/amberisle-be/internal/domain/models"
)

var authTestNow = time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC)

var authTestEnv = intconfig.Env{
	JWTSecret:        "test-secret",
	TokenTTL:         time.Hour,
	MaxLoginAttempts: 5,
	LockDuration:     2 * time.Hour,
}

func userRow(t *testing.T, password string, attempts int, lockUntil any, role string) *sqlmock.Rows {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("bcrypt error: %v", err)
	}
	cols := []string{"id", "fullname", "email", "phone", "password_hash", "role", "login_attempts", "lock_until", "created_at", "updated_at"}
	return sqlmock.NewRows(cols).AddRow(
		int64(9), "Asha Patel", "asha@example.com", "9876543210", string(hash), role,
		attempts, lockUntil, authTestNow, authTestNow,
	)
}

func TestLoginWrongPasswordCountsAttempt(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery("SELECT (.+) FROM users WHERE email").
		WithArgs("asha@example.com").
		WillReturnRows(userRow(t, "Correct@123", 4, nil, models.RoleUser))
	mock.ExpectExec("UPDATE users").
		WithArgs(5, authTestNow.Add(2*time.Hour), int64(9)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	svc := AuthService{DB: db, Env: authTestEnv, Now: func() time.Time { return authTestNow }}

	_, _, err = svc.Login("asha@example.com", "wrong", models.RoleUser)
	if !domain.IsUnauthorized(err) {
		t.Fatalf("err = %v, want unauthorized", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestLoginLockedRejectsCorrectPassword(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	lockUntil := authTestNow.Add(90 * time.Minute)
	mock.ExpectQuery("SELECT (.+) FROM users WHERE email").
		WithArgs("asha@example.com").
		WillReturnRows(userRow(t, "Correct@123", 5, lockUntil, models.RoleUser))

	svc := AuthService{DB: db, Env: authTestEnv, Now: func() time.Time { return authTestNow }}

	_, _, err = svc.Login("asha@example.com", "Correct@123", models.RoleUser)
	if !domain.IsLocked(err) {
		t.Fatalf("err = %v, want locked", err)
	}
	var locked domain.LockedError
	if errors.As(err, &locked); locked.MinutesLeft != 90 {
		t.Fatalf("minutes left = %d, want 90", locked.MinutesLeft)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestLoginExpiredLockResetsAndSucceeds(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery("SELECT (.+) FROM users WHERE email").
		WithArgs("asha@example.com").
		WillReturnRows(userRow(t, "Correct@123", 5, authTestNow.Add(-time.Minute), models.RoleUser))
	mock.ExpectExec("UPDATE users SET login_attempts = 0").
		WithArgs(int64(9)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("UPDATE users SET login_attempts = 0").
		WithArgs(int64(9)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	svc := AuthService{DB: db, Env: authTestEnv, Now: func() time.Time { return authTestNow }}

	user, token, err := svc.Login("asha@example.com", "Correct@123", models.RoleUser)
	if err != nil {
		t.Fatalf("login error: %v", err)
	}
	if token == "" {
		t.Fatal("expected a token")
	}
	if user.Email != "asha@example.com" {
		t.Fatalf("email = %q", user.Email)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestLoginRoleMismatchForbidden(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery("SELECT (.+) FROM users WHERE email").
		WithArgs("asha@example.com").
		WillReturnRows(userRow(t, "Correct@123", 0, nil, models.RoleUser))

	svc := AuthService{DB: db, Env: authTestEnv, Now: func() time.Time { return authTestNow }}

	_, _, err = svc.Login("asha@example.com", "Correct@123", models.RoleAdmin)
	if !domain.IsForbidden(err) {
		t.Fatalf("err = %v, want forbidden", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestRegisterForcesUserRole(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	mock.ExpectExec("INSERT INTO users").
		WillReturnResult(sqlmock.NewResult(11, 1))

	svc := AuthService{DB: db, Env: authTestEnv, Now: func() time.Time { return authTestNow }}

	user, token, err := svc.Register(RegisterInput{
		Email:    "New.Rider@Example.COM",
		Password: "Secret@1",
		Fullname: "New Rider",
	})
	if err != nil {
		t.Fatalf("register error: %v", err)
	}
	if user.Role != models.RoleUser {
		t.Fatalf("role = %q, want user", user.Role)
	}
	if user.Email != "new.rider@example.com" {
		t.Fatalf("email = %q, want lowercased", user.Email)
	}
	if token == "" {
		t.Fatal("expected a token")
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}
