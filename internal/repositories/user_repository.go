package repositories

import (
	"database/sql"
	"time"

	intdb "github.com/quirkbeesdevtech/amberisle-be/internal/db"
	"github.com/quirkbeesdevtech/amberisle-be/internal/domain/models"
)

type UserRepo struct {
	DB *sql.DB
}

const userColumns = `id, fullname, email, phone, password_hash, role, login_attempts, lock_until, created_at, updated_at`

func scanUser(row *sql.Row) (models.User, error) {
	var u models.User
	var lockUntil sql.NullTime
	err := row.Scan(
		&u.ID,
		&u.Fullname,
		&u.Email,
		&u.Phone,
		&u.PasswordHash,
		&u.Role,
		&u.LoginAttempts,
		&lockUntil,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	if err != nil {
		return models.User{}, err
	}
	u.LockUntil = intdb.TimePtr(lockUntil)
	return u, nil
}

func (r UserRepo) GetByEmail(email string) (models.User, error) {
	row := r.DB.QueryRow(`SELECT `+userColumns+` FROM users WHERE email = ? LIMIT 1`, email)
	return scanUser(row)
}

func (r UserRepo) GetByID(id int64) (models.User, error) {
	row := r.DB.QueryRow(`SELECT `+userColumns+` FROM users WHERE id = ? LIMIT 1`, id)
	return scanUser(row)
}

func (r UserRepo) Create(u models.User) (int64, error) {
	res, err := r.DB.Exec(`
		INSERT INTO users (fullname, email, phone, password_hash, role)
		VALUES (?, ?, ?, ?, ?)`,
		u.Fullname, u.Email, u.Phone, u.PasswordHash, u.Role,
	)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// RecordFailedLogin bumps the attempt counter and, past the threshold, opens
// the lockout window.
func (r UserRepo) RecordFailedLogin(id int64, maxAttempts int, lockUntil time.Time) error {
	_, err := r.DB.Exec(`
		UPDATE users
		SET login_attempts = login_attempts + 1,
		    lock_until = CASE WHEN login_attempts + 1 >= ? THEN ? ELSE lock_until END
		WHERE id = ?`,
		maxAttempts, lockUntil, id,
	)
	return err
}

func (r UserRepo) ResetLoginAttempts(id int64) error {
	_, err := r.DB.Exec(`UPDATE users SET login_attempts = 0, lock_until = NULL WHERE id = ?`, id)
	return err
}

// ClearExpiredLock drops a lockout window that has elapsed so a fresh round
// of attempts starts from zero.
func (r UserRepo) ClearExpiredLock(id int64) error {
	_, err := r.DB.Exec(`
		UPDATE users SET login_attempts = 0, lock_until = NULL
		WHERE id = ? AND lock_until IS NOT NULL AND lock_until <= NOW()`, id)
	return err
}

// UpdatePasswordAndRole rewrites credentials for an existing account; the
// admin seeding tool uses it to refresh a stale admin login.
func (r UserRepo) UpdatePasswordAndRole(id int64, passwordHash, role string) error {
	_, err := r.DB.Exec(`
		UPDATE users SET password_hash = ?, role = ?, login_attempts = 0, lock_until = NULL
		WHERE id = ?`,
		passwordHash, role, id,
	)
	return err
}

func (r UserRepo) List() ([]models.User, error) {
	rows, err := r.DB.Query(`SELECT ` + userColumns + ` FROM users ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.User{}
	for rows.Next() {
		var u models.User
		var lockUntil sql.NullTime
		if err := rows.Scan(
			&u.ID, &u.Fullname, &u.Email, &u.Phone, &u.PasswordHash,
			&u.Role, &u.LoginAttempts, &lockUntil, &u.CreatedAt, &u.UpdatedAt,
		); err != nil {
			return nil, err
		}
		u.LockUntil = intdb.TimePtr(lockUntil)
		out = append(out, u)
	}
	return out, rows.Err()
}
