package models

import "time"

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

type User struct {
	ID            int64      `json:"id"`
	Fullname      string     `json:"fullname"`
	Email         string     `json:"email"`
	Phone         string     `json:"phone"`
	PasswordHash  string     `json:"-"`
	Role          string     `json:"role"`
	LoginAttempts int        `json:"-"`
	LockUntil     *time.Time `json:"-"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

// Locked reports whether the account is inside its lockout window.
func (u User) Locked(now time.Time) bool {
	return u.LockUntil != nil && u.LockUntil.After(now)
}

type PublicUser struct {
	ID       int64  `json:"id"`
	Fullname string `json:"fullname"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Role     string `json:"role"`
}

func (u User) ToPublic() PublicUser {
	return PublicUser{
		ID:       u.ID,
		Fullname: u.Fullname,
		Email:    u.Email,
		Phone:    u.Phone,
		Role:     u.Role,
	}
}
