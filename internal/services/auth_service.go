package services

import (
	"database/sql"
	"errors"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	intconfig "github.com/quirkbeesdevtech/amberisle-be/internal/config"
	intdb "github.com/quirkbeesdevtech/amberisle-be/internal/db"
	"github.com/quirkbeesdevtech/amberisle-be/internal/domain"
	"github.com/quirkbeesdevtech/amberisle-be/internal/domain/models"
	"github.com/quirkbeesdevtech/amberisle-be/internal/repositories"
	"github.com/quirkbeesdevtech/amberisle-be/internal/utils"
)

type AuthService struct {
	UserRepo  repositories.UserRepo
	Env       intconfig.Env
	DB        *sql.DB
	RequestID string
	Now       func() time.Time
}

func (s AuthService) db() *sql.DB {
	if s.DB != nil {
		return s.DB
	}
	return intconfig.DB
}

func (s AuthService) users() repositories.UserRepo {
	if s.UserRepo.DB != nil {
		return s.UserRepo
	}
	return repositories.UserRepo{DB: s.db()}
}

func (s AuthService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// IssueToken signs a bearer token carrying the user identity and role.
func (s AuthService) IssueToken(u models.User) (string, error) {
	claims := jwt.MapClaims{
		"user_id": u.ID,
		"role":    u.Role,
		"exp":     s.now().Add(s.Env.TokenTTL).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.Env.JWTSecret))
}

type RegisterInput struct {
	Email    string
	Password string
	Fullname string
	Phone    string
}

// Register creates a user account with the "user" role. Admin accounts are
// seeded out of band, never through this path.
func (s AuthService) Register(in RegisterInput) (models.User, string, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))
	if email == "" || !strings.Contains(email, "@") {
		return models.User{}, "", domain.ValidationError{Field: "email", Msg: "a valid email is required"}
	}
	if len(in.Password) < 6 {
		return models.User{}, "", domain.ValidationError{Field: "password", Msg: "must be at least 6 characters"}
	}
	if strings.TrimSpace(in.Fullname) == "" {
		return models.User{}, "", domain.ValidationError{Field: "fullname", Msg: "fullname is required"}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return models.User{}, "", domain.InternalError{Err: err}
	}

	user := models.User{
		Fullname:     strings.TrimSpace(in.Fullname),
		Email:        email,
		Phone:        strings.TrimSpace(in.Phone),
		PasswordHash: string(hash),
		Role:         models.RoleUser,
	}

	id, err := s.users().Create(user)
	if err != nil {
		if intdb.IsDuplicate(err) {
			return models.User{}, "", domain.ValidationError{Field: "email", Msg: "user with this email already exists", Err: err}
		}
		return models.User{}, "", domain.InternalError{Err: err}
	}
	user.ID = id

	token, err := s.IssueToken(user)
	if err != nil {
		return models.User{}, "", domain.InternalError{Err: err}
	}

	utils.LogEvent(s.RequestID, "auth", "register", "user_id="+strconv.FormatInt(id, 10))
	return user, token, nil
}

// Login authenticates the credentials for the given mount role. Failed
// password checks count toward the lockout threshold; a locked account
// rejects even a correct password until the window elapses.
func (s AuthService) Login(email, password, expectedRole string) (models.User, string, error) {
	user, err := s.users().GetByEmail(strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.User{}, "", domain.UnauthorizedError{Msg: "Invalid email or password"}
		}
		return models.User{}, "", domain.InternalError{Err: err}
	}

	now := s.now()
	if user.Locked(now) {
		minutes := int(math.Ceil(user.LockUntil.Sub(now).Minutes()))
		return models.User{}, "", domain.LockedError{MinutesLeft: minutes}
	}
	if user.LockUntil != nil {
		// Window elapsed: start counting from zero again.
		if err := s.users().ClearExpiredLock(user.ID); err != nil {
			return models.User{}, "", domain.InternalError{Err: err}
		}
		user.LoginAttempts = 0
		user.LockUntil = nil
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		lockUntil := now.Add(s.Env.LockDuration)
		if err := s.users().RecordFailedLogin(user.ID, s.Env.MaxLoginAttempts, lockUntil); err != nil {
			return models.User{}, "", domain.InternalError{Err: err}
		}
		return models.User{}, "", domain.UnauthorizedError{Msg: "Invalid email or password"}
	}

	if expectedRole != "" && user.Role != expectedRole {
		return models.User{}, "", domain.ForbiddenError{Msg: "account does not have access to this area"}
	}

	if err := s.users().ResetLoginAttempts(user.ID); err != nil {
		return models.User{}, "", domain.InternalError{Err: err}
	}

	token, err := s.IssueToken(user)
	if err != nil {
		return models.User{}, "", domain.InternalError{Err: err}
	}

	utils.LogEvent(s.RequestID, "auth", "login", "user_id="+strconv.FormatInt(user.ID, 10))
	return user, token, nil
}

// CurrentUser resolves the token subject back to its account.
func (s AuthService) CurrentUser(userID int64) (models.User, error) {
	user, err := s.users().GetByID(userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.User{}, domain.NotFoundError{Resource: "user", Err: err}
		}
		return models.User{}, domain.InternalError{Err: err}
	}
	return user, nil
}
