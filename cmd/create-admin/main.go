package main

import (
	"database/sql"
	"errors"
	"flag"
	"log"
	"strings"

	"golang.org/x/crypto/bcrypt"

	intconfig "github.com/quirkbeesdevtech/amberisle-be/internal/config"
	intdb "github.com/quirkbeesdevtech/amberisle-be/internal/db"
	"github.com/quirkbeesdevtech/amberisle-be/internal/domain/models"
	"github.com/quirkbeesdevtech/amberisle-be/internal/repositories"
)

// Seeds (or refreshes) the admin account so a fresh deployment has a way
// into the console. Existing accounts with the given email are promoted and
// their password reset.
func main() {
	var (
		email    = flag.String("email", "admin@gmail.com", "admin email")
		password = flag.String("password", "Admin@1234", "admin password")
		name     = flag.String("name", "Administrator", "admin display name")
	)
	flag.Parse()

	env := intconfig.LoadEnv()
	conn := intconfig.ConnectDB(env)
	defer intconfig.CloseDB()

	if err := intdb.EnsureSchema(conn); err != nil {
		log.Fatalf("failed to ensure schema: %v", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(*password), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("failed to hash password: %v", err)
	}

	repo := repositories.UserRepo{DB: conn}
	normalized := strings.ToLower(strings.TrimSpace(*email))

	existing, err := repo.GetByEmail(normalized)
	switch {
	case err == nil:
		if err := repo.UpdatePasswordAndRole(existing.ID, string(hash), models.RoleAdmin); err != nil {
			log.Fatalf("failed to update admin: %v", err)
		}
		log.Printf("admin account refreshed: %s", normalized)
	case errors.Is(err, sql.ErrNoRows):
		id, err := repo.Create(models.User{
			Fullname:     *name,
			Email:        normalized,
			PasswordHash: string(hash),
			Role:         models.RoleAdmin,
		})
		if err != nil {
			log.Fatalf("failed to create admin: %v", err)
		}
		log.Printf("admin account created: %s (id=%d)", normalized, id)
	default:
		log.Fatalf("failed to look up admin: %v", err)
	}
}
