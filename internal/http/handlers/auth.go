package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	intconfig "github.com/quirkbeesdevtech/amberisle-be/internal/config"
	"github.com/quirkbeesdevtech/amberisle-be/internal/http/middleware"
	"github.com/quirkbeesdevtech/amberisle-be/internal/services"
)

type registerRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Fullname string `json:"fullname"`
	Phone    string `json:"phone"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func authService(c *gin.Context, env intconfig.Env) services.AuthService {
	return services.AuthService{
		Env:       env,
		RequestID: middleware.GetRequestID(c),
	}
}

// Register handles POST /api/auth/register. Registration always creates a
// regular user account; the admin mount does not expose it.
func Register(env intconfig.Env) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req registerRequest
		if !BindJSONOrError(c, &req) {
			return
		}

		user, token, err := authService(c, env).Register(services.RegisterInput{
			Email:    req.Email,
			Password: req.Password,
			Fullname: req.Fullname,
			Phone:    req.Phone,
		})
		if err != nil {
			RespondDomainError(c, err)
			return
		}

		c.JSON(http.StatusCreated, gin.H{
			"message": "User registered successfully",
			"token":   token,
			"user":    user.ToPublic(),
		})
	}
}

// Login handles POST /auth/login for a specific mount role. The same
// handler backs both the user and admin mounts; the role is explicit.
func Login(env intconfig.Env, expectedRole string) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req loginRequest
		if !BindJSONOrError(c, &req) {
			return
		}

		user, token, err := authService(c, env).Login(req.Email, req.Password, expectedRole)
		if err != nil {
			RespondDomainError(c, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"message": "Login successful",
			"token":   token,
			"user":    user.ToPublic(),
		})
	}
}

// Me handles GET /api/auth/me.
func Me(env intconfig.Env) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, err := authService(c, env).CurrentUser(middleware.GetUserID(c))
		if err != nil {
			RespondDomainError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"user": user.ToPublic()})
	}
}

// Logout handles POST /api/auth/logout. Tokens are stateless; the client
// drops its copy.
func Logout(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "Logout successful"})
}
