package handler

import (
	"net/http"
	"time"

	"procurement-service/internal/model"
	"procurement-service/pkg/database"
	"procurement-service/pkg/jwtutil"
	"procurement-service/pkg/logger"
	"procurement-service/prometheus"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// LoginRequest defines the structure for login requests
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// Login verifies the user's credentials, resolves the capability set for the
// user's role once, and issues a JWT carrying it.
func Login(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.AuthAttemptsCounter.Inc()

	var req LoginRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	defer prometheus.TrackDBOperation("query")(time.Now())
	var user model.User
	if err := database.GetDB().Where("email = ? AND is_active = ?", req.Email, true).First(&user).Error; err != nil {
		log.Warn("Login failed: user not found", zap.String("email", req.Email))
		prometheus.AuthErrorsCounter.Inc()
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		log.Warn("Login failed: bad password", zap.String("email", req.Email))
		prometheus.AuthErrorsCounter.Inc()
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
	}

	permissions := model.PermissionsForRole(user.Role)
	token, err := jwtutil.GenerateToken(user.ID, user.Email, user.Name, user.Role, permissions)
	if err != nil {
		log.Error("Failed to sign token", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to issue token"})
	}

	prometheus.AuthSuccessCounter.Inc()
	log.Info("User logged in",
		zap.Uint("user_id", user.ID),
		zap.String("role", user.Role),
		zap.Int("permissions", len(permissions)))

	return c.JSON(http.StatusOK, echo.Map{
		"token":       token,
		"user":        user,
		"permissions": permissions,
	})
}

// Me returns the authenticated user's identity and capability set.
func Me(c echo.Context) error {
	claims, ok := c.Get("claims").(*jwtutil.UserClaims)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication required"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"user_id":     claims.UserID,
		"email":       claims.Email,
		"name":        claims.Name,
		"role":        claims.Role,
		"permissions": claims.Permissions,
	})
}
