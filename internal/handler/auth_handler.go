package handler

import (
	"net/http"
	"time"

	"kavalife-erp/internal/model"
	"kavalife-erp/pkg/config"
	"kavalife-erp/pkg/database"
	"kavalife-erp/pkg/jwtutil"
	"kavalife-erp/pkg/logger"
	"kavalife-erp/prometheus"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

var authConfig *config.JWTConfig

// InitAuthHandler initializes the auth handlers with configuration
func InitAuthHandler(cfg *config.Config) {
	authConfig = &cfg.JWT
}

// LoginRequest is the credential payload for session login
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// Login authenticates a user and issues the session cookie
func Login(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.AuthAttemptsCounter.Inc()

	var req LoginRequest
	if err := c.Bind(&req); err != nil {
		log.Error("Invalid request data", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid request data"})
	}
	if err := c.Validate(&req); err != nil {
		log.Warn("Missing login credentials", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "username and password are required"})
	}

	// Track DB operations
	defer prometheus.TrackDBOperation("query")(time.Now())

	var user model.User
	if err := database.GetDB().Where("username = ?", req.Username).First(&user).Error; err != nil {
		log.Warn("Unknown username", zap.String("username", req.Username))
		prometheus.AuthErrorsCounter.Inc()
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
	}

	if !user.CheckPassword(req.Password) {
		log.Warn("Wrong password", zap.String("username", req.Username))
		prometheus.AuthErrorsCounter.Inc()
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
	}

	token, err := jwtutil.GenerateToken(user.ID, user.Username, string(user.Role))
	if err != nil {
		log.Error("Failed to generate session token", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to create session"})
	}

	c.SetCookie(&http.Cookie{
		Name:     jwtutil.CookieName(),
		Value:    token,
		Path:     "/",
		Expires:  time.Now().Add(authConfig.ExpirationTime),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	prometheus.AuthSuccessCounter.Inc()
	log.Info("User logged in",
		zap.Uint("user_id", user.ID),
		zap.String("username", user.Username),
		zap.String("role", string(user.Role)))
	return c.JSON(http.StatusOK, echo.Map{"data": user})
}

// Logout clears the session cookie
func Logout(c echo.Context) error {
	log := logger.FromContext(c)

	c.SetCookie(&http.Cookie{
		Name:     jwtutil.CookieName(),
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	log.Info("User logged out")
	return c.JSON(http.StatusOK, echo.Map{"message": "logged out"})
}

// CheckUser returns the currently authenticated user, used by the frontend
// to validate an existing session on page load
func CheckUser(c echo.Context) error {
	log := logger.FromContext(c)

	userID, ok := c.Get("user_id").(uint)
	if !ok {
		log.Error("Failed to get user ID from context")
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication required"})
	}

	// Track DB operations
	defer prometheus.TrackDBOperation("query")(time.Now())

	var user model.User
	if err := database.GetDB().First(&user, userID).Error; err != nil {
		log.Warn("Session user no longer exists", zap.Uint("user_id", userID))
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid session"})
	}

	return c.JSON(http.StatusOK, echo.Map{"data": user})
}
