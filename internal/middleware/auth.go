package middleware

import (
	"net/http"
	"strings"

	"kavalife-erp/pkg/jwtutil"
	"kavalife-erp/pkg/logger"
	"kavalife-erp/prometheus"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// AuthMiddleware verifies the session cookie and extracts the user claims.
// A Bearer token in the Authorization header is accepted as a fallback for
// non-browser clients.
func AuthMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		log := logger.FromContext(c)

		// Track authentication attempts
		prometheus.AuthAttemptsCounter.Inc()

		tokenString := ""
		if cookie, err := c.Cookie(jwtutil.CookieName()); err == nil {
			tokenString = cookie.Value
		}

		if tokenString == "" {
			header := c.Request().Header.Get("Authorization")
			if len(header) > 7 && strings.ToUpper(header[0:7]) == "BEARER " {
				tokenString = header[7:]
			}
		}

		if tokenString == "" {
			log.Warn("Missing session credentials")
			prometheus.AuthErrorsCounter.Inc()
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication required"})
		}

		// Validate the token
		claims, err := jwtutil.ValidateToken(tokenString)
		if err != nil {
			log.Warn("Invalid session token", zap.Error(err))
			prometheus.AuthErrorsCounter.Inc()
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid session"})
		}

		// Increment successful auth counter
		prometheus.AuthSuccessCounter.Inc()

		// Store user information in the context
		c.Set("user_id", claims.UserID)
		c.Set("username", claims.Username)
		c.Set("role", claims.Role)

		// Update logger with user information
		log = log.With(
			zap.Uint("user_id", claims.UserID),
			zap.String("username", claims.Username),
			zap.String("role", claims.Role),
		)
		c.Set("logger", log)

		// Call the next handler
		return next(c)
	}
}

// RequireRole restricts a route group to the given roles
func RequireRole(roles ...string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			log := logger.FromContext(c)

			role, ok := c.Get("role").(string)
			if !ok {
				log.Warn("Missing role in session context")
				return c.JSON(http.StatusForbidden, echo.Map{"error": "insufficient permissions"})
			}

			for _, allowed := range roles {
				if role == allowed {
					return next(c)
				}
			}

			log.Warn("Role not permitted for this resource", zap.String("role", role))
			return c.JSON(http.StatusForbidden, echo.Map{"error": "insufficient permissions"})
		}
	}
}
