package middleware

import (
	"net/http"
	"strings"

	"ecofood/pkg/jwtutil"
	"ecofood/pkg/logger"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// JWTAuth validates the bearer token and stores the session identity in the
// context
func JWTAuth(jwtUtil *jwtutil.JWTUtil) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			log := logger.FromContext(c)

			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				log.Warn("Missing Authorization header")
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing authorization token"})
			}

			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
				log.Warn("Invalid Authorization header format")
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid authorization format, expected Bearer token"})
			}

			claims, err := jwtUtil.ValidateToken(parts[1])
			if err != nil {
				log.Error("Invalid JWT token", zap.Error(err))
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid or expired token"})
			}

			c.Set("user_id", claims.UserID)
			c.Set("email", claims.Email)
			c.Set("role", claims.Role)
			if claims.CompanyID != nil {
				c.Set("company_id", *claims.CompanyID)
			}

			return next(c)
		}
	}
}

// RequireRoles gates a route group to the allowed roles. The session must
// already have been resolved by JWTAuth; a missing session is unauthorized
// and a role outside the allowed set is forbidden.
func RequireRoles(roles ...string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			log := logger.FromContext(c)

			role, ok := c.Get("role").(string)
			if !ok || role == "" {
				log.Warn("Request has no resolved session role")
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication required"})
			}

			for _, allowed := range roles {
				if role == allowed {
					return next(c)
				}
			}

			log.Warn("Role not allowed for this route",
				zap.String("role", role),
				zap.Strings("allowed", roles))
			return c.JSON(http.StatusForbidden, echo.Map{"error": "insufficient permissions"})
		}
	}
}

// ActorFromContext rebuilds the acting identity from the session values set
// by JWTAuth
func ActorFromContext(c echo.Context) (userID uint, role string, companyID *uint) {
	userID, _ = c.Get("user_id").(uint)
	role, _ = c.Get("role").(string)
	if id, ok := c.Get("company_id").(uint); ok {
		companyID = &id
	}
	return userID, role, companyID
}
