package middleware

import (
	"log/slog"
	"net/http"
	"strings"

	"parkshare/internal/domain/user"
	"parkshare/internal/handler/httperr"
	"parkshare/internal/pkg/cookie"
	"parkshare/internal/pkg/errs"
	"parkshare/internal/pkg/jwt"
	"parkshare/internal/usecase/shared"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

var (
	ErrUnauthenticated  = errs.New("access token required")
	ErrInvalidToken     = errs.New("invalid or expired token")
	ErrInsufficientRole = errs.Mark(errs.New("insufficient role"), errs.ErrAuthorization)
	errMissingAuthChain = errs.New("role check used without RequireAuth")
)

const bearerPrefix = "Bearer "

type TokenValidator interface {
	ValidateToken(token string) (*jwt.Claims, error)
}

type AuthMiddleware struct {
	tokenValidator TokenValidator
	logger         *slog.Logger
}

const (
	ctxUserIDKey   = "user_id"
	ctxUserRoleKey = "user_role"
)

func NewAuthMiddleware(tokenValidator TokenValidator, logger *slog.Logger) *AuthMiddleware {
	return &AuthMiddleware{
		tokenValidator: tokenValidator,
		logger:         logger,
	}
}

func (m *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := extractToken(c)
		if token == "" {
			abortUnauthorized(c, ErrUnauthenticated)
			return
		}

		claims, err := m.tokenValidator.ValidateToken(token)
		if err != nil {
			m.logger.WarnContext(c.Request.Context(), "token validation failed", "error", err.Error())
			abortUnauthorized(c, errs.Wrap(ErrInvalidToken, err.Error()))
			return
		}
		role, err := user.NewRole(claims.Role)
		if err != nil {
			abortUnauthorized(c, errs.Wrap(ErrInvalidToken, err.Error()))
			return
		}

		setIdentity(c, claims.UserID, role)
		c.Next()
	}
}

func (m *AuthMiddleware) RequireRoleAtLeast(minRole user.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		role, ok := GetUserRole(c)
		if !ok {
			// should be used after RequireAuth()
			httperr.AbortWithError(c, http.StatusInternalServerError, errMissingAuthChain, "Internal server error", nil)
			return
		}

		if !role.AtLeast(minRole) {
			httperr.Abort(c, errs.Wrapf(ErrInsufficientRole, "%s below %s", role, minRole))
			return
		}

		c.Next()
	}
}

// OptionalAuth authenticates the request if a token is present, but does not abort on failure.
func (m *AuthMiddleware) OptionalAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := extractToken(c)
		if token == "" {
			c.Next()
			return
		}

		claims, err := m.tokenValidator.ValidateToken(token)
		if err == nil {
			if role, roleErr := user.NewRole(claims.Role); roleErr == nil {
				setIdentity(c, claims.UserID, role)
			}
		}
		c.Next()
	}
}

func extractToken(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if strings.HasPrefix(authHeader, bearerPrefix) {
		return strings.TrimSpace(authHeader[len(bearerPrefix):])
	}
	return cookie.GetAccessToken(c)
}

func setIdentity(c *gin.Context, userID uuid.UUID, role user.Role) {
	c.Set(ctxUserIDKey, userID)
	c.Set(ctxUserRoleKey, role)
	c.Set("jwt_claims", map[string]any{
		"user_id": userID.String(),
		"role":    string(role),
	})
}

func abortUnauthorized(c *gin.Context, err error) {
	msg := "Invalid or expired token"
	if errs.Is(err, ErrUnauthenticated) {
		msg = "Access token required"
	}
	httperr.AbortWithError(c, http.StatusUnauthorized, err, msg, nil)
}

func GetUserID(c *gin.Context) (uuid.UUID, bool) {
	userID, exists := c.Get(ctxUserIDKey)
	if !exists {
		return uuid.Nil, false
	}

	id, ok := userID.(uuid.UUID)
	return id, ok
}

func GetUserRole(c *gin.Context) (user.Role, bool) {
	userRole, exists := c.Get(ctxUserRoleKey)
	if !exists {
		return "", false
	}

	role, ok := userRole.(user.Role)
	return role, ok
}

// GetActor returns the authenticated caller as a command actor.
func GetActor(c *gin.Context) (shared.Actor, bool) {
	id, ok := GetUserID(c)
	if !ok {
		return shared.Actor{}, false
	}
	role, ok := GetUserRole(c)
	if !ok {
		return shared.Actor{}, false
	}
	return shared.Actor{ID: id, Role: role}, true
}
