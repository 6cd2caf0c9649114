package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yungbote/studyplan-backend/internal/http/response"
	"github.com/yungbote/studyplan-backend/internal/platform/ctxutil"
	"github.com/yungbote/studyplan-backend/internal/platform/logger"
	"github.com/yungbote/studyplan-backend/internal/services"
)

type AuthMiddleware struct {
	log         *logger.Logger
	authService services.AuthService
}

func NewAuthMiddleware(log *logger.Logger, authService services.AuthService) *AuthMiddleware {
	return &AuthMiddleware{log: log.With("middleware", "AuthMiddleware"), authService: authService}
}

// RequireAuth accepts "Authorization: Bearer <jwt>" and rejects anonymous
// requests with 401.
func (am *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := bearerToken(c)
		if tokenString == "" {
			c.Abort()
			response.RespondError(c, http.StatusUnauthorized, "unauthorized", errMissingToken)
			return
		}
		ctx, err := am.authService.SetContextFromToken(c.Request.Context(), tokenString)
		if err != nil {
			am.log.Debug("token rejected", "error", err.Error(), "path", c.FullPath())
			c.Abort()
			response.RespondError(c, http.StatusUnauthorized, "unauthorized", err)
			return
		}
		if ctxutil.UserID(ctx) == uuid.Nil {
			c.Abort()
			response.RespondError(c, http.StatusUnauthorized, "unauthorized", errMissingToken)
			return
		}
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

type authError string

func (e authError) Error() string { return string(e) }

const errMissingToken = authError("missing or invalid token")

func bearerToken(c *gin.Context) string {
	authHeader := strings.TrimSpace(c.GetHeader("Authorization"))
	if len(authHeader) > 7 && strings.EqualFold(authHeader[:7], "Bearer ") {
		return strings.TrimSpace(authHeader[7:])
	}
	return ""
}
