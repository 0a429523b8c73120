package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"shipdesk/internal/domain"
	"shipdesk/internal/service"
)

// ContextKeySession is the single context key under which per-request
// identity lives. Handlers read the whole Session instead of picking
// individual claims out of the context.
const ContextKeySession = "session"

// AuthMiddleware returns Gin middleware that validates JWT tokens and
// builds the request's Session from the claims.
func AuthMiddleware(authService service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"error":   gin.H{"code": "UNAUTHORIZED", "message": "missing or invalid authorization header"},
			})
			return
		}

		claims, err := authService.ValidateToken(token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"error":   gin.H{"code": "UNAUTHORIZED", "message": "invalid or expired token"},
			})
			return
		}

		c.Set(ContextKeySession, domain.Session{
			UserID:  claims.UserID,
			Email:   claims.Email,
			Name:    claims.Name,
			Company: claims.Company,
			Role:    domain.NormalizeRole(string(claims.Role)),
		})
		c.Next()
	}
}

func bearerToken(c *gin.Context) (string, bool) {
	const prefix = "Bearer "
	h := c.GetHeader("Authorization")
	if len(h) <= len(prefix) || h[:len(prefix)] != prefix {
		return "", false
	}
	return h[len(prefix):], true
}

// GetSession extracts the Session from the Gin context.
func GetSession(c *gin.Context) (domain.Session, error) {
	val, exists := c.Get(ContextKeySession)
	if !exists {
		return domain.Session{}, domain.ErrUnauthorized
	}
	sess, ok := val.(domain.Session)
	if !ok {
		return domain.Session{}, domain.ErrUnauthorized
	}
	return sess, nil
}

// RequireRole returns middleware that checks the session role against
// allowed roles.
func RequireRole(roles ...domain.UserRole) gin.HandlerFunc {
	return func(c *gin.Context) {
		sess, err := GetSession(c)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"success": false,
				"error":   gin.H{"code": "FORBIDDEN", "message": "session not found in context"},
			})
			return
		}

		for _, r := range roles {
			if sess.Role == r {
				c.Next()
				return
			}
		}

		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
			"success": false,
			"error":   gin.H{"code": "FORBIDDEN", "message": "insufficient permissions"},
		})
	}
}
