package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"shopez/services"

	"github.com/gin-gonic/gin"
)

const (
	actorKey = "actor"
	tokenKey = "token"
)

type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*services.Actor, error)
}

func bearerToken(c *gin.Context) string {
	h := strings.TrimSpace(c.GetHeader("Authorization"))
	if len(h) > 7 && strings.EqualFold(h[:7], "Bearer ") {
		return strings.TrimSpace(h[7:])
	}
	return h
}

func abort(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, gin.H{"success": false, "message": message})
}

// AuthMiddleware rejects requests without a valid, unrevoked bearer token
// and stores the caller on the context.
func AuthMiddleware(authn Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			abort(c, http.StatusUnauthorized, "Token required")
			return
		}

		actor, err := authn.Authenticate(c.Request.Context(), token)
		if err != nil {
			var unauth *services.UnauthorizedError
			if errors.As(err, &unauth) {
				abort(c, http.StatusUnauthorized, unauth.Message)
				return
			}
			_ = c.Error(err)
			abort(c, http.StatusInternalServerError, "Internal server error")
			return
		}

		c.Set(actorKey, *actor)
		c.Set(tokenKey, token)
		c.Next()
	}
}

func AdminMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, ok := ActorFrom(c)
		if !ok || !actor.IsAdmin() {
			abort(c, http.StatusForbidden, "Access denied: admin only")
			return
		}
		c.Next()
	}
}

// ActorFrom returns the caller stored by AuthMiddleware.
func ActorFrom(c *gin.Context) (services.Actor, bool) {
	v, ok := c.Get(actorKey)
	if !ok {
		return services.Actor{}, false
	}
	actor, ok := v.(services.Actor)
	return actor, ok
}

func TokenFrom(c *gin.Context) string {
	return c.GetString(tokenKey)
}
