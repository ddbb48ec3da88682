package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"todoapi/internal/adapter/http/helper"
	"todoapi/internal/core/domain"
	"todoapi/internal/core/port"
)

const (
	CurrentUserKey = "x-current-user"
	UserIDKey      = "x-user-id"
)

// JwtAuth resolves the bearer token through AuthService.Verify, which
// re-fetches the user, so a deactivated account is cut off immediately even
// while its token is still within TTL.
func JwtAuth(svc port.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		bearer := c.GetHeader("Authorization")

		if bearer == "" {
			helper.SendDomainError(c, domain.ErrTokenInvalid)
			c.Abort()
			return
		}

		if !strings.HasPrefix(bearer, "Bearer ") {
			helper.SendDomainError(c, domain.ErrTokenInvalid)
			c.Abort()
			return
		}

		user, err := svc.Verify(c.Request.Context(), strings.TrimPrefix(bearer, "Bearer "))

		if err != nil {
			helper.SendDomainError(c, err)
			c.Abort()
			return
		}

		c.Set(CurrentUserKey, user)
		c.Set(UserIDKey, user.ID)
		c.Next()
	}
}

// CurrentUser returns the verified caller set by JwtAuth.
func CurrentUser(c *gin.Context) (domain.User, bool) {
	value, ok := c.Get(CurrentUserKey)

	if !ok {
		return domain.User{}, false
	}

	user, ok := value.(domain.User)
	return user, ok
}
