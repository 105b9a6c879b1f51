package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"store-rating/internal/core/auth"
	"store-rating/internal/domain"
	resp "store-rating/internal/transport/http/response"
)

// KeyIdentity is the gin context key holding the caller's domain.Identity.
const KeyIdentity = "identity"

// TokenParser is satisfied by *auth.JWTer.
type TokenParser interface {
	Parse(token string) (*auth.Claims, error)
}

// Authenticate reads the Authorization header as either "Bearer <jwt>" or the
// bare token. A missing token is 403, an unusable one 401.
func Authenticate(p TokenParser) gin.HandlerFunc {
	return func(c *gin.Context) {
		tok := bearer(c.GetHeader("Authorization"))
		if tok == "" {
			resp.Abort(c, resp.CodeForbidden, "Token required")
			return
		}
		claims, err := p.Parse(tok)
		if err != nil {
			resp.Abort(c, resp.CodeUnauthorized, "Invalid Token")
			return
		}
		role := domain.Role(claims.Role)
		if claims.UID == 0 || !role.Valid() {
			resp.Abort(c, resp.CodeUnauthorized, "Invalid Token")
			return
		}
		c.Set(KeyIdentity, domain.Identity{UserID: claims.UID, Role: role})
		c.Next()
	}
}

func bearer(h string) string {
	h = strings.TrimSpace(h)
	if len(h) > 7 && strings.EqualFold(h[:7], "bearer ") {
		return strings.TrimSpace(h[7:])
	}
	return h
}

// RequireRole must run after Authenticate.
func RequireRole(roles ...domain.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := IdentityFrom(c)
		if !ok {
			resp.Abort(c, resp.CodeForbidden, "Token required")
			return
		}
		for _, r := range roles {
			if id.Role == r {
				c.Next()
				return
			}
		}
		resp.Abort(c, resp.CodeForbidden, "Access denied")
	}
}

func IdentityFrom(c *gin.Context) (domain.Identity, bool) {
	v, ok := c.Get(KeyIdentity)
	if !ok {
		return domain.Identity{}, false
	}
	id, ok := v.(domain.Identity)
	return id, ok
}
