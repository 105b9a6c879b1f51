package router

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"store-rating/internal/domain"
	mdw "store-rating/internal/transport/http/middleware"
)

// NewAdminEngine serves the admin console; every route under /admin/v1
// requires the admin role.
func NewAdminEngine(l *zap.Logger, tokens mdw.TokenParser, o Options, reg *Registry) *gin.Engine {
	r := newEngine(l, o)

	admin := r.Group("/admin/v1")
	admin.Use(mdw.Authenticate(tokens), mdw.RequireRole(domain.RoleAdmin))
	reg.MountAllAdmin(admin)
	return r
}
