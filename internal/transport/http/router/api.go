package router

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"store-rating/internal/core/server"
	"store-rating/internal/domain"
	mdw "store-rating/internal/transport/http/middleware"
	resp "store-rating/internal/transport/http/response"
	"store-rating/web"
)

// Options tune the shared request pipeline. Zero values fall back to the
// defaults below.
type Options struct {
	CORSOrigins    []string
	MaxInFlight    int64
	MaxBodyBytes   int64
	RequestTimeout time.Duration
}

func (o Options) withDefaults() Options {
	if o.MaxInFlight <= 0 {
		o.MaxInFlight = 300
	}
	if o.MaxBodyBytes <= 0 {
		o.MaxBodyBytes = 1 << 20
	}
	if o.RequestTimeout <= 0 {
		o.RequestTimeout = 10 * time.Second
	}
	return o
}

func newEngine(l *zap.Logger, o Options) *gin.Engine {
	o = o.withDefaults()
	r := server.NewRouter(o.CORSOrigins)
	r.Use(
		mdw.RequestID(),
		mdw.Metrics(),
		mdw.AccessLog(l),
		mdw.Recovery(l),
		mdw.ConcurrencyLimit(o.MaxInFlight),
		mdw.MaxBodyBytes(o.MaxBodyBytes),
		mdw.Timeout(o.RequestTimeout),
	)
	r.NoRoute(func(c *gin.Context) { resp.Abort(c, resp.CodeNotFound, "") })

	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, resp.OK(gin.H{"ok": 1})) })
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	return r
}

// NewAPIEngine serves the public API at the root, as the browser client
// expects, plus the embedded page under /app/.
func NewAPIEngine(l *zap.Logger, tokens mdw.TokenParser, o Options, reg *Registry) *gin.Engine {
	r := newEngine(l, o)

	r.StaticFS("/app", web.FS())
	r.GET("/", func(c *gin.Context) { c.Redirect(http.StatusFound, "/app/") })

	authed := r.Group("")
	authed.Use(mdw.Authenticate(tokens))
	admin := authed.Group("")
	admin.Use(mdw.RequireRole(domain.RoleAdmin))

	reg.MountAllAPI(Routes{Public: &r.RouterGroup, Authed: authed, Admin: admin})
	return r
}
