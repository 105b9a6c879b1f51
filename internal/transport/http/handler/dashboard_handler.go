package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"store-rating/internal/domain"
	"store-rating/internal/service"
	httpez "store-rating/internal/transport/http/ez"
	"store-rating/internal/transport/http/router"
)

type DashboardHandler struct{ dashboard *service.DashboardService }

func NewDashboardHandler(d *service.DashboardService) *DashboardHandler {
	return &DashboardHandler{dashboard: d}
}

func (h *DashboardHandler) stats() httpez.Action[struct{}, domain.Stats] {
	return httpez.Action[struct{}, domain.Stats]{
		Method: http.MethodGet,
		Binder: httpez.BindNone,
		Auth:   true,
		Roles:  []domain.Role{domain.RoleAdmin},
		Handler: func(c *gin.Context, _ *struct{}) (domain.Stats, error) {
			return h.dashboard.Stats(c.Request.Context(), httpez.Identity(c))
		},
	}
}

func (h *DashboardHandler) MountAPI(rt router.Routes) {
	a := h.stats()
	a.Path = "/dashboard/stats"
	httpez.RegisterAction(httpez.New(rt.Admin), a)
}

func (h *DashboardHandler) MountAdmin(g *gin.RouterGroup) {
	a := h.stats()
	a.Path = "/stats"
	httpez.RegisterAction(httpez.New(g), a)
}
