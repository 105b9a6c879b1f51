package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"store-rating/internal/domain"
	"store-rating/internal/service"
	httpez "store-rating/internal/transport/http/ez"
	"store-rating/internal/transport/http/router"
)

type StoreHandler struct{ stores *service.StoreService }

func NewStoreHandler(stores *service.StoreService) *StoreHandler {
	return &StoreHandler{stores: stores}
}

type storeIn struct {
	Name    string `json:"name"    binding:"required"`
	Email   string `json:"email"   binding:"omitempty,email"`
	Address string `json:"address"`
}

func (h *StoreHandler) list(c *gin.Context, _ *struct{}) ([]domain.StoreWithRating, error) {
	return h.stores.List(c.Request.Context(), httpez.Identity(c))
}

func (h *StoreHandler) MountAPI(rt router.Routes) {
	httpez.RegisterAction(httpez.New(rt.Authed), httpez.Action[struct{}, []domain.StoreWithRating]{
		Method:  http.MethodGet,
		Path:    "/stores",
		Binder:  httpez.BindNone,
		Auth:    true,
		Handler: h.list,
	})

	httpez.RegisterAction(httpez.New(rt.Admin), httpez.Action[storeIn, idOut]{
		Method: http.MethodPost,
		Path:   "/stores",
		Binder: httpez.BindJSON,
		Auth:   true,
		Roles:  []domain.Role{domain.RoleAdmin},
		Status: http.StatusCreated,
		Msg:    "Store added",
		Handler: func(c *gin.Context, in *storeIn) (idOut, error) {
			id, err := h.stores.Create(c.Request.Context(), httpez.Identity(c), service.StoreInput{
				Name: in.Name, Email: in.Email, Address: in.Address,
			})
			return idOut{ID: id}, err
		},
	})
}

func (h *StoreHandler) MountAdmin(g *gin.RouterGroup) {
	httpez.RegisterAction(httpez.New(g), httpez.Action[struct{}, []domain.StoreWithRating]{
		Method:  http.MethodGet,
		Path:    "/stores",
		Binder:  httpez.BindNone,
		Auth:    true,
		Roles:   []domain.Role{domain.RoleAdmin},
		Handler: h.list,
	})
}
