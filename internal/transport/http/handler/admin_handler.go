package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"store-rating/internal/domain"
	"store-rating/internal/service"
	httpez "store-rating/internal/transport/http/ez"
)

// AdminHandler serves account management on the admin console only.
type AdminHandler struct{ users *service.UserService }

func NewAdminHandler(users *service.UserService) *AdminHandler { return &AdminHandler{users: users} }

type listUsersQ struct {
	Offset int    `form:"offset,default=0"`
	Limit  int    `form:"limit,default=20"`
	Q      string `form:"q"` // substring of email or name
}

func (h *AdminHandler) MountAdmin(g *gin.RouterGroup) {
	ez := httpez.New(g)
	admins := []domain.Role{domain.RoleAdmin}

	httpez.RegisterAction(ez, httpez.Action[listUsersQ, service.UserPage]{
		Method: http.MethodGet,
		Path:   "/users",
		Binder: httpez.BindQuery,
		Auth:   true,
		Roles:  admins,
		Handler: func(c *gin.Context, in *listUsersQ) (service.UserPage, error) {
			return h.users.List(c.Request.Context(), httpez.Identity(c), in.Q, in.Offset, in.Limit)
		},
	})

	httpez.RegisterAction(ez, httpez.Action[signupIn, idOut]{
		Method: http.MethodPost,
		Path:   "/admins",
		Binder: httpez.BindJSON,
		Auth:   true,
		Roles:  admins,
		Status: http.StatusCreated,
		Handler: func(c *gin.Context, in *signupIn) (idOut, error) {
			id, err := h.users.CreateAdmin(c.Request.Context(), httpez.Identity(c), service.SignupInput{
				Name: in.Name, Email: in.Email, Password: in.Password, Address: in.Address,
			})
			return idOut{ID: id}, err
		},
	})
}
