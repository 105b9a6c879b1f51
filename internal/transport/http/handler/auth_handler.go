package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"store-rating/internal/service"
	httpez "store-rating/internal/transport/http/ez"
	"store-rating/internal/transport/http/router"
)

type AuthHandler struct{ users *service.UserService }

func NewAuthHandler(users *service.UserService) *AuthHandler { return &AuthHandler{users: users} }

func (h *AuthHandler) Priority() int { return 10 }

type signupIn struct {
	Name     string `json:"name"     binding:"required"`
	Email    string `json:"email"    binding:"required,email"`
	Password string `json:"password" binding:"required"`
	Address  string `json:"address"`
}

type idOut struct {
	ID uint64 `json:"id"`
}

type loginIn struct {
	Email    string `json:"email"    binding:"required"`
	Password string `json:"password" binding:"required"`
}

func (h *AuthHandler) MountAPI(rt router.Routes) {
	pub := httpez.New(rt.Public)

	httpez.RegisterAction(pub, httpez.Action[signupIn, idOut]{
		Method: http.MethodPost,
		Path:   "/auth/signup",
		Binder: httpez.BindJSON,
		Status: http.StatusCreated,
		Msg:    "User registered",
		Handler: func(c *gin.Context, in *signupIn) (idOut, error) {
			id, err := h.users.Register(c.Request.Context(), service.SignupInput{
				Name: in.Name, Email: in.Email, Password: in.Password, Address: in.Address,
			})
			return idOut{ID: id}, err
		},
	})

	httpez.RegisterAction(pub, httpez.Action[loginIn, service.LoginResult]{
		Method: http.MethodPost,
		Path:   "/auth/login",
		Binder: httpez.BindJSON,
		Handler: func(c *gin.Context, in *loginIn) (service.LoginResult, error) {
			return h.users.Login(c.Request.Context(), in.Email, in.Password)
		},
	})
}
