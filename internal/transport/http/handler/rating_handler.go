package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"store-rating/internal/domain"
	"store-rating/internal/service"
	httpez "store-rating/internal/transport/http/ez"
	"store-rating/internal/transport/http/router"
)

type RatingHandler struct{ ratings *service.RatingService }

func NewRatingHandler(ratings *service.RatingService) *RatingHandler {
	return &RatingHandler{ratings: ratings}
}

type ratingIn struct {
	StoreID uint64 `json:"storeId" binding:"required"`
	Rating  int    `json:"rating"`
}

func (h *RatingHandler) MountAPI(rt router.Routes) {
	ez := httpez.New(rt.Authed)

	httpez.RegisterAction(ez, httpez.Action[ratingIn, struct{}]{
		Method: http.MethodPost,
		Path:   "/ratings",
		Binder: httpez.BindJSON,
		Auth:   true,
		Msg:    "Rating submitted",
		Handler: func(c *gin.Context, in *ratingIn) (struct{}, error) {
			return struct{}{}, h.ratings.Upsert(c.Request.Context(), httpez.Identity(c), in.StoreID, in.Rating)
		},
	})

	httpez.RegisterAction(ez, httpez.Action[struct{}, []domain.Rating]{
		Method: http.MethodGet,
		Path:   "/ratings/mine",
		Binder: httpez.BindNone,
		Auth:   true,
		Handler: func(c *gin.Context, _ *struct{}) ([]domain.Rating, error) {
			return h.ratings.Mine(c.Request.Context(), httpez.Identity(c))
		},
	})
}
