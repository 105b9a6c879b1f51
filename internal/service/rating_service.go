package service

import (
	"context"

	"go.uber.org/zap"

	"store-rating/internal/core/cache"
	"store-rating/internal/domain"
)

type RatingService struct {
	ratings domain.RatingRepository
	stores  domain.StoreRepository
	cacheDeps
}

func NewRatingService(ratings domain.RatingRepository, stores domain.StoreRepository, c cache.Store, l *zap.Logger) *RatingService {
	return &RatingService{ratings: ratings, stores: stores, cacheDeps: newCacheDeps(c, 0, l)}
}

// Upsert records requester's rating for storeID, replacing any earlier one.
func (s *RatingService) Upsert(ctx context.Context, requester domain.Identity, storeID uint64, value int) error {
	if requester.UserID == 0 {
		return domain.Unauthorized("Invalid Token")
	}
	if err := domain.ValidateRating(value); err != nil {
		return err
	}
	if storeID == 0 {
		return domain.Validation("storeId is required")
	}
	ok, err := s.stores.Exists(ctx, storeID)
	if err != nil {
		return err
	}
	if !ok {
		return domain.NotFound("store not found")
	}
	r := &domain.Rating{UserID: requester.UserID, StoreID: storeID, Value: value}
	if err := s.ratings.Upsert(ctx, r); err != nil {
		return err
	}
	ratingsSubmittedTotal.Inc()
	s.log.Debug("rating saved",
		zap.Uint64("user", requester.UserID), zap.Uint64("store", storeID), zap.Int("rating", value))
	s.invalidate(ctx, KeyStoreAggregate, KeyDashboardStats)
	return nil
}

func (s *RatingService) Mine(ctx context.Context, requester domain.Identity) ([]domain.Rating, error) {
	if requester.UserID == 0 {
		return nil, domain.Unauthorized("Invalid Token")
	}
	return s.ratings.ListByUser(ctx, requester.UserID)
}
