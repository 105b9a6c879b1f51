package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"store-rating/internal/core/cache"
	"store-rating/internal/domain"
)

type DashboardService struct {
	users   domain.UserRepository
	stores  domain.StoreRepository
	ratings domain.RatingRepository
	cacheDeps
}

func NewDashboardService(users domain.UserRepository, stores domain.StoreRepository, ratings domain.RatingRepository, c cache.Store, ttl time.Duration, l *zap.Logger) *DashboardService {
	return &DashboardService{users: users, stores: stores, ratings: ratings, cacheDeps: newCacheDeps(c, ttl, l)}
}

func (s *DashboardService) Stats(ctx context.Context, requester domain.Identity) (domain.Stats, error) {
	if !requester.IsAdmin() {
		return domain.Stats{}, domain.Forbidden("Access denied")
	}
	p, err := cache.GetOrLoadJSON(s.c, ctx, KeyDashboardStats, s.ttl, s.count)
	if err != nil {
		return domain.Stats{}, err
	}
	if p == nil {
		return domain.Stats{}, nil
	}
	return *p, nil
}

func (s *DashboardService) count(ctx context.Context) (*domain.Stats, error) {
	var (
		st  domain.Stats
		err error
	)
	if st.Users, err = s.users.Count(ctx); err != nil {
		return nil, err
	}
	if st.Stores, err = s.stores.Count(ctx); err != nil {
		return nil, err
	}
	if st.Ratings, err = s.ratings.Count(ctx); err != nil {
		return nil, err
	}
	return &st, nil
}
