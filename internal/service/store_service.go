package service

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"store-rating/internal/core/cache"
	"store-rating/internal/domain"
)

type StoreService struct {
	stores  domain.StoreRepository
	ratings domain.RatingRepository
	cacheDeps
}

func NewStoreService(stores domain.StoreRepository, ratings domain.RatingRepository, c cache.Store, ttl time.Duration, l *zap.Logger) *StoreService {
	return &StoreService{stores: stores, ratings: ratings, cacheDeps: newCacheDeps(c, ttl, l)}
}

type StoreInput struct {
	Name    string
	Email   string
	Address string
}

func (s *StoreService) Create(ctx context.Context, requester domain.Identity, in StoreInput) (uint64, error) {
	if !requester.IsAdmin() {
		return 0, domain.Forbidden("Access denied")
	}
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return 0, domain.Validation("store name is required")
	}
	st := &domain.Store{
		Name:    name,
		Email:   domain.NormalizeEmail(in.Email),
		Address: strings.TrimSpace(in.Address),
	}
	if err := s.stores.Create(ctx, st); err != nil {
		return 0, err
	}
	storesCreatedTotal.Inc()
	s.invalidate(ctx, KeyStoreAggregate, KeyDashboardStats)
	return st.ID, nil
}

// List returns every store with its rating aggregate and, for the viewer,
// their own rating. The aggregate is shared across viewers and cached.
func (s *StoreService) List(ctx context.Context, viewer domain.Identity) ([]domain.StoreWithRating, error) {
	p, err := cache.GetOrLoadJSON(s.c, ctx, KeyStoreAggregate, s.ttl,
		func(ctx context.Context) (*[]domain.StoreWithRating, error) {
			list, err := s.stores.ListWithAggregateRating(ctx)
			if err != nil {
				return nil, err
			}
			return &list, nil
		})
	if err != nil {
		return nil, err
	}
	if p == nil {
		return []domain.StoreWithRating{}, nil
	}
	list := *p
	if viewer.UserID == 0 || len(list) == 0 {
		return list, nil
	}

	mine, err := s.ratings.ListByUser(ctx, viewer.UserID)
	if err != nil {
		return nil, err
	}
	byStore := make(map[uint64]int, len(mine))
	for _, r := range mine {
		byStore[r.StoreID] = r.Value
	}
	for i := range list {
		list[i].MyRating = nil
		if v, ok := byStore[list[i].ID]; ok {
			v := v
			list[i].MyRating = &v
		}
	}
	return list, nil
}
