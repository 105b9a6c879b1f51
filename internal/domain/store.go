package domain

import "context"

type Store struct {
	ID      uint64 `json:"id"`
	Name    string `json:"name"`
	Email   string `json:"email"`
	Address string `json:"address"`
}

// StoreWithRating is a store row joined with its rating aggregate.
// AvgRating is nil when the store has no ratings yet.
type StoreWithRating struct {
	Store
	AvgRating   *float64 `json:"avg_rating"`
	RatingCount int64    `json:"rating_count"`
	MyRating    *int     `json:"my_rating,omitempty"`
}

type StoreRepository interface {
	Create(ctx context.Context, s *Store) error
	Exists(ctx context.Context, id uint64) (bool, error)
	ListWithAggregateRating(ctx context.Context) ([]StoreWithRating, error)
	Count(ctx context.Context) (int64, error)
}
