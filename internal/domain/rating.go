package domain

import (
	"context"
	"time"
)

const (
	RatingMin = 1
	RatingMax = 5
)

type Rating struct {
	UserID    uint64    `json:"user_id"`
	StoreID   uint64    `json:"store_id"`
	Value     int       `json:"rating"`
	UpdatedAt time.Time `json:"updated_at"`
}

func ValidateRating(v int) error {
	if v < RatingMin || v > RatingMax {
		return Validation("rating must be between 1 and 5")
	}
	return nil
}

// RatingRepository.Upsert must be a single atomic "insert, or update if
// (user_id, store_id) exists" statement.
type RatingRepository interface {
	Upsert(ctx context.Context, r *Rating) error
	Find(ctx context.Context, userID, storeID uint64) (*Rating, error)
	ListByUser(ctx context.Context, userID uint64) ([]Rating, error)
	Count(ctx context.Context) (int64, error)
}

// Stats backs the admin dashboard counters.
type Stats struct {
	Users   int64 `json:"users"`
	Stores  int64 `json:"stores"`
	Ratings int64 `json:"ratings"`
}
