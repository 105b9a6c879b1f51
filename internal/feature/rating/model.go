package rating

import (
	"time"

	"store-rating/internal/domain"
)

// RatingModel is keyed by (user_id, store_id); the upsert relies on it.
type RatingModel struct {
	UserID  uint64 `gorm:"primaryKey;autoIncrement:false"`
	StoreID uint64 `gorm:"primaryKey;autoIncrement:false;index"`
	Value   int    `gorm:"column:rating;not null;check:rating >= 1 AND rating <= 5"`

	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

func (RatingModel) TableName() string { return "ratings" }

func (m *RatingModel) ToDomain() domain.Rating {
	return domain.Rating{UserID: m.UserID, StoreID: m.StoreID, Value: m.Value, UpdatedAt: m.UpdatedAt}
}
