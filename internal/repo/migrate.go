package repo

import (
	"gorm.io/gorm"

	"store-rating/internal/feature/rating"
	"store-rating/internal/feature/store"
	"store-rating/internal/feature/user"
)

// AutoMigrate creates or updates the users, stores and ratings tables.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&user.UserModel{},
		&store.StoreModel{},
		&rating.RatingModel{},
	)
}
