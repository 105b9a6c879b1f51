package repo

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"store-rating/internal/domain"
	"store-rating/internal/feature/rating"
)

type RatingRepo struct{ db *gorm.DB }

func NewRatingRepo(db *gorm.DB) *RatingRepo { return &RatingRepo{db: db} }

var _ domain.RatingRepository = (*RatingRepo)(nil)

// Upsert is one INSERT ... ON CONFLICT (user_id, store_id) DO UPDATE
// statement (ON DUPLICATE KEY UPDATE on MySQL), so concurrent writers for the
// same pair serialize on the primary key and the last one wins.
func (r *RatingRepo) Upsert(ctx context.Context, rt *domain.Rating) error {
	m := rating.RatingModel{UserID: rt.UserID, StoreID: rt.StoreID, Value: rt.Value}
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "store_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"rating", "updated_at"}),
	}).Create(&m).Error
	if err != nil {
		return domain.Storage("save rating failed", err)
	}
	rt.UpdatedAt = m.UpdatedAt
	return nil
}

func (r *RatingRepo) Find(ctx context.Context, userID, storeID uint64) (*domain.Rating, error) {
	var m rating.RatingModel
	err := r.db.WithContext(ctx).First(&m, "user_id = ? AND store_id = ?", userID, storeID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, domain.Storage("load rating failed", err)
	}
	out := m.ToDomain()
	return &out, nil
}

func (r *RatingRepo) ListByUser(ctx context.Context, userID uint64) ([]domain.Rating, error) {
	var ms []rating.RatingModel
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).Order("store_id").Find(&ms).Error; err != nil {
		return nil, domain.Storage("list ratings failed", err)
	}
	out := make([]domain.Rating, 0, len(ms))
	for i := range ms {
		out = append(out, ms[i].ToDomain())
	}
	return out, nil
}

func (r *RatingRepo) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.WithContext(ctx).Model(&rating.RatingModel{}).Count(&n).Error; err != nil {
		return 0, domain.Storage("count ratings failed", err)
	}
	return n, nil
}
