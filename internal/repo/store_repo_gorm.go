package repo

import (
	"context"

	"gorm.io/gorm"

	"store-rating/internal/domain"
	"store-rating/internal/feature/store"
)

type StoreRepo struct{ db *gorm.DB }

func NewStoreRepo(db *gorm.DB) *StoreRepo { return &StoreRepo{db: db} }

var _ domain.StoreRepository = (*StoreRepo)(nil)

func (r *StoreRepo) Create(ctx context.Context, s *domain.Store) error {
	m := store.FromDomain(s)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return domain.Storage("create store failed", err)
	}
	s.ID = m.ID
	return nil
}

func (r *StoreRepo) Exists(ctx context.Context, id uint64) (bool, error) {
	var n int64
	if err := r.db.WithContext(ctx).Model(&store.StoreModel{}).Where("id = ?", id).Count(&n).Error; err != nil {
		return false, domain.Storage("load store failed", err)
	}
	return n > 0, nil
}

type aggregateRow struct {
	ID          uint64
	Name        string
	Email       string
	Address     string
	AvgRating   *float64
	RatingCount int64
}

// ListWithAggregateRating left-joins ratings so stores without any keep a
// NULL average.
func (r *StoreRepo) ListWithAggregateRating(ctx context.Context) ([]domain.StoreWithRating, error) {
	var rows []aggregateRow
	err := r.db.WithContext(ctx).
		Table("stores AS s").
		Select("s.id, s.name, s.email, s.address, AVG(r.rating) AS avg_rating, COUNT(r.store_id) AS rating_count").
		Joins("LEFT JOIN ratings r ON r.store_id = s.id").
		Group("s.id, s.name, s.email, s.address").
		Order("s.id").
		Scan(&rows).Error
	if err != nil {
		return nil, domain.Storage("list stores failed", err)
	}
	out := make([]domain.StoreWithRating, 0, len(rows))
	for _, row := range rows {
		out = append(out, domain.StoreWithRating{
			Store:       domain.Store{ID: row.ID, Name: row.Name, Email: row.Email, Address: row.Address},
			AvgRating:   row.AvgRating,
			RatingCount: row.RatingCount,
		})
	}
	return out, nil
}

func (r *StoreRepo) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.WithContext(ctx).Model(&store.StoreModel{}).Count(&n).Error; err != nil {
		return 0, domain.Storage("count stores failed", err)
	}
	return n, nil
}
