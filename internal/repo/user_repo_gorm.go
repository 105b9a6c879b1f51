package repo

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"store-rating/internal/domain"
	"store-rating/internal/feature/user"
)

type UserRepo struct{ db *gorm.DB }

func NewUserRepo(db *gorm.DB) *UserRepo { return &UserRepo{db: db} }

var _ domain.UserRepository = (*UserRepo)(nil)

func (r *UserRepo) Create(ctx context.Context, u *domain.User) error {
	m := user.FromDomain(u)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		if isDupKey(err) {
			return domain.Conflict("email already registered")
		}
		return domain.Storage("create user failed", err)
	}
	u.ID = m.ID
	u.CreatedAt = m.CreatedAt
	return nil
}

func (r *UserRepo) FindByID(ctx context.Context, id uint64) (*domain.User, error) {
	return r.first(ctx, "id = ?", id)
}

func (r *UserRepo) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.first(ctx, "email = ?", email)
}

func (r *UserRepo) first(ctx context.Context, query string, arg any) (*domain.User, error) {
	var m user.UserModel
	err := r.db.WithContext(ctx).First(&m, query, arg).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, domain.Storage("load user failed", err)
	}
	return m.ToDomain(), nil
}

func (r *UserRepo) List(ctx context.Context, q string, offset, limit int) ([]domain.User, int64, error) {
	tx := r.db.WithContext(ctx).Model(&user.UserModel{})
	if s := strings.TrimSpace(q); s != "" {
		like := "%" + s + "%"
		tx = tx.Where("email LIKE ? OR name LIKE ?", like, like)
	}
	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return nil, 0, domain.Storage("count users failed", err)
	}
	var ms []user.UserModel
	if err := tx.Order("id DESC").Offset(offset).Limit(limit).Find(&ms).Error; err != nil {
		return nil, 0, domain.Storage("list users failed", err)
	}
	out := make([]domain.User, 0, len(ms))
	for i := range ms {
		out = append(out, *ms[i].ToDomain())
	}
	return out, total, nil
}

func (r *UserRepo) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.WithContext(ctx).Model(&user.UserModel{}).Count(&n).Error; err != nil {
		return 0, domain.Storage("count users failed", err)
	}
	return n, nil
}
