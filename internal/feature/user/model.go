package user

import (
	"time"

	"store-rating/internal/domain"
)

type UserModel struct {
	ID           uint64 `gorm:"primaryKey;autoIncrement"`
	Name         string `gorm:"size:60;not null"`
	Email        string `gorm:"uniqueIndex;size:191;not null"`
	PasswordHash string `gorm:"column:password;size:100;not null"`
	Address      string `gorm:"size:400;not null;default:''"`
	Role         string `gorm:"size:16;not null;default:user;index"`

	CreatedAt time.Time `gorm:"autoCreateTime"`
}

func (UserModel) TableName() string { return "users" }

func FromDomain(u *domain.User) *UserModel {
	return &UserModel{
		ID:           u.ID,
		Name:         u.Name,
		Email:        u.Email,
		PasswordHash: u.PasswordHash,
		Address:      u.Address,
		Role:         string(u.Role),
		CreatedAt:    u.CreatedAt,
	}
}

func (m *UserModel) ToDomain() *domain.User {
	return &domain.User{
		ID:           m.ID,
		Name:         m.Name,
		Email:        m.Email,
		PasswordHash: m.PasswordHash,
		Address:      m.Address,
		Role:         domain.Role(m.Role),
		CreatedAt:    m.CreatedAt,
	}
}
