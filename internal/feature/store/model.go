package store

import (
	"time"

	"store-rating/internal/domain"
)

type StoreModel struct {
	ID      uint64 `gorm:"primaryKey;autoIncrement"`
	Name    string `gorm:"size:255;not null"`
	Email   string `gorm:"size:191;not null;default:''"`
	Address string `gorm:"size:400;not null;default:''"`

	CreatedAt time.Time `gorm:"autoCreateTime"`
}

func (StoreModel) TableName() string { return "stores" }

func FromDomain(s *domain.Store) *StoreModel {
	return &StoreModel{ID: s.ID, Name: s.Name, Email: s.Email, Address: s.Address}
}
