package domain

import (
	"context"
	"strings"
	"time"
	"unicode/utf8"
)

type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

func (r Role) Valid() bool { return r == RoleUser || r == RoleAdmin }

// Identity is the caller attached to a request once its token is verified.
type Identity struct {
	UserID uint64 `json:"id"`
	Role   Role   `json:"role"`
}

func (i Identity) IsAdmin() bool { return i.Role == RoleAdmin }

const (
	NameMinLen    = 20
	NameMaxLen    = 60
	AddressMaxLen = 400
)

type User struct {
	ID           uint64    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Address      string    `json:"address"`
	Role         Role      `json:"role"`
	CreatedAt    time.Time `json:"createdAt"`
}

// ValidateProfile checks the bounds applied when an account is created.
// Lengths are counted in characters, not bytes.
func ValidateProfile(name, address string) error {
	n := utf8.RuneCountInString(name)
	if n < NameMinLen || n > NameMaxLen {
		return Validation("Name must be 20-60 chars")
	}
	if utf8.RuneCountInString(address) > AddressMaxLen {
		return Validation("Address max 400 chars")
	}
	return nil
}

// NormalizeEmail is applied on both signup and login so lookups agree.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// UserRepository returns ErrConflict on a duplicate email and ErrStorage on
// any other backend failure. Find* return (nil, nil) when nothing matches.
type UserRepository interface {
	Create(ctx context.Context, u *User) error
	FindByID(ctx context.Context, id uint64) (*User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
	List(ctx context.Context, q string, offset, limit int) ([]User, int64, error)
	Count(ctx context.Context) (int64, error)
}
