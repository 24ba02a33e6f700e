package domain

import (
	"context"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
)

type User struct {
	ID     string `gorm:"primaryKey;size:36" json:"id"`
	Email  string `gorm:"uniqueIndex;size:191" json:"email"`
	Name   string `gorm:"size:64" json:"name"`
	Active bool   `json:"active"`
	Audit
}

func (User) TableName() string { return "users" }

func (u User) Validate() error {
	return validation.ValidateStruct(&u,
		validation.Field(&u.Email, validation.Required, is.Email),
		validation.Field(&u.Name, validation.Required, validation.Length(1, 64)),
	)
}

// UserRepository is the document-store adapter for users. Finders return
// (nil, nil) when the id/email is absent; only backend failures are errors.
type UserRepository interface {
	Save(ctx context.Context, u *User) (*User, error)
	FindByID(ctx context.Context, id string) (*User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
	ExistsByID(ctx context.Context, id string) (bool, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	// DeleteByID reports whether a row was actually removed.
	DeleteByID(ctx context.Context, id string) (bool, error)
	FindActive(ctx context.Context) ([]User, error)
	FindActivePage(ctx context.Context, pr PageRequest) (Page[User], error)
	FindByNameLike(ctx context.Context, name string) ([]User, error)
	FindByNameLikePage(ctx context.Context, name string, pr PageRequest) (Page[User], error)
	CountActive(ctx context.Context) (int64, error)
}
