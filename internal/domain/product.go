package domain

import (
	"context"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

type Product struct {
	ID        string   `gorm:"primaryKey;size:36" json:"id"`
	Name      string   `gorm:"size:191;index" json:"name"`
	Category  string   `gorm:"size:64;index" json:"category"`
	Price     float64  `json:"price"`
	Stock     int      `json:"stock"`
	Available bool     `json:"available"`
	Tags      []string `gorm:"serializer:json" json:"tags"`
	Audit
}

func (Product) TableName() string { return "products" }

func (p Product) Validate() error {
	return validation.ValidateStruct(&p,
		validation.Field(&p.Name, validation.Required, validation.Length(1, 191)),
		validation.Field(&p.Price, validation.Min(0.0)),
		validation.Field(&p.Stock, validation.Min(0)),
	)
}

// ProductRepository is the document-store adapter for products. Same contract
// as UserRepository: absent ids are (nil, nil), not errors.
type ProductRepository interface {
	Save(ctx context.Context, p *Product) (*Product, error)
	FindByID(ctx context.Context, id string) (*Product, error)
	ExistsByID(ctx context.Context, id string) (bool, error)
	DeleteByID(ctx context.Context, id string) (bool, error)
	FindAvailable(ctx context.Context) ([]Product, error)
	FindAvailablePage(ctx context.Context, pr PageRequest) (Page[Product], error)
	FindByCategory(ctx context.Context, category string) ([]Product, error)
	FindByCategoryPage(ctx context.Context, category string, pr PageRequest) (Page[Product], error)
	FindByNameLike(ctx context.Context, name string) ([]Product, error)
	FindByNameLikePage(ctx context.Context, name string, pr PageRequest) (Page[Product], error)
	FindByPriceRange(ctx context.Context, min, max float64) ([]Product, error)
	FindByTag(ctx context.Context, tag string) ([]Product, error)
	FindLowStock(ctx context.Context, maxStock int) ([]Product, error)
	CountByCategory(ctx context.Context, category string) (int64, error)
	CountAvailable(ctx context.Context) (int64, error)
}
