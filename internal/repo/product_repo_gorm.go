package repo

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"storefront-api/internal/core/audit"
	"storefront-api/internal/domain"
)

var productSortCols = map[string]string{
	"name":      "name",
	"price":     "price",
	"stock":     "stock",
	"category":  "category",
	"createdAt": "created_at",
}

type ProductRepo struct{ db *gorm.DB }

func NewProductRepo(db *gorm.DB) *ProductRepo { return &ProductRepo{db: db} }

func (r *ProductRepo) Save(ctx context.Context, p *domain.Product) (*domain.Product, error) {
	out := *p
	now := time.Now().UTC()
	actor := audit.Actor(ctx)
	if out.ID == "" {
		out.ID = uuid.NewString()
		out.CreatedAt = now
		out.CreatedBy = actor
	}
	out.UpdatedAt = now
	out.UpdatedBy = actor
	if err := r.db.WithContext(ctx).Save(&out).Error; err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *ProductRepo) FindByID(ctx context.Context, id string) (*domain.Product, error) {
	var p domain.Product
	err := r.db.WithContext(ctx).First(&p, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *ProductRepo) ExistsByID(ctx context.Context, id string) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&domain.Product{}).Where("id = ?", id).Count(&n).Error
	return n > 0, err
}

func (r *ProductRepo) DeleteByID(ctx context.Context, id string) (bool, error) {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&domain.Product{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *ProductRepo) FindAvailable(ctx context.Context) ([]domain.Product, error) {
	var items []domain.Product
	err := r.db.WithContext(ctx).
		Where("available = ?", true).
		Order("created_at desc").
		Find(&items).Error
	return items, err
}

func (r *ProductRepo) FindAvailablePage(ctx context.Context, pr domain.PageRequest) (domain.Page[domain.Product], error) {
	pr = pr.Normalize()
	q := r.db.WithContext(ctx).Model(&domain.Product{}).Where("available = ?", true)
	return r.page(q, pr)
}

func (r *ProductRepo) FindByCategory(ctx context.Context, category string) ([]domain.Product, error) {
	var items []domain.Product
	err := r.db.WithContext(ctx).
		Where("category = ? AND available = ?", category, true).
		Order("created_at desc").
		Find(&items).Error
	return items, err
}

func (r *ProductRepo) FindByCategoryPage(ctx context.Context, category string, pr domain.PageRequest) (domain.Page[domain.Product], error) {
	pr = pr.Normalize()
	q := r.db.WithContext(ctx).Model(&domain.Product{}).
		Where("category = ? AND available = ?", category, true)
	return r.page(q, pr)
}

func (r *ProductRepo) FindByNameLike(ctx context.Context, name string) ([]domain.Product, error) {
	var items []domain.Product
	err := r.db.WithContext(ctx).
		Where("name LIKE ?", "%"+name+"%").
		Order("created_at desc").
		Find(&items).Error
	return items, err
}

func (r *ProductRepo) FindByNameLikePage(ctx context.Context, name string, pr domain.PageRequest) (domain.Page[domain.Product], error) {
	pr = pr.Normalize()
	q := r.db.WithContext(ctx).Model(&domain.Product{}).
		Where("name LIKE ? AND available = ?", "%"+name+"%", true)
	return r.page(q, pr)
}

func (r *ProductRepo) FindByPriceRange(ctx context.Context, min, max float64) ([]domain.Product, error) {
	var items []domain.Product
	err := r.db.WithContext(ctx).
		Where("price >= ? AND price <= ?", min, max).
		Order("price asc").
		Find(&items).Error
	return items, err
}

// FindByTag matches against the JSON-serialized tag list. LIKE on the encoded
// form is portable across mysql/postgres; tags are plain words so the quoted
// match cannot hit substrings of other tags.
func (r *ProductRepo) FindByTag(ctx context.Context, tag string) ([]domain.Product, error) {
	var items []domain.Product
	err := r.db.WithContext(ctx).
		Where(`tags LIKE ?`, `%"`+tag+`"%`).
		Order("created_at desc").
		Find(&items).Error
	return items, err
}

func (r *ProductRepo) FindLowStock(ctx context.Context, maxStock int) ([]domain.Product, error) {
	var items []domain.Product
	err := r.db.WithContext(ctx).
		Where("stock <= ? AND available = ?", maxStock, true).
		Order("stock asc").
		Find(&items).Error
	return items, err
}

func (r *ProductRepo) CountByCategory(ctx context.Context, category string) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&domain.Product{}).
		Where("category = ?", category).Count(&n).Error
	return n, err
}

func (r *ProductRepo) CountAvailable(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&domain.Product{}).
		Where("available = ?", true).Count(&n).Error
	return n, err
}

func (r *ProductRepo) page(q *gorm.DB, pr domain.PageRequest) (domain.Page[domain.Product], error) {
	var total int64
	if err := q.Count(&total).Error; err != nil {
		return domain.Page[domain.Product]{}, err
	}
	var items []domain.Product
	err := q.Order(orderExpr(pr, productSortCols)).
		Offset(pr.Offset()).Limit(pr.Size).
		Find(&items).Error
	if err != nil {
		return domain.Page[domain.Product]{}, err
	}
	return domain.Page[domain.Product]{Items: items, Total: total, Page: pr.Page, Size: pr.Size}, nil
}
