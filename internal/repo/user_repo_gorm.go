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

var userSortCols = map[string]string{
	"name":      "name",
	"email":     "email",
	"createdAt": "created_at",
}

type UserRepo struct{ db *gorm.DB }

func NewUserRepo(db *gorm.DB) *UserRepo { return &UserRepo{db: db} }

func (r *UserRepo) Save(ctx context.Context, u *domain.User) (*domain.User, error) {
	out := *u
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

func (r *UserRepo) FindByID(ctx context.Context, id string) (*domain.User, error) {
	var u domain.User
	err := r.db.WithContext(ctx).First(&u, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *UserRepo) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	var u domain.User
	err := r.db.WithContext(ctx).First(&u, "email = ?", email).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *UserRepo) ExistsByID(ctx context.Context, id string) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&domain.User{}).Where("id = ?", id).Count(&n).Error
	return n > 0, err
}

func (r *UserRepo) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&domain.User{}).Where("email = ?", email).Count(&n).Error
	return n > 0, err
}

func (r *UserRepo) DeleteByID(ctx context.Context, id string) (bool, error) {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&domain.User{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *UserRepo) FindActive(ctx context.Context) ([]domain.User, error) {
	var users []domain.User
	err := r.db.WithContext(ctx).
		Where("active = ?", true).
		Order("created_at desc").
		Find(&users).Error
	return users, err
}

func (r *UserRepo) FindActivePage(ctx context.Context, pr domain.PageRequest) (domain.Page[domain.User], error) {
	pr = pr.Normalize()
	q := r.db.WithContext(ctx).Model(&domain.User{}).Where("active = ?", true)
	return r.page(q, pr)
}

func (r *UserRepo) FindByNameLike(ctx context.Context, name string) ([]domain.User, error) {
	var users []domain.User
	err := r.db.WithContext(ctx).
		Where("name LIKE ?", "%"+name+"%").
		Order("created_at desc").
		Find(&users).Error
	return users, err
}

func (r *UserRepo) FindByNameLikePage(ctx context.Context, name string, pr domain.PageRequest) (domain.Page[domain.User], error) {
	pr = pr.Normalize()
	q := r.db.WithContext(ctx).Model(&domain.User{}).
		Where("name LIKE ? AND active = ?", "%"+name+"%", true)
	return r.page(q, pr)
}

func (r *UserRepo) CountActive(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&domain.User{}).Where("active = ?", true).Count(&n).Error
	return n, err
}

func (r *UserRepo) page(q *gorm.DB, pr domain.PageRequest) (domain.Page[domain.User], error) {
	var total int64
	if err := q.Count(&total).Error; err != nil {
		return domain.Page[domain.User]{}, err
	}
	var items []domain.User
	err := q.Order(orderExpr(pr, userSortCols)).
		Offset(pr.Offset()).Limit(pr.Size).
		Find(&items).Error
	if err != nil {
		return domain.Page[domain.User]{}, err
	}
	return domain.Page[domain.User]{Items: items, Total: total, Page: pr.Page, Size: pr.Size}, nil
}
