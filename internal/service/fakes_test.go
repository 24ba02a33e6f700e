package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"storefront-api/internal/domain"
)

// In-memory stand-ins for the gorm adapters. They count store round trips so
// tests can tell a cache hit from a reload.

type fakeUserRepo struct {
	mu    sync.Mutex
	seq   int
	byID  map[string]domain.User
	finds int
	lists int
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{byID: map[string]domain.User{}}
}

func (r *fakeUserRepo) Save(_ context.Context, u *domain.User) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := *u
	now := time.Now().UTC()
	if out.ID == "" {
		r.seq++
		out.ID = fmt.Sprintf("u%d", r.seq)
		out.CreatedAt = now
		out.CreatedBy = "system"
	}
	out.UpdatedAt = now
	out.UpdatedBy = "system"
	r.byID[out.ID] = out
	cp := out
	return &cp, nil
}

func (r *fakeUserRepo) FindByID(_ context.Context, id string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.finds++
	if u, ok := r.byID[id]; ok {
		cp := u
		return &cp, nil
	}
	return nil, nil
}

func (r *fakeUserRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.finds++
	for _, u := range r.byID {
		if u.Email == email {
			cp := u
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeUserRepo) ExistsByID(_ context.Context, id string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.byID[id]
	return ok, nil
}

func (r *fakeUserRepo) ExistsByEmail(_ context.Context, email string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.byID {
		if u.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeUserRepo) DeleteByID(_ context.Context, id string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[id]; !ok {
		return false, nil
	}
	delete(r.byID, id)
	return true, nil
}

func (r *fakeUserRepo) FindActive(_ context.Context) ([]domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lists++
	var out []domain.User
	for _, u := range r.byID {
		if u.Active {
			out = append(out, u)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *fakeUserRepo) FindActivePage(ctx context.Context, pr domain.PageRequest) (domain.Page[domain.User], error) {
	all, _ := r.FindActive(ctx)
	return pageOf(all, pr), nil
}

func (r *fakeUserRepo) FindByNameLike(_ context.Context, name string) ([]domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.User
	for _, u := range r.byID {
		if strings.Contains(u.Name, name) {
			out = append(out, u)
		}
	}
	return out, nil
}

func (r *fakeUserRepo) FindByNameLikePage(ctx context.Context, name string, pr domain.PageRequest) (domain.Page[domain.User], error) {
	all, _ := r.FindByNameLike(ctx, name)
	return pageOf(all, pr), nil
}

func (r *fakeUserRepo) CountActive(_ context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lists++
	var n int64
	for _, u := range r.byID {
		if u.Active {
			n++
		}
	}
	return n, nil
}

type fakeProductRepo struct {
	mu    sync.Mutex
	seq   int
	byID  map[string]domain.Product
	finds int
	lists int
}

func newFakeProductRepo() *fakeProductRepo {
	return &fakeProductRepo{byID: map[string]domain.Product{}}
}

func (r *fakeProductRepo) Save(_ context.Context, p *domain.Product) (*domain.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := *p
	now := time.Now().UTC()
	if out.ID == "" {
		r.seq++
		out.ID = fmt.Sprintf("p%d", r.seq)
		out.CreatedAt = now
		out.CreatedBy = "system"
	}
	out.UpdatedAt = now
	out.UpdatedBy = "system"
	r.byID[out.ID] = out
	cp := out
	return &cp, nil
}

func (r *fakeProductRepo) FindByID(_ context.Context, id string) (*domain.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.finds++
	if p, ok := r.byID[id]; ok {
		cp := p
		return &cp, nil
	}
	return nil, nil
}

func (r *fakeProductRepo) ExistsByID(_ context.Context, id string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.byID[id]
	return ok, nil
}

func (r *fakeProductRepo) DeleteByID(_ context.Context, id string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[id]; !ok {
		return false, nil
	}
	delete(r.byID, id)
	return true, nil
}

func (r *fakeProductRepo) FindAvailable(_ context.Context) ([]domain.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lists++
	return r.filterLocked(func(p domain.Product) bool { return p.Available }), nil
}

func (r *fakeProductRepo) FindAvailablePage(ctx context.Context, pr domain.PageRequest) (domain.Page[domain.Product], error) {
	all, _ := r.FindAvailable(ctx)
	return pageOf(all, pr), nil
}

func (r *fakeProductRepo) FindByCategory(_ context.Context, category string) ([]domain.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lists++
	return r.filterLocked(func(p domain.Product) bool { return p.Category == category && p.Available }), nil
}

func (r *fakeProductRepo) FindByCategoryPage(ctx context.Context, category string, pr domain.PageRequest) (domain.Page[domain.Product], error) {
	all, _ := r.FindByCategory(ctx, category)
	return pageOf(all, pr), nil
}

func (r *fakeProductRepo) FindByNameLike(_ context.Context, name string) ([]domain.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.filterLocked(func(p domain.Product) bool { return strings.Contains(p.Name, name) }), nil
}

func (r *fakeProductRepo) FindByNameLikePage(ctx context.Context, name string, pr domain.PageRequest) (domain.Page[domain.Product], error) {
	all, _ := r.FindByNameLike(ctx, name)
	return pageOf(all, pr), nil
}

func (r *fakeProductRepo) FindByPriceRange(_ context.Context, min, max float64) ([]domain.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.filterLocked(func(p domain.Product) bool { return p.Price >= min && p.Price <= max }), nil
}

func (r *fakeProductRepo) FindByTag(_ context.Context, tag string) ([]domain.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lists++
	return r.filterLocked(func(p domain.Product) bool {
		for _, t := range p.Tags {
			if t == tag {
				return true
			}
		}
		return false
	}), nil
}

func (r *fakeProductRepo) FindLowStock(_ context.Context, maxStock int) ([]domain.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.filterLocked(func(p domain.Product) bool { return p.Stock <= maxStock && p.Available }), nil
}

func (r *fakeProductRepo) CountByCategory(_ context.Context, category string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lists++
	return int64(len(r.filterLocked(func(p domain.Product) bool { return p.Category == category }))), nil
}

func (r *fakeProductRepo) CountAvailable(_ context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lists++
	return int64(len(r.filterLocked(func(p domain.Product) bool { return p.Available }))), nil
}

func (r *fakeProductRepo) filterLocked(keep func(domain.Product) bool) []domain.Product {
	var out []domain.Product
	for _, p := range r.byID {
		if keep(p) {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func pageOf[T any](all []T, pr domain.PageRequest) domain.Page[T] {
	pr = pr.Normalize()
	start := pr.Offset()
	if start > len(all) {
		start = len(all)
	}
	end := start + pr.Size
	if end > len(all) {
		end = len(all)
	}
	return domain.Page[T]{Items: all[start:end], Total: int64(len(all)), Page: pr.Page, Size: pr.Size}
}
