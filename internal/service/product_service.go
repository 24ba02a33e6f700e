package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"storefront-api/internal/core/cache"
	"storefront-api/internal/domain"
)

const (
	nsProducts         = "products"
	nsProductsAvail    = "products-available"
	nsProductsCategory = "products-category"
	nsProductsTag      = "products-tag"
	nsProductsCount    = "products-count"
)

// ProductCacheNamespaces lists every cache namespace owned by the product
// resource.
func ProductCacheNamespaces() []string {
	return []string{nsProducts, nsProductsAvail, nsProductsCategory, nsProductsTag, nsProductsCount}
}

type ProductService struct {
	repo  domain.ProductRepository
	cache *cache.Loader
	ttl   time.Duration
	log   *zap.Logger
}

func NewProductService(repo domain.ProductRepository, store cache.Store, ttl time.Duration, log *zap.Logger) *ProductService {
	return &ProductService{repo: repo, cache: cache.NewLoader(store), ttl: ttl, log: log}
}

func (s *ProductService) Create(ctx context.Context, p *domain.Product) (*domain.Product, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	in := *p
	in.ID = "" // store assigns
	in.Available = true
	saved, err := s.repo.Save(ctx, &in)
	if err != nil {
		return nil, fmt.Errorf("save product: %w", err)
	}
	s.log.Info("product created", zap.String("id", saved.ID), zap.String("name", saved.Name))

	if err := s.cacheEntry(ctx, saved); err != nil {
		return nil, err
	}
	if err := s.evictQueryCaches(ctx); err != nil {
		return nil, err
	}
	return saved, nil
}

// FindByID returns (nil, nil) when no such product exists.
func (s *ProductService) FindByID(ctx context.Context, id string) (*domain.Product, error) {
	return cache.GetOrLoadJSON(s.cache, ctx, nsProducts, id, s.ttl, func(ctx context.Context) (*domain.Product, error) {
		return s.repo.FindByID(ctx, id)
	})
}

func (s *ProductService) Update(ctx context.Context, p *domain.Product) (*domain.Product, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	current, err := s.repo.FindByID(ctx, p.ID)
	if err != nil {
		return nil, fmt.Errorf("load product: %w", err)
	}
	if current == nil {
		return nil, fmt.Errorf("product %s: %w", p.ID, domain.ErrNotFound)
	}

	in := *p
	in.CreatedAt, in.CreatedBy = current.CreatedAt, current.CreatedBy
	saved, err := s.repo.Save(ctx, &in)
	if err != nil {
		return nil, fmt.Errorf("save product: %w", err)
	}
	s.log.Info("product updated", zap.String("id", saved.ID))

	if err := s.cacheEntry(ctx, saved); err != nil {
		return nil, err
	}
	if err := s.evictQueryCaches(ctx); err != nil {
		return nil, err
	}
	return saved, nil
}

func (s *ProductService) Delete(ctx context.Context, id string) error {
	removed, err := s.repo.DeleteByID(ctx, id)
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	if !removed {
		return fmt.Errorf("product %s: %w", id, domain.ErrNotFound)
	}
	s.log.Info("product deleted", zap.String("id", id))

	if err := s.cache.Store.Evict(ctx, nsProducts, id); err != nil {
		return fmt.Errorf("evict product %s: %w", id, err)
	}
	return s.evictQueryCaches(ctx)
}

// SetAvailability is the product analog of user deactivation: the record
// stays in the store and findable by id, but leaves the available listings.
func (s *ProductService) SetAvailability(ctx context.Context, id string, available bool) (*domain.Product, error) {
	current, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("load product: %w", err)
	}
	if current == nil {
		return nil, fmt.Errorf("product %s: %w", id, domain.ErrNotFound)
	}

	current.Available = available
	saved, err := s.repo.Save(ctx, current)
	if err != nil {
		return nil, fmt.Errorf("save product: %w", err)
	}
	s.log.Info("product availability set", zap.String("id", id), zap.Bool("available", available))

	if err := s.cacheEntry(ctx, saved); err != nil {
		return nil, err
	}
	if err := s.evictQueryCaches(ctx); err != nil {
		return nil, err
	}
	return saved, nil
}

// UpdateStock sets the absolute stock level. Same cache contract as Update.
func (s *ProductService) UpdateStock(ctx context.Context, id string, newStock int) (*domain.Product, error) {
	current, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("load product: %w", err)
	}
	if current == nil {
		return nil, fmt.Errorf("product %s: %w", id, domain.ErrNotFound)
	}

	current.Stock = newStock
	if err := current.Validate(); err != nil {
		return nil, err
	}
	saved, err := s.repo.Save(ctx, current)
	if err != nil {
		return nil, fmt.Errorf("save product: %w", err)
	}
	s.log.Info("product stock updated", zap.String("id", id), zap.Int("stock", newStock))

	if err := s.cacheEntry(ctx, saved); err != nil {
		return nil, err
	}
	if err := s.evictQueryCaches(ctx); err != nil {
		return nil, err
	}
	return saved, nil
}

func (s *ProductService) ListAvailable(ctx context.Context) ([]domain.Product, error) {
	return cache.GetOrLoadJSON(s.cache, ctx, nsProductsAvail, "all", s.ttl, func(ctx context.Context) ([]domain.Product, error) {
		return s.repo.FindAvailable(ctx)
	})
}

func (s *ProductService) ListAvailablePage(ctx context.Context, pr domain.PageRequest) (domain.Page[domain.Product], error) {
	return s.repo.FindAvailablePage(ctx, pr)
}

// FindByCategory keeps a per-category snapshot, invalidated wholesale with
// the rest of the query caches on every write.
func (s *ProductService) FindByCategory(ctx context.Context, category string) ([]domain.Product, error) {
	return cache.GetOrLoadJSON(s.cache, ctx, nsProductsCategory, category, s.ttl, func(ctx context.Context) ([]domain.Product, error) {
		return s.repo.FindByCategory(ctx, category)
	})
}

func (s *ProductService) FindByCategoryPage(ctx context.Context, category string, pr domain.PageRequest) (domain.Page[domain.Product], error) {
	return s.repo.FindByCategoryPage(ctx, category, pr)
}

func (s *ProductService) SearchByName(ctx context.Context, name string) ([]domain.Product, error) {
	return s.repo.FindByNameLike(ctx, name)
}

func (s *ProductService) SearchByNamePage(ctx context.Context, name string, pr domain.PageRequest) (domain.Page[domain.Product], error) {
	return s.repo.FindByNameLikePage(ctx, name, pr)
}

func (s *ProductService) FindByPriceRange(ctx context.Context, min, max float64) ([]domain.Product, error) {
	return s.repo.FindByPriceRange(ctx, min, max)
}

func (s *ProductService) FindByTag(ctx context.Context, tag string) ([]domain.Product, error) {
	return cache.GetOrLoadJSON(s.cache, ctx, nsProductsTag, tag, s.ttl, func(ctx context.Context) ([]domain.Product, error) {
		return s.repo.FindByTag(ctx, tag)
	})
}

func (s *ProductService) FindLowStock(ctx context.Context, maxStock int) ([]domain.Product, error) {
	return s.repo.FindLowStock(ctx, maxStock)
}

func (s *ProductService) CountByCategory(ctx context.Context, category string) (int64, error) {
	return cache.GetOrLoadJSON(s.cache, ctx, nsProductsCount, "category-"+category, s.ttl, func(ctx context.Context) (int64, error) {
		return s.repo.CountByCategory(ctx, category)
	})
}

func (s *ProductService) CountAvailable(ctx context.Context) (int64, error) {
	return cache.GetOrLoadJSON(s.cache, ctx, nsProductsCount, "available", s.ttl, func(ctx context.Context) (int64, error) {
		return s.repo.CountAvailable(ctx)
	})
}

func (s *ProductService) ClearCache(ctx context.Context) error {
	for _, ns := range ProductCacheNamespaces() {
		if err := s.cache.Store.EvictAll(ctx, ns); err != nil {
			return fmt.Errorf("evict %s: %w", ns, err)
		}
	}
	s.log.Info("product caches cleared")
	return nil
}

func (s *ProductService) cacheEntry(ctx context.Context, p *domain.Product) error {
	if err := cache.PutJSON(ctx, s.cache.Store, nsProducts, p.ID, p, s.ttl); err != nil {
		s.log.Warn("product cache put failed, evicting entry", zap.String("id", p.ID), zap.Error(err))
		if e := s.cache.Store.Evict(ctx, nsProducts, p.ID); e != nil {
			return fmt.Errorf("evict product %s: %w", p.ID, e)
		}
	}
	return nil
}

func (s *ProductService) evictQueryCaches(ctx context.Context) error {
	for _, ns := range []string{nsProductsAvail, nsProductsCategory, nsProductsTag, nsProductsCount} {
		if err := s.cache.Store.EvictAll(ctx, ns); err != nil {
			return fmt.Errorf("evict %s: %w", ns, err)
		}
	}
	return nil
}
