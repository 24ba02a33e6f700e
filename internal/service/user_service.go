// Package service holds the resource services: the single authority between
// callers, the cache store and the document store. Reads are cache-aside
// (check cache, on miss load and populate); writes persist first and then
// overwrite the per-id entry, so a follow-up read never observes the old
// value. Query/collection/count entries are coarse snapshots and are evicted
// wholesale on every write that could change membership.
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
	nsUsers       = "users"
	nsUsersEmail  = "users-email"
	nsUsersActive = "users-active"
	nsUsersCount  = "users-count"
)

// UserCacheNamespaces lists every cache namespace owned by the user resource.
func UserCacheNamespaces() []string {
	return []string{nsUsers, nsUsersEmail, nsUsersActive, nsUsersCount}
}

type UserService struct {
	repo  domain.UserRepository
	cache *cache.Loader
	ttl   time.Duration
	log   *zap.Logger
}

func NewUserService(repo domain.UserRepository, store cache.Store, ttl time.Duration, log *zap.Logger) *UserService {
	return &UserService{repo: repo, cache: cache.NewLoader(store), ttl: ttl, log: log}
}

// Create persists a new user and seeds its cache entry. Fails with
// domain.ErrEmailTaken when the email is already present; the store is left
// untouched in that case.
func (s *UserService) Create(ctx context.Context, u *domain.User) (*domain.User, error) {
	if err := u.Validate(); err != nil {
		return nil, err
	}
	taken, err := s.repo.ExistsByEmail(ctx, u.Email)
	if err != nil {
		return nil, fmt.Errorf("check email: %w", err)
	}
	if taken {
		return nil, fmt.Errorf("%s: %w", u.Email, domain.ErrEmailTaken)
	}

	in := *u
	in.ID = "" // store assigns
	in.Active = true
	saved, err := s.repo.Save(ctx, &in)
	if err != nil {
		return nil, fmt.Errorf("save user: %w", err)
	}
	s.log.Info("user created", zap.String("id", saved.ID), zap.String("email", saved.Email))

	if err := s.cacheEntry(ctx, saved); err != nil {
		return nil, err
	}
	if err := s.evictQueryCaches(ctx); err != nil {
		return nil, err
	}
	return saved, nil
}

// FindByID returns (nil, nil) when no such user exists; absence is a normal
// outcome, not an error. Not-found results are cached as JSON null.
func (s *UserService) FindByID(ctx context.Context, id string) (*domain.User, error) {
	return cache.GetOrLoadJSON(s.cache, ctx, nsUsers, id, s.ttl, func(ctx context.Context) (*domain.User, error) {
		return s.repo.FindByID(ctx, id)
	})
}

func (s *UserService) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	return cache.GetOrLoadJSON(s.cache, ctx, nsUsersEmail, email, s.ttl, func(ctx context.Context) (*domain.User, error) {
		return s.repo.FindByEmail(ctx, email)
	})
}

// Update replaces the stored user wholesale (id preserved, audit creation
// fields carried over) and overwrites the cache entry, never merely evicts
// it, so the next read is a guaranteed hit on the new value.
func (s *UserService) Update(ctx context.Context, u *domain.User) (*domain.User, error) {
	if err := u.Validate(); err != nil {
		return nil, err
	}
	current, err := s.repo.FindByID(ctx, u.ID)
	if err != nil {
		return nil, fmt.Errorf("load user: %w", err)
	}
	if current == nil {
		return nil, fmt.Errorf("user %s: %w", u.ID, domain.ErrNotFound)
	}
	if u.Email != current.Email {
		taken, err := s.repo.ExistsByEmail(ctx, u.Email)
		if err != nil {
			return nil, fmt.Errorf("check email: %w", err)
		}
		if taken {
			return nil, fmt.Errorf("%s: %w", u.Email, domain.ErrEmailTaken)
		}
	}

	in := *u
	in.CreatedAt, in.CreatedBy = current.CreatedAt, current.CreatedBy
	saved, err := s.repo.Save(ctx, &in)
	if err != nil {
		return nil, fmt.Errorf("save user: %w", err)
	}
	s.log.Info("user updated", zap.String("id", saved.ID))

	if err := s.cacheEntry(ctx, saved); err != nil {
		return nil, err
	}
	if err := s.evictQueryCaches(ctx); err != nil {
		return nil, err
	}
	return saved, nil
}

// Delete hard-removes the user and evicts its cache entry.
func (s *UserService) Delete(ctx context.Context, id string) error {
	removed, err := s.repo.DeleteByID(ctx, id)
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	if !removed {
		return fmt.Errorf("user %s: %w", id, domain.ErrNotFound)
	}
	s.log.Info("user deleted", zap.String("id", id))

	if err := s.cache.Store.Evict(ctx, nsUsers, id); err != nil {
		return fmt.Errorf("evict user %s: %w", id, err)
	}
	return s.evictQueryCaches(ctx)
}

// Deactivate is the soft delete: the record stays in the store with
// active=false and remains retrievable by id, but drops out of the active
// listing. Same cache contract as Update.
func (s *UserService) Deactivate(ctx context.Context, id string) (*domain.User, error) {
	current, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("load user: %w", err)
	}
	if current == nil {
		return nil, fmt.Errorf("user %s: %w", id, domain.ErrNotFound)
	}

	current.Active = false
	saved, err := s.repo.Save(ctx, current)
	if err != nil {
		return nil, fmt.Errorf("save user: %w", err)
	}
	s.log.Info("user deactivated", zap.String("id", id))

	if err := s.cacheEntry(ctx, saved); err != nil {
		return nil, err
	}
	if err := s.evictQueryCaches(ctx); err != nil {
		return nil, err
	}
	return saved, nil
}

// ListActive serves the coarse active-users snapshot read-through.
func (s *UserService) ListActive(ctx context.Context) ([]domain.User, error) {
	return cache.GetOrLoadJSON(s.cache, ctx, nsUsersActive, "all", s.ttl, func(ctx context.Context) ([]domain.User, error) {
		return s.repo.FindActive(ctx)
	})
}

// ListActivePage goes straight to the store; paged snapshots are not cached.
func (s *UserService) ListActivePage(ctx context.Context, pr domain.PageRequest) (domain.Page[domain.User], error) {
	return s.repo.FindActivePage(ctx, pr)
}

func (s *UserService) SearchByName(ctx context.Context, name string) ([]domain.User, error) {
	return s.repo.FindByNameLike(ctx, name)
}

func (s *UserService) SearchByNamePage(ctx context.Context, name string, pr domain.PageRequest) (domain.Page[domain.User], error) {
	return s.repo.FindByNameLikePage(ctx, name, pr)
}

func (s *UserService) CountActive(ctx context.Context) (int64, error) {
	return cache.GetOrLoadJSON(s.cache, ctx, nsUsersCount, "active", s.ttl, func(ctx context.Context) (int64, error) {
		return s.repo.CountActive(ctx)
	})
}

func (s *UserService) EmailExists(ctx context.Context, email string) (bool, error) {
	return s.repo.ExistsByEmail(ctx, email)
}

// ClearCache evicts every user cache namespace. Idempotent; never touches
// the store.
func (s *UserService) ClearCache(ctx context.Context) error {
	for _, ns := range UserCacheNamespaces() {
		if err := s.cache.Store.EvictAll(ctx, ns); err != nil {
			return fmt.Errorf("evict %s: %w", ns, err)
		}
	}
	s.log.Info("user caches cleared")
	return nil
}

// cacheEntry overwrites the per-id entry after a successful store write. If
// the overwrite fails the entry is evicted instead: losing a fresh entry only
// costs a miss, but a surviving stale one would break read coherence.
func (s *UserService) cacheEntry(ctx context.Context, u *domain.User) error {
	if err := cache.PutJSON(ctx, s.cache.Store, nsUsers, u.ID, u, s.ttl); err != nil {
		s.log.Warn("user cache put failed, evicting entry", zap.String("id", u.ID), zap.Error(err))
		if e := s.cache.Store.Evict(ctx, nsUsers, u.ID); e != nil {
			return fmt.Errorf("evict user %s: %w", u.ID, e)
		}
	}
	return nil
}

// evictQueryCaches drops every coarse snapshot that could have changed
// membership. Runs synchronously with the write: there is no window in which
// a completed write coexists with a stale list being re-read as fresh.
func (s *UserService) evictQueryCaches(ctx context.Context) error {
	for _, ns := range []string{nsUsersEmail, nsUsersActive, nsUsersCount} {
		if err := s.cache.Store.EvictAll(ctx, ns); err != nil {
			return fmt.Errorf("evict %s: %w", ns, err)
		}
	}
	return nil
}
