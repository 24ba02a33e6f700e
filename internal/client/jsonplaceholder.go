// Package client proxies the JSONPlaceholder REST API with bounded
// fixed-delay retries, a per-attempt timeout and read-through caching.
package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"go.uber.org/zap"

	"storefront-api/internal/core/cache"
	"storefront-api/internal/domain"
)

const (
	nsExternalPosts = "external-posts"
	nsExternalUsers = "external-users"
)

// ExternalCacheNamespaces lists the cache namespaces owned by this client.
func ExternalCacheNamespaces() []string {
	return []string{nsExternalPosts, nsExternalUsers}
}

type Post struct {
	UserID int    `json:"userId"`
	ID     int    `json:"id"`
	Title  string `json:"title"`
	Body   string `json:"body"`
}

type ExtUser struct {
	ID       int    `json:"id"`
	Name     string `json:"name"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Website  string `json:"website"`
}

type Config struct {
	BaseURL       string
	Timeout       time.Duration // per attempt
	RetryAttempts int           // retries after the first attempt
	RetryDelay    time.Duration // fixed delay between attempts
	CacheTTL      time.Duration
}

type JSONPlaceholder struct {
	http  *http.Client
	cfg   Config
	cache *cache.Loader
	log   *zap.Logger
}

func NewJSONPlaceholder(cfg Config, store cache.Store, log *zap.Logger) *JSONPlaceholder {
	return &JSONPlaceholder{
		http:  &http.Client{},
		cfg:   cfg,
		cache: cache.NewLoader(store),
		log:   log,
	}
}

// transientError marks failures worth retrying: transport errors and 5xx.
type transientError struct{ err error }

func (e *transientError) Error() string { return e.err.Error() }
func (e *transientError) Unwrap() error { return e.err }

// get runs the request with fixed-delay retries. 404 maps to
// domain.ErrNotFound and is never retried; other 4xx fail immediately.
func (c *JSONPlaceholder) get(ctx context.Context, path string, out any) error {
	var lastErr error
	for attempt := 0; attempt <= c.cfg.RetryAttempts; attempt++ {
		if attempt > 0 {
			c.log.Warn("external api retry",
				zap.String("path", path),
				zap.Int("attempt", attempt),
				zap.Error(lastErr))
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(c.cfg.RetryDelay):
			}
		}
		err := c.do(ctx, path, out)
		if err == nil {
			return nil
		}
		var te *transientError
		if !errors.As(err, &te) {
			return err
		}
		lastErr = err
	}
	return fmt.Errorf("external api %s: %w", path, lastErr)
}

func (c *JSONPlaceholder) do(ctx context.Context, path string, out any) error {
	ctx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.cfg.BaseURL+path, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return &transientError{err}
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return fmt.Errorf("%s: %w", path, domain.ErrNotFound)
	case resp.StatusCode >= 500:
		return &transientError{fmt.Errorf("status %d", resp.StatusCode)}
	case resp.StatusCode >= 300:
		return fmt.Errorf("external api %s: unexpected status %d", path, resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}

func (c *JSONPlaceholder) Posts(ctx context.Context) ([]Post, error) {
	return cache.GetOrLoadJSON(c.cache, ctx, nsExternalPosts, "all", c.cfg.CacheTTL, func(ctx context.Context) ([]Post, error) {
		var out []Post
		if err := c.get(ctx, "/posts", &out); err != nil {
			return nil, err
		}
		return out, nil
	})
}

func (c *JSONPlaceholder) PostByID(ctx context.Context, id int) (*Post, error) {
	return cache.GetOrLoadJSON(c.cache, ctx, nsExternalPosts, strconv.Itoa(id), c.cfg.CacheTTL, func(ctx context.Context) (*Post, error) {
		var out Post
		if err := c.get(ctx, "/posts/"+strconv.Itoa(id), &out); err != nil {
			return nil, err
		}
		return &out, nil
	})
}

func (c *JSONPlaceholder) PostsByUser(ctx context.Context, userID int) ([]Post, error) {
	return cache.GetOrLoadJSON(c.cache, ctx, nsExternalPosts, "user-"+strconv.Itoa(userID), c.cfg.CacheTTL, func(ctx context.Context) ([]Post, error) {
		var out []Post
		if err := c.get(ctx, "/posts?userId="+strconv.Itoa(userID), &out); err != nil {
			return nil, err
		}
		return out, nil
	})
}

func (c *JSONPlaceholder) Users(ctx context.Context) ([]ExtUser, error) {
	return cache.GetOrLoadJSON(c.cache, ctx, nsExternalUsers, "all", c.cfg.CacheTTL, func(ctx context.Context) ([]ExtUser, error) {
		var out []ExtUser
		if err := c.get(ctx, "/users", &out); err != nil {
			return nil, err
		}
		return out, nil
	})
}

func (c *JSONPlaceholder) UserByID(ctx context.Context, id int) (*ExtUser, error) {
	return cache.GetOrLoadJSON(c.cache, ctx, nsExternalUsers, strconv.Itoa(id), c.cfg.CacheTTL, func(ctx context.Context) (*ExtUser, error) {
		var out ExtUser
		if err := c.get(ctx, "/users/"+strconv.Itoa(id), &out); err != nil {
			return nil, err
		}
		return &out, nil
	})
}

func (c *JSONPlaceholder) ClearCache(ctx context.Context) error {
	for _, ns := range ExternalCacheNamespaces() {
		if err := c.cache.Store.EvictAll(ctx, ns); err != nil {
			return fmt.Errorf("evict %s: %w", ns, err)
		}
	}
	return nil
}
