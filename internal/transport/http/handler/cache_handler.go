package handler

import (
	"net/http"
	"slices"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"storefront-api/internal/client"
	"storefront-api/internal/core/cache"
	"storefront-api/internal/service"
	resp "storefront-api/internal/transport/http/response"
)

// CacheHandler is the operator surface: inspect and clear cache namespaces.
// Mounted behind admin auth; none of its operations touch the store.
type CacheHandler struct {
	store    cache.Store
	users    *service.UserService
	products *service.ProductService
	external *client.JSONPlaceholder
	known    []string
	log      *zap.Logger
}

func NewCacheHandler(store cache.Store, users *service.UserService, products *service.ProductService, external *client.JSONPlaceholder, log *zap.Logger) *CacheHandler {
	var known []string
	known = append(known, service.UserCacheNamespaces()...)
	known = append(known, service.ProductCacheNamespaces()...)
	known = append(known, client.ExternalCacheNamespaces()...)
	return &CacheHandler{
		store:    store,
		users:    users,
		products: products,
		external: external,
		known:    known,
		log:      log,
	}
}

func (h *CacheHandler) Mount(g *gin.RouterGroup) {
	ca := g.Group("/cache")
	ca.GET("/names", h.names)
	ca.DELETE("", h.clearAll)
	ca.DELETE("/namespaces/:namespace", h.clearNamespace)
	ca.DELETE("/users", h.clearUsers)
	ca.DELETE("/products", h.clearProducts)
	ca.DELETE("/external", h.clearExternal)
}

// names reports the namespaces that currently hold entries.
func (h *CacheHandler) names(c *gin.Context) {
	out, err := h.store.Namespaces(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, resp.OK(gin.H{"namespaces": out}))
}

func (h *CacheHandler) clearNamespace(c *gin.Context) {
	ns := c.Param("namespace")
	if !slices.Contains(h.known, ns) {
		notFound(c, "unknown namespace")
		return
	}
	if err := h.store.EvictAll(c.Request.Context(), ns); err != nil {
		fail(c, err)
		return
	}
	h.log.Info("cache namespace cleared", zap.String("namespace", ns))
	c.JSON(http.StatusOK, resp.OK(gin.H{"cleared": ns}))
}

func (h *CacheHandler) clearAll(c *gin.Context) {
	ctx := c.Request.Context()
	if err := h.users.ClearCache(ctx); err != nil {
		fail(c, err)
		return
	}
	if err := h.products.ClearCache(ctx); err != nil {
		fail(c, err)
		return
	}
	if err := h.external.ClearCache(ctx); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, resp.OK(gin.H{"cleared": h.known}))
}

func (h *CacheHandler) clearUsers(c *gin.Context) {
	if err := h.users.ClearCache(c.Request.Context()); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, resp.OK(gin.H{"cleared": service.UserCacheNamespaces()}))
}

func (h *CacheHandler) clearProducts(c *gin.Context) {
	if err := h.products.ClearCache(c.Request.Context()); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, resp.OK(gin.H{"cleared": service.ProductCacheNamespaces()}))
}

func (h *CacheHandler) clearExternal(c *gin.Context) {
	if err := h.external.ClearCache(c.Request.Context()); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, resp.OK(gin.H{"cleared": client.ExternalCacheNamespaces()}))
}
