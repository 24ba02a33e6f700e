package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"storefront-api/internal/client"
	resp "storefront-api/internal/transport/http/response"
)

type ExternalHandler struct {
	api *client.JSONPlaceholder
	log *zap.Logger
}

func NewExternalHandler(api *client.JSONPlaceholder, log *zap.Logger) *ExternalHandler {
	return &ExternalHandler{api: api, log: log}
}

func (h *ExternalHandler) Mount(g *gin.RouterGroup) {
	e := g.Group("/external")
	e.GET("/posts", h.posts)
	e.GET("/posts/:id", h.postByID)
	e.GET("/users", h.users)
	e.GET("/users/:id", h.userByID)
	e.GET("/users/:id/posts", h.postsByUser)
	e.DELETE("/cache", h.clearCache)
}

func (h *ExternalHandler) posts(c *gin.Context) {
	out, err := h.api.Posts(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, resp.OK(out))
}

func (h *ExternalHandler) postByID(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		badRequest(c, "invalid id")
		return
	}
	out, err := h.api.PostByID(c.Request.Context(), id)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, resp.OK(out))
}

func (h *ExternalHandler) users(c *gin.Context) {
	out, err := h.api.Users(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, resp.OK(out))
}

func (h *ExternalHandler) userByID(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		badRequest(c, "invalid id")
		return
	}
	out, err := h.api.UserByID(c.Request.Context(), id)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, resp.OK(out))
}

func (h *ExternalHandler) postsByUser(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		badRequest(c, "invalid id")
		return
	}
	out, err := h.api.PostsByUser(c.Request.Context(), id)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, resp.OK(out))
}

func (h *ExternalHandler) clearCache(c *gin.Context) {
	if err := h.api.ClearCache(c.Request.Context()); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, resp.OK(gin.H{"cleared": client.ExternalCacheNamespaces()}))
}
