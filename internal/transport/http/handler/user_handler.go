package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"storefront-api/internal/domain"
	"storefront-api/internal/service"
	resp "storefront-api/internal/transport/http/response"
)

type UserHandler struct {
	svc *service.UserService
	log *zap.Logger
}

func NewUserHandler(svc *service.UserService, log *zap.Logger) *UserHandler {
	return &UserHandler{svc: svc, log: log}
}

type userIn struct {
	Email string `json:"email" binding:"required,email"`
	Name  string `json:"name" binding:"required,max=64"`
}

func (h *UserHandler) Mount(g *gin.RouterGroup) {
	u := g.Group("/users")
	u.POST("", h.create)
	u.GET("/active", h.listActive)
	u.GET("/search", h.search)
	u.GET("/by-email", h.byEmail)
	u.GET("/count", h.count)
	u.GET("/:id", h.get)
	u.PUT("/:id", h.update)
	u.DELETE("/:id", h.remove)
	u.POST("/:id/deactivate", h.deactivate)
}

func (h *UserHandler) create(c *gin.Context) {
	var in userIn
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, err.Error())
		return
	}
	out, err := h.svc.Create(c.Request.Context(), &domain.User{Email: in.Email, Name: in.Name})
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp.OK(out))
}

func (h *UserHandler) get(c *gin.Context) {
	out, err := h.svc.FindByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	if out == nil {
		notFound(c, "user not found")
		return
	}
	c.JSON(http.StatusOK, resp.OK(out))
}

func (h *UserHandler) update(c *gin.Context) {
	var in userIn
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, err.Error())
		return
	}
	// Active travels through deactivate, not update: a full replace must not
	// silently resurrect a soft-deleted user.
	current, err := h.svc.FindByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	if current == nil {
		notFound(c, "user not found")
		return
	}
	out, err := h.svc.Update(c.Request.Context(), &domain.User{
		ID:     c.Param("id"),
		Email:  in.Email,
		Name:   in.Name,
		Active: current.Active,
	})
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, resp.OK(out))
}

func (h *UserHandler) remove(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, resp.OK(gin.H{"id": c.Param("id")}))
}

func (h *UserHandler) deactivate(c *gin.Context) {
	out, err := h.svc.Deactivate(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, resp.OK(out))
}

func (h *UserHandler) listActive(c *gin.Context) {
	if c.Query("page") != "" || c.Query("size") != "" {
		out, err := h.svc.ListActivePage(c.Request.Context(), parsePage(c))
		if err != nil {
			fail(c, err)
			return
		}
		c.JSON(http.StatusOK, resp.OK(out))
		return
	}
	out, err := h.svc.ListActive(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, resp.OK(out))
}

func (h *UserHandler) search(c *gin.Context) {
	name := c.Query("name")
	if name == "" {
		badRequest(c, "missing name")
		return
	}
	if c.Query("page") != "" || c.Query("size") != "" {
		out, err := h.svc.SearchByNamePage(c.Request.Context(), name, parsePage(c))
		if err != nil {
			fail(c, err)
			return
		}
		c.JSON(http.StatusOK, resp.OK(out))
		return
	}
	out, err := h.svc.SearchByName(c.Request.Context(), name)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, resp.OK(out))
}

func (h *UserHandler) byEmail(c *gin.Context) {
	email := c.Query("email")
	if email == "" {
		badRequest(c, "missing email")
		return
	}
	out, err := h.svc.FindByEmail(c.Request.Context(), email)
	if err != nil {
		fail(c, err)
		return
	}
	if out == nil {
		notFound(c, "user not found")
		return
	}
	c.JSON(http.StatusOK, resp.OK(out))
}

func (h *UserHandler) count(c *gin.Context) {
	n, err := h.svc.CountActive(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, resp.OK(gin.H{"count": n}))
}
