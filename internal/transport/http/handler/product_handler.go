package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"storefront-api/internal/domain"
	"storefront-api/internal/service"
	resp "storefront-api/internal/transport/http/response"
)

type ProductHandler struct {
	svc *service.ProductService
	log *zap.Logger
}

func NewProductHandler(svc *service.ProductService, log *zap.Logger) *ProductHandler {
	return &ProductHandler{svc: svc, log: log}
}

type productIn struct {
	Name     string   `json:"name" binding:"required,max=191"`
	Category string   `json:"category" binding:"max=64"`
	Price    float64  `json:"price" binding:"gte=0"`
	Stock    int      `json:"stock" binding:"gte=0"`
	Tags     []string `json:"tags"`
}

type stockIn struct {
	Stock int `json:"stock" binding:"gte=0"`
}

type availabilityIn struct {
	Available *bool `json:"available" binding:"required"`
}

func (h *ProductHandler) Mount(g *gin.RouterGroup) {
	p := g.Group("/products")
	p.POST("", h.create)
	p.GET("/available", h.listAvailable)
	p.GET("/search", h.search)
	p.GET("/price-range", h.priceRange)
	p.GET("/low-stock", h.lowStock)
	p.GET("/count", h.countAvailable)
	p.GET("/count/category/:category", h.countByCategory)
	p.GET("/category/:category", h.byCategory)
	p.GET("/tag/:tag", h.byTag)
	p.GET("/:id", h.get)
	p.PUT("/:id", h.update)
	p.DELETE("/:id", h.remove)
	p.PATCH("/:id/stock", h.updateStock)
	p.PATCH("/:id/availability", h.setAvailability)
}

func (h *ProductHandler) create(c *gin.Context) {
	var in productIn
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, err.Error())
		return
	}
	out, err := h.svc.Create(c.Request.Context(), &domain.Product{
		Name:     in.Name,
		Category: in.Category,
		Price:    in.Price,
		Stock:    in.Stock,
		Tags:     in.Tags,
	})
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp.OK(out))
}

func (h *ProductHandler) get(c *gin.Context) {
	out, err := h.svc.FindByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	if out == nil {
		notFound(c, "product not found")
		return
	}
	c.JSON(http.StatusOK, resp.OK(out))
}

func (h *ProductHandler) update(c *gin.Context) {
	var in productIn
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, err.Error())
		return
	}
	current, err := h.svc.FindByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	if current == nil {
		notFound(c, "product not found")
		return
	}
	out, err := h.svc.Update(c.Request.Context(), &domain.Product{
		ID:        c.Param("id"),
		Name:      in.Name,
		Category:  in.Category,
		Price:     in.Price,
		Stock:     in.Stock,
		Tags:      in.Tags,
		Available: current.Available,
	})
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, resp.OK(out))
}

func (h *ProductHandler) remove(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, resp.OK(gin.H{"id": c.Param("id")}))
}

func (h *ProductHandler) updateStock(c *gin.Context) {
	var in stockIn
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, err.Error())
		return
	}
	out, err := h.svc.UpdateStock(c.Request.Context(), c.Param("id"), in.Stock)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, resp.OK(out))
}

func (h *ProductHandler) setAvailability(c *gin.Context) {
	var in availabilityIn
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, err.Error())
		return
	}
	out, err := h.svc.SetAvailability(c.Request.Context(), c.Param("id"), *in.Available)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, resp.OK(out))
}

func (h *ProductHandler) listAvailable(c *gin.Context) {
	if c.Query("page") != "" || c.Query("size") != "" {
		out, err := h.svc.ListAvailablePage(c.Request.Context(), parsePage(c))
		if err != nil {
			fail(c, err)
			return
		}
		c.JSON(http.StatusOK, resp.OK(out))
		return
	}
	out, err := h.svc.ListAvailable(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, resp.OK(out))
}

func (h *ProductHandler) byCategory(c *gin.Context) {
	category := c.Param("category")
	if c.Query("page") != "" || c.Query("size") != "" {
		out, err := h.svc.FindByCategoryPage(c.Request.Context(), category, parsePage(c))
		if err != nil {
			fail(c, err)
			return
		}
		c.JSON(http.StatusOK, resp.OK(out))
		return
	}
	out, err := h.svc.FindByCategory(c.Request.Context(), category)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, resp.OK(out))
}

func (h *ProductHandler) byTag(c *gin.Context) {
	out, err := h.svc.FindByTag(c.Request.Context(), c.Param("tag"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, resp.OK(out))
}

func (h *ProductHandler) search(c *gin.Context) {
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

func (h *ProductHandler) priceRange(c *gin.Context) {
	min, err1 := strconv.ParseFloat(c.Query("min"), 64)
	max, err2 := strconv.ParseFloat(c.Query("max"), 64)
	if err1 != nil || err2 != nil || min < 0 || max < min {
		badRequest(c, "invalid price range")
		return
	}
	out, err := h.svc.FindByPriceRange(c.Request.Context(), min, max)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, resp.OK(out))
}

func (h *ProductHandler) lowStock(c *gin.Context) {
	maxStock, err := strconv.Atoi(c.DefaultQuery("max", "10"))
	if err != nil || maxStock < 0 {
		badRequest(c, "invalid max")
		return
	}
	out, err := h.svc.FindLowStock(c.Request.Context(), maxStock)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, resp.OK(out))
}

func (h *ProductHandler) countAvailable(c *gin.Context) {
	n, err := h.svc.CountAvailable(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, resp.OK(gin.H{"count": n}))
}

func (h *ProductHandler) countByCategory(c *gin.Context) {
	n, err := h.svc.CountByCategory(c.Request.Context(), c.Param("category"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, resp.OK(gin.H{"category": c.Param("category"), "count": n}))
}
