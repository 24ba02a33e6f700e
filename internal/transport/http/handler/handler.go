// Package handler maps HTTP requests onto the resource services and formats
// their outcomes.
package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"storefront-api/internal/domain"
	resp "storefront-api/internal/transport/http/response"
)

func fail(c *gin.Context, err error) {
	status, body := resp.FromError(err)
	c.JSON(status, body)
}

func badRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, resp.Error(resp.CodeBadRequest, msg))
}

func notFound(c *gin.Context, msg string) {
	c.JSON(http.StatusNotFound, resp.Error(resp.CodeNotFound, msg))
}

func parsePage(c *gin.Context) domain.PageRequest {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "0"))
	size, _ := strconv.Atoi(c.DefaultQuery("size", "20"))
	desc := c.DefaultQuery("dir", "desc") != "asc"
	return domain.PageRequest{
		Page:   page,
		Size:   size,
		SortBy: c.Query("sort"),
		Desc:   desc,
	}.Normalize()
}
