package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"storefront-api/internal/core/auth"
	resp "storefront-api/internal/transport/http/response"
	"storefront-api/pkg/passwd"
)

// AuthHandler issues operator tokens against the credentials from config.
type AuthHandler struct {
	jwter        *auth.JWTer
	adminUser    string
	adminPwdHash string
	log          *zap.Logger
}

func NewAuthHandler(jwter *auth.JWTer, adminUser, adminPwdHash string, log *zap.Logger) *AuthHandler {
	return &AuthHandler{jwter: jwter, adminUser: adminUser, adminPwdHash: adminPwdHash, log: log}
}

type loginIn struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func (h *AuthHandler) Mount(g *gin.RouterGroup) {
	g.POST("/auth/login", h.login)
}

func (h *AuthHandler) login(c *gin.Context) {
	var in loginIn
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, err.Error())
		return
	}
	if in.Username != h.adminUser || !passwd.Check(in.Password, h.adminPwdHash) {
		h.log.Warn("failed operator login", zap.String("username", in.Username), zap.String("ip", c.ClientIP()))
		c.JSON(http.StatusUnauthorized, resp.Error(resp.CodeUnauthorized, "invalid credentials"))
		return
	}
	tok, err := h.jwter.Issue(in.Username, "admin")
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, resp.OK(gin.H{"token": tok}))
}
