package router

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	ginzap "github.com/gin-contrib/zap"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"storefront-api/internal/core/auth"
	"storefront-api/internal/transport/http/handler"
	mdw "storefront-api/internal/transport/http/middleware"
)

type Deps struct {
	Users    *handler.UserHandler
	Products *handler.ProductHandler
	External *handler.ExternalHandler
	Cache    *handler.CacheHandler
	Auth     *handler.AuthHandler
	JWTer    *auth.JWTer
	Env      string
}

func New(l *zap.Logger, d Deps) *gin.Engine {
	if d.Env == "prod" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(
		ginzap.RecoveryWithZap(l, true),
		mdw.RequestID(),
		mdw.RateLimit(200, 400),
		mdw.ConcurrencyLimit(300),
		mdw.MaxBodyBytes(16<<20),
		mdw.Timeout(10*time.Second),
		mdw.Metrics(),
		mdw.AccessLog(l),
	)

	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"ok": 1}) })
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/api/v1")
	api.Use(cors.Default())

	d.Users.Mount(api)
	d.Products.Mount(api)
	d.External.Mount(api)
	d.Auth.Mount(api)

	admin := api.Group("")
	admin.Use(mdw.AuthJWT(d.JWTer, "admin"))
	d.Cache.Mount(admin)

	return r
}
