package router

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/oksasatya/go-library-records/internal/container"
	"github.com/oksasatya/go-library-records/internal/interface/middleware"
	"github.com/oksasatya/go-library-records/pkg/response"
)

// New builds the gin engine with global middleware, the health probe and
// every /api module.
func New(c *container.Container) *gin.Engine {
	cfg := c.Config

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestIDMiddleware())
	r.Use(middleware.RealIP())
	if cfg.HTTPLogEnabled {
		r.Use(middleware.AccessLog(c.Logger))
	}
	r.Use(cors.New(corsConfig(cfg.CORSOrigins())))

	r.GET("/healthz", health(c))

	reg := NewRegistry(r, c.Logger)
	var allow middleware.AllowFunc
	if cfg.RateLimitSkipPrivate {
		allow = middleware.AllowPrivateIP()
	}
	reg.Use(middleware.RateLimit(c.Redis, cfg.RateLimitPerMin, time.Minute, middleware.KeyByIP(), allow))
	InitModules(reg, c)
	reg.RegisterAll()
	return r
}

// corsConfig allows any origin when none are configured. Credentials are
// only allowed with an explicit origin list.
func corsConfig(origins []string) cors.Config {
	cc := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", "Authorization", middleware.HeaderRequestID},
		ExposeHeaders: []string{"Content-Length", middleware.HeaderRequestID},
		MaxAge:        12 * time.Hour,
	}
	if len(origins) == 0 {
		cc.AllowAllOrigins = true
		return cc
	}
	cc.AllowOrigins = origins
	cc.AllowCredentials = true
	return cc
}

type healthStatus struct {
	Store string `json:"store"`
	Redis string `json:"redis,omitempty"`
}

func health(c *container.Container) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		st := healthStatus{Store: c.Config.StoreDriver}
		if c.Redis != nil {
			pctx, cancel := context.WithTimeout(ctx.Request.Context(), 2*time.Second)
			defer cancel()
			st.Redis = "ok"
			if err := c.Redis.Ping(pctx).Err(); err != nil {
				st.Redis = "unreachable"
			}
		}
		response.OK(ctx, http.StatusOK, st, "ok", nil)
	}
}
