package router

import (
	"net/http"
	"time"

	"github.com/SwiftParcel/SwiftParcel/internal/address"
	"github.com/SwiftParcel/SwiftParcel/internal/common/config"
	"github.com/SwiftParcel/SwiftParcel/internal/common/logger"
	"github.com/SwiftParcel/SwiftParcel/internal/common/middleware"
	"github.com/SwiftParcel/SwiftParcel/internal/order"
	"github.com/SwiftParcel/SwiftParcel/internal/payment"
	"github.com/SwiftParcel/SwiftParcel/internal/review"
	"github.com/SwiftParcel/SwiftParcel/internal/station"
	"github.com/SwiftParcel/SwiftParcel/internal/user"
	"github.com/gin-gonic/gin"
	rd "github.com/redis/go-redis/v9"
)

// Handlers 各领域的 HTTP 适配层，由 main 组装后交给路由。
type Handlers struct {
	User    *user.Handler
	Station *station.Handler
	Order   *order.Handler
	Payment *payment.Handler
	Address *address.Handler
	Review  *review.Handler
}

// Setup 组装全部路由与中间件。rdb 为 nil 时限流退化为进程内令牌桶。
func Setup(cfg *config.Config, log logger.Logger, rdb *rd.Client, h Handlers) *gin.Engine {
	engine := gin.New()

	engine.Use(middleware.Recovery(log))
	engine.Use(middleware.AccessLog(log))
	engine.Use(middleware.Tracing(cfg.Server.Name))
	if rdb != nil {
		engine.Use(middleware.RedisRateLimit(rdb, cfg.RateLimit.Limit,
			time.Duration(cfg.RateLimit.WindowSec)*time.Second))
	} else {
		refill := int64(cfg.RateLimit.Limit / max(cfg.RateLimit.WindowSec, 1))
		engine.Use(middleware.LocalRateLimit(
			middleware.NewTokenBucket(int64(cfg.RateLimit.Limit), max(refill, 1))))
	}

	engine.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":    "ok",
			"timestamp": time.Now().Format(time.RFC3339),
		})
	})

	api := engine.Group("/api")
	authed := middleware.AuthRequired(cfg.Auth)

	authGroup := api.Group("/auth")
	{
		authGroup.POST("/register", h.User.Register)
		authGroup.POST("/login", h.User.Login)
		authGroup.GET("/profile", authed, h.User.GetProfile)
		authGroup.PUT("/profile", authed, h.User.UpdateProfile)
	}

	stations := api.Group("/stations")
	{
		stations.GET("", h.Station.List)
		stations.GET("/:id", h.Station.Get)
		stations.POST("", authed, h.Station.Create)
		stations.PUT("/:id", authed, h.Station.Update)
		stations.DELETE("/:id", authed, h.Station.Delete)
	}

	orders := api.Group("/orders", authed)
	{
		orders.POST("", h.Order.Create)
		orders.GET("", h.Order.List)
		orders.GET("/stats/summary", h.Order.GetStats)
		orders.GET("/:id", h.Order.Get)
		orders.PUT("/:id/status", h.Order.UpdateStatus)
		orders.PUT("/:id/cancel", h.Order.Cancel)
	}

	payments := api.Group("/payments")
	{
		// 渠道回调不走鉴权
		payments.POST("/notify", h.Payment.Notify)

		payments.POST("/create", authed, h.Payment.Create)
		payments.POST("/confirm", authed, h.Payment.Confirm)
		payments.POST("/cancel", authed, h.Payment.Cancel)
		payments.POST("/refund", authed, h.Payment.Refund)
		payments.GET("/history", authed, h.Payment.History)
		payments.GET("/:paymentId/status", authed, h.Payment.Status)
	}

	addresses := api.Group("/addresses", authed)
	{
		addresses.GET("", h.Address.List)
		addresses.POST("", h.Address.Create)
		addresses.GET("/default", h.Address.GetDefault)
		addresses.PUT("/:id", h.Address.Update)
		addresses.DELETE("/:id", h.Address.Delete)
		addresses.PUT("/:id/default", h.Address.SetDefault)
	}

	reviews := api.Group("/reviews", authed)
	{
		reviews.POST("/order/:orderId", h.Review.Create)
		reviews.GET("/order/:orderId", h.Review.GetByOrder)
		reviews.GET("/user", h.Review.ListMine)
		reviews.GET("/stats/overview", h.Review.GetStats)
		reviews.PUT("/:id", h.Review.Update)
		reviews.DELETE("/:id", h.Review.Delete)
	}

	return engine
}
