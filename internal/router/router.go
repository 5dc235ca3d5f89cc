package router

import (
	"github.com/storefront-next/internal/config"
	adminhandlers "github.com/storefront-next/internal/http/handlers/admin"
	publichandlers "github.com/storefront-next/internal/http/handlers/public"
	"github.com/storefront-next/internal/http/response"
	"github.com/storefront-next/internal/logger"
	"github.com/storefront-next/internal/provider"

	"github.com/gin-gonic/gin"
)

// SetupRouter 初始化本地桥接路由
func SetupRouter(cfg *config.Config, c *provider.Container) *gin.Engine {
	log := logger.L
	if log == nil {
		log = logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	}
	r := gin.New()

	h := publichandlers.New(c)
	adminHandler := adminhandlers.New(c)
	security := cfg.Security
	loginRule := NewRateLimitRule(cfg.Redis.Prefix, "login", security.LoginRateLimit, "Too many login attempts. Try again in %d seconds.")
	registerRule := NewRateLimitRule(cfg.Redis.Prefix, "register", security.LoginRateLimit, "")
	resetRule := NewRateLimitRule(cfg.Redis.Prefix, "password_reset", security.PasswordResetRateLimit, "Too many attempts. Try again in %d seconds.")

	// 中间件
	r.Use(RequestIDMiddleware())
	r.Use(RecoveryMiddleware(log))
	r.Use(LoggerMiddleware(log))
	r.Use(CORSMiddleware(cfg.CORS))

	apiV1 := r.Group("/api/v1")
	{
		apiV1.GET("/state", h.GetState)
		apiV1.GET("/state/stream", h.StreamState)
		apiV1.GET("/products", h.ListProducts)
		apiV1.GET("/products/:id", h.GetProduct)
		apiV1.GET("/categories", h.ListCategories)

		cart := apiV1.Group("/cart")
		{
			cart.POST("/refresh", h.RefreshCart)
			cart.DELETE("", h.ClearCart)
			cart.POST("/items", h.AddCartItem)
			cart.PATCH("/items/:id", h.UpdateCartItem)
			cart.DELETE("/items/:id", h.RemoveCartItem)
		}

		checkout := apiV1.Group("/checkout")
		{
			checkout.POST("", h.StartCheckout)
			checkout.GET("/:session_id", h.GetCheckout)
			checkout.POST("/:session_id/pay", h.PayCheckout)
			checkout.POST("/:session_id/finalize", h.FinalizeCheckout)
			checkout.POST("/:session_id/payment-methods", h.AddPaymentMethod)
		}

		auth := apiV1.Group("/auth")
		{
			auth.POST("/login", RateLimitMiddleware(c.Redis, loginRule, KeyByIPAndJSONField("email")), h.Login)
			auth.POST("/register", RateLimitMiddleware(c.Redis, registerRule, KeyByIPAndJSONField("email")), h.Register)
			auth.POST("/forgot-password", RateLimitMiddleware(c.Redis, resetRule, KeyByIPAndJSONField("email")), h.ForgotPassword)
			auth.POST("/reset-password", RateLimitMiddleware(c.Redis, resetRule, KeyByIPAndJSONField("email")), h.ResetPassword)
			auth.POST("/verify-otp", RateLimitMiddleware(c.Redis, resetRule, KeyByIPAndJSONField("email")), h.VerifyOTP)
			auth.POST("/logout", h.Logout)
			auth.GET("/me", h.GetMe)
			auth.POST("/view-mode", h.ToggleViewMode)
		}

		orders := apiV1.Group("/orders")
		{
			orders.GET("", h.ListOrders)
			orders.GET("/:id", h.GetOrder)
			orders.GET("/:id/tracking", h.GetOrderTracking)
			orders.GET("/:id/payments", h.ListOrderPayments)
			orders.POST("/:id/payments", h.PayOrder)
		}

		account := apiV1.Group("/account")
		{
			account.GET("/profile", h.GetProfile)
			account.PUT("/profile", h.UpdateProfile)
			account.GET("/payment-methods", h.ListPaymentMethods)
			account.PATCH("/payment-methods/:id/default", h.SetDefaultPaymentMethod)
			account.PATCH("/payment-methods/:id/access", h.SetPaymentMethodAccess)
			account.GET("/payments", h.ListPayments)
		}

		admin := apiV1.Group("/admin")
		admin.Use(AdminSessionMiddleware(c.Auth))
		{
			admin.GET("/orders", adminHandler.ListOrders)
			admin.GET("/orders/:id/tracking", adminHandler.GetOrderTracking)
			admin.PATCH("/orders/:id/status", adminHandler.UpdateOrderStatus)
			admin.GET("/users", adminHandler.ListUsers)
			admin.PATCH("/users/:id/access", adminHandler.SetUserAccess)
			admin.PUT("/users/:id", adminHandler.UpdateUser)
			admin.POST("/products", adminHandler.CreateProduct)
			admin.PUT("/products/:id", adminHandler.UpdateProduct)
			admin.DELETE("/products/:id", adminHandler.DeleteProduct)
			admin.POST("/categories", adminHandler.CreateCategory)
			admin.PUT("/categories/:id", adminHandler.UpdateCategory)
			admin.DELETE("/categories/:id", adminHandler.DeleteCategory)
		}
	}

	r.NoRoute(func(ctx *gin.Context) {
		response.NotFound(ctx, "Not found.")
	})
	return r
}
