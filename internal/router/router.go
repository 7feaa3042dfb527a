// Package router wires handlers and middleware onto an Echo instance.
package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/service-marketplace/internal/handler"
	"github.com/iliyamo/service-marketplace/internal/store"
)

// RegisterRoutes registers the unversioned operational endpoints.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
}

// RegisterAPI registers the /v1 marketplace API backed by s. The given
// middleware (cache, rate limit) applies to every /v1 route.
func RegisterAPI(e *echo.Echo, s *store.Store, mw ...echo.MiddlewareFunc) {
	users := handler.NewUserHandler(s)
	services := handler.NewServiceHandler(s)
	bookings := handler.NewBookingHandler(s)
	wallet := handler.NewWalletHandler(s)
	notes := handler.NewNotificationHandler(s)

	v1 := e.Group("/v1", mw...)

	v1.POST("/auth/verify", users.Verify)

	v1.POST("/users", users.Create)
	v1.GET("/users", users.List)
	v1.GET("/users/:id", users.Get)
	v1.PATCH("/users/:id", users.Update)
	v1.GET("/users/:id/bookings", bookings.ByUser)
	v1.GET("/users/:id/wallet", wallet.GetWallet)
	v1.POST("/users/:id/wallet/adjust", wallet.Adjust)
	v1.POST("/users/:id/wallet/ledger", wallet.ApplyLedger)
	v1.GET("/users/:id/transactions", wallet.Transactions)
	v1.GET("/users/:id/payment-methods", wallet.PaymentMethods)
	v1.POST("/users/:id/payment-methods", wallet.AddPaymentMethod)
	v1.PUT("/users/:id/payment-methods/:pm/default", wallet.SetDefault)
	v1.GET("/users/:id/notifications", notes.ByUser)
	v1.GET("/users/:id/notifications/unread-count", notes.UnreadCount)
	v1.POST("/users/:id/notifications/read-all", notes.MarkAllRead)

	v1.GET("/services", services.Search)
	v1.POST("/services", services.Create)
	v1.GET("/services/:id", services.Get)
	v1.PATCH("/services/:id", services.Update)
	v1.GET("/admin/services", services.ListAll)

	v1.GET("/providers/:id/services", services.ByProvider)
	v1.GET("/providers/:id/bookings", bookings.ByProvider)

	v1.POST("/bookings", bookings.Create)
	v1.GET("/bookings", bookings.ByDate)
	v1.GET("/bookings/:id", bookings.Get)
	v1.PATCH("/bookings/:id", bookings.Update)

	v1.POST("/transactions", wallet.CreateTransaction)
	v1.GET("/transactions/:id", wallet.GetTransaction)
	v1.PATCH("/transactions/:id", wallet.UpdateTransaction)

	v1.POST("/notifications", notes.Create)
	v1.POST("/notifications/:id/read", notes.MarkRead)
}
