// Package routes mounts the versioned REST API.
package routes

import (
	"github.com/ruberanziza1/alx-project-nexus/app/controllers"
	"github.com/ruberanziza1/alx-project-nexus/app/models"
	"github.com/ruberanziza1/alx-project-nexus/pkg/auth"
	"github.com/ruberanziza1/alx-project-nexus/pkg/middleware"
	"github.com/ruberanziza1/alx-project-nexus/pkg/rbac"
	"github.com/ruberanziza1/alx-project-nexus/pkg/router"
)

// Deps carries the constructed controllers and the token manager the auth
// middleware needs.
type Deps struct {
	Auth     *controllers.AuthController
	Products *controllers.ProductController
	Cart     *controllers.CartController
	Orders   *controllers.OrderController
	Payments *controllers.PaymentController
	Tokens   *auth.Manager
}

// RegisterAPI mounts every endpoint under /api/v1.
func RegisterAPI(r *router.Router, d Deps) {
	api := r.Group("/api/v1")

	// Public auth surface.
	ag := api.Group("/auth")
	ag.Post("/register", "auth.register", d.Auth.Register)
	ag.Post("/login", "auth.login", d.Auth.Login)
	ag.Post("/verify-otp", "auth.verify", d.Auth.VerifyOTP)
	ag.Post("/resend-otp", "auth.resend", d.Auth.ResendOTP)
	ag.Post("/forgot-password", "auth.forgot", d.Auth.ForgotPassword)
	ag.Post("/reset-password", "auth.reset", d.Auth.ResetPassword)
	ag.Post("/refresh", "auth.refresh", d.Auth.Refresh)

	// Public catalogue.
	api.Get("/products", "products.list", d.Products.List)
	api.Get("/products/{slug}", "products.show", d.Products.Get)

	// Gateway webhook; authenticated by signature, not by bearer token.
	api.Post("/payments/webhook", "payments.webhook", d.Payments.Webhook)

	// Everything below requires a valid access token.
	authed := api.Group("", middleware.Auth(d.Tokens))

	authed.Get("/auth/profile", "auth.profile", d.Auth.Profile)
	authed.Post("/auth/change-password", "auth.change-password", d.Auth.ChangePassword)
	authed.Post("/auth/logout", "auth.logout", d.Auth.Logout)

	authed.Get("/cart", "cart.show", d.Cart.Show)
	authed.Delete("/cart", "cart.clear", d.Cart.Clear)
	authed.Post("/cart/items", "cart.items.add", d.Cart.AddItem)
	authed.Put("/cart/items/{id}", "cart.items.update", d.Cart.UpdateItem)
	authed.Delete("/cart/items/{id}", "cart.items.remove", d.Cart.RemoveItem)

	authed.Post("/orders", "orders.create", d.Orders.Create)
	authed.Get("/orders", "orders.list", d.Orders.List)
	authed.Get("/orders/{id}", "orders.show", d.Orders.Get)
	authed.Post("/orders/{id}/cancel", "orders.cancel", d.Orders.Cancel)
	authed.Post("/orders/{id}/checkout", "payments.checkout", d.Payments.Checkout)

	// Admin surface.
	admin := authed.Group("", rbac.RequireRole(string(models.RoleAdmin)))
	admin.Post("/products", "admin.products.create", d.Products.Create)
	admin.Put("/products/{id}", "admin.products.update", d.Products.Update)
	admin.Delete("/products/{id}", "admin.products.delete", d.Products.Delete)
	admin.Patch("/orders/{id}/status", "admin.orders.status", d.Orders.UpdateStatus)
}
