// Package kernel assembles the HTTP surface: services, controllers,
// middleware stack, and routes.
package kernel

import (
	"net/http"
	"time"

	"github.com/ruberanziza1/alx-project-nexus/app/controllers"
	"github.com/ruberanziza1/alx-project-nexus/app/routes"
	"github.com/ruberanziza1/alx-project-nexus/app/services"
	"github.com/ruberanziza1/alx-project-nexus/config"
	"github.com/ruberanziza1/alx-project-nexus/pkg/auth"
	"github.com/ruberanziza1/alx-project-nexus/pkg/cache"
	"github.com/ruberanziza1/alx-project-nexus/pkg/metrics"
	"github.com/ruberanziza1/alx-project-nexus/pkg/middleware"
	"github.com/ruberanziza1/alx-project-nexus/pkg/reqid"
	"github.com/ruberanziza1/alx-project-nexus/pkg/router"
	"gorm.io/gorm"
)

// Services bundles the domain services so boot code can reach them for
// scheduled work without rebuilding.
type Services struct {
	OTP      *services.OTPStore
	Limiter  *services.Limiter
	Auth     *services.AuthService
	Cart     *services.CartService
	Orders   *services.OrderService
	Products *services.ProductService
	Payments *services.PaymentService
	Tokens   *auth.Manager
}

// BuildServices wires every domain service against db with config taken
// from the environment.
func BuildServices(db *gorm.DB) *Services {
	tokenCfg := config.TokenSection()
	tokens := auth.NewManager(auth.Config{
		Secret:     []byte(tokenCfg.Secret),
		AccessTTL:  tokenCfg.AccessTTL,
		RefreshTTL: tokenCfg.RefreshTTL,
	}, refreshStore())

	otp := services.NewOTPStore(db, config.OTPSection())
	limiter := services.NewLimiter(db, config.RateLimitSection())

	return &Services{
		OTP:      otp,
		Limiter:  limiter,
		Auth:     services.NewAuthService(db, otp, limiter, tokens),
		Cart:     services.NewCartService(db),
		Orders:   services.NewOrderService(db),
		Products: services.NewProductService(db),
		Payments: services.NewPaymentService(db, &services.HostedGateway{}, config.PaymentsSection()),
		Tokens:   tokens,
	}
}

// NewRouter builds the full router with the global middleware stack and
// every API route mounted.
//
// Middleware order (outermost to innermost):
//  1. Prometheus metrics, outermost for accurate total latency
//  2. Recovery, catches panics before they kill the goroutine
//  3. Request ID, injected before anything logs
//  4. Logger, logs request_id from context
//  5. CORS
//  6. Rate limiter, rejects abusers early
func NewRouter(svc *Services) *router.Router {
	r := router.New()

	r.Use(metrics.Middleware())
	r.Use(middleware.Recovery)
	r.Use(reqid.Middleware())
	r.Use(middleware.Logger)
	r.Use(middleware.CORS(middleware.DefaultCORSOptions()))
	r.Use(middleware.RateLimit(config.GetInt("RATE_LIMIT_PER_MINUTE", 200), time.Minute))

	// Prometheus endpoint; no auth, no rate limit concerns at this volume.
	r.HandleFunc("/metrics", metrics.Handler())

	routes.RegisterAPI(r, routes.Deps{
		Auth:     controllers.NewAuthController(svc.Auth),
		Products: controllers.NewProductController(svc.Products),
		Cart:     controllers.NewCartController(svc.Cart),
		Orders:   controllers.NewOrderController(svc.Orders),
		Payments: controllers.NewPaymentController(svc.Payments),
		Tokens:   svc.Tokens,
	})

	return r
}

// Handler is the convenience entry point used by the server.
func Handler(svc *Services) http.Handler {
	return NewRouter(svc).Handler()
}

// refreshStore prefers Redis so refresh rotation survives restarts, and
// falls back to process memory when Redis is not configured.
func refreshStore() auth.RefreshStore {
	if cache.RDB != nil {
		return auth.NewRedisRefreshStore(cache.RDB)
	}
	return auth.NewMemoryRefreshStore()
}
