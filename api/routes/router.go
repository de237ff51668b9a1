package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/storefrontlabs/storefront-backend/api/controllers"
	webhookcontrollers "github.com/storefrontlabs/storefront-backend/api/controllers/webhooks"
	"github.com/storefrontlabs/storefront-backend/api/middleware"
	"github.com/storefrontlabs/storefront-backend/internal/auth"
	"github.com/storefrontlabs/storefront-backend/internal/cart"
	checkoutsvc "github.com/storefrontlabs/storefront-backend/internal/checkout"
	"github.com/storefrontlabs/storefront-backend/internal/orders"
	"github.com/storefrontlabs/storefront-backend/internal/products"
	stripewebhook "github.com/storefrontlabs/storefront-backend/internal/webhooks/stripe"
	"github.com/storefrontlabs/storefront-backend/pkg/config"
	"github.com/storefrontlabs/storefront-backend/pkg/db"
	"github.com/storefrontlabs/storefront-backend/pkg/enums"
	"github.com/storefrontlabs/storefront-backend/pkg/logger"
	pkgredis "github.com/storefrontlabs/storefront-backend/pkg/redis"
	pkgstripe "github.com/storefrontlabs/storefront-backend/pkg/stripe"
)

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	database db.Pinger,
	redisClient *pkgredis.Client,
	authService auth.Service,
	productService products.Service,
	cartService cart.Service,
	ordersService orders.Service,
	checkoutService checkoutsvc.Service,
	stripeClient *pkgstripe.Client,
	stripeWebhookService *stripewebhook.Service,
	stripeWebhookGuard *stripewebhook.IdempotencyGuard,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
	)

	loginPolicy := middleware.NewAuthRateLimitPolicy(
		"login",
		cfg.AuthRateLimit.LoginWindow,
		cfg.AuthRateLimit.LoginIPLimit,
		cfg.AuthRateLimit.LoginEmailLimit,
	)
	registerPolicy := middleware.NewAuthRateLimitPolicy(
		"register",
		cfg.AuthRateLimit.RegisterWindow,
		cfg.AuthRateLimit.RegisterIPLimit,
		cfg.AuthRateLimit.RegisterEmailLimit,
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, database, redisClient, logg))
	})

	r.Route("/api/v1", func(r chi.Router) {
		// Signature verification is the only gate on the webhook route.
		r.Route("/webhooks", func(r chi.Router) {
			r.Post("/stripe", webhookcontrollers.StripeWebhook(stripeWebhookService, stripeClient, stripeWebhookGuard, logg))
		})

		r.Route("/auth", func(r chi.Router) {
			r.With(middleware.AuthRateLimit(loginPolicy, redisClient, logg)).
				Post("/login", controllers.AuthLogin(authService, cfg.JWT, logg))
			r.With(
				middleware.AuthRateLimit(registerPolicy, redisClient, logg),
				middleware.Idempotency(redisClient, logg),
			).Post("/register", controllers.AuthRegister(authService, logg))
			r.Post("/logout", controllers.AuthLogout(cfg.JWT, logg))
		})

		// Catalog browsing is public.
		r.Get("/products", controllers.ProductList(productService, logg))
		r.Get("/products/{productId}", controllers.ProductDetail(productService, logg))

		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(cfg.JWT, logg))
			r.Use(middleware.Idempotency(redisClient, logg))

			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireCatalogManager(logg))
				r.Post("/products", controllers.ProductCreate(productService, logg))
				r.Put("/products/{productId}", controllers.ProductUpdate(productService, logg))
				r.Delete("/products/{productId}", controllers.ProductDelete(productService, logg))
			})

			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireRole(string(enums.RoleBuyer), logg))

				r.Route("/cart", func(r chi.Router) {
					r.Get("/", controllers.CartFetch(cartService, logg))
					r.Post("/add/{productId}", controllers.CartAddItem(cartService, logg))
					r.Post("/update/{itemId}", controllers.CartSetQuantity(cartService, logg))
					r.Post("/remove/{itemId}", controllers.CartRemoveItem(cartService, logg))
				})

				r.Post("/checkout", controllers.Checkout(checkoutService, logg))
				r.Get("/checkout/success", controllers.CheckoutSuccess(checkoutService, logg))
				r.Get("/checkout/cancel", controllers.CheckoutCancel(checkoutService, logg))
			})

			r.Route("/orders", func(r chi.Router) {
				r.Get("/", controllers.OrderList(ordersService, logg))
				r.Get("/{orderId}", controllers.OrderDetail(ordersService, logg))
			})
		})
	})

	return r
}
