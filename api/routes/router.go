package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/mrbebidas/catalog-backend/api/controllers"
	"github.com/mrbebidas/catalog-backend/api/middleware"
	"github.com/mrbebidas/catalog-backend/internal/auth"
	"github.com/mrbebidas/catalog-backend/internal/cart"
	"github.com/mrbebidas/catalog-backend/internal/catalog"
	"github.com/mrbebidas/catalog-backend/internal/categories"
	checkoutsvc "github.com/mrbebidas/catalog-backend/internal/checkout"
	"github.com/mrbebidas/catalog-backend/internal/products"
	"github.com/mrbebidas/catalog-backend/internal/realtime"
	settingssvc "github.com/mrbebidas/catalog-backend/internal/settings"
	"github.com/mrbebidas/catalog-backend/pkg/auth/session"
	"github.com/mrbebidas/catalog-backend/pkg/config"
	"github.com/mrbebidas/catalog-backend/pkg/db"
	"github.com/mrbebidas/catalog-backend/pkg/logger"
	"github.com/mrbebidas/catalog-backend/pkg/redis"
)

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP db.Pinger,
	redisClient *redis.Client,
	sessions session.AccessSessionChecker,
	registry *prometheus.Registry,
	hub *realtime.Hub,
	authService auth.Service,
	registerService auth.RegisterService,
	catalogService catalog.Service,
	cartService cart.Service,
	checkoutService checkoutsvc.Service,
	settingsService settingssvc.Service,
	categoriesService categories.Service,
	productsService products.Service,
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

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, dbP, redisClient))
	})

	if registry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	}

	r.Route("/api/public", func(r chi.Router) {
		r.Get("/catalog", controllers.PublicCatalog(catalogService, logg))
		r.Get("/catalog/stream", controllers.CatalogStream(hub, logg))
		r.Get("/settings", controllers.PublicSettings(settingsService, logg))

		r.Route("/cart", func(r chi.Router) {
			r.Get("/", controllers.CartGet(cartService, logg))
			r.Delete("/", controllers.CartClear(cartService, logg))
			r.Post("/items", controllers.CartAddItem(cartService, logg))
			r.Patch("/items/{productId}", controllers.CartAdjustItem(cartService, logg))
			r.Delete("/items/{productId}", controllers.CartRemoveItem(cartService, logg))
		})

		r.Post("/checkout", controllers.CheckoutCompose(checkoutService, logg))
	})

	r.Route("/api/admin/v1/auth", func(r chi.Router) {
		if !cfg.App.IsProd() {
			r.Post("/register", controllers.AuthRegister(registerService, authService, logg))
		}
		r.With(middleware.AuthRateLimit(loginPolicy, redisClient, logg)).Post("/login", controllers.AuthLogin(authService, logg))
		r.Post("/refresh", controllers.AuthRefresh(authService, logg))
		r.Post("/logout", controllers.AuthLogout(authService, logg))
	})

	r.Route("/api/admin/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, sessions, logg))

		r.Get("/catalog", controllers.AdminCatalog(catalogService, logg))

		r.Route("/categories", func(r chi.Router) {
			r.Get("/", controllers.AdminListCategories(categoriesService, logg))
			r.Post("/", controllers.AdminUpsertCategory(categoriesService, logg))
			r.Delete("/{categoryId}", controllers.AdminDeleteCategory(categoriesService, logg))
		})

		r.Route("/products", func(r chi.Router) {
			r.Get("/", controllers.AdminListProducts(productsService, logg))
			r.Post("/", controllers.AdminUpsertProduct(productsService, logg))
			r.Delete("/{productId}", controllers.AdminDeleteProduct(productsService, logg))
		})

		r.Route("/settings/{key}", func(r chi.Router) {
			r.Get("/", controllers.AdminGetSetting(settingsService, logg))
			r.Put("/", controllers.AdminPutSetting(settingsService, logg))
		})

		r.Get("/schema/script", controllers.AdminSchemaScript(logg))
	})

	return r
}
