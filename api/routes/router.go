package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/buynowhq/buynow-backend/api/controllers"
	"github.com/buynowhq/buynow-backend/api/middleware"
	authsvc "github.com/buynowhq/buynow-backend/internal/auth"
	checkoutsvc "github.com/buynowhq/buynow-backend/internal/checkout"
	"github.com/buynowhq/buynow-backend/internal/orders"
	"github.com/buynowhq/buynow-backend/internal/products"
	"github.com/buynowhq/buynow-backend/internal/users"
	"github.com/buynowhq/buynow-backend/pkg/config"
	"github.com/buynowhq/buynow-backend/pkg/db"
	"github.com/buynowhq/buynow-backend/pkg/logger"
	"github.com/buynowhq/buynow-backend/pkg/metrics"
	"github.com/buynowhq/buynow-backend/pkg/redis"
	"github.com/buynowhq/buynow-backend/pkg/storage/gcs"
)

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP db.Pinger,
	redisClient *redis.Client,
	gcsClient gcs.Pinger,
	httpMetrics *metrics.HTTPMetrics,
	usersService users.Service,
	authService authsvc.Service,
	productsService products.Service,
	ordersService orders.Service,
	checkoutService checkoutsvc.Service,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(cfg.App.FrontendOrigin),
		middleware.Metrics(httpMetrics),
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
	// A nil *redis.Client boxed into the store interface would defeat the
	// middleware's nil check, so resolve the fail-open path here.
	authLimiter := func(policy middleware.AuthRateLimitPolicy) func(http.Handler) http.Handler {
		if redisClient == nil {
			return middleware.AuthRateLimit(policy, nil, logg)
		}
		return middleware.AuthRateLimit(policy, redisClient, logg)
	}

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, dbP, redisClient, gcsClient))
	})

	if httpMetrics != nil {
		r.Method(http.MethodGet, "/metrics", httpMetrics.Handler())
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.With(authLimiter(registerPolicy)).
			Post("/register", controllers.Register(authService, cfg.App, cfg.JWT, logg))
		r.With(authLimiter(loginPolicy)).
			Post("/login", controllers.Login(authService, cfg.App, cfg.JWT, logg))
		r.Delete("/logout", controllers.Logout(cfg.App, logg))
		r.Post("/password/forgot", controllers.ForgotPassword(authService, logg))
		r.Put("/password/reset/{token}", controllers.ResetPassword(authService, cfg.App, cfg.JWT, logg))

		r.Get("/products", controllers.ListProducts(productsService, logg))
		r.Get("/product/{id}", controllers.GetProduct(productsService, logg))

		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(cfg.JWT, usersService, logg))

			r.Get("/me", controllers.Me(usersService, logg))
			r.Put("/me/update", controllers.UpdateProfile(usersService, logg))
			r.Put("/password/update", controllers.UpdatePassword(authService, cfg.App, cfg.JWT, logg))

			r.Post("/product/new", controllers.CreateProduct(productsService, logg))
			r.Put("/product/{id}", controllers.UpdateProduct(productsService, logg))
			r.Delete("/product/{id}", controllers.DeleteProduct(productsService, logg))
			r.Put("/review", controllers.UpsertReview(productsService, logg))
			r.Get("/reviews", controllers.ListReviews(productsService, logg))
			r.Delete("/reviews", controllers.DeleteReview(productsService, logg))

			r.Post("/checkout", controllers.Checkout(checkoutService, logg))
			r.Post("/order/new", controllers.CreateOrder(ordersService, logg))
			r.Get("/order/{id}", controllers.GetOrder(ordersService, logg))
			r.Get("/orders/me", controllers.ListMyOrders(ordersService, logg))

			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireRole("admin", logg))

				r.Get("/admin/users", controllers.AdminListUsers(usersService, logg))
				r.Get("/admin/user/{id}", controllers.AdminGetUser(usersService, logg))
				r.Put("/admin/user/{id}", controllers.AdminUpdateUser(usersService, logg))
				r.Delete("/admin/user/{id}", controllers.AdminDeleteUser(usersService, logg))

				r.Get("/admin/products", controllers.AdminListProducts(productsService, logg))

				r.Get("/admin/orders", controllers.AdminListOrders(ordersService, logg))
				r.Put("/admin/order/{id}", controllers.AdminUpdateOrder(ordersService, logg))
				r.Delete("/admin/order/{id}", controllers.AdminDeleteOrder(ordersService, logg))
			})
		})
	})

	return r
}
