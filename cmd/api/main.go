package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"

	"github.com/buynowhq/buynow-backend/api/routes"
	authsvc "github.com/buynowhq/buynow-backend/internal/auth"
	checkoutsvc "github.com/buynowhq/buynow-backend/internal/checkout"
	"github.com/buynowhq/buynow-backend/internal/orders"
	"github.com/buynowhq/buynow-backend/internal/products"
	"github.com/buynowhq/buynow-backend/internal/users"
	"github.com/buynowhq/buynow-backend/pkg/config"
	"github.com/buynowhq/buynow-backend/pkg/db"
	"github.com/buynowhq/buynow-backend/pkg/logger"
	"github.com/buynowhq/buynow-backend/pkg/mailer"
	"github.com/buynowhq/buynow-backend/pkg/metrics"
	"github.com/buynowhq/buynow-backend/pkg/migrate"
	"github.com/buynowhq/buynow-backend/pkg/redis"
	"github.com/buynowhq/buynow-backend/pkg/square"
	"github.com/buynowhq/buynow-backend/pkg/storage/gcs"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	gcsClient, err := gcs.NewClient(context.Background(), cfg.GCS, cfg.GCP, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap gcs", err)
		os.Exit(1)
	}
	defer func() {
		if err := gcsClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing gcs", err)
		}
	}()

	mailClient, err := mailer.NewMailgun(cfg.Mailgun)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap mailgun", err)
		os.Exit(1)
	}

	squareClient, err := square.NewClient(context.Background(), cfg.Square, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap square", err)
		os.Exit(1)
	}

	usersRepo := users.NewRepository(dbClient.DB())

	usersService, err := users.NewService(users.ServiceParams{
		Repo:     usersRepo,
		Uploader: gcsClient,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create users service", err)
		os.Exit(1)
	}

	authService, err := authsvc.NewService(authsvc.ServiceParams{
		UserRepo:       usersRepo,
		Uploader:       gcsClient,
		Mailer:         mailClient,
		PasswordConfig: cfg.Password,
		JWTConfig:      cfg.JWT,
		FrontendOrigin: cfg.App.FrontendOrigin,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create auth service", err)
		os.Exit(1)
	}

	productsService, err := products.NewService(products.ServiceParams{
		Repo:     products.NewRepository(dbClient.DB()),
		Uploader: gcsClient,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create products service", err)
		os.Exit(1)
	}

	ordersService, err := orders.NewService(orders.ServiceParams{
		Repo: orders.NewRepository(dbClient.DB()),
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create orders service", err)
		os.Exit(1)
	}

	checkoutService, err := checkoutsvc.NewService(checkoutsvc.ServiceParams{
		Links:        squareClient,
		SquareConfig: cfg.Square,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create checkout service", err)
		os.Exit(1)
	}

	httpMetrics := metrics.NewHTTPMetrics()

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(
			cfg,
			logg,
			dbClient,
			redisClient,
			gcsClient,
			httpMetrics,
			usersService,
			authService,
			productsService,
			ordersService,
			checkoutService,
		),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
