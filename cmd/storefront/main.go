package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gamedistrict/storefront/internal/api/handlers"
	"github.com/gamedistrict/storefront/internal/api/middleware"
	"github.com/gamedistrict/storefront/internal/cache"
	"github.com/gamedistrict/storefront/internal/config"
	"github.com/gamedistrict/storefront/internal/health"
	"github.com/gamedistrict/storefront/internal/metrics"
	"github.com/gamedistrict/storefront/internal/models"
	repository "github.com/gamedistrict/storefront/internal/repositories"
	service "github.com/gamedistrict/storefront/internal/services"
	"github.com/gamedistrict/storefront/internal/telemetry"
	"github.com/gamedistrict/storefront/pkg/sendGrid"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

func main() {

	// Logger setup
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	// Load config
	cfg := config.MustLoad()

	// Tracing setup
	shutdownTracer, err := telemetry.InitTracer(context.Background(), cfg)
	if err != nil {
		slog.Error("❌ Error initializing tracing", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Database setup
	repos, err := repository.New(cfg)
	if err != nil {
		slog.Error("❌ Error accessing the database", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Redis setup
	redisClient, err := repository.NewRedisClient(cfg)
	if err != nil {
		slog.Error("❌ Error accessing the redis instance", slog.String("error", err.Error()))
		os.Exit(1)
	}

	defer func() {
		if err := repos.Close(); err != nil {
			slog.Error("⚠️ Error closing database connection", slog.String("error", err.Error()))
		} else {
			slog.Info("✅ Database connection closed")
		}
	}()

	jwtKey := []byte(cfg.Security.JWTKey)
	rateLimitRepo := repository.NewRateLimitRepo(redisClient, cfg)
	catalogCache := cache.NewRedisCache(redisClient, &cfg.Cache)
	sendGridClient := sendGrid.NewEmailService(cfg.SendGrid.APIKey, cfg.SendGrid.FromEmail, cfg.SendGrid.FromName)

	userService := service.NewUserService(repos.User, rateLimitRepo, jwtKey)
	userHandler := handlers.NewUserHandler(userService)
	catalogService := service.NewCatalogService(repos.Catalog, catalogCache)
	catalogHandler := handlers.NewCatalogHandler(catalogService)
	cartService := service.NewCartService(repos.Cart, repos.Catalog)
	cartHandler := handlers.NewCartHandler(cartService)
	checkoutService := service.NewCheckoutService(repos)
	orderService := service.NewOrderService(repos.Order)
	notificationService := service.NewNotificationService(sendGridClient)
	orderHandler := handlers.NewOrderHandler(checkoutService, orderService, userService, notificationService)
	bannerService := service.NewBannerService(repos.Banner)
	bannerHandler := handlers.NewBannerHandler(bannerService)
	statsService := service.NewStatsService(repos.Stats)
	statsHandler := handlers.NewStatsHandler(statsService)
	authMiddleware := middleware.NewAuthMiddleware(jwtKey)

	healthHandler, err := health.NewHealthHandler(cfg, &health.Endpoints{
		DB:          repos.DB,
		RedisClient: redisClient,
	})
	if err != nil {
		slog.Error("❌ Error creating health checks", slog.String("error", err.Error()))
		os.Exit(1)
	}

	slog.Info("storage initialized", slog.String("env", cfg.Env), slog.String("version", "1.0.0"))

	admin := func(h http.Handler) http.HandlerFunc {
		return authMiddleware.Authenticate(authMiddleware.RequireAdmin(h))
	}

	// Setup router
	routerMux := http.NewServeMux()

	// users
	routerMux.HandleFunc("POST /api/v1/users/register", userHandler.Register())
	routerMux.HandleFunc("POST /api/v1/users/login", userHandler.Login())
	routerMux.HandleFunc("GET /api/v1/users/profile", authMiddleware.Authenticate(userHandler.Profile()))

	// catalog, per kind
	for _, c := range []struct {
		prefix string
		kind   models.ItemKind
	}{
		{"games", models.ItemKindGame},
		{"devices", models.ItemKindDevice},
	} {
		routerMux.HandleFunc("GET /api/v1/"+c.prefix, catalogHandler.ListItems(c.kind))
		routerMux.HandleFunc("GET /api/v1/"+c.prefix+"/featured", catalogHandler.ListFeatured(c.kind))
		routerMux.HandleFunc("GET /api/v1/"+c.prefix+"/offers", catalogHandler.ListOffers(c.kind))
		routerMux.HandleFunc("GET /api/v1/"+c.prefix+"/bestsellers", catalogHandler.ListBestSellers(c.kind))
		routerMux.HandleFunc("GET /api/v1/"+c.prefix+"/slug/{slug}", catalogHandler.GetItemBySlug(c.kind))
		routerMux.HandleFunc("GET /api/v1/"+c.prefix+"/{id}", catalogHandler.GetItem())
		routerMux.HandleFunc("PATCH /api/v1/"+c.prefix+"/{id}/active", admin(catalogHandler.ToggleActive()))
		routerMux.HandleFunc("PATCH /api/v1/"+c.prefix+"/{id}/featured", admin(catalogHandler.ToggleFeatured()))
		routerMux.HandleFunc("DELETE /api/v1/"+c.prefix+"/{id}", admin(catalogHandler.DeleteItem()))
	}

	routerMux.HandleFunc("POST /api/v1/games", admin(catalogHandler.CreateGame()))
	routerMux.HandleFunc("PUT /api/v1/games/{id}", admin(catalogHandler.UpdateGame()))
	routerMux.HandleFunc("POST /api/v1/devices", admin(catalogHandler.CreateDevice()))
	routerMux.HandleFunc("PUT /api/v1/devices/{id}", admin(catalogHandler.UpdateDevice()))

	// cart
	routerMux.HandleFunc("GET /api/v1/cart", authMiddleware.Authenticate(cartHandler.GetCart()))
	routerMux.HandleFunc("POST /api/v1/cart/items", authMiddleware.Authenticate(cartHandler.AddItem()))
	routerMux.HandleFunc("DELETE /api/v1/cart/items", authMiddleware.Authenticate(cartHandler.RemoveItem()))

	// orders
	routerMux.HandleFunc("POST /api/v1/orders", authMiddleware.Authenticate(orderHandler.Checkout()))
	routerMux.HandleFunc("GET /api/v1/orders", authMiddleware.Authenticate(orderHandler.ListMyOrders()))
	routerMux.HandleFunc("GET /api/v1/orders/{id}", authMiddleware.Authenticate(orderHandler.GetOrder()))
	routerMux.HandleFunc("PATCH /api/v1/orders/{id}/status", admin(orderHandler.UpdateOrderStatus()))

	// banners
	routerMux.HandleFunc("GET /api/v1/banners", bannerHandler.ListActive())
	routerMux.HandleFunc("POST /api/v1/banners", admin(bannerHandler.CreateBanner()))
	routerMux.HandleFunc("PUT /api/v1/banners/{id}", admin(bannerHandler.UpdateBanner()))
	routerMux.HandleFunc("DELETE /api/v1/banners/{id}", admin(bannerHandler.DeleteBanner()))

	// admin
	routerMux.HandleFunc("GET /api/v1/admin/games", admin(catalogHandler.ListItems(models.ItemKindGame)))
	routerMux.HandleFunc("GET /api/v1/admin/devices", admin(catalogHandler.ListItems(models.ItemKindDevice)))
	routerMux.HandleFunc("GET /api/v1/admin/orders", admin(orderHandler.ListAllOrders()))
	routerMux.HandleFunc("GET /api/v1/admin/banners", admin(bannerHandler.ListAll()))
	routerMux.HandleFunc("GET /api/v1/admin/stats", admin(statsHandler.Summary()))
	routerMux.HandleFunc("GET /api/v1/admin/stats/orders", admin(statsHandler.DailyOrders()))

	// operational endpoints
	routerMux.Handle("GET /metrics", metrics.Handler())
	routerMux.Handle("GET /health", healthHandler.Handler())

	// Middleware chaining
	var handler http.Handler = routerMux
	handler = middleware.Logging(handler)
	handler = metrics.Middleware(handler)
	handler = otelhttp.NewHandler(handler, "storefront")

	// Setup http server
	server := http.Server{
		Addr:    cfg.Addr,
		Handler: handler,
	}

	slog.Info("🚀 Server is starting...", slog.String("address", cfg.Addr))

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := server.ListenAndServe(); err != http.ErrServerClosed {
			slog.Error("❌ Failed to start server", slog.Any("error", err.Error()))
		}
	}()

	<-done

	slog.Warn("🛑 Shutdown signal received. Preparing to stop the server...")

	// Graceful shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("⚠️ Server shutdown encountered an issue", slog.String("error", err.Error()))
	} else {
		slog.Info("✅ Server shut down gracefully. All connections closed.")
	}

	if err := shutdownTracer(shutdownCtx); err != nil {
		slog.Error("⚠️ Tracer shutdown encountered an issue", slog.String("error", err.Error()))
	}
}
