package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"shopez/auth"
	"shopez/config"
	"shopez/controllers"
	"shopez/database"
	"shopez/idempotency"
	"shopez/middleware"
	"shopez/repository"
	"shopez/repository/memory"
	"shopez/repository/mongodb"
	"shopez/routes"
	"shopez/services"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"
)

// repos is the set of storage ports the services are built on.
type repos struct {
	carts      repository.CartRepository
	orders     repository.OrderRepository
	products   repository.ProductRepository
	categories repository.CategoryRepository
	users      repository.UserRepository
	settings   repository.SettingsRepository
	blacklist  repository.TokenBlacklist
	tx         repository.Transactor
	ping       func(ctx context.Context) error
	close      func(ctx context.Context)
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger, err := newLogger(cfg)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := openStore(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("open store", zap.Error(err))
	}
	defer store.close(context.Background())

	keys, closeKeys, err := openIdempotencyStore(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("open idempotency store", zap.Error(err))
	}
	defer closeKeys()

	tokens := auth.NewTokenManager(cfg.JWTSecret, cfg.JWTTTL)
	authSvc := services.NewAuthService(store.users, store.blacklist, tokens, logger)
	cartSvc := services.NewCartService(store.carts, store.products, logger)
	checkoutSvc := services.NewCheckoutService(store.carts, store.orders, store.products, store.tx, keys, logger)
	orderSvc := services.NewOrderService(store.orders, logger)
	productSvc := services.NewProductService(store.products, store.categories, logger)
	categorySvc := services.NewCategoryService(store.categories, store.products, store.tx, logger)
	adminSvc := services.NewAdminService(store.users, store.products, store.orders, store.settings, logger)

	if err := categorySvc.SeedDefaults(ctx); err != nil {
		logger.Fatal("seed categories", zap.Error(err))
	}
	if cfg.AdminEmail != "" {
		if err := authSvc.SeedAdmin(ctx, cfg.AdminUsername, cfg.AdminEmail, cfg.AdminPassword); err != nil {
			logger.Fatal("seed admin", zap.Error(err))
		}
	}

	gin.SetMode(cfg.GinMode)
	r := gin.New()
	_ = r.SetTrustedProxies(nil)
	r.Use(
		middleware.Recovery(logger),
		middleware.RequestLogger(logger),
		cors.New(corsConfig(cfg.CORSOrigins)),
		middleware.Timeout(cfg.RequestTimeout),
	)

	routes.RegisterRoutes(r, routes.Handlers{
		Auth:       controllers.NewAuthController(authSvc),
		Cart:       controllers.NewCartController(cartSvc),
		Orders:     controllers.NewOrderController(checkoutSvc, orderSvc),
		Products:   controllers.NewProductController(productSvc),
		Categories: controllers.NewCategoryController(categorySvc),
		Admin:      controllers.NewAdminController(adminSvc),
		Health:     controllers.NewHealthController(store.ping),
	}, authSvc)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("server listening", zap.String("addr", srv.Addr), zap.String("store", cfg.StoreDriver))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("listen", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown", zap.Error(err))
	}
}

func newLogger(cfg *config.Config) (*zap.Logger, error) {
	zc := zap.NewProductionConfig()
	if cfg.GinMode == gin.DebugMode {
		zc = zap.NewDevelopmentConfig()
	}
	level, err := zap.ParseAtomicLevel(cfg.LogLevel)
	if err != nil {
		return nil, err
	}
	zc.Level = level
	return zc.Build()
}

func openStore(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*repos, error) {
	if cfg.StoreDriver == config.StoreMemory {
		logger.Warn("using in-memory store; data is lost on exit")
		s := memory.NewStore()
		return &repos{
			carts:      s.Carts(),
			orders:     s.Orders(),
			products:   s.Products(),
			categories: s.Categories(),
			users:      s.Users(),
			settings:   s.Settings(),
			blacklist:  s.Blacklist(),
			tx:         s.Transactor(),
			close:      func(context.Context) {},
		}, nil
	}

	client, db, err := database.ConnectMongo(ctx, cfg.MongoURI, cfg.DBName, logger)
	if err != nil {
		return nil, err
	}
	if err := database.EnsureIndexes(ctx, db); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}
	if !cfg.MongoTransactions {
		logger.Warn("mongo transactions disabled; checkout uses compensation")
	}

	s := mongodb.NewStore(client, db, cfg.MongoTransactions)
	return &repos{
		carts:      s.Carts,
		orders:     s.Orders,
		products:   s.Products,
		categories: s.Categories,
		users:      s.Users,
		settings:   s.Settings,
		blacklist:  s.Blacklist,
		tx:         s.Tx,
		ping: func(ctx context.Context) error {
			return client.Ping(ctx, readpref.Primary())
		},
		close: func(ctx context.Context) {
			if err := client.Disconnect(ctx); err != nil {
				logger.Warn("mongo disconnect", zap.Error(err))
			}
		},
	}, nil
}

func openIdempotencyStore(ctx context.Context, cfg *config.Config, logger *zap.Logger) (services.IdempotencyStore, func(), error) {
	if cfg.RedisAddr == "" {
		logger.Info("REDIS_ADDR not set; idempotency keys kept in process")
		return idempotency.NewMemoryStore(cfg.IdempotencyTTL), func() {}, nil
	}

	client := idempotency.NewRedisClient(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, nil, err
	}
	logger.Info("connected to Redis", zap.String("addr", cfg.RedisAddr))
	return idempotency.NewRedisStore(client, cfg.IdempotencyTTL), func() { _ = client.Close() }, nil
}

func corsConfig(origins []string) cors.Config {
	c := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", "Authorization", controllers.IdempotencyHeader, middleware.RequestIDHeader},
		ExposeHeaders: []string{"Content-Length", middleware.RequestIDHeader},
		MaxAge:        12 * time.Hour,
	}
	if len(origins) == 0 || (len(origins) == 1 && origins[0] == "*") {
		c.AllowAllOrigins = true
		return c
	}
	c.AllowOrigins = origins
	c.AllowCredentials = true
	return c
}
