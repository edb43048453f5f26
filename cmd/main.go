package main

import (
	"ecofood/internal/handler"
	mid "ecofood/internal/middleware"
	"ecofood/internal/model"
	"ecofood/internal/repository"
	"ecofood/internal/service"
	"ecofood/pkg/config"
	"ecofood/pkg/database"
	"ecofood/pkg/jwtutil"
	"ecofood/pkg/logger"
	"ecofood/prometheus"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"
)

func main() {
	// Load configuration
	appConfig, err := config.Load("ecofood")
	if err != nil {
		// Can't use structured logger yet since it's not initialized
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
	if err := logger.InitLogger(&logger.LogConfig{
		Level:       appConfig.Log.Level,
		Environment: appConfig.Server.Env,
		ServiceName: appConfig.ServiceName,
	}); err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	log := logger.GetLogger()
	defer log.Sync()

	log.Info("Starting ecofood", appConfig.LogConfig()...)

	// Initialize JWT utility
	jwtUtil := jwtutil.NewJWTUtil(&jwtutil.JWTConfig{
		SigningKey:      appConfig.JWT.SigningKey,
		ExpirationHours: appConfig.JWT.ExpirationHours,
	})

	// Initialize Prometheus metrics
	prometheus.InitMetrics(appConfig)
	log.Info("Prometheus metrics initialized",
		zap.String("metrics_prefix", appConfig.Metrics.Prefix))

	// Initialize database
	db, err := database.InitDB(&appConfig.DB)
	if err != nil {
		log.Fatal("Failed to initialize database", zap.Error(err))
	}
	log.Info("Database connection established")

	if err := database.MigrateModels(
		&model.User{},
		&model.Company{},
		&model.Product{},
		&model.Order{},
	); err != nil {
		log.Fatal("Failed to run migrations", zap.Error(err))
	}

	// Wire repositories and services
	products := repository.NewGormProductRepository(db)
	orders := repository.NewGormOrderRepository(db)
	users := repository.NewGormUserRepository(db)
	companies := repository.NewGormCompanyRepository(db)
	tx := repository.NewGormTxManager(db)

	accountService := service.NewAccountService(users, companies, products, tx, appConfig.Auth.BcryptCost)
	productService := service.NewProductService(products)
	orderService := service.NewOrderService(products, orders, tx)

	h := handler.New(accountService, productService, orderService, jwtUtil)

	// Initialize Echo instance
	e := echo.New()
	e.HideBanner = true

	e.Use(middleware.Recover())
	e.Use(mid.RequestIDMiddleware)
	e.Use(mid.MetricsMiddleware)
	e.Use(logger.Middleware())

	h.Routes(e)

	// Start server
	port := appConfig.Server.Port
	log.Info("Starting server", zap.String("port", port))
	if err := e.Start(":" + port); err != nil {
		log.Fatal("Server error", zap.Error(err))
	}
}
