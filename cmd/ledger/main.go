package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/piresc/bahikhata/internal/pkg/config"
	"github.com/piresc/bahikhata/internal/pkg/database"
	"github.com/piresc/bahikhata/internal/pkg/health"
	"github.com/piresc/bahikhata/internal/pkg/logger"
	"github.com/piresc/bahikhata/internal/pkg/middleware"
	"github.com/piresc/bahikhata/internal/pkg/models"
	"github.com/piresc/bahikhata/internal/pkg/retry"
	"github.com/piresc/bahikhata/internal/pkg/server"
	"github.com/piresc/bahikhata/internal/utils"
	"github.com/piresc/bahikhata/services/ledger/handler"
	"github.com/piresc/bahikhata/services/ledger/repository"
	"github.com/piresc/bahikhata/services/ledger/repository/session"
	"github.com/piresc/bahikhata/services/ledger/usecase"
	"go.uber.org/zap"
)

func main() {
	configPath := flag.String("config", "config/ledger.env", "path to the .env file loaded when APP_ENV=local")
	flag.Parse()

	configs := config.InitConfig(*configPath)

	zapLogger, err := logger.InitZapLoggerFromConfig(configs)
	if err != nil {
		log.Fatalf("Failed to create Zap logger: %v", err)
	}
	defer zapLogger.Close()
	logger.SetGlobalLogger(zapLogger)

	accessLogger, err := logger.InitAppLoggerFromConfig(configs)
	if err != nil {
		zapLogger.Fatal("Failed to create access logger", zap.Error(err))
	}
	defer accessLogger.Close()

	zapLogger.Info("Starting application",
		zap.String("app", configs.App.Name),
		zap.String("version", configs.App.Version),
		zap.String("environment", configs.App.Environment),
		zap.String("db_driver", configs.Database.Driver),
	)

	if configs.JWT.Secret == "" {
		zapLogger.Fatal("JWT_SECRET must be set")
	}

	// Dependencies started alongside the service may need a moment to accept connections
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Minute)
	store, err := retry.Value(ctx, retry.New("open storage", retry.DefaultConfig()),
		func(ctx context.Context) (*repository.Store, error) {
			return repository.Open(ctx, configs.Database)
		})
	if err != nil {
		cancel()
		zapLogger.Fatal("Failed to open ledger storage", zap.Error(err))
	}

	redisClient, err := retry.Value(ctx, retry.New("connect redis", retry.DefaultConfig()),
		func(context.Context) (*database.RedisClient, error) {
			return database.NewRedisClient(configs.Redis)
		})
	cancel()
	if err != nil {
		zapLogger.Fatal("Failed to connect to Redis", zap.Error(err))
	}

	sessionRepo := session.NewSessionRepo(redisClient)
	ledgerUC := usecase.NewLedgerUC(store.Ledger, sessionRepo, configs)

	healthService := health.NewHealthService()
	healthService.AddChecker(store.Driver, health.NewPingChecker(store))
	healthService.AddChecker("redis", health.NewPingChecker(redisClient))

	extractIP, err := middleware.NewIPExtractor(configs.Server.TrustedProxies)
	if err != nil {
		zapLogger.Fatal("Invalid TRUSTED_PROXIES", zap.Error(err))
	}

	e := newEcho(configs, zapLogger, accessLogger)
	e.IPExtractor = extractIP
	health.RegisterHealthEndpoints(e, configs.App.Name, configs.App.Version, healthService)
	handler.NewHandler(ledgerUC, ledgerUC, redisClient, configs).RegisterRoutes(e)

	srv := server.NewGracefulServer(e, zapLogger, configs.Server.Host, configs.Server.Port,
		time.Duration(configs.Server.ShutdownTimeout)*time.Second)
	srv.OnShutdown(func(context.Context) error { return redisClient.Close() })
	srv.OnShutdown(func(context.Context) error { return store.Close() })

	zapLogger.Info("Starting server",
		zap.String("app", configs.App.Name),
		zap.Int("port", configs.Server.Port),
	)
	if err := srv.Start(); err != nil {
		zapLogger.Fatal("Server stopped with error", zap.Error(err))
	}
}

func newEcho(configs *models.Config, zapLogger *logger.ZapLogger, accessLogger *logger.AppLogger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HTTPErrorHandler = utils.HTTPErrorHandler
	e.Validator = utils.NewRequestValidator()
	e.Server.ReadTimeout = time.Duration(configs.Server.ReadTimeout) * time.Second
	e.Server.WriteTimeout = time.Duration(configs.Server.WriteTimeout) * time.Second

	e.Use(middleware.RequestContextMiddleware())
	e.Use(middleware.PanicRecoveryWithZapMiddleware(zapLogger))
	e.Use(logger.EchoMiddleware(accessLogger))
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins:     configs.CORS.AllowedOrigins,
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete},
		AllowHeaders:     []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
		ExposeHeaders:    []string{echo.HeaderXRequestID, echo.HeaderContentDisposition},
		AllowCredentials: true,
	}))

	return e
}
