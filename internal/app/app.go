package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"gigmarket_backend/internal/auth"
	"gigmarket_backend/internal/config"
	"gigmarket_backend/internal/email"
	"gigmarket_backend/internal/handlers"
	"gigmarket_backend/internal/logger"
	"gigmarket_backend/internal/metrics"
	"gigmarket_backend/internal/middleware"
	"gigmarket_backend/internal/models"
	"gigmarket_backend/internal/routes"
	"gigmarket_backend/internal/services"
	"gigmarket_backend/internal/validator"
	"gigmarket_backend/internal/workers"
	"gigmarket_backend/pkg/apperrors"
	"gigmarket_backend/ws"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

const shutdownTimeout = 10 * time.Second

// Deps - внешние зависимости роутера. Backplane может быть nil.
type Deps struct {
	Notifier  *email.Notifier
	Backplane ws.Backplane
}

// Run поднимает HTTP сервер и работает до SIGINT/SIGTERM или отмены ctx.
func Run(ctx context.Context, cfg *config.Config, migrate bool) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	apperrors.SetDebug(!cfg.IsProduction())
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := OpenDB(cfg)
	if err != nil {
		return err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get *sql.DB from GORM: %w", err)
	}
	defer sqlDB.Close()
	logger.Info("Database connected", "driver", cfg.Database.Driver)

	if migrate {
		if err := Migrate(db); err != nil {
			return err
		}
	}

	deps := Deps{Notifier: newNotifier(cfg)}
	if cfg.Redis.Addr != "" {
		client, err := connectRedis(ctx, cfg)
		if err != nil {
			return err
		}
		defer client.Close()
		deps.Backplane = ws.NewRedisBackplane(client, cfg.Redis.Channel)
	}

	router, svc, err := SetupRouter(ctx, cfg, db, deps)
	if err != nil {
		return err
	}

	interval := time.Duration(cfg.Workers.RatingReconcileMinutes) * time.Minute
	workers.NewRatingWorker(db, svc.Ratings, interval).Start(ctx)

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Server starting", "addr", srv.Addr, "env", cfg.Server.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server startup error: %w", err)
		}
	case <-ctx.Done():
	}

	logger.Info("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}
	deps.Notifier.Wait()
	logger.Info("Server stopped")
	return nil
}

// SetupRouter собирает сервисы, хэндлеры и middleware. Менеджер сокетов
// работает до отмены ctx.
func SetupRouter(ctx context.Context, cfg *config.Config, db *gorm.DB, deps Deps) (*gin.Engine, *services.ServiceContainer, error) {
	v, err := validator.New()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to init validator: %w", err)
	}

	tokens := auth.NewTokenManager(cfg.JWT.Secret, cfg.TokenTTL())
	serviceContainer := services.NewServiceContainer(tokens, deps.Notifier)
	appHandlers := handlers.NewAppHandlers(v, serviceContainer)

	wsManager := ws.NewWebSocketManager(deps.Backplane)
	go wsManager.Run(ctx)
	wsHandler := ws.NewWebSocketHandler(wsManager, tokens, roomAuthorizer(db, serviceContainer.MessageService), cfg.Server.ClientURL)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.LoggingMiddleware())
	router.Use(middleware.CORSMiddleware(cfg.Server.ClientURL))
	if cfg.Metrics.Enabled {
		router.Use(metrics.Middleware())
		router.GET(cfg.Metrics.Path, gin.WrapH(metrics.Handler()))
	}
	router.Use(middleware.DBMiddleware(db))

	routes.RegisterRoutes(router, appHandlers, wsHandler, middleware.AuthMiddleware(tokens), cfg.Server.Env)
	return router, serviceContainer, nil
}

// roomAuthorizer пускает в комнату сокета только участников заказа или переписки
func roomAuthorizer(db *gorm.DB, messages services.MessageService) ws.RoomAuthorizer {
	return func(ctx context.Context, userID, room string) error {
		return messages.AuthorizeRoom(db.WithContext(ctx), auth.CallerContext{UserID: userID}, room)
	}
}

// OpenDB открывает базу по database.driver
func OpenDB(cfg *config.Config) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch cfg.Database.Driver {
	case "postgres":
		dialector = postgres.Open(cfg.Database.DSN)
	case "sqlite":
		dialector = sqlite.Open(cfg.Database.DSN)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Database.Driver)
	}

	level := gormlogger.Warn
	if cfg.IsProduction() {
		level = gormlogger.Error
	}

	// связи между сущностями не ограничены внешними ключами: удаление гига
	// или аккаунта не трогает заказы, отзывы и сообщения
	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:                                   gormlogger.Default.LogMode(level),
		TranslateError:                           true,
		DisableForeignKeyConstraintWhenMigrating: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get *sql.DB from GORM: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("database unavailable: %w", err)
	}
	if cfg.Database.Driver == "sqlite" {
		// sqlite: один писатель
		sqlDB.SetMaxOpenConns(1)
	}
	return db, nil
}

// Migrate создает и обновляет таблицы всех моделей
func Migrate(db *gorm.DB) error {
	logger.Info("Running migrations")
	if err := db.AutoMigrate(models.AllModels()...); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	logger.Info("Migrations complete")
	return nil
}

func newNotifier(cfg *config.Config) *email.Notifier {
	provider := email.NewProvider(email.SMTPConfig{
		Host:      cfg.Email.SMTPHost,
		Port:      cfg.Email.SMTPPort,
		Username:  cfg.Email.SMTPUsername,
		Password:  cfg.Email.SMTPPassword,
		FromEmail: cfg.Email.FromEmail,
		FromName:  cfg.Email.FromName,
	})
	if err := provider.Validate(); err != nil {
		logger.Warn("Email provider misconfigured, notifications will fail", "error", err)
	}
	return email.NewNotifier(provider, cfg.Server.ClientURL)
}

func connectRedis(ctx context.Context, cfg *config.Config) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("redis unavailable at %s: %w", cfg.Redis.Addr, err)
	}
	logger.Info("Redis connected", "addr", cfg.Redis.Addr, "channel", cfg.Redis.Channel)
	return client, nil
}
