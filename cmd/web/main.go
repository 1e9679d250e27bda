package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/uep-freelance/freelance_web/internal/config"
	"github.com/uep-freelance/freelance_web/internal/handlers"
	"github.com/uep-freelance/freelance_web/internal/logger"
	"github.com/uep-freelance/freelance_web/internal/metrics"
	"github.com/uep-freelance/freelance_web/internal/realtime"
	"github.com/uep-freelance/freelance_web/internal/router"
	"github.com/uep-freelance/freelance_web/internal/services"
	"github.com/uep-freelance/freelance_web/internal/services/api"
	"github.com/uep-freelance/freelance_web/internal/services/demo"
	"github.com/uep-freelance/freelance_web/internal/services/wallet"
	"github.com/uep-freelance/freelance_web/internal/session"
	"github.com/uep-freelance/freelance_web/internal/storage"
	"github.com/uep-freelance/freelance_web/internal/validation"
	"github.com/uep-freelance/freelance_web/internal/view"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	log, err := logger.New(cfg.LogLevel)
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store := openStorage(ctx, cfg, log)
	rec := metrics.New()

	backend, err := openBackend(cfg, store, rec, log)
	if err != nil {
		log.Fatal("backend", zap.Error(err))
	}
	log.Info("backend ready", zap.String("mode", string(backend.Mode())))

	hub := realtime.NewHub(log.Named("realtime"), rec)
	go hub.Run(ctx)

	sessions := session.NewManager(store, backend, time.Duration(cfg.SessionExpiresMin)*time.Minute)
	sessions.OnChange(hub.SyncSession)

	engine, err := view.NewEngine()
	if err != nil {
		log.Fatal("templates", zap.Error(err))
	}
	validator := validation.New(cfg.EmailDomain)

	app := fiber.New(fiber.Config{
		AppName:               "UEP Freelance",
		Views:                 engine,
		DisableStartupMessage: true,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if fe, ok := err.(*fiber.Error); ok {
				code = fe.Code
			}
			if code >= fiber.StatusInternalServerError {
				log.Error("request failed", zap.String("path", c.Path()), zap.Error(err))
			}
			return c.Status(code).SendString(err.Error())
		},
	})
	app.Use(recover.New())

	handlers.Mount(app, handlers.Deps{
		Sessions:      sessions,
		Backend:       backend,
		Router:        router.New(backend, log.Named("router"), rec, validator.EmailDomain(), cfg.AlertTTL),
		Validator:     validator,
		Hub:           hub,
		Metrics:       rec,
		Log:           log,
		SessionSecret: cfg.SessionSecret,
		SessionMin:    cfg.SessionExpiresMin,
		SecureCookie:  cfg.CookieSecure,
	})

	go func() {
		<-ctx.Done()
		shutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := app.ShutdownWithContext(shutdown); err != nil {
			log.Error("shutdown", zap.Error(err))
		}
	}()

	log.Info("listening", zap.String("port", cfg.AppPort))
	if err := app.Listen(":" + cfg.AppPort); err != nil {
		log.Fatal("listen", zap.Error(err))
	}
}

// openStorage uses Redis when REDIS_ADDR is set and reachable, memory
// otherwise.
func openStorage(ctx context.Context, cfg config.Config, log *zap.Logger) storage.Storage {
	if cfg.RedisAddr == "" {
		log.Info("storage: memory")
		return storage.NewMemory()
	}
	rdb := storage.NewRedis(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB, log.Named("storage"))
	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx); err != nil {
		log.Warn("redis unreachable, falling back to memory", zap.String("addr", cfg.RedisAddr), zap.Error(err))
		_ = rdb.Close()
		return storage.NewMemory()
	}
	log.Info("storage: redis", zap.String("addr", cfg.RedisAddr))
	return rdb
}

func openBackend(cfg config.Config, store storage.Storage, rec *metrics.Recorder, log *zap.Logger) (services.Backend, error) {
	if cfg.Mode == config.ModeLive {
		return api.New(cfg.APIBaseURL, cfg.APITimeout, log.Named("api"), rec), nil
	}
	var seed []byte
	if cfg.DemoSeedFile != "" {
		b, err := os.ReadFile(cfg.DemoSeedFile)
		if err != nil {
			return nil, err
		}
		seed = b
	}
	return demo.New(demo.Config{
		Secret:      cfg.SessionSecret,
		TokenTTLMin: cfg.SessionExpiresMin,
		Seed:        seed,
	}, store, wallet.NewWalletService(), log.Named("demo"))
}
