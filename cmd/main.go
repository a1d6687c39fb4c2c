package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/jsonplaceholder-api/config"
	"github.com/oksasatya/jsonplaceholder-api/internal/container"
	pginfra "github.com/oksasatya/jsonplaceholder-api/internal/infrastructure/postgres"
	"github.com/oksasatya/jsonplaceholder-api/internal/router"
	"github.com/oksasatya/jsonplaceholder-api/internal/seed"
	"github.com/oksasatya/jsonplaceholder-api/pkg/helpers"
)

func main() {
	_ = godotenv.Load() // load .env if present

	cfg := config.Load()
	logger := helpers.NewLogger(cfg.AppName, cfg.Env, cfg.LogLevel)
	if err := cfg.Validate(); err != nil {
		logger.Fatalf("invalid configuration: %v", err)
	}
	gin.SetMode(cfg.GinMode)

	ctx := context.Background()

	pool, err := pginfra.NewPool(ctx, cfg.PostgresDSN(), pginfra.PoolOptions{
		MaxConns:    cfg.DBMaxConns,
		MinConns:    cfg.DBMinConns,
		MaxConnLife: cfg.DBMaxConnLife,
	})
	if err != nil {
		logger.Fatalf("failed to connect to postgres: %v", err)
	}

	if cfg.Env != "test" {
		if err := pginfra.RunMigrations(cfg.PostgresDSN(), cfg.MigrationsDir, logger); err != nil {
			logger.Fatalf("migration failed: %v", err)
		}
	}

	c := &container.Container{Config: cfg, Logger: logger, PG: pool}
	defer c.Close()

	if cfg.RedisAddr != "" {
		c.Redis = helpers.NewRedisClient(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err := helpers.PingRedis(ctx, c.Redis, 2*time.Second); err != nil {
			logger.WithError(err).Warn("redis unreachable, rate limiting fails open")
		}
	}

	es, err := helpers.NewESClient(helpers.ESConfig{
		Addrs:    cfg.ESAddrs(),
		Username: cfg.ElasticsearchUser,
		Password: cfg.ElasticsearchPass,
	})
	if err != nil {
		logger.WithError(err).Warn("elasticsearch disabled")
	}
	c.ES = es

	if cfg.RabbitMQURL != "" {
		pub, err := helpers.NewRabbitPublisher(cfg.RabbitMQURL, cfg.RabbitMQEventsQueue, cfg.RabbitMQEmailQueue)
		if err != nil {
			logger.WithError(err).Warn("rabbitmq disabled")
		} else {
			c.Rabbit = pub
		}
	}

	c.Build()

	if cfg.SeedDatabase {
		seedDatabase(ctx, c)
	}

	engine := router.NewEngine(c)

	srv := &http.Server{Addr: ":" + cfg.Port, Handler: engine, ReadHeaderTimeout: 10 * time.Second}
	go func() {
		logger.Infof("server starting on :%s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("listen: %s", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down server")

	ctxShutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctxShutdown); err != nil {
		logger.Errorf("server forced to shutdown: %v", err)
	}
	logger.Info("server exited properly")
}

// seedDatabase loads the initial dataset. Failures are logged and never stop
// the server.
func seedDatabase(ctx context.Context, c *container.Container) {
	var read seed.ObjectReader
	if c.Config.SeedSource != "" {
		gcs, err := helpers.NewGCSClient(ctx, c.Config.GCSCredentialsJSONPath)
		if err != nil {
			helpers.LogError(c.Logger, "seeding skipped: gcs client", err, nil)
			return
		}
		c.GCS = gcs
		read = func(ctx context.Context, bucket, object string) ([]byte, error) {
			return helpers.ReadObject(ctx, gcs, bucket, object)
		}
	}

	data, err := seed.Load(ctx, c.Config.SeedSource, read)
	if err != nil {
		helpers.LogError(c.Logger, "seeding skipped: load dataset", err, logrus.Fields{"source": c.Config.SeedSource})
		return
	}
	if n, err := seed.NewSeeder(c.UserService, c.Users, c.Logger).Run(ctx, data); err != nil {
		helpers.LogError(c.Logger, "seeding failed", err, logrus.Fields{"inserted": n})
	}
}
