package main

import (
	"context"
	"flag"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/jsonplaceholder-api/config"
	"github.com/oksasatya/jsonplaceholder-api/internal/container"
	pginfra "github.com/oksasatya/jsonplaceholder-api/internal/infrastructure/postgres"
	"github.com/oksasatya/jsonplaceholder-api/internal/seed"
	"github.com/oksasatya/jsonplaceholder-api/pkg/helpers"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	source := flag.String("source", cfg.SeedSource, "dataset location: empty for the embedded dataset or gs://bucket/object")
	migrate := flag.Bool("migrate", true, "run migrations before seeding")
	flag.Parse()

	logger := helpers.NewLogger(cfg.AppName+"-seed", cfg.Env, cfg.LogLevel)
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	pool, err := pginfra.NewPool(ctx, cfg.PostgresDSN(), pginfra.PoolOptions{MaxConns: 2, MinConns: 1, MaxConnLife: time.Hour})
	if err != nil {
		logger.Fatalf("failed to connect to postgres: %v", err)
	}
	c := &container.Container{Config: cfg, Logger: logger, PG: pool}
	defer c.Close()

	if *migrate {
		if err := pginfra.RunMigrations(cfg.PostgresDSN(), cfg.MigrationsDir, logger); err != nil {
			logger.Fatalf("migration failed: %v", err)
		}
	}

	var read seed.ObjectReader
	if *source != "" {
		gcs, err := helpers.NewGCSClient(ctx, cfg.GCSCredentialsJSONPath)
		if err != nil {
			logger.Fatalf("failed to init GCS client: %v", err)
		}
		c.GCS = gcs
		read = func(ctx context.Context, bucket, object string) ([]byte, error) {
			return helpers.ReadObject(ctx, gcs, bucket, object)
		}
	}
	c.Build()

	data, err := seed.Load(ctx, *source, read)
	if err != nil {
		logger.Fatalf("failed to load dataset: %v", err)
	}
	n, err := seed.NewSeeder(c.UserService, c.Users, logger).Run(ctx, data)
	if err != nil {
		logger.WithFields(logrus.Fields{"inserted": n}).Fatalf("seeding failed: %v", err)
	}
	logger.WithField("inserted", n).Info("seed finished")
}
