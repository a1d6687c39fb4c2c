// Package container holds the constructed components shared by the HTTP
// server, the router and the commands.
package container

import (
	"cloud.google.com/go/storage"
	"github.com/elastic/go-elasticsearch/v8"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/jsonplaceholder-api/config"
	"github.com/oksasatya/jsonplaceholder-api/internal/application"
	"github.com/oksasatya/jsonplaceholder-api/internal/domain/repository"
	"github.com/oksasatya/jsonplaceholder-api/internal/infrastructure/messaging"
	pginfra "github.com/oksasatya/jsonplaceholder-api/internal/infrastructure/postgres"
	"github.com/oksasatya/jsonplaceholder-api/internal/infrastructure/search"
	"github.com/oksasatya/jsonplaceholder-api/internal/metrics"
	"github.com/oksasatya/jsonplaceholder-api/pkg/helpers"
)

// Container carries infrastructure clients and the services built on them.
// Optional clients (Redis, GCS, ES, Rabbit) are nil when not configured.
type Container struct {
	Config *config.Config
	Logger *logrus.Logger

	PG     *pgxpool.Pool
	Redis  *redis.Client
	GCS    *storage.Client
	ES     *elasticsearch.Client
	Rabbit *helpers.RabbitPublisher
	JWT    *helpers.JWTManager

	Registry *prometheus.Registry
	Metrics  *metrics.Collector

	Credentials repository.CredentialRepository
	Users       repository.UserRepository

	AuthService *application.AuthService
	UserService *application.UserService
}

// Build fills every component left nil. Repositories default to Postgres.
func (c *Container) Build() {
	if c.JWT == nil {
		c.JWT = helpers.NewJWTManager(c.Config.JWTSecret, c.Config.JWTExpiresIn)
	}
	if c.Registry == nil {
		c.Registry = prometheus.NewRegistry()
	}
	if c.Metrics == nil {
		c.Metrics = metrics.NewCollector(c.Registry)
	}
	if c.Credentials == nil {
		c.Credentials = pginfra.NewCredentialRepository(c.PG)
	}
	if c.Users == nil {
		c.Users = pginfra.NewUserRepository(c.PG)
	}

	var index application.UserIndexer
	if c.ES != nil {
		index = search.NewUserIndex(c.ES, c.Config.ESUsersIndex)
	}
	var events application.EventPublisher
	var mail application.EmailQueue
	if c.Rabbit != nil {
		events = messaging.NewEventPublisher(c.Rabbit, c.Config.RabbitMQEventsQueue)
		if c.Config.MailSendEnabled {
			mail = messaging.NewEmailQueue(c.Rabbit, c.Config.RabbitMQEmailQueue)
		}
	}

	if c.AuthService == nil {
		c.AuthService = application.NewAuthService(c.Credentials, c.JWT, events, mail, c.Logger)
	}
	if c.UserService == nil {
		c.UserService = application.NewUserService(c.Users, index, events, c.Logger)
	}
}

// RateLimiter returns the Redis scripter used by rate limiting, or nil when
// limiting is disabled or Redis is absent.
func (c *Container) RateLimiter() redis.Scripter {
	if !c.Config.RateLimitEnabled || c.Redis == nil {
		return nil
	}
	return c.Redis
}

func (c *Container) Close() {
	c.Rabbit.Close()
	if c.GCS != nil {
		_ = c.GCS.Close()
	}
	if c.Redis != nil {
		_ = c.Redis.Close()
	}
	if c.PG != nil {
		c.PG.Close()
	}
}
