package container

import (
	"context"
	"fmt"

	"cloud.google.com/go/storage"
	"github.com/elastic/go-elasticsearch/v8"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/gracegather/community-api/config"
	pginfra "github.com/gracegather/community-api/internal/infrastructure/postgres"
	"github.com/gracegather/community-api/internal/upstream"
	"github.com/gracegather/community-api/pkg/helpers"
	"github.com/gracegather/community-api/pkg/mailer"
)

// Container holds every constructed component and is passed explicitly to
// whatever needs it. Optional components (GCS, ES, RabbitMQ) stay nil when
// their feature flag is off; consumers must tolerate that.
type Container struct {
	Config   *config.Config
	Logger   *logrus.Logger
	PGPool   *pgxpool.Pool
	Redis    *redis.Client
	JWT      *helpers.JWTManager
	Upstream *upstream.Client

	GCS       *storage.Client
	Mailgun   *mailer.Mailgun
	RabbitPub *helpers.RabbitPublisher
	ES        *elasticsearch.Client
}

// Build constructs the container from config. Core dependencies (Postgres,
// Redis) are fatal on failure; optional ones log and stay nil.
func Build(ctx context.Context, cfg *config.Config, logger *logrus.Logger) (*Container, error) {
	c := &Container{Config: cfg, Logger: logger}

	pool, err := pginfra.NewPool(ctx, cfg.PostgresDSN(), cfg.DBMaxConns, cfg.DBMinConns, cfg.DBMaxConnLife)
	if err != nil {
		return nil, fmt.Errorf("postgres: %w", err)
	}
	c.PGPool = pool

	c.Redis = helpers.NewRedisClient(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	if err := c.Redis.Ping(ctx).Err(); err != nil {
		pool.Close()
		return nil, fmt.Errorf("redis: %w", err)
	}

	c.JWT = helpers.NewJWTManager(cfg.JWTAccessSecret, cfg.JWTRefreshSecret, cfg.AccessTTL, cfg.RefreshTTL)
	c.Upstream = upstream.New(cfg.UpstreamBaseURL, cfg.UpstreamTimeout, logger)

	if cfg.UploadsEnabled && cfg.GCSBucket != "" {
		gcs, gErr := helpers.NewGCSClient(ctx, cfg.GCSCredentialsJSONPath)
		if gErr != nil {
			logger.WithError(gErr).Warn("gcs init failed, uploads disabled")
		} else {
			c.GCS = gcs
		}
	}

	if cfg.MailgunDomain != "" && cfg.MailgunAPIKey != "" {
		c.Mailgun = mailer.NewMailgun(cfg.MailgunDomain, cfg.MailgunAPIKey, cfg.MailgunSender)
	}

	if cfg.MailSendEnabled {
		pub, rErr := helpers.NewRabbitPublisher(cfg.RabbitMQURL, cfg.RabbitMQEmailQueue)
		if rErr != nil {
			logger.WithError(rErr).Warn("rabbitmq init failed, reset mails fall back to direct send")
		} else {
			c.RabbitPub = pub
		}
	}

	if cfg.SearchEnabled {
		es, eErr := helpers.NewESClient(cfg.ESAddrs(), cfg.ElasticsearchUser, cfg.ElasticsearchPass)
		if eErr != nil {
			logger.WithError(eErr).Warn("elasticsearch init failed, search falls back to sql")
		} else {
			c.ES = es
		}
	}

	return c, nil
}

// Close releases held connections. Safe on a partially built container.
func (c *Container) Close() {
	if c.RabbitPub != nil {
		c.RabbitPub.Close()
	}
	if c.Redis != nil {
		_ = c.Redis.Close()
	}
	if c.PGPool != nil {
		c.PGPool.Close()
	}
	if c.GCS != nil {
		_ = c.GCS.Close()
	}
}
