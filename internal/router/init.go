package router

import (
	"github.com/gracegather/community-api/internal/application"
	"github.com/gracegather/community-api/internal/container"
	pginfra "github.com/gracegather/community-api/internal/infrastructure/postgres"
	handlers "github.com/gracegather/community-api/internal/interface/http"
	"github.com/gracegather/community-api/internal/router/modules"
)

// InitModules wires repositories, services and handlers from the container
// and registers every feature module. Called once at startup.
func InitModules(r *Registry, c *container.Container) {
	authSvc := &application.AuthService{
		Users:     pginfra.NewUserRepository(c.PGPool),
		JWT:       c.JWT,
		Redis:     c.Redis,
		Logger:    c.Logger,
		Mail:      emailQueue(c),
		Mailer:    c.Mailgun,
		ResetURL:  c.Config.ResetPasswordURL,
		GCS:       c.GCS,
		GCSBucket: c.Config.GCSBucket,
	}
	search := &application.ArticleSearch{ES: c.ES, Index: c.Config.ESArticlesIndex, Logger: c.Logger}

	authHandler := &handlers.AuthHandler{Svc: authSvc, Logger: c.Logger}
	articleHandler := &handlers.ArticleHandler{
		Repo:   pginfra.NewArticleRepository(c.PGPool),
		Search: search,
		Logger: c.Logger,
	}
	prayerHandler := &handlers.PrayerHandler{Repo: pginfra.NewPrayerRepository(c.PGPool), Logger: c.Logger}
	marketHandler := &handlers.MarketplaceHandler{Repo: pginfra.NewListingRepository(c.PGPool), Logger: c.Logger}
	messageHandler := &handlers.MessageHandler{Repo: pginfra.NewMessageRepository(c.PGPool), Logger: c.Logger}
	proxyHandler := &handlers.ProxyHandler{Upstream: c.Upstream, Logger: c.Logger}

	uploads := c.GCS != nil && c.Config.GCSBucket != ""
	r.Add(modules.NewAuthModule(authHandler, c.JWT, c.Redis, uploads))
	r.Add(modules.NewArticleModule(articleHandler, c.JWT))
	r.Add(modules.NewPrayerModule(prayerHandler, c.JWT))
	r.Add(modules.NewMarketplaceModule(marketHandler, c.JWT))
	r.Add(modules.NewMessageModule(messageHandler, c.JWT, c.Redis))
	r.Add(modules.NewProxyModule(proxyHandler))
}

// emailQueue returns nil as an interface only when no publisher exists, so
// the service's nil check works.
func emailQueue(c *container.Container) application.EmailQueue {
	if c.RabbitPub == nil {
		return nil
	}
	return c.RabbitPub
}
