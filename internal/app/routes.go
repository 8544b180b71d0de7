package app

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/inkpot-blog/core/internal/middleware"
	"github.com/inkpot-blog/core/internal/modules/auth"
	"github.com/inkpot-blog/core/internal/modules/comment"
	"github.com/inkpot-blog/core/internal/modules/newsletter"
	"github.com/inkpot-blog/core/internal/modules/post"
	"github.com/inkpot-blog/core/internal/modules/subscriber"
	"github.com/inkpot-blog/core/internal/pkg/mail"
	pkgredis "github.com/inkpot-blog/core/internal/pkg/redis"
	"github.com/inkpot-blog/core/internal/pkg/response"
)

func (a *App) registerRoutes(rc *pkgredis.Client) {
	r := a.router
	db := a.db
	authMW := middleware.Auth()

	r.NoRoute(func(c *gin.Context) {
		response.NotFound(c, "route not found")
	})
	r.NoMethod(func(c *gin.Context) {
		response.MethodNotAllowed(c)
	})

	// The mail transport is constructed once here and injected into every
	// service that sends email.
	mailer := mail.New(a.cfg.Mail)
	sendDelay := time.Duration(a.cfg.Newsletter.SendDelayMS) * time.Millisecond

	api := r.Group("/api")
	api.Use(middleware.OptionalAuth())
	api.Use(middleware.RateLimit(rc.Raw()))

	api.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"data": "pong"})
	})

	// Session
	auth.NewHandler(auth.NewService(a.cfg.Admin)).RegisterRoutes(api, authMW)

	// Content
	post.NewHandler(post.NewService(db)).RegisterRoutes(api, authMW)
	comment.NewHandler(comment.NewService(db)).RegisterRoutes(api)

	// Newsletter
	subscriber.NewHandler(subscriber.NewService(db, mailer, a.logger)).RegisterRoutes(api, authMW)
	newsletter.NewHandler(newsletter.NewService(db, mailer, a.logger, sendDelay)).RegisterRoutes(api, authMW)
}
