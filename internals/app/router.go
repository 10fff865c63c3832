package app

import (
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	middle "statuspulse/internals/middleware"
	"statuspulse/internals/modules/report"
	"statuspulse/internals/modules/scheduler"
	"statuspulse/internals/modules/subscriber"
)

func RegisterRoutes(c *Container) chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middle.RequestIDHeader)
	r.Use(middle.Logger(c.Logger))
	r.Use(middle.Metrics(c.Metrics))
	r.Use(middleware.Timeout(10 * time.Second))

	r.Get("/healthz", healthz(c))

	r.Route("/api", func(api chi.Router) {
		report.Routes(api, c.reportHandler)
		scheduler.Routes(api, c.pushHandler)

		// only subscribe is rate limited, confirm/unsubscribe are links in mails
		subscriber.Routes(api, c.subscriberHandler, middle.RateLimitByIP(c.Config.RateLimit.SubscribePerMinute))
	})

	return r
}
