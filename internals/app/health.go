package app

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"

	"statuspulse/pkg/apperror"
	"statuspulse/pkg/mailer"
	"statuspulse/pkg/utils"
)

type healthResponse struct {
	Database string `json:"database"`
	Redis    string `json:"redis,omitempty"`
	Mail     string `json:"mail,omitempty"`
}

// healthz reports readiness of the stores the API reads from. Redis is only
// a cache, so its failure degrades the report without failing the check.
func healthz(c *Container) func(http.ResponseWriter, *http.Request) {
	return func(w http.ResponseWriter, r *http.Request) {
		reqID := middleware.GetReqID(r.Context())
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		resp := healthResponse{Database: "ok"}
		if err := c.DB.Ping(ctx); err != nil {
			c.Logger.Error().Err(err).Msg("health check: database unreachable")
			utils.WriteError(w, http.StatusServiceUnavailable, reqID, apperror.Unavailable, "database unreachable")
			return
		}
		if c.RedisClient != nil {
			resp.Redis = "ok"
			if err := c.RedisClient.Ping(ctx); err != nil {
				resp.Redis = "unreachable"
			}
		}

		// an open breaker means mail is failing, not that the API is down
		resp.Mail = mailer.BreakerState(c.MailTransport)

		utils.WriteJSON(w, http.StatusOK, reqID, "healthy", resp)
	}
}
