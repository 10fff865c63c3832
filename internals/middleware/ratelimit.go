package middle

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httprate"

	"statuspulse/pkg/apperror"
	"statuspulse/pkg/utils"
)

// RateLimitByIP allows perMinute requests per client address and answers
// the excess with the standard error envelope.
func RateLimitByIP(perMinute int) Middleware {
	return httprate.Limit(
		perMinute,
		time.Minute,
		httprate.WithKeyFuncs(httprate.KeyByRealIP),
		httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
			reqID := middleware.GetReqID(r.Context())
			utils.WriteError(w, http.StatusTooManyRequests, reqID, apperror.RateLimited, "too many requests, try again later")
		}),
	)
}
