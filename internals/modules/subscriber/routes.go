package subscriber

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// Routes registers the subscription endpoints on r. limit guards the
// endpoint that sends mail.
func Routes(r chi.Router, h *Handler, limit func(http.Handler) http.Handler) {
	r.With(limit).Post("/subscribe", h.Subscribe)
	r.Get("/confirm-subscription", h.Confirm)
	r.Get("/unsubscribe", h.Unsubscribe)
}

/*
- POST: /api/subscribe  -> request a subscription
	body : SubscribeRequest
	resp : SubscribeResponse, confirmation mail sent for new addresses

- GET: /api/confirm-subscription?email=&hash=  -> activate
	resp : 302 to /?result=subscribe-success|subscribe-error

- GET: /api/unsubscribe?email=&hash=  -> delete
	resp : 302 to /?result=unsubscribe-success|unsubscribe-error
*/
