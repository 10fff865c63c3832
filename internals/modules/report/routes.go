package report

import "github.com/go-chi/chi/v5"

func Routes(r chi.Router, h *Handler) {
	r.Get("/overview", h.Overview)
	r.Get("/monitor", h.History)
	r.Get("/monitors/{id}/history", h.History)
	r.Get("/incidents", h.Incidents)
}

/*
- GET: /api/overview  -> public block, groups, published monitors with latest status
- GET: /api/monitor?id=  (or /api/monitors/{id}/history)  -> daily uptime series
- GET: /api/incidents  -> incidents active or created inside the window
*/
