package scheduler

import "github.com/go-chi/chi/v5"

func Routes(r chi.Router, h *Handler) {
	r.Get("/monitor/{token}", h.Push)
	r.Post("/monitor/{token}", h.Push)
}
