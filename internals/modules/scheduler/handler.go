package scheduler

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"statuspulse/internals/modules/executor"
	"statuspulse/pkg/apperror"
	"statuspulse/pkg/utils"
)

type PushResponse struct {
	Status string `json:"status"`
}

type Handler struct {
	scheduler *Scheduler
}

func NewHandler(s *Scheduler) *Handler {
	return &Handler{scheduler: s}
}

// Push accepts GET or POST /monitor/{token}?status=&value=.
func (h *Handler) Push(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetReqID(r.Context())

	token := chi.URLParam(r, "token")
	if !h.scheduler.Accepts(token) {
		utils.WriteError(w, http.StatusNotFound, reqID, apperror.NotFound, "monitor not found")
		return
	}

	q := r.URL.Query()

	push, err := executor.ParsePush(q.Get("status"), q.Get("value"), time.Now())
	if err != nil {
		utils.FromAppError(w, reqID, err)
		return
	}

	if err := h.scheduler.Push(token, push); err != nil {
		utils.FromAppError(w, reqID, err)
		return
	}

	utils.WriteJSON(w, http.StatusOK, reqID, utils.PushAccepted, PushResponse{Status: "ok"})
}
