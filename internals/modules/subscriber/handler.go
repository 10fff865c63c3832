package subscriber

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"

	"statuspulse/pkg/apperror"
	"statuspulse/pkg/utils"
)

// Redirect targets understood by the status page front end.
const (
	resultSubscribeSuccess   = "/?result=subscribe-success"
	resultSubscribeError     = "/?result=subscribe-error"
	resultUnsubscribeSuccess = "/?result=unsubscribe-success"
	resultUnsubscribeError   = "/?result=unsubscribe-error"
)

type Handler struct {
	service   *Service
	validator *validator.Validate
}

func NewHandler(service *Service, validator *validator.Validate) *Handler {
	return &Handler{
		service:   service,
		validator: validator,
	}
}

func (h *Handler) Subscribe(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	reqID := middleware.GetReqID(ctx)

	var req SubscribeRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 4<<10)).Decode(&req); err != nil {
		utils.WriteError(w, http.StatusBadRequest, reqID, apperror.InvalidInput, "email parameter is required")
		return
	}
	// validate request body
	if err := h.validator.Struct(req); err != nil {
		utils.WriteError(w, http.StatusBadRequest, reqID, apperror.InvalidInput, "email parameter is not valid")
		return
	}

	if err := h.service.Subscribe(ctx, req.Email); err != nil {
		utils.FromAppError(w, reqID, err)
		return
	}

	utils.WriteJSON(w, http.StatusOK, reqID, utils.SubscriptionRequested, SubscribeResponse{Status: "ok"})
}

func (h *Handler) Confirm(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	err := h.service.Confirm(r.Context(), q.Get("email"), q.Get("hash"))
	h.redirect(w, r, err, resultSubscribeSuccess, resultSubscribeError)
}

func (h *Handler) Unsubscribe(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	err := h.service.Unsubscribe(r.Context(), q.Get("email"), q.Get("hash"))
	h.redirect(w, r, err, resultUnsubscribeSuccess, resultUnsubscribeError)
}

// redirect sends link failures back to the page; storage failures are
// answered as errors.
func (h *Handler) redirect(w http.ResponseWriter, r *http.Request, err error, success, failure string) {
	switch {
	case err == nil:
		http.Redirect(w, r, success, http.StatusFound)
	case apperror.IsKind(err, apperror.InvalidInput):
		http.Redirect(w, r, failure, http.StatusFound)
	default:
		utils.FromAppError(w, middleware.GetReqID(r.Context()), err)
	}
}
