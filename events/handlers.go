package events

import (
	"context"
	"net/http"
	"time"

	"tourguide/utils"

	"github.com/julienschmidt/httprouter"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// POST /api/events/register
func (h *Handler) Register(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req RegisterRequest
	if err := utils.DecodeJSON(r, &req); err != nil {
		utils.RespondWithAppError(w, err, "Failed to register for event")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	reg, queued, err := h.svc.Register(ctx, utils.GetUserIDFromRequest(r), req)
	if err != nil {
		utils.RespondWithAppError(w, err, "Failed to register for event")
		return
	}
	if queued {
		utils.RespondWithJSON(w, http.StatusAccepted, utils.M{
			"message":      "Registration queued",
			"queued":       true,
			"registration": reg,
		})
		return
	}
	utils.RespondWithJSON(w, http.StatusCreated, utils.M{
		"message":      "Registered successfully",
		"registration": reg,
	})
}

// GET /api/events/registrations
func (h *Handler) MyRegistrations(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	regs, err := h.svc.ListByUser(ctx, utils.GetUserIDFromRequest(r))
	if err != nil {
		utils.RespondWithAppError(w, err, "Failed to fetch registrations")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"registrations": regs})
}
