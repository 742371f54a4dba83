package chat

import (
	"context"
	"net/http"
	"time"

	"tourguide/models"
	"tourguide/utils"

	"github.com/julienschmidt/httprouter"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// POST /api/chat/ask
func (h *Handler) Ask(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req struct {
		Message string `json:"message"`
	}
	if err := utils.DecodeJSON(r, &req); err != nil {
		utils.RespondWithAppError(w, err, "Failed to get a reply")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 20*time.Second)
	defer cancel()

	ans, err := h.svc.Ask(ctx, utils.GetUserIDFromRequest(r), req.Message)
	if err != nil {
		utils.RespondWithAppError(w, err, "Failed to get a reply")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, ans)
}

// POST /api/chat/save
func (h *Handler) Save(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req struct {
		UserMessage string    `json:"userMessage"`
		BotResponse string    `json:"botResponse"`
		Timestamp   time.Time `json:"timestamp"`
	}
	if err := utils.DecodeJSON(r, &req); err != nil {
		utils.RespondWithAppError(w, err, "Failed to save chat")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	entry := &models.ChatEntry{
		UserID:      utils.GetUserIDFromRequest(r),
		UserMessage: req.UserMessage,
		BotResponse: req.BotResponse,
		Timestamp:   req.Timestamp,
	}
	queued, err := h.svc.Save(ctx, entry)
	if err != nil {
		utils.RespondWithAppError(w, err, "Failed to save chat")
		return
	}
	if queued {
		utils.RespondWithJSON(w, http.StatusAccepted, utils.M{"message": "Chat queued", "queued": true, "chat": entry})
		return
	}
	utils.RespondWithJSON(w, http.StatusCreated, utils.M{"message": "Chat saved", "chat": entry})
}

// GET /api/chat/history
func (h *Handler) History(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	chats, err := h.svc.History(ctx, utils.GetUserIDFromRequest(r))
	if err != nil {
		utils.RespondWithAppError(w, err, "Failed to fetch chat history")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"chats": chats})
}
