package auth

import (
	"net/http"

	"tourguide/utils"

	"github.com/julienschmidt/httprouter"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// POST /api/auth/register
func (h *Handler) Register(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req RegisterRequest
	if err := utils.DecodeJSON(r, &req); err != nil {
		utils.RespondWithAppError(w, err, "Server error during registration")
		return
	}
	u, err := h.svc.Register(r.Context(), req)
	if err != nil {
		utils.RespondWithAppError(w, err, "Server error during registration")
		return
	}
	utils.RespondWithJSON(w, http.StatusCreated, utils.M{
		"message": "User registered successfully",
		"userId":  u.UserID,
	})
}

// POST /api/auth/login
func (h *Handler) Login(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := utils.DecodeJSON(r, &req); err != nil {
		utils.RespondWithAppError(w, err, "Server error during login")
		return
	}
	res, err := h.svc.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		utils.RespondWithAppError(w, err, "Server error during login")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{
		"message": "Login successful",
		"token":   res.Token,
		"userId":  res.UserID,
	})
}
