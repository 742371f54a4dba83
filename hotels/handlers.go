package hotels

import (
	"context"
	"net/http"
	"time"

	"tourguide/models"
	"tourguide/utils"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// GET /api/hotels?type=&search=
func (h *Handler) GetHotels(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	q := r.URL.Query()
	hotels, err := h.svc.List(ctx, q.Get("type"), q.Get("search"))
	if err != nil {
		utils.RespondWithAppError(w, err, "Server error fetching hotels")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"hotels": hotels})
}

// GET /api/hotels/:id
func (h *Handler) GetHotel(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	hotel, err := h.svc.Get(ctx, ps.ByName("id"))
	if err != nil {
		utils.RespondWithAppError(w, err, "Server error fetching hotel")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"hotel": hotel})
}

// POST /api/hotels
func (h *Handler) AddHotel(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var hotel models.Hotel
	if err := utils.DecodeJSON(r, &hotel); err != nil {
		utils.RespondWithAppError(w, err, "Server error adding hotel")
		return
	}
	hotel.ID = primitive.NilObjectID

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	if err := h.svc.Create(ctx, &hotel); err != nil {
		utils.RespondWithAppError(w, err, "Server error adding hotel")
		return
	}
	utils.RespondWithJSON(w, http.StatusCreated, utils.M{
		"message": "Hotel added successfully",
		"hotel":   hotel,
	})
}

// PATCH /api/hotels/:id/rating
func (h *Handler) UpdateRating(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var body struct {
		Rating *float64 `json:"rating"`
	}
	if err := utils.DecodeJSON(r, &body); err != nil {
		utils.RespondWithAppError(w, err, "Server error updating rating")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	hotel, err := h.svc.UpdateRating(ctx, ps.ByName("id"), body.Rating)
	if err != nil {
		utils.RespondWithAppError(w, err, "Server error updating rating")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{
		"message": "Rating updated successfully",
		"hotel":   hotel,
	})
}
