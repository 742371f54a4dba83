package booking

import (
	"context"
	"net/http"
	"time"

	"tourguide/utils"

	"github.com/julienschmidt/httprouter"
)

// AttractionStats reads the per-attraction booking counters.
type AttractionStats interface {
	AttractionBookings(ctx context.Context, attractionName string) (int64, error)
}

type Handler struct {
	svc   *Service
	stats AttractionStats
}

func NewHandler(svc *Service, stats AttractionStats) *Handler {
	return &Handler{svc: svc, stats: stats}
}

// POST /api/booking/create
func (h *Handler) CreateBooking(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	credential := utils.BearerToken(r)
	if _, err := h.svc.authenticate(credential); err != nil {
		utils.RespondWithAppError(w, err, "Server error during booking")
		return
	}

	var req CreateRequest
	if err := utils.DecodeJSON(r, &req); err != nil {
		utils.RespondWithAppError(w, err, "Server error during booking")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	b, err := h.svc.Create(ctx, credential, req)
	if err != nil {
		utils.RespondWithAppError(w, err, "Server error during booking")
		return
	}

	utils.RespondWithJSON(w, http.StatusCreated, utils.M{
		"message": "Booking created successfully",
		"booking": b,
	})
}

// GET /api/booking/:bookingId
//
// httprouter cannot register a static /my-bookings next to the :bookingId
// wildcard, so the user listing is dispatched from here.
func (h *Handler) GetBooking(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	bookingID := ps.ByName("bookingId")
	if bookingID == "my-bookings" {
		h.MyBookings(w, r, ps)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	b, err := h.svc.GetByID(ctx, bookingID)
	if err != nil {
		utils.RespondWithAppError(w, err, "Server error fetching booking")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"booking": b})
}

// GET /api/booking/my-bookings
func (h *Handler) MyBookings(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	bookings, err := h.svc.ListByUser(ctx, utils.BearerToken(r))
	if err != nil {
		utils.RespondWithAppError(w, err, "Server error fetching bookings")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"bookings": bookings})
}

// GET /api/booking/:bookingId/voucher
func (h *Handler) PrintVoucher(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	b, err := h.svc.GetByID(ctx, ps.ByName("bookingId"))
	if err != nil {
		utils.RespondWithAppError(w, err, "Server error fetching booking")
		return
	}

	pdf, err := VoucherPDF(b)
	if err != nil {
		utils.RespondWithAppError(w, err, "Failed to generate voucher")
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", "attachment; filename=voucher-"+b.BookingID+".pdf")
	w.WriteHeader(http.StatusOK)
	w.Write(pdf)
}

// GET /api/attractions/:name/stats
func (h *Handler) AttractionStats(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	name := ps.ByName("name")
	var count int64
	if h.stats != nil {
		n, err := h.stats.AttractionBookings(r.Context(), name)
		if err != nil {
			utils.RespondWithAppError(w, err, "Server error fetching stats")
			return
		}
		count = n
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{
		"attractionName": name,
		"bookings":       count,
	})
}
