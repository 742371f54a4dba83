package routes

import (
	"net/http"

	"tourguide/auth"
	"tourguide/booking"
	"tourguide/chat"
	"tourguide/events"
	"tourguide/hotels"
	"tourguide/middleware"
	"tourguide/planner"
	"tourguide/ratelim"
	"tourguide/utils"

	"github.com/julienschmidt/httprouter"
)

// Deps carries the handlers and guards the routes are bound to.
type Deps struct {
	Verifier    *middleware.JWTVerifier
	RateLimiter *ratelim.RateLimiter

	Auth     *auth.Handler
	Bookings *booking.Handler
	LiveFeed *booking.LiveFeed
	Hotels   *hotels.Handler
	Chat     *chat.Handler
	Events   *events.Handler
}

// Index is a simple health check handler.
func Index(w http.ResponseWriter, _ *http.Request, _ httprouter.Params) {
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"status": "Server is running"})
}

func AddAuthRoutes(router *httprouter.Router, d Deps) {
	router.POST("/api/auth/register", d.RateLimiter.Limit(d.Auth.Register))
	router.POST("/api/auth/login", d.RateLimiter.Limit(d.Auth.Login))
}

// The booking handlers verify the bearer credential themselves, so no
// Authenticate wrapper here. /my-bookings is served by GetBooking.
func AddBookingRoutes(router *httprouter.Router, d Deps) {
	router.POST("/api/booking/create", d.RateLimiter.Limit(d.Bookings.CreateBooking))
	router.GET("/api/booking/:bookingId", d.Bookings.GetBooking)
	router.GET("/api/booking/:bookingId/voucher", d.RateLimiter.Limit(d.Bookings.PrintVoucher))
	router.GET("/api/attractions/:name/stats", d.Bookings.AttractionStats)
	router.GET("/api/live/bookings", d.LiveFeed.HandleWS)
}

func AddHotelRoutes(router *httprouter.Router, d Deps) {
	router.GET("/api/hotels", d.Hotels.GetHotels)
	router.GET("/api/hotels/:id", d.Hotels.GetHotel)
	router.POST("/api/hotels", d.RateLimiter.Limit(d.Hotels.AddHotel))
	router.PATCH("/api/hotels/:id/rating", d.RateLimiter.Limit(d.Hotels.UpdateRating))
}

func AddPlannerRoutes(router *httprouter.Router, d Deps) {
	router.GET("/api/planner/interests", planner.ListInterests)
	router.POST("/api/planner/generate", d.RateLimiter.Limit(planner.GeneratePlan))
}

func AddChatRoutes(router *httprouter.Router, d Deps) {
	router.POST("/api/chat/ask", d.RateLimiter.Limit(d.Verifier.OptionalAuth(d.Chat.Ask)))
	router.POST("/api/chat/save", d.RateLimiter.Limit(d.Verifier.Authenticate(d.Chat.Save)))
	router.GET("/api/chat/history", d.Verifier.Authenticate(d.Chat.History))
}

func AddEventsRoutes(router *httprouter.Router, d Deps) {
	router.POST("/api/events/register", d.RateLimiter.Limit(d.Verifier.Authenticate(d.Events.Register)))
	router.GET("/api/events/registrations", d.Verifier.Authenticate(d.Events.MyRegistrations))
}
