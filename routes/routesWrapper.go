package routes

import (
	"net/http"

	"github.com/julienschmidt/httprouter"
)

func RoutesWrapper(router *httprouter.Router, d Deps) {
	router.GET("/health", Index)

	AddAuthRoutes(router, d)
	AddBookingRoutes(router, d)
	AddHotelRoutes(router, d)
	AddPlannerRoutes(router, d)
	AddChatRoutes(router, d)
	AddEventsRoutes(router, d)

	router.NotFound = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"message":"Route not found"}`))
	})
}
