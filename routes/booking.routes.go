package routes

import (
	"github.com/Aum-Ahsan/car-rental-booking/handlers"
	"github.com/Aum-Ahsan/car-rental-booking/services"
	"github.com/gin-gonic/gin"
)

type BookingRouteHandler struct {
	bookingHandler handlers.BookingHandler
	userService    services.UserService
	jwtSecret      string
}

func NewBookingRouteHandler(bookingHandler handlers.BookingHandler, userService services.UserService, jwtSecret string) BookingRouteHandler {
	return BookingRouteHandler{bookingHandler, userService, jwtSecret}
}

func (rc *BookingRouteHandler) BookingRoute(rg *gin.RouterGroup) {
	router := rg.Group("/bookings")
	router.Use(handlers.DeserializeUser(rc.userService, rc.jwtSecret))

	router.POST("", rc.bookingHandler.CreateBooking)
	router.GET("", rc.bookingHandler.GetUserBookings)
	router.GET("/:id", rc.bookingHandler.GetBooking)
	router.PUT("/:id", rc.bookingHandler.UpdateBooking)
	router.DELETE("/:id", rc.bookingHandler.CancelBooking)
}
