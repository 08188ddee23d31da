package routes

import (
	"github.com/Aum-Ahsan/car-rental-booking/handlers"
	"github.com/Aum-Ahsan/car-rental-booking/services"
	"github.com/gin-gonic/gin"
)

type AdminRouteHandler struct {
	adminHandler handlers.AdminHandler
	userService  services.UserService
	jwtSecret    string
}

func NewAdminRouteHandler(adminHandler handlers.AdminHandler, userService services.UserService, jwtSecret string) AdminRouteHandler {
	return AdminRouteHandler{adminHandler, userService, jwtSecret}
}

func (rc *AdminRouteHandler) AdminRoute(rg *gin.RouterGroup) {
	router := rg.Group("/admin")
	router.Use(handlers.DeserializeUser(rc.userService, rc.jwtSecret))
	router.Use(handlers.RequireAdmin())

	router.GET("/users", rc.adminHandler.GetAllUsers)
	router.DELETE("/users/:id", rc.adminHandler.DeleteUser)
	router.PUT("/users/:id/role", rc.adminHandler.UpdateUserRole)

	router.GET("/bookings", rc.adminHandler.GetAllBookings)
	router.GET("/stats", rc.adminHandler.GetStats)
}
