package routes

import (
	"github.com/Aum-Ahsan/car-rental-booking/handlers"
	"github.com/Aum-Ahsan/car-rental-booking/services"
	"github.com/gin-gonic/gin"
)

type CarRouteHandler struct {
	carHandler  handlers.CarHandler
	userService services.UserService
	jwtSecret   string
}

func NewCarRouteHandler(carHandler handlers.CarHandler, userService services.UserService, jwtSecret string) CarRouteHandler {
	return CarRouteHandler{carHandler, userService, jwtSecret}
}

func (rc *CarRouteHandler) CarRoute(rg *gin.RouterGroup) {
	router := rg.Group("/cars")

	router.GET("", rc.carHandler.GetCars)
	router.GET("/categories/all", rc.carHandler.GetCategories)
	router.GET("/:id", rc.carHandler.GetCar)

	protected := router.Group("")
	protected.Use(handlers.DeserializeUser(rc.userService, rc.jwtSecret))
	protected.Use(handlers.RequireAdmin())

	protected.POST("", rc.carHandler.CreateCar)
	protected.PUT("/:id", rc.carHandler.UpdateCar)
	protected.DELETE("/:id", rc.carHandler.DeleteCar)
}
