package handlers

import (
	"net/http"
	"time"

	"github.com/Aum-Ahsan/car-rental-booking/cache"
	"github.com/Aum-Ahsan/car-rental-booking/domain"
	error2 "github.com/Aum-Ahsan/car-rental-booking/error"
	"github.com/Aum-Ahsan/car-rental-booking/imagestore"
	"github.com/Aum-Ahsan/car-rental-booking/services"
	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

type CarHandler struct {
	carService     services.CarService
	bookingService services.BookingService
	imageStorage   *imagestore.FileStorage
	carCache       *cache.CarCache
	logger         *logrus.Logger
	Tracer         trace.Tracer
	validate       *validator.Validate
}

func NewCarHandler(carService services.CarService, bookingService services.BookingService,
	imageStorage *imagestore.FileStorage, carCache *cache.CarCache,
	logger *logrus.Logger, tracer trace.Tracer) CarHandler {
	return CarHandler{
		carService:     carService,
		bookingService: bookingService,
		imageStorage:   imageStorage,
		carCache:       carCache,
		logger:         logger,
		Tracer:         tracer,
		validate:       validator.New(),
	}
}

func (ch *CarHandler) GetCars(c *gin.Context) {
	ctx, span := ch.Tracer.Start(c.Request.Context(), "CarHandler.GetCars")
	defer span.End()

	filter := domain.CarFilter{
		Category:     c.Query("category"),
		MinPrice:     c.Query("minPrice"),
		MaxPrice:     c.Query("maxPrice"),
		Location:     c.Query("location"),
		Availability: c.Query("availability"),
		Search:       c.Query("search"),
	}

	// The unfiltered catalog is the hot path; serve it from the cache when
	// possible.
	unfiltered := filter == domain.CarFilter{}
	if unfiltered && ch.carCache != nil {
		if cars, err := ch.carCache.GetAll(ctx); err == nil {
			error2.ReturnList(c, len(cars), cars)
			return
		}
	}

	cars, err := ch.carService.GetAllCars(filter, ctx)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		error2.ReturnError(c, http.StatusInternalServerError, err.Error())
		return
	}
	if cars == nil {
		cars = []*domain.Car{}
	}

	if unfiltered && ch.carCache != nil {
		if err := ch.carCache.PostAll(cars, ctx); err != nil {
			ch.logger.WithFields(logrus.Fields{"path": "handlers/car"}).Error("Could not cache car list: ", err)
		}
	}

	error2.ReturnList(c, len(cars), cars)
}

func (ch *CarHandler) GetCar(c *gin.Context) {
	ctx, span := ch.Tracer.Start(c.Request.Context(), "CarHandler.GetCar")
	defer span.End()

	carID := c.Param("id")

	if ch.carCache != nil {
		if car, err := ch.carCache.GetCar(carID, ctx); err == nil {
			error2.ReturnData(c, http.StatusOK, "", car)
			return
		}
	}

	car, err := ch.carService.GetCarByID(carID, ctx)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		error2.ReturnBookingError(c, err)
		return
	}

	if ch.carCache != nil {
		if err := ch.carCache.PostCar(car, ctx); err != nil {
			ch.logger.WithFields(logrus.Fields{"path": "handlers/car"}).Error("Could not cache car: ", err)
		}
	}

	error2.ReturnData(c, http.StatusOK, "", car)
}

func (ch *CarHandler) GetCategories(c *gin.Context) {
	ctx, span := ch.Tracer.Start(c.Request.Context(), "CarHandler.GetCategories")
	defer span.End()

	categories, err := ch.carService.GetCategories(ctx)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		error2.ReturnError(c, http.StatusInternalServerError, "Could not fetch categories")
		return
	}
	if categories == nil {
		categories = []string{}
	}
	error2.ReturnData(c, http.StatusOK, "", categories)
}

func (ch *CarHandler) CreateCar(c *gin.Context) {
	ctx, span := ch.Tracer.Start(c.Request.Context(), "CarHandler.CreateCar")
	defer span.End()

	var req domain.CreateCarRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		span.SetStatus(codes.Error, err.Error())
		error2.ReturnError(c, http.StatusBadRequest, err.Error())
		return
	}
	if err := ch.validate.Struct(&req); err != nil {
		span.SetStatus(codes.Error, err.Error())
		error2.ReturnError(c, http.StatusBadRequest, err.Error())
		return
	}
	if req.Year > time.Now().Year()+1 {
		error2.ReturnError(c, http.StatusBadRequest, "Year cannot be in the future")
		return
	}

	car := &domain.Car{
		Brand:        req.Brand,
		Model:        req.Model,
		Category:     req.Category,
		Year:         req.Year,
		PricePerDay:  req.PricePerDay,
		Features:     req.Features,
		FuelType:     req.FuelType,
		Transmission: req.Transmission,
		Seats:        req.Seats,
		Location:     req.Location,
		Description:  req.Description,
		Images:       ch.imageStorage.UploadAll(req.ImageFiles, ctx),
	}

	created, err := ch.carService.InsertCar(car, ctx)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		error2.ReturnError(c, http.StatusInternalServerError, err.Error())
		return
	}

	error2.ReturnData(c, http.StatusCreated, "Car created successfully", created)
}

func (ch *CarHandler) UpdateCar(c *gin.Context) {
	ctx, span := ch.Tracer.Start(c.Request.Context(), "CarHandler.UpdateCar")
	defer span.End()

	carID := c.Param("id")

	var req domain.CreateCarRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		span.SetStatus(codes.Error, err.Error())
		error2.ReturnError(c, http.StatusBadRequest, err.Error())
		return
	}
	if err := ch.validate.Struct(&req); err != nil {
		span.SetStatus(codes.Error, err.Error())
		error2.ReturnError(c, http.StatusBadRequest, err.Error())
		return
	}

	var images []domain.CarImage
	if len(req.ImageFiles) > 0 {
		images = ch.imageStorage.UploadAll(req.ImageFiles, ctx)
	}

	car, err := ch.carService.UpdateCar(carID, &req, images, ctx)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		error2.ReturnBookingError(c, err)
		return
	}

	error2.ReturnData(c, http.StatusOK, "Car updated successfully", car)
}

func (ch *CarHandler) DeleteCar(c *gin.Context) {
	ctx, span := ch.Tracer.Start(c.Request.Context(), "CarHandler.DeleteCar")
	defer span.End()

	carID := c.Param("id")

	if _, err := primitive.ObjectIDFromHex(carID); err != nil {
		error2.ReturnError(c, http.StatusNotFound, "Car not found")
		return
	}

	hasActive, err := ch.bookingService.CarHasActiveBookings(carID, ctx)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		error2.ReturnBookingError(c, err)
		return
	}
	if hasActive {
		error2.ReturnError(c, http.StatusBadRequest, "Cannot delete car with active bookings")
		return
	}

	if err := ch.carService.DeleteCar(carID, ctx); err != nil {
		span.SetStatus(codes.Error, err.Error())
		error2.ReturnBookingError(c, err)
		return
	}

	error2.ReturnData(c, http.StatusOK, "Car deleted successfully", struct{}{})
}
