package handlers

import (
	"net/http"

	"github.com/Aum-Ahsan/car-rental-booking/domain"
	error2 "github.com/Aum-Ahsan/car-rental-booking/error"
	"github.com/Aum-Ahsan/car-rental-booking/services"
	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

type BookingHandler struct {
	bookingService services.BookingService
	logger         *logrus.Logger
	Tracer         trace.Tracer
	validate       *validator.Validate
}

func NewBookingHandler(bookingService services.BookingService, logger *logrus.Logger, tracer trace.Tracer) BookingHandler {
	return BookingHandler{
		bookingService: bookingService,
		logger:         logger,
		Tracer:         tracer,
		validate:       validator.New(),
	}
}

func (bh *BookingHandler) CreateBooking(c *gin.Context) {
	ctx, span := bh.Tracer.Start(c.Request.Context(), "BookingHandler.CreateBooking")
	defer span.End()

	var req domain.CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		span.SetStatus(codes.Error, err.Error())
		error2.ReturnError(c, http.StatusBadRequest, err.Error())
		return
	}
	if err := bh.validate.Struct(&req); err != nil {
		span.SetStatus(codes.Error, err.Error())
		error2.ReturnError(c, http.StatusBadRequest, err.Error())
		return
	}

	actor := CurrentUser(c)

	booking, err := bh.bookingService.CreateBooking(&req, actor, ctx)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		bh.logger.WithFields(logrus.Fields{"path": "handlers/booking"}).Error("Create booking failed: ", err)
		error2.ReturnBookingError(c, err)
		return
	}

	error2.ReturnData(c, http.StatusCreated, "Booking created successfully", booking)
}

func (bh *BookingHandler) GetUserBookings(c *gin.Context) {
	ctx, span := bh.Tracer.Start(c.Request.Context(), "BookingHandler.GetUserBookings")
	defer span.End()

	actor := CurrentUser(c)

	bookings, err := bh.bookingService.GetUserBookings(actor.ID, ctx)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		error2.ReturnBookingError(c, err)
		return
	}
	if bookings == nil {
		bookings = []*domain.BookingDetails{}
	}

	error2.ReturnList(c, len(bookings), bookings)
}

func (bh *BookingHandler) GetBooking(c *gin.Context) {
	ctx, span := bh.Tracer.Start(c.Request.Context(), "BookingHandler.GetBooking")
	defer span.End()

	bookingID := c.Param("id")
	actor := CurrentUser(c)

	booking, err := bh.bookingService.GetBooking(bookingID, actor, ctx)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		error2.ReturnBookingError(c, err)
		return
	}

	error2.ReturnData(c, http.StatusOK, "", booking)
}

func (bh *BookingHandler) UpdateBooking(c *gin.Context) {
	ctx, span := bh.Tracer.Start(c.Request.Context(), "BookingHandler.UpdateBooking")
	defer span.End()

	bookingID := c.Param("id")
	actor := CurrentUser(c)

	var req domain.UpdateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		span.SetStatus(codes.Error, err.Error())
		error2.ReturnError(c, http.StatusBadRequest, err.Error())
		return
	}
	if err := bh.validate.Struct(&req); err != nil {
		span.SetStatus(codes.Error, err.Error())
		error2.ReturnError(c, http.StatusBadRequest, err.Error())
		return
	}

	booking, err := bh.bookingService.UpdateBookingStatus(bookingID, &req, actor, ctx)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		error2.ReturnBookingError(c, err)
		return
	}

	error2.ReturnData(c, http.StatusOK, "Booking updated successfully", booking)
}

func (bh *BookingHandler) CancelBooking(c *gin.Context) {
	ctx, span := bh.Tracer.Start(c.Request.Context(), "BookingHandler.CancelBooking")
	defer span.End()

	bookingID := c.Param("id")
	actor := CurrentUser(c)

	booking, err := bh.bookingService.CancelBooking(bookingID, actor, ctx)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		error2.ReturnBookingError(c, err)
		return
	}

	error2.ReturnData(c, http.StatusOK, "Booking cancelled successfully", booking)
}
