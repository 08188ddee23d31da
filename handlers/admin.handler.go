package handlers

import (
	"errors"
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

type AdminHandler struct {
	userService    services.UserService
	bookingService services.BookingService
	statsService   services.StatsService
	logger         *logrus.Logger
	Tracer         trace.Tracer
	validate       *validator.Validate
}

func NewAdminHandler(userService services.UserService, bookingService services.BookingService,
	statsService services.StatsService, logger *logrus.Logger, tracer trace.Tracer) AdminHandler {
	return AdminHandler{
		userService:    userService,
		bookingService: bookingService,
		statsService:   statsService,
		logger:         logger,
		Tracer:         tracer,
		validate:       validator.New(),
	}
}

func (ah *AdminHandler) GetAllUsers(c *gin.Context) {
	ctx, span := ah.Tracer.Start(c.Request.Context(), "AdminHandler.GetAllUsers")
	defer span.End()

	users, err := ah.userService.GetAllUsers(ctx)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		error2.ReturnError(c, http.StatusInternalServerError, err.Error())
		return
	}
	if users == nil {
		users = []*domain.User{}
	}

	error2.ReturnList(c, len(users), users)
}

func (ah *AdminHandler) DeleteUser(c *gin.Context) {
	ctx, span := ah.Tracer.Start(c.Request.Context(), "AdminHandler.DeleteUser")
	defer span.End()

	userID := c.Param("id")
	actor := CurrentUser(c)

	user, err := ah.userService.FindUserByID(userID, ctx)
	if err != nil {
		if errors.Is(err, services.ErrUserNotFound) {
			error2.ReturnError(c, http.StatusNotFound, "User not found")
			return
		}
		span.SetStatus(codes.Error, err.Error())
		error2.ReturnError(c, http.StatusInternalServerError, err.Error())
		return
	}

	if user.ID == actor.ID {
		error2.ReturnError(c, http.StatusBadRequest, "You cannot delete your own account")
		return
	}

	if err := ah.userService.DeleteUser(userID, ctx); err != nil {
		span.SetStatus(codes.Error, err.Error())
		error2.ReturnError(c, http.StatusInternalServerError, err.Error())
		return
	}

	error2.ReturnData(c, http.StatusOK, "User deleted successfully", struct{}{})
}

func (ah *AdminHandler) UpdateUserRole(c *gin.Context) {
	ctx, span := ah.Tracer.Start(c.Request.Context(), "AdminHandler.UpdateUserRole")
	defer span.End()

	userID := c.Param("id")

	var req domain.UpdateRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		span.SetStatus(codes.Error, err.Error())
		error2.ReturnError(c, http.StatusBadRequest, err.Error())
		return
	}
	if err := ah.validate.Struct(&req); err != nil {
		span.SetStatus(codes.Error, err.Error())
		error2.ReturnError(c, http.StatusBadRequest, "Invalid role")
		return
	}

	user, err := ah.userService.UpdateUserRole(userID, req.Role, ctx)
	if err != nil {
		if errors.Is(err, services.ErrUserNotFound) {
			error2.ReturnError(c, http.StatusNotFound, "User not found")
			return
		}
		span.SetStatus(codes.Error, err.Error())
		error2.ReturnError(c, http.StatusInternalServerError, err.Error())
		return
	}

	error2.ReturnData(c, http.StatusOK, "User role updated successfully", user)
}

func (ah *AdminHandler) GetAllBookings(c *gin.Context) {
	ctx, span := ah.Tracer.Start(c.Request.Context(), "AdminHandler.GetAllBookings")
	defer span.End()

	bookings, err := ah.bookingService.GetAllBookings(ctx)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		error2.ReturnError(c, http.StatusInternalServerError, err.Error())
		return
	}
	if bookings == nil {
		bookings = []*domain.BookingDetails{}
	}

	error2.ReturnList(c, len(bookings), bookings)
}

func (ah *AdminHandler) GetStats(c *gin.Context) {
	ctx, span := ah.Tracer.Start(c.Request.Context(), "AdminHandler.GetStats")
	defer span.End()

	stats, err := ah.statsService.GetStats(ctx)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		ah.logger.WithFields(logrus.Fields{"path": "handlers/admin"}).Error("Stats aggregation failed: ", err)
		error2.ReturnError(c, http.StatusInternalServerError, err.Error())
		return
	}

	error2.ReturnData(c, http.StatusOK, "", stats)
}
