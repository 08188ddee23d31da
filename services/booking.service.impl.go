package services

import (
	"context"
	"time"

	"github.com/Aum-Ahsan/car-rental-booking/domain"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

type BookingServiceImpl struct {
	store      BookingStore
	carService CarService
	mailer     Mailer
	logger     *logrus.Logger
	Tracer     trace.Tracer
}

func NewBookingServiceImpl(store BookingStore, carService CarService, mailer Mailer, logger *logrus.Logger, tracer trace.Tracer) BookingService {
	return &BookingServiceImpl{
		store:      store,
		carService: carService,
		mailer:     mailer,
		logger:     logger,
		Tracer:     tracer,
	}
}

// CreateBooking validates the request, reserves the car with a conditional
// availability write, re-checks for interval overlap and persists the
// booking. The conditional write is what serialises two racing requests for
// the same car: the loser never reaches the insert.
func (s *BookingServiceImpl) CreateBooking(req *domain.CreateBookingRequest, actor *domain.User, ctx context.Context) (*domain.BookingDetails, error) {
	ctx, span := s.Tracer.Start(ctx, "BookingService.CreateBooking")
	defer span.End()

	car, err := s.carService.GetCarByID(req.Car, ctx)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	if !car.Availability {
		err := s.rejectUnavailable(car.ID, req, ctx)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	pickup, returnDate, err := validateDates(req.PickupDate, req.ReturnDate)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	days := domain.RentalDays(pickup, returnDate)
	totalPrice := float64(days) * car.PricePerDay

	reserved, err := s.carService.ReserveCar(car.ID, ctx)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	if !reserved {
		// Lost the race to another creator.
		err := s.rejectUnavailable(car.ID, req, ctx)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	overlapping, err := s.store.FindOverlapping(ctx, car.ID, pickup, returnDate)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		s.rollbackReservation(car.ID, ctx)
		return nil, err
	}
	if overlapping != nil {
		// An active booking already exists, so the flag we just cleared is
		// the correct state. Leave it and reject.
		span.SetStatus(codes.Error, "overlapping booking")
		return nil, domain.ErrBookingConflict()
	}

	booking := &domain.Booking{
		UserID:         actor.ID,
		CarID:          car.ID,
		PickupLocation: req.PickupLocation,
		PickupDate:     primitive.NewDateTimeFromTime(pickup),
		ReturnDate:     primitive.NewDateTimeFromTime(returnDate),
		TotalPrice:     totalPrice,
		Status:         domain.BookingPending,
		PaymentStatus:  domain.PaymentPending,
		Notes:          req.Notes,
		CreatedAt:      primitive.NewDateTimeFromTime(time.Now()),
	}

	if err := s.store.Insert(ctx, booking); err != nil {
		span.SetStatus(codes.Error, err.Error())
		s.rollbackReservation(car.ID, ctx)
		return nil, err
	}

	details, err := s.store.GetDetailsByID(ctx, booking.ID)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	if s.mailer != nil {
		if err := s.mailer.SendBookingConfirmation(actor, details); err != nil {
			s.logger.WithFields(logrus.Fields{"booking": booking.ID.Hex()}).Error("Could not send confirmation email: ", err)
		}
	}

	return details, nil
}

// rejectUnavailable picks the error for a car whose availability flag is
// down: a conflict when an active booking overlaps the requested interval,
// plain unavailability otherwise (for instance an admin took the car off the
// catalog, or the active booking covers different dates).
func (s *BookingServiceImpl) rejectUnavailable(carID primitive.ObjectID, req *domain.CreateBookingRequest, ctx context.Context) error {
	pickup, errPickup := domain.ParseCalendarDate(req.PickupDate)
	returnDate, errReturn := domain.ParseCalendarDate(req.ReturnDate)
	if errPickup == nil && errReturn == nil {
		overlapping, err := s.store.FindOverlapping(ctx, carID, pickup, returnDate)
		if err == nil && overlapping != nil {
			return domain.ErrBookingConflict()
		}
	}
	return domain.ErrCarUnavailable()
}

func (s *BookingServiceImpl) rollbackReservation(carID primitive.ObjectID, ctx context.Context) {
	if err := s.carService.ReleaseCar(carID, ctx); err != nil {
		s.logger.WithFields(logrus.Fields{"car": carID.Hex()}).Error("Could not roll back availability: ", err)
	}
}

func validateDates(pickupValue, returnValue string) (time.Time, time.Time, error) {
	pickup, err := domain.ParseCalendarDate(pickupValue)
	if err != nil {
		return time.Time{}, time.Time{}, domain.DateRangeError{Message: "Please provide a valid pickup date"}
	}
	returnDate, err := domain.ParseCalendarDate(returnValue)
	if err != nil {
		return time.Time{}, time.Time{}, domain.DateRangeError{Message: "Please provide a valid return date"}
	}
	if pickup.Before(domain.Today()) {
		return time.Time{}, time.Time{}, domain.DateRangeError{Message: "Pickup date cannot be in the past"}
	}
	if returnDate.Before(pickup) {
		return time.Time{}, time.Time{}, domain.DateRangeError{Message: "Return date must be equal to or after pickup date"}
	}
	return pickup, returnDate, nil
}

func (s *BookingServiceImpl) GetUserBookings(userID primitive.ObjectID, ctx context.Context) ([]*domain.BookingDetails, error) {
	ctx, span := s.Tracer.Start(ctx, "BookingService.GetUserBookings")
	defer span.End()

	bookings, err := s.store.GetByUser(ctx, userID)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	return bookings, nil
}

func (s *BookingServiceImpl) GetBooking(bookingID string, actor *domain.User, ctx context.Context) (*domain.BookingDetails, error) {
	ctx, span := s.Tracer.Start(ctx, "BookingService.GetBooking")
	defer span.End()

	details, err := s.loadAuthorized(bookingID, actor, ctx)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	return details, nil
}

// UpdateBookingStatus applies any status in the enum regardless of the
// current one; transition order is deliberately not enforced.
func (s *BookingServiceImpl) UpdateBookingStatus(bookingID string, req *domain.UpdateBookingRequest, actor *domain.User, ctx context.Context) (*domain.BookingDetails, error) {
	ctx, span := s.Tracer.Start(ctx, "BookingService.UpdateBookingStatus")
	defer span.End()

	details, err := s.loadAuthorized(bookingID, actor, ctx)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	if err := s.store.UpdateStatus(ctx, details.Booking.ID, req.Status, req.PaymentStatus); err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	updated, err := s.store.GetDetailsByID(ctx, details.Booking.ID)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	return updated, nil
}

// CancelBooking sets the status to cancelled and restores the car's
// availability unconditionally. Cancelling twice re-applies the same state.
func (s *BookingServiceImpl) CancelBooking(bookingID string, actor *domain.User, ctx context.Context) (*domain.BookingDetails, error) {
	ctx, span := s.Tracer.Start(ctx, "BookingService.CancelBooking")
	defer span.End()

	details, err := s.loadAuthorized(bookingID, actor, ctx)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	if err := s.store.UpdateStatus(ctx, details.Booking.ID, domain.BookingCancelled, ""); err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	if err := s.carService.ReleaseCar(details.Booking.CarID, ctx); err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	updated, err := s.store.GetDetailsByID(ctx, details.Booking.ID)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	return updated, nil
}

func (s *BookingServiceImpl) loadAuthorized(bookingID string, actor *domain.User, ctx context.Context) (*domain.BookingDetails, error) {
	objID, err := primitive.ObjectIDFromHex(bookingID)
	if err != nil {
		return nil, domain.ErrBookingNotFound()
	}

	details, err := s.store.GetDetailsByID(ctx, objID)
	if err != nil {
		return nil, err
	}

	if !details.Booking.CanAccess(actor) {
		return nil, domain.ErrForbidden()
	}
	return details, nil
}

func (s *BookingServiceImpl) GetAllBookings(ctx context.Context) ([]*domain.BookingDetails, error) {
	ctx, span := s.Tracer.Start(ctx, "BookingService.GetAllBookings")
	defer span.End()

	bookings, err := s.store.GetAll(ctx)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	return bookings, nil
}

func (s *BookingServiceImpl) CarHasActiveBookings(carID string, ctx context.Context) (bool, error) {
	ctx, span := s.Tracer.Start(ctx, "BookingService.CarHasActiveBookings")
	defer span.End()

	objID, err := primitive.ObjectIDFromHex(carID)
	if err != nil {
		return false, domain.ErrCarNotFound()
	}
	return s.store.HasActiveForCar(ctx, objID)
}
