package services

import (
	"context"
	"time"

	"github.com/Aum-Ahsan/car-rental-booking/domain"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// BookingStore is the persistence surface of the booking lifecycle engine.
// *repository.BookingRepo is the Mongo implementation.
type BookingStore interface {
	Insert(ctx context.Context, booking *domain.Booking) error
	GetDetailsByID(ctx context.Context, id primitive.ObjectID) (*domain.BookingDetails, error)
	GetByUser(ctx context.Context, userID primitive.ObjectID) ([]*domain.BookingDetails, error)
	GetAll(ctx context.Context) ([]*domain.BookingDetails, error)
	Recent(ctx context.Context, limit int) ([]*domain.BookingDetails, error)
	FindOverlapping(ctx context.Context, carID primitive.ObjectID, pickup, returnDate time.Time) (*domain.Booking, error)
	HasActiveForCar(ctx context.Context, carID primitive.ObjectID) (bool, error)
	UpdateStatus(ctx context.Context, id primitive.ObjectID, status domain.BookingStatus, paymentStatus domain.PaymentStatus) error
	CountAll(ctx context.Context) (int64, error)
	CountByStatus(ctx context.Context, status domain.BookingStatus) (int64, error)
	CompletedRevenue(ctx context.Context) (float64, error)
	CountsByCategory(ctx context.Context) ([]domain.CategoryCount, error)
	MonthlyRevenue(ctx context.Context, since time.Time) ([]domain.MonthlyRevenue, error)
}

// Mailer sends the best-effort booking confirmation. Failures are logged,
// never surfaced to the caller.
type Mailer interface {
	SendBookingConfirmation(user *domain.User, booking *domain.BookingDetails) error
}

type BookingService interface {
	CreateBooking(req *domain.CreateBookingRequest, actor *domain.User, ctx context.Context) (*domain.BookingDetails, error)
	GetUserBookings(userID primitive.ObjectID, ctx context.Context) ([]*domain.BookingDetails, error)
	GetBooking(bookingID string, actor *domain.User, ctx context.Context) (*domain.BookingDetails, error)
	UpdateBookingStatus(bookingID string, req *domain.UpdateBookingRequest, actor *domain.User, ctx context.Context) (*domain.BookingDetails, error)
	CancelBooking(bookingID string, actor *domain.User, ctx context.Context) (*domain.BookingDetails, error)

	GetAllBookings(ctx context.Context) ([]*domain.BookingDetails, error)
	CarHasActiveBookings(carID string, ctx context.Context) (bool, error)
}
