package services

import (
	"context"

	"github.com/Aum-Ahsan/car-rental-booking/domain"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CarService is the car directory: catalog reads plus the conditional
// availability writes the booking lifecycle depends on.
type CarService interface {
	GetAllCars(filter domain.CarFilter, ctx context.Context) ([]*domain.Car, error)
	GetCarByID(carID string, ctx context.Context) (*domain.Car, error)
	GetCategories(ctx context.Context) ([]string, error)
	InsertCar(car *domain.Car, ctx context.Context) (*domain.Car, error)
	UpdateCar(carID string, update *domain.CreateCarRequest, images []domain.CarImage, ctx context.Context) (*domain.Car, error)
	DeleteCar(carID string, ctx context.Context) error

	// ReserveCar flips availability true -> false as a single conditional
	// write. It reports false when the car was not available, which is how
	// the loser of a racing create finds out.
	ReserveCar(carID primitive.ObjectID, ctx context.Context) (bool, error)
	// ReleaseCar sets availability back to true unconditionally.
	ReleaseCar(carID primitive.ObjectID, ctx context.Context) error

	CountCars(ctx context.Context) (int64, error)
	CountCarsByAvailability(available bool, ctx context.Context) (int64, error)
}
