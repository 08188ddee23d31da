package services

import (
	"context"

	"github.com/Aum-Ahsan/car-rental-booking/domain"
)

type UserService interface {
	FindUserByID(userID string, ctx context.Context) (*domain.User, error)
	FindUserByEmail(email string, ctx context.Context) (*domain.User, error)
	GetAllUsers(ctx context.Context) ([]*domain.User, error)
	DeleteUser(userID string, ctx context.Context) error
	UpdateUserRole(userID string, role domain.UserRole, ctx context.Context) (*domain.User, error)
	CountUsers(ctx context.Context) (int64, error)
}
