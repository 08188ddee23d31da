package services

import (
	"context"

	"github.com/Aum-Ahsan/car-rental-booking/domain"
)

// StatsService assembles the admin dashboard snapshot.
type StatsService interface {
	GetStats(ctx context.Context) (*domain.AdminStats, error)
}
