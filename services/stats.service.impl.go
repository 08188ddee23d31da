package services

import (
	"context"
	"time"

	"github.com/Aum-Ahsan/car-rental-booking/domain"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

type StatsServiceImpl struct {
	store       BookingStore
	carService  CarService
	userService UserService
	Tracer      trace.Tracer
}

func NewStatsServiceImpl(store BookingStore, carService CarService, userService UserService, tracer trace.Tracer) StatsService {
	return &StatsServiceImpl{
		store:       store,
		carService:  carService,
		userService: userService,
		Tracer:      tracer,
	}
}

func (s *StatsServiceImpl) GetStats(ctx context.Context) (*domain.AdminStats, error) {
	ctx, span := s.Tracer.Start(ctx, "StatsService.GetStats")
	defer span.End()

	stats := &domain.AdminStats{}
	var err error

	if stats.TotalUsers, err = s.userService.CountUsers(ctx); err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	if stats.TotalCars, err = s.carService.CountCars(ctx); err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	if stats.TotalBookings, err = s.store.CountAll(ctx); err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	if stats.PendingBookings, err = s.store.CountByStatus(ctx, domain.BookingPending); err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	if stats.ConfirmedBookings, err = s.store.CountByStatus(ctx, domain.BookingConfirmed); err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	if stats.CompletedBookings, err = s.store.CountByStatus(ctx, domain.BookingCompleted); err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	if stats.CancelledBookings, err = s.store.CountByStatus(ctx, domain.BookingCancelled); err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	if stats.TotalRevenue, err = s.store.CompletedRevenue(ctx); err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	if stats.AvailableCars, err = s.carService.CountCarsByAvailability(true, ctx); err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	if stats.UnavailableCars, err = s.carService.CountCarsByAvailability(false, ctx); err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	if stats.RecentBookings, err = s.store.Recent(ctx, 5); err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	if stats.BookingsByCategory, err = s.store.CountsByCategory(ctx); err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	sixMonthsAgo := time.Now().AddDate(0, -6, 0)
	if stats.MonthlyRevenue, err = s.store.MonthlyRevenue(ctx, sixMonthsAgo); err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	return stats, nil
}
