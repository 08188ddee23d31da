package services

import (
	"context"
	"testing"

	"github.com/Aum-Ahsan/car-rental-booking/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace"
)

type fakeUserDirectory struct {
	users []*domain.User
}

func (f *fakeUserDirectory) FindUserByID(userID string, ctx context.Context) (*domain.User, error) {
	for _, user := range f.users {
		if user.ID.Hex() == userID {
			return user, nil
		}
	}
	return nil, ErrUserNotFound
}

func (f *fakeUserDirectory) FindUserByEmail(email string, ctx context.Context) (*domain.User, error) {
	for _, user := range f.users {
		if user.Email == email {
			return user, nil
		}
	}
	return nil, ErrUserNotFound
}

func (f *fakeUserDirectory) GetAllUsers(ctx context.Context) ([]*domain.User, error) {
	return f.users, nil
}

func (f *fakeUserDirectory) DeleteUser(userID string, ctx context.Context) error {
	return nil
}

func (f *fakeUserDirectory) UpdateUserRole(userID string, role domain.UserRole, ctx context.Context) (*domain.User, error) {
	return nil, ErrUserNotFound
}

func (f *fakeUserDirectory) CountUsers(ctx context.Context) (int64, error) {
	return int64(len(f.users)), nil
}

func TestGetStatsAssemblesCounts(t *testing.T) {
	carA := availableCar(5000)
	carB := availableCar(8000)
	directory := newFakeCarDirectory(carA, carB)
	store := newFakeBookingStore()
	users := &fakeUserDirectory{users: []*domain.User{testUser(), testUser(), testUser()}}

	tracer := trace.NewNoopTracerProvider().Tracer("test")
	engine := NewBookingServiceImpl(store, directory, nil, discardLogger(), tracer)
	stats := NewStatsServiceImpl(store, directory, users, tracer)
	ctx := context.Background()

	booking, err := engine.CreateBooking(createReq(carA.ID, 10, 12), users.users[0], ctx)
	require.NoError(t, err)
	_, err = engine.CreateBooking(createReq(carB.ID, 10, 13), users.users[1], ctx)
	require.NoError(t, err)

	admin := &domain.User{ID: users.users[2].ID, Role: domain.UserRoleAdmin}
	_, err = engine.UpdateBookingStatus(booking.Booking.ID.Hex(), &domain.UpdateBookingRequest{
		Status:        domain.BookingCompleted,
		PaymentStatus: domain.PaymentPaid,
	}, admin, ctx)
	require.NoError(t, err)

	result, err := stats.GetStats(ctx)
	require.NoError(t, err)

	assert.Equal(t, int64(3), result.TotalUsers)
	assert.Equal(t, int64(2), result.TotalCars)
	assert.Equal(t, int64(2), result.TotalBookings)
	assert.Equal(t, int64(1), result.PendingBookings)
	assert.Equal(t, int64(0), result.ConfirmedBookings)
	assert.Equal(t, int64(1), result.CompletedBookings)
	assert.Equal(t, int64(0), result.CancelledBookings)
	// Completed: carA, 2 days at 5000.
	assert.Equal(t, 10000.0, result.TotalRevenue)
	// Both cars carry an active or completed reservation flag state: carA was
	// completed without release, carB holds a pending booking.
	assert.Equal(t, int64(0), result.AvailableCars)
	assert.Equal(t, int64(2), result.UnavailableCars)
	assert.Len(t, result.RecentBookings, 2)
}
