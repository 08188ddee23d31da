package services

import (
	"context"
	"io"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/Aum-Ahsan/car-rental-booking/domain"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.opentelemetry.io/otel/trace"
)

// fakeCarDirectory is an in-memory CarService whose ReserveCar performs the
// same atomic availability swap the Mongo implementation does.
type fakeCarDirectory struct {
	mu   sync.Mutex
	cars map[primitive.ObjectID]*domain.Car
}

func newFakeCarDirectory(cars ...*domain.Car) *fakeCarDirectory {
	f := &fakeCarDirectory{cars: make(map[primitive.ObjectID]*domain.Car)}
	for _, car := range cars {
		f.cars[car.ID] = car
	}
	return f
}

func (f *fakeCarDirectory) GetCarByID(carID string, ctx context.Context) (*domain.Car, error) {
	objID, err := primitive.ObjectIDFromHex(carID)
	if err != nil {
		return nil, domain.ErrCarNotFound()
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	car, ok := f.cars[objID]
	if !ok {
		return nil, domain.ErrCarNotFound()
	}
	snapshot := *car
	return &snapshot, nil
}

func (f *fakeCarDirectory) ReserveCar(carID primitive.ObjectID, ctx context.Context) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	car, ok := f.cars[carID]
	if !ok || !car.Availability {
		return false, nil
	}
	car.Availability = false
	return true, nil
}

func (f *fakeCarDirectory) ReleaseCar(carID primitive.ObjectID, ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if car, ok := f.cars[carID]; ok {
		car.Availability = true
	}
	return nil
}

func (f *fakeCarDirectory) GetAllCars(filter domain.CarFilter, ctx context.Context) ([]*domain.Car, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var cars []*domain.Car
	for _, car := range f.cars {
		snapshot := *car
		cars = append(cars, &snapshot)
	}
	return cars, nil
}

func (f *fakeCarDirectory) GetCategories(ctx context.Context) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	seen := make(map[string]bool)
	var categories []string
	for _, car := range f.cars {
		if !seen[car.Category] {
			seen[car.Category] = true
			categories = append(categories, car.Category)
		}
	}
	sort.Strings(categories)
	return categories, nil
}

func (f *fakeCarDirectory) InsertCar(car *domain.Car, ctx context.Context) (*domain.Car, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	car.ID = primitive.NewObjectID()
	car.Availability = true
	f.cars[car.ID] = car
	return car, nil
}

func (f *fakeCarDirectory) UpdateCar(carID string, update *domain.CreateCarRequest, images []domain.CarImage, ctx context.Context) (*domain.Car, error) {
	return nil, domain.ErrCarNotFound()
}

func (f *fakeCarDirectory) DeleteCar(carID string, ctx context.Context) error {
	return domain.ErrCarNotFound()
}

func (f *fakeCarDirectory) CountCars(ctx context.Context) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return int64(len(f.cars)), nil
}

func (f *fakeCarDirectory) CountCarsByAvailability(available bool, ctx context.Context) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var count int64
	for _, car := range f.cars {
		if car.Availability == available {
			count++
		}
	}
	return count, nil
}

// fakeBookingStore is an in-memory BookingStore.
type fakeBookingStore struct {
	mu       sync.Mutex
	bookings map[primitive.ObjectID]*domain.Booking
}

func newFakeBookingStore() *fakeBookingStore {
	return &fakeBookingStore{bookings: make(map[primitive.ObjectID]*domain.Booking)}
}

func (f *fakeBookingStore) Insert(ctx context.Context, booking *domain.Booking) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	booking.ID = primitive.NewObjectID()
	stored := *booking
	f.bookings[booking.ID] = &stored
	return nil
}

func (f *fakeBookingStore) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	booking, ok := f.bookings[id]
	if !ok {
		return nil, domain.ErrBookingNotFound()
	}
	snapshot := *booking
	return &snapshot, nil
}

func (f *fakeBookingStore) GetDetailsByID(ctx context.Context, id primitive.ObjectID) (*domain.BookingDetails, error) {
	booking, err := f.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return &domain.BookingDetails{Booking: *booking}, nil
}

func (f *fakeBookingStore) GetByUser(ctx context.Context, userID primitive.ObjectID) ([]*domain.BookingDetails, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var details []*domain.BookingDetails
	for _, booking := range f.bookings {
		if booking.UserID == userID {
			details = append(details, &domain.BookingDetails{Booking: *booking})
		}
	}
	return details, nil
}

func (f *fakeBookingStore) GetAll(ctx context.Context) ([]*domain.BookingDetails, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var details []*domain.BookingDetails
	for _, booking := range f.bookings {
		details = append(details, &domain.BookingDetails{Booking: *booking})
	}
	return details, nil
}

func (f *fakeBookingStore) Recent(ctx context.Context, limit int) ([]*domain.BookingDetails, error) {
	details, _ := f.GetAll(ctx)
	if len(details) > limit {
		details = details[:limit]
	}
	return details, nil
}

func (f *fakeBookingStore) FindOverlapping(ctx context.Context, carID primitive.ObjectID, pickup, returnDate time.Time) (*domain.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, booking := range f.bookings {
		if booking.CarID != carID || !booking.Status.Active() {
			continue
		}
		if domain.IntervalsOverlap(booking.PickupDate.Time(), booking.ReturnDate.Time(), pickup, returnDate) {
			snapshot := *booking
			return &snapshot, nil
		}
	}
	return nil, nil
}

func (f *fakeBookingStore) HasActiveForCar(ctx context.Context, carID primitive.ObjectID) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, booking := range f.bookings {
		if booking.CarID == carID && booking.Status.Active() {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeBookingStore) UpdateStatus(ctx context.Context, id primitive.ObjectID, status domain.BookingStatus, paymentStatus domain.PaymentStatus) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	booking, ok := f.bookings[id]
	if !ok {
		return domain.ErrBookingNotFound()
	}
	booking.Status = status
	if paymentStatus != "" {
		booking.PaymentStatus = paymentStatus
	}
	return nil
}

func (f *fakeBookingStore) CountAll(ctx context.Context) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return int64(len(f.bookings)), nil
}

func (f *fakeBookingStore) CountByStatus(ctx context.Context, status domain.BookingStatus) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var count int64
	for _, booking := range f.bookings {
		if booking.Status == status {
			count++
		}
	}
	return count, nil
}

func (f *fakeBookingStore) CompletedRevenue(ctx context.Context) (float64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var total float64
	for _, booking := range f.bookings {
		if booking.Status == domain.BookingCompleted {
			total += booking.TotalPrice
		}
	}
	return total, nil
}

func (f *fakeBookingStore) CountsByCategory(ctx context.Context) ([]domain.CategoryCount, error) {
	return nil, nil
}

func (f *fakeBookingStore) MonthlyRevenue(ctx context.Context, since time.Time) ([]domain.MonthlyRevenue, error) {
	return nil, nil
}

// activeBookingsFor returns the active bookings referencing the car.
func (f *fakeBookingStore) activeBookingsFor(carID primitive.ObjectID) []*domain.Booking {
	f.mu.Lock()
	defer f.mu.Unlock()
	var active []*domain.Booking
	for _, booking := range f.bookings {
		if booking.CarID == carID && booking.Status.Active() {
			snapshot := *booking
			active = append(active, &snapshot)
		}
	}
	return active
}

func discardLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func newTestEngine(cars ...*domain.Car) (BookingService, *fakeCarDirectory, *fakeBookingStore) {
	directory := newFakeCarDirectory(cars...)
	store := newFakeBookingStore()

	tracer := trace.NewNoopTracerProvider().Tracer("test")

	engine := NewBookingServiceImpl(store, directory, nil, discardLogger(), tracer)
	return engine, directory, store
}

func availableCar(pricePerDay float64) *domain.Car {
	return &domain.Car{
		ID:           primitive.NewObjectID(),
		Brand:        "Toyota",
		Model:        "Corolla",
		Category:     "Sedan",
		PricePerDay:  pricePerDay,
		Availability: true,
	}
}

func testUser() *domain.User {
	return &domain.User{
		ID:    primitive.NewObjectID(),
		Name:  "Test User",
		Email: "user@example.com",
		Role:  domain.UserRoleUser,
	}
}

// dateFrom formats the calendar day the given number of days from today.
func dateFrom(days int) string {
	return domain.Today().AddDate(0, 0, days).Format("2006-01-02")
}

func createReq(carID primitive.ObjectID, pickupOffset, returnOffset int) *domain.CreateBookingRequest {
	return &domain.CreateBookingRequest{
		Car:            carID.Hex(),
		PickupLocation: "Airport",
		PickupDate:     dateFrom(pickupOffset),
		ReturnDate:     dateFrom(returnOffset),
	}
}

func TestCreateBookingComputesPriceAndFlipsAvailability(t *testing.T) {
	car := availableCar(5000)
	engine, directory, _ := newTestEngine(car)
	ctx := context.Background()

	booking, err := engine.CreateBooking(createReq(car.ID, 10, 12), testUser(), ctx)
	require.NoError(t, err)

	assert.Equal(t, 10000.0, booking.Booking.TotalPrice)
	assert.Equal(t, domain.BookingPending, booking.Booking.Status)
	assert.Equal(t, domain.PaymentPending, booking.Booking.PaymentStatus)

	stored, err := directory.GetCarByID(car.ID.Hex(), ctx)
	require.NoError(t, err)
	assert.False(t, stored.Availability)
}

func TestCreateBookingZeroDayRental(t *testing.T) {
	car := availableCar(5000)
	engine, _, _ := newTestEngine(car)

	booking, err := engine.CreateBooking(createReq(car.ID, 10, 10), testUser(), context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0.0, booking.Booking.TotalPrice)
}

func TestCreateBookingCarNotFound(t *testing.T) {
	engine, _, _ := newTestEngine()

	_, err := engine.CreateBooking(createReq(primitive.NewObjectID(), 10, 12), testUser(), context.Background())
	assert.ErrorIs(t, err, domain.ErrCarNotFound())
}

func TestCreateBookingInvalidDates(t *testing.T) {
	tests := []struct {
		name       string
		pickup     string
		returnDate string
	}{
		{"pickup in the past", dateFrom(-1), dateFrom(2)},
		{"return before pickup", dateFrom(12), dateFrom(10)},
		{"unparseable pickup", "soon", dateFrom(12)},
		{"unparseable return", dateFrom(10), "later"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			car := availableCar(5000)
			engine, directory, _ := newTestEngine(car)

			req := &domain.CreateBookingRequest{
				Car:            car.ID.Hex(),
				PickupLocation: "Airport",
				PickupDate:     tt.pickup,
				ReturnDate:     tt.returnDate,
			}
			_, err := engine.CreateBooking(req, testUser(), context.Background())
			assert.ErrorIs(t, err, domain.ErrInvalidDateRange())

			// A rejected request must not leave the flag down.
			stored, err := directory.GetCarByID(car.ID.Hex(), context.Background())
			require.NoError(t, err)
			assert.True(t, stored.Availability)
		})
	}
}

func TestCreateBookingOverlapIsConflict(t *testing.T) {
	car := availableCar(5000)
	engine, _, _ := newTestEngine(car)
	ctx := context.Background()

	_, err := engine.CreateBooking(createReq(car.ID, 10, 12), testUser(), ctx)
	require.NoError(t, err)

	// Overlapping interval from a second user.
	_, err = engine.CreateBooking(createReq(car.ID, 11, 13), testUser(), ctx)
	assert.ErrorIs(t, err, domain.ErrBookingConflict())

	// Touching endpoints count as overlap: pickup on the return day.
	_, err = engine.CreateBooking(createReq(car.ID, 12, 14), testUser(), ctx)
	assert.ErrorIs(t, err, domain.ErrBookingConflict())
}

func TestCreateBookingDisjointDatesStillUnavailable(t *testing.T) {
	// The coarse model blocks the car's entire future while any active
	// booking exists, even for non-overlapping dates.
	car := availableCar(5000)
	engine, _, _ := newTestEngine(car)
	ctx := context.Background()

	_, err := engine.CreateBooking(createReq(car.ID, 10, 12), testUser(), ctx)
	require.NoError(t, err)

	_, err = engine.CreateBooking(createReq(car.ID, 20, 22), testUser(), ctx)
	assert.ErrorIs(t, err, domain.ErrCarUnavailable())
}

func TestCreateBookingAdminDisabledCar(t *testing.T) {
	car := availableCar(5000)
	car.Availability = false
	engine, _, _ := newTestEngine(car)

	_, err := engine.CreateBooking(createReq(car.ID, 10, 12), testUser(), context.Background())
	assert.ErrorIs(t, err, domain.ErrCarUnavailable())
}

func TestCancelBookingRestoresAvailability(t *testing.T) {
	car := availableCar(5000)
	engine, directory, _ := newTestEngine(car)
	ctx := context.Background()

	owner := testUser()
	booking, err := engine.CreateBooking(createReq(car.ID, 10, 12), owner, ctx)
	require.NoError(t, err)

	cancelled, err := engine.CancelBooking(booking.Booking.ID.Hex(), owner, ctx)
	require.NoError(t, err)
	assert.Equal(t, domain.BookingCancelled, cancelled.Booking.Status)

	stored, err := directory.GetCarByID(car.ID.Hex(), ctx)
	require.NoError(t, err)
	assert.True(t, stored.Availability)

	// The previously conflicting request now succeeds.
	second, err := engine.CreateBooking(createReq(car.ID, 11, 13), testUser(), ctx)
	require.NoError(t, err)
	assert.Equal(t, domain.BookingPending, second.Booking.Status)
}

func TestCancelBookingIsIdempotent(t *testing.T) {
	car := availableCar(5000)
	engine, directory, _ := newTestEngine(car)
	ctx := context.Background()

	owner := testUser()
	booking, err := engine.CreateBooking(createReq(car.ID, 10, 12), owner, ctx)
	require.NoError(t, err)

	_, err = engine.CancelBooking(booking.Booking.ID.Hex(), owner, ctx)
	require.NoError(t, err)
	again, err := engine.CancelBooking(booking.Booking.ID.Hex(), owner, ctx)
	require.NoError(t, err)
	assert.Equal(t, domain.BookingCancelled, again.Booking.Status)

	stored, err := directory.GetCarByID(car.ID.Hex(), ctx)
	require.NoError(t, err)
	assert.True(t, stored.Availability)
}

func TestAccessPolicyOnBookingOperations(t *testing.T) {
	car := availableCar(5000)
	engine, _, _ := newTestEngine(car)
	ctx := context.Background()

	owner := testUser()
	stranger := testUser()
	admin := &domain.User{ID: primitive.NewObjectID(), Role: domain.UserRoleAdmin}

	booking, err := engine.CreateBooking(createReq(car.ID, 10, 12), owner, ctx)
	require.NoError(t, err)
	id := booking.Booking.ID.Hex()

	_, err = engine.GetBooking(id, stranger, ctx)
	assert.ErrorIs(t, err, domain.ErrForbidden())
	_, err = engine.UpdateBookingStatus(id, &domain.UpdateBookingRequest{Status: domain.BookingConfirmed}, stranger, ctx)
	assert.ErrorIs(t, err, domain.ErrForbidden())
	_, err = engine.CancelBooking(id, stranger, ctx)
	assert.ErrorIs(t, err, domain.ErrForbidden())

	_, err = engine.GetBooking(id, owner, ctx)
	assert.NoError(t, err)
	_, err = engine.GetBooking(id, admin, ctx)
	assert.NoError(t, err)
}

func TestUpdateBookingStatusHasNoTransitionOrder(t *testing.T) {
	car := availableCar(5000)
	engine, _, _ := newTestEngine(car)
	ctx := context.Background()

	admin := &domain.User{ID: primitive.NewObjectID(), Role: domain.UserRoleAdmin}
	booking, err := engine.CreateBooking(createReq(car.ID, 10, 12), testUser(), ctx)
	require.NoError(t, err)

	// pending straight to completed is legal.
	updated, err := engine.UpdateBookingStatus(booking.Booking.ID.Hex(), &domain.UpdateBookingRequest{
		Status:        domain.BookingCompleted,
		PaymentStatus: domain.PaymentPaid,
	}, admin, ctx)
	require.NoError(t, err)
	assert.Equal(t, domain.BookingCompleted, updated.Booking.Status)
	assert.Equal(t, domain.PaymentPaid, updated.Booking.PaymentStatus)
}

func TestUpdateToCancelledDoesNotRestoreAvailability(t *testing.T) {
	// Only the cancel operation releases the car; a plain status update to
	// cancelled leaves the flag down, matching the preserved API behaviour.
	car := availableCar(5000)
	engine, directory, _ := newTestEngine(car)
	ctx := context.Background()

	owner := testUser()
	booking, err := engine.CreateBooking(createReq(car.ID, 10, 12), owner, ctx)
	require.NoError(t, err)

	_, err = engine.UpdateBookingStatus(booking.Booking.ID.Hex(), &domain.UpdateBookingRequest{
		Status: domain.BookingCancelled,
	}, owner, ctx)
	require.NoError(t, err)

	stored, err := directory.GetCarByID(car.ID.Hex(), ctx)
	require.NoError(t, err)
	assert.False(t, stored.Availability)
}

func TestGetBookingNotFound(t *testing.T) {
	engine, _, _ := newTestEngine()

	_, err := engine.GetBooking(primitive.NewObjectID().Hex(), testUser(), context.Background())
	assert.ErrorIs(t, err, domain.ErrBookingNotFound())

	_, err = engine.GetBooking("not-an-id", testUser(), context.Background())
	assert.ErrorIs(t, err, domain.ErrBookingNotFound())
}

func TestConcurrentCreateBookingSingleWinner(t *testing.T) {
	car := availableCar(5000)
	engine, _, store := newTestEngine(car)
	ctx := context.Background()

	const attempts = 20

	var wg sync.WaitGroup
	errs := make([]error, attempts)

	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			// Every request overlaps every other.
			_, err := engine.CreateBooking(createReq(car.ID, 10+i%3, 14), testUser(), ctx)
			errs[i] = err
		}(i)
	}
	wg.Wait()

	var successes int
	for _, err := range errs {
		if err == nil {
			successes++
			continue
		}
		if !assert.True(t,
			err == domain.ErrCarUnavailable() || err == domain.ErrBookingConflict(),
			"unexpected error: %v", err) {
			t.FailNow()
		}
	}
	assert.Equal(t, 1, successes, "exactly one racing request may win")

	active := store.activeBookingsFor(car.ID)
	require.Len(t, active, 1)

	// The central correctness property: active bookings for a car are
	// pairwise non-overlapping.
	for i := range active {
		for j := i + 1; j < len(active); j++ {
			assert.False(t, domain.IntervalsOverlap(
				active[i].PickupDate.Time(), active[i].ReturnDate.Time(),
				active[j].PickupDate.Time(), active[j].ReturnDate.Time(),
			))
		}
	}
}

func TestConcurrentCreateAndCancelKeepInvariant(t *testing.T) {
	car := availableCar(5000)
	engine, _, store := newTestEngine(car)
	ctx := context.Background()

	const rounds = 10

	for round := 0; round < rounds; round++ {
		var wg sync.WaitGroup
		results := make([]*domain.BookingDetails, 4)

		for i := 0; i < 4; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				booking, err := engine.CreateBooking(createReq(car.ID, 5, 8), testUser(), ctx)
				if err == nil {
					results[i] = booking
				}
			}(i)
		}
		wg.Wait()

		var winner *domain.BookingDetails
		for _, booking := range results {
			if booking != nil {
				require.Nil(t, winner, "two creates won in round %d", round)
				winner = booking
			}
		}
		require.NotNil(t, winner, "no create won in round %d", round)

		owner := &domain.User{ID: winner.Booking.UserID, Role: domain.UserRoleUser}
		_, err := engine.CancelBooking(winner.Booking.ID.Hex(), owner, ctx)
		require.NoError(t, err)
	}

	assert.Empty(t, store.activeBookingsFor(car.ID))
	total, err := store.CountAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(rounds), total, "one booking per round, all cancelled")
}
