package repository

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/Aum-Ahsan/car-rental-booking/domain"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// BookingRepo encapsulates the bookings collection. Bookings are never
// physically deleted; cancellation is a status transition.
type BookingRepo struct {
	collection *mongo.Collection
	logger     *log.Logger
	Tracer     trace.Tracer
}

func New(collection *mongo.Collection, logger *log.Logger, tracer trace.Tracer) *BookingRepo {
	return &BookingRepo{
		collection: collection,
		logger:     logger,
		Tracer:     tracer,
	}
}

var activeStatuses = []domain.BookingStatus{domain.BookingPending, domain.BookingConfirmed}

func (br *BookingRepo) Insert(ctx context.Context, booking *domain.Booking) error {
	ctx, span := br.Tracer.Start(ctx, "BookingRepo.Insert")
	defer span.End()

	result, err := br.collection.InsertOne(ctx, booking)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		br.logger.Println(err)
		return err
	}
	if insertedID, ok := result.InsertedID.(primitive.ObjectID); ok {
		booking.ID = insertedID
	}
	return nil
}

// FindOverlapping returns an active booking for the car whose closed
// [pickup, return] interval overlaps the requested one, or nil when none
// exists. Touching endpoints count as overlap.
func (br *BookingRepo) FindOverlapping(ctx context.Context, carID primitive.ObjectID, pickup, returnDate time.Time) (*domain.Booking, error) {
	ctx, span := br.Tracer.Start(ctx, "BookingRepo.FindOverlapping")
	defer span.End()

	filter := bson.M{
		"car":    carID,
		"status": bson.M{"$in": activeStatuses},
		"pickup_date": bson.M{
			"$lte": primitive.NewDateTimeFromTime(returnDate),
		},
		"return_date": bson.M{
			"$gte": primitive.NewDateTimeFromTime(pickup),
		},
	}

	var booking domain.Booking
	err := br.collection.FindOne(ctx, filter).Decode(&booking)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		span.SetStatus(codes.Error, err.Error())
		br.logger.Println(err)
		return nil, err
	}
	return &booking, nil
}

func (br *BookingRepo) HasActiveForCar(ctx context.Context, carID primitive.ObjectID) (bool, error) {
	ctx, span := br.Tracer.Start(ctx, "BookingRepo.HasActiveForCar")
	defer span.End()

	count, err := br.collection.CountDocuments(ctx, bson.M{
		"car":    carID,
		"status": bson.M{"$in": activeStatuses},
	})
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		br.logger.Println(err)
		return false, err
	}
	return count > 0, nil
}

func (br *BookingRepo) UpdateStatus(ctx context.Context, id primitive.ObjectID, status domain.BookingStatus, paymentStatus domain.PaymentStatus) error {
	ctx, span := br.Tracer.Start(ctx, "BookingRepo.UpdateStatus")
	defer span.End()

	update := bson.M{"status": status}
	if paymentStatus != "" {
		update["payment_status"] = paymentStatus
	}

	result, err := br.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": update})
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		br.logger.Println(err)
		return err
	}
	if result.MatchedCount == 0 {
		return domain.ErrBookingNotFound()
	}
	return nil
}

// GetDetailsByID resolves the booking together with its car and user
// summaries.
func (br *BookingRepo) GetDetailsByID(ctx context.Context, id primitive.ObjectID) (*domain.BookingDetails, error) {
	ctx, span := br.Tracer.Start(ctx, "BookingRepo.GetDetailsByID")
	defer span.End()

	details, err := br.findDetails(ctx, bson.M{"_id": id}, 0)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	if len(details) == 0 {
		return nil, domain.ErrBookingNotFound()
	}
	return details[0], nil
}

// GetByUser returns the user's bookings, newest first, with car summaries
// resolved.
func (br *BookingRepo) GetByUser(ctx context.Context, userID primitive.ObjectID) ([]*domain.BookingDetails, error) {
	ctx, span := br.Tracer.Start(ctx, "BookingRepo.GetByUser")
	defer span.End()

	details, err := br.findDetails(ctx, bson.M{"user": userID}, 0)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	return details, nil
}

// GetAll returns every booking, newest first, with car and user summaries
// resolved. Admin surface.
func (br *BookingRepo) GetAll(ctx context.Context) ([]*domain.BookingDetails, error) {
	ctx, span := br.Tracer.Start(ctx, "BookingRepo.GetAll")
	defer span.End()

	details, err := br.findDetails(ctx, bson.M{}, 0)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	return details, nil
}

// Recent returns the newest bookings up to the given limit.
func (br *BookingRepo) Recent(ctx context.Context, limit int) ([]*domain.BookingDetails, error) {
	ctx, span := br.Tracer.Start(ctx, "BookingRepo.Recent")
	defer span.End()

	details, err := br.findDetails(ctx, bson.M{}, int64(limit))
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	return details, nil
}

func (br *BookingRepo) findDetails(ctx context.Context, match bson.M, limit int64) ([]*domain.BookingDetails, error) {
	pipeline := mongo.Pipeline{
		bson.D{{Key: "$match", Value: match}},
		bson.D{{Key: "$sort", Value: bson.D{{Key: "created_at", Value: -1}}}},
	}
	if limit > 0 {
		pipeline = append(pipeline, bson.D{{Key: "$limit", Value: limit}})
	}
	pipeline = append(pipeline,
		bson.D{{Key: "$lookup", Value: bson.D{
			{Key: "from", Value: "cars"},
			{Key: "localField", Value: "car"},
			{Key: "foreignField", Value: "_id"},
			{Key: "as", Value: "car_details"},
		}}},
		bson.D{{Key: "$unwind", Value: bson.D{
			{Key: "path", Value: "$car_details"},
			{Key: "preserveNullAndEmptyArrays", Value: true},
		}}},
		bson.D{{Key: "$lookup", Value: bson.D{
			{Key: "from", Value: "users"},
			{Key: "localField", Value: "user"},
			{Key: "foreignField", Value: "_id"},
			{Key: "as", Value: "user_details"},
		}}},
		bson.D{{Key: "$unwind", Value: bson.D{
			{Key: "path", Value: "$user_details"},
			{Key: "preserveNullAndEmptyArrays", Value: true},
		}}},
	)

	cursor, err := br.collection.Aggregate(ctx, pipeline)
	if err != nil {
		br.logger.Println(err)
		return nil, err
	}
	defer cursor.Close(ctx)

	var details []*domain.BookingDetails
	for cursor.Next(ctx) {
		var d domain.BookingDetails
		if err := cursor.Decode(&d); err != nil {
			br.logger.Println(err)
			return nil, err
		}
		details = append(details, &d)
	}
	if err := cursor.Err(); err != nil {
		br.logger.Println(err)
		return nil, err
	}
	return details, nil
}

func (br *BookingRepo) CountAll(ctx context.Context) (int64, error) {
	return br.collection.CountDocuments(ctx, bson.M{})
}

func (br *BookingRepo) CountByStatus(ctx context.Context, status domain.BookingStatus) (int64, error) {
	return br.collection.CountDocuments(ctx, bson.M{"status": status})
}

// CompletedRevenue sums the total price of completed bookings.
func (br *BookingRepo) CompletedRevenue(ctx context.Context) (float64, error) {
	ctx, span := br.Tracer.Start(ctx, "BookingRepo.CompletedRevenue")
	defer span.End()

	pipeline := mongo.Pipeline{
		bson.D{{Key: "$match", Value: bson.M{"status": domain.BookingCompleted}}},
		bson.D{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: nil},
			{Key: "total", Value: bson.D{{Key: "$sum", Value: "$total_price"}}},
		}}},
	}

	cursor, err := br.collection.Aggregate(ctx, pipeline)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		br.logger.Println(err)
		return 0, err
	}
	defer cursor.Close(ctx)

	var result struct {
		Total float64 `bson:"total"`
	}
	if cursor.Next(ctx) {
		if err := cursor.Decode(&result); err != nil {
			br.logger.Println(err)
			return 0, err
		}
	}
	return result.Total, cursor.Err()
}

// CountsByCategory groups bookings by the category of the booked car.
func (br *BookingRepo) CountsByCategory(ctx context.Context) ([]domain.CategoryCount, error) {
	ctx, span := br.Tracer.Start(ctx, "BookingRepo.CountsByCategory")
	defer span.End()

	pipeline := mongo.Pipeline{
		bson.D{{Key: "$lookup", Value: bson.D{
			{Key: "from", Value: "cars"},
			{Key: "localField", Value: "car"},
			{Key: "foreignField", Value: "_id"},
			{Key: "as", Value: "car_details"},
		}}},
		bson.D{{Key: "$unwind", Value: "$car_details"}},
		bson.D{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: "$car_details.category"},
			{Key: "count", Value: bson.D{{Key: "$sum", Value: 1}}},
		}}},
		bson.D{{Key: "$sort", Value: bson.D{{Key: "count", Value: -1}}}},
	}

	cursor, err := br.collection.Aggregate(ctx, pipeline)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		br.logger.Println(err)
		return nil, err
	}
	defer cursor.Close(ctx)

	var counts []domain.CategoryCount
	for cursor.Next(ctx) {
		var c domain.CategoryCount
		if err := cursor.Decode(&c); err != nil {
			br.logger.Println(err)
			return nil, err
		}
		counts = append(counts, c)
	}
	return counts, cursor.Err()
}

// MonthlyRevenue groups completed-booking revenue by month since the given
// time.
func (br *BookingRepo) MonthlyRevenue(ctx context.Context, since time.Time) ([]domain.MonthlyRevenue, error) {
	ctx, span := br.Tracer.Start(ctx, "BookingRepo.MonthlyRevenue")
	defer span.End()

	pipeline := mongo.Pipeline{
		bson.D{{Key: "$match", Value: bson.M{
			"status":     domain.BookingCompleted,
			"created_at": bson.M{"$gte": primitive.NewDateTimeFromTime(since)},
		}}},
		bson.D{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: bson.D{
				{Key: "year", Value: bson.D{{Key: "$year", Value: "$created_at"}}},
				{Key: "month", Value: bson.D{{Key: "$month", Value: "$created_at"}}},
			}},
			{Key: "revenue", Value: bson.D{{Key: "$sum", Value: "$total_price"}}},
			{Key: "count", Value: bson.D{{Key: "$sum", Value: 1}}},
		}}},
		bson.D{{Key: "$sort", Value: bson.D{
			{Key: "_id.year", Value: 1},
			{Key: "_id.month", Value: 1},
		}}},
	}

	cursor, err := br.collection.Aggregate(ctx, pipeline)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		br.logger.Println(err)
		return nil, err
	}
	defer cursor.Close(ctx)

	var months []domain.MonthlyRevenue
	for cursor.Next(ctx) {
		var m domain.MonthlyRevenue
		if err := cursor.Decode(&m); err != nil {
			br.logger.Println(err)
			return nil, err
		}
		months = append(months, m)
	}
	return months, cursor.Err()
}

// EnsureIndexes creates the lookup index the overlap query relies on.
func (br *BookingRepo) EnsureIndexes(ctx context.Context) error {
	_, err := br.collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{
			{Key: "car", Value: 1},
			{Key: "status", Value: 1},
			{Key: "pickup_date", Value: 1},
		},
		Options: options.Index().SetName("car_status_pickup"),
	})
	if err != nil {
		br.logger.Println(err)
	}
	return err
}
