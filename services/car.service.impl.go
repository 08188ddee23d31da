package services

import (
	"context"
	"errors"
	"sort"
	"strconv"
	"time"

	"github.com/Aum-Ahsan/car-rental-booking/domain"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

type CarServiceImpl struct {
	collection *mongo.Collection
	cache      CatalogCache
	Tracer     trace.Tracer
}

// CatalogCache evicts cached catalog entries after car mutations and
// availability flips. A nil cache disables eviction.
type CatalogCache interface {
	EvictCar(carID string, ctx context.Context)
	EvictAll(ctx context.Context)
}

func NewCarServiceImpl(collection *mongo.Collection, cache CatalogCache, tracer trace.Tracer) CarService {
	return &CarServiceImpl{collection: collection, cache: cache, Tracer: tracer}
}

func (s *CarServiceImpl) GetAllCars(filter domain.CarFilter, ctx context.Context) ([]*domain.Car, error) {
	ctx, span := s.Tracer.Start(ctx, "CarService.GetAllCars")
	defer span.End()

	query := bson.M{}

	if filter.Category != "" {
		query["category"] = filter.Category
	}

	if filter.MinPrice != "" || filter.MaxPrice != "" {
		price := bson.M{}
		if filter.MinPrice != "" {
			min, err := strconv.ParseFloat(filter.MinPrice, 64)
			if err != nil {
				span.SetStatus(codes.Error, "failed to parse minPrice")
				return nil, errors.New("failed to parse minPrice")
			}
			price["$gte"] = min
		}
		if filter.MaxPrice != "" {
			max, err := strconv.ParseFloat(filter.MaxPrice, 64)
			if err != nil {
				span.SetStatus(codes.Error, "failed to parse maxPrice")
				return nil, errors.New("failed to parse maxPrice")
			}
			price["$lte"] = max
		}
		query["price_per_day"] = price
	}

	if filter.Location != "" {
		query["location"] = bson.M{"$regex": filter.Location, "$options": "i"}
	}

	if filter.Availability != "" {
		query["availability"] = filter.Availability == "true"
	}

	if filter.Search != "" {
		query["$or"] = bson.A{
			bson.M{"brand": bson.M{"$regex": filter.Search, "$options": "i"}},
			bson.M{"model": bson.M{"$regex": filter.Search, "$options": "i"}},
			bson.M{"description": bson.M{"$regex": filter.Search, "$options": "i"}},
		}
	}

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := s.collection.Find(ctx, query, opts)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	defer cursor.Close(ctx)

	var cars []*domain.Car
	for cursor.Next(ctx) {
		var car domain.Car
		if err := cursor.Decode(&car); err != nil {
			span.SetStatus(codes.Error, err.Error())
			return nil, err
		}
		cars = append(cars, &car)
	}

	if err := cursor.Err(); err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	return cars, nil
}

func (s *CarServiceImpl) GetCarByID(carID string, ctx context.Context) (*domain.Car, error) {
	ctx, span := s.Tracer.Start(ctx, "CarService.GetCarByID")
	defer span.End()

	objID, err := primitive.ObjectIDFromHex(carID)
	if err != nil {
		return nil, domain.ErrCarNotFound()
	}

	var car domain.Car
	err = s.collection.FindOne(ctx, bson.M{"_id": objID}).Decode(&car)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrCarNotFound()
		}
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	return &car, nil
}

func (s *CarServiceImpl) InsertCar(car *domain.Car, ctx context.Context) (*domain.Car, error) {
	ctx, span := s.Tracer.Start(ctx, "CarService.InsertCar")
	defer span.End()

	car.Availability = true
	car.CreatedAt = primitive.NewDateTimeFromTime(time.Now())

	result, err := s.collection.InsertOne(ctx, car)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		span.SetStatus(codes.Error, "failed to get inserted ID")
		return nil, errors.New("failed to get inserted ID")
	}
	car.ID = insertedID

	if s.cache != nil {
		s.cache.EvictAll(ctx)
	}
	return car, nil
}

// carUpdateFields builds the $set document for an admin car edit. The
// availability override is applied only when the request carries the field,
// so a plain edit never touches the flag the booking engine owns.
func carUpdateFields(update *domain.CreateCarRequest, images []domain.CarImage) bson.M {
	fields := bson.M{
		"brand":         update.Brand,
		"model":         update.Model,
		"category":      update.Category,
		"year":          update.Year,
		"price_per_day": update.PricePerDay,
		"features":      update.Features,
		"fuel_type":     update.FuelType,
		"transmission":  update.Transmission,
		"seats":         update.Seats,
		"location":      update.Location,
		"description":   update.Description,
	}
	if images != nil {
		fields["images"] = images
	}
	if update.Availability != nil {
		fields["availability"] = *update.Availability
	}
	return fields
}

func (s *CarServiceImpl) UpdateCar(carID string, update *domain.CreateCarRequest, images []domain.CarImage, ctx context.Context) (*domain.Car, error) {
	ctx, span := s.Tracer.Start(ctx, "CarService.UpdateCar")
	defer span.End()

	objID, err := primitive.ObjectIDFromHex(carID)
	if err != nil {
		return nil, domain.ErrCarNotFound()
	}

	fields := carUpdateFields(update, images)

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var car domain.Car
	err = s.collection.FindOneAndUpdate(ctx, bson.M{"_id": objID}, bson.M{"$set": fields}, opts).Decode(&car)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrCarNotFound()
		}
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	if s.cache != nil {
		s.cache.EvictCar(carID, ctx)
		s.cache.EvictAll(ctx)
	}
	return &car, nil
}

func (s *CarServiceImpl) DeleteCar(carID string, ctx context.Context) error {
	ctx, span := s.Tracer.Start(ctx, "CarService.DeleteCar")
	defer span.End()

	objID, err := primitive.ObjectIDFromHex(carID)
	if err != nil {
		return domain.ErrCarNotFound()
	}

	result, err := s.collection.DeleteOne(ctx, bson.M{"_id": objID})
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return err
	}
	if result.DeletedCount == 0 {
		return domain.ErrCarNotFound()
	}

	if s.cache != nil {
		s.cache.EvictCar(carID, ctx)
		s.cache.EvictAll(ctx)
	}
	return nil
}

// ReserveCar is the single-document compare-and-swap that serialises racing
// createBooking calls: only the request that flips the flag may insert a
// booking.
func (s *CarServiceImpl) ReserveCar(carID primitive.ObjectID, ctx context.Context) (bool, error) {
	ctx, span := s.Tracer.Start(ctx, "CarService.ReserveCar")
	defer span.End()

	filter := bson.M{"_id": carID, "availability": true}
	update := bson.M{"$set": bson.M{"availability": false}}

	err := s.collection.FindOneAndUpdate(ctx, filter, update).Err()
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return false, nil
		}
		span.SetStatus(codes.Error, err.Error())
		return false, err
	}

	if s.cache != nil {
		s.cache.EvictCar(carID.Hex(), ctx)
		s.cache.EvictAll(ctx)
	}
	return true, nil
}

func (s *CarServiceImpl) ReleaseCar(carID primitive.ObjectID, ctx context.Context) error {
	ctx, span := s.Tracer.Start(ctx, "CarService.ReleaseCar")
	defer span.End()

	_, err := s.collection.UpdateOne(ctx, bson.M{"_id": carID}, bson.M{"$set": bson.M{"availability": true}})
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	if s.cache != nil {
		s.cache.EvictCar(carID.Hex(), ctx)
		s.cache.EvictAll(ctx)
	}
	return nil
}

// GetCategories lists the categories actually present in the fleet.
func (s *CarServiceImpl) GetCategories(ctx context.Context) ([]string, error) {
	ctx, span := s.Tracer.Start(ctx, "CarService.GetCategories")
	defer span.End()

	values, err := s.collection.Distinct(ctx, "category", bson.M{})
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	categories := make([]string, 0, len(values))
	for _, value := range values {
		if category, ok := value.(string); ok {
			categories = append(categories, category)
		}
	}
	sort.Strings(categories)
	return categories, nil
}

func (s *CarServiceImpl) CountCars(ctx context.Context) (int64, error) {
	return s.collection.CountDocuments(ctx, bson.M{})
}

func (s *CarServiceImpl) CountCarsByAvailability(available bool, ctx context.Context) (int64, error) {
	return s.collection.CountDocuments(ctx, bson.M{"availability": available})
}
