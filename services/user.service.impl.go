package services

import (
	"context"
	"errors"

	"github.com/Aum-Ahsan/car-rental-booking/domain"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var ErrUserNotFound = errors.New("User not found")

type UserServiceImpl struct {
	collection *mongo.Collection
	Tracer     trace.Tracer
}

func NewUserServiceImpl(collection *mongo.Collection, tracer trace.Tracer) UserService {
	return &UserServiceImpl{collection: collection, Tracer: tracer}
}

func (s *UserServiceImpl) FindUserByID(userID string, ctx context.Context) (*domain.User, error) {
	ctx, span := s.Tracer.Start(ctx, "UserService.FindUserByID")
	defer span.End()

	objID, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return nil, ErrUserNotFound
	}

	var user domain.User
	err = s.collection.FindOne(ctx, bson.M{"_id": objID}).Decode(&user)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrUserNotFound
		}
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	return &user, nil
}

func (s *UserServiceImpl) FindUserByEmail(email string, ctx context.Context) (*domain.User, error) {
	ctx, span := s.Tracer.Start(ctx, "UserService.FindUserByEmail")
	defer span.End()

	var user domain.User
	err := s.collection.FindOne(ctx, bson.M{"email": email}).Decode(&user)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrUserNotFound
		}
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	return &user, nil
}

func (s *UserServiceImpl) GetAllUsers(ctx context.Context) ([]*domain.User, error) {
	ctx, span := s.Tracer.Start(ctx, "UserService.GetAllUsers")
	defer span.End()

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := s.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	defer cursor.Close(ctx)

	var users []*domain.User
	for cursor.Next(ctx) {
		var user domain.User
		if err := cursor.Decode(&user); err != nil {
			span.SetStatus(codes.Error, err.Error())
			return nil, err
		}
		users = append(users, &user)
	}

	if err := cursor.Err(); err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	return users, nil
}

func (s *UserServiceImpl) DeleteUser(userID string, ctx context.Context) error {
	ctx, span := s.Tracer.Start(ctx, "UserService.DeleteUser")
	defer span.End()

	objID, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return ErrUserNotFound
	}

	result, err := s.collection.DeleteOne(ctx, bson.M{"_id": objID})
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return err
	}
	if result.DeletedCount == 0 {
		return ErrUserNotFound
	}
	return nil
}

func (s *UserServiceImpl) UpdateUserRole(userID string, role domain.UserRole, ctx context.Context) (*domain.User, error) {
	ctx, span := s.Tracer.Start(ctx, "UserService.UpdateUserRole")
	defer span.End()

	objID, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return nil, ErrUserNotFound
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var user domain.User
	err = s.collection.FindOneAndUpdate(ctx, bson.M{"_id": objID}, bson.M{"$set": bson.M{"role": role}}, opts).Decode(&user)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrUserNotFound
		}
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	return &user, nil
}

func (s *UserServiceImpl) CountUsers(ctx context.Context) (int64, error) {
	return s.collection.CountDocuments(ctx, bson.M{})
}
