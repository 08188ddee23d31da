package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/Aum-Ahsan/car-rental-booking/config"
	"github.com/Aum-Ahsan/car-rental-booking/domain"
	"github.com/Aum-Ahsan/car-rental-booking/services"
	"github.com/Aum-Ahsan/car-rental-booking/utils"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.opentelemetry.io/otel/trace"
)

// Bootstraps the admin account. Safe to re-run: an existing admin is kept,
// and a changed ADMIN_PASSWORD rotates the stored hash.
func main() {
	cfg := config.LoadConfig()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		fmt.Println("Error:", err)
		os.Exit(1)
	}
	defer client.Disconnect(ctx)

	email := os.Getenv("ADMIN_EMAIL")
	if email == "" {
		email = "admin@example.com"
	}
	password := os.Getenv("ADMIN_PASSWORD")
	if password == "" {
		password = "adminpassword123"
	}

	users := client.Database("car-rental").Collection("users")
	userService := services.NewUserServiceImpl(users, trace.NewNoopTracerProvider().Tracer("create-admin"))

	existing, err := userService.FindUserByEmail(email, ctx)
	if err != nil && !errors.Is(err, services.ErrUserNotFound) {
		fmt.Println("Error:", err)
		os.Exit(1)
	}

	if existing != nil {
		if utils.VerifyPassword(existing.Password, password) == nil {
			fmt.Println("Admin user already exists")
			return
		}

		hashed, err := utils.HashPassword(password)
		if err != nil {
			fmt.Println("Error:", err)
			os.Exit(1)
		}
		update := bson.M{"$set": bson.M{"password": hashed, "role": domain.UserRoleAdmin}}
		if _, err := users.UpdateOne(ctx, bson.M{"_id": existing.ID}, update); err != nil {
			fmt.Println("Error:", err)
			os.Exit(1)
		}
		fmt.Println("Admin password updated")
		fmt.Println("Email:", email)
		return
	}

	hashed, err := utils.HashPassword(password)
	if err != nil {
		fmt.Println("Error:", err)
		os.Exit(1)
	}

	admin := &domain.User{
		Name:      "Admin User",
		Email:     email,
		Password:  hashed,
		Phone:     "1234567890",
		Role:      domain.UserRoleAdmin,
		CreatedAt: primitive.NewDateTimeFromTime(time.Now()),
	}

	if _, err := users.InsertOne(ctx, admin); err != nil {
		fmt.Println("Error:", err)
		os.Exit(1)
	}

	fmt.Println("Admin user created successfully")
	fmt.Println("Email:", email)
}
