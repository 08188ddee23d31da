package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"

	"github.com/Aum-Ahsan/car-rental-booking/cache"
	"github.com/Aum-Ahsan/car-rental-booking/config"
	"github.com/Aum-Ahsan/car-rental-booking/handlers"
	"github.com/Aum-Ahsan/car-rental-booking/imagestore"
	"github.com/Aum-Ahsan/car-rental-booking/repository"
	"github.com/Aum-Ahsan/car-rental-booking/routes"
	"github.com/Aum-Ahsan/car-rental-booking/services"
	"github.com/Aum-Ahsan/car-rental-booking/utils"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/jaeger"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.21.0"
	"gopkg.in/natefinch/lumberjack.v2"
)

var (
	server      *gin.Engine
	ctx         context.Context
	mongoclient *mongo.Client
	cfg         *config.Config

	carService     services.CarService
	userService    services.UserService
	bookingService services.BookingService
	statsService   services.StatsService

	CarHandler     handlers.CarHandler
	BookingHandler handlers.BookingHandler
	AdminHandler   handlers.AdminHandler

	CarRouteHandler     routes.CarRouteHandler
	BookingRouteHandler routes.BookingRouteHandler
	AdminRouteHandler   routes.AdminRouteHandler
)

func init() {
	ctx = context.TODO()
	cfg = config.LoadConfig()

	logger := logrus.New()
	logger.SetLevel(logrus.DebugLevel)

	logPath := os.Getenv("LOG_FILE")
	if logPath != "" {
		lumberjackLog := &lumberjack.Logger{
			Filename:  logPath,
			MaxSize:   1,
			LocalTime: true,
		}
		logger.SetOutput(lumberjackLog)
	}

	mongoconn := options.Client().ApplyURI(cfg.MongoURI)
	client, err := mongo.Connect(ctx, mongoconn)
	if err != nil {
		panic(err)
	}
	mongoclient = client

	if err := mongoclient.Ping(ctx, readpref.Primary()); err != nil {
		panic(err)
	}

	logger.Info("MongoDB successfully connected...")

	tracerProvider, err := NewTracerProvider(cfg.ServiceName, cfg.JaegerAddress)
	if err != nil {
		logger.Fatalf("JaegerTraceProvider failed to Initialize. Error :%s", err)
	}
	tracer := tracerProvider.Tracer(cfg.ServiceName)

	cacheLogger := log.New(os.Stdout, "[car-cache] ", log.LstdFlags)
	storeLogger := log.New(os.Stdout, "[booking-store] ", log.LstdFlags)
	imageLogger := log.New(os.Stdout, "[image-store] ", log.LstdFlags)

	carCache := cache.New(cacheLogger, tracer)
	carCache.Ping()

	imageStorage := imagestore.New(cfg, imageLogger)
	mailer := utils.NewBookingMailer(cfg)

	// Collections
	db := mongoclient.Database("car-rental")
	carCollection := db.Collection("cars")
	userCollection := db.Collection("users")
	bookingCollection := db.Collection("bookings")

	bookingRepo := repository.New(bookingCollection, storeLogger, tracer)
	if err := bookingRepo.EnsureIndexes(ctx); err != nil {
		logger.Error("Could not create booking indexes: ", err)
	}

	carService = services.NewCarServiceImpl(carCollection, carCache, tracer)
	userService = services.NewUserServiceImpl(userCollection, tracer)
	bookingService = services.NewBookingServiceImpl(bookingRepo, carService, mailer, logger, tracer)
	statsService = services.NewStatsServiceImpl(bookingRepo, carService, userService, tracer)

	CarHandler = handlers.NewCarHandler(carService, bookingService, imageStorage, carCache, logger, tracer)
	BookingHandler = handlers.NewBookingHandler(bookingService, logger, tracer)
	AdminHandler = handlers.NewAdminHandler(userService, bookingService, statsService, logger, tracer)

	CarRouteHandler = routes.NewCarRouteHandler(CarHandler, userService, cfg.JWTSecret)
	BookingRouteHandler = routes.NewBookingRouteHandler(BookingHandler, userService, cfg.JWTSecret)
	AdminRouteHandler = routes.NewAdminRouteHandler(AdminHandler, userService, cfg.JWTSecret)

	server = gin.Default()
}

func main() {
	defer mongoclient.Disconnect(ctx)

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = []string{"https://localhost:4200", "http://localhost:3000"}
	corsConfig.AllowCredentials = true
	corsConfig.AllowHeaders = append(corsConfig.AllowHeaders, "Authorization")

	server.Use(cors.New(corsConfig))

	router := server.Group("/api")
	router.GET("/healthchecker", func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, gin.H{"status": "success", "message": "car-rental-booking up"})
	})

	CarRouteHandler.CarRoute(router)
	BookingRouteHandler.BookingRoute(router)
	AdminRouteHandler.AdminRoute(router)

	certFile := os.Getenv("TLS_CERT")
	keyFile := os.Getenv("TLS_KEY")

	var err error
	if certFile != "" && keyFile != "" {
		err = server.RunTLS(":"+cfg.Port, certFile, keyFile)
	} else {
		err = server.Run(":" + cfg.Port)
	}
	if err != nil {
		fmt.Println(err)
		return
	}
}

func NewTracerProvider(serviceName, collectorEndpoint string) (*sdktrace.TracerProvider, error) {
	exporter, err := jaeger.New(jaeger.WithCollectorEndpoint(jaeger.WithEndpoint(collectorEndpoint)))
	if err != nil {
		return nil, fmt.Errorf("unable to initialize exporter due: %w", err)
	}
	tp := sdktrace.NewTracerProvider(
		sdktrace.WithSampler(sdktrace.AlwaysSample()),
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(resource.NewWithAttributes(
			semconv.SchemaURL,
			semconv.ServiceNameKey.String(serviceName),
			semconv.DeploymentEnvironmentKey.String("development"),
		)),
	)
	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(propagation.TraceContext{}, propagation.Baggage{}))

	return tp, nil
}
