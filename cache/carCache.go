package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/Aum-Ahsan/car-rental-booking/domain"
	"github.com/go-redis/redis"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const (
	cacheCar  = "cars:%s"
	cacheList = "cars:all"

	carTTL  = 300 * time.Second
	listTTL = 30 * time.Second
)

// CarCache keeps catalog reads off Mongo. The lifecycle engine evicts
// entries whenever it flips a car's availability so stale flags never reach
// the catalog.
type CarCache struct {
	cli    *redis.Client
	logger *log.Logger
	Tracer trace.Tracer
}

func New(logger *log.Logger, tracer trace.Tracer) *CarCache {
	redisHost := os.Getenv("REDIS_HOST")
	redisPort := os.Getenv("REDIS_PORT")
	redisAddress := fmt.Sprintf("%s:%s", redisHost, redisPort)

	client := redis.NewClient(&redis.Options{
		Addr: redisAddress,
	})

	return &CarCache{
		cli:    client,
		logger: logger,
		Tracer: tracer,
	}
}

func (cc *CarCache) Ping() {
	val, _ := cc.cli.Ping().Result()
	cc.logger.Println(val)
}

func (cc *CarCache) PostCar(car *domain.Car, ctx context.Context) error {
	ctx, span := cc.Tracer.Start(ctx, "CarCache.PostCar")
	defer span.End()

	data, err := json.Marshal(car)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	key := constructCarKey(car.ID.Hex())
	err = cc.cli.Set(key, data, carTTL).Err()
	if err != nil {
		span.SetStatus(codes.Error, "Error setting car in Redis: "+err.Error())
		return err
	}
	return nil
}

func (cc *CarCache) GetCar(carID string, ctx context.Context) (*domain.Car, error) {
	ctx, span := cc.Tracer.Start(ctx, "CarCache.GetCar")
	defer span.End()

	key := constructCarKey(carID)
	data, err := cc.cli.Get(key).Bytes()
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	var car domain.Car
	if err := json.Unmarshal(data, &car); err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	cc.logger.Println("Car cache hit")
	return &car, nil
}

func (cc *CarCache) PostAll(cars []*domain.Car, ctx context.Context) error {
	ctx, span := cc.Tracer.Start(ctx, "CarCache.PostAll")
	defer span.End()

	data, err := json.Marshal(cars)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return err
	}
	return cc.cli.Set(cacheList, data, listTTL).Err()
}

func (cc *CarCache) GetAll(ctx context.Context) ([]*domain.Car, error) {
	ctx, span := cc.Tracer.Start(ctx, "CarCache.GetAll")
	defer span.End()

	data, err := cc.cli.Get(cacheList).Bytes()
	if err != nil {
		return nil, err
	}

	var cars []*domain.Car
	if err := json.Unmarshal(data, &cars); err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	cc.logger.Println("Car list cache hit")
	return cars, nil
}

// EvictCar implements services.CatalogCache.
func (cc *CarCache) EvictCar(carID string, ctx context.Context) {
	ctx, span := cc.Tracer.Start(ctx, "CarCache.EvictCar")
	defer span.End()

	if err := cc.cli.Del(constructCarKey(carID)).Err(); err != nil {
		cc.logger.Println("Error evicting car from Redis:", err)
	}
}

// EvictAll implements services.CatalogCache.
func (cc *CarCache) EvictAll(ctx context.Context) {
	ctx, span := cc.Tracer.Start(ctx, "CarCache.EvictAll")
	defer span.End()

	if err := cc.cli.Del(cacheList).Err(); err != nil {
		cc.logger.Println("Error evicting car list from Redis:", err)
	}
}

func constructCarKey(carID string) string {
	return fmt.Sprintf(cacheCar, carID)
}
