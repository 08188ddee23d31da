package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	Port          string
	MongoURI      string
	ServiceName   string
	JaegerAddress string

	JWTSecret string

	RedisHost string
	RedisPort string

	EmailFrom string
	SMTPHost  string
	SMTPPass  string
	SMTPPort  int
	SMTPUser  string

	ImageStoreEndpoint   string
	ImageStorePublicKey  string
	ImageStorePrivateKey string
}

func LoadConfig() *Config {
	err := godotenv.Load()
	if err != nil {
		fmt.Println("no .env file found, reading configuration from environment")
	}

	port := os.Getenv("PORT")
	if len(port) == 0 {
		port = "8080"
	}

	smtpPort, err := strconv.Atoi(os.Getenv("SMTP_PORT"))
	if err != nil {
		smtpPort = 587
	}

	return &Config{
		Port:          port,
		MongoURI:      os.Getenv("MONGO_DB_URI"),
		ServiceName:   "car-rental-booking",
		JaegerAddress: os.Getenv("JAEGER_ADDRESS"),

		JWTSecret: os.Getenv("JWT_SECRET"),

		RedisHost: os.Getenv("REDIS_HOST"),
		RedisPort: os.Getenv("REDIS_PORT"),

		EmailFrom: os.Getenv("EMAIL_FROM"),
		SMTPHost:  os.Getenv("SMTP_HOST"),
		SMTPPass:  os.Getenv("SMTP_PASS"),
		SMTPPort:  smtpPort,
		SMTPUser:  os.Getenv("SMTP_USER"),

		ImageStoreEndpoint:   os.Getenv("IMAGEKIT_ENDPOINT"),
		ImageStorePublicKey:  os.Getenv("IMAGEKIT_PUBLIC_KEY"),
		ImageStorePrivateKey: os.Getenv("IMAGEKIT_PRIVATE_KEY"),
	}
}
