package domain

import (
	"encoding/json"
	"io"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type CarImage struct {
	URL    string `bson:"url" json:"url"`
	FileID string `bson:"file_id" json:"fileId"`
}

type Car struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	Brand        string             `bson:"brand" json:"brand"`
	Model        string             `bson:"model" json:"model"`
	Category     string             `bson:"category" json:"category"`
	Year         int                `bson:"year" json:"year"`
	PricePerDay  float64            `bson:"price_per_day" json:"pricePerDay"`
	Features     []string           `bson:"features" json:"features"`
	FuelType     string             `bson:"fuel_type" json:"fuelType"`
	Transmission string             `bson:"transmission" json:"transmission"`
	Seats        int                `bson:"seats" json:"seats"`
	Availability bool               `bson:"availability" json:"availability"`
	Images       []CarImage         `bson:"images" json:"images"`
	Location     string             `bson:"location" json:"location"`
	Description  string             `bson:"description" json:"description"`
	CreatedAt    primitive.DateTime `bson:"created_at" json:"createdAt"`
}

type Cars []*Car

// CarSummary is the slice of car fields resolved onto booking responses.
type CarSummary struct {
	ID          primitive.ObjectID `bson:"_id" json:"_id"`
	Brand       string             `bson:"brand" json:"brand"`
	Model       string             `bson:"model" json:"model"`
	Category    string             `bson:"category" json:"category"`
	PricePerDay float64            `bson:"price_per_day" json:"pricePerDay"`
	Images      []CarImage         `bson:"images" json:"images"`
	Location    string             `bson:"location" json:"location"`
}

// CarFilter carries the catalog query parameters.
type CarFilter struct {
	Category     string
	MinPrice     string
	MaxPrice     string
	Location     string
	Availability string
	Search       string
}

type CreateCarRequest struct {
	Brand        string         `json:"brand" validate:"required"`
	Model        string         `json:"model" validate:"required"`
	Category     string         `json:"category" validate:"required,oneof=Sedan SUV Hatchback Luxury Sports Electric Van"`
	Year         int            `json:"year" validate:"required,min=2000"`
	PricePerDay  float64        `json:"pricePerDay" validate:"required,gte=0"`
	Features     []string       `json:"features"`
	FuelType     string         `json:"fuelType" validate:"omitempty,oneof=Petrol Diesel Electric Hybrid"`
	Transmission string         `json:"transmission" validate:"omitempty,oneof=Manual Automatic"`
	Seats        int            `json:"seats" validate:"required,min=2,max=12"`
	Location     string         `json:"location" validate:"required"`
	Description  string         `json:"description" validate:"omitempty,max=500"`
	ImageFiles   []CarImageFile `json:"imageFiles"`
	// Availability, when present on an update, overrides the flag directly.
	// Ignored on create, where new cars always start available.
	Availability *bool `json:"availability"`
}

type CarImageFile struct {
	FileName string `json:"fileName"`
	Base64   string `json:"base64"`
}

func (o *Car) ToJSON(w io.Writer) error {
	e := json.NewEncoder(w)
	return e.Encode(o)
}

func (o *Car) FromJSON(r io.Reader) error {
	d := json.NewDecoder(r)
	return d.Decode(o)
}

func (o *Cars) ToJSON(w io.Writer) error {
	e := json.NewEncoder(w)
	return e.Encode(o)
}
