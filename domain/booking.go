package domain

import (
	"encoding/json"
	"io"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type BookingStatus string

const (
	BookingPending   BookingStatus = "pending"
	BookingConfirmed BookingStatus = "confirmed"
	BookingCompleted BookingStatus = "completed"
	BookingCancelled BookingStatus = "cancelled"
)

func (s BookingStatus) Valid() bool {
	switch s {
	case BookingPending, BookingConfirmed, BookingCompleted, BookingCancelled:
		return true
	}
	return false
}

// Active bookings are the ones that count toward overlap and availability.
func (s BookingStatus) Active() bool {
	return s == BookingPending || s == BookingConfirmed
}

type PaymentStatus string

const (
	PaymentPending  PaymentStatus = "pending"
	PaymentPaid     PaymentStatus = "paid"
	PaymentRefunded PaymentStatus = "refunded"
)

func (s PaymentStatus) Valid() bool {
	switch s {
	case PaymentPending, PaymentPaid, PaymentRefunded:
		return true
	}
	return false
}

type Booking struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	UserID         primitive.ObjectID `bson:"user" json:"user"`
	CarID          primitive.ObjectID `bson:"car" json:"car"`
	PickupLocation string             `bson:"pickup_location" json:"pickupLocation"`
	PickupDate     primitive.DateTime `bson:"pickup_date" json:"pickupDate"`
	ReturnDate     primitive.DateTime `bson:"return_date" json:"returnDate"`
	TotalPrice     float64            `bson:"total_price" json:"totalPrice"`
	Status         BookingStatus      `bson:"status" json:"status"`
	PaymentStatus  PaymentStatus      `bson:"payment_status" json:"paymentStatus"`
	Notes          string             `bson:"notes" json:"notes"`
	CreatedAt      primitive.DateTime `bson:"created_at" json:"createdAt"`
}

type Bookings []*Booking

// BookingDetails is a booking with its car and user summaries resolved.
type BookingDetails struct {
	Booking `bson:",inline"`
	Car     *CarSummary  `bson:"car_details,omitempty" json:"carDetails,omitempty"`
	User    *UserSummary `bson:"user_details,omitempty" json:"userDetails,omitempty"`
}

type CreateBookingRequest struct {
	Car            string `json:"car" validate:"required"`
	PickupLocation string `json:"pickupLocation" validate:"required"`
	PickupDate     string `json:"pickupDate" validate:"required"`
	ReturnDate     string `json:"returnDate" validate:"required"`
	Notes          string `json:"notes" validate:"omitempty,max=500"`
}

type UpdateBookingRequest struct {
	Status        BookingStatus `json:"status" validate:"required,oneof=pending confirmed completed cancelled"`
	PaymentStatus PaymentStatus `json:"paymentStatus" validate:"omitempty,oneof=pending paid refunded"`
}

func (o *Booking) ToJSON(w io.Writer) error {
	e := json.NewEncoder(w)
	return e.Encode(o)
}

func (o *Booking) FromJSON(r io.Reader) error {
	d := json.NewDecoder(r)
	return d.Decode(o)
}

func (o *Bookings) ToJSON(w io.Writer) error {
	e := json.NewEncoder(w)
	return e.Encode(o)
}
