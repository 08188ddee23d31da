package utils

import (
	"bytes"
	"fmt"
	"log"

	"github.com/Aum-Ahsan/car-rental-booking/config"
	"github.com/Aum-Ahsan/car-rental-booking/domain"
	"gopkg.in/gomail.v2"
)

// BookingMailer sends the booking confirmation mail. It implements
// services.Mailer.
type BookingMailer struct {
	cfg *config.Config
}

func NewBookingMailer(cfg *config.Config) *BookingMailer {
	return &BookingMailer{cfg: cfg}
}

func (bm *BookingMailer) SendBookingConfirmation(user *domain.User, booking *domain.BookingDetails) error {
	var from = bm.cfg.EmailFrom
	var to = user.Email

	var body bytes.Buffer
	body.WriteString(fmt.Sprintf("Hi %s,\n", user.Name))
	body.WriteString("your booking request was received.\n")
	if booking.Car != nil {
		body.WriteString(fmt.Sprintf("Car: %s %s\n", booking.Car.Brand, booking.Car.Model))
	}
	body.WriteString(fmt.Sprintf("Pickup: %s at %s\n", booking.Booking.PickupDate.Time().Format("2006-01-02"), booking.Booking.PickupLocation))
	body.WriteString(fmt.Sprintf("Return: %s\n", booking.Booking.ReturnDate.Time().Format("2006-01-02")))
	body.WriteString(fmt.Sprintf("Total price: %.2f\n", booking.Booking.TotalPrice))

	m := gomail.NewMessage()

	m.SetHeader("From", from)
	m.SetHeader("To", to)
	m.SetHeader("Subject", "Booking confirmation")
	m.SetBody("text/plain", body.String())

	d := gomail.NewDialer(bm.cfg.SMTPHost, bm.cfg.SMTPPort, bm.cfg.SMTPUser, bm.cfg.SMTPPass)

	err := d.DialAndSend(m)
	if err != nil {
		log.Printf("Could not send email: %v", err)
		return err
	}
	return nil
}
