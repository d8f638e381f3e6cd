// services/booking_scheduler.go
package services

import (
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"barberbook-backend/controllers"
	"barberbook-backend/models"
	"barberbook-backend/utils"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
	"github.com/twilio/twilio-go"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"
	"gorm.io/gorm"
)

type BookingScheduler struct {
	db     *gorm.DB
	client *twilio.RestClient
}

func NewBookingScheduler(db *gorm.DB) *BookingScheduler {
	// Initialize Twilio client
	accountSid := os.Getenv("TWILIO_ACCOUNT_SID")
	authToken := os.Getenv("TWILIO_AUTH_TOKEN")

	return &BookingScheduler{
		db: db,
		client: twilio.NewRestClientWithParams(twilio.ClientParams{
			Username: accountSid,
			Password: authToken,
		}),
	}
}

func (s *BookingScheduler) StartScheduler() {
	c := cron.New()

	// Appointment reminders every day at 9 AM
	c.AddFunc("0 9 * * *", s.SendAppointmentReminders)

	// Flag overdue unpaid appointments shortly after midnight
	c.AddFunc("30 0 * * *", s.FlagLateAppointments)

	// Previous-month profit reports on the 1st
	c.AddFunc("0 1 1 * *", s.GenerateMonthlyReports)

	c.Start()
	log.Println("Booking scheduler started")
}

// SendAppointmentReminders messages every customer with an active
// appointment tomorrow.
func (s *BookingScheduler) SendAppointmentReminders() {
	log.Println("Starting appointment reminder processing...")

	tomorrow := utils.BeginningOfDay(time.Now().AddDate(0, 0, 1))
	dayAfter := tomorrow.AddDate(0, 0, 1)

	var appointments []models.Appointment
	if err := s.db.Where("status IN ? AND scheduled_at >= ? AND scheduled_at < ?",
		[]string{models.AppointmentActive, models.AppointmentTrial},
		tomorrow, dayAfter).
		Find(&appointments).Error; err != nil {
		log.Printf("Failed to fetch tomorrow's appointments: %v", err)
		return
	}

	for _, appointment := range appointments {
		s.remindCustomer(appointment)
	}

	log.Println("Appointment reminder processing completed")
}

func (s *BookingScheduler) remindCustomer(appointment models.Appointment) {
	var customer models.User
	if err := s.db.First(&customer, "id = ?", appointment.CustomerID).Error; err != nil {
		log.Printf("Appointment %s: customer lookup failed: %v", appointment.ID, err)
		return
	}
	if customer.Phone == "" {
		return
	}

	var establishment models.Establishment
	place := "your barbershop"
	if err := s.db.First(&establishment, "id = ?", appointment.EstablishmentID).Error; err == nil {
		place = establishment.Name
	}

	message := fmt.Sprintf("Hi %s, reminder: your appointment at %s is tomorrow at %s.",
		customer.Name, place, appointment.ScheduledAt.Format("15:04"))

	// WhatsApp when the phone is in E.164 format, SMS otherwise
	params := &twilioApi.CreateMessageParams{}
	params.SetBody(message)
	if strings.HasPrefix(customer.Phone, "+") {
		params.SetTo("whatsapp:" + customer.Phone)
		params.SetFrom("whatsapp:" + os.Getenv("TWILIO_WHATSAPP_NUMBER"))
	} else {
		params.SetTo(customer.Phone)
		params.SetFrom(os.Getenv("TWILIO_PHONE_NUMBER"))
	}

	resp, err := s.client.Api.CreateMessage(params)
	if err != nil {
		log.Printf("Failed to send reminder to %s: %v", customer.Phone, err)
	} else if resp.Sid != nil {
		log.Printf("Reminder sent to %s, SID: %s", customer.Phone, *resp.Sid)
	}
}

// FlagLateAppointments marks past active appointments with pending payment
// as late. Late appointments can still be canceled or paid.
func (s *BookingScheduler) FlagLateAppointments() {
	result := s.db.Model(&models.Appointment{}).
		Where("status = ? AND payment_status = ? AND scheduled_at < ?",
			models.AppointmentActive, models.PaymentPending, time.Now()).
		Update("status", models.AppointmentLate)

	if result.Error != nil {
		log.Printf("Failed to flag late appointments: %v", result.Error)
		return
	}
	if result.RowsAffected > 0 {
		log.Printf("Flagged %d appointments as late", result.RowsAffected)
	}
}

// GenerateMonthlyReports stores a previous-month profit report for every
// establishment.
func (s *BookingScheduler) GenerateMonthlyReports() {
	log.Println("Starting monthly profit report generation...")

	lastMonth := time.Now().AddDate(0, -1, 0)
	start := utils.BeginningOfMonth(lastMonth)
	end := utils.EndOfMonth(lastMonth)

	var establishmentIDs []uuid.UUID
	if err := s.db.Model(&models.Establishment{}).Pluck("id", &establishmentIDs).Error; err != nil {
		log.Printf("Failed to fetch establishments: %v", err)
		return
	}

	for _, id := range establishmentIDs {
		report, err := controllers.BuildProfitReport(s.db, id, start, end)
		if err != nil {
			log.Printf("Establishment %s: report computation failed: %v", id, err)
			continue
		}
		if err := s.db.Create(report).Error; err != nil {
			log.Printf("Establishment %s: report store failed: %v", id, err)
		}
	}

	log.Println("Monthly profit report generation completed")
}
