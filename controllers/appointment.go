// controllers/appointment.go
package controllers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"barberbook-backend/config"
	"barberbook-backend/models"
	"barberbook-backend/pricing"
	"barberbook-backend/scheduling"
	"barberbook-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CreateAppointmentInput defines the expected JSON structure for booking a slot.
// ScheduledAt must be the canonical "2006-01-02T15:04" string produced by
// slot selection; arbitrary times are rejected.
type CreateAppointmentInput struct {
	EstablishmentID uuid.UUID  `json:"establishmentId" binding:"required"`
	PlanID          uuid.UUID  `json:"planId" binding:"required"`
	ServiceID       *uuid.UUID `json:"serviceId"`
	ScheduledAt     string     `json:"scheduledAt" binding:"required"`
	PaymentMethod   string     `json:"paymentMethod"`
}

type RescheduleInput struct {
	NewScheduledAt string `json:"newScheduledAt" binding:"required"`
}

// GetAvailableSlots classifies the 17 fixed daily slots of an establishment
// for a date. A store failure is surfaced, never treated as "all available".
func GetAvailableSlots(c *gin.Context) {
	establishmentID, err := uuid.Parse(c.Param("establishmentId"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid establishment ID format")
		return
	}

	date, err := scheduling.ParseDate(c.Query("date"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid date, expected YYYY-MM-DD")
		return
	}

	var establishment models.Establishment
	if err := config.DB.First(&establishment, "id = ?", establishmentID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Establishment not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	booked, err := bookedTimes(config.DB, establishmentID, date)
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve booked slots")
		return
	}

	slots := scheduling.BuildDaySchedule(date, booked, time.Now())

	c.JSON(http.StatusOK, gin.H{
		"date":        date.Format(scheduling.DateLayout),
		"slots":       slots,
		"bookedTimes": booked,
	})
}

// bookedTimes returns the non-canceled appointment datetimes of an
// establishment on a calendar date.
func bookedTimes(db *gorm.DB, establishmentID uuid.UUID, date time.Time) ([]time.Time, error) {
	dayStart := utils.BeginningOfDay(date)
	dayEnd := dayStart.AddDate(0, 0, 1)

	var times []time.Time
	err := db.Model(&models.Appointment{}).
		Where("establishment_id = ? AND status <> ? AND scheduled_at >= ? AND scheduled_at < ?",
			establishmentID, models.AppointmentCanceled, dayStart, dayEnd).
		Order("scheduled_at").
		Pluck("scheduled_at", &times).Error
	return times, err
}

// slotIsFree re-checks occupancy inside a transaction. The partial unique
// index remains the final authority against concurrent submissions.
func slotIsFree(tx *gorm.DB, establishmentID uuid.UUID, at time.Time, excludeID uuid.UUID) (bool, error) {
	var count int64
	q := tx.Model(&models.Appointment{}).
		Where("establishment_id = ? AND scheduled_at = ? AND status <> ?",
			establishmentID, at, models.AppointmentCanceled)
	if excludeID != uuid.Nil {
		q = q.Where("id <> ?", excludeID)
	}
	if err := q.Count(&count).Error; err != nil {
		return false, err
	}
	return count == 0, nil
}

func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "duplicate key") || strings.Contains(msg, "UNIQUE constraint")
}

// CreateAppointment books a slot for the requester. The benefit-discounted
// price is evaluated at creation time and stored on the appointment.
func CreateAppointment(c *gin.Context) {
	userID, ok := utils.RequesterID(c)
	if !ok {
		return
	}

	var input CreateAppointmentInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	scheduledAt, err := scheduling.ParseDateTime(input.ScheduledAt)
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid datetime, expected YYYY-MM-DDTHH:MM")
		return
	}
	if err := scheduling.ValidateTarget(scheduledAt, time.Now()); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, err.Error())
		return
	}

	var plan models.Plan
	if err := config.DB.Preload("Benefits").First(&plan, "id = ?", input.PlanID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Plan not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}
	if !plan.IsActive {
		utils.RespondWithError(c, http.StatusBadRequest, "Plan is not active")
		return
	}

	// The establishment must offer the plan, as creator or partner
	var membership int64
	if err := config.DB.Model(&models.PlanPartnership{}).
		Where("plan_id = ? AND establishment_id = ?", plan.ID, input.EstablishmentID).
		Count(&membership).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		return
	}
	if membership == 0 {
		utils.RespondWithError(c, http.StatusBadRequest, "Establishment does not offer this plan")
		return
	}

	// Base price comes from the booked service when one is named, otherwise
	// from the plan itself
	basePrice := plan.Price
	if input.ServiceID != nil {
		var service models.Service
		if err := config.DB.Where("id = ? AND establishment_id = ?", *input.ServiceID, input.EstablishmentID).
			First(&service).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				utils.RespondWithError(c, http.StatusBadRequest, "Service not found at this establishment")
			} else {
				utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
			}
			return
		}
		basePrice = service.BasePrice
	}

	usage, err := planUsage(config.DB, userID, plan.ID, scheduledAt)
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		return
	}
	quote := pricing.Evaluate(basePrice, plan.Benefits, input.ServiceID, usage)

	appointment := models.Appointment{
		CustomerID:      userID,
		EstablishmentID: input.EstablishmentID,
		PlanID:          plan.ID,
		ServiceID:       input.ServiceID,
		ScheduledAt:     scheduledAt,
		Status:          models.AppointmentActive,
		PaymentStatus:   models.PaymentPending,
		Price:           quote.FinalPrice,
		PaymentMethod:   input.PaymentMethod,
	}

	// Re-validate occupancy server-side so two concurrent submissions for the
	// same establishment+datetime cannot both succeed
	tx := config.DB.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	free, err := slotIsFree(tx, input.EstablishmentID, scheduledAt, uuid.Nil)
	if err != nil {
		tx.Rollback()
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to verify slot availability")
		return
	}
	if !free {
		tx.Rollback()
		utils.RespondWithError(c, http.StatusConflict, scheduling.ErrSlotTaken.Error())
		return
	}

	if err := tx.Create(&appointment).Error; err != nil {
		tx.Rollback()
		if isUniqueViolation(err) {
			utils.RespondWithError(c, http.StatusConflict, scheduling.ErrSlotTaken.Error())
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Failed to create appointment")
		}
		return
	}

	tx.Commit()

	c.JSON(http.StatusCreated, gin.H{
		"appointment": appointment,
		"pricing":     quote,
	})
}

// planUsage builds the benefit evaluation context for a subscriber.
func planUsage(db *gorm.DB, userID, planID uuid.UUID, at time.Time) (pricing.Usage, error) {
	var priorUses int64
	err := db.Model(&models.Appointment{}).
		Where("customer_id = ? AND plan_id = ? AND payment_status = ? AND status <> ?",
			userID, planID, models.PaymentCompleted, models.AppointmentCanceled).
		Count(&priorUses).Error
	if err != nil {
		return pricing.Usage{}, err
	}
	return pricing.Usage{
		PriorUses: int(priorUses),
		Weekday:   at.Weekday(),
	}, nil
}

// appointmentForRequester loads an appointment and checks that the requester
// is its customer or, when allowOwner is set, owns its establishment.
func appointmentForRequester(c *gin.Context, userID, appointmentID uuid.UUID, allowOwner bool) (*models.Appointment, bool) {
	var appointment models.Appointment
	if err := config.DB.First(&appointment, "id = ?", appointmentID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Appointment not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return nil, false
	}

	if appointment.CustomerID == userID {
		return &appointment, true
	}

	if allowOwner {
		var count int64
		if err := config.DB.Model(&models.Establishment{}).
			Where("id = ? AND owner_id = ?", appointment.EstablishmentID, userID).
			Count(&count).Error; err != nil {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
			return nil, false
		}
		if count > 0 {
			return &appointment, true
		}
	}

	utils.RespondWithError(c, http.StatusForbidden, "You do not own this appointment")
	return nil, false
}

// CancelAppointment moves an appointment to canceled. Canceling twice is a
// no-op success. The establishment owner may cancel on the customer's behalf.
func CancelAppointment(c *gin.Context) {
	userID, ok := utils.RequesterID(c)
	if !ok {
		return
	}

	appointmentID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid appointment ID format")
		return
	}

	appointment, ok := appointmentForRequester(c, userID, appointmentID, true)
	if !ok {
		return
	}

	if scheduling.CheckCancel(appointment.Status) == scheduling.CancelAlreadyDone {
		c.JSON(http.StatusOK, appointment)
		return
	}

	appointment.Status = models.AppointmentCanceled
	if err := config.DB.Save(appointment).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to cancel appointment")
		return
	}

	c.JSON(http.StatusOK, appointment)
}

// RescheduleAppointment moves an unpaid, non-canceled appointment to a new
// slot at the same establishment.
func RescheduleAppointment(c *gin.Context) {
	userID, ok := utils.RequesterID(c)
	if !ok {
		return
	}

	appointmentID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid appointment ID format")
		return
	}

	var input RescheduleInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	newAt, err := scheduling.ParseDateTime(input.NewScheduledAt)
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid datetime, expected YYYY-MM-DDTHH:MM")
		return
	}
	if err := scheduling.ValidateTarget(newAt, time.Now()); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, err.Error())
		return
	}

	appointment, ok := appointmentForRequester(c, userID, appointmentID, false)
	if !ok {
		return
	}

	if err := scheduling.CheckReschedule(appointment.Status, appointment.PaymentStatus); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, err.Error())
		return
	}

	tx := config.DB.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	free, err := slotIsFree(tx, appointment.EstablishmentID, newAt, appointment.ID)
	if err != nil {
		tx.Rollback()
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to verify slot availability")
		return
	}
	if !free {
		tx.Rollback()
		utils.RespondWithError(c, http.StatusConflict, scheduling.ErrSlotTaken.Error())
		return
	}

	appointment.ScheduledAt = newAt
	if err := tx.Save(appointment).Error; err != nil {
		tx.Rollback()
		if isUniqueViolation(err) {
			utils.RespondWithError(c, http.StatusConflict, scheduling.ErrSlotTaken.Error())
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Failed to reschedule appointment")
		}
		return
	}

	tx.Commit()

	c.JSON(http.StatusOK, appointment)
}

// ConfirmPayment moves the payment sub-state from pending to completed.
func ConfirmPayment(c *gin.Context) {
	userID, ok := utils.RequesterID(c)
	if !ok {
		return
	}

	appointmentID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid appointment ID format")
		return
	}

	appointment, ok := appointmentForRequester(c, userID, appointmentID, true)
	if !ok {
		return
	}

	if err := scheduling.CheckConfirmPayment(appointment.Status, appointment.PaymentStatus); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, err.Error())
		return
	}

	appointment.PaymentStatus = models.PaymentCompleted
	if err := config.DB.Save(appointment).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to confirm payment")
		return
	}

	c.JSON(http.StatusOK, appointment)
}

// GetMyAppointments lists the requester's appointments, newest first
func GetMyAppointments(c *gin.Context) {
	userID, ok := utils.RequesterID(c)
	if !ok {
		return
	}

	var appointments []models.Appointment
	if err := config.DB.Where("customer_id = ?", userID).
		Order("scheduled_at DESC").
		Find(&appointments).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve appointments")
		return
	}

	c.JSON(http.StatusOK, appointments)
}

// GetEstablishmentAppointments lists appointments across the requester's
// establishments
func GetEstablishmentAppointments(c *gin.Context) {
	userID, ok := utils.RequesterID(c)
	if !ok {
		return
	}

	var establishmentIDs []uuid.UUID
	if err := config.DB.Model(&models.Establishment{}).
		Where("owner_id = ?", userID).
		Pluck("id", &establishmentIDs).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve establishments")
		return
	}
	if len(establishmentIDs) == 0 {
		c.JSON(http.StatusOK, []models.Appointment{})
		return
	}

	var appointments []models.Appointment
	if err := config.DB.Where("establishment_id IN ?", establishmentIDs).
		Order("scheduled_at DESC").
		Find(&appointments).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve appointments")
		return
	}

	c.JSON(http.StatusOK, appointments)
}
