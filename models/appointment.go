package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Appointment statuses. Canceled is terminal: a canceled appointment can
// never be rescheduled, re-paid or reactivated.
const (
	AppointmentActive   = "active"
	AppointmentLate     = "late"
	AppointmentCanceled = "canceled"
	AppointmentTrial    = "trial"
	AppointmentPaused   = "paused"
)

// Payment sub-state, pending -> completed one-way.
const (
	PaymentPending   = "pending"
	PaymentCompleted = "completed"
)

// Appointment rows are never hard-deleted; cancellation is a status change
// so booking history survives. A partial unique index on (establishment_id,
// scheduled_at) excluding canceled rows makes the store the authority for
// at-most-one booking per slot (see main.go migration).
type Appointment struct {
	ID              uuid.UUID  `gorm:"type:uuid;primary_key"`
	CustomerID      uuid.UUID  `gorm:"type:uuid;index;not null"`
	EstablishmentID uuid.UUID  `gorm:"type:uuid;index;not null"`
	PlanID          uuid.UUID  `gorm:"type:uuid;index;not null"`
	ServiceID       *uuid.UUID `gorm:"type:uuid;index"`

	ScheduledAt   time.Time `gorm:"index;not null"`
	Status        string    `gorm:"type:varchar(20);default:'active'"`
	PaymentStatus string    `gorm:"type:varchar(20);default:'pending'"`
	Price         float64   `gorm:"type:decimal(10,2);not null"`
	PaymentMethod string

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (a *Appointment) BeforeCreate(tx *gorm.DB) (err error) {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return
}
