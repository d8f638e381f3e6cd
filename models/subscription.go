package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Subscription statuses
const (
	SubscriptionActive   = "active"
	SubscriptionTrial    = "trial"
	SubscriptionPaused   = "paused"
	SubscriptionCanceled = "canceled"
)

// Subscription links a user to a plan. Rows are never hard-deleted;
// cancellation sets the status and keeps the reason.
type Subscription struct {
	ID     uuid.UUID `gorm:"type:uuid;primary_key"`
	UserID uuid.UUID `gorm:"type:uuid;index;not null"`
	PlanID uuid.UUID `gorm:"type:uuid;index;not null"`

	Status          string    `gorm:"type:varchar(20);default:'active'"`
	StartDate       time.Time `gorm:"not null"`
	NextBillingDate time.Time
	CurrentPrice    float64 `gorm:"type:decimal(10,2);not null"`
	PaymentMethod   string
	CancelReason    string

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (s *Subscription) BeforeCreate(tx *gorm.DB) (err error) {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return
}
