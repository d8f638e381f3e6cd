package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Review struct {
	ID              uuid.UUID `gorm:"type:uuid;primary_key"`
	EstablishmentID uuid.UUID `gorm:"type:uuid;index;not null"`
	UserID          uuid.UUID `gorm:"type:uuid;index;not null"`
	Rating          int       `gorm:"not null"` // 1-5
	Comment         string    `gorm:"type:text"`
	CreatedAt       time.Time
}

func (r *Review) BeforeCreate(tx *gorm.DB) (err error) {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return
}
