package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Establishment struct {
	ID      uuid.UUID `gorm:"type:uuid;primary_key"`
	OwnerID uuid.UUID `gorm:"type:uuid;index;not null"`

	Name       string `gorm:"not null"`
	Street     string
	City       string
	State      string
	PostalCode string
	Phone      string
	PhotoURL   string

	AvgRating   float64 `gorm:"type:decimal(3,2);default:0.0"`
	RatingCount int     `gorm:"default:0"`

	Services     []Service     `gorm:"foreignKey:EstablishmentID"`
	Appointments []Appointment `gorm:"foreignKey:EstablishmentID"`
	Reviews      []Review      `gorm:"foreignKey:EstablishmentID"`

	gorm.Model
}

func (e *Establishment) BeforeCreate(tx *gorm.DB) (err error) {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	return
}
