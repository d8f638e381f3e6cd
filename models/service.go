package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Service struct {
	ID              uuid.UUID `gorm:"type:uuid;primary_key"`
	EstablishmentID uuid.UUID `gorm:"type:uuid;index;not null"`
	Name            string    `gorm:"not null"`
	Description     string
	BasePrice       float64 `gorm:"type:decimal(10,2);not null"`
	Duration        int     // in minutes
	IsActive        bool    `gorm:"default:true"`
}

func (s *Service) BeforeCreate(tx *gorm.DB) (err error) {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return
}
