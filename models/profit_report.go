package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ProfitReport aggregates an establishment's booking revenue over a period.
// TotalRefunds counts appointments that were paid and later canceled.
type ProfitReport struct {
	ID              uuid.UUID `gorm:"type:uuid;primary_key"`
	EstablishmentID uuid.UUID `gorm:"type:uuid;index;not null"`
	PeriodStart     time.Time `gorm:"not null"`
	PeriodEnd       time.Time `gorm:"not null"`
	TotalProfit     float64   `gorm:"type:decimal(10,2);default:0.0"`
	TotalRefunds    float64   `gorm:"type:decimal(10,2);default:0.0"`
	CreatedAt       time.Time
}

func (p *ProfitReport) BeforeCreate(tx *gorm.DB) (err error) {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return
}
