package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Billing cycles
const (
	CycleMonthly   = "monthly"
	CycleQuarterly = "quarterly"
	CycleAnnual    = "annual"
)

// Benefit types
const (
	BenefitPercentageDiscount = "percentage_discount"
	BenefitFixedDiscount      = "fixed_discount"
)

// Benefit condition types
const (
	ConditionAlways          = "always"
	ConditionFirstUse        = "first_use"
	ConditionAfterNUses      = "after_n_uses"
	ConditionSpecificWeekday = "specific_weekday"
)

// Plan is created by exactly one establishment but may be shared with
// partners through PlanPartnership rows.
type Plan struct {
	ID                     uuid.UUID `gorm:"type:uuid;primary_key"`
	CreatorEstablishmentID uuid.UUID `gorm:"type:uuid;index;not null"`

	Name          string `gorm:"not null"`
	Description   string
	Price         float64 `gorm:"type:decimal(10,2);not null"`
	BillingCycle  string  `gorm:"type:varchar(20);default:'monthly'"`
	FreeTrialDays int     `gorm:"default:0"`
	IsActive      bool    `gorm:"default:true"`
	IsPublic      bool    `gorm:"default:false"`

	Benefits     []PlanBenefit     `gorm:"foreignKey:PlanID"`
	Partnerships []PlanPartnership `gorm:"foreignKey:PlanID"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (p *Plan) BeforeCreate(tx *gorm.DB) (err error) {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return
}

// PlanPartnership links an establishment to a plan it offers. The creator's
// own row always exists and is only removed when the plan itself is deleted.
type PlanPartnership struct {
	ID              uuid.UUID `gorm:"type:uuid;primary_key"`
	PlanID          uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_plan_establishment,priority:1"`
	EstablishmentID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_plan_establishment,priority:2"`
	IsCreator       bool      `gorm:"default:false"`
	JoinedAt        time.Time `gorm:"not null"`
}

func (pp *PlanPartnership) BeforeCreate(tx *gorm.DB) (err error) {
	if pp.ID == uuid.Nil {
		pp.ID = uuid.New()
	}
	if pp.JoinedAt.IsZero() {
		pp.JoinedAt = time.Now()
	}
	return
}

// PlanBenefit is a conditional discount rule. A nil ServiceID means the rule
// applies to every service. DiscountPercent and DiscountAmount are mutually
// exclusive, selected by BenefitType. Lower ApplicationOrder wins first.
type PlanBenefit struct {
	ID               uuid.UUID  `gorm:"type:uuid;primary_key"`
	PlanID           uuid.UUID  `gorm:"type:uuid;index;not null"`
	BenefitType      string     `gorm:"type:varchar(30);not null"`
	ServiceID        *uuid.UUID `gorm:"type:uuid;index"`
	ConditionType    string     `gorm:"type:varchar(30);default:'always'"`
	ConditionValue   int        `gorm:"default:0"` // use-count threshold or weekday index 0-6
	DiscountPercent  float64    `gorm:"type:decimal(5,2);default:0.0"`
	DiscountAmount   float64    `gorm:"type:decimal(10,2);default:0.0"`
	ApplicationOrder int        `gorm:"column:application_order;default:0"`
}

func (b *PlanBenefit) BeforeCreate(tx *gorm.DB) (err error) {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return
}
