// Package pricing computes the effective price of a service for a plan
// subscriber from the plan's ordered benefit rules.
package pricing

import (
	"sort"
	"time"

	"barberbook-backend/models"

	"github.com/google/uuid"
)

// Usage is the subscriber context a benefit condition is evaluated against.
type Usage struct {
	// PriorUses is the count of the subscriber's prior completed uses of the plan.
	PriorUses int
	// Weekday of the moment being priced.
	Weekday time.Weekday
}

// Quote is the outcome of a price evaluation.
type Quote struct {
	BasePrice  float64             `json:"basePrice"`
	FinalPrice float64             `json:"finalPrice"`
	Applied    *models.PlanBenefit `json:"applied,omitempty"`
}

// Evaluate walks the plan's benefits in ascending application order and
// applies the first one that matches; benefits are never stacked, order
// decides priority. A fixed discount larger than the base price clamps the
// final price to zero. With no match the base price is returned unchanged.
func Evaluate(basePrice float64, benefits []models.PlanBenefit, serviceID *uuid.UUID, usage Usage) Quote {
	ordered := make([]models.PlanBenefit, len(benefits))
	copy(ordered, benefits)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].ApplicationOrder < ordered[j].ApplicationOrder
	})

	for i := range ordered {
		b := &ordered[i]
		if !targetsService(b, serviceID) {
			continue
		}
		if !conditionHolds(b, usage) {
			continue
		}
		return Quote{
			BasePrice:  basePrice,
			FinalPrice: applyDiscount(basePrice, b),
			Applied:    b,
		}
	}

	return Quote{BasePrice: basePrice, FinalPrice: basePrice}
}

// targetsService matches when the benefit is plan-wide (nil service) or
// names exactly the service being priced.
func targetsService(b *models.PlanBenefit, serviceID *uuid.UUID) bool {
	if b.ServiceID == nil {
		return true
	}
	if serviceID == nil {
		return false
	}
	return *b.ServiceID == *serviceID
}

func conditionHolds(b *models.PlanBenefit, usage Usage) bool {
	switch b.ConditionType {
	case models.ConditionAlways:
		return true
	case models.ConditionFirstUse:
		return usage.PriorUses == 0
	case models.ConditionAfterNUses:
		return usage.PriorUses >= b.ConditionValue
	case models.ConditionSpecificWeekday:
		return int(usage.Weekday) == b.ConditionValue
	default:
		return false
	}
}

func applyDiscount(base float64, b *models.PlanBenefit) float64 {
	var final float64
	switch b.BenefitType {
	case models.BenefitPercentageDiscount:
		final = base * (1 - b.DiscountPercent/100)
	case models.BenefitFixedDiscount:
		final = base - b.DiscountAmount
	default:
		final = base
	}
	if final < 0 {
		return 0
	}
	return final
}
