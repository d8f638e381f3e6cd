// controllers/plan.go
package controllers

import (
	"errors"
	"net/http"

	"barberbook-backend/config"
	"barberbook-backend/models"
	"barberbook-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CreatePlanInput defines the expected JSON structure for creating a plan
type CreatePlanInput struct {
	EstablishmentID uuid.UUID `json:"establishmentId" binding:"required"`
	Name            string    `json:"name" binding:"required"`
	Description     string    `json:"description"`
	Price           float64   `json:"price" binding:"required,min=0"`
	BillingCycle    string    `json:"billingCycle" binding:"required,oneof=monthly quarterly annual"`
	FreeTrialDays   int       `json:"freeTrialDays" binding:"min=0"`
	IsPublic        bool      `json:"isPublic"`
}

// UpdatePlanInput defines the expected JSON structure for updating a plan
type UpdatePlanInput struct {
	Name          *string  `json:"name"`
	Description   *string  `json:"description"`
	Price         *float64 `json:"price"`
	BillingCycle  *string  `json:"billingCycle" binding:"omitempty,oneof=monthly quarterly annual"`
	FreeTrialDays *int     `json:"freeTrialDays"`
	IsActive      *bool    `json:"isActive"`
	IsPublic      *bool    `json:"isPublic"`
}

// AddBenefitInput defines the expected JSON structure for a benefit rule
type AddBenefitInput struct {
	BenefitType      string     `json:"benefitType" binding:"required,oneof=percentage_discount fixed_discount"`
	ServiceID        *uuid.UUID `json:"serviceId"` // null applies to all services
	ConditionType    string     `json:"conditionType" binding:"required,oneof=always first_use after_n_uses specific_weekday"`
	ConditionValue   int        `json:"conditionValue" binding:"min=0"`
	DiscountPercent  float64    `json:"discountPercent" binding:"min=0,max=100"`
	DiscountAmount   float64    `json:"discountAmount" binding:"min=0"`
	ApplicationOrder int        `json:"applicationOrder" binding:"min=0"`
}

// planOwnedByRequester loads a plan and verifies the requester owns its
// creator establishment.
func planOwnedByRequester(c *gin.Context, userID, planID uuid.UUID) (*models.Plan, bool) {
	var plan models.Plan
	if err := config.DB.First(&plan, "id = ?", planID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Plan not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return nil, false
	}
	if _, ok := ownedEstablishment(c, userID, plan.CreatorEstablishmentID); !ok {
		return nil, false
	}
	return &plan, true
}

// CreatePlan creates a plan and its implicit creator partnership row
func CreatePlan(c *gin.Context) {
	userID, ok := utils.RequesterID(c)
	if !ok {
		return
	}

	var input CreatePlanInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	if _, ok := ownedEstablishment(c, userID, input.EstablishmentID); !ok {
		return
	}

	plan := models.Plan{
		CreatorEstablishmentID: input.EstablishmentID,
		Name:                   input.Name,
		Description:            input.Description,
		Price:                  input.Price,
		BillingCycle:           input.BillingCycle,
		FreeTrialDays:          input.FreeTrialDays,
		IsActive:               true,
		IsPublic:               input.IsPublic,
	}

	tx := config.DB.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	if err := tx.Create(&plan).Error; err != nil {
		tx.Rollback()
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to create plan")
		return
	}

	partnership := models.PlanPartnership{
		PlanID:          plan.ID,
		EstablishmentID: input.EstablishmentID,
		IsCreator:       true,
	}
	if err := tx.Create(&partnership).Error; err != nil {
		tx.Rollback()
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to create plan partnership")
		return
	}

	tx.Commit()

	c.JSON(http.StatusCreated, plan)
}

// GetEstablishmentPlans lists the plans an establishment offers, whether as
// creator or partner
func GetEstablishmentPlans(c *gin.Context) {
	establishmentID, err := uuid.Parse(c.Param("establishmentId"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid establishment ID format")
		return
	}

	var plans []models.Plan
	if err := config.DB.
		Joins("JOIN plan_partnerships ON plan_partnerships.plan_id = plans.id").
		Where("plan_partnerships.establishment_id = ?", establishmentID).
		Preload("Benefits", func(db *gorm.DB) *gorm.DB {
			return db.Order("application_order")
		}).
		Find(&plans).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve plans")
		return
	}

	c.JSON(http.StatusOK, plans)
}

// UpdatePlan updates a plan owned by the requester's establishment
func UpdatePlan(c *gin.Context) {
	userID, ok := utils.RequesterID(c)
	if !ok {
		return
	}

	planID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid plan ID format")
		return
	}

	plan, ok := planOwnedByRequester(c, userID, planID)
	if !ok {
		return
	}

	var input UpdatePlanInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	if input.Name != nil {
		plan.Name = *input.Name
	}
	if input.Description != nil {
		plan.Description = *input.Description
	}
	if input.Price != nil {
		plan.Price = *input.Price
	}
	if input.BillingCycle != nil {
		plan.BillingCycle = *input.BillingCycle
	}
	if input.FreeTrialDays != nil {
		plan.FreeTrialDays = *input.FreeTrialDays
	}
	if input.IsActive != nil {
		plan.IsActive = *input.IsActive
	}
	if input.IsPublic != nil {
		plan.IsPublic = *input.IsPublic
	}

	if err := config.DB.Save(plan).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to update plan")
		return
	}

	c.JSON(http.StatusOK, plan)
}

// DeletePlan removes a plan, cascading its partnership and benefit rows and
// canceling outstanding subscriptions with an explicit reason.
func DeletePlan(c *gin.Context) {
	userID, ok := utils.RequesterID(c)
	if !ok {
		return
	}

	planID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid plan ID format")
		return
	}

	plan, ok := planOwnedByRequester(c, userID, planID)
	if !ok {
		return
	}

	tx := config.DB.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	if err := tx.Where("plan_id = ?", plan.ID).Delete(&models.PlanPartnership{}).Error; err != nil {
		tx.Rollback()
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to remove plan partnerships")
		return
	}

	if err := tx.Where("plan_id = ?", plan.ID).Delete(&models.PlanBenefit{}).Error; err != nil {
		tx.Rollback()
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to remove plan benefits")
		return
	}

	// Subscriptions survive as canceled history rather than dangling rows
	if err := tx.Model(&models.Subscription{}).
		Where("plan_id = ? AND status <> ?", plan.ID, models.SubscriptionCanceled).
		Updates(map[string]interface{}{
			"status":        models.SubscriptionCanceled,
			"cancel_reason": "plan discontinued",
		}).Error; err != nil {
		tx.Rollback()
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to cancel plan subscriptions")
		return
	}

	if err := tx.Delete(plan).Error; err != nil {
		tx.Rollback()
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to delete plan")
		return
	}

	tx.Commit()

	c.JSON(http.StatusOK, gin.H{"message": "Plan deleted successfully"})
}

// AddPlanBenefit attaches a discount rule to a plan
func AddPlanBenefit(c *gin.Context) {
	userID, ok := utils.RequesterID(c)
	if !ok {
		return
	}

	planID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid plan ID format")
		return
	}

	plan, ok := planOwnedByRequester(c, userID, planID)
	if !ok {
		return
	}

	var input AddBenefitInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	// Discount magnitude must match the benefit type
	if input.BenefitType == models.BenefitPercentageDiscount && input.DiscountPercent <= 0 {
		utils.RespondWithError(c, http.StatusBadRequest, "discountPercent is required for percentage benefits")
		return
	}
	if input.BenefitType == models.BenefitFixedDiscount && input.DiscountAmount <= 0 {
		utils.RespondWithError(c, http.StatusBadRequest, "discountAmount is required for fixed benefits")
		return
	}
	if input.ConditionType == models.ConditionSpecificWeekday && !utils.ValidateWeekday(input.ConditionValue) {
		utils.RespondWithError(c, http.StatusBadRequest, "conditionValue must be a weekday index 0-6")
		return
	}

	benefit := models.PlanBenefit{
		PlanID:           plan.ID,
		BenefitType:      input.BenefitType,
		ServiceID:        input.ServiceID,
		ConditionType:    input.ConditionType,
		ConditionValue:   input.ConditionValue,
		DiscountPercent:  input.DiscountPercent,
		DiscountAmount:   input.DiscountAmount,
		ApplicationOrder: input.ApplicationOrder,
	}

	if err := config.DB.Create(&benefit).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to create benefit")
		return
	}

	c.JSON(http.StatusCreated, benefit)
}

// GetPlanBenefits lists a plan's benefits in application order
func GetPlanBenefits(c *gin.Context) {
	planID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid plan ID format")
		return
	}

	var benefits []models.PlanBenefit
	if err := config.DB.Where("plan_id = ?", planID).
		Order("application_order").
		Find(&benefits).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve benefits")
		return
	}

	c.JSON(http.StatusOK, benefits)
}
