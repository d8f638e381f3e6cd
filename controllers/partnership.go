// controllers/partnership.go
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

// JoinPlanInput names the establishment joining a shared plan
type JoinPlanInput struct {
	EstablishmentID uuid.UUID `json:"establishmentId" binding:"required"`
}

// MarketplacePlan is a joinable plan annotated with creator details
type MarketplacePlan struct {
	models.Plan
	CreatorName  string `json:"creatorName"`
	CreatorCity  string `json:"creatorCity"`
	PartnerCount int64  `json:"partnerCount"`
}

// PlanPartner is one row of a plan's partner listing
type PlanPartner struct {
	EstablishmentID   uuid.UUID `json:"establishmentId"`
	EstablishmentName string    `json:"establishmentName"`
	City              string    `json:"city"`
	State             string    `json:"state"`
	IsCreator         bool      `json:"isCreator"`
	JoinedAt          string    `json:"joinedAt"`
}

// JoinPlan adds the establishment as a partner of a public, active plan.
// A duplicate join is a client bug and is rejected, not silently accepted.
func JoinPlan(c *gin.Context) {
	userID, ok := utils.RequesterID(c)
	if !ok {
		return
	}

	planID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid plan ID format")
		return
	}

	var input JoinPlanInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	if _, ok := ownedEstablishment(c, userID, input.EstablishmentID); !ok {
		return
	}

	var plan models.Plan
	if err := config.DB.First(&plan, "id = ?", planID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Plan not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	if !plan.IsPublic || !plan.IsActive {
		utils.RespondWithError(c, http.StatusBadRequest, "Plan is not open for partnership")
		return
	}
	if plan.CreatorEstablishmentID == input.EstablishmentID {
		utils.RespondWithError(c, http.StatusBadRequest, "Creator is already a member of its own plan")
		return
	}

	var existing int64
	if err := config.DB.Model(&models.PlanPartnership{}).
		Where("plan_id = ? AND establishment_id = ?", planID, input.EstablishmentID).
		Count(&existing).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		return
	}
	if existing > 0 {
		utils.RespondWithError(c, http.StatusConflict, "Establishment is already a partner of this plan")
		return
	}

	partnership := models.PlanPartnership{
		PlanID:          planID,
		EstablishmentID: input.EstablishmentID,
		IsCreator:       false,
	}
	if err := config.DB.Create(&partnership).Error; err != nil {
		if isUniqueViolation(err) {
			utils.RespondWithError(c, http.StatusConflict, "Establishment is already a partner of this plan")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Failed to join plan")
		}
		return
	}

	c.JSON(http.StatusCreated, partnership)
}

// LeavePlan removes a partner's row. The creator cannot leave its own plan;
// only plan deletion removes the creator row.
func LeavePlan(c *gin.Context) {
	userID, ok := utils.RequesterID(c)
	if !ok {
		return
	}

	planID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid plan ID format")
		return
	}

	var input JoinPlanInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	if _, ok := ownedEstablishment(c, userID, input.EstablishmentID); !ok {
		return
	}

	var partnership models.PlanPartnership
	if err := config.DB.Where("plan_id = ? AND establishment_id = ?", planID, input.EstablishmentID).
		First(&partnership).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Partnership not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	if partnership.IsCreator {
		utils.RespondWithError(c, http.StatusForbidden, "The creator cannot leave its own plan; delete the plan instead")
		return
	}

	if err := config.DB.Delete(&partnership).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to leave plan")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Left the plan partnership"})
}

// GetMarketplacePlans lists public, active plans the establishment has not
// joined yet, as creator or partner.
func GetMarketplacePlans(c *gin.Context) {
	userID, ok := utils.RequesterID(c)
	if !ok {
		return
	}

	establishmentID, err := uuid.Parse(c.Query("establishment_id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid establishment ID format")
		return
	}

	if _, ok := ownedEstablishment(c, userID, establishmentID); !ok {
		return
	}

	var plans []models.Plan
	if err := config.DB.
		Where("is_public = ? AND is_active = ?", true, true).
		Where("id NOT IN (?)", config.DB.Model(&models.PlanPartnership{}).
			Select("plan_id").
			Where("establishment_id = ?", establishmentID)).
		Find(&plans).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve marketplace plans")
		return
	}

	result := make([]MarketplacePlan, 0, len(plans))
	for _, plan := range plans {
		annotated := MarketplacePlan{Plan: plan}

		// Creator details are display enrichment; degrade to placeholders
		var creator models.Establishment
		if err := config.DB.First(&creator, "id = ?", plan.CreatorEstablishmentID).Error; err == nil {
			annotated.CreatorName = creator.Name
			annotated.CreatorCity = creator.City
		} else {
			annotated.CreatorName = "Unknown"
		}

		config.DB.Model(&models.PlanPartnership{}).
			Where("plan_id = ?", plan.ID).
			Count(&annotated.PartnerCount)

		result = append(result, annotated)
	}

	c.JSON(http.StatusOK, result)
}

// GetMyPlans lists the plans an establishment participates in, partitioned
// by role and annotated with partner counts
func GetMyPlans(c *gin.Context) {
	userID, ok := utils.RequesterID(c)
	if !ok {
		return
	}

	establishmentID, err := uuid.Parse(c.Query("establishment_id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid establishment ID format")
		return
	}

	if _, ok := ownedEstablishment(c, userID, establishmentID); !ok {
		return
	}

	var partnerships []models.PlanPartnership
	if err := config.DB.Where("establishment_id = ?", establishmentID).
		Find(&partnerships).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve partnerships")
		return
	}

	created := make([]MarketplacePlan, 0)
	partnered := make([]MarketplacePlan, 0)

	for _, partnership := range partnerships {
		var plan models.Plan
		if err := config.DB.First(&plan, "id = ?", partnership.PlanID).Error; err != nil {
			continue
		}

		annotated := MarketplacePlan{Plan: plan}
		var creator models.Establishment
		if err := config.DB.First(&creator, "id = ?", plan.CreatorEstablishmentID).Error; err == nil {
			annotated.CreatorName = creator.Name
			annotated.CreatorCity = creator.City
		} else {
			annotated.CreatorName = "Unknown"
		}
		config.DB.Model(&models.PlanPartnership{}).
			Where("plan_id = ?", plan.ID).
			Count(&annotated.PartnerCount)

		if partnership.IsCreator {
			created = append(created, annotated)
		} else {
			partnered = append(partnered, annotated)
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"created":   created,
		"partnered": partnered,
	})
}

// GetPlanPartners lists the establishments participating in a plan
func GetPlanPartners(c *gin.Context) {
	planID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid plan ID format")
		return
	}

	var partnerships []models.PlanPartnership
	if err := config.DB.Where("plan_id = ?", planID).
		Order("joined_at").
		Find(&partnerships).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve partners")
		return
	}

	partners := make([]PlanPartner, 0, len(partnerships))
	for _, partnership := range partnerships {
		partner := PlanPartner{
			EstablishmentID: partnership.EstablishmentID,
			IsCreator:       partnership.IsCreator,
			JoinedAt:        partnership.JoinedAt.Format("2006-01-02"),
		}
		var establishment models.Establishment
		if err := config.DB.First(&establishment, "id = ?", partnership.EstablishmentID).Error; err == nil {
			partner.EstablishmentName = establishment.Name
			partner.City = establishment.City
			partner.State = establishment.State
		} else {
			partner.EstablishmentName = "Unknown"
		}
		partners = append(partners, partner)
	}

	c.JSON(http.StatusOK, partners)
}
