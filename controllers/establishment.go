// controllers/establishment.go
package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"barberbook-backend/config"
	"barberbook-backend/models"
	"barberbook-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CreateEstablishmentInput defines the expected JSON structure for creating an establishment
type CreateEstablishmentInput struct {
	Name       string `json:"name" binding:"required"`
	Street     string `json:"street"`
	City       string `json:"city"`
	State      string `json:"state"`
	PostalCode string `json:"postalCode"`
	Phone      string `json:"phone"`
	PhotoURL   string `json:"photoUrl"`
}

// UpdateEstablishmentInput defines the expected JSON structure for updating an establishment
type UpdateEstablishmentInput struct {
	Name       *string `json:"name"`
	Street     *string `json:"street"`
	City       *string `json:"city"`
	State      *string `json:"state"`
	PostalCode *string `json:"postalCode"`
	Phone      *string `json:"phone"`
	PhotoURL   *string `json:"photoUrl"`
}

// ownedEstablishment loads an establishment and verifies the requester owns it.
// Responds on failure and returns ok=false.
func ownedEstablishment(c *gin.Context, ownerID, establishmentID uuid.UUID) (*models.Establishment, bool) {
	var establishment models.Establishment
	if err := config.DB.First(&establishment, "id = ?", establishmentID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Establishment not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return nil, false
	}
	if establishment.OwnerID != ownerID {
		utils.RespondWithError(c, http.StatusForbidden, "You do not own this establishment")
		return nil, false
	}
	return &establishment, true
}

// CreateEstablishment creates a new establishment owned by the requester
func CreateEstablishment(c *gin.Context) {
	userID, ok := utils.RequesterID(c)
	if !ok {
		return
	}

	if role, _ := c.Get("role"); role != models.RoleEstablishmentAdmin {
		utils.RespondWithError(c, http.StatusForbidden, "Only establishment admins can create establishments")
		return
	}

	var input CreateEstablishmentInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	if input.Phone != "" && !utils.ValidatePhone(input.Phone) {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid phone number")
		return
	}

	establishment := models.Establishment{
		OwnerID:    userID,
		Name:       input.Name,
		Street:     input.Street,
		City:       input.City,
		State:      input.State,
		PostalCode: input.PostalCode,
		Phone:      input.Phone,
		PhotoURL:   input.PhotoURL,
	}

	if err := config.DB.Create(&establishment).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to create establishment")
		return
	}

	c.JSON(http.StatusCreated, establishment)
}

// GetEstablishments retrieves establishments with page/limit pagination
func GetEstablishments(c *gin.Context) {
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		page = 1
	}
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "5"))
	if err != nil || limit < 1 || limit > 50 {
		limit = 5
	}

	var total int64
	if err := config.DB.Model(&models.Establishment{}).Count(&total).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve establishments")
		return
	}

	var establishments []models.Establishment
	if err := config.DB.Order("name").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&establishments).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve establishments")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"establishments": establishments,
		"page":           page,
		"limit":          limit,
		"total":          total,
	})
}

// GetEstablishment retrieves a specific establishment by ID
func GetEstablishment(c *gin.Context) {
	establishmentID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid establishment ID format")
		return
	}

	var establishment models.Establishment
	if err := config.DB.Preload("Services", "is_active = ?", true).
		First(&establishment, "id = ?", establishmentID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Establishment not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	c.JSON(http.StatusOK, establishment)
}

// GetMyEstablishments retrieves establishments owned by the requester
func GetMyEstablishments(c *gin.Context) {
	userID, ok := utils.RequesterID(c)
	if !ok {
		return
	}

	var establishments []models.Establishment
	if err := config.DB.Where("owner_id = ?", userID).Find(&establishments).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve establishments")
		return
	}

	c.JSON(http.StatusOK, establishments)
}

// UpdateEstablishment updates an establishment owned by the requester
func UpdateEstablishment(c *gin.Context) {
	userID, ok := utils.RequesterID(c)
	if !ok {
		return
	}

	establishmentID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid establishment ID format")
		return
	}

	establishment, ok := ownedEstablishment(c, userID, establishmentID)
	if !ok {
		return
	}

	var input UpdateEstablishmentInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	if input.Name != nil {
		establishment.Name = *input.Name
	}
	if input.Street != nil {
		establishment.Street = *input.Street
	}
	if input.City != nil {
		establishment.City = *input.City
	}
	if input.State != nil {
		establishment.State = *input.State
	}
	if input.PostalCode != nil {
		establishment.PostalCode = *input.PostalCode
	}
	if input.Phone != nil {
		if !utils.ValidatePhone(*input.Phone) {
			utils.RespondWithError(c, http.StatusBadRequest, "Invalid phone number")
			return
		}
		establishment.Phone = *input.Phone
	}
	if input.PhotoURL != nil {
		establishment.PhotoURL = *input.PhotoURL
	}

	if err := config.DB.Save(establishment).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to update establishment")
		return
	}

	c.JSON(http.StatusOK, establishment)
}

// DeleteEstablishment soft deletes an establishment owned by the requester
func DeleteEstablishment(c *gin.Context) {
	userID, ok := utils.RequesterID(c)
	if !ok {
		return
	}

	establishmentID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid establishment ID format")
		return
	}

	establishment, ok := ownedEstablishment(c, userID, establishmentID)
	if !ok {
		return
	}

	if err := config.DB.Delete(establishment).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to delete establishment")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Establishment deleted successfully"})
}
