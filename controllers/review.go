// controllers/review.go
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

// CreateReviewInput defines the expected JSON structure for rating an establishment
type CreateReviewInput struct {
	EstablishmentID uuid.UUID `json:"establishmentId" binding:"required"`
	Rating          int       `json:"rating" binding:"required,min=1,max=5"`
	Comment         string    `json:"comment"`
}

// CreateReview stores a rating and folds it into the establishment's average
func CreateReview(c *gin.Context) {
	userID, ok := utils.RequesterID(c)
	if !ok {
		return
	}

	var input CreateReviewInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	tx := config.DB.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	var establishment models.Establishment
	if err := tx.First(&establishment, "id = ?", input.EstablishmentID).Error; err != nil {
		tx.Rollback()
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Establishment not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	review := models.Review{
		EstablishmentID: input.EstablishmentID,
		UserID:          userID,
		Rating:          input.Rating,
		Comment:         input.Comment,
	}
	if err := tx.Create(&review).Error; err != nil {
		tx.Rollback()
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to create review")
		return
	}

	// Running average, no rescan of review history
	total := establishment.AvgRating*float64(establishment.RatingCount) + float64(input.Rating)
	establishment.RatingCount++
	establishment.AvgRating = total / float64(establishment.RatingCount)

	if err := tx.Save(&establishment).Error; err != nil {
		tx.Rollback()
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to update rating")
		return
	}

	tx.Commit()

	c.JSON(http.StatusCreated, review)
}

// GetEstablishmentReviews lists an establishment's reviews, newest first
func GetEstablishmentReviews(c *gin.Context) {
	establishmentID, err := uuid.Parse(c.Param("establishmentId"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid establishment ID format")
		return
	}

	var reviews []models.Review
	if err := config.DB.Where("establishment_id = ?", establishmentID).
		Order("created_at DESC").
		Find(&reviews).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve reviews")
		return
	}

	c.JSON(http.StatusOK, reviews)
}
