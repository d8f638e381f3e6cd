// controllers/subscription.go
package controllers

import (
	"errors"
	"io"
	"net/http"
	"time"

	"barberbook-backend/config"
	"barberbook-backend/models"
	"barberbook-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Unpaid subscriptions get this long before the first charge
const paymentWindowDays = 7

// SubscribeInput defines the expected JSON structure for subscribing to a plan
type SubscribeInput struct {
	PlanID        uuid.UUID `json:"planId" binding:"required"`
	PaymentMethod string    `json:"paymentMethod" binding:"required"`
}

// CancelSubscriptionInput carries an optional cancellation reason
type CancelSubscriptionInput struct {
	Reason string `json:"reason"`
}

// Subscribe creates a subscription for the requester. Plans with free-trial
// days start in trial with billing deferred past the trial; otherwise the
// subscription is active with a payment window before first billing.
func Subscribe(c *gin.Context) {
	userID, ok := utils.RequesterID(c)
	if !ok {
		return
	}

	var input SubscribeInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	var plan models.Plan
	if err := config.DB.First(&plan, "id = ?", input.PlanID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Plan not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}
	if !plan.IsActive {
		utils.RespondWithError(c, http.StatusBadRequest, "Plan is not active")
		return
	}

	// One live subscription per user and plan
	var existing int64
	if err := config.DB.Model(&models.Subscription{}).
		Where("user_id = ? AND plan_id = ? AND status <> ?", userID, plan.ID, models.SubscriptionCanceled).
		Count(&existing).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		return
	}
	if existing > 0 {
		utils.RespondWithError(c, http.StatusConflict, "Already subscribed to this plan")
		return
	}

	now := time.Now()
	subscription := models.Subscription{
		UserID:        userID,
		PlanID:        plan.ID,
		StartDate:     now,
		CurrentPrice:  plan.Price,
		PaymentMethod: input.PaymentMethod,
	}

	if plan.FreeTrialDays > 0 {
		subscription.Status = models.SubscriptionTrial
		subscription.NextBillingDate = now.AddDate(0, 0, plan.FreeTrialDays)
	} else {
		subscription.Status = models.SubscriptionActive
		subscription.NextBillingDate = now.AddDate(0, 0, paymentWindowDays)
	}

	if err := config.DB.Create(&subscription).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to create subscription")
		return
	}

	c.JSON(http.StatusCreated, subscription)
}

// CancelSubscription cancels the requester's subscription, keeping the row
// and the stated reason. Canceling twice is a no-op success.
func CancelSubscription(c *gin.Context) {
	userID, ok := utils.RequesterID(c)
	if !ok {
		return
	}

	subscriptionID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid subscription ID format")
		return
	}

	var input CancelSubscriptionInput
	if err := c.ShouldBindJSON(&input); err != nil && !errors.Is(err, io.EOF) {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	var subscription models.Subscription
	if err := config.DB.First(&subscription, "id = ?", subscriptionID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Subscription not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	if subscription.UserID != userID {
		utils.RespondWithError(c, http.StatusForbidden, "You do not own this subscription")
		return
	}

	if subscription.Status == models.SubscriptionCanceled {
		c.JSON(http.StatusOK, subscription)
		return
	}

	subscription.Status = models.SubscriptionCanceled
	subscription.CancelReason = input.Reason
	if err := config.DB.Save(&subscription).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to cancel subscription")
		return
	}

	c.JSON(http.StatusOK, subscription)
}

// GetMySubscriptions lists the requester's subscriptions
func GetMySubscriptions(c *gin.Context) {
	userID, ok := utils.RequesterID(c)
	if !ok {
		return
	}

	var subscriptions []models.Subscription
	if err := config.DB.Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&subscriptions).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve subscriptions")
		return
	}

	c.JSON(http.StatusOK, subscriptions)
}
