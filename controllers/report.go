// controllers/report.go
package controllers

import (
	"net/http"
	"time"

	"barberbook-backend/config"
	"barberbook-backend/models"
	"barberbook-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ReportController handles profit reporting
type ReportController struct{}

// GetProfitReports lists stored reports for an owned establishment
func (rc *ReportController) GetProfitReports(c *gin.Context) {
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

	var reports []models.ProfitReport
	if err := config.DB.Where("establishment_id = ?", establishmentID).
		Order("period_start DESC").
		Find(&reports).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve reports")
		return
	}

	c.JSON(http.StatusOK, reports)
}

// GenerateProfitReport builds and stores the current-month report for an
// owned establishment
func (rc *ReportController) GenerateProfitReport(c *gin.Context) {
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

	now := time.Now()
	start := utils.BeginningOfMonth(now)
	end := utils.EndOfMonth(now)

	report, err := BuildProfitReport(config.DB, establishmentID, start, end)
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to compute report")
		return
	}

	if err := config.DB.Create(report).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to store report")
		return
	}

	c.JSON(http.StatusCreated, report)
}

// BuildProfitReport aggregates appointment revenue over [start, end). Profit is
// paid appointment revenue; refunds are paid appointments later canceled.
// Shared with the monthly scheduler job.
func BuildProfitReport(db *gorm.DB, establishmentID uuid.UUID, start, end time.Time) (*models.ProfitReport, error) {
	var profit float64
	err := db.Model(&models.Appointment{}).
		Where("establishment_id = ? AND payment_status = ? AND status <> ? AND scheduled_at >= ? AND scheduled_at < ?",
			establishmentID, models.PaymentCompleted, models.AppointmentCanceled, start, end).
		Select("COALESCE(SUM(price), 0)").
		Scan(&profit).Error
	if err != nil {
		return nil, err
	}

	var refunds float64
	err = db.Model(&models.Appointment{}).
		Where("establishment_id = ? AND payment_status = ? AND status = ? AND scheduled_at >= ? AND scheduled_at < ?",
			establishmentID, models.PaymentCompleted, models.AppointmentCanceled, start, end).
		Select("COALESCE(SUM(price), 0)").
		Scan(&refunds).Error
	if err != nil {
		return nil, err
	}

	return &models.ProfitReport{
		EstablishmentID: establishmentID,
		PeriodStart:     start,
		PeriodEnd:       end,
		TotalProfit:     profit,
		TotalRefunds:    refunds,
	}, nil
}
