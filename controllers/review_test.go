package controllers

import (
	"net/http"
	"testing"
	"time"

	"barberbook-backend/models"
	"barberbook-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateReviewUpdatesRunningAverage(t *testing.T) {
	db := setupTestDB(t)
	admin := seedUser(t, db, models.RoleEstablishmentAdmin)
	establishment := seedEstablishment(t, db, admin, "Barbearia Nota Dez")

	for _, rating := range []int{5, 3, 4} {
		customer := seedUser(t, db, models.RoleCustomer)
		c, w := authedContext(t, customer, http.MethodPost, "/api/reviews", gin.H{
			"establishmentId": establishment.ID,
			"rating":          rating,
			"comment":         "ok",
		})
		CreateReview(c)
		require.Equal(t, http.StatusCreated, w.Code)
	}

	var saved models.Establishment
	require.NoError(t, db.First(&saved, "id = ?", establishment.ID).Error)
	assert.Equal(t, 3, saved.RatingCount)
	assert.InDelta(t, 4.0, saved.AvgRating, 0.001)
}

func TestCreateReviewRejectsOutOfRangeRating(t *testing.T) {
	db := setupTestDB(t)
	admin := seedUser(t, db, models.RoleEstablishmentAdmin)
	establishment := seedEstablishment(t, db, admin, "Barbearia Nota Dez")
	customer := seedUser(t, db, models.RoleCustomer)

	c, w := authedContext(t, customer, http.MethodPost, "/api/reviews", gin.H{
		"establishmentId": establishment.ID,
		"rating":          6,
	})
	CreateReview(c)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestBuildProfitReportSplitsRefunds(t *testing.T) {
	db := setupTestDB(t)
	admin := seedUser(t, db, models.RoleEstablishmentAdmin)
	establishment := seedEstablishment(t, db, admin, "Barbearia Lucro")
	plan := seedPlan(t, db, establishment, 40.0, true)
	customer := seedUser(t, db, models.RoleCustomer)

	now := time.Now()
	seed := func(price float64, status, paymentStatus string, at time.Time) {
		require.NoError(t, db.Create(&models.Appointment{
			CustomerID:      customer.ID,
			EstablishmentID: establishment.ID,
			PlanID:          plan.ID,
			ScheduledAt:     at,
			Status:          status,
			PaymentStatus:   paymentStatus,
			Price:           price,
		}).Error)
	}

	base := utils.BeginningOfMonth(now).Add(10 * time.Hour)
	seed(40.0, models.AppointmentActive, models.PaymentCompleted, base)
	seed(32.0, models.AppointmentActive, models.PaymentCompleted, base.Add(30*time.Minute))
	seed(25.0, models.AppointmentCanceled, models.PaymentCompleted, base.Add(time.Hour))
	seed(99.0, models.AppointmentActive, models.PaymentPending, base.Add(2*time.Hour))

	report, err := BuildProfitReport(db, establishment.ID,
		utils.BeginningOfMonth(now), utils.EndOfMonth(now))
	require.NoError(t, err)

	assert.InDelta(t, 72.0, report.TotalProfit, 0.001)
	assert.InDelta(t, 25.0, report.TotalRefunds, 0.001)
}

func TestBuildProfitReportIncludesLastDayOfMonth(t *testing.T) {
	db := setupTestDB(t)
	admin := seedUser(t, db, models.RoleEstablishmentAdmin)
	establishment := seedEstablishment(t, db, admin, "Barbearia Virada")
	plan := seedPlan(t, db, establishment, 40.0, true)
	customer := seedUser(t, db, models.RoleCustomer)

	now := time.Now()
	start := utils.BeginningOfMonth(now)
	end := utils.EndOfMonth(now)

	// A paid booking on the month's final day, and one just past the bound
	lastDay := end.AddDate(0, 0, -1).Add(10 * time.Hour)
	require.NoError(t, db.Create(&models.Appointment{
		CustomerID:      customer.ID,
		EstablishmentID: establishment.ID,
		PlanID:          plan.ID,
		ScheduledAt:     lastDay,
		Status:          models.AppointmentActive,
		PaymentStatus:   models.PaymentCompleted,
		Price:           40.0,
	}).Error)
	require.NoError(t, db.Create(&models.Appointment{
		CustomerID:      customer.ID,
		EstablishmentID: establishment.ID,
		PlanID:          plan.ID,
		ScheduledAt:     end.Add(9 * time.Hour),
		Status:          models.AppointmentActive,
		PaymentStatus:   models.PaymentCompleted,
		Price:           99.0,
	}).Error)

	report, err := BuildProfitReport(db, establishment.ID, start, end)
	require.NoError(t, err)

	assert.InDelta(t, 40.0, report.TotalProfit, 0.001)
	assert.InDelta(t, 0.0, report.TotalRefunds, 0.001)
}

func TestGenerateProfitReportStoresRow(t *testing.T) {
	db := setupTestDB(t)
	admin := seedUser(t, db, models.RoleEstablishmentAdmin)
	establishment := seedEstablishment(t, db, admin, "Barbearia Lucro")

	rc := &ReportController{}
	c, w := authedContext(t, admin, http.MethodPost,
		"/api/profit-reports?establishment_id="+establishment.ID.String(), nil)
	rc.GenerateProfitReport(c)
	require.Equal(t, http.StatusCreated, w.Code)

	var count int64
	require.NoError(t, db.Model(&models.ProfitReport{}).
		Where("establishment_id = ?", establishment.ID).
		Count(&count).Error)
	assert.EqualValues(t, 1, count)
}
