package controllers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http/httptest"
	"testing"
	"time"

	"barberbook-backend/config"
	"barberbook-backend/models"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// setupTestDB points the package-global connection at a fresh in-memory
// database mirroring the production schema, including the partial unique
// index that guards slot exclusion.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Establishment{},
		&models.Service{},
		&models.Appointment{},
		&models.Plan{},
		&models.PlanPartnership{},
		&models.PlanBenefit{},
		&models.Subscription{},
		&models.Review{},
		&models.ProfitReport{},
	))

	require.NoError(t, db.Exec(`CREATE UNIQUE INDEX IF NOT EXISTS idx_appointments_live_slot
		ON appointments (establishment_id, scheduled_at)
		WHERE status <> 'canceled'`).Error)

	config.DB = db
	return db
}

// seedUser inserts a user without running the bcrypt hook; tests call
// controllers behind the auth middleware, not the login flow.
func seedUser(t *testing.T, db *gorm.DB, role string) *models.User {
	t.Helper()

	user := &models.User{
		ID:       uuid.New(),
		Email:    uuid.NewString() + "@test.local",
		Password: "irrelevant",
		Name:     "Test " + role,
		Phone:    "+5511" + uuid.NewString()[:8],
		Role:     role,
		IsActive: true,
	}
	require.NoError(t, db.Session(&gorm.Session{SkipHooks: true}).Create(user).Error)
	return user
}

func seedEstablishment(t *testing.T, db *gorm.DB, owner *models.User, name string) *models.Establishment {
	t.Helper()

	establishment := &models.Establishment{
		OwnerID: owner.ID,
		Name:    name,
		City:    "Sao Paulo",
		State:   "SP",
	}
	require.NoError(t, db.Create(establishment).Error)
	return establishment
}

// seedPlan creates a plan with its implicit creator partnership row.
func seedPlan(t *testing.T, db *gorm.DB, creator *models.Establishment, price float64, public bool) *models.Plan {
	t.Helper()

	plan := &models.Plan{
		CreatorEstablishmentID: creator.ID,
		Name:                   "Plan of " + creator.Name,
		Price:                  price,
		BillingCycle:           models.CycleMonthly,
		IsActive:               true,
		IsPublic:               public,
	}
	require.NoError(t, db.Create(plan).Error)
	require.NoError(t, db.Create(&models.PlanPartnership{
		PlanID:          plan.ID,
		EstablishmentID: creator.ID,
		IsCreator:       true,
	}).Error)
	return plan
}

// authedContext builds a gin test context carrying the requester identity
// the way AuthMiddleware would set it.
func authedContext(t *testing.T, user *models.User, method, target string, body interface{}) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	c.Request = httptest.NewRequest(method, target, &buf)
	c.Request.Header.Set("Content-Type", "application/json")

	if user != nil {
		c.Set("userId", user.ID.String())
		c.Set("role", user.Role)
	}
	return c, w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder, out interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), out))
}

// tomorrowAt returns the canonical datetime string for a slot tomorrow.
func tomorrowAt(hhmm string) string {
	return time.Now().AddDate(0, 0, 1).Format("2006-01-02") + "T" + hhmm
}
