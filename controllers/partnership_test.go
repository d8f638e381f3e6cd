package controllers

import (
	"net/http"
	"testing"

	"barberbook-backend/models"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// partnershipFixture holds two establishments with distinct owners: a plan
// creator and a prospective partner.
type partnershipFixture struct {
	db           *gorm.DB
	creatorAdmin *models.User
	partnerAdmin *models.User
	creator      *models.Establishment
	partner      *models.Establishment
}

func newPartnershipFixture(t *testing.T) *partnershipFixture {
	t.Helper()

	db := setupTestDB(t)
	creatorAdmin := seedUser(t, db, models.RoleEstablishmentAdmin)
	partnerAdmin := seedUser(t, db, models.RoleEstablishmentAdmin)
	return &partnershipFixture{
		db:           db,
		creatorAdmin: creatorAdmin,
		partnerAdmin: partnerAdmin,
		creator:      seedEstablishment(t, db, creatorAdmin, "Barbearia do Ze"),
		partner:      seedEstablishment(t, db, partnerAdmin, "Corte Fino"),
	}
}

func (f *partnershipFixture) join(t *testing.T, planID uuid.UUID, admin *models.User, establishmentID uuid.UUID) int {
	t.Helper()

	c, w := authedContext(t, admin, http.MethodPost, "/api/plans/join", gin.H{
		"establishmentId": establishmentID,
	})
	c.Params = gin.Params{{Key: "id", Value: planID.String()}}
	JoinPlan(c)
	return w.Code
}

func (f *partnershipFixture) marketplace(t *testing.T, admin *models.User, establishmentID uuid.UUID) []MarketplacePlan {
	t.Helper()

	c, w := authedContext(t, admin, http.MethodGet,
		"/api/plans/marketplace?establishment_id="+establishmentID.String(), nil)
	GetMarketplacePlans(c)
	require.Equal(t, http.StatusOK, w.Code)

	var plans []MarketplacePlan
	decodeBody(t, w, &plans)
	return plans
}

func TestCreatePlanRegistersCreatorPartnership(t *testing.T) {
	f := newPartnershipFixture(t)

	c, w := authedContext(t, f.creatorAdmin, http.MethodPost, "/api/plans", gin.H{
		"establishmentId": f.creator.ID,
		"name":            "Clube da Navalha",
		"price":           40.0,
		"billingCycle":    models.CycleMonthly,
		"isPublic":        true,
	})
	CreatePlan(c)
	require.Equal(t, http.StatusCreated, w.Code)

	var plan models.Plan
	decodeBody(t, w, &plan)

	var partnership models.PlanPartnership
	require.NoError(t, f.db.Where("plan_id = ?", plan.ID).First(&partnership).Error)
	assert.Equal(t, f.creator.ID, partnership.EstablishmentID)
	assert.True(t, partnership.IsCreator)
	assert.False(t, partnership.JoinedAt.IsZero())
}

func TestCreatePlanRequiresOwnership(t *testing.T) {
	f := newPartnershipFixture(t)

	c, w := authedContext(t, f.partnerAdmin, http.MethodPost, "/api/plans", gin.H{
		"establishmentId": f.creator.ID,
		"name":            "Plano Alheio",
		"price":           10.0,
		"billingCycle":    models.CycleMonthly,
	})
	CreatePlan(c)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestMarketplaceExcludesJoinedPlans(t *testing.T) {
	f := newPartnershipFixture(t)
	plan := seedPlan(t, f.db, f.creator, 40.0, true)

	listed := f.marketplace(t, f.partnerAdmin, f.partner.ID)
	require.Len(t, listed, 1)
	assert.Equal(t, plan.ID, listed[0].ID)
	assert.Equal(t, f.creator.Name, listed[0].CreatorName)
	assert.EqualValues(t, 1, listed[0].PartnerCount)

	require.Equal(t, http.StatusCreated, f.join(t, plan.ID, f.partnerAdmin, f.partner.ID))

	assert.Empty(t, f.marketplace(t, f.partnerAdmin, f.partner.ID))
}

func TestMarketplaceHidesPrivateAndInactivePlans(t *testing.T) {
	f := newPartnershipFixture(t)
	seedPlan(t, f.db, f.creator, 40.0, false)
	inactive := seedPlan(t, f.db, f.creator, 40.0, true)
	require.NoError(t, f.db.Model(inactive).Update("is_active", false).Error)

	assert.Empty(t, f.marketplace(t, f.partnerAdmin, f.partner.ID))
}

func TestJoinPlanRejectsDuplicate(t *testing.T) {
	f := newPartnershipFixture(t)
	plan := seedPlan(t, f.db, f.creator, 40.0, true)

	require.Equal(t, http.StatusCreated, f.join(t, plan.ID, f.partnerAdmin, f.partner.ID))
	assert.Equal(t, http.StatusConflict, f.join(t, plan.ID, f.partnerAdmin, f.partner.ID))
}

func TestJoinPlanRejectsCreator(t *testing.T) {
	f := newPartnershipFixture(t)
	plan := seedPlan(t, f.db, f.creator, 40.0, true)

	assert.Equal(t, http.StatusBadRequest, f.join(t, plan.ID, f.creatorAdmin, f.creator.ID))
}

func TestJoinPlanRejectsPrivatePlan(t *testing.T) {
	f := newPartnershipFixture(t)
	plan := seedPlan(t, f.db, f.creator, 40.0, false)

	assert.Equal(t, http.StatusBadRequest, f.join(t, plan.ID, f.partnerAdmin, f.partner.ID))
}

func TestLeavePlanForbidsCreator(t *testing.T) {
	f := newPartnershipFixture(t)
	plan := seedPlan(t, f.db, f.creator, 40.0, true)

	c, w := authedContext(t, f.creatorAdmin, http.MethodPost, "/api/plans/leave", gin.H{
		"establishmentId": f.creator.ID,
	})
	c.Params = gin.Params{{Key: "id", Value: plan.ID.String()}}
	LeavePlan(c)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestLeavePlanRemovesPartnership(t *testing.T) {
	f := newPartnershipFixture(t)
	plan := seedPlan(t, f.db, f.creator, 40.0, true)
	require.Equal(t, http.StatusCreated, f.join(t, plan.ID, f.partnerAdmin, f.partner.ID))

	c, w := authedContext(t, f.partnerAdmin, http.MethodPost, "/api/plans/leave", gin.H{
		"establishmentId": f.partner.ID,
	})
	c.Params = gin.Params{{Key: "id", Value: plan.ID.String()}}
	LeavePlan(c)
	require.Equal(t, http.StatusOK, w.Code)

	var count int64
	require.NoError(t, f.db.Model(&models.PlanPartnership{}).
		Where("plan_id = ? AND establishment_id = ?", plan.ID, f.partner.ID).
		Count(&count).Error)
	assert.Zero(t, count)

	// The plan is joinable again
	assert.Equal(t, http.StatusCreated, f.join(t, plan.ID, f.partnerAdmin, f.partner.ID))
}

func TestGetMyPlansPartitionsByRole(t *testing.T) {
	f := newPartnershipFixture(t)
	ownPlan := seedPlan(t, f.db, f.partner, 25.0, false)
	sharedPlan := seedPlan(t, f.db, f.creator, 40.0, true)
	require.Equal(t, http.StatusCreated, f.join(t, sharedPlan.ID, f.partnerAdmin, f.partner.ID))

	c, w := authedContext(t, f.partnerAdmin, http.MethodGet,
		"/api/plans/mine?establishment_id="+f.partner.ID.String(), nil)
	GetMyPlans(c)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Created   []MarketplacePlan `json:"created"`
		Partnered []MarketplacePlan `json:"partnered"`
	}
	decodeBody(t, w, &resp)

	require.Len(t, resp.Created, 1)
	assert.Equal(t, ownPlan.ID, resp.Created[0].ID)

	require.Len(t, resp.Partnered, 1)
	assert.Equal(t, sharedPlan.ID, resp.Partnered[0].ID)
	assert.Equal(t, f.creator.Name, resp.Partnered[0].CreatorName)
	assert.EqualValues(t, 2, resp.Partnered[0].PartnerCount)
}

func TestGetPlanPartners(t *testing.T) {
	f := newPartnershipFixture(t)
	plan := seedPlan(t, f.db, f.creator, 40.0, true)
	require.Equal(t, http.StatusCreated, f.join(t, plan.ID, f.partnerAdmin, f.partner.ID))

	c, w := authedContext(t, f.partnerAdmin, http.MethodGet, "/api/plans/partners", nil)
	c.Params = gin.Params{{Key: "id", Value: plan.ID.String()}}
	GetPlanPartners(c)
	require.Equal(t, http.StatusOK, w.Code)

	var partners []PlanPartner
	decodeBody(t, w, &partners)
	require.Len(t, partners, 2)
	assert.True(t, partners[0].IsCreator)
	assert.Equal(t, f.creator.Name, partners[0].EstablishmentName)
	assert.False(t, partners[1].IsCreator)
}

func TestAddPlanBenefitValidatesMagnitude(t *testing.T) {
	f := newPartnershipFixture(t)
	plan := seedPlan(t, f.db, f.creator, 40.0, true)

	c, w := authedContext(t, f.creatorAdmin, http.MethodPost, "/api/plans/benefits", gin.H{
		"benefitType":   models.BenefitPercentageDiscount,
		"conditionType": models.ConditionAlways,
	})
	c.Params = gin.Params{{Key: "id", Value: plan.ID.String()}}
	AddPlanBenefit(c)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetPlanBenefitsOrdered(t *testing.T) {
	f := newPartnershipFixture(t)
	plan := seedPlan(t, f.db, f.creator, 40.0, true)

	for _, order := range []int{3, 1, 2} {
		require.NoError(t, f.db.Create(&models.PlanBenefit{
			PlanID:           plan.ID,
			BenefitType:      models.BenefitPercentageDiscount,
			ConditionType:    models.ConditionAlways,
			DiscountPercent:  float64(order),
			ApplicationOrder: order,
		}).Error)
	}

	c, w := authedContext(t, f.creatorAdmin, http.MethodGet, "/api/plans/benefits", nil)
	c.Params = gin.Params{{Key: "id", Value: plan.ID.String()}}
	GetPlanBenefits(c)
	require.Equal(t, http.StatusOK, w.Code)

	var benefits []models.PlanBenefit
	decodeBody(t, w, &benefits)
	require.Len(t, benefits, 3)
	for i, benefit := range benefits {
		assert.Equal(t, i+1, benefit.ApplicationOrder)
	}
}

func TestDeletePlanCascades(t *testing.T) {
	f := newPartnershipFixture(t)
	plan := seedPlan(t, f.db, f.creator, 40.0, true)
	require.Equal(t, http.StatusCreated, f.join(t, plan.ID, f.partnerAdmin, f.partner.ID))
	require.NoError(t, f.db.Create(&models.PlanBenefit{
		PlanID:          plan.ID,
		BenefitType:     models.BenefitPercentageDiscount,
		ConditionType:   models.ConditionAlways,
		DiscountPercent: 10,
	}).Error)

	subscriber := seedUser(t, f.db, models.RoleCustomer)
	c, w := authedContext(t, subscriber, http.MethodPost, "/api/subscriptions", gin.H{
		"planId":        plan.ID,
		"paymentMethod": "card",
	})
	Subscribe(c)
	require.Equal(t, http.StatusCreated, w.Code)

	c, w = authedContext(t, f.creatorAdmin, http.MethodDelete, "/api/plans/x", nil)
	c.Params = gin.Params{{Key: "id", Value: plan.ID.String()}}
	DeletePlan(c)
	require.Equal(t, http.StatusOK, w.Code)

	var partnerships, benefits int64
	require.NoError(t, f.db.Model(&models.PlanPartnership{}).Where("plan_id = ?", plan.ID).Count(&partnerships).Error)
	require.NoError(t, f.db.Model(&models.PlanBenefit{}).Where("plan_id = ?", plan.ID).Count(&benefits).Error)
	assert.Zero(t, partnerships)
	assert.Zero(t, benefits)

	var subscription models.Subscription
	require.NoError(t, f.db.Where("user_id = ?", subscriber.ID).First(&subscription).Error)
	assert.Equal(t, models.SubscriptionCanceled, subscription.Status)
	assert.Equal(t, "plan discontinued", subscription.CancelReason)

	assert.ErrorIs(t, f.db.First(&models.Plan{}, "id = ?", plan.ID).Error, gorm.ErrRecordNotFound)
}

func TestDeletePlanRequiresCreatorOwner(t *testing.T) {
	f := newPartnershipFixture(t)
	plan := seedPlan(t, f.db, f.creator, 40.0, true)

	c, w := authedContext(t, f.partnerAdmin, http.MethodDelete, "/api/plans/x", nil)
	c.Params = gin.Params{{Key: "id", Value: plan.ID.String()}}
	DeletePlan(c)
	assert.Equal(t, http.StatusForbidden, w.Code)
}
