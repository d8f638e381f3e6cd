package scheduling

import (
	"testing"
	"time"

	"barberbook-backend/models"

	"github.com/stretchr/testify/assert"
)

func TestCheckCancelIdempotent(t *testing.T) {
	assert.Equal(t, CancelApplied, CheckCancel(models.AppointmentActive))
	assert.Equal(t, CancelApplied, CheckCancel(models.AppointmentLate))
	assert.Equal(t, CancelApplied, CheckCancel(models.AppointmentTrial))
	assert.Equal(t, CancelApplied, CheckCancel(models.AppointmentPaused))

	// Second cancel is a no-op success, not an error
	assert.Equal(t, CancelAlreadyDone, CheckCancel(models.AppointmentCanceled))
}

func TestCheckReschedule(t *testing.T) {
	assert.NoError(t, CheckReschedule(models.AppointmentActive, models.PaymentPending))
	assert.NoError(t, CheckReschedule(models.AppointmentLate, models.PaymentPending))

	// Canceled is terminal
	assert.ErrorIs(t, CheckReschedule(models.AppointmentCanceled, models.PaymentPending), ErrAppointmentCanceled)

	// A completed payment locks the date regardless of status
	assert.ErrorIs(t, CheckReschedule(models.AppointmentActive, models.PaymentCompleted), ErrPaymentCompleted)
	assert.ErrorIs(t, CheckReschedule(models.AppointmentLate, models.PaymentCompleted), ErrPaymentCompleted)
}

func TestCheckConfirmPayment(t *testing.T) {
	assert.NoError(t, CheckConfirmPayment(models.AppointmentActive, models.PaymentPending))
	assert.NoError(t, CheckConfirmPayment(models.AppointmentLate, models.PaymentPending))

	assert.ErrorIs(t, CheckConfirmPayment(models.AppointmentCanceled, models.PaymentPending), ErrAppointmentCanceled)
	assert.ErrorIs(t, CheckConfirmPayment(models.AppointmentActive, models.PaymentCompleted), ErrPaymentAlreadyConfirmed)
}

func TestValidateTarget(t *testing.T) {
	now := time.Date(2026, 9, 10, 12, 0, 0, 0, time.Local)

	assert.NoError(t, ValidateTarget(time.Date(2026, 9, 10, 14, 0, 0, 0, time.Local), now))

	assert.ErrorIs(t, ValidateTarget(time.Date(2026, 9, 10, 12, 15, 0, 0, time.Local), now), ErrNotSlotAligned)
	assert.ErrorIs(t, ValidateTarget(time.Date(2026, 9, 10, 9, 0, 0, 0, time.Local), now), ErrSlotInPast)

	// Alignment is checked before the clock
	assert.ErrorIs(t, ValidateTarget(time.Date(2026, 9, 10, 9, 10, 0, 0, time.Local), now), ErrNotSlotAligned)
}
