package scheduling

import (
	"time"

	"barberbook-backend/models"
)

// Lifecycle guards for a single appointment. Each transition is validated
// here and persisted by the caller; the database enforces slot exclusion.

// CancelOutcome distinguishes a real transition from the idempotent no-op.
type CancelOutcome int

const (
	CancelApplied CancelOutcome = iota
	CancelAlreadyDone
)

// CheckCancel validates moving an appointment to canceled. Canceling an
// already-canceled appointment is a no-op success, not an error.
func CheckCancel(status string) CancelOutcome {
	if status == models.AppointmentCanceled {
		return CancelAlreadyDone
	}
	return CancelApplied
}

// CheckReschedule validates a date change. Canceled appointments never move,
// and a completed payment locks the scheduled date.
func CheckReschedule(status, paymentStatus string) error {
	if status == models.AppointmentCanceled {
		return ErrAppointmentCanceled
	}
	if paymentStatus == models.PaymentCompleted {
		return ErrPaymentCompleted
	}
	return nil
}

// CheckConfirmPayment validates the one-way pending -> completed move.
func CheckConfirmPayment(status, paymentStatus string) error {
	if status == models.AppointmentCanceled {
		return ErrAppointmentCanceled
	}
	if paymentStatus == models.PaymentCompleted {
		return ErrPaymentAlreadyConfirmed
	}
	return nil
}

// ValidateTarget validates a creation/reschedule target datetime against the
// grid and the clock. Occupancy is checked against the store by the caller.
func ValidateTarget(at, now time.Time) error {
	if !IsSlotAligned(at) {
		return ErrNotSlotAligned
	}
	if at.Before(now) {
		return ErrSlotInPast
	}
	return nil
}
