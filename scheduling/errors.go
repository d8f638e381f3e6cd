package scheduling

import "errors"

var (
	// ErrNotSlotAligned means a datetime does not fall on the fixed grid.
	ErrNotSlotAligned = errors.New("datetime is not aligned to a working slot")
	// ErrSlotInPast means the target slot is before the current instant.
	ErrSlotInPast = errors.New("slot is in the past")
	// ErrSlotTaken means another non-canceled appointment holds the slot.
	// Callers should re-query availability and offer alternatives.
	ErrSlotTaken = errors.New("slot already booked")

	// ErrAppointmentCanceled means the appointment is in its terminal state.
	ErrAppointmentCanceled = errors.New("appointment is canceled")
	// ErrPaymentCompleted means a paid appointment is locked against date changes.
	ErrPaymentCompleted = errors.New("payment already completed, date is locked")
	// ErrPaymentAlreadyConfirmed means payment was confirmed before.
	ErrPaymentAlreadyConfirmed = errors.New("payment already confirmed")
)
