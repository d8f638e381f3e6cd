package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestValidatePhone(t *testing.T) {
	valid := []string{"+5511987654321", "+1 (555) 123-4567", "11987654321"}
	for _, phone := range valid {
		assert.True(t, ValidatePhone(phone), phone)
	}

	invalid := []string{"", "abc", "+0123456", "+12345678901234567890"}
	for _, phone := range invalid {
		assert.False(t, ValidatePhone(phone), phone)
	}
}

func TestValidateWeekday(t *testing.T) {
	for day := 0; day <= 6; day++ {
		assert.True(t, ValidateWeekday(day))
	}
	assert.False(t, ValidateWeekday(-1))
	assert.False(t, ValidateWeekday(7))
}

func TestDayAndMonthBounds(t *testing.T) {
	at := time.Date(2026, time.February, 14, 15, 30, 45, 0, time.UTC)

	assert.Equal(t, time.Date(2026, time.February, 14, 0, 0, 0, 0, time.UTC), BeginningOfDay(at))
	assert.Equal(t, time.Date(2026, time.February, 1, 0, 0, 0, 0, time.UTC), BeginningOfMonth(at))

	// The month bound is exclusive so the last calendar day stays in range
	assert.Equal(t, time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC), EndOfMonth(at))
	assert.True(t, time.Date(2026, time.February, 28, 10, 0, 0, 0, time.UTC).Before(EndOfMonth(at)))
}

func TestPasswordHashRoundTrip(t *testing.T) {
	hash, err := HashPassword("s3cret!")
	assert.NoError(t, err)
	assert.NotEqual(t, "s3cret!", hash)
	assert.True(t, CheckPasswordHash("s3cret!", hash))
	assert.False(t, CheckPasswordHash("wrong", hash))
}
