package domain

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestMinutesToMillis(t *testing.T) {
	t.Parallel()

	tests := []struct {
		minutes float64
		want    int64
	}{
		{minutes: 0, want: 0},
		{minutes: 1, want: 60000},
		{minutes: 2.5, want: 150000},
		{minutes: 0.00001, want: 0},
		{minutes: 1.0000166, want: 60000},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, MinutesToMillis(tt.minutes), "minutes=%v", tt.minutes)
	}
}

func TestFormatMinutes(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "5.0", FormatMinutes(300000))
	assert.Equal(t, "2.5", FormatMinutes(150000))
	assert.Equal(t, "0.1", FormatMinutes(5000))
	assert.Equal(t, "0.0", FormatMinutes(0))
}

func TestCooldownDuration(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 90*time.Second, Preferences{Cooldown: 90000}.CooldownDuration())
}

func TestCooldownDuration_Saturates(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 90*time.Second, Preferences{Cooldown: 90000}.CooldownDuration())
	assert.Equal(t, time.Duration(math.MaxInt64), Preferences{Cooldown: math.MaxInt64}.CooldownDuration())
}
