package domain

import (
	"fmt"
	"math"
	"time"
)

// MaxCooldownMinutes is the longest cooldown a time.Duration can hold
const MaxCooldownMinutes = math.MaxInt64 / int64(time.Minute)

// maxCooldownMillis is the largest millisecond value CooldownDuration can convert
const maxCooldownMillis = int64(math.MaxInt64 / time.Millisecond)

// Preferences are the bot-wide tunables persisted to preferences.json
type Preferences struct {
	// Cooldown is the passive detection cooldown in milliseconds
	Cooldown int64 `json:"cooldown"`
}

// CooldownDuration returns Cooldown as a time.Duration, saturating at the largest Duration
func (p Preferences) CooldownDuration() time.Duration {
	if p.Cooldown > maxCooldownMillis {
		return time.Duration(math.MaxInt64)
	}
	return time.Duration(p.Cooldown) * time.Millisecond
}

// MinutesToMillis converts user-facing minutes to stored milliseconds, rounding down
func MinutesToMillis(minutes float64) int64 {
	return int64(math.Floor(minutes * float64(time.Minute/time.Millisecond)))
}

// FormatMinutes renders a millisecond cooldown as minutes with one decimal place
func FormatMinutes(millis int64) string {
	minutes := float64(millis) / float64(time.Minute/time.Millisecond)
	return fmt.Sprintf("%.1f", math.Round(minutes*10)/10)
}
