// Package deadline maps a server-issued deadline and the current time to the
// countdown state shown for an auction or product. Every function here is pure.
package deadline

import (
	"fmt"
	"strings"
	"time"

	"auction-bff/internal/models"
)

// Urgency thresholds in seconds, inclusive on the lower tier
const (
	CriticalThreshold = 300
	UrgentThreshold   = 3600
	ModerateThreshold = 86400
)

var layouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04", // datetime-local form input
}

// Parse converts an API timestamp into a Deadline.
// Zone-less timestamps are read as UTC. An unparseable value yields an invalid deadline.
func Parse(raw string) models.Deadline {
	s := strings.TrimSpace(raw)
	for _, layout := range layouts {
		if t, err := time.Parse(layout, s); err == nil {
			return models.Deadline{At: t.UTC(), Raw: raw, Valid: true}
		}
	}
	return models.Deadline{Raw: raw}
}

// At builds a valid deadline from an instant
func At(t time.Time) models.Deadline {
	return models.Deadline{At: t.UTC(), Raw: t.UTC().Format(time.RFC3339), Valid: true}
}

// Remaining returns max(0, floor((deadline-now)/1s)). Invalid deadlines have no time left.
func Remaining(d models.Deadline, now time.Time) int64 {
	if !d.Valid {
		return 0
	}
	left := d.At.Sub(now)
	if left <= 0 {
		return 0
	}
	return int64(left / time.Second)
}

// UrgencyOf buckets remaining seconds into a display tier
func UrgencyOf(remaining int64) models.Urgency {
	switch {
	case remaining <= CriticalThreshold:
		return models.UrgencyCritical
	case remaining <= UrgentThreshold:
		return models.UrgencyUrgent
	case remaining <= ModerateThreshold:
		return models.UrgencyModerate
	default:
		return models.UrgencyNormal
	}
}

func IsExpired(remaining int64) bool {
	return remaining == 0
}

// FromRemaining derives the full countdown state from remaining seconds
func FromRemaining(remaining int64) models.CountdownState {
	if remaining < 0 {
		remaining = 0
	}
	return models.CountdownState{
		RemainingSeconds: remaining,
		Urgency:          UrgencyOf(remaining),
		Expired:          IsExpired(remaining),
	}
}

// StateAt returns the countdown state of d at now
func StateAt(d models.Deadline, now time.Time) models.CountdownState {
	return FromRemaining(Remaining(d, now))
}

// Label renders remaining seconds the way the auction cards display them
func Label(remaining int64) string {
	if remaining <= 0 {
		return "Expired"
	}
	days := remaining / 86400
	hours := (remaining % 86400) / 3600
	minutes := (remaining % 3600) / 60
	secs := remaining % 60

	switch {
	case days > 0:
		return fmt.Sprintf("%dd %dh %dm", days, hours, minutes)
	case hours > 0:
		return fmt.Sprintf("%dh %dm", hours, minutes)
	case minutes > 0:
		return fmt.Sprintf("%dm %ds", minutes, secs)
	default:
		return fmt.Sprintf("%ds", secs)
	}
}
