package utils

import (
	"github.com/google/uuid"
)

// GenerateID returns a new random identifier for bid records
func GenerateID() string {
	return uuid.New().String()
}

// ShortID returns an 8 character identifier for log correlation, e.g. websocket sessions
func ShortID() string {
	return uuid.New().String()[:8]
}
