package checkins

import (
	"time"

	"github.com/google/uuid"
)

// CheckIn is a single emotion entry submitted by a user. Check-ins are
// immutable once written.
type CheckIn struct {
	ID               uuid.UUID `json:"id"`
	UserID           string    `json:"user_id"`
	Feelings         string    `json:"feelings"`
	EmotionIntensity int       `json:"emotion_intensity"`
	Notes            string    `json:"notes,omitempty"`
	Activities       []string  `json:"activities,omitempty"` // populated from checkin_activities, in submission order
	CreatedAt        time.Time `json:"created_at"`
}

// Activity is a free-text tag that can be attached to check-ins.
type Activity struct {
	Activity  string    `json:"activity"`
	CreatedAt time.Time `json:"created_at"`
}

// NewCheckIn carries the user-supplied fields for CreateCheckIn.
// A zero CreatedAt means now.
type NewCheckIn struct {
	UserID           string
	Feelings         string
	EmotionIntensity int
	Notes            string
	Activities       []string
	CreatedAt        time.Time
}
