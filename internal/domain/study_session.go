package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// SessionMode distinguishes focus time from breaks on the study timer.
type SessionMode string

const (
	SessionModeFocus SessionMode = "focus"
	SessionModeBreak SessionMode = "break"
)

// Default timer lengths.
const (
	FocusDuration = 25 * time.Minute
	BreakDuration = 5 * time.Minute
)

// StudySession is one completed timer run.
type StudySession struct {
	ID              primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID          primitive.ObjectID `bson:"userId" json:"userId"`
	Mode            SessionMode        `bson:"mode" json:"mode"`
	StartedAt       time.Time          `bson:"startedAt" json:"startedAt"`
	EndedAt         time.Time          `bson:"endedAt" json:"endedAt"`
	DurationSeconds int                `bson:"durationSeconds" json:"durationSeconds"`
	CreatedAt       time.Time          `bson:"createdAt" json:"createdAt"`
}

// StudyStats aggregates a user's sessions for the dashboard.
type StudyStats struct {
	CurrentStreak     int                 `json:"currentStreak"`
	BestStreak        int                 `json:"bestStreak"`
	TotalDays         int                 `json:"totalDays"`
	CompletedSessions int                 `json:"completedSessions"`
	TotalFocusMinutes int                 `json:"totalFocusMinutes"`
	StudySessions     map[string]DayStats `json:"studySessions"` // keyed by YYYY-MM-DD (UTC)
}

// DayStats is the per-day slice of StudyStats.
type DayStats struct {
	Count   int `json:"count"`
	Minutes int `json:"minutes"`
}
