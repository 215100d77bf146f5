// internal/domain/study_plan.go
package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// PlanOverview summarises what a plan is for.
type PlanOverview struct {
	Subject  string `bson:"subject" json:"subject"`
	Duration string `bson:"duration" json:"duration"` // free-form, e.g. "42 days"
	ExamDate string `bson:"examDate" json:"examDate"` // YYYY-MM-DD as submitted
}

// DailyTask is one day inside a week of a plan.
type DailyTask struct {
	Day      string   `bson:"day" json:"day"`
	Tasks    []string `bson:"tasks" json:"tasks"`
	Duration string   `bson:"duration" json:"duration"` // free-form, e.g. "2 hours"
}

// WeeklyPlan is one "Week N" block of a plan.
type WeeklyPlan struct {
	Week       string      `bson:"week" json:"week"`
	Goals      []string    `bson:"goals" json:"goals"`
	DailyTasks []DailyTask `bson:"dailyTasks" json:"dailyTasks"`
}

// StudyPlan is an AI generated plan owned by exactly one user.
// At most one active plan may exist per (UserID, NormalizedSubject).
type StudyPlan struct {
	ID                primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID            primitive.ObjectID `bson:"userId" json:"userId"`
	Overview          PlanOverview       `bson:"overview" json:"overview"`
	NormalizedSubject string             `bson:"normalizedSubject" json:"-"`
	ExamAt            time.Time          `bson:"examAt" json:"-"` // parsed Overview.ExamDate, UTC midnight
	WeeklyPlans       []WeeklyPlan       `bson:"weeklyPlans" json:"weeklyPlans"`
	Recommendations   []string           `bson:"recommendations" json:"recommendations"`
	IsActive          bool               `bson:"isActive" json:"isActive"`
	Progress          int                `bson:"progress" json:"progress"` // 0..100
	LastUpdated       time.Time          `bson:"lastUpdated" json:"lastUpdated"`
	CreatedAt         time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt         time.Time          `bson:"updatedAt" json:"updatedAt"`
}
