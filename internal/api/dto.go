package api

import (
	"time"

	"mindmentor/study-craft/internal/domain"
)

// UserResponse excludes sensitive info like password hash
type UserResponse struct {
	ID        string    `json:"_id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"createdAt"`
}

func MapUserToResponse(u *domain.User) UserResponse {
	return UserResponse{
		ID:        u.ID.Hex(),
		Name:      u.Name,
		Email:     u.Email,
		CreatedAt: u.CreatedAt,
	}
}

type StudyPlanResponse struct {
	ID              string              `json:"_id"`
	UserID          string              `json:"userId"`
	Overview        domain.PlanOverview `json:"overview"`
	WeeklyPlans     []domain.WeeklyPlan `json:"weeklyPlans"`
	Recommendations []string            `json:"recommendations"`
	IsActive        bool                `json:"isActive"`
	Progress        int                 `json:"progress"`
	LastUpdated     time.Time           `json:"lastUpdated"`
	CreatedAt       time.Time           `json:"createdAt"`
	UpdatedAt       time.Time           `json:"updatedAt"`
}

func MapStudyPlanToResponse(p *domain.StudyPlan) StudyPlanResponse {
	weeks := p.WeeklyPlans
	if weeks == nil {
		weeks = []domain.WeeklyPlan{}
	}
	recs := p.Recommendations
	if recs == nil {
		recs = []string{}
	}
	return StudyPlanResponse{
		ID:              p.ID.Hex(),
		UserID:          p.UserID.Hex(),
		Overview:        p.Overview,
		WeeklyPlans:     weeks,
		Recommendations: recs,
		IsActive:        p.IsActive,
		Progress:        p.Progress,
		LastUpdated:     p.LastUpdated,
		CreatedAt:       p.CreatedAt,
		UpdatedAt:       p.UpdatedAt,
	}
}

func MapStudyPlansToResponse(plans []domain.StudyPlan) []StudyPlanResponse {
	out := make([]StudyPlanResponse, 0, len(plans))
	for i := range plans {
		out = append(out, MapStudyPlanToResponse(&plans[i]))
	}
	return out
}

type ResourceSetResponse struct {
	ID          string            `json:"_id"`
	UserID      string            `json:"userId"`
	Topic       string            `json:"topic"`
	Resources   []domain.Resource `json:"resources"`
	LastUpdated time.Time         `json:"lastUpdated"`
	CreatedAt   time.Time         `json:"createdAt"`
	UpdatedAt   time.Time         `json:"updatedAt"`
}

func MapResourceSetToResponse(s *domain.CuratedResourceSet) ResourceSetResponse {
	resources := s.Resources
	if resources == nil {
		resources = []domain.Resource{}
	}
	return ResourceSetResponse{
		ID:          s.ID.Hex(),
		UserID:      s.UserID.Hex(),
		Topic:       s.Topic,
		Resources:   resources,
		LastUpdated: s.LastUpdated,
		CreatedAt:   s.CreatedAt,
		UpdatedAt:   s.UpdatedAt,
	}
}

func MapResourceSetsToResponse(sets []domain.CuratedResourceSet) []ResourceSetResponse {
	out := make([]ResourceSetResponse, 0, len(sets))
	for i := range sets {
		out = append(out, MapResourceSetToResponse(&sets[i]))
	}
	return out
}

type StudySessionResponse struct {
	ID              string             `json:"_id"`
	Mode            domain.SessionMode `json:"mode"`
	StartedAt       time.Time          `json:"startedAt"`
	EndedAt         time.Time          `json:"endedAt"`
	DurationSeconds int                `json:"durationSeconds"`
}

func MapStudySessionToResponse(s *domain.StudySession) StudySessionResponse {
	return StudySessionResponse{
		ID:              s.ID.Hex(),
		Mode:            s.Mode,
		StartedAt:       s.StartedAt,
		EndedAt:         s.EndedAt,
		DurationSeconds: s.DurationSeconds,
	}
}
