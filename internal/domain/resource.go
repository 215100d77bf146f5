package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ResourceType is derived from a resource link; it is a hint, not authoritative.
type ResourceType string

const (
	ResourceTypeVideo      ResourceType = "video"
	ResourceTypeRepository ResourceType = "repository"
	ResourceTypeCourse     ResourceType = "course"
	ResourceTypeArticle    ResourceType = "article"
	ResourceTypeWebsite    ResourceType = "website"
)

// Resource is a single curated learning link.
type Resource struct {
	Title       string       `bson:"title" json:"title"`
	Link        string       `bson:"link" json:"link"`
	Type        ResourceType `bson:"type" json:"type"`
	Description string       `bson:"description" json:"description"`
	Benefits    []string     `bson:"benefits,omitempty" json:"benefits,omitempty"`
}

// CuratedResourceSet is the list of resources curated for one topic of one user.
// Topic holds the normalized subject and is unique per user.
type CuratedResourceSet struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID      primitive.ObjectID `bson:"userId" json:"userId"`
	Topic       string             `bson:"topic" json:"topic"`
	Resources   []Resource         `bson:"resources" json:"resources"`
	LastUpdated time.Time          `bson:"lastUpdated" json:"lastUpdated"`
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time          `bson:"updatedAt" json:"updatedAt"`
}
