package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const DefaultProjectCategory = "للمشاريع العامة"

// Project lifecycle statuses.
const (
	ProjectStatusActive = "active"
	ProjectStatusHidden = "hidden"
	ProjectStatusDraft  = "draft"
)

type Project struct {
	ID               primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Title            string             `bson:"title" json:"title"`
	ShortDescription string             `bson:"shortDescription" json:"shortDescription"`
	Description      string             `bson:"description" json:"description"`
	Category         string             `bson:"category" json:"category"`
	Images           []ImageRef         `bson:"images" json:"images"`
	ImageURL         string             `bson:"imageUrl" json:"imageUrl"` // legacy mirror of Images[0].URL
	TargetAmount     float64            `bson:"targetAmount" json:"targetAmount"`
	IsActive         bool               `bson:"isActive" json:"isActive"`
	IsClosed         bool               `bson:"isClosed" json:"isClosed"`
	Status           string             `bson:"status" json:"status"` // active, hidden, draft
	CreatedAt        time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt        time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// ValidProjectStatus reports whether s is one of the allowed lifecycle values.
func ValidProjectStatus(s string) bool {
	switch s {
	case ProjectStatusActive, ProjectStatusHidden, ProjectStatusDraft:
		return true
	}
	return false
}

// ProjectWithStats is a project plus its derived funding figures. The figures
// are recomputed on every read and never persisted.
type ProjectWithStats struct {
	Project         `bson:",inline"`
	CurrentAmount   float64 `json:"currentAmount"`
	RemainingAmount float64 `json:"remainingAmount"`
	Progress        int     `json:"progress"`
}
