package models

import (
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Achievement struct {
	ID               primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Title            string             `bson:"title" json:"title"`
	ShortDescription string             `bson:"shortDescription" json:"shortDescription"`
	FullDescription  string             `bson:"fullDescription" json:"fullDescription"`
	Date             time.Time          `bson:"date" json:"date"`
	Location         string             `bson:"location,omitempty" json:"location,omitempty"`
	Images           []ImageRef         `bson:"images" json:"images"`
	Videos           []string           `bson:"videos" json:"videos"`
	ShowOnHome       bool               `bson:"showOnHome" json:"showOnHome"`
	CreatedAt        time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt        time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// NormalizeVideos trims the entries and drops empty ones.
func NormalizeVideos(videos []string) []string {
	out := []string{}
	for _, v := range videos {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
