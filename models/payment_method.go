package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type PaymentMethod struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name          string             `bson:"name" json:"name"`
	AccountNumber string             `bson:"accountNumber" json:"accountNumber"`
	Image         ImageRef           `bson:"image,omitempty" json:"image,omitempty"`
	ImageURL      string             `bson:"imageUrl" json:"imageUrl"` // legacy mirror of Image.URL
	IsActive      bool               `bson:"isActive" json:"isActive"`
	CreatedAt     time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt     time.Time          `bson:"updatedAt" json:"updatedAt"`
}
