package models

import (
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Donation statuses.
const (
	DonationStatusPending   = "pending"
	DonationStatusConfirmed = "confirmed"
	DonationStatusRejected  = "rejected"
)

// Donation is a donor's claimed contribution. Older documents used
// project/donorName/donorPhone while newer writers used
// projectId/payerName/phone; both sets are kept in sync so either naming
// convention resolves. Always construct through NewDonation.
type Donation struct {
	ID            primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	Project       primitive.ObjectID  `bson:"project" json:"project"`
	ProjectID     primitive.ObjectID  `bson:"projectId" json:"projectId"`
	PaymentMethod *primitive.ObjectID `bson:"paymentMethod,omitempty" json:"paymentMethod,omitempty"`
	Amount        float64             `bson:"amount" json:"amount"`
	DonorName     string              `bson:"donorName,omitempty" json:"donorName,omitempty"`
	PayerName     string              `bson:"payerName,omitempty" json:"payerName,omitempty"`
	DonorPhone    string              `bson:"donorPhone,omitempty" json:"donorPhone,omitempty"`
	Phone         string              `bson:"phone,omitempty" json:"phone,omitempty"`
	PaymentApp    string              `bson:"paymentAppName,omitempty" json:"paymentAppName,omitempty"`
	ReceiptURL    string              `bson:"receiptUrl,omitempty" json:"receiptUrl,omitempty"`
	ReceiptFileID string              `bson:"receiptFileId,omitempty" json:"receiptFileId,omitempty"`
	Status        string              `bson:"status" json:"status"` // pending, confirmed, rejected
	CreatedAt     time.Time           `bson:"createdAt" json:"createdAt"`
	UpdatedAt     time.Time           `bson:"updatedAt" json:"updatedAt"`
}

// NewDonation builds a donation with the aliased fields normalized: the
// project reference is written to both project and projectId, and the donor
// identity to both donorName/payerName and donorPhone/phone.
func NewDonation(projectID primitive.ObjectID, method *primitive.ObjectID, amount float64, name, phone, status string) Donation {
	now := time.Now()
	name = strings.TrimSpace(name)
	phone = strings.TrimSpace(phone)
	return Donation{
		ID:            primitive.NewObjectID(),
		Project:       projectID,
		ProjectID:     projectID,
		PaymentMethod: method,
		Amount:        amount,
		DonorName:     name,
		PayerName:     name,
		DonorPhone:    phone,
		Phone:         phone,
		Status:        status,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

// ValidDonationStatus reports whether s is one of the allowed status values.
func ValidDonationStatus(s string) bool {
	switch s {
	case DonationStatusPending, DonationStatusConfirmed, DonationStatusRejected:
		return true
	}
	return false
}
