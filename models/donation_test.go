package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestNewDonationNormalizesAliases(t *testing.T) {
	projectID := primitive.NewObjectID()
	methodID := primitive.NewObjectID()

	d := NewDonation(projectID, &methodID, 500, "  أحمد ", " 0912345678 ", DonationStatusConfirmed)

	assert.Equal(t, projectID, d.Project)
	assert.Equal(t, projectID, d.ProjectID)
	assert.Equal(t, "أحمد", d.DonorName)
	assert.Equal(t, d.DonorName, d.PayerName)
	assert.Equal(t, "0912345678", d.DonorPhone)
	assert.Equal(t, d.DonorPhone, d.Phone)
	assert.Equal(t, DonationStatusConfirmed, d.Status)
	assert.Equal(t, &methodID, d.PaymentMethod)
	assert.False(t, d.ID.IsZero())
	assert.False(t, d.CreatedAt.IsZero())
}

func TestNewDonationWithoutMethod(t *testing.T) {
	d := NewDonation(primitive.NewObjectID(), nil, 100, "", "", DonationStatusPending)
	assert.Nil(t, d.PaymentMethod)
	assert.Equal(t, DonationStatusPending, d.Status)
}

func TestValidDonationStatus(t *testing.T) {
	assert.True(t, ValidDonationStatus("pending"))
	assert.True(t, ValidDonationStatus("confirmed"))
	assert.True(t, ValidDonationStatus("rejected"))

	assert.False(t, ValidDonationStatus("archived"))
	assert.False(t, ValidDonationStatus(""))
	assert.False(t, ValidDonationStatus("Confirmed"))
}

func TestValidProjectStatus(t *testing.T) {
	assert.True(t, ValidProjectStatus("active"))
	assert.True(t, ValidProjectStatus("hidden"))
	assert.True(t, ValidProjectStatus("draft"))
	assert.False(t, ValidProjectStatus("closed"))
}

func TestNormalizeVideos(t *testing.T) {
	got := NormalizeVideos([]string{" https://youtu.be/a ", "", "  ", "https://youtu.be/b"})
	assert.Equal(t, []string{"https://youtu.be/a", "https://youtu.be/b"}, got)

	assert.Equal(t, []string{}, NormalizeVideos(nil))
}

func TestFileIDs(t *testing.T) {
	images := []ImageRef{
		{URL: "a", FileID: "f1"},
		{URL: "b"},
		{URL: "c", FileID: "f3"},
	}
	assert.Equal(t, []string{"f1", "f3"}, FileIDs(images))
	assert.Nil(t, FileIDs(nil))
}
