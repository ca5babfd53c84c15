package controllers

import (
	"testing"

	"github.com/stretchr/testify/assert"

	models "github.com/ansarhub/donation-tracker-go/models"
)

func TestDonationInstruction(t *testing.T) {
	method := models.PaymentMethod{Name: "بنكك", AccountNumber: "12345"}

	assert.Equal(t, "أرسل المبلغ 500 إلى 12345 عبر بنكك", donationInstruction(500, method))

	// Fractional amounts are rendered exactly, not rounded.
	assert.Equal(t, "أرسل المبلغ 1500.75 إلى 12345 عبر بنكك", donationInstruction(1500.75, method))
	assert.Equal(t, "أرسل المبلغ 0.5 إلى 12345 عبر بنكك", donationInstruction(0.5, method))
}
