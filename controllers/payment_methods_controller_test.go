package controllers

import (
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	utils "github.com/ansarhub/donation-tracker-go/utils"
)

func TestValidateMethodImage(t *testing.T) {
	// Hosted URLs and empty input need no checks.
	assert.NoError(t, validateMethodImage(""))
	assert.NoError(t, validateMethodImage("   "))
	assert.NoError(t, validateMethodImage("https://res.cloudinary.com/demo/image/upload/v1/payment-methods/a.png"))

	small := "data:image/png;base64," + strings.Repeat("A", 1000)
	assert.NoError(t, validateMethodImage(small))
}

func TestValidateMethodImageRejectsBeforeRelease(t *testing.T) {
	// An oversized or malformed replacement must fail validation up front;
	// the update handler only releases the existing file after this passes,
	// so a rejected replacement leaves the stored image intact.
	oversized := "data:image/png;base64," + strings.Repeat("A", 3*1024*1024)
	err := validateMethodImage(oversized)
	require.Error(t, err)
	appErr, ok := err.(*utils.AppError)
	require.True(t, ok)
	assert.Equal(t, http.StatusBadRequest, appErr.StatusCode)

	err = validateMethodImage("data:image/png")
	require.Error(t, err)
	appErr, ok = err.(*utils.AppError)
	require.True(t, ok)
	assert.Equal(t, http.StatusBadRequest, appErr.StatusCode)
}
