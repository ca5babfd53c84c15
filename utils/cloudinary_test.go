package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractPublicID(t *testing.T) {
	publicID, err := ExtractPublicID("https://res.cloudinary.com/demo/image/upload/v1234567890/projects/abc123.jpg")
	require.NoError(t, err)
	assert.Equal(t, "projects/abc123", publicID)
}

func TestExtractPublicIDWithoutVersion(t *testing.T) {
	publicID, err := ExtractPublicID("https://res.cloudinary.com/demo/image/upload/receipts/r9.png")
	require.NoError(t, err)
	assert.Equal(t, "receipts/r9", publicID)
}

func TestExtractPublicIDInvalid(t *testing.T) {
	_, err := ExtractPublicID("://not a url")
	assert.Error(t, err)

	_, err = ExtractPublicID("https://cdn.example/no-upload-segment.jpg")
	assert.Error(t, err)
}
