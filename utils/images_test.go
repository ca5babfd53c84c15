package utils

import (
	"encoding/base64"
	"fmt"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	models "github.com/ansarhub/donation-tracker-go/models"
)

func hostedImages(n int) []ImageInput {
	images := make([]ImageInput, n)
	for i := range images {
		images[i] = ImageInput{URL: fmt.Sprintf("https://res.cloudinary.com/demo/image/upload/v1/projects/img%d.jpg", i)}
	}
	return images
}

func TestProcessImagesCountBounds(t *testing.T) {
	tests := []struct {
		name    string
		count   int
		min     int
		max     int
		wantErr bool
	}{
		{"achievement too few", 2, AchievementMinImages, AchievementMaxImages, true},
		{"achievement lower bound", 3, AchievementMinImages, AchievementMaxImages, false},
		{"achievement upper bound", 15, AchievementMinImages, AchievementMaxImages, false},
		{"achievement too many", 16, AchievementMinImages, AchievementMaxImages, true},
		{"project too few", 2, ProjectMinImages, ProjectMaxImages, true},
		{"project upper bound", 5, ProjectMinImages, ProjectMaxImages, false},
		{"project too many", 6, ProjectMinImages, ProjectMaxImages, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Hosted URLs pass through without touching the upload service.
			got, err := ProcessImages(nil, hostedImages(tt.count), "projects", tt.min, tt.max)
			if tt.wantErr {
				require.Error(t, err)
				appErr, ok := err.(*AppError)
				require.True(t, ok)
				assert.Equal(t, http.StatusBadRequest, appErr.StatusCode)
				assert.Contains(t, appErr.Message, fmt.Sprintf("between %d and %d", tt.min, tt.max))
				return
			}
			require.NoError(t, err)
			assert.Len(t, got, tt.count)
		})
	}
}

func TestProcessImagesIgnoresBlankEntries(t *testing.T) {
	images := append(hostedImages(3), ImageInput{URL: "   "}, ImageInput{URL: ""})
	got, err := ProcessImages(nil, images, "projects", 3, 5)
	require.NoError(t, err)
	assert.Len(t, got, 3)
}

func TestProcessImagesKeepsFileIDs(t *testing.T) {
	images := hostedImages(3)
	images[0].FileID = "projects/img0"
	got, err := ProcessImages(nil, images, "projects", 3, 5)
	require.NoError(t, err)
	assert.Equal(t, "projects/img0", got[0].FileID)
	assert.Empty(t, got[1].FileID)
}

func TestIsDataURI(t *testing.T) {
	assert.True(t, IsDataURI("data:image/png;base64,iVBORw0KGgo="))
	assert.False(t, IsDataURI("https://res.cloudinary.com/demo/image/upload/x.jpg"))
	assert.False(t, IsDataURI(""))
}

func TestEstimateBase64Size(t *testing.T) {
	payload := base64.StdEncoding.EncodeToString(make([]byte, 3000))
	uri := "data:image/png;base64," + payload
	est := EstimateBase64Size(uri)
	// The estimate overshoots slightly but never undershoots.
	assert.GreaterOrEqual(t, est, 3000)
	assert.LessOrEqual(t, est, 3003)

	assert.Equal(t, 0, EstimateBase64Size("no comma here"))
}

func TestCheckImageSize(t *testing.T) {
	small := "data:image/png;base64," + strings.Repeat("A", 1000)
	assert.NoError(t, CheckImageSize(small))

	// 2MB of decoded data is ~2.8M base64 characters; exceed it.
	huge := "data:image/png;base64," + strings.Repeat("A", 3*1024*1024)
	err := CheckImageSize(huge)
	require.Error(t, err)
	appErr, ok := err.(*AppError)
	require.True(t, ok)
	assert.Equal(t, http.StatusBadRequest, appErr.StatusCode)

	// Hosted URLs are never size-checked.
	assert.NoError(t, CheckImageSize("https://cdn.example/huge.jpg"))
}

func TestCheckImageSizeMalformedPayload(t *testing.T) {
	// A data URI without a payload must fail validation up front, not as an
	// upload error later.
	for _, uri := range []string{"data:image/png", "data:image/png;base64,"} {
		err := CheckImageSize(uri)
		require.Error(t, err, uri)
		appErr, ok := err.(*AppError)
		require.True(t, ok)
		assert.Equal(t, http.StatusBadRequest, appErr.StatusCode)
		assert.Equal(t, "invalid image format", appErr.Message)
	}
}

func TestOrphanedFileIDs(t *testing.T) {
	old := []models.ImageRef{
		{URL: "a", FileID: "f1"},
		{URL: "b", FileID: "f2"},
		{URL: "c"}, // legacy, no id: never reported
	}
	replacement := []models.ImageRef{
		{URL: "b", FileID: "f2"},
		{URL: "d", FileID: "f3"},
	}

	orphans := OrphanedFileIDs(old, replacement)
	assert.Equal(t, []string{"f1"}, orphans)

	assert.Nil(t, OrphanedFileIDs(old, old))
}

func TestReconcileFileIDs(t *testing.T) {
	stored := []models.ImageRef{
		{URL: "https://cdn/a.jpg", FileID: "projects/a"},
		{URL: "https://cdn/b.jpg", FileID: "projects/b"},
	}
	// The client echoed the kept image back as a bare URL.
	processed := []models.ImageRef{
		{URL: "https://cdn/a.jpg"},
		{URL: "https://cdn/new.jpg", FileID: "projects/new"},
	}

	got := ReconcileFileIDs(stored, processed)
	assert.Equal(t, "projects/a", got[0].FileID)
	assert.Equal(t, "projects/new", got[1].FileID)

	// With the kept id recovered, only the truly dropped image is orphaned.
	assert.Equal(t, []string{"projects/b"}, OrphanedFileIDs(stored, got))
}

func TestImageInputUnmarshalJSON(t *testing.T) {
	var img ImageInput
	require.NoError(t, img.UnmarshalJSON([]byte(`"https://cdn/x.jpg"`)))
	assert.Equal(t, "https://cdn/x.jpg", img.URL)

	var obj ImageInput
	require.NoError(t, obj.UnmarshalJSON([]byte(`{"url":"https://cdn/y.jpg","fileId":"projects/y"}`)))
	assert.Equal(t, "https://cdn/y.jpg", obj.URL)
	assert.Equal(t, "projects/y", obj.FileID)
}

func TestEncodeDataURI(t *testing.T) {
	uri := EncodeDataURI("image/png", []byte{1, 2, 3})
	assert.True(t, strings.HasPrefix(uri, "data:image/png;base64,"))
	assert.True(t, IsDataURI(uri))

	fallback := EncodeDataURI("", []byte{1})
	assert.True(t, strings.HasPrefix(fallback, "data:application/octet-stream;base64,"))
}
