package utils

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"go.uber.org/zap"

	config "github.com/ansarhub/donation-tracker-go/config"
	models "github.com/ansarhub/donation-tracker-go/models"
)

// MaxImageSizeBytes is the per-image ceiling for uploaded payloads.
const MaxImageSizeBytes = 2 * 1024 * 1024

// Image-count bounds per entity.
const (
	AchievementMinImages = 3
	AchievementMaxImages = 15
	ProjectMinImages     = 3
	ProjectMaxImages     = 5
)

// IsDataURI reports whether the string is a new upload (a data: payload)
// rather than an already hosted URL.
func IsDataURI(s string) bool {
	return strings.HasPrefix(s, "data:")
}

// EncodeDataURI wraps raw bytes as a base64 data URI so uploaded multipart
// files go through the same policy checks as client-encoded images.
func EncodeDataURI(contentType string, data []byte) string {
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	return "data:" + contentType + ";base64," + base64.StdEncoding.EncodeToString(data)
}

// EstimateBase64Size approximates the decoded byte size of a data URI from
// its encoded length (len * 3/4, rounded up). Slight overestimation is
// intentional; padding is not subtracted.
func EstimateBase64Size(dataURI string) int {
	_, payload, found := strings.Cut(dataURI, ",")
	if !found {
		return 0
	}
	return (len(payload)*3 + 3) / 4
}

// ImageInput is an incoming image: either a data URI to upload or a kept
// existing image (hosted URL plus its file id, if known).
type ImageInput struct {
	URL    string `json:"url" form:"url"`
	FileID string `json:"fileId" form:"fileId"`
}

// UnmarshalJSON accepts both the object shape and the legacy bare-string
// shape the older clients send.
func (i *ImageInput) UnmarshalJSON(data []byte) error {
	if len(data) > 0 && data[0] == '"' {
		return json.Unmarshal(data, &i.URL)
	}
	type plain ImageInput
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*i = ImageInput(p)
	return nil
}

// ProcessImages validates the count bound and per-image size ceiling, uploads
// every data-URI entry to Cloudinary under folder, and passes hosted URLs
// through unchanged. Returns an AppError on any policy violation.
func ProcessImages(cfg *config.Config, images []ImageInput, folder string, min, max int) ([]models.ImageRef, error) {
	kept := make([]ImageInput, 0, len(images))
	for _, img := range images {
		img.URL = strings.TrimSpace(img.URL)
		if img.URL != "" {
			kept = append(kept, img)
		}
	}

	if len(kept) < min || len(kept) > max {
		return nil, NewAppError(http.StatusBadRequest,
			fmt.Sprintf("between %d and %d images are required", min, max))
	}

	final := make([]models.ImageRef, 0, len(kept))
	for _, img := range kept {
		if !IsDataURI(img.URL) {
			final = append(final, models.ImageRef{URL: img.URL, FileID: img.FileID})
			continue
		}
		if err := CheckImageSize(img.URL); err != nil {
			return nil, err
		}
		uploaded, err := UploadImage(cfg, img.URL, folder)
		if err != nil {
			return nil, err
		}
		final = append(final, uploaded)
	}

	return final, nil
}

// CheckImageSize rejects malformed data URIs and ones whose estimated
// decoded size exceeds the per-image ceiling. Hosted URLs pass untouched.
func CheckImageSize(dataURI string) error {
	if !IsDataURI(dataURI) {
		return nil
	}
	_, payload, found := strings.Cut(dataURI, ",")
	if !found || payload == "" {
		return NewAppError(http.StatusBadRequest, "invalid image format")
	}
	if EstimateBase64Size(dataURI) > MaxImageSizeBytes {
		return NewAppError(http.StatusBadRequest, "image exceeds the maximum size of 2MB per image")
	}
	return nil
}

// ReconcileFileIDs backfills the file id of kept images that arrived without
// one, matching them to the stored set by URL. Without this a kept image
// would be mistaken for an orphan and released.
func ReconcileFileIDs(stored, processed []models.ImageRef) []models.ImageRef {
	byURL := make(map[string]string, len(stored))
	for _, img := range stored {
		if img.FileID != "" {
			byURL[img.URL] = img.FileID
		}
	}
	for idx, img := range processed {
		if img.FileID == "" {
			processed[idx].FileID = byURL[img.URL]
		}
	}
	return processed
}

// OrphanedFileIDs returns the file ids present in old but absent from the
// replacement set. Those files must be released from the external store.
func OrphanedFileIDs(old, replacement []models.ImageRef) []string {
	keep := make(map[string]bool, len(replacement))
	for _, img := range replacement {
		if img.FileID != "" {
			keep[img.FileID] = true
		}
	}

	var orphans []string
	for _, img := range old {
		if img.FileID != "" && !keep[img.FileID] {
			orphans = append(orphans, img.FileID)
		}
	}
	return orphans
}

// ReleaseImages best-effort deletes the given file ids, logging failures
// instead of failing the request.
func ReleaseImages(cfg *config.Config, fileIDs []string) {
	for _, id := range fileIDs {
		if err := DestroyImage(cfg, id); err != nil {
			Logger.Warn("failed to release image", zap.String("fileId", id), zap.Error(err))
		}
	}
}
