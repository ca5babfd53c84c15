package utils

import (
	"context"
	"fmt"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"

	config "github.com/ansarhub/donation-tracker-go/config"
	models "github.com/ansarhub/donation-tracker-go/models"
)

func getCloudinaryInstance(cfg *config.Config) (*cloudinary.Cloudinary, error) {
	return cloudinary.NewFromParams(
		cfg.CloudinaryCloudName,
		cfg.CloudinaryAPIKey,
		cfg.CloudinaryAPISecret,
	)
}

// UploadImage sends a base64 data URI to Cloudinary under the given folder
// and returns the hosted URL together with the public ID needed to delete it
// later.
func UploadImage(cfg *config.Config, dataURI, folder string) (models.ImageRef, error) {
	cld, err := getCloudinaryInstance(cfg)
	if err != nil {
		return models.ImageRef{}, fmt.Errorf("cloudinary config error: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	uploadResp, err := cld.Upload.Upload(ctx, dataURI, uploader.UploadParams{
		Folder: folder,
	})
	if err != nil {
		return models.ImageRef{}, fmt.Errorf("upload error: %v", err)
	}

	return models.ImageRef{
		URL:    uploadResp.SecureURL,
		FileID: uploadResp.PublicID,
	}, nil
}

// DestroyImage deletes an uploaded image by its public ID.
func DestroyImage(cfg *config.Config, fileID string) error {
	cld, err := getCloudinaryInstance(cfg)
	if err != nil {
		return fmt.Errorf("cloudinary config error: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	_, err = cld.Upload.Destroy(ctx, uploader.DestroyParams{
		PublicID: fileID,
	})
	if err != nil {
		return fmt.Errorf("delete error: %v", err)
	}

	return nil
}

// DeleteImageByURL removes a legacy image that was stored without a file ID,
// recovering the public ID from the hosted URL.
func DeleteImageByURL(cfg *config.Config, imageURL string) error {
	publicID, err := ExtractPublicID(imageURL)
	if err != nil {
		return fmt.Errorf("could not extract public ID: %v", err)
	}
	return DestroyImage(cfg, publicID)
}

// ExtractPublicID recovers the Cloudinary public ID from a full delivery URL.
func ExtractPublicID(imageURL string) (string, error) {
	parsedURL, err := url.Parse(imageURL)
	if err != nil {
		return "", err
	}

	// Example: https://res.cloudinary.com/demo/image/upload/v1234567890/projects/abc123.jpg
	parts := strings.Split(strings.Trim(parsedURL.Path, "/"), "/")

	uploadIdx := -1
	for i, p := range parts {
		if p == "upload" {
			uploadIdx = i
			break
		}
	}
	if uploadIdx < 0 || uploadIdx == len(parts)-1 {
		return "", fmt.Errorf("invalid cloudinary URL format")
	}

	rest := parts[uploadIdx+1:]

	// Drop the version segment (e.g. v1234567890)
	if len(rest) > 1 && strings.HasPrefix(rest[0], "v") && isDigits(rest[0][1:]) {
		rest = rest[1:]
	}

	// Folder + filename without extension
	publicID := strings.TrimSuffix(path.Join(rest...), path.Ext(rest[len(rest)-1]))

	return publicID, nil
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
