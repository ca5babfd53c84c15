package models

// ImageRef points at a hosted image. FileID is the Cloudinary public ID and
// is empty for legacy images that were stored as a bare URL.
type ImageRef struct {
	URL    string `bson:"url" json:"url"`
	FileID string `bson:"fileId,omitempty" json:"fileId,omitempty"`
}

// FileIDs collects the non-empty file ids of a set of image refs.
func FileIDs(images []ImageRef) []string {
	var ids []string
	for _, img := range images {
		if img.FileID != "" {
			ids = append(ids, img.FileID)
		}
	}
	return ids
}
