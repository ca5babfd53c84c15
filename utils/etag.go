package utils

import (
	"crypto/sha1"
	"fmt"
	"sort"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// GenerateETag derives a stable ETag from a document id and its last update
// time.
func GenerateETag(id primitive.ObjectID, updatedAt time.Time) string {
	sum := sha1.Sum([]byte(id.Hex() + updatedAt.UTC().Format(time.RFC3339Nano)))
	return fmt.Sprintf(`"%x"`, sum[:8])
}

// GenerateStatsETag folds the donation totals into the ETag input. Responses
// that embed derived funding figures change when a donation lands, without
// any project document being written, so the document ETag alone would serve
// a stale 304.
func GenerateStatsETag(id primitive.ObjectID, updatedAt time.Time, totals map[string]float64) string {
	keys := make([]string, 0, len(totals))
	for k := range totals {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	b.WriteString(id.Hex())
	b.WriteString(updatedAt.UTC().Format(time.RFC3339Nano))
	for _, k := range keys {
		fmt.Fprintf(&b, "|%s=%g", k, totals[k])
	}

	sum := sha1.Sum([]byte(b.String()))
	return fmt.Sprintf(`"%x"`, sum[:8])
}
