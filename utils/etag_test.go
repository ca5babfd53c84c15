package utils

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestGenerateETagStable(t *testing.T) {
	id := primitive.NewObjectID()
	at := time.Now()

	assert.Equal(t, GenerateETag(id, at), GenerateETag(id, at))
	assert.NotEqual(t, GenerateETag(id, at), GenerateETag(id, at.Add(time.Second)))
	assert.True(t, strings.HasPrefix(GenerateETag(id, at), `"`))
}

func TestGenerateStatsETagReflectsTotals(t *testing.T) {
	id := primitive.NewObjectID()
	at := time.Now()
	projectHex := primitive.NewObjectID().Hex()

	before := GenerateStatsETag(id, at, map[string]float64{projectHex: 40000})

	// Same document state and same totals: same tag.
	assert.Equal(t, before, GenerateStatsETag(id, at, map[string]float64{projectHex: 40000}))

	// A new confirmed donation changes the totals but writes no project
	// document; the tag must still change.
	after := GenerateStatsETag(id, at, map[string]float64{projectHex: 110000})
	assert.NotEqual(t, before, after)

	// A donation for a previously unfunded project changes the tag too.
	other := GenerateStatsETag(id, at, map[string]float64{
		projectHex:                     40000,
		primitive.NewObjectID().Hex(): 500,
	})
	assert.NotEqual(t, before, other)
}

func TestGenerateStatsETagOrderIndependent(t *testing.T) {
	id := primitive.NewObjectID()
	at := time.Now()
	a, b := primitive.NewObjectID().Hex(), primitive.NewObjectID().Hex()

	// Map iteration order must not leak into the tag.
	first := GenerateStatsETag(id, at, map[string]float64{a: 1, b: 2})
	for range 10 {
		assert.Equal(t, first, GenerateStatsETag(id, at, map[string]float64{b: 2, a: 1}))
	}
}

func TestGenerateStatsETagEmptyTotals(t *testing.T) {
	id := primitive.NewObjectID()
	at := time.Now()

	assert.Equal(t,
		GenerateStatsETag(id, at, nil),
		GenerateStatsETag(id, at, map[string]float64{}))
}
