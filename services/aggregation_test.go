package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	models "github.com/ansarhub/donation-tracker-go/models"
)

func TestProjectStats(t *testing.T) {
	tests := []struct {
		name          string
		target        float64
		current       float64
		wantRemaining float64
		wantProgress  int
	}{
		{"no donations", 100000, 0, 100000, 0},
		{"partial", 100000, 40000, 60000, 40},
		{"exact", 100000, 100000, 0, 100},
		{"overshoot capped", 100000, 110000, 0, 100},
		{"zero target", 0, 5000, 0, 0},
		{"rounds half up", 1000, 345, 655, 35},
		{"rounds down", 1000, 344, 656, 34},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stats := ProjectStats(tt.target, tt.current)
			assert.Equal(t, tt.current, stats.CurrentAmount)
			assert.Equal(t, tt.wantRemaining, stats.RemainingAmount)
			assert.Equal(t, tt.wantProgress, stats.Progress)
		})
	}
}

func TestProjectStatsScenario(t *testing.T) {
	// Target 100,000 with confirmed donations of 40,000 and 70,000.
	stats := ProjectStats(100000, 40000+70000)
	assert.Equal(t, float64(110000), stats.CurrentAmount)
	assert.Equal(t, float64(0), stats.RemainingAmount)
	assert.Equal(t, 100, stats.Progress)
}

func TestAttachStats(t *testing.T) {
	funded := models.Project{ID: primitive.NewObjectID(), TargetAmount: 2000}
	unfunded := models.Project{ID: primitive.NewObjectID(), TargetAmount: 500}

	totals := map[string]float64{funded.ID.Hex(): 1500}
	enriched := AttachStats([]models.Project{funded, unfunded}, totals)
	require.Len(t, enriched, 2)

	assert.Equal(t, float64(1500), enriched[0].CurrentAmount)
	assert.Equal(t, float64(500), enriched[0].RemainingAmount)
	assert.Equal(t, 75, enriched[0].Progress)

	// No donations means zero-filled stats, not an error.
	assert.Equal(t, float64(0), enriched[1].CurrentAmount)
	assert.Equal(t, float64(500), enriched[1].RemainingAmount)
	assert.Equal(t, 0, enriched[1].Progress)
}

func TestBuildBreakdown(t *testing.T) {
	bankID := primitive.NewObjectID()
	bank := &models.PaymentMethod{ID: bankID, Name: "بنكك", AccountNumber: "12345", ImageURL: "https://cdn.example/bank.png"}

	rows := []BreakdownRow{
		{MethodID: &bankID, Method: bank, TotalAmount: 750, DonationsCount: 3},
		{MethodID: nil, Method: nil, TotalAmount: 250, DonationsCount: 1},
	}

	total := SumBreakdown(rows)
	require.Equal(t, float64(1000), total)

	entries := BuildBreakdown(rows, total)
	require.Len(t, entries, 2)

	assert.Equal(t, "بنكك", entries[0].Name)
	assert.Equal(t, "12345", entries[0].AccountNumber)
	assert.Equal(t, 75, entries[0].Percentage)
	assert.Equal(t, 3, entries[0].DonationsCount)

	assert.Equal(t, UnknownMethodLabel, entries[1].Name)
	assert.Empty(t, entries[1].AccountNumber)
	assert.Equal(t, 25, entries[1].Percentage)
}

func TestBuildBreakdownPercentageSum(t *testing.T) {
	// Percentages are individually rounded; the sum must stay within one
	// unit per method of 100.
	rows := []BreakdownRow{
		{TotalAmount: 333.33, DonationsCount: 1},
		{TotalAmount: 333.33, DonationsCount: 1},
		{TotalAmount: 333.34, DonationsCount: 1},
	}

	entries := BuildBreakdown(rows, SumBreakdown(rows))
	sum := 0
	for _, e := range entries {
		assert.Equal(t, 33, e.Percentage)
		sum += e.Percentage
	}
	assert.InDelta(t, 100, sum, float64(len(rows)))
}

func TestBuildBreakdownZeroTotal(t *testing.T) {
	rows := []BreakdownRow{{TotalAmount: 0, DonationsCount: 0}}
	entries := BuildBreakdown(rows, 0)
	require.Len(t, entries, 1)
	assert.Equal(t, 0, entries[0].Percentage)
}

func TestDistinctDonors(t *testing.T) {
	donors := []DonorIdentity{
		{Phone: "0912345678", Name: "أحمد"},
		{Phone: "0912345678", Name: "أحمد"}, // repeat donation, same donor
		{Phone: "0912345678", Name: "محمد"}, // same phone, different name
		{Phone: "0999999999", Name: "أحمد"}, // same name, different phone
	}
	assert.Equal(t, 3, DistinctDonors(donors))
	assert.Equal(t, 0, DistinctDonors(nil))
}

func TestDonorKey(t *testing.T) {
	assert.Equal(t, DonorKey("0912345678", "أحمد"), DonorKey("0912345678", "أحمد"))
	assert.NotEqual(t, DonorKey("0912345678", "أحمد"), DonorKey("0912345678", "محمد"))
	assert.NotEqual(t, DonorKey("0912345678", "أحمد"), DonorKey("0999999999", "أحمد"))
	// The separator keeps shifted boundaries distinct.
	assert.NotEqual(t, DonorKey("ab", "c"), DonorKey("a", "bc"))
}
