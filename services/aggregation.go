package services

import (
	"math"

	"go.mongodb.org/mongo-driver/bson/primitive"

	models "github.com/ansarhub/donation-tracker-go/models"
)

// UnknownMethodLabel is shown when a donation carries no resolvable payment
// method reference.
const UnknownMethodLabel = "غير محدد"

// FundingStats are the derived per-project figures. They are recomputed from
// the donations collection on every read and never stored.
type FundingStats struct {
	CurrentAmount   float64 `json:"currentAmount"`
	TargetAmount    float64 `json:"targetAmount"`
	RemainingAmount float64 `json:"remainingAmount"`
	Progress        int     `json:"progress"`
}

// ProjectStats computes current/remaining/progress for a single project.
// Progress is capped at 100 and is 0 whenever the target is 0.
func ProjectStats(targetAmount, currentAmount float64) FundingStats {
	remaining := math.Max(targetAmount-currentAmount, 0)
	progress := 0
	if targetAmount > 0 {
		progress = int(math.Min(100, math.Round(currentAmount/targetAmount*100)))
	}
	return FundingStats{
		CurrentAmount:   currentAmount,
		TargetAmount:    targetAmount,
		RemainingAmount: remaining,
		Progress:        progress,
	}
}

// AttachStats enriches every project with its funding figures. Projects with
// no donations get zero-filled stats, not an error.
func AttachStats(projects []models.Project, totals map[string]float64) []models.ProjectWithStats {
	enriched := make([]models.ProjectWithStats, 0, len(projects))
	for _, p := range projects {
		stats := ProjectStats(p.TargetAmount, totals[p.ID.Hex()])
		enriched = append(enriched, models.ProjectWithStats{
			Project:         p,
			CurrentAmount:   stats.CurrentAmount,
			RemainingAmount: stats.RemainingAmount,
			Progress:        stats.Progress,
		})
	}
	return enriched
}

// BreakdownRow is one grouped aggregation row: the confirmed donation total
// and count for one payment method of a project. Method is nil when the
// donations carried no method reference.
type BreakdownRow struct {
	MethodID       *primitive.ObjectID
	Method         *models.PaymentMethod
	TotalAmount    float64
	DonationsCount int
}

// BreakdownEntry is the API shape of one payment-method share.
type BreakdownEntry struct {
	PaymentMethodID *primitive.ObjectID `json:"paymentMethodId,omitempty"`
	Name            string              `json:"name"`
	ImageURL        string              `json:"imageUrl"`
	AccountNumber   string              `json:"accountNumber"`
	TotalAmount     float64             `json:"totalAmount"`
	DonationsCount  int                 `json:"donationsCount"`
	Percentage      int                 `json:"percentage"`
}

// BuildBreakdown joins method display data into the grouped rows and computes
// each method's share of the project total. Percentage is 0 when the total is
// 0; floating rounding may push the sum slightly off 100 and is tolerated.
func BuildBreakdown(rows []BreakdownRow, currentAmount float64) []BreakdownEntry {
	entries := make([]BreakdownEntry, 0, len(rows))
	for _, row := range rows {
		entry := BreakdownEntry{
			PaymentMethodID: row.MethodID,
			Name:            UnknownMethodLabel,
			TotalAmount:     row.TotalAmount,
			DonationsCount:  row.DonationsCount,
		}
		if row.Method != nil {
			entry.Name = row.Method.Name
			entry.AccountNumber = row.Method.AccountNumber
			entry.ImageURL = row.Method.ImageURL
			if entry.ImageURL == "" {
				entry.ImageURL = row.Method.Image.URL
			}
		}
		if currentAmount > 0 {
			entry.Percentage = int(math.Round(row.TotalAmount / currentAmount * 100))
		}
		entries = append(entries, entry)
	}
	return entries
}

// SumBreakdown totals the grouped rows; this is the project's current amount
// on the detail path.
func SumBreakdown(rows []BreakdownRow) float64 {
	var sum float64
	for _, row := range rows {
		sum += row.TotalAmount
	}
	return sum
}

// DonorKey is the distinct-donor grouping key: two donations sharing both
// phone and name count as one donor.
func DonorKey(phone, name string) string {
	return phone + "\x00" + name
}

// DonorIdentity is the (phone, name) pair of one donation.
type DonorIdentity struct {
	Phone string `bson:"donorPhone"`
	Name  string `bson:"donorName"`
}

// DistinctDonors counts the unique donors among the given pairs.
func DistinctDonors(donors []DonorIdentity) int {
	seen := make(map[string]struct{}, len(donors))
	for _, d := range donors {
		seen[DonorKey(d.Phone, d.Name)] = struct{}{}
	}
	return len(seen)
}
