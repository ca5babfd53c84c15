package controllers

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	config "github.com/ansarhub/donation-tracker-go/config"
	models "github.com/ansarhub/donation-tracker-go/models"
	services "github.com/ansarhub/donation-tracker-go/services"
)

// GetSiteStatistics is the platform-wide rollup: confirmed donation totals,
// distinct donors, and how many projects reached their target. Everything is
// recomputed on each call.
func GetSiteStatistics(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		db := cfg.MongoClient.Database(cfg.DBName)
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		donations := db.Collection("donations")
		confirmed := bson.M{"status": models.DonationStatusConfirmed}

		var (
			wg            sync.WaitGroup
			totalAmount   float64
			donationCount int64
			donorsCount   int
			projects      []models.Project
			totals        map[string]float64
			errs          [4]error
		)

		wg.Add(4)
		go func() {
			defer wg.Done()
			pipeline := mongo.Pipeline{
				{{Key: "$match", Value: confirmed}},
				{{Key: "$group", Value: bson.M{"_id": nil, "total": bson.M{"$sum": "$amount"}}}},
			}
			cursor, err := donations.Aggregate(ctx, pipeline)
			if err != nil {
				errs[0] = err
				return
			}
			var rows []struct {
				Total float64 `bson:"total"`
			}
			if errs[0] = cursor.All(ctx, &rows); errs[0] == nil && len(rows) > 0 {
				totalAmount = rows[0].Total
			}
		}()
		go func() {
			defer wg.Done()
			donationCount, errs[1] = donations.CountDocuments(ctx, confirmed)
		}()
		go func() {
			defer wg.Done()
			// Distinct donors: dedupe the (phone, name) pairs.
			pipeline := mongo.Pipeline{
				{{Key: "$match", Value: confirmed}},
				{{Key: "$project", Value: bson.M{"donorPhone": 1, "donorName": 1}}},
			}
			cursor, err := donations.Aggregate(ctx, pipeline)
			if err != nil {
				errs[2] = err
				return
			}
			var donors []services.DonorIdentity
			if errs[2] = cursor.All(ctx, &donors); errs[2] == nil {
				donorsCount = services.DistinctDonors(donors)
			}
		}()
		go func() {
			defer wg.Done()
			cursor, err := db.Collection("projects").Find(ctx, bson.M{})
			if err != nil {
				errs[3] = err
				return
			}
			if errs[3] = cursor.All(ctx, &projects); errs[3] != nil {
				return
			}
			totals, errs[3] = fetchConfirmedTotals(ctx, donations)
		}()
		wg.Wait()

		for _, err := range errs {
			if err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "could not build statistics"})
				return
			}
		}

		completedProjects := 0
		for _, p := range services.AttachStats(projects, totals) {
			if p.TargetAmount > 0 && p.CurrentAmount >= p.TargetAmount {
				completedProjects++
			}
		}

		c.JSON(http.StatusOK, gin.H{
			"totalDonations":    totalAmount,
			"donationCount":     donationCount,
			"donorsCount":       donorsCount,
			"totalProjects":     len(projects),
			"completedProjects": completedProjects,
		})
	}
}
