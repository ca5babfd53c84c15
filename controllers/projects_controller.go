package controllers

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	config "github.com/ansarhub/donation-tracker-go/config"
	models "github.com/ansarhub/donation-tracker-go/models"
	services "github.com/ansarhub/donation-tracker-go/services"
	utils "github.com/ansarhub/donation-tracker-go/utils"
)

// fetchConfirmedTotals groups confirmed donation amounts by project id.
func fetchConfirmedTotals(ctx context.Context, col *mongo.Collection) (map[string]float64, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"status": models.DonationStatusConfirmed}}},
		{{Key: "$group", Value: bson.M{
			"_id":         "$project",
			"totalAmount": bson.M{"$sum": "$amount"},
		}}},
	}

	cursor, err := col.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}

	var rows []struct {
		ID          primitive.ObjectID `bson:"_id"`
		TotalAmount float64            `bson:"totalAmount"`
	}
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, err
	}

	totals := make(map[string]float64, len(rows))
	for _, row := range rows {
		totals[row.ID.Hex()] = row.TotalAmount
	}
	return totals, nil
}

// ---------------- LIST ----------------
func ListProjects(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		db := cfg.MongoClient.Database(cfg.DBName)
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		// --- Fetch projects and donation totals in parallel ---
		var (
			wg        sync.WaitGroup
			projects  []models.Project
			totals    map[string]float64
			projErr   error
			totalsErr error
		)

		wg.Add(2)
		go func() {
			defer wg.Done()
			opts := options.Find().SetSort(bson.M{"createdAt": -1})
			cursor, err := db.Collection("projects").Find(ctx, bson.M{}, opts)
			if err != nil {
				projErr = err
				return
			}
			projErr = cursor.All(ctx, &projects)
		}()
		go func() {
			defer wg.Done()
			totals, totalsErr = fetchConfirmedTotals(ctx, db.Collection("donations"))
		}()
		wg.Wait()

		if projErr != nil || totalsErr != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not fetch projects"})
			return
		}

		enriched := services.AttachStats(projects, totals)
		if len(enriched) == 0 {
			c.JSON(http.StatusOK, []models.ProjectWithStats{})
			return
		}

		// --- Pick the most recently updated project ---
		latest := projects[0]
		for _, p := range projects {
			if p.UpdatedAt.After(latest.UpdatedAt) {
				latest = p
			}
		}

		// --- Generate ETag from latest project and the donation totals; the
		// stats change when a donation lands without any project write ---
		etag := utils.GenerateStatsETag(latest.ID, latest.UpdatedAt, totals)
		if match := c.GetHeader("If-None-Match"); match != "" && match == etag {
			c.Status(http.StatusNotModified)
			return
		}
		c.Header("ETag", etag)
		c.Header("Last-Modified", latest.UpdatedAt.UTC().Format(http.TimeFormat))

		c.JSON(http.StatusOK, enriched)
	}
}

// ---------------- GET ----------------
func GetProject(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		projectID, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid project id"})
			return
		}

		db := cfg.MongoClient.Database(cfg.DBName)
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		var project models.Project
		if err := db.Collection("projects").FindOne(ctx, bson.M{"_id": projectID}).Decode(&project); err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "project not found"})
			return
		}

		// --- Confirmed donations grouped by payment method, methods joined in ---
		pipeline := mongo.Pipeline{
			{{Key: "$match", Value: bson.M{"project": projectID, "status": models.DonationStatusConfirmed}}},
			{{Key: "$group", Value: bson.M{
				"_id":            "$paymentMethod",
				"totalAmount":    bson.M{"$sum": "$amount"},
				"donationsCount": bson.M{"$sum": 1},
			}}},
			{{Key: "$lookup", Value: bson.M{
				"from":         "paymentmethods",
				"localField":   "_id",
				"foreignField": "_id",
				"as":           "paymentMethod",
			}}},
			{{Key: "$unwind", Value: bson.M{
				"path":                       "$paymentMethod",
				"preserveNullAndEmptyArrays": true,
			}}},
		}

		cursor, err := db.Collection("donations").Aggregate(ctx, pipeline)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not fetch project details"})
			return
		}

		var grouped []struct {
			ID             *primitive.ObjectID   `bson:"_id"`
			TotalAmount    float64               `bson:"totalAmount"`
			DonationsCount int                   `bson:"donationsCount"`
			PaymentMethod  *models.PaymentMethod `bson:"paymentMethod"`
		}
		if err := cursor.All(ctx, &grouped); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not fetch project details"})
			return
		}

		rows := make([]services.BreakdownRow, 0, len(grouped))
		for _, g := range grouped {
			rows = append(rows, services.BreakdownRow{
				MethodID:       g.ID,
				Method:         g.PaymentMethod,
				TotalAmount:    g.TotalAmount,
				DonationsCount: g.DonationsCount,
			})
		}

		currentAmount := services.SumBreakdown(rows)
		stats := services.ProjectStats(project.TargetAmount, currentAmount)
		breakdown := services.BuildBreakdown(rows, currentAmount)

		etag := utils.GenerateStatsETag(project.ID, project.UpdatedAt,
			map[string]float64{project.ID.Hex(): currentAmount})
		if match := c.GetHeader("If-None-Match"); match != "" && match == etag {
			c.Status(http.StatusNotModified)
			return
		}
		c.Header("ETag", etag)

		c.JSON(http.StatusOK, gin.H{
			"project": models.ProjectWithStats{
				Project:         project,
				CurrentAmount:   stats.CurrentAmount,
				RemainingAmount: stats.RemainingAmount,
				Progress:        stats.Progress,
			},
			"stats":            stats,
			"paymentBreakdown": breakdown,
		})
	}
}

// ---------------- CREATE ----------------
func CreateProject(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input struct {
			Title            string             `json:"title" binding:"required"`
			ShortDescription string             `json:"shortDescription" binding:"required"`
			Description      string             `json:"description" binding:"required"`
			Category         string             `json:"category"`
			Images           []utils.ImageInput `json:"images"`
			TargetAmount     float64            `json:"targetAmount" binding:"gte=0"`
			Status           string             `json:"status"`
			IsActive         *bool              `json:"isActive"`
		}

		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		if input.Status == "" {
			input.Status = models.ProjectStatusActive
		}
		if !models.ValidProjectStatus(input.Status) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid project status"})
			return
		}

		images, err := utils.ProcessImages(cfg, input.Images, "projects", utils.ProjectMinImages, utils.ProjectMaxImages)
		if err != nil {
			utils.HandleError(c, err)
			return
		}

		isActive := true
		if input.IsActive != nil {
			isActive = *input.IsActive
		}
		category := input.Category
		if category == "" {
			category = models.DefaultProjectCategory
		}

		now := time.Now()
		project := models.Project{
			ID:               primitive.NewObjectID(),
			Title:            input.Title,
			ShortDescription: input.ShortDescription,
			Description:      input.Description,
			Category:         category,
			Images:           images,
			ImageURL:         images[0].URL,
			TargetAmount:     input.TargetAmount,
			IsActive:         isActive,
			Status:           input.Status,
			CreatedAt:        now,
			UpdatedAt:        now,
		}

		col := cfg.MongoClient.Database(cfg.DBName).Collection("projects")
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if _, err := col.InsertOne(ctx, project); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not create project"})
			return
		}

		c.JSON(http.StatusCreated, project)
	}
}

// ---------------- UPDATE ----------------
func UpdateProject(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		projectID, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid project id"})
			return
		}

		col := cfg.MongoClient.Database(cfg.DBName).Collection("projects")
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		var existing models.Project
		if err := col.FindOne(ctx, bson.M{"_id": projectID}).Decode(&existing); err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "project not found"})
			return
		}

		var input struct {
			Title            string              `json:"title"`
			ShortDescription string              `json:"shortDescription"`
			Description      string              `json:"description"`
			Category         string              `json:"category"`
			Images           *[]utils.ImageInput `json:"images"`
			TargetAmount     *float64            `json:"targetAmount"`
			Status           string              `json:"status"`
			IsActive         *bool               `json:"isActive"`
			IsClosed         *bool               `json:"isClosed"`
		}

		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		update := bson.M{"updatedAt": time.Now()}

		if input.Title != "" {
			update["title"] = input.Title
		}
		if input.ShortDescription != "" {
			update["shortDescription"] = input.ShortDescription
		}
		if input.Description != "" {
			update["description"] = input.Description
		}
		if input.Category != "" {
			update["category"] = input.Category
		}
		if input.TargetAmount != nil {
			if *input.TargetAmount < 0 {
				c.JSON(http.StatusBadRequest, gin.H{"error": "target amount must not be negative"})
				return
			}
			update["targetAmount"] = *input.TargetAmount
		}
		if input.Status != "" {
			if !models.ValidProjectStatus(input.Status) {
				c.JSON(http.StatusBadRequest, gin.H{"error": "invalid project status"})
				return
			}
			update["status"] = input.Status
		}
		if input.IsActive != nil {
			update["isActive"] = *input.IsActive
		}
		if input.IsClosed != nil {
			update["isClosed"] = *input.IsClosed
		}

		// --- Replace images, releasing the ones no longer referenced ---
		var orphans []string
		if input.Images != nil {
			images, err := utils.ProcessImages(cfg, *input.Images, "projects", utils.ProjectMinImages, utils.ProjectMaxImages)
			if err != nil {
				utils.HandleError(c, err)
				return
			}
			images = utils.ReconcileFileIDs(existing.Images, images)
			orphans = utils.OrphanedFileIDs(existing.Images, images)
			update["images"] = images
			update["imageUrl"] = images[0].URL
		}

		if len(update) == 1 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "no fields to update"})
			return
		}

		if _, err := col.UpdateOne(ctx, bson.M{"_id": projectID}, bson.M{"$set": update}); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not update project"})
			return
		}

		utils.ReleaseImages(cfg, orphans)

		var updated models.Project
		if err := col.FindOne(ctx, bson.M{"_id": projectID}).Decode(&updated); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to retrieve updated project"})
			return
		}

		c.JSON(http.StatusOK, updated)
	}
}
