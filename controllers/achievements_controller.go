package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"

	config "github.com/ansarhub/donation-tracker-go/config"
	models "github.com/ansarhub/donation-tracker-go/models"
	utils "github.com/ansarhub/donation-tracker-go/utils"
)

func parseAchievementDate(raw string) (time.Time, bool) {
	parsed, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		// Try fallback formats
		layouts := []string{"2006-01-02", "2006-01-02 15:04", "2006-01-02 15:04:05"}
		for _, layout := range layouts {
			if t, e := time.Parse(layout, raw); e == nil {
				return t, true
			}
		}
		return time.Time{}, false
	}
	return parsed, true
}

// ---------------- LIST ----------------
func ListAchievements(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		col := cfg.MongoClient.Database(cfg.DBName).Collection("achievements")
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		filter := bson.M{}
		if c.Query("showOnHome") == "true" {
			filter["showOnHome"] = true
		}

		opts := options.Find().SetSort(bson.D{{Key: "date", Value: -1}, {Key: "createdAt", Value: -1}})
		cursor, err := col.Find(ctx, filter, opts)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not fetch achievements"})
			return
		}

		var achievements []models.Achievement
		if err := cursor.All(ctx, &achievements); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not decode achievements"})
			return
		}

		if len(achievements) == 0 {
			c.JSON(http.StatusOK, []models.Achievement{})
			return
		}

		// --- Pick the most recently updated achievement ---
		latest := achievements[0]
		for _, a := range achievements {
			if a.UpdatedAt.After(latest.UpdatedAt) {
				latest = a
			}
		}

		etag := utils.GenerateETag(latest.ID, latest.UpdatedAt)
		if match := c.GetHeader("If-None-Match"); match != "" && match == etag {
			c.Status(http.StatusNotModified)
			return
		}
		c.Header("ETag", etag)
		c.Header("Last-Modified", latest.UpdatedAt.UTC().Format(http.TimeFormat))

		c.JSON(http.StatusOK, achievements)
	}
}

// ---------------- GET ----------------
func GetAchievement(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		achievementID, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid achievement id"})
			return
		}

		var achievement models.Achievement
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		err = cfg.MongoClient.Database(cfg.DBName).
			Collection("achievements").
			FindOne(ctx, bson.M{"_id": achievementID}).
			Decode(&achievement)
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "achievement not found"})
			return
		}

		etag := utils.GenerateETag(achievement.ID, achievement.UpdatedAt)
		if match := c.GetHeader("If-None-Match"); match != "" && match == etag {
			c.Status(http.StatusNotModified)
			return
		}
		c.Header("ETag", etag)

		c.JSON(http.StatusOK, achievement)
	}
}

// ---------------- CREATE ----------------
func CreateAchievement(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input struct {
			Title            string             `json:"title" binding:"required"`
			ShortDescription string             `json:"shortDescription" binding:"required"`
			FullDescription  string             `json:"fullDescription" binding:"required"`
			Date             string             `json:"date" binding:"required"`
			Location         string             `json:"location"`
			Images           []utils.ImageInput `json:"images"`
			Videos           []string           `json:"videos"`
			ShowOnHome       bool               `json:"showOnHome"`
		}

		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		date, ok := parseAchievementDate(input.Date)
		if !ok {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid date format, use RFC3339 or YYYY-MM-DD"})
			return
		}

		images, err := utils.ProcessImages(cfg, input.Images, "achievements", utils.AchievementMinImages, utils.AchievementMaxImages)
		if err != nil {
			utils.HandleError(c, err)
			return
		}

		now := time.Now()
		achievement := models.Achievement{
			ID:               primitive.NewObjectID(),
			Title:            input.Title,
			ShortDescription: input.ShortDescription,
			FullDescription:  input.FullDescription,
			Date:             date,
			Location:         input.Location,
			Images:           images,
			Videos:           models.NormalizeVideos(input.Videos),
			ShowOnHome:       input.ShowOnHome,
			CreatedAt:        now,
			UpdatedAt:        now,
		}

		col := cfg.MongoClient.Database(cfg.DBName).Collection("achievements")
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if _, err := col.InsertOne(ctx, achievement); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not create achievement"})
			return
		}

		c.JSON(http.StatusCreated, achievement)
	}
}

// ---------------- UPDATE ----------------
func UpdateAchievement(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		achievementID, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid achievement id"})
			return
		}

		col := cfg.MongoClient.Database(cfg.DBName).Collection("achievements")
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		var existing models.Achievement
		if err := col.FindOne(ctx, bson.M{"_id": achievementID}).Decode(&existing); err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "achievement not found"})
			return
		}

		var input struct {
			Title            string              `json:"title"`
			ShortDescription string              `json:"shortDescription"`
			FullDescription  string              `json:"fullDescription"`
			Date             string              `json:"date"`
			Location         *string             `json:"location"`
			Images           *[]utils.ImageInput `json:"images"`
			Videos           *[]string           `json:"videos"`
			ShowOnHome       *bool               `json:"showOnHome"`
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
		if input.FullDescription != "" {
			update["fullDescription"] = input.FullDescription
		}
		if input.Date != "" {
			date, ok := parseAchievementDate(input.Date)
			if !ok {
				c.JSON(http.StatusBadRequest, gin.H{"error": "invalid date format, use RFC3339 or YYYY-MM-DD"})
				return
			}
			update["date"] = date
		}
		if input.Location != nil {
			update["location"] = *input.Location
		}
		if input.Videos != nil {
			update["videos"] = models.NormalizeVideos(*input.Videos)
		}
		if input.ShowOnHome != nil {
			update["showOnHome"] = *input.ShowOnHome
		}

		// --- Replace images, releasing the ones no longer referenced ---
		var orphans []string
		if input.Images != nil {
			images, err := utils.ProcessImages(cfg, *input.Images, "achievements", utils.AchievementMinImages, utils.AchievementMaxImages)
			if err != nil {
				utils.HandleError(c, err)
				return
			}
			images = utils.ReconcileFileIDs(existing.Images, images)
			orphans = utils.OrphanedFileIDs(existing.Images, images)
			update["images"] = images
		}

		if len(update) == 1 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "no fields to update"})
			return
		}

		if _, err := col.UpdateOne(ctx, bson.M{"_id": achievementID}, bson.M{"$set": update}); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not update achievement"})
			return
		}

		utils.ReleaseImages(cfg, orphans)

		var updated models.Achievement
		if err := col.FindOne(ctx, bson.M{"_id": achievementID}).Decode(&updated); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to retrieve updated achievement"})
			return
		}

		c.JSON(http.StatusOK, updated)
	}
}

// ---------------- DELETE ----------------
func DeleteAchievement(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		achievementID, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid achievement id"})
			return
		}

		col := cfg.MongoClient.Database(cfg.DBName).Collection("achievements")
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		var existing models.Achievement
		if err := col.FindOne(ctx, bson.M{"_id": achievementID}).Decode(&existing); err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "achievement not found"})
			return
		}

		res, err := col.DeleteOne(ctx, bson.M{"_id": achievementID})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete achievement"})
			return
		}
		if res.DeletedCount == 0 {
			c.JSON(http.StatusNotFound, gin.H{"error": "achievement not found"})
			return
		}

		utils.ReleaseImages(cfg, models.FileIDs(existing.Images))

		c.JSON(http.StatusOK, gin.H{
			"message": "achievement deleted",
			"id":      achievementID.Hex(),
		})
	}
}
