package controllers

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	config "github.com/ansarhub/donation-tracker-go/config"
	models "github.com/ansarhub/donation-tracker-go/models"
	utils "github.com/ansarhub/donation-tracker-go/utils"
)

// validateMethodImage runs the policy checks on a replacement image. It must
// pass before the existing file is released; releasing first would leave the
// document pointing at a deleted image when the replacement is rejected.
func validateMethodImage(image string) error {
	image = strings.TrimSpace(image)
	if image == "" || !utils.IsDataURI(image) {
		return nil
	}
	return utils.CheckImageSize(image)
}

// resolveMethodImage uploads a data-URI image or passes a hosted URL through.
func resolveMethodImage(cfg *config.Config, image string) (models.ImageRef, error) {
	image = strings.TrimSpace(image)
	if image == "" {
		return models.ImageRef{}, nil
	}
	if !utils.IsDataURI(image) {
		return models.ImageRef{URL: image}, nil
	}
	if err := utils.CheckImageSize(image); err != nil {
		return models.ImageRef{}, err
	}
	return utils.UploadImage(cfg, image, "payment-methods")
}

// ---------------- LIST ----------------
func ListPaymentMethods(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		col := cfg.MongoClient.Database(cfg.DBName).Collection("paymentmethods")
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		// Active-only for donors; admins may ask for everything.
		filter := bson.M{"isActive": true}
		if c.Query("includeInactive") == "true" {
			filter = bson.M{}
		}

		opts := options.Find().SetSort(bson.M{"createdAt": -1})
		cursor, err := col.Find(ctx, filter, opts)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not fetch payment methods"})
			return
		}

		methods := []models.PaymentMethod{}
		if err := cursor.All(ctx, &methods); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not decode payment methods"})
			return
		}

		c.JSON(http.StatusOK, methods)
	}
}

// ---------------- CREATE ----------------
func CreatePaymentMethod(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input struct {
			Name          string `json:"name" binding:"required"`
			AccountNumber string `json:"accountNumber" binding:"required"`
			ImageURL      string `json:"imageUrl"`
			IsActive      *bool  `json:"isActive"`
		}

		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		image, err := resolveMethodImage(cfg, input.ImageURL)
		if err != nil {
			utils.HandleError(c, err)
			return
		}

		isActive := true
		if input.IsActive != nil {
			isActive = *input.IsActive
		}

		now := time.Now()
		method := models.PaymentMethod{
			ID:            primitive.NewObjectID(),
			Name:          input.Name,
			AccountNumber: input.AccountNumber,
			Image:         image,
			ImageURL:      image.URL,
			IsActive:      isActive,
			CreatedAt:     now,
			UpdatedAt:     now,
		}

		col := cfg.MongoClient.Database(cfg.DBName).Collection("paymentmethods")
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if _, err := col.InsertOne(ctx, method); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not create payment method"})
			return
		}

		c.JSON(http.StatusCreated, method)
	}
}

// ---------------- UPDATE ----------------
func UpdatePaymentMethod(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		methodID, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payment method id"})
			return
		}

		col := cfg.MongoClient.Database(cfg.DBName).Collection("paymentmethods")
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		var existing models.PaymentMethod
		if err := col.FindOne(ctx, bson.M{"_id": methodID}).Decode(&existing); err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "payment method not found"})
			return
		}

		var input struct {
			Name          string  `json:"name"`
			AccountNumber string  `json:"accountNumber"`
			ImageURL      *string `json:"imageUrl"`
			IsActive      *bool   `json:"isActive"`
		}

		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		update := bson.M{"updatedAt": time.Now()}

		if input.Name != "" {
			update["name"] = input.Name
		}
		if input.AccountNumber != "" {
			update["accountNumber"] = input.AccountNumber
		}
		if input.IsActive != nil {
			update["isActive"] = *input.IsActive
		}

		if input.ImageURL != nil && *input.ImageURL != existing.Image.URL {
			if err := validateMethodImage(*input.ImageURL); err != nil {
				utils.HandleError(c, err)
				return
			}
			// Release the replaced image before attaching the new one.
			if existing.Image.FileID != "" {
				utils.ReleaseImages(cfg, []string{existing.Image.FileID})
			}
			image, err := resolveMethodImage(cfg, *input.ImageURL)
			if err != nil {
				utils.HandleError(c, err)
				return
			}
			update["image"] = image
			update["imageUrl"] = image.URL
		}

		if len(update) == 1 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "no fields to update"})
			return
		}

		var updated models.PaymentMethod
		err = col.FindOneAndUpdate(ctx,
			bson.M{"_id": methodID},
			bson.M{"$set": update},
			options.FindOneAndUpdate().SetReturnDocument(options.After),
		).Decode(&updated)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not update payment method"})
			return
		}

		c.JSON(http.StatusOK, updated)
	}
}

// ---------------- DELETE ----------------
func DeletePaymentMethod(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		methodID, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payment method id"})
			return
		}

		col := cfg.MongoClient.Database(cfg.DBName).Collection("paymentmethods")
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		var existing models.PaymentMethod
		if err := col.FindOne(ctx, bson.M{"_id": methodID}).Decode(&existing); err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "payment method not found"})
			return
		}

		if _, err := col.DeleteOne(ctx, bson.M{"_id": methodID}); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete payment method"})
			return
		}

		if existing.Image.FileID != "" {
			utils.ReleaseImages(cfg, []string{existing.Image.FileID})
		} else if existing.ImageURL != "" {
			if err := utils.DeleteImageByURL(cfg, existing.ImageURL); err != nil {
				utils.Logger.Warn("failed to release legacy image", zap.Error(err))
			}
		}

		c.JSON(http.StatusOK, gin.H{
			"message": "payment method deleted",
			"id":      methodID.Hex(),
		})
	}
}
