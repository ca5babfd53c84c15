package controllers

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	config "github.com/ansarhub/donation-tracker-go/config"
	models "github.com/ansarhub/donation-tracker-go/models"
	utils "github.com/ansarhub/donation-tracker-go/utils"
)

// donationInstruction tells the donor where to send the amount. The amount
// is rendered exactly as claimed, fractional part included.
func donationInstruction(amount float64, method models.PaymentMethod) string {
	return fmt.Sprintf("أرسل المبلغ %s إلى %s عبر %s",
		strconv.FormatFloat(amount, 'f', -1, 64), method.AccountNumber, method.Name)
}

// ---------------- CREATE (simple JSON flow) ----------------
func CreateDonation(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input struct {
			ProjectID       string  `json:"projectId"`
			Project         string  `json:"project"` // legacy alias for projectId
			PaymentMethodID string  `json:"paymentMethodId" binding:"required"`
			Amount          float64 `json:"amount" binding:"required,gt=0"`
			DonorName       string  `json:"donorName"`
			DonorPhone      string  `json:"donorPhone"`
		}

		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		projectHex := input.ProjectID
		if projectHex == "" {
			projectHex = input.Project
		}
		projectID, err := primitive.ObjectIDFromHex(projectHex)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid project id"})
			return
		}
		methodID, err := primitive.ObjectIDFromHex(input.PaymentMethodID)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payment method id"})
			return
		}

		db := cfg.MongoClient.Database(cfg.DBName)
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		var project models.Project
		if err := db.Collection("projects").FindOne(ctx, bson.M{"_id": projectID}).Decode(&project); err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "project not found"})
			return
		}

		var method models.PaymentMethod
		err = db.Collection("paymentmethods").FindOne(ctx, bson.M{"_id": methodID}).Decode(&method)
		if err != nil || !method.IsActive {
			c.JSON(http.StatusBadRequest, gin.H{"error": "payment method unavailable"})
			return
		}

		donation := models.NewDonation(projectID, &methodID, input.Amount,
			input.DonorName, input.DonorPhone, models.DonationStatusConfirmed)

		if _, err := db.Collection("donations").InsertOne(ctx, donation); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not create donation"})
			return
		}

		c.JSON(http.StatusCreated, gin.H{
			"donation":      donation,
			"instruction":   donationInstruction(input.Amount, method),
			"paymentMethod": method,
		})
	}
}

// ---------------- CREATE (receipt-bearing multipart flow) ----------------
func CreateDonationWithReceipt(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input struct {
			ProjectID       string  `form:"projectId" binding:"required"`
			PaymentMethodID string  `form:"paymentMethodId"`
			Amount          float64 `form:"amount" binding:"required,gt=0"`
			PaymentApp      string  `form:"paymentAppName"`
			PayerName       string  `form:"payerName"`
			Phone           string  `form:"phone"`
		}

		if err := c.ShouldBind(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		projectID, err := primitive.ObjectIDFromHex(input.ProjectID)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid project id"})
			return
		}

		db := cfg.MongoClient.Database(cfg.DBName)
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		var project models.Project
		if err := db.Collection("projects").FindOne(ctx, bson.M{"_id": projectID}).Decode(&project); err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "project not found"})
			return
		}

		// A method reference is optional here; only an explicitly inactive
		// method is rejected.
		var methodRef *primitive.ObjectID
		if input.PaymentMethodID != "" {
			methodID, err := primitive.ObjectIDFromHex(input.PaymentMethodID)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payment method id"})
				return
			}
			var method models.PaymentMethod
			if err := db.Collection("paymentmethods").FindOne(ctx, bson.M{"_id": methodID}).Decode(&method); err == nil && !method.IsActive {
				c.JSON(http.StatusBadRequest, gin.H{"error": "payment method unavailable"})
				return
			}
			methodRef = &methodID
		}

		// --- Upload the receipt, if attached ---
		var receipt models.ImageRef
		if fileHeader, err := c.FormFile("receiptImage"); err == nil {
			file, err := fileHeader.Open()
			if err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to open file"})
				return
			}
			data, err := io.ReadAll(file)
			file.Close()
			if err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to read file"})
				return
			}
			dataURI := utils.EncodeDataURI(fileHeader.Header.Get("Content-Type"), data)
			if err := utils.CheckImageSize(dataURI); err != nil {
				utils.HandleError(c, err)
				return
			}
			receipt, err = utils.UploadImage(cfg, dataURI, "receipts")
			if err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "receipt upload failed", "details": err.Error()})
				return
			}
		}

		donation := models.NewDonation(projectID, methodRef, input.Amount,
			input.PayerName, input.Phone, models.DonationStatusPending)
		donation.PaymentApp = input.PaymentApp
		donation.ReceiptURL = receipt.URL
		donation.ReceiptFileID = receipt.FileID

		if _, err := db.Collection("donations").InsertOne(ctx, donation); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not create donation"})
			return
		}

		c.JSON(http.StatusCreated, gin.H{
			"id":      donation.ID.Hex(),
			"message": "donation recorded, awaiting review",
		})
	}
}

// ---------------- LIST ----------------
func ListDonations(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		db := cfg.MongoClient.Database(cfg.DBName)
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		// --- Resolve project and method references alongside each donation ---
		pipeline := mongo.Pipeline{
			{{Key: "$sort", Value: bson.M{"createdAt": -1}}},
			{{Key: "$lookup", Value: bson.M{
				"from":         "projects",
				"localField":   "project",
				"foreignField": "_id",
				"as":           "projectDoc",
			}}},
			{{Key: "$unwind", Value: bson.M{"path": "$projectDoc", "preserveNullAndEmptyArrays": true}}},
			{{Key: "$lookup", Value: bson.M{
				"from":         "paymentmethods",
				"localField":   "paymentMethod",
				"foreignField": "_id",
				"as":           "paymentMethodDoc",
			}}},
			{{Key: "$unwind", Value: bson.M{"path": "$paymentMethodDoc", "preserveNullAndEmptyArrays": true}}},
			{{Key: "$project", Value: bson.M{
				"project":              1,
				"projectId":            1,
				"paymentMethod":        1,
				"amount":               1,
				"donorName":            1,
				"payerName":            1,
				"donorPhone":           1,
				"phone":                1,
				"paymentAppName":       1,
				"receiptUrl":           1,
				"status":               1,
				"createdAt":            1,
				"updatedAt":            1,
				"projectDoc.title":     1,
				"projectDoc.category":  1,
				"paymentMethodDoc.name":          1,
				"paymentMethodDoc.accountNumber": 1,
			}}},
		}

		cursor, err := db.Collection("donations").Aggregate(ctx, pipeline)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not fetch donations"})
			return
		}

		donations := []bson.M{}
		if err := cursor.All(ctx, &donations); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not decode donations"})
			return
		}

		c.JSON(http.StatusOK, donations)
	}
}

// ---------------- UPDATE STATUS ----------------
func UpdateDonationStatus(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		donationID, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid donation id"})
			return
		}

		var input struct {
			Status string `json:"status" binding:"required"`
		}
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		if !models.ValidDonationStatus(input.Status) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid donation status"})
			return
		}

		col := cfg.MongoClient.Database(cfg.DBName).Collection("donations")
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		var updated models.Donation
		err = col.FindOneAndUpdate(ctx,
			bson.M{"_id": donationID},
			bson.M{"$set": bson.M{"status": input.Status, "updatedAt": time.Now()}},
			options.FindOneAndUpdate().SetReturnDocument(options.After),
		).Decode(&updated)
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "donation not found"})
			return
		}

		c.JSON(http.StatusOK, updated)
	}
}
