package controllers

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"

	config "github.com/ansarhub/donation-tracker-go/config"
	middleware "github.com/ansarhub/donation-tracker-go/middleware"
	models "github.com/ansarhub/donation-tracker-go/models"
	utils "github.com/ansarhub/donation-tracker-go/utils"
)

const cookieMaxAge = 7 * 24 * 60 * 60 // seconds, matches the token TTL

// ---------------- LOGIN ----------------
func Login(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input struct {
			Email    string `json:"email" binding:"required,email"`
			Password string `json:"password" binding:"required"`
		}

		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		col := cfg.MongoClient.Database(cfg.DBName).Collection("admins")
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		var admin models.Admin
		err := col.FindOne(ctx, bson.M{"email": strings.ToLower(input.Email)}).Decode(&admin)
		if err != nil || bcrypt.CompareHashAndPassword([]byte(admin.Password), []byte(input.Password)) != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid email or password"})
			return
		}

		token, err := utils.GenerateAccessToken(cfg.JWTSecret, admin.ID.Hex(), admin.Role)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not create session"})
			return
		}

		c.SetSameSite(http.SameSiteLaxMode)
		c.SetCookie(middleware.AccessTokenCookie, token, cookieMaxAge, "/", "", false, true)

		c.JSON(http.StatusOK, gin.H{
			"user": gin.H{
				"id":    admin.ID.Hex(),
				"name":  admin.Name,
				"email": admin.Email,
				"role":  admin.Role,
			},
		})
	}
}

// ---------------- LOGOUT ----------------
func Logout() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.SetCookie(middleware.AccessTokenCookie, "", -1, "/", "", false, true)
		c.JSON(http.StatusOK, gin.H{"message": "logged out"})
	}
}

// ---------------- PROFILE ----------------
func Profile(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		adminID, err := primitive.ObjectIDFromHex(c.GetString("user_id"))
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid user id"})
			return
		}

		col := cfg.MongoClient.Database(cfg.DBName).Collection("admins")
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		var admin models.Admin
		if err := col.FindOne(ctx, bson.M{"_id": adminID}).Decode(&admin); err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
			return
		}

		c.JSON(http.StatusOK, admin)
	}
}
