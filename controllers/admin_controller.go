package controllers

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/servify/servify_backend/config"
	"github.com/servify/servify_backend/models"
)

// AdminController handles user moderation endpoints
type AdminController struct {
	db *mongo.Client
}

// NewAdminController creates a new admin controller
func NewAdminController(db *mongo.Client) *AdminController {
	return &AdminController{db: db}
}

// GetAllUsers lists accounts, optionally filtered by role
func (c *AdminController) GetAllUsers(ctx echo.Context) error {
	filter := bson.M{}
	if role := ctx.QueryParam("role"); role != "" {
		if role != models.RoleUser && role != models.RoleVendor && role != models.RoleAdmin {
			return ctx.JSON(http.StatusBadRequest, models.Response{
				Status:  http.StatusBadRequest,
				Message: "Unknown role",
			})
		}
		filter["role"] = role
	}

	reqCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	collection := config.GetCollection(c.db, "users")
	opts := options.Find().
		SetProjection(bson.M{"password": 0}).
		SetSort(bson.M{"createdAt": -1})

	cursor, err := collection.Find(reqCtx, filter, opts)
	if err != nil {
		log.Printf("Failed to list users: %v", err)
		return ctx.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to retrieve users",
		})
	}
	defer cursor.Close(reqCtx)

	users := []models.User{}
	if err := cursor.All(reqCtx, &users); err != nil {
		log.Printf("Failed to decode users: %v", err)
		return ctx.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to retrieve users",
		})
	}

	return ctx.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Users retrieved successfully",
		Data:    users,
	})
}

// SetUserActive activates or deactivates an account. Deactivated accounts
// cannot log in and vendors stop appearing in discovery.
func (c *AdminController) SetUserActive(ctx echo.Context) error {
	userID, err := primitive.ObjectIDFromHex(ctx.Param("id"))
	if err != nil {
		return ctx.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid user ID",
		})
	}

	var request struct {
		IsActive *bool `json:"isActive"`
	}
	if err := ctx.Bind(&request); err != nil || request.IsActive == nil {
		return ctx.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "isActive is required",
		})
	}

	reqCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	collection := config.GetCollection(c.db, "users")
	opts := options.FindOneAndUpdate().
		SetReturnDocument(options.After).
		SetProjection(bson.M{"password": 0})

	// Admin accounts cannot be moderated through this endpoint
	var updated models.User
	err = collection.FindOneAndUpdate(reqCtx,
		bson.M{"_id": userID, "role": bson.M{"$ne": models.RoleAdmin}},
		bson.M{"$set": bson.M{"isActive": *request.IsActive, "updatedAt": time.Now()}},
		opts,
	).Decode(&updated)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return ctx.JSON(http.StatusNotFound, models.Response{
				Status:  http.StatusNotFound,
				Message: "User not found",
			})
		}
		log.Printf("Failed to update user %s: %v", userID.Hex(), err)
		return ctx.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to update user",
		})
	}

	message := "User activated successfully"
	if !*request.IsActive {
		message = "User deactivated successfully"
	}

	return ctx.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: message,
		Data:    updated,
	})
}

// DeleteUser removes an account permanently
func (c *AdminController) DeleteUser(ctx echo.Context) error {
	userID, err := primitive.ObjectIDFromHex(ctx.Param("id"))
	if err != nil {
		return ctx.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid user ID",
		})
	}

	reqCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	collection := config.GetCollection(c.db, "users")
	result, err := collection.DeleteOne(reqCtx, bson.M{
		"_id":  userID,
		"role": bson.M{"$ne": models.RoleAdmin},
	})
	if err != nil {
		log.Printf("Failed to delete user %s: %v", userID.Hex(), err)
		return ctx.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to delete user",
		})
	}
	if result.DeletedCount == 0 {
		return ctx.JSON(http.StatusNotFound, models.Response{
			Status:  http.StatusNotFound,
			Message: "User not found",
		})
	}

	return ctx.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "User deleted successfully",
	})
}
