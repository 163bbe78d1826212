package controllers

import (
	"context"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/servify/servify_backend/config"
	"github.com/servify/servify_backend/models"
	"github.com/servify/servify_backend/utils"
)

// SupportController handles customer support queries
type SupportController struct {
	db *mongo.Client
}

// NewSupportController creates a new support controller
func NewSupportController(db *mongo.Client) *SupportController {
	return &SupportController{db: db}
}

func (c *SupportController) collection() *mongo.Collection {
	return config.GetCollection(c.db, "customerSupport")
}

// SubmitQuery files a support query for the authenticated user
func (c *SupportController) SubmitQuery(ctx echo.Context) error {
	userID, err := requireUserID(ctx)
	if err != nil {
		return ctx.JSON(http.StatusUnauthorized, models.Response{
			Status:  http.StatusUnauthorized,
			Message: "Unauthorized",
		})
	}

	var request models.SupportQueryRequest
	if err := ctx.Bind(&request); err != nil {
		return ctx.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid request",
		})
	}
	if strings.TrimSpace(request.Query) == "" {
		return ctx.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Query text is required",
		})
	}

	now := time.Now()
	query := models.SupportQuery{
		ID:        primitive.NewObjectID(),
		UserID:    userID,
		Query:     strings.TrimSpace(request.Query),
		Status:    models.SupportPending,
		CreatedAt: now,
		UpdatedAt: now,
	}

	reqCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if _, err := c.collection().InsertOne(reqCtx, query); err != nil {
		log.Printf("Failed to insert support query: %v", err)
		return ctx.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to submit query",
		})
	}

	return ctx.JSON(http.StatusCreated, models.Response{
		Status:  http.StatusCreated,
		Message: "Support query submitted successfully",
		Data:    query,
	})
}

// GetMyQueries returns the authenticated user's support queries
func (c *SupportController) GetMyQueries(ctx echo.Context) error {
	userID, err := requireUserID(ctx)
	if err != nil {
		return ctx.JSON(http.StatusUnauthorized, models.Response{
			Status:  http.StatusUnauthorized,
			Message: "Unauthorized",
		})
	}

	reqCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	opts := options.Find().SetSort(bson.M{"createdAt": -1})
	cursor, err := c.collection().Find(reqCtx, bson.M{"userId": userID}, opts)
	if err != nil {
		log.Printf("Failed to list support queries: %v", err)
		return ctx.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to retrieve queries",
		})
	}
	defer cursor.Close(reqCtx)

	queries := []models.SupportQuery{}
	if err := cursor.All(reqCtx, &queries); err != nil {
		log.Printf("Failed to decode support queries: %v", err)
		return ctx.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to retrieve queries",
		})
	}

	return ctx.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Queries retrieved successfully",
		Data:    queries,
	})
}

// GetAllQueries returns every support query for admin review
func (c *SupportController) GetAllQueries(ctx echo.Context) error {
	filter := bson.M{}
	if status := ctx.QueryParam("status"); status != "" {
		if status != models.SupportPending && status != models.SupportResolved {
			return ctx.JSON(http.StatusBadRequest, models.Response{
				Status:  http.StatusBadRequest,
				Message: "Unknown query status",
			})
		}
		filter["status"] = status
	}

	reqCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	opts := options.Find().SetSort(bson.M{"createdAt": -1})
	cursor, err := c.collection().Find(reqCtx, filter, opts)
	if err != nil {
		log.Printf("Failed to list support queries: %v", err)
		return ctx.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to retrieve queries",
		})
	}
	defer cursor.Close(reqCtx)

	queries := []models.SupportQuery{}
	if err := cursor.All(reqCtx, &queries); err != nil {
		log.Printf("Failed to decode support queries: %v", err)
		return ctx.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to retrieve queries",
		})
	}

	return ctx.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Queries retrieved successfully",
		Data:    queries,
	})
}

// ResolveQuery marks a support query as resolved and notifies the user
func (c *SupportController) ResolveQuery(ctx echo.Context) error {
	queryID, err := primitive.ObjectIDFromHex(ctx.Param("id"))
	if err != nil {
		return ctx.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid query ID",
		})
	}

	reqCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var query models.SupportQuery
	err = c.collection().FindOneAndUpdate(reqCtx,
		bson.M{"_id": queryID, "status": models.SupportPending},
		bson.M{"$set": bson.M{"status": models.SupportResolved, "updatedAt": time.Now()}},
		opts,
	).Decode(&query)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return ctx.JSON(http.StatusNotFound, models.Response{
				Status:  http.StatusNotFound,
				Message: "Pending query not found",
			})
		}
		log.Printf("Failed to resolve support query %s: %v", queryID.Hex(), err)
		return ctx.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to resolve query",
		})
	}

	if err := utils.SaveNotification(c.db, query.UserID, "Support query resolved",
		"Your support query has been resolved", "support_resolved", query); err != nil {
		log.Printf("Failed to save support notification: %v", err)
	}

	return ctx.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Query resolved successfully",
		Data:    query,
	})
}
