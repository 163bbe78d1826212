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
	"github.com/servify/servify_backend/utils"
)

// ServiceController handles the service category catalog
type ServiceController struct {
	db *mongo.Client
}

// NewServiceController creates a new service controller
func NewServiceController(db *mongo.Client) *ServiceController {
	return &ServiceController{db: db}
}

func (c *ServiceController) collection() *mongo.Collection {
	return config.GetCollection(c.db, "service")
}

// GetServices lists every service category
func (c *ServiceController) GetServices(ctx echo.Context) error {
	reqCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	opts := options.Find().SetSort(bson.M{"name": 1})
	cursor, err := c.collection().Find(reqCtx, bson.M{}, opts)
	if err != nil {
		log.Printf("Failed to list services: %v", err)
		return ctx.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to retrieve services",
		})
	}
	defer cursor.Close(reqCtx)

	serviceList := []models.Service{}
	if err := cursor.All(reqCtx, &serviceList); err != nil {
		log.Printf("Failed to decode services: %v", err)
		return ctx.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to retrieve services",
		})
	}

	return ctx.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Services retrieved successfully",
		Data:    serviceList,
	})
}

// CreateService adds a service category with an optional icon upload
func (c *ServiceController) CreateService(ctx echo.Context) error {
	name := ctx.FormValue("name")
	if name == "" {
		return ctx.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Service name is required",
		})
	}

	var iconURL string
	if fileData, filename, err := readUploadedFile(ctx, "icon"); err == nil {
		iconURL, err = utils.SaveImage(fileData, utils.UniqueImageName(filename), "service")
		if err != nil {
			return ctx.JSON(http.StatusBadRequest, models.Response{
				Status:  http.StatusBadRequest,
				Message: err.Error(),
			})
		}
	}

	now := time.Now()
	service := models.Service{
		ID:        primitive.NewObjectID(),
		Name:      name,
		Icon:      iconURL,
		CreatedAt: now,
		UpdatedAt: now,
	}

	reqCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if _, err := c.collection().InsertOne(reqCtx, service); err != nil {
		log.Printf("Failed to insert service: %v", err)
		return ctx.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to create service",
		})
	}

	return ctx.JSON(http.StatusCreated, models.Response{
		Status:  http.StatusCreated,
		Message: "Service created successfully",
		Data:    service,
	})
}

// UpdateService renames a service category or replaces its icon
func (c *ServiceController) UpdateService(ctx echo.Context) error {
	serviceID, err := primitive.ObjectIDFromHex(ctx.Param("id"))
	if err != nil {
		return ctx.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid service ID",
		})
	}

	set := bson.M{"updatedAt": time.Now()}
	if name := ctx.FormValue("name"); name != "" {
		set["name"] = name
	}
	if fileData, filename, err := readUploadedFile(ctx, "icon"); err == nil {
		iconURL, err := utils.SaveImage(fileData, utils.UniqueImageName(filename), "service")
		if err != nil {
			return ctx.JSON(http.StatusBadRequest, models.Response{
				Status:  http.StatusBadRequest,
				Message: err.Error(),
			})
		}
		set["icon"] = iconURL
	}

	reqCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var updated models.Service
	err = c.collection().FindOneAndUpdate(reqCtx, bson.M{"_id": serviceID}, bson.M{"$set": set}, opts).Decode(&updated)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return ctx.JSON(http.StatusNotFound, models.Response{
				Status:  http.StatusNotFound,
				Message: "Service not found",
			})
		}
		log.Printf("Failed to update service %s: %v", serviceID.Hex(), err)
		return ctx.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to update service",
		})
	}

	return ctx.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Service updated successfully",
		Data:    updated,
	})
}

// DeleteService removes a service category
func (c *ServiceController) DeleteService(ctx echo.Context) error {
	serviceID, err := primitive.ObjectIDFromHex(ctx.Param("id"))
	if err != nil {
		return ctx.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid service ID",
		})
	}

	reqCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	result, err := c.collection().DeleteOne(reqCtx, bson.M{"_id": serviceID})
	if err != nil {
		log.Printf("Failed to delete service %s: %v", serviceID.Hex(), err)
		return ctx.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to delete service",
		})
	}
	if result.DeletedCount == 0 {
		return ctx.JSON(http.StatusNotFound, models.Response{
			Status:  http.StatusNotFound,
			Message: "Service not found",
		})
	}

	return ctx.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Service deleted successfully",
	})
}
