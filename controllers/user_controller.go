package controllers

import (
	"context"
	"errors"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/servify/servify_backend/config"
	"github.com/servify/servify_backend/models"
	"github.com/servify/servify_backend/utils"
)

// UserController handles profile and vendor discovery endpoints
type UserController struct {
	db *mongo.Client
}

// NewUserController creates a new user controller
func NewUserController(db *mongo.Client) *UserController {
	return &UserController{db: db}
}

// GetProfile returns the authenticated user's profile
func (c *UserController) GetProfile(ctx echo.Context) error {
	user, err := utils.GetUserFromToken(ctx, c.db)
	if err != nil {
		return ctx.JSON(http.StatusUnauthorized, models.Response{
			Status:  http.StatusUnauthorized,
			Message: "Unauthorized",
		})
	}

	return ctx.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Profile retrieved successfully",
		Data:    user,
	})
}

// UpdateProfile updates the mutable profile fields
func (c *UserController) UpdateProfile(ctx echo.Context) error {
	user, err := utils.GetUserFromToken(ctx, c.db)
	if err != nil {
		return ctx.JSON(http.StatusUnauthorized, models.Response{
			Status:  http.StatusUnauthorized,
			Message: "Unauthorized",
		})
	}

	var request models.UpdateProfileRequest
	if err := ctx.Bind(&request); err != nil {
		return ctx.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid request",
		})
	}

	set := bson.M{"updatedAt": time.Now()}
	if request.FullName != "" {
		set["fullName"] = request.FullName
	}
	if request.Address != "" {
		set["address"] = request.Address
	}
	if request.Mobile != "" {
		mobile, err := utils.SanitizeMobile(request.Mobile)
		if err != nil {
			return ctx.JSON(http.StatusBadRequest, models.Response{
				Status:  http.StatusBadRequest,
				Message: "Invalid mobile number",
			})
		}
		set["mobile"] = mobile
	}

	reqCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	collection := config.GetCollection(c.db, "users")
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var updated models.User
	err = collection.FindOneAndUpdate(reqCtx, bson.M{"_id": user.ID}, bson.M{"$set": set}, opts).Decode(&updated)
	if err != nil {
		log.Printf("Failed to update profile for %s: %v", user.ID.Hex(), err)
		return ctx.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to update profile",
		})
	}

	updated.Password = ""
	return ctx.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Profile updated successfully",
		Data:    updated,
	})
}

// UpdateVendorInfo updates the vendor-only profile fields
func (c *UserController) UpdateVendorInfo(ctx echo.Context) error {
	user, err := utils.GetUserFromToken(ctx, c.db)
	if err != nil {
		return ctx.JSON(http.StatusUnauthorized, models.Response{
			Status:  http.StatusUnauthorized,
			Message: "Unauthorized",
		})
	}
	if user.Role != models.RoleVendor {
		return ctx.JSON(http.StatusForbidden, models.Response{
			Status:  http.StatusForbidden,
			Message: "Only vendors can update vendor information",
		})
	}

	var request models.UpdateVendorInfoRequest
	if err := ctx.Bind(&request); err != nil {
		return ctx.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid request",
		})
	}

	set := bson.M{"updatedAt": time.Now()}
	if request.ServiceCategory != "" {
		set["vendorInfo.serviceCategory"] = request.ServiceCategory
	}
	if request.Organization != "" {
		set["vendorInfo.organization"] = request.Organization
	}
	if request.OrgAddress != "" {
		set["vendorInfo.orgAddress"] = request.OrgAddress
	}
	if request.AvailableTime != "" {
		set["vendorInfo.availableTime"] = request.AvailableTime
	}
	if request.Description != "" {
		set["vendorInfo.description"] = request.Description
	}

	reqCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	collection := config.GetCollection(c.db, "users")
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var updated models.User
	err = collection.FindOneAndUpdate(reqCtx, bson.M{"_id": user.ID}, bson.M{"$set": set}, opts).Decode(&updated)
	if err != nil {
		log.Printf("Failed to update vendor info for %s: %v", user.ID.Hex(), err)
		return ctx.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to update vendor information",
		})
	}

	updated.Password = ""
	return ctx.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Vendor information updated successfully",
		Data:    updated,
	})
}

// UploadProfilePic stores a new profile picture and saves its URL
func (c *UserController) UploadProfilePic(ctx echo.Context) error {
	user, err := utils.GetUserFromToken(ctx, c.db)
	if err != nil {
		return ctx.JSON(http.StatusUnauthorized, models.Response{
			Status:  http.StatusUnauthorized,
			Message: "Unauthorized",
		})
	}

	fileData, filename, err := readUploadedFile(ctx, "image")
	if err != nil {
		return ctx.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: err.Error(),
		})
	}

	url, err := utils.SaveImage(fileData, utils.UniqueImageName(filename), "profiles")
	if err != nil {
		return ctx.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: err.Error(),
		})
	}

	reqCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	collection := config.GetCollection(c.db, "users")
	_, err = collection.UpdateOne(reqCtx, bson.M{"_id": user.ID}, bson.M{
		"$set": bson.M{"profilePic": url, "updatedAt": time.Now()},
	})
	if err != nil {
		log.Printf("Failed to save profile pic for %s: %v", user.ID.Hex(), err)
		return ctx.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to save profile picture",
		})
	}

	return ctx.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Profile picture uploaded successfully",
		Data:    map[string]string{"profilePic": url},
	})
}

// AddGalleryImage appends an image to the vendor's gallery
func (c *UserController) AddGalleryImage(ctx echo.Context) error {
	user, err := utils.GetUserFromToken(ctx, c.db)
	if err != nil {
		return ctx.JSON(http.StatusUnauthorized, models.Response{
			Status:  http.StatusUnauthorized,
			Message: "Unauthorized",
		})
	}
	if user.Role != models.RoleVendor {
		return ctx.JSON(http.StatusForbidden, models.Response{
			Status:  http.StatusForbidden,
			Message: "Only vendors have a gallery",
		})
	}

	fileData, filename, err := readUploadedFile(ctx, "image")
	if err != nil {
		return ctx.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: err.Error(),
		})
	}

	url, err := utils.SaveImage(fileData, utils.UniqueImageName(filename), "gallery")
	if err != nil {
		return ctx.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: err.Error(),
		})
	}

	reqCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	collection := config.GetCollection(c.db, "users")
	_, err = collection.UpdateOne(reqCtx, bson.M{"_id": user.ID}, bson.M{
		"$push": bson.M{"vendorInfo.gallery": url},
		"$set":  bson.M{"updatedAt": time.Now()},
	})
	if err != nil {
		log.Printf("Failed to add gallery image for %s: %v", user.ID.Hex(), err)
		return ctx.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to save gallery image",
		})
	}

	return ctx.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Gallery image added successfully",
		Data:    map[string]string{"url": url},
	})
}

// GetVendors lists active vendors, optionally filtered by service category
func (c *UserController) GetVendors(ctx echo.Context) error {
	filter := bson.M{
		"role":     models.RoleVendor,
		"isActive": true,
	}
	if category := ctx.QueryParam("category"); category != "" {
		filter["vendorInfo.serviceCategory"] = category
	}

	reqCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	collection := config.GetCollection(c.db, "users")
	opts := options.Find().
		SetProjection(bson.M{"password": 0}).
		SetSort(bson.M{"vendorInfo.averageRating": -1})

	cursor, err := collection.Find(reqCtx, filter, opts)
	if err != nil {
		log.Printf("Failed to list vendors: %v", err)
		return ctx.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to retrieve vendors",
		})
	}
	defer cursor.Close(reqCtx)

	vendors := []models.User{}
	if err := cursor.All(reqCtx, &vendors); err != nil {
		log.Printf("Failed to decode vendors: %v", err)
		return ctx.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to retrieve vendors",
		})
	}

	return ctx.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Vendors retrieved successfully",
		Data:    vendors,
	})
}

// readUploadedFile pulls a multipart file field into memory
func readUploadedFile(ctx echo.Context, field string) ([]byte, string, error) {
	fileHeader, err := ctx.FormFile(field)
	if err != nil {
		return nil, "", errors.New("no file uploaded")
	}

	src, err := fileHeader.Open()
	if err != nil {
		return nil, "", err
	}
	defer src.Close()

	data, err := io.ReadAll(src)
	if err != nil {
		return nil, "", err
	}

	return data, fileHeader.Filename, nil
}
