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

	"github.com/servify/servify_backend/config"
	"github.com/servify/servify_backend/middleware"
	"github.com/servify/servify_backend/models"
	"github.com/servify/servify_backend/services"
	"github.com/servify/servify_backend/utils"
)

// AuthController handles authentication endpoints
type AuthController struct {
	db   *mongo.Client
	otps *services.OTPService

	sendEmail func(to, subject, html string) error
}

// NewAuthController creates a new auth controller
func NewAuthController(db *mongo.Client, otps *services.OTPService) *AuthController {
	return &AuthController{
		db:        db,
		otps:      otps,
		sendEmail: utils.SendEmail,
	}
}

// Signup registers a new user or vendor account
func (c *AuthController) Signup(ctx echo.Context) error {
	var request models.SignupRequest
	if err := ctx.Bind(&request); err != nil {
		return ctx.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid request",
		})
	}
	if err := ctx.Validate(&request); err != nil {
		return ctx.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Validation failed: " + err.Error(),
		})
	}

	email, err := utils.SanitizeEmail(request.Email)
	if err != nil {
		return ctx.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid email format",
		})
	}

	mobile, err := utils.SanitizeMobile(request.Mobile)
	if err != nil {
		return ctx.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid mobile number",
		})
	}

	if request.Role == models.RoleVendor && request.ServiceCategory == "" {
		return ctx.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Service category is required for vendor accounts",
		})
	}

	hashedPassword, err := utils.HashPassword(request.Password)
	if err != nil {
		log.Printf("Failed to hash password: %v", err)
		return ctx.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to create account",
		})
	}

	now := time.Now()
	user := models.User{
		ID:        primitive.NewObjectID(),
		Email:     email,
		Password:  hashedPassword,
		FullName:  request.FullName,
		Role:      request.Role,
		Address:   request.Address,
		Mobile:    mobile,
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if request.Role == models.RoleVendor {
		user.VendorInfo = &models.VendorInfo{
			ServiceCategory: request.ServiceCategory,
			Organization:    request.Organization,
		}
	}

	reqCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	collection := config.GetCollection(c.db, "users")
	if _, err := collection.InsertOne(reqCtx, user); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ctx.JSON(http.StatusConflict, models.Response{
				Status:  http.StatusConflict,
				Message: "An account with this email already exists",
			})
		}
		log.Printf("Failed to insert user: %v", err)
		return ctx.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to create account",
		})
	}

	token, err := middleware.GenerateJWT(user.ID.Hex(), user.Email, user.Role)
	if err != nil {
		log.Printf("Failed to generate token: %v", err)
		return ctx.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Account created but login failed, please sign in",
		})
	}

	user.Password = ""
	return ctx.JSON(http.StatusCreated, models.Response{
		Status:  http.StatusCreated,
		Message: "Account created successfully",
		Data: map[string]interface{}{
			"token": token,
			"user":  user,
		},
	})
}

// Login authenticates by email and password
func (c *AuthController) Login(ctx echo.Context) error {
	var request models.LoginRequest
	if err := ctx.Bind(&request); err != nil {
		return ctx.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid request",
		})
	}
	if err := ctx.Validate(&request); err != nil {
		return ctx.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Email and password are required",
		})
	}

	email, err := utils.SanitizeEmail(request.Email)
	if err != nil {
		return ctx.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid email format",
		})
	}

	reqCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	collection := config.GetCollection(c.db, "users")
	var user models.User
	err = collection.FindOne(reqCtx, bson.M{"email": email}).Decode(&user)
	if err != nil {
		// Same response for unknown email and wrong password
		return ctx.JSON(http.StatusUnauthorized, models.Response{
			Status:  http.StatusUnauthorized,
			Message: "Invalid email or password",
		})
	}

	if !utils.CheckPasswordHash(request.Password, user.Password) {
		return ctx.JSON(http.StatusUnauthorized, models.Response{
			Status:  http.StatusUnauthorized,
			Message: "Invalid email or password",
		})
	}

	if !user.IsActive {
		return ctx.JSON(http.StatusForbidden, models.Response{
			Status:  http.StatusForbidden,
			Message: "This account has been deactivated",
		})
	}

	token, err := middleware.GenerateJWT(user.ID.Hex(), user.Email, user.Role)
	if err != nil {
		log.Printf("Failed to generate token: %v", err)
		return ctx.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to log in",
		})
	}

	collection.UpdateOne(reqCtx, bson.M{"_id": user.ID}, bson.M{
		"$set": bson.M{"isOnline": true, "lastSeen": time.Now()},
	})

	user.Password = ""
	return ctx.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Logged in successfully",
		Data: map[string]interface{}{
			"token": token,
			"user":  user,
		},
	})
}

// Logout blacklists the current token and marks the user offline
func (c *AuthController) Logout(ctx echo.Context) error {
	claims := middleware.GetUserFromToken(ctx)
	if claims == nil {
		return ctx.JSON(http.StatusUnauthorized, models.Response{
			Status:  http.StatusUnauthorized,
			Message: "Unauthorized",
		})
	}

	authHeader := ctx.Request().Header.Get("Authorization")
	tokenString := strings.TrimPrefix(authHeader, "Bearer ")
	if tokenString != "" {
		middleware.BlacklistToken(tokenString, time.Unix(claims.ExpiresAt, 0))
	}

	if userID, err := primitive.ObjectIDFromHex(claims.UserID); err == nil {
		reqCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		collection := config.GetCollection(c.db, "users")
		collection.UpdateOne(reqCtx, bson.M{"_id": userID}, bson.M{
			"$set": bson.M{"isOnline": false, "lastSeen": time.Now()},
		})
	}

	return ctx.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Logged out successfully",
	})
}

// ForgotPassword issues a reset code to the account's email. The response is
// the same whether or not the account exists.
func (c *AuthController) ForgotPassword(ctx echo.Context) error {
	var request struct {
		Email string `json:"email"`
	}
	if err := ctx.Bind(&request); err != nil || request.Email == "" {
		return ctx.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Email is required",
		})
	}

	email, err := utils.SanitizeEmail(request.Email)
	if err != nil {
		return ctx.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid email format",
		})
	}

	reqCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	genericResponse := models.Response{
		Status:  http.StatusOK,
		Message: "If an account exists for this email, a reset code has been sent",
	}

	collection := config.GetCollection(c.db, "users")
	var user models.User
	if err := collection.FindOne(reqCtx, bson.M{"email": email}).Decode(&user); err != nil {
		return ctx.JSON(http.StatusOK, genericResponse)
	}

	code, err := c.otps.Issue(reqCtx, email)
	if err != nil {
		log.Printf("Failed to issue reset code for %s: %v", email, err)
		return ctx.JSON(http.StatusOK, genericResponse)
	}

	if err := c.sendEmail(email, "Password reset code", utils.OTPEmailBody(code)); err != nil {
		log.Printf("Failed to send reset code to %s: %v", email, err)
	}

	return ctx.JSON(http.StatusOK, genericResponse)
}

// ResetPassword sets a new password after verifying the emailed code
func (c *AuthController) ResetPassword(ctx echo.Context) error {
	var request struct {
		Email       string `json:"email"`
		OTP         string `json:"otp"`
		NewPassword string `json:"newPassword"`
	}
	if err := ctx.Bind(&request); err != nil {
		return ctx.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid request",
		})
	}
	if request.Email == "" || request.OTP == "" || request.NewPassword == "" {
		return ctx.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Email, OTP and new password are required",
		})
	}
	if len(request.NewPassword) < 8 {
		return ctx.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Password must be at least 8 characters",
		})
	}

	email, err := utils.SanitizeEmail(request.Email)
	if err != nil {
		return ctx.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid email format",
		})
	}

	reqCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := c.otps.Verify(reqCtx, email, request.OTP); err != nil {
		return otpErrorResponse(ctx, err)
	}

	hashedPassword, err := utils.HashPassword(request.NewPassword)
	if err != nil {
		log.Printf("Failed to hash password: %v", err)
		return ctx.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to reset password",
		})
	}

	collection := config.GetCollection(c.db, "users")
	result, err := collection.UpdateOne(reqCtx, bson.M{"email": email}, bson.M{
		"$set": bson.M{"password": hashedPassword, "updatedAt": time.Now()},
	})
	if err != nil || result.MatchedCount == 0 {
		return ctx.JSON(http.StatusNotFound, models.Response{
			Status:  http.StatusNotFound,
			Message: "Account not found",
		})
	}

	return ctx.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Password reset successfully",
	})
}

// RefreshToken issues a new token for a still-valid session
func (c *AuthController) RefreshToken(ctx echo.Context) error {
	claims := middleware.GetUserFromToken(ctx)
	if claims == nil {
		return ctx.JSON(http.StatusUnauthorized, models.Response{
			Status:  http.StatusUnauthorized,
			Message: "Unauthorized",
		})
	}

	token, err := middleware.GenerateJWT(claims.UserID, claims.Email, claims.Role)
	if err != nil {
		log.Printf("Failed to generate token: %v", err)
		return ctx.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to refresh token",
		})
	}

	return ctx.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Token refreshed successfully",
		Data:    map[string]string{"token": token},
	})
}
