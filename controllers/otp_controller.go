package controllers

import (
	"context"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/servify/servify_backend/models"
	"github.com/servify/servify_backend/services"
	"github.com/servify/servify_backend/utils"
)

// OTPController handles the public email and OTP endpoints
type OTPController struct {
	db   *mongo.Client
	otps *services.OTPService

	// sendEmail is swappable in tests
	sendEmail func(to, subject, html string) error
}

// NewOTPController creates a new OTP controller
func NewOTPController(db *mongo.Client, otps *services.OTPService) *OTPController {
	return &OTPController{
		db:        db,
		otps:      otps,
		sendEmail: utils.SendEmail,
	}
}

// otpResult is the response body of the public OTP endpoints
type otpResult struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

type sendEmailRequest struct {
	To      string `json:"to"`
	Subject string `json:"subject"`
	HTML    string `json:"html"`
}

type otpRequest struct {
	Email string `json:"email"`
	OTP   string `json:"otp,omitempty"`
}

// otpErrorResponse maps OTP service errors onto the standard envelope, used
// by endpoints that gate on OTP verification
func otpErrorResponse(ctx echo.Context, err error) error {
	switch {
	case errors.Is(err, services.ErrOTPNotFound):
		return ctx.JSON(http.StatusNotFound, models.Response{
			Status:  http.StatusNotFound,
			Message: err.Error(),
		})
	case errors.Is(err, services.ErrOTPExpired), errors.Is(err, services.ErrOTPMismatch):
		return ctx.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: err.Error(),
		})
	case errors.Is(err, services.ErrTooManyAttempts):
		return ctx.JSON(http.StatusTooManyRequests, models.Response{
			Status:  http.StatusTooManyRequests,
			Message: err.Error(),
		})
	}

	log.Printf("OTP operation failed: %v", err)
	return ctx.JSON(http.StatusInternalServerError, models.Response{
		Status:  http.StatusInternalServerError,
		Message: "Something went wrong, please try again",
	})
}

// SendEmail delivers an arbitrary email through the configured SMTP account
func (c *OTPController) SendEmail(ctx echo.Context) error {
	var request sendEmailRequest
	if err := ctx.Bind(&request); err != nil {
		return ctx.JSON(http.StatusBadRequest, otpResult{
			Success: false,
			Message: "Invalid request",
		})
	}
	if request.To == "" || request.Subject == "" || request.HTML == "" {
		return ctx.JSON(http.StatusBadRequest, otpResult{
			Success: false,
			Message: "to, subject and html are required",
		})
	}

	to, err := utils.SanitizeEmail(request.To)
	if err != nil {
		return ctx.JSON(http.StatusBadRequest, otpResult{
			Success: false,
			Message: "Invalid email format",
		})
	}

	if err := c.sendEmail(to, request.Subject, request.HTML); err != nil {
		log.Printf("Failed to send email to %s: %v", to, err)
		return ctx.JSON(http.StatusInternalServerError, otpResult{
			Success: false,
			Message: "Failed to send email: " + err.Error(),
		})
	}

	return ctx.JSON(http.StatusOK, otpResult{
		Success: true,
		Message: "Email sent successfully",
	})
}

// SendOTP issues a fresh code for the email and delivers it
func (c *OTPController) SendOTP(ctx echo.Context) error {
	var request otpRequest
	if err := ctx.Bind(&request); err != nil {
		return ctx.JSON(http.StatusBadRequest, otpResult{
			Success: false,
			Message: "Invalid request",
		})
	}
	if request.Email == "" {
		return ctx.JSON(http.StatusBadRequest, otpResult{
			Success: false,
			Message: "Email is required",
		})
	}

	email, err := utils.SanitizeEmail(request.Email)
	if err != nil {
		return ctx.JSON(http.StatusBadRequest, otpResult{
			Success: false,
			Message: "Invalid email format",
		})
	}

	reqCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	code, err := c.otps.Issue(reqCtx, email)
	if err != nil {
		if errors.Is(err, services.ErrTooManyAttempts) {
			return ctx.JSON(http.StatusTooManyRequests, otpResult{
				Success: false,
				Message: err.Error(),
			})
		}
		log.Printf("Failed to issue OTP for %s: %v", email, err)
		return ctx.JSON(http.StatusInternalServerError, otpResult{
			Success: false,
			Message: "Failed to generate verification code",
		})
	}

	if err := c.sendEmail(email, "Your verification code", utils.OTPEmailBody(code)); err != nil {
		log.Printf("Failed to send OTP email to %s: %v", email, err)
		return ctx.JSON(http.StatusInternalServerError, otpResult{
			Success: false,
			Message: "Failed to send verification code",
		})
	}

	return ctx.JSON(http.StatusOK, otpResult{
		Success: true,
		Message: "Verification code sent successfully",
	})
}

// VerifyOTP checks a submitted code against the stored record
func (c *OTPController) VerifyOTP(ctx echo.Context) error {
	var request otpRequest
	if err := ctx.Bind(&request); err != nil {
		return ctx.JSON(http.StatusBadRequest, otpResult{
			Success: false,
			Message: "Invalid request",
		})
	}
	if request.Email == "" || request.OTP == "" {
		return ctx.JSON(http.StatusBadRequest, otpResult{
			Success: false,
			Message: "Email and OTP are required",
		})
	}

	email, err := utils.SanitizeEmail(request.Email)
	if err != nil {
		return ctx.JSON(http.StatusBadRequest, otpResult{
			Success: false,
			Message: "Invalid email format",
		})
	}

	reqCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := c.otps.Verify(reqCtx, email, request.OTP); err != nil {
		switch {
		case errors.Is(err, services.ErrOTPNotFound):
			return ctx.JSON(http.StatusNotFound, otpResult{
				Success: false,
				Message: err.Error(),
			})
		case errors.Is(err, services.ErrOTPExpired), errors.Is(err, services.ErrOTPMismatch):
			return ctx.JSON(http.StatusBadRequest, otpResult{
				Success: false,
				Message: err.Error(),
			})
		case errors.Is(err, services.ErrTooManyAttempts):
			return ctx.JSON(http.StatusTooManyRequests, otpResult{
				Success: false,
				Message: err.Error(),
			})
		}
		log.Printf("Failed to verify OTP for %s: %v", email, err)
		return ctx.JSON(http.StatusInternalServerError, otpResult{
			Success: false,
			Message: "Failed to verify code",
		})
	}

	return ctx.JSON(http.StatusOK, otpResult{
		Success: true,
		Message: "OTP verified successfully",
	})
}
