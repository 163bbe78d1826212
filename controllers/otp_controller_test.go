package controllers

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
)

func newJSONContext(method, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestSendEmailValidation(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"empty body", `{}`},
		{"missing subject", `{"to":"user@example.com","html":"<p>hello</p>"}`},
		{"missing html", `{"to":"user@example.com","subject":"hi"}`},
		{"missing to", `{"subject":"hi","html":"<p>hello</p>"}`},
	}

	controller := NewOTPController(nil, nil)

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx, rec := newJSONContext(http.MethodPost, "/api/send-email", tt.body)
			err := controller.SendEmail(ctx)
			assert.NoError(t, err)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}

func TestSendEmailRejectsBadAddress(t *testing.T) {
	controller := NewOTPController(nil, nil)

	ctx, rec := newJSONContext(http.MethodPost, "/api/send-email",
		`{"to":"not-an-email","subject":"hi","html":"<p>hello</p>"}`)
	err := controller.SendEmail(ctx)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSendEmailDeliversThroughTransport(t *testing.T) {
	var gotTo, gotSubject, gotHTML string
	controller := NewOTPController(nil, nil)
	controller.sendEmail = func(to, subject, html string) error {
		gotTo = to
		gotSubject = subject
		gotHTML = html
		return nil
	}

	ctx, rec := newJSONContext(http.MethodPost, "/api/send-email",
		`{"to":"User@Example.com","subject":"hi","html":"<p>hello</p>"}`)
	err := controller.SendEmail(ctx)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "user@example.com", gotTo)
	assert.Equal(t, "hi", gotSubject)
	assert.Equal(t, "<p>hello</p>", gotHTML)
	assert.Contains(t, rec.Body.String(), `"success":true`)
}

func TestSendEmailReportsTransportError(t *testing.T) {
	controller := NewOTPController(nil, nil)
	controller.sendEmail = func(to, subject, html string) error {
		return errors.New("smtp connection refused")
	}

	ctx, rec := newJSONContext(http.MethodPost, "/api/send-email",
		`{"to":"user@example.com","subject":"hi","html":"<p>hello</p>"}`)
	err := controller.SendEmail(ctx)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "smtp connection refused")
}

func TestSendOTPRequiresEmail(t *testing.T) {
	controller := NewOTPController(nil, nil)

	ctx, rec := newJSONContext(http.MethodPost, "/api/send-otp", `{}`)
	err := controller.SendOTP(ctx)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), `"success":false`)
}

func TestVerifyOTPValidation(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"empty body", `{}`},
		{"missing otp", `{"email":"user@example.com"}`},
		{"missing email", `{"otp":"123456"}`},
	}

	controller := NewOTPController(nil, nil)

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx, rec := newJSONContext(http.MethodPost, "/api/verify-otp", tt.body)
			err := controller.VerifyOTP(ctx)
			assert.NoError(t, err)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}
