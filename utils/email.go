// utils/email.go
package utils

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/gomail.v2"
)

// SendEmail sends an HTML email using the SMTP transport configured through
// EMAIL_SERVICE, EMAIL_USER, EMAIL_PASSWORD, EMAIL_FROM_NAME and
// EMAIL_FROM_ADDRESS.
func SendEmail(to, subject, html string) error {
	smtpHost := os.Getenv("EMAIL_SERVICE")
	smtpUser := os.Getenv("EMAIL_USER")
	smtpPass := os.Getenv("EMAIL_PASSWORD")
	fromName := os.Getenv("EMAIL_FROM_NAME")
	fromAddr := os.Getenv("EMAIL_FROM_ADDRESS")

	if smtpHost == "" || smtpUser == "" || smtpPass == "" || fromAddr == "" {
		return fmt.Errorf("missing email transport configuration")
	}

	smtpPort := 587
	if portStr := os.Getenv("EMAIL_PORT"); portStr != "" {
		if port, err := strconv.Atoi(portStr); err == nil {
			smtpPort = port
		}
	}

	m := gomail.NewMessage()
	m.SetHeader("From", m.FormatAddress(fromAddr, fromName))
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", html)

	d := gomail.NewDialer(smtpHost, smtpPort, smtpUser, smtpPass)
	if err := d.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send email: %v", err)
	}

	return nil
}

// OTPEmailBody renders the body for a verification-code email.
func OTPEmailBody(code string) string {
	return fmt.Sprintf(`
		<html>
		<body>
			<h2>Your Verification Code</h2>
			<p>Use the following code to verify your request:</p>
			<h3 style="background-color: #f0f0f0; padding: 10px; font-size: 24px; letter-spacing: 5px; text-align: center;">%s</h3>
			<p>This code will expire in 5 minutes.</p>
			<p>If you did not request this code, please ignore this email.</p>
			<p>Thank you,<br>The Servify Team</p>
		</body>
		</html>
	`, code)
}

// BookingAcceptedEmailBody renders the body for the booking-acceptance notice.
func BookingAcceptedEmailBody(customerName, vendorName, category string) string {
	return fmt.Sprintf(`
		<html>
		<body>
			<h2>Booking Accepted</h2>
			<p>Hello %s,</p>
			<p>Your booking with <b>%s</b> (%s) has been accepted. The vendor will contact you shortly.</p>
			<p>Thank you,<br>The Servify Team</p>
		</body>
		</html>
	`, customerName, vendorName, category)
}
