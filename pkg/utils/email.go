package utils

import (
	"fmt"
	"log"
	"net/smtp"
	"os"
	"strings"
)

var (
	emailFrom     = os.Getenv("EMAIL_FROM")
	emailPassword = os.Getenv("EMAIL_PASSWORD")
	smtpHost      = os.Getenv("SMTP_HOST")
	smtpPort      = os.Getenv("SMTP_PORT")
	companyName   = "Locar Rentals"
	baseURL       = os.Getenv("BASE_URL")
)

// Common header template for all emails
const emailHeader = `
<!DOCTYPE html>
<html>
<head>
	<meta charset="UTF-8">
	<meta name="viewport" content="width=device-width, initial-scale=1.0">
</head>
<body style="font-family: Arial, sans-serif; line-height: 1.6; color: #333; margin: 0; padding: 0;">
	<div style="max-width: 600px; margin: 0 auto; padding: 20px;">
		<div style="text-align: center; margin-bottom: 30px; background-color: #f9f9f9; padding: 20px;">
			<h2 style="color: #1565c0; margin: 0;">Locar</h2>
		</div>
`

// Common footer template for all emails
const emailFooter = `
		<div style="text-align: center; margin-top: 20px; font-size: 12px; color: #666; border-top: 1px solid #eee; padding-top: 20px;">
			<p>This is an automated message, please do not reply to this email.</p>
			<p>© 2025 Locar Rentals. All rights reserved.</p>
		</div>
	</div>
</body>
</html>
`

func sendEmail(to []string, subject, body string) error {
	if emailFrom == "" || emailPassword == "" || smtpHost == "" || smtpPort == "" {
		return fmt.Errorf("email configuration not set")
	}

	// Headers
	headers := make(map[string]string)
	headers["From"] = fmt.Sprintf("%s <%s>", companyName, emailFrom)
	headers["To"] = strings.Join(to, ",")
	headers["Subject"] = subject
	headers["MIME-Version"] = "1.0"
	headers["Content-Type"] = "text/html; charset=UTF-8"
	headers["X-Mailer"] = "Locar-Mailer"

	// Build message
	message := ""
	for key, value := range headers {
		message += fmt.Sprintf("%s: %s\r\n", key, value)
	}
	message += "\r\n" + body

	// Authentication
	auth := smtp.PlainAuth("", emailFrom, emailPassword, smtpHost)

	// Send email
	err := smtp.SendMail(smtpHost+":"+smtpPort, auth, emailFrom, to, []byte(message))
	if err != nil {
		log.Printf("Failed to send email: %v", err)
		return err
	}

	log.Printf("Successfully sent email to recipients: %v", to)
	return nil
}

// SendReservationCreatedEmail confirms to the customer that their booking
// request was received and is pending review.
func SendReservationCreatedEmail(customerEmail, bookingCode, vehicleLabel, pickupLocation string, durationDays int, totalPrice float64) error {
	subject := fmt.Sprintf("Booking Request Received - %s", bookingCode)
	body := fmt.Sprintf(emailHeader+`
				<div style="background-color: #f9f9f9; padding: 20px; border-radius: 5px;">
					<h1 style="color: #2c3e50; text-align: center;">Booking Request Received</h1>
					<p>Hello,</p>
					<p>We received your reservation request for <strong>%s</strong>.</p>
					<p>Booking code: <strong>%s</strong><br>
					Pickup: <strong>%s</strong><br>
					Duration: <strong>%d day(s)</strong><br>
					Total price: <strong>%.2f</strong></p>
					<p>Our team will review your request shortly. You will receive an email once it is confirmed.</p>
					<div style="text-align: center; margin: 30px 0;">
						<a href="%s/reservations" style="background-color: #1565c0; color: white; padding: 12px 25px; text-decoration: none; border-radius: 5px;">View Your Reservations</a>
					</div>
					<p>Best regards,<br>The Locar Team</p>
				</div>`+emailFooter,
		vehicleLabel, bookingCode, pickupLocation, durationDays, totalPrice, baseURL)

	return sendEmail([]string{customerEmail}, subject, body)
}

// SendReservationStatusEmail informs the customer that their reservation
// moved to a new status.
func SendReservationStatusEmail(customerEmail, bookingCode, vehicleLabel, status string) error {
	subject := fmt.Sprintf("Reservation %s - %s", strings.ReplaceAll(status, "_", " "), bookingCode)
	body := fmt.Sprintf(emailHeader+`
				<div style="background-color: #f9f9f9; padding: 20px; border-radius: 5px;">
					<h1 style="color: #2c3e50; text-align: center;">Reservation Update</h1>
					<p>Hello,</p>
					<p>Your reservation <strong>%s</strong> for <strong>%s</strong> is now <strong>%s</strong>.</p>
					<div style="text-align: center; margin: 30px 0;">
						<a href="%s/reservations" style="background-color: #1565c0; color: white; padding: 12px 25px; text-decoration: none; border-radius: 5px;">View Your Reservations</a>
					</div>
					<p>Best regards,<br>The Locar Team</p>
				</div>`+emailFooter,
		bookingCode, vehicleLabel, strings.ReplaceAll(status, "_", " "), baseURL)

	return sendEmail([]string{customerEmail}, subject, body)
}
