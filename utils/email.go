// utils/email.go
package utils

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/gomail.v2"

	"github.com/SufiyaaanShaikh/ExploreMates-Backend/models"
)

// SendEmail sends an HTML email over the configured SMTP relay
func SendEmail(to, subject, htmlBody string) error {
	smtpHost := os.Getenv("SMTP_HOST")
	smtpPortStr := os.Getenv("SMTP_PORT")
	smtpUser := os.Getenv("SMTP_USER")
	smtpPass := os.Getenv("SMTP_PASS")
	fromEmail := os.Getenv("FROM_EMAIL")
	if fromEmail == "" {
		fromEmail = smtpUser
	}

	if smtpHost == "" || smtpPortStr == "" || smtpUser == "" || smtpPass == "" {
		return fmt.Errorf("missing SMTP configuration")
	}

	smtpPort, err := strconv.Atoi(smtpPortStr)
	if err != nil {
		return fmt.Errorf("invalid SMTP port: %v", err)
	}

	m := gomail.NewMessage()
	m.SetHeader("From", m.FormatAddress(fromEmail, "ExploreMates"))
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", htmlBody)

	d := gomail.NewDialer(smtpHost, smtpPort, smtpUser, smtpPass)

	if err := d.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send email: %v", err)
	}

	return nil
}

// SMTPSender adapts SendEmail to the notification sender contract used by
// the signup service
type SMTPSender struct{}

func (SMTPSender) Send(to, subject, body string) error {
	return SendEmail(to, subject, body)
}

// SignupOTPEmail builds the verification mail for a pending signup
func SignupOTPEmail(name, otp string) (subject, body string) {
	subject = "Email Verification - Your OTP Code"
	body = fmt.Sprintf(`
		<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto; padding: 20px;">
			<div style="background: linear-gradient(135deg, #667eea 0%%, #764ba2 100%%); padding: 30px; border-radius: 10px; text-align: center;">
				<h1 style="color: white; margin: 0;">Email Verification</h1>
			</div>
			<div style="background: #f8f9fa; padding: 30px; border-radius: 0 0 10px 10px;">
				<h2 style="color: #333; margin-top: 0;">Hello %s!</h2>
				<p style="color: #666; font-size: 16px; line-height: 1.5;">
					Thank you for signing up! Please use the following OTP to verify your email address:
				</p>
				<div style="background: white; padding: 20px; border-radius: 8px; text-align: center; margin: 20px 0; border: 2px dashed #667eea;">
					<h1 style="color: #667eea; font-size: 32px; margin: 0; letter-spacing: 8px;">%s</h1>
				</div>
				<p style="color: #666; font-size: 14px;">
					This OTP will expire in 5 minutes. If you didn't request this verification, please ignore this email.
				</p>
			</div>
		</div>
	`, name, otp)
	return subject, body
}

// ConnectionRequestEmail builds the mail sent to a trip creator when
// another traveler asks to connect
func ConnectionRequestEmail(sender, recipient *models.User, trip *models.Trip, message string) (subject, body string) {
	subject = fmt.Sprintf("New connection request from %s about your trip to %s", sender.Name, trip.Destination)

	contact := fmt.Sprintf("<p><strong>Name:</strong> %s</p>", sender.Name)
	if sender.Phone != "" {
		contact += fmt.Sprintf("<p><strong>Phone:</strong> %s</p>", sender.Phone)
	}
	if sender.Age > 0 {
		contact += fmt.Sprintf("<p><strong>Age:</strong> %d</p>", sender.Age)
	}
	contact += fmt.Sprintf("<p><strong>Email:</strong> %s</p>", sender.Email)

	body = fmt.Sprintf(`
		<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto; padding: 20px; border: 1px solid #e0e0e0; border-radius: 5px;">
			<div style="background: linear-gradient(to right, #4f46e5, #3b82f6); padding: 15px; border-radius: 5px 5px 0 0;">
				<h2 style="color: white; margin: 0;">Trip Connection Request</h2>
			</div>
			<div style="padding: 20px;">
				<p>Hello %s,</p>
				<p><strong>%s</strong> is interested in connecting with you about your trip:</p>
				<div style="background-color: #f9fafb; padding: 15px; border-radius: 5px; margin: 15px 0;">
					<h3 style="margin-top: 0; color: #4f46e5;">%s</h3>
					<p><strong>Destination:</strong> %s</p>
					<p><strong>Duration:</strong> %s</p>
				</div>
				<div style="background-color: #f0f9ff; padding: 15px; border-radius: 5px; margin: 15px 0; border-left: 4px solid #3b82f6;">
					<h4 style="margin-top: 0;">Message from %s:</h4>
					<p style="margin-bottom: 0;">%s</p>
				</div>
				<div style="background-color: #f9fafb; padding: 15px; border-radius: 5px; margin: 15px 0;">
					<h4 style="margin-top: 0;">Contact Information:</h4>
					%s
				</div>
				<p>You can reply directly to this email to get in touch with %s.</p>
				<p>Happy travels!<br>The ExploreMates Team</p>
			</div>
			<div style="background-color: #f9fafb; padding: 10px; text-align: center; font-size: 12px; color: #6b7280; border-radius: 0 0 5px 5px;">
				<p>&copy; %d ExploreMates. All rights reserved.</p>
			</div>
		</div>
	`, recipient.Name, sender.Name, trip.Title, trip.Destination, trip.Duration,
		sender.Name, message, contact, sender.Name, time.Now().Year())

	return subject, body
}
