// FILE: internal/pkg/mailer/email_service.go
package mailer

import (
	"fmt"

	"gopkg.in/gomail.v2"
)

type IEmailService interface {
	SendOTP(toEmail, otp string) error
}

type emailService struct {
	dialer      *gomail.Dialer
	senderEmail string
	senderName  string
}

// NewEmailService builds the SMTP mailer. When host is empty the dialer
// stays nil and SendOTP falls back to logging the code, so the OTP flow
// remains usable without mail configured.
func NewEmailService(host string, port int, username, password, senderEmail, senderName string) IEmailService {
	var d *gomail.Dialer
	if host != "" {
		d = gomail.NewDialer(host, port, username, password)
	}

	return &emailService{
		dialer:      d,
		senderEmail: senderEmail,
		senderName:  senderName,
	}
}

func (s *emailService) SendOTP(toEmail, otp string) error {
	if s.dialer == nil {
		fmt.Printf("[MAILER DEV MODE] OTP for %s: %s\n", toEmail, otp)
		return nil
	}

	m := gomail.NewMessage()
	m.SetHeader("From", m.FormatAddress(s.senderEmail, s.senderName))
	m.SetHeader("To", toEmail)
	m.SetHeader("Subject", "Your Verification Code - AI Chatbot")

	body := fmt.Sprintf(`
		<div style="font-family: Arial, sans-serif; padding: 20px; color: #333;">
			<h2>Email Verification</h2>
			<p>Use the code below to verify your email:</p>
			<h1 style="color: #667eea; letter-spacing: 8px;">%s</h1>
			<p>This code will expire in 10 minutes.</p>
			<p>If you didn't request this code, please ignore this email.</p>
		</div>
	`, otp)

	m.SetBody("text/html", body)

	if err := s.dialer.DialAndSend(m); err != nil {
		fmt.Printf("[MAILER ERROR] Failed to send OTP to %s: %v\n", toEmail, err)
		fmt.Printf("[MAILER DEV MODE] OTP for %s: %s\n", toEmail, otp)
		return err
	}

	fmt.Printf("[MAILER] OTP sent to %s\n", toEmail)
	return nil
}
