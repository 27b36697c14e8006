package dto

// OtpMailMessage is the payload published to the mail dispatch topic
type OtpMailMessage struct {
	Email   string `json:"email"`
	Name    string `json:"name"`
	Code    string `json:"code"`
	Purpose string `json:"purpose"` // "verify_email" or "login"
}
