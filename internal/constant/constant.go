package constant

import "time"

const (
	// OTP
	OtpLength   = 6
	OtpValidity = 10 * time.Minute

	// Chat defaults
	DefaultChatModel   = "llama-3.3-70b-versatile"
	DefaultTemperature = 0.7
	DefaultMaxTokens   = 4096

	// Conversation
	DefaultConversationTitle = "New Conversation"
	TitleMaxLength           = 40

	// Weather
	WeatherCacheTTL = 10 * time.Minute
)
