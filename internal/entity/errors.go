package entity

import "errors"

// Authentication errors. ErrInvalidCredentials deliberately covers both
// unknown email and wrong password so callers cannot enumerate accounts.
var (
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrNotVerified        = errors.New("email not verified")
	ErrAlreadyVerified    = errors.New("email already verified")
	ErrUserNotFound       = errors.New("user not found")
)

// OTP errors. A single error covers missing, expired and mismatched
// codes so the response does not reveal which check failed.
var (
	ErrInvalidOrExpiredCode = errors.New("invalid or expired otp code")
)

// Chat errors.
var (
	ErrConversationNotFound = errors.New("conversation not found or access denied")
)

// Weather errors.
var (
	ErrCityNotFound         = errors.New("city not found")
	ErrWeatherNotConfigured = errors.New("weather api key not configured")
)
