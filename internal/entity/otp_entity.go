package entity

import (
	"time"

	"github.com/google/uuid"
)

// OtpCode is a short-lived one-time verification code bound to an email
// address. Only the most recently issued code for an address is valid.
type OtpCode struct {
	Id        uuid.UUID
	Email     string
	Code      string
	ExpiresAt time.Time
	CreatedAt time.Time
}

func (o *OtpCode) Expired(now time.Time) bool {
	return now.After(o.ExpiresAt)
}
