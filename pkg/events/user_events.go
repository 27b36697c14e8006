package events

import "time"

const (
	EventUserRegistered = "USER_REGISTERED"
	EventUserLogin      = "USER_LOGIN"
)

func NewUserRegisteredEvent(userId, email string) Event {
	return BaseEvent{
		Type: EventUserRegistered,
		Data: map[string]interface{}{
			"user_id": userId,
			"email":   email,
		},
		OccurredAt: time.Now(),
	}
}

func NewUserLoginEvent(userId, email string) Event {
	return BaseEvent{
		Type: EventUserLogin,
		Data: map[string]interface{}{
			"user_id": userId,
			"email":   email,
		},
		OccurredAt: time.Now(),
	}
}
