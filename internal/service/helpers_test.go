package service

import (
	"context"
	"sync"

	"ai-chatbot-be/internal/dto"
)

// nopLogger keeps service tests quiet.
type nopLogger struct{}

func (nopLogger) Debug(module, message string, details map[string]interface{}) {}
func (nopLogger) Info(module, message string, details map[string]interface{})  {}
func (nopLogger) Warn(module, message string, details map[string]interface{})  {}
func (nopLogger) Error(module, message string, details map[string]interface{}) {}
func (nopLogger) Sync() error                                                  { return nil }

// captureMail records dispatched OTP mails instead of delivering them.
type captureMail struct {
	mu   sync.Mutex
	sent []dto.OtpMailMessage
}

func (m *captureMail) Dispatch(ctx context.Context, msg dto.OtpMailMessage) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, msg)
	return nil
}

func (m *captureMail) Start(ctx context.Context) error { return nil }
func (m *captureMail) Close() error                    { return nil }

func (m *captureMail) last() *dto.OtpMailMessage {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.sent) == 0 {
		return nil
	}
	msg := m.sent[len(m.sent)-1]
	return &msg
}

func (m *captureMail) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sent)
}
