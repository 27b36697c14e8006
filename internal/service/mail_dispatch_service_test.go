package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"ai-chatbot-be/internal/dto"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordingMailer stands in for the SMTP mailer.
type recordingMailer struct {
	mu    sync.Mutex
	sent  []string
	fail  bool
	codes []string
}

func (m *recordingMailer) SendOTP(toEmail, otp string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail {
		return errors.New("smtp unavailable")
	}
	m.sent = append(m.sent, toEmail)
	m.codes = append(m.codes, otp)
	return nil
}

func (m *recordingMailer) sentCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sent)
}

func TestMailDispatchDeliversInBackground(t *testing.T) {
	mailer := &recordingMailer{}
	svc := NewMailDispatchService(mailer, nopLogger{})
	defer svc.Close()

	require.NoError(t, svc.Start(context.Background()))
	require.NoError(t, svc.Dispatch(context.Background(), dto.OtpMailMessage{
		Email:   "alice@example.com",
		Code:    "123456",
		Purpose: "verify_email",
	}))

	assert.Eventually(t, func() bool {
		return mailer.sentCount() == 1
	}, 2*time.Second, 10*time.Millisecond)
}

func TestMailDispatchSwallowsSendFailures(t *testing.T) {
	mailer := &recordingMailer{fail: true}
	svc := NewMailDispatchService(mailer, nopLogger{})
	defer svc.Close()

	require.NoError(t, svc.Start(context.Background()))

	// Dispatch never surfaces delivery errors to the caller
	assert.NoError(t, svc.Dispatch(context.Background(), dto.OtpMailMessage{
		Email: "alice@example.com",
		Code:  "123456",
	}))

	// A later message still goes through once SMTP recovers
	mailer.mu.Lock()
	mailer.fail = false
	mailer.mu.Unlock()

	require.NoError(t, svc.Dispatch(context.Background(), dto.OtpMailMessage{
		Email: "bob@example.com",
		Code:  "654321",
	}))
	assert.Eventually(t, func() bool {
		return mailer.sentCount() == 1
	}, 2*time.Second, 10*time.Millisecond)
}
