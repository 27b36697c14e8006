package service

import (
	"context"
	"encoding/json"

	"ai-chatbot-be/internal/dto"
	"ai-chatbot-be/internal/pkg/logger"
	"ai-chatbot-be/internal/pkg/mailer"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

const otpMailTopic = "mail.otp"

// MailDispatchService decouples OTP issuance from SMTP delivery: codes
// are published to an in-process queue and sent by a background worker,
// so a slow or failing mail server never blocks an auth request.
type MailDispatchService interface {
	Dispatch(ctx context.Context, msg dto.OtpMailMessage) error
	Start(ctx context.Context) error
	Close() error
}

type mailDispatchService struct {
	pubsub *gochannel.GoChannel
	mailer mailer.IEmailService
	log    logger.ILogger
}

func NewMailDispatchService(mail mailer.IEmailService, log logger.ILogger) MailDispatchService {
	pubsub := gochannel.NewGoChannel(
		gochannel.Config{OutputChannelBuffer: 64},
		watermill.NopLogger{},
	)
	return &mailDispatchService{
		pubsub: pubsub,
		mailer: mail,
		log:    log,
	}
}

func (s *mailDispatchService) Dispatch(ctx context.Context, msg dto.OtpMailMessage) error {
	payload, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	return s.pubsub.Publish(otpMailTopic, message.NewMessage(watermill.NewUUID(), payload))
}

// Start launches the delivery worker. Send failures are logged and the
// message is acked anyway: the user can always request a resend.
func (s *mailDispatchService) Start(ctx context.Context) error {
	messages, err := s.pubsub.Subscribe(ctx, otpMailTopic)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			var payload dto.OtpMailMessage
			if err := json.Unmarshal(msg.Payload, &payload); err != nil {
				s.log.Error("mail_dispatch", "malformed mail payload", map[string]interface{}{"error": err.Error()})
				msg.Ack()
				continue
			}

			if err := s.mailer.SendOTP(payload.Email, payload.Code); err != nil {
				s.log.Error("mail_dispatch", "failed to send otp mail", map[string]interface{}{
					"email": payload.Email,
					"error": err.Error(),
				})
			}
			msg.Ack()
		}
	}()

	return nil
}

func (s *mailDispatchService) Close() error {
	return s.pubsub.Close()
}
