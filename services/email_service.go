package services

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	sestypes "github.com/aws/aws-sdk-go-v2/service/sesv2/types"
	"go.uber.org/zap"
)

// EmailSender is the transactional-email collaborator. Delivery failures are
// never fatal to any primary mutation; the outbox dispatcher retries.
type EmailSender interface {
	SendConnectionAcceptedEmail(ctx context.Context, toAddress, toName, actorName string) error
}

// EmailService sends transactional mail through SES.
type EmailService struct {
	Client *sesv2.Client
	From   string
	Logger *zap.Logger
}

// SendConnectionAcceptedEmail tells a sender their request was accepted.
func (s *EmailService) SendConnectionAcceptedEmail(ctx context.Context, toAddress, toName, actorName string) error {
	if toAddress == "" {
		return fmt.Errorf("recipient address is empty")
	}

	subject := fmt.Sprintf("%s accepted your connection request", actorName)
	body := fmt.Sprintf(
		"<p>Hi %s,</p><p><strong>%s</strong> accepted your connection request. You are now connected.</p>",
		toName, actorName)

	_, err := s.Client.SendEmail(ctx, &sesv2.SendEmailInput{
		FromEmailAddress: aws.String(s.From),
		Destination: &sestypes.Destination{
			ToAddresses: []string{toAddress},
		},
		Content: &sestypes.EmailContent{
			Simple: &sestypes.Message{
				Subject: &sestypes.Content{Data: aws.String(subject)},
				Body: &sestypes.Body{
					Html: &sestypes.Content{Data: aws.String(body)},
				},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("failed to send email to %s: %w", toAddress, err)
	}

	s.Logger.Info("connection accepted email sent", zap.String("to", toAddress))
	return nil
}
