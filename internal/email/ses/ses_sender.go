package ses

import (
	"context"
	"fmt"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sesv2/types"

	"shipdesk/internal/port"
)

type sesSender struct {
	client      *sesv2.Client
	fromAddress string
	fromName    string
}

// NewSESSender creates a new SES-backed EmailSender.
func NewSESSender(region, fromAddress, fromName string) (port.EmailSender, error) {
	cfg, err := awsconfig.LoadDefaultConfig(context.Background(), awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("loading AWS config for SES: %w", err)
	}
	client := sesv2.NewFromConfig(cfg)
	return &sesSender{
		client:      client,
		fromAddress: fromAddress,
		fromName:    fromName,
	}, nil
}

func (s *sesSender) SendOTPEmail(ctx context.Context, toEmail, toName, otp string) error {
	subject := "Your Shipdesk verification code"
	htmlBody := buildOTPHTML(toName, otp)
	textBody := fmt.Sprintf("Hi %s,\n\nYour Shipdesk verification code is: %s\n\nThe code expires in 10 minutes. If you didn't request it, you can safely ignore this email.\n\nShipdesk Team", toName, otp)

	from := fmt.Sprintf("%s <%s>", s.fromName, s.fromAddress)

	_, err := s.client.SendEmail(ctx, &sesv2.SendEmailInput{
		FromEmailAddress: &from,
		Destination: &types.Destination{
			ToAddresses: []string{toEmail},
		},
		Content: &types.EmailContent{
			Simple: &types.Message{
				Subject: &types.Content{Data: &subject},
				Body: &types.Body{
					Html: &types.Content{Data: &htmlBody},
					Text: &types.Content{Data: &textBody},
				},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("SES SendEmail: %w", err)
	}
	return nil
}

func buildOTPHTML(name, otp string) string {
	return fmt.Sprintf(`<!DOCTYPE html>
<html>
<head><meta charset="UTF-8"></head>
<body style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto; padding: 20px;">
  <h2 style="color: #333;">Your verification code</h2>
  <p>Hi %s,</p>
  <p>Use the code below to finish signing up for Shipdesk:</p>
  <p style="text-align: center; margin: 30px 0;">
    <span style="font-size: 32px; letter-spacing: 8px; font-weight: bold; color: #4F46E5;">%s</span>
  </p>
  <p style="color: #999; font-size: 12px;">This code expires in 10 minutes. If you didn't request it, you can safely ignore this email.</p>
  <hr style="border: none; border-top: 1px solid #eee; margin: 20px 0;">
  <p style="color: #999; font-size: 12px;">Shipdesk - Logistics Document Portal</p>
</body>
</html>`, name, otp)
}
