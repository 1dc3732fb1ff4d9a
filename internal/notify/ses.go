package notify

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sesv2/types"

	"github.com/avelov/ticketlot/internal/logger"
	"github.com/avelov/ticketlot/internal/model"
)

// Config holds the SES delivery settings.
type Config struct {
	Region          string
	AccessKeyID     string
	SecretAccessKey string
	Sender          string
	AppName         string
}

// SESMailer delivers notifications through AWS SES.
type SESMailer struct {
	client  *sesv2.Client
	sender  string
	appName string
	logger  *logger.Logger
}

// NewSESMailer builds a mailer from explicit credentials. With empty
// credentials the default AWS provider chain is used.
func NewSESMailer(ctx context.Context, cfg Config, l *logger.Logger) (*SESMailer, error) {
	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.Region),
	}
	if cfg.AccessKeyID != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load aws config: %w", err)
	}

	return &SESMailer{
		client:  sesv2.NewFromConfig(awsCfg),
		sender:  cfg.Sender,
		appName: cfg.AppName,
		logger:  l.WithComponent("mailer"),
	}, nil
}

// Notify renders the message for the given kind and sends it.
func (m *SESMailer) Notify(ctx context.Context, user model.User, kind model.NotificationKind, payload model.NotificationPayload) error {
	subject, body, err := compose(m.appName, user, kind, payload)
	if err != nil {
		return err
	}

	out, err := m.client.SendEmail(ctx, &sesv2.SendEmailInput{
		FromEmailAddress: aws.String(m.sender),
		Destination: &types.Destination{
			ToAddresses: []string{user.Email},
		},
		Content: &types.EmailContent{
			Simple: &types.Message{
				Subject: &types.Content{Data: aws.String(subject)},
				Body: &types.Body{
					Text: &types.Content{Data: aws.String(body)},
				},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}

	m.logger.Info("Mailer: email sent",
		"kind", kind,
		"message_id", aws.ToString(out.MessageId))
	return nil
}
