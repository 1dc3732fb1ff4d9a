package notify

import (
	"context"

	"github.com/avelov/ticketlot/internal/logger"
	"github.com/avelov/ticketlot/internal/model"
)

// LogMailer logs messages instead of sending them. Used when mail
// delivery is disabled, typically in local development.
type LogMailer struct {
	appName string
	logger  *logger.Logger
}

func NewLogMailer(appName string, l *logger.Logger) *LogMailer {
	return &LogMailer{appName: appName, logger: l.WithComponent("mailer")}
}

// Notify renders the message and logs it. It always reports success so
// callers behave exactly as with real delivery.
func (m *LogMailer) Notify(_ context.Context, user model.User, kind model.NotificationKind, payload model.NotificationPayload) error {
	subject, body, err := compose(m.appName, user, kind, payload)
	if err != nil {
		return err
	}

	m.logger.Info("Mailer: delivery disabled, not sent",
		"to", user.Email,
		"kind", kind,
		"subject", subject,
		"body", body)
	return nil
}
