package notify

import (
	"fmt"

	"github.com/avelov/ticketlot/internal/model"
)

// compose renders the subject and text body for one outbound message.
func compose(appName string, user model.User, kind model.NotificationKind, payload model.NotificationPayload) (subject, body string, err error) {
	switch kind {
	case model.NotifyLoginLink:
		subject = fmt.Sprintf("%s - Your Login Link", appName)
		body = fmt.Sprintf(`Hi %s,

Click here to log in to %s: %s

This link will expire in 15 minutes and can only be used once.

If you didn't request this, you can safely ignore this email.

Thanks,
%s`, user.Name, appName, payload.URL, appName)

	case model.NotifyWelcome:
		subject = fmt.Sprintf("Welcome to %s", appName)
		body = fmt.Sprintf(`Hi %s,

An account has been created for you at %s.

Click here to set your password and get started: %s

Thanks,
%s`, user.Name, appName, payload.URL, appName)

	case model.NotifyPasswordReset:
		subject = fmt.Sprintf("%s - Password Reset", appName)
		body = fmt.Sprintf(`Hi %s,

Click here to reset your password: %s

This link will expire in 24 hours and can only be used once.

If you didn't request this, you can safely ignore this email.

Thanks,
%s`, user.Name, payload.URL, appName)

	case model.NotifyAllocationResult:
		subject = fmt.Sprintf("%s - Ticket Allocation for %s", appName, payload.EventName)
		var message string
		if payload.Allocated > 0 {
			message = fmt.Sprintf("Great news! You requested %d %s and have been allocated %d %s for %s.",
				payload.Requested, plural(payload.Requested), payload.Allocated, plural(payload.Allocated), payload.EventName)
		} else {
			message = fmt.Sprintf("You requested %d %s, but unfortunately we were unable to allocate any tickets for %s this time.",
				payload.Requested, plural(payload.Requested), payload.EventName)
		}
		body = fmt.Sprintf(`Hi %s,

%s

Thanks,
%s`, user.Name, message, appName)

	default:
		return "", "", fmt.Errorf("unknown notification kind: %s", kind)
	}

	return subject, body, nil
}

func plural(n int) string {
	if n == 1 {
		return "ticket"
	}
	return "tickets"
}
