package model

import "context"

// NotificationKind selects the template for an outbound message.
type NotificationKind string

const (
	NotifyLoginLink        NotificationKind = "login-link"
	NotifyWelcome          NotificationKind = "welcome"
	NotifyPasswordReset    NotificationKind = "password-reset"
	NotifyAllocationResult NotificationKind = "allocation-result"
)

// NotificationPayload carries template data. Fields are used per kind:
// URL for the token-bearing flows, the rest for allocation results.
type NotificationPayload struct {
	URL       string
	EventName string
	Requested int
	Allocated int
}

// Notifier delivers a message to a user. Delivery is best effort: the
// caller logs failures but must not surface them to the end user in the
// privacy-preserving auth flows.
type Notifier interface {
	Notify(ctx context.Context, user User, kind NotificationKind, payload NotificationPayload) error
}
