package notify

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avelov/ticketlot/internal/model"
)

func TestCompose_LoginLink(t *testing.T) {
	user := model.User{Name: "Ada", Email: "ada@example.com"}
	payload := model.NotificationPayload{URL: "https://tickets.example.com/auth/verify/abc"}

	subject, body, err := compose("Ticket Pool", user, model.NotifyLoginLink, payload)
	require.NoError(t, err)
	assert.Equal(t, "Ticket Pool - Your Login Link", subject)
	assert.Contains(t, body, "Hi Ada,")
	assert.Contains(t, body, payload.URL)
	assert.Contains(t, body, "15 minutes")
}

func TestCompose_Welcome(t *testing.T) {
	user := model.User{Name: "Bob"}
	payload := model.NotificationPayload{URL: "https://tickets.example.com/auth/reset-password/xyz"}

	subject, body, err := compose("Ticket Pool", user, model.NotifyWelcome, payload)
	require.NoError(t, err)
	assert.Equal(t, "Welcome to Ticket Pool", subject)
	assert.Contains(t, body, "An account has been created for you")
	assert.Contains(t, body, payload.URL)
}

func TestCompose_PasswordReset(t *testing.T) {
	user := model.User{Name: "Carol"}
	payload := model.NotificationPayload{URL: "https://tickets.example.com/auth/reset-password/xyz"}

	subject, body, err := compose("Ticket Pool", user, model.NotifyPasswordReset, payload)
	require.NoError(t, err)
	assert.Equal(t, "Ticket Pool - Password Reset", subject)
	assert.Contains(t, body, "24 hours")
}

func TestCompose_AllocationResult(t *testing.T) {
	user := model.User{Name: "Dan"}

	subject, body, err := compose("Ticket Pool", user, model.NotifyAllocationResult, model.NotificationPayload{
		EventName: "Spring Gala",
		Requested: 4,
		Allocated: 2,
	})
	require.NoError(t, err)
	assert.Equal(t, "Ticket Pool - Ticket Allocation for Spring Gala", subject)
	assert.Contains(t, body, "Great news! You requested 4 tickets and have been allocated 2 tickets for Spring Gala.")

	_, body, err = compose("Ticket Pool", user, model.NotifyAllocationResult, model.NotificationPayload{
		EventName: "Spring Gala",
		Requested: 1,
		Allocated: 0,
	})
	require.NoError(t, err)
	assert.Contains(t, body, "You requested 1 ticket, but unfortunately we were unable to allocate any tickets for Spring Gala this time.")
}

func TestCompose_UnknownKind(t *testing.T) {
	_, _, err := compose("Ticket Pool", model.User{}, model.NotificationKind("bogus"), model.NotificationPayload{})
	assert.Error(t, err)
}
