package handler

import (
	"time"

	"github.com/google/uuid"

	"github.com/avelov/ticketlot/internal/model"
	"github.com/avelov/ticketlot/internal/service"
)

type userResponse struct {
	ID                uuid.UUID `json:"id"`
	Name              string    `json:"name"`
	Email             string    `json:"email"`
	IsAdmin           bool      `json:"is_admin"`
	IsActive          bool      `json:"is_active"`
	MustResetPassword bool      `json:"must_reset_password"`
}

func toUserResponse(u model.User) userResponse {
	return userResponse{
		ID:                u.ID,
		Name:              u.Name,
		Email:             u.Email,
		IsAdmin:           u.IsAdmin,
		IsActive:          u.IsActive,
		MustResetPassword: u.MustResetPassword,
	}
}

func toUserResponses(users []model.User) []userResponse {
	out := make([]userResponse, 0, len(users))
	for _, u := range users {
		out = append(out, toUserResponse(u))
	}
	return out
}

type sessionResponse struct {
	AccessToken  string       `json:"access_token"`
	RefreshToken string       `json:"refresh_token"`
	User         userResponse `json:"user"`
}

func toSessionResponse(s service.Session) sessionResponse {
	return sessionResponse{
		AccessToken:  s.AccessToken,
		RefreshToken: s.RefreshToken,
		User:         toUserResponse(s.User),
	}
}

type eventResponse struct {
	ID           uuid.UUID  `json:"id"`
	Name         string     `json:"name"`
	EventDate    time.Time  `json:"event_date"`
	TotalTickets int        `json:"total_tickets"`
	Notes        string     `json:"notes,omitempty"`
	Status       string     `json:"status"`
	CreatedBy    uuid.UUID  `json:"created_by"`
	FinalizedAt  *time.Time `json:"finalized_at,omitempty"`
}

func toEventResponse(e model.Event) eventResponse {
	return eventResponse{
		ID:           e.ID,
		Name:         e.Name,
		EventDate:    e.EventDate,
		TotalTickets: e.TotalTickets,
		Notes:        e.Notes,
		Status:       string(e.Status),
		CreatedBy:    e.CreatedBy,
		FinalizedAt:  e.FinalizedAt,
	}
}

func toEventResponses(events []model.Event) []eventResponse {
	out := make([]eventResponse, 0, len(events))
	for _, e := range events {
		out = append(out, toEventResponse(e))
	}
	return out
}

type submissionResponse struct {
	ID          uuid.UUID `json:"id"`
	EventID     uuid.UUID `json:"event_id"`
	UserID      uuid.UUID `json:"user_id"`
	UserName    string    `json:"user_name,omitempty"`
	Preferences []int     `json:"preferences"`
	Notes       string    `json:"notes,omitempty"`
	Allocated   int       `json:"allocated"`
}

func toSubmissionResponse(s model.Submission) submissionResponse {
	return submissionResponse{
		ID:          s.ID,
		EventID:     s.EventID,
		UserID:      s.UserID,
		UserName:    s.UserName,
		Preferences: s.Preferences,
		Notes:       s.Notes,
		Allocated:   s.Allocated,
	}
}

func toSubmissionResponses(subs []model.Submission) []submissionResponse {
	out := make([]submissionResponse, 0, len(subs))
	for _, s := range subs {
		out = append(out, toSubmissionResponse(s))
	}
	return out
}

type tallyResponse struct {
	Count            int `json:"count"`
	SumIdeal         int `json:"sum_ideal"`
	SumMinAcceptable int `json:"sum_min_acceptable"`
	SumAllocated     int `json:"sum_allocated"`
}

func toTallyResponse(t model.Tally) tallyResponse {
	return tallyResponse{
		Count:            t.Count,
		SumIdeal:         t.SumIdeal,
		SumMinAcceptable: t.SumMinAcceptable,
		SumAllocated:     t.SumAllocated,
	}
}
