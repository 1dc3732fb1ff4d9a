package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	appcontext "github.com/avelov/ticketlot/internal/api/http/context"
	servermocks "github.com/avelov/ticketlot/internal/mocks"
	"github.com/avelov/ticketlot/internal/model"
	"github.com/avelov/ticketlot/internal/testutil"
)

type tokenServiceMock struct {
	mock.Mock
}

func (m *tokenServiceMock) GetUserID(ctx context.Context, token string) (uuid.UUID, error) {
	args := m.Called(ctx, token)
	return args.Get(0).(uuid.UUID), args.Error(1)
}

func TestAuthenticate_Handle(t *testing.T) {
	t.Parallel()

	userID := uuid.New()

	tests := []struct {
		name       string
		authHeader string
		tokenErr   error
		user       model.User
		userErr    error
		wantStatus int
		wantUser   bool
	}{
		{
			name:       "missing authorization header",
			authHeader: "",
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "malformed authorization header",
			authHeader: "Basic dXNlcg==",
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "invalid token",
			authHeader: "Bearer invalid",
			tokenErr:   model.ErrTokenInvalid,
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "unknown user",
			authHeader: "Bearer token",
			userErr:    model.ErrNotFound,
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "deactivated user",
			authHeader: "Bearer token",
			user:       model.User{ID: userID, Email: "gone@example.com", IsActive: false},
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "valid token",
			authHeader: "Bearer token",
			user:       model.User{ID: userID, Email: "ada@example.com", IsActive: true},
			wantStatus: http.StatusOK,
			wantUser:   true,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			tokenService := &tokenServiceMock{}
			if tt.authHeader != "" && tt.authHeader != "Basic dXNlcg==" {
				tokenService.On("GetUserID", mock.Anything, "token").Return(userID, tt.tokenErr).Maybe()
				tokenService.On("GetUserID", mock.Anything, "invalid").Return(uuid.Nil, tt.tokenErr).Maybe()
			}

			userStore := &servermocks.UserStore{}
			if tt.tokenErr == nil {
				userStore.On("GetByID", mock.Anything, userID).Return(tt.user, tt.userErr).Maybe()
			}

			cm := appcontext.NewManager()
			m := NewAuthenticate(tokenService, userStore, cm, testutil.MakeNoopLogger())

			var gotUser model.User
			var gotOK bool
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				gotUser, gotOK = cm.GetUserFromContext(r.Context())
				w.WriteHeader(http.StatusOK)
			})

			req := httptest.NewRequest(http.MethodGet, "/api/me", nil)
			if tt.authHeader != "" {
				req.Header.Set("Authorization", tt.authHeader)
			}
			rec := httptest.NewRecorder()

			m.Handle(next).ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantUser {
				assert.True(t, gotOK)
				assert.Equal(t, tt.user.Email, gotUser.Email)
			} else {
				assert.False(t, gotOK)
				assert.JSONEq(t, `{"error": "authentication required"}`, rec.Body.String())
			}
		})
	}
}
