package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	appcontext "github.com/avelov/ticketlot/internal/api/http/context"
	"github.com/avelov/ticketlot/internal/model"
	"github.com/avelov/ticketlot/internal/service"
	"github.com/avelov/ticketlot/internal/testutil"
)

type eventServiceMock struct {
	mock.Mock
}

func (m *eventServiceMock) Create(ctx context.Context, actor model.User, params service.EventParams) (model.Event, error) {
	args := m.Called(ctx, actor, params)
	return args.Get(0).(model.Event), args.Error(1)
}

func (m *eventServiceMock) Update(ctx context.Context, actor model.User, eventID uuid.UUID, params service.EventParams) (model.Event, error) {
	args := m.Called(ctx, actor, eventID, params)
	return args.Get(0).(model.Event), args.Error(1)
}

func (m *eventServiceMock) Finalize(ctx context.Context, actor model.User, eventID uuid.UUID) (model.Event, error) {
	args := m.Called(ctx, actor, eventID)
	return args.Get(0).(model.Event), args.Error(1)
}

func (m *eventServiceMock) Unfinalize(ctx context.Context, actor model.User, eventID uuid.UUID) (model.Event, error) {
	args := m.Called(ctx, actor, eventID)
	return args.Get(0).(model.Event), args.Error(1)
}

func (m *eventServiceMock) Cancel(ctx context.Context, actor model.User, eventID uuid.UUID) (model.Event, error) {
	args := m.Called(ctx, actor, eventID)
	return args.Get(0).(model.Event), args.Error(1)
}

func (m *eventServiceMock) Delete(ctx context.Context, actor model.User, eventID uuid.UUID) error {
	args := m.Called(ctx, actor, eventID)
	return args.Error(0)
}

func (m *eventServiceMock) Get(ctx context.Context, eventID uuid.UUID) (model.Event, error) {
	args := m.Called(ctx, eventID)
	return args.Get(0).(model.Event), args.Error(1)
}

func (m *eventServiceMock) ListOpen(ctx context.Context) ([]model.Event, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Event), args.Error(1)
}

func (m *eventServiceMock) ListPast(ctx context.Context, withinMonths int) ([]model.Event, error) {
	args := m.Called(ctx, withinMonths)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Event), args.Error(1)
}

type allocationServiceMock struct {
	mock.Mock
}

func (m *allocationServiceMock) SaveDraft(ctx context.Context, actor model.User, eventID uuid.UUID, allocations map[uuid.UUID]int) error {
	args := m.Called(ctx, actor, eventID, allocations)
	return args.Error(0)
}

func (m *allocationServiceMock) Finalize(ctx context.Context, actor model.User, eventID uuid.UUID, allocations map[uuid.UUID]int) (model.Event, error) {
	args := m.Called(ctx, actor, eventID, allocations)
	return args.Get(0).(model.Event), args.Error(1)
}

func (m *allocationServiceMock) Unfinalize(ctx context.Context, actor model.User, eventID uuid.UUID) (model.Event, error) {
	args := m.Called(ctx, actor, eventID)
	return args.Get(0).(model.Event), args.Error(1)
}

func withRouteParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

func newTestEventHandler(es *eventServiceMock, as *allocationServiceMock) (*Event, *appcontext.Manager) {
	cm := appcontext.NewManager()
	return NewEvent(es, as, cm, testutil.MakeNoopLogger()), cm
}

func TestEvent_Create(t *testing.T) {
	t.Parallel()

	actor := model.User{ID: uuid.New(), IsActive: true}
	created := model.Event{
		ID:           uuid.New(),
		Name:         "Spring Match",
		EventDate:    time.Date(2026, 4, 10, 18, 0, 0, 0, time.UTC),
		TotalTickets: 30,
		Status:       model.EventOpen,
		CreatedBy:    actor.ID,
	}

	es := &eventServiceMock{}
	es.On("Create", mock.Anything, actor, mock.MatchedBy(func(p service.EventParams) bool {
		return p.Name == "Spring Match" && p.TotalTickets == 30
	})).Return(created, nil)

	h, cm := newTestEventHandler(es, &allocationServiceMock{})

	body := `{"name": "Spring Match", "event_date": "2026-04-10T18:00:00Z", "total_tickets": 30}`
	req := httptest.NewRequest(http.MethodPost, "/api/events", strings.NewReader(body))
	req = req.WithContext(cm.SetUserToContext(req.Context(), actor))
	rec := httptest.NewRecorder()
	h.Create(rec, req)

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Contains(t, rec.Body.String(), created.ID.String())
	assert.Contains(t, rec.Body.String(), `"status":"open"`)
}

func TestEvent_Create_ValidationError(t *testing.T) {
	t.Parallel()

	actor := model.User{ID: uuid.New(), IsActive: true}
	es := &eventServiceMock{}
	es.On("Create", mock.Anything, actor, mock.Anything).Return(model.Event{}, model.NewValidationError("event name is required"))

	h, cm := newTestEventHandler(es, &allocationServiceMock{})

	req := httptest.NewRequest(http.MethodPost, "/api/events", strings.NewReader(`{"total_tickets": 10}`))
	req = req.WithContext(cm.SetUserToContext(req.Context(), actor))
	rec := httptest.NewRecorder()
	h.Create(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"error": "event name is required"}`, rec.Body.String())
}

func TestEvent_Get_InvalidID(t *testing.T) {
	t.Parallel()

	h, _ := newTestEventHandler(&eventServiceMock{}, &allocationServiceMock{})

	req := httptest.NewRequest(http.MethodGet, "/api/events/nope", nil)
	req = withRouteParam(req, "eventID", "nope")
	rec := httptest.NewRecorder()
	h.Get(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestEvent_ListPast_MonthsParam(t *testing.T) {
	t.Parallel()

	es := &eventServiceMock{}
	es.On("ListPast", mock.Anything, 6).Return([]model.Event{}, nil)
	h, _ := newTestEventHandler(es, &allocationServiceMock{})

	req := httptest.NewRequest(http.MethodGet, "/api/events/past?months=6", nil)
	rec := httptest.NewRecorder()
	h.ListPast(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	es.AssertExpectations(t)
}

func TestEvent_ListPast_InvalidMonths(t *testing.T) {
	t.Parallel()

	es := &eventServiceMock{}
	h, _ := newTestEventHandler(es, &allocationServiceMock{})

	for _, raw := range []string{"abc", "-1"} {
		req := httptest.NewRequest(http.MethodGet, "/api/events/past?months="+raw, nil)
		rec := httptest.NewRecorder()
		h.ListPast(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	}
	es.AssertNotCalled(t, "ListPast", mock.Anything, mock.Anything)
}

func TestEvent_Finalize(t *testing.T) {
	t.Parallel()

	actor := model.User{ID: uuid.New(), IsActive: true}
	eventID := uuid.New()
	subID := uuid.New()
	now := time.Now()
	finalized := model.Event{ID: eventID, Name: "Match", Status: model.EventFinalized, FinalizedAt: &now, CreatedBy: actor.ID}

	as := &allocationServiceMock{}
	as.On("Finalize", mock.Anything, actor, eventID, map[uuid.UUID]int{subID: 2}).Return(finalized, nil)

	h, cm := newTestEventHandler(&eventServiceMock{}, as)

	body := `{"allocations": {"` + subID.String() + `": 2}}`
	req := httptest.NewRequest(http.MethodPost, "/api/events/"+eventID.String()+"/finalize", strings.NewReader(body))
	req = req.WithContext(cm.SetUserToContext(req.Context(), actor))
	req = withRouteParam(req, "eventID", eventID.String())
	rec := httptest.NewRecorder()
	h.Finalize(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"finalized"`)
	as.AssertExpectations(t)
}

func TestEvent_Cancel_InvalidTransition(t *testing.T) {
	t.Parallel()

	actor := model.User{ID: uuid.New(), IsActive: true}
	eventID := uuid.New()

	es := &eventServiceMock{}
	es.On("Cancel", mock.Anything, actor, eventID).Return(model.Event{}, model.ErrInvalidTransition)

	h, cm := newTestEventHandler(es, &allocationServiceMock{})

	req := httptest.NewRequest(http.MethodPost, "/api/events/"+eventID.String()+"/cancel", nil)
	req = req.WithContext(cm.SetUserToContext(req.Context(), actor))
	req = withRouteParam(req, "eventID", eventID.String())
	rec := httptest.NewRecorder()
	h.Cancel(rec, req)

	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestEvent_Delete_Forbidden(t *testing.T) {
	t.Parallel()

	actor := model.User{ID: uuid.New(), IsActive: true}
	eventID := uuid.New()

	es := &eventServiceMock{}
	es.On("Delete", mock.Anything, actor, eventID).Return(model.ErrUnauthorized)

	h, cm := newTestEventHandler(es, &allocationServiceMock{})

	req := httptest.NewRequest(http.MethodDelete, "/api/events/"+eventID.String(), nil)
	req = req.WithContext(cm.SetUserToContext(req.Context(), actor))
	req = withRouteParam(req, "eventID", eventID.String())
	rec := httptest.NewRecorder()
	h.Delete(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.JSONEq(t, `{"error": "forbidden"}`, rec.Body.String())
}
