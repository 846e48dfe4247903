package httpx

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	domainauth "github.com/rodaworks/academy/internal/domain/auth"
	"github.com/rodaworks/academy/internal/domain/model"
)

func TestCreateEvent_UnpublishedByDefault(t *testing.T) {
	f := newRouterFixture(t)
	token := f.signIn(t, domainauth.RoleManager)
	starts := time.Date(2026, 9, 12, 18, 0, 0, 0, time.UTC)

	f.events.EXPECT().
		Create(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, req *model.CreateEventRequest) (*model.Event, error) {
			assert.Equal(t, "Roda de sábado", req.Title)
			assert.Nil(t, req.Published)
			return &model.Event{ID: "ev-1", Title: req.Title, StartsAt: req.StartsAt}, nil
		})

	rec := f.do(t, http.MethodPost, "/api/events", token, map[string]any{
		"title":     "Roda de sábado",
		"location":  "Main studio",
		"starts_at": starts,
		"capacity":  40,
	})

	require.Equal(t, http.StatusCreated, rec.Code)
	event := decodeBody[model.Event](t, rec)
	assert.Equal(t, "ev-1", event.ID)
}

func TestCreateEvent_EndsBeforeStartsRejected(t *testing.T) {
	f := newRouterFixture(t)
	token := f.signIn(t, domainauth.RoleManager)
	starts := time.Date(2026, 9, 12, 18, 0, 0, 0, time.UTC)

	rec := f.do(t, http.MethodPost, "/api/events", token, map[string]any{
		"title":     "Batizado",
		"starts_at": starts,
		"ends_at":   starts.Add(-time.Hour),
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestListUpcomingEvents_PublicFiltering(t *testing.T) {
	f := newRouterFixture(t)
	before := time.Now()

	f.events.EXPECT().
		List(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, opts model.EventsListOptions) ([]*model.Event, error) {
			require.NotNil(t, opts.Published)
			assert.True(t, *opts.Published)
			require.NotNil(t, opts.UpcomingAfter)
			assert.False(t, opts.UpcomingAfter.Before(before))
			assert.Equal(t, "starts_at", opts.Sort)
			assert.Equal(t, "asc", opts.Dir)
			assert.Equal(t, 10, opts.Limit)
			return []*model.Event{{ID: "ev-1", Published: true}}, nil
		})

	rec := f.do(t, http.MethodGet, "/api/events/upcoming", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestListUpcomingEvents_LimitClamped(t *testing.T) {
	f := newRouterFixture(t)

	f.events.EXPECT().
		List(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, opts model.EventsListOptions) ([]*model.Event, error) {
			assert.Equal(t, 50, opts.Limit)
			return []*model.Event{}, nil
		})

	rec := f.do(t, http.MethodGet, "/api/events/upcoming?limit=500", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestListEvents_StaffSeesUnpublished(t *testing.T) {
	f := newRouterFixture(t)
	token := f.signIn(t, domainauth.RoleManager)

	f.events.EXPECT().
		List(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, opts model.EventsListOptions) ([]*model.Event, error) {
			assert.Nil(t, opts.Published, "no published filter unless requested")
			require.NotNil(t, opts.Q)
			assert.Equal(t, "roda", *opts.Q)
			return []*model.Event{}, nil
		})

	rec := f.do(t, http.MethodGet, "/api/events?q=roda", token, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestUpdateEvent_Publish(t *testing.T) {
	f := newRouterFixture(t)
	token := f.signIn(t, domainauth.RoleManager)

	f.events.EXPECT().
		Update(gomock.Any(), "ev-1", gomock.Any()).
		DoAndReturn(func(_ context.Context, _ string, req model.UpdateEventRequest) (*model.Event, error) {
			require.NotNil(t, req.Published)
			assert.True(t, *req.Published)
			return &model.Event{ID: "ev-1", Published: true}, nil
		})

	rec := f.do(t, http.MethodPut, "/api/events/ev-1", token, map[string]any{"published": true})
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestDeleteEvent_NotFound(t *testing.T) {
	f := newRouterFixture(t)
	token := f.signIn(t, domainauth.RoleManager)

	f.events.EXPECT().Delete(gomock.Any(), "ev-missing").Return(false, nil)

	rec := f.do(t, http.MethodDelete, "/api/events/ev-missing", token, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
