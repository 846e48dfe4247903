package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/rodaworks/academy/internal/domain/model"
	"github.com/rodaworks/academy/internal/mocks"
)

func newStatsFixture(t *testing.T) (*StatsService, *mocks.MockUserRepository, *mocks.MockEventRepository, *mocks.MockOrderRepository, *mocks.MockGalleryRepository, *mocks.MockContactRepository) {
	t.Helper()
	ctrl := gomock.NewController(t)
	users := mocks.NewMockUserRepository(ctrl)
	events := mocks.NewMockEventRepository(ctrl)
	orders := mocks.NewMockOrderRepository(ctrl)
	gallery := mocks.NewMockGalleryRepository(ctrl)
	messages := mocks.NewMockContactRepository(ctrl)
	svc := NewStatsService(StatsServiceOptions{
		Users:    users,
		Events:   events,
		Orders:   orders,
		Gallery:  gallery,
		Messages: messages,
	})
	return svc, users, events, orders, gallery, messages
}

func TestStatsService_Dashboard(t *testing.T) {
	svc, users, events, orders, gallery, messages := newStatsFixture(t)
	now := time.Now()

	users.EXPECT().CountByRole(gomock.Any()).Return(map[string]int{
		"student":    40,
		"instructor": 3,
		"manager":    1,
		"admin":      1,
	}, nil)
	events.EXPECT().CountUpcoming(gomock.Any(), now).Return(5, nil)
	orders.EXPECT().CountByStatus(gomock.Any(), model.OrderStatusPaid).Return(12, nil)
	orders.EXPECT().RevenueCents(gomock.Any()).Return(int64(250000), nil)
	messages.EXPECT().CountUnread(gomock.Any()).Return(2, nil)
	gallery.EXPECT().Count(gomock.Any()).Return(31, nil)

	stats, err := svc.Dashboard(context.Background(), now)

	require.NoError(t, err)
	assert.Equal(t, 45, stats.TotalMembers)
	assert.Equal(t, 40, stats.MembersByRole["student"])
	assert.Equal(t, 5, stats.UpcomingEvents)
	assert.Equal(t, 12, stats.PaidOrders)
	assert.Equal(t, int64(250000), stats.RevenueCents)
	assert.Equal(t, 2, stats.UnreadMessages)
	assert.Equal(t, 31, stats.GalleryImages)
}

func TestStatsService_Dashboard_PropagatesQueryError(t *testing.T) {
	svc, users, events, orders, gallery, messages := newStatsFixture(t)
	now := time.Now()

	queryErr := errors.New("connection refused")
	users.EXPECT().CountByRole(gomock.Any()).Return(nil, queryErr)
	// The remaining queries run concurrently; they may or may not be reached
	// before the group cancels.
	events.EXPECT().CountUpcoming(gomock.Any(), now).Return(0, nil).AnyTimes()
	orders.EXPECT().CountByStatus(gomock.Any(), gomock.Any()).Return(0, nil).AnyTimes()
	orders.EXPECT().RevenueCents(gomock.Any()).Return(int64(0), nil).AnyTimes()
	messages.EXPECT().CountUnread(gomock.Any()).Return(0, nil).AnyTimes()
	gallery.EXPECT().Count(gomock.Any()).Return(0, nil).AnyTimes()

	stats, err := svc.Dashboard(context.Background(), now)

	require.Error(t, err)
	assert.ErrorIs(t, err, queryErr)
	assert.Nil(t, stats)
}
