package service

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/rodaworks/academy/internal/core"
	"github.com/rodaworks/academy/internal/domain/model"
)

// StatsServiceOptions groups dependencies for StatsService.
type StatsServiceOptions struct {
	Users    core.UserRepository
	Events   core.EventRepository
	Orders   core.OrderRepository
	Gallery  core.GalleryRepository
	Messages core.ContactRepository
}

// StatsService aggregates the dashboard widgets from real queries, fetched
// concurrently since they are independent.
type StatsService struct {
	users    core.UserRepository
	events   core.EventRepository
	orders   core.OrderRepository
	gallery  core.GalleryRepository
	messages core.ContactRepository
}

// NewStatsService constructs a new StatsService.
func NewStatsService(opts StatsServiceOptions) *StatsService {
	return &StatsService{
		users:    opts.Users,
		events:   opts.Events,
		orders:   opts.Orders,
		gallery:  opts.Gallery,
		messages: opts.Messages,
	}
}

// Dashboard computes the admin dashboard aggregates as of now.
func (s *StatsService) Dashboard(ctx context.Context, now time.Time) (*model.DashboardStats, error) {
	stats := &model.DashboardStats{}
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		byRole, err := s.users.CountByRole(ctx)
		if err != nil {
			return err
		}
		stats.MembersByRole = byRole
		for _, n := range byRole {
			stats.TotalMembers += n
		}
		return nil
	})
	g.Go(func() error {
		n, err := s.events.CountUpcoming(ctx, now)
		stats.UpcomingEvents = n
		return err
	})
	g.Go(func() error {
		n, err := s.orders.CountByStatus(ctx, model.OrderStatusPaid)
		stats.PaidOrders = n
		return err
	})
	g.Go(func() error {
		cents, err := s.orders.RevenueCents(ctx)
		stats.RevenueCents = cents
		return err
	})
	g.Go(func() error {
		n, err := s.messages.CountUnread(ctx)
		stats.UnreadMessages = n
		return err
	})
	g.Go(func() error {
		n, err := s.gallery.Count(ctx)
		stats.GalleryImages = n
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return stats, nil
}
