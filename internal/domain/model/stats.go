package model

// DashboardStats aggregates the counts shown on the admin dashboard.
// Every field is the result of a real query; widgets never fabricate data.
type DashboardStats struct {
	TotalMembers   int            `json:"total_members"`
	MembersByRole  map[string]int `json:"members_by_role"`
	UpcomingEvents int            `json:"upcoming_events"`
	PaidOrders     int            `json:"paid_orders"`
	RevenueCents   int64          `json:"revenue_cents"`
	UnreadMessages int            `json:"unread_messages"`
	GalleryImages  int            `json:"gallery_images"`
}
