package data

import (
	"github.com/rodaworks/academy/internal/core"
)

// Compile-time checks that concrete repositories satisfy the core interfaces.
var (
	_ core.UserRepository    = (*UserRepo)(nil)
	_ core.EventRepository   = (*EventRepo)(nil)
	_ core.ProductRepository = (*ProductRepo)(nil)
	_ core.OrderRepository   = (*OrderRepo)(nil)
	_ core.GalleryRepository = (*GalleryRepo)(nil)
	_ core.ContactRepository = (*ContactRepo)(nil)
)
