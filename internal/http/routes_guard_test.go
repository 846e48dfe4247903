package httpx

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	domainauth "github.com/rodaworks/academy/internal/domain/auth"
	"github.com/rodaworks/academy/internal/domain/model"
)

// TestRouteGuards_RoleMatrix drives representative protected routes through
// the full router with real sessions at each privilege level.
func TestRouteGuards_RoleMatrix(t *testing.T) {
	routes := []struct {
		method  string
		path    string
		minRole domainauth.Role
	}{
		{http.MethodGet, "/api/users", domainauth.RoleAdmin},
		{http.MethodDelete, "/api/users/u-1", domainauth.RoleAdmin},
		{http.MethodPost, "/api/events", domainauth.RoleManager},
		{http.MethodDelete, "/api/products/p-1", domainauth.RoleManager},
		{http.MethodGet, "/api/contact", domainauth.RoleManager},
		{http.MethodGet, "/api/stats/dashboard", domainauth.RoleManager},
		{http.MethodPut, "/api/orders/o-1/status", domainauth.RoleManager},
		{http.MethodPost, "/api/gallery", domainauth.RoleManager},
	}

	for _, route := range routes {
		t.Run(route.method+" "+route.path, func(t *testing.T) {
			f := newRouterFixture(t)

			rec := f.do(t, route.method, route.path, "", nil)
			assert.Equal(t, http.StatusUnauthorized, rec.Code, "no token")

			student := f.signIn(t, domainauth.RoleStudent)
			rec = f.do(t, route.method, route.path, student, nil)
			assert.Equal(t, http.StatusForbidden, rec.Code, "student token")

			if route.minRole == domainauth.RoleAdmin {
				manager := f.signIn(t, domainauth.RoleManager)
				rec = f.do(t, route.method, route.path, manager, nil)
				assert.Equal(t, http.StatusForbidden, rec.Code, "manager on admin route")
			}
		})
	}
}

func TestRouteGuards_MemberRoutesRequireAuthOnly(t *testing.T) {
	f := newRouterFixture(t)

	rec := f.do(t, http.MethodGet, "/api/orders", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	f.orders.EXPECT().
		List(gomock.Any(), gomock.Any()).
		Return([]*model.Order{}, nil)

	student := f.signIn(t, domainauth.RoleStudent)
	rec = f.do(t, http.MethodGet, "/api/orders", student, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRouteGuards_PublicRoutesNeedNoToken(t *testing.T) {
	f := newRouterFixture(t)

	f.events.EXPECT().
		List(gomock.Any(), gomock.Any()).
		Return([]*model.Event{}, nil)
	rec := f.do(t, http.MethodGet, "/api/events/upcoming", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	f.products.EXPECT().
		List(gomock.Any(), gomock.Any()).
		Return([]*model.Product{}, nil)
	rec = f.do(t, http.MethodGet, "/api/shop/products", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	f.gallery.EXPECT().
		List(gomock.Any(), gomock.Any()).
		Return([]*model.GalleryImage{}, nil)
	rec = f.do(t, http.MethodGet, "/api/gallery", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = f.do(t, http.MethodGet, "/healthz", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestRouteGuards_ExpiredSessionRejected(t *testing.T) {
	f := newRouterFixture(t)

	token := f.signIn(t, domainauth.RoleAdmin)
	f.sessions.Delete(t.Context(), "sess-admin")

	rec := f.do(t, http.MethodGet, "/api/users", token, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
