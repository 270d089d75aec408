package access

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"app/internal/model"
)

func principal(role model.Role, active bool) *model.Principal {
	return &model.Principal{ID: "p-1", Role: role, IsActive: active}
}

func TestCanAccessPublicAlwaysAllowed(t *testing.T) {
	s := NewSession()
	assert.Equal(t, Allowed, s.CanAccess(Public))

	s.ResolveAnonymous()
	assert.Equal(t, Allowed, s.CanAccess(Public))
}

func TestCanAccessPendingWhileUnresolved(t *testing.T) {
	s := NewSession()
	assert.Equal(t, Pending, s.CanAccess(StudentArea))
	assert.Equal(t, Pending, s.CanAccess(AssistantArea))
	assert.Equal(t, Pending, s.CanAccess(AdminArea))
}

func TestCanAccessAnonymousDenied(t *testing.T) {
	s := NewSession()
	s.ResolveAnonymous()
	assert.Equal(t, Denied, s.CanAccess(StudentArea))
	assert.Equal(t, Denied, s.CanAccess(AdminArea))
}

func TestCanAccessExactlyOneAreaPerRole(t *testing.T) {
	cases := []struct {
		role model.Role
		area Category
	}{
		{model.RoleStudent, StudentArea},
		{model.RoleAssistant, AssistantArea},
		{model.RoleAdmin, AdminArea},
	}
	areas := []Category{StudentArea, AssistantArea, AdminArea}

	for _, tc := range cases {
		s := NewSession()
		s.Resolve(principal(tc.role, true))
		for _, area := range areas {
			want := Denied
			if area == tc.area {
				want = Allowed
			}
			assert.Equal(t, want, s.CanAccess(area), "role %s area %s", tc.role, area)
		}
	}
}

func TestCanAccessAssistantDeniedAdminArea(t *testing.T) {
	s := NewSession()
	s.Resolve(principal(model.RoleAssistant, true))
	assert.Equal(t, Denied, s.CanAccess(AdminArea))
}

func TestCanAccessSuspendedDeniedEverywhereButPublic(t *testing.T) {
	s := NewSession()
	s.Resolve(principal(model.RoleAdmin, false))
	assert.Equal(t, Allowed, s.CanAccess(Public))
	assert.Equal(t, Denied, s.CanAccess(AdminArea))
}

func TestResolveOnlyOnce(t *testing.T) {
	s := NewSession()
	s.Resolve(principal(model.RoleStudent, true))
	s.Resolve(principal(model.RoleAdmin, true))
	s.ResolveAnonymous()

	assert.Equal(t, Allowed, s.CanAccess(StudentArea))
	assert.Equal(t, Denied, s.CanAccess(AdminArea))
}

func TestAuthorizeWaitsForResolution(t *testing.T) {
	s := NewSession()
	go func() {
		time.Sleep(10 * time.Millisecond)
		s.Resolve(principal(model.RoleStudent, true))
	}()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	assert.Equal(t, Allowed, s.Authorize(ctx, StudentArea))
}

func TestAuthorizeFailsClosedOnTimeout(t *testing.T) {
	s := NewSession()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	assert.Equal(t, Denied, s.Authorize(ctx, StudentArea))
}
