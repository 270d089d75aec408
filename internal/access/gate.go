// Package access classifies the current principal and decides which route
// category it may enter. Decisions are three-valued: while the principal's
// profile is still being resolved the answer is Pending, not Denied, so
// callers can hold a request (or render a loading state) instead of
// prematurely rejecting it.
package access

import (
	"context"
	"sync"

	"app/internal/model"
)

// Category is a route category guarded by the gate.
type Category int

const (
	Public Category = iota
	StudentArea
	AssistantArea
	AdminArea
)

func (c Category) String() string {
	switch c {
	case Public:
		return "public"
	case StudentArea:
		return "student"
	case AssistantArea:
		return "assistant"
	case AdminArea:
		return "admin"
	}
	return "unknown"
}

// Decision is the gate's answer for a category.
type Decision int

const (
	Pending Decision = iota
	Allowed
	Denied
)

func (d Decision) String() string {
	switch d {
	case Pending:
		return "pending"
	case Allowed:
		return "allowed"
	case Denied:
		return "denied"
	}
	return "unknown"
}

// AreaForRole maps a role to the single protected area it may enter.
func AreaForRole(r model.Role) Category {
	switch r {
	case model.RoleStudent:
		return StudentArea
	case model.RoleAssistant:
		return AssistantArea
	case model.RoleAdmin:
		return AdminArea
	}
	return Public
}

type sessionState int

const (
	unresolved sessionState = iota
	anonymous
	resolved
)

// Session is the authoritative state machine for one principal's session:
// unresolved -> anonymous | resolved(principal). It replaces the scattered
// loading flags of the old client with a single owner of that state.
type Session struct {
	mu        sync.Mutex
	state     sessionState
	principal *model.Principal
	done      chan struct{}
}

// NewSession starts in the unresolved state.
func NewSession() *Session {
	return &Session{done: make(chan struct{})}
}

// Resolve records the loaded principal. Later calls are ignored; a session
// resolves exactly once.
func (s *Session) Resolve(p *model.Principal) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != unresolved {
		return
	}
	s.state = resolved
	s.principal = p
	close(s.done)
}

// ResolveAnonymous records that no credentials were presented.
func (s *Session) ResolveAnonymous() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != unresolved {
		return
	}
	s.state = anonymous
	close(s.done)
}

// Principal returns the resolved principal, or nil.
func (s *Session) Principal() *model.Principal {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.principal
}

// CanAccess answers for the given category. Public is always allowed; any
// protected category is Pending until the session resolves, then exactly the
// area matching the principal's role is reachable. Suspended principals are
// denied everywhere but Public.
func (s *Session) CanAccess(cat Category) Decision {
	if cat == Public {
		return Allowed
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	switch s.state {
	case unresolved:
		return Pending
	case anonymous:
		return Denied
	}

	if !s.principal.IsActive {
		return Denied
	}
	if AreaForRole(s.principal.Role) != cat {
		return Denied
	}
	return Allowed
}

// Authorize waits, bounded by ctx, for the session to resolve and returns the
// final decision. An unresolved session at deadline is Denied: the gate fails
// closed, never open.
func (s *Session) Authorize(ctx context.Context, cat Category) Decision {
	if cat == Public {
		return Allowed
	}
	select {
	case <-s.done:
		return s.CanAccess(cat)
	case <-ctx.Done():
		return Denied
	}
}
