package services

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ViewScope is the lifetime of one mounted dashboard. Requests issued by
// the view run under its context; responses arriving after the view is
// unmounted are dropped.
type ViewScope struct {
	id     string
	route  string
	ctx    context.Context
	cancel context.CancelFunc
	mu     sync.Mutex
	loaded sync.Once
}

func newViewScope(parent context.Context, route string) *ViewScope {
	ctx, cancel := context.WithCancel(parent)
	return &ViewScope{
		id:     uuid.NewString(),
		route:  route,
		ctx:    ctx,
		cancel: cancel,
	}
}

// ID identifies this mount
func (s *ViewScope) ID() string { return s.id }

// Context is cancelled when the view unmounts
func (s *ViewScope) Context() context.Context { return s.ctx }

// Mounted reports whether the view is still mounted
func (s *ViewScope) Mounted() bool { return s.ctx.Err() == nil }

// Apply runs fn under the view's lock if the view is still mounted
func (s *ViewScope) Apply(fn func()) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.Mounted() {
		return false
	}
	fn()
	return true
}

// Load runs load once per mount. Callers arriving while it runs wait for
// it to return, so nothing renders or writes ahead of the initial fetch.
func (s *ViewScope) Load(load func()) {
	s.loaded.Do(load)
}

// Read runs fn under the view's lock, mounted or not
func (s *ViewScope) Read(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn()
}

func (s *ViewScope) unmount() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cancel()
}

// Navigator tracks the single mounted view. Visiting another route, or
// the same route with refresh, unmounts the current view first.
type Navigator struct {
	mu     sync.Mutex
	parent context.Context
	log    *zap.Logger
	scope  *ViewScope
	view   any
}

// NewNavigator creates a navigator; parent bounds every view's lifetime
func NewNavigator(parent context.Context, log *zap.Logger) *Navigator {
	return &Navigator{parent: parent, log: log}
}

// Visit returns the view mounted on route, building a new one when route
// is not the current view, when refresh is set, or when the existing view
// has a different type. fresh reports whether build ran. Loading happens
// outside the navigator lock through the scope's Load.
func Visit[V any](n *Navigator, route string, refresh bool, build func(*ViewScope) V) (view V, fresh bool) {
	n.mu.Lock()
	defer n.mu.Unlock()

	if !refresh && n.scope != nil && n.scope.route == route && n.scope.Mounted() {
		if v, ok := n.view.(V); ok {
			return v, false
		}
	}

	n.leaveLocked()
	scope := newViewScope(n.parent, route)
	view = build(scope)
	n.scope, n.view = scope, view
	n.log.Debug("view mounted", zap.String("route", route), zap.String("view", scope.id))
	return view, true
}

// Leave unmounts the current view, if any
func (n *Navigator) Leave() {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.leaveLocked()
}

func (n *Navigator) leaveLocked() {
	if n.scope == nil {
		return
	}
	n.scope.unmount()
	n.log.Debug("view unmounted", zap.String("route", n.scope.route), zap.String("view", n.scope.id))
	n.scope, n.view = nil, nil
}
