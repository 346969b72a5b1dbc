package store

import (
	"context"
	"net/url"
	"strings"
	"time"

	"estate-admin/internal/models"
)

// ResourceSource is the data-access surface of one toggleable resource.
type ResourceSource[T models.Entity] interface {
	Name() string
	List(ctx context.Context, req models.PageRequest, extra url.Values) (models.Page[T], error)
	Get(ctx context.Context, id int64) (T, error)
	Activate(ctx context.Context, id int64) error
	Deactivate(ctx context.Context, id int64) error
	Delete(ctx context.Context, id int64) error
}

type ResourceState[T models.Entity] struct {
	Items         []T   `json:"items"`
	Selected      *T    `json:"selected,omitempty"`
	TotalElements int64 `json:"totalElements"`
	TotalPages    int   `json:"totalPages"`
	CurrentPage   int   `json:"currentPage"`
	PageSize      int   `json:"pageSize"`

	Loading bool   `json:"-"`
	Error   string `json:"-"`
}

// ResourceSlice caches one page of advertisements, coupons, plans or properties.
type ResourceSlice[T models.Entity] struct {
	*base
	source ResourceSource[T]
	state  ResourceState[T]

	lastReq   models.PageRequest
	lastExtra url.Values
	fetched   bool
}

func NewResourceSlice[T models.Entity](source ResourceSource[T], opts ...Option) *ResourceSlice[T] {
	return &ResourceSlice[T]{
		base:   newBase(source.Name(), opts),
		source: source,
	}
}

func (s *ResourceSlice[T]) State() ResourceState[T] {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := s.state
	if s.state.Items != nil {
		out.Items = append([]T(nil), s.state.Items...)
	}
	if s.state.Selected != nil {
		sel := *s.state.Selected
		out.Selected = &sel
	}
	out.Loading = s.loadingLocked()
	out.Error = s.errMsg
	return out
}

// Fetch loads one page; extra carries resource-specific filters.
func (s *ResourceSlice[T]) Fetch(ctx context.Context, req models.PageRequest, extra url.Values) error {
	s.mu.Lock()
	s.lastReq, s.lastExtra, s.fetched = req, extra, true
	s.mu.Unlock()

	start := s.begin()
	page, err := s.source.List(ctx, req, extra)
	if err == nil {
		s.mu.Lock()
		s.state.Items = page.Content
		s.state.TotalElements = page.TotalElements
		s.state.TotalPages = page.TotalPages
		s.state.CurrentPage = page.Number
		s.state.PageSize = page.Size
		if s.state.PageSize == 0 {
			s.state.PageSize = req.Size
		}
		s.mu.Unlock()
	}
	return s.done(ctx, "fetch", start, err)
}

// Refresh re-runs the last Fetch. Without a prior Fetch there is no page to
// refresh and it does nothing.
func (s *ResourceSlice[T]) Refresh(ctx context.Context) error {
	s.mu.RLock()
	req, extra, fetched := s.lastReq, s.lastExtra, s.fetched
	s.mu.RUnlock()
	if !fetched {
		return nil
	}
	return s.Fetch(ctx, req, extra)
}

func (s *ResourceSlice[T]) Select(ctx context.Context, id int64) error {
	start := s.begin()
	item, err := s.source.Get(ctx, id)
	if err == nil {
		s.mu.Lock()
		s.state.Selected = &item
		s.mu.Unlock()
	}
	return s.finish(ctx, "select", start, err)
}

// Activate flips the flag remotely, then re-fetches the current page.
func (s *ResourceSlice[T]) Activate(ctx context.Context, id int64) error {
	return s.toggle(ctx, "activate", id, s.source.Activate)
}

// Deactivate flips the flag remotely, then re-fetches the current page.
func (s *ResourceSlice[T]) Deactivate(ctx context.Context, id int64) error {
	return s.toggle(ctx, "deactivate", id, s.source.Deactivate)
}

func (s *ResourceSlice[T]) toggle(ctx context.Context, operation string, id int64, call func(context.Context, int64) error) error {
	start := s.begin()
	if err := s.finish(ctx, operation, start, call(ctx, id)); err != nil {
		return err
	}
	return s.Refresh(ctx)
}

// Delete is a hard delete; the entry is dropped locally with no undo.
func (s *ResourceSlice[T]) Delete(ctx context.Context, id int64) error {
	start := s.begin()
	err := s.source.Delete(ctx, id)
	if err == nil {
		s.mu.Lock()
		kept := make([]T, 0, len(s.state.Items))
		for _, item := range s.state.Items {
			if item.EntityID() != id {
				kept = append(kept, item)
			}
		}
		s.state.Items = kept
		if s.state.Selected != nil && (*s.state.Selected).EntityID() == id {
			s.state.Selected = nil
		}
		s.mu.Unlock()
	}
	return s.done(ctx, "delete", start, err)
}

// Filter matches term case-insensitively against each item's search text.
func (s *ResourceSlice[T]) Filter(term string, activeOnly bool) []T {
	term = strings.ToLower(strings.TrimSpace(term))

	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]T, 0, len(s.state.Items))
	for _, item := range s.state.Items {
		if activeOnly && !item.IsActive() {
			continue
		}
		if term != "" && !strings.Contains(strings.ToLower(item.SearchText()), term) {
			continue
		}
		out = append(out, item)
	}
	return out
}

func (s *ResourceSlice[T]) Restore(ctx context.Context) (bool, error) {
	var snap ResourceState[T]
	found, err := s.restore(ctx, &snap)
	if err != nil || !found {
		return false, err
	}
	s.mu.Lock()
	s.state = snap
	s.mu.Unlock()
	return true, nil
}

func (s *ResourceSlice[T]) done(ctx context.Context, operation string, start time.Time, err error) error {
	if err := s.finish(ctx, operation, start, err); err != nil {
		return err
	}
	s.persist(ctx, s.State())
	return nil
}

// DashboardSource reads the landing-page counters.
type DashboardSource interface {
	Stats(ctx context.Context) (models.DashboardStats, error)
}

type DashboardState struct {
	Stats   models.DashboardStats
	Loaded  bool
	Loading bool
	Error   string
}

type DashboardSlice struct {
	*base
	source DashboardSource
	stats  models.DashboardStats
	loaded bool
}

func NewDashboardSlice(source DashboardSource, opts ...Option) *DashboardSlice {
	return &DashboardSlice{base: newBase("dashboard", opts), source: source}
}

func (s *DashboardSlice) State() DashboardState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return DashboardState{Stats: s.stats, Loaded: s.loaded, Loading: s.loadingLocked(), Error: s.errMsg}
}

func (s *DashboardSlice) FetchDashboard(ctx context.Context) error {
	start := s.begin()
	stats, err := s.source.Stats(ctx)
	if err == nil {
		s.mu.Lock()
		s.stats, s.loaded = stats, true
		s.mu.Unlock()
	}
	return s.finish(ctx, "fetchDashboard", start, err)
}
