package store

import (
	"context"
	"time"

	"estate-admin/internal/models"
)

// FranchiseeSource is the data-access surface the franchisee slice needs.
type FranchiseeSource interface {
	ListRequests(ctx context.Context, filters models.RequestFilters) (models.Page[models.FranchiseeRequest], error)
	ListByStatus(ctx context.Context, status models.RequestStatus, req models.PageRequest) (models.Page[models.FranchiseeRequest], error)
	Statistics(ctx context.Context) (models.Statistics, error)
	ListByDistrict(ctx context.Context, districtID int64) (models.Page[models.FranchiseeRequest], error)
	AdminReport(ctx context.Context) ([]models.FranchiseeRequest, error)
	Get(ctx context.Context, id int64) (*models.FranchiseeRequest, error)
	Decide(ctx context.Context, decision models.Decision, id int64, input models.DecisionInput) error
	Delete(ctx context.Context, id int64, reason string, districtID int64) error
}

// FranchiseeState is a copy of the slice contents.
type FranchiseeState struct {
	Requests        []models.FranchiseeRequest `json:"requests"`
	PendingRequests []models.FranchiseeRequest `json:"pendingRequests"`
	Statistics      models.Statistics          `json:"statistics"`
	Selected        *models.FranchiseeRequest  `json:"selected,omitempty"`
	TotalElements   int64                      `json:"totalElements"`
	TotalPages      int                        `json:"totalPages"`
	CurrentPage     int                        `json:"currentPage"`
	PageSize        int                        `json:"pageSize"`

	Loading bool   `json:"-"`
	Error   string `json:"-"`
}

// FranchiseeSlice caches franchisee requests, statistics and pagination.
// TERMINATED requests never enter Requests.
type FranchiseeSlice struct {
	*base
	source FranchiseeSource
	state  FranchiseeState

	// lastQuery re-runs the most recent list fetch; used by Invalidate.
	lastQuery func(ctx context.Context) error
}

func NewFranchiseeSlice(source FranchiseeSource, opts ...Option) *FranchiseeSlice {
	return &FranchiseeSlice{
		base:   newBase("franchisee", opts),
		source: source,
		state:  FranchiseeState{Statistics: models.Statistics{}},
	}
}

// State returns a deep copy of the slice.
func (s *FranchiseeSlice) State() FranchiseeState {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := s.state
	out.Requests = cloneRequests(s.state.Requests)
	out.PendingRequests = cloneRequests(s.state.PendingRequests)
	out.Statistics = s.state.Statistics.Clone()
	if s.state.Selected != nil {
		sel := s.state.Selected.Clone()
		out.Selected = &sel
	}
	out.Loading = s.loadingLocked()
	out.Error = s.errMsg
	return out
}

// FetchRequests loads the general listing. On failure the previous data stays.
func (s *FranchiseeSlice) FetchRequests(ctx context.Context, filters models.RequestFilters) error {
	s.remember(func(ctx context.Context) error { return s.FetchRequests(ctx, filters) })

	start := s.begin()
	page, err := s.source.ListRequests(ctx, filters)
	if err == nil {
		if filters.DistrictID != nil {
			page = models.SinglePage(models.WithoutTerminated(page.Content))
		}
		s.applyPage(page, filters.PageRequest, false)
	}
	return s.done(ctx, "fetchRequests", start, err)
}

// FetchRequestsByStatus loads one status; PENDING results are also copied into PendingRequests.
func (s *FranchiseeSlice) FetchRequestsByStatus(ctx context.Context, status models.RequestStatus, req models.PageRequest) error {
	s.remember(func(ctx context.Context) error { return s.FetchRequestsByStatus(ctx, status, req) })

	start := s.begin()
	page, err := s.source.ListByStatus(ctx, status, req)
	if err == nil {
		s.applyPage(page, req, status == models.StatusPending)
	}
	return s.done(ctx, "fetchRequestsByStatus", start, err)
}

// FetchStatistics replaces the statistics map wholesale.
func (s *FranchiseeSlice) FetchStatistics(ctx context.Context) error {
	start := s.begin()
	stats, err := s.source.Statistics(ctx)
	if err == nil {
		if stats == nil {
			stats = models.Statistics{}
		}
		s.mu.Lock()
		s.state.Statistics = stats
		s.mu.Unlock()
	}
	return s.done(ctx, "fetchStatistics", start, err)
}

// FetchByDistrict scopes Requests to one district, or to the consolidated
// admin report when districtID is nil.
func (s *FranchiseeSlice) FetchByDistrict(ctx context.Context, districtID *int64) error {
	s.remember(func(ctx context.Context) error { return s.FetchByDistrict(ctx, districtID) })

	start := s.begin()
	var (
		items []models.FranchiseeRequest
		err   error
	)
	if districtID == nil {
		items, err = s.source.AdminReport(ctx)
	} else {
		var page models.Page[models.FranchiseeRequest]
		page, err = s.source.ListByDistrict(ctx, *districtID)
		items = page.Content
	}
	if err == nil {
		page := models.SinglePage(models.WithoutTerminated(items))
		s.applyPage(page, models.PageRequest{Size: len(page.Content)}, false)
	}
	return s.done(ctx, "fetchByDistrict", start, err)
}

// Select loads one request into Selected.
func (s *FranchiseeSlice) Select(ctx context.Context, id int64) error {
	start := s.begin()
	req, err := s.source.Get(ctx, id)
	if err == nil {
		s.mu.Lock()
		s.state.Selected = req
		s.mu.Unlock()
	}
	return s.finish(ctx, "select", start, err)
}

func (s *FranchiseeSlice) ClearSelection() {
	s.mu.Lock()
	s.state.Selected = nil
	s.mu.Unlock()
}

// Decide sends one decision. Cached lists are left untouched; pair it with
// Invalidate (or an explicit fetch) to observe the new state.
func (s *FranchiseeSlice) Decide(ctx context.Context, decision models.Decision, id int64, input models.DecisionInput) error {
	start := s.begin()
	err := s.source.Decide(ctx, decision, id, input)
	return s.finish(ctx, decision.String(), start, err)
}

func (s *FranchiseeSlice) Approve(ctx context.Context, id int64, comments, endDate string) error {
	return s.Decide(ctx, models.DecisionApprove, id, models.DecisionInput{Comments: comments, EndDate: endDate})
}

func (s *FranchiseeSlice) Reject(ctx context.Context, id int64, comments string) error {
	return s.Decide(ctx, models.DecisionReject, id, models.DecisionInput{Comments: comments})
}

func (s *FranchiseeSlice) Terminate(ctx context.Context, id int64, comments string) error {
	return s.Decide(ctx, models.DecisionTerminate, id, models.DecisionInput{Comments: comments})
}

// Invalidate re-runs the last list query and refreshes statistics. The
// first failure is returned; both steps always run.
func (s *FranchiseeSlice) Invalidate(ctx context.Context) error {
	s.mu.RLock()
	query := s.lastQuery
	s.mu.RUnlock()

	var first error
	if query != nil {
		first = query(ctx)
	}
	if err := s.FetchStatistics(ctx); err != nil && first == nil {
		first = err
	}
	return first
}

// DeleteFranchisee removes the entry locally once the remote confirms.
// TotalElements is not adjusted; an unknown id leaves Requests unchanged.
func (s *FranchiseeSlice) DeleteFranchisee(ctx context.Context, id int64, reason string, districtID int64) error {
	start := s.begin()
	err := s.source.Delete(ctx, id, reason, districtID)
	if err == nil {
		s.mu.Lock()
		s.state.Requests = removeRequest(s.state.Requests, id)
		if s.state.Selected != nil && s.state.Selected.ID == id {
			s.state.Selected = nil
		}
		s.mu.Unlock()
	}
	return s.done(ctx, "deleteFranchisee", start, err)
}

// Restore rehydrates the slice from the snapshot store, if one is configured.
func (s *FranchiseeSlice) Restore(ctx context.Context) (bool, error) {
	var snap FranchiseeState
	found, err := s.restore(ctx, &snap)
	if err != nil || !found {
		return false, err
	}
	if snap.Statistics == nil {
		snap.Statistics = models.Statistics{}
	}
	snap.Requests = models.WithoutTerminated(snap.Requests)
	s.mu.Lock()
	s.state = snap
	s.mu.Unlock()
	return true, nil
}

func (s *FranchiseeSlice) remember(q func(ctx context.Context) error) {
	s.mu.Lock()
	s.lastQuery = q
	s.mu.Unlock()
}

func (s *FranchiseeSlice) applyPage(page models.Page[models.FranchiseeRequest], req models.PageRequest, pending bool) {
	content := models.WithoutTerminated(page.Content)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Requests = content
	if pending {
		s.state.PendingRequests = cloneRequests(content)
	}
	s.state.TotalElements = page.TotalElements
	s.state.TotalPages = page.TotalPages
	s.state.CurrentPage = page.Number
	s.state.PageSize = page.Size
	if s.state.PageSize == 0 {
		s.state.PageSize = req.Size
	}
}

// done finishes the operation and persists a snapshot after a success.
func (s *FranchiseeSlice) done(ctx context.Context, operation string, start time.Time, err error) error {
	if err := s.finish(ctx, operation, start, err); err != nil {
		return err
	}
	s.persist(ctx, s.State())
	return nil
}

func cloneRequests(in []models.FranchiseeRequest) []models.FranchiseeRequest {
	if in == nil {
		return nil
	}
	out := make([]models.FranchiseeRequest, len(in))
	for i, r := range in {
		out[i] = r.Clone()
	}
	return out
}

func removeRequest(in []models.FranchiseeRequest, id int64) []models.FranchiseeRequest {
	out := make([]models.FranchiseeRequest, 0, len(in))
	for _, r := range in {
		if r.ID != id {
			out = append(out, r)
		}
	}
	return out
}
