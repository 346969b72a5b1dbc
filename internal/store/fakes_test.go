package store

import (
	"context"
	"net/url"
	"sync"

	"estate-admin/internal/models"
)

type decisionCall struct {
	Decision models.Decision
	ID       int64
	Input    models.DecisionInput
}

// fakeFranchiseeSource serves canned pages and records mutating calls.
type fakeFranchiseeSource struct {
	mu sync.Mutex

	page       models.Page[models.FranchiseeRequest]
	byStatus   map[models.RequestStatus]models.Page[models.FranchiseeRequest]
	byDistrict map[int64][]models.FranchiseeRequest
	report     []models.FranchiseeRequest
	stats      models.Statistics
	selected   *models.FranchiseeRequest
	err        error

	// block, when set, holds ListRequests until closed.
	block   chan struct{}
	entered chan struct{}

	listCalls   int
	statsCalls  int
	reportCalls int
	decisions   []decisionCall
	deletes     []int64
}

func (f *fakeFranchiseeSource) ListRequests(ctx context.Context, filters models.RequestFilters) (models.Page[models.FranchiseeRequest], error) {
	f.mu.Lock()
	f.listCalls++
	block, entered := f.block, f.entered
	f.mu.Unlock()

	if block != nil {
		if entered != nil {
			close(entered)
		}
		<-block
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return models.Page[models.FranchiseeRequest]{}, f.err
	}
	if filters.DistrictID != nil {
		return models.SinglePage(f.byDistrict[*filters.DistrictID]), nil
	}
	return f.page, nil
}

func (f *fakeFranchiseeSource) ListByStatus(ctx context.Context, status models.RequestStatus, req models.PageRequest) (models.Page[models.FranchiseeRequest], error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.listCalls++
	if f.err != nil {
		return models.Page[models.FranchiseeRequest]{}, f.err
	}
	return f.byStatus[status], nil
}

func (f *fakeFranchiseeSource) Statistics(ctx context.Context) (models.Statistics, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.statsCalls++
	if f.err != nil {
		return nil, f.err
	}
	return f.stats.Clone(), nil
}

func (f *fakeFranchiseeSource) ListByDistrict(ctx context.Context, districtID int64) (models.Page[models.FranchiseeRequest], error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return models.Page[models.FranchiseeRequest]{}, f.err
	}
	return models.SinglePage(f.byDistrict[districtID]), nil
}

func (f *fakeFranchiseeSource) AdminReport(ctx context.Context) ([]models.FranchiseeRequest, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.reportCalls++
	if f.err != nil {
		return nil, f.err
	}
	return f.report, nil
}

func (f *fakeFranchiseeSource) Get(ctx context.Context, id int64) (*models.FranchiseeRequest, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	return f.selected, nil
}

func (f *fakeFranchiseeSource) Decide(ctx context.Context, decision models.Decision, id int64, input models.DecisionInput) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.decisions = append(f.decisions, decisionCall{Decision: decision, ID: id, Input: input})
	return f.err
}

func (f *fakeFranchiseeSource) Delete(ctx context.Context, id int64, reason string, districtID int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deletes = append(f.deletes, id)
	return f.err
}

func (f *fakeFranchiseeSource) setErr(err error) {
	f.mu.Lock()
	f.err = err
	f.mu.Unlock()
}

type fakeCoupons struct {
	mu        sync.Mutex
	items     []models.Coupon
	err       error
	listCalls int
	activated []int64
	deleted   []int64
}

func (f *fakeCoupons) Name() string { return "coupons" }

func (f *fakeCoupons) List(ctx context.Context, req models.PageRequest, extra url.Values) (models.Page[models.Coupon], error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.listCalls++
	if f.err != nil {
		return models.Page[models.Coupon]{}, f.err
	}
	items := append([]models.Coupon(nil), f.items...)
	return models.Page[models.Coupon]{Content: items, TotalElements: int64(len(items)), TotalPages: 1, Number: req.Page, Size: req.Size}, nil
}

func (f *fakeCoupons) Get(ctx context.Context, id int64) (models.Coupon, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, c := range f.items {
		if c.ID == id {
			return c, nil
		}
	}
	return models.Coupon{}, f.err
}

func (f *fakeCoupons) Activate(ctx context.Context, id int64) error {
	return f.setActive(id, true)
}

func (f *fakeCoupons) Deactivate(ctx context.Context, id int64) error {
	return f.setActive(id, false)
}

func (f *fakeCoupons) setActive(id int64, active bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.activated = append(f.activated, id)
	for i := range f.items {
		if f.items[i].ID == id {
			f.items[i].Active = active
		}
	}
	return nil
}

func (f *fakeCoupons) Delete(ctx context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.deleted = append(f.deleted, id)
	return nil
}
