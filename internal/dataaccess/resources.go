package dataaccess

import (
	"context"
	"fmt"
	"net/url"

	"estate-admin/internal/common/errors"
	httpclient "estate-admin/internal/common/http"
	"estate-admin/internal/common/validation"
	"estate-admin/internal/models"
)

// ResourceService covers the toggleable admin resources: paged list, single
// fetch, create, update, activate, deactivate and hard delete.
type ResourceService[T models.Entity] struct {
	client *httpclient.Client
	name   string
	base   string
}

func NewResourceService[T models.Entity](client *httpclient.Client, name, base string) *ResourceService[T] {
	return &ResourceService[T]{client: client, name: name, base: base}
}

func NewAdvertisementService(client *httpclient.Client) *ResourceService[models.Advertisement] {
	return NewResourceService[models.Advertisement](client, "advertisements", adminBase+"/advertisements")
}

func NewCouponService(client *httpclient.Client) *ResourceService[models.Coupon] {
	return NewResourceService[models.Coupon](client, "coupons", adminBase+"/coupons")
}

func NewSubscriptionPlanService(client *httpclient.Client) *ResourceService[models.SubscriptionPlan] {
	return NewResourceService[models.SubscriptionPlan](client, "subscription-plans", adminBase+"/subscription-plans")
}

func NewPropertyService(client *httpclient.Client) *ResourceService[models.Property] {
	return NewResourceService[models.Property](client, "properties", adminBase+"/properties")
}

func (s *ResourceService[T]) Name() string { return s.name }

func (s *ResourceService[T]) List(ctx context.Context, req models.PageRequest, extra url.Values) (models.Page[T], error) {
	if err := validation.ValidateStruct(req); err != nil {
		return models.Page[T]{}, errors.NewValidationError(validation.SanitizeValidationError(err), err.Error())
	}
	query := pageQuery(req)
	for k, vs := range extra {
		for _, v := range vs {
			query.Add(k, v)
		}
	}

	var page models.Page[T]
	if err := s.client.Get(ctx, s.name+".list", s.base, query, &page); err != nil {
		return models.Page[T]{}, err
	}
	if page.Content == nil {
		page.Content = []T{}
	}
	return page, nil
}

func (s *ResourceService[T]) Get(ctx context.Context, id int64) (T, error) {
	var out T
	err := s.client.Get(ctx, s.name+".get", s.itemPath(id, ""), nil, &out)
	return out, err
}

func (s *ResourceService[T]) Create(ctx context.Context, item T) (T, error) {
	var out T
	if err := validation.ValidateStruct(item); err != nil {
		return out, errors.NewValidationError(validation.SanitizeValidationError(err), err.Error())
	}
	err := s.client.Post(ctx, s.name+".create", s.base, item, &out)
	return out, err
}

func (s *ResourceService[T]) Update(ctx context.Context, id int64, item T) (T, error) {
	var out T
	if err := validation.ValidateStruct(item); err != nil {
		return out, errors.NewValidationError(validation.SanitizeValidationError(err), err.Error())
	}
	err := s.client.Put(ctx, s.name+".update", s.itemPath(id, ""), nil, item, &out)
	return out, err
}

func (s *ResourceService[T]) Activate(ctx context.Context, id int64) error {
	return s.client.Put(ctx, s.name+".activate", s.itemPath(id, "activate"), nil, nil, nil)
}

func (s *ResourceService[T]) Deactivate(ctx context.Context, id int64) error {
	return s.client.Put(ctx, s.name+".deactivate", s.itemPath(id, "deactivate"), nil, nil, nil)
}

func (s *ResourceService[T]) Delete(ctx context.Context, id int64) error {
	return s.client.Delete(ctx, s.name+".delete", s.itemPath(id, ""), nil)
}

func (s *ResourceService[T]) itemPath(id int64, action string) string {
	if action == "" {
		return fmt.Sprintf("%s/%d", s.base, id)
	}
	return fmt.Sprintf("%s/%d/%s", s.base, id, action)
}

// PropertyQuery turns property search filters into list parameters.
func PropertyQuery(f models.PropertyFilters) (url.Values, error) {
	if err := validation.ValidateStruct(f); err != nil {
		return nil, errors.NewValidationError(validation.SanitizeValidationError(err), err.Error())
	}
	if f.MinPrice != nil && f.MaxPrice != nil && *f.MinPrice > *f.MaxPrice {
		return nil, errors.NewValidationError("minPrice must not exceed maxPrice", "")
	}
	query := url.Values{}
	for k, v := range f.Params() {
		query.Set(k, v)
	}
	return query, nil
}

// DashboardService reads the admin landing-page counters.
type DashboardService struct {
	client *httpclient.Client
}

func NewDashboardService(client *httpclient.Client) *DashboardService {
	return &DashboardService{client: client}
}

func (s *DashboardService) Stats(ctx context.Context) (models.DashboardStats, error) {
	var stats models.DashboardStats
	err := s.client.Get(ctx, "dashboard.stats", adminBase+"/dashboard/stats", nil, &stats)
	return stats, err
}
