package dataaccess

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"estate-admin/internal/common/cache"
	"estate-admin/internal/common/errors"
	"estate-admin/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResourceService_Lifecycle(t *testing.T) {
	remote, client := newFakeRemote(t)
	remote.json(http.MethodGet, "/api/admin/coupons", http.StatusOK, models.Page[models.Coupon]{
		Content:       []models.Coupon{{ID: 1, Code: "SAVE10", Active: true}},
		TotalElements: 1,
		TotalPages:    1,
	})
	remote.json(http.MethodGet, "/api/admin/coupons/1", http.StatusOK, models.Coupon{ID: 1, Code: "SAVE10"})
	remote.json(http.MethodPost, "/api/admin/coupons", http.StatusCreated, models.Coupon{ID: 2, Code: "NEW20"})
	remote.json(http.MethodPut, "/api/admin/coupons/2", http.StatusOK, models.Coupon{ID: 2, Code: "NEW25"})
	remote.json(http.MethodPut, "/api/admin/coupons/1/activate", http.StatusOK, nil)
	remote.json(http.MethodPut, "/api/admin/coupons/1/deactivate", http.StatusOK, nil)
	remote.json(http.MethodDelete, "/api/admin/coupons/1", http.StatusNoContent, nil)
	svc := NewCouponService(client)
	ctx := context.Background()

	list, err := svc.List(ctx, defaultPage(), nil)
	require.NoError(t, err)
	require.Len(t, list.Content, 1)

	one, err := svc.Get(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "SAVE10", one.Code)

	created, err := svc.Create(ctx, models.Coupon{Code: "NEW20", DiscountType: "PERCENTAGE", DiscountValue: 20})
	require.NoError(t, err)
	assert.Equal(t, int64(2), created.ID)

	updated, err := svc.Update(ctx, 2, models.Coupon{Code: "NEW25", DiscountType: "PERCENTAGE", DiscountValue: 25})
	require.NoError(t, err)
	assert.Equal(t, "NEW25", updated.Code)

	require.NoError(t, svc.Activate(ctx, 1))
	require.NoError(t, svc.Deactivate(ctx, 1))
	require.NoError(t, svc.Delete(ctx, 1))

	var posted models.Coupon
	for _, c := range remote.Calls() {
		if c.Method == http.MethodPost {
			require.NoError(t, json.Unmarshal(c.Body, &posted))
		}
	}
	assert.Equal(t, "NEW20", posted.Code)
}

func TestResourceService_CreateValidation(t *testing.T) {
	remote, client := newFakeRemote(t)
	svc := NewSubscriptionPlanService(client)

	_, err := svc.Create(context.Background(), models.SubscriptionPlan{Name: "  ", DurationDays: 30})

	assert.True(t, errors.IsValidation(err))
	assert.Equal(t, "name is required", errors.MessageOf(err, ""))
	assert.Empty(t, remote.Calls())
}

func TestPropertyQuery(t *testing.T) {
	district := int64(4)
	lo, hi := 1000000.0, 2500000.0

	q, err := PropertyQuery(models.PropertyFilters{Search: " villa ", DistrictID: &district, MinPrice: &lo, MaxPrice: &hi})
	require.NoError(t, err)
	assert.Equal(t, "villa", q.Get("search"))
	assert.Equal(t, "4", q.Get("districtId"))
	assert.Equal(t, "1000000", q.Get("minPrice"))

	_, err = PropertyQuery(models.PropertyFilters{MinPrice: &hi, MaxPrice: &lo})
	assert.True(t, errors.IsValidation(err))
}

func TestPropertyService_SearchPassesFilters(t *testing.T) {
	remote, client := newFakeRemote(t)
	remote.json(http.MethodGet, "/api/admin/properties", http.StatusOK, models.Page[models.Property]{})
	svc := NewPropertyService(client)

	q, err := PropertyQuery(models.PropertyFilters{Type: "APARTMENT"})
	require.NoError(t, err)
	result, err := svc.List(context.Background(), defaultPage(), q)

	require.NoError(t, err)
	assert.NotNil(t, result.Content)
	assert.Equal(t, "APARTMENT", remote.Calls()[0].Query["propertyType"][0])
}

func TestDistrictService_CachesList(t *testing.T) {
	remote, client := newFakeRemote(t)
	remote.json(http.MethodGet, "/api/districts", http.StatusOK, []models.District{{ID: 4, Name: "Pune", State: "Maharashtra"}})
	local, err := cache.NewLocal(1 << 20)
	require.NoError(t, err)
	defer local.Close()
	svc := NewDistrictService(client, local, time.Minute, nil)

	for i := 0; i < 3; i++ {
		districts, err := svc.List(context.Background())
		require.NoError(t, err)
		require.Len(t, districts, 1)
		assert.Equal(t, "Pune", districts[0].Name)
	}
	assert.Len(t, remote.Calls(), 1)

	svc.Invalidate(context.Background())
	_, err = svc.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, remote.Calls(), 2)
}

func TestDashboardService_Stats(t *testing.T) {
	remote, client := newFakeRemote(t)
	remote.json(http.MethodGet, "/api/admin/dashboard/stats", http.StatusOK, models.DashboardStats{TotalProperties: 120, PendingRequests: 3})

	stats, err := NewDashboardService(client).Stats(context.Background())

	require.NoError(t, err)
	assert.Equal(t, int64(120), stats.TotalProperties)
	assert.Equal(t, int64(3), stats.PendingRequests)
}
