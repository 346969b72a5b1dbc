// internal/views/franchisee-dashboard/models.go
package franchiseedashboard

import (
	"context"

	"estate-admin/internal/models"
	"estate-admin/internal/store"
)

type Slice interface {
	State() store.FranchiseeState
	FetchStatistics(ctx context.Context) error
	FetchByDistrict(ctx context.Context, districtID *int64) error
}

type DistrictLister interface {
	List(ctx context.Context) ([]models.District, error)
}

type ViewState struct {
	Statistics       models.Statistics
	Districts        []models.District
	SelectedDistrict *int64
	Rows             []models.FranchiseeRequest
	TotalElements    int64
	Loading          bool
	Error            string
}
