// internal/views/pending-requests/models.go
package pendingrequests

import (
	"context"

	"estate-admin/internal/models"
	"estate-admin/internal/store"
	"estate-admin/internal/views/detail"
)

type Mode int

const (
	ModeList Mode = iota
	ModeDecision
	ModeDetail
)

func (m Mode) String() string {
	switch m {
	case ModeList:
		return "list"
	case ModeDecision:
		return "decision"
	case ModeDetail:
		return "detail"
	}
	return "unknown"
}

// Slice is the part of the franchisee store this view drives.
type Slice interface {
	State() store.FranchiseeState
	FetchRequestsByStatus(ctx context.Context, status models.RequestStatus, req models.PageRequest) error
	FetchStatistics(ctx context.Context) error
	Decide(ctx context.Context, decision models.Decision, id int64, input models.DecisionInput) error
}

// PendingDecision is the open decision modal.
type PendingDecision struct {
	Decision models.Decision
	Request  models.FranchiseeRequest
	Copy     models.Copy
	Input    models.DecisionInput
}

// ViewState is everything a renderer needs for one frame.
type ViewState struct {
	Mode              Mode
	Rows              []models.FranchiseeRequest
	Statistics        models.Statistics
	Decision          *PendingDecision
	Detail            *detail.Detail
	ValidationMessage string
	Page              int
	Size              int
	TotalElements     int64
	TotalPages        int
	Loading           bool
	Error             string
}
