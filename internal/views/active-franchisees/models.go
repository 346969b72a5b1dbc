// internal/views/active-franchisees/models.go
package activefranchisees

import (
	"context"

	"estate-admin/internal/models"
	"estate-admin/internal/store"
	"estate-admin/internal/views/detail"
)

type Mode int

const (
	ModeList Mode = iota
	ModeDelete
	ModeTerminate
	ModeDetail
)

func (m Mode) String() string {
	switch m {
	case ModeList:
		return "list"
	case ModeDelete:
		return "delete"
	case ModeTerminate:
		return "terminate"
	case ModeDetail:
		return "detail"
	}
	return "unknown"
}

type Slice interface {
	State() store.FranchiseeState
	FetchRequestsByStatus(ctx context.Context, status models.RequestStatus, req models.PageRequest) error
	FetchStatistics(ctx context.Context) error
	Decide(ctx context.Context, decision models.Decision, id int64, input models.DecisionInput) error
	DeleteFranchisee(ctx context.Context, id int64, reason string, districtID int64) error
}

// DeleteModal is the open delete-with-reason form.
type DeleteModal struct {
	Request models.FranchiseeRequest
	Reason  string
}

// TerminateModal is the open terminate decision.
type TerminateModal struct {
	Request models.FranchiseeRequest
	Copy    models.Copy
	Input   models.DecisionInput
}

type ViewState struct {
	Mode              Mode
	Rows              []models.FranchiseeRequest
	Statistics        models.Statistics
	Delete            *DeleteModal
	Terminate         *TerminateModal
	Detail            *detail.Detail
	ValidationMessage string
	Page              int
	Size              int
	TotalElements     int64
	TotalPages        int
	Loading           bool
	Error             string
}
