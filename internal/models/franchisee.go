// internal/models/franchisee.go
package models

import "strings"

type RequestStatus string

const (
	StatusPending    RequestStatus = "PENDING"
	StatusApproved   RequestStatus = "APPROVED"
	StatusRejected   RequestStatus = "REJECTED"
	StatusTerminated RequestStatus = "TERMINATED"
)

// AllStatuses lists every status in lifecycle order.
var AllStatuses = []RequestStatus{StatusPending, StatusApproved, StatusRejected, StatusTerminated}

func ParseStatus(s string) (RequestStatus, bool) {
	status := RequestStatus(strings.ToUpper(strings.TrimSpace(s)))
	return status, status.Valid()
}

func (s RequestStatus) Valid() bool {
	switch s {
	case StatusPending, StatusApproved, StatusRejected, StatusTerminated:
		return true
	}
	return false
}

// CanTransitionTo reports whether the lifecycle allows moving from s to next.
// PENDING -> APPROVED|REJECTED, APPROVED -> TERMINATED; nothing else.
func (s RequestStatus) CanTransitionTo(next RequestStatus) bool {
	switch s {
	case StatusPending:
		return next == StatusApproved || next == StatusRejected
	case StatusApproved:
		return next == StatusTerminated
	default:
		return false
	}
}

func (s RequestStatus) IsTerminal() bool {
	return s == StatusRejected || s == StatusTerminated
}

// Assignment is the active-franchise record attached once a request is approved.
type Assignment struct {
	StartDate              *Timestamp `json:"startDate,omitempty"`
	EndDate                *Timestamp `json:"endDate,omitempty"`
	RevenueSharePercentage *float64   `json:"revenueSharePercentage,omitempty"`
	TotalProperties        *int64     `json:"totalProperties,omitempty"`
	TotalRevenue           *float64   `json:"totalRevenue,omitempty"`
	TotalCommission        *float64   `json:"totalCommission,omitempty"`
}

// FranchiseeRequest is an application for franchise rights over a district.
// Assignment fields arrive flattened in the same JSON object.
type FranchiseeRequest struct {
	ID              int64  `json:"id"`
	UserID          int64  `json:"userId,omitempty"`
	Name            string `json:"name"`
	Phone           string `json:"phone"`
	BusinessName    string `json:"businessName"`
	ContactEmail    string `json:"contactEmail"`
	ContactPhone    string `json:"contactPhone"`
	BusinessAddress string `json:"businessAddress"`

	DistrictID   int64  `json:"districtId"`
	DistrictName string `json:"districtName"`
	State        string `json:"state"`

	GSTNumber    string `json:"gstNumber"`
	PANNumber    string `json:"panNumber"`
	AadharNumber string `json:"aadharNumber"`

	DocumentURLs []string `json:"documentUrls"`

	Status        RequestStatus `json:"status"`
	AdminComments string        `json:"adminComments,omitempty"`
	CreatedAt     *Timestamp    `json:"createdAt,omitempty"`
	UpdatedAt     *Timestamp    `json:"updatedAt,omitempty"`

	Assignment
}

// HasAssignment is true once the remote has attached an assignment record.
func (r FranchiseeRequest) HasAssignment() bool {
	return r.StartDate != nil
}

// Clone copies r including its document list and every pointer field.
func (r FranchiseeRequest) Clone() FranchiseeRequest {
	out := r
	if r.DocumentURLs != nil {
		out.DocumentURLs = append([]string(nil), r.DocumentURLs...)
	}
	out.CreatedAt = r.CreatedAt.clone()
	out.UpdatedAt = r.UpdatedAt.clone()
	out.Assignment = r.Assignment.Clone()
	return out
}

func (a Assignment) Clone() Assignment {
	return Assignment{
		StartDate:              a.StartDate.clone(),
		EndDate:                a.EndDate.clone(),
		RevenueSharePercentage: clonePtr(a.RevenueSharePercentage),
		TotalProperties:        clonePtr(a.TotalProperties),
		TotalRevenue:           clonePtr(a.TotalRevenue),
		TotalCommission:        clonePtr(a.TotalCommission),
	}
}

func clonePtr[T any](v *T) *T {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}

// WithoutTerminated drops TERMINATED entries, keeping order.
func WithoutTerminated(in []FranchiseeRequest) []FranchiseeRequest {
	out := make([]FranchiseeRequest, 0, len(in))
	for _, r := range in {
		if r.Status == StatusTerminated {
			continue
		}
		out = append(out, r)
	}
	return out
}

// Statistics maps status to request count. It is replaced wholesale on every fetch.
type Statistics map[RequestStatus]int64

func (s Statistics) Count(status RequestStatus) int64 {
	return s[status]
}

func (s Statistics) Total() int64 {
	var total int64
	for _, n := range s {
		total += n
	}
	return total
}

// Clone returns an independent copy.
func (s Statistics) Clone() Statistics {
	if s == nil {
		return nil
	}
	out := make(Statistics, len(s))
	for k, v := range s {
		out[k] = v
	}
	return out
}

// District is read-only reference data used to scope requests.
type District struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	State string `json:"state"`
}
