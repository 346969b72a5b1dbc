// internal/models/page.go
package models

// Page is the paged envelope returned by list endpoints.
type Page[T any] struct {
	Content       []T   `json:"content"`
	TotalElements int64 `json:"totalElements"`
	TotalPages    int   `json:"totalPages"`
	Number        int   `json:"number"`
	Size          int   `json:"size"`
}

// SinglePage wraps an un-paged array so that TotalElements equals len(content).
func SinglePage[T any](content []T) Page[T] {
	if content == nil {
		content = []T{}
	}
	pages := 0
	if len(content) > 0 {
		pages = 1
	}
	return Page[T]{
		Content:       content,
		TotalElements: int64(len(content)),
		TotalPages:    pages,
		Number:        0,
		Size:          len(content),
	}
}

type PageRequest struct {
	Page      int    `json:"page" validate:"min=0"`
	Size      int    `json:"size" validate:"min=1,max=500"`
	SortBy    string `json:"sortBy"`
	Direction string `json:"direction" validate:"omitempty,oneof=ASC DESC asc desc"`
}

// RequestFilters narrows the general franchisee listing.
type RequestFilters struct {
	PageRequest
	Search     string        `json:"search,omitempty"`
	Status     RequestStatus `json:"status,omitempty" validate:"omitempty,oneof=PENDING APPROVED REJECTED TERMINATED"`
	DistrictID *int64        `json:"districtId,omitempty"`
	FromDate   string        `json:"startDate,omitempty" validate:"omitempty,datetime=2006-01-02"`
	ToDate     string        `json:"endDate,omitempty" validate:"omitempty,datetime=2006-01-02"`
}
