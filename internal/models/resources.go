// internal/models/resources.go
package models

import (
	"strconv"
	"strings"
)

// Entity is implemented by the server-owned records that carry an active flag.
type Entity interface {
	EntityID() int64
	SearchText() string
	IsActive() bool
}

type Advertisement struct {
	ID          int64      `json:"id"`
	Title       string     `json:"title" validate:"notblank,max=200"`
	Description string     `json:"description" validate:"max=2000"`
	ImageURL    string     `json:"imageUrl" validate:"omitempty,url"`
	TargetURL   string     `json:"targetUrl" validate:"omitempty,url"`
	Placement   string     `json:"placement"`
	DistrictID  *int64     `json:"districtId,omitempty"`
	StartDate   *Timestamp `json:"startDate,omitempty"`
	EndDate     *Timestamp `json:"endDate,omitempty"`
	Budget      float64    `json:"budget" validate:"min=0"`
	Impressions int64      `json:"impressions"`
	Clicks      int64      `json:"clicks"`
	Active      bool       `json:"active"`
	CreatedAt   *Timestamp `json:"createdAt,omitempty"`
}

func (a Advertisement) EntityID() int64 { return a.ID }
func (a Advertisement) IsActive() bool  { return a.Active }
func (a Advertisement) SearchText() string {
	return strings.Join([]string{a.Title, a.Description, a.Placement}, " ")
}

type Coupon struct {
	ID            int64      `json:"id"`
	Code          string     `json:"code" validate:"notblank,max=50"`
	Description   string     `json:"description"`
	DiscountType  string     `json:"discountType" validate:"oneof=PERCENTAGE FLAT"`
	DiscountValue float64    `json:"discountValue" validate:"gt=0"`
	MinPurchase   float64    `json:"minPurchaseAmount" validate:"min=0"`
	MaxDiscount   float64    `json:"maxDiscountAmount" validate:"min=0"`
	UsageLimit    int64      `json:"usageLimit" validate:"min=0"`
	UsedCount     int64      `json:"usedCount"`
	ValidFrom     *Timestamp `json:"validFrom,omitempty"`
	ValidUntil    *Timestamp `json:"validUntil,omitempty"`
	Active        bool       `json:"active"`
}

func (c Coupon) EntityID() int64 { return c.ID }
func (c Coupon) IsActive() bool  { return c.Active }
func (c Coupon) SearchText() string {
	return strings.Join([]string{c.Code, c.Description, c.DiscountType}, " ")
}

type SubscriptionPlan struct {
	ID           int64    `json:"id"`
	Name         string   `json:"name" validate:"notblank,max=100"`
	Description  string   `json:"description"`
	Price        float64  `json:"price" validate:"min=0"`
	DurationDays int      `json:"durationDays" validate:"min=1"`
	MaxListings  int      `json:"maxListings" validate:"min=0"`
	Features     []string `json:"features"`
	Active       bool     `json:"active"`
}

func (p SubscriptionPlan) EntityID() int64 { return p.ID }
func (p SubscriptionPlan) IsActive() bool  { return p.Active }
func (p SubscriptionPlan) SearchText() string {
	return strings.Join(append([]string{p.Name, p.Description}, p.Features...), " ")
}

type Property struct {
	ID           int64      `json:"id"`
	Title        string     `json:"title" validate:"notblank,max=200"`
	Description  string     `json:"description"`
	Type         string     `json:"propertyType"`
	ListingType  string     `json:"listingType"`
	Price        float64    `json:"price" validate:"min=0"`
	Area         float64    `json:"area" validate:"min=0"`
	Bedrooms     int        `json:"bedrooms" validate:"min=0"`
	Bathrooms    int        `json:"bathrooms" validate:"min=0"`
	Address      string     `json:"address"`
	City         string     `json:"city"`
	DistrictID   int64      `json:"districtId"`
	DistrictName string     `json:"districtName"`
	State        string     `json:"state"`
	OwnerName    string     `json:"ownerName"`
	OwnerPhone   string     `json:"ownerPhone"`
	Images       []string   `json:"images"`
	Featured     bool       `json:"featured"`
	Active       bool       `json:"active"`
	CreatedAt    *Timestamp `json:"createdAt,omitempty"`
}

func (p Property) EntityID() int64 { return p.ID }
func (p Property) IsActive() bool  { return p.Active }
func (p Property) SearchText() string {
	return strings.Join([]string{p.Title, p.Description, p.Type, p.City, p.DistrictName, p.State, p.OwnerName}, " ")
}

// PropertyFilters are the server-side search parameters for properties.
type PropertyFilters struct {
	Search     string   `json:"search,omitempty"`
	DistrictID *int64   `json:"districtId,omitempty"`
	Type       string   `json:"propertyType,omitempty"`
	MinPrice   *float64 `json:"minPrice,omitempty" validate:"omitempty,min=0"`
	MaxPrice   *float64 `json:"maxPrice,omitempty" validate:"omitempty,min=0"`
}

// Params renders the non-empty filters as query parameters.
func (f PropertyFilters) Params() map[string]string {
	out := map[string]string{}
	if s := strings.TrimSpace(f.Search); s != "" {
		out["search"] = s
	}
	if f.DistrictID != nil {
		out["districtId"] = strconv.FormatInt(*f.DistrictID, 10)
	}
	if f.Type != "" {
		out["propertyType"] = f.Type
	}
	if f.MinPrice != nil {
		out["minPrice"] = strconv.FormatFloat(*f.MinPrice, 'f', -1, 64)
	}
	if f.MaxPrice != nil {
		out["maxPrice"] = strconv.FormatFloat(*f.MaxPrice, 'f', -1, 64)
	}
	return out
}

// DashboardStats are the aggregate counters on the admin landing page.
type DashboardStats struct {
	TotalProperties         int64   `json:"totalProperties"`
	ActiveProperties        int64   `json:"activeProperties"`
	TotalAdvertisements     int64   `json:"totalAdvertisements"`
	ActiveAdvertisements    int64   `json:"activeAdvertisements"`
	ActiveCoupons           int64   `json:"activeCoupons"`
	ActiveSubscriptionPlans int64   `json:"activeSubscriptionPlans"`
	TotalFranchisees        int64   `json:"totalFranchisees"`
	PendingRequests         int64   `json:"pendingRequests"`
	TotalRevenue            float64 `json:"totalRevenue"`
}
