// Package detail projects a franchisee request into the read-only detail modal.
package detail

import (
	"fmt"
	"net/url"
	"path"
	"strconv"

	"estate-admin/internal/models"
)

type Field struct {
	Label string
	Value string
}

type DocumentLink struct {
	Name string
	URL  string
}

// Detail has no mutating transitions; it is rebuilt from the row each time.
type Detail struct {
	RequestID int64
	Status    models.RequestStatus
	Fields    []Field
	Documents []DocumentLink
}

func Project(r models.FranchiseeRequest) Detail {
	fields := []Field{
		{"Name", r.Name},
		{"Phone", r.Phone},
		{"Business Name", r.BusinessName},
		{"Contact Email", r.ContactEmail},
		{"Contact Phone", r.ContactPhone},
		{"Business Address", r.BusinessAddress},
		{"District", r.DistrictName},
		{"State", r.State},
		{"GST Number", r.GSTNumber},
		{"PAN Number", r.PANNumber},
		{"Aadhar Number", r.AadharNumber},
		{"Status", string(r.Status)},
		{"Admin Comments", r.AdminComments},
		{"Submitted", r.CreatedAt.DateTime()},
		{"Last Updated", r.UpdatedAt.DateTime()},
	}
	if r.HasAssignment() {
		fields = append(fields,
			Field{"Start Date", r.StartDate.Date()},
			Field{"End Date", r.EndDate.Date()},
			Field{"Revenue Share (%)", formatOptional(r.RevenueSharePercentage)},
			Field{"Total Properties", formatCount(r.TotalProperties)},
			Field{"Total Revenue", formatOptional(r.TotalRevenue)},
			Field{"Total Commission", formatOptional(r.TotalCommission)},
		)
	}

	return Detail{
		RequestID: r.ID,
		Status:    r.Status,
		Fields:    fields,
		Documents: documentLinks(r.DocumentURLs),
	}
}

func documentLinks(urls []string) []DocumentLink {
	links := make([]DocumentLink, 0, len(urls))
	for i, raw := range urls {
		if raw == "" {
			continue
		}
		name := fmt.Sprintf("Document %d", i+1)
		if u, err := url.Parse(raw); err == nil {
			if base := path.Base(u.Path); base != "." && base != "/" && base != "" {
				name = base
			}
		}
		links = append(links, DocumentLink{Name: name, URL: raw})
	}
	return links
}

func formatOptional(v *float64) string {
	if v == nil {
		return "0.00"
	}
	return strconv.FormatFloat(*v, 'f', 2, 64)
}

func formatCount(v *int64) string {
	if v == nil {
		return "0"
	}
	return strconv.FormatInt(*v, 10)
}

// Value returns the field with the given label.
func (d Detail) Value(label string) (string, bool) {
	for _, f := range d.Fields {
		if f.Label == label {
			return f.Value, true
		}
	}
	return "", false
}
