// internal/views/franchisee-dashboard/export.go
package franchiseedashboard

import (
	"bufio"
	"io"
	"strconv"
	"strings"

	"estate-admin/internal/models"
)

// Columns is the fixed header row of the report.
var Columns = []string{
	"ID",
	"Franchisee Name",
	"Business Name",
	"Contact Email",
	"Contact Phone",
	"District",
	"State",
	"Status",
	"GST Number",
	"PAN Number",
	"Start Date",
	"End Date",
	"Revenue Share (%)",
	"Total Properties",
	"Total Revenue",
	"Total Commission",
	"Created At",
	"Updated At",
}

// Row renders one record in column order. Money and percentages get two
// decimals and default to "0.00"; counts default to "0"; missing text is empty.
func Row(r models.FranchiseeRequest) []string {
	return []string{
		strconv.FormatInt(r.ID, 10),
		r.Name,
		r.BusinessName,
		r.ContactEmail,
		r.ContactPhone,
		r.DistrictName,
		r.State,
		string(r.Status),
		r.GSTNumber,
		r.PANNumber,
		r.StartDate.Date(),
		r.EndDate.Date(),
		money(r.RevenueSharePercentage),
		count(r.TotalProperties),
		money(r.TotalRevenue),
		money(r.TotalCommission),
		r.CreatedAt.DateTime(),
		r.UpdatedAt.DateTime(),
	}
}

// WriteCSV writes the header followed by one fully quoted row per record.
func WriteCSV(w io.Writer, rows []models.FranchiseeRequest) error {
	bw := bufio.NewWriter(w)
	if _, err := bw.WriteString(strings.Join(Columns, ",") + "\n"); err != nil {
		return err
	}
	for _, r := range rows {
		if _, err := bw.WriteString(quoteRow(Row(r)) + "\n"); err != nil {
			return err
		}
	}
	return bw.Flush()
}

func quoteRow(fields []string) string {
	quoted := make([]string, len(fields))
	for i, f := range fields {
		quoted[i] = `"` + strings.ReplaceAll(f, `"`, `""`) + `"`
	}
	return strings.Join(quoted, ",")
}

func money(v *float64) string {
	if v == nil {
		return "0.00"
	}
	return strconv.FormatFloat(*v, 'f', 2, 64)
}

func count(v *int64) string {
	if v == nil {
		return "0"
	}
	return strconv.FormatInt(*v, 10)
}
