package summary

// Row is one employee's derived monthly figures. Never persisted.
type Row struct {
	EmployeeID string
	Name       string
	Site       string
	Total      float64
	Payment    float64
}

// Totals is a sum of attendance units and payments over a set of rows.
type Totals struct {
	Attendance float64
	Payment    float64
}

// SiteSection is one site's rows in a multi-site export. Site is "" for
// employees without a site.
type SiteSection struct {
	Site     string
	Rows     []Row
	Subtotal Totals
}

// NoSiteLabel is how the empty site bucket is shown to readers.
const NoSiteLabel = "(No Site)"

// SiteLabel returns the display name of a site bucket.
func SiteLabel(site string) string {
	if site == "" {
		return NoSiteLabel
	}
	return site
}

// Sum adds up rows in order.
func Sum(rows []Row) Totals {
	var t Totals
	for _, r := range rows {
		t.Attendance += r.Total
		t.Payment += r.Payment
	}
	return t
}

// GrandTotal sums section subtotals in section order.
func GrandTotal(sections []SiteSection) Totals {
	var t Totals
	for _, s := range sections {
		t.Attendance += s.Subtotal.Attendance
		t.Payment += s.Subtotal.Payment
	}
	return t
}
