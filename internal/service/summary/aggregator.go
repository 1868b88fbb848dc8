package summary

import (
	"log/slog"
	"math"
	"sort"
	"strings"

	"github.com/trackify/trackify-backend-go/internal/domain/attendance"
	"github.com/trackify/trackify-backend-go/internal/domain/employee"
	"github.com/trackify/trackify-backend-go/internal/domain/summary"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// Aggregator turns employees and a month of attendance into summary rows.
// It holds no state besides the collation locale and is safe for concurrent use.
type Aggregator struct {
	tag language.Tag
}

// NewAggregator falls back to English for an unparseable locale.
func NewAggregator(locale string) *Aggregator {
	tag, err := language.Parse(locale)
	if err != nil {
		slog.Warn("invalid export locale, using en", "locale", locale, "error", err)
		tag = language.English
	}
	return &Aggregator{tag: tag}
}

// Aggregate sums attendance per employee and prices it at the employee's
// rate. A non-empty site keeps only employees of that site, compared
// case-insensitively. records must already be limited to the month. Rows are
// sorted by name for the locale; employees with equal names keep their input
// order. With no employees or no records the summary is empty.
func (a *Aggregator) Aggregate(employees []employee.Employee, records []attendance.Record, site string) []summary.Row {
	if len(employees) == 0 || len(records) == 0 {
		return []summary.Row{}
	}

	site = strings.TrimSpace(site)
	kept := employees
	if site != "" {
		kept = make([]employee.Employee, 0, len(employees))
		for _, e := range employees {
			if e.InSite(site) {
				kept = append(kept, e)
			}
		}
	}

	return a.rows(kept, totalsByEmployee(records))
}

// GroupBySite builds one section per distinct site of the full employee
// list. Sites match the way Aggregate filters them, case-insensitively and
// ignoring surrounding spaces, and a section is labelled with the first
// spelling seen. Sections are sorted ascending. Employees without a site
// share the "" section. Each section is computed from records directly.
func (a *Aggregator) GroupBySite(employees []employee.Employee, records []attendance.Record) []summary.SiteSection {
	bySite := make(map[string][]employee.Employee)
	labels := make(map[string]string)
	for _, e := range employees {
		key := siteKey(e.Site)
		if _, ok := labels[key]; !ok {
			labels[key] = strings.TrimSpace(e.Site)
		}
		bySite[key] = append(bySite[key], e)
	}

	keys := make([]string, 0, len(bySite))
	for k := range bySite {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	totals := totalsByEmployee(records)
	sections := make([]summary.SiteSection, 0, len(keys))
	for _, k := range keys {
		rows := a.rows(bySite[k], totals)
		sections = append(sections, summary.SiteSection{
			Site:     labels[k],
			Rows:     rows,
			Subtotal: summary.Sum(rows),
		})
	}
	return sections
}

func siteKey(site string) string {
	return strings.ToLower(strings.TrimSpace(site))
}

func (a *Aggregator) rows(employees []employee.Employee, totals map[string]float64) []summary.Row {
	rows := make([]summary.Row, 0, len(employees))
	for _, e := range employees {
		total := totals[e.ID]
		rows = append(rows, summary.Row{
			EmployeeID: e.ID,
			Name:       e.Name,
			Site:       e.Site,
			Total:      total,
			Payment:    total * e.Rate,
		})
	}

	// Collators keep internal buffers and are not safe to share.
	col := collate.New(a.tag)
	sort.SliceStable(rows, func(i, j int) bool {
		return col.CompareString(rows[i].Name, rows[j].Name) < 0
	})
	return rows
}

func totalsByEmployee(records []attendance.Record) map[string]float64 {
	totals := make(map[string]float64)
	for _, r := range records {
		totals[r.EmployeeID] += statusUnits(r)
	}
	return totals
}

// statusUnits reads a record's attendance units. Target is never used as a
// fallback. Missing or non-finite statuses count as 0 and are logged.
func statusUnits(r attendance.Record) float64 {
	if r.Status == nil {
		slog.Warn("attendance record without status counted as 0",
			"employee_id", r.EmployeeID, "date", r.Date)
		return 0
	}
	s := *r.Status
	if math.IsNaN(s) || math.IsInf(s, 0) {
		slog.Warn("attendance record with non-numeric status counted as 0",
			"employee_id", r.EmployeeID, "date", r.Date, "status", s)
		return 0
	}
	return s
}
