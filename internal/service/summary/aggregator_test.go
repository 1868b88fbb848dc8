package summary

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/trackify/trackify-backend-go/internal/domain/attendance"
	"github.com/trackify/trackify-backend-go/internal/domain/employee"
	"github.com/trackify/trackify-backend-go/internal/domain/summary"
)

func ptr[T any](v T) *T { return &v }

func rec(employeeID, date string, status float64) attendance.Record {
	return attendance.Record{EmployeeID: employeeID, Date: date, Status: ptr(status)}
}

func scenarioEmployees() []employee.Employee {
	return []employee.Employee{
		{ID: "e2", Name: "Bob", Site: "B", Rate: 50},
		{ID: "e1", Name: "Ann", Site: "A", Rate: 100},
	}
}

func scenarioRecords() []attendance.Record {
	return []attendance.Record{
		rec("e1", "2024-06-01", 1),
		rec("e1", "2024-06-02", 0.5),
		rec("e2", "2024-06-01", 2),
	}
}

func TestAggregate_NoFilter(t *testing.T) {
	rows := NewAggregator("en").Aggregate(scenarioEmployees(), scenarioRecords(), "")

	assert.Equal(t, []summary.Row{
		{EmployeeID: "e1", Name: "Ann", Site: "A", Total: 1.5, Payment: 150},
		{EmployeeID: "e2", Name: "Bob", Site: "B", Total: 2, Payment: 100},
	}, rows)
}

func TestAggregate_SiteFilter(t *testing.T) {
	agg := NewAggregator("en")

	for _, site := range []string{"A", "a", " A "} {
		rows := agg.Aggregate(scenarioEmployees(), scenarioRecords(), site)
		assert.Equal(t, []summary.Row{
			{EmployeeID: "e1", Name: "Ann", Site: "A", Total: 1.5, Payment: 150},
		}, rows, "site %q", site)
	}

	assert.Empty(t, agg.Aggregate(scenarioEmployees(), scenarioRecords(), "C"))
}

func TestAggregate_FilteredRowsAreSubset(t *testing.T) {
	agg := NewAggregator("en")
	all := agg.Aggregate(scenarioEmployees(), scenarioRecords(), "")
	for _, site := range []string{"A", "B"} {
		for _, r := range agg.Aggregate(scenarioEmployees(), scenarioRecords(), site) {
			assert.Contains(t, all, r)
		}
	}
}

func TestAggregate_EmployeeWithoutRecords(t *testing.T) {
	employees := append(scenarioEmployees(), employee.Employee{ID: "e3", Name: "Cy", Site: "A", Rate: 80})

	rows := NewAggregator("en").Aggregate(employees, scenarioRecords(), "")
	require.Len(t, rows, 3)
	assert.Equal(t, summary.Row{EmployeeID: "e3", Name: "Cy", Site: "A", Total: 0, Payment: 0}, rows[2])
}

func TestAggregate_EmptyInputs(t *testing.T) {
	agg := NewAggregator("en")
	assert.Empty(t, agg.Aggregate(nil, scenarioRecords(), ""))
	assert.Empty(t, agg.Aggregate(scenarioEmployees(), nil, ""))
	assert.NotNil(t, agg.Aggregate(nil, nil, ""))
}

func TestAggregate_IgnoresUnknownEmployees(t *testing.T) {
	records := append(scenarioRecords(), rec("ghost", "2024-06-03", 2))

	rows := NewAggregator("en").Aggregate(scenarioEmployees(), records, "")
	require.Len(t, rows, 2)
	assert.Equal(t, 3.5, rows[0].Total+rows[1].Total)
}

func TestAggregate_SumMatchesRecords(t *testing.T) {
	employees := []employee.Employee{
		{ID: "a", Name: "Ann", Rate: 1},
		{ID: "b", Name: "Bea", Rate: 1},
		{ID: "c", Name: "Cal", Rate: 1},
	}
	records := []attendance.Record{
		rec("a", "2024-06-01", 0.5),
		rec("a", "2024-06-02", 1.5),
		rec("b", "2024-06-01", 2),
		rec("c", "2024-06-03", 0),
		rec("x", "2024-06-03", 1),
	}

	var want float64
	ids := map[string]bool{"a": true, "b": true, "c": true}
	for _, r := range records {
		if ids[r.EmployeeID] {
			want += *r.Status
		}
	}

	var got float64
	for _, r := range NewAggregator("en").Aggregate(employees, records, "") {
		got += r.Total
	}
	assert.Equal(t, want, got)
}

func TestAggregate_StableForEqualNames(t *testing.T) {
	employees := []employee.Employee{
		{ID: "z", Name: "Zoe", Rate: 1},
		{ID: "first", Name: "Sam", Rate: 1},
		{ID: "a", Name: "Al", Rate: 1},
		{ID: "second", Name: "Sam", Rate: 2},
		{ID: "third", Name: "Sam", Rate: 3},
	}
	records := []attendance.Record{rec("first", "2024-06-01", 1)}

	rows := NewAggregator("en").Aggregate(employees, records, "")

	var ids []string
	for _, r := range rows {
		ids = append(ids, r.EmployeeID)
	}
	assert.Equal(t, []string{"a", "first", "second", "third", "z"}, ids)
}

func TestAggregate_LocaleAwareOrder(t *testing.T) {
	employees := []employee.Employee{
		{ID: "1", Name: "zoe", Rate: 1},
		{ID: "2", Name: "Émile", Rate: 1},
		{ID: "3", Name: "Bob", Rate: 1},
		{ID: "4", Name: "ada", Rate: 1},
	}
	records := []attendance.Record{rec("1", "2024-06-01", 1)}

	rows := NewAggregator("en").Aggregate(employees, records, "")

	var names []string
	for _, r := range rows {
		names = append(names, r.Name)
	}
	// byte order would put "Bob" and "Émile" around the lowercase names
	assert.Equal(t, []string{"ada", "Bob", "Émile", "zoe"}, names)
}

func TestAggregate_IsIdempotentAndDoesNotMutate(t *testing.T) {
	agg := NewAggregator("en")
	employees := scenarioEmployees()
	records := scenarioRecords()

	first := agg.Aggregate(employees, records, "")
	second := agg.Aggregate(employees, records, "")

	assert.Equal(t, first, second)
	assert.Equal(t, scenarioEmployees(), employees)
	assert.Equal(t, scenarioRecords(), records)
}

func TestAggregate_StatusCoercion(t *testing.T) {
	employees := []employee.Employee{{ID: "e1", Name: "Ann", Rate: 10}}
	records := []attendance.Record{
		rec("e1", "2024-06-01", 1),
		// target is not a fallback for a missing status
		{EmployeeID: "e1", Date: "2024-06-02", Target: ptr(2.0)},
		rec("e1", "2024-06-03", math.NaN()),
		rec("e1", "2024-06-04", math.Inf(1)),
	}

	rows := NewAggregator("en").Aggregate(employees, records, "")
	require.Len(t, rows, 1)
	assert.Equal(t, 1.0, rows[0].Total)
	assert.Equal(t, 10.0, rows[0].Payment)
}

func TestAggregate_NaNRatePropagates(t *testing.T) {
	employees := []employee.Employee{{ID: "e1", Name: "Ann", Rate: math.NaN()}}
	rows := NewAggregator("en").Aggregate(employees, []attendance.Record{rec("e1", "2024-06-01", 1)}, "")

	require.Len(t, rows, 1)
	assert.Equal(t, 1.0, rows[0].Total)
	assert.True(t, math.IsNaN(rows[0].Payment))
}

func TestNewAggregator_InvalidLocale(t *testing.T) {
	agg := NewAggregator("not a locale!")
	rows := agg.Aggregate(scenarioEmployees(), scenarioRecords(), "")
	assert.Equal(t, "Ann", rows[0].Name)
}

func TestGroupBySite(t *testing.T) {
	employees := []employee.Employee{
		{ID: "e1", Name: "Ann", Site: "B", Rate: 100},
		{ID: "e2", Name: "Bob", Site: "A", Rate: 50},
		{ID: "e3", Name: "Cy", Site: "", Rate: 10},
		{ID: "e4", Name: "Al", Site: "B", Rate: 20},
	}
	records := []attendance.Record{
		rec("e1", "2024-06-01", 1),
		rec("e1", "2024-06-02", 0.5),
		rec("e2", "2024-06-01", 2),
		rec("e3", "2024-06-01", 1),
	}

	sections := NewAggregator("en").GroupBySite(employees, records)
	require.Len(t, sections, 3)

	assert.Equal(t, "", sections[0].Site)
	assert.Equal(t, "A", sections[1].Site)
	assert.Equal(t, "B", sections[2].Site)

	b := sections[2]
	require.Len(t, b.Rows, 2)
	assert.Equal(t, "Al", b.Rows[0].Name)
	assert.Equal(t, "Ann", b.Rows[1].Name)
	assert.Equal(t, summary.Totals{Attendance: 1.5, Payment: 150}, b.Subtotal)

	assert.Equal(t, summary.Totals{Attendance: 1, Payment: 10}, sections[0].Subtotal)
}

func TestGroupBySite_IgnoresSummaryFilterAndWorksWithoutRecords(t *testing.T) {
	sections := NewAggregator("en").GroupBySite(scenarioEmployees(), nil)
	require.Len(t, sections, 2)
	assert.Equal(t, summary.Totals{}, summary.GrandTotal(sections))
	assert.Len(t, sections[0].Rows, 1)
}

func TestGroupBySite_SubtotalsSumToGrandTotal(t *testing.T) {
	var employees []employee.Employee
	var records []attendance.Record
	sites := []string{"North", "South", "East", ""}
	statuses := []float64{0, 0.5, 1, 1.5, 2}
	for i := 0; i < 40; i++ {
		id := string(rune('a'+i%26)) + string(rune('0'+i/26))
		employees = append(employees, employee.Employee{
			ID: id, Name: "Emp " + id, Site: sites[i%len(sites)], Rate: 10.1 + float64(i)*0.37,
		})
		for d := 1; d <= 5; d++ {
			records = append(records, rec(id, "2024-06-0"+string(rune('0'+d)), statuses[(i+d)%len(statuses)]))
		}
	}

	agg := NewAggregator("en")
	sections := agg.GroupBySite(employees, records)
	grand := summary.GrandTotal(sections)

	var attendanceSum, paymentSum float64
	for _, s := range sections {
		attendanceSum += s.Subtotal.Attendance
		paymentSum += s.Subtotal.Payment
	}
	assert.InDelta(t, grand.Attendance, attendanceSum, 1e-9)
	assert.InDelta(t, grand.Payment, paymentSum, 1e-9)

	all := summary.Sum(agg.Aggregate(employees, records, ""))
	assert.InDelta(t, all.Attendance, grand.Attendance, 1e-9)
	assert.InDelta(t, all.Payment, grand.Payment, 1e-6)
}

func TestGroupBySite_MatchesSiteFilterCaseInsensitively(t *testing.T) {
	employees := []employee.Employee{
		{ID: "e1", Name: "Ann", Site: "North", Rate: 10},
		{ID: "e2", Name: "Bob", Site: "north ", Rate: 10},
		{ID: "e3", Name: "Cy", Site: "South", Rate: 10},
	}
	records := []attendance.Record{
		rec("e1", "2024-06-01", 1),
		rec("e2", "2024-06-01", 1),
		rec("e3", "2024-06-01", 2),
	}
	agg := NewAggregator("en")

	sections := agg.GroupBySite(employees, records)
	require.Len(t, sections, 2)
	assert.Equal(t, "North", sections[0].Site)
	assert.Len(t, sections[0].Rows, 2)

	filtered := summary.Sum(agg.Aggregate(employees, records, "NORTH"))
	assert.Equal(t, filtered, sections[0].Subtotal)
	assert.Equal(t, summary.Totals{Attendance: 2, Payment: 20}, sections[0].Subtotal)
}
