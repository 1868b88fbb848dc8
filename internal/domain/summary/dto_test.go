package summary

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAmount_MarshalJSON(t *testing.T) {
	out, err := json.Marshal(RowResponse{Name: "Ann", Total: 1.5, Payment: Amount(math.NaN())})
	require.NoError(t, err)
	assert.JSONEq(t, `{"employee_id":"","name":"Ann","site":"","total":1.5,"payment":null}`, string(out))

	out, err = json.Marshal(Amount(150))
	require.NoError(t, err)
	assert.Equal(t, "150", string(out))
}

func TestMonthlySummaryRequest_Validate(t *testing.T) {
	req := MonthlySummaryRequest{Month: "2024-06", Site: "  A "}
	require.NoError(t, req.Validate())
	assert.Equal(t, "A", req.Site)

	assert.Error(t, (&MonthlySummaryRequest{}).Validate())
	assert.Error(t, (&MonthlySummaryRequest{Month: "June"}).Validate())
}

func TestSum(t *testing.T) {
	got := Sum([]Row{{Total: 1.5, Payment: 150}, {Total: 2, Payment: 100}})
	assert.Equal(t, Totals{Attendance: 3.5, Payment: 250}, got)
	assert.Equal(t, Totals{}, Sum(nil))
}

func TestSiteLabel(t *testing.T) {
	assert.Equal(t, "(No Site)", SiteLabel(""))
	assert.Equal(t, "North", SiteLabel("North"))
}

func TestGrandTotal(t *testing.T) {
	sections := []SiteSection{
		{Site: "A", Subtotal: Totals{Attendance: 1.5, Payment: 150}},
		{Site: "B", Subtotal: Totals{Attendance: 2, Payment: 100}},
	}
	assert.Equal(t, Totals{Attendance: 3.5, Payment: 250}, GrandTotal(sections))
	assert.Equal(t, Totals{}, GrandTotal(nil))
}
