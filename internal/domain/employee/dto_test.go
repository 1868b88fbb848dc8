package employee

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/trackify/trackify-backend-go/internal/pkg/validator"
)

func TestRateInput_UnmarshalJSON(t *testing.T) {
	cases := []struct {
		body string
		want RateInput
	}{
		{`{"rate": 120.5}`, "120.5"},
		{`{"rate": "99"}`, "99"},
		{`{"rate": "abc"}`, "abc"},
		{`{"rate": null}`, ""},
		{`{}`, ""},
	}
	for _, c := range cases {
		var req CreateEmployeeRequest
		require.NoError(t, json.Unmarshal([]byte(c.body), &req), c.body)
		assert.Equal(t, c.want, req.Rate, c.body)
	}
}

func TestCreateEmployeeRequest_Validate(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		req := CreateEmployeeRequest{Name: "Ann", Site: "A", Rate: "100"}
		assert.NoError(t, req.Validate())
	})

	t.Run("rejects missing name and non numeric rate", func(t *testing.T) {
		req := CreateEmployeeRequest{Name: "  ", Rate: "ten"}
		err := req.Validate()

		var errs validator.ValidationErrors
		require.ErrorAs(t, err, &errs)
		assert.Equal(t, map[string]string{
			"name": "name is required",
			"rate": "rate must be a number",
		}, errs.ToMap())
	})

	t.Run("rejects non positive rate", func(t *testing.T) {
		for _, rate := range []RateInput{"0", "-5", "0.00"} {
			req := CreateEmployeeRequest{Name: "Ann", Rate: rate}
			var errs validator.ValidationErrors
			require.ErrorAs(t, req.Validate(), &errs, string(rate))
			assert.Equal(t, "rate must be greater than 0", errs.ToMap()["rate"])
		}
	})

	t.Run("rejects rates the rate column cannot hold", func(t *testing.T) {
		cases := []struct {
			rate RateInput
			want string
		}{
			{"0.001", "rate must have at most 2 decimal places"},
			{"0.004", "rate must have at most 2 decimal places"},
			{"12.345", "rate must have at most 2 decimal places"},
			{"1e20", "rate must be less than 1000000000000"},
			{"123456789012345", "rate must be less than 1000000000000"},
			{"1000000000000", "rate must be less than 1000000000000"},
		}
		for _, c := range cases {
			req := CreateEmployeeRequest{Name: "Ann", Rate: c.rate}
			var errs validator.ValidationErrors
			require.ErrorAs(t, req.Validate(), &errs, string(c.rate))
			assert.Equal(t, c.want, errs.ToMap()["rate"], string(c.rate))
		}
	})

	t.Run("accepts rates at the column limits", func(t *testing.T) {
		for _, rate := range []RateInput{"0.01", "12.50", "1.500", "999999999999.99"} {
			req := CreateEmployeeRequest{Name: "Ann", Rate: rate}
			assert.NoError(t, req.Validate(), string(rate))
		}
	})

	t.Run("rejects missing rate and bad phone", func(t *testing.T) {
		req := CreateEmployeeRequest{Name: "Ann", Phone: "call me"}
		var errs validator.ValidationErrors
		require.ErrorAs(t, req.Validate(), &errs)
		assert.Equal(t, "rate is required", errs.ToMap()["rate"])
		assert.Equal(t, "invalid phone number", errs.ToMap()["phone"])
	})
}

func TestUpdateEmployeeRequest_Validate(t *testing.T) {
	req := UpdateEmployeeRequest{Name: "Ann", Rate: "10"}
	var errs validator.ValidationErrors
	require.ErrorAs(t, req.Validate(), &errs)
	assert.Equal(t, "id is required", errs.ToMap()["id"])

	req.ID = "emp_1"
	assert.NoError(t, req.Validate())
}

func TestEmployee_InSite(t *testing.T) {
	e := Employee{Site: "North Yard"}
	assert.True(t, e.InSite("north yard"))
	assert.True(t, e.InSite(" NORTH YARD "))
	assert.False(t, e.InSite("South"))
	assert.True(t, Employee{}.InSite(""))
}
