package export

import (
	"fmt"
	"math"
	"strconv"

	"github.com/shopspring/decimal"
)

const (
	ContentTypeCSV  = "text/csv; charset=utf-8"
	ContentTypePDF  = "application/pdf"
	ContentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

// FormatCurrency renders an amount with exactly two decimals. Non-finite
// amounts, which come from a corrupt stored rate, render as strconv does.
func FormatCurrency(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return strconv.FormatFloat(v, 'f', -1, 64)
	}
	return decimal.NewFromFloat(v).StringFixed(2)
}

// FormatUnits renders attendance units without trailing zeros ("1.5", "2").
func FormatUnits(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func siteOrAll(site string) string {
	if site == "" {
		return "All"
	}
	return site
}

// MonthlyFilename is "Monthly_Summary_{month}_{site|All}.{ext}".
func MonthlyFilename(month, site, ext string) string {
	return fmt.Sprintf("Monthly_Summary_%s_%s.%s", month, siteOrAll(site), ext)
}

// AllSitesFilename is "All_Sites_Summary_{month}.{ext}".
func AllSitesFilename(month, ext string) string {
	return fmt.Sprintf("All_Sites_Summary_%s.%s", month, ext)
}
