package export

import (
	"bytes"
	"encoding/csv"
	"fmt"

	"github.com/trackify/trackify-backend-go/internal/domain/summary"
)

func writeMonthlyCSV(rows []summary.Row) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(tableHeader); err != nil {
		return nil, fmt.Errorf("failed to write csv header: %w", err)
	}
	for _, r := range rows {
		if err := w.Write([]string{r.Name, FormatUnits(r.Total), FormatCurrency(r.Payment)}); err != nil {
			return nil, fmt.Errorf("failed to write csv row: %w", err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("failed to flush csv: %w", err)
	}
	return buf.Bytes(), nil
}
