package report

import (
	"strings"
	"time"

	"github.com/jhoicas/inventario-ledger/internal/domain"
)

const dateOnly = "2006-01-02"

// ParseRange interpreta startDate y endDate del query string.
// Acepta YYYY-MM-DD (en UTC; la fecha final se extiende hasta el último instante del día) o RFC 3339.
func ParseRange(startRaw, endRaw string) (start, end time.Time, err error) {
	start, _, err = parseDate("startDate", startRaw)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	end, dayOnly, err := parseDate("endDate", endRaw)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	if dayOnly {
		end = end.Add(24*time.Hour - time.Nanosecond)
	}
	return start, end, nil
}

func parseDate(field, raw string) (time.Time, bool, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, false, domain.NewValidationError(field, "es obligatorio")
	}
	if t, err := time.Parse(dateOnly, raw); err == nil {
		return t, true, nil
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, false, nil
	}
	return time.Time{}, false, domain.NewValidationError(field, "formato inválido, use YYYY-MM-DD o RFC 3339")
}
