package matching

import (
	"time"

	"github.com/isail-maritime/crew-rotation-api/internal/domain"
)

// AddMonths advances t by months calendar months.
//
// Year and month roll over as calendar fields do; the day of month is clamped to the
// last day of the target month, so Jan 31 + 1 month lands on the last day of February.
func AddMonths(t time.Time, months int) time.Time {
	y, m, d := t.Date()
	hh, mm, ss := t.Clock()
	first := time.Date(y, m+time.Month(months), 1, hh, mm, ss, t.Nanosecond(), t.Location())
	if last := daysIn(first.Year(), first.Month()); d > last {
		d = last
	}
	return time.Date(first.Year(), first.Month(), d, hh, mm, ss, t.Nanosecond(), t.Location())
}

func daysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// ProjectRelease returns the expected release date for a posting that started on onboard
// and runs for contractMonths months.
//
// Without an onboard date the result is the current date, so the answer moves with the
// clock between calls.
func (m *Matcher) ProjectRelease(onboard *time.Time, contractMonths int) time.Time {
	if onboard == nil {
		return domain.DateOf(m.clk.Now())
	}
	return AddMonths(domain.DateOf(*onboard), contractMonths)
}
