package reports

import "time"

func shiftMonth(month string, forward bool) string {
	t, err := time.Parse("2006-01", month)
	if err != nil {
		return month
	}
	delta := -1
	if forward {
		delta = 1
	}
	return t.AddDate(0, delta, 0).Format("2006-01")
}
