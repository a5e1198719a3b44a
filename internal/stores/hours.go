package stores

import (
	"strings"
	"time"
	// store timezones must resolve in slim containers
	_ "time/tzdata"
)

// IsOpenAt reports whether the store accepts orders at now. The is_open flag
// is checked first; opening hours and days only narrow it further. Windows
// whose closing time precedes the opening time run past midnight and belong
// to the day they opened.
func IsOpenAt(store *StoreDTO, now time.Time) bool {
	if store == nil || !store.IsOpen {
		return false
	}

	loc, err := time.LoadLocation(store.Timezone)
	if err != nil || store.Timezone == "" {
		loc = time.UTC
	}
	local := now.In(loc)
	minute := local.Hour()*60 + local.Minute()
	day := local.Weekday()

	opens, okOpen := parseClock(store.OpensAt)
	closes, okClose := parseClock(store.ClosesAt)
	if okOpen && okClose && opens != closes {
		if opens < closes {
			if minute < opens || minute >= closes {
				return false
			}
		} else {
			switch {
			case minute >= opens:
			case minute < closes:
				day = (day + 6) % 7
			default:
				return false
			}
		}
	}

	return openOnDay(store.OpenDays, day)
}

func openOnDay(days []string, day time.Weekday) bool {
	if len(days) == 0 {
		return true
	}
	name := strings.ToLower(day.String())
	for _, d := range days {
		d = strings.ToLower(strings.TrimSpace(d))
		if d == name || (len(d) == 3 && strings.HasPrefix(name, d)) {
			return true
		}
	}
	return false
}

// parseClock reads "HH:MM" into minutes since midnight.
func parseClock(raw *string) (int, bool) {
	if raw == nil {
		return 0, false
	}
	t, err := time.Parse("15:04", strings.TrimSpace(*raw))
	if err != nil {
		return 0, false
	}
	return t.Hour()*60 + t.Minute(), true
}
