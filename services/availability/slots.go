package availability

import (
	"sort"

	"subercraftex/models/booking"
)

// interval is a half-open [Start, End) range in minutes after midnight.
type interval struct {
	Start, End int
}

func (a interval) overlaps(b interval) bool {
	return a.Start < b.End && b.Start < a.End
}

// DayPlan is everything needed to compute one date's open start times.
type DayPlan struct {
	Open, Close int // working hours, minutes after midnight
	Duration    int
	Buffer      int
	Busy        []interval
	// NotBefore drops starts at or before this minute; -1 keeps every start.
	NotBefore int
}

// OpenSlots enumerates starts from Open stepping by duration+buffer, keeps
// those that finish by Close, and drops any whose buffered span touches a
// busy interval.
func (p DayPlan) OpenSlots() []string {
	if p.Duration <= 0 || p.Close <= p.Open {
		return nil
	}
	step := p.Duration + p.Buffer
	var out []string
	for start := p.Open; start+p.Duration <= p.Close; start += step {
		if start <= p.NotBefore {
			continue
		}
		candidate := interval{Start: start, End: start + p.Duration + p.Buffer}
		free := true
		for _, b := range p.Busy {
			if candidate.overlaps(b) {
				free = false
				break
			}
		}
		if free {
			out = append(out, booking.FormatClock(start))
		}
	}
	return out
}

// busyFrom turns stored bookings into occupied intervals for one date. A
// booking from the previous date that ends after midnight occupies the
// start of this one.
func busyFrom(date string, rows []bookedSlot, buffer int) []interval {
	var out []interval
	for _, r := range rows {
		start, err := booking.ParseClock(r.ScheduledTime)
		if err != nil {
			continue
		}
		end, err := booking.ParseClock(r.EndTime)
		if err != nil {
			continue
		}
		switch {
		case r.ScheduledDate == date:
			if r.EndsNextDay {
				end += 24 * 60
			}
			out = append(out, interval{Start: start, End: end + buffer})
		case r.EndsNextDay:
			out = append(out, interval{Start: 0, End: end + buffer})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Start < out[j].Start })
	return out
}
