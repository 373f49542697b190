package availability

import (
	"sort"
	"time"

	"github.com/m04kA/SMC-AgendaService/internal/domain"
)

// generateSlots строит сетку начал слотов внутри окон с шагом granularity
// Слот [t, t+duration) допустим, если целиком помещается в окно, начинается не раньше
// notBefore и не пересекается ни с одной неотменённой записью из busy
func generateSlots(
	date time.Time,
	loc *time.Location,
	windows []domain.TimeRange,
	duration time.Duration,
	granularity time.Duration,
	busy []*domain.Appointment,
	notBefore time.Time,
) []time.Time {
	result := make([]time.Time, 0)
	if duration <= 0 || granularity <= 0 {
		return result
	}

	seen := make(map[int64]struct{})
	for _, window := range windows {
		windowStart, windowEnd := window.On(date, loc)

		for start := windowStart; !start.Add(duration).After(windowEnd); start = start.Add(granularity) {
			if start.Before(notBefore) {
				continue
			}
			if conflicts(busy, start, start.Add(duration)) {
				continue
			}
			if _, dup := seen[start.Unix()]; dup {
				continue
			}
			seen[start.Unix()] = struct{}{}
			result = append(result, start)
		}
	}

	sortTimes(result)
	return result
}

// fitsGrid проверяет, что start совпадает с узлом сетки одного из окон
// и слот целиком помещается в это окно
func fitsGrid(
	date time.Time,
	loc *time.Location,
	windows []domain.TimeRange,
	start time.Time,
	duration time.Duration,
	granularity time.Duration,
) bool {
	for _, window := range windows {
		windowStart, windowEnd := window.On(date, loc)
		if start.Before(windowStart) || start.Add(duration).After(windowEnd) {
			continue
		}
		if start.Sub(windowStart)%granularity == 0 {
			return true
		}
	}
	return false
}

// conflicts есть ли среди записей пересекающаяся с [start, end)
func conflicts(busy []*domain.Appointment, start, end time.Time) bool {
	for _, appt := range busy {
		if appt.BlocksTime() && appt.Overlaps(start, end) {
			return true
		}
	}
	return false
}

func sortTimes(ts []time.Time) {
	sort.Slice(ts, func(i, j int) bool { return ts[i].Before(ts[j]) })
}
