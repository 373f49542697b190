package domain

import (
	"time"

	"github.com/m04kA/SMC-AgendaService/pkg/types"
)

// BusinessHours часы работы организации в день недели
type BusinessHours struct {
	DayOfWeek time.Weekday
	OpenTime  *types.TimeString
	CloseTime *types.TimeString
	IsOpen    bool
}

// Window возвращает рабочее окно, если день открыт и часы заданы корректно
func (b *BusinessHours) Window() (TimeRange, bool) {
	if b == nil || !b.IsOpen || b.OpenTime == nil || b.CloseTime == nil {
		return TimeRange{}, false
	}
	r := TimeRange{Start: *b.OpenTime, End: *b.CloseTime}
	return r, r.Valid()
}

// WeeklySchedule смена специалиста в день недели
// У одного специалиста в один день может быть несколько смен
type WeeklySchedule struct {
	ID             int64
	ProfessionalID int64
	DayOfWeek      time.Weekday
	StartTime      types.TimeString
	EndTime        types.TimeString
	IsActive       bool
}

func (w *WeeklySchedule) Range() TimeRange {
	return TimeRange{Start: w.StartTime, End: w.EndTime}
}

// TimeRange интервал времени суток [Start, End)
type TimeRange struct {
	Start types.TimeString
	End   types.TimeString
}

func (r TimeRange) Valid() bool {
	return r.Start.IsBefore(r.End)
}

// On переводит интервал в абсолютное время в указанную дату
func (r TimeRange) On(date time.Time, loc *time.Location) (time.Time, time.Time) {
	return r.Start.On(date, loc), r.End.On(date, loc)
}

// ResolvedVia стратегия, по которой определено рабочее окно дня
type ResolvedVia string

const (
	ResolvedViaBusinessHours        ResolvedVia = "business_hours"
	ResolvedViaProfessionalFallback ResolvedVia = "professional_fallback"
)

// ClosedReason причина, по которой день закрыт для записи
type ClosedReason string

const (
	ClosedReasonBusinessClosed          ClosedReason = "business_closed"
	ClosedReasonProfessionalUnavailable ClosedReason = "professional_unavailable"
	ClosedReasonProfessionalNotCapable  ClosedReason = "professional_not_capable"
)
