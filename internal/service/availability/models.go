package availability

import (
	"sort"
	"time"

	"github.com/m04kA/SMC-AgendaService/internal/domain"
)

// Settings параметры построения сетки слотов
type Settings struct {
	Location           *time.Location
	GranularityMinutes int
}

// DayPlan рабочие окна дня: окно организации и окна каждого специалиста
type DayPlan struct {
	Date        time.Time // Полночь дня в часовом поясе организации
	ResolvedVia domain.ResolvedVia

	// OrgWindow часы работы организации либо огибающая смен специалистов;
	// nil, если день закрыт
	OrgWindow *domain.TimeRange

	// ProfessionalWindows окна каждого рассмотренного специалиста,
	// смены одного специалиста не объединяются
	ProfessionalWindows map[int64][]domain.TimeRange
}

// IsOpen хотя бы у одного специалиста есть рабочее окно
func (p *DayPlan) IsOpen() bool {
	for _, windows := range p.ProfessionalWindows {
		if len(windows) > 0 {
			return true
		}
	}
	return false
}

// WindowsOf окна специалиста
func (p *DayPlan) WindowsOf(professionalID int64) []domain.TimeRange {
	return p.ProfessionalWindows[professionalID]
}

// Slot время начала, доступное хотя бы одному специалисту
type Slot struct {
	Start           time.Time
	ProfessionalIDs []int64
}

// MergeSlots объединяет слоты специалистов в общий отсортированный список без дублей
func MergeSlots(perProfessional map[int64][]time.Time) []Slot {
	byStart := make(map[int64]*Slot)
	for professionalID, starts := range perProfessional {
		for _, start := range starts {
			key := start.Unix()
			slot, ok := byStart[key]
			if !ok {
				slot = &Slot{Start: start}
				byStart[key] = slot
			}
			slot.ProfessionalIDs = append(slot.ProfessionalIDs, professionalID)
		}
	}

	result := make([]Slot, 0, len(byStart))
	for _, slot := range byStart {
		sort.Slice(slot.ProfessionalIDs, func(i, j int) bool { return slot.ProfessionalIDs[i] < slot.ProfessionalIDs[j] })
		result = append(result, *slot)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Start.Before(result[j].Start) })

	return result
}
