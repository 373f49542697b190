package availability

import (
	"github.com/m04kA/SMC-AgendaService/internal/domain"
)

// resolveDay определяет рабочие окна дня
//
// Окно организации:
//   - если часы работы на этот день открыты и корректны - используются они (business_hours);
//   - иначе берётся огибающая [min start, max end] активных смен всех специалистов
//     в этот день (professional_fallback); если смен нет - день закрыт.
//
// Окна специалиста:
//   - собственные смены на этот день, каждая отдельным окном;
//   - специалист без единой смены в неделе наследует часы работы организации;
//   - специалист со сменами в другие дни, но не в этот, в этот день не работает.
func resolveDay(
	bh *domain.BusinessHours,
	rows []*domain.WeeklySchedule,
	scheduled map[int64]bool,
	professionalIDs []int64,
) (domain.ResolvedVia, *domain.TimeRange, map[int64][]domain.TimeRange) {
	own := make(map[int64][]domain.TimeRange)
	var envelope *domain.TimeRange

	for _, row := range rows {
		if !row.IsActive {
			continue
		}
		r := row.Range()
		if !r.Valid() {
			continue
		}
		own[row.ProfessionalID] = append(own[row.ProfessionalID], r)

		if envelope == nil {
			e := r
			envelope = &e
			continue
		}
		if r.Start.IsBefore(envelope.Start) {
			envelope.Start = r.Start
		}
		if r.End.IsAfter(envelope.End) {
			envelope.End = r.End
		}
	}

	via := domain.ResolvedViaProfessionalFallback
	orgWindow := envelope
	if window, ok := bh.Window(); ok {
		via = domain.ResolvedViaBusinessHours
		orgWindow = &window
	}

	windows := make(map[int64][]domain.TimeRange, len(professionalIDs))
	for _, id := range professionalIDs {
		switch {
		case len(own[id]) > 0:
			windows[id] = own[id]
		case !scheduled[id] && via == domain.ResolvedViaBusinessHours:
			windows[id] = []domain.TimeRange{*orgWindow}
		default:
			windows[id] = nil
		}
	}

	return via, orgWindow, windows
}
