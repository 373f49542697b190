package availability

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-AgendaService/internal/domain"
	scheduleRepo "github.com/m04kA/SMC-AgendaService/internal/infra/storage/schedule"
)

// Service рабочие окна и свободные слоты
// Используется и при показе доступности, и при проверке слота в момент записи,
// поэтому правила разрешения окна одинаковы для чтения и записи
type Service struct {
	schedules    ScheduleRepository
	appointments AppointmentRepository
	settings     Settings
	logger       Logger
}

func NewService(
	schedules ScheduleRepository,
	appointments AppointmentRepository,
	settings Settings,
	logger Logger,
) *Service {
	if settings.Location == nil {
		settings.Location = time.UTC
	}
	if settings.GranularityMinutes <= 0 {
		settings.GranularityMinutes = domain.DefaultSlotGranularityMinutes
	}
	return &Service{
		schedules:    schedules,
		appointments: appointments,
		settings:     settings,
		logger:       logger,
	}
}

// Location часовой пояс организации
func (s *Service) Location() *time.Location {
	return s.settings.Location
}

// DayStart полночь календарной даты в часовом поясе организации
// Берутся год, месяц и день date как есть, без перевода часового пояса
func (s *Service) DayStart(date time.Time) time.Time {
	y, m, d := date.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, s.settings.Location)
}

// Plan разрешает рабочие окна дня для указанных специалистов
func (s *Service) Plan(ctx context.Context, date time.Time, professionalIDs []int64) (*DayPlan, error) {
	day := s.DayStart(date)
	weekday := day.Weekday()

	bh, err := s.schedules.GetBusinessHours(ctx, weekday)
	if err != nil {
		if !errors.Is(err, scheduleRepo.ErrBusinessHoursNotFound) {
			s.logger.Error("Plan: failed to get business hours for %s: %v", weekday, err)
			return nil, fmt.Errorf("%w: get business hours: %w", ErrInternal, err)
		}
		bh = nil
	}

	// Смены всех специалистов нужны для огибающей, даже если запрошен один специалист
	rows, err := s.schedules.ListActiveByDay(ctx, weekday, nil)
	if err != nil {
		s.logger.Error("Plan: failed to list schedules for %s: %v", weekday, err)
		return nil, fmt.Errorf("%w: list schedules: %w", ErrInternal, err)
	}

	scheduled := map[int64]bool{}
	if len(professionalIDs) > 0 {
		scheduled, err = s.schedules.ListScheduledProfessionals(ctx, professionalIDs)
		if err != nil {
			s.logger.Error("Plan: failed to list scheduled professionals: %v", err)
			return nil, fmt.Errorf("%w: list scheduled professionals: %w", ErrInternal, err)
		}
	}

	via, orgWindow, windows := resolveDay(bh, rows, scheduled, professionalIDs)

	return &DayPlan{
		Date:                day,
		ResolvedVia:         via,
		OrgWindow:           orgWindow,
		ProfessionalWindows: windows,
	}, nil
}

// FreeSlots свободные начала слотов для каждого специалиста плана
// durations - эффективная длительность услуги у каждого специалиста в минутах
func (s *Service) FreeSlots(
	ctx context.Context,
	plan *DayPlan,
	durations map[int64]int,
	notBefore time.Time,
) (map[int64][]time.Time, error) {
	ids := make([]int64, 0, len(plan.ProfessionalWindows))
	for id, windows := range plan.ProfessionalWindows {
		if len(windows) > 0 {
			ids = append(ids, id)
		}
	}

	result := make(map[int64][]time.Time, len(ids))
	if len(ids) == 0 {
		return result, nil
	}

	busy, err := s.appointments.List(ctx, domain.AppointmentsFilter{
		From:            plan.Date,
		To:              plan.Date.AddDate(0, 0, 1),
		ProfessionalIDs: ids,
	})
	if err != nil {
		s.logger.Error("FreeSlots: failed to list appointments for %s: %v", plan.Date.Format(domain.DateFormat), err)
		return nil, fmt.Errorf("%w: list appointments: %w", ErrInternal, err)
	}

	busyByProfessional := make(map[int64][]*domain.Appointment)
	for _, appt := range busy {
		busyByProfessional[appt.ProfessionalID] = append(busyByProfessional[appt.ProfessionalID], appt)
	}

	granularity := time.Duration(s.settings.GranularityMinutes) * time.Minute
	for _, id := range ids {
		minutes := durations[id]
		if minutes <= 0 {
			return nil, ErrInvalidDuration
		}
		result[id] = generateSlots(
			plan.Date,
			s.settings.Location,
			plan.ProfessionalWindows[id],
			time.Duration(minutes)*time.Minute,
			granularity,
			busyByProfessional[id],
			notBefore,
		)
	}

	return result, nil
}

// CheckCandidate повторно проверяет слот в момент записи
// Внутри транзакции пересекающиеся записи читаются с блокировкой (FOR UPDATE)
func (s *Service) CheckCandidate(ctx context.Context, professionalID int64, start time.Time, durationMinutes int) error {
	if durationMinutes <= 0 {
		return ErrInvalidDuration
	}

	localStart := start.In(s.settings.Location)
	plan, err := s.Plan(ctx, localStart, []int64{professionalID})
	if err != nil {
		return err
	}

	duration := time.Duration(durationMinutes) * time.Minute
	granularity := time.Duration(s.settings.GranularityMinutes) * time.Minute

	if !fitsGrid(plan.Date, s.settings.Location, plan.WindowsOf(professionalID), localStart, duration, granularity) {
		return ErrOutsideWorkingHours
	}

	busy, err := s.appointments.List(ctx, domain.AppointmentsFilter{
		From:            localStart,
		To:              localStart.Add(duration),
		ProfessionalIDs: []int64{professionalID},
	})
	if err != nil {
		s.logger.Error("CheckCandidate: failed to list appointments for professional=%d: %v", professionalID, err)
		return fmt.Errorf("%w: list appointments: %w", ErrInternal, err)
	}

	if conflicts(busy, localStart, localStart.Add(duration)) {
		return ErrSlotTaken
	}

	return nil
}
