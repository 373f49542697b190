package get_availability

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-AgendaService/internal/domain"
	catalogRepo "github.com/m04kA/SMC-AgendaService/internal/infra/storage/catalog"
	scheduleRepo "github.com/m04kA/SMC-AgendaService/internal/infra/storage/schedule"
	"github.com/m04kA/SMC-AgendaService/internal/service/availability"
	"github.com/m04kA/SMC-AgendaService/pkg/logger"
	"github.com/m04kA/SMC-AgendaService/pkg/ptr"
	"github.com/m04kA/SMC-AgendaService/pkg/types"
)

// 2025-03-10 - понедельник
var monday = time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)

type fakeCatalog struct {
	services      map[int64]*domain.Service
	professionals map[int64]*domain.Professional
	capabilities  []*domain.Capability
	err           error
}

func (f *fakeCatalog) GetService(_ context.Context, id int64) (*domain.Service, error) {
	if f.err != nil {
		return nil, f.err
	}
	s, ok := f.services[id]
	if !ok {
		return nil, catalogRepo.ErrServiceNotFound
	}
	return s, nil
}

func (f *fakeCatalog) GetProfessional(_ context.Context, id int64) (*domain.Professional, error) {
	p, ok := f.professionals[id]
	if !ok {
		return nil, catalogRepo.ErrProfessionalNotFound
	}
	return p, nil
}

func (f *fakeCatalog) GetActiveCapability(_ context.Context, professionalID, serviceID int64) (*domain.Capability, error) {
	for _, c := range f.capabilities {
		if c.ProfessionalID == professionalID && c.ServiceID == serviceID && c.IsActive {
			return c, nil
		}
	}
	return nil, catalogRepo.ErrCapabilityNotFound
}

func (f *fakeCatalog) ListActiveCapabilitiesByService(_ context.Context, serviceID int64) ([]*domain.Capability, error) {
	out := make([]*domain.Capability, 0)
	for _, c := range f.capabilities {
		if c.ServiceID == serviceID && c.IsActive {
			out = append(out, c)
		}
	}
	return out, nil
}

func (f *fakeCatalog) ListProfessionalIDs(_ context.Context) ([]int64, error) {
	out := make([]int64, 0, len(f.professionals))
	for id := range f.professionals {
		out = append(out, id)
	}
	return out, nil
}

type fakeSchedules struct {
	hours map[time.Weekday]*domain.BusinessHours
	rows  []*domain.WeeklySchedule
	err   error
}

func (f *fakeSchedules) GetBusinessHours(_ context.Context, day time.Weekday) (*domain.BusinessHours, error) {
	if f.err != nil {
		return nil, f.err
	}
	bh, ok := f.hours[day]
	if !ok {
		return nil, scheduleRepo.ErrBusinessHoursNotFound
	}
	return bh, nil
}

func (f *fakeSchedules) ListActiveByDay(_ context.Context, day time.Weekday, _ []int64) ([]*domain.WeeklySchedule, error) {
	out := make([]*domain.WeeklySchedule, 0)
	for _, row := range f.rows {
		if row.DayOfWeek == day && row.IsActive {
			out = append(out, row)
		}
	}
	return out, nil
}

func (f *fakeSchedules) ListScheduledProfessionals(_ context.Context, ids []int64) (map[int64]bool, error) {
	out := make(map[int64]bool)
	for _, row := range f.rows {
		for _, id := range ids {
			if row.IsActive && row.ProfessionalID == id {
				out[id] = true
			}
		}
	}
	return out, nil
}

type fakeAppointments struct {
	items []*domain.Appointment
}

func (f *fakeAppointments) List(_ context.Context, filter domain.AppointmentsFilter) ([]*domain.Appointment, error) {
	out := make([]*domain.Appointment, 0)
	for _, a := range f.items {
		if a.BlocksTime() && a.StartTime.Before(filter.To) && a.EndTime.After(filter.From) {
			out = append(out, a)
		}
	}
	return out, nil
}

type fakeMetrics struct {
	checks map[string]int
}

func (m *fakeMetrics) IncAvailabilityCheck(resolvedVia string) {
	if m.checks == nil {
		m.checks = make(map[string]int)
	}
	m.checks[resolvedVia]++
}

type fixedTime struct{ now time.Time }

func (f fixedTime) Now() time.Time { return f.now }

func openHours(open, close string) *domain.BusinessHours {
	return &domain.BusinessHours{
		DayOfWeek: time.Monday,
		OpenTime:  ptr.Ptr(types.MustTimeString(open)),
		CloseTime: ptr.Ptr(types.MustTimeString(close)),
		IsOpen:    true,
	}
}

func shift(professionalID int64, start, end string) *domain.WeeklySchedule {
	return &domain.WeeklySchedule{
		ProfessionalID: professionalID,
		DayOfWeek:      time.Monday,
		StartTime:      types.MustTimeString(start),
		EndTime:        types.MustTimeString(end),
		IsActive:       true,
	}
}

func defaultCatalog() *fakeCatalog {
	return &fakeCatalog{
		services: map[int64]*domain.Service{
			1: {ID: 1, Code: "haircut", Name: "Corte", DefaultDurationMinutes: 30, Price: 50},
		},
		professionals: map[int64]*domain.Professional{
			7: {ID: 7, Code: "ana", Name: "Ana"},
			8: {ID: 8, Code: "bia", Name: "Bia"},
		},
		capabilities: []*domain.Capability{
			{ID: 1, ProfessionalID: 7, ServiceID: 1, IsActive: true},
			{ID: 2, ProfessionalID: 8, ServiceID: 1, IsActive: true, CustomDurationMinutes: ptr.Ptr(60)},
		},
	}
}

func newUseCase(catalog *fakeCatalog, schedules *fakeSchedules, appts *fakeAppointments) (*UseCase, *fakeMetrics) {
	log := logger.Nop()
	svc := availability.NewService(schedules, appts, availability.Settings{Location: time.UTC, GranularityMinutes: 30}, log)
	m := &fakeMetrics{}
	uc := NewUseCase(catalog, svc, m, Settings{DefaultDurationMinutes: 30}, log)
	uc.timeProvider = fixedTime{now: monday.AddDate(0, 0, -7)}
	return uc, m
}

func starts(slots []Slot) []string {
	out := make([]string, len(slots))
	for i, s := range slots {
		out[i] = s.Start.Format(domain.TimeFormat)
	}
	return out
}

func TestExecute_ProfessionalWithoutScheduleUsesBusinessHours(t *testing.T) {
	schedules := &fakeSchedules{hours: map[time.Weekday]*domain.BusinessHours{time.Monday: openHours("09:00", "18:00")}}
	uc, m := newUseCase(defaultCatalog(), schedules, &fakeAppointments{})

	resp, err := uc.Execute(context.Background(), &Request{
		Date:           monday,
		ServiceID:      ptr.Ptr(int64(1)),
		ProfessionalID: ptr.Ptr(int64(7)),
	})
	require.NoError(t, err)

	assert.True(t, resp.IsOpen)
	assert.Equal(t, domain.ResolvedViaBusinessHours, resp.ResolvedVia)
	assert.Equal(t, 30, resp.DurationMinutes)
	require.NotNil(t, resp.Window)
	assert.Equal(t, "09:00", resp.Window.Start.String())
	assert.Equal(t, "18:00", resp.Window.End.String())

	got := starts(resp.Slots)
	require.Len(t, got, 18)
	assert.Equal(t, "09:00", got[0])
	assert.Equal(t, "17:30", got[17])
	assert.Equal(t, 1, resp.AvailableProfessionals)
	assert.Equal(t, 1, m.checks[string(domain.ResolvedViaBusinessHours)])
}

func TestExecute_CustomDurationPerProfessional(t *testing.T) {
	schedules := &fakeSchedules{hours: map[time.Weekday]*domain.BusinessHours{time.Monday: openHours("09:00", "11:00")}}
	uc, _ := newUseCase(defaultCatalog(), schedules, &fakeAppointments{})

	resp, err := uc.Execute(context.Background(), &Request{Date: monday, ServiceID: ptr.Ptr(int64(1))})
	require.NoError(t, err)

	// 7 - 30 минут, 8 - 60 минут
	assert.Equal(t, 30, resp.DurationMinutes)
	assert.Equal(t, []string{"09:00", "09:30", "10:00", "10:30"}, starts(resp.Slots))
	assert.Equal(t, []int64{7, 8}, resp.Slots[0].ProfessionalIDs)
	assert.Equal(t, []int64{7}, resp.Slots[3].ProfessionalIDs)
	assert.Equal(t, 2, resp.AvailableProfessionals)
}

func TestExecute_ProfessionalNotCapable(t *testing.T) {
	catalog := defaultCatalog()
	catalog.capabilities = catalog.capabilities[1:]
	schedules := &fakeSchedules{hours: map[time.Weekday]*domain.BusinessHours{time.Monday: openHours("09:00", "18:00")}}
	uc, _ := newUseCase(catalog, schedules, &fakeAppointments{})

	resp, err := uc.Execute(context.Background(), &Request{
		Date:           monday,
		ServiceID:      ptr.Ptr(int64(1)),
		ProfessionalID: ptr.Ptr(int64(7)),
	})
	require.NoError(t, err)

	assert.False(t, resp.IsOpen)
	assert.Equal(t, domain.ClosedReasonProfessionalNotCapable, resp.ClosedReason)
	assert.Empty(t, resp.Slots)
}

func TestExecute_FallbackToProfessionalSchedules(t *testing.T) {
	schedules := &fakeSchedules{rows: []*domain.WeeklySchedule{
		shift(7, "10:00", "12:00"),
		shift(7, "14:00", "15:00"),
		shift(8, "08:00", "09:00"),
	}}
	uc, m := newUseCase(defaultCatalog(), schedules, &fakeAppointments{})

	resp, err := uc.Execute(context.Background(), &Request{Date: monday, ProfessionalID: ptr.Ptr(int64(7))})
	require.NoError(t, err)

	assert.True(t, resp.IsOpen)
	assert.Equal(t, domain.ResolvedViaProfessionalFallback, resp.ResolvedVia)
	require.Len(t, resp.Windows, 2)
	require.NotNil(t, resp.Window)
	assert.Equal(t, "10:00", resp.Window.Start.String())
	assert.Equal(t, "15:00", resp.Window.End.String())
	assert.Equal(t, []string{"10:00", "10:30", "11:00", "11:30", "14:00", "14:30"}, starts(resp.Slots))
	assert.Equal(t, 1, m.checks[string(domain.ResolvedViaProfessionalFallback)])

	// Без фильтра окно организации - огибающая всех смен
	resp, err = uc.Execute(context.Background(), &Request{Date: monday})
	require.NoError(t, err)
	require.NotNil(t, resp.Window)
	assert.Equal(t, "08:00", resp.Window.Start.String())
	assert.Equal(t, "15:00", resp.Window.End.String())
}

func TestExecute_BusinessClosedWithoutSchedules(t *testing.T) {
	closed := &domain.BusinessHours{DayOfWeek: time.Monday, IsOpen: false}
	schedules := &fakeSchedules{hours: map[time.Weekday]*domain.BusinessHours{time.Monday: closed}}
	uc, _ := newUseCase(defaultCatalog(), schedules, &fakeAppointments{})

	resp, err := uc.Execute(context.Background(), &Request{Date: monday, ProfessionalID: ptr.Ptr(int64(7))})
	require.NoError(t, err)

	assert.False(t, resp.IsOpen)
	assert.Equal(t, domain.ClosedReasonBusinessClosed, resp.ClosedReason)
	assert.Nil(t, resp.Window)
	assert.Empty(t, resp.Slots)
}

func TestExecute_ProfessionalOffThisDay(t *testing.T) {
	tuesdayOnly := shift(7, "09:00", "12:00")
	tuesdayOnly.DayOfWeek = time.Tuesday
	schedules := &fakeSchedules{
		hours: map[time.Weekday]*domain.BusinessHours{time.Monday: openHours("09:00", "18:00")},
		rows:  []*domain.WeeklySchedule{tuesdayOnly},
	}
	uc, _ := newUseCase(defaultCatalog(), schedules, &fakeAppointments{})

	resp, err := uc.Execute(context.Background(), &Request{Date: monday, ProfessionalID: ptr.Ptr(int64(7))})
	require.NoError(t, err)

	assert.False(t, resp.IsOpen)
	assert.Equal(t, domain.ClosedReasonProfessionalUnavailable, resp.ClosedReason)
}

func TestExecute_BookedSlotsAndMinNotice(t *testing.T) {
	schedules := &fakeSchedules{hours: map[time.Weekday]*domain.BusinessHours{time.Monday: openHours("09:00", "11:00")}}
	booked := types.MustTimeString("09:30").On(monday, time.UTC)
	appts := &fakeAppointments{items: []*domain.Appointment{{
		ProfessionalID: 7,
		StartTime:      booked,
		EndTime:        booked.Add(30 * time.Minute),
		Status:         domain.StatusConfirmed,
	}}}
	uc, _ := newUseCase(defaultCatalog(), schedules, appts)
	uc.settings.MinBookingNoticeMinutes = 60
	uc.timeProvider = fixedTime{now: types.MustTimeString("09:00").On(monday, time.UTC)}

	resp, err := uc.Execute(context.Background(), &Request{Date: monday, ProfessionalID: ptr.Ptr(int64(7))})
	require.NoError(t, err)

	assert.Equal(t, []string{"10:00", "10:30"}, starts(resp.Slots))
}

func TestExecute_DurationOverride(t *testing.T) {
	schedules := &fakeSchedules{hours: map[time.Weekday]*domain.BusinessHours{time.Monday: openHours("09:00", "11:00")}}
	uc, _ := newUseCase(defaultCatalog(), schedules, &fakeAppointments{})

	resp, err := uc.Execute(context.Background(), &Request{
		Date:            monday,
		ProfessionalID:  ptr.Ptr(int64(7)),
		DurationMinutes: ptr.Ptr(90),
	})
	require.NoError(t, err)

	assert.Equal(t, 90, resp.DurationMinutes)
	assert.Equal(t, []string{"09:00", "09:30"}, starts(resp.Slots))
}

func TestExecute_Errors(t *testing.T) {
	schedules := &fakeSchedules{hours: map[time.Weekday]*domain.BusinessHours{time.Monday: openHours("09:00", "18:00")}}

	tests := []struct {
		name    string
		req     *Request
		catalog *fakeCatalog
		wantErr error
	}{
		{name: "nil request", req: nil, wantErr: ErrInvalidInput},
		{name: "zero date", req: &Request{}, wantErr: ErrInvalidInput},
		{name: "zero duration", req: &Request{Date: monday, DurationMinutes: ptr.Ptr(0)}, wantErr: ErrInvalidDuration},
		{name: "duration longer than a day", req: &Request{Date: monday, DurationMinutes: ptr.Ptr(24*60 + 1)}, wantErr: ErrInvalidInput},
		{name: "unknown service", req: &Request{Date: monday, ServiceID: ptr.Ptr(int64(99))}, wantErr: ErrServiceNotFound},
		{name: "unknown professional", req: &Request{Date: monday, ProfessionalID: ptr.Ptr(int64(99))}, wantErr: ErrProfessionalNotFound},
		{
			name:    "transient store error",
			req:     &Request{Date: monday, ServiceID: ptr.Ptr(int64(1))},
			catalog: &fakeCatalog{err: &pq.Error{Code: "57P01"}},
			wantErr: ErrTransientStore,
		},
		{
			name:    "internal store error",
			req:     &Request{Date: monday, ServiceID: ptr.Ptr(int64(1))},
			catalog: &fakeCatalog{err: errors.New("boom")},
			wantErr: ErrInternal,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			catalog := tt.catalog
			if catalog == nil {
				catalog = defaultCatalog()
			}
			uc, _ := newUseCase(catalog, schedules, &fakeAppointments{})

			_, err := uc.Execute(context.Background(), tt.req)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}
