package availability

import (
	"context"
	"time"

	"github.com/m04kA/SMC-AgendaService/internal/domain"
)

// ScheduleRepository источник часов работы и смен специалистов
type ScheduleRepository interface {
	GetBusinessHours(ctx context.Context, day time.Weekday) (*domain.BusinessHours, error)
	ListActiveByDay(ctx context.Context, day time.Weekday, professionalIDs []int64) ([]*domain.WeeklySchedule, error)
	ListScheduledProfessionals(ctx context.Context, professionalIDs []int64) (map[int64]bool, error)
}

// AppointmentRepository источник занятого времени
type AppointmentRepository interface {
	List(ctx context.Context, filter domain.AppointmentsFilter) ([]*domain.Appointment, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
