package create_booking

import (
	"context"
	"time"

	"github.com/m04kA/SMC-AgendaService/internal/domain"
	"github.com/m04kA/SMC-AgendaService/internal/integrations/eventbus"
)

// CatalogRepository интерфейс каталога услуг и специалистов
type CatalogRepository interface {
	GetService(ctx context.Context, id int64) (*domain.Service, error)
	GetProfessional(ctx context.Context, id int64) (*domain.Professional, error)
	GetActiveCapability(ctx context.Context, professionalID, serviceID int64) (*domain.Capability, error)
}

// AppointmentRepository интерфейс репозитория записей
type AppointmentRepository interface {
	Create(ctx context.Context, appt *domain.Appointment) (*domain.Appointment, error)
}

// SlotChecker повторная проверка слота в момент записи
type SlotChecker interface {
	CheckCandidate(ctx context.Context, professionalID int64, start time.Time, durationMinutes int) error
}

// ProfessionalLocker блокировка записи к специалисту
type ProfessionalLocker interface {
	WithProfessionalLock(ctx context.Context, professionalID int64, fn func(ctx context.Context) error) error
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// EventPublisher интерфейс публикации событий
type EventPublisher interface {
	Publish(ctx context.Context, event eventbus.Event) error
}

// Metrics интерфейс метрик
type Metrics interface {
	IncBookingCreated()
	IncBookingConflict(reason string)
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
