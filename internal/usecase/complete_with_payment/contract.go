package complete_with_payment

import (
	"context"
	"time"

	"github.com/m04kA/SMC-AgendaService/internal/domain"
	"github.com/m04kA/SMC-AgendaService/internal/integrations/eventbus"
)

// AppointmentRepository интерфейс репозитория записей
type AppointmentRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Appointment, error)
	Delete(ctx context.Context, id int64) error
}

// CatalogRepository интерфейс каталога услуг и специалистов
type CatalogRepository interface {
	GetService(ctx context.Context, id int64) (*domain.Service, error)
	GetProfessional(ctx context.Context, id int64) (*domain.Professional, error)
}

// CustomerRepository интерфейс репозитория клиентов
type CustomerRepository interface {
	GetByPhone(ctx context.Context, phone string) (*domain.Customer, error)
}

// LedgerRepository интерфейс финансового журнала
type LedgerRepository interface {
	Create(ctx context.Context, tx *domain.LedgerTransaction) (*domain.LedgerTransaction, error)
	GetByAppointmentID(ctx context.Context, appointmentID int64) (*domain.LedgerTransaction, error)
}

// EventPublisher интерфейс публикации событий
type EventPublisher interface {
	Publish(ctx context.Context, event eventbus.Event) error
}

// Metrics интерфейс метрик
type Metrics interface {
	IncArchivalOutcome(outcome string)
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
