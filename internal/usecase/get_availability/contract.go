package get_availability

import (
	"context"
	"time"

	"github.com/m04kA/SMC-AgendaService/internal/domain"
	"github.com/m04kA/SMC-AgendaService/internal/service/availability"
)

// CatalogRepository интерфейс каталога услуг и специалистов
type CatalogRepository interface {
	GetService(ctx context.Context, id int64) (*domain.Service, error)
	GetProfessional(ctx context.Context, id int64) (*domain.Professional, error)
	GetActiveCapability(ctx context.Context, professionalID, serviceID int64) (*domain.Capability, error)
	ListActiveCapabilitiesByService(ctx context.Context, serviceID int64) ([]*domain.Capability, error)
	ListProfessionalIDs(ctx context.Context) ([]int64, error)
}

// AvailabilityService интерфейс построения рабочих окон и слотов
type AvailabilityService interface {
	Plan(ctx context.Context, date time.Time, professionalIDs []int64) (*availability.DayPlan, error)
	FreeSlots(ctx context.Context, plan *availability.DayPlan, durations map[int64]int, notBefore time.Time) (map[int64][]time.Time, error)
}

// Metrics интерфейс метрик
type Metrics interface {
	IncAvailabilityCheck(resolvedVia string)
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
