package get_availability

import (
	"time"

	"github.com/m04kA/SMC-AgendaService/internal/domain"
)

// Settings параметры use case из конфигурации
type Settings struct {
	DefaultDurationMinutes  int
	MinBookingNoticeMinutes int
}

// Request модель запроса доступности на дату
type Request struct {
	Date            time.Time // Календарная дата (время игнорируется)
	ServiceID       *int64    // Фильтр по услуге (опционально)
	ProfessionalID  *int64    // Фильтр по специалисту (опционально)
	DurationMinutes *int      // Явная длительность слота (опционально)
}

// Slot свободное время начала
type Slot struct {
	Start           time.Time
	ProfessionalIDs []int64 // Специалисты, свободные в это время
}

// Response модель ответа
type Response struct {
	Date         time.Time
	IsOpen       bool
	ClosedReason domain.ClosedReason
	ResolvedVia  domain.ResolvedVia

	Window  *domain.TimeRange  // Общее окно дня (огибающая)
	Windows []domain.TimeRange // Отдельные окна (смены)

	DurationMinutes        int // Длительность, по которой построены слоты
	Slots                  []Slot
	AvailableProfessionals int // Сколько специалистов имеют хотя бы один свободный слот
}
