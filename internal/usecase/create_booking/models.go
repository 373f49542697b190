package create_booking

import (
	"time"

	"github.com/m04kA/SMC-AgendaService/internal/domain"
)

// Settings параметры use case из конфигурации
type Settings struct {
	RejectPast              bool
	MinBookingNoticeMinutes int
}

// Request модель запроса на создание записи
type Request struct {
	ServiceID      int64
	ProfessionalID int64
	CustomerName   string
	CustomerPhone  string
	StartTime      time.Time // Абсолютное время начала
}

// Response модель ответа с созданной записью
type Response struct {
	ID              int64
	ServiceID       int64
	ProfessionalID  int64
	CustomerName    string
	CustomerPhone   string
	StartTime       time.Time
	EndTime         time.Time
	DurationMinutes int
	Status          domain.AppointmentStatus

	// Денормализованные данные
	ServiceName      string
	ServicePrice     float64
	ProfessionalName string

	CreatedAt time.Time
	UpdatedAt time.Time
}
