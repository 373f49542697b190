package set_appointment_status

import (
	"time"

	"github.com/m04kA/SMC-AgendaService/internal/domain"
)

// Request модель запроса на смену статуса
type Request struct {
	AppointmentID int64
	Status        string
}

// Response модель ответа с обновлённой записью
type Response struct {
	ID             int64
	ServiceID      int64
	ProfessionalID int64
	CustomerName   string
	CustomerPhone  string
	StartTime      time.Time
	EndTime        time.Time
	Status         domain.AppointmentStatus
	PreviousStatus domain.AppointmentStatus
	CompletedAt    *time.Time
	UpdatedAt      time.Time
}
