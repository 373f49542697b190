package models

import (
	"time"

	"github.com/m04kA/SMC-AgendaService/internal/domain"
)

// Request модели

// ListAppointmentsRequest запрос на получение записей за день
type ListAppointmentsRequest struct {
	Date            time.Time // Календарная дата в часовом поясе организации
	ProfessionalID  *int64    // Фильтр по специалисту (опционально)
	IncludeCanceled bool      // Включить отменённые записи
}

// Response модели

// AppointmentResponse ответ с данными записи
type AppointmentResponse struct {
	ID              int64   `json:"id"`
	ServiceID       int64   `json:"serviceId"`
	ProfessionalID  int64   `json:"professionalId"`
	CustomerName    string  `json:"customerName"`
	CustomerPhone   string  `json:"customerPhone"`
	Date            string  `json:"date"`      // "2025-03-10"
	StartTime       string  `json:"startTime"` // RFC3339
	EndTime         string  `json:"endTime"`   // RFC3339
	DurationMinutes int     `json:"durationMinutes"`
	Status          string  `json:"status"`
	CompletedAt     *string `json:"completedAt,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// AppointmentListResponse ответ со списком записей
type AppointmentListResponse struct {
	Date         string                `json:"date"`
	Appointments []AppointmentResponse `json:"appointments"`
}

// Методы конвертации

// FromDomainAppointment конвертирует domain модель в DTO
// Время выводится в часовом поясе организации
func FromDomainAppointment(a *domain.Appointment, loc *time.Location) *AppointmentResponse {
	if a == nil {
		return nil
	}

	start := a.StartTime.In(loc)
	resp := &AppointmentResponse{
		ID:              a.ID,
		ServiceID:       a.ServiceID,
		ProfessionalID:  a.ProfessionalID,
		CustomerName:    a.CustomerName,
		CustomerPhone:   a.CustomerPhone,
		Date:            start.Format(domain.DateFormat),
		StartTime:       start.Format(time.RFC3339),
		EndTime:         a.EndTime.In(loc).Format(time.RFC3339),
		DurationMinutes: a.DurationMinutes(),
		Status:          string(a.Status),
		CreatedAt:       a.CreatedAt,
		UpdatedAt:       a.UpdatedAt,
	}

	if a.CompletedAt != nil {
		completed := a.CompletedAt.In(loc).Format(time.RFC3339)
		resp.CompletedAt = &completed
	}

	return resp
}

// FromDomainAppointmentList конвертирует список domain моделей в DTO
func FromDomainAppointmentList(date time.Time, items []*domain.Appointment, loc *time.Location) *AppointmentListResponse {
	resp := &AppointmentListResponse{
		Date:         date.Format(domain.DateFormat),
		Appointments: make([]AppointmentResponse, 0, len(items)),
	}
	for _, a := range items {
		resp.Appointments = append(resp.Appointments, *FromDomainAppointment(a, loc))
	}
	return resp
}
