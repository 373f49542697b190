package domain

import (
	"errors"
	"time"
)

// AppointmentStatus статус записи клиента
type AppointmentStatus string

const (
	StatusPending    AppointmentStatus = "pending"
	StatusConfirmed  AppointmentStatus = "confirmed"
	StatusInProgress AppointmentStatus = "in_progress"
	StatusCompleted  AppointmentStatus = "completed"
	StatusCanceled   AppointmentStatus = "canceled"
)

// ErrUnknownStatus возвращается при разборе неизвестного статуса
var ErrUnknownStatus = errors.New("domain: unknown appointment status")

// allowedTransitions допустимые переходы статусов
// completed -> pending единственный обратный переход (повторное открытие записи)
var allowedTransitions = map[AppointmentStatus][]AppointmentStatus{
	StatusPending:    {StatusConfirmed, StatusCanceled},
	StatusConfirmed:  {StatusInProgress, StatusCanceled},
	StatusInProgress: {StatusCompleted, StatusCanceled},
	StatusCompleted:  {StatusPending},
	StatusCanceled:   {},
}

// ParseAppointmentStatus разбирает статус из строки
func ParseAppointmentStatus(s string) (AppointmentStatus, error) {
	status := AppointmentStatus(s)
	if _, ok := allowedTransitions[status]; !ok {
		return "", ErrUnknownStatus
	}
	return status, nil
}

// NormalizeStoredStatus приводит сохранённый статус к известному значению
// Неизвестный статус трактуется как completed, если запись была завершена, иначе как pending
func NormalizeStoredStatus(raw string, completedAt *time.Time) AppointmentStatus {
	if status, err := ParseAppointmentStatus(raw); err == nil {
		return status
	}
	if completedAt != nil {
		return StatusCompleted
	}
	return StatusPending
}

// CanTransition проверяет, разрешён ли переход from -> to
func CanTransition(from, to AppointmentStatus) bool {
	for _, next := range allowedTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// Appointment запись клиента к специалисту на услугу
type Appointment struct {
	ID             int64
	CustomerName   string
	CustomerPhone  string
	ServiceID      int64
	ProfessionalID int64
	StartTime      time.Time
	EndTime        time.Time
	Status         AppointmentStatus
	CompletedAt    *time.Time
	// RawStatus значение статуса в БД, если оно отличается от Status
	RawStatus      string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// StoredStatus статус в том виде, в каком он записан в БД
func (a *Appointment) StoredStatus() AppointmentStatus {
	if a.RawStatus != "" {
		return AppointmentStatus(a.RawStatus)
	}
	return a.Status
}

// BlocksTime отменённые записи не занимают время специалиста
func (a *Appointment) BlocksTime() bool {
	return a.Status != StatusCanceled
}

// Overlaps проверяет пересечение полуоткрытых интервалов [start, end)
// Интервалы, которые только соприкасаются, не пересекаются
func (a *Appointment) Overlaps(start, end time.Time) bool {
	return start.Before(a.EndTime) && a.StartTime.Before(end)
}

// DurationMinutes длительность записи
func (a *Appointment) DurationMinutes() int {
	return int(a.EndTime.Sub(a.StartTime) / time.Minute)
}

// AppointmentsFilter фильтр для выборки записей за день
type AppointmentsFilter struct {
	From            time.Time // Начало интервала (включительно)
	To              time.Time // Конец интервала (не включительно)
	ProfessionalIDs []int64   // Пусто - все специалисты
	IncludeCanceled bool
}
