package eventbus

import "time"

// EventType тип события жизненного цикла записи
type EventType string

const (
	EventAppointmentCreated       EventType = "appointment.created"
	EventAppointmentStatusChanged EventType = "appointment.status_changed"
	EventAppointmentDeleted       EventType = "appointment.deleted"
	EventAppointmentArchived      EventType = "appointment.archived"
)

// Event событие, публикуемое после фиксации изменения в БД
type Event struct {
	ID             string            `json:"id"`
	Type           EventType         `json:"type"`
	AppointmentID  int64             `json:"appointmentId"`
	ProfessionalID int64             `json:"professionalId,omitempty"`
	Status         string            `json:"status,omitempty"`
	PreviousStatus string            `json:"previousStatus,omitempty"`
	LedgerEntryID  string            `json:"ledgerEntryId,omitempty"`
	OccurredAt     time.Time         `json:"occurredAt"`
	Attributes     map[string]string `json:"attributes,omitempty"`
}
