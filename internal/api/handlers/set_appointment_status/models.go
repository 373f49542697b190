package set_appointment_status

import (
	"time"

	setStatus "github.com/m04kA/SMC-AgendaService/internal/usecase/set_appointment_status"
)

// SetStatusRequest HTTP request model
type SetStatusRequest struct {
	Status string `json:"status"`
}

// StatusResponse HTTP response model
type StatusResponse struct {
	ID             int64   `json:"id"`
	ServiceID      int64   `json:"serviceId"`
	ProfessionalID int64   `json:"professionalId"`
	CustomerName   string  `json:"customerName"`
	CustomerPhone  string  `json:"customerPhone"`
	StartTime      string  `json:"startTime"`
	EndTime        string  `json:"endTime"`
	Status         string  `json:"status"`
	PreviousStatus string  `json:"previousStatus"`
	CompletedAt    *string `json:"completedAt,omitempty"`
	UpdatedAt      string  `json:"updatedAt"`
}

func (r *SetStatusRequest) ToUseCaseRequest(appointmentID int64) *setStatus.Request {
	return &setStatus.Request{
		AppointmentID: appointmentID,
		Status:        r.Status,
	}
}

func FromUseCaseResponse(resp *setStatus.Response) *StatusResponse {
	out := &StatusResponse{
		ID:             resp.ID,
		ServiceID:      resp.ServiceID,
		ProfessionalID: resp.ProfessionalID,
		CustomerName:   resp.CustomerName,
		CustomerPhone:  resp.CustomerPhone,
		StartTime:      resp.StartTime.Format(time.RFC3339),
		EndTime:        resp.EndTime.Format(time.RFC3339),
		Status:         string(resp.Status),
		PreviousStatus: string(resp.PreviousStatus),
		UpdatedAt:      resp.UpdatedAt.Format(time.RFC3339),
	}
	if resp.CompletedAt != nil {
		completed := resp.CompletedAt.Format(time.RFC3339)
		out.CompletedAt = &completed
	}
	return out
}
