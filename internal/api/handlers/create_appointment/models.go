package create_appointment

import (
	"errors"
	"time"

	createBooking "github.com/m04kA/SMC-AgendaService/internal/usecase/create_booking"
)

var errInvalidStartTime = errors.New("invalid startTime")

// CreateAppointmentRequest HTTP request model
type CreateAppointmentRequest struct {
	ServiceID      int64  `json:"serviceId"`
	ProfessionalID int64  `json:"professionalId"`
	CustomerName   string `json:"customerName"`
	CustomerPhone  string `json:"customerPhone"`
	StartTime      string `json:"startTime"` // RFC3339
}

// AppointmentResponse HTTP response model
type AppointmentResponse struct {
	ID               int64   `json:"id"`
	ServiceID        int64   `json:"serviceId"`
	ServiceName      string  `json:"serviceName"`
	ServicePrice     float64 `json:"servicePrice"`
	ProfessionalID   int64   `json:"professionalId"`
	ProfessionalName string  `json:"professionalName"`
	CustomerName     string  `json:"customerName"`
	CustomerPhone    string  `json:"customerPhone"`
	StartTime        string  `json:"startTime"`
	EndTime          string  `json:"endTime"`
	DurationMinutes  int     `json:"durationMinutes"`
	Status           string  `json:"status"`
	CreatedAt        string  `json:"createdAt"`
	UpdatedAt        string  `json:"updatedAt"`
}

// ToUseCaseRequest конвертирует HTTP request в use case request
func (r *CreateAppointmentRequest) ToUseCaseRequest() (*createBooking.Request, error) {
	start, err := time.Parse(time.RFC3339, r.StartTime)
	if err != nil {
		return nil, errInvalidStartTime
	}

	return &createBooking.Request{
		ServiceID:      r.ServiceID,
		ProfessionalID: r.ProfessionalID,
		CustomerName:   r.CustomerName,
		CustomerPhone:  r.CustomerPhone,
		StartTime:      start,
	}, nil
}

// FromUseCaseResponse конвертирует use case response в HTTP response
func FromUseCaseResponse(resp *createBooking.Response) *AppointmentResponse {
	return &AppointmentResponse{
		ID:               resp.ID,
		ServiceID:        resp.ServiceID,
		ServiceName:      resp.ServiceName,
		ServicePrice:     resp.ServicePrice,
		ProfessionalID:   resp.ProfessionalID,
		ProfessionalName: resp.ProfessionalName,
		CustomerName:     resp.CustomerName,
		CustomerPhone:    resp.CustomerPhone,
		StartTime:        resp.StartTime.Format(time.RFC3339),
		EndTime:          resp.EndTime.Format(time.RFC3339),
		DurationMinutes:  resp.DurationMinutes,
		Status:           string(resp.Status),
		CreatedAt:        resp.CreatedAt.Format(time.RFC3339),
		UpdatedAt:        resp.UpdatedAt.Format(time.RFC3339),
	}
}
