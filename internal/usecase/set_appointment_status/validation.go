package set_appointment_status

import (
	"fmt"

	"github.com/m04kA/SMC-AgendaService/internal/domain"
)

// validateRequest валидирует входные данные и разбирает целевой статус
func validateRequest(req *Request) (domain.AppointmentStatus, error) {
	if req == nil {
		return "", fmt.Errorf("%w: empty request", ErrInvalidInput)
	}
	if req.AppointmentID <= 0 {
		return "", fmt.Errorf("%w: appointmentId must be positive", ErrInvalidInput)
	}

	status, err := domain.ParseAppointmentStatus(req.Status)
	if err != nil {
		return "", fmt.Errorf("%w: %q", ErrInvalidStatus, req.Status)
	}
	return status, nil
}
