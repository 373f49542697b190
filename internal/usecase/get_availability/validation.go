package get_availability

import (
	"fmt"

	"github.com/m04kA/SMC-AgendaService/internal/domain"
)

// validateRequest проверяет входные данные
func validateRequest(req *Request) error {
	if req == nil {
		return fmt.Errorf("%w: empty request", ErrInvalidInput)
	}
	if req.Date.IsZero() {
		return fmt.Errorf("%w: date is required", ErrInvalidInput)
	}
	if req.ServiceID != nil && *req.ServiceID <= 0 {
		return fmt.Errorf("%w: serviceId must be positive", ErrInvalidInput)
	}
	if req.ProfessionalID != nil && *req.ProfessionalID <= 0 {
		return fmt.Errorf("%w: professionalId must be positive", ErrInvalidInput)
	}
	if req.DurationMinutes != nil {
		if *req.DurationMinutes < domain.MinDurationMinutes {
			return ErrInvalidDuration
		}
		if *req.DurationMinutes > domain.MaxDurationMinutes {
			return fmt.Errorf("%w: duration must be at most %d minutes", ErrInvalidInput, domain.MaxDurationMinutes)
		}
	}
	return nil
}
