package create_booking

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/m04kA/SMC-AgendaService/internal/domain"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req == nil {
		return fmt.Errorf("%w: empty request", ErrInvalidInput)
	}

	if req.ServiceID <= 0 {
		return fmt.Errorf("%w: serviceId must be positive", ErrInvalidInput)
	}

	if req.ProfessionalID <= 0 {
		return fmt.Errorf("%w: professionalId must be positive", ErrInvalidInput)
	}

	name := strings.TrimSpace(req.CustomerName)
	if name == "" {
		return fmt.Errorf("%w: customerName is required", ErrInvalidInput)
	}
	if utf8.RuneCountInString(name) > domain.MaxCustomerNameLen {
		return fmt.Errorf("%w: customerName is longer than %d characters", ErrInvalidInput, domain.MaxCustomerNameLen)
	}

	if domain.NormalizePhone(req.CustomerPhone) == "" {
		return fmt.Errorf("%w: customerPhone is required", ErrInvalidInput)
	}

	if req.StartTime.IsZero() {
		return fmt.Errorf("%w: startTime is required", ErrInvalidInput)
	}

	return nil
}

// validateNotPast проверяет, что запись не на прошедшее время с учётом минимального запаса
func validateNotPast(start, now time.Time, minNoticeMinutes int) error {
	earliest := now.Add(time.Duration(minNoticeMinutes) * time.Minute)
	if start.Before(earliest) {
		if minNoticeMinutes > 0 {
			return fmt.Errorf("%w: must book at least %d minutes in advance", ErrPastDateRejected, minNoticeMinutes)
		}
		return ErrPastDateRejected
	}
	return nil
}
