package complete_with_payment

import (
	"fmt"
	"math"

	"github.com/m04kA/SMC-AgendaService/internal/domain"
)

// validateRequest валидирует входные данные и разбирает способ оплаты
func validateRequest(req *Request) (domain.PaymentMethod, error) {
	if req == nil {
		return "", fmt.Errorf("%w: empty request", ErrInvalidInput)
	}
	if req.AppointmentID <= 0 {
		return "", fmt.Errorf("%w: appointmentId must be positive", ErrInvalidInput)
	}

	method, err := domain.ParsePaymentMethod(req.PaymentMethod)
	if err != nil {
		return "", fmt.Errorf("%w: %q", ErrInvalidPaymentMethod, req.PaymentMethod)
	}

	if req.Amount != nil {
		if *req.Amount <= 0 || math.IsNaN(*req.Amount) || math.IsInf(*req.Amount, 0) {
			return "", ErrInvalidAmount
		}
	}

	return method, nil
}
