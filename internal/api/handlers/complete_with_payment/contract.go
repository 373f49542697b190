package complete_with_payment

import (
	"context"

	completeWithPayment "github.com/m04kA/SMC-AgendaService/internal/usecase/complete_with_payment"
)

type CompleteWithPaymentUseCase interface {
	Execute(ctx context.Context, req *completeWithPayment.Request) (*completeWithPayment.Response, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
