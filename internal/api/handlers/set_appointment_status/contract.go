package set_appointment_status

import (
	"context"

	setStatus "github.com/m04kA/SMC-AgendaService/internal/usecase/set_appointment_status"
)

type SetStatusUseCase interface {
	Execute(ctx context.Context, req *setStatus.Request) (*setStatus.Response, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
