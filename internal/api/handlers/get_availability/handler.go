package get_availability

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-AgendaService/internal/api/handlers"
	getAvailability "github.com/m04kA/SMC-AgendaService/internal/usecase/get_availability"
)

const (
	msgMissingDate          = "дата обязательна"
	msgInvalidDate          = "некорректный формат даты, ожидается YYYY-MM-DD"
	msgInvalidServiceID     = "некорректный ID услуги"
	msgInvalidProfessional  = "некорректный ID специалиста"
	msgInvalidDuration      = "длительность должна быть положительным числом минут"
	msgServiceNotFound      = "услуга не найдена"
	msgProfessionalNotFound = "специалист не найден"
	msgTemporarilyDown      = "хранилище временно недоступно, повторите запрос"
)

type Handler struct {
	useCase GetAvailabilityUseCase
	logger  Logger
}

func NewHandler(useCase GetAvailabilityUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle GET /api/v1/availability
// Query params: date (required, YYYY-MM-DD), serviceId, professionalId, duration (minutes)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	useCaseReq, err := ToUseCaseRequest(r.URL.Query())
	if err != nil {
		h.logger.Warn("GET /availability - Invalid query: %v", err)
		switch {
		case errors.Is(err, errMissingDate):
			handlers.RespondBadRequest(w, msgMissingDate)
		case errors.Is(err, errInvalidService):
			handlers.RespondBadRequest(w, msgInvalidServiceID)
		case errors.Is(err, errInvalidProf):
			handlers.RespondBadRequest(w, msgInvalidProfessional)
		case errors.Is(err, errInvalidDuration):
			handlers.RespondBadRequest(w, msgInvalidDuration)
		default:
			handlers.RespondBadRequest(w, msgInvalidDate)
		}
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, getAvailability.ErrInvalidDuration):
			h.logger.Warn("GET /availability - Invalid duration")
			handlers.RespondBadRequest(w, msgInvalidDuration)

		case errors.Is(err, getAvailability.ErrInvalidInput):
			h.logger.Warn("GET /availability - Invalid input: %v", err)
			handlers.RespondBadRequest(w, err.Error())

		case errors.Is(err, getAvailability.ErrServiceNotFound):
			h.logger.Warn("GET /availability - Service not found: service_id=%v", r.URL.Query().Get("serviceId"))
			handlers.RespondNotFound(w, msgServiceNotFound)

		case errors.Is(err, getAvailability.ErrProfessionalNotFound):
			h.logger.Warn("GET /availability - Professional not found: professional_id=%v", r.URL.Query().Get("professionalId"))
			handlers.RespondNotFound(w, msgProfessionalNotFound)

		case errors.Is(err, getAvailability.ErrTransientStore):
			h.logger.Warn("GET /availability - Store temporarily unavailable: %v", err)
			handlers.RespondServiceUnavailable(w, msgTemporarilyDown)

		default:
			h.logger.Error("GET /availability - Failed to get availability: error=%v", err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /availability - Availability retrieved: date=%s, open=%t, slots_count=%d",
		useCaseReq.Date.Format("2006-01-02"), result.IsOpen, len(result.Slots))
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
