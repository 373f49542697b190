package create_appointment

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-AgendaService/internal/api/handlers"
	createBooking "github.com/m04kA/SMC-AgendaService/internal/usecase/create_booking"
)

const (
	msgInvalidRequestBody   = "некорректное тело запроса"
	msgInvalidStartTime     = "некорректное время начала, ожидается RFC3339"
	msgPastDate             = "нельзя записаться на прошедшее время"
	msgServiceNotFound      = "услуга не найдена"
	msgProfessionalNotFound = "специалист не найден"
	msgNotCapable           = "специалист не оказывает эту услугу"
	msgInvalidDuration      = "некорректная длительность услуги"
	msgInvalidTimeSlot      = "время не попадает в сетку слотов или рабочее окно"
	msgSlotNotAvailable     = "слот уже занят"
	msgTemporarilyDown      = "хранилище временно недоступно, повторите запрос"
)

type Handler struct {
	useCase CreateBookingUseCase
	logger  Logger
}

func NewHandler(useCase CreateBookingUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/appointments
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	var req CreateAppointmentRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /appointments - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	useCaseReq, err := req.ToUseCaseRequest()
	if err != nil {
		h.logger.Warn("POST /appointments - Invalid startTime: %s", req.StartTime)
		handlers.RespondBadRequest(w, msgInvalidStartTime)
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, createBooking.ErrInvalidInput):
			h.logger.Warn("POST /appointments - Invalid input: %v", err)
			handlers.RespondBadRequest(w, err.Error())

		case errors.Is(err, createBooking.ErrPastDateRejected):
			h.logger.Warn("POST /appointments - Past date rejected: start=%s", req.StartTime)
			handlers.RespondBadRequest(w, msgPastDate)

		case errors.Is(err, createBooking.ErrServiceNotFound):
			h.logger.Warn("POST /appointments - Service not found: service_id=%d", req.ServiceID)
			handlers.RespondNotFound(w, msgServiceNotFound)

		case errors.Is(err, createBooking.ErrProfessionalNotFound):
			h.logger.Warn("POST /appointments - Professional not found: professional_id=%d", req.ProfessionalID)
			handlers.RespondNotFound(w, msgProfessionalNotFound)

		case errors.Is(err, createBooking.ErrProfessionalNotCapable):
			h.logger.Warn("POST /appointments - Professional not capable: professional_id=%d, service_id=%d", req.ProfessionalID, req.ServiceID)
			handlers.RespondUnprocessable(w, msgNotCapable)

		case errors.Is(err, createBooking.ErrInvalidDuration):
			h.logger.Warn("POST /appointments - Invalid duration: service_id=%d", req.ServiceID)
			handlers.RespondUnprocessable(w, msgInvalidDuration)

		case errors.Is(err, createBooking.ErrInvalidTimeSlot):
			h.logger.Warn("POST /appointments - Invalid time slot: start=%s", req.StartTime)
			handlers.RespondUnprocessable(w, msgInvalidTimeSlot)

		case errors.Is(err, createBooking.ErrSlotNoLongerAvailable):
			h.logger.Warn("POST /appointments - Slot not available: professional_id=%d, start=%s", req.ProfessionalID, req.StartTime)
			handlers.RespondConflict(w, msgSlotNotAvailable)

		case errors.Is(err, createBooking.ErrTransientStore):
			h.logger.Warn("POST /appointments - Store temporarily unavailable: %v", err)
			handlers.RespondServiceUnavailable(w, msgTemporarilyDown)

		default:
			h.logger.Error("POST /appointments - Failed to create appointment: error=%v", err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /appointments - Appointment created: id=%d, professional_id=%d, start=%s",
		result.ID, result.ProfessionalID, result.StartTime.Format("2006-01-02 15:04"))
	handlers.RespondJSON(w, http.StatusCreated, FromUseCaseResponse(result))
}
