package complete_with_payment

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-AgendaService/internal/api/handlers"
	completeWithPayment "github.com/m04kA/SMC-AgendaService/internal/usecase/complete_with_payment"
)

const (
	msgInvalidAppointmentID = "некорректный ID записи"
	msgInvalidRequestBody   = "некорректное тело запроса"
	msgInvalidPaymentMethod = "неизвестный способ оплаты"
	msgInvalidAmount        = "сумма должна быть положительной"
	msgNotFound             = "запись не найдена"
	msgCustomerNotFound     = "клиент с телефоном записи не найден"
	msgCanceled             = "отменённую запись нельзя оплатить"
	msgLedgerWriteFailed    = "не удалось сохранить финансовую запись, запись клиента не изменена"
	msgPartialFailure       = "оплата сохранена, но запись клиента не удалена; повторите запрос для сверки"
	msgTemporarilyDown      = "хранилище временно недоступно, повторите запрос"
)

type Handler struct {
	useCase CompleteWithPaymentUseCase
	logger  Logger
}

func NewHandler(useCase CompleteWithPaymentUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/appointments/{appointmentId}/complete
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	appointmentID, err := strconv.ParseInt(mux.Vars(r)["appointmentId"], 10, 64)
	if err != nil || appointmentID <= 0 {
		h.logger.Warn("POST /appointments/{id}/complete - Invalid appointment ID: %v", mux.Vars(r)["appointmentId"])
		handlers.RespondBadRequest(w, msgInvalidAppointmentID)
		return
	}

	var req CompleteRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /appointments/{id}/complete - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.useCase.Execute(r.Context(), req.ToUseCaseRequest(appointmentID))
	if err != nil {
		var partial *completeWithPayment.PartialFailureError
		switch {
		case errors.As(err, &partial):
			h.logger.Error("POST /appointments/{id}/complete - Partial failure: appointment_id=%d, ledger_entry_id=%s, error=%v",
				partial.AppointmentID, partial.LedgerEntryID, partial.Cause)
			handlers.RespondJSON(w, http.StatusMultiStatus, FromPartialFailure(partial))

		case errors.Is(err, completeWithPayment.ErrInvalidPaymentMethod):
			h.logger.Warn("POST /appointments/{id}/complete - Unknown payment method: %s", req.PaymentMethod)
			handlers.RespondBadRequest(w, msgInvalidPaymentMethod)

		case errors.Is(err, completeWithPayment.ErrInvalidAmount):
			h.logger.Warn("POST /appointments/{id}/complete - Invalid amount: appointment_id=%d", appointmentID)
			handlers.RespondBadRequest(w, msgInvalidAmount)

		case errors.Is(err, completeWithPayment.ErrInvalidInput):
			h.logger.Warn("POST /appointments/{id}/complete - Invalid input: %v", err)
			handlers.RespondBadRequest(w, err.Error())

		case errors.Is(err, completeWithPayment.ErrAppointmentNotFound):
			h.logger.Warn("POST /appointments/{id}/complete - Appointment not found: appointment_id=%d", appointmentID)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, completeWithPayment.ErrCustomerNotFound):
			h.logger.Warn("POST /appointments/{id}/complete - Customer not found: appointment_id=%d", appointmentID)
			handlers.RespondNotFound(w, msgCustomerNotFound)

		case errors.Is(err, completeWithPayment.ErrInvalidTransition):
			h.logger.Warn("POST /appointments/{id}/complete - Canceled appointment: appointment_id=%d", appointmentID)
			handlers.RespondUnprocessable(w, msgCanceled)

		case errors.Is(err, completeWithPayment.ErrTransientStore):
			h.logger.Warn("POST /appointments/{id}/complete - Store temporarily unavailable: %v", err)
			handlers.RespondServiceUnavailable(w, msgTemporarilyDown)

		case errors.Is(err, completeWithPayment.ErrLedgerWriteFailed):
			h.logger.Error("POST /appointments/{id}/complete - Ledger write failed: appointment_id=%d, error=%v", appointmentID, err)
			handlers.RespondError(w, http.StatusInternalServerError, msgLedgerWriteFailed)

		default:
			h.logger.Error("POST /appointments/{id}/complete - Failed to complete appointment: appointment_id=%d, error=%v", appointmentID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /appointments/{id}/complete - Appointment archived: appointment_id=%d, ledger_entry_id=%s, reconciled=%t",
		appointmentID, result.LedgerEntryID, result.Reconciled)
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
