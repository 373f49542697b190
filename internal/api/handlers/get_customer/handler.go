package get_customer

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-AgendaService/internal/api/handlers"
	"github.com/m04kA/SMC-AgendaService/internal/service/customers"
)

const (
	msgInvalidPhone = "некорректный телефон"
	msgNotFound     = "клиент не найден"
)

type Handler struct {
	service CustomerService
	logger  Logger
}

func NewHandler(service CustomerService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/customers/{phone}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	phone := mux.Vars(r)["phone"]

	customer, err := h.service.GetByPhone(r.Context(), phone)
	if err != nil {
		switch {
		case errors.Is(err, customers.ErrInvalidInput):
			h.logger.Warn("GET /customers/{phone} - Invalid phone: %s", phone)
			handlers.RespondBadRequest(w, msgInvalidPhone)

		case errors.Is(err, customers.ErrCustomerNotFound):
			h.logger.Warn("GET /customers/{phone} - Customer not found")
			handlers.RespondNotFound(w, msgNotFound)

		default:
			h.logger.Error("GET /customers/{phone} - Failed to get customer: error=%v", err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /customers/{phone} - Customer retrieved: customer_id=%d", customer.ID)
	handlers.RespondJSON(w, http.StatusOK, customer)
}
