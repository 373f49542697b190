package complete_with_payment

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-AgendaService/internal/domain"
	completeWithPayment "github.com/m04kA/SMC-AgendaService/internal/usecase/complete_with_payment"
	"github.com/m04kA/SMC-AgendaService/pkg/logger"
)

type fakeUseCase struct {
	got *completeWithPayment.Request
	err error
}

func (f *fakeUseCase) Execute(_ context.Context, req *completeWithPayment.Request) (*completeWithPayment.Response, error) {
	f.got = req
	if f.err != nil {
		return nil, f.err
	}
	return &completeWithPayment.Response{
		LedgerEntryID:      "7f1c2a4e-0000-4000-8000-000000000001",
		AppointmentID:      req.AppointmentID,
		AppointmentDeleted: true,
		ServiceAmount:      100,
		FeeAmount:          3,
		Amount:             103,
		PaymentMethod:      domain.PaymentCreditCard,
		DueDate:            time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC),
		PaidDate:           time.Date(2025, 3, 12, 0, 0, 0, 0, time.UTC),
	}, nil
}

func serve(h *Handler, path, body string) *httptest.ResponseRecorder {
	r := mux.NewRouter()
	r.HandleFunc("/api/v1/appointments/{appointmentId}/complete", h.Handle).Methods(http.MethodPost)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, path, strings.NewReader(body)))
	return rec
}

func TestHandler_Success(t *testing.T) {
	uc := &fakeUseCase{}
	rec := serve(NewHandler(uc, logger.Nop()), "/api/v1/appointments/4/complete", `{"amount":100,"paymentMethod":"credit_card"}`)

	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, uc.got)
	require.NotNil(t, uc.got.Amount)
	assert.Equal(t, 100.0, *uc.got.Amount)

	var body CompleteResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.True(t, body.AppointmentDeleted)
	assert.Equal(t, 103.0, body.Amount)
	assert.Equal(t, "2025-03-10", body.DueDate)
	assert.Equal(t, "2025-03-12", body.PaidDate)
}

func TestHandler_AmountOptional(t *testing.T) {
	uc := &fakeUseCase{}
	rec := serve(NewHandler(uc, logger.Nop()), "/api/v1/appointments/4/complete", `{"paymentMethod":"pix"}`)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Nil(t, uc.got.Amount)
}

func TestHandler_PartialFailure(t *testing.T) {
	pf := &completeWithPayment.PartialFailureError{
		LedgerEntryID: "7f1c2a4e-0000-4000-8000-000000000001",
		AppointmentID: 4,
		Cause:         errors.New("connection reset"),
	}
	uc := &fakeUseCase{err: fmt.Errorf("archive: %w", pf)}
	rec := serve(NewHandler(uc, logger.Nop()), "/api/v1/appointments/4/complete", `{"paymentMethod":"cash"}`)

	require.Equal(t, http.StatusMultiStatus, rec.Code)
	var body PartialFailureResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, pf.LedgerEntryID, body.LedgerEntryID)
	assert.Equal(t, int64(4), body.AppointmentID)
	assert.False(t, body.AppointmentDeleted)
	assert.Equal(t, "connection reset", body.Cause)
}

func TestHandler_Errors(t *testing.T) {
	const ok = `{"paymentMethod":"cash"}`
	tests := []struct {
		name   string
		path   string
		body   string
		err    error
		status int
	}{
		{"bad id", "/api/v1/appointments/x/complete", ok, nil, http.StatusBadRequest},
		{"bad body", "/api/v1/appointments/1/complete", `{"amount":"ten"}`, nil, http.StatusBadRequest},
		{"unknown method", "/api/v1/appointments/1/complete", `{"paymentMethod":"crypto"}`, completeWithPayment.ErrInvalidPaymentMethod, http.StatusBadRequest},
		{"bad amount", "/api/v1/appointments/1/complete", `{"amount":-1,"paymentMethod":"cash"}`, completeWithPayment.ErrInvalidAmount, http.StatusBadRequest},
		{"not found", "/api/v1/appointments/1/complete", ok, completeWithPayment.ErrAppointmentNotFound, http.StatusNotFound},
		{"customer not found", "/api/v1/appointments/1/complete", ok, completeWithPayment.ErrCustomerNotFound, http.StatusNotFound},
		{"canceled", "/api/v1/appointments/1/complete", ok, completeWithPayment.ErrInvalidTransition, http.StatusUnprocessableEntity},
		{"transient", "/api/v1/appointments/1/complete", ok, completeWithPayment.ErrTransientStore, http.StatusServiceUnavailable},
		{"ledger failed", "/api/v1/appointments/1/complete", ok, completeWithPayment.ErrLedgerWriteFailed, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serve(NewHandler(&fakeUseCase{err: tt.err}, logger.Nop()), tt.path, tt.body)
			assert.Equal(t, tt.status, rec.Code)
		})
	}
}
