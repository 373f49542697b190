package delete_appointment

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"

	"github.com/m04kA/SMC-AgendaService/internal/service/appointments"
	"github.com/m04kA/SMC-AgendaService/pkg/logger"
)

type fakeService struct {
	deleted []int64
	err     error
}

func (f *fakeService) Delete(_ context.Context, id int64) error {
	if f.err != nil {
		return f.err
	}
	f.deleted = append(f.deleted, id)
	return nil
}

func TestHandler(t *testing.T) {
	tests := []struct {
		name   string
		path   string
		err    error
		status int
	}{
		{"deleted", "/api/v1/appointments/5", nil, http.StatusNoContent},
		{"bad id", "/api/v1/appointments/x", nil, http.StatusBadRequest},
		{"not found", "/api/v1/appointments/5", appointments.ErrAppointmentNotFound, http.StatusNotFound},
		{"transient", "/api/v1/appointments/5", appointments.ErrTransientStore, http.StatusServiceUnavailable},
		{"internal", "/api/v1/appointments/5", appointments.ErrInternal, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &fakeService{err: tt.err}
			r := mux.NewRouter()
			r.HandleFunc("/api/v1/appointments/{appointmentId}", NewHandler(svc, logger.Nop()).Handle).Methods(http.MethodDelete)

			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, tt.path, nil))

			assert.Equal(t, tt.status, rec.Code)
			if tt.status == http.StatusNoContent {
				assert.Equal(t, []int64{5}, svc.deleted)
				assert.Empty(t, rec.Body.String())
			}
		})
	}
}
