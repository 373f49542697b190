package set_appointment_status

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-AgendaService/internal/domain"
	appointmentRepo "github.com/m04kA/SMC-AgendaService/internal/infra/storage/appointment"
	"github.com/m04kA/SMC-AgendaService/internal/integrations/eventbus"
	"github.com/m04kA/SMC-AgendaService/pkg/logger"
)

var now = time.Date(2025, 3, 10, 15, 0, 0, 0, time.UTC)

type fakeRepo struct {
	items map[int64]*domain.Appointment
	// racer меняет статус между чтением и записью
	racer     func(a *domain.Appointment)
	getErr    error
	updateErr error
}

func (r *fakeRepo) GetByID(_ context.Context, id int64) (*domain.Appointment, error) {
	if r.getErr != nil {
		return nil, r.getErr
	}
	a, ok := r.items[id]
	if !ok {
		return nil, appointmentRepo.ErrAppointmentNotFound
	}
	cp := *a
	return &cp, nil
}

func (r *fakeRepo) UpdateStatus(_ context.Context, id int64, from, to domain.AppointmentStatus, completedAt *time.Time) (*domain.Appointment, error) {
	if r.updateErr != nil {
		return nil, r.updateErr
	}
	a, ok := r.items[id]
	if !ok {
		return nil, appointmentRepo.ErrAppointmentNotFound
	}
	if r.racer != nil {
		r.racer(a)
	}
	if a.StoredStatus() != from {
		return nil, appointmentRepo.ErrStatusConflict
	}
	a.Status = to
	a.RawStatus = ""
	a.CompletedAt = completedAt
	a.UpdatedAt = now
	cp := *a
	return &cp, nil
}

type fakePublisher struct {
	events []eventbus.Event
	err    error
}

func (p *fakePublisher) Publish(_ context.Context, event eventbus.Event) error {
	if p.err != nil {
		return p.err
	}
	p.events = append(p.events, event)
	return nil
}

type fakeMetrics struct {
	transitions []string
}

func (m *fakeMetrics) IncStatusTransition(from, to string) {
	m.transitions = append(m.transitions, from+"->"+to)
}

type fixedTime struct{ now time.Time }

func (f fixedTime) Now() time.Time { return f.now }

func newUseCase(items ...*domain.Appointment) (*UseCase, *fakeRepo, *fakePublisher, *fakeMetrics) {
	repo := &fakeRepo{items: make(map[int64]*domain.Appointment)}
	for _, a := range items {
		repo.items[a.ID] = a
	}
	publisher := &fakePublisher{}
	metrics := &fakeMetrics{}
	uc := NewUseCase(repo, publisher, metrics, logger.Nop())
	uc.timeProvider = fixedTime{now: now}
	return uc, repo, publisher, metrics
}

func appointment(id int64, status domain.AppointmentStatus) *domain.Appointment {
	a := &domain.Appointment{
		ID:             id,
		ProfessionalID: 7,
		ServiceID:      1,
		StartTime:      now.Add(-time.Hour),
		EndTime:        now.Add(-30 * time.Minute),
		Status:         status,
	}
	if status == domain.StatusCompleted {
		a.CompletedAt = &now
	}
	return a
}

func TestExecute_HappyPathLifecycle(t *testing.T) {
	uc, repo, publisher, metrics := newUseCase(appointment(1, domain.StatusPending))

	for _, next := range []domain.AppointmentStatus{domain.StatusConfirmed, domain.StatusInProgress, domain.StatusCompleted} {
		resp, err := uc.Execute(context.Background(), &Request{AppointmentID: 1, Status: string(next)})
		require.NoError(t, err, next)
		assert.Equal(t, next, resp.Status)
	}

	assert.Equal(t, domain.StatusCompleted, repo.items[1].Status)
	require.NotNil(t, repo.items[1].CompletedAt)
	assert.Equal(t, now, *repo.items[1].CompletedAt)

	assert.Equal(t, []string{"pending->confirmed", "confirmed->in_progress", "in_progress->completed"}, metrics.transitions)
	require.Len(t, publisher.events, 3)
	assert.Equal(t, eventbus.EventAppointmentStatusChanged, publisher.events[2].Type)
	assert.Equal(t, "in_progress", publisher.events[2].PreviousStatus)
	assert.Equal(t, "completed", publisher.events[2].Status)
}

func TestExecute_UnknownStoredStatusTreatedAsPending(t *testing.T) {
	legacy := appointment(1, domain.StatusPending)
	legacy.RawStatus = "waiting"
	uc, repo, publisher, _ := newUseCase(legacy)

	resp, err := uc.Execute(context.Background(), &Request{AppointmentID: 1, Status: string(domain.StatusConfirmed)})
	require.NoError(t, err)

	assert.Equal(t, domain.StatusPending, resp.PreviousStatus)
	assert.Equal(t, domain.StatusConfirmed, resp.Status)
	assert.Equal(t, domain.StatusConfirmed, repo.items[1].StoredStatus())
	require.Len(t, publisher.events, 1)
}

func TestExecute_ReopenCompletedClearsCompletedAt(t *testing.T) {
	uc, repo, _, _ := newUseCase(appointment(1, domain.StatusCompleted))

	resp, err := uc.Execute(context.Background(), &Request{AppointmentID: 1, Status: "pending"})
	require.NoError(t, err)

	assert.Equal(t, domain.StatusPending, resp.Status)
	assert.Equal(t, domain.StatusCompleted, resp.PreviousStatus)
	assert.Nil(t, resp.CompletedAt)
	assert.Nil(t, repo.items[1].CompletedAt)
}

func TestExecute_InvalidTransitions(t *testing.T) {
	tests := []struct {
		from domain.AppointmentStatus
		to   string
	}{
		{domain.StatusCompleted, "confirmed"},
		{domain.StatusCompleted, "canceled"},
		{domain.StatusCompleted, "completed"},
		{domain.StatusCanceled, "pending"},
		{domain.StatusCanceled, "confirmed"},
		{domain.StatusPending, "completed"},
		{domain.StatusPending, "in_progress"},
		{domain.StatusConfirmed, "pending"},
		{domain.StatusInProgress, "in_progress"},
	}

	for _, tt := range tests {
		t.Run(string(tt.from)+"->"+tt.to, func(t *testing.T) {
			uc, repo, publisher, metrics := newUseCase(appointment(1, tt.from))

			_, err := uc.Execute(context.Background(), &Request{AppointmentID: 1, Status: tt.to})
			assert.ErrorIs(t, err, ErrInvalidTransition)
			assert.Equal(t, tt.from, repo.items[1].Status)
			assert.Empty(t, publisher.events)
			assert.Empty(t, metrics.transitions)
		})
	}
}

func TestExecute_CancelFromActiveStates(t *testing.T) {
	for _, from := range []domain.AppointmentStatus{domain.StatusPending, domain.StatusConfirmed, domain.StatusInProgress} {
		uc, repo, _, _ := newUseCase(appointment(1, from))

		_, err := uc.Execute(context.Background(), &Request{AppointmentID: 1, Status: "canceled"})
		require.NoError(t, err, from)
		assert.Equal(t, domain.StatusCanceled, repo.items[1].Status)
	}
}

func TestExecute_ConcurrentChange(t *testing.T) {
	uc, repo, publisher, _ := newUseCase(appointment(1, domain.StatusPending))
	repo.racer = func(a *domain.Appointment) { a.Status = domain.StatusCanceled }

	_, err := uc.Execute(context.Background(), &Request{AppointmentID: 1, Status: "confirmed"})
	assert.ErrorIs(t, err, ErrStatusChanged)
	assert.Equal(t, domain.StatusCanceled, repo.items[1].Status)
	assert.Empty(t, publisher.events)
}

func TestExecute_Errors(t *testing.T) {
	tests := []struct {
		name    string
		req     *Request
		setup   func(r *fakeRepo)
		wantErr error
	}{
		{name: "nil request", req: nil, wantErr: ErrInvalidInput},
		{name: "bad id", req: &Request{AppointmentID: 0, Status: "confirmed"}, wantErr: ErrInvalidInput},
		{name: "unknown status", req: &Request{AppointmentID: 1, Status: "done"}, wantErr: ErrInvalidStatus},
		{name: "not found", req: &Request{AppointmentID: 2, Status: "confirmed"}, wantErr: ErrAppointmentNotFound},
		{
			name:    "transient read",
			req:     &Request{AppointmentID: 1, Status: "confirmed"},
			setup:   func(r *fakeRepo) { r.getErr = &pq.Error{Code: "57P01"} },
			wantErr: ErrTransientStore,
		},
		{
			name:    "failed write",
			req:     &Request{AppointmentID: 1, Status: "confirmed"},
			setup:   func(r *fakeRepo) { r.updateErr = errors.New("boom") },
			wantErr: ErrInternal,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc, repo, _, _ := newUseCase(appointment(1, domain.StatusPending))
			if tt.setup != nil {
				tt.setup(repo)
			}

			_, err := uc.Execute(context.Background(), tt.req)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestExecute_PublishFailureIgnored(t *testing.T) {
	uc, _, publisher, _ := newUseCase(appointment(1, domain.StatusPending))
	publisher.err = errors.New("broker down")

	resp, err := uc.Execute(context.Background(), &Request{AppointmentID: 1, Status: "confirmed"})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusConfirmed, resp.Status)
}
