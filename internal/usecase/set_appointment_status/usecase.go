package set_appointment_status

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-AgendaService/internal/domain"
	appointmentRepo "github.com/m04kA/SMC-AgendaService/internal/infra/storage/appointment"
	"github.com/m04kA/SMC-AgendaService/internal/integrations/eventbus"
	"github.com/m04kA/SMC-AgendaService/pkg/pgerr"
)

// UseCase use case смены статуса записи
type UseCase struct {
	appointmentRepo AppointmentRepository
	publisher       EventPublisher
	metrics         Metrics
	timeProvider    TimeProvider
	logger          Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	appointmentRepo AppointmentRepository,
	publisher EventPublisher,
	metrics Metrics,
	logger Logger,
) *UseCase {
	return &UseCase{
		appointmentRepo: appointmentRepo,
		publisher:       publisher,
		metrics:         metrics,
		timeProvider:    &RealTimeProvider{},
		logger:          logger,
	}
}

// Execute выполняет переход статуса
// Обновление выполняется как compare-and-set по текущему статусу,
// конкурентное изменение статуса возвращает ErrStatusChanged
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	// 1. Валидация входных данных
	target, err := validateRequest(req)
	if err != nil {
		uc.logger.Warn("SetAppointmentStatus: validation failed: %v", err)
		return nil, err
	}

	uc.logger.Info("SetAppointmentStatus: appointment=%d, status=%s", req.AppointmentID, target)

	// 2. Получаем текущую запись
	current, err := uc.appointmentRepo.GetByID(ctx, req.AppointmentID)
	if err != nil {
		if errors.Is(err, appointmentRepo.ErrAppointmentNotFound) {
			uc.logger.Warn("SetAppointmentStatus: appointment id=%d not found", req.AppointmentID)
			return nil, ErrAppointmentNotFound
		}
		uc.logger.Error("SetAppointmentStatus: failed to get appointment id=%d: %v", req.AppointmentID, err)
		return nil, storeError("get appointment", err)
	}

	// 3. Проверяем переход по таблице
	from := current.Status
	if !domain.CanTransition(from, target) {
		uc.logger.Warn("SetAppointmentStatus: transition %s -> %s is not allowed for appointment id=%d",
			from, target, current.ID)
		return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, from, target)
	}

	// 4. completed_at выставляется при входе в completed и очищается при выходе
	var completedAt *time.Time
	if target == domain.StatusCompleted {
		now := uc.timeProvider.Now()
		completedAt = &now
	}

	// 5. Compare-and-set по сохранённому значению статуса
	updated, err := uc.appointmentRepo.UpdateStatus(ctx, current.ID, current.StoredStatus(), target, completedAt)
	if err != nil {
		switch {
		case errors.Is(err, appointmentRepo.ErrStatusConflict):
			uc.logger.Warn("SetAppointmentStatus: status of appointment id=%d changed concurrently", current.ID)
			return nil, ErrStatusChanged
		case errors.Is(err, appointmentRepo.ErrAppointmentNotFound):
			uc.logger.Warn("SetAppointmentStatus: appointment id=%d deleted concurrently", current.ID)
			return nil, ErrAppointmentNotFound
		}
		uc.logger.Error("SetAppointmentStatus: failed to update appointment id=%d: %v", current.ID, err)
		return nil, storeError("update status", err)
	}

	uc.metrics.IncStatusTransition(string(from), string(target))
	uc.logger.Info("SetAppointmentStatus: appointment id=%d moved %s -> %s", updated.ID, from, target)

	uc.publish(ctx, updated, from)

	return &Response{
		ID:             updated.ID,
		ServiceID:      updated.ServiceID,
		ProfessionalID: updated.ProfessionalID,
		CustomerName:   updated.CustomerName,
		CustomerPhone:  updated.CustomerPhone,
		StartTime:      updated.StartTime,
		EndTime:        updated.EndTime,
		Status:         updated.Status,
		PreviousStatus: from,
		CompletedAt:    updated.CompletedAt,
		UpdatedAt:      updated.UpdatedAt,
	}, nil
}

func (uc *UseCase) publish(ctx context.Context, appt *domain.Appointment, from domain.AppointmentStatus) {
	event := eventbus.Event{
		ID:             uuid.NewString(),
		Type:           eventbus.EventAppointmentStatusChanged,
		AppointmentID:  appt.ID,
		ProfessionalID: appt.ProfessionalID,
		Status:         string(appt.Status),
		PreviousStatus: string(from),
		OccurredAt:     uc.timeProvider.Now(),
	}
	if err := uc.publisher.Publish(ctx, event); err != nil {
		uc.logger.Warn("SetAppointmentStatus: failed to publish event for appointment id=%d: %v", appt.ID, err)
	}
}

func storeError(op string, err error) error {
	if pgerr.IsTransient(err) {
		return fmt.Errorf("%w: %s: %v", ErrTransientStore, op, err)
	}
	return fmt.Errorf("%w: %s: %v", ErrInternal, op, err)
}
