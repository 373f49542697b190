package appointments

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-AgendaService/internal/domain"
	appointmentRepo "github.com/m04kA/SMC-AgendaService/internal/infra/storage/appointment"
	"github.com/m04kA/SMC-AgendaService/internal/integrations/eventbus"
	"github.com/m04kA/SMC-AgendaService/internal/service/appointments/models"
	"github.com/m04kA/SMC-AgendaService/pkg/pgerr"
)

// Service сервис чтения и удаления записей
type Service struct {
	appointmentRepo AppointmentRepository
	publisher       EventPublisher
	location        *time.Location
	logger          Logger
}

// NewService создает новый экземпляр сервиса записей
func NewService(
	appointmentRepo AppointmentRepository,
	publisher EventPublisher,
	location *time.Location,
	logger Logger,
) *Service {
	if location == nil {
		location = time.UTC
	}
	return &Service{
		appointmentRepo: appointmentRepo,
		publisher:       publisher,
		location:        location,
		logger:          logger,
	}
}

// GetByID получает запись по ID
func (s *Service) GetByID(ctx context.Context, id int64) (*models.AppointmentResponse, error) {
	s.logger.Info("GetByID: fetching appointment id=%d", id)

	if id <= 0 {
		return nil, fmt.Errorf("%w: id must be positive", ErrInvalidInput)
	}

	appt, err := s.appointmentRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, appointmentRepo.ErrAppointmentNotFound) {
			s.logger.Warn("GetByID: appointment id=%d not found", id)
			return nil, ErrAppointmentNotFound
		}
		s.logger.Error("GetByID: repository error for appointment id=%d: %v", id, err)
		return nil, storeError("GetByID", err)
	}

	s.logger.Info("GetByID: successfully fetched appointment id=%d", id)
	return models.FromDomainAppointment(appt, s.location), nil
}

// List получает записи за день, упорядоченные по времени начала
// Источник данных календаря и канбан-доски
func (s *Service) List(ctx context.Context, req *models.ListAppointmentsRequest) (*models.AppointmentListResponse, error) {
	if req == nil || req.Date.IsZero() {
		return nil, fmt.Errorf("%w: date is required", ErrInvalidInput)
	}

	y, m, d := req.Date.Date()
	dayStart := time.Date(y, m, d, 0, 0, 0, 0, s.location)

	logMsg := fmt.Sprintf("List: fetching appointments for date=%s", dayStart.Format(domain.DateFormat))
	if req.ProfessionalID != nil {
		logMsg += fmt.Sprintf(", professional=%d", *req.ProfessionalID)
	}
	if req.IncludeCanceled {
		logMsg += ", includeCanceled=true"
	}
	s.logger.Info(logMsg)

	filter := domain.AppointmentsFilter{
		From:            dayStart,
		To:              dayStart.AddDate(0, 0, 1),
		IncludeCanceled: req.IncludeCanceled,
	}
	if req.ProfessionalID != nil {
		filter.ProfessionalIDs = []int64{*req.ProfessionalID}
	}

	items, err := s.appointmentRepo.List(ctx, filter)
	if err != nil {
		s.logger.Error("List: repository error for date=%s: %v", dayStart.Format(domain.DateFormat), err)
		return nil, storeError("List", err)
	}

	s.logger.Info("List: successfully fetched %d appointments", len(items))
	return models.FromDomainAppointmentList(dayStart, items, s.location), nil
}

// Delete удаляет запись
// Удаление не зависит от статуса: отмена и удаление - независимые операции
func (s *Service) Delete(ctx context.Context, id int64) error {
	s.logger.Info("Delete: deleting appointment id=%d", id)

	if id <= 0 {
		return fmt.Errorf("%w: id must be positive", ErrInvalidInput)
	}

	appt, err := s.appointmentRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, appointmentRepo.ErrAppointmentNotFound) {
			s.logger.Warn("Delete: appointment id=%d not found", id)
			return ErrAppointmentNotFound
		}
		s.logger.Error("Delete: repository error for appointment id=%d: %v", id, err)
		return storeError("Delete", err)
	}

	if err := s.appointmentRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, appointmentRepo.ErrAppointmentNotFound) {
			s.logger.Warn("Delete: appointment id=%d already deleted", id)
			return ErrAppointmentNotFound
		}
		s.logger.Error("Delete: repository error for appointment id=%d: %v", id, err)
		return storeError("Delete", err)
	}

	event := eventbus.Event{
		ID:             uuid.NewString(),
		Type:           eventbus.EventAppointmentDeleted,
		AppointmentID:  appt.ID,
		ProfessionalID: appt.ProfessionalID,
		Status:         string(appt.Status),
		OccurredAt:     time.Now(),
	}
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.Warn("Delete: failed to publish event for appointment id=%d: %v", id, err)
	}

	s.logger.Info("Delete: successfully deleted appointment id=%d", id)
	return nil
}

func storeError(op string, err error) error {
	if pgerr.IsTransient(err) {
		return fmt.Errorf("%w: %s - repository error: %v", ErrTransientStore, op, err)
	}
	return fmt.Errorf("%w: %s - repository error: %v", ErrInternal, op, err)
}
