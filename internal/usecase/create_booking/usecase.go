package create_booking

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-AgendaService/internal/domain"
	"github.com/m04kA/SMC-AgendaService/internal/infra/lock"
	appointmentRepo "github.com/m04kA/SMC-AgendaService/internal/infra/storage/appointment"
	catalogRepo "github.com/m04kA/SMC-AgendaService/internal/infra/storage/catalog"
	"github.com/m04kA/SMC-AgendaService/internal/integrations/eventbus"
	"github.com/m04kA/SMC-AgendaService/internal/service/availability"
	"github.com/m04kA/SMC-AgendaService/pkg/pgerr"
	"github.com/m04kA/SMC-AgendaService/pkg/txmanager"
)

// Причины конфликтов для метрик
const (
	conflictSlotTaken     = "slot_taken"
	conflictOverlap       = "exclusion_violation"
	conflictSerialization = "serialization_failure"
)

// UseCase use case для создания записи
type UseCase struct {
	catalogRepo     CatalogRepository
	appointmentRepo AppointmentRepository
	slotChecker     SlotChecker
	locker          ProfessionalLocker
	txManager       TransactionManager
	publisher       EventPublisher
	metrics         Metrics
	settings        Settings
	timeProvider    TimeProvider
	logger          Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	catalogRepo CatalogRepository,
	appointmentRepo AppointmentRepository,
	slotChecker SlotChecker,
	locker ProfessionalLocker,
	txManager TransactionManager,
	publisher EventPublisher,
	metrics Metrics,
	settings Settings,
	logger Logger,
) *UseCase {
	return &UseCase{
		catalogRepo:     catalogRepo,
		appointmentRepo: appointmentRepo,
		slotChecker:     slotChecker,
		locker:          locker,
		txManager:       txManager,
		publisher:       publisher,
		metrics:         metrics,
		settings:        settings,
		timeProvider:    &RealTimeProvider{},
		logger:          logger,
	}
}

// Execute выполняет use case создания записи
// Проверка слота и вставка выполняются в сериализуемой транзакции под блокировкой специалиста
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("CreateBooking: validation failed: %v", err)
		return nil, err
	}

	uc.logger.Info("CreateBooking: service=%d, professional=%d, start=%s",
		req.ServiceID, req.ProfessionalID, req.StartTime.Format(time.RFC3339))

	// 2. Запись на прошедшее время и минимальный запас до начала
	if uc.settings.RejectPast || uc.settings.MinBookingNoticeMinutes > 0 {
		if err := validateNotPast(req.StartTime, uc.timeProvider.Now(), uc.settings.MinBookingNoticeMinutes); err != nil {
			uc.logger.Warn("CreateBooking: start=%s rejected: %v", req.StartTime.Format(time.RFC3339), err)
			return nil, err
		}
	}

	// 3. Получаем услугу
	service, err := uc.catalogRepo.GetService(ctx, req.ServiceID)
	if err != nil {
		if errors.Is(err, catalogRepo.ErrServiceNotFound) {
			uc.logger.Warn("CreateBooking: service id=%d not found", req.ServiceID)
			return nil, ErrServiceNotFound
		}
		uc.logger.Error("CreateBooking: failed to get service id=%d: %v", req.ServiceID, err)
		return nil, storeError("get service", err)
	}

	// 4. Получаем специалиста
	professional, err := uc.catalogRepo.GetProfessional(ctx, req.ProfessionalID)
	if err != nil {
		if errors.Is(err, catalogRepo.ErrProfessionalNotFound) {
			uc.logger.Warn("CreateBooking: professional id=%d not found", req.ProfessionalID)
			return nil, ErrProfessionalNotFound
		}
		uc.logger.Error("CreateBooking: failed to get professional id=%d: %v", req.ProfessionalID, err)
		return nil, storeError("get professional", err)
	}

	// 5. Специалист должен оказывать услугу
	capability, err := uc.catalogRepo.GetActiveCapability(ctx, req.ProfessionalID, req.ServiceID)
	if err != nil {
		if errors.Is(err, catalogRepo.ErrCapabilityNotFound) {
			uc.logger.Warn("CreateBooking: professional id=%d does not provide service id=%d",
				req.ProfessionalID, req.ServiceID)
			return nil, ErrProfessionalNotCapable
		}
		uc.logger.Error("CreateBooking: failed to get capability: %v", err)
		return nil, storeError("get capability", err)
	}

	// 6. Эффективная длительность
	duration := domain.EffectiveDuration(service, capability)
	if duration <= 0 {
		uc.logger.Warn("CreateBooking: service id=%d has non-positive duration %d", service.ID, duration)
		return nil, ErrInvalidDuration
	}

	appt := &domain.Appointment{
		CustomerName:   strings.TrimSpace(req.CustomerName),
		CustomerPhone:  domain.NormalizePhone(req.CustomerPhone),
		ServiceID:      service.ID,
		ProfessionalID: professional.ID,
		StartTime:      req.StartTime,
		EndTime:        req.StartTime.Add(time.Duration(duration) * time.Minute),
		Status:         domain.StatusPending,
	}

	// 7. Проверка и вставка
	var result *domain.Appointment
	book := func(lockCtx context.Context) error {
		return uc.txManager.DoSerializable(lockCtx, func(txCtx context.Context) error {
			if err := uc.slotChecker.CheckCandidate(txCtx, appt.ProfessionalID, appt.StartTime, duration); err != nil {
				return err
			}
			created, err := uc.appointmentRepo.Create(txCtx, appt)
			if err != nil {
				return err
			}
			result = created
			return nil
		})
	}

	err = uc.locker.WithProfessionalLock(ctx, appt.ProfessionalID, book)
	switch {
	case errors.Is(err, lock.ErrLockTimeout):
		// Блокировку держит другой запрос; окончательную проверку выполнит БД
		uc.logger.Warn("CreateBooking: lock wait timed out for professional=%d, proceeding without lock", appt.ProfessionalID)
		err = book(ctx)
	case errors.Is(err, lock.ErrLockUnavailable):
		uc.logger.Warn("CreateBooking: lock unavailable for professional=%d, proceeding without lock: %v", appt.ProfessionalID, err)
		err = book(ctx)
	}
	if err != nil {
		return nil, uc.mapBookingError(appt, err)
	}

	uc.metrics.IncBookingCreated()
	uc.logger.Info("CreateBooking: successfully created appointment id=%d", result.ID)

	uc.publish(ctx, result)

	return &Response{
		ID:               result.ID,
		ServiceID:        result.ServiceID,
		ProfessionalID:   result.ProfessionalID,
		CustomerName:     result.CustomerName,
		CustomerPhone:    result.CustomerPhone,
		StartTime:        result.StartTime,
		EndTime:          result.EndTime,
		DurationMinutes:  result.DurationMinutes(),
		Status:           result.Status,
		ServiceName:      service.Name,
		ServicePrice:     service.Price,
		ProfessionalName: professional.Name,
		CreatedAt:        result.CreatedAt,
		UpdatedAt:        result.UpdatedAt,
	}, nil
}

// mapBookingError приводит ошибки проверки и вставки к ошибкам use case
func (uc *UseCase) mapBookingError(appt *domain.Appointment, err error) error {
	switch {
	case errors.Is(err, availability.ErrSlotTaken):
		uc.logger.Warn("CreateBooking: slot %s for professional=%d is already taken",
			appt.StartTime.Format(time.RFC3339), appt.ProfessionalID)
		uc.metrics.IncBookingConflict(conflictSlotTaken)
		return ErrSlotNoLongerAvailable

	case errors.Is(err, appointmentRepo.ErrOverlap):
		uc.logger.Warn("CreateBooking: overlap rejected by store for professional=%d", appt.ProfessionalID)
		uc.metrics.IncBookingConflict(conflictOverlap)
		return ErrSlotNoLongerAvailable

	case errors.Is(err, txmanager.ErrSerializationFailure):
		uc.logger.Warn("CreateBooking: serialization failure for professional=%d: %v", appt.ProfessionalID, err)
		uc.metrics.IncBookingConflict(conflictSerialization)
		return ErrSlotNoLongerAvailable

	case errors.Is(err, availability.ErrOutsideWorkingHours):
		uc.logger.Warn("CreateBooking: start=%s is outside working windows of professional=%d",
			appt.StartTime.Format(time.RFC3339), appt.ProfessionalID)
		return ErrInvalidTimeSlot

	case errors.Is(err, availability.ErrInvalidDuration):
		return ErrInvalidDuration
	}

	uc.logger.Error("CreateBooking: failed to create appointment: %v", err)
	return storeError("create appointment", err)
}

// publish публикует событие о созданной записи; ошибка публикации не влияет на результат
func (uc *UseCase) publish(ctx context.Context, appt *domain.Appointment) {
	event := eventbus.Event{
		ID:             uuid.NewString(),
		Type:           eventbus.EventAppointmentCreated,
		AppointmentID:  appt.ID,
		ProfessionalID: appt.ProfessionalID,
		Status:         string(appt.Status),
		OccurredAt:     uc.timeProvider.Now(),
		Attributes: map[string]string{
			"serviceId": strconv.FormatInt(appt.ServiceID, 10),
			"startTime": appt.StartTime.Format(time.RFC3339),
			"endTime":   appt.EndTime.Format(time.RFC3339),
		},
	}
	if err := uc.publisher.Publish(ctx, event); err != nil {
		uc.logger.Warn("CreateBooking: failed to publish event for appointment id=%d: %v", appt.ID, err)
	}
}

func storeError(op string, err error) error {
	if pgerr.IsTransient(err) {
		return fmt.Errorf("%w: %s: %v", ErrTransientStore, op, err)
	}
	return fmt.Errorf("%w: %s: %v", ErrInternal, op, err)
}
