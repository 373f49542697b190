package complete_with_payment

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-AgendaService/internal/domain"
	appointmentRepo "github.com/m04kA/SMC-AgendaService/internal/infra/storage/appointment"
	customerRepo "github.com/m04kA/SMC-AgendaService/internal/infra/storage/customer"
	ledgerRepo "github.com/m04kA/SMC-AgendaService/internal/infra/storage/ledger"
	"github.com/m04kA/SMC-AgendaService/internal/integrations/eventbus"
	"github.com/m04kA/SMC-AgendaService/pkg/pgerr"
)

// Исходы архивации для метрик
const (
	outcomeSuccess        = "success"
	outcomeLedgerFailed   = "ledger_failed"
	outcomePartialFailure = "partial_failure"
	outcomeReconciled     = "reconciled"
)

// UseCase use case завершения записи с оплатой
// Финансовая запись и удаление записи клиента выполняются последовательно без общей транзакции
type UseCase struct {
	appointmentRepo AppointmentRepository
	catalogRepo     CatalogRepository
	customerRepo    CustomerRepository
	ledgerRepo      LedgerRepository
	publisher       EventPublisher
	metrics         Metrics
	settings        Settings
	timeProvider    TimeProvider
	logger          Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	appointmentRepo AppointmentRepository,
	catalogRepo CatalogRepository,
	customerRepo CustomerRepository,
	ledgerRepo LedgerRepository,
	publisher EventPublisher,
	metrics Metrics,
	settings Settings,
	logger Logger,
) *UseCase {
	if settings.Location == nil {
		settings.Location = time.UTC
	}
	return &UseCase{
		appointmentRepo: appointmentRepo,
		catalogRepo:     catalogRepo,
		customerRepo:    customerRepo,
		ledgerRepo:      ledgerRepo,
		publisher:       publisher,
		metrics:         metrics,
		settings:        settings,
		timeProvider:    &RealTimeProvider{},
		logger:          logger,
	}
}

// Execute выполняет архивацию:
//  1. клиент по телефону записи;
//  2. сумма с комиссией способа оплаты;
//  3. финансовая запись со статусом paid;
//  4. удаление записи клиента, только если шаг 3 успешен;
//  5. сбой шага 4 возвращается как *PartialFailureError.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	method, err := validateRequest(req)
	if err != nil {
		uc.logger.Warn("CompleteWithPayment: validation failed: %v", err)
		return nil, err
	}

	uc.logger.Info("CompleteWithPayment: appointment=%d, method=%s", req.AppointmentID, method)

	appt, err := uc.appointmentRepo.GetByID(ctx, req.AppointmentID)
	if err != nil {
		if errors.Is(err, appointmentRepo.ErrAppointmentNotFound) {
			uc.logger.Warn("CompleteWithPayment: appointment id=%d not found", req.AppointmentID)
			return nil, ErrAppointmentNotFound
		}
		uc.logger.Error("CompleteWithPayment: failed to get appointment id=%d: %v", req.AppointmentID, err)
		return nil, storeError("get appointment", err)
	}

	if appt.Status == domain.StatusCanceled {
		uc.logger.Warn("CompleteWithPayment: appointment id=%d is canceled", appt.ID)
		return nil, ErrInvalidTransition
	}

	// 1. Клиент
	customer, err := uc.customerRepo.GetByPhone(ctx, appt.CustomerPhone)
	if err != nil {
		if errors.Is(err, customerRepo.ErrCustomerNotFound) {
			uc.logger.Warn("CompleteWithPayment: customer with phone %s not found", appt.CustomerPhone)
			return nil, ErrCustomerNotFound
		}
		uc.logger.Error("CompleteWithPayment: failed to get customer: %v", err)
		return nil, storeError("get customer", err)
	}

	service, err := uc.catalogRepo.GetService(ctx, appt.ServiceID)
	if err != nil {
		uc.logger.Error("CompleteWithPayment: failed to get service id=%d: %v", appt.ServiceID, err)
		return nil, storeError("get service", err)
	}

	professional, err := uc.catalogRepo.GetProfessional(ctx, appt.ProfessionalID)
	if err != nil {
		uc.logger.Error("CompleteWithPayment: failed to get professional id=%d: %v", appt.ProfessionalID, err)
		return nil, storeError("get professional", err)
	}

	// 2. Сумма с комиссией
	serviceAmount := service.Price
	if req.Amount != nil {
		serviceAmount = *req.Amount
	}
	if serviceAmount <= 0 {
		uc.logger.Warn("CompleteWithPayment: service id=%d has no price and no amount given", service.ID)
		return nil, ErrInvalidAmount
	}
	fee, total := method.ApplyFee(serviceAmount)

	now := uc.timeProvider.Now().In(uc.settings.Location)
	paidDate := dateOf(now)
	appointmentID := appt.ID

	entry := &domain.LedgerTransaction{
		ID:               uuid.NewString(),
		AppointmentID:    &appointmentID,
		CustomerID:       customer.ID,
		ProfessionalCode: professional.Code,
		Type:             domain.LedgerIncome,
		Category:         service.Code,
		ServiceAmount:    serviceAmount,
		FeeAmount:        fee,
		Amount:           total,
		PaymentMethod:    method,
		Status:           domain.LedgerPaid,
		DueDate:          dateOf(appt.StartTime.In(uc.settings.Location)),
		PaidDate:         &paidDate,
	}

	// 3. Финансовая запись
	reconciled := false
	created, err := uc.ledgerRepo.Create(ctx, entry)
	switch {
	case err == nil:
		entry = created
	case errors.Is(err, ledgerRepo.ErrDuplicateAppointment):
		// Запись уже оплачена ранее: повторно не начисляем, только завершаем удаление
		existing, getErr := uc.ledgerRepo.GetByAppointmentID(ctx, appt.ID)
		if getErr != nil {
			uc.logger.Error("CompleteWithPayment: failed to load existing ledger entry for appointment id=%d: %v", appt.ID, getErr)
			uc.metrics.IncArchivalOutcome(outcomeLedgerFailed)
			return nil, fmt.Errorf("%w: load existing entry: %v", ErrLedgerWriteFailed, getErr)
		}
		uc.logger.Warn("CompleteWithPayment: ledger entry %s already exists for appointment id=%d, reconciling",
			existing.ID, appt.ID)
		entry = existing
		reconciled = true
	default:
		uc.logger.Error("CompleteWithPayment: failed to write ledger entry for appointment id=%d: %v", appt.ID, err)
		uc.metrics.IncArchivalOutcome(outcomeLedgerFailed)
		return nil, fmt.Errorf("%w: %v", ErrLedgerWriteFailed, err)
	}

	// 4. Удаление записи клиента
	if err := uc.appointmentRepo.Delete(ctx, appt.ID); err != nil && !errors.Is(err, appointmentRepo.ErrAppointmentNotFound) {
		uc.logger.Error("CompleteWithPayment: ledger entry %s written but appointment id=%d not removed: %v",
			entry.ID, appt.ID, err)
		uc.metrics.IncArchivalOutcome(outcomePartialFailure)
		// 5. Частичный сбой
		return nil, &PartialFailureError{
			LedgerEntryID: entry.ID,
			AppointmentID: appt.ID,
			Cause:         err,
		}
	}

	if reconciled {
		uc.metrics.IncArchivalOutcome(outcomeReconciled)
	} else {
		uc.metrics.IncArchivalOutcome(outcomeSuccess)
	}

	uc.logger.Info("CompleteWithPayment: appointment id=%d archived as ledger entry %s, amount=%.2f",
		appt.ID, entry.ID, entry.Amount)

	uc.publish(ctx, appt, entry)

	resp := &Response{
		LedgerEntryID:      entry.ID,
		AppointmentID:      appt.ID,
		AppointmentDeleted: true,
		Reconciled:         reconciled,
		ServiceAmount:      entry.ServiceAmount,
		FeeAmount:          entry.FeeAmount,
		Amount:             entry.Amount,
		PaymentMethod:      entry.PaymentMethod,
		DueDate:            entry.DueDate,
		PaidDate:           paidDate,
	}
	if entry.PaidDate != nil {
		resp.PaidDate = *entry.PaidDate
	}

	return resp, nil
}

func (uc *UseCase) publish(ctx context.Context, appt *domain.Appointment, entry *domain.LedgerTransaction) {
	event := eventbus.Event{
		ID:             uuid.NewString(),
		Type:           eventbus.EventAppointmentArchived,
		AppointmentID:  appt.ID,
		ProfessionalID: appt.ProfessionalID,
		Status:         string(appt.Status),
		LedgerEntryID:  entry.ID,
		OccurredAt:     uc.timeProvider.Now(),
		Attributes: map[string]string{
			"paymentMethod": string(entry.PaymentMethod),
			"amount":        strconv.FormatFloat(entry.Amount, 'f', 2, 64),
		},
	}
	if err := uc.publisher.Publish(ctx, event); err != nil {
		uc.logger.Warn("CompleteWithPayment: failed to publish event for appointment id=%d: %v", appt.ID, err)
	}
}

// dateOf полночь даты в её же часовом поясе
func dateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

func storeError(op string, err error) error {
	if pgerr.IsTransient(err) {
		return fmt.Errorf("%w: %s: %v", ErrTransientStore, op, err)
	}
	return fmt.Errorf("%w: %s: %v", ErrInternal, op, err)
}
