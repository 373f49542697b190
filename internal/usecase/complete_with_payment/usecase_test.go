package complete_with_payment

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-AgendaService/internal/domain"
	appointmentRepo "github.com/m04kA/SMC-AgendaService/internal/infra/storage/appointment"
	customerRepo "github.com/m04kA/SMC-AgendaService/internal/infra/storage/customer"
	ledgerRepo "github.com/m04kA/SMC-AgendaService/internal/infra/storage/ledger"
	"github.com/m04kA/SMC-AgendaService/internal/integrations/eventbus"
	"github.com/m04kA/SMC-AgendaService/pkg/logger"
	"github.com/m04kA/SMC-AgendaService/pkg/ptr"
)

var saoPaulo = time.FixedZone("BRT", -3*60*60)

type fakeAppointments struct {
	items     map[int64]*domain.Appointment
	deleteErr error
}

func (f *fakeAppointments) GetByID(_ context.Context, id int64) (*domain.Appointment, error) {
	a, ok := f.items[id]
	if !ok {
		return nil, appointmentRepo.ErrAppointmentNotFound
	}
	return a, nil
}

func (f *fakeAppointments) Delete(_ context.Context, id int64) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	if _, ok := f.items[id]; !ok {
		return appointmentRepo.ErrAppointmentNotFound
	}
	delete(f.items, id)
	return nil
}

type fakeCatalog struct{}

func (fakeCatalog) GetService(_ context.Context, id int64) (*domain.Service, error) {
	return &domain.Service{ID: id, Code: "haircut", Name: "Corte", DefaultDurationMinutes: 30, Price: 100}, nil
}

func (fakeCatalog) GetProfessional(_ context.Context, id int64) (*domain.Professional, error) {
	return &domain.Professional{ID: id, Code: "ana", Name: "Ana"}, nil
}

type fakeCustomers struct{}

func (fakeCustomers) GetByPhone(_ context.Context, phone string) (*domain.Customer, error) {
	if phone != "5511987654321" {
		return nil, customerRepo.ErrCustomerNotFound
	}
	return &domain.Customer{ID: 42, Name: "Maria", Phone: phone}, nil
}

// fakeLedger хранит записи с уникальностью appointment_id
type fakeLedger struct {
	entries   []*domain.LedgerTransaction
	createErr error
}

func (f *fakeLedger) Create(_ context.Context, tx *domain.LedgerTransaction) (*domain.LedgerTransaction, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	for _, e := range f.entries {
		if e.AppointmentID != nil && tx.AppointmentID != nil && *e.AppointmentID == *tx.AppointmentID {
			return nil, ledgerRepo.ErrDuplicateAppointment
		}
	}
	cp := *tx
	f.entries = append(f.entries, &cp)
	return &cp, nil
}

func (f *fakeLedger) GetByAppointmentID(_ context.Context, appointmentID int64) (*domain.LedgerTransaction, error) {
	for _, e := range f.entries {
		if e.AppointmentID != nil && *e.AppointmentID == appointmentID {
			return e, nil
		}
	}
	return nil, ledgerRepo.ErrTransactionNotFound
}

type fakePublisher struct {
	events []eventbus.Event
}

func (p *fakePublisher) Publish(_ context.Context, event eventbus.Event) error {
	p.events = append(p.events, event)
	return nil
}

type fakeMetrics struct {
	outcomes []string
}

func (m *fakeMetrics) IncArchivalOutcome(outcome string) {
	m.outcomes = append(m.outcomes, outcome)
}

type fixedTime struct{ now time.Time }

func (f fixedTime) Now() time.Time { return f.now }

type fixture struct {
	uc           *UseCase
	appointments *fakeAppointments
	ledger       *fakeLedger
	publisher    *fakePublisher
	metrics      *fakeMetrics
}

func newFixture(phone string, status domain.AppointmentStatus) *fixture {
	// 2025-03-10 23:30 по Сан-Паулу = 2025-03-11 02:30 UTC
	start := time.Date(2025, 3, 11, 2, 30, 0, 0, time.UTC)
	appointments := &fakeAppointments{items: map[int64]*domain.Appointment{
		1: {
			ID:             1,
			CustomerName:   "Maria",
			CustomerPhone:  phone,
			ServiceID:      1,
			ProfessionalID: 7,
			StartTime:      start,
			EndTime:        start.Add(30 * time.Minute),
			Status:         status,
		},
	}}
	ledger := &fakeLedger{}
	publisher := &fakePublisher{}
	metrics := &fakeMetrics{}

	uc := NewUseCase(appointments, fakeCatalog{}, fakeCustomers{}, ledger, publisher, metrics,
		Settings{Location: saoPaulo}, logger.Nop())
	uc.timeProvider = fixedTime{now: time.Date(2025, 3, 12, 12, 0, 0, 0, time.UTC)}

	return &fixture{uc: uc, appointments: appointments, ledger: ledger, publisher: publisher, metrics: metrics}
}

func TestExecute_Success(t *testing.T) {
	f := newFixture("5511987654321", domain.StatusInProgress)

	resp, err := f.uc.Execute(context.Background(), &Request{AppointmentID: 1, PaymentMethod: "credit_card"})
	require.NoError(t, err)

	assert.True(t, resp.AppointmentDeleted)
	assert.False(t, resp.Reconciled)
	assert.Equal(t, 100.0, resp.ServiceAmount)
	assert.Equal(t, 3.0, resp.FeeAmount)
	assert.Equal(t, 103.0, resp.Amount)
	assert.Equal(t, domain.PaymentCreditCard, resp.PaymentMethod)

	require.Len(t, f.ledger.entries, 1)
	entry := f.ledger.entries[0]
	assert.Equal(t, resp.LedgerEntryID, entry.ID)
	assert.Equal(t, int64(42), entry.CustomerID)
	assert.Equal(t, "ana", entry.ProfessionalCode)
	assert.Equal(t, "haircut", entry.Category)
	assert.Equal(t, domain.LedgerIncome, entry.Type)
	assert.Equal(t, domain.LedgerPaid, entry.Status)
	assert.Equal(t, "2025-03-10", entry.DueDate.Format(domain.DateFormat))
	require.NotNil(t, entry.PaidDate)
	assert.Equal(t, "2025-03-12", entry.PaidDate.Format(domain.DateFormat))

	assert.Empty(t, f.appointments.items)
	assert.Equal(t, []string{outcomeSuccess}, f.metrics.outcomes)
	require.Len(t, f.publisher.events, 1)
	assert.Equal(t, eventbus.EventAppointmentArchived, f.publisher.events[0].Type)
	assert.Equal(t, entry.ID, f.publisher.events[0].LedgerEntryID)
}

func TestExecute_FeeTable(t *testing.T) {
	tests := []struct {
		method string
		amount float64
		fee    float64
		total  float64
	}{
		{"cash", 80, 0, 80},
		{"pix", 80, 0.8, 80.8},
		{"debit_card", 80, 1.6, 81.6},
		{"credit_card", 33.33, 1, 34.33},
		{"invoice", 80, 0, 80},
		{"bank_transfer", 80, 0, 80},
	}

	for _, tt := range tests {
		t.Run(tt.method, func(t *testing.T) {
			f := newFixture("5511987654321", domain.StatusConfirmed)

			resp, err := f.uc.Execute(context.Background(), &Request{
				AppointmentID: 1,
				Amount:        ptr.Ptr(tt.amount),
				PaymentMethod: tt.method,
			})
			require.NoError(t, err)
			assert.InDelta(t, tt.fee, resp.FeeAmount, 1e-9)
			assert.InDelta(t, tt.total, resp.Amount, 1e-9)
		})
	}
}

func TestExecute_LedgerWriteFailureKeepsAppointment(t *testing.T) {
	f := newFixture("5511987654321", domain.StatusInProgress)
	f.ledger.createErr = errors.New("ledger unavailable")

	_, err := f.uc.Execute(context.Background(), &Request{AppointmentID: 1, PaymentMethod: "cash"})
	assert.ErrorIs(t, err, ErrLedgerWriteFailed)
	assert.NotErrorIs(t, err, ErrPartialFailure)

	assert.Empty(t, f.ledger.entries)
	assert.Contains(t, f.appointments.items, int64(1))
	assert.Equal(t, []string{outcomeLedgerFailed}, f.metrics.outcomes)
	assert.Empty(t, f.publisher.events)
}

func TestExecute_PartialFailureThenReconcile(t *testing.T) {
	f := newFixture("5511987654321", domain.StatusInProgress)
	f.appointments.deleteErr = errors.New("connection reset")

	_, err := f.uc.Execute(context.Background(), &Request{AppointmentID: 1, PaymentMethod: "pix"})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrPartialFailure)

	var partial *PartialFailureError
	require.ErrorAs(t, err, &partial)
	require.Len(t, f.ledger.entries, 1)
	assert.Equal(t, f.ledger.entries[0].ID, partial.LedgerEntryID)
	assert.Equal(t, int64(1), partial.AppointmentID)
	assert.Contains(t, f.appointments.items, int64(1))

	// Повтор: вторая финансовая запись не создаётся, запись клиента удаляется
	f.appointments.deleteErr = nil
	resp, err := f.uc.Execute(context.Background(), &Request{AppointmentID: 1, PaymentMethod: "pix"})
	require.NoError(t, err)

	assert.True(t, resp.Reconciled)
	assert.Equal(t, partial.LedgerEntryID, resp.LedgerEntryID)
	assert.Len(t, f.ledger.entries, 1)
	assert.Empty(t, f.appointments.items)
	assert.Equal(t, []string{outcomePartialFailure, outcomeReconciled}, f.metrics.outcomes)
}

func TestExecute_Rejections(t *testing.T) {
	tests := []struct {
		name    string
		phone   string
		status  domain.AppointmentStatus
		req     *Request
		wantErr error
	}{
		{name: "nil request", req: nil, wantErr: ErrInvalidInput},
		{name: "bad method", req: &Request{AppointmentID: 1, PaymentMethod: "bitcoin"}, wantErr: ErrInvalidPaymentMethod},
		{name: "zero amount", req: &Request{AppointmentID: 1, Amount: ptr.Ptr(0.0), PaymentMethod: "cash"}, wantErr: ErrInvalidAmount},
		{name: "negative amount", req: &Request{AppointmentID: 1, Amount: ptr.Ptr(-5.0), PaymentMethod: "cash"}, wantErr: ErrInvalidAmount},
		{name: "not found", req: &Request{AppointmentID: 2, PaymentMethod: "cash"}, wantErr: ErrAppointmentNotFound},
		{name: "canceled", status: domain.StatusCanceled, req: &Request{AppointmentID: 1, PaymentMethod: "cash"}, wantErr: ErrInvalidTransition},
		{name: "unknown customer", phone: "5500000000000", req: &Request{AppointmentID: 1, PaymentMethod: "cash"}, wantErr: ErrCustomerNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			phone := tt.phone
			if phone == "" {
				phone = "5511987654321"
			}
			status := tt.status
			if status == "" {
				status = domain.StatusInProgress
			}
			f := newFixture(phone, status)

			_, err := f.uc.Execute(context.Background(), tt.req)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Empty(t, f.ledger.entries)
			assert.Len(t, f.appointments.items, 1)
		})
	}
}
