package ledger

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-AgendaService/internal/domain"
	"github.com/m04kA/SMC-AgendaService/pkg/dbmetrics"
	"github.com/m04kA/SMC-AgendaService/pkg/pgerr"
	"github.com/m04kA/SMC-AgendaService/pkg/psqlbuilder"
)

const tableName = "ledger_transactions"

var columns = []string{
	"id",
	"appointment_id",
	"customer_id",
	"professional_code",
	"type",
	"category",
	"service_amount",
	"fee_amount",
	"amount",
	"payment_method",
	"status",
	"due_date",
	"paid_date",
	"created_at",
}

// Repository финансовый журнал
type Repository struct {
	db DBExecutor
}

func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create сохраняет финансовую запись
// Повторная запись по той же записи клиента возвращает ErrDuplicateAppointment
func (r *Repository) Create(ctx context.Context, tx *domain.LedgerTransaction) (*domain.LedgerTransaction, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert(tableName).
		Columns(columns[:len(columns)-1]...).
		Values(
			tx.ID,
			tx.AppointmentID,
			tx.CustomerID,
			tx.ProfessionalCode,
			string(tx.Type),
			tx.Category,
			tx.ServiceAmount,
			tx.FeeAmount,
			tx.Amount,
			string(tx.PaymentMethod),
			string(tx.Status),
			tx.DueDate,
			tx.PaidDate,
		).
		Suffix("RETURNING created_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	if err := executor.QueryRowContext(ctx, query, args...).Scan(&tx.CreatedAt); err != nil {
		if pgerr.IsUniqueViolation(err) {
			return nil, ErrDuplicateAppointment
		}
		return nil, fmt.Errorf("%w: Create - execute insert: %w", ErrExecQuery, err)
	}

	return tx, nil
}

// GetByAppointmentID находит финансовую запись, созданную при завершении записи клиента
func (r *Repository) GetByAppointmentID(ctx context.Context, appointmentID int64) (*domain.LedgerTransaction, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(columns...).
		From(tableName).
		Where(squirrel.Eq{"appointment_id": appointmentID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByAppointmentID - build select query: %v", ErrBuildQuery, err)
	}

	var (
		tx            domain.LedgerTransaction
		apptID        sql.NullInt64
		entryType     string
		paymentMethod string
		status        string
		paidDate      sql.NullTime
	)
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&tx.ID,
		&apptID,
		&tx.CustomerID,
		&tx.ProfessionalCode,
		&entryType,
		&tx.Category,
		&tx.ServiceAmount,
		&tx.FeeAmount,
		&tx.Amount,
		&paymentMethod,
		&status,
		&tx.DueDate,
		&paidDate,
		&tx.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrTransactionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByAppointmentID - scan transaction: %w", ErrScanRow, err)
	}

	if apptID.Valid {
		tx.AppointmentID = &apptID.Int64
	}
	if paidDate.Valid {
		tx.PaidDate = &paidDate.Time
	}
	tx.Type = domain.LedgerEntryType(entryType)
	tx.PaymentMethod = domain.PaymentMethod(paymentMethod)
	tx.Status = domain.LedgerEntryStatus(status)

	return &tx, nil
}
