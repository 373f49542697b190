package appointment

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-AgendaService/internal/domain"
	"github.com/m04kA/SMC-AgendaService/pkg/dbmetrics"
	"github.com/m04kA/SMC-AgendaService/pkg/pgerr"
	"github.com/m04kA/SMC-AgendaService/pkg/psqlbuilder"
)

const tableName = "appointments"

var columns = []string{
	"id",
	"customer_name",
	"customer_phone",
	"service_id",
	"professional_id",
	"start_time",
	"end_time",
	"status",
	"completed_at",
	"created_at",
	"updated_at",
}

// Repository репозиторий записей клиентов
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория записей
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create сохраняет новую запись
// Пересечение с другой неотменённой записью специалиста отклоняется ограничением
// исключения в БД и возвращается как ErrOverlap
func (r *Repository) Create(ctx context.Context, appt *domain.Appointment) (*domain.Appointment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert(tableName).
		Columns(
			"customer_name",
			"customer_phone",
			"service_id",
			"professional_id",
			"start_time",
			"end_time",
			"status",
			"completed_at",
		).
		Values(
			appt.CustomerName,
			appt.CustomerPhone,
			appt.ServiceID,
			appt.ProfessionalID,
			appt.StartTime,
			appt.EndTime,
			string(appt.Status),
			appt.CompletedAt,
		).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	err = executor.QueryRowContext(ctx, query, args...).Scan(&appt.ID, &appt.CreatedAt, &appt.UpdatedAt)
	if err != nil {
		if pgerr.IsExclusionViolation(err) {
			return nil, ErrOverlap
		}
		return nil, fmt.Errorf("%w: Create - execute insert: %w", ErrExecQuery, err)
	}

	return appt, nil
}

// GetByID получает запись по ID
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Appointment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(columns...).
		From(tableName).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	appt, err := scanAppointment(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrAppointmentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan appointment: %w", ErrScanRow, err)
	}

	return appt, nil
}

// List возвращает записи, пересекающиеся с интервалом [filter.From, filter.To)
// Внутри транзакции строки блокируются (FOR UPDATE), чтобы проверка доступности
// и вставка выполнялись атомарно
func (r *Repository) List(ctx context.Context, filter domain.AppointmentsFilter) ([]*domain.Appointment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	builder := psqlbuilder.Select(columns...).
		From(tableName).
		Where(squirrel.Lt{"start_time": filter.To}).
		Where(squirrel.Gt{"end_time": filter.From}).
		OrderBy("start_time ASC", "id ASC")

	if len(filter.ProfessionalIDs) > 0 {
		builder = builder.Where(squirrel.Eq{"professional_id": filter.ProfessionalIDs})
	}
	if !filter.IncludeCanceled {
		builder = builder.Where(squirrel.NotEq{"status": string(domain.StatusCanceled)})
	}
	if dbmetrics.IsInTransaction(ctx) {
		builder = builder.Suffix("FOR UPDATE")
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: List - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: List - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	result := make([]*domain.Appointment, 0)
	for rows.Next() {
		appt, err := scanAppointment(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: List - scan appointment: %w", ErrScanRow, err)
		}
		result = append(result, appt)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: List - iterate rows: %w", ErrScanRow, err)
	}

	return result, nil
}

// UpdateStatus меняет статус только если текущий статус равен from (compare-and-set)
// from сравнивается с сохранённым значением, см. Appointment.StoredStatus
// completedAt записывается вместе со статусом: при переходе в completed - время завершения,
// при возврате из completed - NULL
func (r *Repository) UpdateStatus(
	ctx context.Context,
	id int64,
	from, to domain.AppointmentStatus,
	completedAt *time.Time,
) (*domain.Appointment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update(tableName).
		Set("status", string(to)).
		Set("completed_at", completedAt).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id, "status": string(from)}).
		Suffix("RETURNING " + strings.Join(columns, ", ")).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: UpdateStatus - build update query: %v", ErrBuildQuery, err)
	}

	appt, err := scanAppointment(executor.QueryRowContext(ctx, query, args...))
	if err == nil {
		return appt, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: UpdateStatus - execute update: %w", ErrExecQuery, err)
	}

	// Ни одна строка не обновилась: записи нет или статус уже другой
	exists, err := r.exists(ctx, executor, id)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, ErrAppointmentNotFound
	}
	return nil, ErrStatusConflict
}

// Delete удаляет запись
func (r *Repository) Delete(ctx context.Context, id int64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete(tableName).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: Delete - build delete query: %v", ErrBuildQuery, err)
	}

	res, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: Delete - execute delete: %w", ErrExecQuery, err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: Delete - rows affected: %w", ErrExecQuery, err)
	}
	if affected == 0 {
		return ErrAppointmentNotFound
	}

	return nil
}

func (r *Repository) exists(ctx context.Context, executor DBExecutor, id int64) (bool, error) {
	query, args, err := psqlbuilder.Select("1").
		From(tableName).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("%w: exists - build select query: %v", ErrBuildQuery, err)
	}

	var one int
	err = executor.QueryRowContext(ctx, query, args...).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("%w: exists - scan: %w", ErrScanRow, err)
	}
	return true, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanAppointment(row rowScanner) (*domain.Appointment, error) {
	var (
		appt        domain.Appointment
		status      string
		completedAt sql.NullTime
	)

	err := row.Scan(
		&appt.ID,
		&appt.CustomerName,
		&appt.CustomerPhone,
		&appt.ServiceID,
		&appt.ProfessionalID,
		&appt.StartTime,
		&appt.EndTime,
		&status,
		&completedAt,
		&appt.CreatedAt,
		&appt.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if completedAt.Valid {
		appt.CompletedAt = &completedAt.Time
	}
	appt.Status = domain.NormalizeStoredStatus(status, appt.CompletedAt)
	if string(appt.Status) != status {
		appt.RawStatus = status
	}

	return &appt, nil
}
