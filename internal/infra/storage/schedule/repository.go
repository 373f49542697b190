package schedule

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-AgendaService/internal/domain"
	"github.com/m04kA/SMC-AgendaService/pkg/dbmetrics"
	"github.com/m04kA/SMC-AgendaService/pkg/psqlbuilder"
	"github.com/m04kA/SMC-AgendaService/pkg/types"
)

// Repository часы работы организации и смены специалистов
type Repository struct {
	db DBExecutor
}

func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetBusinessHours часы работы организации в день недели
func (r *Repository) GetBusinessHours(ctx context.Context, day time.Weekday) (*domain.BusinessHours, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("day_of_week", "open_time", "close_time", "is_open").
		From("business_hours").
		Where(squirrel.Eq{"day_of_week": int(day)}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetBusinessHours - build select query: %v", ErrBuildQuery, err)
	}

	var (
		bh        domain.BusinessHours
		dayOfWeek int
		openTime  *types.TimeString
		closeTime *types.TimeString
	)
	err = executor.QueryRowContext(ctx, query, args...).Scan(&dayOfWeek, &openTime, &closeTime, &bh.IsOpen)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrBusinessHoursNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetBusinessHours - scan business hours: %w", ErrScanRow, err)
	}

	bh.DayOfWeek = time.Weekday(dayOfWeek)
	bh.OpenTime = openTime
	bh.CloseTime = closeTime

	return &bh, nil
}

// ListActiveByDay активные смены в день недели
// Пустой professionalIDs означает всех специалистов
func (r *Repository) ListActiveByDay(ctx context.Context, day time.Weekday, professionalIDs []int64) ([]*domain.WeeklySchedule, error) {
	return r.list(ctx, squirrel.Eq{"day_of_week": int(day)}, professionalIDs)
}

// ListScheduledProfessionals возвращает тех из professionalIDs, у кого есть хотя бы одна
// активная смена в любой день недели
func (r *Repository) ListScheduledProfessionals(ctx context.Context, professionalIDs []int64) (map[int64]bool, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	builder := psqlbuilder.Select("DISTINCT professional_id").
		From("professional_schedules").
		Where(squirrel.Eq{"is_active": true})
	if len(professionalIDs) > 0 {
		builder = builder.Where(squirrel.Eq{"professional_id": professionalIDs})
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListScheduledProfessionals - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListScheduledProfessionals - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	result := make(map[int64]bool)
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("%w: ListScheduledProfessionals - scan id: %w", ErrScanRow, err)
		}
		result[id] = true
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListScheduledProfessionals - iterate rows: %w", ErrScanRow, err)
	}

	return result, nil
}

func (r *Repository) list(ctx context.Context, where squirrel.Eq, professionalIDs []int64) ([]*domain.WeeklySchedule, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	builder := psqlbuilder.Select("id", "professional_id", "day_of_week", "start_time", "end_time", "is_active").
		From("professional_schedules").
		Where(where).
		Where(squirrel.Eq{"is_active": true}).
		OrderBy("professional_id ASC", "start_time ASC")
	if len(professionalIDs) > 0 {
		builder = builder.Where(squirrel.Eq{"professional_id": professionalIDs})
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: list - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: list - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	result := make([]*domain.WeeklySchedule, 0)
	for rows.Next() {
		var (
			s         domain.WeeklySchedule
			dayOfWeek int
		)
		if err := rows.Scan(&s.ID, &s.ProfessionalID, &dayOfWeek, &s.StartTime, &s.EndTime, &s.IsActive); err != nil {
			return nil, fmt.Errorf("%w: list - scan schedule: %w", ErrScanRow, err)
		}
		s.DayOfWeek = time.Weekday(dayOfWeek)
		result = append(result, &s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: list - iterate rows: %w", ErrScanRow, err)
	}

	return result, nil
}

// UpsertBusinessHours задаёт часы работы на день недели
func (r *Repository) UpsertBusinessHours(ctx context.Context, bh *domain.BusinessHours) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("business_hours").
		Columns("day_of_week", "open_time", "close_time", "is_open").
		Values(int(bh.DayOfWeek), bh.OpenTime, bh.CloseTime, bh.IsOpen).
		Suffix("ON CONFLICT (day_of_week) DO UPDATE SET open_time = EXCLUDED.open_time, close_time = EXCLUDED.close_time, is_open = EXCLUDED.is_open").
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: UpsertBusinessHours - build insert query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: UpsertBusinessHours - execute insert: %w", ErrExecQuery, err)
	}
	return nil
}

// CreateWeeklySchedule добавляет смену специалиста
func (r *Repository) CreateWeeklySchedule(ctx context.Context, s *domain.WeeklySchedule) (*domain.WeeklySchedule, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("professional_schedules").
		Columns("professional_id", "day_of_week", "start_time", "end_time", "is_active").
		Values(s.ProfessionalID, int(s.DayOfWeek), s.StartTime, s.EndTime, s.IsActive).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: CreateWeeklySchedule - build insert query: %v", ErrBuildQuery, err)
	}

	if err := executor.QueryRowContext(ctx, query, args...).Scan(&s.ID); err != nil {
		return nil, fmt.Errorf("%w: CreateWeeklySchedule - execute insert: %w", ErrExecQuery, err)
	}
	return s, nil
}
