package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-AgendaService/internal/domain"
	"github.com/m04kA/SMC-AgendaService/pkg/dbmetrics"
	"github.com/m04kA/SMC-AgendaService/pkg/psqlbuilder"
)

// Repository каталог услуг, специалистов и их связей
type Repository struct {
	db DBExecutor
}

func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetService получает услугу по ID
func (r *Repository) GetService(ctx context.Context, id int64) (*domain.Service, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("id", "code", "name", "default_duration_minutes", "price").
		From("services").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetService - build select query: %v", ErrBuildQuery, err)
	}

	var s domain.Service
	err = executor.QueryRowContext(ctx, query, args...).Scan(&s.ID, &s.Code, &s.Name, &s.DefaultDurationMinutes, &s.Price)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrServiceNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetService - scan service: %w", ErrScanRow, err)
	}

	return &s, nil
}

// GetProfessional получает специалиста по ID
func (r *Repository) GetProfessional(ctx context.Context, id int64) (*domain.Professional, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("id", "code", "name", "specialty").
		From("professionals").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetProfessional - build select query: %v", ErrBuildQuery, err)
	}

	var (
		p         domain.Professional
		specialty sql.NullString
	)
	err = executor.QueryRowContext(ctx, query, args...).Scan(&p.ID, &p.Code, &p.Name, &specialty)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrProfessionalNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetProfessional - scan professional: %w", ErrScanRow, err)
	}
	if specialty.Valid {
		p.Specialty = &specialty.String
	}

	return &p, nil
}

// ListProfessionalIDs возвращает ID всех специалистов
func (r *Repository) ListProfessionalIDs(ctx context.Context) ([]int64, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("id").
		From("professionals").
		OrderBy("id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListProfessionalIDs - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListProfessionalIDs - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	ids := make([]int64, 0)
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("%w: ListProfessionalIDs - scan id: %w", ErrScanRow, err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListProfessionalIDs - iterate rows: %w", ErrScanRow, err)
	}

	return ids, nil
}

// GetActiveCapability получает активную связь специалиста с услугой
func (r *Repository) GetActiveCapability(ctx context.Context, professionalID, serviceID int64) (*domain.Capability, error) {
	caps, err := r.listCapabilities(ctx, squirrel.Eq{
		"professional_id": professionalID,
		"service_id":      serviceID,
		"is_active":       true,
	})
	if err != nil {
		return nil, err
	}
	if len(caps) == 0 {
		return nil, ErrCapabilityNotFound
	}
	return caps[0], nil
}

// ListActiveCapabilitiesByService возвращает активные связи для услуги,
// то есть всех специалистов, которые её оказывают
func (r *Repository) ListActiveCapabilitiesByService(ctx context.Context, serviceID int64) ([]*domain.Capability, error) {
	return r.listCapabilities(ctx, squirrel.Eq{
		"service_id": serviceID,
		"is_active":  true,
	})
}

func (r *Repository) listCapabilities(ctx context.Context, where squirrel.Eq) ([]*domain.Capability, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("id", "professional_id", "service_id", "is_active", "custom_duration_minutes").
		From("professional_services").
		Where(where).
		OrderBy("professional_id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: listCapabilities - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: listCapabilities - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	result := make([]*domain.Capability, 0)
	for rows.Next() {
		var (
			c      domain.Capability
			custom sql.NullInt64
		)
		if err := rows.Scan(&c.ID, &c.ProfessionalID, &c.ServiceID, &c.IsActive, &custom); err != nil {
			return nil, fmt.Errorf("%w: listCapabilities - scan capability: %w", ErrScanRow, err)
		}
		if custom.Valid {
			minutes := int(custom.Int64)
			c.CustomDurationMinutes = &minutes
		}
		result = append(result, &c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: listCapabilities - iterate rows: %w", ErrScanRow, err)
	}

	return result, nil
}

// CreateService добавляет услугу в каталог
func (r *Repository) CreateService(ctx context.Context, s *domain.Service) (*domain.Service, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("services").
		Columns("code", "name", "default_duration_minutes", "price").
		Values(s.Code, s.Name, s.DefaultDurationMinutes, s.Price).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: CreateService - build insert query: %v", ErrBuildQuery, err)
	}

	if err := executor.QueryRowContext(ctx, query, args...).Scan(&s.ID); err != nil {
		return nil, fmt.Errorf("%w: CreateService - execute insert: %w", ErrExecQuery, err)
	}
	return s, nil
}

// CreateProfessional добавляет специалиста
func (r *Repository) CreateProfessional(ctx context.Context, p *domain.Professional) (*domain.Professional, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("professionals").
		Columns("code", "name", "specialty").
		Values(p.Code, p.Name, p.Specialty).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: CreateProfessional - build insert query: %v", ErrBuildQuery, err)
	}

	if err := executor.QueryRowContext(ctx, query, args...).Scan(&p.ID); err != nil {
		return nil, fmt.Errorf("%w: CreateProfessional - execute insert: %w", ErrExecQuery, err)
	}
	return p, nil
}

// CreateCapability связывает специалиста с услугой
func (r *Repository) CreateCapability(ctx context.Context, c *domain.Capability) (*domain.Capability, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("professional_services").
		Columns("professional_id", "service_id", "is_active", "custom_duration_minutes").
		Values(c.ProfessionalID, c.ServiceID, c.IsActive, c.CustomDurationMinutes).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: CreateCapability - build insert query: %v", ErrBuildQuery, err)
	}

	if err := executor.QueryRowContext(ctx, query, args...).Scan(&c.ID); err != nil {
		return nil, fmt.Errorf("%w: CreateCapability - execute insert: %w", ErrExecQuery, err)
	}
	return c, nil
}
