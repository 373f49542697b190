package customers

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/m04kA/SMC-AgendaService/internal/domain"
	customerRepo "github.com/m04kA/SMC-AgendaService/internal/infra/storage/customer"
	"github.com/m04kA/SMC-AgendaService/internal/service/customers/models"
)

// Service сервис клиентов
// Финансовая запись при оплате ссылается на клиента по телефону,
// поэтому клиент регистрируется до завершения записи
type Service struct {
	customerRepo CustomerRepository
	logger       Logger
}

// NewService создает новый экземпляр сервиса клиентов
func NewService(customerRepo CustomerRepository, logger Logger) *Service {
	return &Service{
		customerRepo: customerRepo,
		logger:       logger,
	}
}

// Register создаёт клиента или обновляет имя клиента с тем же телефоном
func (s *Service) Register(ctx context.Context, req *models.RegisterCustomerRequest) (*models.CustomerResponse, error) {
	if req == nil {
		return nil, fmt.Errorf("%w: empty request", ErrInvalidInput)
	}

	name := strings.TrimSpace(req.Name)
	phone := domain.NormalizePhone(req.Phone)

	s.logger.Info("Register: registering customer phone=%s", phone)

	if name == "" || utf8.RuneCountInString(name) > domain.MaxCustomerNameLen {
		s.logger.Warn("Register: invalid name for phone=%s", phone)
		return nil, fmt.Errorf("%w: name is required and must be at most %d characters", ErrInvalidInput, domain.MaxCustomerNameLen)
	}
	if phone == "" {
		s.logger.Warn("Register: empty phone")
		return nil, fmt.Errorf("%w: phone is required", ErrInvalidInput)
	}

	customer, err := s.customerRepo.Upsert(ctx, &domain.Customer{Name: name, Phone: phone})
	if err != nil {
		s.logger.Error("Register: repository error for phone=%s: %v", phone, err)
		return nil, fmt.Errorf("%w: Register - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("Register: customer id=%d registered", customer.ID)
	return models.FromDomainCustomer(customer), nil
}

// GetByPhone получает клиента по телефону
func (s *Service) GetByPhone(ctx context.Context, phone string) (*models.CustomerResponse, error) {
	normalized := domain.NormalizePhone(phone)
	if normalized == "" {
		return nil, fmt.Errorf("%w: phone is required", ErrInvalidInput)
	}

	customer, err := s.customerRepo.GetByPhone(ctx, normalized)
	if err != nil {
		if errors.Is(err, customerRepo.ErrCustomerNotFound) {
			s.logger.Warn("GetByPhone: customer phone=%s not found", normalized)
			return nil, ErrCustomerNotFound
		}
		s.logger.Error("GetByPhone: repository error for phone=%s: %v", normalized, err)
		return nil, fmt.Errorf("%w: GetByPhone - repository error: %v", ErrInternal, err)
	}

	return models.FromDomainCustomer(customer), nil
}
