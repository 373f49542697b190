package models

import "github.com/m04kA/SMC-AgendaService/internal/domain"

// RegisterCustomerRequest запрос на регистрацию клиента
type RegisterCustomerRequest struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
}

// CustomerResponse ответ с данными клиента
type CustomerResponse struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Phone string `json:"phone"`
}

// FromDomainCustomer конвертирует domain модель в DTO
func FromDomainCustomer(c *domain.Customer) *CustomerResponse {
	if c == nil {
		return nil
	}
	return &CustomerResponse{
		ID:    c.ID,
		Name:  c.Name,
		Phone: c.Phone,
	}
}
