package customers

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-AgendaService/internal/domain"
	customerRepo "github.com/m04kA/SMC-AgendaService/internal/infra/storage/customer"
	"github.com/m04kA/SMC-AgendaService/internal/service/customers/models"
	"github.com/m04kA/SMC-AgendaService/pkg/logger"
)

type fakeRepo struct {
	byPhone map[string]*domain.Customer
	nextID  int64
}

func (r *fakeRepo) GetByPhone(_ context.Context, phone string) (*domain.Customer, error) {
	c, ok := r.byPhone[phone]
	if !ok {
		return nil, customerRepo.ErrCustomerNotFound
	}
	return c, nil
}

func (r *fakeRepo) Upsert(_ context.Context, c *domain.Customer) (*domain.Customer, error) {
	if existing, ok := r.byPhone[c.Phone]; ok {
		existing.Name = c.Name
		return existing, nil
	}
	r.nextID++
	c.ID = r.nextID
	r.byPhone[c.Phone] = c
	return c, nil
}

func TestService_RegisterIsIdempotentByPhone(t *testing.T) {
	repo := &fakeRepo{byPhone: map[string]*domain.Customer{}}
	svc := NewService(repo, logger.Nop())

	first, err := svc.Register(context.Background(), &models.RegisterCustomerRequest{Name: "Maria", Phone: "+55 11 98765-4321"})
	require.NoError(t, err)
	assert.Equal(t, "5511987654321", first.Phone)

	second, err := svc.Register(context.Background(), &models.RegisterCustomerRequest{Name: "Maria Silva", Phone: "5511987654321"})
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, "Maria Silva", second.Name)

	found, err := svc.GetByPhone(context.Background(), "(55) 11 98765 4321")
	require.NoError(t, err)
	assert.Equal(t, first.ID, found.ID)
}

func TestService_RegisterValidation(t *testing.T) {
	svc := NewService(&fakeRepo{byPhone: map[string]*domain.Customer{}}, logger.Nop())

	_, err := svc.Register(context.Background(), &models.RegisterCustomerRequest{Name: " ", Phone: "123"})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.Register(context.Background(), &models.RegisterCustomerRequest{Name: "Maria", Phone: "abc"})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.Register(context.Background(), &models.RegisterCustomerRequest{Name: strings.Repeat("a", 201), Phone: "123"})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.GetByPhone(context.Background(), "999")
	assert.ErrorIs(t, err, ErrCustomerNotFound)
}
