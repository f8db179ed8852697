// Package parties contiene los casos de uso de clientes y proveedores.
// Los teléfonos se guardan en E.164 y se muestran en formato nacional.
package parties

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/ventas-api/internal/application/dto"
	"github.com/jhoicas/ventas-api/internal/domain"
	"github.com/jhoicas/ventas-api/internal/domain/entity"
	"github.com/jhoicas/ventas-api/internal/domain/repository"
	"github.com/jhoicas/ventas-api/pkg/phone"
)

// ListQuery filtros de listado de clientes o proveedores.
type ListQuery struct {
	Search string
	Limit  int
	Offset int
}

// CustomerUseCase casos de uso para clientes.
type CustomerUseCase struct {
	repo   repository.CustomerRepository
	region string
}

// NewCustomerUseCase construye el caso de uso. region es la región telefónica por defecto (ej. "PK").
func NewCustomerUseCase(repo repository.CustomerRepository, region string) *CustomerUseCase {
	return &CustomerUseCase{repo: repo, region: region}
}

// Create crea un cliente con saldo cero. Un teléfono ya registrado falla con ErrDuplicate.
func (uc *CustomerUseCase) Create(ctx context.Context, in dto.CreateCustomerRequest) (*dto.CustomerResponse, error) {
	in.Name = strings.TrimSpace(in.Name)
	if err := dto.Validate(in); err != nil {
		return nil, err
	}
	if in.CreditLimit.IsNegative() {
		return nil, fmt.Errorf("límite de crédito negativo: %w", domain.ErrInvalidInput)
	}
	tel, err := uc.normalizePhone(ctx, in.Phone, "")
	if err != nil {
		return nil, err
	}
	now := time.Now()
	c := &entity.Customer{
		ID:          uuid.New().String(),
		Name:        in.Name,
		ShopName:    strings.TrimSpace(in.ShopName),
		Phone:       tel,
		Address:     strings.TrimSpace(in.Address),
		CreditLimit: in.CreditLimit,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := uc.repo.Create(ctx, c); err != nil {
		return nil, err
	}
	return uc.toResponse(c), nil
}

// GetByID obtiene un cliente.
func (uc *CustomerUseCase) GetByID(ctx context.Context, id string) (*dto.CustomerResponse, error) {
	c, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, domain.ErrNotFound
	}
	return uc.toResponse(c), nil
}

// List lista clientes por nombre, tienda o teléfono.
func (uc *CustomerUseCase) List(ctx context.Context, q ListQuery) (*dto.CustomerListResponse, error) {
	list, total, err := uc.repo.List(ctx, repository.PartyFilter{Search: q.Search, Limit: q.Limit, Offset: q.Offset})
	if err != nil {
		return nil, err
	}
	items := make([]dto.CustomerResponse, 0, len(list))
	for _, c := range list {
		items = append(items, *uc.toResponse(c))
	}
	return &dto.CustomerListResponse{Items: items, Page: dto.PageResponse{Limit: q.Limit, Offset: q.Offset, Total: total}}, nil
}

// Update modifica los datos de contacto y el límite. El saldo solo cambia vía ventas y abonos.
func (uc *CustomerUseCase) Update(ctx context.Context, id string, in dto.UpdateCustomerRequest) (*dto.CustomerResponse, error) {
	if err := dto.Validate(in); err != nil {
		return nil, err
	}
	c, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, domain.ErrNotFound
	}
	if in.Name != nil {
		c.Name = strings.TrimSpace(*in.Name)
	}
	if in.ShopName != nil {
		c.ShopName = strings.TrimSpace(*in.ShopName)
	}
	if in.Address != nil {
		c.Address = strings.TrimSpace(*in.Address)
	}
	if in.CreditLimit != nil {
		if in.CreditLimit.IsNegative() {
			return nil, fmt.Errorf("límite de crédito negativo: %w", domain.ErrInvalidInput)
		}
		c.CreditLimit = *in.CreditLimit
	}
	if in.Phone != nil {
		tel, err := uc.normalizePhone(ctx, *in.Phone, c.ID)
		if err != nil {
			return nil, err
		}
		c.Phone = tel
	}
	c.UpdatedAt = time.Now()
	if err := uc.repo.Update(ctx, c); err != nil {
		return nil, err
	}
	return uc.toResponse(c), nil
}

// normalizePhone valida el teléfono y verifica que no lo use otro cliente (selfID se excluye).
func (uc *CustomerUseCase) normalizePhone(ctx context.Context, raw, selfID string) (string, error) {
	tel, err := phone.Normalize(raw, uc.region)
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}
	if tel == "" {
		return "", nil
	}
	existing, err := uc.repo.GetByPhone(ctx, tel)
	if err != nil {
		return "", err
	}
	if existing != nil && existing.ID != selfID {
		return "", fmt.Errorf("teléfono %s ya registrado para %s: %w", tel, existing.Name, domain.ErrDuplicate)
	}
	return tel, nil
}

func (uc *CustomerUseCase) toResponse(c *entity.Customer) *dto.CustomerResponse {
	return &dto.CustomerResponse{
		ID:                 c.ID,
		Name:               c.Name,
		ShopName:           c.ShopName,
		Phone:              phone.Display(c.Phone, uc.region),
		Address:            c.Address,
		CreditLimit:        c.CreditLimit,
		OutstandingBalance: c.OutstandingBalance,
		CreatedAt:          c.CreatedAt,
		UpdatedAt:          c.UpdatedAt,
	}
}
