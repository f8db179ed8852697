package parties

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/ventas-api/internal/application/dto"
	"github.com/jhoicas/ventas-api/internal/domain"
	"github.com/jhoicas/ventas-api/internal/domain/entity"
	"github.com/jhoicas/ventas-api/internal/domain/repository"
	"github.com/jhoicas/ventas-api/pkg/phone"
)

// VendorUseCase casos de uso para proveedores.
type VendorUseCase struct {
	repo   repository.VendorRepository
	region string
}

// NewVendorUseCase construye el caso de uso.
func NewVendorUseCase(repo repository.VendorRepository, region string) *VendorUseCase {
	return &VendorUseCase{repo: repo, region: region}
}

// Create crea un proveedor con saldo cero.
func (uc *VendorUseCase) Create(ctx context.Context, in dto.CreateVendorRequest) (*dto.VendorResponse, error) {
	in.Name = strings.TrimSpace(in.Name)
	if err := dto.Validate(in); err != nil {
		return nil, err
	}
	if err := checkDiscount(in.DefaultDiscountPercent); err != nil {
		return nil, err
	}
	tel, err := uc.normalizePhone(ctx, in.Phone, "")
	if err != nil {
		return nil, err
	}
	now := time.Now()
	v := &entity.Vendor{
		ID:                     uuid.New().String(),
		Name:                   in.Name,
		Phone:                  tel,
		Address:                strings.TrimSpace(in.Address),
		DefaultDiscountPercent: in.DefaultDiscountPercent,
		CreatedAt:              now,
		UpdatedAt:              now,
	}
	if err := uc.repo.Create(ctx, v); err != nil {
		return nil, err
	}
	return uc.toResponse(v), nil
}

// GetByID obtiene un proveedor.
func (uc *VendorUseCase) GetByID(ctx context.Context, id string) (*dto.VendorResponse, error) {
	v, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if v == nil {
		return nil, domain.ErrNotFound
	}
	return uc.toResponse(v), nil
}

// List lista proveedores por nombre o teléfono.
func (uc *VendorUseCase) List(ctx context.Context, q ListQuery) (*dto.VendorListResponse, error) {
	list, total, err := uc.repo.List(ctx, repository.PartyFilter{Search: q.Search, Limit: q.Limit, Offset: q.Offset})
	if err != nil {
		return nil, err
	}
	items := make([]dto.VendorResponse, 0, len(list))
	for _, v := range list {
		items = append(items, *uc.toResponse(v))
	}
	return &dto.VendorListResponse{Items: items, Page: dto.PageResponse{Limit: q.Limit, Offset: q.Offset, Total: total}}, nil
}

// Update modifica datos de contacto y descuento por defecto.
func (uc *VendorUseCase) Update(ctx context.Context, id string, in dto.UpdateVendorRequest) (*dto.VendorResponse, error) {
	if err := dto.Validate(in); err != nil {
		return nil, err
	}
	v, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if v == nil {
		return nil, domain.ErrNotFound
	}
	if in.Name != nil {
		v.Name = strings.TrimSpace(*in.Name)
	}
	if in.Address != nil {
		v.Address = strings.TrimSpace(*in.Address)
	}
	if in.DefaultDiscountPercent != nil {
		if err := checkDiscount(*in.DefaultDiscountPercent); err != nil {
			return nil, err
		}
		v.DefaultDiscountPercent = *in.DefaultDiscountPercent
	}
	if in.Phone != nil {
		tel, err := uc.normalizePhone(ctx, *in.Phone, v.ID)
		if err != nil {
			return nil, err
		}
		v.Phone = tel
	}
	v.UpdatedAt = time.Now()
	if err := uc.repo.Update(ctx, v); err != nil {
		return nil, err
	}
	return uc.toResponse(v), nil
}

func (uc *VendorUseCase) normalizePhone(ctx context.Context, raw, selfID string) (string, error) {
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

func checkDiscount(p decimal.Decimal) error {
	if p.IsNegative() || p.GreaterThan(decimal.NewFromInt(100)) {
		return fmt.Errorf("descuento por defecto fuera de [0,100]: %w", domain.ErrInvalidInput)
	}
	return nil
}

func (uc *VendorUseCase) toResponse(v *entity.Vendor) *dto.VendorResponse {
	return &dto.VendorResponse{
		ID:                     v.ID,
		Name:                   v.Name,
		Phone:                  phone.Display(v.Phone, uc.region),
		Address:                v.Address,
		DefaultDiscountPercent: v.DefaultDiscountPercent,
		OutstandingBalance:     v.OutstandingBalance,
		CreatedAt:              v.CreatedAt,
		UpdatedAt:              v.UpdatedAt,
	}
}
