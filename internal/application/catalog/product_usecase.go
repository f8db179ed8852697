// Package catalog contiene los casos de uso del catálogo: productos y marcas.
package catalog

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
	"github.com/jhoicas/ventas-api/internal/domain/inventory"
	"github.com/jhoicas/ventas-api/internal/domain/repository"
)

// ProductUseCase casos de uso CRUD para productos. El stock solo cambia vía ventas y compras.
type ProductUseCase struct {
	repo        repository.ProductRepository
	companyRepo repository.CompanyRepository
}

// NewProductUseCase construye el caso de uso.
func NewProductUseCase(repo repository.ProductRepository, companyRepo repository.CompanyRepository) *ProductUseCase {
	return &ProductUseCase{repo: repo, companyRepo: companyRepo}
}

// ProductQuery filtros del listado de productos.
type ProductQuery struct {
	Search       string
	CompanyID    string
	LowStockOnly bool
	Limit        int
	Offset       int
}

// Create crea un producto. Sin mínimo explícito se usa DefaultMinStockLevel.
func (uc *ProductUseCase) Create(ctx context.Context, in dto.CreateProductRequest) (*dto.ProductResponse, error) {
	in.Name = strings.TrimSpace(in.Name)
	if err := dto.Validate(in); err != nil {
		return nil, err
	}
	minLevel := decimal.NewFromInt(entity.DefaultMinStockLevel)
	if in.MinStockLevel != nil {
		minLevel = *in.MinStockLevel
	}
	if err := checkAmounts(in.RetailPrice, minLevel, in.UnitValue); err != nil {
		return nil, err
	}
	now := time.Now()
	p := &entity.Product{
		ID:            uuid.New().String(),
		Name:          in.Name,
		UnitType:      in.UnitType,
		UnitValue:     in.UnitValue,
		RetailPrice:   in.RetailPrice,
		CurrentStock:  in.CurrentStock,
		MinStockLevel: minLevel,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if in.CompanyID != "" {
		company, err := uc.company(ctx, in.CompanyID)
		if err != nil {
			return nil, err
		}
		p.CompanyID, p.Company = &company.ID, company
	}
	if err := uc.repo.Create(ctx, p); err != nil {
		return nil, err
	}
	return ToProductResponse(p), nil
}

// GetByID obtiene un producto por ID.
func (uc *ProductUseCase) GetByID(ctx context.Context, id string) (*dto.ProductResponse, error) {
	p, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, domain.ErrNotFound
	}
	return ToProductResponse(p), nil
}

// List lista productos filtrados; StockValue suma el valor a precio de venta de la página.
func (uc *ProductUseCase) List(ctx context.Context, q ProductQuery) (*dto.ProductListResponse, error) {
	list, total, err := uc.repo.List(ctx, repository.ProductFilter{
		Search: q.Search, CompanyID: q.CompanyID, LowStockOnly: q.LowStockOnly, Limit: q.Limit, Offset: q.Offset,
	})
	if err != nil {
		return nil, err
	}
	items := make([]dto.ProductResponse, 0, len(list))
	value := decimal.Zero
	for _, p := range list {
		items = append(items, *ToProductResponse(p))
		value = value.Add(inventory.StockValue(p.RetailPrice, p.CurrentStock))
	}
	return &dto.ProductListResponse{
		Items:      items,
		StockValue: value,
		Page:       dto.PageResponse{Limit: q.Limit, Offset: q.Offset, Total: total},
	}, nil
}

// Update actualiza los datos descriptivos y el precio. El stock no se toca.
func (uc *ProductUseCase) Update(ctx context.Context, id string, in dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	if err := dto.Validate(in); err != nil {
		return nil, err
	}
	p, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, domain.ErrNotFound
	}
	if in.Name != nil {
		p.Name = strings.TrimSpace(*in.Name)
	}
	if in.UnitType != nil {
		p.UnitType = *in.UnitType
	}
	if in.UnitValue != nil {
		p.UnitValue = in.UnitValue
	}
	if in.RetailPrice != nil {
		p.RetailPrice = *in.RetailPrice
	}
	if in.MinStockLevel != nil {
		p.MinStockLevel = *in.MinStockLevel
	}
	if in.CompanyID != nil {
		if *in.CompanyID == "" {
			p.CompanyID, p.Company = nil, nil
		} else {
			company, err := uc.company(ctx, *in.CompanyID)
			if err != nil {
				return nil, err
			}
			p.CompanyID, p.Company = &company.ID, company
		}
	}
	if err := checkAmounts(p.RetailPrice, p.MinStockLevel, p.UnitValue); err != nil {
		return nil, err
	}
	p.UpdatedAt = time.Now()
	if err := uc.repo.Update(ctx, p); err != nil {
		return nil, err
	}
	return ToProductResponse(p), nil
}

// Delete elimina un producto. Con ventas o compras asociadas falla con ErrConflict.
func (uc *ProductUseCase) Delete(ctx context.Context, id string) error {
	return uc.repo.Delete(ctx, id)
}

func (uc *ProductUseCase) company(ctx context.Context, id string) (*entity.Company, error) {
	c, err := uc.companyRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, fmt.Errorf("marca %s inexistente: %w", id, domain.ErrInvalidInput)
	}
	return c, nil
}

func checkAmounts(price, minLevel decimal.Decimal, unitValue *decimal.Decimal) error {
	if price.IsNegative() {
		return fmt.Errorf("precio negativo: %w", domain.ErrInvalidInput)
	}
	if minLevel.IsNegative() {
		return fmt.Errorf("stock mínimo negativo: %w", domain.ErrInvalidInput)
	}
	if unitValue != nil && !unitValue.IsPositive() {
		return fmt.Errorf("valor de unidad debe ser positivo: %w", domain.ErrInvalidInput)
	}
	return nil
}

// ToProductResponse convierte la entidad al DTO.
func ToProductResponse(p *entity.Product) *dto.ProductResponse {
	if p == nil {
		return nil
	}
	resp := &dto.ProductResponse{
		ID:            p.ID,
		Name:          p.Name,
		CompanyID:     p.CompanyID,
		UnitType:      p.UnitType,
		UnitValue:     p.UnitValue,
		RetailPrice:   p.RetailPrice,
		CurrentStock:  p.CurrentStock,
		MinStockLevel: p.MinStockLevel,
		LowStock:      inventory.IsLowStock(p.CurrentStock, p.MinStockLevel),
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}
	if p.Company != nil {
		resp.CompanyName = p.Company.Name
	}
	return resp
}
