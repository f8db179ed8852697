package catalog

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/ventas-api/internal/application/dto"
	"github.com/jhoicas/ventas-api/internal/domain"
	"github.com/jhoicas/ventas-api/internal/domain/entity"
	"github.com/jhoicas/ventas-api/internal/domain/repository"
)

// CompanyUseCase casos de uso de marcas de producto.
type CompanyUseCase struct {
	repo repository.CompanyRepository
}

// NewCompanyUseCase construye el caso de uso.
func NewCompanyUseCase(repo repository.CompanyRepository) *CompanyUseCase {
	return &CompanyUseCase{repo: repo}
}

// Create crea una marca. El nombre es único (sin distinguir mayúsculas).
func (uc *CompanyUseCase) Create(ctx context.Context, in dto.CreateCompanyRequest) (*dto.CompanyResponse, error) {
	in.Name = strings.TrimSpace(in.Name)
	if err := dto.Validate(in); err != nil {
		return nil, err
	}
	now := time.Now()
	c := &entity.Company{
		ID:        uuid.New().String(),
		Name:      in.Name,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.repo.Create(ctx, c); err != nil {
		return nil, err
	}
	return toCompanyResponse(c), nil
}

// List lista todas las marcas ordenadas por nombre.
func (uc *CompanyUseCase) List(ctx context.Context) ([]dto.CompanyResponse, error) {
	list, err := uc.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.CompanyResponse, 0, len(list))
	for _, c := range list {
		out = append(out, *toCompanyResponse(c))
	}
	return out, nil
}

// FindOrCreate devuelve la marca con ese nombre o la crea (usado por la importación de catálogo).
func (uc *CompanyUseCase) FindOrCreate(ctx context.Context, name string) (*dto.CompanyResponse, error) {
	name = strings.TrimSpace(name)
	if c, err := uc.findByName(ctx, name); err != nil || c != nil {
		return c, err
	}
	resp, err := uc.Create(ctx, dto.CreateCompanyRequest{Name: name})
	if errors.Is(err, domain.ErrDuplicate) {
		// Otra importación la creó entre la búsqueda y el insert.
		if c, ferr := uc.findByName(ctx, name); ferr == nil && c != nil {
			return c, nil
		}
	}
	return resp, err
}

func (uc *CompanyUseCase) findByName(ctx context.Context, name string) (*dto.CompanyResponse, error) {
	list, err := uc.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	for _, c := range list {
		if strings.EqualFold(c.Name, name) {
			return toCompanyResponse(c), nil
		}
	}
	return nil, nil
}

func toCompanyResponse(c *entity.Company) *dto.CompanyResponse {
	return &dto.CompanyResponse{ID: c.ID, Name: c.Name, CreatedAt: c.CreatedAt}
}
