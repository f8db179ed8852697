package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/ventas-api/internal/domain"
	"github.com/jhoicas/ventas-api/internal/domain/entity"
	"github.com/jhoicas/ventas-api/internal/domain/repository"
)

var _ repository.ProductRepository = (*ProductRepo)(nil)

const productColumns = `p.id, p.name, p.company_id, p.unit_type, p.unit_value, p.retail_price,
	p.current_stock, p.min_stock_level, p.version, p.created_at, p.updated_at, c.name`

// ProductRepo implementación del puerto ProductRepository sobre PostgreSQL (usable con pool o tx).
type ProductRepo struct {
	q Querier
}

// NewProductRepository construye el adaptador de persistencia para productos. Pasar pool o tx (Querier).
func NewProductRepository(q Querier) *ProductRepo {
	return &ProductRepo{q: q}
}

// Create persiste un nuevo producto con version 0.
func (r *ProductRepo) Create(ctx context.Context, p *entity.Product) error {
	query := `
		INSERT INTO products (id, name, company_id, unit_type, unit_value, retail_price, current_stock, min_stock_level, version, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, 0, $9, $10)`
	_, err := r.q.Exec(ctx, query,
		p.ID, p.Name, p.CompanyID, p.UnitType, p.UnitValue, p.RetailPrice,
		p.CurrentStock, p.MinStockLevel, p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		if isForeignKeyViolation(err) {
			return fmt.Errorf("marca inexistente: %w", domain.ErrInvalidInput)
		}
		return fmt.Errorf("insert product: %w", err)
	}
	p.Version = 0
	return nil
}

// GetByID obtiene un producto por ID.
func (r *ProductRepo) GetByID(ctx context.Context, id string) (*entity.Product, error) {
	query := `SELECT ` + productColumns + `
		FROM products p LEFT JOIN companies c ON c.id = p.company_id
		WHERE p.id = $1`
	p, err := scanProduct(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get product: %w", err)
	}
	return p, nil
}

// List lista productos filtrados por nombre, marca y stock bajo; devuelve también el total sin paginar.
func (r *ProductRepo) List(ctx context.Context, f repository.ProductFilter) ([]*entity.Product, int, error) {
	where, args := productWhere(f)

	var total int
	if err := r.q.QueryRow(ctx, `SELECT count(*) FROM products p`+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count products: %w", err)
	}

	args = append(args, f.Limit, f.Offset)
	query := fmt.Sprintf(`SELECT `+productColumns+`
		FROM products p LEFT JOIN companies c ON c.id = p.company_id%s
		ORDER BY p.name LIMIT $%d OFFSET $%d`, where, len(args)-1, len(args))
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()
	var list []*entity.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan product: %w", err)
		}
		list = append(list, p)
	}
	return list, total, rows.Err()
}

// productWhere arma el WHERE de List; los placeholders empiezan en $1.
func productWhere(f repository.ProductFilter) (string, []any) {
	var conds []string
	var args []any
	if s := strings.TrimSpace(f.Search); s != "" {
		args = append(args, likePattern(s))
		conds = append(conds, fmt.Sprintf("p.name ILIKE $%d", len(args)))
	}
	if f.CompanyID != "" {
		args = append(args, f.CompanyID)
		conds = append(conds, fmt.Sprintf("p.company_id = $%d", len(args)))
	}
	if f.LowStockOnly {
		conds = append(conds, "p.current_stock <= p.min_stock_level")
	}
	if len(conds) == 0 {
		return "", args
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

// Update actualiza los datos de catálogo. No toca current_stock ni version (se manejan vía AdjustStock).
func (r *ProductRepo) Update(ctx context.Context, p *entity.Product) error {
	query := `
		UPDATE products SET name = $2, company_id = $3, unit_type = $4, unit_value = $5,
			retail_price = $6, min_stock_level = $7, updated_at = $8
		WHERE id = $1`
	cmd, err := r.q.Exec(ctx, query,
		p.ID, p.Name, p.CompanyID, p.UnitType, p.UnitValue, p.RetailPrice, p.MinStockLevel, p.UpdatedAt,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return fmt.Errorf("marca inexistente: %w", domain.ErrInvalidInput)
		}
		return fmt.Errorf("update product: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// AdjustStock suma delta a current_stock solo si version sigue siendo expectedVersion.
func (r *ProductRepo) AdjustStock(ctx context.Context, id string, delta decimal.Decimal, expectedVersion int64) error {
	cmd, err := r.q.Exec(ctx, `
		UPDATE products SET current_stock = current_stock + $2, version = version + 1, updated_at = now()
		WHERE id = $1 AND version = $3`,
		id, delta, expectedVersion,
	)
	if err != nil {
		return fmt.Errorf("adjust product stock: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return fmt.Errorf("producto %s modificado concurrentemente: %w", id, domain.ErrConflict)
	}
	return nil
}

// Delete elimina un producto por ID. Si tiene líneas de documentos asociadas devuelve ErrConflict.
func (r *ProductRepo) Delete(ctx context.Context, id string) error {
	cmd, err := r.q.Exec(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		if isForeignKeyViolation(err) {
			return fmt.Errorf("producto con documentos asociados: %w", domain.ErrConflict)
		}
		return fmt.Errorf("delete product: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func scanProduct(row pgx.Row) (*entity.Product, error) {
	var p entity.Product
	var companyName *string
	if err := row.Scan(
		&p.ID, &p.Name, &p.CompanyID, &p.UnitType, &p.UnitValue, &p.RetailPrice,
		&p.CurrentStock, &p.MinStockLevel, &p.Version, &p.CreatedAt, &p.UpdatedAt, &companyName,
	); err != nil {
		return nil, err
	}
	if p.CompanyID != nil && companyName != nil {
		p.Company = &entity.Company{ID: *p.CompanyID, Name: *companyName}
	}
	return &p, nil
}
