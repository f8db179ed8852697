package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/ventas-api/internal/domain"
	"github.com/jhoicas/ventas-api/internal/domain/entity"
	"github.com/jhoicas/ventas-api/internal/domain/repository"
)

var _ repository.VendorRepository = (*VendorRepo)(nil)

const vendorColumns = `id, name, COALESCE(phone, ''), COALESCE(address, ''),
	default_discount_percent, outstanding_balance, version, created_at, updated_at`

// VendorRepo implementación de VendorRepository (usable con pool o tx).
type VendorRepo struct {
	q Querier
}

// NewVendorRepository construye el adaptador. Pasar pool o tx (Querier).
func NewVendorRepository(q Querier) *VendorRepo {
	return &VendorRepo{q: q}
}

// Create persiste un nuevo proveedor.
func (r *VendorRepo) Create(ctx context.Context, v *entity.Vendor) error {
	query := `
		INSERT INTO vendors (id, name, phone, address, default_discount_percent, outstanding_balance, version, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, 0, $7, $8)`
	_, err := r.q.Exec(ctx, query,
		v.ID, v.Name, nullIfEmpty(v.Phone), nullIfEmpty(v.Address),
		v.DefaultDiscountPercent, v.OutstandingBalance, v.CreatedAt, v.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert vendor: %w", err)
	}
	return nil
}

// GetByID obtiene un proveedor por ID.
func (r *VendorRepo) GetByID(ctx context.Context, id string) (*entity.Vendor, error) {
	v, err := scanVendor(r.q.QueryRow(ctx, `SELECT `+vendorColumns+` FROM vendors WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get vendor: %w", err)
	}
	return v, nil
}

// GetByPhone obtiene un proveedor por teléfono normalizado.
func (r *VendorRepo) GetByPhone(ctx context.Context, phone string) (*entity.Vendor, error) {
	v, err := scanVendor(r.q.QueryRow(ctx, `SELECT `+vendorColumns+` FROM vendors WHERE phone = $1`, phone))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get vendor by phone: %w", err)
	}
	return v, nil
}

// List lista proveedores. Con WithBalance solo aquellos a los que se debe (cuentas por pagar).
func (r *VendorRepo) List(ctx context.Context, f repository.PartyFilter) ([]*entity.Vendor, int, error) {
	where, args := partyWhere(f, "name", "phone")
	order := " ORDER BY name"
	if f.WithBalance {
		order = " ORDER BY outstanding_balance DESC, name"
	}

	var total int
	if err := r.q.QueryRow(ctx, `SELECT count(*) FROM vendors`+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count vendors: %w", err)
	}

	args = append(args, f.Limit, f.Offset)
	query := fmt.Sprintf(`SELECT %s FROM vendors%s%s LIMIT $%d OFFSET $%d`,
		vendorColumns, where, order, len(args)-1, len(args))
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list vendors: %w", err)
	}
	defer rows.Close()
	var list []*entity.Vendor
	for rows.Next() {
		v, err := scanVendor(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan vendor: %w", err)
		}
		list = append(list, v)
	}
	return list, total, rows.Err()
}

// Update actualiza datos de contacto y descuento por defecto. El saldo solo cambia vía AdjustBalance.
func (r *VendorRepo) Update(ctx context.Context, v *entity.Vendor) error {
	query := `
		UPDATE vendors SET name = $2, phone = $3, address = $4, default_discount_percent = $5, updated_at = $6
		WHERE id = $1`
	cmd, err := r.q.Exec(ctx, query,
		v.ID, v.Name, nullIfEmpty(v.Phone), nullIfEmpty(v.Address), v.DefaultDiscountPercent, v.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("update vendor: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// AdjustBalance suma delta al saldo por pagar solo si version sigue siendo expectedVersion.
func (r *VendorRepo) AdjustBalance(ctx context.Context, id string, delta decimal.Decimal, expectedVersion int64) error {
	cmd, err := r.q.Exec(ctx, `
		UPDATE vendors SET outstanding_balance = outstanding_balance + $2, version = version + 1, updated_at = now()
		WHERE id = $1 AND version = $3`,
		id, delta, expectedVersion,
	)
	if err != nil {
		return fmt.Errorf("adjust vendor balance: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return fmt.Errorf("proveedor %s modificado concurrentemente: %w", id, domain.ErrConflict)
	}
	return nil
}

// TotalOutstanding suma los saldos positivos de proveedores.
func (r *VendorRepo) TotalOutstanding(ctx context.Context) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := r.q.QueryRow(ctx,
		`SELECT COALESCE(SUM(outstanding_balance), 0) FROM vendors WHERE outstanding_balance > 0`,
	).Scan(&total)
	if err != nil {
		return decimal.Zero, fmt.Errorf("total payables: %w", err)
	}
	return total, nil
}

func scanVendor(row pgx.Row) (*entity.Vendor, error) {
	var v entity.Vendor
	if err := row.Scan(
		&v.ID, &v.Name, &v.Phone, &v.Address,
		&v.DefaultDiscountPercent, &v.OutstandingBalance, &v.Version, &v.CreatedAt, &v.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &v, nil
}
