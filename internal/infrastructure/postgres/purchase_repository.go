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

var _ repository.PurchaseRepository = (*PurchaseRepo)(nil)

const purchaseColumns = `pu.id, pu.vendor_id, pu.purchase_date, pu.total_amount, pu.discount_percent,
	pu.discount_amount, pu.net_amount, pu.payment_type, pu.paid_amount, pu.remaining_balance,
	COALESCE(pu.notes, ''), pu.created_at, pu.updated_at, v.name`

// PurchaseRepo implementación de PurchaseRepository (usable con pool o tx).
type PurchaseRepo struct {
	q Querier
}

// NewPurchaseRepository construye el adaptador. Pasar pool o tx (Querier).
func NewPurchaseRepository(q Querier) *PurchaseRepo {
	return &PurchaseRepo{q: q}
}

// Create persiste la cabecera de la compra con sus totales ya calculados.
func (r *PurchaseRepo) Create(ctx context.Context, p *entity.Purchase) error {
	query := `
		INSERT INTO purchases (id, vendor_id, purchase_date, total_amount, discount_percent, discount_amount,
			net_amount, payment_type, paid_amount, remaining_balance, notes, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`
	_, err := r.q.Exec(ctx, query,
		p.ID, p.VendorID, p.PurchaseDate, p.TotalAmount, p.DiscountPercent, p.DiscountAmount,
		p.NetAmount, p.PaymentType, p.PaidAmount, p.RemainingBalance, nullIfEmpty(p.Notes), p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("insert purchase: %w", err)
	}
	return nil
}

// CreateItem persiste una línea de la compra.
func (r *PurchaseRepo) CreateItem(ctx context.Context, it *entity.PurchaseItem) error {
	query := `
		INSERT INTO purchase_items (id, purchase_id, product_id, quantity, retail_price, discount_percent, purchase_price, total_amount, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.q.Exec(ctx, query,
		it.ID, it.PurchaseID, it.ProductID, it.Quantity, it.RetailPrice, it.DiscountPercent,
		it.PurchasePrice, it.TotalAmount, it.CreatedAt,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.ErrProductNotFound
		}
		return fmt.Errorf("insert purchase item: %w", err)
	}
	return nil
}

// GetByID obtiene una compra por ID con el proveedor resuelto.
func (r *PurchaseRepo) GetByID(ctx context.Context, id string) (*entity.Purchase, error) {
	query := `SELECT ` + purchaseColumns + `
		FROM purchases pu JOIN vendors v ON v.id = pu.vendor_id
		WHERE pu.id = $1`
	p, err := scanPurchase(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get purchase: %w", err)
	}
	return p, nil
}

// GetItems devuelve las líneas de una compra con el producto resuelto.
func (r *PurchaseRepo) GetItems(ctx context.Context, purchaseID string) ([]*entity.PurchaseItem, error) {
	query := `
		SELECT i.id, i.purchase_id, i.product_id, i.quantity, i.retail_price, i.discount_percent,
			i.purchase_price, i.total_amount, i.created_at, p.name, p.unit_type
		FROM purchase_items i JOIN products p ON p.id = i.product_id
		WHERE i.purchase_id = $1
		ORDER BY i.created_at, i.id`
	rows, err := r.q.Query(ctx, query, purchaseID)
	if err != nil {
		return nil, fmt.Errorf("list purchase items: %w", err)
	}
	defer rows.Close()
	var list []*entity.PurchaseItem
	for rows.Next() {
		var it entity.PurchaseItem
		p := &entity.Product{}
		if err := rows.Scan(&it.ID, &it.PurchaseID, &it.ProductID, &it.Quantity, &it.RetailPrice,
			&it.DiscountPercent, &it.PurchasePrice, &it.TotalAmount, &it.CreatedAt, &p.Name, &p.UnitType); err != nil {
			return nil, fmt.Errorf("scan purchase item: %w", err)
		}
		p.ID = it.ProductID
		it.Product = p
		list = append(list, &it)
	}
	return list, rows.Err()
}

// List lista compras por proveedor o nombre de proveedor; las más recientes primero.
func (r *PurchaseRepo) List(ctx context.Context, f repository.PurchaseFilter) ([]*entity.Purchase, int, error) {
	var conds []string
	var args []any
	if f.VendorID != "" {
		args = append(args, f.VendorID)
		conds = append(conds, fmt.Sprintf("pu.vendor_id = $%d", len(args)))
	}
	if s := strings.TrimSpace(f.Search); s != "" {
		args = append(args, likePattern(s))
		conds = append(conds, fmt.Sprintf("v.name ILIKE $%d", len(args)))
	}
	where := ""
	if len(conds) > 0 {
		where = " WHERE " + strings.Join(conds, " AND ")
	}
	from := ` FROM purchases pu JOIN vendors v ON v.id = pu.vendor_id`

	var total int
	if err := r.q.QueryRow(ctx, `SELECT count(*)`+from+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count purchases: %w", err)
	}

	args = append(args, f.Limit, f.Offset)
	query := fmt.Sprintf(`SELECT %s%s%s ORDER BY pu.purchase_date DESC, pu.created_at DESC LIMIT $%d OFFSET $%d`,
		purchaseColumns, from, where, len(args)-1, len(args))
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list purchases: %w", err)
	}
	defer rows.Close()
	var list []*entity.Purchase
	for rows.Next() {
		p, err := scanPurchase(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan purchase: %w", err)
		}
		list = append(list, p)
	}
	return list, total, rows.Err()
}

// UpdatePayment guarda el nuevo pagado y saldo tras un pago al proveedor, solo si la
// fila conserva el pagado leído en prev.
func (r *PurchaseRepo) UpdatePayment(ctx context.Context, prev *entity.Purchase, paid, remaining decimal.Decimal) error {
	cmd, err := r.q.Exec(ctx, `
		UPDATE purchases SET paid_amount = $2, remaining_balance = $3, updated_at = now()
		WHERE id = $1 AND paid_amount = $4`,
		prev.ID, paid, remaining, prev.PaidAmount,
	)
	if err != nil {
		return fmt.Errorf("update purchase payment: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return fmt.Errorf("compra %s modificada concurrentemente: %w", prev.ID, domain.ErrConflict)
	}
	return nil
}

func scanPurchase(row pgx.Row) (*entity.Purchase, error) {
	var p entity.Purchase
	var vendorName string
	if err := row.Scan(
		&p.ID, &p.VendorID, &p.PurchaseDate, &p.TotalAmount, &p.DiscountPercent,
		&p.DiscountAmount, &p.NetAmount, &p.PaymentType, &p.PaidAmount, &p.RemainingBalance,
		&p.Notes, &p.CreatedAt, &p.UpdatedAt, &vendorName,
	); err != nil {
		return nil, err
	}
	p.Vendor = &entity.Vendor{ID: p.VendorID, Name: vendorName}
	return &p, nil
}
