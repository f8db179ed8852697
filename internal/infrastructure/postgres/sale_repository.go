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

var _ repository.SaleRepository = (*SaleRepo)(nil)

const saleColumns = `s.id, s.customer_id, s.bill_number, s.sale_date, s.delivery_date, s.is_advance_booking,
	s.total_amount, s.discount_percent, s.discount_amount, s.net_amount, s.payment_type,
	s.paid_amount, s.remaining_balance, s.status, COALESCE(s.notes, ''), s.created_at, s.updated_at,
	c.name, c.shop_name, c.phone`

// SaleRepo implementación de SaleRepository (usable con pool o tx).
type SaleRepo struct {
	q Querier
}

// NewSaleRepository construye el adaptador. Pasar pool o tx (Querier).
func NewSaleRepository(q Querier) *SaleRepo {
	return &SaleRepo{q: q}
}

// Create persiste la cabecera de la venta con sus totales ya calculados.
func (r *SaleRepo) Create(ctx context.Context, s *entity.Sale) error {
	query := `
		INSERT INTO sales (id, customer_id, bill_number, sale_date, delivery_date, is_advance_booking,
			total_amount, discount_percent, discount_amount, net_amount, payment_type,
			paid_amount, remaining_balance, status, notes, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)`
	_, err := r.q.Exec(ctx, query,
		s.ID, s.CustomerID, s.BillNumber, s.SaleDate, s.DeliveryDate, s.IsAdvanceBooking,
		s.TotalAmount, s.DiscountPercent, s.DiscountAmount, s.NetAmount, s.PaymentType,
		s.PaidAmount, s.RemainingBalance, s.Status, nullIfEmpty(s.Notes), s.CreatedAt, s.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert sale: %w", err)
	}
	return nil
}

// CreateItem persiste una línea de la venta.
func (r *SaleRepo) CreateItem(ctx context.Context, it *entity.SaleItem) error {
	query := `
		INSERT INTO sale_items (id, sale_id, product_id, quantity, selling_price, discount_percent, total_amount, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.q.Exec(ctx, query,
		it.ID, it.SaleID, it.ProductID, it.Quantity, it.SellingPrice, it.DiscountPercent, it.TotalAmount, it.CreatedAt,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.ErrProductNotFound
		}
		return fmt.Errorf("insert sale item: %w", err)
	}
	return nil
}

// GetByID obtiene una venta por ID con el cliente resuelto (si tiene).
func (r *SaleRepo) GetByID(ctx context.Context, id string) (*entity.Sale, error) {
	query := `SELECT ` + saleColumns + `
		FROM sales s LEFT JOIN customers c ON c.id = s.customer_id
		WHERE s.id = $1`
	s, err := scanSale(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get sale: %w", err)
	}
	return s, nil
}

// GetItems devuelve las líneas de una venta con el producto resuelto.
func (r *SaleRepo) GetItems(ctx context.Context, saleID string) ([]*entity.SaleItem, error) {
	query := `
		SELECT i.id, i.sale_id, i.product_id, i.quantity, i.selling_price, i.discount_percent, i.total_amount, i.created_at,
			p.name, p.unit_type, p.unit_value
		FROM sale_items i JOIN products p ON p.id = i.product_id
		WHERE i.sale_id = $1
		ORDER BY i.created_at, i.id`
	rows, err := r.q.Query(ctx, query, saleID)
	if err != nil {
		return nil, fmt.Errorf("list sale items: %w", err)
	}
	defer rows.Close()
	var list []*entity.SaleItem
	for rows.Next() {
		var it entity.SaleItem
		p := &entity.Product{}
		if err := rows.Scan(&it.ID, &it.SaleID, &it.ProductID, &it.Quantity, &it.SellingPrice,
			&it.DiscountPercent, &it.TotalAmount, &it.CreatedAt, &p.Name, &p.UnitType, &p.UnitValue); err != nil {
			return nil, fmt.Errorf("scan sale item: %w", err)
		}
		p.ID = it.ProductID
		it.Product = p
		list = append(list, &it)
	}
	return list, rows.Err()
}

// List lista ventas filtradas por búsqueda, estado y fecha; las más recientes primero.
func (r *SaleRepo) List(ctx context.Context, f repository.SaleFilter) ([]*entity.Sale, int, error) {
	where, args := saleWhere(f)
	from := ` FROM sales s LEFT JOIN customers c ON c.id = s.customer_id`

	var total int
	if err := r.q.QueryRow(ctx, `SELECT count(*)`+from+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count sales: %w", err)
	}

	args = append(args, f.Limit, f.Offset)
	query := fmt.Sprintf(`SELECT %s%s%s ORDER BY s.sale_date DESC, s.created_at DESC LIMIT $%d OFFSET $%d`,
		saleColumns, from, where, len(args)-1, len(args))
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list sales: %w", err)
	}
	defer rows.Close()
	var list []*entity.Sale
	for rows.Next() {
		s, err := scanSale(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan sale: %w", err)
		}
		list = append(list, s)
	}
	return list, total, rows.Err()
}

// saleWhere arma el WHERE de List; los placeholders empiezan en $1.
func saleWhere(f repository.SaleFilter) (string, []any) {
	var conds []string
	var args []any
	if s := strings.TrimSpace(f.Search); s != "" {
		args = append(args, likePattern(s))
		n := len(args)
		conds = append(conds, fmt.Sprintf("(s.bill_number ILIKE $%d OR c.name ILIKE $%d OR c.shop_name ILIKE $%d)", n, n, n))
	}
	if f.Status != "" {
		args = append(args, f.Status)
		conds = append(conds, fmt.Sprintf("s.status = $%d", len(args)))
	}
	if f.Date != nil {
		args = append(args, f.Date.Format("2006-01-02"))
		conds = append(conds, fmt.Sprintf("s.sale_date = $%d::date", len(args)))
	}
	if len(conds) == 0 {
		return "", args
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

// UpdatePayment guarda el nuevo pagado, saldo y estado tras un abono, solo si la fila
// conserva el pagado y estado leídos en prev.
func (r *SaleRepo) UpdatePayment(ctx context.Context, prev *entity.Sale, paid, remaining decimal.Decimal, status string) error {
	cmd, err := r.q.Exec(ctx, `
		UPDATE sales SET paid_amount = $2, remaining_balance = $3, status = $4, updated_at = now()
		WHERE id = $1 AND paid_amount = $5 AND status = $6`,
		prev.ID, paid, remaining, status, prev.PaidAmount, prev.Status,
	)
	if err != nil {
		return fmt.Errorf("update sale payment: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return fmt.Errorf("venta %s modificada concurrentemente: %w", prev.ID, domain.ErrConflict)
	}
	return nil
}

// UpdateStatus pasa la venta de fromStatus a toStatus.
func (r *SaleRepo) UpdateStatus(ctx context.Context, id, fromStatus, toStatus string) error {
	cmd, err := r.q.Exec(ctx,
		`UPDATE sales SET status = $3, updated_at = now() WHERE id = $1 AND status = $2`,
		id, fromStatus, toStatus,
	)
	if err != nil {
		return fmt.Errorf("update sale status: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return fmt.Errorf("venta %s ya no está en estado %s: %w", id, fromStatus, domain.ErrConflict)
	}
	return nil
}

func scanSale(row pgx.Row) (*entity.Sale, error) {
	var s entity.Sale
	var customerName, shopName, customerPhone *string
	if err := row.Scan(
		&s.ID, &s.CustomerID, &s.BillNumber, &s.SaleDate, &s.DeliveryDate, &s.IsAdvanceBooking,
		&s.TotalAmount, &s.DiscountPercent, &s.DiscountAmount, &s.NetAmount, &s.PaymentType,
		&s.PaidAmount, &s.RemainingBalance, &s.Status, &s.Notes, &s.CreatedAt, &s.UpdatedAt,
		&customerName, &shopName, &customerPhone,
	); err != nil {
		return nil, err
	}
	if s.CustomerID != nil && customerName != nil {
		s.Customer = &entity.Customer{ID: *s.CustomerID, Name: *customerName}
		if shopName != nil {
			s.Customer.ShopName = *shopName
		}
		if customerPhone != nil {
			s.Customer.Phone = *customerPhone
		}
	}
	return &s, nil
}
