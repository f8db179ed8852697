package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/ventas-api/internal/domain"
	"github.com/jhoicas/ventas-api/internal/domain/entity"
	"github.com/jhoicas/ventas-api/internal/domain/repository"
)

var _ repository.PaymentRepository = (*PaymentRepo)(nil)

// PaymentRepo implementación de PaymentRepository (usable con pool o tx).
type PaymentRepo struct {
	q Querier
}

// NewPaymentRepository construye el adaptador. Pasar pool o tx (Querier).
func NewPaymentRepository(q Querier) *PaymentRepo {
	return &PaymentRepo{q: q}
}

// CreateCustomerPayment persiste un abono de cliente.
func (r *PaymentRepo) CreateCustomerPayment(ctx context.Context, p *entity.CustomerPayment) error {
	query := `
		INSERT INTO customer_payments (id, customer_id, sale_id, payment_date, amount, payment_method, reference_number, notes, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.q.Exec(ctx, query,
		p.ID, p.CustomerID, p.SaleID, p.PaymentDate, p.Amount, p.PaymentMethod,
		nullIfEmpty(p.ReferenceNumber), nullIfEmpty(p.Notes), p.CreatedAt,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("insert customer payment: %w", err)
	}
	return nil
}

// CreateVendorPayment persiste un pago a proveedor.
func (r *PaymentRepo) CreateVendorPayment(ctx context.Context, p *entity.VendorPayment) error {
	query := `
		INSERT INTO vendor_payments (id, vendor_id, purchase_id, payment_date, amount, payment_method, reference_number, notes, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.q.Exec(ctx, query,
		p.ID, p.VendorID, p.PurchaseID, p.PaymentDate, p.Amount, p.PaymentMethod,
		nullIfEmpty(p.ReferenceNumber), nullIfEmpty(p.Notes), p.CreatedAt,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("insert vendor payment: %w", err)
	}
	return nil
}

// ListCustomerPayments lista los abonos de un cliente, los más recientes primero.
func (r *PaymentRepo) ListCustomerPayments(ctx context.Context, customerID string, limit, offset int) ([]*entity.CustomerPayment, error) {
	query := `
		SELECT id, customer_id, sale_id, payment_date, amount, payment_method,
			COALESCE(reference_number, ''), COALESCE(notes, ''), created_at
		FROM customer_payments WHERE customer_id = $1
		ORDER BY payment_date DESC, created_at DESC LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(ctx, query, customerID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list customer payments: %w", err)
	}
	defer rows.Close()
	var list []*entity.CustomerPayment
	for rows.Next() {
		var p entity.CustomerPayment
		if err := rows.Scan(&p.ID, &p.CustomerID, &p.SaleID, &p.PaymentDate, &p.Amount, &p.PaymentMethod,
			&p.ReferenceNumber, &p.Notes, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan customer payment: %w", err)
		}
		list = append(list, &p)
	}
	return list, rows.Err()
}

// ListVendorPayments lista los pagos a un proveedor, los más recientes primero.
func (r *PaymentRepo) ListVendorPayments(ctx context.Context, vendorID string, limit, offset int) ([]*entity.VendorPayment, error) {
	query := `
		SELECT id, vendor_id, purchase_id, payment_date, amount, payment_method,
			COALESCE(reference_number, ''), COALESCE(notes, ''), created_at
		FROM vendor_payments WHERE vendor_id = $1
		ORDER BY payment_date DESC, created_at DESC LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(ctx, query, vendorID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list vendor payments: %w", err)
	}
	defer rows.Close()
	var list []*entity.VendorPayment
	for rows.Next() {
		var p entity.VendorPayment
		if err := rows.Scan(&p.ID, &p.VendorID, &p.PurchaseID, &p.PaymentDate, &p.Amount, &p.PaymentMethod,
			&p.ReferenceNumber, &p.Notes, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan vendor payment: %w", err)
		}
		list = append(list, &p)
	}
	return list, rows.Err()
}
