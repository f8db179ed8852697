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

var _ repository.CustomerRepository = (*CustomerRepo)(nil)

const customerColumns = `id, name, COALESCE(shop_name, ''), COALESCE(phone, ''), COALESCE(address, ''),
	credit_limit, outstanding_balance, version, created_at, updated_at`

// CustomerRepo implementación de CustomerRepository (usable con pool o tx).
type CustomerRepo struct {
	q Querier
}

// NewCustomerRepository construye el adaptador. Pasar pool o tx (Querier).
func NewCustomerRepository(q Querier) *CustomerRepo {
	return &CustomerRepo{q: q}
}

// Create persiste un nuevo cliente. El teléfono, si existe, es único.
func (r *CustomerRepo) Create(ctx context.Context, c *entity.Customer) error {
	query := `
		INSERT INTO customers (id, name, shop_name, phone, address, credit_limit, outstanding_balance, version, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, 0, $8, $9)`
	_, err := r.q.Exec(ctx, query,
		c.ID, c.Name, nullIfEmpty(c.ShopName), nullIfEmpty(c.Phone), nullIfEmpty(c.Address),
		c.CreditLimit, c.OutstandingBalance, c.CreatedAt, c.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert customer: %w", err)
	}
	return nil
}

// GetByID obtiene un cliente por ID.
func (r *CustomerRepo) GetByID(ctx context.Context, id string) (*entity.Customer, error) {
	c, err := scanCustomer(r.q.QueryRow(ctx, `SELECT `+customerColumns+` FROM customers WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get customer: %w", err)
	}
	return c, nil
}

// GetByPhone obtiene un cliente por teléfono normalizado.
func (r *CustomerRepo) GetByPhone(ctx context.Context, phone string) (*entity.Customer, error) {
	c, err := scanCustomer(r.q.QueryRow(ctx, `SELECT `+customerColumns+` FROM customers WHERE phone = $1`, phone))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get customer by phone: %w", err)
	}
	return c, nil
}

// List lista clientes. Con WithBalance solo los que deben (cuentas por cobrar), mayor saldo primero.
func (r *CustomerRepo) List(ctx context.Context, f repository.PartyFilter) ([]*entity.Customer, int, error) {
	where, args := partyWhere(f, "name", "shop_name", "phone")
	order := " ORDER BY name"
	if f.WithBalance {
		order = " ORDER BY outstanding_balance DESC, name"
	}

	var total int
	if err := r.q.QueryRow(ctx, `SELECT count(*) FROM customers`+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count customers: %w", err)
	}

	args = append(args, f.Limit, f.Offset)
	query := fmt.Sprintf(`SELECT %s FROM customers%s%s LIMIT $%d OFFSET $%d`,
		customerColumns, where, order, len(args)-1, len(args))
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list customers: %w", err)
	}
	defer rows.Close()
	var list []*entity.Customer
	for rows.Next() {
		c, err := scanCustomer(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan customer: %w", err)
		}
		list = append(list, c)
	}
	return list, total, rows.Err()
}

// Update actualiza los datos de contacto y el límite de crédito. El saldo solo cambia vía AdjustBalance.
func (r *CustomerRepo) Update(ctx context.Context, c *entity.Customer) error {
	query := `
		UPDATE customers SET name = $2, shop_name = $3, phone = $4, address = $5, credit_limit = $6, updated_at = $7
		WHERE id = $1`
	cmd, err := r.q.Exec(ctx, query,
		c.ID, c.Name, nullIfEmpty(c.ShopName), nullIfEmpty(c.Phone), nullIfEmpty(c.Address), c.CreditLimit, c.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("update customer: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// AdjustBalance suma delta al saldo por cobrar solo si version sigue siendo expectedVersion.
func (r *CustomerRepo) AdjustBalance(ctx context.Context, id string, delta decimal.Decimal, expectedVersion int64) error {
	cmd, err := r.q.Exec(ctx, `
		UPDATE customers SET outstanding_balance = outstanding_balance + $2, version = version + 1, updated_at = now()
		WHERE id = $1 AND version = $3`,
		id, delta, expectedVersion,
	)
	if err != nil {
		return fmt.Errorf("adjust customer balance: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return fmt.Errorf("cliente %s modificado concurrentemente: %w", id, domain.ErrConflict)
	}
	return nil
}

// TotalOutstanding suma los saldos positivos de clientes.
func (r *CustomerRepo) TotalOutstanding(ctx context.Context) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := r.q.QueryRow(ctx,
		`SELECT COALESCE(SUM(outstanding_balance), 0) FROM customers WHERE outstanding_balance > 0`,
	).Scan(&total)
	if err != nil {
		return decimal.Zero, fmt.Errorf("total receivables: %w", err)
	}
	return total, nil
}

func scanCustomer(row pgx.Row) (*entity.Customer, error) {
	var c entity.Customer
	if err := row.Scan(
		&c.ID, &c.Name, &c.ShopName, &c.Phone, &c.Address,
		&c.CreditLimit, &c.OutstandingBalance, &c.Version, &c.CreatedAt, &c.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &c, nil
}

// partyWhere arma el WHERE común de clientes y proveedores: búsqueda en las columnas dadas
// y, opcionalmente, solo saldos positivos.
func partyWhere(f repository.PartyFilter, searchColumns ...string) (string, []any) {
	var conds []string
	var args []any
	if s := strings.TrimSpace(f.Search); s != "" {
		args = append(args, likePattern(s))
		ors := make([]string, 0, len(searchColumns))
		for _, col := range searchColumns {
			ors = append(ors, fmt.Sprintf("%s ILIKE $%d", col, len(args)))
		}
		conds = append(conds, "("+strings.Join(ors, " OR ")+")")
	}
	if f.WithBalance {
		conds = append(conds, "outstanding_balance > 0")
	}
	if len(conds) == 0 {
		return "", args
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}
