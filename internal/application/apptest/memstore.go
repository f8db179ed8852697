// Package apptest provee un almacén en memoria que implementa los puertos de
// repositorio y los TxRunner de la capa de aplicación, para tests de casos de uso.
// Las transacciones se simulan con snapshot/restore: si fn falla no queda rastro.
package apptest

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/ventas-api/internal/domain"
	"github.com/jhoicas/ventas-api/internal/domain/entity"
	"github.com/jhoicas/ventas-api/internal/domain/repository"
)

// Store estado en memoria. Los campos son exportados para sembrar y verificar en tests.
type Store struct {
	mu sync.Mutex

	Companies        map[string]entity.Company
	Products         map[string]entity.Product
	Customers        map[string]entity.Customer
	Vendors          map[string]entity.Vendor
	Sales            map[string]entity.Sale
	SaleItems        map[string][]entity.SaleItem
	Purchases        map[string]entity.Purchase
	PurchaseItems    map[string][]entity.PurchaseItem
	CustomerPayments []entity.CustomerPayment
	VendorPayments   []entity.VendorPayment

	failures map[string]error
	calls    map[string]int
	// Commits y Rollbacks cuentan transacciones terminadas.
	Commits   int
	Rollbacks int
}

// NewStore crea un almacén vacío.
func NewStore() *Store {
	return &Store{
		Companies:     map[string]entity.Company{},
		Products:      map[string]entity.Product{},
		Customers:     map[string]entity.Customer{},
		Vendors:       map[string]entity.Vendor{},
		Sales:         map[string]entity.Sale{},
		SaleItems:     map[string][]entity.SaleItem{},
		Purchases:     map[string]entity.Purchase{},
		PurchaseItems: map[string][]entity.PurchaseItem{},
		failures:      map[string]error{},
		calls:         map[string]int{},
	}
}

// FailOn hace que la operación op (ej. "product.AdjustStock") devuelva err.
func (s *Store) FailOn(op string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures[op] = err
}

// Calls cuántas veces se invocó op (solo operaciones que admiten FailOn).
func (s *Store) Calls(op string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[op]
}

func (s *Store) fail(op string) error {
	s.calls[op]++
	if err, ok := s.failures[op]; ok {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

type snapshot struct {
	products      map[string]entity.Product
	customers     map[string]entity.Customer
	vendors       map[string]entity.Vendor
	sales         map[string]entity.Sale
	saleItems     map[string][]entity.SaleItem
	purchases     map[string]entity.Purchase
	purchaseItems map[string][]entity.PurchaseItem
	custPayments  []entity.CustomerPayment
	vendPayments  []entity.VendorPayment
}

func cloneMap[K comparable, V any](m map[K]V) map[K]V {
	out := make(map[K]V, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func cloneSliceMap[V any](m map[string][]V) map[string][]V {
	out := make(map[string][]V, len(m))
	for k, v := range m {
		out[k] = append([]V(nil), v...)
	}
	return out
}

func (s *Store) snapshot() snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return snapshot{
		products:      cloneMap(s.Products),
		customers:     cloneMap(s.Customers),
		vendors:       cloneMap(s.Vendors),
		sales:         cloneMap(s.Sales),
		saleItems:     cloneSliceMap(s.SaleItems),
		purchases:     cloneMap(s.Purchases),
		purchaseItems: cloneSliceMap(s.PurchaseItems),
		custPayments:  append([]entity.CustomerPayment(nil), s.CustomerPayments...),
		vendPayments:  append([]entity.VendorPayment(nil), s.VendorPayments...),
	}
}

func (s *Store) restore(sn snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Products = sn.products
	s.Customers = sn.customers
	s.Vendors = sn.vendors
	s.Sales = sn.sales
	s.SaleItems = sn.saleItems
	s.Purchases = sn.purchases
	s.PurchaseItems = sn.purchaseItems
	s.CustomerPayments = sn.custPayments
	s.VendorPayments = sn.vendPayments
	s.Rollbacks++
}

func (s *Store) inTx(fn func() error) error {
	sn := s.snapshot()
	if err := fn(); err != nil {
		s.restore(sn)
		return err
	}
	s.mu.Lock()
	s.Commits++
	s.mu.Unlock()
	return nil
}

// ── TxRunner ──────────────────────────────────────────────────────────────────

// TxRunner implementa los TxRunner de ventas, compras y cuentas sobre el Store.
type TxRunner struct{ S *Store }

// RunSales ejecuta fn con los repos de ventas; rollback si fn falla.
func (r TxRunner) RunSales(ctx context.Context, fn func(
	repository.ProductRepository,
	repository.CustomerRepository,
	repository.SaleRepository,
	repository.PaymentRepository,
) error) error {
	return r.S.inTx(func() error {
		return fn(ProductRepo{r.S}, CustomerRepo{r.S}, SaleRepo{r.S}, PaymentRepo{r.S})
	})
}

// RunPurchasing ejecuta fn con los repos de compras; rollback si fn falla.
func (r TxRunner) RunPurchasing(ctx context.Context, fn func(
	repository.ProductRepository,
	repository.VendorRepository,
	repository.PurchaseRepository,
	repository.PaymentRepository,
) error) error {
	return r.S.inTx(func() error {
		return fn(ProductRepo{r.S}, VendorRepo{r.S}, PurchaseRepo{r.S}, PaymentRepo{r.S})
	})
}

func page[T any](list []T, limit, offset int) []T {
	if offset >= len(list) {
		return []T{}
	}
	list = list[offset:]
	if limit > 0 && limit < len(list) {
		list = list[:limit]
	}
	return list
}

func contains(haystack, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
}

// ── Company ───────────────────────────────────────────────────────────────────

// CompanyRepo repositorio de marcas en memoria.
type CompanyRepo struct{ S *Store }

var _ repository.CompanyRepository = CompanyRepo{}

func (r CompanyRepo) Create(_ context.Context, c *entity.Company) error {
	r.S.mu.Lock()
	defer r.S.mu.Unlock()
	for _, other := range r.S.Companies {
		if strings.EqualFold(other.Name, c.Name) {
			return domain.ErrDuplicate
		}
	}
	r.S.Companies[c.ID] = *c
	return nil
}

func (r CompanyRepo) GetByID(_ context.Context, id string) (*entity.Company, error) {
	r.S.mu.Lock()
	defer r.S.mu.Unlock()
	c, ok := r.S.Companies[id]
	if !ok {
		return nil, nil
	}
	return &c, nil
}

func (r CompanyRepo) List(_ context.Context) ([]*entity.Company, error) {
	r.S.mu.Lock()
	defer r.S.mu.Unlock()
	out := make([]*entity.Company, 0, len(r.S.Companies))
	for _, c := range r.S.Companies {
		c := c
		out = append(out, &c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// ── Product ───────────────────────────────────────────────────────────────────

// ProductRepo repositorio de productos en memoria.
type ProductRepo struct{ S *Store }

var _ repository.ProductRepository = ProductRepo{}

func (r ProductRepo) Create(_ context.Context, p *entity.Product) error {
	r.S.mu.Lock()
	defer r.S.mu.Unlock()
	if err := r.S.fail("product.Create"); err != nil {
		return err
	}
	if _, ok := r.S.Products[p.ID]; ok {
		return domain.ErrDuplicate
	}
	p.Version = 0
	r.S.Products[p.ID] = *p
	return nil
}

func (r ProductRepo) GetByID(_ context.Context, id string) (*entity.Product, error) {
	r.S.mu.Lock()
	defer r.S.mu.Unlock()
	p, ok := r.S.Products[id]
	if !ok {
		return nil, nil
	}
	if p.CompanyID != nil {
		if c, ok := r.S.Companies[*p.CompanyID]; ok {
			p.Company = &c
		}
	}
	return &p, nil
}

func (r ProductRepo) List(_ context.Context, f repository.ProductFilter) ([]*entity.Product, int, error) {
	r.S.mu.Lock()
	defer r.S.mu.Unlock()
	var out []*entity.Product
	for _, p := range r.S.Products {
		p := p
		if f.Search != "" && !contains(p.Name, f.Search) {
			continue
		}
		if f.CompanyID != "" && (p.CompanyID == nil || *p.CompanyID != f.CompanyID) {
			continue
		}
		if f.LowStockOnly && p.CurrentStock.GreaterThan(p.MinStockLevel) {
			continue
		}
		out = append(out, &p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return page(out, f.Limit, f.Offset), len(out), nil
}

func (r ProductRepo) Update(_ context.Context, p *entity.Product) error {
	r.S.mu.Lock()
	defer r.S.mu.Unlock()
	cur, ok := r.S.Products[p.ID]
	if !ok {
		return domain.ErrNotFound
	}
	// El stock y la versión no se tocan por esta vía.
	p.CurrentStock, p.Version = cur.CurrentStock, cur.Version
	r.S.Products[p.ID] = *p
	return nil
}

func (r ProductRepo) Delete(_ context.Context, id string) error {
	r.S.mu.Lock()
	defer r.S.mu.Unlock()
	if _, ok := r.S.Products[id]; !ok {
		return domain.ErrNotFound
	}
	for _, items := range r.S.SaleItems {
		for _, it := range items {
			if it.ProductID == id {
				return fmt.Errorf("producto con ventas: %w", domain.ErrConflict)
			}
		}
	}
	delete(r.S.Products, id)
	return nil
}

func (r ProductRepo) AdjustStock(_ context.Context, id string, delta decimal.Decimal, expectedVersion int64) error {
	r.S.mu.Lock()
	defer r.S.mu.Unlock()
	if err := r.S.fail("product.AdjustStock"); err != nil {
		return err
	}
	p, ok := r.S.Products[id]
	if !ok || p.Version != expectedVersion {
		return fmt.Errorf("stock de %s: %w", id, domain.ErrConflict)
	}
	p.CurrentStock = p.CurrentStock.Add(delta)
	p.Version++
	r.S.Products[id] = p
	return nil
}

// ── Customer ──────────────────────────────────────────────────────────────────

// CustomerRepo repositorio de clientes en memoria.
type CustomerRepo struct{ S *Store }

var _ repository.CustomerRepository = CustomerRepo{}

func (r CustomerRepo) Create(_ context.Context, c *entity.Customer) error {
	r.S.mu.Lock()
	defer r.S.mu.Unlock()
	for _, other := range r.S.Customers {
		if c.Phone != "" && other.Phone == c.Phone {
			return domain.ErrDuplicate
		}
	}
	c.Version = 0
	r.S.Customers[c.ID] = *c
	return nil
}

func (r CustomerRepo) GetByID(_ context.Context, id string) (*entity.Customer, error) {
	r.S.mu.Lock()
	defer r.S.mu.Unlock()
	c, ok := r.S.Customers[id]
	if !ok {
		return nil, nil
	}
	return &c, nil
}

func (r CustomerRepo) GetByPhone(_ context.Context, phone string) (*entity.Customer, error) {
	r.S.mu.Lock()
	defer r.S.mu.Unlock()
	for _, c := range r.S.Customers {
		if c.Phone == phone {
			c := c
			return &c, nil
		}
	}
	return nil, nil
}

func (r CustomerRepo) List(_ context.Context, f repository.PartyFilter) ([]*entity.Customer, int, error) {
	r.S.mu.Lock()
	defer r.S.mu.Unlock()
	var out []*entity.Customer
	for _, c := range r.S.Customers {
		c := c
		if f.Search != "" && !contains(c.Name+" "+c.ShopName+" "+c.Phone, f.Search) {
			continue
		}
		if f.WithBalance && !c.OutstandingBalance.IsPositive() {
			continue
		}
		out = append(out, &c)
	}
	if f.WithBalance {
		sort.Slice(out, func(i, j int) bool { return out[i].OutstandingBalance.GreaterThan(out[j].OutstandingBalance) })
	} else {
		sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	}
	return page(out, f.Limit, f.Offset), len(out), nil
}

func (r CustomerRepo) Update(_ context.Context, c *entity.Customer) error {
	r.S.mu.Lock()
	defer r.S.mu.Unlock()
	cur, ok := r.S.Customers[c.ID]
	if !ok {
		return domain.ErrNotFound
	}
	c.OutstandingBalance, c.Version = cur.OutstandingBalance, cur.Version
	r.S.Customers[c.ID] = *c
	return nil
}

func (r CustomerRepo) AdjustBalance(_ context.Context, id string, delta decimal.Decimal, expectedVersion int64) error {
	r.S.mu.Lock()
	defer r.S.mu.Unlock()
	if err := r.S.fail("customer.AdjustBalance"); err != nil {
		return err
	}
	c, ok := r.S.Customers[id]
	if !ok || c.Version != expectedVersion {
		return fmt.Errorf("saldo de %s: %w", id, domain.ErrConflict)
	}
	c.OutstandingBalance = c.OutstandingBalance.Add(delta)
	c.Version++
	r.S.Customers[id] = c
	return nil
}

func (r CustomerRepo) TotalOutstanding(_ context.Context) (decimal.Decimal, error) {
	r.S.mu.Lock()
	defer r.S.mu.Unlock()
	total := decimal.Zero
	for _, c := range r.S.Customers {
		if c.OutstandingBalance.IsPositive() {
			total = total.Add(c.OutstandingBalance)
		}
	}
	return total, nil
}

// ── Vendor ────────────────────────────────────────────────────────────────────

// VendorRepo repositorio de proveedores en memoria.
type VendorRepo struct{ S *Store }

var _ repository.VendorRepository = VendorRepo{}

func (r VendorRepo) Create(_ context.Context, v *entity.Vendor) error {
	r.S.mu.Lock()
	defer r.S.mu.Unlock()
	for _, other := range r.S.Vendors {
		if v.Phone != "" && other.Phone == v.Phone {
			return domain.ErrDuplicate
		}
	}
	v.Version = 0
	r.S.Vendors[v.ID] = *v
	return nil
}

func (r VendorRepo) GetByID(_ context.Context, id string) (*entity.Vendor, error) {
	r.S.mu.Lock()
	defer r.S.mu.Unlock()
	v, ok := r.S.Vendors[id]
	if !ok {
		return nil, nil
	}
	return &v, nil
}

func (r VendorRepo) GetByPhone(_ context.Context, phone string) (*entity.Vendor, error) {
	r.S.mu.Lock()
	defer r.S.mu.Unlock()
	for _, v := range r.S.Vendors {
		if v.Phone == phone {
			v := v
			return &v, nil
		}
	}
	return nil, nil
}

func (r VendorRepo) List(_ context.Context, f repository.PartyFilter) ([]*entity.Vendor, int, error) {
	r.S.mu.Lock()
	defer r.S.mu.Unlock()
	var out []*entity.Vendor
	for _, v := range r.S.Vendors {
		v := v
		if f.Search != "" && !contains(v.Name+" "+v.Phone, f.Search) {
			continue
		}
		if f.WithBalance && !v.OutstandingBalance.IsPositive() {
			continue
		}
		out = append(out, &v)
	}
	if f.WithBalance {
		sort.Slice(out, func(i, j int) bool { return out[i].OutstandingBalance.GreaterThan(out[j].OutstandingBalance) })
	} else {
		sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	}
	return page(out, f.Limit, f.Offset), len(out), nil
}

func (r VendorRepo) Update(_ context.Context, v *entity.Vendor) error {
	r.S.mu.Lock()
	defer r.S.mu.Unlock()
	cur, ok := r.S.Vendors[v.ID]
	if !ok {
		return domain.ErrNotFound
	}
	v.OutstandingBalance, v.Version = cur.OutstandingBalance, cur.Version
	r.S.Vendors[v.ID] = *v
	return nil
}

func (r VendorRepo) AdjustBalance(_ context.Context, id string, delta decimal.Decimal, expectedVersion int64) error {
	r.S.mu.Lock()
	defer r.S.mu.Unlock()
	if err := r.S.fail("vendor.AdjustBalance"); err != nil {
		return err
	}
	v, ok := r.S.Vendors[id]
	if !ok || v.Version != expectedVersion {
		return fmt.Errorf("saldo de %s: %w", id, domain.ErrConflict)
	}
	v.OutstandingBalance = v.OutstandingBalance.Add(delta)
	v.Version++
	r.S.Vendors[id] = v
	return nil
}

func (r VendorRepo) TotalOutstanding(_ context.Context) (decimal.Decimal, error) {
	r.S.mu.Lock()
	defer r.S.mu.Unlock()
	total := decimal.Zero
	for _, v := range r.S.Vendors {
		if v.OutstandingBalance.IsPositive() {
			total = total.Add(v.OutstandingBalance)
		}
	}
	return total, nil
}

// ── Sale ──────────────────────────────────────────────────────────────────────

// SaleRepo repositorio de ventas en memoria.
type SaleRepo struct{ S *Store }

var _ repository.SaleRepository = SaleRepo{}

func (r SaleRepo) Create(_ context.Context, sale *entity.Sale) error {
	r.S.mu.Lock()
	defer r.S.mu.Unlock()
	if err := r.S.fail("sale.Create"); err != nil {
		return err
	}
	for _, other := range r.S.Sales {
		if other.BillNumber == sale.BillNumber {
			return domain.ErrDuplicate
		}
	}
	stored := *sale
	stored.Customer = nil
	r.S.Sales[sale.ID] = stored
	return nil
}

func (r SaleRepo) CreateItem(_ context.Context, it *entity.SaleItem) error {
	r.S.mu.Lock()
	defer r.S.mu.Unlock()
	if err := r.S.fail("sale.CreateItem"); err != nil {
		return err
	}
	if _, ok := r.S.Products[it.ProductID]; !ok {
		return domain.ErrProductNotFound
	}
	stored := *it
	stored.Product = nil
	r.S.SaleItems[it.SaleID] = append(r.S.SaleItems[it.SaleID], stored)
	return nil
}

func (r SaleRepo) resolve(s entity.Sale) *entity.Sale {
	if s.CustomerID != nil {
		if c, ok := r.S.Customers[*s.CustomerID]; ok {
			s.Customer = &c
		}
	}
	return &s
}

func (r SaleRepo) GetByID(_ context.Context, id string) (*entity.Sale, error) {
	r.S.mu.Lock()
	defer r.S.mu.Unlock()
	s, ok := r.S.Sales[id]
	if !ok {
		return nil, nil
	}
	return r.resolve(s), nil
}

func (r SaleRepo) GetItems(_ context.Context, saleID string) ([]*entity.SaleItem, error) {
	r.S.mu.Lock()
	defer r.S.mu.Unlock()
	items := r.S.SaleItems[saleID]
	out := make([]*entity.SaleItem, 0, len(items))
	for _, it := range items {
		it := it
		if p, ok := r.S.Products[it.ProductID]; ok {
			it.Product = &p
		}
		out = append(out, &it)
	}
	return out, nil
}

func (r SaleRepo) List(_ context.Context, f repository.SaleFilter) ([]*entity.Sale, int, error) {
	r.S.mu.Lock()
	defer r.S.mu.Unlock()
	var out []*entity.Sale
	for _, s := range r.S.Sales {
		sale := r.resolve(s)
		if f.Status != "" && sale.Status != f.Status {
			continue
		}
		if f.Date != nil && sale.SaleDate.Format("2006-01-02") != f.Date.Format("2006-01-02") {
			continue
		}
		if f.Search != "" {
			hay := sale.BillNumber
			if sale.Customer != nil {
				hay += " " + sale.Customer.Name + " " + sale.Customer.ShopName
			}
			if !contains(hay, f.Search) {
				continue
			}
		}
		out = append(out, sale)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return page(out, f.Limit, f.Offset), len(out), nil
}

func (r SaleRepo) UpdatePayment(_ context.Context, prev *entity.Sale, paid, remaining decimal.Decimal, status string) error {
	r.S.mu.Lock()
	defer r.S.mu.Unlock()
	s, ok := r.S.Sales[prev.ID]
	if !ok || s.Status != prev.Status || !s.PaidAmount.Equal(prev.PaidAmount) {
		return fmt.Errorf("venta %s modificada concurrentemente: %w", prev.ID, domain.ErrConflict)
	}
	s.PaidAmount, s.RemainingBalance, s.Status = paid, remaining, status
	r.S.Sales[prev.ID] = s
	return nil
}

func (r SaleRepo) UpdateStatus(_ context.Context, id, fromStatus, toStatus string) error {
	r.S.mu.Lock()
	defer r.S.mu.Unlock()
	if err := r.S.fail("sale.UpdateStatus"); err != nil {
		return err
	}
	s, ok := r.S.Sales[id]
	if !ok || s.Status != fromStatus {
		return fmt.Errorf("venta %s ya no está en estado %s: %w", id, fromStatus, domain.ErrConflict)
	}
	s.Status = toStatus
	r.S.Sales[id] = s
	return nil
}

// ── Purchase ──────────────────────────────────────────────────────────────────

// PurchaseRepo repositorio de compras en memoria.
type PurchaseRepo struct{ S *Store }

var _ repository.PurchaseRepository = PurchaseRepo{}

func (r PurchaseRepo) Create(_ context.Context, p *entity.Purchase) error {
	r.S.mu.Lock()
	defer r.S.mu.Unlock()
	if err := r.S.fail("purchase.Create"); err != nil {
		return err
	}
	stored := *p
	stored.Vendor = nil
	r.S.Purchases[p.ID] = stored
	return nil
}

func (r PurchaseRepo) CreateItem(_ context.Context, it *entity.PurchaseItem) error {
	r.S.mu.Lock()
	defer r.S.mu.Unlock()
	if err := r.S.fail("purchase.CreateItem"); err != nil {
		return err
	}
	if _, ok := r.S.Products[it.ProductID]; !ok {
		return domain.ErrProductNotFound
	}
	stored := *it
	stored.Product = nil
	r.S.PurchaseItems[it.PurchaseID] = append(r.S.PurchaseItems[it.PurchaseID], stored)
	return nil
}

func (r PurchaseRepo) resolve(p entity.Purchase) *entity.Purchase {
	if v, ok := r.S.Vendors[p.VendorID]; ok {
		p.Vendor = &v
	}
	return &p
}

func (r PurchaseRepo) GetByID(_ context.Context, id string) (*entity.Purchase, error) {
	r.S.mu.Lock()
	defer r.S.mu.Unlock()
	p, ok := r.S.Purchases[id]
	if !ok {
		return nil, nil
	}
	return r.resolve(p), nil
}

func (r PurchaseRepo) GetItems(_ context.Context, purchaseID string) ([]*entity.PurchaseItem, error) {
	r.S.mu.Lock()
	defer r.S.mu.Unlock()
	items := r.S.PurchaseItems[purchaseID]
	out := make([]*entity.PurchaseItem, 0, len(items))
	for _, it := range items {
		it := it
		if p, ok := r.S.Products[it.ProductID]; ok {
			it.Product = &p
		}
		out = append(out, &it)
	}
	return out, nil
}

func (r PurchaseRepo) List(_ context.Context, f repository.PurchaseFilter) ([]*entity.Purchase, int, error) {
	r.S.mu.Lock()
	defer r.S.mu.Unlock()
	var out []*entity.Purchase
	for _, p := range r.S.Purchases {
		pur := r.resolve(p)
		if f.VendorID != "" && pur.VendorID != f.VendorID {
			continue
		}
		if f.Search != "" && (pur.Vendor == nil || !contains(pur.Vendor.Name, f.Search)) {
			continue
		}
		out = append(out, pur)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return page(out, f.Limit, f.Offset), len(out), nil
}

func (r PurchaseRepo) UpdatePayment(_ context.Context, prev *entity.Purchase, paid, remaining decimal.Decimal) error {
	r.S.mu.Lock()
	defer r.S.mu.Unlock()
	p, ok := r.S.Purchases[prev.ID]
	if !ok || !p.PaidAmount.Equal(prev.PaidAmount) {
		return fmt.Errorf("compra %s modificada concurrentemente: %w", prev.ID, domain.ErrConflict)
	}
	p.PaidAmount, p.RemainingBalance = paid, remaining
	r.S.Purchases[prev.ID] = p
	return nil
}

// ── Payment ───────────────────────────────────────────────────────────────────

// PaymentRepo repositorio de abonos en memoria.
type PaymentRepo struct{ S *Store }

var _ repository.PaymentRepository = PaymentRepo{}

func (r PaymentRepo) CreateCustomerPayment(_ context.Context, p *entity.CustomerPayment) error {
	r.S.mu.Lock()
	defer r.S.mu.Unlock()
	if err := r.S.fail("payment.CreateCustomerPayment"); err != nil {
		return err
	}
	r.S.CustomerPayments = append(r.S.CustomerPayments, *p)
	return nil
}

func (r PaymentRepo) CreateVendorPayment(_ context.Context, p *entity.VendorPayment) error {
	r.S.mu.Lock()
	defer r.S.mu.Unlock()
	if err := r.S.fail("payment.CreateVendorPayment"); err != nil {
		return err
	}
	r.S.VendorPayments = append(r.S.VendorPayments, *p)
	return nil
}

func (r PaymentRepo) ListCustomerPayments(_ context.Context, customerID string, limit, offset int) ([]*entity.CustomerPayment, error) {
	r.S.mu.Lock()
	defer r.S.mu.Unlock()
	var out []*entity.CustomerPayment
	for _, p := range r.S.CustomerPayments {
		p := p
		if p.CustomerID == customerID {
			out = append(out, &p)
		}
	}
	return page(out, limit, offset), nil
}

func (r PaymentRepo) ListVendorPayments(_ context.Context, vendorID string, limit, offset int) ([]*entity.VendorPayment, error) {
	r.S.mu.Lock()
	defer r.S.mu.Unlock()
	var out []*entity.VendorPayment
	for _, p := range r.S.VendorPayments {
		p := p
		if p.VendorID == vendorID {
			out = append(out, &p)
		}
	}
	return page(out, limit, offset), nil
}
