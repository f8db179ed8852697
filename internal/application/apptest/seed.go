package apptest

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/ventas-api/internal/domain/entity"
)

// D atajo para decimales en tests: D("18.5").
func D(s string) decimal.Decimal { return decimal.RequireFromString(s) }

// SeedProduct inserta un producto con precio y stock dados.
func (s *Store) SeedProduct(name, price, stock string) entity.Product {
	now := time.Now()
	p := entity.Product{
		ID:            uuid.New().String(),
		Name:          name,
		UnitType:      entity.UnitPieces,
		RetailPrice:   D(price),
		CurrentStock:  D(stock),
		MinStockLevel: decimal.NewFromInt(entity.DefaultMinStockLevel),
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	s.mu.Lock()
	s.Products[p.ID] = p
	s.mu.Unlock()
	return p
}

// SeedCustomer inserta un cliente con el saldo y límite dados.
func (s *Store) SeedCustomer(name, balance, creditLimit string) entity.Customer {
	now := time.Now()
	c := entity.Customer{
		ID:                 uuid.New().String(),
		Name:               name,
		ShopName:           name + " Store",
		OutstandingBalance: D(balance),
		CreditLimit:        D(creditLimit),
		CreatedAt:          now,
		UpdatedAt:          now,
	}
	s.mu.Lock()
	s.Customers[c.ID] = c
	s.mu.Unlock()
	return c
}

// SeedVendor inserta un proveedor con el saldo y descuento por defecto dados.
func (s *Store) SeedVendor(name, balance, defaultDiscount string) entity.Vendor {
	now := time.Now()
	v := entity.Vendor{
		ID:                     uuid.New().String(),
		Name:                   name,
		OutstandingBalance:     D(balance),
		DefaultDiscountPercent: D(defaultDiscount),
		CreatedAt:              now,
		UpdatedAt:              now,
	}
	s.mu.Lock()
	s.Vendors[v.ID] = v
	s.mu.Unlock()
	return v
}

// Product devuelve el producto guardado (cero si no existe).
func (s *Store) Product(id string) entity.Product {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.Products[id]
}

// Customer devuelve el cliente guardado.
func (s *Store) Customer(id string) entity.Customer {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.Customers[id]
}

// Vendor devuelve el proveedor guardado.
func (s *Store) Vendor(id string) entity.Vendor {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.Vendors[id]
}

// Sale devuelve la venta guardada.
func (s *Store) Sale(id string) entity.Sale {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.Sales[id]
}
