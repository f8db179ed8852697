package entity

import "time"

// Company representa la marca o fabricante de un producto.
type Company struct {
	ID        string
	Name      string
	CreatedAt time.Time
	UpdatedAt time.Time
}
