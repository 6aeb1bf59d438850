package models

import (
	"encoding/json"
	"fmt"
	"math"
	"time"
)

// TimestampLayout is how fecha_creacion is rendered, matching SQLite's CURRENT_TIMESTAMP.
const TimestampLayout = "2006-01-02 15:04:05"

// Product is a row of the productos table
type Product struct {
	ID          int64     `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	Name        string    `gorm:"column:nombre;not null" json:"nombre"`
	Price       float64   `gorm:"column:precio;not null" json:"precio"`
	Description string    `gorm:"column:descripcion" json:"descripcion"`
	Stock       int       `gorm:"column:stock;not null" json:"stock"`
	CreatedAt   time.Time `gorm:"column:fecha_creacion;autoCreateTime" json:"fecha_creacion"`
}

// TableName returns the table name for Product model.
func (Product) TableName() string {
	return "productos"
}

// ProductFields is a set of column values to write. Nil pointers are left untouched.
type ProductFields struct {
	Name        *string
	Price       *float64
	Description *string
	Stock       *int
}

// IsEmpty reports whether no field is set.
func (f ProductFields) IsEmpty() bool {
	return f.Name == nil && f.Price == nil && f.Description == nil && f.Stock == nil
}

// Columns returns the supplied fields keyed by column name.
func (f ProductFields) Columns() map[string]any {
	cols := make(map[string]any, 4)
	if f.Name != nil {
		cols["nombre"] = *f.Name
	}
	if f.Price != nil {
		cols["precio"] = *f.Price
	}
	if f.Description != nil {
		cols["descripcion"] = *f.Description
	}
	if f.Stock != nil {
		cols["stock"] = *f.Stock
	}
	return cols
}

// Apply copies the supplied fields onto p.
func (f ProductFields) Apply(p *Product) {
	if f.Name != nil {
		p.Name = *f.Name
	}
	if f.Price != nil {
		p.Price = *f.Price
	}
	if f.Description != nil {
		p.Description = *f.Description
	}
	if f.Stock != nil {
		p.Stock = *f.Stock
	}
}

// CreateProductRequest is the body of POST /productos.
// Pointers distinguish an absent key (or null) from a zero value.
type CreateProductRequest struct {
	Name        *string  `json:"nombre"`
	Price       *float64 `json:"precio"`
	Description *string  `json:"descripcion"`
	Stock       *int     `json:"stock"`
}

// UnmarshalJSON accepts stock written with a zero fraction, e.g. 5.0.
func (r *CreateProductRequest) UnmarshalJSON(data []byte) error {
	type plain CreateProductRequest
	aux := struct {
		*plain
		Stock *json.Number `json:"stock"`
	}{plain: (*plain)(r)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	stock, err := wholeNumber("stock", aux.Stock)
	if err != nil {
		return err
	}
	r.Stock = stock
	return nil
}

// UpdateProductRequest is the body of PUT /productos/{id}; any subset of fields.
type UpdateProductRequest struct {
	Name        *string  `json:"nombre"`
	Price       *float64 `json:"precio"`
	Description *string  `json:"descripcion"`
	Stock       *int     `json:"stock"`
}

// Fields returns the supplied fields of the update.
func (r UpdateProductRequest) Fields() ProductFields {
	return ProductFields{
		Name:        r.Name,
		Price:       r.Price,
		Description: r.Description,
		Stock:       r.Stock,
	}
}

// UnmarshalJSON accepts stock written with a zero fraction, e.g. 5.0.
func (r *UpdateProductRequest) UnmarshalJSON(data []byte) error {
	type plain UpdateProductRequest
	aux := struct {
		*plain
		Stock *json.Number `json:"stock"`
	}{plain: (*plain)(r)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	stock, err := wholeNumber("stock", aux.Stock)
	if err != nil {
		return err
	}
	r.Stock = stock
	return nil
}

// wholeNumber converts n to an int if it has no fractional part.
func wholeNumber(field string, n *json.Number) (*int, error) {
	if n == nil {
		return nil, nil
	}
	if i, err := n.Int64(); err == nil {
		if i < math.MinInt || i > math.MaxInt {
			return nil, fmt.Errorf("%s: %s out of range", field, n)
		}
		v := int(i)
		return &v, nil
	}
	f, err := n.Float64()
	if err != nil || f != math.Trunc(f) || f < math.MinInt64 || f >= math.MaxInt64 {
		return nil, fmt.Errorf("%s: %s is not a whole number", field, n)
	}
	v := int(f)
	return &v, nil
}
