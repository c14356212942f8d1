package domain

import "time"

// Product is an item offered by the store.
type Product struct {
	ID          int64
	Name        string
	Description string
	Price       float64
	CategoryID  int64
	ImageKey    string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Category groups products.
type Category struct {
	ID   int64
	Name string
}
