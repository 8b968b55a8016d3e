package models

import "time"

// Expense represents a single spend recorded against a user's capital.
type Expense struct {
	ID          string    `json:"id"`
	UserID      string    `json:"userId"`
	Title       string    `json:"title"`
	Category    string    `json:"category"`
	Date        time.Time `json:"date"`
	Price       float64   `json:"price"`
	Quantity    int       `json:"quantity"`
	Description string    `json:"description"`
	Total       float64   `json:"total"` // price * quantity, stored derived
	CreatedAt   time.Time `json:"createdAt"`
}

// ExpensePoint is the total+date projection used for charting.
type ExpensePoint struct {
	Total float64   `json:"total"`
	Date  time.Time `json:"date"`
}
