package models

import "github.com/shopspring/decimal"

// Course is a studio program offered for enrollment. Courses come from the
// content dictionary and are never persisted.
type Course struct {
	ID          uint            `json:"id"`
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Details     string          `json:"details"` // duration / session count
	Price       decimal.Decimal `json:"price"`
	Currency    string          `json:"currency"`
}
