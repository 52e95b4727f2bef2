package model

import (
	"strings"
	"time"
)

// Category is a spend category drawn from a closed vocabulary.
type Category string

// Spend categories.
const (
	CategoryFood          Category = "FOOD"
	CategoryHealth        Category = "HEALTH"
	CategoryShopping      Category = "SHOPPING"
	CategoryTravel        Category = "TRAVEL"
	CategoryEntertainment Category = "ENTERTAINMENT"
	CategoryBills         Category = "BILLS"
	CategorySalary        Category = "SALARY"
	CategoryTransfer      Category = "TRANSFER"
	CategoryFuel          Category = "FUEL"
	CategoryGroceries     Category = "GROCERIES"
	// CategoryOther is the catch-all. It is never persisted as a mapping.
	CategoryOther Category = "OTHER"
)

// Categories is the closed vocabulary offered to the classifier.
var Categories = []Category{
	CategoryFood,
	CategoryHealth,
	CategoryShopping,
	CategoryTravel,
	CategoryEntertainment,
	CategoryBills,
	CategorySalary,
	CategoryTransfer,
	CategoryFuel,
	CategoryGroceries,
	CategoryOther,
}

// ParseCategory normalizes s and reports whether it belongs to the vocabulary.
func ParseCategory(s string) (Category, bool) {
	c := Category(strings.ToUpper(strings.TrimSpace(s)))
	for _, known := range Categories {
		if c == known {
			return c, true
		}
	}
	return "", false
}

// NormalizeMerchant returns the key a merchant is stored under.
func NormalizeMerchant(name string) string {
	return strings.ToUpper(strings.TrimSpace(name))
}

// MerchantCategory maps a merchant name to its spend category.
// MerchantName is unique and stored uppercased.
type MerchantCategory struct {
	CreatedAt    time.Time `json:"created_at"`
	MerchantName string    `json:"merchant_name"`
	Category     Category  `json:"category"`
	ID           int64     `json:"id"`
}
