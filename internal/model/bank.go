// Package model defines the core data structures for the smsledger application.
package model

// Bank is a known message originator. Name is stored uppercased.
type Bank struct {
	Name string `json:"bank_name"`
	ID   int64  `json:"bank_id"`
}
