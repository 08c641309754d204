package models

import "time"

// Wallet is the derived earnings summary of a technician. It is never persisted.
type Wallet struct {
	Balance    float64          `json:"balance"`
	Today      float64          `json:"today"`
	Week       float64          `json:"week"`
	Month      float64          `json:"month"`
	Pending    float64          `json:"pending"`
	Activities []WalletActivity `json:"activities"`
}

// WalletActivity is one completed booking with its commission breakdown.
type WalletActivity struct {
	ID         string    `json:"id"`
	OrderID    string    `json:"orderId"`
	Amount     float64   `json:"amount"`
	TotalPrice float64   `json:"totalPrice"`
	Commission float64   `json:"commission"`
	Date       time.Time `json:"date"`
	Device     string    `json:"device"`
	Type       string    `json:"type"`
}
