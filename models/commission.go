package models

import "time"

type CommissionType string

const (
	CommissionPercentage CommissionType = "percentage"
	CommissionFixed      CommissionType = "fixed"
)

// DefaultCommissionCategory is the category preferred when a booking carries no category.
const DefaultCommissionCategory = "General"

// Commission is the admin-defined revenue split applied to completed bookings.
type Commission struct {
	ID          string         `bson:"id" json:"id"`
	Category    string         `bson:"category" json:"category"`
	Type        CommissionType `bson:"type" json:"type"`
	Value       float64        `bson:"value" json:"value"` // 10 means 10% for percentage type
	Description string         `bson:"description,omitempty" json:"description,omitempty"`
	IsActive    bool           `bson:"isActive" json:"isActive"`
	UpdatedAt   time.Time      `bson:"updatedAt" json:"updatedAt"`
}

// CommissionInput is an admin's create-or-update request. A nil IsActive leaves an
// existing policy's flag alone and activates a new one.
type CommissionInput struct {
	Category    string         `json:"category"`
	Type        CommissionType `json:"type"`
	Value       float64        `json:"value"`
	Description string         `json:"description,omitempty"`
	IsActive    *bool          `json:"isActive,omitempty"`
}

// Earnings returns the technician's share of price under this commission.
func (c Commission) Earnings(price float64) float64 {
	if c.Type == CommissionFixed {
		return price - c.Value
	}
	return price * (1 - c.Value/100)
}
