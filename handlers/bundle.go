package handlers

import (
	"ziyonstar/utils"
)

// HandlerBundle groups all endpoint handlers and the auth settings routes need.
type HandlerBundle struct {
	Tokens     *utils.TokenManager
	AdminToken string

	Booking      *BookingHandler
	Technician   *TechnicianHandler
	Commission   *CommissionHandler
	Notification *NotificationHandler
	Payment      *PaymentHandler
	Storage      *StorageHandler
	Health       *HealthHandler
}
