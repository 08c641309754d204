package models

import "time"

// BookingStatus is the workflow state of a booking. The string values are a
// public contract consumed by the client apps.
type BookingStatus string

const (
	StatusPendingAssignment BookingStatus = "Pending_Assignment"
	StatusPendingAcceptance BookingStatus = "Pending_Acceptance"
	StatusAwaitingPayment   BookingStatus = "Awaiting_Payment"
	StatusAccepted          BookingStatus = "Accepted"
	StatusOnWay             BookingStatus = "On_Way"
	StatusArrived           BookingStatus = "Arrived"
	StatusRejected          BookingStatus = "Rejected"
	StatusReassignRequested BookingStatus = "Reassign_Requested"
	StatusInProgress        BookingStatus = "In_Progress"
	StatusPickedUp          BookingStatus = "Picked_Up"
	StatusCompleted         BookingStatus = "Completed"
	StatusCancelled         BookingStatus = "Cancelled"
)

// AllBookingStatuses lists every wire-level status value.
var AllBookingStatuses = []BookingStatus{
	StatusPendingAssignment,
	StatusPendingAcceptance,
	StatusAwaitingPayment,
	StatusAccepted,
	StatusOnWay,
	StatusArrived,
	StatusRejected,
	StatusReassignRequested,
	StatusInProgress,
	StatusPickedUp,
	StatusCompleted,
	StatusCancelled,
}

// Valid reports whether s is one of the enumerated statuses.
func (s BookingStatus) Valid() bool {
	for _, v := range AllBookingStatuses {
		if s == v {
			return true
		}
	}
	return false
}

type PaymentMethod string

const (
	PaymentCash PaymentMethod = "Cash"
	PaymentCard PaymentMethod = "Card"
	PaymentUPI  PaymentMethod = "UPI"
)

// Online reports whether the method is settled through the payment gateway.
func (m PaymentMethod) Online() bool {
	return m == PaymentCard || m == PaymentUPI
}

func (m PaymentMethod) Valid() bool {
	return m == PaymentCash || m == PaymentCard || m == PaymentUPI
}

type PaymentStatus string

const (
	PaymentPending PaymentStatus = "Pending"
	PaymentPaid    PaymentStatus = "Paid"
	PaymentFailed  PaymentStatus = "Failed"
)

// BookingIssue is one line of the service descriptor.
type BookingIssue struct {
	IssueName  string  `bson:"issueName" json:"issueName"`
	IssueImage string  `bson:"issueImage,omitempty" json:"issueImage,omitempty"`
	Price      float64 `bson:"price" json:"price"`
}

// Rejection records a technician declining the booking. Entries are only ever appended.
type Rejection struct {
	TechnicianID string    `bson:"technicianId" json:"technicianId"`
	Reason       string    `bson:"reason" json:"reason"`
	RejectedAt   time.Time `bson:"rejectedAt" json:"rejectedAt"`
}

// PickupDetails is present only once the technician has taken the device away.
type PickupDetails struct {
	Images       []string  `bson:"images" json:"images"`
	DeliveryTime string    `bson:"deliveryTime" json:"deliveryTime"`
	IsPickedUp   bool      `bson:"isPickedUp" json:"isPickedUp"`
	PickedUpAt   time.Time `bson:"pickedUpAt" json:"pickedUpAt"`
}

// Booking represents a repair order.
type Booking struct {
	ID           string `bson:"id" json:"id"`
	UserID       string `bson:"userId" json:"userId"`
	TechnicianID string `bson:"technicianId" json:"technicianId"` // empty when unassigned

	DeviceBrand string         `bson:"deviceBrand" json:"deviceBrand"`
	DeviceModel string         `bson:"deviceModel" json:"deviceModel"`
	Issues      []BookingIssue `bson:"issues" json:"issues"`
	TotalPrice  float64        `bson:"totalPrice" json:"totalPrice"` // stored as given, never recomputed from Issues

	ScheduledDate  time.Time `bson:"scheduledDate" json:"scheduledDate"`
	TimeSlot       string    `bson:"timeSlot" json:"timeSlot"`
	AddressID      string    `bson:"addressId,omitempty" json:"addressId,omitempty"`
	AddressDetails string    `bson:"addressDetails,omitempty" json:"addressDetails,omitempty"`

	Status     BookingStatus `bson:"status" json:"status"`
	RejectedBy []Rejection   `bson:"rejectedBy" json:"rejectedBy"`

	PaymentMethod  PaymentMethod  `bson:"paymentMethod" json:"paymentMethod"`
	PaymentStatus  PaymentStatus  `bson:"paymentStatus" json:"paymentStatus"`
	TransactionID  string         `bson:"transactionId" json:"transactionId"`
	PaymentDetails map[string]any `bson:"paymentDetails,omitempty" json:"paymentDetails,omitempty"`

	OTP         string `bson:"otp" json:"otp,omitempty"`
	OTPVerified bool   `bson:"otpVerified" json:"otpVerified"`

	PickupDetails *PickupDetails `bson:"pickupDetails,omitempty" json:"pickupDetails,omitempty"`

	Rating     int    `bson:"rating" json:"rating"`
	ReviewText string `bson:"reviewText" json:"reviewText"`
	Reviewed   bool   `bson:"reviewed" json:"reviewed"`

	CompletedAt *time.Time `bson:"completedAt,omitempty" json:"completedAt,omitempty"`
	CreatedAt   time.Time  `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time  `bson:"updatedAt" json:"updatedAt"`
}

// RejectedTechnicianIDs returns every technician that has ever declined the booking.
func (b *Booking) RejectedTechnicianIDs() []string {
	ids := make([]string, 0, len(b.RejectedBy))
	seen := make(map[string]bool, len(b.RejectedBy))
	for _, r := range b.RejectedBy {
		if r.TechnicianID == "" || seen[r.TechnicianID] {
			continue
		}
		seen[r.TechnicianID] = true
		ids = append(ids, r.TechnicianID)
	}
	return ids
}

// CreateBookingRequest is the intake payload.
type CreateBookingRequest struct {
	UserID         string         `json:"userId"`
	DeviceBrand    string         `json:"deviceBrand"`
	DeviceModel    string         `json:"deviceModel"`
	Issues         []BookingIssue `json:"issues"`
	TotalPrice     float64        `json:"totalPrice"`
	ScheduledDate  time.Time      `json:"scheduledDate"`
	TimeSlot       string         `json:"timeSlot"`
	AddressID      string         `json:"addressId,omitempty"`
	AddressDetails string         `json:"addressDetails,omitempty"`
	TechnicianID   string         `json:"technicianId,omitempty"`
	PaymentMethod  PaymentMethod  `json:"paymentMethod,omitempty"`
}
