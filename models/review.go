package models

import "time"

// Review is the immutable record created when a completed booking is rated.
type Review struct {
	ID           string    `bson:"id" json:"id"`
	BookingID    string    `bson:"bookingId" json:"bookingId"`
	TechnicianID string    `bson:"technicianId" json:"technicianId"`
	UserID       string    `bson:"userId" json:"userId"`
	Rating       int       `bson:"rating" json:"rating"`
	ReviewText   string    `bson:"reviewText" json:"reviewText"`
	CreatedAt    time.Time `bson:"createdAt" json:"createdAt"`
}
