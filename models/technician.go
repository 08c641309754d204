package models

import "time"

type TechnicianStatus string

const (
	TechnicianPending   TechnicianStatus = "pending"
	TechnicianApproved  TechnicianStatus = "approved"
	TechnicianActive    TechnicianStatus = "active"
	TechnicianBlocked   TechnicianStatus = "blocked"
	TechnicianRejected  TechnicianStatus = "rejected"
	TechnicianSuspended TechnicianStatus = "suspended"
)

func (s TechnicianStatus) Valid() bool {
	switch s {
	case TechnicianPending, TechnicianApproved, TechnicianActive,
		TechnicianBlocked, TechnicianRejected, TechnicianSuspended:
		return true
	}
	return false
}

// Technician is a service provider with an approval status and derived performance aggregates.
type Technician struct {
	ID          string           `bson:"id" json:"id"`
	FirebaseUID string           `bson:"firebaseUid" json:"firebaseUid"`
	Name        string           `bson:"name" json:"name"`
	Email       string           `bson:"email" json:"email"`
	Phone       string           `bson:"phone" json:"phone"`
	PhotoURL    string           `bson:"photoUrl" json:"photoUrl"`
	FCMToken    string           `bson:"fcmToken" json:"-"`
	Status      TechnicianStatus `bson:"status" json:"status"`
	IsOnline    bool             `bson:"isOnline" json:"isOnline"`
	City        string           `bson:"city,omitempty" json:"city,omitempty"`

	// Expertise is recorded but not used by assignment.
	BrandExpertise  []string `bson:"brandExpertise" json:"brandExpertise"`
	RepairExpertise []string `bson:"repairExpertise" json:"repairExpertise"`
	ServiceTypes    []string `bson:"serviceTypes" json:"serviceTypes"`
	CoverageAreas   []string `bson:"coverageAreas" json:"coverageAreas"`

	// Aggregates, recomputed in full after each review.
	AverageRating float64 `bson:"averageRating" json:"averageRating"`
	TotalReviews  int     `bson:"totalReviews" json:"totalReviews"`
	CompletedJobs int     `bson:"completedJobs" json:"completedJobs"`

	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}

// TechnicianRegistration is the register-or-update payload, keyed by FirebaseUID.
type TechnicianRegistration struct {
	FirebaseUID     string   `json:"firebaseUid"`
	Name            string   `json:"name"`
	Email           string   `json:"email"`
	Phone           string   `json:"phone"`
	PhotoURL        string   `json:"photoUrl"`
	City            string   `json:"city"`
	BrandExpertise  []string `json:"brandExpertise"`
	RepairExpertise []string `json:"repairExpertise"`
	ServiceTypes    []string `json:"serviceTypes"`
	CoverageAreas   []string `json:"coverageAreas"`
}
