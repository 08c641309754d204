package repository

import (
	bookingRepo "ziyonstar/database/repository/booking"
	commissionRepo "ziyonstar/database/repository/commission"
	notificationRepo "ziyonstar/database/repository/notification"
	reviewRepo "ziyonstar/database/repository/review"
	technicianRepo "ziyonstar/database/repository/technician"
	userRepo "ziyonstar/database/repository/user"
)

// Re-export the BookingRepository interface and constructor.
type BookingRepository = bookingRepo.BookingRepository

type BookingUpdate = bookingRepo.BookingUpdate

var NewMongoBookingRepo = bookingRepo.NewMongoBookingRepo

// Re-export the TechnicianRepository interface and constructor.
type TechnicianRepository = technicianRepo.TechnicianRepository

type TechnicianSearchCriteria = technicianRepo.SearchCriteria

type TechnicianUpdate = technicianRepo.TechnicianUpdate

var NewMongoTechnicianRepo = technicianRepo.NewMongoTechnicianRepo

// Re-export the CommissionRepository interface and constructor.
type CommissionRepository = commissionRepo.CommissionRepository

var NewMongoCommissionRepo = commissionRepo.NewMongoCommissionRepo

// Re-export the ReviewRepository interface and constructor.
type ReviewRepository = reviewRepo.ReviewRepository

type RatingStats = reviewRepo.RatingStats

var NewMongoReviewRepo = reviewRepo.NewMongoReviewRepo

// Re-export the NotificationRepository interface and constructor.
type NotificationRepository = notificationRepo.NotificationRepository

var NewMongoNotificationRepo = notificationRepo.NewMongoNotificationRepo

// Re-export the UserRepository interface and constructor.
type UserRepository = userRepo.UserRepository

var NewMongoUserRepo = userRepo.NewMongoUserRepo
