package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"carpool/internal/domain"
)

// NotificationType represents the type of notification.
type NotificationType string

const (
	NotificationBookingRequested NotificationType = "BOOKING_REQUESTED"
	NotificationBookingApproved  NotificationType = "BOOKING_APPROVED"
	NotificationBookingRejected  NotificationType = "BOOKING_REJECTED"
	NotificationBookingCancelled NotificationType = "BOOKING_CANCELLED"
	NotificationRideCancelled    NotificationType = "RIDE_CANCELLED"
)

// Notification represents a notification to be sent.
type Notification struct {
	Type        NotificationType
	RecipientID string
	Title       string
	Message     string
	Data        map[string]any
	CreatedAt   time.Time
}

// NotificationService handles notification delivery.
type NotificationService struct {
	// In a real system, this would have:
	// - Push notification client (FCM, APNS)
	// - SMS client (Twilio)
	// - Email client (SendGrid)
}

// NewNotificationService creates a new NotificationService.
func NewNotificationService() *NotificationService {
	return &NotificationService{}
}

// NotifyBookingRequested notifies the ride owner about a new booking request.
func (s *NotificationService) NotifyBookingRequested(ctx context.Context, booking *domain.Booking, ride *domain.Ride) error {
	return s.send(ctx, Notification{
		Type:        NotificationBookingRequested,
		RecipientID: ride.OwnerID,
		Title:       "New Booking Request",
		Message:     fmt.Sprintf("A passenger requested %d seat(s) on %s -> %s", booking.SeatsRequested, ride.Source, ride.Destination),
		Data: map[string]any{
			"booking_id": booking.ID,
			"ride_id":    ride.ID,
			"seats":      booking.SeatsRequested,
		},
		CreatedAt: time.Now(),
	})
}

// NotifyBookingDecision notifies the passenger of an approve or reject.
func (s *NotificationService) NotifyBookingDecision(ctx context.Context, booking *domain.Booking) error {
	notificationType := NotificationBookingApproved
	title := "Booking Approved"
	if booking.Status == domain.BookingStatusRejected {
		notificationType = NotificationBookingRejected
		title = "Booking Rejected"
	}

	return s.send(ctx, Notification{
		Type:        notificationType,
		RecipientID: booking.PassengerID,
		Title:       title,
		Message:     fmt.Sprintf("Your booking for %d seat(s) is now %s", booking.SeatsRequested, booking.Status),
		Data: map[string]any{
			"booking_id": booking.ID,
			"ride_id":    booking.RideID,
			"status":     booking.Status,
		},
		CreatedAt: time.Now(),
	})
}

// NotifyBookingCancelled notifies the ride owner that a passenger cancelled.
func (s *NotificationService) NotifyBookingCancelled(ctx context.Context, booking *domain.Booking, ride *domain.Ride) error {
	return s.send(ctx, Notification{
		Type:        NotificationBookingCancelled,
		RecipientID: ride.OwnerID,
		Title:       "Booking Cancelled",
		Message:     fmt.Sprintf("A passenger released %d seat(s) on %s -> %s", booking.SeatsRequested, ride.Source, ride.Destination),
		Data: map[string]any{
			"booking_id": booking.ID,
			"ride_id":    ride.ID,
			"seats":      booking.SeatsRequested,
		},
		CreatedAt: time.Now(),
	})
}

// NotifyRideCancelled notifies every affected passenger about a ride cancellation.
func (s *NotificationService) NotifyRideCancelled(ctx context.Context, ride *domain.Ride, passengerIDs []string) error {
	for _, passengerID := range passengerIDs {
		_ = s.send(ctx, Notification{
			Type:        NotificationRideCancelled,
			RecipientID: passengerID,
			Title:       "Ride Cancelled",
			Message:     fmt.Sprintf("The ride %s -> %s was cancelled by its owner", ride.Source, ride.Destination),
			Data: map[string]any{
				"ride_id": ride.ID,
			},
			CreatedAt: time.Now(),
		})
	}
	return nil
}

// send delivers a notification (mock implementation).
func (s *NotificationService) send(ctx context.Context, notification Notification) error {
	log.Printf("[NOTIFICATION] Type=%s, Recipient=%s, Title=%s, Message=%s",
		notification.Type, notification.RecipientID, notification.Title, notification.Message)
	return nil
}
