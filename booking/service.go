package booking

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math"
	"strings"
	"time"

	"tourguide/errs"
	"tourguide/models"
	"tourguide/utils"
)

// IdentityVerifier validates a bearer credential and yields the user id.
type IdentityVerifier interface {
	Verify(credential string) (string, error)
}

// Publisher announces created bookings to other parts of the system.
type Publisher interface {
	PublishBooking(ctx context.Context, ev models.BookingEvent) error
}

type CreateRequest struct {
	AttractionName     string   `json:"attractionName"`
	AttractionLocation string   `json:"attractionLocation"`
	VisitDate          string   `json:"visitDate"`
	NumberOfVisitors   int      `json:"numberOfVisitors"`
	TotalPrice         *float64 `json:"totalPrice"`
}

type Service struct {
	store    Store
	verifier IdentityVerifier
	events   Publisher
	qrSize   int

	now   func() time.Time
	newID func() string
}

// NewService wires the booking flow. events may be nil.
func NewService(store Store, verifier IdentityVerifier, events Publisher, qrSize int) *Service {
	if qrSize <= 0 {
		qrSize = 256
	}
	return &Service{
		store:    store,
		verifier: verifier,
		events:   events,
		qrSize:   qrSize,
		now:      time.Now,
		newID:    utils.GetUUID,
	}
}

func (s *Service) authenticate(credential string) (string, error) {
	if credential == "" {
		return "", errs.E(errs.ErrUnauthenticated, "No token provided")
	}
	userID, err := s.verifier.Verify(credential)
	if err != nil {
		if errors.Is(err, errs.ErrUnauthenticated) {
			return "", err
		}
		return "", errs.E(errs.ErrUnauthenticated, "Invalid token")
	}
	return userID, nil
}

var visitDateLayouts = []string{"2006-01-02", time.RFC3339, time.RFC3339Nano}

func parseVisitDate(s string) (time.Time, error) {
	for _, layout := range visitDateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, errs.E(errs.ErrInvalidArgument, "Invalid visit date")
}

func (req *CreateRequest) validate() (time.Time, error) {
	req.AttractionName = strings.TrimSpace(req.AttractionName)
	req.AttractionLocation = strings.TrimSpace(req.AttractionLocation)
	req.VisitDate = strings.TrimSpace(req.VisitDate)

	if req.AttractionName == "" || req.AttractionLocation == "" {
		return time.Time{}, errs.E(errs.ErrInvalidArgument, "Attraction name and location are required")
	}
	if req.VisitDate == "" {
		return time.Time{}, errs.E(errs.ErrInvalidArgument, "Please select a visit date")
	}
	visit, err := parseVisitDate(req.VisitDate)
	if err != nil {
		return time.Time{}, err
	}
	if req.NumberOfVisitors == 0 {
		req.NumberOfVisitors = 1
	}
	if req.NumberOfVisitors < 0 {
		return time.Time{}, errs.E(errs.ErrInvalidArgument, "Number of visitors must be positive")
	}
	if req.TotalPrice == nil {
		return time.Time{}, errs.E(errs.ErrInvalidArgument, "Total price is required")
	}
	if p := *req.TotalPrice; p < 0 || math.IsNaN(p) || math.IsInf(p, 0) {
		return time.Time{}, errs.E(errs.ErrInvalidArgument, "Total price must be a non-negative number")
	}
	return visit, nil
}

// Create verifies the credential, encodes the voucher and persists a
// confirmed booking. Nothing is written unless every step before the insert
// succeeded.
func (s *Service) Create(ctx context.Context, credential string, req CreateRequest) (*models.Booking, error) {
	userID, err := s.authenticate(credential)
	if err != nil {
		return nil, err
	}
	visit, err := req.validate()
	if err != nil {
		return nil, err
	}

	bookingID := s.newID()
	qr, err := EncodeVoucher(voucherPayload{
		BookingID:          bookingID,
		AttractionName:     req.AttractionName,
		AttractionLocation: req.AttractionLocation,
		VisitDate:          req.VisitDate,
		NumberOfVisitors:   req.NumberOfVisitors,
		TotalPrice:         *req.TotalPrice,
	}, s.qrSize)
	if err != nil {
		return nil, err
	}

	// MongoDB keeps millisecond precision.
	bookedAt := s.now().UTC().Truncate(time.Millisecond)

	b := &models.Booking{
		BookingID:          bookingID,
		UserID:             userID,
		AttractionName:     req.AttractionName,
		AttractionLocation: req.AttractionLocation,
		BookingDate:        bookedAt,
		VisitDate:          visit,
		NumberOfVisitors:   req.NumberOfVisitors,
		TotalPrice:         *req.TotalPrice,
		Status:             models.StatusConfirmed,
		QRCode:             qr,
	}
	if err := s.store.Insert(ctx, b); err != nil {
		if !errors.Is(err, errs.ErrStorage) {
			err = fmt.Errorf("%w: %v", errs.ErrStorage, err)
		}
		return nil, err
	}

	if s.events != nil {
		ev := models.BookingEvent{
			Type:               "booking-created",
			BookingID:          b.BookingID,
			AttractionName:     b.AttractionName,
			AttractionLocation: b.AttractionLocation,
			NumberOfVisitors:   b.NumberOfVisitors,
			VisitDate:          b.VisitDate,
			CreatedAt:          b.BookingDate,
		}
		if err := s.events.PublishBooking(ctx, ev); err != nil {
			log.Printf("Failed to publish booking event for %s: %v", b.BookingID, err)
		}
	}
	return b, nil
}

// ListByUser returns the caller's bookings, most recent first.
func (s *Service) ListByUser(ctx context.Context, credential string) ([]models.Booking, error) {
	userID, err := s.authenticate(credential)
	if err != nil {
		return nil, err
	}
	bookings, err := s.store.FindByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if bookings == nil {
		bookings = []models.Booking{}
	}
	return bookings, nil
}

// GetByID needs no credential: the unguessable bookingId is the capability.
func (s *Service) GetByID(ctx context.Context, bookingID string) (*models.Booking, error) {
	if strings.TrimSpace(bookingID) == "" {
		return nil, errs.E(errs.ErrNotFound, "Booking not found")
	}
	return s.store.FindByBookingID(ctx, bookingID)
}
