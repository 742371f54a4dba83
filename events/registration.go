package events

import (
	"context"
	"errors"
	"log"
	"net/mail"
	"strings"
	"time"

	"tourguide/errs"
	"tourguide/models"
	"tourguide/utils"
)

// SpoolName is the write-behind queue for registrations.
const SpoolName = "registrations"

const maxAttendees = 50

type Spooler interface {
	Push(ctx context.Context, name string, v any) error
}

type Service struct {
	store Store
	spool Spooler
	now   func() time.Time
}

// NewService builds the registration service; spool may be nil.
func NewService(store Store, spool Spooler) *Service {
	return &Service{store: store, spool: spool, now: time.Now}
}

type RegisterRequest struct {
	EventID   string `json:"eventId"`
	EventName string `json:"eventName"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	Attendees int    `json:"attendees"`
}

func (req *RegisterRequest) validate() error {
	req.EventID = strings.TrimSpace(req.EventID)
	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.TrimSpace(req.Email)
	if req.EventID == "" || req.Name == "" || req.Email == "" {
		return errs.E(errs.ErrInvalidArgument, "eventId, name and email are required")
	}
	if _, err := mail.ParseAddress(req.Email); err != nil {
		return errs.E(errs.ErrInvalidArgument, "Invalid email address")
	}
	if req.Attendees == 0 {
		req.Attendees = 1
	}
	if req.Attendees < 0 || req.Attendees > maxAttendees {
		return errs.E(errs.ErrInvalidArgument, "attendees must be between 1 and 50")
	}
	return nil
}

// Register records a registration for userID. When the primary write fails
// and a spool is configured it is queued and queued is true.
func (s *Service) Register(ctx context.Context, userID string, req RegisterRequest) (reg *models.Registration, queued bool, err error) {
	if userID == "" {
		return nil, false, errs.ErrUnauthenticated
	}
	if err := req.validate(); err != nil {
		return nil, false, err
	}

	reg = &models.Registration{
		ID:               utils.GetUUID(),
		UserID:           userID,
		EventID:          req.EventID,
		EventName:        strings.TrimSpace(req.EventName),
		Name:             req.Name,
		Email:            req.Email,
		Phone:            strings.TrimSpace(req.Phone),
		Attendees:        req.Attendees,
		RegistrationDate: s.now().UTC().Truncate(time.Millisecond),
	}

	err = s.store.Insert(ctx, reg)
	if err == nil {
		log.Printf("User %s registered for event %s", userID, reg.EventID)
		return reg, false, nil
	}
	if !errors.Is(err, errs.ErrStorage) || s.spool == nil {
		return nil, false, err
	}
	if perr := s.spool.Push(ctx, SpoolName, reg); perr != nil {
		log.Printf("Failed to spool registration %s: %v", reg.ID, perr)
		return nil, false, err
	}
	log.Printf("Registration %s queued after storage failure: %v", reg.ID, err)
	return reg, true, nil
}

func (s *Service) ListByUser(ctx context.Context, userID string) ([]models.Registration, error) {
	if userID == "" {
		return nil, errs.ErrUnauthenticated
	}
	return s.store.FindByUser(ctx, userID)
}
