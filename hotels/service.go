package hotels

import (
	"context"
	"encoding/json"
	"log"
	"math"
	"net/url"
	"slices"
	"strings"
	"time"

	"tourguide/errs"
	"tourguide/models"
	"tourguide/rdx"
)

const cachePrefix = "hotels:list:"

type Service struct {
	store Store
	cache rdx.Cache
	ttl   time.Duration
}

// NewService builds the catalog. A nil cache disables caching.
func NewService(store Store, cache rdx.Cache, ttl time.Duration) *Service {
	if cache == nil {
		cache = rdx.NopCache{}
	}
	return &Service{store: store, cache: cache, ttl: ttl}
}

func listKey(f Filter) string {
	return cachePrefix + url.QueryEscape(f.Type) + ":" + url.QueryEscape(strings.ToLower(f.Search))
}

// List returns hotels matching typeFilter and searchText, best rated first.
// typeFilter "All" means no type restriction.
func (s *Service) List(ctx context.Context, typeFilter, searchText string) ([]models.Hotel, error) {
	f := Filter{Type: strings.TrimSpace(typeFilter), Search: strings.TrimSpace(searchText)}
	if f.Type == "All" {
		f.Type = ""
	}

	key := listKey(f)
	if data, ok, err := s.cache.Get(ctx, key); err != nil {
		log.Printf("Hotel cache read failed: %v", err)
	} else if ok {
		var cached []models.Hotel
		if err := json.Unmarshal(data, &cached); err == nil {
			return cached, nil
		}
	}

	hotels, err := s.store.List(ctx, f)
	if err != nil {
		return nil, err
	}
	if hotels == nil {
		hotels = []models.Hotel{}
	}

	if data, err := json.Marshal(hotels); err == nil {
		if err := s.cache.Set(ctx, key, data, s.ttl); err != nil {
			log.Printf("Hotel cache write failed: %v", err)
		}
	}
	return hotels, nil
}

func (s *Service) Get(ctx context.Context, id string) (*models.Hotel, error) {
	return s.store.Get(ctx, id)
}

func validRating(r float64) bool {
	return r >= 0 && r <= 5 && !math.IsNaN(r)
}

func validate(h *models.Hotel) error {
	h.Name = strings.TrimSpace(h.Name)
	h.Location = strings.TrimSpace(h.Location)
	h.Description = strings.TrimSpace(h.Description)
	if h.Name == "" || h.Location == "" || h.Description == "" {
		return errs.E(errs.ErrInvalidArgument, "Name, location and description are required")
	}
	if !slices.Contains(models.HotelTypes, h.Type) {
		return errs.E(errs.ErrInvalidArgument, "Type must be one of Luxury, Budget, Homestay, Mid-range")
	}
	if h.Price < 0 || math.IsNaN(h.Price) {
		return errs.E(errs.ErrInvalidArgument, "Price must be a non-negative number")
	}
	if !validRating(h.Rating) {
		return errs.E(errs.ErrInvalidArgument, "Invalid rating. Must be between 0 and 5.")
	}
	return nil
}

// Create validates and stores a new hotel.
func (s *Service) Create(ctx context.Context, h *models.Hotel) error {
	if err := validate(h); err != nil {
		return err
	}
	if h.Amenities == nil {
		h.Amenities = []string{}
	}
	if err := s.store.Insert(ctx, h); err != nil {
		return err
	}
	s.invalidate(ctx)
	return nil
}

// UpdateRating sets a hotel's rating. Out-of-range values leave the stored
// rating untouched.
func (s *Service) UpdateRating(ctx context.Context, id string, rating *float64) (*models.Hotel, error) {
	if rating == nil || !validRating(*rating) {
		return nil, errs.E(errs.ErrInvalidArgument, "Invalid rating. Must be between 0 and 5.")
	}
	h, err := s.store.UpdateRating(ctx, id, *rating)
	if err != nil {
		return nil, err
	}
	s.invalidate(ctx)
	return h, nil
}

func (s *Service) invalidate(ctx context.Context) {
	if err := s.cache.DeletePrefix(ctx, cachePrefix); err != nil {
		log.Printf("Hotel cache invalidation failed: %v", err)
	}
}
