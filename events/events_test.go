package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"tourguide/errs"
	"tourguide/middleware"
	"tourguide/models"

	"github.com/julienschmidt/httprouter"
)

type memStore struct {
	mu   sync.Mutex
	regs []models.Registration
	fail bool
}

func (m *memStore) Insert(_ context.Context, reg *models.Registration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail {
		return fmt.Errorf("%w: timeout", errs.ErrStorage)
	}
	m.regs = append(m.regs, *reg)
	return nil
}

func (m *memStore) FindByUser(_ context.Context, userID string) ([]models.Registration, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []models.Registration{}
	for i := len(m.regs) - 1; i >= 0; i-- {
		if m.regs[i].UserID == userID {
			out = append(out, m.regs[i])
		}
	}
	return out, nil
}

type recordingSpool struct {
	pushed []any
}

func (s *recordingSpool) Push(_ context.Context, name string, v any) error {
	if name != SpoolName {
		return fmt.Errorf("unexpected queue %s", name)
	}
	s.pushed = append(s.pushed, v)
	return nil
}

func TestRegisterDefaultsAttendees(t *testing.T) {
	store := &memStore{}
	svc := NewService(store, nil)

	reg, queued, err := svc.Register(context.Background(), "u1", RegisterRequest{
		EventID: "e-rangpanchami", Name: "Asha", Email: "asha@example.com",
	})
	if err != nil || queued {
		t.Fatalf("unexpected result queued=%v err=%v", queued, err)
	}
	if reg.Attendees != 1 || reg.ID == "" || reg.RegistrationDate.IsZero() {
		t.Fatalf("unexpected registration %+v", reg)
	}
}

func TestRegisterValidation(t *testing.T) {
	svc := NewService(&memStore{}, nil)
	ctx := context.Background()

	if _, _, err := svc.Register(ctx, "", RegisterRequest{EventID: "e", Name: "n", Email: "a@b.co"}); !errors.Is(err, errs.ErrUnauthenticated) {
		t.Fatalf("expected ErrUnauthenticated, got %v", err)
	}
	for _, req := range []RegisterRequest{
		{Name: "n", Email: "a@b.co"},
		{EventID: "e", Email: "a@b.co"},
		{EventID: "e", Name: "n", Email: "nope"},
		{EventID: "e", Name: "n", Email: "a@b.co", Attendees: -2},
		{EventID: "e", Name: "n", Email: "a@b.co", Attendees: 51},
	} {
		if _, _, err := svc.Register(ctx, "u1", req); !errors.Is(err, errs.ErrInvalidArgument) {
			t.Fatalf("%+v: expected ErrInvalidArgument, got %v", req, err)
		}
	}
}

func TestRegisterSpoolsOnStorageFailure(t *testing.T) {
	spool := &recordingSpool{}
	svc := NewService(&memStore{fail: true}, spool)

	reg, queued, err := svc.Register(context.Background(), "u1", RegisterRequest{EventID: "e", Name: "n", Email: "a@b.co", Attendees: 3})
	if err != nil || !queued {
		t.Fatalf("expected queued registration, got queued=%v err=%v", queued, err)
	}
	if len(spool.pushed) != 1 || spool.pushed[0].(*models.Registration).ID != reg.ID {
		t.Fatalf("registration not spooled: %+v", spool.pushed)
	}

	svc = NewService(&memStore{fail: true}, nil)
	if _, _, err := svc.Register(context.Background(), "u1", RegisterRequest{EventID: "e", Name: "n", Email: "a@b.co"}); !errors.Is(err, errs.ErrStorage) {
		t.Fatalf("expected ErrStorage without spool, got %v", err)
	}
}

func TestHandlers(t *testing.T) {
	v := middleware.NewJWTVerifier([]byte("secret"))
	token, _ := v.Issue("u1", "asha", time.Hour)
	store := &memStore{}
	h := NewHandler(NewService(store, &recordingSpool{}))

	router := httprouter.New()
	router.POST("/api/events/register", v.Authenticate(h.Register))
	router.GET("/api/events/registrations", v.Authenticate(h.MyRegistrations))

	do := func(method, path, body string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		return rec
	}

	if rec := do(http.MethodPost, "/api/events/register", `{"eventId":"e1","name":"Asha","email":"asha@example.com"}`); rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d %s", rec.Code, rec.Body)
	}
	if rec := do(http.MethodPost, "/api/events/register", `{"eventId":"e1"}`); rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}

	store.fail = true
	rec := do(http.MethodPost, "/api/events/register", `{"eventId":"e2","name":"Asha","email":"asha@example.com"}`)
	if rec.Code != http.StatusAccepted || !strings.Contains(rec.Body.String(), `"queued":true`) {
		t.Fatalf("expected 202 queued, got %d %s", rec.Code, rec.Body)
	}
	store.fail = false

	rec = do(http.MethodGet, "/api/events/registrations", "")
	var resp struct {
		Registrations []models.Registration `json:"registrations"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatal(err)
	}
	if len(resp.Registrations) != 1 || resp.Registrations[0].EventID != "e1" {
		t.Fatalf("unexpected registrations %+v", resp.Registrations)
	}
}
