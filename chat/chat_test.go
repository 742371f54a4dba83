package chat

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
	"tourguide/rdx"

	"github.com/alicebob/miniredis/v2"
	"github.com/julienschmidt/httprouter"
	"github.com/redis/go-redis/v9"
)

type memStore struct {
	mu    sync.Mutex
	chats []models.ChatEntry
	fail  bool
}

func (m *memStore) Insert(_ context.Context, c *models.ChatEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail {
		return fmt.Errorf("%w: connection refused", errs.ErrStorage)
	}
	m.chats = append(m.chats, *c)
	return nil
}

func (m *memStore) FindByUser(_ context.Context, userID string, limit int64) ([]models.ChatEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []models.ChatEntry{}
	for i := len(m.chats) - 1; i >= 0 && int64(len(out)) < limit; i-- {
		if m.chats[i].UserID == userID {
			out = append(out, m.chats[i])
		}
	}
	return out, nil
}

type stubResponder struct {
	reply string
	err   error
}

func (s stubResponder) Reply(context.Context, string) (string, error) { return s.reply, s.err }

func TestAskUsesModelReply(t *testing.T) {
	store := &memStore{}
	svc := NewService(store, stubResponder{reply: "Try the Sarafa night market."}, nil)

	ans, err := svc.Ask(context.Background(), "u1", "Where to eat?")
	if err != nil {
		t.Fatal(err)
	}
	if ans.Source != SourceGemini || ans.Reply != "Try the Sarafa night market." || !ans.Saved {
		t.Fatalf("unexpected answer %+v", ans)
	}
	if len(store.chats) != 1 || store.chats[0].UserMessage != "Where to eat?" {
		t.Fatalf("exchange not saved: %+v", store.chats)
	}
}

func TestAskFallsBack(t *testing.T) {
	store := &memStore{}
	svc := NewService(store, stubResponder{err: errors.New("503")}, nil)
	svc.pick = func(int) int { return 0 }

	ans, err := svc.Ask(context.Background(), "", "hello")
	if err != nil {
		t.Fatal(err)
	}
	if ans.Source != SourceFallback || ans.Reply != fallbackReplies[0] {
		t.Fatalf("unexpected answer %+v", ans)
	}
	if ans.Saved || len(store.chats) != 0 {
		t.Fatal("anonymous exchange should not be saved")
	}

	if _, err := svc.Ask(context.Background(), "", "   "); !errors.Is(err, errs.ErrInvalidArgument) {
		t.Fatalf("expected ErrInvalidArgument, got %v", err)
	}
}

func TestSaveSpoolsOnStorageFailure(t *testing.T) {
	mr := miniredis.RunT(t)
	conn := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { conn.Close() })
	spool := rdx.NewSpool(conn)

	store := &memStore{fail: true}
	svc := NewService(store, nil, spool)
	ctx := context.Background()

	queued, err := svc.Save(ctx, &models.ChatEntry{UserID: "u1", UserMessage: "hi", BotResponse: "namaste"})
	if err != nil || !queued {
		t.Fatalf("expected queued save, got queued=%v err=%v", queued, err)
	}
	if n, _ := spool.Len(ctx, SpoolName); n != 1 {
		t.Fatalf("expected 1 spooled chat, got %d", n)
	}

	store.fail = false
	spool.Register(SpoolName, rdx.JSONSink(store.Insert))
	spool.FlushOnce(ctx)
	if n, _ := spool.Len(ctx, SpoolName); n != 0 {
		t.Fatalf("spool not drained, %d left", n)
	}
	hist, _ := svc.History(ctx, "u1")
	if len(hist) != 1 || hist[0].BotResponse != "namaste" {
		t.Fatalf("flushed chat missing: %+v", hist)
	}
}

func TestSaveWithoutSpoolSurfacesError(t *testing.T) {
	svc := NewService(&memStore{fail: true}, nil, nil)
	_, err := svc.Save(context.Background(), &models.ChatEntry{UserID: "u1", UserMessage: "hi", BotResponse: "yo"})
	if !errors.Is(err, errs.ErrStorage) {
		t.Fatalf("expected ErrStorage, got %v", err)
	}
}

func TestGeminiReply(t *testing.T) {
	var gotPath, gotKey, gotText string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath, gotKey = r.URL.Path, r.Header.Get("x-goog-api-key")
		if r.URL.RawQuery != "" {
			t.Errorf("unexpected query %q", r.URL.RawQuery)
		}
		var req geminiRequest
		json.NewDecoder(r.Body).Decode(&req)
		gotText = req.Contents[0].Parts[0].Text
		fmt.Fprint(w, `{"candidates":[{"content":{"parts":[{"text":" Visit Rajwada. "}]}}]}`)
	}))
	defer srv.Close()

	g := NewGemini("k123", "gemini-pro")
	g.baseURL = srv.URL
	reply, err := g.Reply(context.Background(), "What to see?")
	if err != nil {
		t.Fatal(err)
	}
	if reply != "Visit Rajwada." {
		t.Fatalf("unexpected reply %q", reply)
	}
	if gotPath != "/models/gemini-pro:generateContent" || gotKey != "k123" {
		t.Fatalf("unexpected request %s key=%s", gotPath, gotKey)
	}
	if !strings.HasSuffix(gotText, "What to see?") {
		t.Fatalf("prompt missing user message: %q", gotText)
	}
}

func TestGeminiErrors(t *testing.T) {
	if _, err := NewGemini("", "gemini-pro").Reply(context.Background(), "hi"); !errors.Is(err, errNoAPIKey) {
		t.Fatalf("expected errNoAPIKey, got %v", err)
	}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":{"message":"quota"}}`, http.StatusTooManyRequests)
	}))
	defer srv.Close()
	g := NewGemini("k", "gemini-pro")
	g.baseURL = srv.URL
	if _, err := g.Reply(context.Background(), "hi"); err == nil {
		t.Fatal("expected error on 429")
	}
}

func TestGeminiErrorOmitsAPIKey(t *testing.T) {
	g := NewGemini("SECRET-KEY-123", "gemini-pro")
	g.baseURL = "http://127.0.0.1:1"
	_, err := g.Reply(context.Background(), "hi")
	if err == nil {
		t.Fatal("expected transport error")
	}
	if strings.Contains(err.Error(), "SECRET-KEY-123") {
		t.Fatalf("error leaks api key: %v", err)
	}
}

func TestHandlers(t *testing.T) {
	v := middleware.NewJWTVerifier([]byte("secret"))
	token, _ := v.Issue("u1", "asha", time.Hour)
	svc := NewService(&memStore{}, stubResponder{reply: "Go to Patalpani."}, nil)
	h := NewHandler(svc)

	router := httprouter.New()
	router.POST("/api/chat/ask", v.OptionalAuth(h.Ask))
	router.POST("/api/chat/save", v.Authenticate(h.Save))
	router.GET("/api/chat/history", v.Authenticate(h.History))

	do := func(method, path, body string, auth bool) *httptest.ResponseRecorder {
		req := httptest.NewRequest(method, path, strings.NewReader(body))
		if auth {
			req.Header.Set("Authorization", "Bearer "+token)
		}
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		return rec
	}

	if rec := do(http.MethodPost, "/api/chat/ask", `{"message":"waterfalls?"}`, true); rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `"source":"gemini"`) {
		t.Fatalf("ask: %d %s", rec.Code, rec.Body)
	}
	if rec := do(http.MethodPost, "/api/chat/save", `{"userMessage":"a","botResponse":"b"}`, false); rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
	if rec := do(http.MethodPost, "/api/chat/save", `{"userMessage":"a","botResponse":"b"}`, true); rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}

	rec := do(http.MethodGet, "/api/chat/history", "", true)
	var resp struct {
		Chats []models.ChatEntry `json:"chats"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatal(err)
	}
	if len(resp.Chats) != 2 || resp.Chats[0].UserMessage != "a" {
		t.Fatalf("expected newest-first history of 2, got %+v", resp.Chats)
	}
}

type blockingStore struct{ memStore }

func (b *blockingStore) Insert(ctx context.Context, _ *models.ChatEntry) error {
	<-ctx.Done()
	return fmt.Errorf("%w: insert chat: %v", errs.ErrStorage, ctx.Err())
}

func TestSaveQueuesWhenInsertTimesOut(t *testing.T) {
	mr := miniredis.RunT(t)
	conn := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { conn.Close() })
	spool := rdx.NewSpool(conn)
	svc := NewService(&blockingStore{}, nil, spool)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	queued, err := svc.Save(ctx, &models.ChatEntry{UserID: "u1", UserMessage: "hi", BotResponse: "namaste"})
	if err != nil || !queued {
		t.Fatalf("expected queued save, got queued=%v err=%v", queued, err)
	}
	if n, _ := spool.Len(context.Background(), SpoolName); n != 1 {
		t.Fatalf("expected 1 spooled chat, got %d", n)
	}
}
