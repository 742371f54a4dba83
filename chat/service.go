package chat

import (
	"context"
	"errors"
	"log"
	"math/rand"
	"strings"
	"time"

	"tourguide/errs"
	"tourguide/models"
	"tourguide/utils"
)

const (
	SourceGemini   = "gemini"
	SourceFallback = "fallback"

	// SpoolName is the write-behind queue for chat history.
	SpoolName = "chats"

	historyLimit = 100
)

var fallbackReplies = []string{
	"Indore is famous for its street food, especially Poha and Jalebi!",
	"You should visit Rajwada Palace and Lal Bagh Palace for heritage sites.",
	"Sarafa Bazaar is great for shopping traditional items.",
	"Don't miss trying the local Indori cuisine at Chhappan Dukan.",
	"Khajrana Temple is a beautiful spiritual place to visit.",
	"The best time to visit Indore is during winter months (October to February).",
}

// Responder produces an assistant reply for a user message.
type Responder interface {
	Reply(ctx context.Context, message string) (string, error)
}

// Spooler queues a record for a later write.
type Spooler interface {
	Push(ctx context.Context, name string, v any) error
}

type Service struct {
	store Store
	llm   Responder
	spool Spooler
	pick  func(n int) int
	now   func() time.Time
}

// NewService wires the chat service. llm and spool may be nil.
func NewService(store Store, llm Responder, spool Spooler) *Service {
	return &Service{
		store: store,
		llm:   llm,
		spool: spool,
		pick:  rand.Intn,
		now:   time.Now,
	}
}

type Answer struct {
	Reply  string `json:"reply"`
	Source string `json:"source"`
	Saved  bool   `json:"saved"`
	Queued bool   `json:"queued,omitempty"`
}

// Ask answers message, falling back to a canned tip when the model is
// unavailable. Exchanges of signed-in users are saved; a failed save never
// fails the answer.
func (s *Service) Ask(ctx context.Context, userID, message string) (*Answer, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return nil, errs.E(errs.ErrInvalidArgument, "Message is required")
	}

	ans := &Answer{Source: SourceFallback}
	if s.llm != nil {
		reply, err := s.llm.Reply(ctx, message)
		if err == nil {
			ans.Reply, ans.Source = reply, SourceGemini
		} else {
			log.Printf("Chat model unavailable, using fallback: %v", err)
		}
	}
	if ans.Reply == "" {
		ans.Reply = fallbackReplies[s.pick(len(fallbackReplies))]
	}

	if userID != "" {
		queued, err := s.Save(ctx, &models.ChatEntry{
			UserID:      userID,
			UserMessage: message,
			BotResponse: ans.Reply,
			Source:      ans.Source,
		})
		if err != nil {
			log.Printf("Failed to save chat for %s: %v", userID, err)
		} else {
			ans.Saved, ans.Queued = true, queued
		}
	}
	return ans, nil
}

// Save stores one exchange. When the primary write fails and a spool is
// configured the entry is queued instead and queued is true.
func (s *Service) Save(ctx context.Context, c *models.ChatEntry) (queued bool, err error) {
	if c.UserID == "" {
		return false, errs.ErrUnauthenticated
	}
	if strings.TrimSpace(c.UserMessage) == "" || strings.TrimSpace(c.BotResponse) == "" {
		return false, errs.E(errs.ErrInvalidArgument, "userMessage and botResponse are required")
	}
	if c.ID == "" {
		c.ID = utils.GetUUID()
	}
	if c.Timestamp.IsZero() {
		c.Timestamp = s.now()
	}
	c.Timestamp = c.Timestamp.UTC().Truncate(time.Millisecond)

	err = s.store.Insert(ctx, c)
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, errs.ErrStorage) || s.spool == nil {
		return false, err
	}
	if perr := s.spool.Push(ctx, SpoolName, c); perr != nil {
		log.Printf("Failed to spool chat %s: %v", c.ID, perr)
		return false, err
	}
	log.Printf("Chat %s queued after storage failure: %v", c.ID, err)
	return true, nil
}

func (s *Service) History(ctx context.Context, userID string) ([]models.ChatEntry, error) {
	if userID == "" {
		return nil, errs.ErrUnauthenticated
	}
	return s.store.FindByUser(ctx, userID, historyLimit)
}
