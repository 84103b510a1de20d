// Package chat owns chats, channels, groups and their message threads,
// including the scripted reply that follows every user message.
package chat

import (
	"context"
	"errors"
	"math/rand/v2"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/pliu/moneygram/internal/models"
	"github.com/pliu/moneygram/internal/store"
)

var (
	ErrEmptyMessage  = errors.New("message is empty")
	ErrNoActiveChat  = errors.New("no active chat")
	ErrChatNotFound  = errors.New("chat not found")
	ErrInvalidKind   = errors.New("invalid chat kind")
	ErrNoSubscribers = errors.New("chat has no subscriber count")
)

const DefaultReplyDelay = time.Second

var DefaultReplies = []string{
	"Спасибо за ваше сообщение! Как я могу помочь?",
	"Это очень интересно! Расскажите подробнее.",
	"Понял вас. Сейчас уточню информацию.",
	"Отличный вопрос! Давайте разберемся.",
	"Я всегда рад помочь! 😊",
}

// Authorizer decides whether an acting user may send or administer.
type Authorizer interface {
	RequireActive(ctx context.Context, actorID string) (models.User, error)
	RequireAdmin(ctx context.Context, actorID string) (models.User, error)
}

// Notifier is told about every message appended to any thread.
type Notifier interface {
	Publish(msg models.Message)
}

type Options struct {
	ReplyDelay time.Duration
	Replies    []string
	Rand       *rand.Rand
	Now        func() time.Time
	NewID      func() string
	Notifier   Notifier
	// CancelRepliesOnSwitch drops the selecting user's pending replies in
	// their previously selected chat when they select another one.
	CancelRepliesOnSwitch bool
}

type Service struct {
	mu             sync.Mutex
	store          store.Store
	auth           Authorizer
	notifier       Notifier
	replies        []string
	delay          time.Duration
	rng            *rand.Rand
	now            func() time.Time
	newID          func() string
	cancelOnSwitch bool

	// active maps each user to the chat they last selected.
	active map[string]string
	sched  *scheduler
}

func New(s store.Store, auth Authorizer, opts Options) *Service {
	svc := &Service{
		store:          s,
		auth:           auth,
		notifier:       opts.Notifier,
		replies:        opts.Replies,
		delay:          opts.ReplyDelay,
		rng:            opts.Rand,
		now:            opts.Now,
		newID:          opts.NewID,
		cancelOnSwitch: opts.CancelRepliesOnSwitch,
		active:         make(map[string]string),
		sched:          newScheduler(),
	}
	if len(svc.replies) == 0 {
		svc.replies = DefaultReplies
	}
	if svc.delay <= 0 {
		svc.delay = DefaultReplyDelay
	}
	if svc.rng == nil {
		svc.rng = rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), 0x6d6f6e6579))
	}
	if svc.now == nil {
		svc.now = time.Now
	}
	if svc.newID == nil {
		svc.newID = uuid.NewString
	}
	return svc
}

func defaultChats() []models.Chat {
	news, general := 1247, 523
	return []models.Chat{
		{ID: "1", Name: "MoneyGram Support", Type: models.ChatTypeChat, Avatar: "💬", Verified: true},
		{ID: "2", Name: "Новости MoneyGram", Type: models.ChatTypeChannel, Avatar: "📢", Verified: true, Subscribers: &news},
		{ID: "3", Name: "Общий чат", Type: models.ChatTypeGroup, Avatar: "👥", Subscribers: &general},
	}
}

// Bootstrap seeds the default chats on an empty store and returns the
// persisted collection otherwise.
func (s *Service) Bootstrap(ctx context.Context) ([]models.Chat, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadChats(ctx)
}

// loadChats must be called with s.mu held.
func (s *Service) loadChats(ctx context.Context) ([]models.Chat, error) {
	chats, found, err := s.store.GetChats(ctx)
	if err != nil {
		return nil, err
	}
	if found {
		return chats, nil
	}
	chats = defaultChats()
	if err := s.store.PutChats(ctx, chats); err != nil {
		return nil, err
	}
	return chats, nil
}

func (s *Service) findChat(ctx context.Context, chatID string) ([]models.Chat, int, error) {
	chats, err := s.loadChats(ctx)
	if err != nil {
		return nil, -1, err
	}
	for i, c := range chats {
		if c.ID == chatID {
			return chats, i, nil
		}
	}
	return nil, -1, ErrChatNotFound
}

// ListChats filters by case-insensitive name substring and, when kind is
// set, by chat type. Storage order is kept.
func (s *Service) ListChats(ctx context.Context, filter string, kind models.ChatType) ([]models.Chat, error) {
	if kind != "" && !kind.Valid() {
		return nil, ErrInvalidKind
	}

	s.mu.Lock()
	chats, err := s.loadChats(ctx)
	s.mu.Unlock()
	if err != nil {
		return nil, err
	}

	needle := strings.ToLower(filter)
	out := make([]models.Chat, 0, len(chats))
	for _, c := range chats {
		if !strings.Contains(strings.ToLower(c.Name), needle) {
			continue
		}
		if kind != "" && c.Type != kind {
			continue
		}
		out = append(out, c)
	}
	return out, nil
}

// SelectChat makes chatID the active thread of actorID and returns its
// messages.
func (s *Service) SelectChat(ctx context.Context, actorID, chatID string) ([]models.Message, error) {
	if chatID == "" {
		return nil, ErrNoActiveChat
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	messages, err := s.messagesLocked(ctx, chatID)
	if err != nil {
		return nil, err
	}

	prev := s.active[actorID]
	if s.cancelOnSwitch && prev != "" && prev != chatID {
		s.sched.cancel(replyKey{chatID: prev, senderID: actorID})
	}
	s.active[actorID] = chatID
	return messages, nil
}

// Messages returns the thread of chatID without changing any selection.
func (s *Service) Messages(ctx context.Context, chatID string) ([]models.Message, error) {
	if chatID == "" {
		return nil, ErrNoActiveChat
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.messagesLocked(ctx, chatID)
}

func (s *Service) messagesLocked(ctx context.Context, chatID string) ([]models.Message, error) {
	if _, _, err := s.findChat(ctx, chatID); err != nil {
		return nil, err
	}
	return s.store.GetMessages(ctx, chatID)
}

func (s *Service) ActiveChat(actorID string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.active[actorID]
}

func (s *Service) ThreadCount(ctx context.Context) (int, error) {
	return s.store.ThreadCount(ctx)
}
