package store

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/pliu/moneygram/internal/models"
)

const (
	KeySession        = "currentUser"
	KeyUsers          = "users"
	KeyChats          = "chats"
	KeyMessagesPrefix = "messages_"
)

func MessagesKey(chatID string) string {
	return KeyMessagesPrefix + chatID
}

// KV is the raw key-value backend. Get reports ok=false for absent keys.
type KV interface {
	Get(ctx context.Context, key string) (value []byte, ok bool, err error)
	Put(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	Keys(ctx context.Context, prefix string) ([]string, error)
}

type Store interface {
	// User operations
	GetUsers(ctx context.Context) ([]models.User, error)
	PutUsers(ctx context.Context, users []models.User) error

	// Session operations
	GetSession(ctx context.Context) (*models.User, error)
	PutSession(ctx context.Context, user models.User) error
	ClearSession(ctx context.Context) error

	// Chat operations. GetChats reports found=false when nothing was ever stored.
	GetChats(ctx context.Context) (chats []models.Chat, found bool, err error)
	PutChats(ctx context.Context, chats []models.Chat) error
	GetMessages(ctx context.Context, chatID string) ([]models.Message, error)
	PutMessages(ctx context.Context, chatID string, messages []models.Message) error
	ThreadCount(ctx context.Context) (int, error)
}

// JSONStore implements Store by serializing every value as JSON into a KV.
type JSONStore struct {
	kv KV
}

func New(kv KV) *JSONStore {
	return &JSONStore{kv: kv}
}

func (s *JSONStore) GetUsers(ctx context.Context) ([]models.User, error) {
	users := []models.User{}
	if _, err := s.load(ctx, KeyUsers, &users); err != nil {
		return nil, err
	}
	return users, nil
}

func (s *JSONStore) PutUsers(ctx context.Context, users []models.User) error {
	return s.save(ctx, KeyUsers, users)
}

func (s *JSONStore) GetSession(ctx context.Context) (*models.User, error) {
	var user models.User
	found, err := s.load(ctx, KeySession, &user)
	if err != nil || !found {
		return nil, err
	}
	return &user, nil
}

func (s *JSONStore) PutSession(ctx context.Context, user models.User) error {
	return s.save(ctx, KeySession, user.Public())
}

func (s *JSONStore) ClearSession(ctx context.Context) error {
	return s.kv.Delete(ctx, KeySession)
}

func (s *JSONStore) GetChats(ctx context.Context) ([]models.Chat, bool, error) {
	chats := []models.Chat{}
	found, err := s.load(ctx, KeyChats, &chats)
	if err != nil {
		return nil, false, err
	}
	return chats, found, nil
}

func (s *JSONStore) PutChats(ctx context.Context, chats []models.Chat) error {
	return s.save(ctx, KeyChats, chats)
}

func (s *JSONStore) GetMessages(ctx context.Context, chatID string) ([]models.Message, error) {
	messages := []models.Message{}
	if _, err := s.load(ctx, MessagesKey(chatID), &messages); err != nil {
		return nil, err
	}
	return messages, nil
}

func (s *JSONStore) PutMessages(ctx context.Context, chatID string, messages []models.Message) error {
	return s.save(ctx, MessagesKey(chatID), messages)
}

func (s *JSONStore) ThreadCount(ctx context.Context) (int, error) {
	keys, err := s.kv.Keys(ctx, KeyMessagesPrefix)
	if err != nil {
		return 0, err
	}
	return len(keys), nil
}

func (s *JSONStore) load(ctx context.Context, key string, dst interface{}) (bool, error) {
	raw, ok, err := s.kv.Get(ctx, key)
	if err != nil {
		return false, fmt.Errorf("read %s: %w", key, err)
	}
	if !ok || len(strings.TrimSpace(string(raw))) == 0 {
		return false, nil
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return false, fmt.Errorf("decode %s: %w", key, err)
	}
	return true, nil
}

func (s *JSONStore) save(ctx context.Context, key string, v interface{}) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	if err := s.kv.Put(ctx, key, raw); err != nil {
		return fmt.Errorf("write %s: %w", key, err)
	}
	return nil
}
