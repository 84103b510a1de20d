package chat

import (
	"context"
	"log"
	"strings"

	"github.com/pliu/moneygram/internal/models"
)

// SendMessage appends a message from senderID to chatID and schedules the
// scripted reply for the same chat.
func (s *Service) SendMessage(ctx context.Context, chatID, senderID, text string) (models.Message, error) {
	if strings.TrimSpace(text) == "" {
		return models.Message{}, ErrEmptyMessage
	}
	if chatID == "" {
		return models.Message{}, ErrNoActiveChat
	}
	if _, err := s.auth.RequireActive(ctx, senderID); err != nil {
		return models.Message{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, _, err := s.findChat(ctx, chatID); err != nil {
		return models.Message{}, err
	}
	msg, err := s.appendMessage(ctx, chatID, senderID, text)
	if err != nil {
		return models.Message{}, err
	}

	s.sched.schedule(replyKey{chatID: chatID, senderID: senderID}, s.delay, func() { s.reply(chatID) })
	return msg, nil
}

// reply re-reads the thread when it fires, so user messages sent in the
// meantime stay ahead of it.
func (s *Service) reply(chatID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	text := s.replies[s.rng.IntN(len(s.replies))]
	if _, err := s.appendMessage(context.Background(), chatID, models.AISenderID, text); err != nil {
		log.Printf("Error saving scripted reply for chat %s: %v", chatID, err)
	}
}

// appendMessage must be called with s.mu held.
func (s *Service) appendMessage(ctx context.Context, chatID, senderID, text string) (models.Message, error) {
	messages, err := s.store.GetMessages(ctx, chatID)
	if err != nil {
		return models.Message{}, err
	}

	ts := s.now().UnixMilli()
	if n := len(messages); n > 0 && ts <= messages[n-1].Timestamp {
		ts = messages[n-1].Timestamp + 1
	}
	msg := models.Message{
		ID:        s.newID(),
		ChatID:    chatID,
		SenderID:  senderID,
		Text:      text,
		Timestamp: ts,
	}

	if err := s.store.PutMessages(ctx, chatID, append(messages, msg)); err != nil {
		return models.Message{}, err
	}
	if s.notifier != nil {
		s.notifier.Publish(msg)
	}
	return msg, nil
}

// CancelReplies drops the scripted replies still pending for chatID.
func (s *Service) CancelReplies(chatID string) {
	s.sched.cancelChat(chatID)
}

// PendingReplies reports how many scripted replies are waiting for chatID.
func (s *Service) PendingReplies(chatID string) int {
	return s.sched.count(func(k replyKey) bool { return k.chatID == chatID })
}

// PendingRepliesFor counts the replies waiting for senderID's messages in chatID.
func (s *Service) PendingRepliesFor(chatID, senderID string) int {
	return s.sched.count(func(k replyKey) bool { return k.chatID == chatID && k.senderID == senderID })
}

// Wait blocks until every scheduled reply has fired or been canceled.
func (s *Service) Wait() {
	s.sched.wait()
}

// Close cancels all pending replies and stops accepting new ones.
func (s *Service) Close() {
	s.sched.close()
}
