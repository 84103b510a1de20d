package chat

import (
	"sync"
	"time"
)

// replyKey groups scheduled replies by the chat and the user they answer.
type replyKey struct {
	chatID   string
	senderID string
}

// scheduler runs delayed tasks grouped by key so a whole group can be canceled.
type scheduler struct {
	mu      sync.Mutex
	pending map[replyKey]map[*time.Timer]struct{}
	wg      sync.WaitGroup
	closed  bool
}

func newScheduler() *scheduler {
	return &scheduler{pending: make(map[replyKey]map[*time.Timer]struct{})}
}

func (s *scheduler) schedule(key replyKey, delay time.Duration, fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}

	var t *time.Timer
	s.wg.Add(1)
	t = time.AfterFunc(delay, func() {
		defer s.wg.Done()

		s.mu.Lock()
		_, live := s.pending[key][t]
		s.forget(key, t)
		s.mu.Unlock()

		if live {
			fn()
		}
	})

	if s.pending[key] == nil {
		s.pending[key] = make(map[*time.Timer]struct{})
	}
	s.pending[key][t] = struct{}{}
}

// cancel stops every pending task for key. A task whose timer already fired
// sees itself removed and skips its work.
func (s *scheduler) cancel(key replyKey) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cancelLocked(key)
}

// cancelChat stops the pending tasks of every sender in chatID.
func (s *scheduler) cancelChat(chatID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for key := range s.pending {
		if key.chatID == chatID {
			s.cancelLocked(key)
		}
	}
}

func (s *scheduler) cancelLocked(key replyKey) {
	for t := range s.pending[key] {
		if t.Stop() {
			s.wg.Done()
		}
	}
	delete(s.pending, key)
}

func (s *scheduler) forget(key replyKey, t *time.Timer) {
	set := s.pending[key]
	delete(set, t)
	if len(set) == 0 {
		delete(s.pending, key)
	}
}

func (s *scheduler) count(match func(replyKey) bool) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for key, set := range s.pending {
		if match(key) {
			n += len(set)
		}
	}
	return n
}

func (s *scheduler) wait() {
	s.wg.Wait()
}

func (s *scheduler) close() {
	s.mu.Lock()
	s.closed = true
	for key := range s.pending {
		s.cancelLocked(key)
	}
	s.mu.Unlock()
	s.wg.Wait()
}
