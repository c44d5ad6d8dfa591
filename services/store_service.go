package services

import (
	"errors"
	"sort"
	"sync"

	"github.com/WahyuSiddarta/Gemini-CHATBOT/models"
)

// ErrNotFound is returned when a conversation key has no stored state.
var ErrNotFound = errors.New("conversation not found")

// ErrTitleExists is returned when a title is set twice for the same key.
var ErrTitleExists = errors.New("title already set")

// ConversationKey identifies one conversation. Both parts are opaque strings;
// equality is exact string equality.
type ConversationKey struct {
	UserID string
	ChatID string
}

// StoreService keeps all conversation state in memory for the lifetime of the
// process. Map access is guarded by mu; per-key mutexes let the orchestrator
// serialize whole request pipelines against the same conversation.
type StoreService struct {
	mu            sync.RWMutex
	conversations map[ConversationKey][]models.Message
	titles        map[ConversationKey]string

	lockMu   sync.Mutex
	keyLocks map[ConversationKey]*sync.Mutex
}

func NewStoreService() *StoreService {
	return &StoreService{
		conversations: make(map[ConversationKey][]models.Message),
		titles:        make(map[ConversationKey]string),
		keyLocks:      make(map[ConversationKey]*sync.Mutex),
	}
}

// LockKey blocks until the caller holds the mutex for key. Key mutexes are
// never removed, so a delete racing a locked pipeline stays safe.
func (s *StoreService) LockKey(key ConversationKey) {
	s.lockMu.Lock()
	m, ok := s.keyLocks[key]
	if !ok {
		m = &sync.Mutex{}
		s.keyLocks[key] = m
	}
	s.lockMu.Unlock()
	m.Lock()
}

func (s *StoreService) UnlockKey(key ConversationKey) {
	s.lockMu.Lock()
	m := s.keyLocks[key]
	s.lockMu.Unlock()
	if m != nil {
		m.Unlock()
	}
}

// GetOrCreate ensures an entry exists for key and returns a copy of its
// current history.
func (s *StoreService) GetOrCreate(key ConversationKey) []models.Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.conversations[key]; !ok {
		s.conversations[key] = []models.Message{}
	}
	return append([]models.Message(nil), s.conversations[key]...)
}

// Append adds a message to the end of the conversation, creating it if
// needed. Messages are immutable once appended.
func (s *StoreService) Append(key ConversationKey, msg models.Message) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.conversations[key] = append(s.conversations[key], msg)
}

// Len reports the current message count for key.
func (s *StoreService) Len(key ConversationKey) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.conversations[key])
}

// History returns a copy of the full conversation and whether the key exists.
func (s *StoreService) History(key ConversationKey) ([]models.Message, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	msgs, ok := s.conversations[key]
	if !ok {
		return nil, false
	}
	return append([]models.Message(nil), msgs...), true
}

// Window returns a copy of the most recent n messages. Older history stays
// stored but is excluded from the model-facing context.
func (s *StoreService) Window(key ConversationKey, n int) []models.Message {
	s.mu.RLock()
	defer s.mu.RUnlock()
	msgs := s.conversations[key]
	if n > 0 && len(msgs) > n {
		msgs = msgs[len(msgs)-n:]
	}
	return append([]models.Message(nil), msgs...)
}

// Title returns the conversation title, if one has been set.
func (s *StoreService) Title(key ConversationKey) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	title, ok := s.titles[key]
	return title, ok
}

// SetTitle stores a title exactly once per key; a title is immutable for the
// lifetime of the key.
func (s *StoreService) SetTitle(key ConversationKey, title string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.titles[key]; ok {
		return ErrTitleExists
	}
	s.titles[key] = title
	return nil
}

// ListChats returns the chat id and title of every conversation owned by
// userID, sorted by chat id for a stable order.
func (s *StoreService) ListChats(userID string) []models.ChatSummary {
	s.mu.RLock()
	defer s.mu.RUnlock()
	chats := make([]models.ChatSummary, 0)
	for key := range s.conversations {
		if key.UserID != userID {
			continue
		}
		chats = append(chats, models.ChatSummary{
			ChatID: key.ChatID,
			Title:  s.titles[key],
		})
	}
	sort.Slice(chats, func(i, j int) bool { return chats[i].ChatID < chats[j].ChatID })
	return chats
}

// Delete removes the conversation and its title in one step.
func (s *StoreService) Delete(key ConversationKey) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.conversations[key]; !ok {
		return ErrNotFound
	}
	delete(s.conversations, key)
	delete(s.titles, key)
	return nil
}
