package llm

import (
	"sync"
)

// SessionManager manages multiple conversation histories isolated by session
// ID. Histories live in memory only and vanish with the process; channels
// that cannot supply history themselves use this buffer so the orchestrator
// always receives history from its caller.
type SessionManager struct {
	histories map[string]*ChatHistory
	mu        sync.RWMutex
}

// NewSessionManager initializes an empty SessionManager.
func NewSessionManager() *SessionManager {
	return &SessionManager{
		histories: make(map[string]*ChatHistory),
	}
}

// GetHistory retrieves an existing ChatHistory for a session or creates a new one.
func (sm *SessionManager) GetHistory(sessionID string) *ChatHistory {
	sm.mu.RLock()
	h, ok := sm.histories[sessionID]
	sm.mu.RUnlock()

	if ok {
		return h
	}

	sm.mu.Lock()
	defer sm.mu.Unlock()

	// Double check under lock
	if h, ok = sm.histories[sessionID]; ok {
		return h
	}

	h = NewChatHistory()
	sm.histories[sessionID] = h
	return h
}
