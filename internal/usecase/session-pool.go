package usecase

import (
	"context"
	"errors"
	"sync"

	"github.com/iamvkosarev/learning-assistant/internal/model"
)

var ErrSessionNotFound = errors.New("session not found")

type sessionEntry struct {
	session  *Session
	lastUsed uint64
}

// SessionPool holds live sessions. When full, the least recently used
// session is dropped; its persisted history survives.
type SessionPool struct {
	chat *ChatUsecase

	lock     sync.Mutex
	sessions map[string]*sessionEntry
	maxSize  int
	clock    uint64
}

func NewSessionPool(chat *ChatUsecase, maxSize int) *SessionPool {
	if maxSize <= 0 {
		maxSize = 1
	}
	return &SessionPool{
		chat:     chat,
		sessions: make(map[string]*sessionEntry, maxSize),
		maxSize:  maxSize,
	}
}

// Create starts a session under a newly generated id.
func (p *SessionPool) Create(ctx context.Context) *Session {
	session := p.chat.StartSession(ctx, model.NewSessionID(p.chat.now()))
	p.put(session)
	return session
}

// GetOrCreate returns the session for id, starting one when it is not live.
func (p *SessionPool) GetOrCreate(ctx context.Context, id string) *Session {
	if session, err := p.Get(id); err == nil {
		return session
	}
	session := p.chat.StartSession(ctx, id)

	p.lock.Lock()
	defer p.lock.Unlock()
	if entry, ok := p.sessions[id]; ok {
		entry.lastUsed = p.tickLocked()
		return entry.session
	}
	p.insertLocked(session)
	return session
}

func (p *SessionPool) Get(id string) (*Session, error) {
	p.lock.Lock()
	defer p.lock.Unlock()
	entry, ok := p.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	entry.lastUsed = p.tickLocked()
	return entry.session, nil
}

func (p *SessionPool) Delete(id string) error {
	p.lock.Lock()
	defer p.lock.Unlock()
	if _, ok := p.sessions[id]; !ok {
		return ErrSessionNotFound
	}
	delete(p.sessions, id)
	return nil
}

func (p *SessionPool) Len() int {
	p.lock.Lock()
	defer p.lock.Unlock()
	return len(p.sessions)
}

func (p *SessionPool) put(session *Session) {
	p.lock.Lock()
	defer p.lock.Unlock()
	p.insertLocked(session)
}

func (p *SessionPool) insertLocked(session *Session) {
	if _, exists := p.sessions[session.ID()]; !exists && len(p.sessions) >= p.maxSize {
		var oldestID string
		var oldestUse uint64
		for id, entry := range p.sessions {
			if oldestID == "" || entry.lastUsed < oldestUse {
				oldestID = id
				oldestUse = entry.lastUsed
			}
		}
		delete(p.sessions, oldestID)
	}
	p.sessions[session.ID()] = &sessionEntry{
		session:  session,
		lastUsed: p.tickLocked(),
	}
}

func (p *SessionPool) tickLocked() uint64 {
	p.clock++
	return p.clock
}
