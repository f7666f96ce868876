package dialog

import (
	"sync"

	model "github.com/Batoli19/cavista/internal/model/dialog"
)

// Store holds one conversation state record per active session key. Get
// creates the record with empty defaults when absent and never fails.
type Store interface {
	Get(key string) *model.Session
	Put(session *model.Session)
}

// MemoryStore implements Store with a mutex-guarded map, suitable for a
// process-lifetime session scope.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]*model.Session
}

// NewMemoryStore bootstraps the in-memory session store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{sessions: make(map[string]*model.Session)}
}

// Get returns a copy of the session for the key, creating it when absent.
func (s *MemoryStore) Get(key string) *model.Session {
	if key == "" {
		key = model.AnonymousKey
	}

	s.mu.RLock()
	existing, ok := s.sessions[key]
	s.mu.RUnlock()
	if ok {
		return copySession(existing)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if existing, ok = s.sessions[key]; ok {
		return copySession(existing)
	}
	created := &model.Session{Key: key}
	s.sessions[key] = created
	return copySession(created)
}

// Put writes the session back under its key.
func (s *MemoryStore) Put(session *model.Session) {
	if session == nil {
		return
	}
	key := session.Key
	if key == "" {
		key = model.AnonymousKey
		session.Key = key
	}
	s.mu.Lock()
	s.sessions[key] = copySession(session)
	s.mu.Unlock()
}

func copySession(in *model.Session) *model.Session {
	out := *in
	if in.LastResearch != nil {
		research := *in.LastResearch
		research.KeyPoints = append([]string(nil), in.LastResearch.KeyPoints...)
		research.DataPoints = append([]model.DataPoint(nil), in.LastResearch.DataPoints...)
		research.Sources = append([]model.Source(nil), in.LastResearch.Sources...)
		out.LastResearch = &research
	}
	out.LastFiles = append([]model.FileMeta(nil), in.LastFiles...)
	out.Artifacts = append([]model.ArtifactRef(nil), in.Artifacts...)
	if in.Pending != nil {
		pending := *in.Pending
		pending.Options = append([]model.Action(nil), in.Pending.Options...)
		out.Pending = &pending
	}
	return &out
}
