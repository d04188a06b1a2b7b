// Package memory implements an in-memory, thread-safe session store. All API
// methods work with deep copies so callers never alias stored state.
package memory

import (
	"context"
	"encoding/json"
	"sort"
	"sync"

	"github.com/viant/warden/model/session"
	dao "github.com/viant/warden/service/dao/session"
)

// Service implements an in-memory session store.
type Service struct {
	sessions map[string]*session.State
	mux      sync.RWMutex
}

var _ dao.Service = (*Service)(nil)

// Get returns a copy of the stored state, or (nil, nil) when absent.
func (s *Service) Get(_ context.Context, id string) (*session.State, error) {
	if id == "" {
		return nil, dao.ErrInvalidID
	}

	s.mux.RLock()
	state, ok := s.sessions[id]
	s.mux.RUnlock()

	if !ok {
		return nil, nil
	}
	return clone(state), nil
}

// Put stores a copy of the supplied state.
func (s *Service) Put(_ context.Context, state *session.State) error {
	if state == nil {
		return dao.ErrNilState
	}
	if state.SessionID == "" {
		return dao.ErrInvalidID
	}

	s.mux.Lock()
	defer s.mux.Unlock()
	s.sessions[state.SessionID] = clone(state)
	return nil
}

// List returns up to limit summaries sorted by creation time descending.
func (s *Service) List(_ context.Context, limit int) ([]*dao.Summary, error) {
	s.mux.RLock()
	defer s.mux.RUnlock()

	summaries := make([]*dao.Summary, 0, len(s.sessions))
	for _, state := range s.sessions {
		summaries = append(summaries, dao.Summarize(state))
	}
	sort.Slice(summaries, func(i, j int) bool {
		return summaries[i].CreatedAt.After(summaries[j].CreatedAt)
	})
	if limit > 0 && len(summaries) > limit {
		summaries = summaries[:limit]
	}
	return summaries, nil
}

// Delete removes a record; deleting a missing id is a no-op.
func (s *Service) Delete(_ context.Context, id string) error {
	if id == "" {
		return dao.ErrInvalidID
	}

	s.mux.Lock()
	defer s.mux.Unlock()
	delete(s.sessions, id)
	return nil
}

// clone deep-copies state through its JSON representation, which doubles as
// a guarantee that everything the store holds is serializable.
func clone(state *session.State) *session.State {
	data, err := json.Marshal(state)
	if err != nil {
		return state
	}
	result := &session.State{}
	if err := json.Unmarshal(data, result); err != nil {
		return state
	}
	return result
}

// New creates an empty in-memory session store.
func New() *Service {
	return &Service{sessions: map[string]*session.State{}}
}
