package service

import (
	"encoding/json"
	"sync"

	"github.com/Strob0t/NeuroFlow/internal/domain/session"
)

// checkpointStore holds serialized pipeline state for turns suspended at the
// approval gate, keyed by session. Serializing (rather than keeping the live
// pointer) guarantees the suspended turn stays decoupled from the committed
// session state.
type checkpointStore struct {
	mu   sync.Mutex
	byID map[string][]byte
}

func newCheckpointStore() *checkpointStore {
	return &checkpointStore{byID: make(map[string][]byte)}
}

func (s *checkpointStore) save(sessionID string, st *session.State) error {
	data, err := json.Marshal(st)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.byID[sessionID] = data
	s.mu.Unlock()
	return nil
}

// take removes and deserializes the checkpoint for a session.
func (s *checkpointStore) take(sessionID string) (*session.State, bool, error) {
	s.mu.Lock()
	data, ok := s.byID[sessionID]
	delete(s.byID, sessionID)
	s.mu.Unlock()
	if !ok {
		return nil, false, nil
	}
	var st session.State
	if err := json.Unmarshal(data, &st); err != nil {
		return nil, false, err
	}
	return &st, true, nil
}
