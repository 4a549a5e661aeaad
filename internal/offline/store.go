package offline

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"sync"
)

// state is the persisted layout: the ordered action backlog plus the
// cached visit snapshots the UI reads while offline.
type state struct {
	Actions      []Action                   `json:"actions"`
	CachedVisits map[string]json.RawMessage `json:"cached_visits"`
}

// Store persists the offline queue across app restarts. Writes go through
// a temp file and rename so a crash mid-write never corrupts the backlog.
type Store struct {
	path string

	mu    sync.Mutex
	state state
}

func OpenStore(path string) (*Store, error) {
	s := &Store{
		path: path,
		state: state{
			CachedVisits: make(map[string]json.RawMessage),
		},
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return s, nil
		}
		return nil, err
	}

	if err := json.Unmarshal(raw, &s.state); err != nil {
		return nil, err
	}
	if s.state.CachedVisits == nil {
		s.state.CachedVisits = make(map[string]json.RawMessage)
	}
	return s, nil
}

func (s *Store) Actions() []Action {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Action, len(s.state.Actions))
	copy(out, s.state.Actions)
	return out
}

func (s *Store) Append(action Action) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Actions = append(s.state.Actions, action)
	return s.save()
}

func (s *Store) Remove(actionId string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	kept := s.state.Actions[:0]
	for _, a := range s.state.Actions {
		if a.ID != actionId {
			kept = append(kept, a)
		}
	}
	s.state.Actions = kept
	return s.save()
}

func (s *Store) CacheVisit(visitId string, snapshot json.RawMessage) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.CachedVisits[visitId] = snapshot
	return s.save()
}

func (s *Store) CachedVisit(visitId string) (json.RawMessage, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	snapshot, ok := s.state.CachedVisits[visitId]
	return snapshot, ok
}

func (s *Store) save() error {
	raw, err := json.MarshalIndent(s.state, "", "  ")
	if err != nil {
		return err
	}

	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, ".offline-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(raw); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return err
	}
	return os.Rename(tmpName, s.path)
}
