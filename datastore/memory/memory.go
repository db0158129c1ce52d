package memory

import (
	"context"
	"sync"

	"github.com/gunnermanx/simplematchmaker/datastore"
)

// Store is an in-memory ProfileStore, used by the standalone binary and in
// tests where no external object store is wired up
type Store struct {
	sync.RWMutex

	profiles map[string]map[string]interface{}
}

func New() (s *Store) {
	s = &Store{
		profiles: make(map[string]map[string]interface{}),
	}
	return
}

func (s *Store) GetProfile(ctx context.Context, playerID string) (meta map[string]interface{}, err error) {
	s.RLock()
	stored, exists := s.profiles[playerID]
	if exists {
		meta = make(map[string]interface{}, len(stored))
		for k, v := range stored {
			meta[k] = v
		}
	}
	s.RUnlock()

	if !exists {
		err = datastore.ErrProfileNotFound
	}
	return
}

func (s *Store) MergeProfile(ctx context.Context, playerID string, partial map[string]interface{}) (err error) {
	s.Lock()
	stored, exists := s.profiles[playerID]
	if !exists {
		stored = make(map[string]interface{}, len(partial))
		s.profiles[playerID] = stored
	}
	for k, v := range partial {
		stored[k] = v
	}
	s.Unlock()
	return
}
