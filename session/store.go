// Package session keeps per-browser state: the CSRF token and the last refinement.
package session

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"

	"github.com/llmgate/promptrefiner/models"
)

type Session struct {
	ID          string
	CSRFToken   string
	LastRefined *models.LastRefinedRecord
}

// Store holds sessions in memory and expires them after ttl of inactivity.
type Store struct {
	mu    sync.Mutex
	cache *cache.Cache
	ttl   time.Duration
}

func NewStore(ttl time.Duration) *Store {
	cleanup := ttl / 2
	if cleanup < time.Minute {
		cleanup = time.Minute
	}
	return &Store{
		cache: cache.New(ttl, cleanup),
		ttl:   ttl,
	}
}

// Get returns the session and refreshes its expiry.
func (s *Store) Get(id string) (Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.getLocked(id)
}

func (s *Store) getLocked(id string) (Session, bool) {
	if id == "" {
		return Session{}, false
	}
	v, found := s.cache.Get(id)
	if !found {
		return Session{}, false
	}
	sess := v.(Session)
	s.cache.Set(id, sess, s.ttl)
	return sess, true
}

// Create starts a new session with a fresh CSRF token.
func (s *Store) Create() Session {
	sess := Session{
		ID:        uuid.NewString(),
		CSRFToken: uuid.NewString(),
	}
	s.mu.Lock()
	s.cache.Set(sess.ID, sess, s.ttl)
	s.mu.Unlock()
	return sess
}

// SaveLastRefined overwrites the session's last refinement. Unknown ids get a new session under that id.
func (s *Store) SaveLastRefined(id string, record models.LastRefinedRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.getLocked(id)
	if !ok {
		sess = Session{ID: id, CSRFToken: uuid.NewString()}
	}
	sess.LastRefined = &record
	s.cache.Set(id, sess, s.ttl)
}

func (s *Store) LastRefined(id string) (models.LastRefinedRecord, bool) {
	sess, ok := s.Get(id)
	if !ok || sess.LastRefined == nil {
		return models.LastRefinedRecord{}, false
	}
	return *sess.LastRefined, true
}

func (s *Store) Count() int {
	return s.cache.ItemCount()
}
