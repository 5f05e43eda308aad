// Package uidstore provides a concurrency-safe two-way mapping between the
// UIDs handed out to callers and the (folder, key) locations file based
// backends address messages with.
//
// Multiple Store instances can safely be created and the UIDs that they
// generate will be globally unique.
package uidstore

import (
	"sync"
	"sync/atomic"

	"git.sr.ht/~hrtools/hrreject/models"
)

var nextUID uint32

// Location is where a backend keeps a message.
type Location struct {
	Folder string
	Key    string
}

// Store holds a mapping between locations and globally-unique UIDs.
type Store struct {
	locByUID map[models.UID]Location
	uidByLoc map[Location]models.UID
	m        sync.Mutex
}

// NewStore creates a new, empty Store.
func NewStore() *Store {
	return &Store{
		locByUID: make(map[models.UID]Location),
		uidByLoc: make(map[Location]models.UID),
	}
}

// GetOrInsert returns the UID for the provided location. If the location was
// already present in the store, the same UID value is returned. Otherwise, it
// is inserted and the newly generated UID is returned.
func (s *Store) GetOrInsert(folder, key string) models.UID {
	loc := Location{Folder: folder, Key: key}
	s.m.Lock()
	defer s.m.Unlock()
	if uid, ok := s.uidByLoc[loc]; ok {
		return uid
	}
	uid := models.UID(atomic.AddUint32(&nextUID, 1))
	s.locByUID[uid] = loc
	s.uidByLoc[loc] = uid
	return uid
}

// Get returns the location of uid, if known.
func (s *Store) Get(uid models.UID) (Location, bool) {
	s.m.Lock()
	defer s.m.Unlock()
	loc, ok := s.locByUID[uid]
	return loc, ok
}

// Relocate records that the message known as uid now lives at a new
// location. The UID stays valid.
func (s *Store) Relocate(uid models.UID, folder, key string) {
	s.m.Lock()
	defer s.m.Unlock()
	if old, ok := s.locByUID[uid]; ok {
		delete(s.uidByLoc, old)
	}
	loc := Location{Folder: folder, Key: key}
	s.locByUID[uid] = loc
	s.uidByLoc[loc] = uid
}

// RemoveUID removes the specified UID from the store.
func (s *Store) RemoveUID(uid models.UID) {
	s.m.Lock()
	defer s.m.Unlock()
	loc, ok := s.locByUID[uid]
	if ok {
		delete(s.uidByLoc, loc)
	}
	delete(s.locByUID, uid)
}
