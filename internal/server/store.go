package server

import (
	"errors"
	"sort"
	"sync"
)

// ErrRoomExists is returned when creating a room under a code already in use
var ErrRoomExists = errors.New("room already exists")

// MatchStore is the lookup table of live rooms keyed by room code. It is the
// only state rooms share.
type MatchStore interface {
	Get(id string) (*Room, bool)
	Create(room *Room) error
	Remove(id string) (*Room, bool)
	List() []*Room
}

// MemoryStore keeps rooms in process memory
type MemoryStore struct {
	mu    sync.RWMutex
	rooms map[string]*Room
}

// NewMemoryStore constructs an empty store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{rooms: make(map[string]*Room)}
}

func (s *MemoryStore) Get(id string) (*Room, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	room, ok := s.rooms[id]
	return room, ok
}

func (s *MemoryStore) Create(room *Room) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.rooms[room.ID()]; ok {
		return ErrRoomExists
	}
	s.rooms[room.ID()] = room
	return nil
}

func (s *MemoryStore) Remove(id string) (*Room, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	room, ok := s.rooms[id]
	if ok {
		delete(s.rooms, id)
	}
	return room, ok
}

// List returns the rooms ordered by code
func (s *MemoryStore) List() []*Room {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rooms := make([]*Room, 0, len(s.rooms))
	for _, room := range s.rooms {
		rooms = append(rooms, room)
	}
	sort.Slice(rooms, func(i, j int) bool { return rooms[i].ID() < rooms[j].ID() })
	return rooms
}
