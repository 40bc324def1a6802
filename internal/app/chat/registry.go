package chat

import (
	"slices"
	"strings"
	"sync"
)

// roomMembers is the ordered user map of one active room.
// order preserves first-insertion order; a re-join keeps its original position.
type roomMembers struct {
	order []string
	names map[string]string
}

func newRoomMembers() *roomMembers {
	return &roomMembers{names: make(map[string]string)}
}

func (m *roomMembers) set(userID, displayName string) {
	if _, ok := m.names[userID]; !ok {
		m.order = append(m.order, userID)
	}
	m.names[userID] = displayName
}

func (m *roomMembers) remove(userID string) bool {
	if _, ok := m.names[userID]; !ok {
		return false
	}
	delete(m.names, userID)
	if i := slices.Index(m.order, userID); i >= 0 {
		m.order = slices.Delete(m.order, i, i+1)
	}
	return true
}

func (m *roomMembers) displayNames() []string {
	out := make([]string, 0, len(m.order))
	for _, id := range m.order {
		out = append(out, m.names[id])
	}
	return out
}

// JoinResult describes the effect of Registry.Join.
type JoinResult struct {
	// Users is the ordered display-name snapshot taken right after the insert.
	Users []string

	// Created is set when the room went from nonexistent to active.
	Created bool
}

// LeaveResult describes the effect of removing one user from one room.
type LeaveResult struct {
	RoomID string

	// Removed is set when the user was actually present.
	Removed bool

	// Destroyed is set when the removal emptied the room.
	Destroyed bool
}

// RoomSnapshot is a point-in-time copy of one room's presence.
type RoomSnapshot struct {
	RoomID string   `json:"roomId"`
	Users  []string `json:"users"`
}

// Registry maps roomID -> (userID -> displayName) and is the only source of truth for presence.
// A room exists if and only if it has at least one user. Every method is a single critical section.
type Registry struct {
	mu sync.RWMutex

	rooms map[string]*roomMembers

	// byUser is the reverse index userID -> set of roomIDs.
	byUser map[string]map[string]struct{}
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		rooms:  make(map[string]*roomMembers),
		byUser: make(map[string]map[string]struct{}),
	}
}

// Join inserts or overwrites userID in roomID and returns the resulting snapshot.
func (r *Registry) Join(roomID, userID, displayName string) JoinResult {
	r.mu.Lock()
	defer r.mu.Unlock()

	members, exists := r.rooms[roomID]
	if !exists {
		members = newRoomMembers()
		r.rooms[roomID] = members
	}
	members.set(userID, displayName)

	rooms, ok := r.byUser[userID]
	if !ok {
		rooms = make(map[string]struct{})
		r.byUser[userID] = rooms
	}
	rooms[roomID] = struct{}{}

	return JoinResult{Users: members.displayNames(), Created: !exists}
}

// Leave removes userID from roomID. Leaving a room that does not exist, or that the
// user is not in, changes nothing.
func (r *Registry) Leave(roomID, userID string) LeaveResult {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.removeLocked(roomID, userID)
}

// RemoveUser removes userID from every room it is present in, in no particular order.
func (r *Registry) RemoveUser(userID string) []LeaveResult {
	r.mu.Lock()
	defer r.mu.Unlock()

	rooms := r.byUser[userID]
	if len(rooms) == 0 {
		return nil
	}

	results := make([]LeaveResult, 0, len(rooms))
	for roomID := range rooms {
		results = append(results, r.removeLocked(roomID, userID))
	}
	return results
}

func (r *Registry) removeLocked(roomID, userID string) LeaveResult {
	result := LeaveResult{RoomID: roomID}

	members, ok := r.rooms[roomID]
	if !ok {
		return result
	}

	result.Removed = members.remove(userID)
	if len(members.names) == 0 {
		delete(r.rooms, roomID)
		result.Destroyed = true
	}

	if rooms, ok := r.byUser[userID]; ok {
		delete(rooms, roomID)
		if len(rooms) == 0 {
			delete(r.byUser, userID)
		}
	}

	return result
}

// Users returns the ordered display names in roomID and whether the room exists.
func (r *Registry) Users(roomID string) ([]string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	members, ok := r.rooms[roomID]
	if !ok {
		return nil, false
	}
	return members.displayNames(), true
}

// DisplayName returns the name stored for userID in roomID.
func (r *Registry) DisplayName(roomID, userID string) (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	members, ok := r.rooms[roomID]
	if !ok {
		return "", false
	}
	name, ok := members.names[userID]
	return name, ok
}

// RoomsOf returns the rooms userID is present in, sorted.
func (r *Registry) RoomsOf(userID string) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]string, 0, len(r.byUser[userID]))
	for roomID := range r.byUser[userID] {
		out = append(out, roomID)
	}
	slices.Sort(out)
	return out
}

// Snapshot copies every active room, sorted by room id.
func (r *Registry) Snapshot() []RoomSnapshot {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]RoomSnapshot, 0, len(r.rooms))
	for roomID, members := range r.rooms {
		out = append(out, RoomSnapshot{RoomID: roomID, Users: members.displayNames()})
	}
	slices.SortFunc(out, func(a, b RoomSnapshot) int {
		return strings.Compare(a.RoomID, b.RoomID)
	})
	return out
}

// RoomCount returns the number of active rooms.
func (r *Registry) RoomCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.rooms)
}
