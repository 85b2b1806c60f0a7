package game

import (
	"sync"
	"time"
)

// Registry is the process-wide store of rooms.
//
// Concurrency: the room map is guarded by the registry mutex and each room by
// its own mutex. Callers reach a room only through Do and DoOrCreate, which
// hold that room's lock for the whole callback, so operations on one room are
// serialized while different rooms proceed in parallel. Locks are always taken
// room first, registry second.
type Registry struct {
	mu    sync.Mutex
	rooms map[string]*Room

	newEngine EngineFactory
	pickColor func() Color
	now       func() time.Time
}

type Option func(*Registry)

func WithEngine(f EngineFactory) Option {
	return func(r *Registry) {
		r.newEngine = f
	}
}

// WithColorPicker sets how the first player's color is chosen.
func WithColorPicker(f func() Color) Option {
	return func(r *Registry) {
		r.pickColor = f
	}
}

func WithClock(now func() time.Time) Option {
	return func(r *Registry) {
		r.now = now
	}
}

func NewRegistry(opts ...Option) *Registry {
	r := &Registry{
		rooms:     make(map[string]*Room),
		newEngine: NewChessEngine,
		pickColor: randomColor,
		now:       time.Now,
	}

	for _, opt := range opts {
		opt(r)
	}

	return r
}

// GetOrCreate returns the room stored under id, creating a waiting room with
// no seats when there is none.
func (r *Registry) GetOrCreate(id string) *Room {
	r.mu.Lock()
	defer r.mu.Unlock()

	room, ok := r.rooms[id]
	if !ok {
		room = NewRoom(id, r.newEngine(), r.pickColor, r.now())
		r.rooms[id] = room
	}

	return room
}

func (r *Registry) Get(id string) (*Room, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	room, ok := r.rooms[id]
	return room, ok
}

// Remove evicts whatever room is stored under id. It is a no-op when absent.
// Rooms that empty through Do or DoOrCreate are evicted automatically, and
// only if no newer room has taken their id.
func (r *Registry) Remove(id string) {
	r.remove(id, nil)
}

func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	return len(r.rooms)
}

// Do runs fn with exclusive access to the room stored under id. It returns
// ErrRoomNotFound when there is no such room, otherwise fn's error.
func (r *Registry) Do(id string, fn func(*Room) error) error {
	return r.with(id, false, fn)
}

// DoOrCreate is Do, creating the room first when it does not exist.
func (r *Registry) DoOrCreate(id string, fn func(*Room) error) error {
	return r.with(id, true, fn)
}

func (r *Registry) with(id string, create bool, fn func(*Room) error) error {
	for {
		var room *Room
		if create {
			room = r.GetOrCreate(id)
		} else {
			var ok bool
			if room, ok = r.Get(id); !ok {
				return ErrRoomNotFound
			}
		}

		room.mu.Lock()

		// the room emptied and was evicted while we waited for its lock
		if room.retired {
			room.mu.Unlock()
			continue
		}

		err := fn(room)

		if room.Seats() == 0 {
			room.retired = true
			r.evict(room)
		}

		room.mu.Unlock()
		return err
	}
}

// evict removes room only if it is still the instance stored under its id.
func (r *Registry) evict(room *Room) {
	r.remove(room.ID, room)
}

// remove deletes id, restricted to instance when it is not nil.
func (r *Registry) remove(id string, instance *Room) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if current, ok := r.rooms[id]; ok && (instance == nil || current == instance) {
		delete(r.rooms, id)
	}
}
