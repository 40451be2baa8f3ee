// Package codes holds the session-scoped alarm state: the registry mapping
// symbolic names to numeric codes and the set of currently latched codes.
package codes

import (
	"encoding/binary"
	"slices"
	"sync"

	"github.com/cespare/xxhash/v2"
	"github.com/google/uuid"
)

// Code identifies an alarm. Codes are assigned from zero upward per session.
type Code uint64

// InteractFunc decides whether a suspicious body carrying passive can set off
// an observer carrying active.
type InteractFunc func(passive, active Code) bool

// AlwaysInteract is the default InteractFunc.
func AlwaysInteract(Code, Code) bool { return true }

const defaultShards = 16

type shard struct {
	mu     sync.Mutex
	active map[Code]struct{}
}

// Registry is safe for concurrent use. Latching is sharded so that detection
// passes running in parallel rarely contend.
type Registry struct {
	mu      sync.RWMutex
	names   map[string]Code
	next    Code
	session uuid.UUID

	shards   []*shard
	interact InteractFunc
}

type Option func(*Registry)

// WithInteraction replaces the compatibility predicate used by Interact.
func WithInteraction(fn InteractFunc) Option {
	return func(r *Registry) {
		if fn != nil {
			r.interact = fn
		}
	}
}

// WithShards sets the number of latch shards. Values below one are ignored.
func WithShards(n int) Option {
	return func(r *Registry) {
		if n > 0 {
			r.shards = newShards(n)
		}
	}
}

func NewRegistry(opts ...Option) *Registry {
	r := &Registry{
		names:    make(map[string]Code),
		session:  uuid.New(),
		shards:   newShards(defaultShards),
		interact: AlwaysInteract,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func newShards(n int) []*shard {
	out := make([]*shard, n)
	for i := range out {
		out[i] = &shard{active: make(map[Code]struct{})}
	}
	return out
}

func (r *Registry) shardFor(code Code) *shard {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], uint64(code))
	return r.shards[xxhash.Sum64(buf[:])%uint64(len(r.shards))]
}

// Session identifies the current level/session. It changes on Reset.
func (r *Registry) Session() uuid.UUID {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.session
}

// GetOrCreate returns the code registered for name, assigning the next code
// if the name is new.
func (r *Registry) GetOrCreate(name string) Code {
	r.mu.RLock()
	code, ok := r.names[name]
	r.mu.RUnlock()
	if ok {
		return code
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if code, ok = r.names[name]; ok {
		return code
	}
	code = r.next
	r.next++
	r.names[name] = code
	return code
}

// Lookup resolves name without registering it.
func (r *Registry) Lookup(name string) (Code, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	code, ok := r.names[name]
	return code, ok
}

// Len is the number of registered names.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.names)
}

// Insert latches code. Latching an active code is a no-op. It reports
// whether this call changed the set.
func (r *Registry) Insert(code Code) bool {
	s := r.shardFor(code)
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.active[code]; ok {
		return false
	}
	s.active[code] = struct{}{}
	return true
}

func (r *Registry) Contains(code Code) bool {
	s := r.shardFor(code)
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.active[code]
	return ok
}

// Consume removes code and reports whether it was latched just before.
func (r *Registry) Consume(code Code) bool {
	s := r.shardFor(code)
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.active[code]; !ok {
		return false
	}
	delete(s.active, code)
	return true
}

func (r *Registry) Interact(passive, active Code) bool {
	return r.interact(passive, active)
}

// Active returns the latched codes in ascending order.
func (r *Registry) Active() []Code {
	var out []Code
	for _, s := range r.shards {
		s.mu.Lock()
		for code := range s.active {
			out = append(out, code)
		}
		s.mu.Unlock()
	}
	slices.Sort(out)
	return out
}

// Reset starts a new session: names, code numbering and latches are cleared.
// It must not run concurrently with a tick.
func (r *Registry) Reset() {
	r.mu.Lock()
	r.names = make(map[string]Code)
	r.next = 0
	r.session = uuid.New()
	r.mu.Unlock()

	for _, s := range r.shards {
		s.mu.Lock()
		clear(s.active)
		s.mu.Unlock()
	}
}
