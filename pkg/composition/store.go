package composition

import (
	"errors"
	"sync"
)

// ErrContextUnavailable is returned when the composition context is read
// outside of a render pass.
var ErrContextUnavailable = errors.New("wingman: composition context accessed outside of a render pass")

// ErrPassActive is returned by TryEnter while another render pass holds the
// store.
var ErrPassActive = errors.New("wingman: a render pass is already active on this store")

// Store is a single-slot holder for the current Context.
type Store struct {
	pass sync.Mutex   // held for the duration of one render pass
	mu   sync.RWMutex // guards current
	cur  *Context
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{}
}

// Set installs ctx as the current context, replacing any previous one.
// Nesting is not supported.
func (s *Store) Set(ctx *Context) {
	s.mu.Lock()
	s.cur = ctx
	s.mu.Unlock()
}

// Get returns the current context, or ErrContextUnavailable when no render
// pass is active.
func (s *Store) Get() (*Context, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.cur == nil {
		return nil, ErrContextUnavailable
	}
	return s.cur, nil
}

// Clear empties the slot.
func (s *Store) Clear() {
	s.Set(nil)
}

// Active reports whether a context is installed.
func (s *Store) Active() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cur != nil
}

// Enter starts a render pass: it waits for any other pass on this store to
// finish, installs ctx, and returns the release function. Release clears the
// slot and must be called exactly once, typically deferred.
//
// The pass lock is not reentrant. Entering the same store again from inside
// a pass, e.g. a component rendering a subtree on the default store, blocks
// forever; use TryEnter or a separate Store there.
func (s *Store) Enter(ctx *Context) (release func()) {
	s.pass.Lock()
	return s.install(ctx)
}

// TryEnter is like Enter but fails with ErrPassActive instead of waiting
// when a pass is already running.
func (s *Store) TryEnter(ctx *Context) (release func(), err error) {
	if !s.pass.TryLock() {
		return nil, ErrPassActive
	}
	return s.install(ctx), nil
}

func (s *Store) install(ctx *Context) func() {
	s.Set(ctx)
	var once sync.Once
	return func() {
		once.Do(func() {
			s.Clear()
			s.pass.Unlock()
		})
	}
}

// defaultStore is the process-wide store used by Use and the package-level
// render entry point.
var defaultStore = NewStore()

// Default returns the process-wide store.
func Default() *Store {
	return defaultStore
}

// Use returns the context of the active render pass on the default store.
func Use() (*Context, error) {
	return defaultStore.Get()
}

// MustUse is like Use but panics outside a render pass.
func MustUse() *Context {
	ctx, err := Use()
	if err != nil {
		panic(err)
	}
	return ctx
}

// UseOption returns an extension option of the active context. The boolean
// is false when the option is unset; the error is ErrContextUnavailable
// outside a render pass.
func UseOption(key string) (string, bool, error) {
	ctx, err := Use()
	if err != nil {
		return "", false, err
	}
	v, ok := ctx.Option(key)
	return v, ok, nil
}
