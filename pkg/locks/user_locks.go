package locks

import "sync"

// UserLocks serializes checkout and redemption per user. Two concurrent
// operations for the same email run one at a time; distinct emails proceed
// independently. Entries are reference counted and dropped when released.
type UserLocks struct {
	mu      sync.Mutex
	entries map[string]*entry
}

type entry struct {
	mu   sync.Mutex
	refs int
}

// NewUserLocks builds an empty lock table.
func NewUserLocks() *UserLocks {
	return &UserLocks{entries: make(map[string]*entry)}
}

// Acquire blocks until the lock for email is held and returns the release
// function. The release function must be called exactly once.
func (l *UserLocks) Acquire(email string) func() {
	l.mu.Lock()
	e, ok := l.entries[email]
	if !ok {
		e = &entry{}
		l.entries[email] = e
	}
	e.refs++
	l.mu.Unlock()

	e.mu.Lock()

	var once sync.Once
	return func() {
		once.Do(func() {
			e.mu.Unlock()
			l.mu.Lock()
			e.refs--
			if e.refs == 0 {
				delete(l.entries, email)
			}
			l.mu.Unlock()
		})
	}
}
