package gallery

// ScrollLock suspends background scrolling while at least one guard is held.
// suspend runs when the first guard is acquired and restore when the last one
// is released.
type ScrollLock struct {
	holders int
	suspend func()
	restore func()
}

// NewScrollLock builds a lock; nil hooks are allowed.
func NewScrollLock(suspend, restore func()) *ScrollLock {
	return &ScrollLock{suspend: suspend, restore: restore}
}

// Acquire takes a guard on the lock.
func (s *ScrollLock) Acquire() *ScrollGuard {
	if s.holders == 0 && s.suspend != nil {
		s.suspend()
	}
	s.holders++
	return &ScrollGuard{lock: s}
}

// Locked reports whether scrolling is currently suspended.
func (s *ScrollLock) Locked() bool { return s.holders > 0 }

// Holders returns the number of outstanding guards.
func (s *ScrollLock) Holders() int { return s.holders }

func (s *ScrollLock) release() {
	if s.holders == 0 {
		return
	}
	s.holders--
	if s.holders == 0 && s.restore != nil {
		s.restore()
	}
}

// ScrollGuard is a single hold on a ScrollLock. Release is idempotent.
type ScrollGuard struct {
	lock     *ScrollLock
	released bool
}

// Release drops the hold. It returns false when the guard was already released.
func (g *ScrollGuard) Release() bool {
	if g == nil || g.released || g.lock == nil {
		return false
	}
	g.released = true
	g.lock.release()
	return true
}
