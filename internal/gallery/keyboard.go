package gallery

// Key names follow the DOM KeyboardEvent.key values.
const (
	KeyEscape     = "Escape"
	KeyArrowRight = "ArrowRight"
	KeyArrowLeft  = "ArrowLeft"
)

// KeyHandler consumes a key and reports whether it was handled.
type KeyHandler func(key string) bool

// KeyRegistrar scopes a key handler to the lifetime of the returned release func.
type KeyRegistrar interface {
	Register(handler KeyHandler) (release func())
}

// KeyDispatcher delivers key events to registered handlers, most recent first,
// stopping at the first handler that consumes the key.
type KeyDispatcher struct {
	handlers []keyRegistration
	nextID   int
}

type keyRegistration struct {
	id      int
	handler KeyHandler
}

func NewKeyDispatcher() *KeyDispatcher {
	return &KeyDispatcher{}
}

// Register adds handler and returns a func that removes it. Calling the
// release func more than once has no effect.
func (d *KeyDispatcher) Register(handler KeyHandler) func() {
	if handler == nil {
		return func() {}
	}
	id := d.nextID
	d.nextID++
	d.handlers = append(d.handlers, keyRegistration{id: id, handler: handler})

	released := false
	return func() {
		if released {
			return
		}
		released = true
		d.remove(id)
	}
}

// Dispatch sends key to the registered handlers.
func (d *KeyDispatcher) Dispatch(key string) bool {
	// Handlers may release themselves while running.
	snapshot := make([]keyRegistration, len(d.handlers))
	copy(snapshot, d.handlers)
	for i := len(snapshot) - 1; i >= 0; i-- {
		if snapshot[i].handler(key) {
			return true
		}
	}
	return false
}

// Len returns the number of registered handlers.
func (d *KeyDispatcher) Len() int { return len(d.handlers) }

func (d *KeyDispatcher) remove(id int) {
	for i, reg := range d.handlers {
		if reg.id == id {
			d.handlers = append(d.handlers[:i], d.handlers[i+1:]...)
			return
		}
	}
}
