package topic

// Message is the minimal shape the Dispatcher needs out of an inbound
// PUBLISH in order to route it: a topic name and its payload bytes.
type Message struct {
	Topic   string
	Payload []byte
}

// Handler is invoked once per matching filter when a Message is dispatched.
type Handler func(Message)

// DefaultCapacity is the table size used when NewDispatcher is called with
// capacity <= 0.
const DefaultCapacity = 10

// Dispatcher is a bounded filter-to-handler table. It is not safe for
// concurrent use; the client serializes all calls through its single event
// loop goroutine (see the event loop in the client package).
type Dispatcher struct {
	capacity int
	order    []string
	handlers map[string]Handler
	matcher  *TopicMatcher
}

// NewDispatcher builds a Dispatcher bounded to capacity entries. A
// non-positive capacity falls back to DefaultCapacity.
func NewDispatcher(capacity int) *Dispatcher {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Dispatcher{
		capacity: capacity,
		handlers: make(map[string]Handler, capacity),
		matcher:  NewTopicMatcher(),
	}
}

// Register adds or replaces the handler for filter. A new filter is rejected
// with ErrDispatcherFull once the table is at capacity; replacing an
// existing filter's handler always succeeds.
func (d *Dispatcher) Register(filter string, handler Handler) error {
	if _, exists := d.handlers[filter]; !exists && len(d.handlers) >= d.capacity {
		return ErrDispatcherFull
	}
	if _, exists := d.handlers[filter]; !exists {
		d.order = append(d.order, filter)
	}
	d.handlers[filter] = handler
	return nil
}

// Unregister removes the handler for filter. It is a no-op if filter was
// never registered.
func (d *Dispatcher) Unregister(filter string) {
	if _, exists := d.handlers[filter]; !exists {
		return
	}
	delete(d.handlers, filter)
	for i, f := range d.order {
		if f == filter {
			d.order = append(d.order[:i], d.order[i+1:]...)
			break
		}
	}
}

// Len reports the number of registered filters.
func (d *Dispatcher) Len() int {
	return len(d.handlers)
}

// Dispatch invokes every registered handler whose filter matches msg.Topic,
// in registration order, and returns how many matched.
func (d *Dispatcher) Dispatch(msg Message) int {
	matched := 0
	for _, filter := range d.order {
		if d.matcher.Match(filter, msg.Topic) {
			d.handlers[filter](msg)
			matched++
		}
	}
	return matched
}
