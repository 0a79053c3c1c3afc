package formsync

import "github.com/goliatone/go-formdata/pkg/params"

// EventKind identifies the notification channel.
type EventKind string

const (
	// EventValueChanged fires when the encoded string changes.
	EventValueChanged EventKind = "value-changed"
	// EventModelChanged fires when the parameter model changes.
	EventModelChanged EventKind = "model-changed"
)

// Event is delivered to handlers. Value is set for value-changed events and
// Model for model-changed events.
type Event struct {
	Kind  EventKind
	Value string
	Model params.Model
}

// Handler receives engine notifications.
type Handler func(Event)

// Subscription identifies a registered handler.
type Subscription struct {
	id   uint64
	kind EventKind
}

// Kind returns the event kind the subscription listens to.
func (s Subscription) Kind() EventKind {
	return s.kind
}

// Valid reports whether the subscription was issued by an engine.
func (s Subscription) Valid() bool {
	return s.id != 0
}

type listener struct {
	id      uint64
	handler Handler
}

type observers struct {
	nextID uint64
	byKind map[EventKind][]listener
	// slots hold the single-slot handlers assigned through OnChange/OnModel;
	// each is a list of at most one listener.
	slots map[EventKind][]listener
}

func newObservers() *observers {
	return &observers{
		byKind: make(map[EventKind][]listener),
		slots:  make(map[EventKind][]listener),
	}
}

func (o *observers) add(kind EventKind, handler Handler) Subscription {
	o.nextID++
	o.byKind[kind] = append(o.byKind[kind], listener{id: o.nextID, handler: handler})
	return Subscription{id: o.nextID, kind: kind}
}

func (o *observers) remove(sub Subscription) bool {
	list := o.byKind[sub.kind]
	for i, l := range list {
		if l.id != sub.id {
			continue
		}
		o.byKind[sub.kind] = append(list[:i:i], list[i+1:]...)
		return true
	}
	return false
}

func (o *observers) setSlot(kind EventKind, handler Handler) {
	if handler == nil {
		delete(o.slots, kind)
		return
	}
	o.nextID++
	o.slots[kind] = []listener{{id: o.nextID, handler: handler}}
}

func (o *observers) slot(kind EventKind) Handler {
	list := o.slots[kind]
	if len(list) == 0 {
		return nil
	}
	return list[0].handler
}

func (o *observers) emit(evt Event) {
	// Copy so handlers may (un)subscribe while being notified.
	handlers := make([]Handler, 0, len(o.byKind[evt.Kind])+1)
	for _, l := range o.byKind[evt.Kind] {
		handlers = append(handlers, l.handler)
	}
	for _, l := range o.slots[evt.Kind] {
		handlers = append(handlers, l.handler)
	}
	for _, handler := range handlers {
		handler(evt)
	}
}
