package ecs

import "iter"

type eventInstance[T any] struct {
	id    int
	event T
}

// Events is a double-buffered event queue stored as a singleton. An event
// sent during one update stays readable until the end of the following one;
// Update must be called exactly once per frame (see EventUpdateSystem).
type Events[T any] struct {
	older  []eventInstance[T]
	newer  []eventInstance[T]
	nextId int
}

// Send appends event to the current buffer.
func (e *Events[T]) Send(event T) {
	e.newer = append(e.newer, eventInstance[T]{id: e.nextId, event: event})
	e.nextId++
}

// Update drops the older buffer and starts a fresh current one.
func (e *Events[T]) Update() {
	e.older, e.newer = e.newer, e.older[:0]
}

// Len returns the number of events still readable.
func (e *Events[T]) Len() int {
	return len(e.older) + len(e.newer)
}

// Clear drops every buffered event.
func (e *Events[T]) Clear() {
	e.older = e.older[:0]
	e.newer = e.newer[:0]
}

// readFrom yields buffered events with id >= cursor and returns the cursor
// past the last event.
func (e *Events[T]) readFrom(cursor int) iter.Seq[T] {
	return func(yield func(T) bool) {
		for _, buf := range [2][]eventInstance[T]{e.older, e.newer} {
			for _, inst := range buf {
				if inst.id < cursor {
					continue
				}
				if !yield(inst.event) {
					return
				}
			}
		}
	}
}

// EventReader reads Events[T] with a private cursor, so each reader sees
// every event at most once.
type EventReader[T any] struct {
	events Singleton[Events[T]]
	cursor int
}

// NewEventReader creates a reader bound to storage.
func NewEventReader[T any](storage *Storage) *EventReader[T] {
	r := &EventReader[T]{}
	r.Init(storage)
	return r
}

// Init binds the reader to storage, creating Events[T] if needed. Called by
// the Scheduler on Register.
func (r *EventReader[T]) Init(storage *Storage) {
	NewSingleton[Events[T]](storage)
	r.events.Init(storage)
}

// Read yields unread events in send order and marks them read. Breaking out
// of the loop early leaves the remaining events unread.
func (r *EventReader[T]) Read() iter.Seq[T] {
	return func(yield func(T) bool) {
		events := r.events.Get()
		if events == nil {
			return
		}
		for _, buf := range [2][]eventInstance[T]{events.older, events.newer} {
			for _, inst := range buf {
				if inst.id < r.cursor {
					continue
				}
				r.cursor = inst.id + 1
				if !yield(inst.event) {
					return
				}
			}
		}
	}
}

// Len returns the number of unread events.
func (r *EventReader[T]) Len() int {
	events := r.events.Get()
	if events == nil {
		return 0
	}
	n := 0
	for range events.readFrom(r.cursor) {
		n++
	}
	return n
}

// EventWriter sends to Events[T].
type EventWriter[T any] struct {
	events Singleton[Events[T]]
}

// Init binds the writer to storage, creating Events[T] if needed.
func (w *EventWriter[T]) Init(storage *Storage) {
	NewSingleton[Events[T]](storage)
	w.events.Init(storage)
}

// Send queues event.
func (w *EventWriter[T]) Send(event T) {
	w.events.MustGet().Send(event)
}

// EventUpdateSystem advances Events[T] once per pass.
type EventUpdateSystem[T any] struct {
	Events Singleton[Events[T]]
}

// Execute swaps the event buffers.
func (s *EventUpdateSystem[T]) Execute(frame *UpdateFrame) {
	if events := s.Events.Get(); events != nil {
		events.Update()
	}
}
