package domain

import (
	"sync"
	"time"
)

type Event interface {
	Type() string
	PublishedAt() time.Time
}

// StudentEvent is implemented by events that change a student's scored records.
type StudentEvent interface {
	Event
	Student() string
}

type EventSource interface {
	PopEvents() []Event
}

type NoCopy struct {
	sync.Mutex
}

type Aggregate struct {
	NoCopy
	events []Event
}

func (a *Aggregate) PopEvents() []Event {
	a.Lock()
	defer a.Unlock()
	events := a.events
	a.events = make([]Event, 0)
	return events
}

func (a *Aggregate) PushEvent(e Event) {
	a.Lock()
	a.events = append(a.events, e)
	a.Unlock()
}
