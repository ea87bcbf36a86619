// Package scheduler provides the cycle-keyed event list that drives
// every timing-coupled peripheral (timer, PPU, DMA/HDMA, serial). The
// CPU's instruction loop advances it by whole instructions worth of
// master-clock cycles; the scheduler fires any handler whose target
// cycle has been reached or passed. This is the "event-driven
// scheduler keyed on the cycle at which the next event fires"
// alternative named by the design notes: lower overhead than ticking
// every peripheral every cycle, and it keeps falling-edge/rising-edge
// detectors (timer, STAT) exact because a handler always runs at the
// precise cycle it was scheduled for, never "close enough".
package scheduler

import (
	"fmt"
	"math"
)

// Scheduler is a sorted singly-linked list of pending events, plus the
// running master-clock cycle counter.
type Scheduler struct {
	cycles uint64

	root *Event

	events      [eventTypeCount]*Event
	nextEventAt uint64
}

// New returns a Scheduler with an empty event list.
func New() *Scheduler {
	s := &Scheduler{
		nextEventAt: math.MaxUint64,
		root: &Event{
			cycle: math.MaxUint64,
			handler: func() {
				panic("scheduler: root sentinel fired")
			},
		},
	}
	for i := range s.events {
		s.events[i] = &Event{}
	}
	return s
}

// Cycle returns the current master-clock cycle count.
func (s *Scheduler) Cycle() uint64 { return s.cycles }

// RegisterEvent binds the handler that will run whenever eventType is
// scheduled. Registering is a one-time setup step per peripheral; it
// never allocates at schedule time.
func (s *Scheduler) RegisterEvent(eventType EventType, fn func()) {
	s.events[eventType].handler = fn
	s.events[eventType].eventType = eventType
}

// Tick advances the master clock by c cycles and fires every event
// whose target cycle has now been reached.
func (s *Scheduler) Tick(c uint64) {
	s.cycles += c
	if s.nextEventAt > s.cycles {
		return
	}
	s.nextEventAt = s.runDueEvents()
}

func (s *Scheduler) runDueEvents() uint64 {
	target := s.cycles
	next := s.root.cycle
	for next <= target {
		event := s.root
		s.root = event.next
		s.cycles = event.cycle
		event.handler()
		next = s.root.cycle
	}
	s.cycles = target
	return next
}

// ScheduleEvent arms eventType to fire `in` cycles from now. Only one
// instance of a given EventType may be pending at a time; scheduling
// it again replaces the prior occurrence.
func (s *Scheduler) ScheduleEvent(eventType EventType, in uint64) {
	s.DescheduleEvent(eventType)

	atCycle := s.cycles + in
	this := s.events[eventType]
	this.cycle = atCycle
	this.next = nil

	if atCycle < s.nextEventAt {
		this.next = s.root
		s.root = this
		s.nextEventAt = atCycle
		return
	}

	var prev *Event
	event := s.root
	for event != nil {
		if atCycle < event.cycle {
			this.next = event
			if prev == nil {
				s.root = this
				s.nextEventAt = atCycle
			} else {
				prev.next = this
			}
			return
		}
		prev = event
		event = event.next
	}
	prev.next = this
}

// DescheduleEvent removes a pending event of the given type, if any.
func (s *Scheduler) DescheduleEvent(eventType EventType) {
	var prev *Event
	event := s.root
	for event != nil {
		if event == s.events[eventType] {
			if prev == nil {
				s.root = event.next
			} else {
				prev.next = event.next
			}
			if s.root != nil {
				s.nextEventAt = s.root.cycle
			} else {
				s.nextEventAt = math.MaxUint64
			}
			return
		}
		prev = event
		event = event.next
	}
}

// Pending reports whether eventType currently has a scheduled
// occurrence in the list.
func (s *Scheduler) Pending(eventType EventType) bool {
	event := s.root
	for event != nil {
		if event == s.events[eventType] {
			return true
		}
		event = event.next
	}
	return false
}

// Skip jumps the clock directly to the next scheduled event and fires
// it; used when the CPU is halted and nothing else can advance time.
func (s *Scheduler) Skip() {
	if s.root == nil || s.root.cycle == math.MaxUint64 {
		return
	}
	s.cycles = s.root.cycle
	s.nextEventAt = s.runDueEvents()
}

func (s *Scheduler) String() string {
	out := ""
	for e := s.root; e != nil; e = e.next {
		out += fmt.Sprintf("%d@%d->", e.eventType, e.cycle)
	}
	return out
}
