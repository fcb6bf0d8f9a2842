// Copyright (C) 2023 Veil Markets Limited
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as
// published by the Free Software Foundation, either version 3 of the
// License, or (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program.  If not, see <http://www.gnu.org/licenses/>.

package subscribers

import (
	"sync"

	"code.veilmarkets.io/veil/core/events"
)

// EventLog is an append-only record of every engine event, queryable by
// observers. It is a side channel: auction correctness never depends on it.
type EventLog struct {
	mu  sync.RWMutex
	id  int
	log []events.Event
}

// NewEventLog returns an event log subscribing to all event types.
func NewEventLog() *EventLog {
	return &EventLog{}
}

// Push appends the events to the log.
func (e *EventLog) Push(evts ...events.Event) {
	e.mu.Lock()
	e.log = append(e.log, evts...)
	e.mu.Unlock()
}

// Types subscribes the log to everything.
func (e *EventLog) Types() []events.Type {
	return []events.Type{events.All}
}

func (e *EventLog) SetID(id int) {
	e.id = id
}

func (e *EventLog) ID() int {
	return e.id
}

// All returns the full event sequence in emission order.
func (e *EventLog) All() []events.Event {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return append([]events.Event(nil), e.log...)
}

// ByMarket returns the event sequence for one market in emission order.
func (e *EventLog) ByMarket(marketID string) []events.Event {
	e.mu.RLock()
	defer e.mu.RUnlock()

	out := make([]events.Event, 0, len(e.log))
	for _, evt := range e.log {
		if evt.MarketID() == marketID {
			out = append(out, evt)
		}
	}
	return out
}
