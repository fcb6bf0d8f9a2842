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

package broker

import (
	"sync"

	"code.veilmarkets.io/veil/core/events"
	"code.veilmarkets.io/veil/logging"
)

// Subscriber receives events from the broker. A subscriber registered for
// events.All gets everything, otherwise only the types it lists.
//
//go:generate go run github.com/golang/mock/mockgen -destination mocks/subscriber_mock.go -package mocks code.veilmarkets.io/veil/broker Subscriber
type Subscriber interface {
	Push(evts ...events.Event)
	Types() []events.Type
	SetID(id int)
	ID() int
}

// Broker is the engine's event side channel. Delivery is synchronous and
// in-process: the engine never depends on the broker for correctness, a
// slow subscriber slows emission but cannot corrupt auction state.
type Broker struct {
	log *logging.Logger

	mu    sync.Mutex
	subs  map[int]Subscriber
	tSubs map[events.Type]map[int]Subscriber
	// lastID ensures a unique ID for all subscribers, regardless of what
	// event types they subscribe to
	lastID int
}

// New creates a new broker.
func New(log *logging.Logger, cfg Config) *Broker {
	log = log.Named(namedLogger)
	log.SetLevel(cfg.Level.Get())
	return &Broker{
		log:   log,
		subs:  map[int]Subscriber{},
		tSubs: map[events.Type]map[int]Subscriber{},
	}
}

// Subscribe registers the subscriber for the event types it declares and
// returns the key to unsubscribe with.
func (b *Broker) Subscribe(s Subscriber) int {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.lastID++
	k := b.lastID
	s.SetID(k)
	b.subs[k] = s
	for _, t := range s.Types() {
		if _, ok := b.tSubs[t]; !ok {
			b.tSubs[t] = map[int]Subscriber{}
		}
		b.tSubs[t][k] = s
	}
	return k
}

// Unsubscribe removes the subscriber under the given key, a zero or unknown
// key is a no-op.
func (b *Broker) Unsubscribe(k int) {
	b.mu.Lock()
	defer b.mu.Unlock()

	s, ok := b.subs[k]
	if !ok {
		return
	}
	delete(b.subs, k)
	for _, t := range s.Types() {
		delete(b.tSubs[t], k)
	}
}

// Send pushes the event to every subscriber registered for its type or for
// events.All.
func (b *Broker) Send(evt events.Event) {
	b.mu.Lock()
	targets := make([]Subscriber, 0, len(b.tSubs[evt.Type()])+len(b.tSubs[events.All]))
	for _, s := range b.tSubs[events.All] {
		targets = append(targets, s)
	}
	for _, s := range b.tSubs[evt.Type()] {
		targets = append(targets, s)
	}
	b.mu.Unlock()

	for _, s := range targets {
		s.Push(evt)
	}
}
