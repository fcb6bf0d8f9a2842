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

package events

import (
	"context"

	vgcontext "code.veilmarkets.io/veil/libs/context"
)

// Type of an engine event.
type Type int

const (
	// All is used by subscribers that want every event, it has no
	// corresponding payload.
	All Type = iota
	AuctionStartedEvent
	BidSubmittedEvent
	BidRevealedEvent
	AuctionClearedEvent
	AuctionSettledEvent
)

var eventStrings = map[Type]string{
	All:                 "ALL",
	AuctionStartedEvent: "AuctionStarted",
	BidSubmittedEvent:   "BidSubmitted",
	BidRevealedEvent:    "BidRevealed",
	AuctionClearedEvent: "AuctionCleared",
	AuctionSettledEvent: "AuctionSettled",
}

func (t Type) String() string {
	s, ok := eventStrings[t]
	if !ok {
		return "UNKNOWN EVENT"
	}
	return s
}

// Event is the common behaviour all engine events share.
type Event interface {
	Type() Type
	Context() context.Context
	TraceID() string
	MarketID() string
}

// Base common denominator all events share.
type Base struct {
	ctx     context.Context
	traceID string
	et      Type
}

func newBase(ctx context.Context, t Type) *Base {
	ctx, tID := vgcontext.TraceIDFromContext(ctx)
	return &Base{
		ctx:     ctx,
		traceID: tID,
		et:      t,
	}
}

// TraceID returns the event trace ID.
func (b Base) TraceID() string {
	return b.traceID
}

// Context returns the event context.
func (b Base) Context() context.Context {
	return b.ctx
}

// Type returns the event type.
func (b Base) Type() Type {
	return b.et
}
