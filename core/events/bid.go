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

	"code.veilmarkets.io/veil/core/types"
)

// BidSubmitted is emitted for every accepted sealed bid. It only carries
// public information: the owner, side and ciphertext handles, never the
// hidden values.
type BidSubmitted struct {
	*Base
	bid types.Bid
}

func NewBidSubmittedEvent(ctx context.Context, bid *types.Bid) *BidSubmitted {
	return &BidSubmitted{
		Base: newBase(ctx, BidSubmittedEvent),
		bid:  *bid.Clone(),
	}
}

func (b BidSubmitted) MarketID() string {
	return b.bid.MarketID
}

func (b BidSubmitted) Bid() types.Bid {
	return *b.bid.Clone()
}

// BidRevealed is emitted when a reveal passes the commitment check.
type BidRevealed struct {
	*Base
	bid types.Bid
}

func NewBidRevealedEvent(ctx context.Context, bid *types.Bid) *BidRevealed {
	return &BidRevealed{
		Base: newBase(ctx, BidRevealedEvent),
		bid:  *bid.Clone(),
	}
}

func (b BidRevealed) MarketID() string {
	return b.bid.MarketID
}

func (b BidRevealed) Bid() types.Bid {
	return *b.bid.Clone()
}
