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
	"time"

	"code.veilmarkets.io/veil/core/types"
	"code.veilmarkets.io/veil/libs/num"
)

// AuctionStarted is emitted when a new auction instance opens for bidding.
type AuctionStarted struct {
	*Base
	marketID   string
	biddingEnd time.Time
	revealEnd  time.Time
}

func NewAuctionStartedEvent(ctx context.Context, mkt *types.Market) *AuctionStarted {
	return &AuctionStarted{
		Base:       newBase(ctx, AuctionStartedEvent),
		marketID:   mkt.ID,
		biddingEnd: mkt.BiddingEnd,
		revealEnd:  mkt.RevealEnd,
	}
}

func (a AuctionStarted) MarketID() string {
	return a.marketID
}

func (a AuctionStarted) BiddingEnd() time.Time {
	return a.biddingEnd
}

func (a AuctionStarted) RevealEnd() time.Time {
	return a.revealEnd
}

// AuctionCleared is emitted once per auction instance when the clearing
// algorithm has run, whether or not any pair crossed.
type AuctionCleared struct {
	*Base
	marketID      string
	clearingPrice *num.Uint
	matches       []*types.Match
}

func NewAuctionClearedEvent(ctx context.Context, marketID string, price *num.Uint, matches []*types.Match) *AuctionCleared {
	cpy := make([]*types.Match, 0, len(matches))
	for _, m := range matches {
		cpy = append(cpy, m.Clone())
	}
	return &AuctionCleared{
		Base:          newBase(ctx, AuctionClearedEvent),
		marketID:      marketID,
		clearingPrice: price.Clone(),
		matches:       cpy,
	}
}

func (a AuctionCleared) MarketID() string {
	return a.marketID
}

// ClearingPrice is nil when the run produced no match.
func (a AuctionCleared) ClearingPrice() *num.Uint {
	return a.clearingPrice.Clone()
}

func (a AuctionCleared) Matches() []*types.Match {
	out := make([]*types.Match, 0, len(a.matches))
	for _, m := range a.matches {
		out = append(out, m.Clone())
	}
	return out
}

// AuctionSettled is emitted when an auction instance is terminated.
type AuctionSettled struct {
	*Base
	marketID string
}

func NewAuctionSettledEvent(ctx context.Context, marketID string) *AuctionSettled {
	return &AuctionSettled{
		Base:     newBase(ctx, AuctionSettledEvent),
		marketID: marketID,
	}
}

func (a AuctionSettled) MarketID() string {
	return a.marketID
}
