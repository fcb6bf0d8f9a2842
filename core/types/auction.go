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

package types

import (
	"time"

	"code.veilmarkets.io/veil/libs/num"
)

// Side of a bid, either buying or selling.
type Side int8

const (
	SideUnspecified Side = iota
	SideBuy
	SideSell
)

func (s Side) String() string {
	switch s {
	case SideBuy:
		return "buy"
	case SideSell:
		return "sell"
	default:
		return "unspecified"
	}
}

// Phase is the lifecycle stage of one auction instance. It only ever moves
// forward within an instance; a new instance restarts at PhaseBidding.
type Phase int8

const (
	// PhaseUnstarted means no auction was ever run on the market.
	PhaseUnstarted Phase = iota
	// PhaseBidding accepts sealed bid submissions until the bidding deadline.
	PhaseBidding
	// PhaseReveal accepts plaintext reveals between the bidding and reveal
	// deadlines. The Bidding->Reveal transition is lazy, it happens on the
	// first call observing that the bidding deadline has passed.
	PhaseReveal
	// PhaseCleared marks that the clearing algorithm has run for this
	// instance, so a second clearing attempt can be rejected.
	PhaseCleared
	// PhaseSettled is terminal for the instance, the market can be restarted.
	PhaseSettled
)

func (p Phase) String() string {
	switch p {
	case PhaseUnstarted:
		return "unstarted"
	case PhaseBidding:
		return "bidding"
	case PhaseReveal:
		return "reveal"
	case PhaseCleared:
		return "cleared"
	case PhaseSettled:
		return "settled"
	default:
		return "unknown"
	}
}

// Market is the per-venue auction instance state.
type Market struct {
	ID            string
	Phase         Phase
	BiddingEnd    time.Time
	RevealEnd     time.Time
	TotalBids     uint64
	TotalRevealed uint64
	// ClearingPrice stays nil until a clearing run produced at least one
	// crossing pair.
	ClearingPrice *num.Uint
}

func (m *Market) Clone() *Market {
	if m == nil {
		return nil
	}
	cpy := *m
	cpy.ClearingPrice = m.ClearingPrice.Clone()
	return &cpy
}

// Bid is a single hidden order. The plaintext Amount and Price fields are
// zero until the reveal succeeded; Commitment never changes once set.
type Bid struct {
	ID         uint64
	MarketID   string
	Party      string
	Side       Side
	EncAmount  string
	EncPrice   string
	Commitment []byte

	Revealed bool
	Amount   uint64
	Price    *num.Uint

	FilledAmount uint64
	Matched      bool
}

func (b *Bid) Clone() *Bid {
	if b == nil {
		return nil
	}
	cpy := *b
	cpy.Commitment = append([]byte(nil), b.Commitment...)
	cpy.Price = b.Price.Clone()
	return &cpy
}

// Remaining is the revealed quantity not yet attributed to a match.
func (b *Bid) Remaining() uint64 {
	return b.Amount - b.FilledAmount
}

// BidSubmission is a request to enter a sealed bid during the bidding window.
type BidSubmission struct {
	MarketID   string
	Party      string
	Side       Side
	EncAmount  string
	EncPrice   string
	Commitment []byte
}

// BidReveal discloses the plaintext values bound by a prior commitment.
type BidReveal struct {
	MarketID string
	BidID    uint64
	Party    string
	Amount   uint64
	Price    *num.Uint
	Nonce    uint64
}

// Match pairs a buy and a sell bid for a filled quantity at the uniform
// clearing price of the batch.
type Match struct {
	BuyBidID  uint64
	SellBidID uint64
	Quantity  uint64
	Price     *num.Uint
}

func (m *Match) Clone() *Match {
	if m == nil {
		return nil
	}
	cpy := *m
	cpy.Price = m.Price.Clone()
	return &cpy
}
