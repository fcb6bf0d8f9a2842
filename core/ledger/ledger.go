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

package ledger

import (
	"context"
	"sync"

	"code.veilmarkets.io/veil/core/types"
	"code.veilmarkets.io/veil/logging"

	"github.com/pkg/errors"
)

// EncryptedValues is the external capability storing ciphertext handles for
// a bid's hidden amount and price. The ledger only ever asks it to authorize
// a handle for a reader principal, it never performs any computation on the
// ciphertext itself.
//
//go:generate go run github.com/golang/mock/mockgen -destination mocks/encrypted_values_mock.go -package mocks code.veilmarkets.io/veil/core/ledger EncryptedValues
type EncryptedValues interface {
	Authorize(ctx context.Context, handle, principal string) error
}

// book is the per-market bid arena: a dense vector of bids indexed by bid
// id, plus the reveal order. A new auction instance on the same market gets
// a fresh book.
type book struct {
	bids        []*types.Bid
	revealedIDs []uint64
}

// Ledger owns the append-only set of bids per market. Bids are created by
// Submit during the bidding window and mutated exactly once by Reveal; the
// timing gates themselves live in the auction registry, callers hold their
// per-market lock across the gate check and the ledger call.
type Ledger struct {
	log       *logging.Logger
	cfg       Config
	encValues EncryptedValues
	// principal names this engine instance as the allowed reader when
	// authorizing ciphertext handles.
	principal string

	mu    sync.RWMutex
	books map[string]*book
}

// New returns a bid ledger authorizing ciphertext handles for the given
// reader principal.
func New(log *logging.Logger, cfg Config, encValues EncryptedValues, principal string) *Ledger {
	log = log.Named(namedLogger)
	log.SetLevel(cfg.Level.Get())
	return &Ledger{
		log:       log,
		cfg:       cfg,
		encValues: encValues,
		principal: principal,
		books:     map[string]*book{},
	}
}

// ReloadConf updates the ledger configuration.
func (l *Ledger) ReloadConf(cfg Config) {
	l.log.SetLevel(cfg.Level.Get())
	l.mu.Lock()
	l.cfg = cfg
	l.mu.Unlock()
}

// Reset discards the market's book. Called when a new auction instance
// starts so bid ids restart at 0. The previous instance's records are kept
// by whoever holds snapshots; the ledger only serves the live instance.
func (l *Ledger) Reset(marketID string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.books[marketID] = &book{}
}

// Submit appends a sealed bid to the market's book and returns its id. Bid
// ids are dense and strictly increasing from 0, allocated inside the same
// critical section as the insert. Both ciphertext handles are authorized
// for this engine's principal; an authorization failure aborts the submit
// with no bid recorded.
func (l *Ledger) Submit(ctx context.Context, sub *types.BidSubmission) (uint64, error) {
	if err := l.encValues.Authorize(ctx, sub.EncAmount, l.principal); err != nil {
		return 0, errors.Wrap(err, "authorizing encrypted amount")
	}
	if err := l.encValues.Authorize(ctx, sub.EncPrice, l.principal); err != nil {
		return 0, errors.Wrap(err, "authorizing encrypted price")
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	bk, ok := l.books[sub.MarketID]
	if !ok {
		return 0, types.ErrMarketNotFound
	}

	id := uint64(len(bk.bids))
	bk.bids = append(bk.bids, &types.Bid{
		ID:         id,
		MarketID:   sub.MarketID,
		Party:      sub.Party,
		Side:       sub.Side,
		EncAmount:  sub.EncAmount,
		EncPrice:   sub.EncPrice,
		Commitment: append([]byte(nil), sub.Commitment...),
	})

	if l.log.IsDebug() {
		l.log.Debug("sealed bid submitted",
			logging.MarketID(sub.MarketID),
			logging.BidID(id),
			logging.Party(sub.Party),
			logging.Stringer("side", sub.Side),
		)
	}
	return id, nil
}

// Reveal discloses a bid's plaintext values. The revealed values are hashed
// with the nonce and owner identity and compared against the commitment
// stored at submission; a mismatch leaves the bid record completely
// unchanged so the owner can retry within the window. On success the
// plaintext fields are set, write-once, and the bid id is appended to the
// market's reveal sequence.
func (l *Ledger) Reveal(rev *types.BidReveal) (*types.Bid, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	bk, ok := l.books[rev.MarketID]
	if !ok {
		return nil, types.ErrMarketNotFound
	}
	if rev.BidID >= uint64(len(bk.bids)) {
		return nil, types.ErrBidNotFound
	}
	bid := bk.bids[rev.BidID]

	if bid.Party != rev.Party {
		return nil, types.ErrNotBidOwner
	}
	if bid.Revealed {
		return nil, types.ErrAlreadyRevealed
	}
	if !checkCommitment(bid.Commitment, rev.Amount, rev.Price, rev.Nonce, rev.Party) {
		return nil, types.ErrCommitmentMismatch
	}

	bid.Revealed = true
	bid.Amount = rev.Amount
	bid.Price = rev.Price.Clone()
	bk.revealedIDs = append(bk.revealedIDs, bid.ID)

	if l.log.IsDebug() {
		l.log.Debug("bid revealed",
			logging.MarketID(rev.MarketID),
			logging.BidID(bid.ID),
			logging.Uint64("amount", bid.Amount),
			logging.String("price", bid.Price.String()),
		)
	}
	return bid.Clone(), nil
}

// RevealedBids returns a snapshot of all revealed bids in reveal order.
// The clearing path computes fills on the snapshot and commits them back
// through ApplyFills, so readers never observe a half-cleared book.
func (l *Ledger) RevealedBids(marketID string) []*types.Bid {
	l.mu.RLock()
	defer l.mu.RUnlock()

	bk, ok := l.books[marketID]
	if !ok {
		return nil
	}
	bids := make([]*types.Bid, 0, len(bk.revealedIDs))
	for _, id := range bk.revealedIDs {
		bids = append(bids, bk.bids[id].Clone())
	}
	return bids
}

// ApplyFills attributes the quantities of the given matches to the bids on
// both sides, flagging every touched bid as matched. All fills land under a
// single write lock acquisition: any concurrent read sees the book either
// entirely before or entirely after the clearing run, never in between.
func (l *Ledger) ApplyFills(marketID string, matches []*types.Match) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	bk, ok := l.books[marketID]
	if !ok {
		return types.ErrMarketNotFound
	}
	for _, m := range matches {
		if m.BuyBidID >= uint64(len(bk.bids)) || m.SellBidID >= uint64(len(bk.bids)) {
			return types.ErrBidNotFound
		}
		buy, sell := bk.bids[m.BuyBidID], bk.bids[m.SellBidID]
		buy.FilledAmount += m.Quantity
		sell.FilledAmount += m.Quantity
		buy.Matched = true
		sell.Matched = true
	}
	return nil
}

// RevealedIDs returns the market's reveal sequence.
func (l *Ledger) RevealedIDs(marketID string) ([]uint64, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	bk, ok := l.books[marketID]
	if !ok {
		return nil, types.ErrMarketNotFound
	}
	return append([]uint64(nil), bk.revealedIDs...), nil
}

// GetBid returns a snapshot of a single bid.
func (l *Ledger) GetBid(marketID string, bidID uint64) (*types.Bid, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	bk, ok := l.books[marketID]
	if !ok {
		return nil, types.ErrMarketNotFound
	}
	if bidID >= uint64(len(bk.bids)) {
		return nil, types.ErrBidNotFound
	}
	return bk.bids[bidID].Clone(), nil
}
