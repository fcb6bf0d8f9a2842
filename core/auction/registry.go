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

package auction

import (
	"sync"
	"time"

	"code.veilmarkets.io/veil/core/types"
	"code.veilmarkets.io/veil/libs/num"
	"code.veilmarkets.io/veil/logging"
)

// Registry owns the per-market auction instance records: lifecycle phase,
// timing windows and counters. It gates which ledger and clearing operations
// are legal at any point in time.
//
// Deadlines are evaluated lazily against the time passed in by the caller,
// there are no timers. The registry's own mutex makes individual calls
// atomic; callers composing a registry check with a ledger mutation hold
// their per-market lock across both.
type Registry struct {
	log *logging.Logger
	cfg Config

	mu      sync.RWMutex
	markets map[string]*types.Market
}

// New returns an auction registry with no known markets.
func New(log *logging.Logger, cfg Config) *Registry {
	log = log.Named(namedLogger)
	log.SetLevel(cfg.Level.Get())
	return &Registry{
		log:     log,
		cfg:     cfg,
		markets: map[string]*types.Market{},
	}
}

// ReloadConf updates the registry configuration. Already running auction
// instances keep the windows they were started with.
func (r *Registry) ReloadConf(cfg Config) {
	r.log.SetLevel(cfg.Level.Get())
	r.mu.Lock()
	r.cfg = cfg
	r.mu.Unlock()
}

// Start begins a new auction instance on the market. The market either must
// never have run an auction, or its previous instance must be settled. The
// new instance reuses the market id but resets all counters.
func (r *Registry) Start(marketID string, now time.Time) (*types.Market, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	mkt, ok := r.markets[marketID]
	if ok && mkt.Phase != types.PhaseSettled {
		return nil, types.ErrAuctionActive
	}

	biddingEnd := now.Add(r.cfg.BiddingWindow.Get())
	mkt = &types.Market{
		ID:         marketID,
		Phase:      types.PhaseBidding,
		BiddingEnd: biddingEnd,
		RevealEnd:  biddingEnd.Add(r.cfg.RevealWindow.Get()),
	}
	r.markets[marketID] = mkt

	r.log.Info("auction started",
		logging.MarketID(marketID),
		logging.Time("bidding-end", mkt.BiddingEnd),
		logging.Time("reveal-end", mkt.RevealEnd),
	)
	return mkt.Clone(), nil
}

// EnsureBiddingOpen checks that sealed bids are currently accepted on the
// market.
func (r *Registry) EnsureBiddingOpen(marketID string, now time.Time) error {
	r.mu.RLock()
	defer r.mu.RUnlock()

	mkt, ok := r.markets[marketID]
	if !ok {
		return types.ErrMarketNotFound
	}
	if mkt.Phase != types.PhaseBidding {
		return types.ErrWrongPhase
	}
	if !now.Before(mkt.BiddingEnd) {
		return types.ErrBiddingClosed
	}
	return nil
}

// EnsureRevealOpen checks that reveals are currently accepted on the market,
// lazily moving the instance from Bidding to Reveal on the first call that
// observes the bidding deadline has passed. The reveal window is inclusive
// of its start and exclusive of its end.
func (r *Registry) EnsureRevealOpen(marketID string, now time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	mkt, ok := r.markets[marketID]
	if !ok {
		return types.ErrMarketNotFound
	}
	switch mkt.Phase {
	case types.PhaseBidding:
		if now.Before(mkt.BiddingEnd) {
			return types.ErrOutsideRevealWindow
		}
		mkt.Phase = types.PhaseReveal
	case types.PhaseReveal:
	default:
		return types.ErrWrongPhase
	}
	if !now.Before(mkt.RevealEnd) {
		return types.ErrOutsideRevealWindow
	}
	return nil
}

// BeginClearing transitions the instance to the post-clear marker. It fails
// before the reveal deadline, and fails once clearing has already run. The
// phase check and the transition are one atomic step, which is what makes
// clearing run at most once per instance.
func (r *Registry) BeginClearing(marketID string, now time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	mkt, ok := r.markets[marketID]
	if !ok {
		return types.ErrMarketNotFound
	}
	switch mkt.Phase {
	case types.PhaseBidding, types.PhaseReveal:
	default:
		return types.ErrAlreadyCleared
	}
	if now.Before(mkt.RevealEnd) {
		return types.ErrClearingTooEarly
	}
	mkt.Phase = types.PhaseCleared
	return nil
}

// Settle terminates the auction instance. Unmatched revealed bids simply
// expire with it. The clearing price keeps whatever value clearing produced,
// possibly none.
func (r *Registry) Settle(marketID string, now time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	mkt, ok := r.markets[marketID]
	if !ok {
		return types.ErrMarketNotFound
	}
	if mkt.Phase == types.PhaseSettled {
		return types.ErrAlreadySettled
	}
	if now.Before(mkt.RevealEnd) {
		return types.ErrSettlementTooEarly
	}
	mkt.Phase = types.PhaseSettled

	r.log.Info("auction settled",
		logging.MarketID(marketID),
		logging.String("clearing-price", PriceString(mkt.ClearingPrice, r.cfg.PriceDecimals)),
	)
	return nil
}

// RecordBid bumps the submitted bid counter for the market.
func (r *Registry) RecordBid(marketID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if mkt, ok := r.markets[marketID]; ok {
		mkt.TotalBids++
	}
}

// RecordReveal bumps the revealed bid counter for the market.
func (r *Registry) RecordReveal(marketID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if mkt, ok := r.markets[marketID]; ok {
		mkt.TotalRevealed++
	}
}

// SetClearingPrice stores the uniform price produced by clearing. A nil
// price means no pair crossed and leaves the market price unset.
func (r *Registry) SetClearingPrice(marketID string, price *num.Uint) {
	if price == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if mkt, ok := r.markets[marketID]; ok {
		mkt.ClearingPrice = price.Clone()
	}
}

// GetMarket returns a snapshot of the market's auction state.
func (r *Registry) GetMarket(marketID string) (*types.Market, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	mkt, ok := r.markets[marketID]
	if !ok {
		return nil, types.ErrMarketNotFound
	}
	return mkt.Clone(), nil
}

// PriceString renders an integral price for humans, shifted right by the
// given number of decimal places. A nil price reads "unset".
func PriceString(p *num.Uint, decimals uint) string {
	if p == nil {
		return "unset"
	}
	return num.DecimalFromUint(p).Shift(-int32(decimals)).String()
}
