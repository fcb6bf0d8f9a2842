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

package execution

import (
	"context"
	"sync"
	"time"

	"code.veilmarkets.io/veil/core/auction"
	"code.veilmarkets.io/veil/core/events"
	"code.veilmarkets.io/veil/core/ledger"
	"code.veilmarkets.io/veil/core/matching"
	"code.veilmarkets.io/veil/core/types"
	"code.veilmarkets.io/veil/libs/num"
	"code.veilmarkets.io/veil/logging"
	"code.veilmarkets.io/veil/metrics"
)

// TimeService is the engine's only clock. Deadlines are compared against it
// lazily, at the point a call executes.
//
//go:generate go run github.com/golang/mock/mockgen -destination mocks/time_service_mock.go -package mocks code.veilmarkets.io/veil/core/execution TimeService
type TimeService interface {
	GetTimeNow() time.Time
}

// SettlementNotifier receives the finalized match list once per clearing
// run. It must be idempotent and retry safe: the engine guarantees exactly
// once production of the match records, not exactly once delivery.
//
//go:generate go run github.com/golang/mock/mockgen -destination mocks/settlement_notifier_mock.go -package mocks code.veilmarkets.io/veil/core/execution SettlementNotifier
type SettlementNotifier interface {
	NotifyMatches(ctx context.Context, marketID string, matches []*types.Match) error
}

// Broker is the engine's event side channel.
//
//go:generate go run github.com/golang/mock/mockgen -destination mocks/broker_mock.go -package mocks code.veilmarkets.io/veil/core/execution Broker
type Broker interface {
	Send(event events.Event)
}

// ClearingEngine is the seam for the batch uncrossing step, so a future
// implementation comparing still-encrypted prices can replace the plaintext
// one without touching the lifecycle machinery.
type ClearingEngine interface {
	Uncross(bids []*types.Bid) *matching.Result
}

// Engine exposes the sealed-bid auction operations. Every market runs
// independently; operations on one market serialize through its own lock,
// with the precondition check and the mutation it guards always under the
// same lock acquisition. The engine spawns no goroutines and sets no
// timers.
type Engine struct {
	log *logging.Logger
	cfg Config

	timeService TimeService
	broker      Broker
	notifier    SettlementNotifier

	registry *auction.Registry
	ledger   *ledger.Ledger
	clearer  ClearingEngine

	mktMu    sync.Mutex
	mktLocks map[string]*sync.Mutex
}

// NewEngine assembles the auction registry, bid ledger and clearing engine
// behind the public operation surface.
func NewEngine(
	log *logging.Logger,
	cfg Config,
	timeService TimeService,
	encValues ledger.EncryptedValues,
	notifier SettlementNotifier,
	broker Broker,
) *Engine {
	log = log.Named(namedLogger)
	log.SetLevel(cfg.Level.Get())

	return &Engine{
		log:         log,
		cfg:         cfg,
		timeService: timeService,
		broker:      broker,
		notifier:    notifier,
		registry:    auction.New(log, cfg.Auction),
		ledger:      ledger.New(log, cfg.Ledger, encValues, cfg.Principal),
		clearer:     matching.New(log, cfg.Matching),
		mktLocks:    map[string]*sync.Mutex{},
	}
}

// ReloadConf updates the engine and sub-engine configurations.
func (e *Engine) ReloadConf(cfg Config) {
	e.log.SetLevel(cfg.Level.Get())
	e.cfg = cfg
	e.registry.ReloadConf(cfg.Auction)
	e.ledger.ReloadConf(cfg.Ledger)
	if m, ok := e.clearer.(*matching.Engine); ok {
		m.ReloadConf(cfg.Matching)
	}
}

// SetClearingEngine swaps the uncrossing implementation. Intended for
// deployments clearing on encrypted values; must be called before any
// market is started.
func (e *Engine) SetClearingEngine(c ClearingEngine) {
	e.clearer = c
}

func (e *Engine) marketLock(marketID string) *sync.Mutex {
	e.mktMu.Lock()
	defer e.mktMu.Unlock()
	mu, ok := e.mktLocks[marketID]
	if !ok {
		mu = &sync.Mutex{}
		e.mktLocks[marketID] = mu
	}
	return mu
}

// StartAuction begins a new auction instance on the market, setting the
// bidding and reveal deadlines from the configured windows. It fails while
// a previous instance is anywhere short of settled.
func (e *Engine) StartAuction(ctx context.Context, marketID string) (*types.Market, error) {
	mu := e.marketLock(marketID)
	mu.Lock()
	defer mu.Unlock()

	now := e.timeService.GetTimeNow()
	mkt, err := e.registry.Start(marketID, now)
	if err != nil {
		return nil, err
	}
	e.ledger.Reset(marketID)

	metrics.AuctionCounterInc(marketID, "started")
	e.broker.Send(events.NewAuctionStartedEvent(ctx, mkt))
	return mkt, nil
}

// SubmitBid enters a sealed bid during the bidding window and returns the
// allocated bid id.
func (e *Engine) SubmitBid(ctx context.Context, sub *types.BidSubmission) (uint64, error) {
	if sub.Side != types.SideBuy && sub.Side != types.SideSell {
		return 0, types.ErrInvalidBidSubmission
	}
	if len(sub.Commitment) == 0 {
		return 0, types.ErrInvalidBidSubmission
	}

	mu := e.marketLock(sub.MarketID)
	mu.Lock()
	defer mu.Unlock()

	now := e.timeService.GetTimeNow()
	if err := e.registry.EnsureBiddingOpen(sub.MarketID, now); err != nil {
		return 0, err
	}

	id, err := e.ledger.Submit(ctx, sub)
	if err != nil {
		return 0, err
	}
	e.registry.RecordBid(sub.MarketID)

	metrics.BidCounterInc(sub.MarketID, sub.Side.String())
	if bid, err := e.ledger.GetBid(sub.MarketID, id); err == nil {
		e.broker.Send(events.NewBidSubmittedEvent(ctx, bid))
	}
	return id, nil
}

// RevealBid discloses a bid's plaintext values within the reveal window.
// The window is inclusive of the bidding deadline and exclusive of the
// reveal deadline. A commitment mismatch leaves the bid unchanged, the
// owner may retry while the window is open.
func (e *Engine) RevealBid(ctx context.Context, rev *types.BidReveal) error {
	mu := e.marketLock(rev.MarketID)
	mu.Lock()
	defer mu.Unlock()

	now := e.timeService.GetTimeNow()
	if err := e.registry.EnsureRevealOpen(rev.MarketID, now); err != nil {
		return err
	}

	bid, err := e.ledger.Reveal(rev)
	if err != nil {
		if err == types.ErrCommitmentMismatch {
			metrics.MismatchCounterInc(rev.MarketID)
		}
		return err
	}
	e.registry.RecordReveal(rev.MarketID)

	metrics.RevealCounterInc(rev.MarketID)
	e.broker.Send(events.NewBidRevealedEvent(ctx, bid))
	return nil
}

// Clear runs the batch double-auction over the revealed bids. It runs at
// most once per auction instance: the transition to the post-clear phase
// and the production of the matches happen under the same market lock, so
// concurrent callers cannot both clear. The finalized match list is handed
// to the settlement notifier; delivery failures are logged, not retried,
// the notifier is expected to reconcile.
func (e *Engine) Clear(ctx context.Context, marketID string) ([]*types.Match, *num.Uint, error) {
	mu := e.marketLock(marketID)
	mu.Lock()
	defer mu.Unlock()

	now := e.timeService.GetTimeNow()
	if err := e.registry.BeginClearing(marketID, now); err != nil {
		return nil, nil, err
	}

	// uncross a snapshot of the book, then commit the fills in one step so
	// concurrent readers never see a half-cleared book
	res := e.clearer.Uncross(e.ledger.RevealedBids(marketID))
	if err := e.ledger.ApplyFills(marketID, res.Matches); err != nil {
		return nil, nil, err
	}
	e.registry.SetClearingPrice(marketID, res.ClearingPrice)

	var quantity uint64
	for _, m := range res.Matches {
		quantity += m.Quantity
	}
	metrics.AuctionCounterInc(marketID, "cleared")
	metrics.MatchCountersAdd(marketID, uint64(len(res.Matches)), quantity)

	e.log.Info("auction cleared",
		logging.MarketID(marketID),
		logging.Int("matches", len(res.Matches)),
		logging.Uint64("quantity", quantity),
		logging.String("clearing-price", auction.PriceString(res.ClearingPrice, e.cfg.Auction.PriceDecimals)),
	)
	e.broker.Send(events.NewAuctionClearedEvent(ctx, marketID, res.ClearingPrice, res.Matches))

	if len(res.Matches) > 0 {
		if err := e.notifier.NotifyMatches(ctx, marketID, res.Matches); err != nil {
			e.log.Warn("settlement notification failed",
				logging.MarketID(marketID),
				logging.Error(err),
			)
		}
	}

	out := make([]*types.Match, 0, len(res.Matches))
	for _, m := range res.Matches {
		out = append(out, m.Clone())
	}
	return out, res.ClearingPrice.Clone(), nil
}

// SettleAuction terminates the auction instance. Revealed bids that never
// matched expire with it; the market can then be restarted.
func (e *Engine) SettleAuction(ctx context.Context, marketID string) error {
	mu := e.marketLock(marketID)
	mu.Lock()
	defer mu.Unlock()

	now := e.timeService.GetTimeNow()
	if err := e.registry.Settle(marketID, now); err != nil {
		return err
	}

	metrics.AuctionCounterInc(marketID, "settled")
	e.broker.Send(events.NewAuctionSettledEvent(ctx, marketID))
	return nil
}

// GetAuction returns a snapshot of the market's auction state.
func (e *Engine) GetAuction(marketID string) (*types.Market, error) {
	return e.registry.GetMarket(marketID)
}

// GetBid returns a snapshot of a single bid.
func (e *Engine) GetBid(marketID string, bidID uint64) (*types.Bid, error) {
	return e.ledger.GetBid(marketID, bidID)
}

// GetRevealedIDs returns the market's reveal sequence.
func (e *Engine) GetRevealedIDs(marketID string) ([]uint64, error) {
	return e.ledger.RevealedIDs(marketID)
}
