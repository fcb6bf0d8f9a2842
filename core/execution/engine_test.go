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

package execution_test

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"code.veilmarkets.io/veil/broker"
	"code.veilmarkets.io/veil/core/events"
	"code.veilmarkets.io/veil/core/execution"
	"code.veilmarkets.io/veil/core/execution/mocks"
	"code.veilmarkets.io/veil/core/ledger"
	lmocks "code.veilmarkets.io/veil/core/ledger/mocks"
	"code.veilmarkets.io/veil/core/types"
	"code.veilmarkets.io/veil/libs/num"
	"code.veilmarkets.io/veil/logging"
	"code.veilmarkets.io/veil/subscribers"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const market = "BTC/USD"

var t0 = time.Date(2023, 6, 1, 12, 0, 0, 0, time.UTC)

type tstEngine struct {
	*execution.Engine
	ctrl     *gomock.Controller
	notifier *mocks.MockSettlementNotifier
	eventLog *subscribers.EventLog

	// now is the engine's clock, tests move it forward
	now time.Time
}

func getTestEngine(t *testing.T) *tstEngine {
	t.Helper()
	ctrl := gomock.NewController(t)
	log := logging.NewTestLogger()

	te := &tstEngine{
		ctrl:     ctrl,
		notifier: mocks.NewMockSettlementNotifier(ctrl),
		eventLog: subscribers.NewEventLog(),
		now:      t0,
	}

	tsvc := mocks.NewMockTimeService(ctrl)
	tsvc.EXPECT().GetTimeNow().DoAndReturn(func() time.Time {
		return te.now
	}).AnyTimes()

	encValues := lmocks.NewMockEncryptedValues(ctrl)
	encValues.EXPECT().
		Authorize(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(nil).AnyTimes()

	bkr := broker.New(log, broker.NewDefaultConfig())
	bkr.Subscribe(te.eventLog)

	te.Engine = execution.NewEngine(log, execution.NewDefaultConfig(), tsvc, encValues, te.notifier, bkr)
	return te
}

// default windows: bidding 1h, reveal 30m
func (te *tstEngine) biddingEnd() time.Time { return t0.Add(time.Hour) }
func (te *tstEngine) revealEnd() time.Time  { return t0.Add(90 * time.Minute) }

func (te *tstEngine) submit(t *testing.T, party string, side types.Side, amount uint64, price, nonce uint64) uint64 {
	t.Helper()
	id, err := te.SubmitBid(context.Background(), &types.BidSubmission{
		MarketID:   market,
		Party:      party,
		Side:       side,
		EncAmount:  "enc-amount-" + party,
		EncPrice:   "enc-price-" + party,
		Commitment: ledger.BidCommitment(amount, num.NewUint(price), nonce, party),
	})
	require.NoError(t, err)
	return id
}

func (te *tstEngine) reveal(t *testing.T, party string, id, amount, price, nonce uint64) {
	t.Helper()
	err := te.RevealBid(context.Background(), &types.BidReveal{
		MarketID: market,
		BidID:    id,
		Party:    party,
		Amount:   amount,
		Price:    num.NewUint(price),
		Nonce:    nonce,
	})
	require.NoError(t, err)
}

func eventTypes(evts []events.Event) []events.Type {
	out := make([]events.Type, 0, len(evts))
	for _, e := range evts {
		out = append(out, e.Type())
	}
	return out
}

func TestAuctionLifecycle(t *testing.T) {
	te := getTestEngine(t)
	defer te.ctrl.Finish()
	ctx := context.Background()

	mkt, err := te.StartAuction(ctx, market)
	require.NoError(t, err)
	assert.Equal(t, types.PhaseBidding, mkt.Phase)
	assert.Equal(t, te.biddingEnd(), mkt.BiddingEnd)
	assert.Equal(t, te.revealEnd(), mkt.RevealEnd)

	// buyer wants 100 up to 110, seller offers 50 at 105 or better
	buyID := te.submit(t, "alice", types.SideBuy, 100, 110, 1111)
	sellID := te.submit(t, "bob", types.SideSell, 50, 105, 2222)
	assert.EqualValues(t, 0, buyID)
	assert.EqualValues(t, 1, sellID)

	// reveal window opens at the bidding deadline exactly
	te.now = te.biddingEnd()
	te.reveal(t, "alice", buyID, 100, 110, 1111)
	te.reveal(t, "bob", sellID, 50, 105, 2222)

	ids, err := te.GetRevealedIDs(market)
	require.NoError(t, err)
	assert.Equal(t, []uint64{buyID, sellID}, ids)

	te.now = te.revealEnd()
	te.notifier.EXPECT().
		NotifyMatches(gomock.Any(), market, gomock.Any()).
		DoAndReturn(func(_ context.Context, _ string, matches []*types.Match) error {
			require.Len(t, matches, 1)
			assert.EqualValues(t, 50, matches[0].Quantity)
			return nil
		}).Times(1)

	matches, price, err := te.Clear(ctx, market)
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, buyID, matches[0].BuyBidID)
	assert.Equal(t, sellID, matches[0].SellBidID)
	assert.EqualValues(t, 50, matches[0].Quantity)
	require.NotNil(t, price)
	assert.True(t, price.GTE(num.NewUint(105)))
	assert.True(t, price.LTE(num.NewUint(110)))

	// seller fully filled, buyer partially, leftover expires at settlement
	sell, err := te.GetBid(market, sellID)
	require.NoError(t, err)
	assert.EqualValues(t, 50, sell.FilledAmount)
	assert.True(t, sell.Matched)
	buy, err := te.GetBid(market, buyID)
	require.NoError(t, err)
	assert.EqualValues(t, 50, buy.FilledAmount)
	assert.EqualValues(t, 50, buy.Remaining())

	mkt, err = te.GetAuction(market)
	require.NoError(t, err)
	assert.Equal(t, types.PhaseCleared, mkt.Phase)
	assert.EqualValues(t, 2, mkt.TotalBids)
	assert.EqualValues(t, 2, mkt.TotalRevealed)
	require.NotNil(t, mkt.ClearingPrice)
	assert.True(t, mkt.ClearingPrice.EQ(price))

	require.NoError(t, te.SettleAuction(ctx, market))
	mkt, err = te.GetAuction(market)
	require.NoError(t, err)
	assert.Equal(t, types.PhaseSettled, mkt.Phase)

	assert.Equal(t, []events.Type{
		events.AuctionStartedEvent,
		events.BidSubmittedEvent,
		events.BidSubmittedEvent,
		events.BidRevealedEvent,
		events.BidRevealedEvent,
		events.AuctionClearedEvent,
		events.AuctionSettledEvent,
	}, eventTypes(te.eventLog.ByMarket(market)))
}

func TestSubmitBidValidation(t *testing.T) {
	te := getTestEngine(t)
	defer te.ctrl.Finish()
	ctx := context.Background()

	_, err := te.StartAuction(ctx, market)
	require.NoError(t, err)

	t.Run("Side is required", func(t *testing.T) {
		_, err := te.SubmitBid(ctx, &types.BidSubmission{
			MarketID: market, Party: "alice", Commitment: []byte{1},
		})
		assert.ErrorIs(t, err, types.ErrInvalidBidSubmission)
	})
	t.Run("Commitment is required", func(t *testing.T) {
		_, err := te.SubmitBid(ctx, &types.BidSubmission{
			MarketID: market, Party: "alice", Side: types.SideBuy,
		})
		assert.ErrorIs(t, err, types.ErrInvalidBidSubmission)
	})
	t.Run("Unknown market", func(t *testing.T) {
		_, err := te.SubmitBid(ctx, &types.BidSubmission{
			MarketID: "nope", Party: "alice", Side: types.SideBuy, Commitment: []byte{1},
		})
		assert.ErrorIs(t, err, types.ErrMarketNotFound)
	})
	t.Run("Closed at the bidding deadline exactly", func(t *testing.T) {
		te.now = te.biddingEnd()
		_, err := te.SubmitBid(ctx, &types.BidSubmission{
			MarketID: market, Party: "alice", Side: types.SideBuy, Commitment: []byte{1},
		})
		assert.ErrorIs(t, err, types.ErrBiddingClosed)
	})
	t.Run("Wrong phase after clearing", func(t *testing.T) {
		te.now = te.revealEnd()
		_, _, err := te.Clear(ctx, market)
		require.NoError(t, err)
		_, err = te.SubmitBid(ctx, &types.BidSubmission{
			MarketID: market, Party: "alice", Side: types.SideBuy, Commitment: []byte{1},
		})
		assert.ErrorIs(t, err, types.ErrWrongPhase)
	})
}

func TestRevealWindowBoundaries(t *testing.T) {
	te := getTestEngine(t)
	defer te.ctrl.Finish()
	ctx := context.Background()

	_, err := te.StartAuction(ctx, market)
	require.NoError(t, err)
	id := te.submit(t, "alice", types.SideBuy, 100, 110, 1)

	rev := func() *types.BidReveal {
		return &types.BidReveal{
			MarketID: market, BidID: id, Party: "alice",
			Amount: 100, Price: num.NewUint(110), Nonce: 1,
		}
	}

	t.Run("Closed while bidding is still open", func(t *testing.T) {
		te.now = te.biddingEnd().Add(-time.Nanosecond)
		err := te.RevealBid(ctx, rev())
		assert.ErrorIs(t, err, types.ErrOutsideRevealWindow)
	})
	t.Run("Closed at the reveal deadline exactly", func(t *testing.T) {
		te.now = te.revealEnd()
		err := te.RevealBid(ctx, rev())
		assert.ErrorIs(t, err, types.ErrOutsideRevealWindow)
	})
	t.Run("Open at the bidding deadline exactly", func(t *testing.T) {
		te.now = te.biddingEnd()
		assert.NoError(t, te.RevealBid(ctx, rev()))
	})
}

func TestRevealMismatchThenRetry(t *testing.T) {
	te := getTestEngine(t)
	defer te.ctrl.Finish()
	ctx := context.Background()

	_, err := te.StartAuction(ctx, market)
	require.NoError(t, err)
	id := te.submit(t, "bob", types.SideSell, 50, 105, 9999)
	te.now = te.biddingEnd()

	// bob fat-fingers the price on the first reveal attempt
	err = te.RevealBid(ctx, &types.BidReveal{
		MarketID: market, BidID: id, Party: "bob",
		Amount: 50, Price: num.NewUint(106), Nonce: 9999,
	})
	require.ErrorIs(t, err, types.ErrCommitmentMismatch)

	bid, err := te.GetBid(market, id)
	require.NoError(t, err)
	assert.False(t, bid.Revealed)

	// still inside the window, the correct values go through
	te.reveal(t, "bob", id, 50, 105, 9999)
	bid, err = te.GetBid(market, id)
	require.NoError(t, err)
	assert.True(t, bid.Revealed)
	assert.True(t, bid.Price.EQ(num.NewUint(105)))

	// the mismatch emitted no reveal event
	revealed := 0
	for _, evt := range te.eventLog.ByMarket(market) {
		if evt.Type() == events.BidRevealedEvent {
			revealed++
		}
	}
	assert.Equal(t, 1, revealed)
}

func TestClearRunsAtMostOnce(t *testing.T) {
	te := getTestEngine(t)
	defer te.ctrl.Finish()
	ctx := context.Background()

	_, err := te.StartAuction(ctx, market)
	require.NoError(t, err)
	buyID := te.submit(t, "alice", types.SideBuy, 100, 110, 1)
	sellID := te.submit(t, "bob", types.SideSell, 50, 105, 2)

	te.now = te.biddingEnd()
	te.reveal(t, "alice", buyID, 100, 110, 1)
	te.reveal(t, "bob", sellID, 50, 105, 2)

	t.Run("Too early", func(t *testing.T) {
		te.now = te.revealEnd().Add(-time.Nanosecond)
		_, _, err := te.Clear(ctx, market)
		assert.ErrorIs(t, err, types.ErrClearingTooEarly)
	})
	t.Run("First run clears, second is rejected", func(t *testing.T) {
		te.now = te.revealEnd()
		te.notifier.EXPECT().
			NotifyMatches(gomock.Any(), market, gomock.Any()).
			Return(nil).Times(1)

		matches, _, err := te.Clear(ctx, market)
		require.NoError(t, err)
		require.Len(t, matches, 1)

		_, _, err = te.Clear(ctx, market)
		assert.ErrorIs(t, err, types.ErrAlreadyCleared)
	})
}

func TestClearWithoutCross(t *testing.T) {
	te := getTestEngine(t)
	defer te.ctrl.Finish()
	ctx := context.Background()

	_, err := te.StartAuction(ctx, market)
	require.NoError(t, err)
	buyID := te.submit(t, "alice", types.SideBuy, 100, 90, 1)
	sellID := te.submit(t, "bob", types.SideSell, 100, 100, 2)

	te.now = te.biddingEnd()
	te.reveal(t, "alice", buyID, 100, 90, 1)
	te.reveal(t, "bob", sellID, 100, 100, 2)

	// no NotifyMatches expectation: the notifier must not be called when
	// nothing matched
	te.now = te.revealEnd()
	matches, price, err := te.Clear(ctx, market)
	require.NoError(t, err)
	assert.Empty(t, matches)
	assert.Nil(t, price)

	mkt, err := te.GetAuction(market)
	require.NoError(t, err)
	assert.Equal(t, types.PhaseCleared, mkt.Phase)
	assert.Nil(t, mkt.ClearingPrice)

	// settling afterwards is still fine
	assert.NoError(t, te.SettleAuction(ctx, market))
}

func TestClearWithNoReveals(t *testing.T) {
	te := getTestEngine(t)
	defer te.ctrl.Finish()
	ctx := context.Background()

	_, err := te.StartAuction(ctx, market)
	require.NoError(t, err)
	te.submit(t, "alice", types.SideBuy, 100, 110, 1)

	// nobody revealed, clearing straight out of the bidding phase
	te.now = te.revealEnd()
	matches, price, err := te.Clear(ctx, market)
	require.NoError(t, err)
	assert.Empty(t, matches)
	assert.Nil(t, price)
}

func TestSettlement(t *testing.T) {
	te := getTestEngine(t)
	defer te.ctrl.Finish()
	ctx := context.Background()

	_, err := te.StartAuction(ctx, market)
	require.NoError(t, err)

	t.Run("Too early", func(t *testing.T) {
		te.now = te.revealEnd().Add(-time.Nanosecond)
		err := te.SettleAuction(ctx, market)
		assert.ErrorIs(t, err, types.ErrSettlementTooEarly)
	})
	t.Run("Settling without clearing is allowed", func(t *testing.T) {
		te.now = te.revealEnd()
		assert.NoError(t, te.SettleAuction(ctx, market))
	})
	t.Run("Settle twice fails", func(t *testing.T) {
		err := te.SettleAuction(ctx, market)
		assert.ErrorIs(t, err, types.ErrAlreadySettled)
	})
}

func TestRestartAfterSettlement(t *testing.T) {
	te := getTestEngine(t)
	defer te.ctrl.Finish()
	ctx := context.Background()

	_, err := te.StartAuction(ctx, market)
	require.NoError(t, err)
	te.submit(t, "alice", types.SideBuy, 100, 110, 1)
	te.submit(t, "bob", types.SideSell, 50, 105, 2)

	t.Run("Restart fails while the instance is live", func(t *testing.T) {
		_, err := te.StartAuction(ctx, market)
		assert.ErrorIs(t, err, types.ErrAuctionActive)
	})

	te.now = te.revealEnd()
	require.NoError(t, te.SettleAuction(ctx, market))

	// new instance: fresh deadlines, counters and bid ids
	restart := te.now.Add(time.Hour)
	te.now = restart
	mkt, err := te.StartAuction(ctx, market)
	require.NoError(t, err)
	assert.Equal(t, types.PhaseBidding, mkt.Phase)
	assert.Equal(t, restart.Add(time.Hour), mkt.BiddingEnd)
	assert.EqualValues(t, 0, mkt.TotalBids)

	id := te.submit(t, "carol", types.SideSell, 10, 95, 3)
	assert.EqualValues(t, 0, id)

	// the previous instance's bids are gone with it
	_, err = te.GetBid(market, 1)
	assert.ErrorIs(t, err, types.ErrBidNotFound)
}

func TestBidSubmittedEventHidesValues(t *testing.T) {
	te := getTestEngine(t)
	defer te.ctrl.Finish()
	ctx := context.Background()

	_, err := te.StartAuction(ctx, market)
	require.NoError(t, err)
	te.submit(t, "alice", types.SideBuy, 100, 110, 1)

	var found bool
	for _, evt := range te.eventLog.ByMarket(market) {
		sub, ok := evt.(*events.BidSubmitted)
		if !ok {
			continue
		}
		found = true
		bid := sub.Bid()
		// only public fields travel on the submission event
		assert.Equal(t, "alice", bid.Party)
		assert.NotEmpty(t, bid.Commitment)
		assert.False(t, bid.Revealed)
		assert.Zero(t, bid.Amount)
		assert.Nil(t, bid.Price)
	}
	assert.True(t, found)
}

func TestNotifierFailureDoesNotFailClear(t *testing.T) {
	te := getTestEngine(t)
	defer te.ctrl.Finish()
	ctx := context.Background()

	_, err := te.StartAuction(ctx, market)
	require.NoError(t, err)
	buyID := te.submit(t, "alice", types.SideBuy, 100, 110, 1)
	sellID := te.submit(t, "bob", types.SideSell, 50, 105, 2)
	te.now = te.biddingEnd()
	te.reveal(t, "alice", buyID, 100, 110, 1)
	te.reveal(t, "bob", sellID, 50, 105, 2)

	te.now = te.revealEnd()
	te.notifier.EXPECT().
		NotifyMatches(gomock.Any(), market, gomock.Any()).
		Return(assert.AnError).Times(1)

	// delivery failure is logged, the clearing result stands
	matches, price, err := te.Clear(ctx, market)
	require.NoError(t, err)
	assert.Len(t, matches, 1)
	assert.NotNil(t, price)

	mkt, err := te.GetAuction(market)
	require.NoError(t, err)
	assert.Equal(t, types.PhaseCleared, mkt.Phase)
}

func TestClearCommitsFillsAtomically(t *testing.T) {
	te := getTestEngine(t)
	defer te.ctrl.Finish()
	ctx := context.Background()

	_, err := te.StartAuction(ctx, market)
	require.NoError(t, err)
	buyID := te.submit(t, "alice", types.SideBuy, 100, 110, 1)
	sellID := te.submit(t, "bob", types.SideSell, 50, 105, 2)
	te.now = te.biddingEnd()
	te.reveal(t, "alice", buyID, 100, 110, 1)
	te.reveal(t, "bob", sellID, 50, 105, 2)

	te.now = te.revealEnd()
	te.notifier.EXPECT().
		NotifyMatches(gomock.Any(), market, gomock.Any()).
		Return(nil).Times(1)

	// hammer the read paths while clearing runs; every snapshot must show
	// a bid either untouched or fully filled, nothing in between
	done := make(chan struct{})
	var wg sync.WaitGroup
	var violation atomic.Bool
	wg.Add(1)
	go func() {
		defer wg.Done()
		for {
			select {
			case <-done:
				return
			default:
			}
			for _, id := range []uint64{buyID, sellID} {
				bid, err := te.GetBid(market, id)
				if err != nil {
					violation.Store(true)
					return
				}
				if bid.FilledAmount != 0 && bid.FilledAmount != 50 {
					violation.Store(true)
					return
				}
				if bid.Matched != (bid.FilledAmount == 50) {
					violation.Store(true)
					return
				}
			}
			if _, err := te.GetRevealedIDs(market); err != nil {
				violation.Store(true)
				return
			}
		}
	}()

	matches, _, err := te.Clear(ctx, market)
	close(done)
	wg.Wait()

	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.False(t, violation.Load())

	buy, err := te.GetBid(market, buyID)
	require.NoError(t, err)
	assert.EqualValues(t, 50, buy.FilledAmount)
	sell, err := te.GetBid(market, sellID)
	require.NoError(t, err)
	assert.EqualValues(t, 50, sell.FilledAmount)
	assert.True(t, sell.Matched)
}

func TestIndependentMarkets(t *testing.T) {
	te := getTestEngine(t)
	defer te.ctrl.Finish()
	ctx := context.Background()

	const other = "ETH/USD"
	_, err := te.StartAuction(ctx, market)
	require.NoError(t, err)
	_, err = te.StartAuction(ctx, other)
	require.NoError(t, err)

	te.submit(t, "alice", types.SideBuy, 100, 110, 1)

	// ids are per market
	id, err := te.SubmitBid(ctx, &types.BidSubmission{
		MarketID: other, Party: "dave", Side: types.SideSell,
		Commitment: ledger.BidCommitment(10, num.NewUint(90), 5, "dave"),
	})
	require.NoError(t, err)
	assert.EqualValues(t, 0, id)

	// settling one market leaves the other untouched
	te.now = te.revealEnd()
	require.NoError(t, te.SettleAuction(ctx, market))
	mkt, err := te.GetAuction(other)
	require.NoError(t, err)
	assert.NotEqual(t, types.PhaseSettled, mkt.Phase)
}
