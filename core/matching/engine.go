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

package matching

import (
	"sort"

	"code.veilmarkets.io/veil/core/types"
	"code.veilmarkets.io/veil/libs/num"
	"code.veilmarkets.io/veil/logging"
)

// Engine runs the batch double-auction uncrossing over a market's revealed
// bids. It is deterministic: the same bid set always produces the same
// matches and the same uniform price, which is what makes a clearing run
// auditable after the fact.
type Engine struct {
	log *logging.Logger
	cfg Config
}

// Result is the outcome of one clearing run.
type Result struct {
	Matches []*types.Match
	// ClearingPrice is nil when no pair crossed.
	ClearingPrice *num.Uint
}

// New returns a clearing engine.
func New(log *logging.Logger, cfg Config) *Engine {
	log = log.Named(namedLogger)
	log.SetLevel(cfg.Level.Get())
	return &Engine{
		log: log,
		cfg: cfg,
	}
}

// ReloadConf updates the engine configuration.
func (e *Engine) ReloadConf(cfg Config) {
	e.log.SetLevel(cfg.Level.Get())
	e.cfg = cfg
}

// Uncross matches the given revealed bids at a single uniform price.
//
// Buys are walked from the highest price down, sells from the lowest price
// up, ties on either side broken by ascending bid id so earlier submissions
// keep priority. While the current buy price is at or above the current
// sell price the pair trades min(remaining, remaining); the cursor whose
// quantity is exhausted advances, both advance when both hit zero together.
//
// The uniform price of the whole batch is the price of the marginal pair,
// the last crossing pair processed, taken as the integer midpoint of its
// buy and sell prices. Every match record carries that single price. The
// fill state of the bids passed in is updated in place; a bid with any fill
// at all is flagged matched, its remainder can never trade again within
// this auction instance.
func (e *Engine) Uncross(bids []*types.Bid) *Result {
	buys := make([]*types.Bid, 0, len(bids))
	sells := make([]*types.Bid, 0, len(bids))
	for _, b := range bids {
		if !b.Revealed || b.Matched || b.Amount == 0 {
			continue
		}
		if b.Side == types.SideBuy {
			buys = append(buys, b)
		} else {
			sells = append(sells, b)
		}
	}

	sort.Slice(buys, func(i, j int) bool {
		if buys[i].Price.EQ(buys[j].Price) {
			return buys[i].ID < buys[j].ID
		}
		return buys[i].Price.GT(buys[j].Price)
	})
	sort.Slice(sells, func(i, j int) bool {
		if sells[i].Price.EQ(sells[j].Price) {
			return sells[i].ID < sells[j].ID
		}
		return sells[i].Price.LT(sells[j].Price)
	})

	var (
		matches []*types.Match
		uniform *num.Uint
		iBuy    int
		iSell   int
		remBuy  uint64
		remSell uint64
		two     = num.NewUint(2)
	)
	if len(buys) > 0 {
		remBuy = buys[iBuy].Amount
	}
	if len(sells) > 0 {
		remSell = sells[iSell].Amount
	}

	for iBuy < len(buys) && iSell < len(sells) {
		buy, sell := buys[iBuy], sells[iSell]
		if buy.Price.LT(sell.Price) {
			// best remaining buy no longer reaches the best remaining
			// sell, nothing else can cross
			break
		}

		fill := num.MinV(remBuy, remSell)
		// provisional pair price, midpoint of the crossing pair
		pairPrice := num.UintZero().Add(buy.Price, sell.Price)
		pairPrice.Div(pairPrice, two)

		matches = append(matches, &types.Match{
			BuyBidID:  buy.ID,
			SellBidID: sell.ID,
			Quantity:  fill,
			Price:     pairPrice,
		})
		uniform = pairPrice

		buy.FilledAmount += fill
		sell.FilledAmount += fill
		remBuy -= fill
		remSell -= fill

		if e.cfg.LogUncrossDebug {
			e.log.Debug("crossed pair",
				logging.BidID(buy.ID),
				logging.Uint64("sell-bid-id", sell.ID),
				logging.Uint64("fill", fill),
				logging.String("pair-price", pairPrice.String()),
			)
		}

		if remBuy == 0 {
			iBuy++
			if iBuy < len(buys) {
				remBuy = buys[iBuy].Amount
			}
		}
		if remSell == 0 {
			iSell++
			if iSell < len(sells) {
				remSell = sells[iSell].Amount
			}
		}
	}

	if len(matches) == 0 {
		return &Result{Matches: []*types.Match{}}
	}

	// overwrite every provisional pair price with the marginal price
	for _, m := range matches {
		m.Price = uniform.Clone()
	}
	for _, b := range bids {
		if b.FilledAmount > 0 {
			b.Matched = true
		}
	}

	return &Result{
		Matches:       matches,
		ClearingPrice: uniform.Clone(),
	}
}
