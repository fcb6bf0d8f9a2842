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

package metrics

import (
	"fmt"
	"log"
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	setupOnce sync.Once

	auctionCounter    *prometheus.CounterVec
	bidCounter        *prometheus.CounterVec
	revealCounter     *prometheus.CounterVec
	mismatchCounter   *prometheus.CounterVec
	matchCounter      *prometheus.CounterVec
	clearedQuantities *prometheus.CounterVec
)

// Start enables metrics for the given config, registering the engine
// instruments and exposing the scrape endpoint.
func Start(conf Config) {
	if !conf.Enabled {
		return
	}
	if err := setupMetrics(); err != nil {
		panic("could not set up metrics")
	}
	http.Handle(conf.Path, promhttp.Handler())
	go func() {
		log.Fatal(http.ListenAndServe(fmt.Sprintf(":%d", conf.Port), nil))
	}()
}

func setupMetrics() (err error) {
	setupOnce.Do(func() {
		auctionCounter = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "veil",
			Subsystem: "engine",
			Name:      "auctions_total",
			Help:      "Number of auction lifecycle transitions (label: action = started|cleared|settled)",
		}, []string{"market", "action"})

		bidCounter = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "veil",
			Subsystem: "engine",
			Name:      "bids_submitted_total",
			Help:      "Number of sealed bids accepted",
		}, []string{"market", "side"})

		revealCounter = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "veil",
			Subsystem: "engine",
			Name:      "bids_revealed_total",
			Help:      "Number of successful bid reveals",
		}, []string{"market"})

		mismatchCounter = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "veil",
			Subsystem: "engine",
			Name:      "commitment_mismatches_total",
			Help:      "Number of reveals rejected on commitment check",
		}, []string{"market"})

		matchCounter = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "veil",
			Subsystem: "engine",
			Name:      "matches_total",
			Help:      "Number of match records produced by clearing",
		}, []string{"market"})

		clearedQuantities = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "veil",
			Subsystem: "engine",
			Name:      "cleared_quantity_total",
			Help:      "Total quantity filled by clearing",
		}, []string{"market"})

		for _, c := range []*prometheus.CounterVec{
			auctionCounter, bidCounter, revealCounter,
			mismatchCounter, matchCounter, clearedQuantities,
		} {
			if err = prometheus.Register(c); err != nil {
				return
			}
		}
	})
	return err
}

// AuctionCounterInc increments the auction lifecycle counter.
func AuctionCounterInc(market, action string) {
	if auctionCounter == nil {
		return
	}
	auctionCounter.WithLabelValues(market, action).Inc()
}

// BidCounterInc increments the accepted sealed bid counter.
func BidCounterInc(market, side string) {
	if bidCounter == nil {
		return
	}
	bidCounter.WithLabelValues(market, side).Inc()
}

// RevealCounterInc increments the successful reveal counter.
func RevealCounterInc(market string) {
	if revealCounter == nil {
		return
	}
	revealCounter.WithLabelValues(market).Inc()
}

// MismatchCounterInc increments the rejected reveal counter.
func MismatchCounterInc(market string) {
	if mismatchCounter == nil {
		return
	}
	mismatchCounter.WithLabelValues(market).Inc()
}

// MatchCountersAdd accounts one clearing run's match output.
func MatchCountersAdd(market string, matches, quantity uint64) {
	if matchCounter == nil || clearedQuantities == nil {
		return
	}
	matchCounter.WithLabelValues(market).Add(float64(matches))
	clearedQuantities.WithLabelValues(market).Add(float64(quantity))
}
