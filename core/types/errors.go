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

import "github.com/pkg/errors"

var (
	// ErrAuctionActive is returned by a start attempt while the previous
	// auction instance on the market has not settled.
	ErrAuctionActive = errors.New("auction already active for market")

	// ErrWrongPhase is returned when an operation is invalid for the
	// market's current lifecycle phase.
	ErrWrongPhase = errors.New("operation invalid for current auction phase")

	// ErrBiddingClosed is returned for submissions at or after the bidding
	// deadline.
	ErrBiddingClosed = errors.New("bidding window has closed")

	// ErrOutsideRevealWindow is returned for reveals before the bidding
	// deadline or at/after the reveal deadline.
	ErrOutsideRevealWindow = errors.New("outside the reveal window")

	// ErrNotBidOwner is returned when the revealing party does not own
	// the bid.
	ErrNotBidOwner = errors.New("party is not the bid owner")

	// ErrAlreadyRevealed is returned for a second reveal of the same bid.
	ErrAlreadyRevealed = errors.New("bid already revealed")

	// ErrCommitmentMismatch is returned when the revealed values do not
	// hash to the stored commitment. The bid is left untouched so the
	// owner can retry within the window.
	ErrCommitmentMismatch = errors.New("revealed values do not match commitment")

	// ErrInvalidBidSubmission is returned for a submission missing a side
	// or a commitment.
	ErrInvalidBidSubmission = errors.New("invalid bid submission")

	// ErrBidNotFound is returned for an unknown bid id.
	ErrBidNotFound = errors.New("bid not found")

	// ErrMarketNotFound is returned for a market that was never started.
	ErrMarketNotFound = errors.New("market not found")

	// ErrClearingTooEarly is returned for a clearing attempt before the
	// reveal deadline.
	ErrClearingTooEarly = errors.New("reveal window still open")

	// ErrAlreadyCleared is returned when clearing already ran for this
	// auction instance.
	ErrAlreadyCleared = errors.New("auction already cleared")

	// ErrSettlementTooEarly is returned for a settle attempt before the
	// reveal deadline.
	ErrSettlementTooEarly = errors.New("cannot settle before the reveal deadline")

	// ErrAlreadySettled is returned for a settle attempt on a settled
	// instance.
	ErrAlreadySettled = errors.New("auction already settled")
)

// IsPhaseError reports whether the error is about the operation being
// invalid for the market lifecycle state.
func IsPhaseError(err error) bool {
	return errors.Is(err, ErrAuctionActive) ||
		errors.Is(err, ErrWrongPhase) ||
		errors.Is(err, ErrAlreadyCleared) ||
		errors.Is(err, ErrAlreadySettled)
}

// IsTimingError reports whether the error is about the operation being
// outside its valid time range.
func IsTimingError(err error) bool {
	return errors.Is(err, ErrBiddingClosed) ||
		errors.Is(err, ErrOutsideRevealWindow) ||
		errors.Is(err, ErrClearingTooEarly) ||
		errors.Is(err, ErrSettlementTooEarly)
}
