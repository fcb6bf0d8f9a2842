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
	"time"

	"code.veilmarkets.io/veil/libs/config/encoding"
	"code.veilmarkets.io/veil/logging"
)

// namedLogger is the identifier for package and should ideally match the package name
// this is simply emitted as a hierarchical label e.g. 'execution.auction'.
const namedLogger = "auction"

// Config is the configuration of the auction registry. The two windows are
// venue parameters, not business logic, and can be tuned per deployment.
type Config struct {
	Level encoding.LogLevel `long:"log-level"`

	// BiddingWindow is how long a market accepts sealed bids after start.
	BiddingWindow encoding.Duration `long:"bidding-window"`
	// RevealWindow is how long reveals are accepted after bidding ends.
	RevealWindow encoding.Duration `long:"reveal-window"`

	// PriceDecimals scales logged prices for display: a price of 10750
	// with 2 decimals reads 107.5. Prices themselves stay integral.
	PriceDecimals uint `long:"price-decimals"`
}

// NewDefaultConfig creates an instance of the package specific configuration.
func NewDefaultConfig() Config {
	return Config{
		Level:         encoding.LogLevel{Level: logging.InfoLevel},
		BiddingWindow: encoding.Duration{Duration: time.Hour},
		RevealWindow:  encoding.Duration{Duration: 30 * time.Minute},
	}
}
