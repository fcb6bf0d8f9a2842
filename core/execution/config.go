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
	"code.veilmarkets.io/veil/core/auction"
	"code.veilmarkets.io/veil/core/ledger"
	"code.veilmarkets.io/veil/core/matching"
	"code.veilmarkets.io/veil/libs/config/encoding"
	"code.veilmarkets.io/veil/logging"
)

// namedLogger is the identifier for package and should ideally match the package name
// this is simply emitted as a hierarchical label e.g. 'execution.matching'.
const namedLogger = "execution"

// Config is the configuration of the execution package.
type Config struct {
	Level encoding.LogLevel `long:"log-level"`

	// Principal names this engine instance when authorizing ciphertext
	// handles with the encrypted value service.
	Principal string `long:"principal"`

	Auction  auction.Config  `group:"Auction"  namespace:"auction"`
	Ledger   ledger.Config   `group:"Ledger"   namespace:"ledger"`
	Matching matching.Config `group:"Matching" namespace:"matching"`
}

// NewDefaultConfig creates an instance of the package specific configuration.
func NewDefaultConfig() Config {
	return Config{
		Level:     encoding.LogLevel{Level: logging.InfoLevel},
		Principal: "veil-engine",
		Auction:   auction.NewDefaultConfig(),
		Ledger:    ledger.NewDefaultConfig(),
		Matching:  matching.NewDefaultConfig(),
	}
}
