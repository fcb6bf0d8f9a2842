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

package rand

import (
	"crypto/rand"
	"encoding/binary"
	"math/big"
)

const chars = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// NewNonce returns a random uint64 sampled from crypto/rand. Callers
// building bid commitments rely on this carrying full 64 bits of entropy,
// the commitment scheme is only hiding if the nonce is unpredictable.
func NewNonce() uint64 {
	buf := [8]byte{}
	if _, err := rand.Read(buf[:]); err != nil {
		panic("couldn't read random bytes: " + err.Error())
	}
	return binary.BigEndian.Uint64(buf[:])
}

// RandomBytes returns an unpredictable sequence of bytes of the given size.
func RandomBytes(size int) []byte {
	b := make([]byte, size)
	if _, err := rand.Read(b); err != nil {
		panic("couldn't read random bytes: " + err.Error())
	}
	return b
}

// RandomStr returns an unpredictable alphanumeric string of the given size.
func RandomStr(size int) string {
	max := big.NewInt(int64(len(chars)))
	b := make([]byte, size)
	for i := range b {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			panic("couldn't generate random string: " + err.Error())
		}
		b[i] = chars[n.Int64()]
	}
	return string(b)
}
