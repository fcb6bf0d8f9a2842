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
	"crypto/subtle"
	"encoding/binary"

	vgcrypto "code.veilmarkets.io/veil/libs/crypto"
	"code.veilmarkets.io/veil/libs/num"
)

// BidCommitment computes the digest binding a bid's hidden values to its
// owner: sha3-256 over amount (8 bytes big endian), price (32 bytes big
// endian), nonce (8 bytes big endian) and the owner identity.
//
// The digest is binding through collision resistance. It is only hiding if
// the nonce is sampled with high entropy: the (amount, price) domain can be
// small enough to brute force, so a predictable nonce lets an observer
// recover the hidden values before reveal. Sampling the nonce is the
// caller's responsibility, vgrand.NewNonce is suitable.
func BidCommitment(amount uint64, price *num.Uint, nonce uint64, party string) []byte {
	buf := make([]byte, 48, 48+len(party))
	binary.BigEndian.PutUint64(buf[0:], amount)
	p := price.Bytes()
	copy(buf[8:], p[:])
	binary.BigEndian.PutUint64(buf[40:], nonce)
	buf = append(buf, []byte(party)...)
	return vgcrypto.Hash(buf)
}

// checkCommitment recomputes the commitment for the revealed values and
// compares it to the stored digest in constant time.
func checkCommitment(commitment []byte, amount uint64, price *num.Uint, nonce uint64, party string) bool {
	return subtle.ConstantTimeCompare(commitment, BidCommitment(amount, price, nonce, party)) == 1
}
