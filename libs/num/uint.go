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

package num

import (
	"math/big"

	"github.com/holiman/uint256"
)

var maxU256 = new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 256), big.NewInt(1))

// Uint is a wrapper to a big unsigned int underneath.
type Uint struct {
	u uint256.Int
}

// NewUint creates a new Uint with the value of the
// uint64 passed as a parameter.
func NewUint(val uint64) *Uint {
	return &Uint{*uint256.NewInt(val)}
}

// UintZero returns a new Uint set to 0.
func UintZero() *Uint {
	return NewUint(0)
}

// UintFromBig construct a new Uint with a big.Int,
// returns true if an overflow happened.
func UintFromBig(b *big.Int) (*Uint, bool) {
	u, overflow := uint256.FromBig(b)
	if overflow {
		return UintZero(), true
	}
	return &Uint{*u}, false
}

// UintFromString created a new Uint from a string
// interpreted using the given base.
// A big.Int is used under the hood so all the valid base and
// formats supported by big.Int are supported. The second
// return value is true in case of error.
func UintFromString(str string, base int) (*Uint, bool) {
	b, ok := big.NewInt(0).SetString(str, base)
	if !ok {
		return UintZero(), true
	}
	return UintFromBig(b)
}

// UintFromBytes allows for the conversion from Uint.Bytes() back to a Uint.
func UintFromBytes(b []byte) *Uint {
	u := &Uint{}
	u.u.SetBytes(b)
	return u
}

// MustUintFromString creates a Uint from a string, it panics
// if the string is not a valid representation.
func MustUintFromString(str string, base int) *Uint {
	u, overflow := UintFromString(str, base)
	if overflow {
		panic("uint from string overflowed: " + str)
	}
	return u
}

func (u Uint) Bytes() [32]byte {
	return u.u.Bytes32()
}

func (u *Uint) Clone() *Uint {
	if u == nil {
		return nil
	}
	return &Uint{u.u}
}

// Copy the value of the given Uint to the receiver.
func (u *Uint) Copy(v *Uint) *Uint {
	u.u = v.u
	return u
}

// Add will add x and y then store the result into u
// this is equivalent to:
// `u = x + y`
// u is returned for convenience, no new variable is created.
func (u *Uint) Add(x, y *Uint) *Uint {
	u.u.Add(&x.u, &y.u)
	return u
}

// AddSum adds multiple values at the same time to a given uint
// so x.AddSum(y, z) is equivalent to x + y + z.
func (u *Uint) AddSum(vals ...*Uint) *Uint {
	for _, x := range vals {
		u.u.Add(&u.u, &x.u)
	}
	return u
}

// Sub will subtract y from x then store the result into u
// this is equivalent to:
// `u = x - y`
// u is returned for convenience, no new variable is created.
func (u *Uint) Sub(x, y *Uint) *Uint {
	u.u.Sub(&x.u, &y.u)
	return u
}

// Mul will multiply x and y then store the result into u
// this is equivalent to:
// `u = x * y`
// u is returned for convenience, no new variable is created.
func (u *Uint) Mul(x, y *Uint) *Uint {
	u.u.Mul(&x.u, &y.u)
	return u
}

// Div will divide x by y then store the result into u
// this is equivalent to:
// `u = x / y`
// u is returned for convenience, no new variable is created.
func (u *Uint) Div(x, y *Uint) *Uint {
	u.u.Div(&x.u, &y.u)
	return u
}

// EQ returns true if the value of u and v are the same.
func (u *Uint) EQ(v *Uint) bool {
	return u.u.Eq(&v.u)
}

// NEQ returns true if the value of u and v differ.
func (u *Uint) NEQ(v *Uint) bool {
	return !u.u.Eq(&v.u)
}

// GT returns true if the value of u is greater than v.
func (u *Uint) GT(v *Uint) bool {
	return u.u.Gt(&v.u)
}

// GTE returns true if the value of u is greater than or equal to v.
func (u *Uint) GTE(v *Uint) bool {
	return !u.u.Lt(&v.u)
}

// LT returns true if the value of u is lesser than v.
func (u *Uint) LT(v *Uint) bool {
	return u.u.Lt(&v.u)
}

// LTE returns true if the value of u is lesser than or equal to v.
func (u *Uint) LTE(v *Uint) bool {
	return !u.u.Gt(&v.u)
}

// IsZero returns whether u == 0.
func (u *Uint) IsZero() bool {
	return u.u.IsZero()
}

// Uint64 returns the uint64 representation of the value,
// undefined if the value overflows uint64.
func (u *Uint) Uint64() uint64 {
	return u.u.Uint64()
}

func (u *Uint) BigInt() *big.Int {
	return u.u.ToBig()
}

func (u *Uint) String() string {
	return u.u.ToBig().String()
}

// Min returns the smallest of x and y as a new Uint.
func Min(x, y *Uint) *Uint {
	if x.LT(y) {
		return x.Clone()
	}
	return y.Clone()
}

// Max returns the largest of x and y as a new Uint.
func Max(x, y *Uint) *Uint {
	if x.GT(y) {
		return x.Clone()
	}
	return y.Clone()
}

// MinV generic min of any numeric values.
func MinV[T uint64 | int64 | int | uint](a, b T) T {
	if a < b {
		return a
	}
	return b
}

// MaxV generic max of any numeric values.
func MaxV[T uint64 | int64 | int | uint](a, b T) T {
	if a > b {
		return a
	}
	return b
}
