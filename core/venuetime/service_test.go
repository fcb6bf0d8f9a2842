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

package venuetime_test

import (
	"testing"
	"time"

	"code.veilmarkets.io/veil/core/venuetime"

	"github.com/stretchr/testify/assert"
)

func TestGetTimeNow(t *testing.T) {
	svc := venuetime.New()

	a := svc.GetTimeNow()
	b := svc.GetTimeNow()
	assert.Equal(t, time.UTC, a.Location())
	assert.False(t, b.Before(a))
}
