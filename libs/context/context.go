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

package context

import (
	"context"

	uuid "github.com/satori/go.uuid"
)

type traceIDKey int

const traceID traceIDKey = iota

// TraceIDFromContext returns the trace ID carried by the context, minting
// a fresh one if the context doesn't carry any. The possibly updated
// context is returned alongside.
func TraceIDFromContext(ctx context.Context) (context.Context, string) {
	tID := ctx.Value(traceID)
	if tID == nil {
		stID := uuid.NewV4().String()
		ctx = context.WithValue(ctx, traceID, stID)
		return ctx, stID
	}
	stID, ok := tID.(string)
	if !ok {
		stID = uuid.NewV4().String()
		ctx = context.WithValue(ctx, traceID, stID)
	}
	return ctx, stID
}

// WithTraceID returns a copy of the context carrying the given trace ID.
func WithTraceID(ctx context.Context, tID string) context.Context {
	return context.WithValue(ctx, traceID, tID)
}
