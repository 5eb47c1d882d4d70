// Copyright 2026 The VCStore Authors
// This file is part of VCStore.
//
// VCStore is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// VCStore is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with VCStore. If not, see <http://www.gnu.org/licenses/>.

// Package logging constructs the *zap.Logger that cmd/vcstore hands to
// the kind registry and the collection factory. Those packages take the
// logger as a parameter and import zap themselves.
package logging

import "go.uber.org/zap"

// New returns a production-configured logger. Callers that want test
// output should use NewNop or their own zaptest logger instead.
func New() *zap.Logger {
	l, err := zap.NewProduction()
	if err != nil {
		// zap.NewProduction only fails on a broken encoder config; fall
		// back to a no-op logger rather than panic in a library.
		return zap.NewNop()
	}
	return l
}

// NewNop returns a logger that discards everything, for tests and
// embedding hosts that wire their own logging elsewhere.
func NewNop() *zap.Logger {
	return zap.NewNop()
}
