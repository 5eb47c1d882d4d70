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

// Package kv defines the ordered key/value store collections are built on
// top of ("the vat store" in the host's terms) and a reference in-memory
// implementation of it.
package kv

// Store is the external ordered key/value store every collection is
// materialized against. Implementations are synchronous: no call may
// suspend across a host turn.
type Store interface {
	// Get returns the value stored at key, and ok=false if absent.
	Get(key string) (value string, ok bool)

	// Set stores value at key, overwriting any previous value.
	Set(key, value string)

	// Delete removes key. Deleting an absent key is a no-op.
	Delete(key string)

	// GetAfter returns the smallest key strictly greater than priorKey
	// within [lowerBound, upperBound), together with its value. If
	// upperBound is empty, the range is unbounded above. ok is false when
	// no such key exists.
	GetAfter(priorKey, lowerBound, upperBound string) (key, value string, ok bool)
}
