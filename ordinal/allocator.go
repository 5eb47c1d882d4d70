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

// Package ordinal assigns stable, order-preserving string names to
// opaque remotable keys within a collection.
package ordinal

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/turbovault/vcstore/kv"
)

// MaxOrdinal is the largest ordinal the 10-digit zero-padded width can
// represent (10^10 - 1).
const MaxOrdinal = 9_999_999_999

// ErrOverflow is returned when the next ordinal would exceed MaxOrdinal.
var ErrOverflow = errors.New("vcstore/ordinal: overflow")

// ErrMissing is returned when a remotable key is expected to already
// have an ordinal assignment but does not.
var ErrMissing = errors.New("vcstore/ordinal: missing")

// Allocator assigns and persists ordinals for remotable keys, scoped per
// collection via the store's vc.<id>.|<slot> rows.
type Allocator struct {
	store kv.Store
}

// New returns an Allocator backed by store.
func New(store kv.Store) *Allocator {
	return &Allocator{store: store}
}

// Init writes the initial nextOrdinal=1 counter for a freshly created
// collection.
func (a *Allocator) Init(collectionID uint64) {
	a.store.Set(kv.NextOrdinalKey(collectionID), "1")
}

// Lookup returns the ordinal already assigned to slot within
// collectionID, if any.
func (a *Allocator) Lookup(collectionID uint64, slot string) (uint64, bool) {
	s, ok := a.store.Get(kv.OrdinalKey(collectionID, slot))
	if !ok {
		return 0, false
	}
	n, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

// Assign allocates a fresh ordinal for slot within collectionID,
// persists the mapping, and advances the collection's nextOrdinal
// counter. It fails with ErrOverflow if the counter would exceed
// MaxOrdinal.
func (a *Allocator) Assign(collectionID uint64, slot string) (uint64, error) {
	raw, ok := a.store.Get(kv.NextOrdinalKey(collectionID))
	if !ok {
		return 0, fmt.Errorf("vcstore/ordinal: collection %d has no nextOrdinal row", collectionID)
	}
	next, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("vcstore/ordinal: malformed nextOrdinal row: %w", err)
	}
	if next > MaxOrdinal {
		return 0, fmt.Errorf("%w: collection %d", ErrOverflow, collectionID)
	}

	a.store.Set(kv.OrdinalKey(collectionID, slot), strconv.FormatUint(next, 10))
	a.store.Set(kv.NextOrdinalKey(collectionID), strconv.FormatUint(next+1, 10))
	return next, nil
}

// Delete removes the ordinal row for slot within collectionID. Deleting
// an unassigned slot is a no-op.
func (a *Allocator) Delete(collectionID uint64, slot string) {
	a.store.Delete(kv.OrdinalKey(collectionID, slot))
}
