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

package kind

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/turbovault/vcstore/kv"
	"github.com/turbovault/vcstore/refs"
)

func TestInitAllocatesAllKnownKinds(t *testing.T) {
	store := kv.NewMemStore()
	manager := refs.NewMemManager()
	r := New(store, NewSequentialExportIDAllocator(), manager, nil)

	require.NoError(t, r.Init(nil))

	seen := make(map[uint64]bool)
	for _, name := range KnownKinds {
		id, ok := r.KindID(name)
		require.True(t, ok, "missing id for %s", name)
		require.False(t, seen[id], "duplicate id %d", id)
		seen[id] = true
	}
}

func TestInitIsIdempotent(t *testing.T) {
	store := kv.NewMemStore()
	manager := refs.NewMemManager()

	r1 := New(store, NewSequentialExportIDAllocator(), manager, nil)
	require.NoError(t, r1.Init(nil))
	first, _ := r1.KindID(ScalarMapStore)

	// A fresh registry over the same store must not reallocate IDs for
	// names already present in storeKindIDTable.
	r2 := New(store, NewSequentialExportIDAllocator(), manager, nil)
	require.NoError(t, r2.Init(nil))
	second, _ := r2.KindID(ScalarMapStore)

	require.Equal(t, first, second)
}

func TestInitRegistersReanimators(t *testing.T) {
	store := kv.NewMemStore()
	manager := refs.NewMemManager()
	r := New(store, NewSequentialExportIDAllocator(), manager, nil)

	called := false
	require.NoError(t, r.Init(map[string]refs.ReanimatorFunc{
		ScalarMapStore: func(collectionID uint64) (any, error) {
			called = true
			return nil, nil
		},
	}))

	id, ok := r.KindID(ScalarMapStore)
	require.True(t, ok)
	_, err := manager.Reanimate(id, 1)
	require.NoError(t, err)
	require.True(t, called)
}

func TestHasWeakKeys(t *testing.T) {
	require.False(t, HasWeakKeys(ScalarMapStore))
	require.False(t, HasWeakKeys(ScalarSetStore))
	require.True(t, HasWeakKeys(ScalarWeakMapStore))
	require.True(t, HasWeakKeys(ScalarWeakSetStore))
}
