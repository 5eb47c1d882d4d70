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

package ordinal

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/turbovault/vcstore/kv"
)

func TestAssignMonotonic(t *testing.T) {
	store := kv.NewMemStore()
	a := New(store)
	a.Init(1)

	o1, err := a.Assign(1, "slotA")
	require.NoError(t, err)
	require.Equal(t, uint64(1), o1)

	o2, err := a.Assign(1, "slotB")
	require.NoError(t, err)
	require.Equal(t, uint64(2), o2)

	got, ok := a.Lookup(1, "slotA")
	require.True(t, ok)
	require.Equal(t, o1, got)
}

func TestDeleteRemovesOrdinalRow(t *testing.T) {
	store := kv.NewMemStore()
	a := New(store)
	a.Init(1)
	_, err := a.Assign(1, "slot")
	require.NoError(t, err)

	a.Delete(1, "slot")
	_, ok := a.Lookup(1, "slot")
	require.False(t, ok)
}

func TestOverflow(t *testing.T) {
	store := kv.NewMemStore()
	store.Set(kv.NextOrdinalKey(1), strconv.FormatUint(MaxOrdinal+1, 10))
	a := New(store)

	_, err := a.Assign(1, "slot")
	require.ErrorIs(t, err, ErrOverflow)
}
