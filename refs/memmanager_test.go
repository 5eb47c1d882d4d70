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

package refs

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRefCountBalance(t *testing.T) {
	m := NewMemManager()
	m.UpdateReferenceCounts(nil, []string{"a", "b"})
	require.Equal(t, 1, m.RefCount("a"))
	require.Equal(t, 1, m.RefCount("b"))

	m.UpdateReferenceCounts([]string{"a"}, []string{"c"})
	require.Equal(t, 0, m.RefCount("a"))
	require.Equal(t, 1, m.RefCount("c"))

	m.UpdateReferenceCounts([]string{"b", "c"}, nil)
	require.Equal(t, 0, m.RefCount("b"))
	require.Equal(t, 0, m.RefCount("c"))
}

func TestReachableVref(t *testing.T) {
	m := NewMemManager()
	m.AddReachableVref("o+1/1")
	m.AddReachableVref("o+1/1")
	require.Equal(t, 2, m.RefCount("o+1/1"))
	m.RemoveReachableVref("o+1/1")
	require.Equal(t, 1, m.RefCount("o+1/1"))
}

func TestRecognizerReclaim(t *testing.T) {
	m := NewMemManager()
	var reclaimed []string
	m.AddRecognizableValue("o+1/1", func(slot string) { reclaimed = append(reclaimed, slot) })

	m.Reclaim("o+1/1")
	require.Equal(t, []string{"o+1/1"}, reclaimed)

	// Reclaiming again is a no-op: the recognizer was consumed.
	m.Reclaim("o+1/1")
	require.Equal(t, []string{"o+1/1"}, reclaimed)
}

func TestReanimatorRoundTrip(t *testing.T) {
	m := NewMemManager()
	m.RegisterReanimator(7, func(collectionID uint64) (any, error) {
		return collectionID * 2, nil
	})

	v, err := m.Reanimate(7, 21)
	require.NoError(t, err)
	require.Equal(t, uint64(42), v)

	_, err = m.Reanimate(8, 21)
	require.Error(t, err)
}
