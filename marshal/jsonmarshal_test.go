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

package marshal

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRoundTripPlainValue(t *testing.T) {
	m := JSONMarshaler{}
	c, err := m.Serialize(map[string]any{"a": float64(1), "b": "two"})
	require.NoError(t, err)
	require.Empty(t, c.Slots)

	v, err := m.Unserialize(c)
	require.NoError(t, err)
	require.Equal(t, map[string]any{"a": float64(1), "b": "two"}, v)
}

func TestSlotExtractionAndRestore(t *testing.T) {
	m := JSONMarshaler{}
	value := map[string]any{
		"owner": RemotableRef{Slot: "o+1/1"},
		"list":  []any{RemotableRef{Slot: "o+1/2"}, RemotableRef{Slot: "o+1/1"}},
	}
	c, err := m.Serialize(value)
	require.NoError(t, err)
	require.ElementsMatch(t, []string{"o+1/1", "o+1/2"}, c.Slots)

	v, err := m.Unserialize(c)
	require.NoError(t, err)
	require.Equal(t, value, v)
}
