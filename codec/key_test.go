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

package codec

import (
	"math"
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"
)

func mustEncode(t *testing.T, k Key) string {
	t.Helper()
	s, err := Encode(k)
	require.NoError(t, err)
	return s
}

func TestRoundTrip(t *testing.T) {
	cases := []Key{
		Null(),
		Undefined(),
		Bool(true),
		Bool(false),
		Number(0),
		Number(-1.5),
		Number(math.Inf(1)),
		Number(math.Inf(-1)),
		Number(math.NaN()),
		BigInt(big.NewInt(0)),
		BigInt(big.NewInt(10)),
		BigInt(big.NewInt(-10)),
		BigInt(new(big.Int).Exp(big.NewInt(10), big.NewInt(40), nil)),
		String("hello"),
		Symbol("mySymbol"),
		Remotable(3, "o+1/2"),
	}
	for _, k := range cases {
		encoded := mustEncode(t, k)
		decoded, err := Decode(encoded)
		require.NoError(t, err)
		require.True(t, Equal(k, decoded), "round trip mismatch for %+v -> %q -> %+v", k, encoded, decoded)
	}
}

func TestSignedZeroCollision(t *testing.T) {
	require.Equal(t, mustEncode(t, Number(0)), mustEncode(t, Number(math.Copysign(0, -1))))
}

func TestNumberOrder(t *testing.T) {
	values := []float64{math.Inf(-1), -1e300, -1, -0.0001, 0, math.Copysign(0, -1), 0.0001, 1, 1e300, math.Inf(1)}
	var encoded []string
	for _, v := range values {
		encoded = append(encoded, mustEncode(t, Number(v)))
	}
	for i := 1; i < len(encoded); i++ {
		require.LessOrEqual(t, encoded[i-1], encoded[i], "values %v, %v out of order", values[i-1], values[i])
	}
	nan := mustEncode(t, Number(math.NaN()))
	require.Greater(t, nan, encoded[len(encoded)-1])
}

func TestBigIntMagnitudeOrder(t *testing.T) {
	for k := 0; k < 5; k++ {
		lo := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(k)), nil)
		hi := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(k+1)), nil)
		require.Less(t, mustEncode(t, BigInt(lo)), mustEncode(t, BigInt(hi)))

		negLo := new(big.Int).Neg(lo)
		negHi := new(big.Int).Neg(hi)
		require.Less(t, mustEncode(t, BigInt(negHi)), mustEncode(t, BigInt(negLo)))
	}
}

func TestBigIntSequenceOrder(t *testing.T) {
	values := []int64{-100, -10, 0, 10, 100}
	var encoded []string
	for _, v := range values {
		encoded = append(encoded, mustEncode(t, BigInt(big.NewInt(v))))
	}
	for i := 1; i < len(encoded); i++ {
		require.Less(t, encoded[i-1], encoded[i])
	}
}

func TestRemotableOrdinalWidth(t *testing.T) {
	require.Equal(t, "r0000000001:o+1/1", mustEncode(t, Remotable(1, "o+1/1")))
	require.Equal(t, "r0000000002:o+1/2", mustEncode(t, Remotable(2, "o+1/2")))
}

func TestDecodeCorruption(t *testing.T) {
	_, err := Decode("")
	require.ErrorIs(t, err, ErrDecodeCorruption)

	_, err = Decode("?garbage")
	require.ErrorIs(t, err, ErrDecodeCorruption)

	_, err = Decode("btrueish")
	require.ErrorIs(t, err, ErrDecodeCorruption)
}

func TestUnsupportedKeyPassStyle(t *testing.T) {
	_, err := Encode(Key{Kind: Kind(99)})
	require.ErrorIs(t, err, ErrUnsupportedKeyPassStyle)
}
