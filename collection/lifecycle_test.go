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

package collection_test

import (
	"fmt"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/turbovault/vcstore/codec"
	"github.com/turbovault/vcstore/kind"
	"github.com/turbovault/vcstore/kv"
	"github.com/turbovault/vcstore/pattern"
)

func TestMakeCollectionPersistsMetadataAndExternalID(t *testing.T) {
	h := newHarness(t)
	externalID, c, err := h.factory.MakeCollection("my label", kind.ScalarMapStore, pattern.Scalar())
	require.NoError(t, err)

	kindID, ok := h.kinds.KindID(kind.ScalarMapStore)
	require.True(t, ok)
	require.Equal(t, fmt.Sprintf("o+%d/%d", kindID, c.CollectionID()), externalID)

	label, ok := h.store.Get(kv.LabelKey(c.CollectionID()))
	require.True(t, ok)
	require.Equal(t, "my label", label)
}

// TestReanimationUsesFixedArgumentOrder is the §9 "apparent bug"
// regression test: makeCollection and the reanimator must agree on
// (label, collectionID, kindName, keySchema), or a reanimated handle's
// label/key schema would silently come out swapped or wrong.
func TestReanimationUsesFixedArgumentOrder(t *testing.T) {
	h := newHarness(t)
	externalID, original, err := h.factory.MakeCollection("durable label", kind.ScalarSetStore, pattern.Scalar())
	require.NoError(t, err)
	require.NoError(t, original.Init(codec.String("k"), "v"))

	reanimated, err := h.factory.Reanimate(externalID)
	require.NoError(t, err)

	require.Equal(t, original.Label(), reanimated.Label())
	require.Equal(t, original.CollectionID(), reanimated.CollectionID())
	require.Equal(t, pattern.Describe(original.KeySchema()), pattern.Describe(reanimated.KeySchema()))

	v, err := reanimated.Get(codec.String("k"))
	require.NoError(t, err)
	require.Equal(t, "v", v)
}

func TestReanimatedHandleHasIndependentGenerationAndSize(t *testing.T) {
	h := newHarness(t)
	externalID, original, err := h.factory.MakeCollection("m", kind.ScalarMapStore, pattern.Scalar())
	require.NoError(t, err)
	require.NoError(t, original.Init(codec.String("a"), 1))
	require.NoError(t, original.Init(codec.String("b"), 2))

	reanimated, err := h.factory.Reanimate(externalID)
	require.NoError(t, err)

	size, err := reanimated.Size()
	require.NoError(t, err)
	require.Equal(t, 2, size, "reanimated handle counts entries on first access")

	it, err := reanimated.Keys(nil, nil)
	require.NoError(t, err)
	_, _, ok, err := it.Next()
	require.NoError(t, err)
	require.True(t, ok)

	// original and reanimated are distinct handles over the same
	// persistent collection, each with its own generation counter: a
	// mutation through original must not invalidate an iterator opened
	// on reanimated.
	require.NoError(t, original.Init(codec.String("c"), 3))
	_, _, ok, err = it.Next()
	require.NoError(t, err)
	require.True(t, ok)
}

func TestManagerReanimateRoundTrip(t *testing.T) {
	h := newHarness(t)
	externalID, original, err := h.factory.MakeCollection("m", kind.ScalarMapStore, pattern.Scalar())
	require.NoError(t, err)
	require.NoError(t, original.Init(codec.String("a"), 42))

	kindID, collectionID, err := parseExternalIDForTest(externalID)
	require.NoError(t, err)

	handle, err := h.manager.Reanimate(kindID, collectionID)
	require.NoError(t, err)
	reanimated, ok := handle.(interface {
		Get(codec.Key) (any, error)
	})
	require.True(t, ok)

	v, err := reanimated.Get(codec.String("a"))
	require.NoError(t, err)
	require.Equal(t, 42, v)
}

func TestDisposalSweepsAllRows(t *testing.T) {
	h := newHarness(t)
	externalID, c, err := h.factory.MakeCollection("m", kind.ScalarMapStore, pattern.Scalar())
	require.NoError(t, err)
	require.NoError(t, c.Init(codec.String("a"), 1))
	require.NoError(t, c.Init(codec.Remotable(0, "o+1/9"), 2))

	prefix := kv.CollectionPrefix(c.CollectionID())
	h.manager.Drop(prefix)

	row, _, ok := h.store.GetAfter("", prefix, "")
	require.False(t, ok && strings.HasPrefix(row, prefix), "no rows should remain under the collection's prefix after disposal")

	_, err = h.factory.Reanimate(externalID)
	require.Error(t, err, "a disposed collection's label row is gone, so reanimation must fail")
}

func parseExternalIDForTest(externalID string) (kindID, collectionID uint64, err error) {
	rest, ok := strings.CutPrefix(externalID, "o+")
	if !ok {
		return 0, 0, fmt.Errorf("malformed external id %q", externalID)
	}
	parts := strings.SplitN(rest, "/", 2)
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("malformed external id %q", externalID)
	}
	kindID, err = strconv.ParseUint(parts[0], 10, 64)
	if err != nil {
		return 0, 0, err
	}
	collectionID, err = strconv.ParseUint(parts[1], 10, 64)
	if err != nil {
		return 0, 0, err
	}
	return kindID, collectionID, nil
}
