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

// Package pattern is the (deliberately small) slice of the host's
// pattern language the collection engine depends on: a key predicate
// ("scalar", the only key schema the engine ever installs by default)
// and a value predicate ("any", the only one a value schema is ever
// compared against, since value schemas are reserved but unused).
package pattern

import (
	"fmt"
	"strings"

	"github.com/turbovault/vcstore/codec"
)

// lowestEncodedKey and aboveHighestEncodedKey bound the entire encoded
// key space: every tag byte the codec emits falls in ['b', 'z'], so the
// empty string sorts below all of them and "{" (the byte after 'z')
// sorts above all of them.
const (
	lowestEncodedKey       = ""
	aboveHighestEncodedKey = "{"
)

// AboveAllEncodedKeys is aboveHighestEncodedKey, exported for callers
// outside this package (the lifecycle disposal sweep) that need an
// upper bound past every row an entry's encoded key could ever take.
const AboveAllEncodedKeys = aboveHighestEncodedKey

// KeyPattern is a predicate over decoded keys, plus the rank-cover
// bounds the range iterator uses to avoid scanning rows it already
// knows cannot match.
type KeyPattern interface {
	MatchKey(k codec.Key) bool
	// RankCover returns encoded-key bounds [lo, hi) over-approximating
	// the match set: every matching key's encoding lies in this range,
	// though not every key in the range need match.
	RankCover() (lo, hi string)
}

// ValuePattern is a predicate over deserialized values.
type ValuePattern interface {
	MatchValue(v any) bool
}

type scalarPattern struct{}

func (scalarPattern) MatchKey(codec.Key) bool { return true }
func (scalarPattern) RankCover() (string, string) {
	return lowestEncodedKey, aboveHighestEncodedKey
}

// Scalar returns the key pattern matching any passable scalar key — the
// only key pattern the collection engine installs unless a caller
// supplies a narrower one explicitly.
func Scalar() KeyPattern { return scalarPattern{} }

type anyPattern struct{}

func (anyPattern) MatchValue(any) bool { return true }

// Any returns the value pattern matching any value.
func Any() ValuePattern { return anyPattern{} }

// IsTrivialAny reports whether p is exactly the Any() pattern, letting
// callers skip deserializing a value purely to test it against a
// predicate that always succeeds.
func IsTrivialAny(p ValuePattern) bool {
	_, ok := p.(anyPattern)
	return ok
}

const celPrefix = "cel:"

// Describe serializes p for the collection's persisted |keySchema row.
// The core only ever installs Scalar(), but a caller-supplied Compiled
// pattern round-trips too, so a reanimated handle preserves whatever
// schema makeCollection was given.
func Describe(p KeyPattern) string {
	if c, ok := p.(*Compiled); ok {
		return celPrefix + c.Expr()
	}
	return "scalar"
}

// Parse reconstructs a KeyPattern from a string produced by Describe.
func Parse(desc string) (KeyPattern, error) {
	if desc == "" || desc == "scalar" {
		return Scalar(), nil
	}
	if expr, ok := strings.CutPrefix(desc, celPrefix); ok {
		return NewCompiled(expr)
	}
	return nil, fmt.Errorf("vcstore/pattern: unknown key schema %q", desc)
}
