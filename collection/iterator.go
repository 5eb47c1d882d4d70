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

package collection

import (
	"go.uber.org/zap"

	"github.com/turbovault/vcstore/codec"
	"github.com/turbovault/vcstore/kv"
	"github.com/turbovault/vcstore/pattern"
)

// Iterator is a lazy, single-pass, non-restartable walk over a
// collection's entries. It is bound to the generation number observed
// at construction time: any Init/Delete/Clear through the same handle
// invalidates it. Set does not, and mutations made through another live
// handle over the same collectionID are not detected, since each handle
// keeps its own generation counter.
type Iterator struct {
	c *Collection

	keyPatt   pattern.KeyPattern
	valuePatt pattern.ValuePattern
	wantKey   bool
	wantValue bool

	prefix      string
	lowerBound  string
	upperBound  string
	priorRow    string
	startGen    uint64
	exhausted   bool
}

func (c *Collection) newIterator(keyPatt pattern.KeyPattern, valuePatt pattern.ValuePattern, wantKey, wantValue bool) *Iterator {
	keyPatt, valuePatt = c.normalizePatterns(keyPatt, valuePatt)
	lo, hi := keyPatt.RankCover()
	prefix := kv.CollectionPrefix(c.collectionID)
	return &Iterator{
		c:          c,
		keyPatt:    keyPatt,
		valuePatt:  valuePatt,
		wantKey:    wantKey,
		wantValue:  wantValue,
		prefix:     prefix,
		lowerBound: prefix + lo,
		upperBound: prefix + hi,
		priorRow:   "",
		startGen:   c.currentGenerationNumber,
	}
}

// Next advances the iterator. ok is false once exhausted, with err nil.
// A non-nil err (ErrConcurrentModification, or an error decoding a
// stored key or value) ends iteration permanently: the caller must not
// call Next again.
func (it *Iterator) Next() (codec.Key, any, bool, error) {
	if it.exhausted {
		return codec.Key{}, nil, false, nil
	}
	if it.c.currentGenerationNumber != it.startGen {
		it.exhausted = true
		if it.c.metrics != nil {
			it.c.metrics.ConcurrentModification()
		}
		if it.c.log != nil {
			it.c.log.Warn("concurrent modification", zap.Uint64("collectionID", it.c.collectionID), zap.Uint64("startGeneration", it.startGen), zap.Uint64("currentGeneration", it.c.currentGenerationNumber))
		}
		return codec.Key{}, nil, false, ErrConcurrentModification
	}

	for {
		row, raw, ok := it.c.store.GetAfter(it.priorRow, it.lowerBound, it.upperBound)
		if !ok {
			it.exhausted = true
			return codec.Key{}, nil, false, nil
		}
		it.priorRow = row

		encoded := row[len(it.prefix):]
		key, err := codec.Decode(encoded)
		if err != nil {
			it.exhausted = true
			return codec.Key{}, nil, false, err
		}
		if !it.keyPatt.MatchKey(key) {
			continue
		}

		if it.wantValue || !pattern.IsTrivialAny(it.valuePatt) {
			capsule, err := decodeCapsule(raw)
			if err != nil {
				it.exhausted = true
				return codec.Key{}, nil, false, err
			}
			value, err := it.c.marshaler.Unserialize(capsule)
			if err != nil {
				it.exhausted = true
				return codec.Key{}, nil, false, err
			}
			if !it.valuePatt.MatchValue(value) {
				continue
			}
			if it.wantValue {
				if it.wantKey {
					return key, value, true, nil
				}
				return codec.Key{}, value, true, nil
			}
			return key, nil, true, nil
		}

		return key, nil, true, nil
	}
}
