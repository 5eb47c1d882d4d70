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

// Package collection is the per-instance façade over a persisted
// map-like or set-like container: has/get/init/set/delete/keys/values/
// entries/clear/size, schema enforcement, and the refcount/recognizer
// bookkeeping that keeps the host's garbage collector precise.
package collection

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/goccy/go-json"
	"go.uber.org/zap"

	"github.com/turbovault/vcstore/codec"
	"github.com/turbovault/vcstore/kv"
	"github.com/turbovault/vcstore/marshal"
	"github.com/turbovault/vcstore/metrics"
	"github.com/turbovault/vcstore/ordinal"
	"github.com/turbovault/vcstore/pattern"
	"github.com/turbovault/vcstore/refs"
)

// Collection is a live handle over a persisted container. Multiple
// handles may exist for the same persistent collectionID (distinct
// reanimations); each has its own generation counter and size cache.
type Collection struct {
	store     kv.Store
	ordinals  *ordinal.Allocator
	manager   refs.Manager
	marshaler marshal.Marshaler
	metrics   *metrics.Recorder
	log       *zap.Logger

	collectionID uint64
	kindID       uint64
	kindName     string
	weak         bool
	label        string
	keyPattern   pattern.KeyPattern

	currentGenerationNumber uint64
	size                    int
	sizeKnown               bool
}

// ExternalID returns this collection's wire identifier, o+<kindID>/<collectionID>.
func (c *Collection) ExternalID() string {
	return fmt.Sprintf("o+%d/%d", c.kindID, c.collectionID)
}

func (c *Collection) CollectionID() uint64         { return c.collectionID }
func (c *Collection) Label() string                { return c.label }
func (c *Collection) KeySchema() pattern.KeyPattern { return c.keyPattern }
func (c *Collection) IsWeak() bool                  { return c.weak }

// resolve computes the encoded store row for key, returning ok=false
// when key is a remotable with no recorded ordinal (i.e. it was never
// inserted, or was already deleted/reclaimed).
func (c *Collection) resolve(key codec.Key) (encoded string, ok bool, err error) {
	if key.Kind == codec.KindRemotable && key.Ordinal == 0 {
		ord, found := c.ordinals.Lookup(c.collectionID, key.Slot)
		if !found {
			return "", false, nil
		}
		key.Ordinal = ord
	}
	enc, err := codec.Encode(key)
	if err != nil {
		return "", false, err
	}
	return enc, true, nil
}

// Has reports whether key is present. A key failing the collection's
// key schema is reported absent rather than erroring.
func (c *Collection) Has(key codec.Key) bool {
	if !c.keyPattern.MatchKey(key) {
		return false
	}
	encoded, ok, err := c.resolve(key)
	if err != nil || !ok {
		return false
	}
	_, ok = c.store.Get(kv.EntryKey(c.collectionID, encoded))
	return ok
}

// Get returns the value stored at key.
func (c *Collection) Get(key codec.Key) (any, error) {
	if !c.keyPattern.MatchKey(key) {
		c.warnSchemaViolation("get", key)
		return nil, ErrSchemaViolation
	}
	encoded, ok, err := c.resolve(key)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrNotFound
	}
	raw, ok := c.store.Get(kv.EntryKey(c.collectionID, encoded))
	if !ok {
		return nil, ErrNotFound
	}
	capsule, err := decodeCapsule(raw)
	if err != nil {
		return nil, err
	}
	return c.marshaler.Unserialize(capsule)
}

// Init inserts key with value. key must match the schema and must not
// already be present.
func (c *Collection) Init(key codec.Key, value any) error {
	if !c.keyPattern.MatchKey(key) {
		c.warnSchemaViolation("init", key)
		return ErrSchemaViolation
	}

	if key.Kind == codec.KindRemotable {
		if _, found := c.ordinals.Lookup(c.collectionID, key.Slot); found {
			return ErrAlreadyPresent
		}
		ord, err := c.ordinals.Assign(c.collectionID, key.Slot)
		if err != nil {
			if errors.Is(err, ordinal.ErrOverflow) {
				if c.metrics != nil {
					c.metrics.OrdinalOverflow()
				}
				if c.log != nil {
					c.log.Warn("ordinal overflow", zap.Uint64("collectionID", c.collectionID), zap.String("slot", key.Slot), zap.Error(err))
				}
			}
			return err
		}
		key.Ordinal = ord
	} else {
		encoded, err := codec.Encode(key)
		if err != nil {
			return err
		}
		if _, ok := c.store.Get(kv.EntryKey(c.collectionID, encoded)); ok {
			return ErrAlreadyPresent
		}
	}

	encoded, err := codec.Encode(key)
	if err != nil {
		return err
	}

	capsule, err := c.marshaler.Serialize(value)
	if err != nil {
		return err
	}

	if key.Kind == codec.KindRemotable {
		if c.weak {
			c.manager.AddRecognizableValue(key.Slot, c.makeDeleter())
		} else {
			c.manager.AddReachableVref(key.Slot)
		}
	}
	c.manager.UpdateReferenceCounts(nil, capsule.Slots)

	c.store.Set(kv.EntryKey(c.collectionID, encoded), encodeCapsule(capsule))
	c.bumpSize(1)
	c.currentGenerationNumber++
	return nil
}

// Set overwrites the value at an already-present key. The generation
// counter is not bumped: value changes never invalidate iteration.
func (c *Collection) Set(key codec.Key, value any) error {
	if !c.keyPattern.MatchKey(key) {
		c.warnSchemaViolation("set", key)
		return ErrSchemaViolation
	}
	encoded, ok, err := c.resolve(key)
	if err != nil {
		return err
	}
	if !ok {
		return ErrNotFound
	}
	raw, ok := c.store.Get(kv.EntryKey(c.collectionID, encoded))
	if !ok {
		return ErrNotFound
	}
	before, err := decodeCapsule(raw)
	if err != nil {
		return err
	}

	after, err := c.marshaler.Serialize(value)
	if err != nil {
		return err
	}

	// Add-then-remove: UpdateReferenceCounts applies afterSlots first,
	// so a slot present in both before and after never transiently
	// drops to zero.
	c.manager.UpdateReferenceCounts(before.Slots, after.Slots)
	c.store.Set(kv.EntryKey(c.collectionID, encoded), encodeCapsule(after))
	return nil
}

// Delete removes key, as called directly by a user: the generation
// counter is bumped once.
func (c *Collection) Delete(key codec.Key) error {
	if !c.keyPattern.MatchKey(key) {
		c.warnSchemaViolation("delete", key)
		return ErrSchemaViolation
	}
	if err := c.deleteNoGenerationBump(key); err != nil {
		return err
	}
	c.currentGenerationNumber++
	return nil
}

// deleteNoGenerationBump is the internal delete path shared by Delete,
// Clear, the disposal sweep, and DeleteReclaimed. Callers
// that delete many keys in one logical operation bump the generation
// counter once themselves, afterward.
func (c *Collection) deleteNoGenerationBump(key codec.Key) error {
	encoded, ok, err := c.resolve(key)
	if err != nil {
		return err
	}
	if !ok {
		return ErrNotFound
	}
	raw, ok := c.store.Get(kv.EntryKey(c.collectionID, encoded))
	if !ok {
		return ErrNotFound
	}
	capsule, err := decodeCapsule(raw)
	if err != nil {
		return err
	}

	c.manager.UpdateReferenceCounts(capsule.Slots, nil)
	c.store.Delete(kv.EntryKey(c.collectionID, encoded))

	if key.Kind == codec.KindRemotable {
		if c.weak {
			c.manager.RemoveRecognizableValue(key.Slot, c.makeDeleter())
		} else {
			c.manager.RemoveReachableVref(key.Slot)
		}
		c.ordinals.Delete(c.collectionID, key.Slot)
	}

	c.bumpSize(-1)
	return nil
}

// makeDeleter is the entryDeleter(slot) callback registered with the
// reference manager for every remotable key of a weak collection: it
// runs when the host reclaims the key object itself, so it cannot go
// through the public Delete path (the key value no longer exists to
// pass in).
func (c *Collection) makeDeleter() func(slot string) {
	return func(slot string) {
		ord, found := c.ordinals.Lookup(c.collectionID, slot)
		if !found {
			if c.log != nil {
				c.log.Warn("reclaim for slot with no ordinal", zap.String("slot", slot), zap.Uint64("collectionID", c.collectionID))
			}
			return
		}
		key := codec.Remotable(ord, slot)
		encoded, err := codec.Encode(key)
		if err != nil {
			return
		}
		raw, ok := c.store.Get(kv.EntryKey(c.collectionID, encoded))
		if !ok {
			return
		}
		capsule, err := decodeCapsule(raw)
		if err == nil {
			c.manager.UpdateReferenceCounts(capsule.Slots, nil)
		}
		c.store.Delete(kv.EntryKey(c.collectionID, encoded))
		c.ordinals.Delete(c.collectionID, slot)
		c.bumpSize(-1)
		c.currentGenerationNumber++
	}
}

// DeleteReclaimed locates the entry for slot by its ordinal and removes
// it through the internal delete path, without going through the public
// Delete path and without bumping the generation counter. Exposed so
// tests and hosts can drive reclamation explicitly. Unlike the
// makeDeleter callback, it also drops the slot's strong reference or
// recognizer, and it fails with ErrOrdinalMissing when slot has no
// ordinal.
func (c *Collection) DeleteReclaimed(slot string) error {
	ord, found := c.ordinals.Lookup(c.collectionID, slot)
	if !found {
		return ErrOrdinalMissing
	}
	key := codec.Remotable(ord, slot)
	return c.deleteNoGenerationBump(key)
}

// Size returns the in-memory entry count. Not defined on weak
// collections.
func (c *Collection) Size() (int, error) {
	if c.weak {
		return 0, ErrWeakCollectionNoIteration
	}
	if !c.sizeKnown {
		c.recount()
	}
	return c.size, nil
}

// recount performs the one-time O(n) scan a reanimated handle needs the
// first time its size is asked for or changed by an insert or delete
// (see SPEC_FULL.md §5's decision on
// the §9 open question: count on first access rather than persist a
// counter row on every mutation).
func (c *Collection) recount() {
	prefix := kv.CollectionPrefix(c.collectionID)
	n := 0
	prior := ""
	for {
		row, _, ok := c.store.GetAfter(prior, prefix, prefix+pattern.AboveAllEncodedKeys)
		if !ok {
			break
		}
		prior = row
		if !kv.IsMetadataRow(row[len(prefix):]) {
			n++
		}
	}
	c.size = n
	c.sizeKnown = true
	if c.metrics != nil {
		c.metrics.SetEntriesLive(strconv.FormatUint(c.collectionID, 10), n)
	}
}

func (c *Collection) warnSchemaViolation(op string, key codec.Key) {
	if c.log != nil {
		c.log.Warn("schema violation", zap.String("op", op), zap.Uint64("collectionID", c.collectionID))
	}
}

func (c *Collection) bumpSize(delta int) {
	if !c.sizeKnown {
		c.recount()
	}
	c.size += delta
	if c.metrics != nil {
		c.metrics.SetEntriesLive(strconv.FormatUint(c.collectionID, 10), c.size)
	}
}

// Clear deletes every entry matching keyPatt/valuePatt (both default to
// the collection's own schema / Any() when nil), bumping the generation
// counter once.
func (c *Collection) Clear(keyPatt pattern.KeyPattern, valuePatt pattern.ValuePattern) error {
	if c.weak {
		return ErrWeakCollectionNoIteration
	}
	if err := validateValuePattern(valuePatt); err != nil {
		return err
	}
	keys, err := c.collectKeys(keyPatt, valuePatt)
	if err != nil {
		return err
	}
	for _, k := range keys {
		if err := c.deleteNoGenerationBump(k); err != nil && err != ErrNotFound {
			return err
		}
	}
	c.currentGenerationNumber++
	return nil
}

func (c *Collection) collectKeys(keyPatt pattern.KeyPattern, valuePatt pattern.ValuePattern) ([]codec.Key, error) {
	it := c.newIterator(keyPatt, valuePatt, true, false)
	var keys []codec.Key
	for {
		k, _, ok, err := it.Next()
		if err != nil {
			return nil, err
		}
		if !ok {
			break
		}
		keys = append(keys, k)
	}
	return keys, nil
}

func (c *Collection) normalizePatterns(keyPatt pattern.KeyPattern, valuePatt pattern.ValuePattern) (pattern.KeyPattern, pattern.ValuePattern) {
	if keyPatt == nil {
		keyPatt = c.keyPattern
	}
	if valuePatt == nil {
		valuePatt = pattern.Any()
	}
	return keyPatt, valuePatt
}

// validateValuePattern enforces that a value pattern, when supplied, is
// the trivial "any" pattern: per spec, any() is the only value pattern
// accepted wherever one is expected, and anything else is rejected
// rather than silently applied as a real filter.
func validateValuePattern(valuePatt pattern.ValuePattern) error {
	if valuePatt != nil && !pattern.IsTrivialAny(valuePatt) {
		return ErrUnsupportedValuePattern
	}
	return nil
}

// Keys returns a lazy, single-pass, non-restartable sequence of keys
// matching keyPatt (values are not deserialized unless valuePatt is
// non-trivial). Not defined on weak collections.
func (c *Collection) Keys(keyPatt pattern.KeyPattern, valuePatt pattern.ValuePattern) (*Iterator, error) {
	if c.weak {
		return nil, ErrWeakCollectionNoIteration
	}
	if err := validateValuePattern(valuePatt); err != nil {
		return nil, err
	}
	return c.newIterator(keyPatt, valuePatt, true, false), nil
}

// Values is like Keys but yields values instead of keys.
func (c *Collection) Values(keyPatt pattern.KeyPattern, valuePatt pattern.ValuePattern) (*Iterator, error) {
	if c.weak {
		return nil, ErrWeakCollectionNoIteration
	}
	if err := validateValuePattern(valuePatt); err != nil {
		return nil, err
	}
	return c.newIterator(keyPatt, valuePatt, false, true), nil
}

// Entries yields (key, value) pairs.
func (c *Collection) Entries(keyPatt pattern.KeyPattern, valuePatt pattern.ValuePattern) (*Iterator, error) {
	if c.weak {
		return nil, ErrWeakCollectionNoIteration
	}
	if err := validateValuePattern(valuePatt); err != nil {
		return nil, err
	}
	return c.newIterator(keyPatt, valuePatt, true, true), nil
}

func decodeCapsule(raw string) (marshal.Capsule, error) {
	var c marshal.Capsule
	if err := json.Unmarshal([]byte(raw), &c); err != nil {
		return marshal.Capsule{}, fmt.Errorf("vcstore/collection: decoding stored row: %w", err)
	}
	return c, nil
}

func encodeCapsule(c marshal.Capsule) string {
	b, _ := json.Marshal(c)
	return string(b)
}
