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
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/turbovault/vcstore/codec"
	"github.com/turbovault/vcstore/kind"
	"github.com/turbovault/vcstore/kv"
	"github.com/turbovault/vcstore/marshal"
	"github.com/turbovault/vcstore/metrics"
	"github.com/turbovault/vcstore/ordinal"
	"github.com/turbovault/vcstore/pattern"
	"github.com/turbovault/vcstore/refs"
)

// Factory allocates new collections, reanimates them from a dropped
// external identifier, and wires their disposal. It is the one place
// that knows how to build a *Collection from scratch, so MakeCollection
// and the reanimator share exactly the same construction path — see
// newHandle.
type Factory struct {
	store     kv.Store
	ordinals  *ordinal.Allocator
	manager   refs.Manager
	marshaler marshal.Marshaler
	kinds     *kind.Registry
	metrics   *metrics.Recorder
	log       *zap.Logger
}

// NewFactory returns a Factory. kinds must have Init called (with
// Factory.Reanimators() supplied as the reanimator table) before
// MakeCollection or Reanimate is used.
func NewFactory(store kv.Store, ordinals *ordinal.Allocator, manager refs.Manager, marshaler marshal.Marshaler, kinds *kind.Registry, rec *metrics.Recorder, log *zap.Logger) *Factory {
	return &Factory{store: store, ordinals: ordinals, manager: manager, marshaler: marshaler, kinds: kinds, metrics: rec, log: log}
}

// Reanimators returns one reanimator func per known kind, suitable for
// kind.Registry.Init. Each closes over kindName, not kindID: kindIDs
// are only assigned once Init runs, after this map is built.
func (f *Factory) Reanimators() map[string]refs.ReanimatorFunc {
	out := make(map[string]refs.ReanimatorFunc, len(kind.KnownKinds))
	for _, name := range kind.KnownKinds {
		name := name
		out[name] = func(collectionID uint64) (any, error) {
			return f.reanimateWithKindName(collectionID, name)
		}
	}
	return out
}

func (f *Factory) nextCollectionID() uint64 {
	next := uint64(1)
	if raw, ok := f.store.Get(kv.NextCollectionIDKey); ok {
		if n, err := strconv.ParseUint(raw, 10, 64); err == nil {
			next = n
		}
	}
	f.store.Set(kv.NextCollectionIDKey, strconv.FormatUint(next+1, 10))
	return next
}

// newHandle builds the in-memory Collection struct shared by freshly
// made and reanimated collections. sizeKnown/size are the caller's
// responsibility: a fresh collection is certainly empty, a reanimated
// one is not known until first access (see SPEC_FULL.md §5).
func (f *Factory) newHandle(collectionID, kindID uint64, kindName string, weak bool, keyPattern pattern.KeyPattern, label string) *Collection {
	return &Collection{
		store:      f.store,
		ordinals:   f.ordinals,
		manager:    f.manager,
		marshaler:  f.marshaler,
		metrics:    f.metrics,
		log:        f.log,
		collectionID: collectionID,
		kindID:     kindID,
		kindName:   kindName,
		weak:       weak,
		label:      label,
		keyPattern: keyPattern,
	}
}

// MakeCollection allocates a new collectionID, persists its metadata
// row triple, registers it for drop-notification, and returns its
// external identifier alongside a live handle.
func (f *Factory) MakeCollection(label, kindName string, keySchema pattern.KeyPattern) (string, *Collection, error) {
	kindID, ok := f.kinds.KindID(kindName)
	if !ok {
		return "", nil, fmt.Errorf("vcstore/collection: unknown kind %q", kindName)
	}
	if keySchema == nil {
		keySchema = pattern.Scalar()
	}

	collectionID := f.nextCollectionID()
	f.ordinals.Init(collectionID)
	f.store.Set(kv.LabelKey(collectionID), label)
	f.store.Set(kv.KeySchemaKey(collectionID), pattern.Describe(keySchema))

	c := f.newHandle(collectionID, kindID, kindName, kind.HasWeakKeys(kindName), keySchema, label)
	c.size, c.sizeKnown = 0, true

	f.registerDisposal(c)
	f.metrics.CollectionCreated()
	if f.log != nil {
		f.log.Info("collection created", zap.String("kind", kindName), zap.Uint64("collectionID", collectionID))
	}
	return c.ExternalID(), c, nil
}

// reanimateWithKindName reconstructs a handle for collectionID given
// the kind name it belongs to. It builds the handle through newHandle
// with the same argument order MakeCollection uses (collectionID,
// kindID, kindName, weak, keySchema, label) — see the §9
// reanimator-argument-order regression test in lifecycle_test.go.
func (f *Factory) reanimateWithKindName(collectionID uint64, kindName string) (*Collection, error) {
	label, ok := f.store.Get(kv.LabelKey(collectionID))
	if !ok {
		return nil, fmt.Errorf("vcstore/collection: no collection %d to reanimate", collectionID)
	}
	schemaDesc, _ := f.store.Get(kv.KeySchemaKey(collectionID))
	keySchema, err := pattern.Parse(schemaDesc)
	if err != nil {
		return nil, fmt.Errorf("vcstore/collection: reanimating collection %d: %w", collectionID, err)
	}
	kindID, _ := f.kinds.KindID(kindName)

	c := f.newHandle(collectionID, kindID, kindName, kind.HasWeakKeys(kindName), keySchema, label)
	f.registerDisposal(c)
	if f.log != nil {
		f.log.Info("collection reanimated", zap.String("kind", kindName), zap.Uint64("collectionID", collectionID))
	}
	return c, nil
}

// Reanimate parses an external identifier of the form o+<kindID>/<collectionID>
// and reconstructs a handle for it through reanimateWithKindName, the
// same construction path the per-kind reanimators from Reanimators() use.
// It calls that path directly rather than through the reference
// manager's reanimator table.
func (f *Factory) Reanimate(externalID string) (*Collection, error) {
	kindID, collectionID, err := parseExternalID(externalID)
	if err != nil {
		return nil, err
	}
	kindName, ok := f.kinds.NameForID(kindID)
	if !ok {
		return nil, fmt.Errorf("vcstore/collection: unknown kind id %d in %q", kindID, externalID)
	}
	c, err := f.reanimateWithKindName(collectionID, kindName)
	if err != nil {
		return nil, err
	}
	return c, nil
}

func parseExternalID(externalID string) (kindID, collectionID uint64, err error) {
	rest, ok := strings.CutPrefix(externalID, "o+")
	if !ok {
		return 0, 0, fmt.Errorf("vcstore/collection: malformed external id %q", externalID)
	}
	parts := strings.SplitN(rest, "/", 2)
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("vcstore/collection: malformed external id %q", externalID)
	}
	kindID, err = strconv.ParseUint(parts[0], 10, 64)
	if err != nil {
		return 0, 0, fmt.Errorf("vcstore/collection: malformed kind id in %q: %w", externalID, err)
	}
	collectionID, err = strconv.ParseUint(parts[1], 10, 64)
	if err != nil {
		return 0, 0, fmt.Errorf("vcstore/collection: malformed collection id in %q: %w", externalID, err)
	}
	return kindID, collectionID, nil
}

// registerDisposal wires c's disposer with the manager's DropRegistry,
// if it implements one. A manager with no drop-registry support simply
// never triggers disposal; the collection still works, it is just
// never swept.
func (f *Factory) registerDisposal(c *Collection) {
	dr, ok := f.manager.(refs.DropRegistry)
	if !ok {
		return
	}
	dr.RegisterDisposal(kv.CollectionPrefix(c.collectionID), f.disposerFor(c))
}

func (f *Factory) disposerFor(c *Collection) func() {
	return func() {
		c.disposeAllEntries()
		f.sweepRemainingMetadata(c.collectionID)
		if f.metrics != nil {
			f.metrics.CollectionDisposed(strconv.FormatUint(c.collectionID, 10))
		}
		if f.log != nil {
			f.log.Info("collection disposed", zap.Uint64("collectionID", c.collectionID))
		}
	}
}

// disposeAllEntries clears every entry row under c's prefix via the
// internal delete path (so reference counts stay correct), regardless
// of whether c is weak: disposal must still drop weak collections'
// recognizers and ordinal rows even though weak collections do not
// expose a public clear().
func (c *Collection) disposeAllEntries() {
	prefix := kv.CollectionPrefix(c.collectionID)
	prior := ""
	for {
		row, _, ok := c.store.GetAfter(prior, prefix, prefix+pattern.AboveAllEncodedKeys)
		if !ok {
			break
		}
		prior = row
		encoded := row[len(prefix):]
		if kv.IsMetadataRow(encoded) {
			continue
		}
		key, err := codec.Decode(encoded)
		if err != nil {
			continue
		}
		_ = c.deleteNoGenerationBump(key)
	}
	c.currentGenerationNumber++
}

// sweepRemainingMetadata deletes whatever rows remain under
// collectionID's prefix after disposeAllEntries — the |label,
// |keySchema, |nextOrdinal rows and any leftover |<slot> ordinal rows —
// via repeated getAfter(priorKey, prefix) probes, per §4.6.
func (f *Factory) sweepRemainingMetadata(collectionID uint64) {
	prefix := kv.CollectionPrefix(collectionID)
	prior := ""
	for {
		row, _, ok := f.store.GetAfter(prior, prefix, "")
		if !ok || !strings.HasPrefix(row, prefix) {
			break
		}
		prior = row
		f.store.Delete(row)
	}
}
