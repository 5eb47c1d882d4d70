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

package kv

import "strconv"

// Row name conventions for per-collection persistent state. Every row a
// collection owns lives under CollectionPrefix(id); metadata rows (as
// opposed to entries) begin with "|", which is never the first byte of
// an encoded key (see package codec), so the two row families never
// collide.
const (
	// KindIDTableKey is the vat-store top-level row mapping kind name to
	// kind ID.
	KindIDTableKey = "storeKindIDTable"

	// NextCollectionIDKey is the vat-store top-level row holding the
	// process-wide monotonic collectionID counter.
	NextCollectionIDKey = "vcNextCollectionID"

	labelSuffix       = "|label"
	keySchemaSuffix   = "|keySchema"
	nextOrdinalSuffix = "|nextOrdinal"
	ordinalPrefix     = "|"
)

// CollectionPrefix returns the shared prefix for every row belonging to
// collectionID, e.g. "vc.17.".
func CollectionPrefix(collectionID uint64) string {
	return "vc." + strconv.FormatUint(collectionID, 10) + "."
}

// LabelKey returns the row holding a collection's human label.
func LabelKey(collectionID uint64) string {
	return CollectionPrefix(collectionID) + labelSuffix
}

// KeySchemaKey returns the row holding a collection's serialized key
// pattern.
func KeySchemaKey(collectionID uint64) string {
	return CollectionPrefix(collectionID) + keySchemaSuffix
}

// NextOrdinalKey returns the row holding a collection's next-ordinal
// counter.
func NextOrdinalKey(collectionID uint64) string {
	return CollectionPrefix(collectionID) + nextOrdinalSuffix
}

// OrdinalKey returns the row mapping a remotable slot to its assigned
// ordinal within collectionID.
func OrdinalKey(collectionID uint64, slot string) string {
	return CollectionPrefix(collectionID) + ordinalPrefix + slot
}

// EntryKey returns the row holding the serialized value for encodedKey
// within collectionID.
func EntryKey(collectionID uint64, encodedKey string) string {
	return CollectionPrefix(collectionID) + encodedKey
}

// IsMetadataRow reports whether row, stripped of its collection prefix,
// is a metadata row ("|..."), as opposed to an entry.
func IsMetadataRow(row string) bool {
	return len(row) > 0 && row[0] == '|'
}
