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

import "errors"

// Error kinds raised by the collection engine. has() never returns
// ErrSchemaViolation; it reports false instead, per spec.
var (
	ErrSchemaViolation           = errors.New("vcstore/collection: schema violation")
	ErrNotFound                  = errors.New("vcstore/collection: not found")
	ErrAlreadyPresent            = errors.New("vcstore/collection: already present")
	ErrUnsupportedValuePattern   = errors.New("vcstore/collection: unsupported value pattern")
	ErrOrdinalMissing            = errors.New("vcstore/collection: ordinal missing")
	ErrConcurrentModification    = errors.New("vcstore/collection: concurrent modification")
	ErrWeakCollectionNoIteration = errors.New("vcstore/collection: weak collections do not support iteration or size")
)
