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

package kind

import "sync/atomic"

// SequentialExportIDAllocator is a reference ExportIDAllocator handing
// out 1, 2, 3, ... Hosts with a real vat export-ID space supply their
// own implementation; this one is for tests and cmd/vcstore.
type SequentialExportIDAllocator struct {
	next atomic.Uint64
}

// NewSequentialExportIDAllocator returns an allocator whose first
// NextExportID() call returns 1.
func NewSequentialExportIDAllocator() *SequentialExportIDAllocator {
	return &SequentialExportIDAllocator{}
}

func (a *SequentialExportIDAllocator) NextExportID() uint64 {
	return a.next.Add(1)
}
