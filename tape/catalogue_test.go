// This file is part of b-em-sub001.
//
// b-em-sub001 is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// b-em-sub001 is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with b-em-sub001.  If not, see <https://www.gnu.org/licenses/>.

package tape_test

import (
	"testing"

	"github.com/rjpontefract/b-em-sub001/notifications"
	"github.com/rjpontefract/b-em-sub001/tape"
	"github.com/rjpontefract/b-em-sub001/tape/uef"
	"github.com/rjpontefract/b-em-sub001/test"
)

// a single block file with three bytes of data
func block(name string, load uint32, exec uint32) []byte {
	b := []byte{'*'}
	b = append(b, name...)
	b = append(b, 0)
	b = append(b, byte(load), byte(load>>8), byte(load>>16), byte(load>>24))
	b = append(b, byte(exec), byte(exec>>8), byte(exec>>16), byte(exec>>24))
	b = append(b, 0, 0, 3, 0, 0x80, 0, 0, 0, 0)
	b = append(b, 0xaa, 0xbb)
	b = append(b, 1, 2, 3)
	b = append(b, 0xcc, 0xdd)
	return b
}

func TestCatalogue(t *testing.T) {
	tp, rec := newTape(t)
	test.DemandSuccess(t, tp.Load(tape.FileUEF, file(
		chunk(uef.ChunkLeader, 0x90, 0x01),
		chunk(uef.ChunkData, block("HELLO", 0x1900, 0x8023)...),
		chunk(uef.ChunkLeader, 0x90, 0x01),
		chunk(uef.ChunkData, block("WORLD", 0xffff0e00, 0xffff0e00)...),
	)))

	var entries []tape.CatalogueEntry
	test.DemandSuccess(t, tp.Catalogue(false, func(e tape.CatalogueEntry) {
		entries = append(entries, e)
	}))

	test.DemandEquality(t, len(entries), 2)
	test.ExpectEquality(t, entries[0].Name, "HELLO")
	test.ExpectEquality(t, entries[0].Size, uint32(3))
	test.ExpectEquality(t, entries[0].Load, uint32(0x1900))
	test.ExpectEquality(t, entries[0].Exec, uint32(0x8023))
	test.ExpectEquality(t, entries[0].String(), "0:00:00 HELLO      Size 0003 Load 00001900 Run 00008023")
	test.ExpectEquality(t, entries[1].Name, "WORLD")
	test.ExpectSuccess(t, entries[1].Start > entries[0].Start)

	test.ExpectEquality(t, rec.Count(notifications.NotifyCatalogueLine), 2)

	// the live tape is not disturbed
	test.ExpectEquality(t, tp.Elapsed(), int32(0))
	test.ExpectSuccess(t, !tp.PeekEOF())
}

func TestCatalogueEmpty(t *testing.T) {
	tp, _ := newTape(t)
	test.ExpectSuccess(t, tp.Catalogue(true, nil))
}
