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

package tapeio_test

import (
	"archive/zip"
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/rjpontefract/b-em-sub001/curated"
	"github.com/rjpontefract/b-em-sub001/tape/tapeerr"
	"github.com/rjpontefract/b-em-sub001/tape/tapeio"
	"github.com/rjpontefract/b-em-sub001/test"
)

func TestCompression(t *testing.T) {
	data := bytes.Repeat([]byte("tibet 0.5\n"), 100)

	gz, err := tapeio.Gzip(data)
	test.DemandSuccess(t, err)
	test.ExpectSuccess(t, tapeio.IsGzip(gz))

	out, err := tapeio.Inflate(gz, 0)
	test.DemandSuccess(t, err)
	test.ExpectSuccess(t, bytes.Equal(out, data))

	z, err := tapeio.Zlib(data)
	test.DemandSuccess(t, err)
	test.ExpectFailure(t, tapeio.IsGzip(z))

	out, err = tapeio.Inflate(z, 0)
	test.DemandSuccess(t, err)
	test.ExpectSuccess(t, bytes.Equal(out, data))

	// ceiling
	_, err = tapeio.Inflate(z, 10)
	test.ExpectSuccess(t, curated.Is(err, tapeio.DecompressTooLarge))
	test.ExpectEquality(t, tapeerr.KindOf(err), tapeerr.DecompressTooLarge)

	// garbage
	_, err = tapeio.Inflate([]byte("not compressed"), 0)
	test.ExpectEquality(t, tapeerr.KindOf(err), tapeerr.Decompress)

	// empty
	_, err = tapeio.Gzip(nil)
	test.ExpectSuccess(t, tapeerr.IsBug(err))
}

func TestFiles(t *testing.T) {
	pth := filepath.Join(t.TempDir(), "tape.uef")
	test.DemandSuccess(t, tapeio.WriteFile(pth, []byte("UEF File!\x00")))

	data, err := tapeio.ReadFile(pth)
	test.DemandSuccess(t, err)
	test.ExpectEquality(t, string(data), "UEF File!\x00")
	test.ExpectEquality(t, tapeio.Extension(pth), "UEF")

	_, err = tapeio.ReadFile(filepath.Join(t.TempDir(), "missing.csw"))
	test.ExpectEquality(t, tapeerr.KindOf(err), tapeerr.IO)

	entries, err := os.ReadDir(filepath.Dir(pth))
	test.DemandSuccess(t, err)
	test.ExpectEquality(t, len(entries), 1)
}

func TestReadFromArchive(t *testing.T) {
	dir := t.TempDir()
	zpth := filepath.Join(dir, "tapes.zip")

	f, err := os.Create(zpth)
	test.DemandSuccess(t, err)
	zw := zip.NewWriter(f)
	w, err := zw.Create("games/TAPE.UEF")
	test.DemandSuccess(t, err)
	_, err = w.Write([]byte("UEF File!\x00"))
	test.DemandSuccess(t, err)
	test.DemandSuccess(t, zw.Close())
	test.DemandSuccess(t, f.Close())

	data, err := tapeio.ReadFile(filepath.Join(zpth, "games", "TAPE.UEF"))
	test.DemandSuccess(t, err)
	test.ExpectEquality(t, string(data), "UEF File!\x00")

	_, err = tapeio.ReadFile(filepath.Join(zpth, "games", "MISSING.UEF"))
	test.ExpectEquality(t, tapeerr.KindOf(err), tapeerr.IO)
}
