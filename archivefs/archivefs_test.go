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

package archivefs_test

import (
	"archive/zip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/rjpontefract/b-em-sub001/archivefs"
	"github.com/rjpontefract/b-em-sub001/curated"
	"github.com/rjpontefract/b-em-sub001/test"
)

// creates a directory with a plain file and a zip archive containing files
// and a directory
func testdir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()

	test.DemandSuccess(t, os.WriteFile(filepath.Join(dir, "plain.uef"), []byte("plain contents"), 0o644))

	f, err := os.Create(filepath.Join(dir, "games.zip"))
	test.DemandSuccess(t, err)
	zw := zip.NewWriter(f)
	for _, n := range []string{"ELITE.UEF", "Repton.csw", "extra/README", "extra/nested/FORTH.tibet"} {
		w, err := zw.Create(n)
		test.DemandSuccess(t, err)
		_, err = fmt.Fprintf(w, "%s contents", n)
		test.DemandSuccess(t, err)
	}
	test.DemandSuccess(t, zw.Close())
	test.DemandSuccess(t, f.Close())

	return dir
}

func TestPath(t *testing.T) {
	dir := testdir(t)

	var afs archivefs.Path
	defer afs.Close()

	err := afs.Set(filepath.Join(dir, "missing"))
	test.ExpectSuccess(t, curated.Is(err, archivefs.SetPath))
	test.ExpectEquality(t, afs.String(), "")

	test.DemandSuccess(t, afs.Set(dir))
	test.ExpectSuccess(t, afs.IsDir())
	test.ExpectFailure(t, afs.InArchive())

	entries, err := afs.List()
	test.DemandSuccess(t, err)
	test.ExpectEquality(t, fmt.Sprintf("%s", entries), "[games.zip plain.uef]")
	test.ExpectSuccess(t, entries[0].IsArchive)

	test.DemandSuccess(t, afs.Set(filepath.Join(dir, "plain.uef")))
	test.ExpectFailure(t, afs.IsDir())

	// the containing directory is listed for a file
	entries, err = afs.List()
	test.DemandSuccess(t, err)
	test.ExpectEquality(t, len(entries), 2)

	test.DemandSuccess(t, afs.Set(filepath.Join(dir, "games.zip")))
	test.ExpectSuccess(t, afs.IsDir())
	test.ExpectSuccess(t, afs.InArchive())

	entries, err = afs.List()
	test.DemandSuccess(t, err)
	test.ExpectEquality(t, fmt.Sprintf("%s", entries), "[extra ELITE.UEF Repton.csw]")

	test.DemandSuccess(t, afs.Set(filepath.Join(dir, "games.zip", "extra")))
	test.ExpectSuccess(t, afs.IsDir())
	entries, err = afs.List()
	test.DemandSuccess(t, err)
	test.ExpectEquality(t, fmt.Sprintf("%s", entries), "[nested README]")

	test.DemandSuccess(t, afs.Set(filepath.Join(dir, "games.zip", "extra", "nested", "FORTH.tibet")))
	test.ExpectFailure(t, afs.IsDir())
	test.ExpectSuccess(t, afs.InArchive())
	test.ExpectEquality(t, afs.Base(), "FORTH.tibet")

	err = afs.Set(filepath.Join(dir, "games.zip", "MISSING.UEF"))
	test.ExpectSuccess(t, curated.Is(err, archivefs.SetPath))
	test.ExpectFailure(t, afs.InArchive())
}

func TestOpen(t *testing.T) {
	dir := testdir(t)

	r, sz, err := archivefs.Open(filepath.Join(dir, "games.zip", "ELITE.UEF"))
	test.DemandSuccess(t, err)
	test.ExpectEquality(t, sz, len("ELITE.UEF contents"))
	d, err := io.ReadAll(r)
	test.DemandSuccess(t, err)
	test.ExpectEquality(t, string(d), "ELITE.UEF contents")
	test.ExpectSuccess(t, r.Close())

	r, sz, err = archivefs.Open(filepath.Join(dir, "plain.uef"))
	test.DemandSuccess(t, err)
	test.ExpectEquality(t, sz, len("plain contents"))
	test.ExpectSuccess(t, r.Close())

	_, _, err = archivefs.Open(filepath.Join(dir, "games.zip"))
	test.ExpectSuccess(t, curated.Is(err, archivefs.NotAFile))

	var afs archivefs.Path
	_, _, err = afs.Open()
	test.ExpectSuccess(t, curated.Is(err, archivefs.NoPathSet))
}

func TestArchiveExt(t *testing.T) {
	test.ExpectSuccess(t, archivefs.HasArchiveExt("games.ZIP"))
	test.ExpectFailure(t, archivefs.HasArchiveExt("games.uef"))
	test.ExpectEquality(t, archivefs.TrimArchiveExt("games.zip"), "games")
	test.ExpectEquality(t, archivefs.TrimArchiveExt("games.uef"), "games.uef")
}
