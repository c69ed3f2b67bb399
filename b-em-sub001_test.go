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

package main

import (
	"archive/zip"
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func chunk(typ uint16, data ...byte) []byte {
	n := len(data)
	b := []byte{byte(typ), byte(typ >> 8), byte(n), byte(n >> 8), byte(n >> 16), byte(n >> 24)}
	return append(b, data...)
}

// a UEF file holding a single one block file called HELLO
func helloUEF() []byte {
	blk := []byte{'*'}
	blk = append(blk, "HELLO"...)
	blk = append(blk, 0)
	blk = append(blk, 0x00, 0x19, 0x00, 0x00)
	blk = append(blk, 0x23, 0x80, 0x00, 0x00)
	blk = append(blk, 0, 0, 3, 0, 0x80, 0, 0, 0, 0)
	blk = append(blk, 0xaa, 0xbb)
	blk = append(blk, 1, 2, 3)
	blk = append(blk, 0xcc, 0xdd)

	b := []byte("UEF File!\x00")
	b = append(b, 10, 0)
	b = append(b, chunk(0x0110, 0x90, 0x01)...)
	b = append(b, chunk(0x0100, blk...)...)
	b = append(b, chunk(0x0110, 0x90, 0x01)...)
	return b
}

type fixture struct {
	dir       string
	prefsfile string
	in        *strings.Reader
	out       bytes.Buffer
	errOut    bytes.Buffer
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "hello.uef"), helloUEF(), 0o644))
	return &fixture{
		dir:       dir,
		prefsfile: filepath.Join(dir, "preferences"),
		in:        strings.NewReader(""),
	}
}

func (f *fixture) path(name string) string {
	return filepath.Join(f.dir, name)
}

func (f *fixture) run(args ...string) error {
	f.out.Reset()
	f.errOut.Reset()
	args = append([]string{"b-em-sub001", "--prefsfile", f.prefsfile}, args...)
	return newApp(f.in, &f.out, &f.errOut).Run(context.Background(), args)
}

func TestInfo(t *testing.T) {
	f := newFixture(t)

	require.NoError(t, f.run("info", f.path("hello.uef")))
	assert.Contains(t, f.out.String(), "format:   UEF")
	assert.Contains(t, f.out.String(), "chunks:   3")
	assert.Contains(t, f.out.String(), "duration: 0:00:00")

	assert.Error(t, f.run("info"))
	assert.Error(t, f.run("info", f.path("missing.uef")))
}

func TestCatalogue(t *testing.T) {
	f := newFixture(t)

	require.NoError(t, f.run("cat", "--phantoms", f.path("hello.uef")))
	assert.Contains(t, f.out.String(), "HELLO      Size 0003 Load 00001900 Run 00008023")
}

func TestConvert(t *testing.T) {
	f := newFixture(t)

	require.NoError(t, f.run("convert", f.path("hello.uef"), f.path("hello.csw")))
	assert.FileExists(t, f.path("hello.csw"))

	require.NoError(t, f.run("info", f.path("hello.csw")))
	assert.Contains(t, f.out.String(), "format:   CSW")

	require.NoError(t, f.run("cat", "--phantoms", f.path("hello.csw")))
	assert.Contains(t, f.out.String(), "HELLO")

	// the format of the output is taken from its extension
	assert.Error(t, f.run("convert", f.path("hello.uef"), f.path("hello.txt")))
}

func TestPreferencesFlag(t *testing.T) {
	f := newFixture(t)

	require.NoError(t, f.run("--prefs", "tape.compress::false", "convert", f.path("hello.uef"), f.path("plain.uef")))
	data, err := os.ReadFile(f.path("plain.uef"))
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("UEF File!\x00")))

	require.NoError(t, f.run("convert", "--compress", f.path("hello.uef"), f.path("packed.uef")))
	data, err = os.ReadFile(f.path("packed.uef"))
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte{0x1f, 0x8b}))
}

func TestExportImport(t *testing.T) {
	f := newFixture(t)

	require.NoError(t, f.run("export", f.path("hello.uef"), f.path("hello.wav")))
	data, err := os.ReadFile(f.path("hello.wav"))
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("RIFF")))

	require.NoError(t, f.run("import", f.path("hello.wav"), f.path("imported.csw")))
	assert.Contains(t, f.out.String(), "pulses")
	assert.FileExists(t, f.path("imported.csw"))

	assert.Error(t, f.run("import", f.path("hello.uef"), f.path("bad.csw")))
}

func TestCapture(t *testing.T) {
	f := newFixture(t)
	f.in = strings.NewReader("HELLO WORLD")

	require.NoError(t, f.run("capture", "--baud", "1200", f.path("capture.bin")))
	data, err := os.ReadFile(f.path("capture.bin"))
	require.NoError(t, err)
	assert.Equal(t, "HELLO WORLD", string(data))

	assert.Error(t, f.run("capture", "--baud", "1000", f.path("nothing.bin")))
}

func TestArchive(t *testing.T) {
	f := newFixture(t)

	zf, err := os.Create(f.path("tapes.zip"))
	require.NoError(t, err)
	zw := zip.NewWriter(zf)
	w, err := zw.Create("HELLO.UEF")
	require.NoError(t, err)
	_, err = w.Write(helloUEF())
	require.NoError(t, err)
	_, err = zw.Create("README.txt")
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	require.NoError(t, zf.Close())

	require.NoError(t, f.run("ls", f.path("tapes.zip")))
	assert.Equal(t, "HELLO.UEF\n", f.out.String())

	require.NoError(t, f.run("cat", "--phantoms", filepath.Join(f.path("tapes.zip"), "HELLO.UEF")))
	assert.Contains(t, f.out.String(), "HELLO")
}

func TestDigest(t *testing.T) {
	f := newFixture(t)

	require.NoError(t, f.run("info", f.path("hello.uef")))
	uefInfo := f.out.String()
	assert.Contains(t, uefInfo, "digest:   ")

	require.NoError(t, f.run("--prefs", "tape.compress::false", "convert", f.path("hello.uef"), f.path("copy.uef")))
	require.NoError(t, f.run("info", f.path("copy.uef")))
	assert.Contains(t, f.out.String(), "digest:   ")
}
