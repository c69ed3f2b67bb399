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

package archivefs

import (
	"archive/zip"
	"bytes"
	"errors"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/rjpontefract/b-em-sub001/curated"
)

// Entry is a single item in a directory or archive listing.
type Entry struct {
	Name string

	// the root of an archive is treated as a directory so IsArchive implies
	// IsDir
	IsDir     bool
	IsArchive bool
}

func (e Entry) String() string {
	return e.Name
}

// Path is a location in the file system that may be inside an archive. The
// zero value is an unset path.
type Path struct {
	current string
	isDir   bool

	zf *zip.ReadCloser

	// the part of the path inside the archive, using forward slashes as
	// zip files do
	inZip string
}

// String returns the current path.
func (afs Path) String() string {
	return afs.current
}

// Base returns the last element of the current path.
func (afs Path) Base() string {
	return filepath.Base(afs.current)
}

// IsDir returns true if the path is a directory or the root of an archive.
func (afs Path) IsDir() bool {
	return afs.isDir
}

// InArchive returns true if the path is inside an archive.
func (afs Path) InArchive() bool {
	return afs.zf != nil
}

// Close any open archive and reset the path.
func (afs *Path) Close() {
	afs.current = ""
	afs.isDir = false
	afs.inZip = ""
	if afs.zf != nil {
		afs.zf.Close()
		afs.zf = nil
	}
}

// Set the path. Each element is checked in turn and the first element that
// is a zip file is opened as an archive.
func (afs *Path) Set(pth string) error {
	afs.Close()

	pth = filepath.Clean(pth)
	lst := strings.Split(pth, string(filepath.Separator))

	// a leading separator is lost by the split
	if lst[0] == "" {
		lst[0] = string(filepath.Separator)
	}

	var current string

	for _, l := range lst {
		current = filepath.Join(current, l)

		if afs.zf != nil {
			p := path.Join(afs.inZip, l)

			fi, err := fs.Stat(afs.zf, p)
			if err != nil {
				afs.Close()
				return curated.Errorf(SetPath, err)
			}

			afs.inZip = p
			afs.isDir = fi.IsDir()
			continue
		}

		fi, err := os.Stat(current)
		if err != nil {
			afs.Close()
			return curated.Errorf(SetPath, err)
		}

		afs.isDir = fi.IsDir()
		if afs.isDir {
			continue
		}

		afs.zf, err = zip.OpenReader(current)
		if err == nil {
			afs.isDir = true
			continue
		}

		if !errors.Is(err, zip.ErrFormat) {
			afs.Close()
			return curated.Errorf(SetPath, err)
		}
	}

	afs.current = filepath.Clean(current)

	return nil
}

type nopCloser struct {
	*bytes.Reader
}

func (nopCloser) Close() error {
	return nil
}

// Open the file at the current path. The size of the file is returned with
// the reader. Files inside an archive are decompressed into memory.
func (afs Path) Open() (io.ReadSeekCloser, int, error) {
	if afs.current == "" {
		return nil, 0, curated.Errorf(NoPathSet)
	}
	if afs.isDir {
		return nil, 0, curated.Errorf(NotAFile, afs.current)
	}

	if afs.zf != nil {
		f, err := afs.zf.Open(afs.inZip)
		if err != nil {
			return nil, 0, curated.Errorf(OpenFile, err)
		}
		defer f.Close()

		b, err := io.ReadAll(f)
		if err != nil {
			return nil, 0, curated.Errorf(ReadFile, err)
		}

		return nopCloser{bytes.NewReader(b)}, len(b), nil
	}

	f, err := os.Open(afs.current)
	if err != nil {
		return nil, 0, curated.Errorf(OpenFile, err)
	}

	fi, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, 0, curated.Errorf(OpenFile, err)
	}

	return f, int(fi.Size()), nil
}

// List the entries of the current path. If the path is a file then the
// entries of the containing directory are listed.
func (afs *Path) List() ([]Entry, error) {
	var ent []Entry

	if afs.zf != nil {
		dir := afs.inZip
		if !afs.isDir {
			dir = path.Dir(dir)
		}
		if dir == "" {
			dir = "."
		}

		des, err := fs.ReadDir(afs.zf, dir)
		if err != nil {
			return nil, curated.Errorf(List, err)
		}
		for _, d := range des {
			ent = append(ent, Entry{Name: d.Name(), IsDir: d.IsDir()})
		}

		Sort(ent)
		return ent, nil
	}

	dir := afs.current
	if !afs.isDir {
		dir = filepath.Dir(dir)
	}

	des, err := os.ReadDir(dir)
	if err != nil {
		return nil, curated.Errorf(List, err)
	}

	for _, d := range des {
		// os.Stat() follows links to directories
		fi, err := os.Stat(filepath.Join(dir, d.Name()))
		if err != nil {
			continue
		}

		if fi.IsDir() {
			ent = append(ent, Entry{Name: d.Name(), IsDir: true})
			continue
		}

		e := Entry{Name: d.Name()}
		if HasArchiveExt(d.Name()) {
			if zf, err := zip.OpenReader(filepath.Join(dir, d.Name())); err == nil {
				zf.Close()
				e.IsDir = true
				e.IsArchive = true
			}
		}
		ent = append(ent, e)
	}

	Sort(ent)
	return ent, nil
}

// Open the named file, which may be inside an archive. The caller must close
// the returned reader.
func Open(filename string) (io.ReadSeekCloser, int, error) {
	var afs Path
	if err := afs.Set(filename); err != nil {
		return nil, 0, err
	}
	defer afs.Close()
	return afs.Open()
}
