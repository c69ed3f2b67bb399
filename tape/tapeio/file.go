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

package tapeio

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/rjpontefract/b-em-sub001/archivefs"
	"github.com/rjpontefract/b-em-sub001/curated"
)

// MaxFileLength is the largest tape file that will be read.
const MaxFileLength = 32 * 1024 * 1024

// ReadFile reads the entire file, which may be inside a zip archive. Files of
// MaxFileLength or longer are rejected.
func ReadFile(path string) ([]byte, error) {
	f, _, err := archivefs.Open(path)
	if err != nil {
		return nil, curated.Errorf(FileOpen, err)
	}
	defer f.Close()

	return Read(f, path)
}

// Read reads the entirety of the reader, subject to the same limit as
// ReadFile(). The name is used in error messages.
func Read(r io.Reader, name string) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r, MaxFileLength))
	if err != nil {
		return nil, curated.Errorf(FileRead, err)
	}
	if len(data) >= MaxFileLength {
		return nil, curated.Errorf(FileTooLarge, name, MaxFileLength)
	}
	return data, nil
}

// WriteFile writes data to the file, replacing any existing file. The data is
// written to a temporary file in the same directory first and then renamed,
// so a failed save never leaves a truncated tape behind.
func WriteFile(path string, data []byte) error {
	if len(data) == 0 {
		return curated.Errorf(FileWrite, errors.New("no data"))
	}

	dir := filepath.Dir(path)
	f, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return curated.Errorf(FileOpen, err)
	}
	tmp := f.Name()

	_, err = f.Write(data)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		os.Remove(tmp)
		return curated.Errorf(FileWrite, err)
	}

	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return curated.Errorf(FileWrite, err)
	}

	return nil
}

// Extension returns the file extension in upper case without the leading
// period.
func Extension(path string) string {
	return strings.ToUpper(strings.TrimPrefix(filepath.Ext(path), "."))
}
