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

package tape

import (
	"strings"

	"github.com/rjpontefract/b-em-sub001/curated"
	"github.com/rjpontefract/b-em-sub001/tape/tapeio"
)

// FileType is a set of tape formats. A loaded tape has exactly one type. A
// tape that is being recorded from blank is held in every format at once.
type FileType uint8

// List of valid FileType values.
const (
	FileNone  FileType = 0x00
	FileUEF   FileType = 0x01
	FileTIBET FileType = 0x02
	FileCSW   FileType = 0x04
	FileAll   FileType = FileUEF | FileTIBET | FileCSW
)

func (ft FileType) String() string {
	if ft == FileNone {
		return "none"
	}

	var s []string
	if ft&FileUEF == FileUEF {
		s = append(s, "UEF")
	}
	if ft&FileTIBET == FileTIBET {
		s = append(s, "TIBET")
	}
	if ft&FileCSW == FileCSW {
		s = append(s, "CSW")
	}
	return strings.Join(s, "+")
}

// Single returns true if the set contains exactly one format.
func (ft FileType) Single() bool {
	return ft == FileUEF || ft == FileTIBET || ft == FileCSW
}

// FileTypeFromPath returns the tape format implied by the filename
// extension. The compressed flag is true for the .tibetz extension, which is
// always compressed. The other formats may or may not be compressed.
func FileTypeFromPath(path string) (ft FileType, compressed bool, err error) {
	switch ext := tapeio.Extension(path); ext {
	case "UEF":
		return FileUEF, false, nil
	case "CSW":
		return FileCSW, false, nil
	case "TIBET":
		return FileTIBET, false, nil
	case "TIBETZ":
		return FileTIBET, true, nil
	default:
		return FileNone, false, curated.Errorf(UnknownFileType, ext)
	}
}
