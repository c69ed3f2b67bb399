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
	"bytes"
	"compress/gzip"
	"compress/zlib"
	"io"

	"github.com/rjpontefract/b-em-sub001/curated"
)

// MaxDecompressed is the largest amount of data that Inflate() will produce.
const MaxDecompressed = 64 * 1024 * 1024

// IsGzip returns true if the data begins with the gzip magic number.
func IsGzip(data []byte) bool {
	return len(data) >= 2 && data[0] == 0x1f && data[1] == 0x8b
}

// Inflate decompresses data that is either gzip or zlib encoded. The encoding
// is detected from the header. The ceiling argument limits the size of the
// output. A ceiling of zero or less means MaxDecompressed.
func Inflate(data []byte, ceiling int) ([]byte, error) {
	if ceiling <= 0 {
		ceiling = MaxDecompressed
	}

	var r io.ReadCloser
	var err error

	if IsGzip(data) {
		r, err = gzip.NewReader(bytes.NewReader(data))
	} else {
		r, err = zlib.NewReader(bytes.NewReader(data))
	}
	if err != nil {
		return nil, curated.Errorf(DecompressFailed, err)
	}
	defer r.Close()

	out, err := io.ReadAll(io.LimitReader(r, int64(ceiling)+1))
	if err != nil {
		return nil, curated.Errorf(DecompressFailed, err)
	}
	if len(out) > ceiling {
		return nil, curated.Errorf(DecompressTooLarge, ceiling)
	}

	return out, nil
}

// Gzip compresses data with gzip encoding. Used for the chunked and textual
// formats, which are compressed as a whole file.
func Gzip(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, curated.Errorf(CompressEmpty)
	}

	var b bytes.Buffer
	w, err := gzip.NewWriterLevel(&b, gzip.BestCompression)
	if err != nil {
		return nil, curated.Errorf(CompressFailed, err)
	}
	if _, err := w.Write(data); err != nil {
		return nil, curated.Errorf(CompressFailed, err)
	}
	if err := w.Close(); err != nil {
		return nil, curated.Errorf(CompressFailed, err)
	}
	return b.Bytes(), nil
}

// Zlib compresses data with zlib encoding. Used for the body of the pulse
// format.
func Zlib(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, curated.Errorf(CompressEmpty)
	}

	var b bytes.Buffer
	w, err := zlib.NewWriterLevel(&b, zlib.BestCompression)
	if err != nil {
		return nil, curated.Errorf(CompressFailed, err)
	}
	if _, err := w.Write(data); err != nil {
		return nil, curated.Errorf(CompressFailed, err)
	}
	if err := w.Close(); err != nil {
		return nil, curated.Errorf(CompressFailed, err)
	}
	return b.Bytes(), nil
}
