// Copyright (c) 2026 The ttcnlog logcache Authors.
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in
// all copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
// THE SOFTWARE.

// Package digest provides adler32 digests for cache files.
package digest

import (
	"encoding/binary"
	"errors"
	"io"

	"github.com/m3db/stackadler32"
)

// DigestLen is the length of a serialized digest.
const DigestLen = 4

var (
	// ErrChecksumMismatch returned when the calculated checksum doesn't match
	// the stored checksum.
	ErrChecksumMismatch = errors.New("calculated checksum doesn't match stored checksum")

	errPayloadTooShort = errors.New("payload shorter than digest")
)

// Checksum returns the adler32 checksum of the buffer without allocating.
func Checksum(buf []byte) uint32 {
	return stackadler32.Checksum(buf)
}

// Buffer is a byte slice that facilitates digest reading and writing.
type Buffer []byte

// NewBuffer creates a new digest buffer.
func NewBuffer() Buffer {
	return make([]byte, DigestLen)
}

// WriteDigest writes a digest to the writer.
func (b Buffer) WriteDigest(w io.Writer, digest uint32) error {
	binary.BigEndian.PutUint32(b, digest)
	_, err := w.Write(b)
	return err
}

// ReadDigest reads a digest from the buffer.
func (b Buffer) ReadDigest() uint32 {
	return binary.BigEndian.Uint32(b)
}

// AppendTrailer appends the checksum of payload to it.
func AppendTrailer(payload []byte) []byte {
	var trailer [DigestLen]byte
	binary.BigEndian.PutUint32(trailer[:], Checksum(payload))
	return append(payload, trailer[:]...)
}

// SplitTrailer validates the trailing checksum of data and returns the
// payload preceding it.
func SplitTrailer(data []byte) ([]byte, error) {
	if len(data) < DigestLen {
		return nil, errPayloadTooShort
	}
	split := len(data) - DigestLen
	payload := data[:split]
	if Buffer(data[split:]).ReadDigest() != Checksum(payload) {
		return nil, ErrChecksumMismatch
	}
	return payload, nil
}
