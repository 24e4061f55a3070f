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

package digest

import (
	"bytes"
	"hash/adler32"
	"io/ioutil"
	"os"
	"testing"

	"github.com/stretchr/testify/require"
)

const testWriterBufferSize = 10

func createTestFile(t *testing.T) *os.File {
	fd, err := ioutil.TempFile("", "testfile")
	require.NoError(t, err)
	return fd
}

func TestTrailerRoundtrip(t *testing.T) {
	payload := []byte("some payload")
	data := AppendTrailer(append([]byte(nil), payload...))
	require.Len(t, data, len(payload)+DigestLen)

	res, err := SplitTrailer(data)
	require.NoError(t, err)
	require.Equal(t, payload, res)
}

func TestChecksumMatchesStreamedDigest(t *testing.T) {
	for _, n := range []int{0, 1, 16, 5552, 5553, 70000} {
		buf := bytes.Repeat([]byte{0xfe}, n)
		require.Equal(t, adler32.Checksum(buf), Checksum(buf), "length %d", n)
	}
}

func TestSplitTrailerErrors(t *testing.T) {
	_, err := SplitTrailer([]byte{1, 2})
	require.Equal(t, errPayloadTooShort, err)

	data := AppendTrailer([]byte("payload"))
	data[0] ^= 0xff
	_, err = SplitTrailer(data)
	require.Equal(t, ErrChecksumMismatch, err)
}

func TestBufferWriteReadDigest(t *testing.T) {
	var (
		buf = NewBuffer()
		out bytes.Buffer
	)
	require.NoError(t, buf.WriteDigest(&out, 0xdeadbeef))
	require.Equal(t, uint32(0xdeadbeef), Buffer(out.Bytes()).ReadDigest())
}

func TestFdWithDigestWriterBuffersAndDigests(t *testing.T) {
	fd := createTestFile(t)
	defer os.Remove(fd.Name())

	w := NewFdWithDigestWriter(testWriterBufferSize)
	w.Reset(fd)
	require.Equal(t, fd, w.Fd())

	data := bytes.Repeat([]byte{0x1, 0x2, 0x3}, 100)
	for i := 0; i < len(data); i += 7 {
		end := i + 7
		if end > len(data) {
			end = len(data)
		}
		n, err := w.Write(data[i:end])
		require.NoError(t, err)
		require.Equal(t, end-i, n)
	}
	require.Equal(t, adler32.Checksum(data), w.Digest().Sum32())
	require.NoError(t, w.Close())
	require.Nil(t, w.Fd())
	require.NoError(t, w.Close())

	written, err := ioutil.ReadFile(fd.Name())
	require.NoError(t, err)
	require.Equal(t, data, written)

	f, err := os.Open(fd.Name())
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, Validate(f, 16, adler32.Checksum(data)))
}

func TestValidateMismatch(t *testing.T) {
	err := Validate(bytes.NewReader([]byte("abc")), 2, 1)
	require.Equal(t, ErrChecksumMismatch, err)
}
