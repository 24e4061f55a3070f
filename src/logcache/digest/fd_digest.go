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
	"bufio"
	"hash"
	"hash/adler32"
	"io"
	"os"
)

// FdWithDigestWriter is a buffered writer for a file descriptor that keeps a
// running digest of everything written.
type FdWithDigestWriter interface {
	io.Writer
	io.Closer

	// Fd returns the file descriptor.
	Fd() *os.File

	// Digest returns the digest.
	Digest() hash.Hash32

	// Reset resets the file descriptor, the buffer and the digest.
	Reset(fd *os.File)

	// Flush flushes buffered bytes to the file descriptor.
	Flush() error
}

type fdWithDigestWriter struct {
	fd     *os.File
	digest hash.Hash32
	writer *bufio.Writer
}

// NewFdWithDigestWriter creates a new writer that flushes to the file in
// chunks of bufferSize bytes.
func NewFdWithDigestWriter(bufferSize int) FdWithDigestWriter {
	return &fdWithDigestWriter{
		digest: adler32.New(),
		writer: bufio.NewWriterSize(nil, bufferSize),
	}
}

func (w *fdWithDigestWriter) Fd() *os.File {
	return w.fd
}

func (w *fdWithDigestWriter) Digest() hash.Hash32 {
	return w.digest
}

func (w *fdWithDigestWriter) Reset(fd *os.File) {
	w.fd = fd
	w.digest.Reset()
	w.writer.Reset(fd)
}

func (w *fdWithDigestWriter) Write(b []byte) (int, error) {
	written, err := w.writer.Write(b)
	if err != nil {
		return 0, err
	}
	if _, err := w.digest.Write(b); err != nil {
		return 0, err
	}
	return written, nil
}

func (w *fdWithDigestWriter) Flush() error {
	return w.writer.Flush()
}

// Close flushes what's remaining in the buffered writer and closes the file.
func (w *fdWithDigestWriter) Close() error {
	if w.fd == nil {
		return nil
	}
	if err := w.writer.Flush(); err != nil {
		w.fd.Close()
		w.fd = nil
		return err
	}
	err := w.fd.Close()
	w.fd = nil
	return err
}

// Validate reads r to the end and compares its digest against expected.
func Validate(r io.Reader, bufferSize int, expected uint32) error {
	d := adler32.New()
	if _, err := io.CopyBuffer(d, r, make([]byte, bufferSize)); err != nil {
		return err
	}
	if d.Sum32() != expected {
		return ErrChecksumMismatch
	}
	return nil
}
