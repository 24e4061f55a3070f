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

// Package seek reads single records of a log file located by the record
// index, without scanning the file.
package seek

import (
	"errors"
	"os"
	"sync"

	"github.com/ttcnlog/logcache/src/logcache/format"
	"github.com/ttcnlog/logcache/src/logcache/schema"

	pkgerrors "github.com/pkg/errors"
)

var (
	// ErrRecordOutOfDate is returned when a record can not be read in full,
	// i.e. the log file is shorter than when it was indexed.
	ErrRecordOutOfDate = errors.New("record out of date")

	errInvalidRecordIndex = errors.New("invalid record index")
	errReaderClosed       = errors.New("reader closed")
)

// Record is a single decoded record of a log file.
type Record struct {
	Number       int
	TimeStamp    string
	ComponentRef string
	EventType    string
	SourceInfo   string
	Message      string
	// Raw holds the record bytes as found in the log file.
	Raw []byte
	// Parsed is false if the record does not start with a time stamp, in
	// which case Message holds the whole record.
	Parsed bool
}

// Reader reads records of one log file. It is safe for concurrent use.
type Reader struct {
	md   schema.LogMetaData
	pool sync.Pool

	mu sync.RWMutex
	fd *os.File
}

// NewReader opens the log file described by md for reading records.
func NewReader(md schema.LogMetaData) (*Reader, error) {
	fd, err := os.Open(md.FilePath)
	if err != nil {
		return nil, err
	}
	r := &Reader{md: md, fd: fd}
	r.pool.New = func() interface{} {
		b := make([]byte, 0, 4096)
		return &b
	}
	return r, nil
}

// ReadRaw reads the bytes of the record located by idx.
func (r *Reader) ReadRaw(idx schema.RecordIndex) ([]byte, error) {
	buf := r.getBuffer(int(idx.RecordLength))
	defer r.pool.Put(buf)
	if err := r.readAt(*buf, idx); err != nil {
		return nil, err
	}
	return append([]byte(nil), *buf...), nil
}

// Read reads and decodes the record located by idx.
func (r *Reader) Read(idx schema.RecordIndex) (Record, error) {
	buf := r.getBuffer(int(idx.RecordLength))
	defer r.pool.Put(buf)
	if err := r.readAt(*buf, idx); err != nil {
		return Record{}, err
	}
	fields, ok := format.ParseFields(*buf, r.md)
	return Record{
		Number:       int(idx.RecordNumber),
		TimeStamp:    fields.TimeStamp,
		ComponentRef: fields.ComponentRef,
		EventType:    fields.EventType,
		SourceInfo:   fields.SourceInfo,
		Message:      fields.Message,
		Raw:          append([]byte(nil), *buf...),
		Parsed:       ok,
	}, nil
}

func (r *Reader) readAt(buf []byte, idx schema.RecordIndex) error {
	if idx.FileOffset < 0 || idx.RecordLength < 0 {
		return errInvalidRecordIndex
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.fd == nil {
		return errReaderClosed
	}
	n, err := r.fd.ReadAt(buf, idx.FileOffset)
	if n != len(buf) {
		return pkgerrors.Wrapf(ErrRecordOutOfDate, "record %d: read %d of %d bytes: %v",
			idx.RecordNumber, n, len(buf), err)
	}
	return nil
}

func (r *Reader) getBuffer(size int) *[]byte {
	buf := r.pool.Get().(*[]byte)
	if cap(*buf) < size {
		*buf = make([]byte, size)
	}
	*buf = (*buf)[:size]
	return buf
}

// Close closes the underlying log file.
func (r *Reader) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.fd == nil {
		return nil
	}
	err := r.fd.Close()
	r.fd = nil
	return err
}
