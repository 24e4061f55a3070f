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

package fs

import (
	"os"

	"github.com/ttcnlog/logcache/src/logcache/schema"

	"github.com/pkg/errors"
)

// IndexReader reads entries of a record index file. The file is held open
// so that entries keep being read from the same generation even if the
// cache is replaced meanwhile. It is safe for concurrent use.
type IndexReader struct {
	fd   *os.File
	size int64
}

// OpenIndexReader opens a record index file.
func OpenIndexReader(indexPath string) (*IndexReader, error) {
	fd, err := os.Open(indexPath)
	if os.IsNotExist(err) {
		return nil, ErrCacheAbsent
	}
	if err != nil {
		return nil, err
	}
	info, err := fd.Stat()
	if err != nil {
		fd.Close()
		return nil, err
	}
	return &IndexReader{fd: fd, size: info.Size()}, nil
}

// Records returns the number of entries in the index.
func (r *IndexReader) Records() int64 {
	return r.size / recordSize
}

// ReadRecords reads count entries starting at record number start with a
// single positioned read.
func (r *IndexReader) ReadRecords(start, count int) ([]schema.RecordIndex, error) {
	if start < 0 || count < 0 {
		return nil, errInvalidRecordSpan
	}
	// Bounds are checked in records so that the byte offsets cannot overflow.
	records := r.Records()
	if int64(start) > records || int64(count) > records-int64(start) {
		return nil, errors.Wrapf(ErrIndexOutOfDate,
			"%d records from %d exceed index of %d records",
			count, start, records)
	}
	offset := int64(start) * recordSize
	size := int64(count) * recordSize

	buf := make([]byte, size)
	n, err := r.fd.ReadAt(buf, offset)
	if n != len(buf) {
		return nil, errors.Wrapf(ErrIndexOutOfDate, "short read of %d bytes: %v", n, err)
	}

	result := make([]schema.RecordIndex, count)
	for i := range result {
		result[i] = decodeRecordIndex(buf[i*recordSize:])
	}
	return result, nil
}

// Close closes the index file.
func (r *IndexReader) Close() error {
	return r.fd.Close()
}
