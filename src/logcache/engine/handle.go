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

package engine

import (
	"errors"

	"github.com/ttcnlog/logcache/src/logcache/persist/fs"
	"github.com/ttcnlog/logcache/src/logcache/schema"
	"github.com/ttcnlog/logcache/src/logcache/seek"

	"go.uber.org/multierr"
)

var errRecordNotFound = errors.New("record not found")

// Handle gives access to one cache generation of a log file. The generation
// stays readable for as long as the handle is open, even if the cache is
// replaced meanwhile. A handle is safe for concurrent use.
type Handle struct {
	engine    *Engine
	state     *fileState
	lf        schema.LogFile
	md        schema.LogMetaData
	testCases []schema.TestCase
	index     *fs.IndexReader
	reader    *seek.Reader
}

// LogFile returns the log file of the handle.
func (h *Handle) LogFile() schema.LogFile { return h.lf }

// MetaData returns the metadata of the generation.
func (h *Handle) MetaData() schema.LogMetaData { return h.md }

// TestCases returns the test cases of the generation in order of appearance.
func (h *Handle) TestCases() []schema.TestCase { return h.testCases }

// Records returns count record index entries starting at record number start.
func (h *Handle) Records(start, count int) ([]schema.RecordIndex, error) {
	records, err := h.index.ReadRecords(start, count)
	if errors.Is(err, fs.ErrIndexOutOfDate) {
		h.markStale()
	}
	return records, err
}

// Record reads a single record from the log file.
func (h *Handle) Record(n int) (seek.Record, error) {
	records, err := h.Records(n, 1)
	if err != nil {
		return seek.Record{}, err
	}
	if len(records) != 1 || int(records[0].RecordNumber) != n {
		return seek.Record{}, errRecordNotFound
	}
	rec, err := h.reader.Read(records[0])
	if errors.Is(err, seek.ErrRecordOutOfDate) {
		h.markStale()
	}
	return rec, err
}

// TestCaseRecords returns the record index entries of a test case.
func (h *Handle) TestCaseRecords(tc schema.TestCase) ([]schema.RecordIndex, error) {
	return h.Records(tc.StartRecordNumber, tc.NumberOfRecords)
}

func (h *Handle) markStale() {
	h.engine.metrics.staleOnRead.Inc(1)
	h.state.markStale()
}

// Close releases the files held by the handle.
func (h *Handle) Close() error {
	return multierr.Append(h.index.Close(), h.reader.Close())
}
