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

// Package extract scans log files in a single forward pass, building the
// record index and the list of test cases.
package extract

import (
	"errors"

	"github.com/ttcnlog/logcache/src/logcache/schema"
)

//go:generate mockgen -package=extract -destination=extract_mock.go github.com/ttcnlog/logcache/src/logcache/extract RecordSink

// ErrCanceled is returned when an extraction was canceled. Its partial
// results must not be persisted.
var ErrCanceled = errors.New("extraction canceled")

// RecordSink receives the record index entries of an extraction in order.
type RecordSink interface {
	WriteRecordIndex(r schema.RecordIndex) error
}

// Progress is reported while extracting.
type Progress struct {
	// Percent of the log file consumed so far.
	Percent int
	// TestCase is the name of the test case being scanned, if any.
	TestCase string
}

// ProgressFn receives progress reports. Percentages never decrease and the
// last report of a successful extraction is 100.
type ProgressFn func(Progress)

// ParseFailure describes a record that could not be parsed.
type ParseFailure struct {
	RecordNumber int
	Reason       string
}

// Result is the outcome of a successful extraction.
type Result struct {
	// MetaData is the detected metadata completed with the size and
	// modification time of the scanned file.
	MetaData  schema.LogMetaData
	TestCases []schema.TestCase
	// RecordIndexes is only populated when no sink was given.
	RecordIndexes []schema.RecordIndex
	Records       int

	// FailedDuringExtraction is set if any record could not be parsed.
	FailedDuringExtraction bool
	ParseFailures          []ParseFailure
	NumParseFailures       int
}
