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

// Package schema defines the shapes persisted by the log cache: per file
// metadata, the test case list and the fixed width record index.
package schema

import (
	"fmt"
	"strings"
)

const (
	// CacheVersion is the version of the cache format. Any cache written with
	// a different version is considered stale and rebuilt.
	CacheVersion = "3.1"

	// LogFileExtension is the only extension accepted for log files.
	LogFileExtension = ".log"

	// RecordSize is the size in bytes of one persisted record index entry:
	// int64 offset, int32 length, int32 record number.
	RecordSize = 8 + 4 + 4
)

// ExecutionMode is the mode the test executor was running in.
type ExecutionMode int

const (
	// SingleMode is a single process executor log.
	SingleMode ExecutionMode = iota
	// ParallelMode is a main/parallel test component log.
	ParallelMode
)

func (m ExecutionMode) String() string {
	switch m {
	case SingleMode:
		return "single"
	case ParallelMode:
		return "parallel"
	}
	return fmt.Sprintf("ExecutionMode(%d)", int(m))
}

// TimeStampFormat is the format of the time stamp every record starts with.
type TimeStampFormat int

const (
	// DateTimeFormat is a full date time stamp, e.g. 2014/Oct/08 10:13:45.123456.
	DateTimeFormat TimeStampFormat = iota
	// TimeFormat is a time only stamp, e.g. 10:13:45.123456.
	TimeFormat
	// SecondsFormat is an elapsed seconds stamp, e.g. 12.123456.
	SecondsFormat
)

func (f TimeStampFormat) String() string {
	switch f {
	case DateTimeFormat:
		return "datetime"
	case TimeFormat:
		return "time"
	case SecondsFormat:
		return "seconds"
	}
	return fmt.Sprintf("TimeStampFormat(%d)", int(f))
}

// FileFormat is the generation of the log file layout.
type FileFormat int

const (
	// FileFormatV1 logs carry no event type after the time stamp.
	FileFormatV1 FileFormat = iota + 1
	// FileFormatV2 logs carry a logged event type on every record.
	FileFormatV2
)

func (f FileFormat) String() string {
	return fmt.Sprintf("v%d", int(f))
}

// Verdict is the final verdict of a test case.
type Verdict int

const (
	// VerdictNone is the verdict of a test case that set no verdict.
	VerdictNone Verdict = iota
	// VerdictPass is a passing test case.
	VerdictPass
	// VerdictInconc is an inconclusive test case.
	VerdictInconc
	// VerdictFail is a failed test case.
	VerdictFail
	// VerdictError is a test case that ended with an error verdict.
	VerdictError
	// VerdictCrashed is a test case that never logged its finish marker.
	VerdictCrashed
)

var verdictNames = []string{"none", "pass", "inconc", "fail", "error", "crashed"}

func (v Verdict) String() string {
	if v < 0 || int(v) >= len(verdictNames) {
		return fmt.Sprintf("Verdict(%d)", int(v))
	}
	return verdictNames[v]
}

// ParseVerdict parses a verdict as written in the log file. The long form
// "inconclusive" is accepted as well.
func ParseVerdict(s string) (Verdict, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "inconclusive" {
		return VerdictInconc, true
	}
	for i, name := range verdictNames {
		if name == s {
			return Verdict(i), true
		}
	}
	return VerdictNone, false
}

// LogMetaData describes one log file and the cache generation built for it.
// It is replaced as a whole on re-extraction.
type LogMetaData struct {
	FilePath            string
	ProjectName         string
	ProjectRelativePath string
	Version             string
	Size                int64
	// LastModified is the modification time in unix nanoseconds.
	LastModified        int64
	TimeStampFormat     TimeStampFormat
	ExecutionMode       ExecutionMode
	HasLoggedEventTypes bool
	FileFormat          FileFormat

	// GenerationID identifies the cache generation the metadata belongs to.
	GenerationID string
	// FailedDuringExtraction is set when at least one record could not be
	// parsed during extraction.
	FailedDuringExtraction bool
	// Records is the number of entries in the record index.
	Records int64
	// IndexDigest is the adler32 digest of the record index file contents.
	IndexDigest uint32
}

// TestCase is a single test case run found in a log file.
type TestCase struct {
	Name              string
	SequenceNumber    int
	Verdict           Verdict
	StartRecordNumber int
	NumberOfRecords   int
}

// EndRecordNumber returns the number of the last record of the test case.
func (tc TestCase) EndRecordNumber() int {
	return tc.StartRecordNumber + tc.NumberOfRecords - 1
}

// RecordIndex locates a single record in the original log file.
type RecordIndex struct {
	FileOffset   int64
	RecordLength int32
	RecordNumber int32
}

// End returns the offset one past the last byte of the record.
func (r RecordIndex) End() int64 {
	return r.FileOffset + int64(r.RecordLength)
}
