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
	"context"
	"errors"

	"github.com/ttcnlog/logcache/src/logcache/schema"
)

var (
	// ErrCacheAbsent is returned when a cache file does not exist or could
	// not be decoded. Corrupt files are removed before it is returned.
	ErrCacheAbsent = errors.New("cache absent")

	// ErrCacheStale is returned when the cache no longer describes the log
	// file. The returned error carries the reason.
	ErrCacheStale = errors.New("cache stale")

	// ErrIndexOutOfDate is returned when a requested span of records
	// exceeds the record index, i.e. the index belongs to an older or
	// shorter version of the log file.
	ErrIndexOutOfDate = errors.New("record index out of date")
)

// Store persists extraction results of log files and owns their freshness.
// Callers acquire the scheduling rule of a log file before touching its
// cache files.
type Store interface {
	// Paths returns the companion cache file paths of a log file.
	Paths(lf schema.LogFile) FilePaths

	// IsValid returns whether the cache of the log file is fresh.
	IsValid(lf schema.LogFile) bool

	// CheckFreshness returns the cached metadata if the cache of the log
	// file is fresh, otherwise ErrCacheAbsent or ErrCacheStale wrapped with
	// the reason.
	CheckFreshness(lf schema.LogFile) (schema.LogMetaData, error)

	// FillCache replaces the cache of a log file with a new generation and
	// returns the committed metadata.
	FillCache(
		lf schema.LogFile,
		md schema.LogMetaData,
		testCases []schema.TestCase,
		records []schema.RecordIndex,
	) (schema.LogMetaData, error)

	// NewGenerationWriter clears the cache of a log file and starts writing
	// a new generation.
	NewGenerationWriter(lf schema.LogFile) (GenerationWriter, error)

	// ClearCache removes all cache files of a log file. Clearing a log file
	// without cache is not an error.
	ClearCache(lf schema.LogFile) error

	// SchedulingRule returns the rule serializing access to the log file and
	// its cache files.
	SchedulingRule(lf schema.LogFile) Rule

	// ReadMetaData reads the cached metadata of a log file.
	ReadMetaData(lf schema.LogFile) (schema.LogMetaData, error)

	// ReadTestCases reads the cached test cases of a log file.
	ReadTestCases(lf schema.LogFile) ([]schema.TestCase, error)

	// ReadRecords reads count entries of the record index of a log file
	// starting at record number start.
	ReadRecords(lf schema.LogFile, start, count int) ([]schema.RecordIndex, error)

	// Verify checks the record index against the digest stored in the
	// metadata.
	Verify(lf schema.LogFile) error
}

// GenerationWriter streams a new cache generation to disk. Nothing written
// is visible to readers until Commit returns successfully.
type GenerationWriter interface {
	// WriteRecordIndex appends an entry to the record index. Entries must be
	// written in ascending record number order starting at zero.
	WriteRecordIndex(r schema.RecordIndex) error

	// Records returns the number of entries written so far.
	Records() int64

	// Commit writes the test cases and finally the metadata, which marks the
	// generation complete. The committed metadata is returned.
	Commit(md schema.LogMetaData, testCases []schema.TestCase) (schema.LogMetaData, error)

	// Abort discards the generation. It is a no-op after Commit.
	Abort() error
}

// Rule is a mutual exclusion lock over a log file and its cache files.
type Rule interface {
	// Lock blocks until the rule is acquired.
	Lock()

	// LockContext blocks until the rule is acquired or the context is done.
	LockContext(ctx context.Context) error

	// TryLock acquires the rule if it is free and reports whether it did.
	TryLock() bool

	// Unlock releases the rule.
	Unlock()
}
