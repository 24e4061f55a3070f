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

package extract

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"
	"math"
	"os"
	"regexp"

	"github.com/ttcnlog/logcache/src/logcache/format"
	"github.com/ttcnlog/logcache/src/logcache/schema"

	"github.com/pkg/errors"
	"github.com/uber-go/tally"
	"go.uber.org/zap"
)

var (
	testCaseMarker          = []byte("Test case ")
	testCaseStartedPattern  = regexp.MustCompile(`Test case (\S+) started\.`)
	testCaseFinishedPattern = regexp.MustCompile(`Test case (\S+) finished\. Verdict: ([A-Za-z]+)`)

	errTooManyRecords = errors.New("log file has more records than the index can address")
	errRecordTooLong  = errors.New("record is longer than the index can address")
)

type extractorMetrics struct {
	records       tally.Counter
	parseFailures tally.Counter
	testCases     tally.Counter
	duration      tally.Timer
}

func newExtractorMetrics(scope tally.Scope) extractorMetrics {
	return extractorMetrics{
		records:       scope.Counter("records"),
		parseFailures: scope.Counter("parse-failures"),
		testCases:     scope.Counter("test-cases"),
		duration:      scope.Timer("duration"),
	}
}

// Extractor extracts the record index and test cases of log files.
type Extractor struct {
	opts    Options
	logger  *zap.Logger
	metrics extractorMetrics
}

// NewExtractor returns a new extractor.
func NewExtractor(opts Options) (*Extractor, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	iopts := opts.InstrumentOptions()
	return &Extractor{
		opts:    opts,
		logger:  iopts.Logger(),
		metrics: newExtractorMetrics(iopts.MetricsScope().SubScope("extract")),
	}, nil
}

// Extract scans the log file described by md once from start to end. Record
// index entries are streamed to sink, or collected in the result if sink is
// nil. The context is checked between records, ErrCanceled is returned once
// it is done. Records that cannot be parsed are reported in the result and
// do not stop the extraction, I/O errors do.
func (e *Extractor) Extract(
	ctx context.Context,
	md schema.LogMetaData,
	sink RecordSink,
	progressFn ProgressFn,
) (Result, error) {
	nowFn := e.opts.NowFn()
	start := nowFn()
	fd, err := os.Open(md.FilePath)
	if err != nil {
		return Result{}, errors.Wrap(err, "could not open log file")
	}
	defer fd.Close()

	info, err := fd.Stat()
	if err != nil {
		return Result{}, errors.Wrap(err, "could not stat log file")
	}

	s := &scan{
		md:               md,
		sink:             sink,
		progressFn:       progressFn,
		total:            info.Size(),
		maxParseFailures: e.opts.MaxParseFailures(),
		openTestCase:     -1,
		sequenceNumbers:  make(map[string]int),
	}
	if err := s.run(ctx, bufio.NewReaderSize(fd, e.opts.ReaderBufferSize())); err != nil {
		if err != ErrCanceled {
			e.logger.Error("extraction failed",
				zap.String("logFile", md.FilePath), zap.Error(err))
		}
		return Result{}, err
	}

	// The file may have been appended to while scanning, the metadata
	// describes what was actually scanned.
	after, err := fd.Stat()
	if err != nil {
		return Result{}, errors.Wrap(err, "could not stat log file")
	}
	md.Size = s.consumed
	md.LastModified = after.ModTime().UnixNano()
	md.Records = int64(s.records)
	md.FailedDuringExtraction = s.numParseFailures > 0

	e.metrics.records.Inc(int64(s.records))
	e.metrics.parseFailures.Inc(int64(s.numParseFailures))
	e.metrics.testCases.Inc(int64(len(s.testCases)))
	took := nowFn().Sub(start)
	e.metrics.duration.Record(took)
	e.logger.Debug("extracted log file",
		zap.String("logFile", md.FilePath),
		zap.Int("records", s.records),
		zap.Int("testCases", len(s.testCases)),
		zap.Int("parseFailures", s.numParseFailures),
		zap.Duration("took", took))

	return Result{
		MetaData:               md,
		TestCases:              s.testCases,
		RecordIndexes:          s.recordIndexes,
		Records:                s.records,
		FailedDuringExtraction: s.numParseFailures > 0,
		ParseFailures:          s.parseFailures,
		NumParseFailures:       s.numParseFailures,
	}, nil
}

// scan is the state of a single extraction pass.
type scan struct {
	md               schema.LogMetaData
	sink             RecordSink
	progressFn       ProgressFn
	total            int64
	consumed         int64
	lastPercent      int
	maxParseFailures int

	inRecord      bool
	recordStart   int64
	recordLength  int64
	records       int
	recordIndexes []schema.RecordIndex

	testCases       []schema.TestCase
	openTestCase    int
	sequenceNumbers map[string]int

	parseFailures    []ParseFailure
	numParseFailures int

	scratch []byte
}

func (s *scan) run(ctx context.Context, r *bufio.Reader) error {
	for {
		line, err := s.readLine(r)
		if len(line) > 0 {
			if err := s.handleLine(ctx, line); err != nil {
				return err
			}
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return errors.Wrap(err, "could not read log file")
		}
	}
	if err := s.flushRecord(); err != nil {
		return err
	}
	if s.openTestCase >= 0 {
		s.closeTestCase(s.records-1, schema.VerdictCrashed)
	}
	if s.progressFn != nil && s.lastPercent < 100 {
		s.lastPercent = 100
		s.progressFn(Progress{Percent: 100})
	}
	return nil
}

// readLine returns the next line including its line terminator. The
// returned slice is only valid until the next call.
func (s *scan) readLine(r *bufio.Reader) ([]byte, error) {
	line, err := r.ReadSlice('\n')
	if err != bufio.ErrBufferFull {
		return line, err
	}
	s.scratch = append(s.scratch[:0], line...)
	for err == bufio.ErrBufferFull {
		line, err = r.ReadSlice('\n')
		s.scratch = append(s.scratch, line...)
	}
	return s.scratch, err
}

func (s *scan) handleLine(ctx context.Context, line []byte) error {
	header := format.TimeStampLength(line, s.md.TimeStampFormat) > 0
	if header || !s.inRecord {
		if err := s.flushRecord(); err != nil {
			return err
		}
		if ctx.Err() != nil {
			return ErrCanceled
		}
		if err := s.startRecord(line, header); err != nil {
			return err
		}
	} else {
		s.recordLength += int64(len(line))
	}
	s.consumed += int64(len(line))
	s.reportProgress()
	return nil
}

func (s *scan) startRecord(line []byte, header bool) error {
	if s.records >= math.MaxInt32 {
		return errTooManyRecords
	}
	n := s.records
	s.inRecord = true
	s.recordStart = s.consumed
	s.recordLength = int64(len(line))
	if !header {
		s.parseFailure(n, "record does not start with a time stamp")
		return nil
	}
	if !bytes.Contains(line, testCaseMarker) {
		return nil
	}
	if m := testCaseStartedPattern.FindSubmatch(line); m != nil {
		s.startTestCase(string(m[1]), n)
	} else if m := testCaseFinishedPattern.FindSubmatch(line); m != nil {
		s.finishTestCase(string(m[1]), string(m[2]), n)
	}
	return nil
}

func (s *scan) flushRecord() error {
	if !s.inRecord {
		return nil
	}
	if s.recordLength > math.MaxInt32 {
		return errors.Wrapf(errRecordTooLong, "record %d", s.records)
	}
	r := schema.RecordIndex{
		FileOffset:   s.recordStart,
		RecordLength: int32(s.recordLength),
		RecordNumber: int32(s.records),
	}
	if s.sink == nil {
		s.recordIndexes = append(s.recordIndexes, r)
	} else if err := s.sink.WriteRecordIndex(r); err != nil {
		return errors.Wrap(err, "could not write record index")
	}
	s.records++
	s.inRecord = false
	return nil
}

func (s *scan) startTestCase(name string, recordNumber int) {
	if s.openTestCase >= 0 {
		// Started before the previous one finished.
		s.closeTestCase(recordNumber-1, schema.VerdictCrashed)
	}
	s.sequenceNumbers[name]++
	s.testCases = append(s.testCases, schema.TestCase{
		Name:              name,
		SequenceNumber:    s.sequenceNumbers[name],
		Verdict:           schema.VerdictNone,
		StartRecordNumber: recordNumber,
	})
	s.openTestCase = len(s.testCases) - 1
}

func (s *scan) finishTestCase(name, verdict string, recordNumber int) {
	if s.openTestCase < 0 || s.testCases[s.openTestCase].Name != name {
		s.parseFailure(recordNumber, fmt.Sprintf("test case %s finished without being started", name))
		return
	}
	v, ok := schema.ParseVerdict(verdict)
	if !ok {
		s.parseFailure(recordNumber, fmt.Sprintf("unknown verdict %q", verdict))
		v = schema.VerdictError
	}
	s.closeTestCase(recordNumber, v)
}

func (s *scan) closeTestCase(lastRecordNumber int, v schema.Verdict) {
	tc := &s.testCases[s.openTestCase]
	tc.Verdict = v
	tc.NumberOfRecords = lastRecordNumber - tc.StartRecordNumber + 1
	s.openTestCase = -1
}

func (s *scan) parseFailure(recordNumber int, reason string) {
	s.numParseFailures++
	if len(s.parseFailures) < s.maxParseFailures {
		s.parseFailures = append(s.parseFailures, ParseFailure{
			RecordNumber: recordNumber,
			Reason:       reason,
		})
	}
}

func (s *scan) reportProgress() {
	if s.progressFn == nil {
		return
	}
	percent := 100
	if s.total > 0 && s.consumed < s.total {
		percent = int(s.consumed * 100 / s.total)
	}
	if percent <= s.lastPercent {
		return
	}
	s.lastPercent = percent
	var name string
	if s.openTestCase >= 0 {
		name = s.testCases[s.openTestCase].Name
	}
	s.progressFn(Progress{Percent: percent, TestCase: name})
}
