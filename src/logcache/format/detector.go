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

// Package format detects the layout of a log file from its first line.
package format

import (
	"bufio"
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/ttcnlog/logcache/src/logcache/schema"

	"go.uber.org/zap"
)

// Detector inspects the first line of log files. It is safe for concurrent use.
type Detector struct {
	opts   Options
	logger *zap.Logger
}

// NewDetector returns a new detector.
func NewDetector(opts Options) (*Detector, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	return &Detector{
		opts:   opts,
		logger: opts.InstrumentOptions().Logger(),
	}, nil
}

// Detect reads the first line of the log file and returns its metadata. Only
// the identity, format fields and the size/mtime fingerprint are set; the
// extractor completes the rest. Any failure is returned as *Error.
func (d *Detector) Detect(lf schema.LogFile) (schema.LogMetaData, error) {
	path := lf.Path
	if !strings.EqualFold(filepath.Ext(path), schema.LogFileExtension) {
		return schema.LogMetaData{}, newError(WrongExtension, path, nil)
	}

	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return schema.LogMetaData{}, newError(FileMissing, path, err)
	}
	if err != nil {
		return schema.LogMetaData{}, newError(FileUnreadable, path, err)
	}
	if info.IsDir() {
		return schema.LogMetaData{}, newError(FileUnreadable, path, nil)
	}
	if info.Size() == 0 {
		return schema.LogMetaData{}, newError(FileEmpty, path, nil)
	}

	line, err := d.readFirstLine(path)
	if err != nil {
		return schema.LogMetaData{}, newError(FileUnreadable, path, err)
	}

	tsFormat, ok := DetectTimeStamp(line)
	if !ok {
		return schema.LogMetaData{}, newError(NoTimeStamp, path, nil)
	}

	mode, ok := d.executionMode(line)
	if !ok {
		return schema.LogMetaData{}, newError(NoStartMarker, path, nil)
	}

	md := schema.LogMetaData{
		FilePath:            path,
		ProjectName:         lf.ProjectName,
		ProjectRelativePath: lf.ProjectRelativePath,
		Version:             schema.CacheVersion,
		Size:                info.Size(),
		LastModified:        info.ModTime().UnixNano(),
		TimeStampFormat:     tsFormat,
		ExecutionMode:       mode,
		FileFormat:          schema.FileFormatV1,
	}
	if hasEventType(line[TimeStampLength(line, tsFormat):], mode) {
		md.HasLoggedEventTypes = true
		md.FileFormat = schema.FileFormatV2
	}
	return md, nil
}

func (d *Detector) readFirstLine(path string) ([]byte, error) {
	fd, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer fd.Close()

	r := bufio.NewReader(io.LimitReader(fd, int64(d.opts.MaxFirstLineLength())))
	line, err := r.ReadBytes('\n')
	if err != nil && err != io.EOF {
		return nil, err
	}
	return bytes.TrimRight(line, "\r\n"), nil
}

// executionMode tells the mode from the start marker. A line with markers of
// both modes, or only the generic marker, is treated as parallel.
func (d *Detector) executionMode(line []byte) (schema.ExecutionMode, bool) {
	var (
		single   = containsAny(line, d.opts.SingleModeMarkers())
		parallel = containsAny(line, d.opts.ParallelModeMarkers())
	)
	switch {
	case single && !parallel:
		return schema.SingleMode, true
	case parallel:
		return schema.ParallelMode, true
	}

	generic := d.opts.GenericStartMarker()
	if generic != "" && bytes.Contains(line, []byte(generic)) {
		d.logger.Warn("execution mode not recognized, assuming parallel mode",
			zap.ByteString("line", line))
		return schema.ParallelMode, true
	}
	return 0, false
}

func containsAny(line []byte, markers []string) bool {
	for _, m := range markers {
		if m != "" && bytes.Contains(line, []byte(m)) {
			return true
		}
	}
	return false
}

// hasEventType checks the token following the time stamp, or the component
// reference in parallel mode, for a logged event type.
func hasEventType(rest []byte, mode schema.ExecutionMode) bool {
	tok, rest := nextToken(rest)
	if mode == schema.ParallelMode && tok != nil && !IsEventType(tok) {
		tok, _ = nextToken(rest)
	}
	return tok != nil && IsEventType(tok)
}
