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

package format

import (
	"bytes"
	"regexp"

	"github.com/ttcnlog/logcache/src/logcache/schema"
)

var (
	eventTypePattern  = regexp.MustCompile(`^[A-Z]+(_[A-Z]+)+$`)
	sourceInfoPattern = regexp.MustCompile(`^\S+\.[A-Za-z0-9]+:\d+(\(\S*\))?$`)
)

// Fields are the header fields of a single record.
type Fields struct {
	TimeStamp    string
	ComponentRef string
	EventType    string
	SourceInfo   string
	Message      string
}

// IsEventType returns whether the token is a logged event type such as
// EXECUTOR_RUNTIME.
func IsEventType(token []byte) bool {
	return eventTypePattern.Match(token)
}

// ParseFields splits a record into its header fields according to the file
// metadata. The record may span several lines, only the first carries the
// header. ok is false when the record does not start with a time stamp.
func ParseFields(record []byte, md schema.LogMetaData) (fields Fields, ok bool) {
	record = bytes.TrimRight(record, "\r\n")
	n := TimeStampLength(record, md.TimeStampFormat)
	if n == 0 {
		return Fields{Message: string(record)}, false
	}
	fields.TimeStamp = string(record[:n])
	rest := record[n:]

	if md.ExecutionMode == schema.ParallelMode {
		if tok, remaining := nextToken(rest); tok != nil && !IsEventType(tok) {
			fields.ComponentRef = string(tok)
			rest = remaining
		}
	}
	if md.HasLoggedEventTypes {
		if tok, remaining := nextToken(rest); tok != nil && IsEventType(tok) {
			fields.EventType = string(tok)
			rest = remaining
		}
	}
	if tok, remaining := nextToken(rest); tok != nil && sourceInfoPattern.Match(tok) {
		fields.SourceInfo = string(tok)
		rest = remaining
	}
	fields.Message = string(bytes.TrimLeft(rest, " \t"))
	return fields, true
}

// nextToken returns the next space separated token and the remainder
// following it. Only the first line of a multi line record is considered.
func nextToken(b []byte) (token, rest []byte) {
	b = bytes.TrimLeft(b, " \t")
	if len(b) == 0 || b[0] == '\n' || b[0] == '\r' {
		return nil, b
	}
	end := bytes.IndexAny(b, " \t\r\n")
	if end < 0 {
		return b, nil
	}
	return b[:end], b[end:]
}
