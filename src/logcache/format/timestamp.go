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
	"regexp"

	"github.com/ttcnlog/logcache/src/logcache/schema"
)

var (
	dateTimePattern = regexp.MustCompile(`^\d{4}/[A-Z][a-z]{2}/\d{2} \d{2}:\d{2}:\d{2}\.\d{6}`)
	timePattern     = regexp.MustCompile(`^\d{2}:\d{2}:\d{2}\.\d{6}`)
	secondsPattern  = regexp.MustCompile(`^\d+\.\d{6}`)

	// Ordered longest to shortest.
	timeStampFormats = []struct {
		format  schema.TimeStampFormat
		pattern *regexp.Regexp
	}{
		{format: schema.DateTimeFormat, pattern: dateTimePattern},
		{format: schema.TimeFormat, pattern: timePattern},
		{format: schema.SecondsFormat, pattern: secondsPattern},
	}
)

// DetectTimeStamp returns the format of the time stamp the line starts with.
func DetectTimeStamp(line []byte) (schema.TimeStampFormat, bool) {
	for _, f := range timeStampFormats {
		if f.pattern.Match(line) {
			return f.format, true
		}
	}
	return 0, false
}

// TimeStampLength returns the length of the time stamp of the given format at
// the start of line, or zero if the line does not start with one.
func TimeStampLength(line []byte, f schema.TimeStampFormat) int {
	var pattern *regexp.Regexp
	switch f {
	case schema.DateTimeFormat:
		pattern = dateTimePattern
	case schema.TimeFormat:
		pattern = timePattern
	case schema.SecondsFormat:
		pattern = secondsPattern
	default:
		return 0
	}
	loc := pattern.FindIndex(line)
	if loc == nil {
		return 0
	}
	return loc[1]
}
