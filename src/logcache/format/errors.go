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
	"errors"
	"fmt"
)

// ErrorKind classifies why a file was rejected.
type ErrorKind int

const (
	// FileMissing means the log file does not exist.
	FileMissing ErrorKind = iota + 1
	// FileEmpty means the log file has zero length.
	FileEmpty
	// FileUnreadable means the log file could not be stat'ed or read.
	FileUnreadable
	// WrongExtension means the file does not carry the log extension.
	WrongExtension
	// NoTimeStamp means the first line does not start with a known time stamp.
	NoTimeStamp
	// NoStartMarker means the first line carries no execution started marker.
	NoStartMarker
)

func (k ErrorKind) String() string {
	switch k {
	case FileMissing:
		return "file does not exist"
	case FileEmpty:
		return "file is empty"
	case FileUnreadable:
		return "file could not be read"
	case WrongExtension:
		return "file is not a log file"
	case NoTimeStamp:
		return "no recognized time stamp"
	case NoStartMarker:
		return "no recognized execution started marker"
	}
	return fmt.Sprintf("ErrorKind(%d)", int(k))
}

// Error is returned when a file is not a recognized log file. It is not
// retryable without a different file.
type Error struct {
	Kind ErrorKind
	Path string
	Err  error
}

func newError(kind ErrorKind, path string, cause error) *Error {
	return &Error{Kind: kind, Path: path, Err: cause}
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("invalid log file %s: %s: %v", e.Path, e.Kind, e.Err)
	}
	return fmt.Sprintf("invalid log file %s: %s", e.Path, e.Kind)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// IsFormatError returns whether err was caused by a rejected log file, and
// its kind if so.
func IsFormatError(err error) (ErrorKind, bool) {
	var fe *Error
	if errors.As(err, &fe) {
		return fe.Kind, true
	}
	return 0, false
}
