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
	"errors"
	"time"

	"github.com/ttcnlog/logcache/src/x/clock"
	"github.com/ttcnlog/logcache/src/x/instrument"
)

const (
	// defaultReaderBufferSize is the default buffer size for scanning log files.
	defaultReaderBufferSize = 65536

	// defaultMaxParseFailures is the default number of parse failures kept
	// in an extraction result.
	defaultMaxParseFailures = 100
)

var (
	errInstrumentOptionsNotSet = errors.New("instrument options not set")
	errNowFnNotSet             = errors.New("now function not set")
	errInvalidReaderBufferSize = errors.New("reader buffer size must be at least 16 bytes")
	errInvalidMaxParseFailures = errors.New("max parse failures must not be negative")
)

// Options represents the options for extraction.
type Options interface {
	// Validate validates the options.
	Validate() error

	// SetInstrumentOptions sets the instrumentation options.
	SetInstrumentOptions(value instrument.Options) Options

	// InstrumentOptions returns the instrumentation options.
	InstrumentOptions() instrument.Options

	// SetNowFn sets the function used to time extractions.
	SetNowFn(value clock.NowFn) Options

	// NowFn returns the function used to time extractions.
	NowFn() clock.NowFn

	// SetReaderBufferSize sets the buffer size for scanning log files.
	SetReaderBufferSize(value int) Options

	// ReaderBufferSize returns the buffer size for scanning log files.
	ReaderBufferSize() int

	// SetMaxParseFailures sets the number of parse failures kept in a
	// result. Failures beyond it are counted only.
	SetMaxParseFailures(value int) Options

	// MaxParseFailures returns the number of parse failures kept in a result.
	MaxParseFailures() int
}

type options struct {
	instrumentOpts   instrument.Options
	nowFn            clock.NowFn
	readerBufferSize int
	maxParseFailures int
}

// NewOptions creates a new set of extraction options.
func NewOptions() Options {
	return &options{
		instrumentOpts:   instrument.NewOptions(),
		nowFn:            time.Now,
		readerBufferSize: defaultReaderBufferSize,
		maxParseFailures: defaultMaxParseFailures,
	}
}

func (o *options) Validate() error {
	if o.instrumentOpts == nil {
		return errInstrumentOptionsNotSet
	}
	if o.nowFn == nil {
		return errNowFnNotSet
	}
	if o.readerBufferSize < 16 {
		return errInvalidReaderBufferSize
	}
	if o.maxParseFailures < 0 {
		return errInvalidMaxParseFailures
	}
	return nil
}

func (o *options) SetInstrumentOptions(value instrument.Options) Options {
	opts := *o
	opts.instrumentOpts = value
	return &opts
}

func (o *options) InstrumentOptions() instrument.Options {
	return o.instrumentOpts
}

func (o *options) SetNowFn(value clock.NowFn) Options {
	opts := *o
	opts.nowFn = value
	return &opts
}

func (o *options) NowFn() clock.NowFn {
	return o.nowFn
}

func (o *options) SetReaderBufferSize(value int) Options {
	opts := *o
	opts.readerBufferSize = value
	return &opts
}

func (o *options) ReaderBufferSize() int {
	return o.readerBufferSize
}

func (o *options) SetMaxParseFailures(value int) Options {
	opts := *o
	opts.maxParseFailures = value
	return &opts
}

func (o *options) MaxParseFailures() int {
	return o.maxParseFailures
}
