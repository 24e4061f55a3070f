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
	"time"

	"github.com/ttcnlog/logcache/src/logcache/extract"
	"github.com/ttcnlog/logcache/src/logcache/format"
	"github.com/ttcnlog/logcache/src/logcache/persist/fs"
	"github.com/ttcnlog/logcache/src/x/clock"
	"github.com/ttcnlog/logcache/src/x/instrument"
)

const defaultMaxConcurrentExtractions = 2

var (
	errInstrumentOptionsNotSet         = errors.New("instrument options not set")
	errNowFnNotSet                     = errors.New("now function not set")
	errStoreOptionsNotSet              = errors.New("store options not set")
	errFormatOptionsNotSet             = errors.New("format options not set")
	errExtractOptionsNotSet            = errors.New("extract options not set")
	errInvalidMaxConcurrentExtractions = errors.New("max concurrent extractions must be positive")
)

// Options represents the options for the engine.
type Options interface {
	// Validate validates the options.
	Validate() error

	// SetInstrumentOptions sets the instrumentation options, they are passed
	// down to all components.
	SetInstrumentOptions(value instrument.Options) Options

	// InstrumentOptions returns the instrumentation options.
	InstrumentOptions() instrument.Options

	// SetNowFn sets the function used to time extractions.
	SetNowFn(value clock.NowFn) Options

	// NowFn returns the function used to time extractions.
	NowFn() clock.NowFn

	// SetStoreOptions sets the cache store options.
	SetStoreOptions(value fs.Options) Options

	// StoreOptions returns the cache store options.
	StoreOptions() fs.Options

	// SetFormatOptions sets the format detection options.
	SetFormatOptions(value format.Options) Options

	// FormatOptions returns the format detection options.
	FormatOptions() format.Options

	// SetExtractOptions sets the extraction options.
	SetExtractOptions(value extract.Options) Options

	// ExtractOptions returns the extraction options.
	ExtractOptions() extract.Options

	// SetMaxConcurrentExtractions sets the number of log files extracted at
	// the same time.
	SetMaxConcurrentExtractions(value int) Options

	// MaxConcurrentExtractions returns the number of log files extracted at
	// the same time.
	MaxConcurrentExtractions() int
}

type options struct {
	instrumentOpts           instrument.Options
	nowFn                    clock.NowFn
	storeOpts                fs.Options
	formatOpts               format.Options
	extractOpts              extract.Options
	maxConcurrentExtractions int
}

// NewOptions creates a new set of engine options.
func NewOptions() Options {
	return &options{
		instrumentOpts:           instrument.NewOptions(),
		nowFn:                    time.Now,
		storeOpts:                fs.NewOptions(),
		formatOpts:               format.NewOptions(),
		extractOpts:              extract.NewOptions(),
		maxConcurrentExtractions: defaultMaxConcurrentExtractions,
	}
}

func (o *options) Validate() error {
	if o.instrumentOpts == nil {
		return errInstrumentOptionsNotSet
	}
	if o.nowFn == nil {
		return errNowFnNotSet
	}
	if o.storeOpts == nil {
		return errStoreOptionsNotSet
	}
	if o.formatOpts == nil {
		return errFormatOptionsNotSet
	}
	if o.extractOpts == nil {
		return errExtractOptionsNotSet
	}
	if o.maxConcurrentExtractions <= 0 {
		return errInvalidMaxConcurrentExtractions
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

func (o *options) SetStoreOptions(value fs.Options) Options {
	opts := *o
	opts.storeOpts = value
	return &opts
}

func (o *options) StoreOptions() fs.Options {
	return o.storeOpts
}

func (o *options) SetFormatOptions(value format.Options) Options {
	opts := *o
	opts.formatOpts = value
	return &opts
}

func (o *options) FormatOptions() format.Options {
	return o.formatOpts
}

func (o *options) SetExtractOptions(value extract.Options) Options {
	opts := *o
	opts.extractOpts = value
	return &opts
}

func (o *options) ExtractOptions() extract.Options {
	return o.extractOpts
}

func (o *options) SetMaxConcurrentExtractions(value int) Options {
	opts := *o
	opts.maxConcurrentExtractions = value
	return &opts
}

func (o *options) MaxConcurrentExtractions() int {
	return o.maxConcurrentExtractions
}
