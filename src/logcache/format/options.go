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

	"github.com/ttcnlog/logcache/src/x/instrument"
)

const (
	// defaultMaxFirstLineLength bounds how much of the file is read looking
	// for the end of the first line.
	defaultMaxFirstLineLength = 64 * 1024

	// defaultGenericStartMarker is the phrase that marks an execution start
	// line whose mode cannot be told.
	defaultGenericStartMarker = "started"
)

var (
	defaultSingleModeMarkers = []string{
		"TTCN-3 Test Executor started in single mode",
		"Test Executor started in single mode",
	}
	defaultParallelModeMarkers = []string{
		"TTCN-3 Main Test Component started",
		"TTCN-3 Host Controller started",
		"TTCN-3 Main Controller started",
	}

	errNoStartMarkers          = errors.New("at least one single or parallel mode marker is required")
	errInvalidFirstLineLength  = errors.New("max first line length must be positive")
	errInstrumentOptionsNotSet = errors.New("instrument options not set")
)

// Options are the options for format detection.
type Options interface {
	// Validate validates the options.
	Validate() error

	// SetInstrumentOptions sets the instrumentation options.
	SetInstrumentOptions(value instrument.Options) Options

	// InstrumentOptions returns the instrumentation options.
	InstrumentOptions() instrument.Options

	// SetSingleModeMarkers sets the phrases marking a single mode execution start.
	SetSingleModeMarkers(value []string) Options

	// SingleModeMarkers returns the phrases marking a single mode execution start.
	SingleModeMarkers() []string

	// SetParallelModeMarkers sets the phrases marking a parallel mode execution start.
	SetParallelModeMarkers(value []string) Options

	// ParallelModeMarkers returns the phrases marking a parallel mode execution start.
	ParallelModeMarkers() []string

	// SetGenericStartMarker sets the phrase that marks an execution start of
	// unknown mode. Such files are treated as parallel mode. An empty value
	// disables the fallback.
	SetGenericStartMarker(value string) Options

	// GenericStartMarker returns the generic execution start phrase.
	GenericStartMarker() string

	// SetMaxFirstLineLength sets the maximum length of the first line.
	SetMaxFirstLineLength(value int) Options

	// MaxFirstLineLength returns the maximum length of the first line.
	MaxFirstLineLength() int
}

type options struct {
	instrumentOpts      instrument.Options
	singleModeMarkers   []string
	parallelModeMarkers []string
	genericStartMarker  string
	maxFirstLineLength  int
}

// NewOptions returns new format detection options.
func NewOptions() Options {
	return &options{
		instrumentOpts:      instrument.NewOptions(),
		singleModeMarkers:   defaultSingleModeMarkers,
		parallelModeMarkers: defaultParallelModeMarkers,
		genericStartMarker:  defaultGenericStartMarker,
		maxFirstLineLength:  defaultMaxFirstLineLength,
	}
}

func (o *options) Validate() error {
	if o.instrumentOpts == nil {
		return errInstrumentOptionsNotSet
	}
	if len(o.singleModeMarkers) == 0 && len(o.parallelModeMarkers) == 0 {
		return errNoStartMarkers
	}
	if o.maxFirstLineLength <= 0 {
		return errInvalidFirstLineLength
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

func (o *options) SetSingleModeMarkers(value []string) Options {
	opts := *o
	opts.singleModeMarkers = value
	return &opts
}

func (o *options) SingleModeMarkers() []string {
	return o.singleModeMarkers
}

func (o *options) SetParallelModeMarkers(value []string) Options {
	opts := *o
	opts.parallelModeMarkers = value
	return &opts
}

func (o *options) ParallelModeMarkers() []string {
	return o.parallelModeMarkers
}

func (o *options) SetGenericStartMarker(value string) Options {
	opts := *o
	opts.genericStartMarker = value
	return &opts
}

func (o *options) GenericStartMarker() string {
	return o.genericStartMarker
}

func (o *options) SetMaxFirstLineLength(value int) Options {
	opts := *o
	opts.maxFirstLineLength = value
	return &opts
}

func (o *options) MaxFirstLineLength() int {
	return o.maxFirstLineLength
}
