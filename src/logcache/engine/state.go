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
	"fmt"

	"go.uber.org/atomic"
)

// State is the state of a log file within the engine.
type State int32

const (
	// StateUnknown is the state of a log file nothing is known about.
	StateUnknown State = iota
	// StateDetecting is the state while the log file format is detected.
	StateDetecting
	// StateExtracting is the state while the log file is scanned.
	StateExtracting
	// StateCached is the state of a log file with a fresh cache.
	StateCached
	// StateStale is the state of a log file whose cache was found out of date.
	StateStale
)

func (s State) String() string {
	switch s {
	case StateUnknown:
		return "unknown"
	case StateDetecting:
		return "detecting"
	case StateExtracting:
		return "extracting"
	case StateCached:
		return "cached"
	case StateStale:
		return "stale"
	}
	return fmt.Sprintf("State(%d)", int32(s))
}

// fileState tracks a single log file. The extracting flag guards against
// a second extraction of the same file.
type fileState struct {
	state      *atomic.Int32
	extracting *atomic.Bool
}

func newFileState() *fileState {
	return &fileState{
		state:      atomic.NewInt32(int32(StateUnknown)),
		extracting: atomic.NewBool(false),
	}
}

func (f *fileState) load() State {
	return State(f.state.Load())
}

func (f *fileState) store(s State) {
	f.state.Store(int32(s))
}

// markStale moves a cached file to stale, other states are left untouched.
func (f *fileState) markStale() {
	f.state.CAS(int32(StateCached), int32(StateStale))
}
